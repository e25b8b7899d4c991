package domain

import "time"

// Assessment is the input condition report both parties sign at handover.
// The transfer worker only releases funds once the input assessment has been
// signed and the signature has aged past the configured delay.
type Assessment struct {
	ID         int64      `json:"id"`
	BookingID  int64      `json:"booking_id"`
	SignedDate *time.Time `json:"signed_date,omitempty"`
}
