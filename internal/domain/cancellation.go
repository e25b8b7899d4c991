package domain

import (
	"sort"
	"time"
)

// ReasonType classifies why a booking was cancelled. The set is closed:
// values are validated at the boundary and anything else is rejected.
type ReasonType string

const (
	ReasonUserRemoved       ReasonType = "user-removed"
	ReasonListingRemoved    ReasonType = "listing-removed"
	ReasonBookingCancelled  ReasonType = "booking-cancelled"
	ReasonNoAction          ReasonType = "no-action"
	ReasonNoValidation      ReasonType = "no-validation"
	ReasonNoPayment         ReasonType = "no-payment"
	ReasonOutOfStock        ReasonType = "out-of-stock"
	ReasonRejected          ReasonType = "rejected"
	ReasonTakerCancellation ReasonType = "taker-cancellation"
	ReasonAssessmentMissed  ReasonType = "assessment-missed"
	ReasonAssessmentRefused ReasonType = "assessment-refused"
	ReasonOther             ReasonType = "other"
)

var allReasonTypes = map[ReasonType]struct{}{
	ReasonUserRemoved:       {},
	ReasonListingRemoved:    {},
	ReasonBookingCancelled:  {},
	ReasonNoAction:          {},
	ReasonNoValidation:      {},
	ReasonNoPayment:         {},
	ReasonOutOfStock:        {},
	ReasonRejected:          {},
	ReasonTakerCancellation: {},
	ReasonAssessmentMissed:  {},
	ReasonAssessmentRefused: {},
	ReasonOther:             {},
}

// reversibleReasonTypes is the fixed allowlist of reasons for which a captured
// or authorized payment must be given back to the taker. Cancellations for any
// other reason (post-service disputes, taker-side cancellations) keep the
// payment untouched and are resolved manually.
var reversibleReasonTypes = map[ReasonType]struct{}{
	ReasonUserRemoved:      {},
	ReasonListingRemoved:   {},
	ReasonBookingCancelled: {},
	ReasonNoAction:         {},
	ReasonNoValidation:     {},
	ReasonNoPayment:        {},
	ReasonOutOfStock:       {},
	ReasonRejected:         {},
}

func (r ReasonType) Valid() bool {
	_, ok := allReasonTypes[r]
	return ok
}

// Reversible reports whether a cancellation with this reason requires the
// payment to be refunded or the authorization released.
func (r ReasonType) Reversible() bool {
	_, ok := reversibleReasonTypes[r]
	return ok
}

// ReversibleReasonTypes returns the reversal allowlist in a stable order,
// for SQL IN filters.
func ReversibleReasonTypes() []string {
	out := make([]string, 0, len(reversibleReasonTypes))
	for r := range reversibleReasonTypes {
		out = append(out, string(r))
	}
	sort.Strings(out)
	return out
}

// CancellationTrigger identifies who initiated a cancellation.
type CancellationTrigger string

const (
	TriggerAdmin CancellationTrigger = "admin"
	TriggerOwner CancellationTrigger = "owner"
	TriggerTaker CancellationTrigger = "taker"
)

func (t CancellationTrigger) Valid() bool {
	switch t {
	case TriggerAdmin, TriggerOwner, TriggerTaker:
		return true
	}
	return false
}

type Cancellation struct {
	ID          int64               `json:"id"`
	BookingID   int64               `json:"booking_id"`
	ReasonType  ReasonType          `json:"reason_type"`
	Trigger     CancellationTrigger `json:"trigger"`
	RefundDate  *time.Time          `json:"refund_date,omitempty"`
	CreatedDate time.Time           `json:"created_date"`
}
