package domain

import "time"

// BookingStatus is derived from the lifecycle timestamps, never stored.
// The nullable timestamps on Booking are the source of truth; each one marks
// a settlement stage as done and is written exactly once.
type BookingStatus string

const (
	BookingStatusPending     BookingStatus = "PENDING"
	BookingStatusAccepted    BookingStatus = "ACCEPTED"
	BookingStatusPaid        BookingStatus = "PAID"
	BookingStatusConfirmed   BookingStatus = "CONFIRMED"
	BookingStatusCaptured    BookingStatus = "CAPTURED"
	BookingStatusTransferred BookingStatus = "TRANSFERRED"
	BookingStatusCancelled   BookingStatus = "CANCELLED"
	BookingStatusReversed    BookingStatus = "REVERSED"
)

type Booking struct {
	ID        int64 `json:"id"`
	ListingID int64 `json:"listing_id"`
	OwnerID   int64 `json:"owner_id"`
	TakerID   int64 `json:"taker_id"`

	// StartDate and EndDate are nil for no-time (outright purchase) bookings.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	Quantity  int        `json:"quantity"`

	TakerPriceCents int64  `json:"taker_price_cents"`
	OwnerPriceCents int64  `json:"owner_price_cents"`
	Currency        string `json:"currency"`

	AcceptedDate            *time.Time `json:"accepted_date,omitempty"`
	PaidDate                *time.Time `json:"paid_date,omitempty"`
	ConfirmedDate           *time.Time `json:"confirmed_date,omitempty"`
	ValidatedDate           *time.Time `json:"validated_date,omitempty"`
	PaymentUsedDate         *time.Time `json:"payment_used_date,omitempty"`
	PaymentTransferDate     *time.Time `json:"payment_transfer_date,omitempty"`
	CancellationPaymentDate *time.Time `json:"cancellation_payment_date,omitempty"`

	CancellationID      *int64 `json:"cancellation_id,omitempty"`
	StopTransferPayment bool   `json:"stop_transfer_payment"`

	// Payment provider references, set as the corresponding stage runs.
	AuthorizationRef string `json:"authorization_ref,omitempty"`
	CaptureRef       string `json:"capture_ref,omitempty"`
	TransferRef      string `json:"transfer_ref,omitempty"`

	CreatedDate time.Time `json:"created_date"`
	UpdatedDate time.Time `json:"updated_date"`
}

// HasDates reports whether the booking covers a time window. No-time bookings
// (outright sales) have neither date set.
func (b *Booking) HasDates() bool {
	return b.StartDate != nil && b.EndDate != nil
}

func (b *Booking) IsCancelled() bool {
	return b.CancellationID != nil
}

// EffectiveQuantity returns the booked quantity, treating anything below one
// as a single unit.
func (b *Booking) EffectiveQuantity() int {
	if b.Quantity < 1 {
		return 1
	}
	return b.Quantity
}

// Status derives the current lifecycle state from the timestamp combination.
// Used for logging and display only; eligibility decisions always go through
// the settlement gates so that the predicate and the conditional write agree.
func (b *Booking) Status() BookingStatus {
	switch {
	case b.CancellationPaymentDate != nil:
		return BookingStatusReversed
	case b.CancellationID != nil:
		return BookingStatusCancelled
	case b.PaymentTransferDate != nil:
		return BookingStatusTransferred
	case b.PaymentUsedDate != nil:
		return BookingStatusCaptured
	case b.ConfirmedDate != nil && b.ValidatedDate != nil:
		return BookingStatusConfirmed
	case b.PaidDate != nil:
		return BookingStatusPaid
	case b.AcceptedDate != nil:
		return BookingStatusAccepted
	default:
		return BookingStatusPending
	}
}
