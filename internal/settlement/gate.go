// Package settlement holds the pure eligibility predicates that gate each
// stage of the payment pipeline. Every predicate reads only nullable "done"
// timestamps; the same conditions are restated in the conditional UPDATE a
// worker issues, so a predicate that was true at read time can still lose the
// race at write time and the write simply applies to zero rows.
package settlement

import (
	"time"

	"sharespot-backend/internal/domain"
)

// Thresholds are the time gates of the pipeline, injected from configuration.
type Thresholds struct {
	// ExpireAfterStart is how long past its start date a timed booking may
	// stay neither accepted nor paid before it expires.
	ExpireAfterStart time.Duration
	// ExpireAfterCreate is the equivalent age for no-time bookings, counted
	// from creation.
	ExpireAfterCreate time.Duration
	// TransferAssessmentDelay is how old the signed input assessment must be
	// before funds are released to the owner.
	TransferAssessmentDelay time.Duration
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		ExpireAfterStart:        3 * 24 * time.Hour,
		ExpireAfterCreate:       7 * 24 * time.Hour,
		TransferAssessmentDelay: 2 * 24 * time.Hour,
	}
}

// ShouldExpire reports whether the booking sat too long without being both
// accepted and paid and must be cancelled.
func ShouldExpire(b *domain.Booking, now time.Time, th Thresholds) bool {
	if b.IsCancelled() {
		return false
	}
	if b.AcceptedDate != nil && b.PaidDate != nil {
		return false
	}
	if b.StartDate != nil {
		return !now.Before(b.StartDate.Add(th.ExpireAfterStart))
	}
	return !now.Before(b.CreatedDate.Add(th.ExpireAfterCreate))
}

// CanCapture reports whether the taker's authorized payment is due to be
// captured: the booking is confirmed and validated and the funds have not
// been taken yet.
func CanCapture(b *domain.Booking) bool {
	return !b.IsCancelled() &&
		b.ConfirmedDate != nil &&
		b.ValidatedDate != nil &&
		b.PaymentUsedDate == nil
}

// CanTransfer reports whether the booking's captured funds may leave escrow,
// looking at booking fields only. The owner-account and assessment-age
// preconditions are checked separately by the worker because their absence
// is a silent skip, not an error.
func CanTransfer(b *domain.Booking) bool {
	return !b.IsCancelled() &&
		!b.StopTransferPayment &&
		b.PaymentUsedDate != nil &&
		b.PaymentTransferDate == nil &&
		b.CancellationPaymentDate == nil
}

// AssessmentReady reports whether the input assessment is signed and the
// signature is old enough for the transfer to proceed.
func AssessmentReady(a *domain.Assessment, now time.Time, th Thresholds) bool {
	if a == nil || a.SignedDate == nil {
		return false
	}
	return !now.Before(a.SignedDate.Add(th.TransferAssessmentDelay))
}

// CanReverse reports whether the cancelled booking's payment must be given
// back: the payment was authorized client-side, no reversal has run yet, the
// funds were never transferred, and the cancellation reason is in the
// reversible allowlist.
func CanReverse(b *domain.Booking, c *domain.Cancellation) bool {
	return b.IsCancelled() &&
		b.PaidDate != nil &&
		b.CancellationPaymentDate == nil &&
		b.PaymentTransferDate == nil &&
		c != nil && c.ReasonType.Reversible()
}

// ClassifyExpiry picks the cancellation reason for an expiring booking. The
// cases are mutually exclusive by construction of ShouldExpire, which never
// fires when the booking is both accepted and paid.
func ClassifyExpiry(b *domain.Booking) domain.ReasonType {
	switch {
	case b.AcceptedDate == nil && b.PaidDate == nil:
		return domain.ReasonNoAction
	case b.AcceptedDate != nil && b.PaidDate == nil:
		return domain.ReasonNoValidation
	default:
		return domain.ReasonNoPayment
	}
}
