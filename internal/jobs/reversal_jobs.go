package jobs

import (
	"context"
	"errors"
	"fmt"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/logger"
	"sharespot-backend/internal/settlement"
)

// RunReverseCancelledPayments is the scheduler entry point for the reversal worker
func (jr *JobRunner) RunReverseCancelledPayments() {
	jr.runWithRecovery("ReverseCancelledPayments", func() {
		summary, err := jr.ReverseCancelledPayments(context.Background())
		logSummary("ReverseCancelledPayments", summary, err)
	})
}

// ReverseCancelledPayments gives the taker their money back for bookings
// cancelled with a reversible reason: a refund when the payment was already
// captured, a release of the authorization hold otherwise. Bookings
// cancelled for non-reversible reasons keep their payment untouched and are
// resolved manually.
func (jr *JobRunner) ReverseCancelledPayments(ctx context.Context) (Summary, error) {
	bookings, err := jr.store.ListReversible(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list reversible bookings: %w", err)
	}

	summary := Summary{Eligible: len(bookings)}
	for i := range bookings {
		b := &bookings[i]
		if b.CancellationID == nil {
			continue
		}
		log := logger.WithBooking(b.ID)

		cancellation, err := jr.store.CancellationRepository.GetByID(ctx, *b.CancellationID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				err = fmt.Errorf("booking %d references missing cancellation %d", b.ID, *b.CancellationID)
			}
			log.Error("Failed to load cancellation",
				"cancellation_id", *b.CancellationID, "error", err)
			summary.addError(b.ID, err)
			continue
		}
		if !settlement.CanReverse(b, cancellation) {
			continue
		}

		if b.PaymentUsedDate != nil {
			// Funds already in escrow: refund the taker.
			if _, err := jr.provider.Refund(ctx, b.CaptureRef, b.TakerPriceCents); err != nil {
				log.Error("Payment refund failed",
					"capture_ref", b.CaptureRef, "error", err)
				summary.addError(b.ID, err)
				continue
			}
		} else {
			// Never captured: just release the authorization hold.
			if err := jr.provider.CancelAuthorization(ctx, b.AuthorizationRef); err != nil {
				log.Error("Authorization release failed",
					"authorization_ref", b.AuthorizationRef, "error", err)
				summary.addError(b.ID, err)
				continue
			}
		}

		now := jr.now()
		applied, err := jr.store.MarkCancellationPaid(ctx, b.ID, now)
		if err != nil {
			log.Error("Reversed payment but failed to record it", "error", err)
			summary.addError(b.ID, err)
			continue
		}
		if !applied {
			err := fmt.Errorf("booking %d reversed but no longer eligible; needs review", b.ID)
			log.Error("Reversal raced with another state change")
			summary.addError(b.ID, err)
			continue
		}
		summary.Processed++

		if err := jr.store.SetRefundDate(ctx, cancellation.ID, now); err != nil {
			// The booking-side timestamp is authoritative; this is audit data.
			log.Error("Failed to stamp cancellation refund date",
				"cancellation_id", cancellation.ID, "error", err)
		}

		log.Info("Cancelled payment reversed",
			"cancellation_id", cancellation.ID,
			"reason_type", cancellation.ReasonType,
			"captured", b.PaymentUsedDate != nil)
	}
	return summary, nil
}
