package jobs

import (
	"context"
	"fmt"

	"sharespot-backend/internal/logger"
	"sharespot-backend/internal/settlement"
)

// RunCapturePayments is the scheduler entry point for the payin worker
func (jr *JobRunner) RunCapturePayments() {
	jr.runWithRecovery("CapturePayments", func() {
		summary, err := jr.CapturePayments(context.Background())
		logSummary("CapturePayments", summary, err)
	})
}

// CapturePayments pulls the authorized funds into escrow for every booking
// that is confirmed and validated but not yet captured. A provider failure
// leaves payment_used_date null so the booking is retried on the next run;
// the capture and the timestamp write must both succeed before the booking
// counts as processed.
func (jr *JobRunner) CapturePayments(ctx context.Context) (Summary, error) {
	bookings, err := jr.store.ListCapturable(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list capturable bookings: %w", err)
	}

	summary := Summary{Eligible: len(bookings)}
	for i := range bookings {
		b := &bookings[i]
		if !settlement.CanCapture(b) {
			continue
		}
		log := logger.WithBooking(b.ID)
		if b.AuthorizationRef == "" {
			// paid_date set without an authorization reference is an
			// orphaned record, not a transient condition.
			err := fmt.Errorf("booking %d has no authorization reference", b.ID)
			log.Error("Cannot capture payment", "error", err)
			summary.addError(b.ID, err)
			continue
		}

		captureRef, err := jr.provider.Capture(ctx, b.AuthorizationRef)
		if err != nil {
			log.Error("Payment capture failed",
				"authorization_ref", b.AuthorizationRef,
				"error", err)
			summary.addError(b.ID, err)
			continue
		}

		applied, err := jr.store.MarkPaymentUsed(ctx, b.ID, captureRef, jr.now())
		if err != nil {
			// Funds moved but the timestamp write failed; the next run will
			// retry the capture, so this needs operator attention.
			log.Error("Captured payment but failed to record it",
				"capture_ref", captureRef, "error", err)
			summary.addError(b.ID, err)
			continue
		}
		if !applied {
			err := fmt.Errorf("booking %d captured but no longer eligible; capture %s needs review", b.ID, captureRef)
			log.Error("Capture raced with another state change", "capture_ref", captureRef)
			summary.addError(b.ID, err)
			continue
		}
		summary.Processed++

		log.Info("Payment captured",
			"capture_ref", captureRef,
			"amount_cents", b.TakerPriceCents)
	}
	return summary, nil
}
