package jobs

import (
	"context"
	"fmt"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/logger"
	"sharespot-backend/internal/settlement"
)

// RunExpireBookings is the scheduler entry point for the expiry worker
func (jr *JobRunner) RunExpireBookings() {
	jr.runWithRecovery("ExpireBookings", func() {
		summary, err := jr.ExpireBookings(context.Background())
		logSummary("ExpireBookings", summary, err)
	})
}

// ExpireBookings cancels bookings that sat too long without being both
// accepted and paid: 3 days past their start date for timed bookings, 7 days
// past creation for no-time ones (thresholds from config). It only records
// the cancellation; releasing any authorized payment is the reversal
// worker's job, so a failure here can never silently skip a reversal that
// was otherwise due.
func (jr *JobRunner) ExpireBookings(ctx context.Context) (Summary, error) {
	now := jr.now()
	startedBefore := now.Add(-jr.thresholds.ExpireAfterStart)
	createdBefore := now.Add(-jr.thresholds.ExpireAfterCreate)

	bookings, err := jr.store.ListExpirable(ctx, startedBefore, createdBefore)
	if err != nil {
		return Summary{}, fmt.Errorf("list expirable bookings: %w", err)
	}

	summary := Summary{Eligible: len(bookings)}
	for i := range bookings {
		b := &bookings[i]
		if !settlement.ShouldExpire(b, now, jr.thresholds) {
			continue
		}
		log := logger.WithBooking(b.ID)

		reason := settlement.ClassifyExpiry(b)
		cancellation := &domain.Cancellation{
			BookingID:  b.ID,
			ReasonType: reason,
			Trigger:    domain.TriggerAdmin,
		}
		if err := jr.store.CancellationRepository.Create(ctx, cancellation); err != nil {
			log.Error("Failed to create cancellation for expiring booking",
				"reason_type", reason, "error", err)
			summary.addError(b.ID, err)
			continue
		}

		applied, err := jr.store.LinkExpiryCancellation(ctx, b.ID, cancellation.ID, now)
		if err != nil {
			log.Error("Failed to link cancellation",
				"cancellation_id", cancellation.ID, "error", err)
			summary.addError(b.ID, err)
			continue
		}
		if !applied {
			// Another path cancelled, completed or captured the booking first.
			log.Debug("Booking no longer expirable, skipping",
				"cancellation_id", cancellation.ID)
			continue
		}
		summary.Processed++

		log.Info("Booking expired",
			"reason_type", reason,
			"cancellation_id", cancellation.ID)

		if jr.notifier != nil {
			if err := jr.notifier.NotifyBookingExpired(ctx, b, reason); err != nil {
				// Best effort; the expiry itself already committed.
				log.Error("Failed to send expiry notification", "error", err)
			}
		}
	}
	return summary, nil
}
