package jobs

import (
	"context"
	"errors"
	"fmt"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/logger"
	"sharespot-backend/internal/settlement"
)

// RunTransferPayments is the scheduler entry point for the transfer worker
func (jr *JobRunner) RunTransferPayments() {
	jr.runWithRecovery("TransferPayments", func() {
		summary, err := jr.TransferPayments(context.Background())
		logSummary("TransferPayments", summary, err)
	})
}

// TransferPayments releases escrowed funds to listing owners once the input
// assessment has been signed and has aged past the configured delay. An
// owner without a receiving account is skipped silently and stays eligible
// until the account exists; a missing assessment row is an orphaned
// reference and reported as that booking's error.
func (jr *JobRunner) TransferPayments(ctx context.Context) (Summary, error) {
	now := jr.now()
	bookings, err := jr.store.ListTransferable(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list transferable bookings: %w", err)
	}

	summary := Summary{Eligible: len(bookings)}
	for i := range bookings {
		b := &bookings[i]
		if !settlement.CanTransfer(b) {
			continue
		}
		log := logger.WithBooking(b.ID)

		owner, err := jr.store.UserRepository.GetByID(ctx, b.OwnerID)
		if err != nil {
			log.Error("Failed to load owner for transfer",
				"owner_id", b.OwnerID, "error", err)
			summary.addError(b.ID, err)
			continue
		}
		if !owner.HasPayoutAccount() {
			// Not an error: the booking stays eligible until the owner
			// registers a receiving account.
			log.Debug("Owner has no payout account yet, skipping transfer",
				"owner_id", b.OwnerID)
			continue
		}

		assessment, err := jr.store.GetInputAssessment(ctx, b.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				err = fmt.Errorf("booking %d has no input assessment", b.ID)
			}
			log.Error("Failed to load input assessment", "error", err)
			summary.addError(b.ID, err)
			continue
		}
		if !settlement.AssessmentReady(assessment, now, jr.thresholds) {
			log.Debug("Input assessment not ready, skipping transfer")
			continue
		}

		transferRef, err := jr.provider.Transfer(ctx, owner.ProviderRecipientID, b.OwnerPriceCents)
		if err != nil {
			log.Error("Payment transfer failed",
				"owner_id", b.OwnerID, "error", err)
			summary.addError(b.ID, err)
			continue
		}

		applied, err := jr.store.MarkPaymentTransferred(ctx, b.ID, transferRef, jr.now())
		if err != nil {
			log.Error("Transferred payment but failed to record it",
				"transfer_ref", transferRef, "error", err)
			summary.addError(b.ID, err)
			continue
		}
		if !applied {
			err := fmt.Errorf("booking %d transferred but no longer eligible; transfer %s needs review", b.ID, transferRef)
			log.Error("Transfer raced with another state change", "transfer_ref", transferRef)
			summary.addError(b.ID, err)
			continue
		}
		summary.Processed++

		log.Info("Payment transferred to owner",
			"owner_id", b.OwnerID,
			"transfer_ref", transferRef,
			"amount_cents", b.OwnerPriceCents)
	}
	return summary, nil
}
