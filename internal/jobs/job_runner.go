package jobs

import (
	"time"

	"sharespot-backend/internal/config"
	"sharespot-backend/internal/logger"
	"sharespot-backend/internal/payment"
	"sharespot-backend/internal/repository/postgres"
	"sharespot-backend/internal/service"
	"sharespot-backend/internal/settlement"
)

// JobRunner coordinates the scheduled settlement workers. Each worker is a
// complete, bounded batch: query eligible bookings, act on each one in
// isolation, persist the resulting timestamp, report a summary. Workers
// coordinate only through the persisted booking state, so any of them can
// crash and be rerun without cleanup.
type JobRunner struct {
	store      *postgres.Store
	provider   payment.Provider
	notifier   service.NotificationService
	config     *config.Config
	thresholds settlement.Thresholds

	// now is swapped out in tests to pin the clock.
	now func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *postgres.Store, provider payment.Provider, notifier service.NotificationService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		provider: provider,
		notifier: notifier,
		config:   cfg,
		thresholds: settlement.Thresholds{
			ExpireAfterStart:        time.Duration(cfg.Settlement.ExpireTimedAfterDays) * 24 * time.Hour,
			ExpireAfterCreate:       time.Duration(cfg.Settlement.ExpireNoTimeAfterDays) * 24 * time.Hour,
			TransferAssessmentDelay: time.Duration(cfg.Settlement.TransferAssessmentDelayDays) * 24 * time.Hour,
		},
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Config returns the runner's configuration (used by the scheduler)
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// BookingError records a single booking's failure within a batch.
type BookingError struct {
	BookingID int64
	Err       error
}

// Summary is the result of one worker run: how many bookings were eligible,
// how many completed their stage, and the per-booking failures. Failures
// never abort the batch; the affected bookings stay eligible and are retried
// on the next scheduled run.
type Summary struct {
	Eligible  int
	Processed int
	Errors    []BookingError
}

func (s *Summary) addError(bookingID int64, err error) {
	s.Errors = append(s.Errors, BookingError{BookingID: bookingID, Err: err})
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	log.Info("Starting job")
	jobFunc()
	log.Info("Job completed")
}

func logSummary(jobName string, summary Summary, err error) {
	log := logger.WithJob(jobName)
	if err != nil {
		log.Error("Job aborted before processing", "error", err)
		return
	}
	log.Info("Job summary",
		"eligible", summary.Eligible,
		"processed", summary.Processed,
		"failed", len(summary.Errors))
}

// RunAllSettlementJobs runs every settlement worker once (for manual execution)
func (jr *JobRunner) RunAllSettlementJobs() {
	jr.RunExpireBookings()
	jr.RunCapturePayments()
	jr.RunTransferPayments()
	jr.RunReverseCancelledPayments()
}
