package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"

	"sharespot-backend/internal/jobs"
	"sharespot-backend/internal/logger"
)

// Scheduler manages cron scheduling of the settlement workers
type Scheduler struct {
	cron *cron.Cron
	jobs *jobs.JobRunner
}

// NewScheduler creates a new scheduler with the provided job runner
func NewScheduler(jobRunner *jobs.JobRunner) *Scheduler {
	// Create cron with UTC timezone and seconds precision
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	s := &Scheduler{
		cron: c,
		jobs: jobRunner,
	}

	s.registerJobs()
	return s
}

// registerJobs registers the settlement workers with the cron scheduler
func (s *Scheduler) registerJobs() {
	cfg := s.jobs.Config().Scheduler

	_, err := s.cron.AddFunc(cfg.ExpireBookings, s.jobs.RunExpireBookings)
	if err != nil {
		logger.Error("Failed to register ExpireBookings job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.CapturePayments, s.jobs.RunCapturePayments)
	if err != nil {
		logger.Error("Failed to register CapturePayments job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.TransferPayments, s.jobs.RunTransferPayments)
	if err != nil {
		logger.Error("Failed to register TransferPayments job", "error", err)
	}

	_, err = s.cron.AddFunc(cfg.ReverseCancelledPayments, s.jobs.RunReverseCancelledPayments)
	if err != nil {
		logger.Error("Failed to register ReverseCancelledPayments job", "error", err)
	}

	logger.Info("All settlement jobs registered successfully")
}

// Start begins the cron scheduler
func (s *Scheduler) Start() {
	logger.Info("Starting settlement scheduler...")
	s.cron.Start()
	logger.Info("Settlement scheduler started successfully")
}

// Stop gracefully stops the cron scheduler
func (s *Scheduler) Stop() {
	logger.Info("Stopping settlement scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Settlement scheduler stopped")
}

// IsRunning returns true if the scheduler has registered entries
func (s *Scheduler) IsRunning() bool {
	return len(s.cron.Entries()) > 0
}
