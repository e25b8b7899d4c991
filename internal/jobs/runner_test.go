package jobs

import (
	"time"

	"sharespot-backend/internal/config"
	"sharespot-backend/internal/payment"
	"sharespot-backend/internal/repository/postgres"
	"sharespot-backend/internal/service"
	"sharespot-backend/internal/settlement"
)

var testNow = time.Date(2017, 6, 15, 12, 0, 0, 0, time.UTC)

type testDeps struct {
	bookings      *MockBookingRepo
	cancellations *MockCancellationRepo
	assessments   *MockAssessmentRepo
	users         *MockUserRepo
	provider      *MockProvider
	notifier      *MockNotifier
}

func newTestRunner() (*JobRunner, *testDeps) {
	deps := &testDeps{
		bookings:      new(MockBookingRepo),
		cancellations: new(MockCancellationRepo),
		assessments:   new(MockAssessmentRepo),
		users:         new(MockUserRepo),
		provider:      new(MockProvider),
		notifier:      new(MockNotifier),
	}
	jr := &JobRunner{
		store: &postgres.Store{
			BookingRepository:      deps.bookings,
			CancellationRepository: deps.cancellations,
			AssessmentRepository:   deps.assessments,
			UserRepository:         deps.users,
		},
		provider:   payment.Provider(deps.provider),
		notifier:   service.NotificationService(deps.notifier),
		config:     &config.Config{},
		thresholds: settlement.DefaultThresholds(),
		now:        func() time.Time { return testNow },
	}
	return jr, deps
}

func tp(t time.Time) *time.Time { return &t }

func idp(id int64) *int64 { return &id }

func daysAgo(days int) time.Time {
	return testNow.Add(-time.Duration(days) * 24 * time.Hour)
}
