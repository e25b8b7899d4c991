package jobs

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/payment"
)

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListActiveByListing(ctx context.Context, listingID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListExpirable(ctx context.Context, startedBefore, createdBefore time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, startedBefore, createdBefore)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListCapturable(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListTransferable(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListReversible(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) MarkAccepted(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) MarkPaid(ctx context.Context, id int64, authorizationRef string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, authorizationRef, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) MarkConfirmed(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) MarkValidated(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) LinkCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, cancellationID, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) LinkExpiryCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, cancellationID, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepo) MarkPaymentUsed(ctx context.Context, id int64, captureRef string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, captureRef, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) MarkPaymentTransferred(ctx context.Context, id int64, transferRef string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, transferRef, at)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) MarkCancellationPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

// MockCancellationRepo
type MockCancellationRepo struct {
	mock.Mock
}

func (m *MockCancellationRepo) Create(ctx context.Context, c *domain.Cancellation) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}
func (m *MockCancellationRepo) GetByID(ctx context.Context, id int64) (*domain.Cancellation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cancellation), args.Error(1)
}
func (m *MockCancellationRepo) SetRefundDate(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockAssessmentRepo
type MockAssessmentRepo struct {
	mock.Mock
}

func (m *MockAssessmentRepo) GetInputAssessment(ctx context.Context, bookingID int64) (*domain.Assessment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockProvider
type MockProvider struct {
	mock.Mock
}

func (m *MockProvider) Authorize(ctx context.Context, req payment.AuthorizeRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}
func (m *MockProvider) Capture(ctx context.Context, authorizationRef string) (string, error) {
	args := m.Called(ctx, authorizationRef)
	return args.String(0), args.Error(1)
}
func (m *MockProvider) Transfer(ctx context.Context, recipientID string, amountCents int64) (string, error) {
	args := m.Called(ctx, recipientID, amountCents)
	return args.String(0), args.Error(1)
}
func (m *MockProvider) CancelAuthorization(ctx context.Context, authorizationRef string) error {
	args := m.Called(ctx, authorizationRef)
	return args.Error(0)
}
func (m *MockProvider) Refund(ctx context.Context, captureRef string, amountCents int64) (string, error) {
	args := m.Called(ctx, captureRef, amountCents)
	return args.String(0), args.Error(1)
}

// MockNotifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyBookingExpired(ctx context.Context, b *domain.Booking, reason domain.ReasonType) error {
	args := m.Called(ctx, b, reason)
	return args.Error(0)
}
func (m *MockNotifier) NotifyBookingCancelled(ctx context.Context, b *domain.Booking, c *domain.Cancellation) error {
	args := m.Called(ctx, b, c)
	return args.Error(0)
}
