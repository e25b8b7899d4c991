package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"sharespot-backend/internal/domain"
)

type mockBookingRepo struct {
	mock.Mock
}

func (m *mockBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListActiveByListing(ctx context.Context, listingID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *mockBookingRepo) ListExpirable(ctx context.Context, startedBefore, createdBefore time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, startedBefore, createdBefore)
	return nil, args.Error(1)
}

func (m *mockBookingRepo) ListCapturable(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *mockBookingRepo) ListTransferable(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *mockBookingRepo) ListReversible(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	return nil, args.Error(1)
}

func (m *mockBookingRepo) MarkAccepted(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) MarkPaid(ctx context.Context, id int64, authorizationRef string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, authorizationRef, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) MarkConfirmed(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) MarkValidated(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) LinkCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, cancellationID, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) LinkExpiryCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, cancellationID, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) MarkPaymentUsed(ctx context.Context, id int64, captureRef string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, captureRef, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) MarkPaymentTransferred(ctx context.Context, id int64, transferRef string, at time.Time) (bool, error) {
	args := m.Called(ctx, id, transferRef, at)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) MarkCancellationPaid(ctx context.Context, id int64, at time.Time) (bool, error) {
	args := m.Called(ctx, id, at)
	return args.Bool(0), args.Error(1)
}

type mockCancellationRepo struct {
	mock.Mock
}

func (m *mockCancellationRepo) Create(ctx context.Context, c *domain.Cancellation) error {
	args := m.Called(ctx, c)
	if args.Error(0) == nil {
		c.ID = 99
	}
	return args.Error(0)
}

func (m *mockCancellationRepo) GetByID(ctx context.Context, id int64) (*domain.Cancellation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cancellation), args.Error(1)
}

func (m *mockCancellationRepo) SetRefundDate(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}

type mockAvailabilityRepo struct {
	mock.Mock
}

func (m *mockAvailabilityRepo) ListByListing(ctx context.Context, listingID int64) ([]domain.ListingAvailability, error) {
	args := m.Called(ctx, listingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ListingAvailability), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) NotifyBookingExpired(ctx context.Context, b *domain.Booking, reason domain.ReasonType) error {
	args := m.Called(ctx, b, reason)
	return args.Error(0)
}

func (m *mockNotifier) NotifyBookingCancelled(ctx context.Context, b *domain.Booking, c *domain.Cancellation) error {
	args := m.Called(ctx, b, c)
	return args.Error(0)
}

type serviceMocks struct {
	bookings      *mockBookingRepo
	cancellations *mockCancellationRepo
	listings      *mockListingRepo
	avails        *mockAvailabilityRepo
	notifier      *mockNotifier
}

func newBookingService() (BookingService, serviceMocks) {
	m := serviceMocks{
		bookings:      &mockBookingRepo{},
		cancellations: &mockCancellationRepo{},
		listings:      &mockListingRepo{},
		avails:        &mockAvailabilityRepo{},
		notifier:      &mockNotifier{},
	}
	svc := NewBookingService(m.bookings, m.cancellations, m.listings, m.avails, m.notifier)
	return svc, m
}

func svcDate(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func svcTimed(start, end time.Time, quantity int) domain.Booking {
	return domain.Booking{StartDate: &start, EndDate: &end, Quantity: quantity}
}

func TestCreateBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("persists a booking that fits the capacity", func(t *testing.T) {
		svc, m := newBookingService()

		m.listings.On("GetByID", ctx, int64(7)).
			Return(&domain.Listing{ID: 7, OwnerID: 3, Quantity: 2}, nil)
		m.bookings.On("ListActiveByListing", ctx, int64(7)).
			Return([]domain.Booking{svcTimed(svcDate(2017, 1, 3), svcDate(2017, 1, 5), 1)}, nil)
		m.avails.On("ListByListing", ctx, int64(7)).
			Return([]domain.ListingAvailability{}, nil)
		m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*domain.Booking).ID = 42
			}).
			Return(nil)

		start := svcDate(2017, 1, 3)
		end := svcDate(2017, 1, 5)
		booking, err := svc.CreateBooking(ctx, CreateBookingRequest{
			ListingID:       7,
			TakerID:         4,
			StartDate:       &start,
			EndDate:         &end,
			Quantity:        1,
			TakerPriceCents: 6000,
			OwnerPriceCents: 4500,
			Currency:        "eur",
		})
		require.NoError(t, err)

		assert.Equal(t, int64(42), booking.ID)
		assert.Equal(t, int64(3), booking.OwnerID, "owner comes from the listing")
		assert.False(t, booking.CreatedDate.IsZero())
	})

	t.Run("rejects a booking that exceeds the capacity", func(t *testing.T) {
		svc, m := newBookingService()

		m.listings.On("GetByID", ctx, int64(7)).
			Return(&domain.Listing{ID: 7, OwnerID: 3, Quantity: 1}, nil)
		m.bookings.On("ListActiveByListing", ctx, int64(7)).
			Return([]domain.Booking{svcTimed(svcDate(2017, 1, 3), svcDate(2017, 1, 5), 1)}, nil)
		m.avails.On("ListByListing", ctx, int64(7)).
			Return([]domain.ListingAvailability{}, nil)

		start := svcDate(2017, 1, 3)
		end := svcDate(2017, 1, 5)
		booking, err := svc.CreateBooking(ctx, CreateBookingRequest{
			ListingID: 7, TakerID: 4, StartDate: &start, EndDate: &end, Quantity: 1,
		})

		assert.ErrorIs(t, err, domain.ErrListingUnavailable)
		assert.Nil(t, booking)
		m.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("zero listing quantity never blocks", func(t *testing.T) {
		svc, m := newBookingService()

		m.listings.On("GetByID", ctx, int64(7)).
			Return(&domain.Listing{ID: 7, OwnerID: 3, Quantity: 0}, nil)
		m.bookings.On("ListActiveByListing", ctx, int64(7)).
			Return([]domain.Booking{
				svcTimed(svcDate(2017, 1, 3), svcDate(2017, 1, 5), 50),
			}, nil)
		m.avails.On("ListByListing", ctx, int64(7)).
			Return([]domain.ListingAvailability{}, nil)
		m.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

		start := svcDate(2017, 1, 3)
		end := svcDate(2017, 1, 5)
		_, err := svc.CreateBooking(ctx, CreateBookingRequest{
			ListingID: 7, TakerID: 4, StartDate: &start, EndDate: &end, Quantity: 10,
		})
		assert.NoError(t, err)
	})

	t.Run("unknown listing fails before any evaluation", func(t *testing.T) {
		svc, m := newBookingService()

		m.listings.On("GetByID", ctx, int64(404)).Return(nil, domain.ErrNotFound)

		_, err := svc.CreateBooking(ctx, CreateBookingRequest{ListingID: 404, TakerID: 4, Quantity: 1})

		assert.ErrorIs(t, err, domain.ErrNotFound)
		m.bookings.AssertNotCalled(t, "ListActiveByListing", mock.Anything, mock.Anything)
	})

	t.Run("malformed interval is rejected", func(t *testing.T) {
		svc, m := newBookingService()

		m.listings.On("GetByID", ctx, int64(7)).
			Return(&domain.Listing{ID: 7, OwnerID: 3, Quantity: 2}, nil)
		m.bookings.On("ListActiveByListing", ctx, int64(7)).
			Return([]domain.Booking{}, nil)
		m.avails.On("ListByListing", ctx, int64(7)).
			Return([]domain.ListingAvailability{}, nil)

		start := svcDate(2017, 1, 5)
		end := svcDate(2017, 1, 3)
		_, err := svc.CreateBooking(ctx, CreateBookingRequest{
			ListingID: 7, TakerID: 4, StartDate: &start, EndDate: &end, Quantity: 1,
		})

		assert.ErrorIs(t, err, domain.ErrInvalidInterval)
		m.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCheckAvailability(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the timeline without persisting", func(t *testing.T) {
		svc, m := newBookingService()

		m.listings.On("GetByID", ctx, int64(7)).
			Return(&domain.Listing{ID: 7, OwnerID: 3, Quantity: 2}, nil)
		m.bookings.On("ListActiveByListing", ctx, int64(7)).
			Return([]domain.Booking{}, nil)
		m.avails.On("ListByListing", ctx, int64(7)).
			Return([]domain.ListingAvailability{}, nil)

		candidate := svcTimed(svcDate(2017, 1, 3), svcDate(2017, 1, 5), 1)
		candidate.ListingID = 7

		result, err := svc.CheckAvailability(ctx, candidate)
		require.NoError(t, err)

		assert.True(t, result.IsAvailable)
		assert.NotEmpty(t, result.Periods)
		m.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCancelBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("records the cancellation and links it", func(t *testing.T) {
		svc, m := newBookingService()

		booking := &domain.Booking{ID: 1, TakerID: 4}
		m.bookings.On("GetByID", ctx, int64(1)).Return(booking, nil)
		m.cancellations.On("Create", ctx, mock.AnythingOfType("*domain.Cancellation")).Return(nil)
		m.bookings.On("LinkCancellation", ctx, int64(1), int64(99), mock.AnythingOfType("time.Time")).Return(true, nil)
		m.notifier.On("NotifyBookingCancelled", ctx, booking, mock.AnythingOfType("*domain.Cancellation")).Return(nil)

		cancellation, err := svc.CancelBooking(ctx, 1, domain.ReasonRejected, domain.TriggerOwner)
		require.NoError(t, err)

		assert.Equal(t, domain.ReasonRejected, cancellation.ReasonType)
		assert.Equal(t, domain.TriggerOwner, cancellation.Trigger)
		m.notifier.AssertExpectations(t)
	})

	t.Run("unknown reason is rejected before any read", func(t *testing.T) {
		svc, m := newBookingService()

		_, err := svc.CancelBooking(ctx, 1, domain.ReasonType("whim"), domain.TriggerOwner)

		assert.ErrorIs(t, err, domain.ErrInvalidReasonType)
		m.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown trigger is rejected before any read", func(t *testing.T) {
		svc, m := newBookingService()

		_, err := svc.CancelBooking(ctx, 1, domain.ReasonRejected, domain.CancellationTrigger("system"))

		assert.ErrorIs(t, err, domain.ErrInvalidTrigger)
		m.bookings.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("already cancelled booking is refused", func(t *testing.T) {
		svc, m := newBookingService()

		cancelled := &domain.Booking{ID: 1}
		cid := int64(5)
		cancelled.CancellationID = &cid
		m.bookings.On("GetByID", ctx, int64(1)).Return(cancelled, nil)

		_, err := svc.CancelBooking(ctx, 1, domain.ReasonRejected, domain.TriggerOwner)

		assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
		m.cancellations.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("losing the link race reports already cancelled", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookings.On("GetByID", ctx, int64(1)).Return(&domain.Booking{ID: 1}, nil)
		m.cancellations.On("Create", ctx, mock.AnythingOfType("*domain.Cancellation")).Return(nil)
		m.bookings.On("LinkCancellation", ctx, int64(1), int64(99), mock.AnythingOfType("time.Time")).Return(false, nil)

		_, err := svc.CancelBooking(ctx, 1, domain.ReasonRejected, domain.TriggerOwner)

		assert.ErrorIs(t, err, domain.ErrAlreadyCancelled)
		m.notifier.AssertNotCalled(t, "NotifyBookingCancelled", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("notification failure does not fail the cancellation", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookings.On("GetByID", ctx, int64(1)).Return(&domain.Booking{ID: 1}, nil)
		m.cancellations.On("Create", ctx, mock.AnythingOfType("*domain.Cancellation")).Return(nil)
		m.bookings.On("LinkCancellation", ctx, int64(1), int64(99), mock.AnythingOfType("time.Time")).Return(true, nil)
		m.notifier.On("NotifyBookingCancelled", ctx, mock.Anything, mock.Anything).Return(assert.AnError)

		cancellation, err := svc.CancelBooking(ctx, 1, domain.ReasonRejected, domain.TriggerOwner)

		assert.NoError(t, err)
		assert.NotNil(t, cancellation)
	})
}

func TestStageSetters(t *testing.T) {
	ctx := context.Background()

	t.Run("accept applies when the booking is still pending", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookings.On("MarkAccepted", ctx, int64(1), mock.AnythingOfType("time.Time")).Return(true, nil)

		applied, err := svc.AcceptBooking(ctx, 1)
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("paid records the authorization reference", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookings.On("MarkPaid", ctx, int64(1), "chrg_auth", mock.AnythingOfType("time.Time")).Return(true, nil)

		applied, err := svc.MarkBookingPaid(ctx, 1, "chrg_auth")
		assert.NoError(t, err)
		assert.True(t, applied)
	})

	t.Run("confirm on a cancelled booking reports not applied", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookings.On("MarkConfirmed", ctx, int64(1), mock.AnythingOfType("time.Time")).Return(false, nil)

		applied, err := svc.ConfirmBooking(ctx, 1)
		assert.NoError(t, err)
		assert.False(t, applied)
	})

	t.Run("validate applies once", func(t *testing.T) {
		svc, m := newBookingService()

		m.bookings.On("MarkValidated", ctx, int64(1), mock.AnythingOfType("time.Time")).Return(true, nil)

		applied, err := svc.ValidateBooking(ctx, 1)
		assert.NoError(t, err)
		assert.True(t, applied)
	})
}
