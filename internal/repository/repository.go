package repository

import (
	"context"
	"time"

	"sharespot-backend/internal/domain"
)

// BookingRepository persists bookings. The MarkX methods are conditional
// writes: each one re-states its settlement gate in the WHERE clause and
// reports whether the row was actually updated, so concurrent workers racing
// on the same booking resolve through the database rather than locks. A
// false return with a nil error means the booking was no longer eligible.
type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)

	// ListActiveByListing returns the non-cancelled timed bookings of a
	// listing, the input to capacity evaluation.
	ListActiveByListing(ctx context.Context, listingID int64) ([]domain.Booking, error)

	// Bulk eligibility reads, one per settlement worker. Each mirrors the
	// corresponding settlement gate; workers still re-check the gate per
	// item before acting.
	ListExpirable(ctx context.Context, startedBefore, createdBefore time.Time) ([]domain.Booking, error)
	ListCapturable(ctx context.Context) ([]domain.Booking, error)
	ListTransferable(ctx context.Context) ([]domain.Booking, error)
	ListReversible(ctx context.Context) ([]domain.Booking, error)

	MarkAccepted(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkPaid(ctx context.Context, id int64, authorizationRef string, at time.Time) (bool, error)
	MarkConfirmed(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkValidated(ctx context.Context, id int64, at time.Time) (bool, error)
	LinkCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error)
	// LinkExpiryCancellation is LinkCancellation with the expiry gate in the
	// WHERE clause: it refuses bookings that became accepted-and-paid, or had
	// their payment captured, after the expiry worker's eligibility read.
	LinkExpiryCancellation(ctx context.Context, id, cancellationID int64, at time.Time) (bool, error)
	MarkPaymentUsed(ctx context.Context, id int64, captureRef string, at time.Time) (bool, error)
	MarkPaymentTransferred(ctx context.Context, id int64, transferRef string, at time.Time) (bool, error)
	MarkCancellationPaid(ctx context.Context, id int64, at time.Time) (bool, error)
}

type CancellationRepository interface {
	Create(ctx context.Context, c *domain.Cancellation) error
	GetByID(ctx context.Context, id int64) (*domain.Cancellation, error)
	SetRefundDate(ctx context.Context, id int64, at time.Time) error
}

type ListingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
}

type ListingAvailabilityRepository interface {
	ListByListing(ctx context.Context, listingID int64) ([]domain.ListingAvailability, error)
}

type AssessmentRepository interface {
	// GetInputAssessment returns the input assessment of a booking, or
	// domain.ErrNotFound if none exists.
	GetInputAssessment(ctx context.Context, bookingID int64) (*domain.Assessment, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}
