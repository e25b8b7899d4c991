package service

import (
	"context"

	"sharespot-backend/internal/availability"
	"sharespot-backend/internal/domain"
)

type BookingService interface {
	// CreateBooking runs the capacity check and persists the booking as
	// pending. Returns domain.ErrListingUnavailable when the candidate does
	// not fit.
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error)
	// CheckAvailability runs the evaluator without persisting anything,
	// e.g. to render the capacity timeline.
	CheckAvailability(ctx context.Context, candidate domain.Booking) (availability.Result, error)

	// Conditional stage setters used by the API layer. The bool reports
	// whether the write applied; false means the booking was no longer in
	// the expected state.
	AcceptBooking(ctx context.Context, id int64) (bool, error)
	MarkBookingPaid(ctx context.Context, id int64, authorizationRef string) (bool, error)
	ConfirmBooking(ctx context.Context, id int64) (bool, error)
	ValidateBooking(ctx context.Context, id int64) (bool, error)

	// CancelBooking records a cancellation and links it to the booking. Any
	// payment reversal is left to the reversal worker.
	CancelBooking(ctx context.Context, bookingID int64, reason domain.ReasonType, trigger domain.CancellationTrigger) (*domain.Cancellation, error)
}

type NotificationService interface {
	NotifyBookingExpired(ctx context.Context, b *domain.Booking, reason domain.ReasonType) error
	NotifyBookingCancelled(ctx context.Context, b *domain.Booking, c *domain.Cancellation) error
}
