package service

import (
	"context"
	"fmt"
	"time"

	"sharespot-backend/internal/availability"
	"sharespot-backend/internal/domain"
	"sharespot-backend/internal/logger"
	"sharespot-backend/internal/repository"
)

type bookingService struct {
	bookingRepo      repository.BookingRepository
	cancellationRepo repository.CancellationRepository
	listingRepo      repository.ListingRepository
	availabilityRepo repository.ListingAvailabilityRepository
	notifier         NotificationService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	cancellationRepo repository.CancellationRepository,
	listingRepo repository.ListingRepository,
	availabilityRepo repository.ListingAvailabilityRepository,
	notifier NotificationService,
) BookingService {
	return &bookingService{
		bookingRepo:      bookingRepo,
		cancellationRepo: cancellationRepo,
		listingRepo:      listingRepo,
		availabilityRepo: availabilityRepo,
		notifier:         notifier,
	}
}

type CreateBookingRequest struct {
	ListingID int64
	TakerID   int64
	// StartDate and EndDate are nil for no-time purchases.
	StartDate       *time.Time
	EndDate         *time.Time
	Quantity        int
	TakerPriceCents int64
	OwnerPriceCents int64
	Currency        string
}

func (s *bookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	listing, err := s.listingRepo.GetByID(ctx, req.ListingID)
	if err != nil {
		return nil, fmt.Errorf("load listing %d: %w", req.ListingID, err)
	}

	candidate := domain.Booking{
		ListingID:       req.ListingID,
		OwnerID:         listing.OwnerID,
		TakerID:         req.TakerID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		Quantity:        req.Quantity,
		TakerPriceCents: req.TakerPriceCents,
		OwnerPriceCents: req.OwnerPriceCents,
		Currency:        req.Currency,
		CreatedDate:     time.Now().UTC(),
	}

	result, err := s.evaluateCandidate(ctx, listing, candidate)
	if err != nil {
		return nil, err
	}
	if !result.IsAvailable {
		return nil, domain.ErrListingUnavailable
	}

	if err := s.bookingRepo.Create(ctx, &candidate); err != nil {
		return nil, fmt.Errorf("persist booking: %w", err)
	}
	logger.Info("Booking created",
		"booking_id", candidate.ID,
		"listing_id", candidate.ListingID,
		"quantity", candidate.Quantity)
	return &candidate, nil
}

func (s *bookingService) CheckAvailability(ctx context.Context, candidate domain.Booking) (availability.Result, error) {
	listing, err := s.listingRepo.GetByID(ctx, candidate.ListingID)
	if err != nil {
		return availability.Result{}, fmt.Errorf("load listing %d: %w", candidate.ListingID, err)
	}
	if candidate.CreatedDate.IsZero() {
		candidate.CreatedDate = time.Now().UTC()
	}
	return s.evaluateCandidate(ctx, listing, candidate)
}

func (s *bookingService) evaluateCandidate(ctx context.Context, listing *domain.Listing, candidate domain.Booking) (availability.Result, error) {
	existing, err := s.bookingRepo.ListActiveByListing(ctx, listing.ID)
	if err != nil {
		return availability.Result{}, fmt.Errorf("load listing bookings: %w", err)
	}
	avails, err := s.availabilityRepo.ListByListing(ctx, listing.ID)
	if err != nil {
		return availability.Result{}, fmt.Errorf("load listing availabilities: %w", err)
	}

	// Zero listing quantity means unlimited stock: no ceiling applies.
	var maxQuantity *int
	if listing.Quantity > 0 {
		maxQuantity = &listing.Quantity
	}
	return availability.Evaluate(existing, avails, candidate, maxQuantity)
}

func (s *bookingService) AcceptBooking(ctx context.Context, id int64) (bool, error) {
	return s.bookingRepo.MarkAccepted(ctx, id, time.Now().UTC())
}

func (s *bookingService) MarkBookingPaid(ctx context.Context, id int64, authorizationRef string) (bool, error) {
	return s.bookingRepo.MarkPaid(ctx, id, authorizationRef, time.Now().UTC())
}

func (s *bookingService) ConfirmBooking(ctx context.Context, id int64) (bool, error) {
	return s.bookingRepo.MarkConfirmed(ctx, id, time.Now().UTC())
}

func (s *bookingService) ValidateBooking(ctx context.Context, id int64) (bool, error) {
	return s.bookingRepo.MarkValidated(ctx, id, time.Now().UTC())
}

func (s *bookingService) CancelBooking(ctx context.Context, bookingID int64, reason domain.ReasonType, trigger domain.CancellationTrigger) (*domain.Cancellation, error) {
	if !reason.Valid() {
		return nil, domain.ErrInvalidReasonType
	}
	if !trigger.Valid() {
		return nil, domain.ErrInvalidTrigger
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("load booking %d: %w", bookingID, err)
	}
	if booking.IsCancelled() {
		return nil, domain.ErrAlreadyCancelled
	}

	cancellation := &domain.Cancellation{
		BookingID:  bookingID,
		ReasonType: reason,
		Trigger:    trigger,
	}
	if err := s.cancellationRepo.Create(ctx, cancellation); err != nil {
		return nil, fmt.Errorf("persist cancellation: %w", err)
	}

	applied, err := s.bookingRepo.LinkCancellation(ctx, bookingID, cancellation.ID, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("link cancellation: %w", err)
	}
	if !applied {
		// Lost the race against another cancellation path; the unlinked row
		// stays behind as an audit trace.
		logger.Warn("Booking already cancelled concurrently",
			"booking_id", bookingID,
			"cancellation_id", cancellation.ID)
		return nil, domain.ErrAlreadyCancelled
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyBookingCancelled(ctx, booking, cancellation); err != nil {
			logger.Error("Failed to send cancellation notification",
				"booking_id", bookingID, "error", err)
		}
	}

	logger.Info("Booking cancelled",
		"booking_id", bookingID,
		"cancellation_id", cancellation.ID,
		"reason_type", cancellation.ReasonType,
		"trigger", cancellation.Trigger)
	return cancellation, nil
}
