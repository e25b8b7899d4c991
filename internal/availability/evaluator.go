package availability

import (
	"sharespot-backend/internal/domain"
)

// Result is the outcome of a feasibility evaluation: the full capacity
// timeline (for display) plus the yes/no capacity answer.
type Result struct {
	IsAvailable bool                        `json:"is_available"`
	Periods     []domain.AvailabilityPeriod `json:"periods"`
}

// Evaluate decides whether the candidate booking fits given the listing's
// existing bookings and availability overrides.
//
// With a nil maxQuantity the capacity is advisory only and IsAvailable is
// always true; callers use this to render the timeline without a ceiling.
// With a ceiling, a timed candidate fits iff every period whose date falls in
// [start, end) stays at or below maxQuantity. A no-time candidate consumes
// capacity at the single instant of its creation; feasibility reduces to the
// instantaneous total.
//
// Pure: no I/O, inputs are not mutated.
func Evaluate(existing []domain.Booking, avails []domain.ListingAvailability, candidate domain.Booking, maxQuantity *int) (Result, error) {
	if err := validateCandidate(&candidate); err != nil {
		return Result{}, err
	}

	if !candidate.HasDates() {
		periods := BuildTimeline(existing, avails, nil)
		usage := UsageAt(periods, candidate.CreatedDate)
		available := maxQuantity == nil || usage+candidate.EffectiveQuantity() <= *maxQuantity
		return Result{IsAvailable: available, Periods: periods}, nil
	}

	periods := BuildTimeline(existing, avails, &candidate)
	if maxQuantity == nil {
		return Result{IsAvailable: true, Periods: periods}, nil
	}

	start, end := *candidate.StartDate, *candidate.EndDate
	for _, p := range periods {
		if p.Date.Before(start) || !p.Date.Before(end) {
			continue
		}
		if p.Quantity > *maxQuantity {
			return Result{IsAvailable: false, Periods: periods}, nil
		}
	}
	return Result{IsAvailable: true, Periods: periods}, nil
}

func validateCandidate(b *domain.Booking) error {
	// Either both dates or neither; a half-open booking is malformed.
	if (b.StartDate == nil) != (b.EndDate == nil) {
		return domain.ErrInvalidInterval
	}
	if b.HasDates() && !b.EndDate.After(*b.StartDate) {
		return domain.ErrInvalidInterval
	}
	if b.Quantity < 1 {
		return domain.ErrInvalidQuantity
	}
	return nil
}
