package availability

import (
	"sort"
	"time"

	"sharespot-backend/internal/domain"
)

// capacityEvent is one interval boundary: delta is +quantity when capacity
// gets consumed from that instant on, -quantity when it is released.
// Derived only, never persisted.
type capacityEvent struct {
	date  time.Time
	delta int
}

// BuildTimeline computes the chronological capacity-in-use curve for a
// listing from its bookings, its availability overrides and an optional
// candidate booking, as a sweep line over interval boundaries.
//
// Events falling on the same exact instant are merged by summing their
// deltas, so ordering within one instant cannot matter. The curve is a step
// function: each period's quantity holds from its date until the next
// period's date. A synthetic zero period one day before the first event
// anchors the curve. No events at all yields an empty slice, which callers
// must read as zero usage everywhere.
//
// Instants are compared exactly; day-granularity is the caller's concern.
func BuildTimeline(bookings []domain.Booking, avails []domain.ListingAvailability, candidate *domain.Booking) []domain.AvailabilityPeriod {
	var events []capacityEvent

	// Boundaries are normalized to UTC so that equal instants carrying
	// different locations (request-parsed vs database-scanned dates) land on
	// the same map key below; map lookup compares struct values, not instants.
	addInterval := func(start, end time.Time, qty int) {
		events = append(events,
			capacityEvent{date: start.UTC(), delta: qty},
			capacityEvent{date: end.UTC(), delta: -qty},
		)
	}

	for i := range bookings {
		b := &bookings[i]
		if !b.HasDates() {
			continue
		}
		addInterval(*b.StartDate, *b.EndDate, b.EffectiveQuantity())
	}
	if candidate != nil && candidate.HasDates() {
		addInterval(*candidate.StartDate, *candidate.EndDate, candidate.EffectiveQuantity())
	}
	for i := range avails {
		a := &avails[i]
		qty := a.EffectiveQuantity()
		if a.Available {
			// Extra stock: frees capacity over the interval.
			qty = -qty
		}
		addInterval(a.StartDate, a.EndDate, qty)
	}

	if len(events) == 0 {
		return nil
	}

	// Merge events sharing an exact instant; addition is commutative so the
	// order of same-instant events is irrelevant.
	merged := make(map[time.Time]int, len(events))
	for _, ev := range events {
		merged[ev.date] += ev.delta
	}

	dates := make([]time.Time, 0, len(merged))
	for d := range merged {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	periods := make([]domain.AvailabilityPeriod, 0, len(dates)+1)
	periods = append(periods, domain.AvailabilityPeriod{
		Date:     dates[0].AddDate(0, 0, -1),
		Quantity: 0,
	})

	running := 0
	for _, d := range dates {
		running += merged[d]
		periods = append(periods, domain.AvailabilityPeriod{Date: d, Quantity: running})
	}

	if candidate != nil && candidate.HasDates() {
		tagPeriod(periods, *candidate.StartDate, domain.PeriodStart)
		tagPeriod(periods, *candidate.EndDate, domain.PeriodEnd)
	}
	return periods
}

// tagPeriod marks whatever merged period lands on the exact instant.
func tagPeriod(periods []domain.AvailabilityPeriod, date time.Time, tag string) {
	for i := range periods {
		if periods[i].Date.Equal(date) {
			periods[i].NewPeriod = tag
			return
		}
	}
}

// UsageAt returns the cumulative quantity in use at the given instant, i.e.
// the quantity of the last period whose date is at or before it. An empty
// timeline means zero usage.
func UsageAt(periods []domain.AvailabilityPeriod, at time.Time) int {
	usage := 0
	for i := range periods {
		if periods[i].Date.After(at) {
			break
		}
		usage = periods[i].Quantity
	}
	return usage
}
