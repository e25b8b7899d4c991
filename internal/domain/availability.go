package domain

import "time"

// ListingAvailability is an owner-created override to a listing's nominal
// capacity over an interval. Available=false consumes Quantity units for the
// interval (like a synthetic booking); Available=true frees Quantity units
// (temporary extra stock). Read-only to the settlement engine.
type ListingAvailability struct {
	ID        int64     `json:"id"`
	ListingID int64     `json:"listing_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Quantity  int       `json:"quantity"`
	Available bool      `json:"available"`
}

func (a *ListingAvailability) EffectiveQuantity() int {
	if a.Quantity < 1 {
		return 1
	}
	return a.Quantity
}

// AvailabilityPeriod is one step of the derived capacity-in-use curve:
// Quantity is the cumulative quantity in use at and after Date, until the
// next period's date. NewPeriod tags the periods that fall on the candidate
// booking's exact start and end instants.
type AvailabilityPeriod struct {
	Date      time.Time `json:"date"`
	Quantity  int       `json:"quantity"`
	NewPeriod string    `json:"new_period,omitempty"` // "start", "end" or empty
}

const (
	PeriodStart = "start"
	PeriodEnd   = "end"
)
