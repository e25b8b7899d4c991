package domain

import "time"

type Listing struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	Name    string `json:"name"`
	// Quantity is the capacity ceiling used by the availability evaluator.
	// Zero means unlimited stock: feasibility checks always pass.
	Quantity    int       `json:"quantity"`
	CreatedDate time.Time `json:"created_date"`
}
