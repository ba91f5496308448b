// Package offers implements the dealer offer domain for vinpoint. Offers are
// recorded against a persisted valuation and scored by how they compare to
// the estimated value.
package offers

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a dealer offer.
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusDeclined Status = "declined"
)

// Offer is a dealer's bid on a valued vehicle. Ratio is the offer amount
// divided by the valuation's estimated value, fixed at creation time.
type Offer struct {
	ID          uuid.UUID `json:"id"`
	ValuationID uuid.UUID `json:"valuation_id"`
	DealerName  string    `json:"dealer_name"`
	Amount      float64   `json:"amount"`
	Message     *string   `json:"message"`
	Status      Status    `json:"status"`
	Ratio       float64   `json:"ratio"`
	CreatedAt   time.Time `json:"created_at"`
}

// CreateCommand carries the data needed to record a dealer offer.
type CreateCommand struct {
	ValuationID uuid.UUID `json:"valuation_id"`
	DealerName  string    `json:"dealer_name"`
	Amount      float64   `json:"amount"`
	Message     *string   `json:"message"`
}
