// Package listings implements the market comparable domain for vinpoint.
// It provides persistence for observed market listings and AI-backed
// discovery of current listings for a target vehicle.
package listings

import (
	"time"

	"github.com/google/uuid"

	"vinpoint/pkg/valuation"
)

// Listing is one observed market price point for a vehicle.
type Listing struct {
	ID           uuid.UUID `json:"id"`
	Year         int       `json:"year"`
	Make         string    `json:"make"`
	Model        string    `json:"model"`
	Trim         *string   `json:"trim"`
	Price        float64   `json:"price"`
	Mileage      *int      `json:"mileage"`
	Source       string    `json:"source"`
	SourceURL    *string   `json:"source_url"`
	VIN          *string   `json:"vin"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Comparable converts a stored listing into the pricing core's input shape.
func (l Listing) Comparable() valuation.Listing {
	c := valuation.Listing{
		Price:   l.Price,
		Mileage: l.Mileage,
		Source:  l.Source,
		Year:    l.Year,
		Make:    l.Make,
		Model:   l.Model,
	}
	if l.SourceURL != nil {
		c.SourceURL = *l.SourceURL
	}
	if l.VIN != nil {
		c.VIN = *l.VIN
	}
	return c
}

// CreateCommand carries the data needed to record a market listing.
type CreateCommand struct {
	Year      int     `json:"year"`
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Trim      *string `json:"trim"`
	Price     float64 `json:"price"`
	Mileage   *int    `json:"mileage"`
	Source    string  `json:"source"`
	SourceURL *string `json:"source_url"`
	VIN       *string `json:"vin"`
}

// Criteria identifies the target vehicle for discovery and comparable lookup.
type Criteria struct {
	Year    int     `json:"year"`
	Make    string  `json:"make"`
	Model   string  `json:"model"`
	Trim    *string `json:"trim"`
	VIN     string  `json:"vin,omitempty"`
	ZipCode string  `json:"zip_code,omitempty"`
}
