// Package valuations implements the valuation domain for vinpoint.
// It orchestrates VIN decoding, market comparable collection, photo evidence,
// and the pricing core, and persists completed valuations.
package valuations

import (
	"time"

	"github.com/google/uuid"

	"vinpoint/pkg/valuation"
)

// Valuation is a persisted valuation result with its full evidence breakdown.
type Valuation struct {
	ID              uuid.UUID                    `json:"id"`
	VehicleID       *uuid.UUID                   `json:"vehicle_id"`
	VIN             *string                      `json:"vin"`
	Year            int                          `json:"year"`
	Make            string                       `json:"make"`
	Model           string                       `json:"model"`
	Trim            *string                      `json:"trim"`
	Mileage         *int                         `json:"mileage"`
	Condition       valuation.Condition          `json:"condition"`
	ZipCode         *string                      `json:"zip_code"`
	AccidentCount   int                          `json:"accident_count"`
	EstimatedValue  float64                      `json:"estimated_value"`
	ConfidenceScore int                          `json:"confidence_score"`
	MedianPrice     float64                      `json:"median_price"`
	MeanPrice       float64                      `json:"mean_price"`
	PriceLow        float64                      `json:"price_low"`
	PriceHigh       float64                      `json:"price_high"`
	ListingCount    int                          `json:"listing_count"`
	Adjustments     []valuation.AdjustmentFactor `json:"adjustments"`
	SubScores       valuation.SubScores          `json:"sub_scores"`
	Explanation     string                       `json:"explanation"`
	Recommendations []string                     `json:"recommendations"`
	CreatedAt       time.Time                    `json:"created_at"`
}

// EvaluateCommand carries the vehicle description for a valuation request.
// Year, Make, and Model may be omitted when VIN is present; the decoded
// attributes fill them in.
type EvaluateCommand struct {
	VIN           string  `json:"vin,omitempty"`
	Year          int     `json:"year,omitempty"`
	Make          string  `json:"make,omitempty"`
	Model         string  `json:"model,omitempty"`
	Trim          *string `json:"trim,omitempty"`
	Mileage       *int    `json:"mileage,omitempty"`
	Condition     string  `json:"condition"`
	ZipCode       string  `json:"zip_code,omitempty"`
	AccidentCount int     `json:"accident_count,omitempty"`
}
