package valuations

import (
	"encoding/json"
	"net/url"
	"strconv"

	"vinpoint/pkg/query"
	"vinpoint/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "valuations", "v").
	Project("id", "ID").
	Project("vehicle_id", "VehicleID").
	Project("vin", "VIN").
	Project("year", "Year").
	Project("make", "Make").
	Project("model", "Model").
	Project("trim", "Trim").
	Project("mileage", "Mileage").
	Project("condition", "Condition").
	Project("zip_code", "ZipCode").
	Project("accident_count", "AccidentCount").
	Project("estimated_value", "EstimatedValue").
	Project("confidence_score", "ConfidenceScore").
	Project("median_price", "MedianPrice").
	Project("mean_price", "MeanPrice").
	Project("price_low", "PriceLow").
	Project("price_high", "PriceHigh").
	Project("listing_count", "ListingCount").
	Project("adjustments", "Adjustments").
	Project("sub_scores", "SubScores").
	Project("explanation", "Explanation").
	Project("recommendations", "Recommendations").
	Project("created_at", "CreatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// Filters contains optional filtering criteria for valuation queries.
// Nil fields are ignored. MinConfidence bounds the confidence score
// inclusively from below.
type Filters struct {
	Make          *string `json:"make,omitempty"`
	Model         *string `json:"model,omitempty"`
	Year          *int    `json:"year,omitempty"`
	VIN           *string `json:"vin,omitempty"`
	MinConfidence *int    `json:"min_confidence,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereContains("Make", f.Make).
		WhereContains("Model", f.Model).
		WhereEquals("Year", f.Year).
		WhereEquals("VIN", f.VIN).
		WhereGreaterOrEqual("ConfidenceScore", f.MinConfidence)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if m := values.Get("make"); m != "" {
		f.Make = &m
	}
	if m := values.Get("model"); m != "" {
		f.Model = &m
	}
	if y := values.Get("year"); y != "" {
		if v, err := strconv.Atoi(y); err == nil {
			f.Year = &v
		}
	}
	if v := values.Get("vin"); v != "" {
		f.VIN = &v
	}
	if c := values.Get("min_confidence"); c != "" {
		if v, err := strconv.Atoi(c); err == nil {
			f.MinConfidence = &v
		}
	}

	return f
}

// scanValuation scans a valuation row, unmarshaling the JSONB evidence
// columns into their typed forms.
func scanValuation(s repository.Scanner) (Valuation, error) {
	var v Valuation
	var adjustments, subScores, recommendations []byte

	err := s.Scan(
		&v.ID,
		&v.VehicleID,
		&v.VIN,
		&v.Year,
		&v.Make,
		&v.Model,
		&v.Trim,
		&v.Mileage,
		&v.Condition,
		&v.ZipCode,
		&v.AccidentCount,
		&v.EstimatedValue,
		&v.ConfidenceScore,
		&v.MedianPrice,
		&v.MeanPrice,
		&v.PriceLow,
		&v.PriceHigh,
		&v.ListingCount,
		&adjustments,
		&subScores,
		&v.Explanation,
		&recommendations,
		&v.CreatedAt,
	)
	if err != nil {
		return v, err
	}

	if err := json.Unmarshal(adjustments, &v.Adjustments); err != nil {
		return v, err
	}
	if err := json.Unmarshal(subScores, &v.SubScores); err != nil {
		return v, err
	}
	if err := json.Unmarshal(recommendations, &v.Recommendations); err != nil {
		return v, err
	}

	return v, nil
}
