// Package valuation implements the pricing core for vinpoint: comparable
// aggregation and the adjustment/confidence engine. Both components are pure
// computations over their inputs; data collection, persistence, and transport
// belong to the domain modules that call them.
package valuation

import (
	"errors"
	"fmt"
	"time"
)

// Condition describes the reported physical state of a vehicle.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// ParseCondition validates and normalizes a condition string.
func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor:
		return Condition(s), nil
	}
	return "", fmt.Errorf("%w: unknown condition %q", ErrInvalidVehicle, s)
}

// Validation errors for core inputs.
var (
	ErrInvalidVehicle   = errors.New("invalid vehicle descriptor")
	ErrInsufficientData = errors.New("insufficient comparable data")
)

// Vehicle identifies the subject of a valuation request.
// Mileage is optional; nil means unreported, which skips the mileage
// adjustment and its confidence bonus rather than aborting the computation.
type Vehicle struct {
	VIN           string    `json:"vin,omitempty"`
	Year          int       `json:"year"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Trim          string    `json:"trim,omitempty"`
	Mileage       *int      `json:"mileage,omitempty"`
	Condition     Condition `json:"condition"`
	ZipCode       string    `json:"zip_code,omitempty"`
	AccidentCount int       `json:"accident_count"`
}

// Validate reports whether the descriptor carries enough well-formed data to
// price against. A silently wrong value is worse than a visible refusal, so
// missing required facts are an error rather than a defaulted computation.
func (v *Vehicle) Validate() error {
	if v.Make == "" {
		return fmt.Errorf("%w: make required", ErrInvalidVehicle)
	}
	if v.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidVehicle)
	}
	if v.Year < 1900 || v.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: implausible year %d", ErrInvalidVehicle, v.Year)
	}
	if v.VIN != "" && len(v.VIN) != 17 {
		return fmt.Errorf("%w: VIN must be 17 characters", ErrInvalidVehicle)
	}
	if v.Mileage != nil && *v.Mileage < 0 {
		return fmt.Errorf("%w: negative mileage", ErrInvalidVehicle)
	}
	if v.AccidentCount < 0 {
		return fmt.Errorf("%w: negative accident count", ErrInvalidVehicle)
	}
	if _, err := ParseCondition(string(v.Condition)); err != nil {
		return err
	}
	return nil
}

// Listing is one observed market price point for a comparable vehicle.
type Listing struct {
	Price     float64 `json:"price"`
	Mileage   *int    `json:"mileage,omitempty"`
	SourceURL string  `json:"source_url,omitempty"`
	Source    string  `json:"source,omitempty"`
	VIN       string  `json:"vin,omitempty"`
	Year      int     `json:"year,omitempty"`
	Make      string  `json:"make,omitempty"`
	Model     string  `json:"model,omitempty"`
}

// AggregateResult summarizes the valid comparables for a target vehicle.
// When InsufficientData is set, MedianPrice is zero and the caller must not
// derive a value estimate from this result.
type AggregateResult struct {
	MedianPrice      float64    `json:"median_price"`
	MeanPrice        float64    `json:"mean_price"`
	AverageMileage   float64    `json:"average_mileage"`
	PriceRange       [2]float64 `json:"price_range"`
	ListingCount     int        `json:"listing_count"`
	InsufficientData bool       `json:"insufficient_data"`
}

// AdjustmentFactor is one named, signed dollar delta applied to the base value.
type AdjustmentFactor struct {
	Factor      string  `json:"factor"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
}

// PhotoAssessment carries the result of an AI photo condition analysis.
// Confidence is 0-100; ConditionScore is 0-10.
type PhotoAssessment struct {
	Confidence     float64 `json:"confidence"`
	ConditionScore float64 `json:"condition_score"`
}

// EvaluationContext carries ancillary evidence signals collected around the
// comparable data: whether the subject VIN appeared verbatim in a real
// listing, photo analysis output, the named data sources consulted, an
// aggregate source trust score in [0,1], and a mileage deviation fraction
// in [0,1] relative to the age norm.
type EvaluationContext struct {
	ExactVINMatch  bool             `json:"exact_vin_match"`
	Photo          *PhotoAssessment `json:"photo,omitempty"`
	Sources        []string         `json:"sources"`
	TrustScore     float64          `json:"trust_score"`
	MileagePenalty float64          `json:"mileage_penalty"`
}

// SubScores decomposes confidence into per-dimension signals, each 0-100
// before any weighting. These are descriptive; the headline score is additive.
type SubScores struct {
	VINMatch           int `json:"vin_match"`
	MarketDepth        int `json:"market_depth"`
	PhotoVerification  int `json:"photo_verification"`
	SourceTrust        int `json:"source_trust"`
	MileageConsistency int `json:"mileage_consistency"`
}

// ConfidenceBreakdown is the decomposed confidence result.
type ConfidenceBreakdown struct {
	Score     int       `json:"score"`
	SubScores SubScores `json:"sub_scores"`
	Reasoning []string  `json:"reasoning"`
}

// Explanation joins the reasoning clauses into a single sentence-per-factor
// narrative, in the order the factors were applied.
func (c ConfidenceBreakdown) Explanation() string {
	if len(c.Reasoning) == 0 {
		return ""
	}
	out := ""
	for i, clause := range c.Reasoning {
		if i > 0 {
			out += ". "
		}
		out += clause
	}
	return out + "."
}

// EvaluationResult is the terminal output of a valuation computation.
type EvaluationResult struct {
	EstimatedValue  float64            `json:"estimated_value"`
	Adjustments     []AdjustmentFactor `json:"adjustments"`
	ConfidenceScore int                `json:"confidence_score"`
	Explanation     string             `json:"explanation"`
	Recommendations []string           `json:"recommendations"`
	PriceRange      [2]float64         `json:"price_range"`
	ListingCount    int                `json:"listing_count"`
}
