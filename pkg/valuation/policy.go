package valuation

// Policy consolidates the tunable constants of the pricing core: listing
// sanity bands, adjustment rates, and every confidence bonus, penalty, and
// bound. The values in DefaultPolicy reproduce the reference behavior; none
// of them are verified actuarial truths, so callers may substitute their own.
type Policy struct {
	// Listing validity bands.
	PriceFloor     float64
	PriceCeiling   float64
	MileageCeiling int

	// Minimum valid comparables before a median is considered meaningful.
	MinComparables int

	// Value adjustment rates.
	ConditionMultipliers   map[Condition]float64
	MileageUnitRate        float64 // dollars per 1,000 mi deviation from the comp average
	MileageReportThreshold float64 // adjustments below this magnitude are dropped as noise
	AccidentBasePenalty    float64 // fraction of running value for the first accident
	AccidentStepPenalty    float64 // additional fraction per accident beyond the first

	// Confidence scoring.
	BaseConfidence         int
	ExactVINBonus          int
	VINIdentificationBonus int // VIN confirmed but no market data to match against

	DeepMarketCount    int
	SolidMarketCount   int
	DeepMarketBonus    int
	SolidMarketBonus   int
	ThinMarketBonus    int
	EmptyMarketPenalty int

	PhotoStrongConfidence float64
	PhotoStrongCondition  float64
	PhotoStrongBonus      int
	PhotoWeakConfidence   float64
	PhotoWeakBonus        int

	TrustHighThreshold float64
	TrustHighBonus     int
	TrustGoodThreshold float64
	TrustGoodBonus     int
	TrustLowThreshold  float64
	TrustLowPenalty    int

	SourceBonuses map[string]int

	MileagePenaltyThreshold float64

	VarianceThreshold float64 // price spread over median above which the market disagrees
	VariancePenalty   int

	// Premium override: all premium gates held at once force the score to
	// PremiumScore instead of trusting the additive total.
	PremiumMinListings     int
	PremiumMileagePenalty  float64
	PremiumTrustScore      float64
	PremiumScore           int
	HighQualityMinListings int
	HighQualityTrustScore  float64
	HighQualityMileageMax  float64
	HighQualityFloor       int

	// Final clamp. Some baseline uncertainty always remains and no single
	// signal yields absolute certainty.
	ScoreFloor   int
	ScoreCeiling int
}

// Named data sources that earn provenance bonuses.
const (
	SourceMSRPLookup   = "msrp_db_lookup"
	SourceVINDecode    = "vin_decode"
	SourceFuelCosts    = "eia_fuel_costs"
	SourceMarketSearch = "openai_market_search"
)

// DefaultPolicy returns the reference policy values.
func DefaultPolicy() Policy {
	return Policy{
		PriceFloor:     1000,
		PriceCeiling:   200000,
		MileageCeiling: 500000,

		MinComparables: 3,

		ConditionMultipliers: map[Condition]float64{
			ConditionExcellent: 1.10,
			ConditionGood:      1.00,
			ConditionFair:      0.85,
			ConditionPoor:      0.70,
		},
		MileageUnitRate:        50,
		MileageReportThreshold: 100,
		AccidentBasePenalty:    0.05,
		AccidentStepPenalty:    0.03,

		BaseConfidence:         45,
		ExactVINBonus:          25,
		VINIdentificationBonus: 5,

		DeepMarketCount:    5,
		SolidMarketCount:   3,
		DeepMarketBonus:    20,
		SolidMarketBonus:   15,
		ThinMarketBonus:    8,
		EmptyMarketPenalty: -10,

		PhotoStrongConfidence: 85,
		PhotoStrongCondition:  8,
		PhotoStrongBonus:      15,
		PhotoWeakConfidence:   70,
		PhotoWeakBonus:        8,

		TrustHighThreshold: 0.9,
		TrustHighBonus:     10,
		TrustGoodThreshold: 0.7,
		TrustGoodBonus:     5,
		TrustLowThreshold:  0.3,
		TrustLowPenalty:    -8,

		SourceBonuses: map[string]int{
			SourceMSRPLookup:   4,
			SourceVINDecode:    3,
			SourceFuelCosts:    2,
			SourceMarketSearch: 3,
		},

		MileagePenaltyThreshold: 0.1,

		VarianceThreshold: 0.30,
		VariancePenalty:   5,

		PremiumMinListings:     3,
		PremiumMileagePenalty:  0.05,
		PremiumTrustScore:      0.7,
		PremiumScore:           95,
		HighQualityMinListings: 5,
		HighQualityTrustScore:  0.8,
		HighQualityMileageMax:  0.08,
		HighQualityFloor:       92,

		ScoreFloor:   25,
		ScoreCeiling: 95,
	}
}
