package valuations

import (
	"strings"
	"time"

	"vinpoint/internal/listings"
	"vinpoint/pkg/valuation"
)

// normalMilesPerYear is the age norm used for mileage consistency checks.
const normalMilesPerYear = 12000

// sourceTrust weights known marketplaces by listing data reliability.
// Unknown sources receive defaultSourceTrust.
var sourceTrust = map[string]float64{
	"autotrader": 0.9,
	"cars.com":   0.9,
	"carmax":     0.9,
	"carvana":    0.85,
	"cargurus":   0.85,
	"dealer":     0.8,
	"craigslist": 0.5,
	"facebook":   0.5,
	"ebay":       0.6,
}

const defaultSourceTrust = 0.6

// deriveContext assembles the ancillary evidence signals around the
// comparable pool for confidence scoring.
func deriveContext(
	target valuation.Vehicle,
	comps []listings.Listing,
	photo *valuation.PhotoAssessment,
	decoded bool,
	discovered bool,
) valuation.EvaluationContext {
	evalCtx := valuation.EvaluationContext{
		ExactVINMatch:  exactVINMatch(target.VIN, comps),
		Photo:          photo,
		TrustScore:     trustScore(comps),
		MileagePenalty: mileagePenalty(target),
	}

	if decoded {
		evalCtx.Sources = append(evalCtx.Sources, valuation.SourceVINDecode)
	}
	if discovered {
		evalCtx.Sources = append(evalCtx.Sources, valuation.SourceMarketSearch)
	}

	return evalCtx
}

func exactVINMatch(vin string, comps []listings.Listing) bool {
	if len(vin) != 17 {
		return false
	}
	for _, comp := range comps {
		if comp.VIN != nil && strings.EqualFold(*comp.VIN, vin) {
			return true
		}
	}
	return false
}

// trustScore averages per-source reliability weights across the comparable
// pool. An empty pool scores the default weight; the market depth penalty
// already covers the no-data case.
func trustScore(comps []listings.Listing) float64 {
	if len(comps) == 0 {
		return defaultSourceTrust
	}

	var sum float64
	for _, comp := range comps {
		sum += lookupTrust(comp.Source)
	}
	return sum / float64(len(comps))
}

func lookupTrust(source string) float64 {
	source = strings.ToLower(source)
	for name, weight := range sourceTrust {
		if strings.Contains(source, name) {
			return weight
		}
	}
	return defaultSourceTrust
}

// mileagePenalty measures the reported mileage's deviation from the age norm
// as a fraction in [0, 1]. Unreported mileage yields no penalty; the missing
// signal is handled by recommendations instead.
func mileagePenalty(target valuation.Vehicle) float64 {
	if target.Mileage == nil {
		return 0
	}

	age := time.Now().Year() - target.Year
	if age < 1 {
		age = 1
	}

	expected := float64(age * normalMilesPerYear)
	deviation := float64(*target.Mileage) - expected
	if deviation < 0 {
		deviation = -deviation
	}

	return min(deviation/expected, 1)
}
