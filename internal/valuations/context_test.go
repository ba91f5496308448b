package valuations

import (
	"math"
	"testing"
	"time"

	"vinpoint/internal/listings"
	"vinpoint/pkg/valuation"
)

func intPtr(v int) *int { return &v }

func strPtr(s string) *string { return &s }

func compListing(source string, vin *string) listings.Listing {
	return listings.Listing{
		Year:   2020,
		Make:   "Honda",
		Model:  "Accord",
		Price:  25000,
		Source: source,
		VIN:    vin,
	}
}

func TestExactVINMatch(t *testing.T) {
	vin := "1HGCM82633A004352"

	tests := []struct {
		name  string
		vin   string
		comps []listings.Listing
		want  bool
	}{
		{
			name:  "match",
			vin:   vin,
			comps: []listings.Listing{compListing("autotrader", strPtr(vin))},
			want:  true,
		},
		{
			name:  "case insensitive",
			vin:   vin,
			comps: []listings.Listing{compListing("autotrader", strPtr("1hgcm82633a004352"))},
			want:  true,
		},
		{
			name:  "no match",
			vin:   vin,
			comps: []listings.Listing{compListing("autotrader", strPtr("5YJ3E1EA7KF317296"))},
			want:  false,
		},
		{
			name:  "comps without vins",
			vin:   vin,
			comps: []listings.Listing{compListing("autotrader", nil)},
			want:  false,
		},
		{
			name:  "short vin never matches",
			vin:   "ABC123",
			comps: []listings.Listing{compListing("autotrader", strPtr("ABC123"))},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exactVINMatch(tt.vin, tt.comps); got != tt.want {
				t.Errorf("exactVINMatch = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrustScore(t *testing.T) {
	comps := []listings.Listing{
		compListing("autotrader", nil),  // 0.9
		compListing("www.carmax.com", nil), // substring match, 0.9
		compListing("craigslist", nil),  // 0.5
		compListing("unknown-site", nil), // default 0.6
	}

	got := trustScore(comps)
	want := (0.9 + 0.9 + 0.5 + 0.6) / 4

	if math.Abs(got-want) > 1e-9 {
		t.Errorf("trustScore = %v, want %v", got, want)
	}
}

func TestTrustScoreEmptyPool(t *testing.T) {
	if got := trustScore(nil); got != defaultSourceTrust {
		t.Errorf("trustScore(nil) = %v, want %v", got, defaultSourceTrust)
	}
}

func TestMileagePenalty(t *testing.T) {
	year := time.Now().Year() - 5

	tests := []struct {
		name    string
		mileage *int
		want    float64
	}{
		{name: "at age norm", mileage: intPtr(5 * normalMilesPerYear), want: 0},
		{name: "half over norm", mileage: intPtr(90000), want: 0.5},
		{name: "half under norm", mileage: intPtr(30000), want: 0.5},
		{name: "capped at one", mileage: intPtr(500000), want: 1},
		{name: "unreported", mileage: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := valuation.Vehicle{
				Year:      year,
				Make:      "Honda",
				Model:     "Accord",
				Mileage:   tt.mileage,
				Condition: valuation.ConditionGood,
			}
			if got := mileagePenalty(target); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("mileagePenalty = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeriveContextSources(t *testing.T) {
	target := valuation.Vehicle{
		Year:      2020,
		Make:      "Honda",
		Model:     "Accord",
		Condition: valuation.ConditionGood,
	}

	evalCtx := deriveContext(target, nil, nil, true, true)

	if len(evalCtx.Sources) != 2 {
		t.Fatalf("Sources = %v, want decode and market search", evalCtx.Sources)
	}
	if evalCtx.Sources[0] != valuation.SourceVINDecode {
		t.Errorf("Sources[0] = %q, want %q", evalCtx.Sources[0], valuation.SourceVINDecode)
	}
	if evalCtx.Sources[1] != valuation.SourceMarketSearch {
		t.Errorf("Sources[1] = %q, want %q", evalCtx.Sources[1], valuation.SourceMarketSearch)
	}

	evalCtx = deriveContext(target, nil, nil, false, false)
	if len(evalCtx.Sources) != 0 {
		t.Errorf("Sources = %v, want empty", evalCtx.Sources)
	}
}

func TestDeriveContextPhotoPassthrough(t *testing.T) {
	target := valuation.Vehicle{
		Year:      2020,
		Make:      "Honda",
		Model:     "Accord",
		Condition: valuation.ConditionGood,
	}
	photo := &valuation.PhotoAssessment{Confidence: 90, ConditionScore: 8.5}

	evalCtx := deriveContext(target, nil, photo, false, false)
	if evalCtx.Photo != photo {
		t.Errorf("Photo = %v, want passthrough of assessment", evalCtx.Photo)
	}
}
