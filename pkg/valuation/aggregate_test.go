package valuation_test

import (
	"testing"

	"vinpoint/pkg/valuation"
)

func intPtr(v int) *int { return &v }

func TestValidListing(t *testing.T) {
	policy := valuation.DefaultPolicy()

	tests := []struct {
		name    string
		listing valuation.Listing
		valid   bool
	}{
		{
			name:    "in band",
			listing: valuation.Listing{Price: 24500, Mileage: intPtr(42000), SourceURL: "https://www.autotrader.com/cars/12345"},
			valid:   true,
		},
		{
			name:    "price at floor",
			listing: valuation.Listing{Price: 1000},
			valid:   false,
		},
		{
			name:    "price below floor",
			listing: valuation.Listing{Price: 500},
			valid:   false,
		},
		{
			name:    "price at ceiling",
			listing: valuation.Listing{Price: 200000},
			valid:   false,
		},
		{
			name:    "zero mileage",
			listing: valuation.Listing{Price: 24500, Mileage: intPtr(0)},
			valid:   false,
		},
		{
			name:    "implausible mileage",
			listing: valuation.Listing{Price: 24500, Mileage: intPtr(600000)},
			valid:   false,
		},
		{
			name:    "nil mileage allowed",
			listing: valuation.Listing{Price: 24500},
			valid:   true,
		},
		{
			name:    "example.com placeholder",
			listing: valuation.Listing{Price: 24500, SourceURL: "https://example.com/listing"},
			valid:   false,
		},
		{
			name:    "mock fragment",
			listing: valuation.Listing{Price: 24500, SourceURL: "https://cars.mocksite.io/1"},
			valid:   false,
		},
		{
			name:    "sequential placeholder name",
			listing: valuation.Listing{Price: 24500, SourceURL: "https://dealer.com/listing3"},
			valid:   false,
		},
		{
			name:    "empty url allowed",
			listing: valuation.Listing{Price: 24500},
			valid:   true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := policy.ValidListing(tc.listing); got != tc.valid {
				t.Errorf("ValidListing() = %v, want %v", got, tc.valid)
			}
		})
	}
}

func TestAggregateMedian(t *testing.T) {
	policy := valuation.DefaultPolicy()

	tests := []struct {
		name       string
		prices     []float64
		wantMedian float64
		wantMean   float64
		wantRange  [2]float64
	}{
		{
			name:       "odd count",
			prices:     []float64{31000, 28000, 30000},
			wantMedian: 30000,
			wantMean:   29666.666666666668,
			wantRange:  [2]float64{28000, 31000},
		},
		{
			name:       "even count averages middle pair",
			prices:     []float64{20000, 26000, 24000, 22000},
			wantMedian: 23000,
			wantMean:   23000,
			wantRange:  [2]float64{20000, 26000},
		},
		{
			name:       "unsorted input",
			prices:     []float64{45000, 15000, 30000, 29000, 31000},
			wantMedian: 30000,
			wantMean:   30000,
			wantRange:  [2]float64{15000, 45000},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			listings := make([]valuation.Listing, len(tc.prices))
			for i, price := range tc.prices {
				listings[i] = valuation.Listing{Price: price}
			}

			agg := valuation.Aggregate(policy, listings)

			if agg.InsufficientData {
				t.Fatal("unexpected insufficient data")
			}
			if agg.MedianPrice != tc.wantMedian {
				t.Errorf("MedianPrice = %v, want %v", agg.MedianPrice, tc.wantMedian)
			}
			if agg.MeanPrice != tc.wantMean {
				t.Errorf("MeanPrice = %v, want %v", agg.MeanPrice, tc.wantMean)
			}
			if agg.PriceRange != tc.wantRange {
				t.Errorf("PriceRange = %v, want %v", agg.PriceRange, tc.wantRange)
			}
			if agg.ListingCount != len(tc.prices) {
				t.Errorf("ListingCount = %d, want %d", agg.ListingCount, len(tc.prices))
			}
		})
	}
}

func TestAggregateInsufficientData(t *testing.T) {
	policy := valuation.DefaultPolicy()

	tests := []struct {
		name         string
		listings     []valuation.Listing
		insufficient bool
		wantCount    int
	}{
		{
			name:         "no listings",
			listings:     nil,
			insufficient: true,
			wantCount:    0,
		},
		{
			name: "two valid listings",
			listings: []valuation.Listing{
				{Price: 20000},
				{Price: 22000},
			},
			insufficient: true,
			wantCount:    2,
		},
		{
			name: "three valid listings clears the gate",
			listings: []valuation.Listing{
				{Price: 20000},
				{Price: 22000},
				{Price: 24000},
			},
			insufficient: false,
			wantCount:    3,
		},
		{
			name: "placeholders do not count toward the gate",
			listings: []valuation.Listing{
				{Price: 20000},
				{Price: 22000},
				{Price: 24000, SourceURL: "https://example.com/car"},
			},
			insufficient: true,
			wantCount:    2,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			agg := valuation.Aggregate(policy, tc.listings)

			if agg.InsufficientData != tc.insufficient {
				t.Errorf("InsufficientData = %v, want %v", agg.InsufficientData, tc.insufficient)
			}
			if agg.ListingCount != tc.wantCount {
				t.Errorf("ListingCount = %d, want %d", agg.ListingCount, tc.wantCount)
			}
			if tc.insufficient && agg.MedianPrice != 0 {
				t.Errorf("MedianPrice = %v, want 0 on insufficient data", agg.MedianPrice)
			}
		})
	}
}

func TestAggregateMileageAverage(t *testing.T) {
	policy := valuation.DefaultPolicy()

	listings := []valuation.Listing{
		{Price: 20000, Mileage: intPtr(40000)},
		{Price: 22000, Mileage: intPtr(60000)},
		{Price: 24000}, // no mileage reported
	}

	agg := valuation.Aggregate(policy, listings)

	if agg.InsufficientData {
		t.Fatal("unexpected insufficient data")
	}
	if agg.AverageMileage != 50000 {
		t.Errorf("AverageMileage = %v, want 50000 (nil mileage excluded)", agg.AverageMileage)
	}
	if agg.ListingCount != 3 {
		t.Errorf("ListingCount = %d, want 3 (nil mileage keeps price weight)", agg.ListingCount)
	}
}
