package valuation

import (
	"regexp"
	"slices"
	"strings"
)

// sequentialPlaceholder matches synthetic record names like "listing1" or
// "listing2" that mock generators emit in URLs.
var sequentialPlaceholder = regexp.MustCompile(`listing\d+`)

var placeholderFragments = []string{
	"example.com",
	"mock",
	"fake",
	"test",
}

// ValidListing reports whether a listing clears the sanity bands and does not
// look like a placeholder or test record. Listings failing this check are
// excluded from all statistics regardless of price.
func (p Policy) ValidListing(l Listing) bool {
	if l.Price <= p.PriceFloor || l.Price >= p.PriceCeiling {
		return false
	}
	if l.Mileage != nil && (*l.Mileage <= 0 || *l.Mileage >= p.MileageCeiling) {
		return false
	}
	if l.SourceURL != "" && placeholderURL(l.SourceURL) {
		return false
	}
	return true
}

func placeholderURL(url string) bool {
	lower := strings.ToLower(url)
	for _, fragment := range placeholderFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return sequentialPlaceholder.MatchString(lower)
}

// Aggregate filters raw comparables through the validity invariant and
// computes the pricing anchor statistics. Fewer than MinComparables valid
// listings is an expected, recoverable outcome reported via the
// InsufficientData flag, never an error: the caller must treat it as a hard
// stop for value estimation rather than fabricating a value from nothing.
func Aggregate(p Policy, raw []Listing) AggregateResult {
	valid := make([]Listing, 0, len(raw))
	for _, l := range raw {
		if p.ValidListing(l) {
			valid = append(valid, l)
		}
	}

	if len(valid) < p.MinComparables {
		return AggregateResult{
			ListingCount:     len(valid),
			InsufficientData: true,
		}
	}

	prices := make([]float64, len(valid))
	for i, l := range valid {
		prices[i] = l.Price
	}
	slices.Sort(prices)

	var sum float64
	for _, price := range prices {
		sum += price
	}

	// Listings without mileage stay in the price statistics but are excluded
	// from the mileage average.
	var mileageSum float64
	var mileageCount int
	for _, l := range valid {
		if l.Mileage != nil {
			mileageSum += float64(*l.Mileage)
			mileageCount++
		}
	}
	var averageMileage float64
	if mileageCount > 0 {
		averageMileage = mileageSum / float64(mileageCount)
	}

	return AggregateResult{
		MedianPrice:    median(prices),
		MeanPrice:      sum / float64(len(prices)),
		AverageMileage: averageMileage,
		PriceRange:     [2]float64{prices[0], prices[len(prices)-1]},
		ListingCount:   len(valid),
	}
}

// median expects sorted input.
func median(sorted []float64) float64 {
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
