package listings

import (
	"strings"
	"testing"
)

func testCriteria() Criteria {
	return Criteria{Year: 2020, Make: "Honda", Model: "Accord"}
}

func TestDiscoveryPrompts(t *testing.T) {
	prompts := discoveryPrompts(testCriteria())
	if len(prompts) != 2 {
		t.Fatalf("prompts = %d, want 2 without VIN", len(prompts))
	}

	for i, prompt := range prompts {
		if !strings.Contains(prompt, "2020 Honda Accord") {
			t.Errorf("prompt %d missing vehicle subject: %s", i, prompt)
		}
		if !strings.Contains(prompt, "JSON array") {
			t.Errorf("prompt %d missing format instruction", i)
		}
	}
}

func TestDiscoveryPromptsWithVIN(t *testing.T) {
	criteria := testCriteria()
	criteria.VIN = "1HGCM82633A004352"
	criteria.ZipCode = "98101"

	prompts := discoveryPrompts(criteria)
	if len(prompts) != 3 {
		t.Fatalf("prompts = %d, want 3 with VIN", len(prompts))
	}
	if !strings.Contains(prompts[2], "1HGCM82633A004352") {
		t.Errorf("VIN prompt missing VIN: %s", prompts[2])
	}
	for i, prompt := range prompts[:2] {
		if !strings.Contains(prompt, "98101") {
			t.Errorf("prompt %d missing zip code", i)
		}
	}
}

func TestMergeDiscoveredDedupes(t *testing.T) {
	mileage := 45000
	results := [][]discoveredListing{
		{
			{Price: 25000, Mileage: &mileage, Source: "AutoTrader", SourceURL: "https://autotrader.com/listing/1"},
			{Price: 26000, Source: "Cars.com", SourceURL: "https://cars.com/listing/2"},
		},
		{
			// same URL differing only by case collapses with the first
			{Price: 25000, Source: "AutoTrader", SourceURL: "HTTPS://AUTOTRADER.COM/LISTING/1"},
			{Price: 24500, Source: "Craigslist"},
		},
	}

	merged := mergeDiscovered(testCriteria(), results)
	if len(merged) != 3 {
		t.Fatalf("merged = %d, want 3", len(merged))
	}

	first := merged[0]
	if first.Year != 2020 || first.Make != "Honda" || first.Model != "Accord" {
		t.Errorf("criteria not carried onto command: %+v", first)
	}
	if first.Mileage == nil || *first.Mileage != 45000 {
		t.Errorf("Mileage = %v, want 45000", first.Mileage)
	}
}

func TestMergeDiscoveredNoURLDedupesBySourceAndPrice(t *testing.T) {
	results := [][]discoveredListing{
		{{Price: 24500, Source: "Craigslist"}},
		{{Price: 24500, Source: "craigslist"}},
	}

	merged := mergeDiscovered(testCriteria(), results)
	if len(merged) != 1 {
		t.Fatalf("merged = %d, want 1", len(merged))
	}
}

func TestMergeDiscoveredDefaults(t *testing.T) {
	results := [][]discoveredListing{
		{
			{Price: 0, Source: "bogus"},
			{Price: -100, Source: "bogus"},
			{Price: 25000, VIN: "1hgcm82633a004352"},
		},
	}

	merged := mergeDiscovered(testCriteria(), results)
	if len(merged) != 1 {
		t.Fatalf("merged = %d, want 1 (non-positive prices dropped)", len(merged))
	}

	cmd := merged[0]
	if cmd.Source != "market_search" {
		t.Errorf("Source = %q, want market_search default", cmd.Source)
	}
	if cmd.VIN == nil || *cmd.VIN != "1HGCM82633A004352" {
		t.Errorf("VIN = %v, want uppercased 1HGCM82633A004352", cmd.VIN)
	}
}
