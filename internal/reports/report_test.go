package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"vinpoint/internal/valuations"
	"vinpoint/pkg/valuation"
)

func testValuation() *valuations.Valuation {
	vin := "1HGCM82633A004352"
	mileage := 60000

	return &valuations.Valuation{
		ID:              uuid.New(),
		VIN:             &vin,
		Year:            2020,
		Make:            "Honda",
		Model:           "Accord",
		Mileage:         &mileage,
		Condition:       valuation.ConditionGood,
		AccidentCount:   1,
		EstimatedValue:  28500,
		ConfidenceScore: 82,
		MedianPrice:     30000,
		PriceLow:        27000,
		PriceHigh:       32000,
		ListingCount:    6,
		Adjustments: []valuation.AdjustmentFactor{
			{Factor: "Accident History", Impact: -1500, Description: "1 reported accident"},
		},
		Explanation: "Solid market data (+15 points). Trusted listing sources (+10 points).",
		CreatedAt:   time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}
}

func TestBuildDeclaration(t *testing.T) {
	decl := buildDeclaration(testValuation())

	p, ok := decl.Pages["1"]
	if !ok {
		t.Fatal("declaration missing page 1")
	}
	if len(p.Content.Text) == 0 {
		t.Fatal("page has no text entries")
	}

	var joined strings.Builder
	for _, entry := range p.Content.Text {
		joined.WriteString(entry.Value)
		joined.WriteString("\n")
	}
	text := joined.String()

	for _, want := range []string{
		"Vehicle Valuation Report",
		"2020 Honda Accord",
		"VIN: 1HGCM82633A004352",
		"Mileage: 60000",
		"Estimated Value: $28500",
		"Market Range: $27000 - $32000",
		"Confidence: 82/100",
		"Accident History: -1500 (1 reported accident)",
		"Solid market data",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("declaration missing %q", want)
		}
	}

	// each entry is positioned below the previous one
	for i := 1; i < len(p.Content.Text); i++ {
		if p.Content.Text[i].Dy >= p.Content.Text[i-1].Dy {
			t.Fatalf("entry %d not below entry %d", i, i-1)
		}
	}
}

func TestBuildDeclarationOmitsAbsentFields(t *testing.T) {
	v := testValuation()
	v.VIN = nil
	v.Mileage = nil
	v.Adjustments = nil
	v.Explanation = ""

	decl := buildDeclaration(v)

	for _, entry := range decl.Pages["1"].Content.Text {
		if strings.HasPrefix(entry.Value, "VIN:") {
			t.Errorf("unexpected VIN line %q", entry.Value)
		}
		if entry.Value == "Adjustments" || entry.Value == "Confidence Assessment" {
			t.Errorf("unexpected section heading %q", entry.Value)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		width int
		want  []string
	}{
		{
			name:  "short passes through",
			input: "fits on one line",
			width: 40,
			want:  []string{"fits on one line"},
		},
		{
			name:  "breaks on spaces",
			input: "alpha beta gamma delta",
			width: 11,
			want:  []string{"alpha beta", "gamma delta"},
		},
		{
			name:  "unbreakable run hard-wraps",
			input: "aaaaaaaaaa",
			width: 4,
			want:  []string{"aaaa", "aaaa", "aa"},
		},
		{
			name:  "empty",
			input: "",
			width: 10,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapText(tt.input, tt.width)
			if len(got) != len(tt.want) {
				t.Fatalf("wrapText = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStorageKey(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	want := "reports/11111111-2222-3333-4444-555555555555.pdf"

	if got := storageKey(id); got != want {
		t.Errorf("storageKey = %q, want %q", got, want)
	}
}
