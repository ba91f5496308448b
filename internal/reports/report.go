// Package reports renders persisted valuations into PDF reports and serves
// them from blob storage.
package reports

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"vinpoint/internal/valuations"
)

// Report describes a generated valuation report blob.
type Report struct {
	ValuationID uuid.UUID `json:"valuation_id"`
	StorageKey  string    `json:"storage_key"`
	SizeBytes   int64     `json:"size_bytes"`
	GeneratedAt time.Time `json:"generated_at"`
}

func storageKey(valuationID uuid.UUID) string {
	return fmt.Sprintf("reports/%s.pdf", valuationID)
}

// declaration is the pdfcpu create-from-JSON page description.
type declaration struct {
	Pages map[string]page `json:"pages"`
}

type page struct {
	Content content `json:"content"`
}

type content struct {
	Text []textEntry `json:"text"`
}

type textEntry struct {
	Value  string  `json:"value"`
	Anchor string  `json:"anchor"`
	Dx     float64 `json:"dx"`
	Dy     float64 `json:"dy"`
	Font   font    `json:"font"`
}

type font struct {
	Name string  `json:"name"`
	Size float64 `json:"size"`
}

const (
	fontBody    = "Helvetica"
	fontHeading = "Helvetica-Bold"
	lineHeight  = 16
)

// buildDeclaration lays out the report as a single page of anchored text
// lines: header, vehicle facts, value summary, the adjustment table, and the
// confidence explanation.
func buildDeclaration(v *valuations.Valuation) declaration {
	var lines []line

	lines = append(lines,
		line{text: "Vehicle Valuation Report", heading: true, size: 20},
		line{text: fmt.Sprintf("Generated %s", v.CreatedAt.Format("January 2, 2006"))},
		line{},
		line{text: vehicleTitle(v), heading: true, size: 14},
	)

	if v.VIN != nil {
		lines = append(lines, line{text: fmt.Sprintf("VIN: %s", *v.VIN)})
	}
	if v.Mileage != nil {
		lines = append(lines, line{text: fmt.Sprintf("Mileage: %d", *v.Mileage)})
	}
	lines = append(lines,
		line{text: fmt.Sprintf("Condition: %s", v.Condition)},
		line{text: fmt.Sprintf("Accidents reported: %d", v.AccidentCount)},
		line{},
		line{text: fmt.Sprintf("Estimated Value: $%.0f", v.EstimatedValue), heading: true, size: 16},
		line{text: fmt.Sprintf("Market Range: $%.0f - $%.0f", v.PriceLow, v.PriceHigh)},
		line{text: fmt.Sprintf("Based on %d comparable listings (median $%.0f)", v.ListingCount, v.MedianPrice)},
		line{text: fmt.Sprintf("Confidence: %d/100", v.ConfidenceScore)},
	)

	if len(v.Adjustments) > 0 {
		lines = append(lines, line{}, line{text: "Adjustments", heading: true, size: 14})
		for _, adj := range v.Adjustments {
			lines = append(lines, line{
				text: fmt.Sprintf("%s: %+.0f (%s)", adj.Factor, adj.Impact, adj.Description),
			})
		}
	}

	if v.Explanation != "" {
		lines = append(lines,
			line{},
			line{text: "Confidence Assessment", heading: true, size: 14},
		)
		for _, clause := range wrapText(v.Explanation, 90) {
			lines = append(lines, line{text: clause})
		}
	}

	entries := make([]textEntry, 0, len(lines))
	dy := -40.0
	for _, l := range lines {
		if l.text != "" {
			entries = append(entries, l.entry(dy))
		}
		dy -= lineHeight
	}

	return declaration{
		Pages: map[string]page{
			"1": {Content: content{Text: entries}},
		},
	}
}

type line struct {
	text    string
	heading bool
	size    float64
}

func (l line) entry(dy float64) textEntry {
	name := fontBody
	size := 11.0
	if l.heading {
		name = fontHeading
	}
	if l.size > 0 {
		size = l.size
	}
	return textEntry{
		Value:  l.text,
		Anchor: "tl",
		Dx:     40,
		Dy:     dy,
		Font:   font{Name: name, Size: size},
	}
}

func vehicleTitle(v *valuations.Valuation) string {
	title := fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
	if v.Trim != nil {
		title += " " + *v.Trim
	}
	return title
}

// wrapText splits s into lines at most width characters long, breaking on
// spaces.
func wrapText(s string, width int) []string {
	var out []string
	for len(s) > width {
		cut := width
		for cut > 0 && s[cut] != ' ' {
			cut--
		}
		if cut == 0 {
			cut = width
		}
		out = append(out, s[:cut])
		for cut < len(s) && s[cut] == ' ' {
			cut++
		}
		s = s[cut:]
	}
	if s != "" {
		out = append(out, s)
	}
	return out
}
