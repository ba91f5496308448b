// Package assistant answers natural-language questions about a persisted
// valuation using the intelligence system, with the valuation's evidence
// composed into the prompt.
package assistant

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vinpoint/internal/valuations"
)

// Question is one user question about a valuation.
type Question struct {
	ValuationID uuid.UUID `json:"valuation_id"`
	Question    string    `json:"question"`
}

// Answer is the assistant's response to a question.
type Answer struct {
	ValuationID uuid.UUID `json:"valuation_id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
}

// composePrompt builds the model prompt from the valuation's persisted
// evidence. Everything the assistant may reference comes from this context;
// the instructions forbid invented market data.
func composePrompt(v *valuations.Valuation, question string) string {
	var b strings.Builder

	b.WriteString("You are a vehicle valuation assistant. Answer the user's question ")
	b.WriteString("using only the valuation data below. Be concise and concrete. ")
	b.WriteString("If the data does not support an answer, say so; never invent ")
	b.WriteString("market figures.\n\n")

	b.WriteString("Valuation:\n")
	fmt.Fprintf(&b, "- Vehicle: %d %s %s", v.Year, v.Make, v.Model)
	if v.Trim != nil {
		fmt.Fprintf(&b, " %s", *v.Trim)
	}
	b.WriteString("\n")
	if v.VIN != nil {
		fmt.Fprintf(&b, "- VIN: %s\n", *v.VIN)
	}
	if v.Mileage != nil {
		fmt.Fprintf(&b, "- Mileage: %d\n", *v.Mileage)
	}
	fmt.Fprintf(&b, "- Condition: %s\n", v.Condition)
	fmt.Fprintf(&b, "- Accidents reported: %d\n", v.AccidentCount)
	fmt.Fprintf(&b, "- Estimated value: $%.0f\n", v.EstimatedValue)
	fmt.Fprintf(&b, "- Market range: $%.0f to $%.0f across %d comparable listings\n",
		v.PriceLow, v.PriceHigh, v.ListingCount)
	fmt.Fprintf(&b, "- Median comparable price: $%.0f\n", v.MedianPrice)
	fmt.Fprintf(&b, "- Confidence: %d/100\n", v.ConfidenceScore)

	if len(v.Adjustments) > 0 {
		b.WriteString("- Adjustments applied:\n")
		for _, adj := range v.Adjustments {
			fmt.Fprintf(&b, "  - %s: %+.0f (%s)\n", adj.Factor, adj.Impact, adj.Description)
		}
	}
	if v.Explanation != "" {
		fmt.Fprintf(&b, "- Confidence assessment: %s\n", v.Explanation)
	}
	if len(v.Recommendations) > 0 {
		b.WriteString("- Recommendations already given:\n")
		for _, rec := range v.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
	}

	fmt.Fprintf(&b, "\nQuestion: %s\n", question)

	return b.String()
}
