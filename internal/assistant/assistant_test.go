package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"

	"vinpoint/internal/intelligence"
	"vinpoint/internal/valuations"
	"vinpoint/pkg/valuation"
)

type stubValuations struct {
	valuations.System
	valuation *valuations.Valuation
}

func (s *stubValuations) Find(_ context.Context, id uuid.UUID) (*valuations.Valuation, error) {
	if s.valuation == nil || s.valuation.ID != id {
		return nil, valuations.ErrNotFound
	}
	return s.valuation, nil
}

type stubIntelligence struct {
	answer string
	err    error
	prompt string
}

func (s *stubIntelligence) GenerateJSON(context.Context, string) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

func (s *stubIntelligence) GenerateText(_ context.Context, prompt string) (string, error) {
	s.prompt = prompt
	return s.answer, s.err
}

func (s *stubIntelligence) AnalyzeImage(context.Context, string, string, []byte) (json.RawMessage, error) {
	return nil, errors.New("not implemented")
}

var _ intelligence.System = (*stubIntelligence)(nil)

func testValuation() *valuations.Valuation {
	mileage := 60000

	return &valuations.Valuation{
		ID:              uuid.New(),
		Year:            2020,
		Make:            "Honda",
		Model:           "Accord",
		Mileage:         &mileage,
		Condition:       valuation.ConditionGood,
		EstimatedValue:  28500,
		ConfidenceScore: 82,
		MedianPrice:     30000,
		PriceLow:        27000,
		PriceHigh:       32000,
		ListingCount:    6,
		Adjustments: []valuation.AdjustmentFactor{
			{Factor: "Mileage Adjustment", Impact: -1500, Description: "above market average"},
		},
		Explanation:     "Solid market data (+15 points).",
		Recommendations: []string{"Add photos for a condition-verified estimate"},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestComposePrompt(t *testing.T) {
	prompt := composePrompt(testValuation(), "Why is the value below the median?")

	for _, want := range []string{
		"2020 Honda Accord",
		"Mileage: 60000",
		"Estimated value: $28500",
		"$27000 to $32000 across 6 comparable listings",
		"Mileage Adjustment: -1500",
		"Confidence: 82/100",
		"Solid market data",
		"Question: Why is the value below the median?",
		"never invent",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestAsk(t *testing.T) {
	v := testValuation()
	intel := &stubIntelligence{answer: "  The mileage adjustment lowered it.  "}

	sys := New(&stubValuations{valuation: v}, intel, testLogger())

	answer, err := sys.Ask(context.Background(), Question{
		ValuationID: v.ID,
		Question:    "Why is the value below the median?",
	})
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}

	if answer.Answer != "The mileage adjustment lowered it." {
		t.Errorf("Answer = %q, want trimmed model output", answer.Answer)
	}
	if answer.ValuationID != v.ID {
		t.Errorf("ValuationID = %s, want %s", answer.ValuationID, v.ID)
	}
	if !strings.Contains(intel.prompt, "2020 Honda Accord") {
		t.Error("prompt did not include valuation context")
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	sys := New(&stubValuations{}, &stubIntelligence{}, testLogger())

	_, err := sys.Ask(context.Background(), Question{ValuationID: uuid.New(), Question: "   "})
	if !errors.Is(err, ErrEmptyQuestion) {
		t.Errorf("Ask = %v, want ErrEmptyQuestion", err)
	}
}

func TestAskUnknownValuation(t *testing.T) {
	sys := New(&stubValuations{}, &stubIntelligence{}, testLogger())

	_, err := sys.Ask(context.Background(), Question{ValuationID: uuid.New(), Question: "anything"})
	if !errors.Is(err, valuations.ErrNotFound) {
		t.Errorf("Ask = %v, want valuations.ErrNotFound", err)
	}
}

func TestAskModelFailure(t *testing.T) {
	v := testValuation()
	intel := &stubIntelligence{err: errors.New("rate limited")}

	sys := New(&stubValuations{valuation: v}, intel, testLogger())

	_, err := sys.Ask(context.Background(), Question{ValuationID: v.ID, Question: "anything"})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Ask = %v, want ErrUnavailable", err)
	}
}
