package valuation_test

import (
	"errors"
	"strings"
	"testing"

	"vinpoint/pkg/valuation"
)

func testVehicle() valuation.Vehicle {
	return valuation.Vehicle{
		VIN:       "1HGCM82633A004352",
		Year:      2020,
		Make:      "Honda",
		Model:     "Accord",
		Mileage:   intPtr(60000),
		Condition: valuation.ConditionGood,
	}
}

func testAggregate() valuation.AggregateResult {
	return valuation.AggregateResult{
		MedianPrice:    30000,
		MeanPrice:      30000,
		AverageMileage: 60000,
		PriceRange:     [2]float64{28000, 32000},
		ListingCount:   5,
	}
}

func TestEvaluateAdjustmentSequence(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	vehicle := testVehicle()
	vehicle.Condition = valuation.ConditionFair
	vehicle.Mileage = intPtr(80000)
	vehicle.AccidentCount = 1

	result, err := engine.Evaluate(vehicle, testAggregate(), valuation.EvaluationContext{TrustScore: 0.5})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// fair condition: 30000 * -0.15 = -4500 -> 25500
	// mileage: 20000 mi over average -> -1000 -> 24500
	// accident: 24500 * -0.05 = -1225 -> 23275
	want := []struct {
		factor string
		impact float64
	}{
		{"Condition Adjustment", -4500},
		{"Mileage Adjustment", -1000},
		{"Accident History", -1225},
	}

	if len(result.Adjustments) != len(want) {
		t.Fatalf("got %d adjustments, want %d: %+v", len(result.Adjustments), len(want), result.Adjustments)
	}
	for i, w := range want {
		got := result.Adjustments[i]
		if got.Factor != w.factor {
			t.Errorf("adjustment[%d].Factor = %q, want %q", i, got.Factor, w.factor)
		}
		if got.Impact != w.impact {
			t.Errorf("adjustment[%d].Impact = %v, want %v", i, got.Impact, w.impact)
		}
	}

	if result.EstimatedValue != 23275 {
		t.Errorf("EstimatedValue = %v, want 23275", result.EstimatedValue)
	}

	// The breakdown must reconcile: base plus every reported impact equals
	// the final value exactly.
	total := testAggregate().MedianPrice
	for _, adj := range result.Adjustments {
		total += adj.Impact
	}
	if total != result.EstimatedValue {
		t.Errorf("median + impacts = %v, want %v", total, result.EstimatedValue)
	}
}

func TestEvaluateNoiseMileageOmitted(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	// 1,000 mi over average is a $50 delta, below the reporting threshold:
	// the estimate and the adjustment list must both ignore it.
	vehicle := testVehicle()
	vehicle.Mileage = intPtr(61000)

	result, err := engine.Evaluate(vehicle, testAggregate(), valuation.EvaluationContext{TrustScore: 0.5})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if len(result.Adjustments) != 0 {
		t.Errorf("got adjustments %+v, want none", result.Adjustments)
	}
	if result.EstimatedValue != 30000 {
		t.Errorf("EstimatedValue = %v, want 30000", result.EstimatedValue)
	}
}

func TestEvaluateAccidentCompounds(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	vehicle := testVehicle()
	vehicle.Condition = valuation.ConditionExcellent
	vehicle.AccidentCount = 2

	result, err := engine.Evaluate(vehicle, testAggregate(), valuation.EvaluationContext{TrustScore: 0.5})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	// excellent: +3000 -> 33000; two accidents: 33000 * -0.08 = -2640.
	// The accident penalty compounds on the condition-adjusted value, not
	// the raw median.
	if result.EstimatedValue != 30360 {
		t.Errorf("EstimatedValue = %v, want 30360", result.EstimatedValue)
	}
}

func TestEvaluateInsufficientData(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	agg := valuation.AggregateResult{ListingCount: 2, InsufficientData: true}

	_, err := engine.Evaluate(testVehicle(), agg, valuation.EvaluationContext{})
	if !errors.Is(err, valuation.ErrInsufficientData) {
		t.Errorf("Evaluate() error = %v, want ErrInsufficientData", err)
	}
}

func TestEvaluateInvalidVehicle(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	vehicle := testVehicle()
	vehicle.Model = ""

	_, err := engine.Evaluate(vehicle, testAggregate(), valuation.EvaluationContext{})
	if !errors.Is(err, valuation.ErrInvalidVehicle) {
		t.Errorf("Evaluate() error = %v, want ErrInvalidVehicle", err)
	}
}

func TestScorePremiumOverride(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	evalCtx := valuation.EvaluationContext{
		ExactVINMatch:  true,
		Photo:          &valuation.PhotoAssessment{Confidence: 90, ConditionScore: 9},
		Sources:        []string{valuation.SourceMSRPLookup, valuation.SourceVINDecode, valuation.SourceFuelCosts, valuation.SourceMarketSearch},
		TrustScore:     0.85,
		MileagePenalty: 0.02,
	}

	breakdown := engine.Score(testAggregate(), evalCtx)

	if breakdown.Score != 95 {
		t.Errorf("Score = %d, want 95 (premium override)", breakdown.Score)
	}

	// Same inputs, same score, every time.
	for range 5 {
		if again := engine.Score(testAggregate(), evalCtx); again.Score != breakdown.Score {
			t.Fatalf("Score not deterministic: %d vs %d", again.Score, breakdown.Score)
		}
	}
}

func TestScoreHighQualityFloor(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	// Deep trusted market with consistent mileage but no VIN match and no
	// photos: 45 + 20 + 5 = 70 additively, raised to the floor.
	evalCtx := valuation.EvaluationContext{
		TrustScore:     0.85,
		MileagePenalty: 0.02,
	}

	breakdown := engine.Score(testAggregate(), evalCtx)
	if breakdown.Score != 92 {
		t.Errorf("Score = %d, want 92 (high-quality floor)", breakdown.Score)
	}
}

func TestScoreBounds(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	t.Run("floor", func(t *testing.T) {
		// 45 - 10 (no listings) - 8 (low trust) - 50 (mileage) = -23.
		evalCtx := valuation.EvaluationContext{
			TrustScore:     0.1,
			MileagePenalty: 0.5,
		}
		breakdown := engine.Score(valuation.AggregateResult{InsufficientData: true}, evalCtx)
		if breakdown.Score != 25 {
			t.Errorf("Score = %d, want 25 (floor clamp)", breakdown.Score)
		}
	})

	t.Run("ceiling", func(t *testing.T) {
		// Weak photo keeps this out of the premium gate, but the additive
		// total still exceeds the ceiling: 45+25+20+8+10+12 = 120.
		agg := testAggregate()
		agg.ListingCount = 10
		evalCtx := valuation.EvaluationContext{
			ExactVINMatch: true,
			Photo:         &valuation.PhotoAssessment{Confidence: 75, ConditionScore: 6},
			Sources:       []string{valuation.SourceMSRPLookup, valuation.SourceVINDecode, valuation.SourceFuelCosts, valuation.SourceMarketSearch},
			TrustScore:    0.95,
		}
		breakdown := engine.Score(agg, evalCtx)
		if breakdown.Score != 95 {
			t.Errorf("Score = %d, want 95 (ceiling clamp)", breakdown.Score)
		}
	})
}

func TestScoreSignals(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	tests := []struct {
		name    string
		agg     valuation.AggregateResult
		evalCtx valuation.EvaluationContext
		want    int
	}{
		{
			name:    "vin match without market data",
			agg:     valuation.AggregateResult{InsufficientData: true},
			evalCtx: valuation.EvaluationContext{ExactVINMatch: true, TrustScore: 0.5},
			// 45 + 5 - 10
			want: 40,
		},
		{
			name:    "thin market",
			agg:     valuation.AggregateResult{MedianPrice: 20000, PriceRange: [2]float64{20000, 20000}, ListingCount: 1, InsufficientData: true},
			evalCtx: valuation.EvaluationContext{TrustScore: 0.5},
			// 45 + 8
			want: 53,
		},
		{
			name:    "solid market",
			agg:     valuation.AggregateResult{MedianPrice: 20000, PriceRange: [2]float64{19000, 21000}, ListingCount: 3},
			evalCtx: valuation.EvaluationContext{TrustScore: 0.5},
			// 45 + 15
			want: 60,
		},
		{
			name:    "wide spread penalized",
			agg:     valuation.AggregateResult{MedianPrice: 20000, PriceRange: [2]float64{10000, 27000}, ListingCount: 3},
			evalCtx: valuation.EvaluationContext{TrustScore: 0.5},
			// 45 + 15 - 5
			want: 55,
		},
		{
			name:    "mileage deviation penalized",
			agg:     valuation.AggregateResult{MedianPrice: 20000, PriceRange: [2]float64{19000, 21000}, ListingCount: 3},
			evalCtx: valuation.EvaluationContext{TrustScore: 0.5, MileagePenalty: 0.15},
			// 45 + 15 - 15
			want: 45,
		},
		{
			name:    "market search source yields nothing without listings",
			agg:     valuation.AggregateResult{InsufficientData: true},
			evalCtx: valuation.EvaluationContext{Sources: []string{valuation.SourceMarketSearch}, TrustScore: 0.5},
			// 45 - 10, no source bonus
			want: 35,
		},
		{
			name:    "provenance sources accumulate",
			agg:     valuation.AggregateResult{MedianPrice: 20000, PriceRange: [2]float64{19000, 21000}, ListingCount: 3},
			evalCtx: valuation.EvaluationContext{Sources: []string{valuation.SourceMSRPLookup, valuation.SourceVINDecode, valuation.SourceFuelCosts}, TrustScore: 0.5},
			// 45 + 15 + 9
			want: 69,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			breakdown := engine.Score(tc.agg, tc.evalCtx)
			if breakdown.Score != tc.want {
				t.Errorf("Score = %d, want %d (reasoning: %v)", breakdown.Score, tc.want, breakdown.Reasoning)
			}
		})
	}
}

func TestScoreExplanationTraceable(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	evalCtx := valuation.EvaluationContext{
		ExactVINMatch:  true,
		Photo:          &valuation.PhotoAssessment{Confidence: 90, ConditionScore: 9},
		Sources:        []string{valuation.SourceVINDecode},
		TrustScore:     0.85,
		MileagePenalty: 0.15,
	}

	breakdown := engine.Score(testAggregate(), evalCtx)

	if len(breakdown.Reasoning) == 0 {
		t.Fatal("expected reasoning clauses")
	}
	for _, clause := range breakdown.Reasoning {
		if !strings.Contains(clause, "point") && !strings.Contains(clause, "score") {
			t.Errorf("clause %q does not name its score contribution", clause)
		}
	}

	explanation := breakdown.Explanation()
	for _, clause := range breakdown.Reasoning {
		if !strings.Contains(explanation, clause) {
			t.Errorf("explanation missing clause %q", clause)
		}
	}
	if !strings.HasSuffix(explanation, ".") {
		t.Errorf("explanation %q should end with a period", explanation)
	}
}

func TestScoreSubScores(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	evalCtx := valuation.EvaluationContext{
		ExactVINMatch:  true,
		Photo:          &valuation.PhotoAssessment{Confidence: 90, ConditionScore: 9},
		TrustScore:     0.85,
		MileagePenalty: 0.02,
	}

	sub := engine.Score(testAggregate(), evalCtx).SubScores

	if sub.VINMatch != 100 {
		t.Errorf("VINMatch = %d, want 100", sub.VINMatch)
	}
	if sub.MarketDepth != 80 {
		t.Errorf("MarketDepth = %d, want 80", sub.MarketDepth)
	}
	if sub.PhotoVerification != 90 {
		t.Errorf("PhotoVerification = %d, want 90", sub.PhotoVerification)
	}
	if sub.SourceTrust != 85 {
		t.Errorf("SourceTrust = %d, want 85", sub.SourceTrust)
	}
	if sub.MileageConsistency != 98 {
		t.Errorf("MileageConsistency = %d, want 98", sub.MileageConsistency)
	}
}

func TestEvaluateRecommendations(t *testing.T) {
	engine := valuation.NewEngine(valuation.DefaultPolicy())

	vehicle := testVehicle()
	vehicle.VIN = ""
	vehicle.Mileage = nil

	agg := testAggregate()
	agg.ListingCount = 3

	result, err := engine.Evaluate(vehicle, agg, valuation.EvaluationContext{TrustScore: 0.5})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	wantFragments := []string{"VIN", "mileage", "photos"}
	for _, fragment := range wantFragments {
		found := false
		for _, rec := range result.Recommendations {
			if strings.Contains(rec, fragment) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("recommendations %v missing %q guidance", result.Recommendations, fragment)
		}
	}
}
