package valuation

import (
	"fmt"
	"math"
)

// Engine applies the ordered value adjustment sequence and the confidence
// scoring rules described by its Policy.
type Engine struct {
	policy Policy
}

// NewEngine creates an Engine with the given policy.
func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// adjustStep transforms a running value and optionally reports the applied
// delta. Modeling the sequence as a fold makes the order dependence an
// explicit contract: each step's base is the prior step's output.
type adjustStep func(p Policy, v Vehicle, agg AggregateResult, prior float64) (float64, *AdjustmentFactor)

var valueSteps = []adjustStep{
	conditionStep,
	mileageStep,
	accidentStep,
}

// Evaluate turns the aggregate's median anchor into a final estimated value
// via the ordered adjustment sequence, and computes the confidence breakdown
// for the same evidence. It returns ErrInsufficientData when the aggregate
// carries no meaningful median; callers wanting a confidence explanation for
// that case should use Score directly.
func (e *Engine) Evaluate(target Vehicle, agg AggregateResult, evalCtx EvaluationContext) (*EvaluationResult, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}
	if agg.InsufficientData {
		return nil, fmt.Errorf("%w: %d valid comparables, need %d",
			ErrInsufficientData, agg.ListingCount, e.policy.MinComparables)
	}

	value := agg.MedianPrice
	adjustments := make([]AdjustmentFactor, 0, len(valueSteps))
	for _, step := range valueSteps {
		next, factor := step(e.policy, target, agg, value)
		value = next
		if factor != nil {
			adjustments = append(adjustments, *factor)
		}
	}

	breakdown := e.Score(agg, evalCtx)

	return &EvaluationResult{
		EstimatedValue:  value,
		Adjustments:     adjustments,
		ConfidenceScore: breakdown.Score,
		Explanation:     breakdown.Explanation(),
		Recommendations: e.recommendations(target, agg, evalCtx),
		PriceRange:      agg.PriceRange,
		ListingCount:    agg.ListingCount,
	}, nil
}

func conditionStep(p Policy, v Vehicle, _ AggregateResult, prior float64) (float64, *AdjustmentFactor) {
	multiplier, ok := p.ConditionMultipliers[v.Condition]
	if !ok || multiplier == 1.0 {
		return prior, nil
	}

	impact := math.Round((multiplier - 1) * prior)
	return prior + impact, &AdjustmentFactor{
		Factor: "Condition Adjustment",
		Impact: impact,
		Description: fmt.Sprintf("%s condition (%+d%%)",
			v.Condition, int(math.Round((multiplier-1)*100))),
	}
}

func mileageStep(p Policy, v Vehicle, agg AggregateResult, prior float64) (float64, *AdjustmentFactor) {
	if v.Mileage == nil || agg.AverageMileage <= 0 {
		return prior, nil
	}

	diff := float64(*v.Mileage) - agg.AverageMileage
	impact := math.Round(-(diff / 1000) * p.MileageUnitRate)
	if math.Abs(impact) <= p.MileageReportThreshold {
		// Below the reporting threshold the delta is market noise; dropping
		// it entirely keeps the breakdown invariant (base + impacts = final).
		return prior, nil
	}

	return prior + impact, &AdjustmentFactor{
		Factor: "Mileage Adjustment",
		Impact: impact,
		Description: fmt.Sprintf("%d mi vs %d mi comparable average",
			*v.Mileage, int(math.Round(agg.AverageMileage))),
	}
}

func accidentStep(p Policy, v Vehicle, _ AggregateResult, prior float64) (float64, *AdjustmentFactor) {
	if v.AccidentCount <= 0 {
		return prior, nil
	}

	fraction := p.AccidentBasePenalty + p.AccidentStepPenalty*float64(v.AccidentCount-1)
	impact := math.Round(-prior * fraction)

	plural := ""
	if v.AccidentCount != 1 {
		plural = "s"
	}
	return prior + impact, &AdjustmentFactor{
		Factor: "Accident History",
		Impact: impact,
		Description: fmt.Sprintf("%d accident%s reported (-%d%%)",
			v.AccidentCount, plural, int(math.Round(fraction*100))),
	}
}

// Score computes the confidence breakdown independently of value adjustment,
// so it can also explain an insufficient-data outcome. Every non-zero
// contribution appends a reasoning clause; the final score is clamped to
// [ScoreFloor, ScoreCeiling].
func (e *Engine) Score(agg AggregateResult, evalCtx EvaluationContext) ConfidenceBreakdown {
	p := e.policy
	score := p.BaseConfidence
	count := agg.ListingCount
	var reasons []string

	// Exact VIN match is the strongest single signal, but only when there is
	// market data to have matched against.
	switch {
	case evalCtx.ExactVINMatch && count > 0:
		score += p.ExactVINBonus
		reasons = append(reasons, fmt.Sprintf("Exact VIN match found in real listings (+%d points)", p.ExactVINBonus))
	case evalCtx.ExactVINMatch:
		score += p.VINIdentificationBonus
		reasons = append(reasons, fmt.Sprintf("VIN identification confirmed but no market data (+%d points)", p.VINIdentificationBonus))
	}

	switch {
	case count >= p.DeepMarketCount:
		score += p.DeepMarketBonus
		reasons = append(reasons, fmt.Sprintf("%d market listings found (+%d points)", count, p.DeepMarketBonus))
	case count >= p.SolidMarketCount:
		score += p.SolidMarketBonus
		reasons = append(reasons, fmt.Sprintf("%d market listings found (+%d points)", count, p.SolidMarketBonus))
	case count >= 1:
		score += p.ThinMarketBonus
		reasons = append(reasons, fmt.Sprintf("%d market listing(s) found (+%d points)", count, p.ThinMarketBonus))
	default:
		score += p.EmptyMarketPenalty
		reasons = append(reasons, fmt.Sprintf("No current market listings found (%d points)", p.EmptyMarketPenalty))
	}

	photoStrong := false
	if photo := evalCtx.Photo; photo != nil {
		switch {
		case photo.Confidence >= p.PhotoStrongConfidence && photo.ConditionScore >= p.PhotoStrongCondition:
			photoStrong = true
			score += p.PhotoStrongBonus
			reasons = append(reasons, fmt.Sprintf("High-quality photo analysis confirmed (+%d points)", p.PhotoStrongBonus))
		case photo.Confidence >= p.PhotoWeakConfidence:
			score += p.PhotoWeakBonus
			reasons = append(reasons, fmt.Sprintf("Photo analysis available (+%d points)", p.PhotoWeakBonus))
		}
	}

	switch {
	case evalCtx.TrustScore >= p.TrustHighThreshold && count > 0:
		score += p.TrustHighBonus
		reasons = append(reasons, fmt.Sprintf("Very high data trust score (+%d points)", p.TrustHighBonus))
	case evalCtx.TrustScore >= p.TrustGoodThreshold && count > 0:
		score += p.TrustGoodBonus
		reasons = append(reasons, fmt.Sprintf("High data trust score (+%d points)", p.TrustGoodBonus))
	case evalCtx.TrustScore < p.TrustLowThreshold:
		score += p.TrustLowPenalty
		reasons = append(reasons, fmt.Sprintf("Low data provenance trust (%d points)", p.TrustLowPenalty))
	}

	sourceBonus := 0
	for _, source := range evalCtx.Sources {
		bonus, ok := p.SourceBonuses[source]
		if !ok {
			continue
		}
		// Market search earns nothing if it surfaced no usable listings.
		if source == SourceMarketSearch && count == 0 {
			continue
		}
		sourceBonus += bonus
	}
	if sourceBonus > 0 {
		score += sourceBonus
		reasons = append(reasons, fmt.Sprintf("Verified data sources available (+%d points)", sourceBonus))
	}

	if evalCtx.MileagePenalty > p.MileagePenaltyThreshold {
		penalty := int(math.Round(evalCtx.MileagePenalty * 100))
		score -= penalty
		reasons = append(reasons, fmt.Sprintf("Mileage deviates from age norm (-%d points)", penalty))
	}

	if count > 0 && agg.MedianPrice > 0 {
		spread := (agg.PriceRange[1] - agg.PriceRange[0]) / agg.MedianPrice
		if spread > p.VarianceThreshold {
			score -= p.VariancePenalty
			reasons = append(reasons, fmt.Sprintf("Wide comparable price spread (-%d points)", p.VariancePenalty))
		}
	}

	premium := evalCtx.ExactVINMatch &&
		count >= p.PremiumMinListings &&
		photoStrong &&
		evalCtx.MileagePenalty < p.PremiumMileagePenalty &&
		evalCtx.TrustScore >= p.PremiumTrustScore

	switch {
	case premium:
		// The best attainable evidence combination should read unambiguously
		// as highest confidence regardless of small additive drift.
		score = p.PremiumScore
		reasons = append(reasons, fmt.Sprintf("Premium evidence quality confirmed (score set to %d)", p.PremiumScore))
	case count >= p.HighQualityMinListings &&
		evalCtx.TrustScore >= p.HighQualityTrustScore &&
		evalCtx.MileagePenalty < p.HighQualityMileageMax &&
		score < p.HighQualityFloor:
		score = p.HighQualityFloor
		reasons = append(reasons, fmt.Sprintf("Deep, trusted market data (score raised to %d)", p.HighQualityFloor))
	}

	score = min(max(score, p.ScoreFloor), p.ScoreCeiling)

	return ConfidenceBreakdown{
		Score:     score,
		SubScores: e.subScores(agg, evalCtx),
		Reasoning: reasons,
	}
}

// subScores derives the descriptive per-dimension signals, each 0-100.
func (e *Engine) subScores(agg AggregateResult, evalCtx EvaluationContext) SubScores {
	s := SubScores{}

	switch {
	case evalCtx.ExactVINMatch && agg.ListingCount > 0:
		s.VINMatch = 100
	case evalCtx.ExactVINMatch:
		s.VINMatch = 85
	default:
		s.VINMatch = 40
	}

	switch {
	case agg.ListingCount >= 10:
		s.MarketDepth = 90
	case agg.ListingCount >= e.policy.DeepMarketCount:
		s.MarketDepth = 80
	case agg.ListingCount >= e.policy.SolidMarketCount:
		s.MarketDepth = 75
	case agg.ListingCount >= 1:
		s.MarketDepth = 60
	default:
		s.MarketDepth = 25
	}

	if evalCtx.Photo != nil {
		s.PhotoVerification = int(math.Round(min(evalCtx.Photo.Confidence, 100)))
	}

	s.SourceTrust = int(math.Round(min(max(evalCtx.TrustScore, 0), 1) * 100))
	s.MileageConsistency = int(math.Round((1 - min(max(evalCtx.MileagePenalty, 0), 1)) * 100))

	return s
}

func (e *Engine) recommendations(target Vehicle, agg AggregateResult, evalCtx EvaluationContext) []string {
	var recs []string
	if len(target.VIN) != 17 {
		recs = append(recs, "Enter a valid 17-character VIN for improved accuracy")
	}
	if target.Mileage == nil {
		recs = append(recs, "Enter the vehicle's actual mileage for a more accurate valuation")
	}
	if evalCtx.Photo == nil {
		recs = append(recs, "Add vehicle photos to verify condition")
	}
	if agg.ListingCount < e.policy.SolidMarketCount {
		recs = append(recs, "Limited market data available - additional vehicle details could surface more comparable listings")
	}
	return recs
}
