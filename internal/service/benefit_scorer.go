package service

import (
	"math"

	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/domain/questionnaire"
)

// BenefitScoreMap is the customer's accumulated preference per benefit code.
// Codes that were never selected are absent and score 0.
type BenefitScoreMap map[string]float64

// BuildBenefitScores accumulates points * categoryWeight per benefit code
func BuildBenefitScores(mappings []*questionnaire.AnswerBenefit) BenefitScoreMap {
	scores := make(BenefitScoreMap)
	for _, m := range mappings {
		if m == nil || m.BenefitCode == "" {
			continue
		}
		scores[m.BenefitCode] += m.Points * m.Weight()
	}
	return scores
}

// ProductBoosts sums direct per-answer boosts by product id
func ProductBoosts(boosts []*questionnaire.ProductBoost) map[string]float64 {
	out := make(map[string]float64)
	for _, b := range boosts {
		if b == nil {
			continue
		}
		out[b.ProductID] += b.Boost
	}
	return out
}

// ScoreProduct is the dot product of customer preference and product benefit
// strength, each term scaled by the benefit's point weight (defaultWeight when
// unset), plus any direct boosts for the product
func ScoreProduct(scores BenefitScoreMap, p *product.LensProduct, boosts map[string]float64, defaultWeight float64) float64 {
	if p == nil {
		return 0
	}

	var score float64
	for _, b := range p.Benefits {
		score += scores[b.BenefitCode] * b.Strength * b.Weight(defaultWeight)
	}
	return score + boosts[p.ID]
}

// MatchPercent is round(100 * score / maxScore), 0 when maxScore is not positive
func MatchPercent(score, maxScore float64) int {
	if maxScore <= 0 {
		return 0
	}
	return int(math.Round(100 * score / maxScore))
}

// ScoresDegenerate reports whether two or more candidates all share one
// score, which makes every match percent 100
func ScoresDegenerate(scores []float64) bool {
	if len(scores) < 2 {
		return false
	}
	for _, s := range scores[1:] {
		if s != scores[0] {
			return false
		}
	}
	return true
}
