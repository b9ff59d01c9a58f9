package service

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/offer"
	"github.com/lensprice/lensprice/internal/domain/pricing"
	"github.com/shopspring/decimal"
)

var (
	// "₹1499", "Rs. 1,499", "INR 1499.50"
	currencyPrefixPattern = regexp.MustCompile(`(?i)(?:₹|\brs\.?|\binr)\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	// "1499/-", "1,499 rupees"
	currencySuffixPattern = regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]+)?)\s*(?:/-|rupees\b)`)
)

// ParseRewardValue extracts the first currency amount from a reward text, 0 when there is none
func ParseRewardValue(text string) decimal.Decimal {
	for _, pattern := range []*regexp.Regexp{currencyPrefixPattern, currencySuffixPattern} {
		m := pattern.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		v, err := decimal.NewFromString(strings.ReplaceAll(m[1], ",", ""))
		if err == nil {
			return v
		}
	}
	return decimal.Zero
}

// EvaluateUpsell picks the upsell rule with the best reward per rupee still
// to spend. It only reads finalPayable; the caller's total is never changed.
// Returns nil when no rule has a threshold above finalPayable.
func EvaluateUpsell(rules []*offer.OfferRule, f *frame.Frame, finalPayable decimal.Decimal, currencySymbol string) *pricing.UpsellSuggestion {
	var (
		best      *offer.OfferRule
		bestRatio decimal.Decimal
		remaining decimal.Decimal
	)

	for _, r := range rules {
		if r == nil || !r.IsActive() || !r.IsUpsellCandidate() {
			continue
		}
		if !r.Eligibility.MatchesFrameBrand(f) {
			continue
		}
		left := r.Upsell.Threshold.Sub(finalPayable)
		if !left.IsPositive() {
			continue
		}
		ratio := ParseRewardValue(r.Upsell.RewardText).Div(left)
		if best == nil || ratio.GreaterThan(bestRatio) {
			best, bestRatio, remaining = r, ratio, left
		}
	}

	if best == nil {
		return nil
	}

	remaining = remaining.Round(2)
	return &pricing.UpsellSuggestion{
		RuleID:     best.ID,
		Type:       best.Type,
		Message:    fmt.Sprintf("Add %s%s more to unlock %s", currencySymbol, remaining.String(), best.Upsell.RewardText),
		RewardText: best.Upsell.RewardText,
		Threshold:  *best.Upsell.Threshold,
		Remaining:  remaining,
	}
}
