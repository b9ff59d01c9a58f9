package service

import (
	"sort"

	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/domain/pricing"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// LensSelector picks the four labeled lenses from a scored candidate set
type LensSelector struct {
	PremiumWindow       int
	AntiWalkoutMinMatch int
}

func NewLensSelector(cfg config.EngineConfig) *LensSelector {
	return &LensSelector{
		PremiumWindow:       cfg.PremiumWindow(),
		AntiWalkoutMinMatch: cfg.AntiWalkoutMinMatch(),
	}
}

// SelectFourLenses runs the selection with the default thresholds
func SelectFourLenses(candidates []*pricing.LensCandidate, recommendedTier types.IndexTier) *pricing.FourLensSelection {
	return NewLensSelector(config.EngineConfig{}).Select(candidates, recommendedTier)
}

// AssignMatchPercents sets every candidate's match percent relative to the best score
func AssignMatchPercents(candidates []*pricing.LensCandidate) {
	if len(candidates) == 0 {
		return
	}
	best := lo.MaxBy(candidates, func(a, b *pricing.LensCandidate) bool {
		return a.FinalScore > b.FinalScore
	})
	for _, c := range candidates {
		c.MatchPercent = MatchPercent(c.FinalScore, best.FinalScore)
	}
}

// Select returns nil only when there are no candidates. Candidates must
// already carry their match percent and price.
func (s *LensSelector) Select(candidates []*pricing.LensCandidate, recommendedTier types.IndexTier) *pricing.FourLensSelection {
	candidates = lo.Filter(candidates, func(c *pricing.LensCandidate, _ int) bool {
		return c != nil && c.Product != nil
	})
	if len(candidates) == 0 {
		return nil
	}

	ranked := rankByScore(candidates)
	best := ranked[0]

	return &pricing.FourLensSelection{
		BestMatch:   best,
		Premium:     s.selectPremium(candidates, ranked, best),
		Value:       s.selectValue(candidates, best),
		AntiWalkout: s.selectAntiWalkout(candidates, ranked, recommendedTier),
	}
}

// rankByScore orders by final score descending, keeping input order on ties
func rankByScore(candidates []*pricing.LensCandidate) []*pricing.LensCandidate {
	ranked := make([]*pricing.LensCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalScore > ranked[j].FinalScore
	})
	return ranked
}

func (s *LensSelector) selectPremium(candidates, ranked []*pricing.LensCandidate, best *pricing.LensCandidate) *pricing.LensCandidate {
	floor := best.MatchPercent - s.PremiumWindow
	pool := lo.Filter(candidates, func(c *pricing.LensCandidate, _ int) bool {
		return !c.Invalid && c.MatchPercent >= floor
	})

	if len(pool) == 0 {
		if len(ranked) > 1 {
			return ranked[1]
		}
		return best
	}

	sort.SliceStable(pool, func(i, j int) bool {
		a, b := pool[i], pool[j]
		if a.IndexTier() != b.IndexTier() {
			return a.IndexTier() > b.IndexTier()
		}
		if a.FeatureCount() != b.FeatureCount() {
			return a.FeatureCount() > b.FeatureCount()
		}
		return a.Price.GreaterThan(b.Price)
	})
	return pool[0]
}

// selectValue maximizes matchPercent / price. A zero price is treated as
// unbounded, so its ratio is 0.
func (s *LensSelector) selectValue(candidates []*pricing.LensCandidate, best *pricing.LensCandidate) *pricing.LensCandidate {
	var (
		chosen    *pricing.LensCandidate
		bestRatio decimal.Decimal
	)
	for _, c := range candidates {
		if c.Invalid {
			continue
		}
		ratio := valueRatio(c)
		if chosen == nil || ratio.GreaterThan(bestRatio) {
			chosen, bestRatio = c, ratio
		}
	}
	if chosen == nil {
		return best
	}
	return chosen
}

func valueRatio(c *pricing.LensCandidate) decimal.Decimal {
	if !c.Price.IsPositive() {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(c.MatchPercent)).Div(c.Price)
}

// selectAntiWalkout is the cheapest safe lens; without one it falls back to
// the lowest scoring candidate so there is always something to sell
func (s *LensSelector) selectAntiWalkout(candidates, ranked []*pricing.LensCandidate, recommendedTier types.IndexTier) *pricing.LensCandidate {
	minTier := recommendedTier - 1
	var chosen *pricing.LensCandidate
	for _, c := range candidates {
		if c.Invalid || c.MatchPercent < s.AntiWalkoutMinMatch || c.IndexTier() < minTier {
			continue
		}
		if chosen == nil || c.Price.LessThan(chosen.Price) {
			chosen = c
		}
	}
	if chosen != nil {
		return chosen
	}

	lowest := ranked[len(ranked)-1]
	for _, c := range ranked {
		if c.FinalScore == lowest.FinalScore {
			return c
		}
	}
	return lowest
}
