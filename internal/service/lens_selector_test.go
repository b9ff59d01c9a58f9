package service

import (
	"fmt"
	"testing"

	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/domain/pricing"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/stretchr/testify/suite"
)

type LensSelectorSuite struct {
	suite.Suite
	selector *LensSelector
}

func TestLensSelector(t *testing.T) {
	suite.Run(t, new(LensSelectorSuite))
}

func (s *LensSelectorSuite) SetupTest() {
	s.selector = NewLensSelector(config.EngineConfig{})
}

func candidate(code string, tier types.IndexTier, score float64, price string, features int) *pricing.LensCandidate {
	featureCodes := make([]string, features)
	for i := range featureCodes {
		featureCodes[i] = fmt.Sprintf("F%d", i)
	}
	return &pricing.LensCandidate{
		Product: &product.LensProduct{
			ID:        "lens_" + code,
			Code:      code,
			IndexTier: tier,
			Features:  featureCodes,
		},
		FinalScore: score,
		Price:      dec(price),
	}
}

func (s *LensSelectorSuite) selectAll(recommended types.IndexTier, candidates ...*pricing.LensCandidate) *pricing.FourLensSelection {
	AssignMatchPercents(candidates)
	selection := s.selector.Select(candidates, recommended)
	s.Require().NotNil(selection)
	for slot, c := range selection.Slots() {
		s.NotNil(c, "slot %s must be filled", slot)
	}
	return selection
}

func (s *LensSelectorSuite) TestDefaults() {
	s.Equal(config.DefaultPremiumMatchWindow, s.selector.PremiumWindow)
	s.Equal(config.DefaultAntiWalkoutMinMatchPercent, s.selector.AntiWalkoutMinMatch)
}

func (s *LensSelectorSuite) TestDistinctSlots() {
	a := candidate("A", types.IndexTier156, 100, "1000", 1)
	b := candidate("B", types.IndexTier167, 95, "4000", 3)
	c := candidate("C", types.IndexTier160, 80, "1500", 2)
	d := candidate("D", types.IndexTier160, 50, "900", 1)

	selection := s.selectAll(types.IndexTier160, a, b, c, d)

	s.Equal(100, a.MatchPercent)
	s.Equal(95, b.MatchPercent)
	s.Equal(50, d.MatchPercent)

	s.Equal("A", selection.BestMatch.Product.Code)
	s.Equal("B", selection.Premium.Product.Code, "highest index tier within the match window")
	s.Equal("A", selection.Value.Product.Code, "best match percent per rupee")
	s.Equal("D", selection.AntiWalkout.Product.Code, "cheapest safe lens")
}

func (s *LensSelectorSuite) TestInvalidLensOnlyEligibleForBestMatch() {
	a := candidate("A", types.IndexTier156, 100, "500", 1)
	a.Invalid = true
	b := candidate("B", types.IndexTier167, 95, "4000", 3)
	c := candidate("C", types.IndexTier160, 80, "1500", 2)
	d := candidate("D", types.IndexTier160, 50, "900", 1)

	selection := s.selectAll(types.IndexTier160, a, b, c, d)

	s.Equal("A", selection.BestMatch.Product.Code)
	s.Equal("B", selection.Premium.Product.Code)
	s.Equal("D", selection.Value.Product.Code)
	s.Equal("D", selection.AntiWalkout.Product.Code)
}

func (s *LensSelectorSuite) TestPremiumTieBreakers() {
	a := candidate("A", types.IndexTier167, 100, "3000", 2)
	b := candidate("B", types.IndexTier167, 98, "3500", 4)
	c := candidate("C", types.IndexTier167, 97, "5000", 4)

	selection := s.selectAll(types.IndexTier167, a, b, c)

	s.Equal("C", selection.Premium.Product.Code, "same tier and features, higher price wins")
}

func (s *LensSelectorSuite) TestSingleCandidateFillsEverySlot() {
	a := candidate("A", types.IndexTier160, 7, "2500", 1)

	selection := s.selectAll(types.IndexTier160, a)

	for _, c := range selection.Slots() {
		s.Same(a, c)
	}
}

func (s *LensSelectorSuite) TestPremiumFallsBackToSecondRanked() {
	a := candidate("A", types.IndexTier156, 100, "800", 1)
	a.Invalid = true
	b := candidate("B", types.IndexTier160, 50, "1200", 1)
	c := candidate("C", types.IndexTier160, 20, "1000", 1)

	selection := s.selectAll(types.IndexTier160, a, b, c)

	s.Equal("B", selection.Premium.Product.Code)
}

func (s *LensSelectorSuite) TestAntiWalkoutFallsBackToLowestScore() {
	a := candidate("A", types.IndexTier156, 100, "800", 1)
	a.Invalid = true
	b := candidate("B", types.IndexTier174, 30, "100", 1)
	c := candidate("C", types.IndexTier174, 10, "50", 1)

	selection := s.selectAll(types.IndexTier174, a, b, c)

	s.Equal("C", selection.AntiWalkout.Product.Code)
}

func (s *LensSelectorSuite) TestAntiWalkoutRespectsTierFloor() {
	a := candidate("A", types.IndexTier174, 100, "6000", 1)
	b := candidate("B", types.IndexTier156, 90, "500", 1)
	c := candidate("C", types.IndexTier167, 80, "3000", 1)

	selection := s.selectAll(types.IndexTier174, a, b, c)

	s.Equal("C", selection.AntiWalkout.Product.Code, "1.56 sits two tiers below the recommendation")
}

func (s *LensSelectorSuite) TestZeroPriceHasNoValue() {
	a := candidate("A", types.IndexTier160, 100, "0", 1)
	b := candidate("B", types.IndexTier160, 50, "1000", 1)

	selection := s.selectAll(types.IndexTier160, a, b)

	s.Equal("B", selection.Value.Product.Code)
}

func (s *LensSelectorSuite) TestBestMatchTieKeepsInputOrder() {
	a := candidate("A", types.IndexTier160, 10, "1000", 1)
	b := candidate("B", types.IndexTier160, 10, "900", 1)

	selection := s.selectAll(types.IndexTier160, a, b)

	s.Equal("A", selection.BestMatch.Product.Code)
}

func (s *LensSelectorSuite) TestMatchPercentsWithoutPositiveScore() {
	a := candidate("A", types.IndexTier160, 0, "1000", 1)
	b := candidate("B", types.IndexTier160, 0, "900", 1)

	AssignMatchPercents([]*pricing.LensCandidate{a, b})

	s.Equal(0, a.MatchPercent)
	s.Equal(0, b.MatchPercent)
}

func (s *LensSelectorSuite) TestEmptyCandidates() {
	s.Nil(s.selector.Select(nil, types.IndexTier160))
	s.Nil(SelectFourLenses([]*pricing.LensCandidate{}, types.IndexTier156))
}
