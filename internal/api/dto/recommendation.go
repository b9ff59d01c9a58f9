package dto

import (
	"time"

	"github.com/lensprice/lensprice/internal/domain/pricing"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// RecommendationResponse is the ranked lens list for a questionnaire session
type RecommendationResponse struct {
	ID                   string               `json:"id"`
	SessionID            string               `json:"session_id"`
	VisionType           types.VisionType     `json:"vision_type"`
	RecommendedIndex     string               `json:"recommended_index"`
	RecommendedIndexTier types.IndexTier      `json:"recommended_index_tier"`
	BenefitScores        map[string]float64   `json:"benefit_scores"`
	Recommendations      []LensRecommendation `json:"recommendations"`
	Selection            *LensSelection       `json:"selection,omitempty"`
	// ScoresDegenerate flags catalogs whose benefit strengths do not tell products apart
	ScoresDegenerate bool      `json:"scores_degenerate"`
	GeneratedAt      time.Time `json:"generated_at"`
}

// LensRecommendation is one priced and scored lens
type LensRecommendation struct {
	ProductID    string           `json:"product_id"`
	Code         string           `json:"code"`
	Name         string           `json:"name"`
	BrandLine    string           `json:"brand_line"`
	IndexTier    types.IndexTier  `json:"index_tier"`
	Index        string           `json:"index"`
	FinalScore   float64          `json:"final_score"`
	MatchPercent int              `json:"match_percent"`
	BasePrice    decimal.Decimal  `json:"base_price"`
	BandCharge   decimal.Decimal  `json:"band_charge"`
	AddonCharge  decimal.Decimal  `json:"addon_charge"`
	Price        decimal.Decimal  `json:"price"`
	Invalid      bool             `json:"invalid"`
	Features     []string         `json:"features,omitempty"`
	Slots        []types.LensSlot `json:"slots,omitempty"`
}

// LensSelection names the product code in each of the four slots
type LensSelection struct {
	BestMatch   string `json:"best_match"`
	Premium     string `json:"premium"`
	Value       string `json:"value"`
	AntiWalkout string `json:"anti_walkout"`
}

func NewLensRecommendation(c *pricing.LensCandidate) LensRecommendation {
	return LensRecommendation{
		ProductID:    c.Product.ID,
		Code:         c.Product.Code,
		Name:         c.Product.Name,
		BrandLine:    c.Product.BrandLine,
		IndexTier:    c.Product.IndexTier,
		Index:        c.Product.IndexTier.String(),
		FinalScore:   c.FinalScore,
		MatchPercent: c.MatchPercent,
		BasePrice:    c.BasePrice,
		BandCharge:   c.BandCharge,
		AddonCharge:  c.AddonCharge,
		Price:        c.Price,
		Invalid:      c.Invalid,
		Features:     c.Product.Features,
	}
}

func NewLensSelection(s *pricing.FourLensSelection) *LensSelection {
	if s == nil {
		return nil
	}
	return &LensSelection{
		BestMatch:   s.BestMatch.Product.Code,
		Premium:     s.Premium.Product.Code,
		Value:       s.Value.Product.Code,
		AntiWalkout: s.AntiWalkout.Product.Code,
	}
}
