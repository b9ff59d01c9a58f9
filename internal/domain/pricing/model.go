package pricing

import (
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// PriceComponent is one signed line of the price breakdown. The sequence is
// append-only and reconstructs the running total in stage order.
type PriceComponent struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// AppliedOffer records a discount stage that fired
type AppliedOffer struct {
	RuleID      string          `json:"rule_id,omitempty"`
	RuleCode    string          `json:"rule_code,omitempty"`
	Type        types.OfferType `json:"type"`
	Description string          `json:"description"`
	Savings     decimal.Decimal `json:"savings"`
}

// BonusProduct is a free product unlocked by a BONUS_FREE_PRODUCT rule
type BonusProduct struct {
	RuleID      string `json:"rule_id"`
	ProductCode string `json:"product_code"`
	Description string `json:"description,omitempty"`
}

// UpsellSuggestion is the best "spend X more, get Y" opportunity
type UpsellSuggestion struct {
	RuleID     string          `json:"rule_id"`
	Type       types.OfferType `json:"type"`
	Message    string          `json:"message"`
	RewardText string          `json:"reward_text"`
	Threshold  decimal.Decimal `json:"threshold"`
	Remaining  decimal.Decimal `json:"remaining"`
}

// OfferCalculationResult is the outcome of the offer waterfall
type OfferCalculationResult struct {
	FrameMRP      decimal.Decimal `json:"frame_mrp"`
	LensPrice     decimal.Decimal `json:"lens_price"`
	BaseTotal     decimal.Decimal `json:"base_total"`
	EffectiveBase decimal.Decimal `json:"effective_base"`
	FinalPayable  decimal.Decimal `json:"final_payable"`
	TotalSavings  decimal.Decimal `json:"total_savings"`

	AppliedOffers   []AppliedOffer   `json:"applied_offers"`
	PriceComponents []PriceComponent `json:"price_components"`

	PrimaryOffer       *AppliedOffer `json:"primary_offer"`
	SecondPairDiscount *AppliedOffer `json:"second_pair_discount"`
	// CategoryDiscount is always nil while a locking primary offer is applied
	CategoryDiscount *AppliedOffer `json:"category_discount"`
	CouponDiscount   *AppliedOffer `json:"coupon_discount"`
	CouponError      string        `json:"coupon_error,omitempty"`

	// Locked is set when the primary offer blocks every later stage
	Locked        bool              `json:"locked"`
	BonusProducts []BonusProduct    `json:"bonus_products,omitempty"`
	Upsell        *UpsellSuggestion `json:"upsell,omitempty"`
}

// LensCandidate is a scored and priced lens considered for recommendation
type LensCandidate struct {
	Product      *product.LensProduct `json:"product"`
	FinalScore   float64              `json:"final_score"`
	MatchPercent int                  `json:"match_percent"`
	BasePrice    decimal.Decimal      `json:"base_price"`
	BandCharge   decimal.Decimal      `json:"band_charge"`
	AddonCharge  decimal.Decimal      `json:"addon_charge"`
	Price        decimal.Decimal      `json:"price"`
	// Invalid marks lenses that must not be sold with the chosen frame
	Invalid bool `json:"invalid"`
}

func (c *LensCandidate) IndexTier() types.IndexTier {
	return c.Product.IndexTier
}

func (c *LensCandidate) FeatureCount() int {
	return c.Product.FeatureCount()
}

// FourLensSelection holds the four labeled lens slots. Slots may share a product.
type FourLensSelection struct {
	BestMatch   *LensCandidate `json:"best_match"`
	Premium     *LensCandidate `json:"premium"`
	Value       *LensCandidate `json:"value"`
	AntiWalkout *LensCandidate `json:"anti_walkout"`
}

// Slots maps each slot label to its candidate
func (s *FourLensSelection) Slots() map[types.LensSlot]*LensCandidate {
	return map[types.LensSlot]*LensCandidate{
		types.LensSlotBestMatch:   s.BestMatch,
		types.LensSlotPremium:     s.Premium,
		types.LensSlotValue:       s.Value,
		types.LensSlotAntiWalkout: s.AntiWalkout,
	}
}
