package offer

import (
	"encoding/json"

	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/product"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OfferRule is a promotional rule. Config carries the type specific fields
// and is decoded and validated when the rule is loaded.
type OfferRule struct {
	ID          string          `json:"id" db:"id"`
	Code        string          `json:"code" db:"code"`
	Name        string          `json:"name" db:"name"`
	Type        types.OfferType `json:"type" db:"type"`
	Priority    int             `json:"priority" db:"priority"`
	Eligibility Eligibility     `json:"eligibility" db:"-"`
	Config      RuleConfig      `json:"config" db:"-"`
	Upsell      Upsell          `json:"upsell" db:"-"`

	types.BaseModel
}

// Eligibility restricts the frames and lenses a rule applies to. Empty lists
// are unrestricted; "*" in FrameBrands matches every brand.
type Eligibility struct {
	FrameBrands        []string         `json:"frame_brands,omitempty"`
	FrameSubCategories []string         `json:"frame_sub_categories,omitempty"`
	MinFrameMRP        *decimal.Decimal `json:"min_frame_mrp,omitempty"`
	MaxFrameMRP        *decimal.Decimal `json:"max_frame_mrp,omitempty"`
	LensBrandLines     []string         `json:"lens_brand_lines,omitempty"`
}

// Upsell describes the "spend X more, get Y" hint attached to a rule
type Upsell struct {
	Enabled    bool             `json:"enabled"`
	Threshold  *decimal.Decimal `json:"threshold,omitempty"`
	RewardText string           `json:"reward_text,omitempty"`
}

func (r *OfferRule) Validate() error {
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.Config == nil {
		return ierr.NewError("offer rule has no config").
			WithHintf("Offer rule %s is missing its %s configuration", r.Code, r.Type).
			WithReportableDetails(map[string]any{
				"rule_id": r.ID,
				"type":    r.Type,
			}).
			Mark(ierr.ErrValidation)
	}
	if r.Config.OfferType() != r.Type {
		return ierr.NewError("offer rule config does not match its type").
			WithHintf("Offer rule %s has a %s config but is typed %s", r.Code, r.Config.OfferType(), r.Type).
			WithReportableDetails(map[string]any{
				"rule_id":     r.ID,
				"type":        r.Type,
				"config_type": r.Config.OfferType(),
			}).
			Mark(ierr.ErrValidation)
	}
	return r.Config.Validate()
}

// MatchesFrame checks the frame side of the eligibility predicate
func (e Eligibility) MatchesFrame(f *frame.Frame) bool {
	if !e.MatchesFrameBrand(f) {
		return false
	}
	if len(e.FrameSubCategories) > 0 {
		if f == nil || !containsCode(e.FrameSubCategories, f.SubCategory) {
			return false
		}
	}
	mrp := decimal.Zero
	if f != nil {
		mrp = f.MRP
	}
	if e.MinFrameMRP != nil && mrp.LessThan(*e.MinFrameMRP) {
		return false
	}
	if e.MaxFrameMRP != nil && mrp.GreaterThan(*e.MaxFrameMRP) {
		return false
	}
	return true
}

// MatchesFrameBrand accepts an explicit brand, the wildcard, or no restriction
func (e Eligibility) MatchesFrameBrand(f *frame.Frame) bool {
	if len(e.FrameBrands) == 0 || lo.Contains(e.FrameBrands, types.WildcardBrand) {
		return true
	}
	return f != nil && containsCode(e.FrameBrands, f.Brand)
}

// MatchesLens checks the lens brand line restriction
func (e Eligibility) MatchesLens(lens *product.LensProduct) bool {
	if len(e.LensBrandLines) == 0 {
		return true
	}
	return lens != nil && containsCode(e.LensBrandLines, lens.BrandLine)
}

func (e Eligibility) Matches(f *frame.Frame, lens *product.LensProduct) bool {
	return e.MatchesFrame(f) && e.MatchesLens(lens)
}

// IsUpsellCandidate reports whether the rule carries a usable upsell hint
func (r *OfferRule) IsUpsellCandidate() bool {
	return r.Upsell.Enabled && r.Upsell.Threshold != nil && r.Upsell.RewardText != ""
}

func containsCode(codes []string, code string) bool {
	code = frame.NormalizeCode(code)
	if code == "" {
		return false
	}
	return lo.ContainsBy(codes, func(c string) bool {
		return frame.NormalizeCode(c) == code
	})
}

// DecodeConfig builds the typed config for an offer type from its stored JSON
func DecodeConfig(offerType types.OfferType, raw json.RawMessage) (RuleConfig, error) {
	var cfg RuleConfig
	switch offerType {
	case types.OfferTypeComboPrice:
		cfg = &ComboPriceConfig{}
	case types.OfferTypeYOPO:
		cfg = &YOPOConfig{}
	case types.OfferTypeFreeLens:
		cfg = &FreeLensConfig{}
	case types.OfferTypePercentOff:
		cfg = &PercentOffConfig{}
	case types.OfferTypeFlatOff:
		cfg = &FlatOffConfig{}
	case types.OfferTypeBOG50:
		cfg = &BOG50Config{}
	case types.OfferTypeCategoryDiscount:
		cfg = &CategoryDiscountConfig{}
	case types.OfferTypeBonusFreeProduct:
		cfg = &BonusFreeProductConfig{}
	default:
		return nil, ierr.NewErrorf("unknown offer type %s", offerType).
			WithHint("Offer type is not supported").
			Mark(ierr.ErrValidation)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, cfg); err != nil {
			return nil, ierr.WithError(err).
				WithHintf("Invalid %s offer configuration", offerType).
				Mark(ierr.ErrValidation)
		}
	}
	return cfg, nil
}
