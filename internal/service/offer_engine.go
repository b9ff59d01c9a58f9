package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/domain/categorydiscount"
	"github.com/lensprice/lensprice/internal/domain/coupon"
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/offer"
	"github.com/lensprice/lensprice/internal/domain/pricing"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// OfferInput is one frame and lens pair to price
type OfferInput struct {
	Frame     *frame.Frame
	Lens      *product.LensProduct
	LensPrice decimal.Decimal

	CustomerCategory string
	CouponCode       string

	// SecondPair is set when the customer buys a second pair on the same bill
	SecondPair *SecondPairInput
}

type SecondPairInput struct {
	FrameMRP  decimal.Decimal
	LensPrice decimal.Decimal
}

func (p *SecondPairInput) Total() decimal.Decimal {
	return p.FrameMRP.Add(p.LensPrice)
}

// RuleSet is every rule that may apply to a calculation. Coupon is the
// resolved CouponCode and is nil when the code does not exist.
type RuleSet struct {
	OfferRules        []*offer.OfferRule
	CategoryDiscounts []*categorydiscount.CategoryDiscount
	Coupon            *coupon.Coupon
}

// OfferEngine runs the four stage discount waterfall: primary offer, second
// pair, category discount, coupon. It never fails; the worst case is full price.
type OfferEngine struct {
	cfg    config.EngineConfig
	logger *logger.Logger
	now    func() time.Time
}

func NewOfferEngine(cfg config.EngineConfig, log *logger.Logger) *OfferEngine {
	return &OfferEngine{
		cfg:    cfg,
		logger: log,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for coupon validity windows
func (e *OfferEngine) WithClock(now func() time.Time) *OfferEngine {
	e.now = now
	return e
}

// waterfall is the running state of one calculation
type waterfall struct {
	input  OfferInput
	result *pricing.OfferCalculationResult

	firstPairBase  decimal.Decimal
	firstPairTotal decimal.Decimal
	effectiveBase  decimal.Decimal
	lockedBy       types.OfferType
}

func (w *waterfall) addComponent(label string, amount decimal.Decimal) {
	w.result.PriceComponents = append(w.result.PriceComponents, pricing.PriceComponent{
		Label:  label,
		Amount: amount,
	})
}

// applyDiscount subtracts savings from the running total and records it
func (w *waterfall) applyDiscount(applied pricing.AppliedOffer) *pricing.AppliedOffer {
	w.effectiveBase = w.effectiveBase.Sub(applied.Savings)
	w.addComponent(applied.Description, applied.Savings.Neg())
	w.result.AppliedOffers = append(w.result.AppliedOffers, applied)
	return &applied
}

// Calculate prices the input against rules
func (e *OfferEngine) Calculate(input OfferInput, rules RuleSet) *pricing.OfferCalculationResult {
	frameMRP := decimal.Zero
	if input.Frame != nil {
		frameMRP = decimal.Max(decimal.Zero, input.Frame.MRP)
	}
	lensPrice := decimal.Max(decimal.Zero, input.LensPrice)

	w := &waterfall{
		input: input,
		result: &pricing.OfferCalculationResult{
			FrameMRP:        frameMRP,
			LensPrice:       lensPrice,
			AppliedOffers:   make([]pricing.AppliedOffer, 0),
			PriceComponents: make([]pricing.PriceComponent, 0),
		},
		firstPairBase: frameMRP.Add(lensPrice),
	}

	baseTotal := w.firstPairBase
	w.addComponent("Frame MRP", frameMRP)
	w.addComponent("Lens price", lensPrice)
	if input.SecondPair != nil {
		baseTotal = baseTotal.Add(input.SecondPair.Total())
		w.addComponent("Second pair", input.SecondPair.Total())
	}
	w.result.BaseTotal = baseTotal
	w.effectiveBase = baseTotal

	activeRules := e.usableRules(rules.OfferRules)

	e.applyPrimaryOffer(w, activeRules)
	w.firstPairTotal = w.firstPairBase.Sub(lo.FromPtrOr(w.result.PrimaryOffer, pricing.AppliedOffer{}).Savings)

	if w.lockedBy == "" {
		e.applySecondPair(w, activeRules)
		e.applyCategoryDiscount(w, activeRules, rules.CategoryDiscounts)
	}
	e.applyCoupon(w, rules.Coupon)

	w.result.Locked = w.lockedBy != ""
	w.result.EffectiveBase = w.effectiveBase
	w.result.FinalPayable = decimal.Max(decimal.Zero, w.effectiveBase.Round(0))
	w.result.TotalSavings = decimal.Max(decimal.Zero, baseTotal.Sub(w.result.FinalPayable))
	w.result.BonusProducts = e.bonusProducts(w, activeRules)
	w.result.Upsell = EvaluateUpsell(activeRules, input.Frame, w.result.FinalPayable, e.cfg.Currency())

	return w.result
}

// usableRules drops inactive rules and rules whose config fails validation
func (e *OfferEngine) usableRules(rules []*offer.OfferRule) []*offer.OfferRule {
	return lo.Filter(rules, func(r *offer.OfferRule, _ int) bool {
		if r == nil || !r.IsActive() {
			return false
		}
		if err := r.Validate(); err != nil {
			e.logger.Warnw("skipping invalid offer rule",
				"rule_id", r.ID,
				"rule_code", r.Code,
				"type", r.Type,
				"error", err)
			return false
		}
		return true
	})
}

// primaryCandidates orders primary rules by type rank, then rule priority
func primaryCandidates(rules []*offer.OfferRule) []*offer.OfferRule {
	primary := lo.Filter(rules, func(r *offer.OfferRule, _ int) bool {
		return r.Type.IsPrimary()
	})
	sort.SliceStable(primary, func(i, j int) bool {
		ri, rj := primary[i].Type.PrimaryRank(), primary[j].Type.PrimaryRank()
		if ri != rj {
			return ri < rj
		}
		return primary[i].Priority < primary[j].Priority
	})
	return primary
}

func (e *OfferEngine) primaryEligible(w *waterfall, r *offer.OfferRule) bool {
	if !r.Eligibility.Matches(w.input.Frame, w.input.Lens) {
		return false
	}
	if r.Type == types.OfferTypeYOPO {
		return w.input.Lens != nil && w.input.Lens.YOPOEligible
	}
	return true
}

func (e *OfferEngine) applyPrimaryOffer(w *waterfall, rules []*offer.OfferRule) {
	rule, found := lo.Find(primaryCandidates(rules), func(r *offer.OfferRule) bool {
		return e.primaryEligible(w, r)
	})
	if !found {
		return
	}

	applied := pricing.AppliedOffer{
		RuleID:   rule.ID,
		RuleCode: rule.Code,
		Type:     rule.Type,
		Savings:  decimal.Zero,
	}
	frameMRP, lensPrice, base := w.result.FrameMRP, w.result.LensPrice, w.firstPairBase

	switch cfg := rule.Config.(type) {
	case *offer.ComboPriceConfig:
		newTotal := decimal.Min(cfg.ComboPrice, base)
		applied.Savings = base.Sub(newTotal)
		applied.Description = fmt.Sprintf("Combo price %s", cfg.ComboPrice.StringFixed(0))
		if cfg.Locks() {
			w.lockedBy = rule.Type
		}

	case *offer.YOPOConfig:
		newTotal := decimal.Max(frameMRP, lensPrice)
		applied.Savings = base.Sub(newTotal)
		applied.Description = "YOPO: pay only for the higher of frame or lens"
		w.lockedBy = rule.Type

	case *offer.FreeLensConfig:
		free := lensPrice
		switch cfg.RuleType {
		case types.FreeLensRuleTypePercentOfFrame:
			percent := e.cfg.FreeLensPercentLimit()
			if cfg.PercentLimit != nil {
				percent = *cfg.PercentLimit
			}
			free = decimal.Min(lensPrice, percentOf(frameMRP, percent))
			applied.Description = fmt.Sprintf("Free lens up to %s%% of frame MRP", percent.String())
		case types.FreeLensRuleTypeValueLimit:
			free = decimal.Min(lensPrice, *cfg.ValueLimit)
			applied.Description = fmt.Sprintf("Free lens up to %s", cfg.ValueLimit.StringFixed(0))
		default:
			applied.Description = "Free lens"
		}
		applied.Savings = decimal.Max(decimal.Zero, free)

	case *offer.PercentOffConfig:
		var target decimal.Decimal
		switch cfg.EffectiveTarget() {
		case types.DiscountTargetFrame:
			target = frameMRP
		case types.DiscountTargetLens:
			target = lensPrice
		default:
			target = base
		}
		savings := percentOf(target, cfg.Percent)
		if cfg.MaxDiscount != nil {
			savings = decimal.Min(savings, *cfg.MaxDiscount)
		}
		applied.Savings = decimal.Max(decimal.Zero, savings)
		applied.Description = fmt.Sprintf("%s%% off %s", cfg.Percent.String(), strings.ToLower(string(cfg.EffectiveTarget())))

	case *offer.FlatOffConfig:
		if w.result.BaseTotal.LessThan(cfg.MinBillValue) {
			applied.Description = fmt.Sprintf("Flat %s off (min bill not met: %s)",
				cfg.Amount.StringFixed(0), cfg.MinBillValue.StringFixed(0))
		} else {
			applied.Savings = decimal.Min(cfg.Amount, base)
			applied.Description = fmt.Sprintf("Flat %s off", cfg.Amount.StringFixed(0))
		}

	default:
		return
	}

	w.result.PrimaryOffer = w.applyDiscount(applied)
}

// bog50Rule returns the first BOG50 rule whose brands or categories cover the frame
func bog50Rule(rules []*offer.OfferRule, f *frame.Frame) (*offer.OfferRule, *offer.BOG50Config) {
	if f == nil {
		return nil, nil
	}
	candidates := lo.Filter(rules, func(r *offer.OfferRule, _ int) bool {
		return r.Type == types.OfferTypeBOG50
	})
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Priority < candidates[j].Priority
	})

	for _, r := range candidates {
		cfg, ok := r.Config.(*offer.BOG50Config)
		if !ok || !r.Eligibility.MatchesFrame(f) {
			continue
		}
		if codeListMatches(cfg.Brands, f.Brand) || codeListMatches(cfg.Categories, f.SubCategory) {
			return r, cfg
		}
	}
	return nil, nil
}

func codeListMatches(codes []string, code string) bool {
	if code == "" {
		return lo.Contains(codes, types.WildcardBrand)
	}
	return lo.ContainsBy(codes, func(c string) bool {
		return c == types.WildcardBrand || frame.NormalizeCode(c) == frame.NormalizeCode(code)
	})
}

// applySecondPair discounts the cheaper of the two pairs
func (e *OfferEngine) applySecondPair(w *waterfall, rules []*offer.OfferRule) {
	if w.input.SecondPair == nil {
		return
	}
	rule, cfg := bog50Rule(rules, w.input.Frame)
	if rule == nil {
		return
	}

	percent := e.cfg.SecondPairPercent()
	if cfg.SecondPairPercent != nil {
		percent = *cfg.SecondPairPercent
	}
	lower := decimal.Min(w.firstPairTotal, w.input.SecondPair.Total())
	savings := decimal.Max(decimal.Zero, percentOf(lower, percent))

	w.result.SecondPairDiscount = w.applyDiscount(pricing.AppliedOffer{
		RuleID:      rule.ID,
		RuleCode:    rule.Code,
		Type:        types.OfferTypeBOG50,
		Description: fmt.Sprintf("Second pair %s%% off", percent.String()),
		Savings:     savings,
	})
}

// categoryCandidates merges category discount records with CATEGORY_DISCOUNT
// rules that match the customer category and the frame/lens predicate
func categoryCandidates(w *waterfall, rules []*offer.OfferRule, discounts []*categorydiscount.CategoryDiscount) []*categorydiscount.CategoryDiscount {
	category := w.input.CustomerCategory
	brand := ""
	if w.input.Frame != nil {
		brand = w.input.Frame.Brand
	}

	out := lo.Filter(discounts, func(d *categorydiscount.CategoryDiscount, _ int) bool {
		return d != nil && d.IsActive() && d.Matches(category, brand)
	})

	for _, r := range rules {
		cfg, ok := r.Config.(*offer.CategoryDiscountConfig)
		if !ok || !r.Eligibility.Matches(w.input.Frame, w.input.Lens) {
			continue
		}
		d := &categorydiscount.CategoryDiscount{
			ID:               r.ID,
			CustomerCategory: cfg.CustomerCategory,
			BrandCode:        types.WildcardBrand,
			Percent:          cfg.Percent,
			MaxDiscount:      cfg.MaxDiscount,
			SourceRuleID:     r.ID,
			BaseModel:        r.BaseModel,
		}
		if d.Matches(category, brand) {
			out = append(out, d)
		}
	}
	return out
}

func (e *OfferEngine) applyCategoryDiscount(w *waterfall, rules []*offer.OfferRule, discounts []*categorydiscount.CategoryDiscount) {
	if w.input.CustomerCategory == "" {
		return
	}
	candidates := categoryCandidates(w, rules, discounts)
	if len(candidates) == 0 {
		return
	}

	chosen := candidates[0]
	for _, d := range candidates[1:] {
		if d.Percent.GreaterThan(chosen.Percent) {
			chosen = d
		}
	}

	savings := chosen.Discount(w.effectiveBase)
	w.result.CategoryDiscount = w.applyDiscount(pricing.AppliedOffer{
		RuleID:      chosen.ID,
		Type:        types.OfferTypeCategoryDiscount,
		Description: fmt.Sprintf("%s discount %s%%", chosen.CustomerCategory, chosen.Percent.String()),
		Savings:     savings,
	})
}

// applyCoupon never fails the calculation; problems become CouponError
func (e *OfferEngine) applyCoupon(w *waterfall, c *coupon.Coupon) {
	code := strings.TrimSpace(w.input.CouponCode)
	if code == "" {
		return
	}
	if w.lockedBy != "" {
		w.result.CouponError = fmt.Sprintf("Coupon cannot be combined with %s offer", w.lockedBy)
		return
	}
	if c == nil {
		w.result.CouponError = fmt.Sprintf("Coupon %s is not valid", code)
		return
	}
	if err := c.CheckRedeemable(e.now(), w.effectiveBase); err != nil {
		w.result.CouponError = err.Error()
		return
	}

	w.result.CouponDiscount = w.applyDiscount(pricing.AppliedOffer{
		RuleID:      c.ID,
		RuleCode:    c.Code,
		Type:        types.OfferTypeCoupon,
		Description: fmt.Sprintf("Coupon %s", c.Code),
		Savings:     c.Discount(w.effectiveBase),
	})
}

func (e *OfferEngine) bonusProducts(w *waterfall, rules []*offer.OfferRule) []pricing.BonusProduct {
	var out []pricing.BonusProduct
	for _, r := range rules {
		cfg, ok := r.Config.(*offer.BonusFreeProductConfig)
		if !ok || !r.Eligibility.Matches(w.input.Frame, w.input.Lens) {
			continue
		}
		if cfg.MinBillValue != nil && w.effectiveBase.LessThan(*cfg.MinBillValue) {
			continue
		}
		out = append(out, pricing.BonusProduct{
			RuleID:      r.ID,
			ProductCode: cfg.ProductCode,
			Description: cfg.Description,
		})
	}
	return out
}

func percentOf(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(decimal.NewFromInt(100))
}
