package offer

import (
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// RuleConfig is the type specific part of an OfferRule. Each offer type has
// its own implementation carrying only the fields it needs.
type RuleConfig interface {
	OfferType() types.OfferType
	Validate() error
}

// ComboPriceConfig sells frame and lens together at a fixed price
type ComboPriceConfig struct {
	ComboPrice decimal.Decimal `json:"combo_price"`
	// DisableLock lets later waterfall stages run after the combo applies
	DisableLock bool `json:"disable_lock,omitempty"`
}

// YOPOConfig charges the higher of frame MRP and lens price
type YOPOConfig struct{}

// FreeLensConfig makes the lens free up to a limit
type FreeLensConfig struct {
	RuleType types.FreeLensRuleType `json:"rule_type"`
	// PercentLimit is the share of frame MRP for PERCENT_OF_FRAME, engine default when nil
	PercentLimit *decimal.Decimal `json:"percent_limit,omitempty"`
	ValueLimit   *decimal.Decimal `json:"value_limit,omitempty"`
}

// PercentOffConfig takes a percentage off the frame, the lens, or both
type PercentOffConfig struct {
	Percent     decimal.Decimal      `json:"percent"`
	Target      types.DiscountTarget `json:"target,omitempty"`
	MaxDiscount *decimal.Decimal     `json:"max_discount,omitempty"`
}

// FlatOffConfig subtracts a flat amount from bills of at least MinBillValue
type FlatOffConfig struct {
	Amount       decimal.Decimal `json:"amount"`
	MinBillValue decimal.Decimal `json:"min_bill_value"`
}

// BOG50Config discounts the cheaper of two pairs
type BOG50Config struct {
	SecondPairPercent *decimal.Decimal `json:"second_pair_percent,omitempty"`
	Brands            []string         `json:"brands,omitempty"`
	Categories        []string         `json:"categories,omitempty"`
}

// CategoryDiscountConfig is a customer category discount expressed as a rule
type CategoryDiscountConfig struct {
	CustomerCategory string           `json:"customer_category"`
	Percent          decimal.Decimal  `json:"percent"`
	MaxDiscount      *decimal.Decimal `json:"max_discount,omitempty"`
}

// BonusFreeProductConfig gives away a product without changing the price
type BonusFreeProductConfig struct {
	ProductCode  string           `json:"product_code"`
	Description  string           `json:"description,omitempty"`
	MinBillValue *decimal.Decimal `json:"min_bill_value,omitempty"`
}

func (c *ComboPriceConfig) OfferType() types.OfferType { return types.OfferTypeComboPrice }
func (c *YOPOConfig) OfferType() types.OfferType       { return types.OfferTypeYOPO }
func (c *FreeLensConfig) OfferType() types.OfferType   { return types.OfferTypeFreeLens }
func (c *PercentOffConfig) OfferType() types.OfferType { return types.OfferTypePercentOff }
func (c *FlatOffConfig) OfferType() types.OfferType    { return types.OfferTypeFlatOff }
func (c *BOG50Config) OfferType() types.OfferType      { return types.OfferTypeBOG50 }
func (c *CategoryDiscountConfig) OfferType() types.OfferType {
	return types.OfferTypeCategoryDiscount
}
func (c *BonusFreeProductConfig) OfferType() types.OfferType {
	return types.OfferTypeBonusFreeProduct
}

// Locks reports whether the combo blocks every later stage
func (c *ComboPriceConfig) Locks() bool {
	return !c.DisableLock
}

func (c *ComboPriceConfig) Validate() error {
	if c.ComboPrice.IsNegative() {
		return invalidConfig(types.OfferTypeComboPrice, "combo_price must not be negative")
	}
	return nil
}

func (c *YOPOConfig) Validate() error {
	return nil
}

func (c *FreeLensConfig) Validate() error {
	if c.RuleType == "" {
		return invalidConfig(types.OfferTypeFreeLens, "rule_type is required")
	}
	if err := c.RuleType.Validate(); err != nil {
		return err
	}
	if c.RuleType == types.FreeLensRuleTypeValueLimit && c.ValueLimit == nil {
		return invalidConfig(types.OfferTypeFreeLens, "value_limit is required for VALUE_LIMIT")
	}
	if c.PercentLimit != nil && (c.PercentLimit.IsNegative() || c.PercentLimit.GreaterThan(hundred)) {
		return invalidConfig(types.OfferTypeFreeLens, "percent_limit must be between 0 and 100")
	}
	return nil
}

// EffectiveTarget resolves the discount target, BOTH when unset
func (c *PercentOffConfig) EffectiveTarget() types.DiscountTarget {
	if c.Target == "" {
		return types.DiscountTargetBoth
	}
	return c.Target
}

func (c *PercentOffConfig) Validate() error {
	if c.Percent.LessThanOrEqual(decimal.Zero) || c.Percent.GreaterThan(hundred) {
		return invalidConfig(types.OfferTypePercentOff, "percent must be above 0 and at most 100")
	}
	if c.MaxDiscount != nil && c.MaxDiscount.IsNegative() {
		return invalidConfig(types.OfferTypePercentOff, "max_discount must not be negative")
	}
	if c.Target != "" {
		return c.Target.Validate()
	}
	return nil
}

func (c *FlatOffConfig) Validate() error {
	if c.Amount.LessThanOrEqual(decimal.Zero) {
		return invalidConfig(types.OfferTypeFlatOff, "amount must be positive")
	}
	if c.MinBillValue.IsNegative() {
		return invalidConfig(types.OfferTypeFlatOff, "min_bill_value must not be negative")
	}
	return nil
}

func (c *BOG50Config) Validate() error {
	if len(c.Brands) == 0 && len(c.Categories) == 0 {
		return invalidConfig(types.OfferTypeBOG50, "brands or categories are required")
	}
	if c.SecondPairPercent != nil && (c.SecondPairPercent.LessThanOrEqual(decimal.Zero) || c.SecondPairPercent.GreaterThan(hundred)) {
		return invalidConfig(types.OfferTypeBOG50, "second_pair_percent must be above 0 and at most 100")
	}
	return nil
}

func (c *CategoryDiscountConfig) Validate() error {
	if c.CustomerCategory == "" {
		return invalidConfig(types.OfferTypeCategoryDiscount, "customer_category is required")
	}
	if c.Percent.LessThanOrEqual(decimal.Zero) || c.Percent.GreaterThan(hundred) {
		return invalidConfig(types.OfferTypeCategoryDiscount, "percent must be above 0 and at most 100")
	}
	if c.MaxDiscount != nil && c.MaxDiscount.IsNegative() {
		return invalidConfig(types.OfferTypeCategoryDiscount, "max_discount must not be negative")
	}
	return nil
}

func (c *BonusFreeProductConfig) Validate() error {
	if c.ProductCode == "" {
		return invalidConfig(types.OfferTypeBonusFreeProduct, "product_code is required")
	}
	return nil
}

var hundred = decimal.NewFromInt(100)

func invalidConfig(offerType types.OfferType, reason string) error {
	return ierr.NewErrorf("invalid %s config: %s", offerType, reason).
		WithHintf("Offer configuration is invalid: %s", reason).
		WithReportableDetails(map[string]any{
			"type":   offerType,
			"reason": reason,
		}).
		Mark(ierr.ErrValidation)
}
