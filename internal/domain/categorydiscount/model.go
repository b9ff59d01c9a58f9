package categorydiscount

import (
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// CategoryDiscount is a percentage discount for a customer category
// (student, senior citizen, corporate) on one frame brand or on all brands
type CategoryDiscount struct {
	ID               string           `json:"id" db:"id"`
	CustomerCategory string           `json:"customer_category" db:"customer_category"`
	BrandCode        string           `json:"brand_code" db:"brand_code"`
	Percent          decimal.Decimal  `json:"percent" db:"percent"`
	MaxDiscount      *decimal.Decimal `json:"max_discount,omitempty" db:"max_discount"`

	// SourceRuleID is set when the discount came from a CATEGORY_DISCOUNT offer rule
	SourceRuleID string `json:"source_rule_id,omitempty" db:"-"`

	types.BaseModel
}

func (d *CategoryDiscount) IsWildcard() bool {
	return d.BrandCode == "" || d.BrandCode == types.WildcardBrand
}

// Matches reports whether the discount applies to the customer category and frame brand
func (d *CategoryDiscount) Matches(category string, brand string) bool {
	if category == "" || frame.NormalizeCode(d.CustomerCategory) != frame.NormalizeCode(category) {
		return false
	}
	return d.IsWildcard() || frame.NormalizeCode(d.BrandCode) == frame.NormalizeCode(brand)
}

// Discount is min(base * percent / 100, maxDiscount), never more than base
func (d *CategoryDiscount) Discount(base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	discount := base.Mul(d.Percent).Div(decimal.NewFromInt(100))
	if d.MaxDiscount != nil && discount.GreaterThan(*d.MaxDiscount) {
		discount = *d.MaxDiscount
	}
	return decimal.Max(decimal.Zero, decimal.Min(discount, base))
}
