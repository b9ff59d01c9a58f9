package coupon

import (
	"fmt"
	"time"

	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// Coupon is a customer entered discount code
type Coupon struct {
	ID           string                   `json:"id" db:"id"`
	Code         string                   `json:"code" db:"code"`
	DiscountType types.CouponDiscountType `json:"discount_type" db:"discount_type"`
	Value        decimal.Decimal          `json:"value" db:"value"`
	MaxDiscount  *decimal.Decimal         `json:"max_discount,omitempty" db:"max_discount"`
	MinCartValue *decimal.Decimal         `json:"min_cart_value,omitempty" db:"min_cart_value"`
	ValidFrom    *time.Time               `json:"valid_from,omitempty" db:"valid_from"`
	ValidUntil   *time.Time               `json:"valid_until,omitempty" db:"valid_until"`
	UsedCount    int                      `json:"used_count" db:"used_count"`
	UsageLimit   *int                     `json:"usage_limit,omitempty" db:"usage_limit"`

	types.BaseModel
}

// RedemptionError explains why a coupon cannot be applied. Its message is
// shown to the customer as is.
type RedemptionError struct {
	Code    types.CouponRedemptionErrorCode
	Message string
}

func (e *RedemptionError) Error() string {
	return e.Message
}

// CheckRedeemable validates the coupon window, usage limit and minimum cart
// value. It returns nil or a *RedemptionError.
func (c *Coupon) CheckRedeemable(now time.Time, cartValue decimal.Decimal) error {
	if !c.IsActive() {
		return &RedemptionError{
			Code:    types.CouponErrorInactive,
			Message: fmt.Sprintf("Coupon %s is not active", c.Code),
		}
	}
	if c.ValidFrom != nil && now.Before(*c.ValidFrom) {
		return &RedemptionError{
			Code:    types.CouponErrorNotStarted,
			Message: fmt.Sprintf("Coupon %s is not valid yet", c.Code),
		}
	}
	if c.ValidUntil != nil && now.After(*c.ValidUntil) {
		return &RedemptionError{
			Code:    types.CouponErrorExpired,
			Message: fmt.Sprintf("Coupon %s has expired", c.Code),
		}
	}
	if c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit {
		return &RedemptionError{
			Code:    types.CouponErrorUsageLimitReached,
			Message: fmt.Sprintf("Coupon %s has reached its usage limit", c.Code),
		}
	}
	if c.MinCartValue != nil && cartValue.LessThan(*c.MinCartValue) {
		return &RedemptionError{
			Code:    types.CouponErrorMinCartValue,
			Message: fmt.Sprintf("Minimum cart value of %s required for coupon %s", c.MinCartValue.StringFixed(0), c.Code),
		}
	}
	return nil
}

// Discount computes the amount taken off cartValue. It never exceeds the cart.
func (c *Coupon) Discount(cartValue decimal.Decimal) decimal.Decimal {
	if !cartValue.IsPositive() {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case types.CouponDiscountTypePercentage:
		discount = cartValue.Mul(c.Value).Div(decimal.NewFromInt(100))
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case types.CouponDiscountTypeFlat:
		discount = c.Value
	default:
		return decimal.Zero
	}

	return decimal.Max(decimal.Zero, decimal.Min(discount, cartValue))
}
