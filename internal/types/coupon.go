package types

import (
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/samber/lo"
)

// CouponDiscountType represents the type of coupon discount (flat or percentage)
type CouponDiscountType string

const (
	// CouponDiscountTypeFlat represents a fixed amount coupon discount
	CouponDiscountTypeFlat CouponDiscountType = "FLAT"
	// CouponDiscountTypePercentage represents a percentage-based coupon discount
	CouponDiscountTypePercentage CouponDiscountType = "PERCENTAGE"
)

func (c CouponDiscountType) Validate() error {
	allowed := []CouponDiscountType{CouponDiscountTypeFlat, CouponDiscountTypePercentage}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid coupon discount type").
			WithHint("Coupon discount type must be FLAT or PERCENTAGE").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"type":    c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// WildcardBrand matches every frame brand in category discounts and rule predicates
const WildcardBrand = "*"

// CouponRedemptionErrorCode classifies why a coupon could not be applied
type CouponRedemptionErrorCode string

const (
	CouponErrorNotFound          CouponRedemptionErrorCode = "not_found"
	CouponErrorInactive          CouponRedemptionErrorCode = "inactive"
	CouponErrorNotStarted        CouponRedemptionErrorCode = "not_started"
	CouponErrorExpired           CouponRedemptionErrorCode = "expired"
	CouponErrorUsageLimitReached CouponRedemptionErrorCode = "usage_limit_reached"
	CouponErrorMinCartValue      CouponRedemptionErrorCode = "min_cart_value_not_met"
	CouponErrorNotCombinable     CouponRedemptionErrorCode = "not_combinable"
)
