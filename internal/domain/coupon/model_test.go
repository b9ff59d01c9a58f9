package coupon

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckRedeemable(t *testing.T) {
	now := time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	base := Coupon{
		Code:         "SAVE10",
		DiscountType: types.CouponDiscountTypePercentage,
		Value:        decimal.NewFromInt(10),
		BaseModel:    types.BaseModel{Status: types.StatusActive},
	}

	tests := []struct {
		name   string
		mutate func(c *Coupon)
		cart   int64
		code   types.CouponRedemptionErrorCode
	}{
		{"redeemable", func(c *Coupon) {}, 1000, ""},
		{"inactive", func(c *Coupon) { c.Status = types.StatusInactive }, 1000, types.CouponErrorInactive},
		{"not started", func(c *Coupon) { c.ValidFrom = lo.ToPtr(now.Add(time.Hour)) }, 1000, types.CouponErrorNotStarted},
		{"expired", func(c *Coupon) { c.ValidUntil = lo.ToPtr(now.Add(-time.Hour)) }, 1000, types.CouponErrorExpired},
		{"usage limit", func(c *Coupon) { c.UsageLimit = lo.ToPtr(5); c.UsedCount = 5 }, 1000, types.CouponErrorUsageLimitReached},
		{"below min cart", func(c *Coupon) { c.MinCartValue = lo.ToPtr(decimal.NewFromInt(2000)) }, 1800, types.CouponErrorMinCartValue},
		{"at min cart", func(c *Coupon) { c.MinCartValue = lo.ToPtr(decimal.NewFromInt(2000)) }, 2000, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base
			tt.mutate(&c)
			err := c.CheckRedeemable(now, decimal.NewFromInt(tt.cart))
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			var redemptionErr *RedemptionError
			require.True(t, errors.As(err, &redemptionErr))
			assert.Equal(t, tt.code, redemptionErr.Code)
		})
	}
}

func TestCheckRedeemableMessage(t *testing.T) {
	c := Coupon{
		Code:         "SAVE10",
		MinCartValue: lo.ToPtr(decimal.NewFromInt(2000)),
		BaseModel:    types.BaseModel{Status: types.StatusActive},
	}
	err := c.CheckRedeemable(time.Now(), decimal.NewFromInt(1800))
	require.Error(t, err)
	assert.Equal(t, "Minimum cart value of 2000 required for coupon SAVE10", err.Error())
}

func TestDiscount(t *testing.T) {
	percent := Coupon{DiscountType: types.CouponDiscountTypePercentage, Value: decimal.NewFromInt(10)}
	assert.True(t, percent.Discount(decimal.NewFromInt(5000)).Equal(decimal.NewFromInt(500)))

	percent.MaxDiscount = lo.ToPtr(decimal.NewFromInt(300))
	assert.True(t, percent.Discount(decimal.NewFromInt(5000)).Equal(decimal.NewFromInt(300)))

	flat := Coupon{DiscountType: types.CouponDiscountTypeFlat, Value: decimal.NewFromInt(750)}
	assert.True(t, flat.Discount(decimal.NewFromInt(5000)).Equal(decimal.NewFromInt(750)))
	assert.True(t, flat.Discount(decimal.NewFromInt(500)).Equal(decimal.NewFromInt(500)), "never more than the cart")
	assert.True(t, flat.Discount(decimal.Zero).IsZero())
}
