package service

import (
	"math/rand"
	"testing"
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
	"github.com/stretchr/testify/suite"
)

type OfferEngineSuite struct {
	suite.Suite
	engine *OfferEngine
	now    time.Time
}

func TestOfferEngine(t *testing.T) {
	suite.Run(t, new(OfferEngineSuite))
}

func (s *OfferEngineSuite) SetupTest() {
	s.now = time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
	s.engine = NewOfferEngine(config.EngineConfig{}, logger.NewNopLogger()).
		WithClock(func() time.Time { return s.now })
}

func (s *OfferEngineSuite) input(frameMRP, lensPrice string) OfferInput {
	return OfferInput{
		Frame: &frame.Frame{
			Brand:       "RAYBAN",
			SubCategory: "PREMIUM",
			RimType:     types.RimTypeFull,
			MRP:         dec(frameMRP),
		},
		Lens: &product.LensProduct{
			ID:           "lens_1",
			Code:         "BLUE160",
			BrandLine:    "BLUEXPERT",
			IndexTier:    types.IndexTier160,
			YOPOEligible: true,
		},
		LensPrice: dec(lensPrice),
	}
}

func (s *OfferEngineSuite) assertDecimal(expected string, actual decimal.Decimal, msgAndArgs ...interface{}) {
	s.T().Helper()
	assertDecimal(s.T(), expected, actual, msgAndArgs...)
}

func (s *OfferEngineSuite) activeCoupon(code string, discountType types.CouponDiscountType, value string) *coupon.Coupon {
	return &coupon.Coupon{
		ID:           "coupon_" + code,
		Code:         code,
		DiscountType: discountType,
		Value:        dec(value),
		BaseModel:    types.BaseModel{Status: types.StatusActive},
	}
}

func (s *OfferEngineSuite) TestNoRules() {
	result := s.engine.Calculate(s.input("2000", "1500"), RuleSet{})

	s.assertDecimal("3500", result.BaseTotal)
	s.assertDecimal("3500", result.EffectiveBase)
	s.assertDecimal("3500", result.FinalPayable)
	s.assertDecimal("0", result.TotalSavings)
	s.Empty(result.AppliedOffers)
	s.Nil(result.PrimaryOffer)
	s.False(result.Locked)
	s.Len(result.PriceComponents, 2)
	s.Equal("Frame MRP", result.PriceComponents[0].Label)
	s.Equal("Lens price", result.PriceComponents[1].Label)
}

func (s *OfferEngineSuite) TestYOPOLocksOutCategoryDiscount() {
	rules := RuleSet{
		OfferRules: []*offer.OfferRule{
			newRule("yopo", types.OfferTypeYOPO, 1, &offer.YOPOConfig{}),
		},
		CategoryDiscounts: []*categorydiscount.CategoryDiscount{
			{ID: "cd_student", CustomerCategory: "STUDENT", BrandCode: types.WildcardBrand, Percent: dec("10"), BaseModel: types.BaseModel{Status: types.StatusActive}},
		},
	}
	in := s.input("5000", "3000")
	in.CustomerCategory = "STUDENT"

	result := s.engine.Calculate(in, rules)

	s.Require().NotNil(result.PrimaryOffer)
	s.Equal(types.OfferTypeYOPO, result.PrimaryOffer.Type)
	s.assertDecimal("3000", result.PrimaryOffer.Savings)
	s.assertDecimal("8000", result.BaseTotal)
	s.assertDecimal("5000", result.EffectiveBase)
	s.assertDecimal("5000", result.FinalPayable)
	s.assertDecimal("3000", result.TotalSavings)
	s.Nil(result.CategoryDiscount)
	s.True(result.Locked)
}

func (s *OfferEngineSuite) TestYOPORequiresEligibleLens() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("yopo", types.OfferTypeYOPO, 1, &offer.YOPOConfig{}),
		newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("500")}),
	}}
	in := s.input("5000", "3000")
	in.Lens.YOPOEligible = false

	result := s.engine.Calculate(in, rules)

	s.Require().NotNil(result.PrimaryOffer)
	s.Equal(types.OfferTypeFlatOff, result.PrimaryOffer.Type)
	s.assertDecimal("7500", result.FinalPayable)
	s.False(result.Locked)
}

func (s *OfferEngineSuite) TestTypeRankBeatsRulePriority() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("500")}),
		newRule("percent", types.OfferTypePercentOff, 5, &offer.PercentOffConfig{Percent: dec("10")}),
		newRule("free", types.OfferTypeFreeLens, 10, &offer.FreeLensConfig{RuleType: types.FreeLensRuleTypeFull}),
	}}

	result := s.engine.Calculate(s.input("5000", "3000"), rules)

	s.Require().NotNil(result.PrimaryOffer)
	s.Equal(types.OfferTypeFreeLens, result.PrimaryOffer.Type)
	s.assertDecimal("5000", result.FinalPayable)

	primaries := lo.Filter(result.AppliedOffers, func(o pricing.AppliedOffer, _ int) bool {
		return o.Type.IsPrimary()
	})
	s.Len(primaries, 1)
}

func (s *OfferEngineSuite) TestLowerPriorityWinsWithinType() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("ten", types.OfferTypePercentOff, 2, &offer.PercentOffConfig{Percent: dec("10")}),
		newRule("twenty", types.OfferTypePercentOff, 1, &offer.PercentOffConfig{Percent: dec("20")}),
	}}

	result := s.engine.Calculate(s.input("5000", "5000"), rules)

	s.Require().NotNil(result.PrimaryOffer)
	s.Equal("twenty", result.PrimaryOffer.RuleID)
	s.assertDecimal("8000", result.FinalPayable)
}

func (s *OfferEngineSuite) TestComboPrice() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("combo", types.OfferTypeComboPrice, 1, &offer.ComboPriceConfig{ComboPrice: dec("3999")}),
	}}
	in := s.input("3000", "2000")
	in.CouponCode = "SAVE10"

	result := s.engine.Calculate(in, RuleSet{
		OfferRules: rules.OfferRules,
		Coupon:     s.activeCoupon("SAVE10", types.CouponDiscountTypePercentage, "10"),
	})

	s.assertDecimal("3999", result.FinalPayable)
	s.assertDecimal("1001", result.PrimaryOffer.Savings)
	s.True(result.Locked)
	s.Nil(result.CouponDiscount)
	s.Equal("Coupon cannot be combined with COMBO_PRICE offer", result.CouponError)
}

func (s *OfferEngineSuite) TestComboPriceNeverRaisesTheBill() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("combo", types.OfferTypeComboPrice, 1, &offer.ComboPriceConfig{ComboPrice: dec("3999")}),
	}}

	result := s.engine.Calculate(s.input("1500", "1000"), rules)

	s.assertDecimal("2500", result.FinalPayable)
	s.assertDecimal("0", result.PrimaryOffer.Savings)
}

func (s *OfferEngineSuite) TestComboWithoutLockAllowsCategoryDiscount() {
	rules := RuleSet{
		OfferRules: []*offer.OfferRule{
			newRule("combo", types.OfferTypeComboPrice, 1, &offer.ComboPriceConfig{ComboPrice: dec("4000"), DisableLock: true}),
		},
		CategoryDiscounts: []*categorydiscount.CategoryDiscount{
			{ID: "cd_senior", CustomerCategory: "SENIOR", BrandCode: types.WildcardBrand, Percent: dec("10"), BaseModel: types.BaseModel{Status: types.StatusActive}},
		},
	}
	in := s.input("3000", "2000")
	in.CustomerCategory = "senior"

	result := s.engine.Calculate(in, rules)

	s.False(result.Locked)
	s.Require().NotNil(result.CategoryDiscount)
	s.assertDecimal("400", result.CategoryDiscount.Savings)
	s.assertDecimal("3600", result.FinalPayable)
}

func (s *OfferEngineSuite) TestFreeLens() {
	tests := []struct {
		name  string
		cfg   *offer.FreeLensConfig
		final string
	}{
		{"default percent of frame", &offer.FreeLensConfig{RuleType: types.FreeLensRuleTypePercentOfFrame}, "6000"},
		{"explicit percent of frame", &offer.FreeLensConfig{RuleType: types.FreeLensRuleTypePercentOfFrame, PercentLimit: decPtr("100")}, "5000"},
		{"value limit", &offer.FreeLensConfig{RuleType: types.FreeLensRuleTypeValueLimit, ValueLimit: decPtr("1000")}, "7000"},
		{"full", &offer.FreeLensConfig{RuleType: types.FreeLensRuleTypeFull}, "5000"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rules := RuleSet{OfferRules: []*offer.OfferRule{
				newRule("free", types.OfferTypeFreeLens, 1, tt.cfg),
			}}
			result := s.engine.Calculate(s.input("5000", "3000"), rules)
			s.assertDecimal(tt.final, result.FinalPayable)
		})
	}
}

func (s *OfferEngineSuite) TestPercentOffTargets() {
	tests := []struct {
		name  string
		cfg   *offer.PercentOffConfig
		final string
	}{
		{"frame", &offer.PercentOffConfig{Percent: dec("10"), Target: types.DiscountTargetFrame}, "7500"},
		{"lens", &offer.PercentOffConfig{Percent: dec("10"), Target: types.DiscountTargetLens}, "7700"},
		{"both by default", &offer.PercentOffConfig{Percent: dec("10")}, "7200"},
		{"capped", &offer.PercentOffConfig{Percent: dec("50"), MaxDiscount: decPtr("1000")}, "7000"},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			rules := RuleSet{OfferRules: []*offer.OfferRule{
				newRule("percent", types.OfferTypePercentOff, 1, tt.cfg),
			}}
			result := s.engine.Calculate(s.input("5000", "3000"), rules)
			s.assertDecimal(tt.final, result.FinalPayable)
		})
	}
}

func (s *OfferEngineSuite) TestPercentOffNegativeCapNeverRaisesTheBill() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("surcharge", types.OfferTypePercentOff, 1, &offer.PercentOffConfig{Percent: dec("10"), MaxDiscount: decPtr("-500")}),
	}}

	result := s.engine.Calculate(s.input("2000", "1000"), rules)

	s.Nil(result.PrimaryOffer)
	s.assertDecimal("3000", result.BaseTotal)
	s.assertDecimal("3000", result.FinalPayable)
	s.True(result.FinalPayable.LessThanOrEqual(result.BaseTotal))
}

func (s *OfferEngineSuite) TestFlatOffBelowMinimumBill() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("500"), MinBillValue: dec("5000")}),
	}}

	result := s.engine.Calculate(s.input("2500", "1500"), rules)

	s.Require().NotNil(result.PrimaryOffer)
	s.assertDecimal("0", result.PrimaryOffer.Savings)
	s.Contains(result.PrimaryOffer.Description, "min bill not met")
	s.assertDecimal("4000", result.FinalPayable)
}

func (s *OfferEngineSuite) TestFlatOffAboveMinimumBill() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("500"), MinBillValue: dec("5000")}),
	}}

	result := s.engine.Calculate(s.input("4000", "2000"), rules)

	s.assertDecimal("500", result.PrimaryOffer.Savings)
	s.assertDecimal("5500", result.FinalPayable)
}

func (s *OfferEngineSuite) TestSecondPair() {
	bog := newRule("bog", types.OfferTypeBOG50, 1, &offer.BOG50Config{Brands: []string{"RAYBAN"}})

	s.Run("applies to the cheaper pair", func() {
		in := s.input("3000", "2000")
		in.Frame.Brand = "RayBan"
		in.SecondPair = &SecondPairInput{FrameMRP: dec("2000"), LensPrice: dec("1000")}

		result := s.engine.Calculate(in, RuleSet{OfferRules: []*offer.OfferRule{bog}})

		s.assertDecimal("8000", result.BaseTotal)
		s.Require().NotNil(result.SecondPairDiscount)
		s.assertDecimal("1500", result.SecondPairDiscount.Savings)
		s.assertDecimal("6500", result.FinalPayable)
		s.Equal("Second pair", result.PriceComponents[2].Label)
	})

	s.Run("needs a second pair", func() {
		result := s.engine.Calculate(s.input("3000", "2000"), RuleSet{OfferRules: []*offer.OfferRule{bog}})
		s.Nil(result.SecondPairDiscount)
		s.assertDecimal("5000", result.FinalPayable)
	})

	s.Run("brand must match", func() {
		in := s.input("3000", "2000")
		in.Frame.Brand = "OAKLEY"
		in.SecondPair = &SecondPairInput{FrameMRP: dec("2000"), LensPrice: dec("1000")}

		result := s.engine.Calculate(in, RuleSet{OfferRules: []*offer.OfferRule{bog}})

		s.Nil(result.SecondPairDiscount)
		s.assertDecimal("8000", result.FinalPayable)
	})

	s.Run("uses the first pair after its primary offer", func() {
		in := s.input("3000", "2000")
		in.SecondPair = &SecondPairInput{FrameMRP: dec("4000"), LensPrice: dec("2000")}
		rules := []*offer.OfferRule{
			bog,
			newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("1000")}),
		}

		result := s.engine.Calculate(in, RuleSet{OfferRules: rules})

		s.assertDecimal("2000", result.SecondPairDiscount.Savings)
		s.assertDecimal("8000", result.FinalPayable)
	})
}

func (s *OfferEngineSuite) TestCategoryDiscountPicksHighestPercent() {
	active := types.BaseModel{Status: types.StatusActive}
	rules := RuleSet{CategoryDiscounts: []*categorydiscount.CategoryDiscount{
		{ID: "cd_all", CustomerCategory: "STUDENT", BrandCode: types.WildcardBrand, Percent: dec("10"), BaseModel: active},
		{ID: "cd_vogue", CustomerCategory: "STUDENT", BrandCode: "VOGUE", Percent: dec("15"), MaxDiscount: decPtr("500"), BaseModel: active},
		{ID: "cd_other", CustomerCategory: "STUDENT", BrandCode: "OAKLEY", Percent: dec("50"), BaseModel: active},
		{ID: "cd_inactive", CustomerCategory: "STUDENT", BrandCode: types.WildcardBrand, Percent: dec("60"), BaseModel: types.BaseModel{Status: types.StatusArchived}},
	}}
	in := s.input("4000", "2000")
	in.Frame.Brand = "VOGUE"
	in.CustomerCategory = "STUDENT"

	result := s.engine.Calculate(in, rules)

	s.Require().NotNil(result.CategoryDiscount)
	s.Equal("cd_vogue", result.CategoryDiscount.RuleID)
	s.assertDecimal("500", result.CategoryDiscount.Savings)
	s.assertDecimal("5500", result.FinalPayable)
}

func (s *OfferEngineSuite) TestCategoryDiscountRuleIsConsidered() {
	rules := RuleSet{
		OfferRules: []*offer.OfferRule{
			newRule("student_rule", types.OfferTypeCategoryDiscount, 1, &offer.CategoryDiscountConfig{CustomerCategory: "STUDENT", Percent: dec("20")}),
		},
		CategoryDiscounts: []*categorydiscount.CategoryDiscount{
			{ID: "cd_all", CustomerCategory: "STUDENT", BrandCode: types.WildcardBrand, Percent: dec("10"), BaseModel: types.BaseModel{Status: types.StatusActive}},
		},
	}
	in := s.input("4000", "2000")
	in.CustomerCategory = "STUDENT"

	result := s.engine.Calculate(in, rules)

	s.Require().NotNil(result.CategoryDiscount)
	s.Equal("student_rule", result.CategoryDiscount.RuleID)
	s.assertDecimal("4800", result.FinalPayable)
}

func (s *OfferEngineSuite) TestCategoryDiscountRunsOnDiscountedBase() {
	rules := RuleSet{
		OfferRules: []*offer.OfferRule{
			newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("500")}),
		},
		CategoryDiscounts: []*categorydiscount.CategoryDiscount{
			{ID: "cd_all", CustomerCategory: "STUDENT", BrandCode: types.WildcardBrand, Percent: dec("10"), BaseModel: types.BaseModel{Status: types.StatusActive}},
		},
	}
	in := s.input("4000", "2000")
	in.CustomerCategory = "STUDENT"

	result := s.engine.Calculate(in, rules)

	s.assertDecimal("550", result.CategoryDiscount.Savings)
	s.assertDecimal("4950", result.FinalPayable)
	s.assertDecimal("1050", result.TotalSavings)
	s.Len(result.AppliedOffers, 2)
}

func (s *OfferEngineSuite) TestCouponBelowMinimumCart() {
	c := s.activeCoupon("SAVE10", types.CouponDiscountTypePercentage, "10")
	c.MinCartValue = decPtr("2000")
	in := s.input("1000", "800")
	in.CouponCode = "SAVE10"

	result := s.engine.Calculate(in, RuleSet{Coupon: c})

	s.Nil(result.CouponDiscount)
	s.Equal("Minimum cart value of 2000 required for coupon SAVE10", result.CouponError)
	s.assertDecimal("1800", result.FinalPayable)
}

func (s *OfferEngineSuite) TestCouponDiscounts() {
	expired := s.now.Add(-24 * time.Hour)
	upcoming := s.now.Add(24 * time.Hour)

	tests := []struct {
		name     string
		coupon   func() *coupon.Coupon
		final    string
		errorMsg string
	}{
		{
			name:   "percentage",
			coupon: func() *coupon.Coupon { return s.activeCoupon("SAVE10", types.CouponDiscountTypePercentage, "10") },
			final:  "4500",
		},
		{
			name: "percentage capped",
			coupon: func() *coupon.Coupon {
				c := s.activeCoupon("SAVE10", types.CouponDiscountTypePercentage, "10")
				c.MaxDiscount = decPtr("200")
				return c
			},
			final: "4800",
		},
		{
			name:   "flat",
			coupon: func() *coupon.Coupon { return s.activeCoupon("SAVE10", types.CouponDiscountTypeFlat, "750") },
			final:  "4250",
		},
		{
			name: "expired",
			coupon: func() *coupon.Coupon {
				c := s.activeCoupon("SAVE10", types.CouponDiscountTypeFlat, "750")
				c.ValidUntil = &expired
				return c
			},
			final:    "5000",
			errorMsg: "Coupon SAVE10 has expired",
		},
		{
			name: "not started",
			coupon: func() *coupon.Coupon {
				c := s.activeCoupon("SAVE10", types.CouponDiscountTypeFlat, "750")
				c.ValidFrom = &upcoming
				return c
			},
			final:    "5000",
			errorMsg: "Coupon SAVE10 is not valid yet",
		},
		{
			name: "usage limit reached",
			coupon: func() *coupon.Coupon {
				c := s.activeCoupon("SAVE10", types.CouponDiscountTypeFlat, "750")
				c.UsageLimit = lo.ToPtr(3)
				c.UsedCount = 3
				return c
			},
			final:    "5000",
			errorMsg: "Coupon SAVE10 has reached its usage limit",
		},
		{
			name:     "unknown",
			coupon:   func() *coupon.Coupon { return nil },
			final:    "5000",
			errorMsg: "Coupon SAVE10 is not valid",
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			in := s.input("3000", "2000")
			in.CouponCode = "SAVE10"

			result := s.engine.Calculate(in, RuleSet{Coupon: tt.coupon()})

			s.assertDecimal(tt.final, result.FinalPayable)
			s.Equal(tt.errorMsg, result.CouponError)
			s.Equal(tt.errorMsg == "", result.CouponDiscount != nil)
		})
	}
}

func (s *OfferEngineSuite) TestCouponIsIdempotent() {
	rules := RuleSet{Coupon: s.activeCoupon("SAVE10", types.CouponDiscountTypePercentage, "10")}
	in := s.input("3000", "2000")
	in.CouponCode = "SAVE10"

	first := s.engine.Calculate(in, rules)
	second := s.engine.Calculate(in, rules)

	s.Equal(first.FinalPayable.String(), second.FinalPayable.String())
	s.Equal(len(first.AppliedOffers), len(second.AppliedOffers))
	s.Equal(0, rules.Coupon.UsedCount)
}

func (s *OfferEngineSuite) TestFlatCouponLargerThanBill() {
	in := s.input("300", "200")
	in.CouponCode = "BIG"

	result := s.engine.Calculate(in, RuleSet{Coupon: s.activeCoupon("BIG", types.CouponDiscountTypeFlat, "1000")})

	s.assertDecimal("500", result.CouponDiscount.Savings)
	s.assertDecimal("0", result.FinalPayable)
	s.assertDecimal("500", result.TotalSavings)
}

func (s *OfferEngineSuite) TestInvalidRulesAreSkipped() {
	archived := newRule("archived", types.OfferTypeComboPrice, 1, &offer.ComboPriceConfig{ComboPrice: dec("100")})
	archived.Status = types.StatusArchived

	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("broken", types.OfferTypeFreeLens, 1, &offer.FreeLensConfig{}),
		newRule("mismatch", types.OfferTypeYOPO, 1, &offer.FlatOffConfig{Amount: dec("100")}),
		archived,
		nil,
		newRule("percent", types.OfferTypePercentOff, 1, &offer.PercentOffConfig{Percent: dec("10")}),
	}}

	result := s.engine.Calculate(s.input("5000", "3000"), rules)

	s.Require().NotNil(result.PrimaryOffer)
	s.Equal("percent", result.PrimaryOffer.RuleID)
	s.assertDecimal("7200", result.FinalPayable)
}

func (s *OfferEngineSuite) TestEligibilityFiltersPrimaryOffers() {
	restricted := newRule("combo", types.OfferTypeComboPrice, 1, &offer.ComboPriceConfig{ComboPrice: dec("1000")})
	restricted.Eligibility = offer.Eligibility{FrameBrands: []string{"OAKLEY"}}
	lensOnly := newRule("percent", types.OfferTypePercentOff, 1, &offer.PercentOffConfig{Percent: dec("10")})
	lensOnly.Eligibility = offer.Eligibility{LensBrandLines: []string{"bluexpert"}, MinFrameMRP: decPtr("4000")}

	result := s.engine.Calculate(s.input("5000", "3000"), RuleSet{OfferRules: []*offer.OfferRule{restricted, lensOnly}})

	s.Equal("percent", result.PrimaryOffer.RuleID)
	s.False(result.Locked)
}

func (s *OfferEngineSuite) TestFinalPayableIsRounded() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("percent", types.OfferTypePercentOff, 1, &offer.PercentOffConfig{Percent: dec("12.5")}),
	}}

	result := s.engine.Calculate(s.input("999", "0"), rules)

	s.assertDecimal("874.125", result.EffectiveBase)
	s.assertDecimal("874", result.FinalPayable)
}

func (s *OfferEngineSuite) TestBonusProductDoesNotChangeTotal() {
	rules := RuleSet{OfferRules: []*offer.OfferRule{
		newRule("bonus", types.OfferTypeBonusFreeProduct, 1, &offer.BonusFreeProductConfig{ProductCode: "CASE01", Description: "Free hard case", MinBillValue: decPtr("3000")}),
		newRule("bonus_big", types.OfferTypeBonusFreeProduct, 2, &offer.BonusFreeProductConfig{ProductCode: "SUN01", MinBillValue: decPtr("10000")}),
	}}

	result := s.engine.Calculate(s.input("3000", "2000"), rules)

	s.Require().Len(result.BonusProducts, 1)
	s.Equal("CASE01", result.BonusProducts[0].ProductCode)
	s.assertDecimal("5000", result.FinalPayable)
	s.Empty(result.AppliedOffers)
}

func (s *OfferEngineSuite) TestUpsellSuggestion() {
	flat := newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("500"), MinBillValue: dec("5000")})
	flat.Upsell = offer.Upsell{Enabled: true, Threshold: decPtr("5000"), RewardText: "Free sunglasses worth ₹1499"}

	result := s.engine.Calculate(s.input("3000", "1600"), RuleSet{OfferRules: []*offer.OfferRule{flat}})

	s.assertDecimal("4600", result.FinalPayable)
	s.Require().NotNil(result.Upsell)
	s.assertDecimal("400", result.Upsell.Remaining)
	s.Equal("Add ₹400 more to unlock Free sunglasses worth ₹1499", result.Upsell.Message)
}

// Random rule mixes must keep the waterfall bounded and rounded.
func (s *OfferEngineSuite) TestWaterfallBounds() {
	rng := rand.New(rand.NewSource(42))
	amount := func(max int) decimal.Decimal { return decimal.NewFromInt(int64(rng.Intn(max))) }

	for i := 0; i < 200; i++ {
		in := s.input("0", "0")
		in.Frame.MRP = amount(8000)
		in.LensPrice = amount(6000)
		in.CustomerCategory = "STUDENT"
		if rng.Intn(2) == 0 {
			in.CouponCode = "SAVE"
		}

		all := []*offer.OfferRule{
			newRule("combo", types.OfferTypeComboPrice, 1, &offer.ComboPriceConfig{ComboPrice: amount(6000)}),
			newRule("yopo", types.OfferTypeYOPO, 1, &offer.YOPOConfig{}),
			newRule("free", types.OfferTypeFreeLens, 1, &offer.FreeLensConfig{RuleType: types.FreeLensRuleTypePercentOfFrame}),
			newRule("percent", types.OfferTypePercentOff, 1, &offer.PercentOffConfig{Percent: amount(60)}),
			newRule("flat", types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: amount(3000), MinBillValue: amount(8000)}),
			newRule("student", types.OfferTypeCategoryDiscount, 1, &offer.CategoryDiscountConfig{CustomerCategory: "STUDENT", Percent: amount(30)}),
		}
		rules := RuleSet{
			OfferRules: lo.Filter(all, func(_ *offer.OfferRule, _ int) bool { return rng.Intn(2) == 0 }),
			Coupon:     s.activeCoupon("SAVE", types.CouponDiscountTypeFlat, amount(5000).String()),
		}

		result := s.engine.Calculate(in, rules)

		s.True(result.FinalPayable.Equal(decimal.Max(decimal.Zero, result.EffectiveBase.Round(0))), "iteration %d", i)
		s.False(result.FinalPayable.IsNegative())
		s.True(result.FinalPayable.LessThanOrEqual(result.BaseTotal.Round(0)), "iteration %d", i)

		primaries := lo.CountBy(result.AppliedOffers, func(o pricing.AppliedOffer) bool { return o.Type.IsPrimary() })
		s.LessOrEqual(primaries, 1)
		if result.Locked {
			s.Nil(result.CategoryDiscount)
			s.Nil(result.CouponDiscount)
		}
	}
}
