package service

import (
	"testing"

	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/offer"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRewardValue(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Free sunglasses worth ₹1499", "1499"},
		{"Cashback of Rs. 1,499", "1499"},
		{"INR 250.50 voucher", "250.5"},
		{"Gift card 599/-", "599"},
		{"2,000 rupees off next visit", "2000"},
		{"Free cleaning kit", "0"},
		{"", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assertDecimal(t, tt.want, ParseRewardValue(tt.text))
		})
	}
}

func upsellRule(id, threshold, reward string) *offer.OfferRule {
	r := newRule(id, types.OfferTypeFlatOff, 1, &offer.FlatOffConfig{Amount: dec("100")})
	r.Upsell = offer.Upsell{Enabled: true, Threshold: decPtr(threshold), RewardText: reward}
	return r
}

func TestEvaluateUpsell(t *testing.T) {
	f := &frame.Frame{Brand: "RAYBAN", MRP: dec("3000")}

	t.Run("single rule", func(t *testing.T) {
		s := EvaluateUpsell([]*offer.OfferRule{upsellRule("r1", "5000", "Free sunglasses worth ₹1499")}, f, dec("4600"), "₹")
		require.NotNil(t, s)
		assert.Equal(t, "r1", s.RuleID)
		assertDecimal(t, "400", s.Remaining)
		assert.Equal(t, "Add ₹400 more to unlock Free sunglasses worth ₹1499", s.Message)
	})

	t.Run("best reward per rupee wins", func(t *testing.T) {
		rules := []*offer.OfferRule{
			upsellRule("small", "5000", "₹500 voucher"),
			upsellRule("large", "6000", "₹3000 voucher"),
		}
		s := EvaluateUpsell(rules, f, dec("4600"), "₹")
		require.NotNil(t, s)
		assert.Equal(t, "large", s.RuleID)
		assertDecimal(t, "1400", s.Remaining)
	})

	t.Run("threshold already reached", func(t *testing.T) {
		assert.Nil(t, EvaluateUpsell([]*offer.OfferRule{upsellRule("r1", "5000", "₹500 voucher")}, f, dec("5000"), "₹"))
	})

	t.Run("frame brand restriction", func(t *testing.T) {
		r := upsellRule("r1", "5000", "₹500 voucher")
		r.Eligibility.FrameBrands = []string{"OAKLEY"}
		assert.Nil(t, EvaluateUpsell([]*offer.OfferRule{r}, f, dec("4600"), "₹"))

		r.Eligibility.FrameBrands = []string{types.WildcardBrand}
		assert.NotNil(t, EvaluateUpsell([]*offer.OfferRule{r}, f, dec("4600"), "₹"))
	})

	t.Run("disabled or incomplete hints are ignored", func(t *testing.T) {
		disabled := upsellRule("r1", "5000", "₹500 voucher")
		disabled.Upsell.Enabled = false
		noReward := upsellRule("r2", "5000", "")
		assert.Nil(t, EvaluateUpsell([]*offer.OfferRule{disabled, noReward}, f, dec("4600"), "₹"))
	})

	t.Run("unparseable reward still suggests", func(t *testing.T) {
		s := EvaluateUpsell([]*offer.OfferRule{upsellRule("r1", "5000", "Free cleaning kit")}, f, dec("4999.5"), "Rs ")
		require.NotNil(t, s)
		assert.Equal(t, "Add Rs 0.5 more to unlock Free cleaning kit", s.Message)
	})
}
