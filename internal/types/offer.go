package types

import (
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/samber/lo"
)

// OfferType is the kind of promotional rule
type OfferType string

const (
	OfferTypeComboPrice       OfferType = "COMBO_PRICE"
	OfferTypeYOPO             OfferType = "YOPO"
	OfferTypeFreeLens         OfferType = "FREE_LENS"
	OfferTypePercentOff       OfferType = "PERCENT_OFF"
	OfferTypeFlatOff          OfferType = "FLAT_OFF"
	OfferTypeBOG50            OfferType = "BOG50"
	OfferTypeCategoryDiscount OfferType = "CATEGORY_DISCOUNT"
	OfferTypeBonusFreeProduct OfferType = "BONUS_FREE_PRODUCT"

	// OfferTypeCoupon only labels applied coupon discounts; rules never carry it
	OfferTypeCoupon OfferType = "COUPON"
)

// PrimaryOfferRank orders the mutually exclusive primary offer types.
// Lower ranks are evaluated first; the zero value means "not a primary offer".
type PrimaryOfferRank int

const (
	PrimaryOfferRankNone PrimaryOfferRank = iota
	PrimaryOfferRankComboPrice
	PrimaryOfferRankYOPO
	PrimaryOfferRankFreeLens
	PrimaryOfferRankPercentOff
	PrimaryOfferRankFlatOff
)

// PrimaryRank returns the evaluation rank of the offer type in the primary stage
func (t OfferType) PrimaryRank() PrimaryOfferRank {
	switch t {
	case OfferTypeComboPrice:
		return PrimaryOfferRankComboPrice
	case OfferTypeYOPO:
		return PrimaryOfferRankYOPO
	case OfferTypeFreeLens:
		return PrimaryOfferRankFreeLens
	case OfferTypePercentOff:
		return PrimaryOfferRankPercentOff
	case OfferTypeFlatOff:
		return PrimaryOfferRankFlatOff
	default:
		return PrimaryOfferRankNone
	}
}

// IsPrimary reports whether the type competes in the mutually exclusive primary stage
func (t OfferType) IsPrimary() bool {
	return t.PrimaryRank() != PrimaryOfferRankNone
}

func (t OfferType) String() string {
	return string(t)
}

func (t OfferType) Validate() error {
	allowed := []OfferType{
		OfferTypeComboPrice,
		OfferTypeYOPO,
		OfferTypeFreeLens,
		OfferTypePercentOff,
		OfferTypeFlatOff,
		OfferTypeBOG50,
		OfferTypeCategoryDiscount,
		OfferTypeBonusFreeProduct,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid offer type").
			WithHint("Please provide a valid offer type").
			WithReportableDetails(map[string]any{
				"allowed":    allowed,
				"offer_type": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// FreeLensRuleType selects how much of the lens a FREE_LENS offer gives away
type FreeLensRuleType string

const (
	FreeLensRuleTypePercentOfFrame FreeLensRuleType = "PERCENT_OF_FRAME"
	FreeLensRuleTypeValueLimit     FreeLensRuleType = "VALUE_LIMIT"
	FreeLensRuleTypeFull           FreeLensRuleType = "FULL"
)

func (t FreeLensRuleType) Validate() error {
	allowed := []FreeLensRuleType{
		FreeLensRuleTypePercentOfFrame,
		FreeLensRuleTypeValueLimit,
		FreeLensRuleTypeFull,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid free lens rule type").
			WithHint("Free lens rule type must be PERCENT_OF_FRAME, VALUE_LIMIT or FULL").
			WithReportableDetails(map[string]any{
				"allowed":   allowed,
				"rule_type": t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DiscountTarget is the part of the base a PERCENT_OFF offer applies to
type DiscountTarget string

const (
	DiscountTargetFrame DiscountTarget = "FRAME"
	DiscountTargetLens  DiscountTarget = "LENS"
	DiscountTargetBoth  DiscountTarget = "BOTH"
)

func (t DiscountTarget) Validate() error {
	allowed := []DiscountTarget{DiscountTargetFrame, DiscountTargetLens, DiscountTargetBoth}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid discount target").
			WithHint("Discount target must be FRAME, LENS or BOTH").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
				"target":  t,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}
