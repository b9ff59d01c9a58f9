package service

import (
	"github.com/lensprice/lensprice/internal/domain/prescription"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RxAddonResult is the surcharge from RX add-on bands and the bands that produced it
type RxAddonResult struct {
	Charge  decimal.Decimal       `json:"charge"`
	Policy  types.StackingPolicy  `json:"policy"`
	Applied []product.RxAddonBand `json:"applied,omitempty"`
}

// CalculateRxAddon matches the worse eye against every band. A band matches
// when all of its defined ranges hold. HIGHEST_ONLY keeps the single largest
// charge (first on ties); SUM_ALL adds every match.
func CalculateRxAddon(rx *prescription.Prescription, bands []product.RxAddonBand, policy types.StackingPolicy) RxAddonResult {
	result := RxAddonResult{Charge: decimal.Zero, Policy: policy}
	if rx.IsEmpty() || len(bands) == 0 {
		return result
	}

	eye := rx.WorseEye()
	addition, _ := rx.AdditionValue()

	matched := lo.Filter(bands, func(b product.RxAddonBand, _ int) bool {
		return b.Matches(eye.SphereValue(), eye.CylinderValue(), addition)
	})
	if len(matched) == 0 {
		return result
	}

	switch policy {
	case types.StackingPolicySumAll:
		for _, b := range matched {
			result.Charge = result.Charge.Add(b.ExtraCharge)
		}
		result.Applied = matched
	default:
		highest := matched[0]
		for _, b := range matched[1:] {
			if b.ExtraCharge.GreaterThan(highest.ExtraCharge) {
				highest = b
			}
		}
		result.Policy = types.StackingPolicyHighestOnly
		result.Charge = highest.ExtraCharge
		result.Applied = []product.RxAddonBand{highest}
	}

	return result
}
