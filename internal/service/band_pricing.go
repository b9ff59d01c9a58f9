package service

import (
	"github.com/lensprice/lensprice/internal/domain/prescription"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/shopspring/decimal"
)

// CalculateBandCharge returns the extra charge of the first power band that
// contains max(|rSph|+|rCyl|, |lSph|+|lCyl|), or zero when none does
func CalculateBandCharge(rx *prescription.Prescription, bands []product.PowerBand) decimal.Decimal {
	if rx.IsEmpty() || len(bands) == 0 {
		return decimal.Zero
	}

	power := rx.CombinedPower()
	for _, band := range bands {
		if band.Contains(power) {
			return band.ExtraCharge
		}
	}
	return decimal.Zero
}
