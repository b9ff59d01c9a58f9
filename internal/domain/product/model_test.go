package product

import (
	"testing"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRxAddonBandMatches(t *testing.T) {
	band := RxAddonBand{
		SphereMin:   lo.ToPtr(-6.0),
		SphereMax:   lo.ToPtr(-4.0),
		CylinderMin: lo.ToPtr(-2.0),
		CylinderMax: lo.ToPtr(0.0),
	}

	assert.True(t, band.Matches(-5.0, -1.0, 0))
	assert.False(t, band.Matches(-3.0, -1.0, 0), "sphere outside range")
	assert.False(t, band.Matches(-5.0, -2.5, 0), "cylinder outside range")

	reversed := RxAddonBand{SphereMin: lo.ToPtr(-4.0), SphereMax: lo.ToPtr(-6.0)}
	assert.True(t, reversed.Matches(-5.0, 0, 0))

	withAdd := band
	withAdd.AdditionMin = lo.ToPtr(1.0)
	withAdd.AdditionMax = lo.ToPtr(2.5)
	assert.False(t, withAdd.Matches(-5.0, -1.0, 0))
	assert.True(t, withAdd.Matches(-5.0, -1.0, 2.0))

	assert.False(t, RxAddonBand{}.Matches(0, 0, 0))
}

func TestBasePrice(t *testing.T) {
	p := &LensProduct{MRP: decimal.NewFromInt(3000)}
	assert.True(t, p.BasePrice(nil).Equal(decimal.NewFromInt(3000)))

	p.OfferPrice = lo.ToPtr(decimal.NewFromInt(2500))
	assert.True(t, p.BasePrice(nil).Equal(decimal.NewFromInt(2500)))
	assert.True(t, p.BasePrice(&StoreOverride{InStock: true}).Equal(decimal.NewFromInt(2500)))

	override := &StoreOverride{OfferPrice: lo.ToPtr(decimal.NewFromInt(2200)), InStock: true}
	assert.True(t, p.BasePrice(override).Equal(decimal.NewFromInt(2200)))
}
