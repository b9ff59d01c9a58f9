package product

import (
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// LensProduct is a catalog lens. The engine reads it and never writes it.
type LensProduct struct {
	ID           string           `json:"id" db:"id"`
	Code         string           `json:"code" db:"code"`
	Name         string           `json:"name" db:"name"`
	BrandLine    string           `json:"brand_line" db:"brand_line"`
	IndexTier    types.IndexTier  `json:"index_tier" db:"index_tier"`
	VisionType   types.VisionType `json:"vision_type" db:"vision_type"`
	YOPOEligible bool             `json:"yopo_eligible" db:"yopo_eligible"`
	MRP          decimal.Decimal  `json:"mrp" db:"mrp"`
	OfferPrice   *decimal.Decimal `json:"offer_price,omitempty" db:"offer_price"`

	// Sub-records, loaded in bulk by product id set
	Benefits     []BenefitStrength `json:"benefits,omitempty" db:"-"`
	Features     []string          `json:"features,omitempty" db:"-"`
	PowerBands   []PowerBand       `json:"power_bands,omitempty" db:"-"`
	RxAddonBands []RxAddonBand     `json:"rx_addon_bands,omitempty" db:"-"`

	types.BaseModel
}

// BenefitStrength is how strongly a product delivers a benefit
type BenefitStrength struct {
	ProductID   string  `json:"product_id" db:"product_id"`
	BenefitCode string  `json:"benefit_code" db:"benefit_code"`
	Strength    float64 `json:"strength" db:"strength"`
	// PointWeight scales this benefit's contribution, the engine default when nil
	PointWeight *float64 `json:"point_weight,omitempty" db:"point_weight"`
}

// Weight resolves PointWeight against the configured default
func (b BenefitStrength) Weight(defaultWeight float64) float64 {
	if b.PointWeight == nil {
		return defaultWeight
	}
	return *b.PointWeight
}

// Feature is a named lens feature (coating, treatment) attached to a product
type Feature struct {
	ProductID   string `json:"product_id" db:"product_id"`
	FeatureCode string `json:"feature_code" db:"feature_code"`
}

// PowerBand adds ExtraCharge when the combined power falls in [MinPower, MaxPower]
type PowerBand struct {
	ProductID   string          `json:"product_id" db:"product_id"`
	MinPower    float64         `json:"min_power" db:"min_power"`
	MaxPower    float64         `json:"max_power" db:"max_power"`
	ExtraCharge decimal.Decimal `json:"extra_charge" db:"extra_charge"`
	SortOrder   int             `json:"sort_order" db:"sort_order"`
}

func (b PowerBand) Contains(power float64) bool {
	return power >= b.MinPower && power <= b.MaxPower
}

// RxAddonBand is a surcharge over sphere, cylinder and addition ranges.
// Nil bounds are open; a band only matches when every defined bound holds.
type RxAddonBand struct {
	ID          string          `json:"id" db:"id"`
	ProductID   string          `json:"product_id" db:"product_id"`
	SphereMin   *float64        `json:"sphere_min,omitempty" db:"sphere_min"`
	SphereMax   *float64        `json:"sphere_max,omitempty" db:"sphere_max"`
	CylinderMin *float64        `json:"cylinder_min,omitempty" db:"cylinder_min"`
	CylinderMax *float64        `json:"cylinder_max,omitempty" db:"cylinder_max"`
	AdditionMin *float64        `json:"addition_min,omitempty" db:"addition_min"`
	AdditionMax *float64        `json:"addition_max,omitempty" db:"addition_max"`
	ExtraCharge decimal.Decimal `json:"extra_charge" db:"extra_charge"`
	SortOrder   int             `json:"sort_order" db:"sort_order"`
}

// HasRanges reports whether at least one bound is defined. A band without
// any bound is treated as misconfigured and never matches.
func (b RxAddonBand) HasRanges() bool {
	return b.SphereMin != nil || b.SphereMax != nil ||
		b.CylinderMin != nil || b.CylinderMax != nil ||
		b.AdditionMin != nil || b.AdditionMax != nil
}

func (b RxAddonBand) Matches(sphere, cylinder, addition float64) bool {
	if !b.HasRanges() {
		return false
	}
	return within(sphere, b.SphereMin, b.SphereMax) &&
		within(cylinder, b.CylinderMin, b.CylinderMax) &&
		within(addition, b.AdditionMin, b.AdditionMax)
}

// within handles reversed bounds, which happen for minus powers entered as
// min=-2, max=-6 style ranges
func within(v float64, lower, upper *float64) bool {
	if lower != nil && upper != nil && *lower > *upper {
		lower, upper = upper, lower
	}
	if lower != nil && v < *lower {
		return false
	}
	if upper != nil && v > *upper {
		return false
	}
	return true
}

// StoreOverride is the store level price and stock of a product
type StoreOverride struct {
	StoreID    string           `json:"store_id" db:"store_id"`
	ProductID  string           `json:"product_id" db:"product_id"`
	OfferPrice *decimal.Decimal `json:"offer_price,omitempty" db:"offer_price"`
	InStock    bool             `json:"in_stock" db:"in_stock"`
}

// BasePrice resolves the selling price of the lens before power surcharges:
// the store override price, then the product offer price, then MRP
func (p *LensProduct) BasePrice(override *StoreOverride) decimal.Decimal {
	if override != nil && override.OfferPrice != nil {
		return *override.OfferPrice
	}
	if p.OfferPrice != nil {
		return *p.OfferPrice
	}
	return p.MRP
}

func (p *LensProduct) FeatureCount() int {
	return len(p.Features)
}
