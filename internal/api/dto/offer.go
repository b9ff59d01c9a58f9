package dto

import (
	"github.com/lensprice/lensprice/internal/domain/frame"
	"github.com/lensprice/lensprice/internal/domain/pricing"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/validator"
	"github.com/shopspring/decimal"
)

// CalculateOffersRequest prices one frame and lens pair against the active offers
type CalculateOffersRequest struct {
	SessionID string      `json:"session_id,omitempty"`
	Frame     frame.Frame `json:"frame"`
	// LensCode identifies the catalog lens; LensPrice overrides its price
	LensCode         string             `json:"lens_code,omitempty"`
	LensPrice        *decimal.Decimal   `json:"lens_price,omitempty"`
	CustomerCategory string             `json:"customer_category,omitempty" validate:"omitempty,max=50"`
	CouponCode       string             `json:"coupon_code,omitempty" validate:"omitempty,max=50"`
	SecondPair       *SecondPairRequest `json:"second_pair,omitempty"`
}

// SecondPairRequest adds a second pair to the bill for BOG50 offers
type SecondPairRequest struct {
	FrameMRP  decimal.Decimal `json:"frame_mrp"`
	LensPrice decimal.Decimal `json:"lens_price"`
}

func (r *CalculateOffersRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if err := r.Frame.Validate(); err != nil {
		return err
	}

	if r.LensCode == "" && r.LensPrice == nil {
		return ierr.NewError("lens_code or lens_price is required").
			WithHint("Please provide a lens code or a lens price").
			Mark(ierr.ErrValidation)
	}

	if r.LensPrice != nil && r.LensPrice.IsNegative() {
		return ierr.NewError("lens_price cannot be negative").
			WithHint("Lens price must be zero or more").
			WithReportableDetails(map[string]any{
				"lens_price": r.LensPrice.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	if r.SecondPair != nil && (r.SecondPair.FrameMRP.IsNegative() || r.SecondPair.LensPrice.IsNegative()) {
		return ierr.NewError("second pair amounts cannot be negative").
			WithHint("Second pair frame MRP and lens price must be zero or more").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// OfferCalculationResponse is the offer waterfall result
type OfferCalculationResponse struct {
	CalculationID string `json:"calculation_id"`
	LensCode      string `json:"lens_code,omitempty"`
	*pricing.OfferCalculationResult
}
