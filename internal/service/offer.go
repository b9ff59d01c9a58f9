package service

import (
	"context"

	"github.com/lensprice/lensprice/internal/api/dto"
	"github.com/lensprice/lensprice/internal/domain/coupon"
	"github.com/lensprice/lensprice/internal/domain/product"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/shopspring/decimal"
)

// OfferService prices a frame and lens pair against the organization's offers
type OfferService interface {
	CalculateOffers(ctx context.Context, req dto.CalculateOffersRequest) (*dto.OfferCalculationResponse, error)
}

type offerService struct {
	ServiceParams
	engine *OfferEngine
}

func NewOfferService(params ServiceParams) OfferService {
	return &offerService{
		ServiceParams: params,
		engine:        NewOfferEngine(params.Config.Engine, params.Logger).WithClock(params.now),
	}
}

// CalculateOffers only fails on bad input or an unknown lens. Rule store
// failures are logged and the affected stage is skipped.
func (s *offerService) CalculateOffers(ctx context.Context, req dto.CalculateOffersRequest) (*dto.OfferCalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lens, lensPrice, err := s.resolveLens(ctx, req)
	if err != nil {
		return nil, err
	}

	input := OfferInput{
		Frame:            &req.Frame,
		Lens:             lens,
		LensPrice:        lensPrice,
		CustomerCategory: req.CustomerCategory,
		CouponCode:       req.CouponCode,
	}
	if req.SecondPair != nil {
		input.SecondPair = &SecondPairInput{
			FrameMRP:  req.SecondPair.FrameMRP,
			LensPrice: req.SecondPair.LensPrice,
		}
	}

	span, ctx := s.Sentry.StartEngineSpan(ctx, "calculate_offers", map[string]interface{}{
		"lens_code":  req.LensCode,
		"has_coupon": req.CouponCode != "",
	})
	if span != nil {
		defer span.Finish()
	}

	rules, err := s.loadRuleSet(ctx, req.CustomerCategory, req.CouponCode)
	if err != nil {
		return nil, err
	}
	result := s.engine.Calculate(input, rules)

	calculationID := types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CALCULATION)
	if result.CouponError != "" {
		s.Sentry.AddBreadcrumb("offers", "coupon rejected", map[string]interface{}{
			"calculation_id": calculationID,
			"coupon_code":    req.CouponCode,
			"reason":         result.CouponError,
		})
	}
	s.Logger.Infow("calculated offers",
		"calculation_id", calculationID,
		"session_id", req.SessionID,
		"lens_code", req.LensCode,
		"base_total", result.BaseTotal,
		"final_payable", result.FinalPayable,
		"applied_offers", len(result.AppliedOffers),
		"locked", result.Locked,
		"coupon_error", result.CouponError)

	return &dto.OfferCalculationResponse{
		CalculationID:          calculationID,
		LensCode:               req.LensCode,
		OfferCalculationResult: result,
	}, nil
}

// resolveLens loads the catalog lens when a code is given. The request price
// wins over the catalog price.
func (s *offerService) resolveLens(ctx context.Context, req dto.CalculateOffersRequest) (*product.LensProduct, decimal.Decimal, error) {
	if req.LensCode == "" {
		return nil, *req.LensPrice, nil
	}

	lens, err := s.ProductRepo.GetByCode(ctx, req.LensCode)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, decimal.Zero, ierr.WithError(err).
				WithHintf("Lens %s was not found", req.LensCode).
				WithReportableDetails(map[string]any{
					"lens_code": req.LensCode,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, decimal.Zero, err
	}

	if req.LensPrice != nil {
		return lens, *req.LensPrice, nil
	}

	var override *product.StoreOverride
	if storeID := types.GetStoreID(ctx); storeID != "" {
		overrides, err := s.ProductRepo.ListStoreOverrides(ctx, storeID, []string{lens.ID})
		if err != nil {
			s.Logger.Warnw("failed to load store price override, using catalog price",
				"store_id", storeID,
				"product_code", lens.Code,
				"error", err)
		} else {
			override = overrides[lens.ID]
		}
	}
	return lens, lens.BasePrice(override), nil
}

// loadRuleSet reads rules, category discounts and the coupon. A store failure
// degrades that read to "nothing applies"; any other error is returned.
func (s *offerService) loadRuleSet(ctx context.Context, customerCategory, couponCode string) (RuleSet, error) {
	var rules RuleSet

	offerRules, err := s.OfferRuleRepo.ListActive(ctx)
	switch {
	case err == nil:
		rules.OfferRules = offerRules
	case ierr.IsDatabase(err):
		s.Logger.Errorw("failed to load offer rules, pricing without offers", "error", err)
	default:
		return rules, err
	}

	if customerCategory != "" {
		discounts, err := s.CategoryDiscountRepo.ListActive(ctx, customerCategory)
		switch {
		case err == nil:
			rules.CategoryDiscounts = discounts
		case ierr.IsDatabase(err):
			s.Logger.Errorw("failed to load category discounts",
				"customer_category", customerCategory,
				"error", err)
		default:
			return rules, err
		}
	}

	if couponCode != "" {
		c, err := s.lookupCoupon(ctx, couponCode)
		if err != nil {
			return rules, err
		}
		rules.Coupon = c
	}

	return rules, nil
}

// lookupCoupon returns nil for unknown codes and unreadable stores
func (s *offerService) lookupCoupon(ctx context.Context, code string) (*coupon.Coupon, error) {
	c, err := s.CouponRepo.GetByCode(ctx, code)
	switch {
	case err == nil:
		return c, nil
	case ierr.IsNotFound(err):
		return nil, nil
	case ierr.IsDatabase(err):
		s.Logger.Errorw("failed to load coupon", "coupon_code", code, "error", err)
		return nil, nil
	default:
		return nil, err
	}
}
