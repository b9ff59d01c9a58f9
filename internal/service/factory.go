package service

import (
	"time"

	"github.com/lensprice/lensprice/internal/cache"
	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/domain/categorydiscount"
	"github.com/lensprice/lensprice/internal/domain/coupon"
	"github.com/lensprice/lensprice/internal/domain/offer"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/domain/questionnaire"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	Cache  cache.Cache
	Sentry *sentry.Service

	// Repositories
	ProductRepo          product.Repository
	QuestionnaireRepo    questionnaire.Repository
	OfferRuleRepo        offer.Repository
	CouponRepo           coupon.Repository
	CategoryDiscountRepo categorydiscount.Repository

	// Now is the clock used for coupon windows and timestamps
	Now func() time.Time
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	cache cache.Cache,
	sentrySvc *sentry.Service,
	productRepo product.Repository,
	questionnaireRepo questionnaire.Repository,
	offerRuleRepo offer.Repository,
	couponRepo coupon.Repository,
	categoryDiscountRepo categorydiscount.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:               logger,
		Config:               config,
		Cache:                cache,
		Sentry:               sentrySvc,
		ProductRepo:          productRepo,
		QuestionnaireRepo:    questionnaireRepo,
		OfferRuleRepo:        offerRuleRepo,
		CouponRepo:           couponRepo,
		CategoryDiscountRepo: categoryDiscountRepo,
		Now:                  time.Now,
	}
}

func (p ServiceParams) now() time.Time {
	if p.Now == nil {
		return time.Now().UTC()
	}
	return p.Now().UTC()
}
