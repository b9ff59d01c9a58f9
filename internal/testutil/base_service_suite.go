package testutil

import (
	"context"
	"time"

	"github.com/lensprice/lensprice/internal/cache"
	"github.com/lensprice/lensprice/internal/config"
	"github.com/lensprice/lensprice/internal/domain/categorydiscount"
	"github.com/lensprice/lensprice/internal/domain/coupon"
	"github.com/lensprice/lensprice/internal/domain/offer"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/domain/questionnaire"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/lensprice/lensprice/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	ProductRepo          product.Repository
	QuestionnaireRepo    questionnaire.Repository
	OfferRuleRepo        offer.Repository
	CouponRepo           coupon.Repository
	CategoryDiscountRepo categorydiscount.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	cache  *cache.InMemoryCache
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo

	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.cache = cache.NewInMemoryCache(s.config)
	s.now = time.Date(2026, 3, 15, 11, 0, 0, 0, time.UTC)
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		ProductRepo:          NewInMemoryProductStore(),
		QuestionnaireRepo:    NewInMemoryQuestionnaireStore(),
		OfferRuleRepo:        NewInMemoryOfferRuleStore(),
		CouponRepo:           NewInMemoryCouponStore(),
		CategoryDiscountRepo: NewInMemoryCategoryDiscountStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.ProductRepo.(*InMemoryProductStore).Clear()
	s.stores.QuestionnaireRepo.(*InMemoryQuestionnaireStore).Clear()
	s.stores.OfferRuleRepo.(*InMemoryOfferRuleStore).Clear()
	s.stores.CouponRepo.(*InMemoryCouponStore).Clear()
	s.stores.CategoryDiscountRepo.(*InMemoryCategoryDiscountStore).Clear()
	if s.cache != nil {
		s.cache.Flush(s.ctx)
	}
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetCache returns the per-test in-memory cache
func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the fixed test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

// DefaultBaseModel returns an active base model in the test organization
func (s *BaseServiceTestSuite) DefaultBaseModel() types.BaseModel {
	return types.GetDefaultBaseModel(s.ctx)
}
