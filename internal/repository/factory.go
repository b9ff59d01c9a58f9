package repository

import (
	"github.com/lensprice/lensprice/internal/domain/categorydiscount"
	"github.com/lensprice/lensprice/internal/domain/coupon"
	"github.com/lensprice/lensprice/internal/domain/offer"
	"github.com/lensprice/lensprice/internal/domain/product"
	"github.com/lensprice/lensprice/internal/domain/questionnaire"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/postgres"
	postgresRepo "github.com/lensprice/lensprice/internal/repository/postgres"
)

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return postgresRepo.NewProductRepository(db, logger)
}

func NewQuestionnaireRepository(db *postgres.DB, logger *logger.Logger) questionnaire.Repository {
	return postgresRepo.NewQuestionnaireRepository(db, logger)
}

func NewOfferRuleRepository(db *postgres.DB, logger *logger.Logger) offer.Repository {
	return postgresRepo.NewOfferRuleRepository(db, logger)
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return postgresRepo.NewCouponRepository(db, logger)
}

func NewCategoryDiscountRepository(db *postgres.DB, logger *logger.Logger) categorydiscount.Repository {
	return postgresRepo.NewCategoryDiscountRepository(db, logger)
}
