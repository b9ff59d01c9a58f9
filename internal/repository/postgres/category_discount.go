package postgres

import (
	"context"

	"github.com/lensprice/lensprice/internal/domain/categorydiscount"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/postgres"
	"github.com/lensprice/lensprice/internal/types"
)

type categoryDiscountRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCategoryDiscountRepository(db *postgres.DB, logger *logger.Logger) categorydiscount.Repository {
	return &categoryDiscountRepository{db: db, logger: logger}
}

func (r *categoryDiscountRepository) ListActive(ctx context.Context, customerCategory string) ([]*categorydiscount.CategoryDiscount, error) {
	if customerCategory == "" {
		return []*categorydiscount.CategoryDiscount{}, nil
	}

	query := `
		SELECT id, organization_id, customer_category, brand_code, percent, max_discount,
			status, created_at, updated_at
		FROM category_discounts
		WHERE organization_id = $1 AND status = $2 AND UPPER(customer_category) = UPPER($3)
		ORDER BY percent DESC, id`

	var discounts []*categorydiscount.CategoryDiscount
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &discounts, query,
		types.GetOrganizationID(ctx),
		types.StatusActive,
		customerCategory,
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load category discounts").
			WithReportableDetails(map[string]any{"customer_category": customerCategory}).
			Mark(ierr.ErrDatabase)
	}
	return discounts, nil
}
