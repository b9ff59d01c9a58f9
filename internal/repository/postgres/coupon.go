package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lensprice/lensprice/internal/domain/coupon"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/postgres"
	"github.com/lensprice/lensprice/internal/types"
)

type couponRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCouponRepository(db *postgres.DB, logger *logger.Logger) coupon.Repository {
	return &couponRepository{db: db, logger: logger}
}

// GetByCode matches codes case-insensitively. Inactive coupons are returned so
// the caller can report why they cannot be redeemed.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	query := `
		SELECT id, organization_id, code, discount_type, value, max_discount, min_cart_value,
			valid_from, valid_until, used_count, usage_limit, status, created_at, updated_at
		FROM coupons
		WHERE organization_id = $1 AND UPPER(code) = UPPER($2)`

	var c coupon.Coupon
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, types.GetOrganizationID(ctx), code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Coupon %s was not found", code).
				WithReportableDetails(map[string]any{"code": code}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load coupon").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}
