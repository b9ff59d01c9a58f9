package postgres

import (
	"context"
	"database/sql"

	"github.com/cockroachdb/errors"
	"github.com/lensprice/lensprice/internal/domain/product"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/lensprice/lensprice/internal/logger"
	"github.com/lensprice/lensprice/internal/postgres"
	"github.com/lensprice/lensprice/internal/types"
	"github.com/lib/pq"
)

const productColumns = `id, organization_id, code, name, brand_line, index_tier, vision_type,
	yopo_eligible, mrp, offer_price, status, created_at, updated_at`

type productRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewProductRepository(db *postgres.DB, logger *logger.Logger) product.Repository {
	return &productRepository{db: db, logger: logger}
}

func (r *productRepository) ListCandidateIDs(ctx context.Context, filter product.CandidateFilter) ([]string, error) {
	query := `
		SELECT id FROM lens_products
		WHERE organization_id = $1 AND status = $2 AND ($3 = '' OR vision_type = $3)
		ORDER BY code`

	var ids []string
	err := r.db.GetQuerier(ctx).SelectContext(ctx, &ids, query,
		types.GetOrganizationID(ctx),
		types.StatusActive,
		string(filter.VisionType),
	)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list candidate lenses").
			WithReportableDetails(map[string]any{"vision_type": filter.VisionType}).
			Mark(ierr.ErrDatabase)
	}
	return ids, nil
}

func (r *productRepository) GetByIDs(ctx context.Context, ids []string) ([]*product.LensProduct, error) {
	if len(ids) == 0 {
		return []*product.LensProduct{}, nil
	}

	query := `SELECT ` + productColumns + `
		FROM lens_products
		WHERE organization_id = $1 AND id = ANY($2)`

	var products []*product.LensProduct
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &products, query, types.GetOrganizationID(ctx), pq.Array(ids)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load lens products").
			WithReportableDetails(map[string]any{"count": len(ids)}).
			Mark(ierr.ErrDatabase)
	}
	return products, nil
}

func (r *productRepository) GetByCode(ctx context.Context, code string) (*product.LensProduct, error) {
	query := `SELECT ` + productColumns + `
		FROM lens_products
		WHERE organization_id = $1 AND code = $2 AND status = $3`

	var p product.LensProduct
	err := r.db.GetQuerier(ctx).GetContext(ctx, &p, query, types.GetOrganizationID(ctx), code, types.StatusActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Lens %s was not found", code).
				WithReportableDetails(map[string]any{"code": code}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to load lens product").
			Mark(ierr.ErrDatabase)
	}
	return &p, nil
}

func (r *productRepository) ListBenefitsByProductIDs(ctx context.Context, ids []string) (map[string][]product.BenefitStrength, error) {
	result := make(map[string][]product.BenefitStrength, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []product.BenefitStrength
	query := `
		SELECT product_id, benefit_code, strength, point_weight
		FROM lens_product_benefits
		WHERE product_id = ANY($1)
		ORDER BY product_id, benefit_code`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load lens benefits").
			Mark(ierr.ErrDatabase)
	}

	for _, row := range rows {
		result[row.ProductID] = append(result[row.ProductID], row)
	}
	return result, nil
}

func (r *productRepository) ListFeaturesByProductIDs(ctx context.Context, ids []string) (map[string][]string, error) {
	result := make(map[string][]string, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []product.Feature
	query := `
		SELECT product_id, feature_code
		FROM lens_product_features
		WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order, feature_code`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load lens features").
			Mark(ierr.ErrDatabase)
	}

	for _, row := range rows {
		result[row.ProductID] = append(result[row.ProductID], row.FeatureCode)
	}
	return result, nil
}

func (r *productRepository) ListPowerBandsByProductIDs(ctx context.Context, ids []string) (map[string][]product.PowerBand, error) {
	result := make(map[string][]product.PowerBand, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []product.PowerBand
	query := `
		SELECT product_id, min_power, max_power, extra_charge, sort_order
		FROM lens_power_bands
		WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load lens power bands").
			Mark(ierr.ErrDatabase)
	}

	for _, row := range rows {
		result[row.ProductID] = append(result[row.ProductID], row)
	}
	return result, nil
}

func (r *productRepository) ListRxAddonBandsByProductIDs(ctx context.Context, ids []string) (map[string][]product.RxAddonBand, error) {
	result := make(map[string][]product.RxAddonBand, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var rows []product.RxAddonBand
	query := `
		SELECT id, product_id, sphere_min, sphere_max, cylinder_min, cylinder_max,
			addition_min, addition_max, extra_charge, sort_order
		FROM lens_rx_addon_bands
		WHERE product_id = ANY($1)
		ORDER BY product_id, sort_order`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load prescription add-on bands").
			Mark(ierr.ErrDatabase)
	}

	for _, row := range rows {
		result[row.ProductID] = append(result[row.ProductID], row)
	}
	return result, nil
}

func (r *productRepository) ListStoreOverrides(ctx context.Context, storeID string, ids []string) (map[string]*product.StoreOverride, error) {
	result := make(map[string]*product.StoreOverride, len(ids))
	if storeID == "" || len(ids) == 0 {
		return result, nil
	}

	var rows []*product.StoreOverride
	query := `
		SELECT store_id, product_id, offer_price, in_stock
		FROM store_lens_overrides
		WHERE store_id = $1 AND product_id = ANY($2)`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &rows, query, storeID, pq.Array(ids)); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to load store prices").
			WithReportableDetails(map[string]any{"store_id": storeID}).
			Mark(ierr.ErrDatabase)
	}

	for _, row := range rows {
		result[row.ProductID] = row
	}
	return result, nil
}
