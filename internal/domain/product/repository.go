package product

import (
	"context"

	"github.com/lensprice/lensprice/internal/types"
)

// CandidateFilter narrows the catalog to lenses that can serve a prescription
type CandidateFilter struct {
	VisionType types.VisionType
}

// Repository is the catalog store. Every read that takes an id set is a
// single bulk query; callers must not loop over ids.
type Repository interface {
	ListCandidateIDs(ctx context.Context, filter CandidateFilter) ([]string, error)
	GetByIDs(ctx context.Context, ids []string) ([]*LensProduct, error)
	GetByCode(ctx context.Context, code string) (*LensProduct, error)
	ListBenefitsByProductIDs(ctx context.Context, ids []string) (map[string][]BenefitStrength, error)
	ListFeaturesByProductIDs(ctx context.Context, ids []string) (map[string][]string, error)
	ListPowerBandsByProductIDs(ctx context.Context, ids []string) (map[string][]PowerBand, error)
	ListRxAddonBandsByProductIDs(ctx context.Context, ids []string) (map[string][]RxAddonBand, error)
	ListStoreOverrides(ctx context.Context, storeID string, ids []string) (map[string]*StoreOverride, error)
}
