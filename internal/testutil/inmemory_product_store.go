package testutil

import (
	"context"
	"sync"

	"github.com/lensprice/lensprice/internal/domain/product"
	ierr "github.com/lensprice/lensprice/internal/errors"
	"github.com/samber/lo"
)

// InMemoryProductStore implements product.Repository. Sub-records given on
// the product passed to AddProduct are served by the bulk readers.
type InMemoryProductStore struct {
	*InMemoryStore[*product.LensProduct]
	CallCounter

	mu        sync.RWMutex
	overrides map[string]map[string]*product.StoreOverride
	// orphans are candidate ids with no product row, a catalog inconsistency
	orphans []string
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.LensProduct](),
		overrides:     make(map[string]map[string]*product.StoreOverride),
	}
}

// AddProduct stores a lens together with its sub-records
func (s *InMemoryProductStore) AddProduct(ctx context.Context, p *product.LensProduct) error {
	return s.Create(ctx, p.ID, p)
}

// AddOrphanCandidate lists an id as a candidate without any product row behind it
func (s *InMemoryProductStore) AddOrphanCandidate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orphans = append(s.orphans, id)
}

func (s *InMemoryProductStore) SetStoreOverride(o *product.StoreOverride) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.overrides[o.StoreID] == nil {
		s.overrides[o.StoreID] = make(map[string]*product.StoreOverride)
	}
	s.overrides[o.StoreID][o.ProductID] = o
}

func productFilterFn(ctx context.Context, p *product.LensProduct, filter interface{}) bool {
	if p == nil || !p.IsActive() || !CheckOrganizationFilter(ctx, p.OrganizationID) {
		return false
	}
	f, ok := filter.(product.CandidateFilter)
	if !ok {
		return true
	}
	return f.VisionType == "" || p.VisionType == f.VisionType
}

func (s *InMemoryProductStore) ListCandidateIDs(ctx context.Context, filter product.CandidateFilter) ([]string, error) {
	s.record("ListCandidateIDs")
	items, err := s.List(ctx, filter, productFilterFn, func(a, b *product.LensProduct) bool {
		return a.Code < b.Code
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list candidate lenses").
			Mark(ierr.ErrDatabase)
	}

	ids := lo.Map(items, func(p *product.LensProduct, _ int) string { return p.ID })
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append(ids, s.orphans...), nil
}

func (s *InMemoryProductStore) GetByIDs(ctx context.Context, ids []string) ([]*product.LensProduct, error) {
	s.record("GetByIDs")
	out := make([]*product.LensProduct, 0, len(ids))
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		out = append(out, withoutSubRecords(p))
	}
	return out, nil
}

func (s *InMemoryProductStore) GetByCode(ctx context.Context, code string) (*product.LensProduct, error) {
	s.record("GetByCode")
	items, err := s.List(ctx, nil, func(ctx context.Context, p *product.LensProduct, _ interface{}) bool {
		return p.Code == code && CheckOrganizationFilter(ctx, p.OrganizationID)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("lens product not found").
			WithHintf("Lens %s was not found", code).
			Mark(ierr.ErrNotFound)
	}
	return items[0], nil
}

func (s *InMemoryProductStore) ListBenefitsByProductIDs(ctx context.Context, ids []string) (map[string][]product.BenefitStrength, error) {
	s.record("ListBenefitsByProductIDs")
	return collect(ctx, s, ids, func(p *product.LensProduct) []product.BenefitStrength { return p.Benefits }), nil
}

func (s *InMemoryProductStore) ListFeaturesByProductIDs(ctx context.Context, ids []string) (map[string][]string, error) {
	s.record("ListFeaturesByProductIDs")
	return collect(ctx, s, ids, func(p *product.LensProduct) []string { return p.Features }), nil
}

func (s *InMemoryProductStore) ListPowerBandsByProductIDs(ctx context.Context, ids []string) (map[string][]product.PowerBand, error) {
	s.record("ListPowerBandsByProductIDs")
	return collect(ctx, s, ids, func(p *product.LensProduct) []product.PowerBand { return p.PowerBands }), nil
}

func (s *InMemoryProductStore) ListRxAddonBandsByProductIDs(ctx context.Context, ids []string) (map[string][]product.RxAddonBand, error) {
	s.record("ListRxAddonBandsByProductIDs")
	return collect(ctx, s, ids, func(p *product.LensProduct) []product.RxAddonBand { return p.RxAddonBands }), nil
}

func (s *InMemoryProductStore) ListStoreOverrides(ctx context.Context, storeID string, ids []string) (map[string]*product.StoreOverride, error) {
	s.record("ListStoreOverrides")
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]*product.StoreOverride)
	for _, id := range ids {
		if o, ok := s.overrides[storeID][id]; ok {
			out[id] = o
		}
	}
	return out, nil
}

// Clear removes products, overrides and orphans and resets the call counters
func (s *InMemoryProductStore) Clear() {
	s.InMemoryStore.Clear()
	s.ResetCalls()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides = make(map[string]map[string]*product.StoreOverride)
	s.orphans = nil
}

func collect[T any](ctx context.Context, s *InMemoryProductStore, ids []string, field func(*product.LensProduct) []T) map[string][]T {
	out := make(map[string][]T)
	for _, id := range ids {
		p, err := s.Get(ctx, id)
		if err != nil {
			continue
		}
		if rows := field(p); len(rows) > 0 {
			out[id] = append([]T(nil), rows...)
		}
	}
	return out
}

// withoutSubRecords mimics the product row read, which carries no sub-records
func withoutSubRecords(p *product.LensProduct) *product.LensProduct {
	c := *p
	c.Benefits = nil
	c.Features = nil
	c.PowerBands = nil
	c.RxAddonBands = nil
	return &c
}
