package testutil

import (
	"context"

	"github.com/lensprice/lensprice/internal/domain/offer"
)

// InMemoryOfferRuleStore implements offer.Repository
type InMemoryOfferRuleStore struct {
	*InMemoryStore[*offer.OfferRule]
	// Err is returned as-is by ListActive
	Err error
}

func NewInMemoryOfferRuleStore() *InMemoryOfferRuleStore {
	return &InMemoryOfferRuleStore{
		InMemoryStore: NewInMemoryStore[*offer.OfferRule](),
	}
}

func offerRuleFilterFn(ctx context.Context, r *offer.OfferRule, _ interface{}) bool {
	return r != nil && r.IsActive() && CheckOrganizationFilter(ctx, r.OrganizationID)
}

func (s *InMemoryOfferRuleStore) ListActive(ctx context.Context) ([]*offer.OfferRule, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	return s.List(ctx, nil, offerRuleFilterFn, func(a, b *offer.OfferRule) bool {
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		return a.ID < b.ID
	})
}

func (s *InMemoryOfferRuleStore) Clear() {
	s.InMemoryStore.Clear()
	s.Err = nil
}
