package testutil

import (
	"context"
	"strings"

	"github.com/lensprice/lensprice/internal/domain/categorydiscount"
)

// InMemoryCategoryDiscountStore implements categorydiscount.Repository
type InMemoryCategoryDiscountStore struct {
	*InMemoryStore[*categorydiscount.CategoryDiscount]
}

func NewInMemoryCategoryDiscountStore() *InMemoryCategoryDiscountStore {
	return &InMemoryCategoryDiscountStore{
		InMemoryStore: NewInMemoryStore[*categorydiscount.CategoryDiscount](),
	}
}

func (s *InMemoryCategoryDiscountStore) ListActive(ctx context.Context, customerCategory string) ([]*categorydiscount.CategoryDiscount, error) {
	return s.List(ctx, customerCategory, func(ctx context.Context, d *categorydiscount.CategoryDiscount, filter interface{}) bool {
		return d.IsActive() &&
			strings.EqualFold(d.CustomerCategory, filter.(string)) &&
			CheckOrganizationFilter(ctx, d.OrganizationID)
	}, func(a, b *categorydiscount.CategoryDiscount) bool {
		return a.ID < b.ID
	})
}
