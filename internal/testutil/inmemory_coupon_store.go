package testutil

import (
	"context"
	"strings"

	"github.com/lensprice/lensprice/internal/domain/coupon"
	ierr "github.com/lensprice/lensprice/internal/errors"
)

// InMemoryCouponStore implements coupon.Repository
type InMemoryCouponStore struct {
	*InMemoryStore[*coupon.Coupon]
}

// NewInMemoryCouponStore creates a new in-memory coupon store
func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{
		InMemoryStore: NewInMemoryStore[*coupon.Coupon](),
	}
}

// Helper to copy coupon so callers never mutate stored state
func copyCoupon(c *coupon.Coupon) *coupon.Coupon {
	if c == nil {
		return nil
	}
	copied := *c
	return &copied
}

func (s *InMemoryCouponStore) GetByCode(ctx context.Context, code string) (*coupon.Coupon, error) {
	items, err := s.List(ctx, code, func(ctx context.Context, c *coupon.Coupon, filter interface{}) bool {
		return strings.EqualFold(c.Code, filter.(string)) && CheckOrganizationFilter(ctx, c.OrganizationID)
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ierr.NewError("coupon not found").
			WithHintf("Coupon %s was not found", code).
			Mark(ierr.ErrNotFound)
	}
	return copyCoupon(items[0]), nil
}
