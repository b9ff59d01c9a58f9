package coupon

import "context"

// Repository resolves coupons for the organization in ctx
type Repository interface {
	// GetByCode returns an ErrNotFound error when no coupon has the code
	GetByCode(ctx context.Context, code string) (*Coupon, error)
}
