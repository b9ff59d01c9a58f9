package categorydiscount

import "context"

type Repository interface {
	// ListActive returns the active discounts of a customer category
	ListActive(ctx context.Context, customerCategory string) ([]*CategoryDiscount, error)
}
