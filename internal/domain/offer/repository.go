package offer

import "context"

// Repository is the rule store. Results are scoped to the organization in
// ctx and contain only active rules.
type Repository interface {
	ListActive(ctx context.Context) ([]*OfferRule, error)
}
