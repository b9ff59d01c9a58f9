package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/lensprice/lensprice/internal/types"
)

// FilterFunc decides whether item matches filter
type FilterFunc[T any] func(ctx context.Context, item T, filter interface{}) bool

// SortFunc orders List results; nil keeps map order
type SortFunc[T any] func(i, j T) bool

// InMemoryStore is a mutex guarded map keyed by record id. Every in-memory
// repository embeds one.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

func (s *InMemoryStore[T]) Create(ctx context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return fmt.Errorf("record %s already exists", id)
	}

	s.items[id] = item
	return nil
}

func (s *InMemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[id]
	if !exists {
		var zero T
		return zero, fmt.Errorf("record %s not found", id)
	}
	return item, nil
}

// List returns the items accepted by filterFn, sorted by sortFn
func (s *InMemoryStore[T]) List(ctx context.Context, filter interface{}, filterFn FilterFunc[T], sortFn SortFunc[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]T, 0, len(s.items))
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item, filter) {
			result = append(result, item)
		}
	}

	if sortFn != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}

	return result, nil
}

func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

// CheckOrganizationFilter reports whether an item belongs to the organization in ctx.
// Items without an organization are visible everywhere.
func CheckOrganizationFilter(ctx context.Context, itemOrgID string) bool {
	orgID := types.GetOrganizationID(ctx)
	return orgID == "" || itemOrgID == "" || itemOrgID == orgID
}

// CallCounter records how many times each repository method ran, so tests
// can assert that reads are batched
type CallCounter struct {
	mu    sync.Mutex
	calls map[string]int
}

func (c *CallCounter) record(method string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[method]++
}

// Calls returns how many times method was called
func (c *CallCounter) Calls(method string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[method]
}

// ResetCalls zeroes every counter
func (c *CallCounter) ResetCalls() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = nil
}
