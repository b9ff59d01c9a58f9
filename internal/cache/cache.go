package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// Cache defines the interface for caching operations
type Cache interface {
	// Get retrieves a value from the cache
	// Returns the value and a boolean indicating whether the key was found
	Get(ctx context.Context, key string) (interface{}, bool)

	// Set adds a value to the cache with the specified expiration
	// If expiration is 0, the backend default applies
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)

	// DeleteByPrefix removes all keys with the given prefix
	DeleteByPrefix(ctx context.Context, prefix string)

	// Flush removes all items from the cache
	Flush(ctx context.Context)
}

// Predefined cache key prefixes
const (
	PrefixRecommendation = "recommendation:v1:"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// GenerateKey creates a cache key from a prefix and a set of parameters
// It joins all parameters with a colon and appends them to the prefix
func GenerateKey(prefix string, params ...interface{}) string {
	parts := make([]string, len(params)+1)
	parts[0] = prefix

	for i, param := range params {
		parts[i+1] = fmt.Sprintf("%v", param)
	}

	return strings.Join(parts, ":")
}

// GetAs reads a key and converts it to T. In-process backends hand back the
// stored value, remote backends hand back its JSON encoding.
func GetAs[T any](ctx context.Context, c Cache, key string) (*T, bool) {
	raw, found := c.Get(ctx, key)
	if !found || raw == nil {
		return nil, false
	}

	switch v := raw.(type) {
	case *T:
		return v, true
	case T:
		return &v, true
	case []byte:
		return decode[T](v)
	case string:
		return decode[T]([]byte(v))
	default:
		return nil, false
	}
}

func decode[T any](data []byte) (*T, bool) {
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}
