package cache

import (
	"context"
	"time"

	"github.com/denchenko/usercards/internal/core/domain"
)

// Cache defines the interface for page caching operations.
type Cache interface {
	// Get retrieves a result set by key from the cache.
	// Returns the result set and true if found, nil and false otherwise.
	Get(ctx context.Context, key domain.RequestKey) (*domain.ResultSet, bool, error)

	// Set stores a result set under the key and schedules its removal after ttl.
	// An existing entry for the key is replaced.
	Set(ctx context.Context, key domain.RequestKey, rs *domain.ResultSet, ttl time.Duration) error

	// Delete removes the entry for the key, if present.
	Delete(ctx context.Context, key domain.RequestKey) error

	// Clear removes every entry.
	Clear(ctx context.Context) error

	// Len returns the number of live entries.
	Len(ctx context.Context) (int, error)
}
