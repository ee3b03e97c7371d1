package cache

import (
	"context"
	"sync"
	"time"

	"github.com/denchenko/usercards/internal/core/domain"
	"github.com/sirupsen/logrus"
)

type entry struct {
	rs    *domain.ResultSet
	timer *time.Timer
}

// InMemoryCache is an in-memory thread-safe cache where every entry owns its expiry timer.
type InMemoryCache struct {
	mu      sync.Mutex
	entries map[domain.RequestKey]*entry
}

// NewInMemoryCache creates a new in-memory cache instance.
func NewInMemoryCache() *InMemoryCache {
	return &InMemoryCache{
		entries: make(map[domain.RequestKey]*entry),
	}
}

// Get retrieves a copy of the result set stored under the key.
func (c *InMemoryCache) Get(_ context.Context, key domain.RequestKey) (*domain.ResultSet, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}

	return e.rs.Clone(), true, nil
}

// Set stores a copy of the result set and starts its expiry timer.
// A non-positive ttl stores nothing and drops any existing entry.
func (c *InMemoryCache) Set(_ context.Context, key domain.RequestKey, rs *domain.ResultSet, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if old, ok := c.entries[key]; ok {
		old.timer.Stop()
		delete(c.entries, key)
	}

	if ttl <= 0 {
		return nil
	}

	e := &entry{rs: rs.Clone()}
	e.timer = time.AfterFunc(ttl, func() { c.expire(key, e) })
	c.entries[key] = e

	return nil
}

// expire removes the entry only if it is still the one the timer was started for.
func (c *InMemoryCache) expire(key domain.RequestKey, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if current, ok := c.entries[key]; ok && current == e {
		delete(c.entries, key)
		logrus.WithField("key", key.String()).Debug("cache entry expired")
	}
}

// Delete removes the entry for the key and stops its timer.
func (c *InMemoryCache) Delete(_ context.Context, key domain.RequestKey) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.timer.Stop()
		delete(c.entries, key)
	}

	return nil
}

// Clear removes every entry and stops every timer.
func (c *InMemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		e.timer.Stop()
		delete(c.entries, key)
	}

	return nil
}

// Len returns the number of live entries.
func (c *InMemoryCache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries), nil
}
