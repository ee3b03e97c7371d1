package cached

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/denchenko/usercards/internal/adapters/secondary/cache"
	"github.com/denchenko/usercards/internal/core/app"
	"github.com/denchenko/usercards/internal/core/domain"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

var (
	_ app.UserService  = (*Service)(nil)
	_ app.CacheControl = (*Service)(nil)
)

// Service wraps a UserService with a time-boxed response cache.
type Service struct {
	users app.UserService
	cache cache.Cache
	ttl   time.Duration
	sf    *singleflight.Group

	hits   atomic.Uint64
	misses atomic.Uint64
}

// Option configures a Service.
type Option func(*Service)

// WithSingleFlight collapses concurrent misses for the same page into one upstream call.
// The shared call ignores cancellation of the caller that started it, so followers are
// not failed by the leader giving up.
func WithSingleFlight() Option {
	return func(s *Service) {
		s.sf = &singleflight.Group{}
	}
}

// NewService creates a new caching user service. A non-positive ttl disables caching:
// every call goes to the wrapped service and nothing is stored.
func NewService(users app.UserService, c cache.Cache, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		users: users,
		cache: c,
		ttl:   ttl,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) enabled() bool {
	return s.ttl > 0
}

// FetchUsers returns the page from cache when present, otherwise fetches and stores it.
// Failures of the wrapped service are returned unchanged and never cached.
func (s *Service) FetchUsers(ctx context.Context, page, pageSize int) (*domain.ResultSet, error) {
	key := domain.NewRequestKey(page, pageSize)

	if !s.enabled() {
		return s.users.FetchUsers(ctx, key.Page, key.PageSize)
	}

	if rs, ok := s.lookup(ctx, key); ok {
		s.hits.Add(1)
		logrus.WithField("key", key.String()).Debug("cache hit")

		return rs, nil
	}

	s.misses.Add(1)
	logrus.WithField("key", key.String()).Debug("cache miss")

	if s.sf == nil {
		return s.load(ctx, key)
	}

	// The shared load outlives a cancelled leader. The HTTP client timeout still bounds it.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := s.sf.Do(key.String(), func() (any, error) {
		return s.load(flightCtx, key)
	})
	if err != nil {
		return nil, err
	}

	rs, ok := v.(*domain.ResultSet)
	if !ok {
		return nil, fmt.Errorf("unexpected result type %T from singleflight", v)
	}

	if shared {
		return rs.Clone(), nil
	}

	return rs, nil
}

// lookup treats backend errors as misses.
func (s *Service) lookup(ctx context.Context, key domain.RequestKey) (*domain.ResultSet, bool) {
	rs, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		logrus.WithError(err).WithField("key", key.String()).Warn("cache get error")

		return nil, false
	}

	if !ok {
		return nil, false
	}

	rs.Info.Page = key.Page
	rs.Info.Results = key.PageSize

	return rs, true
}

func (s *Service) load(ctx context.Context, key domain.RequestKey) (*domain.ResultSet, error) {
	rs, err := s.users.FetchUsers(ctx, key.Page, key.PageSize)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, rs, s.ttl); err != nil {
		logrus.WithError(err).WithField("key", key.String()).Warn("cache set error")
	}

	return rs, nil
}

// ClearCache evicts every entry.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	logrus.Debug("cache cleared")

	return nil
}

// Invalidate evicts the entry for exactly this page and page size.
func (s *Service) Invalidate(ctx context.Context, page, pageSize int) error {
	key := domain.NewRequestKey(page, pageSize)

	if err := s.cache.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to invalidate %s: %w", key, err)
	}

	logrus.WithField("key", key.String()).Debug("cache entry invalidated")

	return nil
}

// Stats reports hit and miss counters along with the number of live entries.
func (s *Service) Stats(ctx context.Context) (domain.CacheStats, error) {
	n, err := s.cache.Len(ctx)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("failed to count cache entries: %w", err)
	}

	return domain.CacheStats{
		Enabled: s.enabled(),
		TTL:     s.ttl.String(),
		Entries: n,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}, nil
}
