package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core/domain"
	"golang.org/x/sync/errgroup"
)

// UserService fetches pages of users (port).
type UserService interface {
	FetchUsers(ctx context.Context, page, pageSize int) (*domain.ResultSet, error)
}

// CacheControl manages the response cache in front of a UserService (port).
type CacheControl interface {
	ClearCache(ctx context.Context) error
	Invalidate(ctx context.Context, page, pageSize int) error
	Stats(ctx context.Context) (domain.CacheStats, error)
}

const (
	// maxPageRange caps FetchPages when no max-pages limit is configured.
	maxPageRange = 50
	// fetchConcurrency bounds in-flight upstream requests per FetchPages call.
	fetchConcurrency = 4
)

// App represents the core application with all business logic.
type App struct {
	users    UserService
	cache    CacheControl
	pageSize int
	maxPages int
}

// NewApp creates a new application instance.
func NewApp(cfg *config.Config, users UserService, cache CacheControl) (*App, error) {
	if users == nil {
		return nil, errors.New("user service is required")
	}

	return &App{
		users:    users,
		cache:    cache,
		pageSize: cfg.PageSize,
		maxPages: cfg.MaxPages,
	}, nil
}

// PageSize returns the configured default page size.
func (a *App) PageSize() int {
	if a.pageSize <= 0 {
		return domain.DefaultPageSize
	}

	return a.pageSize
}

// FetchUsers retrieves one page of users.
func (a *App) FetchUsers(ctx context.Context, page, pageSize int) (*domain.ResultSet, error) {
	if pageSize <= 0 {
		pageSize = a.PageSize()
	}

	rs, err := a.users.FetchUsers(ctx, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users: %w", err)
	}

	return rs, nil
}

// FetchPages retrieves the pages in [from, to] concurrently and returns them in page order.
func (a *App) FetchPages(ctx context.Context, from, to, pageSize int) ([]*domain.ResultSet, error) {
	if from <= 0 {
		from = domain.DefaultPage
	}
	if to < from {
		return nil, fmt.Errorf("invalid page range %d-%d", from, to)
	}

	limit := maxPageRange
	if a.maxPages > 0 {
		limit = a.maxPages
	}

	if to-from >= limit {
		return nil, fmt.Errorf("page range %d-%d exceeds the limit of %d pages", from, to, limit)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)
	pages := make([]*domain.ResultSet, to-from+1)

	for page := from; page <= to; page++ {
		g.Go(func() error {
			rs, err := a.FetchUsers(ctx, page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to fetch page %d: %w", page, err)
			}
			pages[page-from] = rs

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch pages: %w", err)
	}

	return pages, nil
}

// ClearCache evicts every cached page.
func (a *App) ClearCache(ctx context.Context) error {
	if a.cache == nil {
		return nil
	}

	if err := a.cache.ClearCache(ctx); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}

	return nil
}

// Invalidate evicts a single cached page.
func (a *App) Invalidate(ctx context.Context, page, pageSize int) error {
	if a.cache == nil {
		return nil
	}

	if pageSize <= 0 {
		pageSize = a.PageSize()
	}

	if err := a.cache.Invalidate(ctx, page, pageSize); err != nil {
		return fmt.Errorf("failed to invalidate page %d: %w", page, err)
	}

	return nil
}

// CacheStats reports the cache state.
func (a *App) CacheStats(ctx context.Context) (domain.CacheStats, error) {
	if a.cache == nil {
		return domain.CacheStats{}, nil
	}

	stats, err := a.cache.Stats(ctx)
	if err != nil {
		return domain.CacheStats{}, fmt.Errorf("failed to get cache stats: %w", err)
	}

	return stats, nil
}

// NewFeed creates an infinite-scroll feed starting at the first page.
func (a *App) NewFeed(pageSize int) *Feed {
	if pageSize <= 0 {
		pageSize = a.PageSize()
	}

	return NewFeed(a.users, pageSize, a.maxPages)
}
