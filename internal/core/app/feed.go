package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/denchenko/usercards/internal/core/domain"
)

// Feed accumulates consecutive pages of users for infinite scrolling.
type Feed struct {
	users    UserService
	pageSize int
	maxPages int

	mu       sync.Mutex
	nextPage int
	loading  bool
	hasMore  bool
	items    []domain.User
	lastErr  error
}

// NewFeed creates a feed that starts at the first page. A maxPages of zero means unlimited.
func NewFeed(users UserService, pageSize, maxPages int) *Feed {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}

	return &Feed{
		users:    users,
		pageSize: pageSize,
		maxPages: maxPages,
		nextPage: domain.DefaultPage,
		hasMore:  true,
	}
}

// LoadMore fetches the next page and appends it to the feed.
// It returns the newly loaded users, or nothing when a load is already
// in progress or the feed is exhausted. A failed load keeps the page
// counter, so the next call requests the same page again.
func (f *Feed) LoadMore(ctx context.Context) ([]domain.User, error) {
	f.mu.Lock()
	if f.loading || !f.hasMore {
		f.mu.Unlock()

		return nil, nil
	}
	f.loading = true
	page := f.nextPage
	f.mu.Unlock()

	rs, err := f.users.FetchUsers(ctx, page, f.pageSize)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.loading = false
	if err != nil {
		f.lastErr = err

		return nil, fmt.Errorf("failed to load page %d: %w", page, err)
	}

	f.lastErr = nil
	f.items = append(f.items, rs.Results...)
	f.nextPage++

	if len(rs.Results) < f.pageSize || (f.maxPages > 0 && page >= f.maxPages) {
		f.hasMore = false
	}

	loaded := make([]domain.User, len(rs.Results))
	copy(loaded, rs.Results)

	return loaded, nil
}

// Reset drops every loaded page and starts over from the first one.
func (f *Feed) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = nil
	f.nextPage = domain.DefaultPage
	f.hasMore = true
	f.lastErr = nil
}

// Loading reports whether a page load is in flight.
func (f *Feed) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.loading
}

// HasMore reports whether another page may be loaded.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.hasMore
}

// Pages returns the number of pages loaded so far.
func (f *Feed) Pages() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.nextPage - 1
}

// Users returns a copy of every user loaded so far.
func (f *Feed) Users() []domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()

	users := make([]domain.User, len(f.items))
	copy(users, f.items)

	return users
}

// Err returns the error of the last load, if it failed.
func (f *Feed) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.lastErr
}
