package mocks

import (
	"context"

	"github.com/denchenko/usercards/internal/core/domain"
	"github.com/stretchr/testify/mock"
)

// MockUserService is a mock implementation of app.UserService.
type MockUserService struct {
	mock.Mock
}

// FetchUsers mocks the FetchUsers method.
func (m *MockUserService) FetchUsers(ctx context.Context, page, pageSize int) (*domain.ResultSet, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*domain.ResultSet), args.Error(1)
}

// MockCacheControl is a mock implementation of app.CacheControl.
type MockCacheControl struct {
	mock.Mock
}

// ClearCache mocks the ClearCache method.
func (m *MockCacheControl) ClearCache(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

// Invalidate mocks the Invalidate method.
func (m *MockCacheControl) Invalidate(ctx context.Context, page, pageSize int) error {
	args := m.Called(ctx, page, pageSize)

	return args.Error(0)
}

// Stats mocks the Stats method.
func (m *MockCacheControl) Stats(ctx context.Context) (domain.CacheStats, error) {
	args := m.Called(ctx)

	return args.Get(0).(domain.CacheStats), args.Error(1)
}
