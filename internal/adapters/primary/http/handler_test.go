package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/denchenko/usercards/internal/adapters/secondary/service/mocks"
	"github.com/denchenko/usercards/internal/config"
	"github.com/denchenko/usercards/internal/core/app"
	"github.com/denchenko/usercards/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *mocks.MockUserService, *mocks.MockCacheControl) {
	t.Helper()

	users := &mocks.MockUserService{}
	cache := &mocks.MockCacheControl{}

	appInstance, err := app.NewApp(&config.Config{PageSize: 10}, users, cache)
	require.NoError(t, err)

	return NewServer(":0", appInstance), users, cache
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()

	s.Handler().ServeHTTP(w, req)

	return w
}

func TestServer_handleUsers(t *testing.T) {
	tests := []struct {
		name           string
		target         string
		setupMock      func(*mocks.MockUserService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "defaults",
			target: "/users",
			setupMock: func(m *mocks.MockUserService) {
				m.On("FetchUsers", mock.Anything, 0, 10).Return(&domain.ResultSet{
					Results: []domain.User{{Email: "a@example.com"}},
					Info:    domain.Info{Seed: "usercards", Results: 10, Page: 1, Version: "1.4"},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"a@example.com"`,
		},
		{
			name:   "explicit page and results",
			target: "/users?page=3&results=5",
			setupMock: func(m *mocks.MockUserService) {
				m.On("FetchUsers", mock.Anything, 3, 5).Return(&domain.ResultSet{
					Info: domain.Info{Page: 3, Results: 5},
				}, nil).Once()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"page":3`,
		},
		{
			name:           "invalid page",
			target:         "/users?page=abc",
			setupMock:      func(*mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid page`,
		},
		{
			name:           "negative results",
			target:         "/users?results=-1",
			setupMock:      func(*mocks.MockUserService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid results`,
		},
		{
			name:   "upstream status",
			target: "/users?page=1",
			setupMock: func(m *mocks.MockUserService) {
				m.On("FetchUsers", mock.Anything, 1, 10).Return(nil, &domain.HTTPError{Status: 503}).Once()
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   `"upstream_status":503`,
		},
		{
			name:   "upstream body",
			target: "/users?page=1",
			setupMock: func(m *mocks.MockUserService) {
				m.On("FetchUsers", mock.Anything, 1, 10).
					Return(nil, &domain.DecodeError{Err: errors.New("unexpected EOF")}).Once()
			},
			expectedStatus: http.StatusBadGateway,
		},
		{
			name:   "transport failure",
			target: "/users?page=1",
			setupMock: func(m *mocks.MockUserService) {
				m.On("FetchUsers", mock.Anything, 1, 10).Return(nil, errors.New("dial tcp: refused")).Once()
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `internal server error`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, users, _ := newTestServer(t)
			tt.setupMock(users)

			w := serve(server, http.MethodGet, tt.target)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			users.AssertExpectations(t)
		})
	}
}

func TestServer_handleCacheStats(t *testing.T) {
	server, _, cache := newTestServer(t)
	stats := domain.CacheStats{Enabled: true, TTL: "5m0s", Entries: 2, Hits: 4, Misses: 2}
	cache.On("Stats", mock.Anything).Return(stats, nil).Once()

	w := serve(server, http.MethodGet, "/cache/stats")

	require.Equal(t, http.StatusOK, w.Code)

	var got domain.CacheStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, stats, got)
}

func TestServer_handleCacheClear(t *testing.T) {
	server, _, cache := newTestServer(t)
	cache.On("ClearCache", mock.Anything).Return(nil).Once()
	cache.On("ClearCache", mock.Anything).Return(errors.New("redis down")).Once()

	assert.Equal(t, http.StatusNoContent, serve(server, http.MethodDelete, "/cache").Code)
	assert.Equal(t, http.StatusInternalServerError, serve(server, http.MethodDelete, "/cache").Code)
	cache.AssertExpectations(t)
}

func TestServer_handleCacheInvalidate(t *testing.T) {
	server, _, cache := newTestServer(t)
	cache.On("Invalidate", mock.Anything, 2, 20).Return(nil).Once()

	assert.Equal(t, http.StatusNoContent, serve(server, http.MethodDelete, "/cache/2/20").Code)
	assert.Equal(t, http.StatusBadRequest, serve(server, http.MethodDelete, "/cache/two/20").Code)
	cache.AssertExpectations(t)
}

func TestServer_handleHealth(t *testing.T) {
	server, _, _ := newTestServer(t)

	w := serve(server, http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestServer_MethodNotAllowed(t *testing.T) {
	server, _, _ := newTestServer(t)

	w := serve(server, http.MethodPost, "/users")

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
