package randomuser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/denchenko/usercards/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pageBody = `{
  "results": [
    {
      "gender": "female",
      "name": {"title": "Ms", "first": "Aino", "last": "Lehto"},
      "location": {
        "street": {"number": 4022, "name": "Hämeenkatu"},
        "city": "Kemijärvi",
        "state": "Lapland",
        "country": "Finland",
        "postcode": 40213,
        "coordinates": {"latitude": "-29.3", "longitude": "-40.6"},
        "timezone": {"offset": "+2:00", "description": "Kaliningrad, South Africa"}
      },
      "email": "aino.lehto@example.com",
      "login": {"uuid": "2f1c", "username": "bluecat481"},
      "dob": {"date": "1987-02-11T09:12:41.123Z", "age": 37},
      "registered": {"date": "2010-06-01T04:10:11.521Z", "age": 14},
      "phone": "03-246-735",
      "cell": "046-140-55-04",
      "id": {"name": "HETU", "value": "NaNNA232undefined"},
      "picture": {
        "large": "https://randomuser.me/api/portraits/women/1.jpg",
        "medium": "https://randomuser.me/api/portraits/med/women/1.jpg",
        "thumbnail": "https://randomuser.me/api/portraits/thumb/women/1.jpg"
      },
      "nat": "FI"
    },
    {
      "gender": "male",
      "name": {"title": "Mr", "first": "Harry", "last": "Wood"},
      "location": {"street": {"number": 1, "name": "High St"}, "postcode": "EC1A 1BB"},
      "email": "harry.wood@example.com",
      "id": {"name": "", "value": null},
      "picture": {"large": "l", "medium": "m", "thumbnail": "t"},
      "nat": "GB"
    }
  ],
  "info": {"seed": "usercards", "results": 2, "page": 3, "version": "1.4"}
}`

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL+"/api/", "usercards", time.Second)
	require.NoError(t, err)

	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		baseURL     string
		expectError bool
	}{
		{name: "valid URL", baseURL: "https://randomuser.me/api/"},
		{name: "relative URL", baseURL: "/api/", expectError: true},
		{name: "invalid URL", baseURL: "://bad", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.baseURL, "seed", time.Second)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "seed", client.Seed())
				assert.Equal(t, time.Second, client.httpClient.Timeout)
			}
		})
	}
}

func TestClient_FetchUsers(t *testing.T) {
	var query atomic.Value
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/", r.URL.Path)
		query.Store(r.URL.Query())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(pageBody))
	})

	rs, err := client.FetchUsers(context.Background(), 3, 2)

	require.NoError(t, err)
	q := query.Load().(url.Values)
	assert.Equal(t, []string{"3"}, q["page"])
	assert.Equal(t, []string{"2"}, q["results"])
	assert.Equal(t, []string{"usercards"}, q["seed"])

	require.Len(t, rs.Results, 2)
	assert.Equal(t, domain.Info{Seed: "usercards", Results: 2, Page: 3, Version: "1.4"}, rs.Info)

	first := rs.Results[0]
	assert.Equal(t, "Aino Lehto", first.Name.Full())
	assert.Equal(t, domain.Postcode("40213"), first.Location.Postcode)
	assert.Equal(t, 37, first.DOB.Age)
	assert.Equal(t, "bluecat481", first.Login.Username)
	assert.Equal(t, "https://randomuser.me/api/portraits/women/1.jpg", first.Picture.Large)

	second := rs.Results[1]
	assert.Equal(t, domain.Postcode("EC1A 1BB"), second.Location.Postcode)
	assert.Nil(t, second.ID.Value)
}

func TestClient_FetchUsersDefaults(t *testing.T) {
	var query atomic.Value
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		query.Store(r.URL.Query())
		_, _ = w.Write([]byte(`{"results": [], "info": {"seed": "usercards", "results": 10, "page": 1, "version": "1.4"}}`))
	})

	_, err := client.FetchUsers(context.Background(), 0, 0)

	require.NoError(t, err)
	q := query.Load().(url.Values)
	assert.Equal(t, []string{"1"}, q["page"])
	assert.Equal(t, []string{"10"}, q["results"])
}

func TestClient_FetchUsersErrors(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		validate func(*testing.T, error)
	}{
		{
			name: "non-success status",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "upstream down", http.StatusServiceUnavailable)
			},
			validate: func(t *testing.T, err error) {
				var httpErr *domain.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusServiceUnavailable, httpErr.Status)
			},
		},
		{
			name: "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			validate: func(t *testing.T, err error) {
				var httpErr *domain.HTTPError
				require.ErrorAs(t, err, &httpErr)
				assert.Equal(t, http.StatusNotFound, httpErr.Status)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"results": [`))
			},
			validate: func(t *testing.T, err error) {
				var decodeErr *domain.DecodeError
				require.ErrorAs(t, err, &decodeErr)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				tt.handler(w, r)
			})

			rs, err := client.FetchUsers(context.Background(), 1, 10)

			require.Error(t, err)
			assert.Nil(t, rs)
			tt.validate(t, err)
			assert.Equal(t, int32(1), calls.Load(), "failures must not be retried")
		})
	}
}

func TestClient_FetchUsersTransportError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	client, err := NewClient(server.URL, "usercards", time.Second)
	require.NoError(t, err)
	server.Close()

	rs, err := client.FetchUsers(context.Background(), 1, 10)

	require.Error(t, err)
	assert.Nil(t, rs)

	var httpErr *domain.HTTPError
	assert.NotErrorAs(t, err, &httpErr)
}

func TestClient_FetchUsersContextCanceled(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(pageBody))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.FetchUsers(ctx, 1, 10)

	require.ErrorIs(t, err, context.Canceled)
}
