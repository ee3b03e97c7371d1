package randomuser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/denchenko/usercards/internal/core/domain"
	cleanhttp "github.com/hashicorp/go-cleanhttp"
)

// Client implements the app.UserService interface against the randomuser.me API.
// It performs exactly one GET per call and never retries or caches.
type Client struct {
	httpClient *http.Client
	baseURL    *url.URL
	seed       string
}

// NewClient creates a new API client. The seed is sent with every request so
// that page N always maps to the same slice of upstream users.
func NewClient(baseURL, seed string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %s", baseURL)
	}

	httpClient := cleanhttp.DefaultPooledClient()
	httpClient.Timeout = timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    u,
		seed:       seed,
	}, nil
}

// Seed returns the seed sent with every request.
func (c *Client) Seed() string {
	return c.seed
}

// FetchUsers fetches one page of users.
func (c *Client) FetchUsers(ctx context.Context, page, pageSize int) (*domain.ResultSet, error) {
	key := domain.NewRequestKey(page, pageSize)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.pageURL(key), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)

		return nil, &domain.HTTPError{Status: resp.StatusCode}
	}

	var rs domain.ResultSet
	if err := json.NewDecoder(resp.Body).Decode(&rs); err != nil {
		return nil, &domain.DecodeError{Err: err}
	}

	return &rs, nil
}

func (c *Client) pageURL(key domain.RequestKey) string {
	u := *c.baseURL

	q := u.Query()
	q.Set("page", strconv.Itoa(key.Page))
	q.Set("results", strconv.Itoa(key.PageSize))
	q.Set("seed", c.seed)
	u.RawQuery = q.Encode()

	return u.String()
}
