// Package remote talks to the paged shopping REST API.
//
// Client performs raw requests and returns a Response; Execute classifies a
// Response into a taskresult.Result. Credentials are an explicit dependency
// of the client.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrlokans/shoplist/internal/paging"
	"github.com/mrlokans/shoplist/internal/taskresult"
)

const (
	defaultTimeout  = 30 * time.Second
	maxResponseSize = 10 << 20
)

// CacheMode selects how the HTTP cache may serve a request.
type CacheMode int

const (
	// NoCache always goes to the network.
	NoCache CacheMode = iota
	// OnlyIfCached lets an intermediary cache answer without revalidation.
	OnlyIfCached
)

func (m CacheMode) String() string {
	if m == OnlyIfCached {
		return "only-if-cached"
	}
	return "no-cache"
}

func (m CacheMode) header() string {
	if m == OnlyIfCached {
		return "only-if-cached, max-stale=86400"
	}
	return "no-cache"
}

// Client interfaces with the remote API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	credentials CredentialProvider
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the timeout of the default HTTP client.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a new API client for baseURL.
func NewClient(baseURL string, credentials CredentialProvider, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		baseURL:     strings.TrimRight(baseURL, "/"),
		credentials: credentials,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch requests one page of a listing endpoint.
func (c *Client) Fetch(ctx context.Context, endpoint string, page, pageSize int, cacheMode CacheMode) (*Response, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	return c.do(ctx, http.MethodGet, endpoint, q, nil, cacheMode)
}

// Search requests one page of a listing endpoint filtered by query.
func (c *Client) Search(ctx context.Context, endpoint, query string, pageSize int) (*Response, error) {
	q := url.Values{}
	q.Set("search", query)
	q.Set("page", "1")
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	return c.do(ctx, http.MethodGet, endpoint, q, nil, NoCache)
}

// Send performs a mutation with a JSON payload. payload may be nil.
func (c *Client) Send(ctx context.Context, method, path string, payload any) (*Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, nil, body, NoCache)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, cacheMode CacheMode) (*Response, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	token, err := c.credentials.Token(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", cacheMode.header())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	out := &Response{StatusCode: resp.StatusCode, Status: strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))}
	if out.Success() {
		out.Body = data
	} else {
		out.ErrorBody = data
	}
	return out, nil
}

// FetchPage fetches and decodes one page of endpoint. 401 responses are
// reported as *AuthError.
func FetchPage[T any](ctx context.Context, c *Client, endpoint string, page, pageSize int, cacheMode CacheMode) (taskresult.Result[paging.Envelope[T]], error) {
	return Execute[paging.Envelope[T]](ctx, func(ctx context.Context) (*Response, error) {
		return c.Fetch(ctx, endpoint, page, pageSize, cacheMode)
	}, WithAuthStatus(http.StatusUnauthorized))
}
