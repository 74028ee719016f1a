// Package linear provides a GraphQL client for the Linear API.
// It implements a deep module interface - simple methods hiding the GraphQL
// queries, pagination, retries and normalization of raw API values.
package linear

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
	"go.uber.org/zap"
)

// DefaultAPIURL is the Linear GraphQL endpoint.
const DefaultAPIURL = "https://api.linear.app/graphql"

// DefaultPageSize is the number of issues requested per page.
const DefaultPageSize = 50

// maxPages bounds pagination so a misbehaving cursor cannot loop forever.
const maxPages = 200

// Client is a Linear GraphQL API client.
// It provides high-level methods for querying project data.
type Client struct {
	gql         *graphql.Client
	httpClient  *http.Client
	url         string
	token       string
	pageSize    int
	maxRetries  int
	retryDelays []time.Duration
	log         *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient uses hc for all requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPageSize sets the number of issues requested per page.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// WithRetryDelays sets the backoff delays used when a request is rate limited.
// The number of retries equals len(delays).
func WithRetryDelays(delays ...time.Duration) Option {
	return func(c *Client) {
		c.retryDelays = delays
		c.maxRetries = len(delays)
	}
}

// WithLogger logs retries to l.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// New creates a Linear client for apiURL authenticated with token.
// An empty apiURL selects DefaultAPIURL.
func New(apiURL, token string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrNotAuthenticated
	}
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	c := &Client{
		httpClient:  http.DefaultClient,
		url:         apiURL,
		token:       token,
		pageSize:    DefaultPageSize,
		maxRetries:  len(DefaultRetryDelays),
		retryDelays: DefaultRetryDelays,
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.httpClient
	hc.Transport = &statusTransport{base: c.httpClient.Transport}
	c.gql = graphql.NewClient(apiURL, graphql.WithHTTPClient(&hc))
	return c, nil
}

// statusTransport turns HTTP status codes the GraphQL client would otherwise
// try to decode as JSON into package sentinels.
type statusTransport struct {
	base http.RoundTripper
}

func (t *statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	res, err := base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	var sentinel error
	switch res.StatusCode {
	case http.StatusTooManyRequests:
		sentinel = ErrRateLimited
	case http.StatusUnauthorized:
		sentinel = ErrNotAuthenticated
	default:
		return res, nil
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4096))
	res.Body.Close()
	return nil, fmt.Errorf("%w (status %d)", sentinel, res.StatusCode)
}

// makeRequest executes a GraphQL request with authentication, retrying when
// the API reports rate limiting.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	// Personal API keys are sent as-is; OAuth tokens carry their own scheme
	req.Header.Set("Authorization", c.token)

	return c.withRetry(ctx, func() error {
		return c.gql.Run(ctx, req, resp)
	})
}
