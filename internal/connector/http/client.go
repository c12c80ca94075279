package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig configures the authenticated API client.
type ClientConfig struct {
	// BaseURL is the base URL for all requests.
	BaseURL string

	// Tokens mints and refreshes the session's bearer token.
	Tokens TokenSource

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration

	// RateLimit requests per second (default: 10).
	RateLimit float64

	// RateBurst maximum burst size (default: 5).
	RateBurst int

	// Headers to add to all requests.
	Headers map[string]string

	// UserAgent string (default: "hcm-sync/1.0").
	UserAgent string

	// Transport allows injecting a custom HTTP transport. The HCM connector
	// passes the token source's mTLS transport here.
	Transport http.RoundTripper

	// DecodeError turns a platform error body into an *APIError. Optional;
	// connectors install their platform's decoder.
	DecodeError func(statusCode int, body []byte) *APIError
}

// DefaultClientConfig returns a client config with sensible defaults.
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		Timeout:   30 * time.Second,
		RateLimit: 10.0,
		RateBurst: 5,
		UserAgent: "hcm-sync/1.0",
		Headers:   make(map[string]string),
	}
}

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// Request represents an API request to be made.
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Headers map[string]string

	// JSONBody is marshaled once and replayed if the request is retried
	// after a token refresh.
	JSONBody any
}

// Response wraps an API response with convenience methods.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// JSON unmarshals the response body into the given target.
func (r *Response) JSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// IsSuccess returns true if the status code is 2xx.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// NoContent returns true for an HTTP 204 response.
func (r *Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent
}

// =============================================================================
// CLIENT
// =============================================================================

// Client is an authenticated, rate-limited API client. It owns the session's
// bearer token and re-authenticates exactly once when the platform rejects
// the credential with a 401. A Client belongs to a single run and is not safe
// for concurrent use.
type Client struct {
	config      *ClientConfig
	httpClient  *http.Client
	rateLimiter *rate.Limiter

	token *Token
}

// NewClient creates a new client with the given configuration.
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit == 0 {
		config.RateLimit = 10.0
	}
	if config.RateBurst == 0 {
		config.RateBurst = 5
	}
	if config.UserAgent == "" {
		config.UserAgent = "hcm-sync/1.0"
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout:   config.Timeout,
			Transport: config.Transport,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(config.RateLimit), config.RateBurst),
	}
}

// Authenticate establishes the session up front. Call is lazy about it, but
// pipelines authenticate first so credential problems fail fast.
func (c *Client) Authenticate(ctx context.Context) error {
	tok, err := c.config.Tokens.Authenticate(ctx)
	if err != nil {
		return err
	}
	c.token = tok
	return nil
}

// Do executes a request, re-authenticating once on a 401.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if c.token == nil {
		if err := c.Authenticate(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.doOnce(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusUnauthorized {
		return c.checkStatus(resp)
	}

	// Credential rejected: refresh once and replay the original request.
	tok, err := c.config.Tokens.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	c.token = tok

	resp, err = c.doOnce(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusUnauthorized {
		// A second 401 after a fresh token is fatal, never another refresh.
		return nil, &APIError{
			StatusCode:    resp.StatusCode,
			TokenRejected: true,
			Body:          string(resp.Body),
		}
	}
	return c.checkStatus(resp)
}

// checkStatus converts unsuccessful responses into APIErrors.
func (c *Client) checkStatus(resp *Response) (*Response, error) {
	if resp.StatusCode < 400 {
		return resp, nil
	}
	if c.config.DecodeError != nil {
		if apiErr := c.config.DecodeError(resp.StatusCode, resp.Body); apiErr != nil {
			return nil, apiErr
		}
	}
	return nil, &APIError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(resp.Body)),
	}
}

// doOnce executes a single request attempt.
func (c *Client) doOnce(ctx context.Context, req *Request) (*Response, error) {
	fullURL := c.config.BaseURL
	if req.Path != "" {
		fullURL = strings.TrimSuffix(fullURL, "/") + "/" + strings.TrimPrefix(req.Path, "/")
	}
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var bodyReader io.Reader
	if req.JSONBody != nil {
		data, err := json.Marshal(req.JSONBody)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, fullURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("User-Agent", c.config.UserAgent)
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.JSONBody != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil {
		httpReq.Header.Set("Authorization", "Bearer "+c.token.AccessToken)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, &Request{
		Method:   http.MethodPost,
		Path:     path,
		JSONBody: body,
	})
}
