// Package network implements the AuthClient and CardClient ports against the
// remote card service's JSON API.
package network

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

	"github.com/ericfisherdev/cardclaim/internal/domain/model"
	"github.com/ericfisherdev/cardclaim/internal/domain/port/driven"
	"github.com/ericfisherdev/cardclaim/internal/retry"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.AuthClient = (*Client)(nil)
	_ driven.CardClient = (*Client)(nil)
)

// API paths relative to the base URL.
const (
	loginPath      = "/api/network3_login"
	cardsPath      = "/v1/cards"
	activationPath = "/auth/card/activation"
)

// DefaultUserAgent is the client identification header sent with every request.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/132.0.0.0 Safari/537.36"

// maxErrorBody bounds how much of a failed response body is kept on StatusError.
const maxErrorBody = 4 << 10

// Config holds the remote endpoint and the retry budgets per call class.
type Config struct {
	BaseURL         string
	UserAgent       string
	Timeout         time.Duration
	Retry           model.RetryPolicy
	ActivationRetry model.RetryPolicy
}

// Client talks to the card service. Every call goes through a retry.Caller.
type Client struct {
	http            *http.Client
	baseURL         *url.URL
	userAgent       string
	caller          *retry.Caller
	retry           model.RetryPolicy
	activationRetry model.RetryPolicy
}

// NewClient creates a Client with its own http.Client using cfg.Timeout.
func NewClient(cfg Config, caller *retry.Caller) (*Client, error) {
	return NewClientWithHTTPClient(&http.Client{Timeout: cfg.Timeout}, cfg, caller)
}

// NewClientWithHTTPClient creates a Client with a custom http.Client. Tests use
// it to point the client at an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, cfg Config, caller *retry.Caller) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", cfg.BaseURL)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Client{
		http:            httpClient,
		baseURL:         u,
		userAgent:       userAgent,
		caller:          caller,
		retry:           cfg.Retry,
		activationRetry: cfg.ActivationRetry,
	}, nil
}

// StatusError is returned for any non-2xx HTTP response.
type StatusError struct {
	Method string
	URL    string
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.URL, e.Status, e.Body)
}

// StatusCode exposes the HTTP status to the retry classifier.
func (e *StatusError) StatusCode() int { return e.Status }

// do sends one request and decodes a JSON response body into out.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	endpoint := c.baseURL.JoinPath(path).String()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling %s body: %w", path, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating %s request: %w", path, err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(token))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{
			Method: method,
			URL:    endpoint,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
