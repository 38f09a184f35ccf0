// Package client provides the HTTP client for the portfolio resource API.
// Every resource method accepts both bare and enveloped responses and reports
// network failures, non-2xx statuses and decode failures uniformly as errors.
package client

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

	"github.com/jonathan/portfolio/internal/intro"
	"github.com/jonathan/portfolio/internal/loader"
	"github.com/jonathan/portfolio/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 15 * time.Second

// DefaultUserAgent is the user agent string for API requests.
const DefaultUserAgent = "PortfolioClient/1.0"

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 4 << 20

// Options configures the client.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// Client talks to one portfolio API base URL.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	userAgent  string
	token      *TokenPair
}

// New creates a client for baseURL (for example "http://localhost:8080").
func New(baseURL string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: baseURL, Message: "invalid base URL", Cause: err}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}

	return &Client{baseURL: parsed, httpClient: httpClient, userAgent: ua}, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// PersonalInfo fetches GET /personal-info.
func (c *Client) PersonalInfo(ctx context.Context) (types.PersonalInfo, error) {
	return getJSON[types.PersonalInfo](ctx, c, "/personal-info")
}

// Projects fetches GET /projects.
func (c *Client) Projects(ctx context.Context) ([]types.Project, error) {
	return getJSON[[]types.Project](ctx, c, "/projects")
}

// Skills fetches GET /skills.
func (c *Client) Skills(ctx context.Context) ([]types.Skill, error) {
	return getJSON[[]types.Skill](ctx, c, "/skills")
}

// Certificates fetches GET /certificates.
func (c *Client) Certificates(ctx context.Context) ([]types.Certificate, error) {
	return getJSON[[]types.Certificate](ctx, c, "/certificates")
}

// IntroTimeline fetches GET /intro/timeline.
func (c *Client) IntroTimeline(ctx context.Context, reducedMotion bool) (intro.Timeline, error) {
	path := "/intro/timeline"
	if reducedMotion {
		path += "?reducedMotion=true"
	}
	return getJSON[intro.Timeline](ctx, c, path)
}

// SubmitContact posts a contact-form submission. It is not retried.
func (c *Client) SubmitContact(ctx context.Context, req types.ContactRequest) (*types.ContactReceipt, error) {
	body, err := c.do(ctx, http.MethodPost, "/contact", req)
	if err != nil {
		return nil, err
	}
	receipt, err := loader.Decode[types.ContactReceipt](body)
	if err != nil {
		return nil, err
	}
	return &receipt, nil
}

func getJSON[T any](ctx context.Context, c *Client, path string) (T, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		var zero T
		return zero, err
	}
	return loader.Decode[T](body)
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	target := c.endpoint(path)

	var reader io.Reader
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, &Error{URL: target, Message: "failed to encode request", Cause: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &Error{URL: target, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != nil && !c.token.Expired(time.Now()) {
		req.Header.Set("Authorization", "Bearer "+c.token.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &Error{URL: target, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Error{URL: target, Message: "failed to read response body", Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{URL: target, StatusCode: resp.StatusCode, Message: serverMessage(body)}
	}

	return body, nil
}

// serverMessage extracts the message of an error envelope, if the body is one.
func serverMessage(body []byte) string {
	var env struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.Error
}

// Error represents a transport-level failure talking to the API.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("request to %s failed: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("request to %s failed: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// StatusError is a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("HTTP status %d from %s: %s", e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("HTTP status %d from %s", e.StatusCode, e.URL)
}
