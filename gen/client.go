// Package gen implements the generation client for inferkit.
//
// A Client issues one HTTP POST per generate call against a server's
// generate endpoint and exposes two response modes: Generate buffers the
// whole response and returns the text; Stream decodes the response body
// incrementally as newline-delimited JSON and delivers fragments over a
// channel as they arrive.
//
// Clients perform no internal parallelism and no retries: each call owns
// one HTTP exchange exclusively, and every failure surfaces to the
// immediate caller as a structured error.
package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/inferkit/inferkit/config"
)

// Client issues generate calls against one inference server.
// Safe for concurrent use: the configuration is immutable and each call
// owns its own HTTP exchange and decoder state.
type Client struct {
	cfg    config.Config
	http   *http.Client
	log    *slog.Logger
	onDrop func(line string)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
// The client's Timeout is ignored; timeouts come from the configuration
// for buffered calls and from context cancellation for streaming calls.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithDropHandler installs a callback invoked with each stream line that
// was discarded as unparseable. Lets callers distinguish chunk-boundary
// noise from genuine corruption without changing the default lenient-drop
// behavior.
func WithDropHandler(fn func(line string)) Option {
	return func(c *Client) { c.onDrop = fn }
}

// NewClient creates a client from a resolved configuration.
func NewClient(cfg config.Config, opts ...Option) *Client {
	// http.Client.Timeout covers the whole request lifetime including
	// reading the body, which would cut streams short. Instead the
	// configured timeout bounds connection and first byte here, and
	// buffered calls additionally bound themselves via context.
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	c := &Client{
		cfg:  cfg,
		http: &http.Client{Transport: transport},
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Generate issues a buffered generate call and returns the full response
// text once generation completes.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return c.generate(ctx, req, nil)
}

func (c *Client) generate(ctx context.Context, req GenerateRequest, format json.RawMessage) (string, error) {
	if err := req.Validate(); err != nil {
		return "", NewError("generate", err, false)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	resp, err := c.post(ctx, req.wire(false, format))
	if err != nil {
		return "", NewError("generate", err, errors.Is(err, context.DeadlineExceeded))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewError("generate", fmt.Errorf("read response: %w", err), false)
	}

	if err := checkStatus(resp.StatusCode, body); err != nil {
		return "", NewError("generate", err, retryableStatus(resp.StatusCode))
	}

	text, err := decodeBuffered(body)
	if err != nil {
		return "", NewError("generate", err, false)
	}
	return text, nil
}

// post builds and issues the HTTP request. A nil response error is wrapped
// as ErrNoResponse: connection refused, DNS failure, or timeout.
func (c *Client) post(ctx context.Context, wire wireRequest) (*http.Response, error) {
	body, err := json.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range c.cfg.DefaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoResponse, err)
	}
	return resp, nil
}

// checkStatus treats any status outside [200,300) as a transport failure.
func checkStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	return &StatusError{StatusCode: status, Body: truncateBody(body)}
}

// decodeBuffered accepts exactly two response shapes: a JSON object with a
// string response field, or a bare JSON string. Anything else fails with
// ErrUnexpectedFormat rather than widening acceptance.
func decodeBuffered(body []byte) (string, error) {
	var obj struct {
		Response *string `json:"response"`
	}
	if err := json.Unmarshal(body, &obj); err == nil && obj.Response != nil {
		return *obj.Response, nil
	}

	// The pointer distinguishes an actual JSON string from a null body,
	// which unmarshals into a plain string as a silent no-op.
	var bare *string
	if err := json.Unmarshal(body, &bare); err == nil && bare != nil {
		return *bare, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnexpectedFormat, truncateBody(body))
}
