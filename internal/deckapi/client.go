// Package deckapi talks to the remote pitch deck service.
package deckapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kingrea/deckhand/internal/failure"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// DefaultTimeout bounds a single request when none is configured.
const DefaultTimeout = 60 * time.Second

const (
	maxErrorBody = 4 << 10
	maxJSONBody  = 16 << 20
	// DefaultMaxPDFSize caps a downloaded deck.
	DefaultMaxPDFSize = 256 << 20
)

// ErrResponseTooLarge is returned when a response body exceeds its cap.
var ErrResponseTooLarge = errors.New("deckapi: response too large")

// HTTPClient is the transport used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ServiceError is a non-success answer from the service.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("deckapi: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("deckapi: %s: %s", e.Op, e.Message)
}

// Client issues requests against one service base URL.
type Client struct {
	baseURL   *url.URL
	http      HTTPClient
	timeout   time.Duration
	logger    *zap.Logger
	requestID func() string
	maxPDF    int64
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient swaps the transport.
func WithHTTPClient(h HTTPClient) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout bounds every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger records one debug line per request.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxPDFSize caps the size of a downloaded deck.
func WithMaxPDFSize(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxPDF = n
		}
	}
}

// WithRequestIDs overrides request id generation.
func WithRequestIDs(fn func() string) Option {
	return func(c *Client) {
		if fn != nil {
			c.requestID = fn
		}
	}
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, errors.New("deckapi: base url is required")
	}
	parsed, err := url.Parse(strings.TrimRight(trimmed, "/"))
	if err != nil {
		return nil, fmt.Errorf("deckapi: parse base url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("deckapi: base url must be http or https, got %q", baseURL)
	}
	c := &Client{
		baseURL:   parsed,
		http:      &http.Client{},
		timeout:   DefaultTimeout,
		logger:    zap.NewNop(),
		requestID: uuid.NewString,
		maxPDF:    DefaultMaxPDFSize,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c, nil
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

type request struct {
	op          string
	path        string
	token       string
	auth        bool
	body        io.Reader
	contentType string
}

func jsonRequest(op, path, token string, auth bool, payload any) (request, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return request{}, fmt.Errorf("deckapi: %s: encode: %w", op, err)
	}
	return request{
		op:          op,
		path:        path,
		token:       token,
		auth:        auth,
		body:        bytes.NewReader(encoded),
		contentType: "application/json",
	}, nil
}

// do sends r and returns the body of a 2xx response. Authenticated requests
// without a token fail before any network activity.
func (c *Client) do(ctx context.Context, r request, limit int64) ([]byte, error) {
	if r.auth && strings.TrimSpace(r.token) == "" {
		return nil, fmt.Errorf("deckapi: %s: %w", r.op, failure.ErrMissingCredential)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL.JoinPath(r.path).String()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, r.body)
	if err != nil {
		return nil, fmt.Errorf("deckapi: %s: build request: %w", r.op, err)
	}
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.auth {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}
	id := c.requestID()
	req.Header.Set(RequestIDHeader, id)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("deckapi request failed", zap.String("op", r.op), zap.String("request_id", id), zap.Error(err))
		return nil, fmt.Errorf("deckapi: %s: %w", r.op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	c.logger.Debug("deckapi request",
		zap.String("op", r.op),
		zap.String("request_id", id),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(started)),
	)
	if err != nil {
		return nil, fmt.Errorf("deckapi: %s: read body: %w", r.op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ServiceError{Op: r.op, StatusCode: resp.StatusCode, Message: errorMessage(body, resp.Status)}
	}
	if int64(len(body)) > limit {
		return nil, fmt.Errorf("deckapi: %s: %w (over %d bytes)", r.op, ErrResponseTooLarge, limit)
	}
	return body, nil
}

func (c *Client) doJSON(ctx context.Context, r request, out any) error {
	body, err := c.do(ctx, r, maxJSONBody)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("deckapi: %s: decode response: %w", r.op, err)
	}
	return nil
}

func errorMessage(body []byte, fallback string) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	if text == "" {
		return fallback
	}
	return text
}
