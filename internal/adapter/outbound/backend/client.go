// Package backend is the console's only path to the marketplace backend API.
//
// Every call goes through Client.Do, which attaches the bearer token from the
// session store, merges headers over a JSON default, makes exactly one
// attempt, clears the session on HTTP 401 and unwraps the {code, message,
// data} envelope.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/snapbook/opsconsole/internal/ctxkey"
	"github.com/snapbook/opsconsole/internal/domain/session"
)

// DefaultPrefix is the fixed path prefix for every backend endpoint.
const DefaultPrefix = "/api/v1"

const tracerName = "github.com/snapbook/opsconsole/internal/adapter/outbound/backend"

// TokenStore is the part of the session store the pipeline needs.
type TokenStore interface {
	Token(ctx context.Context) (string, bool)
	Clear(ctx context.Context) error
}

// Outcome labels used for metrics and logs.
const (
	OutcomeOK            = "ok"
	OutcomeUnauthorized  = "unauthorized"
	OutcomeRequestFailed = "request_failed"
	OutcomeTransport     = "transport"
)

// Client performs requests against the backend API.
type Client struct {
	baseURL    string
	prefix     string
	httpClient *http.Client
	store      TokenStore
	logger     *slog.Logger
	metrics    *Metrics
	tracer     trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithPrefix overrides the API path prefix.
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = "/" + strings.Trim(prefix, "/")
		if c.prefix == "/" {
			c.prefix = ""
		}
	}
}

// WithHTTPClient sets the underlying HTTP client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the overall per-request deadline of the default HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if c.httpClient != nil {
			c.httpClient.Timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Client for baseURL (scheme and host, no prefix).
func NewClient(baseURL string, store TokenStore, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		prefix:  DefaultPrefix,
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		store:  store,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RequestOption adjusts a single request.
type RequestOption func(http.Header)

// WithHeader sets a header on the request, overriding the defaults.
func WithHeader(key, value string) RequestOption {
	return func(h http.Header) { h.Set(key, value) }
}

// Get issues a GET request and decodes data into out.
func (c *Client) Get(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodGet, path, nil, out, opts...)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPost, path, body, out, opts...)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodPut, path, body, out, opts...)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string, out any, opts ...RequestOption) error {
	return c.Do(ctx, http.MethodDelete, path, nil, out, opts...)
}

// Request is Do with a typed result.
func Request[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	err := c.Do(ctx, method, path, body, &out, opts...)
	return out, err
}

// Do performs one request. On success the envelope's data is decoded into out
// (out may be nil; absent or null data leaves out unchanged).
//
// Errors are one of ErrUnauthorized, *RequestFailedError or *TransportError;
// failures to build the request are returned as plain errors.
func (c *Client) Do(ctx context.Context, method, path string, body, out any, opts ...RequestOption) (err error) {
	ctx, span := c.tracer.Start(ctx, "backend "+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("backend.path", stripQuery(path)),
		))
	start := time.Now()
	outcome := OutcomeOK
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.SetAttributes(attribute.String("backend.outcome", outcome))
		span.End()
		if c.metrics != nil {
			c.metrics.observe(method, outcome, time.Since(start))
		}
	}()

	req, err := c.newRequest(ctx, method, path, body, opts)
	if err != nil {
		outcome = OutcomeRequestFailed
		return err
	}

	token, hasToken := c.store.Token(ctx)
	if hasToken {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger := c.loggerFor(ctx).With(
		"method", method,
		"path", stripQuery(path),
		"token", session.Fingerprint(token),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		outcome = OutcomeTransport
		logger.Warn("backend request failed", "error", err)
		return &TransportError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		outcome = OutcomeUnauthorized
		_, _ = io.Copy(io.Discard, resp.Body)
		// The caller may already be gone; the session must still go.
		if clearErr := c.store.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			logger.Warn("failed to clear session after 401", "error", clearErr)
		}
		if c.metrics != nil {
			c.metrics.SessionInvalidations.Inc()
		}
		logger.Info("backend rejected session, cleared")
		return ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		outcome = OutcomeTransport
		return &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	var env rawEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		outcome = OutcomeRequestFailed
		logger.Warn("backend returned a non-envelope body", "status", resp.StatusCode, "error", err)
		return &RequestFailedError{Message: fallbackMessage, Status: resp.StatusCode}
	}

	if env.Code != 0 {
		outcome = OutcomeRequestFailed
		msg := env.Message
		if msg == "" {
			msg = fallbackMessage
		}
		logger.Debug("backend reported failure", "status", resp.StatusCode, "code", env.Code, "message", msg)
		return &RequestFailedError{Code: env.Code, Message: msg, Status: resp.StatusCode}
	}

	if out != nil && len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, out); err != nil {
			outcome = OutcomeRequestFailed
			logger.Warn("backend data did not match the expected shape", "error", err)
			return &RequestFailedError{Message: fallbackMessage, Status: resp.StatusCode}
		}
	}

	logger.Debug("backend request ok", "status", resp.StatusCode, "duration", time.Since(start))
	return nil
}

// newRequest builds the HTTP request with merged headers.
func (c *Client) newRequest(ctx context.Context, method, path string, body any, opts []RequestOption) (*http.Request, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	requestID, _ := ctx.Value(ctxkey.RequestIDKey{}).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}
	req.Header.Set("X-Request-ID", requestID)

	for _, opt := range opts {
		opt(req.Header)
	}
	return req, nil
}

// URL returns the absolute URL for an API path.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + c.prefix + path
}

func (c *Client) loggerFor(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxkey.LoggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return c.logger
}

func stripQuery(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		return path[:i]
	}
	return path
}
