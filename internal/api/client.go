// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	// MaxResponseSize caps how much of a response body is read.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 10 * 1024 * 1024

	// RequestIDHeader carries a per-call id, echoed in failure logs.
	RequestIDHeader = "X-Request-ID"

	contentTypeJSON = "application/json"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Session is the part of the session store the gateway needs.
type Session interface {
	Token() string
	Clear() error
}

// Navigator redirects the user to the login entry point.
type Navigator interface {
	ToLogin()
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func()

// ToLogin calls f.
func (f NavigatorFunc) ToLogin() { f() }

// Doer is implemented by Client. Domain clients depend on it.
type Doer interface {
	Do(ctx context.Context, req Request, out any) error
	Upload(ctx context.Context, up Multipart, out any) error
}

// =============================================================================
// CLIENT
// =============================================================================

// Config configures the gateway.
type Config struct {
	// BaseURL is the REST root including /api, e.g. http://localhost:8080/api.
	BaseURL string

	// Timeout bounds each call. Zero relies on the transport default.
	Timeout time.Duration

	// RequestsPerSecond throttles calls. Zero disables throttling.
	RequestsPerSecond float64

	UserAgent string

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Request describes one JSON call.
type Request struct {
	// Method defaults to GET.
	Method string

	// Path is relative to the base URL and starts with '/'.
	Path string

	Query url.Values

	// Body is serialized as JSON when non-nil.
	Body any

	// Header entries override the defaults.
	Header http.Header
}

// Client is the API gateway.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	session   Session
	nav       Navigator
	log       *zap.Logger
}

// New returns a gateway. session and nav may be nil for unauthenticated
// tooling; logger may be nil.
func New(cfg Config, session Session, nav Navigator, logger *zap.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      hc,
		session:   session,
		nav:       nav,
		log:       logger,
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c
}

// BaseURL returns the configured REST root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs a JSON call and decodes a successful JSON body into out
// (which may be nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		data, err := json.Marshal(req.Body)
		if err != nil {
			return c.fail(method, req.Path, "", &Error{
				Kind:    KindValidation,
				Message: "could not encode request",
				Cause:   err,
			})
		}
		body = bytes.NewReader(data)
	}

	return c.send(ctx, method, req.Path, req.Query, body, contentTypeJSON, req.Header, out)
}

// Upload posts a multipart form. It skips JSON serialization but follows
// the same auth and status contract as Do.
func (c *Client) Upload(ctx context.Context, up Multipart, out any) error {
	body, contentType, err := up.encode()
	if err != nil {
		return c.fail(http.MethodPost, up.Path, "", &Error{
			Kind:    KindValidation,
			Message: "could not read upload",
			Cause:   err,
		})
	}
	return c.send(ctx, http.MethodPost, up.Path, nil, body, contentType, up.Header, out)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, override http.Header, out any) error {
	requestID := uuid.NewString()

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return c.fail(method, path, requestID, &Error{
			Kind:      KindTransport,
			Message:   "could not build request",
			RequestID: requestID,
			Cause:     err,
		})
	}
	c.setHeaders(httpReq, contentType, requestID, override)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(method, path, requestID, &Error{
				Kind:      KindTransport,
				Message:   "request cancelled",
				RequestID: requestID,
				Cause:     err,
			})
		}
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return c.fail(method, path, requestID, &Error{
			Kind:      KindTransport,
			Message:   fmt.Sprintf("network error: %v", err),
			RequestID: requestID,
			Cause:     err,
		})
	}
	defer resp.Body.Close()

	if err := c.handleResponse(resp, requestID, out); err != nil {
		return c.fail(method, path, requestID, err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, contentType, requestID string, override http.Header) {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(RequestIDHeader, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.session != nil {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for k, vs := range override {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
}

// handleResponse applies the status contract. The 401 short-circuit runs
// here, before any caller sees the error.
func (c *Client) handleResponse(resp *http.Response, requestID string, out any) *Error {
	if resp.StatusCode == http.StatusUnauthorized {
		c.expireSession()
		return &Error{
			Kind:      KindUnauthorized,
			Status:    http.StatusUnauthorized,
			Message:   ErrUnauthorized.Message,
			RequestID: requestID,
		}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return &Error{
			Kind:      KindTransport,
			Status:    resp.StatusCode,
			Message:   fmt.Sprintf("network error: %v", err),
			RequestID: requestID,
			Cause:     err,
		}
	}

	isJSON := isJSONContentType(resp.Header.Get("Content-Type"))
	ok := resp.StatusCode >= 200 && resp.StatusCode < 300

	if !ok {
		return &Error{
			Kind:      KindRequestFailed,
			Status:    resp.StatusCode,
			Message:   errorMessage(raw, isJSON, resp.StatusCode),
			RequestID: requestID,
		}
	}

	// Non-JSON success bodies (empty deletes, plain text confirmations) are
	// not decoded; out keeps its zero value.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if !isJSON {
		c.log.Debug("ignoring non-JSON response body",
			zap.String("request_id", requestID),
			zap.String("content_type", resp.Header.Get("Content-Type")),
			zap.Int("bytes", len(raw)))
		return nil
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{
			Kind:      KindDecode,
			Status:    resp.StatusCode,
			Message:   "unexpected response from server",
			RequestID: requestID,
			Cause:     err,
		}
	}
	return nil
}

// expireSession clears the session and sends the user to login.
func (c *Client) expireSession() {
	if c.session != nil {
		if err := c.session.Clear(); err != nil {
			c.log.Error("failed to clear expired session", zap.Error(err))
		}
	}
	if c.nav != nil {
		c.nav.ToLogin()
	}
}

// fail logs a failed call and returns err.
func (c *Client) fail(method, path, requestID string, err *Error) error {
	c.log.Warn("api request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", err.Status),
		zap.String("kind", err.Kind.String()),
		zap.String("request_id", requestID),
		zap.Error(err),
	)
	return err
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func isJSONContentType(header string) bool {
	if header == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.Contains(header, contentTypeJSON)
	}
	return mediaType == contentTypeJSON || strings.HasSuffix(mediaType, "+json")
}

// errorMessage extracts the server-supplied message. JSON bodies contribute
// their "error" or "message" field; any other body is taken as the error
// text itself.
func errorMessage(raw []byte, isJSON bool, status int) string {
	var msg string
	if isJSON {
		var payload struct {
			Error   any `json:"error"`
			Message any `json:"message"`
		}
		if json.Unmarshal(raw, &payload) == nil {
			msg = firstString(payload.Error, payload.Message)
		}
	} else {
		msg = strings.TrimSpace(string(raw))
	}
	if msg == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}
	return msg
}

func firstString(values ...any) string {
	for _, v := range values {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
