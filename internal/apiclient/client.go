// Package apiclient talks JSON to the school REST service.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/school-admin/internal"
	"github.com/frahmantamala/school-admin/internal/transport/redact"
)

const TraceHeader = "X-Trace-ID"

type Config struct {
	BaseURL string
	Timeout time.Duration
}

// TokenSource yields the bearer token for the next request. An empty token
// sends the request unauthenticated.
type TokenSource interface {
	AccessToken() string
}

type StaticToken string

func (t StaticToken) AccessToken() string {
	return string(t)
}

// API is the subset of Client the domain services need.
type API interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, in, out interface{}) error
	Put(ctx context.Context, path string, in, out interface{}) error
	Delete(ctx context.Context, path string, in, out interface{}) error
}

type Client struct {
	baseURL string
	timeout time.Duration
	http    *http.Client
	tokens  TokenSource
	logger  *slog.Logger
}

func NewClient(config Config, tokens TokenSource, logger *slog.Logger) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		timeout: timeout,
		http:    &http.Client{Timeout: timeout},
		tokens:  tokens,
		logger:  logger,
	}
}

// WithHTTPClient swaps the transport, mostly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	clone := *c
	clone.http = hc
	return &clone
}

func (c *Client) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, in, out)
}

// Delete accepts an optional body; the bulk group delete needs one.
func (c *Client) Delete(ctx context.Context, path string, in, out interface{}) error {
	return c.do(ctx, http.MethodDelete, path, in, out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var payload []byte
	if in != nil {
		var err error
		payload, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal %s %s request: %w", method, path, err)
		}
	}

	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	traceID := uuid.NewString()
	req.Header.Set(TraceHeader, traceID)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.AccessToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	c.logger.Debug("api request",
		"trace_id", traceID,
		"method", method,
		"path", path,
		"headers", redact.Headers(req.Header),
		"body", redact.Body(payload))

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("api request failed", "trace_id", traceID, "error", err)
		return internal.NewExternalError("No se pudo contactar al servidor", 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return internal.NewExternalError("No se pudo leer la respuesta del servidor", resp.StatusCode, err)
	}

	c.logger.Debug("api response",
		"trace_id", traceID,
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
		"body", redact.Body(body))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode, body)
	}

	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return internal.NewExternalError("Respuesta inválida del servidor", resp.StatusCode, err)
	}
	return nil
}

type errorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

type remoteError struct {
	Code    internal.ErrorCode         `json:"code"`
	Message string                     `json:"message"`
	Details *internal.ValidationErrors `json:"details"`
}

func decodeRemoteError(body []byte) (remoteError, bool) {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return remoteError{}, false
	}

	var re remoteError
	if len(env.Error) > 0 {
		if err := json.Unmarshal(env.Error, &re); err != nil && re.Message == "" {
			var msg string
			if json.Unmarshal(env.Error, &msg) == nil {
				re.Message = msg
			}
		}
	}
	if re.Message == "" {
		re.Message = env.Message
	}
	return re, re.Message != ""
}

// statusError maps a non-2xx answer onto the error taxonomy.
func statusError(status int, body []byte) error {
	re, ok := decodeRemoteError(body)
	message := re.Message
	if !ok {
		message = http.StatusText(status)
	}

	var appErr *internal.AppError
	switch status {
	case http.StatusUnauthorized:
		code := re.Code
		if code == "" {
			code = internal.ErrCodeInvalidToken
		}
		appErr = internal.NewUnauthorizedError(message, code)
	case http.StatusForbidden:
		appErr = internal.NewForbiddenError(message, re.Code)
	case http.StatusNotFound:
		appErr = internal.NewNotFoundError(message, internal.ErrCodeNotFound)
	case http.StatusConflict:
		code := re.Code
		if code == "" {
			code = internal.ErrCodeOverlap
		}
		appErr = internal.NewConflictError(message, code)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if re.Details != nil && len(re.Details.Errors) > 0 {
			appErr = internal.NewFieldErrors(re.Details.Errors...)
		} else {
			appErr = internal.NewValidationError(message, internal.ErrCodeValidationFailed)
		}
		appErr.StatusCode = status
	default:
		return internal.NewExternalError(message, status, nil)
	}
	return appErr
}

// Describe replaces the message of a remote failure with msg, the text the
// operator sees for that operation. Other errors pass through untouched.
func Describe(err error, msg string) error {
	if err == nil {
		return nil
	}
	appErr, ok := internal.IsAppError(err)
	if !ok || appErr.Type != internal.ErrorTypeExternal {
		return err
	}
	return internal.NewExternalError(msg, appErr.StatusCode, appErr)
}

// IsUnauthorized reports a rejected or missing session.
func IsUnauthorized(err error) bool {
	return internal.IsType(err, internal.ErrorTypeUnauthorized)
}

// IsRemote reports a network or server failure, the kind worth a retry prompt.
func IsRemote(err error) bool {
	var appErr *internal.AppError
	return errors.As(err, &appErr) && appErr.Type == internal.ErrorTypeExternal
}
