// Package api is the HTTP client for the marketplace service. It owns
// bearer-token injection, request IDs, client-side rate limiting, and the
// mapping of responses onto the error taxonomy. Reads are retried with
// backoff; mutations are issued exactly once so a flaky network can never
// double-book.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"fixly/internal/config"
	"fixly/internal/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const requestIDHeader = "X-Request-ID"

// TokenSource supplies the current bearer token; empty means anonymous.
type TokenSource interface {
	AccessToken() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	limiter *rate.Limiter
	retry   RetryPolicy
	logger  zerolog.Logger
}

func New(cfg config.APIConfig, tokens TokenSource, logger *zerolog.Logger) *Client {
	base := zerolog.Nop()
	if logger != nil {
		base = logger.With().Str("component", "api").Logger()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout()},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst),
		retry: RetryPolicy{
			MaxRetries:    cfg.Retry.MaxRetries,
			InitialDelay:  time.Duration(cfg.Retry.InitialDelayMS) * time.Millisecond,
			MaxDelay:      time.Duration(cfg.Retry.MaxDelayMS) * time.Millisecond,
			BackoffFactor: cfg.Retry.BackoffFactor,
		},
		logger: base,
	}
}

// get retries retryable server errors with backoff. Reads are safe to
// re-issue.
func (c *Client) get(ctx context.Context, path string, out interface{}, authed bool) error {
	var lastErr error
	for attempt := 0; attempt <= c.retry.MaxRetries; attempt++ {
		if attempt > 0 {
			timer := time.NewTimer(c.retry.NextDelay(attempt))
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
			}
		}

		lastErr = c.do(ctx, http.MethodGet, path, nil, out, authed)
		var se *ServerError
		if !errors.As(lastErr, &se) || !se.Retryable() {
			return lastErr
		}
	}
	return lastErr
}

// post and put go out exactly once; the caller decides whether to offer a
// retry affordance.
func (c *Client) post(ctx context.Context, path string, body, out interface{}, authed bool) error {
	return c.do(ctx, http.MethodPost, path, body, out, authed)
}

func (c *Client) put(ctx context.Context, path string, body, out interface{}, authed bool) error {
	return c.do(ctx, http.MethodPut, path, body, out, authed)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	token := c.tokens.AccessToken()
	if authed && token == "" {
		// No credential: fail before touching the network.
		return &AuthError{Reason: "no credential present"}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(requestIDHeader, requestID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("request_id", requestID).Str("method", method).Str("path", path).Msg("request failed")
		metrics.IncAPIRequest(path, "transport_error")
		return &ServerError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ServerError{StatusCode: resp.StatusCode, Message: "read response: " + err.Error()}
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")
	metrics.IncAPIRequest(path, outcome(resp.StatusCode))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(raw) == 0 {
			return nil
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	return errorFromResponse(resp.StatusCode, raw)
}

func outcome(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "ok"
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return "auth"
	case status == http.StatusBadRequest:
		return "validation"
	default:
		return "error"
	}
}

// errorFromResponse maps a non-2xx response onto the taxonomy. The server
// reports errors either as {"error": "..."} or as DRF-style field maps.
func errorFromResponse(status int, raw []byte) error {
	message := serverMessage(raw)

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		if message == "" {
			message = http.StatusText(status)
		}
		return &AuthError{Reason: message}
	case http.StatusBadRequest:
		ve := &ValidationError{Reason: message}
		var fields map[string][]string
		if err := json.Unmarshal(raw, &fields); err == nil {
			delete(fields, "error")
			if len(fields) > 0 {
				ve.Fields = fields
			}
		}
		if ve.Reason == "" && ve.Fields == nil {
			ve.Reason = "bad request"
		}
		return ve
	default:
		if message == "" {
			message = http.StatusText(status)
		}
		return &ServerError{StatusCode: status, Message: message}
	}
}

func serverMessage(raw []byte) string {
	var body struct {
		Error   string `json:"error"`
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	switch {
	case body.Error != "":
		return body.Error
	case body.Detail != "":
		return body.Detail
	default:
		return body.Message
	}
}
