// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// =============================================================================
// ERROR TYPES
// =============================================================================

// ClientError represents an error from the Ollama client.
type ClientError struct {
	Type       ErrorType
	Message    string
	StatusCode int
	Cause      error
}

func (e *ClientError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *ClientError) Unwrap() error {
	return e.Cause
}

// ErrorType categorizes client errors for handling.
type ErrorType int

const (
	ErrTypeUnknown ErrorType = iota
	ErrTypeServiceUnavailable
	ErrTypeTimeout
	ErrTypeBadStatus
	ErrTypeModelNotFound
	ErrTypeInvalidResponse
	ErrTypeBackend
)

// Sentinel errors for easy checking.
var (
	ErrServiceUnavailable = &ClientError{Type: ErrTypeServiceUnavailable, Message: "Ollama is not running"}
	ErrTimeout            = &ClientError{Type: ErrTypeTimeout, Message: "request timed out"}
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the Ollama client.
type ClientConfig struct {
	// BaseURL is the Ollama API base URL (default: http://localhost:11434)
	BaseURL string

	// DefaultModel is used when a request names no model (default: "mistral")
	DefaultModel string

	// Timeout bounds one non-streaming attempt (default: 45s)
	Timeout time.Duration

	// StreamTimeout bounds the wait for response headers on streams (default: 30s)
	StreamTimeout time.Duration

	// MaxAttempts is the total number of tries on timeout (default: 3)
	MaxAttempts int

	// RetryDelay between attempts (default: 2s)
	RetryDelay time.Duration
}

const (
	defaultBaseURL       = "http://localhost:11434"
	defaultModel         = "mistral"
	defaultTimeout       = 45 * time.Second
	defaultStreamTimeout = 30 * time.Second
	defaultMaxAttempts   = 3
	defaultRetryDelay    = 2 * time.Second
)

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:       defaultBaseURL,
		DefaultModel:  defaultModel,
		Timeout:       defaultTimeout,
		StreamTimeout: defaultStreamTimeout,
		MaxAttempts:   defaultMaxAttempts,
		RetryDelay:    defaultRetryDelay,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the Ollama API.
//
// The Client is safe for concurrent use. The default model may be swapped
// at runtime with SetModel.
type Client struct {
	config       *ClientConfig
	httpClient   *http.Client
	streamClient *http.Client
	logger       *zap.Logger

	mu    sync.RWMutex
	model string
}

// NewClient creates a new Ollama client with default configuration.
func NewClient() *Client {
	return NewClientWithConfig(DefaultConfig())
}

// NewClientWithConfig creates a new Ollama client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = defaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.DefaultModel == "" {
		config.DefaultModel = defaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.StreamTimeout == 0 {
		config.StreamTimeout = defaultStreamTimeout
	}
	if config.MaxAttempts == 0 {
		config.MaxAttempts = defaultMaxAttempts
	}
	if config.RetryDelay == 0 {
		config.RetryDelay = defaultRetryDelay
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = config.StreamTimeout

	return &Client{
		config:       config,
		httpClient:   &http.Client{},
		streamClient: &http.Client{Transport: transport},
		logger:       zap.NewNop(),
		model:        config.DefaultModel,
	}
}

// WithLogger sets the logger used for retry and stream diagnostics.
func (c *Client) WithLogger(logger *zap.Logger) *Client {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Model returns the current default model.
func (c *Client) Model() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel updates the default model.
func (c *Client) SetModel(model string) {
	if model == "" {
		return
	}
	c.mu.Lock()
	c.model = model
	c.mu.Unlock()
}

// BaseURL returns the configured API base URL.
func (c *Client) BaseURL() string {
	return c.config.BaseURL
}

// =============================================================================
// HEALTH CHECK
// =============================================================================

// CheckRunning verifies that Ollama is reachable by listing installed models.
func (c *Client) CheckRunning(ctx context.Context) error {
	_, err := c.ListModels(ctx)
	return err
}

// ListModels retrieves all installed models from Ollama.
func (c *Client) ListModels(ctx context.Context) ([]ModelInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeServiceUnavailable, Message: "failed to create request", Cause: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, "", "failed to list models")
	}

	var result ListModelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}

	return result.Models, nil
}

// =============================================================================
// GENERATION
// =============================================================================

// Generate sends a non-streaming generation request and returns the full
// response text. Timeouts are retried up to MaxAttempts with RetryDelay
// between attempts; every other failure is returned immediately.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	req = c.prepare(req, false)

	var text string
	err := c.withRetry(ctx, func() error {
		var err error
		text, err = c.generateOnce(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}
	return text, nil
}

func (c *Client) generateOnce(ctx context.Context, req GenerateRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, req.Timeout)
	defer cancel()

	resp, err := c.post(ctx, c.httpClient, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		if ctx.Err() != nil {
			return "", classifyTransportError(err)
		}
		return "", &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode response", Cause: err}
	}
	if result.Error != "" {
		return "", &ClientError{Type: ErrTypeBackend, Message: result.Error}
	}

	return result.Response, nil
}

// GenerateStream sends a streaming generation request and returns a Stream
// of fragments. Establishing the stream follows the same retry policy as
// Generate; once headers arrive, the stream is bounded only by ctx.
// The caller must Close the returned stream.
func (c *Client) GenerateStream(ctx context.Context, req GenerateRequest) (*Stream, error) {
	req = c.prepare(req, true)

	var resp *http.Response
	err := c.withRetry(ctx, func() error {
		var err error
		resp, err = c.post(ctx, c.streamClient, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return newStream(resp.Body, c.logger), nil
}

// prepare fills the model and timeout defaults.
func (c *Client) prepare(req GenerateRequest, stream bool) GenerateRequest {
	if req.Model == "" {
		req.Model = c.Model()
	}
	if req.Timeout <= 0 {
		req.Timeout = c.config.Timeout
	}
	req.Stream = stream
	return req
}

// post issues the generate call and checks the status code. On success the
// caller owns resp.Body.
func (c *Client) post(ctx context.Context, hc *http.Client, req GenerateRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", Cause: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &ClientError{Type: ErrTypeServiceUnavailable, Message: "failed to create request", Cause: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := hc.Do(httpReq)
	if err != nil {
		return nil, classifyTransportError(err)
	}

	if resp.StatusCode != http.StatusOK {
		defer drainAndClose(resp.Body)
		return nil, statusError(resp, req.Model, "generate request failed")
	}

	return resp, nil
}

// withRetry runs fn until it succeeds, fails with a non-timeout error,
// the context ends or the attempt budget is spent.
func (c *Client) withRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !IsTimeout(lastErr) || ctx.Err() != nil || attempt == c.config.MaxAttempts {
			break
		}

		c.logger.Debug("generation timed out, retrying",
			zap.Int("attempt", attempt),
			zap.Duration("delay", c.config.RetryDelay),
			zap.Error(lastErr))

		timer := time.NewTimer(c.config.RetryDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return lastErr
		case <-timer.C:
		}
	}
	return lastErr
}

// =============================================================================
// ERROR CLASSIFICATION
// =============================================================================

// classifyTransportError separates timeouts (retryable) from everything else
// that prevents reaching the service (connection refused, DNS, reset).
func classifyTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request timed out", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &ClientError{Type: ErrTypeTimeout, Message: "request cancelled", Cause: err}
	}
	return &ClientError{Type: ErrTypeServiceUnavailable, Message: "Ollama is not running", Cause: err}
}

// statusError builds the error for a non-200 response, preferring the
// message from an Ollama {"error": ...} body.
func statusError(resp *http.Response, model, fallback string) error {
	var ollamaErr OllamaError
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	_ = json.Unmarshal(data, &ollamaErr)

	if resp.StatusCode == http.StatusNotFound && model != "" {
		return &ClientError{
			Type:       ErrTypeModelNotFound,
			Message:    fmt.Sprintf("model '%s' not found", model),
			StatusCode: resp.StatusCode,
		}
	}

	msg := fallback + ": " + resp.Status
	if ollamaErr.Error != "" {
		msg = ollamaErr.Error
	}
	return &ClientError{Type: ErrTypeBadStatus, Message: msg, StatusCode: resp.StatusCode}
}

func hasType(err error, t ErrorType) bool {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.Type == t
	}
	return false
}

// IsServiceUnavailable checks if an error indicates Ollama is not reachable.
func IsServiceUnavailable(err error) bool {
	return hasType(err, ErrTypeServiceUnavailable)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return hasType(err, ErrTypeTimeout)
}

// IsBadStatus checks if an error is a non-200 response.
func IsBadStatus(err error) bool {
	return hasType(err, ErrTypeBadStatus)
}

// IsModelNotFound checks if an error is a model not found error.
func IsModelNotFound(err error) bool {
	return hasType(err, ErrTypeModelNotFound)
}

// IsRateLimited reports whether the backend refused the request because of
// a rate limit.
func IsRateLimited(err error) bool {
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	if clientErr.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return strings.Contains(strings.ToLower(clientErr.Message), "rate limit exceeded")
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		return clientErr.StatusCode
	}
	return 0
}

// Helper to drain response body
func drainAndClose(r io.ReadCloser) {
	io.Copy(io.Discard, r)
	r.Close()
}
