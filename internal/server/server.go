// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/assistant"
	"github.com/jeranaias/fiber/internal/search"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr matches the browser client's default of localhost:3000.
	DefaultAddr = "127.0.0.1:3000"

	// MaxRequestBodySize caps the POST body.
	MaxRequestBodySize = 1 * 1024 * 1024

	// MaxMessageLength caps the message, in bytes.
	MaxMessageLength = 100000

	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 10 * time.Minute
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second

	healthCheckTimeout = 2 * time.Second
)

// ============================================================================
// DEPENDENCIES
// ============================================================================

// Assistant is the set of operations the chat endpoint dispatches to.
// *assistant.App satisfies it.
type Assistant interface {
	Model() string
	Chat(ctx context.Context, message string, hooks assistant.Hooks) (string, error)
	Define(ctx context.Context, word string) (string, error)
	Search(ctx context.Context, query string) (*search.Response, error)
	Summarize(ctx context.Context, url string) (assistant.Summary, error)
	SummarizeText(ctx context.Context, text string, hooks assistant.Hooks) (string, error)
	Compare(ctx context.Context, items []string, hooks assistant.Hooks) (assistant.ComparisonResult, error)
	Brainstorm(ctx context.Context, topic, category string, hooks assistant.Hooks) (assistant.BrainstormResult, error)
}

// HealthChecker reports whether the model backend is reachable.
type HealthChecker interface {
	CheckRunning(ctx context.Context) error
}

// Options configure a Server. Zero values take the defaults above.
type Options struct {
	Addr             string
	RateLimitPerHour int
	ReadTimeout      time.Duration
	WriteTimeout     time.Duration
	ShutdownTimeout  time.Duration
	Version          string
	Logger           *zap.Logger
}

// ============================================================================
// SERVER
// ============================================================================

// Server serves the streaming chat API.
type Server struct {
	app     Assistant
	checker HealthChecker
	opts    Options
	logger  *zap.Logger
	limiter *RateLimiter
	cors    *CORSConfig
	mux     *http.ServeMux
	started time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewServer creates a Server around app.
func NewServer(app Assistant, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = DefaultShutdownTimeout
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		app:     app,
		opts:    opts,
		logger:  logger.Named("server"),
		limiter: NewRateLimiter(opts.RateLimitPerHour),
		cors:    DefaultCORSConfig(),
		mux:     http.NewServeMux(),
		started: time.Now(),
	}
	s.setupRoutes()
	return s
}

// WithHealthChecker sets the backend probed by GET /health.
func (s *Server) WithHealthChecker(c HealthChecker) *Server {
	s.checker = c
	return s
}

// WithRateLimiter replaces the rate limiter.
func (s *Server) WithRateLimiter(rl *RateLimiter) *Server {
	s.limiter = rl
	s.mux = http.NewServeMux()
	s.setupRoutes()
	return s
}

// WithCORS replaces the CORS policy.
func (s *Server) WithCORS(c *CORSConfig) *Server {
	s.cors = c
	return s
}

// SetRateLimit changes the per-client hourly budget while serving.
func (s *Server) SetRateLimit(perHour int) {
	s.limiter.SetLimit(perHour)
}

// RateLimit returns the per-client hourly budget.
func (s *Server) RateLimit() int {
	return s.limiter.Limit()
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	chat := RateLimitMiddleware(s.limiter, s.logger)(http.HandlerFunc(s.handleChat))
	s.mux.Handle("POST /api/chat", chat)
	s.mux.HandleFunc("GET /health", s.handleHealth)
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	return Chain(
		RecoveryMiddleware(s.logger),
		RequestIDMiddleware(),
		SecurityHeadersMiddleware(),
		CORSMiddleware(s.cors),
		LoggingMiddleware(s.logger),
	)(s.mux)
}

// ============================================================================
// CHAT HANDLER
// ============================================================================

// ChatRequest is the POST /api/chat body.
type ChatRequest struct {
	Message string `json:"message"`
}

// handleChat handles POST /api/chat. Failures before the first event are
// JSON errors; failures after it are sent as a final text event.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxRequestBodySize)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if len(message) > MaxMessageLength {
		writeError(w, http.StatusRequestEntityTooLarge, "Message is too long")
		return
	}

	events := newEventStream(w)
	err := s.dispatch(r.Context(), message, events)
	if err == nil {
		events.Done()
		return
	}

	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr) && !events.Started():
		writeError(w, http.StatusBadRequest, reqErr.msg)
	case events.Started():
		s.logger.Warn("command failed mid-stream",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		events.Send(describeError(err, s.app.Model()) + "\n")
		events.Done()
	default:
		s.logger.Error("chat request failed",
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err))
		writeError(w, http.StatusInternalServerError, describeError(err, s.app.Model()))
	}
}

// ============================================================================
// HEALTH HANDLER
// ============================================================================

// HealthResponse is the GET /health body.
type HealthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	Model            string `json:"model"`
	OllamaStatus     string `json:"ollama_status"`
	RateLimitPerHour int    `json:"rate_limit_per_hour"`
	Uptime           string `json:"uptime"`
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthResponse{
		Status:           "ok",
		Version:          s.opts.Version,
		Model:            s.app.Model(),
		OllamaStatus:     "not_configured",
		RateLimitPerHour: s.limiter.Limit(),
		Uptime:           time.Since(s.started).Round(time.Second).String(),
	}

	if s.checker != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := s.checker.CheckRunning(ctx); err == nil {
			health.OllamaStatus = "ok"
		} else {
			health.OllamaStatus = "unavailable"
			health.Status = "degraded"
		}
	}

	writeJSON(w, http.StatusOK, health)
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Listen binds the configured address. Addr reports the bound address
// afterwards, which matters when the port is 0.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.listener = ln
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
		IdleTimeout:  DefaultIdleTimeout,
		ErrorLog:     zap.NewStdLog(s.logger),
	}
	s.mu.Unlock()
	return nil
}

// Addr returns the listening address, or the configured one before Listen.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Serve accepts connections until Shutdown. Listen must have succeeded.
// A clean shutdown returns nil.
func (s *Server) Serve() error {
	s.mu.Lock()
	srv, ln := s.server, s.listener
	s.mu.Unlock()
	if srv == nil {
		return errors.New("server: Listen has not been called")
	}

	s.logger.Info("server started", zap.String("addr", ln.Addr().String()), zap.String("version", s.opts.Version))
	if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	s.logger.Info("server shutting down")
	return srv.Shutdown(ctx)
}

// Run listens, serves, and shuts down gracefully when ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.mu.Lock()
	listening := s.listener != nil
	s.mu.Unlock()
	if !listening {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.Serve() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

// ============================================================================
// HELPERS
// ============================================================================

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every JSON error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes {"error": message}.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
