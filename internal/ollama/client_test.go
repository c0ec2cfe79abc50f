// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:       url,
		Timeout:       100 * time.Millisecond,
		StreamTimeout: 100 * time.Millisecond,
		RetryDelay:    10 * time.Millisecond,
	})
}

// =============================================================================
// CONFIG TESTS
// =============================================================================

func TestNewClientWithConfig_FillsDefaults(t *testing.T) {
	c := NewClientWithConfig(&ClientConfig{BaseURL: "http://example:1234/"})

	if c.BaseURL() != "http://example:1234" {
		t.Errorf("BaseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
	if c.Model() != "mistral" {
		t.Errorf("Model = %q, want 'mistral'", c.Model())
	}
	if c.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", c.config.MaxAttempts)
	}
	if c.config.RetryDelay != 2*time.Second {
		t.Errorf("RetryDelay = %v, want 2s", c.config.RetryDelay)
	}
	if c.config.Timeout != 45*time.Second {
		t.Errorf("Timeout = %v, want 45s", c.config.Timeout)
	}
}

func TestClient_SetModel(t *testing.T) {
	c := NewClient()
	c.SetModel("llama3")
	if c.Model() != "llama3" {
		t.Errorf("Model = %q, want 'llama3'", c.Model())
	}
	c.SetModel("")
	if c.Model() != "llama3" {
		t.Errorf("empty SetModel changed model to %q", c.Model())
	}
}

// =============================================================================
// GENERATE TESTS
// =============================================================================

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("path = %q, want /api/generate", r.URL.Path)
		}
		var req GenerateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Stream {
			t.Error("stream = true, want false")
		}
		if req.Model != "mistral" {
			t.Errorf("model = %q, want 'mistral'", req.Model)
		}
		fmt.Fprintf(w, `{"model":"mistral","response":"echo: %s","done":true}`, req.Prompt)
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL).Generate(t.Context(), GenerateRequest{Prompt: "hi"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "echo: hi" {
		t.Errorf("text = %q, want 'echo: hi'", text)
	}
}

func TestGenerate_RetriesTimeouts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
			return
		}
		io.WriteString(w, `{"response":"finally","done":true}`)
	}))
	defer srv.Close()

	text, err := newTestClient(srv.URL).Generate(t.Context(), GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text != "finally" {
		t.Errorf("text = %q, want 'finally'", text)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerate_TimeoutExhausted(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(t.Context(), GenerateRequest{Prompt: "x"})
	if !IsTimeout(err) {
		t.Fatalf("err = %v, want timeout", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestGenerate_ConnectionRefusedFailsFast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c := newTestClient(url)
	c.config.RetryDelay = time.Second

	start := time.Now()
	_, err := c.Generate(t.Context(), GenerateRequest{Prompt: "x"})
	if !IsServiceUnavailable(err) {
		t.Fatalf("err = %v, want service unavailable", err)
	}
	if IsTimeout(err) {
		t.Error("connection refused classified as timeout")
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("took %v, connection refused should not be retried", elapsed)
	}
}

func TestGenerate_StatusErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		check      func(error) bool
		wantStatus int
	}{
		{"model not found", http.StatusNotFound, `{"error":"model 'x' not found"}`, IsModelNotFound, 404},
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, IsBadStatus, 500},
		{"plain body", http.StatusBadGateway, "bad gateway", IsBadStatus, 502},
		{"rate limited", http.StatusTooManyRequests, "", IsRateLimited, 429},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			_, err := newTestClient(srv.URL).Generate(t.Context(), GenerateRequest{Prompt: "x"})
			if !tc.check(err) {
				t.Errorf("err = %v, classification failed", err)
			}
			if StatusCode(err) != tc.wantStatus {
				t.Errorf("StatusCode = %d, want %d", StatusCode(err), tc.wantStatus)
			}
		})
	}
}

func TestGenerate_BadStatusUsesOllamaMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		io.WriteString(w, `{"error":"out of memory"}`)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Generate(t.Context(), GenerateRequest{Prompt: "x"})
	var ce *ClientError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want *ClientError", err)
	}
	if ce.Message != "out of memory" {
		t.Errorf("Message = %q, want 'out of memory'", ce.Message)
	}
}

// =============================================================================
// STREAM TESTS
// =============================================================================

func TestGenerateStream_Fragments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req GenerateRequest
		json.NewDecoder(r.Body).Decode(&req)
		if !req.Stream {
			t.Error("stream = false, want true")
		}
		io.WriteString(w, `{"response":"Hello"}`+"\n")
		io.WriteString(w, "not json\n")
		io.WriteString(w, `{"response":", world"}`+"\n")
		io.WriteString(w, `{"response":"","done":true}`+"\n")
	}))
	defer srv.Close()

	stream, err := newTestClient(srv.URL).GenerateStream(t.Context(), GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	defer stream.Close()

	text, err := (&Aggregator{Target: 10}).Run(stream)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if text != "Hello, world" {
		t.Errorf("text = %q, want 'Hello, world'", text)
	}
}

func TestGenerateStream_IgnoresUnusedFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"model":"mistral","created_at":"","response":"hello"}`+"\n")
		io.WriteString(w, `{"created_at":"yesterday","response":"","done":true}`+"\n")
	}))
	defer srv.Close()

	stream, err := newTestClient(srv.URL).GenerateStream(t.Context(), GenerateRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("GenerateStream failed: %v", err)
	}
	defer stream.Close()

	text, err := (&Aggregator{Target: 10}).Run(stream)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if text != "hello" {
		t.Errorf("text = %q, want 'hello'", text)
	}
}

func TestGenerateStream_ModelNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model not found"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GenerateStream(t.Context(), GenerateRequest{Prompt: "x", Model: "nope"})
	if !IsModelNotFound(err) {
		t.Errorf("err = %v, want model not found", err)
	}
}

// =============================================================================
// HEALTH TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("path = %q, want /api/tags", r.URL.Path)
		}
		io.WriteString(w, `{"models":[{"name":"mistral:latest","modified_at":"","size":4109865159}]}`)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if err := c.CheckRunning(t.Context()); err != nil {
		t.Fatalf("CheckRunning failed: %v", err)
	}

	models, err := c.ListModels(t.Context())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 1 || models[0].Name != "mistral:latest" {
		t.Fatalf("models = %+v", models)
	}
	if got := models[0].FormatSize(); got != "3.8 GiB" {
		t.Errorf("FormatSize = %q, want '3.8 GiB'", got)
	}
}

func TestCheckRunning_NotRunning(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	if err := newTestClient(url).CheckRunning(t.Context()); !IsServiceUnavailable(err) {
		t.Errorf("err = %v, want service unavailable", err)
	}
}

func TestIsRateLimited_BackendMessage(t *testing.T) {
	err := fmt.Errorf("chat: %w", &ClientError{Type: ErrTypeBackend, Message: "Rate limit exceeded for model"})
	if !IsRateLimited(err) {
		t.Error("IsRateLimited = false, want true")
	}
	if IsRateLimited(errors.New("rate limit exceeded")) {
		t.Error("IsRateLimited should require a *ClientError")
	}
}
