// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"time"

	"github.com/dustin/go-humanize"
)

// =============================================================================
// REQUEST TYPES
// =============================================================================

// GenerateRequest is the request body for the /api/generate endpoint.
// Timeout is not sent; it bounds a single non-streaming attempt and falls
// back to the client's configured timeout when zero.
type GenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Stream  bool          `json:"stream"`
	Timeout time.Duration `json:"-"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// GenerateResponse is one object from /api/generate. Non-streaming calls get a
// single one; streaming calls get one per line.
type GenerateResponse struct {
	Model         string `json:"model"`
	Response      string `json:"response"`
	Done          bool   `json:"done"`
	DoneReason    string `json:"done_reason,omitempty"`
	Error         string `json:"error,omitempty"`
	TotalDuration int64  `json:"total_duration,omitempty"` // nanoseconds
	EvalCount     int    `json:"eval_count,omitempty"`
}

// Fragment is an incremental piece of generated text. Fragments must be
// concatenated in receive order to reconstruct the full text.
type Fragment struct {
	Text string
	Done bool
}

// OllamaError represents an error body from the Ollama API.
type OllamaError struct {
	Error string `json:"error"`
}

// =============================================================================
// MODEL TYPES
// =============================================================================

// ModelInfo describes an installed model as reported by /api/tags.
type ModelInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	Digest string `json:"digest"`
}

// ListModelsResponse is the response from /api/tags endpoint.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// FormatSize formats the model size in human-readable form.
func (m *ModelInfo) FormatSize() string {
	return humanize.IBytes(uint64(m.Size))
}
