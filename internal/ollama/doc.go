// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ollama provides the HTTP client for the local Ollama generation API.
//
// It exposes one-shot and streaming generation against /api/generate, the
// retry policy for timeouts, and the Aggregator that turns a fragment stream
// into accumulated text plus throttled progress snapshots.
//
// # Key Types
//
//   - Client: HTTP client for Ollama API communication
//   - GenerateRequest: model, prompt and per-call timeout
//   - Stream: lazy, finite sequence of Fragments read from NDJSON lines
//   - Aggregator: concatenates fragments and reports ProgressSnapshots
//   - ClientError: typed failure (service unavailable, timeout, bad status...)
//
// # Usage
//
//	client := ollama.NewClient()
//	text, err := client.Generate(ctx, ollama.GenerateRequest{Prompt: "Hello"})
//
// For streaming responses:
//
//	stream, err := client.GenerateStream(ctx, ollama.GenerateRequest{Prompt: prompt})
//	if err != nil {
//	    return err
//	}
//	defer stream.Close()
//
//	agg := ollama.Aggregator{Target: 500, OnProgress: func(p ollama.ProgressSnapshot) {
//	    fmt.Print("\r", p)
//	}}
//	text, err := agg.Run(stream)
package ollama
