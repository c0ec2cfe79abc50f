// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server exposes the assistant to browsers over HTTP.
//
// # Endpoints
//
//   - POST /api/chat - {"message": "..."} answered as text/event-stream
//   - GET  /health   - backend status, model and rate limit
//
// Each event is a frame of the form data: {"text": "..."} and the stream
// always ends with data: [DONE]. A message whose first word is help,
// define, search, summarize, compare or brainstorm runs that command; any
// other message is chat.
//
// Problems found before the first frame are JSON errors of the form
// {"error": "..."}: 400 for a malformed message, 429 once a client has used
// its hourly budget and 500 when the model backend fails.
//
// # Usage
//
//	srv := server.NewServer(app, server.Options{Addr: cfg.Server.Addr(), Logger: logger}).
//		WithHealthChecker(client)
//	if err := srv.Run(ctx); err != nil {
//		return err
//	}
package server
