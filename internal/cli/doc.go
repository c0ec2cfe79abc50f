// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the fiber command line.
//
// The root command loads ~/.fiber/config.toml, applies flag and environment
// overrides, opens the session and document index, and builds one
// assistant.App that every subcommand shares. Running fiber with no
// subcommand, or `fiber ask` with no question, starts the interactive
// session.
//
// # Commands
//
//   - ask: one question, or the interactive session
//   - chat, define, search, summarize, compare, brainstorm: single operations
//   - info, preferences, set_preference, notes: local state
//   - serve: the HTTP chat API, reloading config.toml while it runs
//   - version
//
// # Usage
//
//	os.Exit(cli.Execute(ctx))
//
// Errors are printed once by Run as a red "Error:" line followed, when the
// fix is known, by a hint such as "Start it with: ollama serve". Usage
// errors exit with code 2 and every other failure with code 1.
package cli
