// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session persists what fiber remembers between runs.
//
// Three flat JSON files live under the state directory (~/.fiber):
//
//   - session.json: commands typed so far, a key-value context and the
//     path of the last document written
//   - preferences.json: theme, verbosity, max_history, default_path, date_format
//   - history/history_YYYYMMDD.json: the day's command log
//
// A Store is loaded once at startup and saved at the end of each command
// and on exit. All methods are safe for concurrent use.
package session
