// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across fiber.
//
// # Key Functions
//
//   - AtomicWriteFile: crash-safe file writing with fsync
//   - Truncate, PadRight: display-width aware string helpers
//   - SanitizeFilename: turns a title into a portable file name
//   - CollapseSpace: squeezes whitespace runs into single spaces
//
// # Usage
//
//	name := util.SanitizeFilename("Café: a history") + ".md"
//	err := util.AtomicWriteFile(filepath.Join(dir, name), data, 0644)
package util
