// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package ui renders fiber's terminal output.
//
// A Printer owns the output writer and a lipgloss renderer bound to it, so
// color decisions follow the writer rather than global state. On top of it
// the package provides:
//
//   - Markdown: glamour rendering of generated text and help
//   - ProgressLine: a bubbles progress bar redrawn in place while a document streams
//   - RunSpinner: a bubbletea spinner shown while a blocking call runs
//   - Table: a box table whose columns are measured with go-runewidth
//
// Renderers for each command's result (comparison, ideas, search results,
// system info) live in render.go.
package ui
