// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package sections splits free-form generated text into labeled records.
//
// The parser is a single forward pass over lines driven by a small state
// machine (idle, in-record, in-keyword-field). Numbered lines such as
// "1. Performance" or "2) Idea Two" open a record; following lines become
// its body; "Similarities:" and "Differences:" lines fill keyed fields of
// the current record; "Summary:" and "Recommendation:" lines fill top-level
// fields.
//
// Builders on top of the parser produce Comparison and Idea values. When
// non-empty text yields no records, Parse returns ErrParseFailure and the
// caller decides how to fall back (see RawComparison).
package sections
