// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools contains the non-LLM helpers fiber calls on the user's
// behalf.
//
//   - Weather: current conditions from OpenWeatherMap (metric units)
//   - Clock: current time in an IANA zone or the local zone
//   - Dictionary: first definition from dictionaryapi.dev
//   - ArticleFetcher: downloads a page and extracts its readable text
//   - NoteWriter: writes markdown documents into the notes directory
//
// Each helper takes an *http.Client (or a directory) so tests can point it
// at an httptest server.
package tools
