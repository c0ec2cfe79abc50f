// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/sections"
	"github.com/jeranaias/fiber/internal/storage"
)

// ComparisonResult is a parsed comparison plus how it was obtained.
type ComparisonResult struct {
	sections.Comparison

	// Text is the full generated text.
	Text string

	// Raw is true when the text could not be structured.
	Raw bool

	// Notices are non-fatal problems (early stream end, parse fallback).
	Notices []string
}

// Compare asks for a comparison of items and parses it into points. An
// unstructured answer falls back to a single raw point. A stream that
// breaks after producing text is kept with a notice.
func (a *App) Compare(ctx context.Context, items []string, hooks Hooks) (ComparisonResult, error) {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			cleaned = append(cleaned, it)
		}
	}
	if len(cleaned) < 2 {
		return ComparisonResult{}, ErrTooFewItems
	}

	text, err := a.stream(ctx, ComparisonPrompt(cleaned), ComparisonTargetWords, hooks)
	var notices []string
	if err != nil {
		if strings.TrimSpace(text) == "" {
			return ComparisonResult{}, err
		}
		a.logger.Warn("comparison stream ended early", zap.Error(err))
		notices = append(notices, "Stream ended early but continuing with received content")
	}
	if strings.TrimSpace(text) == "" {
		return ComparisonResult{}, ErrEmptyResponse
	}

	cmp, err := sections.ParseComparison(cleaned, text)
	if errors.Is(err, sections.ErrParseFailure) {
		notices = append(notices, "Structured parsing failed, displaying raw comparison")
		return ComparisonResult{
			Comparison: sections.RawComparison(cleaned, text),
			Text:       text,
			Raw:        true,
			Notices:    notices,
		}, nil
	}
	if err != nil {
		return ComparisonResult{}, err
	}
	return ComparisonResult{Comparison: cmp, Text: text, Notices: notices}, nil
}

// ExportComparison writes the comparison as markdown to
// <notes>/comparisons/comparison_<a>_vs_<b>_<timestamp>.md.
func (a *App) ExportComparison(ctx context.Context, res ComparisonResult) (*storage.DocumentRecord, error) {
	parts := make([]string, len(res.Items))
	for i, it := range res.Items {
		parts[i] = strings.ReplaceAll(it, " ", "_")
	}
	name := "comparison_" + strings.Join(parts, "_vs_") + "_" + a.now().Format("20060102_150405")

	path, err := a.notes("comparisons").Write(name, res.Markdown())
	if err != nil {
		return nil, err
	}
	return a.record(ctx, storage.DocumentRecord{
		Kind:  storage.KindComparison,
		Title: res.Title(),
		Path:  path,
		Words: len(strings.Fields(res.Text)),
	}), nil
}
