// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/storage"
	"github.com/jeranaias/fiber/internal/tools"
)

// Summary is a summarized web page.
type Summary struct {
	Article tools.Article
	Text    string
}

// Summarize fetches url and asks the model to summarize its main text.
func (a *App) Summarize(ctx context.Context, url string) (Summary, error) {
	if a.deps.Articles == nil {
		return Summary{}, fmt.Errorf("summarize: %w", ErrUnavailable)
	}
	article, err := a.deps.Articles.Fetch(ctx, url)
	if err != nil {
		return Summary{}, err
	}

	text, err := a.deps.Generator.Generate(ctx, ollama.GenerateRequest{Prompt: tools.SummaryPrompt(article)})
	if err != nil {
		return Summary{}, fmt.Errorf("error creating summary: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Summary{}, fmt.Errorf("error creating summary: %w", ErrEmptyResponse)
	}
	return Summary{Article: article, Text: text}, nil
}

// SummarizeText streams a concise summary of text supplied directly.
func (a *App) SummarizeText(ctx context.Context, text string, hooks Hooks) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("no text to summarize")
	}
	out, err := a.stream(ctx, TextSummaryPrompt(text), 0, hooks)
	if err != nil {
		return "", err
	}
	if out = strings.TrimSpace(out); out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// SaveSummary writes s as a markdown note named after the article title.
func (a *App) SaveSummary(ctx context.Context, s Summary) (*storage.DocumentRecord, error) {
	doc := tools.SummaryDocument(s.Article.URL, s.Article.Title, s.Text, a.now())
	path, err := a.notes("").Write(s.Article.Title, doc)
	if err != nil {
		return nil, fmt.Errorf("error saving summary: %w", err)
	}
	title := s.Article.Title
	if title == "" {
		title = "Article Summary"
	}
	return a.record(ctx, storage.DocumentRecord{
		Kind:  storage.KindSummary,
		Title: title,
		Path:  path,
		Words: ollama.CountWords(s.Text),
	}), nil
}
