// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/sections"
)

// Idea limits per brainstorm flavor.
const (
	DefaultIdeaCount  = 5
	CategoryIdeaCount = 3
)

// BrainstormResult holds generated ideas.
type BrainstormResult struct {
	Topic    string
	Category *Category

	Ideas []sections.Idea

	// Text is the full generated text, shown as-is when Ideas is empty.
	Text string
}

// Header is the line shown above the ideas.
func (r BrainstormResult) Header() string {
	if r.Category != nil {
		return fmt.Sprintf("%s Ideas for: %s", r.Category.Emoji, r.Topic)
	}
	return fmt.Sprintf("Ideas for %s:", r.Topic)
}

// Brainstorm generates ideas about topic. With no category it asks for a
// five-item numbered list; with a category it first checks the backend is
// up, then streams three ideas in that category's style.
func (a *App) Brainstorm(ctx context.Context, topic, category string, hooks Hooks) (BrainstormResult, error) {
	topic = strings.Trim(strings.TrimSpace(topic), `"'`)
	if topic == "" {
		return BrainstormResult{}, fmt.Errorf("no topic given")
	}

	if category == "" {
		text, err := a.deps.Generator.Generate(ctx, ollama.GenerateRequest{Prompt: BrainstormPrompt(topic)})
		if err != nil {
			return BrainstormResult{}, err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return BrainstormResult{}, ErrNoIdeas
		}
		return BrainstormResult{
			Topic: topic,
			Ideas: sections.ParseIdeas(text, DefaultIdeaCount),
			Text:  text,
		}, nil
	}

	if err := a.deps.Generator.CheckRunning(ctx); err != nil {
		return BrainstormResult{}, fmt.Errorf("%w: %w", ErrNotRunning, err)
	}

	cat := LookupCategory(category)
	text, err := a.stream(ctx, cat.Prompt(topic), 0, hooks)
	if err != nil {
		return BrainstormResult{}, err
	}
	ideas := sections.ParseIdeas(text, CategoryIdeaCount)
	if len(ideas) == 0 && strings.TrimSpace(text) == "" {
		return BrainstormResult{}, ErrNoIdeas
	}
	return BrainstormResult{Topic: topic, Category: &cat, Ideas: ideas, Text: text}, nil
}
