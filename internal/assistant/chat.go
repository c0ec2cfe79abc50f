// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"strings"

	"github.com/jeranaias/fiber/internal/ollama"
)

// Replies used in place of a model answer.
const (
	RateLimitedReply = "I'm currently rate limited. Please try again in a few minutes."
	EmptyReply       = "I couldn't generate a response. Please try again."
)

// Chat streams an answer to message. A rate-limit error from the backend
// and an empty answer become canned replies rather than errors.
func (a *App) Chat(ctx context.Context, message string, hooks Hooks) (string, error) {
	text, err := a.stream(ctx, ChatPrompt(message), 0, hooks)
	if err != nil {
		if ollama.IsRateLimited(err) {
			return RateLimitedReply, nil
		}
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return EmptyReply, nil
	}
	return text, nil
}
