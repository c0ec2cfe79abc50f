// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/tools"
)

// DefineTimeout bounds the model fallback.
const DefineTimeout = 30 * time.Second

// Define returns a one-line definition of word, preferring the dictionary
// and falling back to the language model.
func (a *App) Define(ctx context.Context, word string) (string, error) {
	word = strings.ToLower(strings.TrimSpace(word))
	if word == "" {
		return "", tools.ErrNoDefinition
	}

	if a.deps.Dictionary != nil {
		def, err := a.deps.Dictionary.Lookup(ctx, word)
		if err == nil {
			return def, nil
		}
		a.logger.Debug("dictionary lookup failed, asking the model", zap.String("word", word), zap.Error(err))
	}

	text, err := a.deps.Generator.Generate(ctx, ollama.GenerateRequest{
		Prompt:  DefinePrompt(word),
		Timeout: DefineTimeout,
	})
	if err != nil {
		return "", fmt.Errorf("could not find definition for '%s': %w", word, errors.Join(tools.ErrNoDefinition, err))
	}
	def := tools.CleanDefinition(text)
	if def == "" {
		return "", fmt.Errorf("could not find definition for '%s': %w", word, tools.ErrNoDefinition)
	}
	return def, nil
}
