// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// info.go - Local state commands: info, preferences, set_preference and notes.

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/detect"
	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/session"
	"github.com/jeranaias/fiber/internal/storage"
)

// DefaultNotesLimit is how many documents `fiber notes` lists.
const DefaultNotesLimit = 20

// =============================================================================
// INFO
// =============================================================================

func newInfoCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Display system and session information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.info(cmd.Context())
		},
	}
}

func (rt *runtime) info(ctx context.Context) error {
	var (
		found     []detect.ToolVersion
		models    []ollama.ModelInfo
		modelsErr error
	)
	err := rt.printer.RunSpinner(ctx, "Checking installed tools", func(ctx context.Context) error {
		found = rt.detector.Tools(ctx)
		models, modelsErr = rt.client.ListModels(ctx)
		return nil
	})
	if err != nil {
		return err
	}
	if modelsErr != nil {
		rt.logger.Debug("could not list models", zap.Error(modelsErr))
	}
	rt.printer.SystemInfo(detect.CollectSystemInfo(rt.now()), rt.store.Summary(), found)
	rt.printer.Models(models, modelsErr)
	return nil
}

// =============================================================================
// PREFERENCES
// =============================================================================

func newPreferencesCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "preferences",
		Short: "Show current user preferences",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			rt.printer.Preferences(rt.store.Preferences())
		},
	}
}

func newSetPreferenceCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "set_preference <key> <value>",
		Aliases: []string{"set-preference"},
		Short:   "Set a user preference",
		Long:    "Keys: " + strings.Join(session.Keys(), ", "),
		Example: `  fiber set_preference default_path ~/Documents/notes
  fiber set_preference date_format "%d/%m/%Y %H:%M"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.setPreference(args[0], args[1])
		},
	}
}

func (rt *runtime) setPreference(key, value string) error {
	err := rt.store.SetPreference(key, value)
	if errors.Is(err, session.ErrUnknownPreference) {
		rt.printer.Error("Unknown preference: " + key)
		return nil
	}
	if err != nil {
		return &ValidationError{Field: key, Value: value, Reason: err.Error()}
	}
	rt.printer.Success(fmt.Sprintf("Preference %s set to: %s", key, value))
	return nil
}

// =============================================================================
// NOTES
// =============================================================================

func newNotesCommand(rt *runtime) *cobra.Command {
	var (
		limit int
		kinds []string
	)
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "List documents written so far",
		Long: `Lists notes, saved summaries and comparison exports, newest first.
Entries whose file has been deleted are dropped with --prune.`,
		Example: `  fiber notes
  fiber notes --kind comparison --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prune, _ := cmd.Flags().GetBool("prune")
			return rt.notes(cmd.Context(), limit, kinds, prune)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultNotesLimit, "maximum number of documents")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "only these kinds: note, summary, comparison")
	cmd.Flags().Bool("prune", false, "forget documents whose file no longer exists")
	return cmd
}

func (rt *runtime) notes(ctx context.Context, limit int, kinds []string, prune bool) error {
	if rt.index == nil {
		return NewCommandError("notes", "list", "the document index could not be opened", nil)
	}
	if limit < 1 {
		return ErrInvalidValue("limit", fmt.Sprint(limit), "a positive number")
	}

	filter := make([]storage.Kind, 0, len(kinds))
	for _, k := range kinds {
		kind := storage.Kind(strings.ToLower(strings.TrimSpace(k)))
		if !kind.Valid() {
			return ErrInvalidValue("kind", k, "note, summary, comparison")
		}
		filter = append(filter, kind)
	}

	if prune {
		n, err := rt.index.Prune(ctx)
		if err != nil {
			return NewCommandError("notes", "prune", "could not prune the index", err)
		}
		if n > 0 {
			rt.printer.Info(fmt.Sprintf("Removed %d missing documents from the index", n))
		}
	}

	records, err := rt.index.Recent(ctx, limit, filter...)
	if err != nil {
		return NewCommandError("notes", "list", "could not read the index", err)
	}
	rt.printer.Documents(records, rt.now())
	return nil
}
