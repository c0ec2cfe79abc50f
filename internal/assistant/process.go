// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/router"
	"github.com/jeranaias/fiber/internal/storage"
	"github.com/jeranaias/fiber/internal/tools"
)

// Reply is the outcome of processing one query.
type Reply struct {
	// Kind is the handler that produced Text. A weather or time query that
	// fell through to chat has Kind chat and a notice explaining why.
	Kind router.Kind

	Text string

	// Notices are non-fatal problems worth showing the user.
	Notices []string

	// Document is set when a document was written.
	Document *storage.DocumentRecord
}

// Process routes query to a single handler and returns its reply. The
// query is added to the history log and the session context is updated
// with last_query and last_response.
func (a *App) Process(ctx context.Context, query string, hooks Hooks) (Reply, error) {
	query = strings.TrimSpace(query)
	a.Track(query, nil)
	defer a.Save()

	reply, err := a.dispatch(ctx, query, hooks)

	if s := a.deps.Session; s != nil {
		s.UpdateContext("last_query", query)
		if reply.Text != "" {
			s.UpdateContext("last_response", reply.Text)
		}
	}
	return reply, err
}

func (a *App) dispatch(ctx context.Context, query string, hooks Hooks) (Reply, error) {
	intent := router.Route(query)
	a.logger.Debug("routed query", zap.String("kind", intent.Kind.String()))

	var notices []string
	switch intent.Kind {
	case router.KindDocument:
		doc, err := a.CreateDocument(ctx, intent.Topic, hooks)
		if err != nil {
			return Reply{Kind: router.KindDocument}, fmt.Errorf("error creating document: %w", err)
		}
		return Reply{
			Kind:     router.KindDocument,
			Text:     doc.Message(),
			Document: doc.Record,
		}, nil

	case router.KindWeather:
		text, err := a.weather(ctx, intent.Location)
		if err == nil {
			return Reply{Kind: router.KindWeather, Text: text}, nil
		}
		notices = append(notices, err.Error())

	case router.KindTime:
		report, err := a.deps.Clock.Current(intent.Timezone)
		if err == nil {
			return Reply{Kind: router.KindTime, Text: report.String()}, nil
		}
		notices = append(notices, fmt.Sprintf("Error getting time: %v", err))
	}

	text, err := a.deps.Generator.Generate(ctx, ollama.GenerateRequest{Prompt: query})
	if err != nil {
		return Reply{Kind: router.KindChat, Notices: notices}, err
	}
	return Reply{Kind: router.KindChat, Text: strings.TrimSpace(text), Notices: notices}, nil
}

func (a *App) weather(ctx context.Context, location string) (string, error) {
	if a.deps.Weather == nil {
		return "", fmt.Errorf("weather: %w", ErrUnavailable)
	}
	if location == "" {
		return "", tools.ErrNoLocation
	}
	report, err := a.deps.Weather.Current(ctx, location)
	switch {
	case errors.Is(err, tools.ErrMissingAPIKey):
		return "", fmt.Errorf("%w. Set OPENWEATHERMAP_API_KEY; you can get one at: %s", err, tools.WeatherSignupURL)
	case errors.Is(err, tools.ErrInvalidAPIKey):
		return "", fmt.Errorf("%w. Please check OPENWEATHERMAP_API_KEY", err)
	case err != nil:
		return "", err
	}
	return report.String(), nil
}

// =============================================================================
// DOCUMENT CREATION
// =============================================================================

// Document is a written note.
type Document struct {
	Topic  string
	Path   string
	Words  int
	Record *storage.DocumentRecord
}

// Message is the completion line shown after writing.
func (d Document) Message() string {
	return fmt.Sprintf("I have completed writing about: %s (%d words). Would you like me to open the document for you? (y/n)",
		d.Topic, d.Words)
}

// CreateDocument streams notes about topic, reporting progress against
// NoteTargetWords, and writes them into the notes directory.
func (a *App) CreateDocument(ctx context.Context, topic string, hooks Hooks) (Document, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return Document{}, errors.New("no topic given")
	}

	text, err := a.stream(ctx, NotesPrompt(topic), NoteTargetWords, hooks)
	if err != nil {
		return Document{}, err
	}
	if strings.TrimSpace(text) == "" {
		return Document{}, ErrEmptyResponse
	}

	words := ollama.CountWords(text)
	path, err := a.notes("").Write(topic, tools.NoteDocument(topic, text, a.now()))
	if err != nil {
		return Document{}, err
	}

	rec := a.record(ctx, storage.DocumentRecord{
		Kind:  storage.KindNote,
		Title: topic,
		Path:  path,
		Words: words,
	})
	a.logger.Info("wrote document", zap.String("path", path), zap.Int("words", words))

	return Document{Topic: topic, Path: path, Words: words, Record: rec}, nil
}
