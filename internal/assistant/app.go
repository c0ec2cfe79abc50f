// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/search"
	"github.com/jeranaias/fiber/internal/session"
	"github.com/jeranaias/fiber/internal/storage"
	"github.com/jeranaias/fiber/internal/tools"
)

// =============================================================================
// COLLABORATORS
// =============================================================================

// Generator produces text from prompts. *ollama.Client implements it.
type Generator interface {
	Generate(ctx context.Context, req ollama.GenerateRequest) (string, error)
	GenerateStream(ctx context.Context, req ollama.GenerateRequest) (*ollama.Stream, error)
	CheckRunning(ctx context.Context) error
	Model() string
}

// WeatherService reports current conditions for a city.
type WeatherService interface {
	Current(ctx context.Context, city string) (tools.WeatherReport, error)
}

// Definer looks a word up in a dictionary.
type Definer interface {
	Lookup(ctx context.Context, word string) (string, error)
}

// ArticleSource downloads readable page text.
type ArticleSource interface {
	Fetch(ctx context.Context, url string) (tools.Article, error)
}

// WebSearcher runs a multi-engine search.
type WebSearcher interface {
	Search(ctx context.Context, query string) (*search.Response, error)
}

// DocumentIndex records written documents.
type DocumentIndex interface {
	Record(ctx context.Context, rec storage.DocumentRecord) (storage.DocumentRecord, error)
}

// Deps are the collaborators of an App. Generator is required; any other
// nil collaborator disables the operations that need it.
type Deps struct {
	Generator  Generator
	Session    *session.Store
	Weather    WeatherService
	Clock      tools.Clock
	Dictionary Definer
	Articles   ArticleSource
	Search     WebSearcher
	Index      DocumentIndex

	// NotesDir is used when there is no session store.
	NotesDir string

	Logger *zap.Logger
	Now    func() time.Time
}

// Hooks observe a generation while it streams.
type Hooks struct {
	OnFragment func(ollama.Fragment)
	OnProgress func(ollama.ProgressSnapshot)
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrTooFewItems   = errors.New("please provide at least two items to compare")
	ErrEmptyResponse = errors.New("no response received from AI model")
	ErrNotRunning    = errors.New("Ollama is not running. Please start Ollama first")
	ErrUnavailable   = errors.New("operation not available")
	ErrNoIdeas       = errors.New("no ideas generated")
)

// =============================================================================
// APP
// =============================================================================

// App runs fiber's operations.
type App struct {
	deps   Deps
	logger *zap.Logger
	now    func() time.Time
}

// New builds an App from deps.
func New(deps Deps) *App {
	a := &App{deps: deps, logger: deps.Logger, now: deps.Now}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.now == nil {
		a.now = time.Now
	}
	if a.deps.Clock.Now == nil {
		a.deps.Clock.Now = a.now
	}
	return a
}

// Model returns the model generation requests go to.
func (a *App) Model() string {
	return a.deps.Generator.Model()
}

// Session returns the session store, which may be nil.
func (a *App) Session() *session.Store {
	return a.deps.Session
}

// NotesDir returns the directory documents are written to: the
// default_path preference when a session is loaded, else Deps.NotesDir.
func (a *App) NotesDir() string {
	if a.deps.Session != nil {
		if dir := a.deps.Session.Preferences().DefaultPath; dir != "" {
			return dir
		}
	}
	if a.deps.NotesDir != "" {
		return a.deps.NotesDir
	}
	return session.DefaultNotesDir()
}

// Track records a history entry when a session is loaded.
func (a *App) Track(command string, args map[string]string) {
	if a.deps.Session != nil {
		a.deps.Session.Record(command, args)
	}
}

// Save persists session state. Failures are logged, not returned, since
// they must never abort the command that triggered them.
func (a *App) Save() {
	if a.deps.Session == nil {
		return
	}
	if err := a.deps.Session.Save(); err != nil {
		a.logger.Warn("failed to save session", zap.Error(err))
	}
}

// stream runs a streaming generation through an Aggregator.
func (a *App) stream(ctx context.Context, prompt string, target int, hooks Hooks) (string, error) {
	st, err := a.deps.Generator.GenerateStream(ctx, ollama.GenerateRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}
	defer st.Close()

	agg := &ollama.Aggregator{
		Target:     target,
		OnFragment: hooks.OnFragment,
		OnProgress: hooks.OnProgress,
		Clock:      a.now,
	}
	return agg.Run(st)
}

// record indexes a written document. Index failures are logged.
func (a *App) record(ctx context.Context, rec storage.DocumentRecord) *storage.DocumentRecord {
	if a.deps.Session != nil {
		a.deps.Session.SetLastFile(rec.Path)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = a.now()
	}
	if a.deps.Index == nil {
		return &rec
	}
	stored, err := a.deps.Index.Record(ctx, rec)
	if err != nil {
		a.logger.Warn("failed to index document", zap.String("path", rec.Path), zap.Error(err))
		return &rec
	}
	return &stored
}

func (a *App) notes(sub string) tools.NoteWriter {
	dir := a.NotesDir()
	if sub != "" {
		dir = filepath.Join(dir, sub)
	}
	return tools.NoteWriter{Dir: dir, Clock: a.now}
}
