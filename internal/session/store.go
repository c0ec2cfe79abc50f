// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/util"
)

// File names inside the state directory.
const (
	SessionFile     = "session.json"
	PreferencesFile = "preferences.json"
	HistoryDir      = "history"
)

// =============================================================================
// STATE
// =============================================================================

// State is the content of session.json.
type State struct {
	Commands []string          `json:"commands"`
	Context  map[string]string `json:"context"`
	LastFile *string           `json:"last_file"`
}

// Options configure Open.
type Options struct {
	// Dir is the state directory (required).
	Dir string

	// DefaultPath seeds default_path when preferences.json does not exist.
	DefaultPath string

	// PathOverride, when set, replaces default_path for this process
	// without being written to preferences.json.
	PathOverride string

	// Clock defaults to time.Now.
	Clock func() time.Time

	Logger *zap.Logger
}

// Store holds session state, preferences and today's history.
type Store struct {
	mu sync.Mutex

	dir     string
	id      string
	started time.Time
	clock   func() time.Time
	logger  *zap.Logger

	state        State
	prefs        Preferences
	pathOverride string
	history      []HistoryEntry
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Open loads the store from opts.Dir, creating the directory layout if
// needed. Unreadable or corrupt files are logged and replaced by defaults
// rather than failing startup.
func Open(opts Options) (*Store, error) {
	if opts.Dir == "" {
		return nil, errors.New("session: state directory is required")
	}
	if err := os.MkdirAll(filepath.Join(opts.Dir, HistoryDir), 0700); err != nil {
		return nil, fmt.Errorf("session: failed to create state directory: %w", err)
	}

	s := &Store{
		dir:    opts.Dir,
		id:     uuid.NewString(),
		clock:  opts.Clock,
		logger: opts.Logger,
		state:  State{Context: map[string]string{}},
		prefs:  DefaultPreferences(opts.DefaultPath),

		pathOverride: strings.TrimSpace(opts.PathOverride),
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	s.started = s.clock()

	if err := readJSON(s.path(SessionFile), &s.state); err != nil {
		s.logger.Warn("ignoring unreadable session file", zap.Error(err))
		s.state = State{}
	}
	if s.state.Context == nil {
		s.state.Context = map[string]string{}
	}

	loaded := Preferences{}
	if err := readJSON(s.path(PreferencesFile), &loaded); err != nil {
		s.logger.Warn("ignoring unreadable preferences file", zap.Error(err))
	} else if loaded != (Preferences{}) {
		loaded.fillDefaults(s.prefs)
		s.prefs = loaded
	}

	if err := readJSON(s.historyPath(s.started), &s.history); err != nil {
		s.logger.Warn("ignoring unreadable history file", zap.Error(err))
		s.history = nil
	}

	return s, nil
}

// Save writes session.json, preferences.json and today's history file.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeJSON(s.path(SessionFile), s.state); err != nil {
		return fmt.Errorf("session: failed to save session: %w", err)
	}
	if err := writeJSON(s.path(PreferencesFile), s.prefs); err != nil {
		return fmt.Errorf("session: failed to save preferences: %w", err)
	}
	history := s.history
	if history == nil {
		history = []HistoryEntry{}
	}
	if err := writeJSON(s.historyPath(s.clock()), history); err != nil {
		return fmt.Errorf("session: failed to save history: %w", err)
	}
	return nil
}

// ID returns the identifier of this process's session.
func (s *Store) ID() string {
	return s.id
}

// Dir returns the state directory.
func (s *Store) Dir() string {
	return s.dir
}

// =============================================================================
// SESSION STATE
// =============================================================================

// AddCommand appends a command typed by the user.
func (s *Store) AddCommand(cmd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Commands = append(s.state.Commands, cmd)
}

// Commands returns a copy of every stored command, oldest first.
func (s *Store) Commands() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.state.Commands...)
}

// UpdateContext sets a context value.
func (s *Store) UpdateContext(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Context[key] = value
}

// Context returns a context value.
func (s *Store) Context(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.state.Context[key]
	return v, ok
}

// SetLastFile records the most recently written document.
func (s *Store) SetLastFile(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.LastFile = &path
}

// LastFile returns the most recently written document, or "".
func (s *Store) LastFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.LastFile == nil {
		return ""
	}
	return *s.state.LastFile
}

// =============================================================================
// PREFERENCES
// =============================================================================

// Preferences returns the current preferences.
func (s *Store) Preferences() Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.prefs
	if s.pathOverride != "" {
		p.DefaultPath = s.pathOverride
	}
	return p
}

// SetPreference changes one preference and persists preferences.json.
func (s *Store) SetPreference(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.prefs
	if err := updated.Set(key, value); err != nil {
		return err
	}
	if err := writeJSON(s.path(PreferencesFile), updated); err != nil {
		return fmt.Errorf("session: failed to save preferences: %w", err)
	}
	s.prefs = updated
	switch key {
	case KeyMaxHistory:
		s.trimHistory()
	case KeyDefaultPath:
		s.pathOverride = ""
	}
	return nil
}

// =============================================================================
// FILE HELPERS
// =============================================================================

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

func (s *Store) historyPath(t time.Time) string {
	return filepath.Join(s.dir, HistoryDir, "history_"+t.Format("20060102")+".json")
}

// readJSON decodes path into v. A missing or empty file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}
	return util.AtomicWriteFile(path, append(data, '\n'), 0600)
}
