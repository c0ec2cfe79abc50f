// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ncruces/go-strftime"
)

// Preference keys accepted by Set.
const (
	KeyTheme       = "theme"
	KeyVerbosity   = "verbosity"
	KeyMaxHistory  = "max_history"
	KeyDefaultPath = "default_path"
	KeyDateFormat  = "date_format"
)

// ErrUnknownPreference is returned by Set for keys it does not know.
var ErrUnknownPreference = errors.New("unknown preference")

// Preferences are the user-tunable settings kept in preferences.json.
type Preferences struct {
	Theme       string `json:"theme"`
	Verbosity   string `json:"verbosity"`
	MaxHistory  int    `json:"max_history"`
	DefaultPath string `json:"default_path"`
	DateFormat  string `json:"date_format"`
}

// DefaultPreferences returns the built-in preferences. An empty
// defaultPath falls back to ~/Fiber_Notes.
func DefaultPreferences(defaultPath string) Preferences {
	if defaultPath == "" {
		defaultPath = DefaultNotesDir()
	}
	return Preferences{
		Theme:       "default",
		Verbosity:   "normal",
		MaxHistory:  100,
		DefaultPath: defaultPath,
		DateFormat:  "%Y-%m-%d %H:%M:%S",
	}
}

// DefaultNotesDir returns ~/Fiber_Notes.
func DefaultNotesDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Fiber_Notes"
	}
	return filepath.Join(home, "Fiber_Notes")
}

// Keys lists preference keys in display order.
func Keys() []string {
	return []string{KeyTheme, KeyVerbosity, KeyMaxHistory, KeyDefaultPath, KeyDateFormat}
}

// Get returns the string form of a preference.
func (p Preferences) Get(key string) (string, error) {
	switch key {
	case KeyTheme:
		return p.Theme, nil
	case KeyVerbosity:
		return p.Verbosity, nil
	case KeyMaxHistory:
		return strconv.Itoa(p.MaxHistory), nil
	case KeyDefaultPath:
		return p.DefaultPath, nil
	case KeyDateFormat:
		return p.DateFormat, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownPreference, key)
}

// Set assigns a preference from its string form.
func (p *Preferences) Set(key, value string) error {
	switch key {
	case KeyTheme:
		p.Theme = value
	case KeyVerbosity:
		p.Verbosity = value
	case KeyMaxHistory:
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil || n <= 0 {
			return fmt.Errorf("max_history must be a positive integer, got %q", value)
		}
		p.MaxHistory = n
	case KeyDefaultPath:
		if strings.TrimSpace(value) == "" {
			return errors.New("default_path cannot be empty")
		}
		p.DefaultPath = value
	case KeyDateFormat:
		if strings.TrimSpace(value) == "" {
			return errors.New("date_format cannot be empty")
		}
		p.DateFormat = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownPreference, key)
	}
	return nil
}

// FormatTime formats t with the date_format preference.
func (p Preferences) FormatTime(t time.Time) string {
	layout := p.DateFormat
	if layout == "" {
		layout = DefaultPreferences("").DateFormat
	}
	return strftime.Format(layout, t)
}

// fillDefaults repairs zero values left by an older or hand-edited file.
func (p *Preferences) fillDefaults(def Preferences) {
	if p.Theme == "" {
		p.Theme = def.Theme
	}
	if p.Verbosity == "" {
		p.Verbosity = def.Verbosity
	}
	if p.MaxHistory <= 0 {
		p.MaxHistory = def.MaxHistory
	}
	if p.DefaultPath == "" {
		p.DefaultPath = def.DefaultPath
	}
	if p.DateFormat == "" {
		p.DateFormat = def.DateFormat
	}
}
