// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/fiber/internal/util"
)

// File and directory names under the user's home directory.
const (
	DirName  = ".fiber"
	FileName = "config.toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete fiber configuration.
type Config struct {
	Ollama  OllamaConfig  `toml:"ollama"`
	Notes   NotesConfig   `toml:"notes"`
	Weather WeatherConfig `toml:"weather"`
	Search  SearchConfig  `toml:"search"`
	Server  ServerConfig  `toml:"server"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// OllamaConfig configures the local generation service.
type OllamaConfig struct {
	URL            string `toml:"url"`
	Model          string `toml:"model"`
	TimeoutSecs    int    `toml:"timeout_secs"`
	MaxAttempts    int    `toml:"max_attempts"`
	RetryDelaySecs int    `toml:"retry_delay_secs"`
}

// NotesConfig configures where generated documents are written.
// An empty Dir defers to the default_path preference.
type NotesConfig struct {
	Dir string `toml:"dir"`
}

// WeatherConfig configures the OpenWeatherMap client.
type WeatherConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
}

// SearchConfig configures the multi-engine search.
type SearchConfig struct {
	TimeoutSecs int  `toml:"timeout_secs"`
	OpenBrowser bool `toml:"open_browser"`
}

// ServerConfig configures `fiber serve`.
type ServerConfig struct {
	Host                string `toml:"host"`
	Port                int    `toml:"port"`
	RateLimitPerHour    int    `toml:"rate_limit_per_hour"`
	ReadTimeoutSecs     int    `toml:"read_timeout_secs"`
	ShutdownTimeoutSecs int    `toml:"shutdown_timeout_secs"`
}

// UIConfig configures terminal output.
type UIConfig struct {
	NoColor bool `toml:"no_color"`
	Width   int  `toml:"width"`
}

// LogConfig configures the log file.
type LogConfig struct {
	Debug bool   `toml:"debug"`
	Dir   string `toml:"dir"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with the built-in defaults.
func Default() *Config {
	return &Config{
		Ollama: OllamaConfig{
			URL:            "http://localhost:11434",
			Model:          "mistral",
			TimeoutSecs:    45,
			MaxAttempts:    3,
			RetryDelaySecs: 2,
		},
		Weather: WeatherConfig{
			BaseURL: "https://api.openweathermap.org/data/2.5/weather",
		},
		Search: SearchConfig{
			TimeoutSecs: 10,
			OpenBrowser: true,
		},
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                3000,
			RateLimitPerHour:    50,
			ReadTimeoutSecs:     30,
			ShutdownTimeoutSecs: 10,
		},
		UI: UIConfig{
			Width: 100,
		},
	}
}

// OllamaTimeout returns the generation timeout as a duration.
func (c *Config) OllamaTimeout() time.Duration {
	return time.Duration(c.Ollama.TimeoutSecs) * time.Second
}

// RetryDelay returns the delay between generation attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Ollama.RetryDelaySecs) * time.Second
}

// SearchTimeout returns the per-engine search timeout.
func (c *Config) SearchTimeout() time.Duration {
	return time.Duration(c.Search.TimeoutSecs) * time.Second
}

// Addr returns the server listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// =============================================================================
// PATH HELPERS
// =============================================================================

// Dir returns the fiber state directory (~/.fiber).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, DirName), nil
}

// Path returns the default config file path.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// =============================================================================
// LOAD / SAVE
// =============================================================================

// Load reads the config file at path over the defaults. A missing file
// yields the defaults. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := LoadTOML(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path into cfg. Keys absent from the
// file keep their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to decode %s: %w", filepath.Base(path), err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys in %s: %s", filepath.Base(path), strings.Join(keys, ", "))
	}
	return nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("# fiber configuration file\n")
	buf.WriteString("# Environment variables and command-line flags take precedence.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks every setting and returns ValidateErrors when any is invalid.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.Ollama.URL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		add("ollama.url", "invalid URL %q, must be http(s)://host[:port]", c.Ollama.URL)
	}
	if strings.TrimSpace(c.Ollama.Model) == "" {
		add("ollama.model", "must not be empty")
	}
	if c.Ollama.TimeoutSecs < 1 || c.Ollama.TimeoutSecs > 600 {
		add("ollama.timeout_secs", "%d out of range, must be 1-600", c.Ollama.TimeoutSecs)
	}
	if c.Ollama.MaxAttempts < 1 || c.Ollama.MaxAttempts > 10 {
		add("ollama.max_attempts", "%d out of range, must be 1-10", c.Ollama.MaxAttempts)
	}
	if c.Ollama.RetryDelaySecs < 0 || c.Ollama.RetryDelaySecs > 60 {
		add("ollama.retry_delay_secs", "%d out of range, must be 0-60", c.Ollama.RetryDelaySecs)
	}
	if c.Weather.BaseURL != "" {
		if u, err := url.Parse(c.Weather.BaseURL); err != nil || u.Host == "" {
			add("weather.base_url", "invalid URL %q", c.Weather.BaseURL)
		}
	}
	if c.Search.TimeoutSecs < 1 || c.Search.TimeoutSecs > 120 {
		add("search.timeout_secs", "%d out of range, must be 1-120", c.Search.TimeoutSecs)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		add("server.port", "%d out of range, must be 1-65535", c.Server.Port)
	}
	if c.Server.RateLimitPerHour < 1 {
		add("server.rate_limit_per_hour", "must be at least 1")
	}
	if c.Server.ReadTimeoutSecs < 1 {
		add("server.read_timeout_secs", "must be at least 1")
	}
	if c.Server.ShutdownTimeoutSecs < 1 {
		add("server.shutdown_timeout_secs", "must be at least 1")
	}
	if c.UI.Width < 40 || c.UI.Width > 400 {
		add("ui.width", "%d out of range, must be 40-400", c.UI.Width)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
