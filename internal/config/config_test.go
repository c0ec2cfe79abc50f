// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// =============================================================================
// DEFAULT / LOAD / SAVE
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v, want nil", err)
	}
	if cfg.Ollama.Model != "mistral" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "mistral")
	}
	if cfg.Server.RateLimitPerHour != 50 {
		t.Errorf("Server.RateLimitPerHour = %d, want 50", cfg.Server.RateLimitPerHour)
	}
	if got := cfg.OllamaTimeout(); got != 45*time.Second {
		t.Errorf("OllamaTimeout() = %v, want 45s", got)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Ollama.URL != Default().Ollama.URL {
		t.Errorf("Ollama.URL = %q, want default", cfg.Ollama.URL)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", FileName)

	cfg := Default()
	cfg.Ollama.Model = "llama3"
	cfg.Notes.Dir = "/tmp/notes"
	cfg.Server.Port = 8080
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 && os.PathSeparator == '/' {
		t.Errorf("permissions = %o, want 600", perm)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Ollama.Model != "llama3" {
		t.Errorf("Ollama.Model = %q, want %q", loaded.Ollama.Model, "llama3")
	}
	if loaded.Notes.Dir != "/tmp/notes" {
		t.Errorf("Notes.Dir = %q, want %q", loaded.Notes.Dir, "/tmp/notes")
	}
	if loaded.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", loaded.Server.Port)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "[ollama]\nmodel = \"phi3\"\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Ollama.Model != "phi3" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "phi3")
	}
	if cfg.Ollama.MaxAttempts != 3 {
		t.Errorf("Ollama.MaxAttempts = %d, want 3", cfg.Ollama.MaxAttempts)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "[ollama\nmodel = 1", "failed to decode"},
		{"unknown key", "[ollama]\nmodle = \"x\"\n", "unknown keys"},
		{"invalid value", "[server]\nport = 70000\n", "server.port"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("Load() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("Load() error = %q, want it to contain %q", err, tc.want)
			}
		})
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad url", func(c *Config) { c.Ollama.URL = "localhost:11434" }, "ollama.url"},
		{"empty model", func(c *Config) { c.Ollama.Model = "  " }, "ollama.model"},
		{"zero timeout", func(c *Config) { c.Ollama.TimeoutSecs = 0 }, "ollama.timeout_secs"},
		{"zero attempts", func(c *Config) { c.Ollama.MaxAttempts = 0 }, "ollama.max_attempts"},
		{"negative delay", func(c *Config) { c.Ollama.RetryDelaySecs = -1 }, "ollama.retry_delay_secs"},
		{"bad weather url", func(c *Config) { c.Weather.BaseURL = "::" }, "weather.base_url"},
		{"search timeout", func(c *Config) { c.Search.TimeoutSecs = 0 }, "search.timeout_secs"},
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"rate limit", func(c *Config) { c.Server.RateLimitPerHour = 0 }, "server.rate_limit_per_hour"},
		{"width", func(c *Config) { c.UI.Width = 10 }, "ui.width"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)

			err := cfg.Validate()
			var verrs ValidateErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("Validate() = %v, want ValidateErrors", err)
			}
			if len(verrs) != 1 || verrs[0].Field != tc.field {
				t.Errorf("Validate() = %v, want a single %s error", verrs, tc.field)
			}
		})
	}
}

func TestValidateErrors_Error(t *testing.T) {
	errs := ValidateErrors{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}
	if got, want := errs.Error(), "a: bad; b: worse"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if got := (ValidateErrors{}).Error(); got != "no validation errors" {
		t.Errorf("empty Error() = %q", got)
	}
}

// =============================================================================
// OVERRIDES
// =============================================================================

func TestApplyOverrides_Env(t *testing.T) {
	t.Setenv("OLLAMA_MODEL", "llama3")
	t.Setenv("DEFAULT_PATH", "/data/notes")
	t.Setenv("OPENWEATHERMAP_API_KEY", "k123")
	t.Setenv("FIBER_OLLAMA_URL", "http://gpu-box:11434")
	t.Setenv("NO_COLOR", "1")

	cfg := Default()
	cfg.ApplyOverrides(NewViper())

	if cfg.Ollama.Model != "llama3" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "llama3")
	}
	if cfg.Notes.Dir != "/data/notes" {
		t.Errorf("Notes.Dir = %q, want %q", cfg.Notes.Dir, "/data/notes")
	}
	if cfg.Weather.APIKey != "k123" {
		t.Errorf("Weather.APIKey = %q, want %q", cfg.Weather.APIKey, "k123")
	}
	if cfg.Ollama.URL != "http://gpu-box:11434" {
		t.Errorf("Ollama.URL = %q, want %q", cfg.Ollama.URL, "http://gpu-box:11434")
	}
	if !cfg.UI.NoColor {
		t.Error("UI.NoColor = false, want true")
	}
}

func TestApplyOverrides_UnsetKeepsFileValues(t *testing.T) {
	for _, envs := range envBindings {
		for _, env := range envs {
			t.Setenv(env, "")
		}
	}

	cfg := Default()
	cfg.Ollama.Model = "from-file"
	cfg.ApplyOverrides(NewViper())

	if cfg.Ollama.Model != "from-file" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "from-file")
	}
}

func TestApplyOverrides_FlagBeatsEnv(t *testing.T) {
	t.Setenv("OLLAMA_MODEL", "from-env")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("model", "", "")
	cmd.Flags().Int("port", 0, "")
	if err := cmd.Flags().Parse([]string{"--model", "from-flag"}); err != nil {
		t.Fatal(err)
	}

	v := NewViper()
	if err := v.BindPFlag(KeyModel, cmd.Flags().Lookup("model")); err != nil {
		t.Fatal(err)
	}
	if err := v.BindPFlag(KeyPort, cmd.Flags().Lookup("port")); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	cfg.ApplyOverrides(v)

	if cfg.Ollama.Model != "from-flag" {
		t.Errorf("Ollama.Model = %q, want %q", cfg.Ollama.Model, "from-flag")
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want unchanged 3000", cfg.Server.Port)
	}
}

// =============================================================================
// WATCHER
// =============================================================================

func TestWatcher_Reload(t *testing.T) {
	path := writeConfig(t, "[ollama]\nmodel = \"first\"\n")

	w, err := NewWatcher(path, nil)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.WithDebounce(10 * time.Millisecond)
	w.Prepare = func(c *Config) { c.UI.Width = 120 }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan *Config, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(c *Config) {
			select {
			case changes <- c:
			default:
			}
		})
	}()

	// An invalid file is skipped, the next valid one is delivered.
	if err := os.WriteFile(path, []byte("[server]\nport = 0\n"), 0600); err != nil {
		t.Fatal(err)
	}
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("[ollama]\nmodel = \"second\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	// A reload may land between truncate and write; wait for the final content.
	deadline := time.After(5 * time.Second)
	for reloaded := false; !reloaded; {
		select {
		case cfg := <-changes:
			if cfg.UI.Width != 120 {
				t.Errorf("Prepare was not applied, width = %d", cfg.UI.Width)
			}
			reloaded = cfg.Ollama.Model == "second"
		case <-deadline:
			t.Fatal("no reload with model \"second\" within 5s")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() = %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}
