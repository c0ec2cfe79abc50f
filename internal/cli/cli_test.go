// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/fiber/internal/assistant"
	"github.com/jeranaias/fiber/internal/config"
	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/search"
	"github.com/jeranaias/fiber/internal/server"
	"github.com/jeranaias/fiber/internal/tools"
)

// =============================================================================
// TEST HARNESS
// =============================================================================

// fakeOllama answers /api/generate with reply(prompt), streaming one
// fragment per word when asked to.
type fakeOllama struct {
	mu      sync.Mutex
	reply   func(prompt string) string
	status  int
	prompts []string
}

func (f *fakeOllama) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/tags" {
		io.WriteString(w, `{"models":[{"name":"testmodel","size":4109865159}]}`)
		return
	}
	if f.status != 0 {
		w.WriteHeader(f.status)
		io.WriteString(w, `{"error":"backend failure"}`)
		return
	}

	var req ollama.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, req.Prompt)
	text := f.reply(req.Prompt)
	f.mu.Unlock()

	enc := json.NewEncoder(w)
	if !req.Stream {
		enc.Encode(map[string]any{"response": text, "done": true})
		return
	}
	for _, word := range strings.SplitAfter(text, " ") {
		enc.Encode(map[string]any{"response": word})
	}
	enc.Encode(map[string]any{"response": "", "done": true})
}

func (f *fakeOllama) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type harness struct {
	t      *testing.T
	home   string
	notes  string
	ollama *fakeOllama
	opened []string
	wire   func(*assistant.Deps)
}

// newHarness points HOME at a temp dir holding a config.toml that talks to
// a fake Ollama server.
func newHarness(t *testing.T) *harness {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{
		"OLLAMA_MODEL", "FIBER_OLLAMA_URL", "DEFAULT_PATH", "OPENWEATHERMAP_API_KEY",
		"FIBER_PORT", "FIBER_VERBOSE", "NO_COLOR", "FIBER_NO_COLOR", "FORCE_COLOR",
	} {
		t.Setenv(env, "")
	}

	fo := &fakeOllama{reply: func(string) string { return "ok" }}
	srv := httptest.NewServer(fo)
	t.Cleanup(srv.Close)

	h := &harness{t: t, home: home, notes: filepath.Join(home, "notes"), ollama: fo}
	h.writeConfig(srv.URL)
	return h
}

func (h *harness) writeConfig(ollamaURL string) {
	h.t.Helper()
	dir := filepath.Join(h.home, config.DirName)
	require.NoError(h.t, os.MkdirAll(dir, 0700))
	body := fmt.Sprintf(`[ollama]
url = %q
model = "testmodel"
max_attempts = 1

[notes]
dir = %q
`, ollamaURL, h.notes)
	require.NoError(h.t, os.WriteFile(filepath.Join(dir, config.FileName), []byte(body), 0600))
}

func (h *harness) newRuntime(in string, out, errOut io.Writer) *runtime {
	rt := newRuntime(Streams{In: strings.NewReader(in), Out: out, Err: errOut})
	rt.open = func(target string) error {
		h.opened = append(h.opened, target)
		return nil
	}
	rt.wire = h.wire
	return rt
}

// run executes one fiber invocation with in as standard input.
func (h *harness) run(in string, args ...string) (stdout, stderr string, code int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	code = run(h.t.Context(), h.newRuntime(in, &out, &errOut), args)
	return out.String(), errOut.String(), code
}

// =============================================================================
// ROOT AND VERSION
// =============================================================================

func TestRun_Version(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.run("", "version")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "fiber "+Version)
}

func TestRun_UnknownCommand(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "teleport")

	assert.Equal(t, ExitGeneralError, code)
	assert.Contains(t, errOut, "Error: unknown command")
}

func TestRun_InvalidConfig(t *testing.T) {
	h := newHarness(t)
	path := filepath.Join(h.home, config.DirName, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("[ollama]\nurl = \"not a url\"\n"), 0600))

	_, errOut, code := h.run("", "preferences")

	assert.Equal(t, ExitGeneralError, code)
	assert.Contains(t, errOut, "ollama.url")
}

func TestRun_ModelFlagOverridesConfig(t *testing.T) {
	h := newHarness(t)
	var gotModel string
	h.ollama.reply = func(string) string { return "hi" }

	var out, errOut bytes.Buffer
	rt := h.newRuntime("", &out, &errOut)
	code := run(t.Context(), rt, []string{"--model", "llama3", "chat", "hello"})
	require.Equal(t, ExitSuccess, code, errOut.String())
	gotModel = rt.client.Model()

	assert.Equal(t, "llama3", gotModel)
}

// =============================================================================
// ASK
// =============================================================================

func TestAsk_Chat(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "Go is a programming language." }

	out, errOut, code := h.run("", "ask", "what is go")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Fiber: Go is a programming language.")
	assert.Equal(t, "what is go", h.ollama.lastPrompt())

	_, err := os.Stat(filepath.Join(h.home, config.DirName, "session.json"))
	assert.NoError(t, err, "session should be saved")
}

func TestAsk_DocumentOpenedOnYes(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		wantOpen bool
	}{
		{"yes", "y\n", true},
		{"no", "n\n", false},
		{"no input", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.ollama.reply = func(string) string { return "Rivers flow downhill to the sea." }

			out, errOut, code := h.run(tt.answer, "ask", "write notes about rivers")

			require.Equal(t, ExitSuccess, code, errOut)
			assert.Contains(t, out, "I have completed writing about: rivers")

			entries, err := os.ReadDir(h.notes)
			require.NoError(t, err)
			require.Len(t, entries, 1)

			if !tt.wantOpen {
				assert.Empty(t, h.opened)
				return
			}
			require.Len(t, h.opened, 1)
			assert.Equal(t, filepath.Join(h.notes, entries[0].Name()), h.opened[0])
		})
	}
}

func TestAsk_TimeFallsThroughToChatOnBadZone(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "I am not sure." }

	out, errOut, code := h.run("", "ask", "time in Atlantis Undersea")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Note: Error getting time")
	assert.Contains(t, out, "Fiber: I am not sure.")
}

func TestAsk_OllamaDown(t *testing.T) {
	h := newHarness(t)
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	h.writeConfig(dead.URL)

	_, errOut, code := h.run("", "ask", "hello there")

	assert.Equal(t, ExitGeneralError, code)
	assert.Contains(t, errOut, "Error: Ollama is not running")
	assert.Contains(t, errOut, "Start it with: ollama serve")
}

func TestChat_ModelNotFound(t *testing.T) {
	h := newHarness(t)
	h.ollama.status = http.StatusNotFound

	_, errOut, code := h.run("", "chat", "hello")

	assert.Equal(t, ExitGeneralError, code)
	assert.Contains(t, errOut, "Error: Model 'testmodel' not found")
	assert.Contains(t, errOut, "ollama pull testmodel")
}

// =============================================================================
// INTERACTIVE SESSION
// =============================================================================

func TestREPL_Session(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "Hello!" }

	out, errOut, code := h.run("help\n\nhi fiber\nexit\n")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, welcomeMessage)
	assert.Contains(t, out, replPrompt)
	assert.Contains(t, out, "Fiber: Hello!")
	assert.Contains(t, out, "Goodbye!")
	assert.Equal(t, "hi fiber", h.ollama.lastPrompt())

	data, err := os.ReadFile(filepath.Join(h.home, config.DirName, "session.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "hi fiber")
	assert.NotContains(t, string(data), `"help"`)
}

func TestREPL_EndOfInput(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.run("", "ask")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Goodbye!")
}

func TestREPL_ErrorsDoNotEndSession(t *testing.T) {
	h := newHarness(t)
	h.ollama.status = http.StatusInternalServerError

	out, _, code := h.run("hello\npreferences\nquit\n")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Error: Ollama server error: backend failure")
	assert.Contains(t, out, "Current Preferences")
	assert.Contains(t, out, "Goodbye!")
}

func TestREPL_DocumentConfirmation(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "Volcanoes erupt." }

	_, errOut, code := h.run("write notes about volcanoes\ny\nexit\n")

	require.Equal(t, ExitSuccess, code, errOut)
	require.Len(t, h.opened, 1)
	assert.True(t, strings.HasPrefix(h.opened[0], h.notes))
}

func TestREPL_Commands(t *testing.T) {
	h := newHarness(t)
	h.wire = func(d *assistant.Deps) {
		d.Dictionary = definer{"ephemeral": "(adjective) Lasting a very short time"}
	}

	out, errOut, code := h.run("define ephemeral\nset_preference theme dark\nexit\n")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "ephemeral: (adjective) Lasting a very short time")
	assert.Contains(t, out, "Preference theme set to: dark")
}

// =============================================================================
// RESEARCH COMMANDS
// =============================================================================

type definer map[string]string

func (d definer) Lookup(ctx context.Context, word string) (string, error) {
	if def, ok := d[word]; ok {
		return def, nil
	}
	return "", tools.ErrNoDefinition
}

type fakeBackend struct {
	results []search.Result
}

func (f fakeBackend) Name() string { return "Fake" }

func (f fakeBackend) Search(ctx context.Context, query string) ([]search.Result, error) {
	return f.results, nil
}

func withResults(results ...search.Result) func(*assistant.Deps) {
	return func(d *assistant.Deps) {
		d.Search = search.NewSearcher(fakeBackend{results: results})
	}
}

func TestDefine(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "" }
	h.wire = func(d *assistant.Deps) {
		d.Dictionary = definer{"ephemeral": "(adjective) Lasting a very short time"}
	}

	out, errOut, code := h.run("", "define", "ephemeral")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "ephemeral: (adjective) Lasting a very short time")

	out, errOut, code = h.run("", "define", "xyzzy")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Could not find definition for 'xyzzy'")
}

func TestSearch_OpensBestResult(t *testing.T) {
	h := newHarness(t)
	h.wire = withResults(
		search.Result{URL: "https://example.com/cooking", Title: "Cooking basics", Source: "Fake"},
		search.Result{URL: "https://go.dev", Title: "The Go programming language", Description: "Go is fast", Source: "Fake"},
	)

	out, errOut, code := h.run("", "search", "go", "programming")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Search Results:")
	assert.Contains(t, out, "1. The Go programming language")
	assert.Contains(t, out, "✓ Opened top result in your browser")
	assert.Equal(t, []string{"https://go.dev"}, h.opened)
}

func TestSearch_NoOpen(t *testing.T) {
	h := newHarness(t)
	h.wire = withResults(search.Result{URL: "https://go.dev", Title: "Go", Source: "Fake"})

	out, _, code := h.run("", "search", "go", "--no-open")

	assert.Equal(t, ExitSuccess, code)
	assert.NotContains(t, out, "Opened top result")
	assert.Empty(t, h.opened)
}

func TestSearch_NoResults(t *testing.T) {
	h := newHarness(t)
	h.wire = withResults()

	out, _, code := h.run("", "search", "nothing")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "No results found")
	assert.Empty(t, h.opened)
}

func TestCompare_TooFewItems(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "compare", "python")

	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "Error: invalid items: required argument missing")
	assert.Contains(t, errOut, "Usage: compare")
}

func TestCompare_RawFallbackIsExported(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "Both are fine languages with different strengths." }

	out, errOut, code := h.run("", "compare", "python", "ruby")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "different strengths")
	assert.Contains(t, out, "Comparison saved:")

	entries, err := os.ReadDir(filepath.Join(h.notes, "comparisons"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBrainstorm(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string {
		return "1. Solar kites\nKites that charge phones.\n2. Rain harvesting\nRoof gardens that store water."
	}

	out, errOut, code := h.run("", "brainstorm", "green energy")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "Ideas for green energy:")
	assert.Contains(t, out, "1. Solar kites")
	assert.Contains(t, out, "2. Rain harvesting")
}

func TestBrainstorm_InvalidType(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "brainstorm", "robots", "--type", "poetry")

	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "invalid type: unsupported value (got: poetry)")
	assert.Contains(t, errOut, "assignment, general, project, writing")
}

// =============================================================================
// LOCAL STATE COMMANDS
// =============================================================================

func TestPreferences_SetAndShow(t *testing.T) {
	h := newHarness(t)

	out, _, code := h.run("", "set_preference", "theme", "dark")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Preference theme set to: dark")

	out, _, code = h.run("", "preferences")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Current Preferences")
	assert.Contains(t, out, "theme: dark")
	assert.Contains(t, out, "default_path: "+h.notes)
}

func TestPreferences_Unknown(t *testing.T) {
	h := newHarness(t)
	out, _, code := h.run("", "set_preference", "colour", "blue")

	assert.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "Unknown preference: colour")
}

func TestPreferences_InvalidValue(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "set_preference", "max_history", "lots")

	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "invalid max_history")
}

func TestDefaultPathEnv_AppliesAfterFirstRun(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "Deserts are dry." }

	_, errOut, code := h.run("", "preferences")
	require.Equal(t, ExitSuccess, code, errOut)

	envDir := filepath.Join(h.home, "from-env")
	t.Setenv("DEFAULT_PATH", envDir)

	_, errOut, code = h.run("n\n", "ask", "write notes about deserts")
	require.Equal(t, ExitSuccess, code, errOut)

	entries, err := os.ReadDir(envDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	data, err := os.ReadFile(filepath.Join(h.home, config.DirName, "preferences.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), envDir)
}

func TestNotes_ListsWrittenDocuments(t *testing.T) {
	h := newHarness(t)
	h.ollama.reply = func(string) string { return "Glaciers move slowly." }

	_, errOut, code := h.run("n\n", "ask", "write notes about glaciers")
	require.Equal(t, ExitSuccess, code, errOut)

	out, errOut, code := h.run("", "notes")
	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "glaciers")
	assert.Contains(t, out, "note")

	out, _, code = h.run("", "notes", "--kind", "comparison")
	require.Equal(t, ExitSuccess, code)
	assert.Contains(t, out, "No documents written yet.")
}

func TestNotes_InvalidKind(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "notes", "--kind", "poem")

	assert.Equal(t, ExitUsageError, code)
	assert.Contains(t, errOut, "invalid kind")
}

func TestInfo(t *testing.T) {
	h := newHarness(t)
	out, errOut, code := h.run("", "info")

	require.Equal(t, ExitSuccess, code, errOut)
	assert.Contains(t, out, "System Information")
	assert.Contains(t, out, "Installed Development Tools")
	assert.Contains(t, out, "Installed Models")
	assert.Contains(t, out, "testmodel: 3.8 GiB")
}

// =============================================================================
// SERVE
// =============================================================================

func TestServe_CORSOrigins(t *testing.T) {
	h := newHarness(t)
	var out, errOut bytes.Buffer
	rt := h.newRuntime("", &out, &errOut)
	require.NoError(t, rt.setup())
	t.Cleanup(rt.close)

	preflight := func(srv *server.Server, origin string) string {
		req := httptest.NewRequest(http.MethodOptions, "/api/chat", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, req)
		return rec.Header().Get("Access-Control-Allow-Origin")
	}

	custom := rt.newServer([]string{"https://notes.example.com"})
	assert.Equal(t, "https://notes.example.com", preflight(custom, "https://notes.example.com"))
	assert.Empty(t, preflight(custom, "http://localhost:3000"))

	def := rt.newServer(nil)
	assert.Equal(t, "http://localhost:3000", preflight(def, "http://localhost:3000"))
	assert.Empty(t, preflight(def, "https://notes.example.com"))
}

func TestServe_ReloadAppliesModelAndRateLimit(t *testing.T) {
	h := newHarness(t)
	var out, errOut bytes.Buffer
	rt := h.newRuntime("", &out, &errOut)
	require.NoError(t, rt.setup())
	t.Cleanup(rt.close)

	srv := server.NewServer(rt.app, server.Options{RateLimitPerHour: 50})
	next := rt.cfg.Clone()
	next.Ollama.Model = "llama3"
	next.Server.RateLimitPerHour = 10

	rt.reload(srv, next)

	assert.Equal(t, "llama3", rt.client.Model())
	assert.Equal(t, 10, srv.RateLimit())
	assert.Contains(t, out.String(), "Model changed to llama3")
	assert.Contains(t, out.String(), "Rate limit changed to 10 requests per hour")
}

// =============================================================================
// ERRORS
// =============================================================================

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantMsg  string
		wantHint string
	}{
		{
			name:     "not running",
			err:      ollama.ErrServiceUnavailable,
			wantMsg:  "Ollama is not running",
			wantHint: "Start it with: ollama serve",
		},
		{
			name:     "not running from brainstorm",
			err:      fmt.Errorf("%w: %w", assistant.ErrNotRunning, ollama.ErrServiceUnavailable),
			wantMsg:  "Ollama is not running",
			wantHint: "Start it with: ollama serve",
		},
		{
			name:     "model missing",
			err:      &ollama.ClientError{Type: ollama.ErrTypeModelNotFound, Message: "model 'mistral' not found"},
			wantMsg:  "Model 'mistral' not found",
			wantHint: "Install it with: ollama pull mistral",
		},
		{
			name:     "timeout",
			err:      fmt.Errorf("error creating summary: %w", ollama.ErrTimeout),
			wantMsg:  "The model took too long to respond",
			wantHint: "Try again, or raise ollama.timeout_secs in config.toml",
		},
		{
			name:     "weather key",
			err:      tools.ErrMissingAPIKey,
			wantMsg:  "OpenWeatherMap API key not found",
			wantHint: "Set OPENWEATHERMAP_API_KEY; get a key at: " + tools.WeatherSignupURL,
		},
		{
			name:    "backend",
			err:     &ollama.ClientError{Type: ollama.ErrTypeBackend, Message: "out of memory"},
			wantMsg: "Ollama server error: out of memory",
		},
		{
			name:    "bad status",
			err:     &ollama.ClientError{Type: ollama.ErrTypeBadStatus, Message: "backend failure", StatusCode: 500},
			wantMsg: "Ollama server error: backend failure",
		},
		{
			name:     "usage",
			err:      ErrMissingArgument("word", "define ephemeral"),
			wantMsg:  "invalid word: required argument missing",
			wantHint: "Usage: define ephemeral",
		},
		{
			name:    "other",
			err:     errors.New("disk full"),
			wantMsg: "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "mistral")
			if got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
			if got.Hint != tt.wantHint {
				t.Errorf("Hint = %q, want %q", got.Hint, tt.wantHint)
			}
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, ExitSuccess},
		{errors.New("boom"), ExitGeneralError},
		{ErrInvalidValue("type", "x", "a, b"), ExitUsageError},
		{fmt.Errorf("wrapped: %w", ErrMissingArgument("topic", "")), ExitUsageError},
		{NewCommandError("notes", "list", "no index", nil), ExitGeneralError},
	}
	for _, tt := range tests {
		if got := GetExitCode(tt.err); got != tt.want {
			t.Errorf("GetExitCode(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestCommandError_Error(t *testing.T) {
	err := NewCommandError("compare", "export", "could not save", errors.New("read-only"))
	if got, want := err.Error(), "compare export failed: could not save: read-only"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// =============================================================================
// TERMINAL
// =============================================================================

func TestColorsEnabled(t *testing.T) {
	t.Setenv("NO_COLOR", "")
	t.Setenv("FORCE_COLOR", "")
	var buf bytes.Buffer

	if colorsEnabled(&buf, false) {
		t.Error("colorsEnabled(buffer) = true, want false")
	}

	t.Setenv("FORCE_COLOR", "1")
	if !colorsEnabled(&buf, false) {
		t.Error("colorsEnabled with FORCE_COLOR = false, want true")
	}
	if colorsEnabled(&buf, true) {
		t.Error("colorsEnabled with --no-color = true, want false")
	}

	t.Setenv("NO_COLOR", "1")
	if colorsEnabled(&buf, false) {
		t.Error("colorsEnabled with NO_COLOR = true, want false")
	}
}

func TestPrintWidth_NotATerminal(t *testing.T) {
	var buf bytes.Buffer
	if got := printWidth(&buf, 120); got != 120 {
		t.Errorf("printWidth = %d, want 120", got)
	}
	if got := printWidth(&buf, 0); got != DefaultTerminalWidth {
		t.Errorf("printWidth = %d, want %d", got, DefaultTerminalWidth)
	}
}

func TestIsYes(t *testing.T) {
	for input, want := range map[string]bool{
		"y": true, "Y\n": true, " yes ": true, "n": false, "": false, "yep": false,
	} {
		if got := isYes(input); got != want {
			t.Errorf("isYes(%q) = %v, want %v", input, got, want)
		}
	}
}
