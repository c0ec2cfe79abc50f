// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Root command and per-invocation wiring for fiber.

package cli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/assistant"
	"github.com/jeranaias/fiber/internal/config"
	"github.com/jeranaias/fiber/internal/detect"
	"github.com/jeranaias/fiber/internal/logging"
	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/search"
	"github.com/jeranaias/fiber/internal/session"
	"github.com/jeranaias/fiber/internal/storage"
	"github.com/jeranaias/fiber/internal/tools"
	"github.com/jeranaias/fiber/internal/ui"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// skipSetup marks commands that run without loading any state.
const skipSetup = "skip-setup"

// Streams are the standard streams a command reads and writes.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process's standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// =============================================================================
// RUNTIME
// =============================================================================

// runtime holds everything a command needs. The root command builds it
// once, before the command runs, and Run closes it afterwards.
type runtime struct {
	streams Streams
	v       *viper.Viper

	// Flags.
	cfgPath string

	// Set by setup.
	cfg      *config.Config
	stateDir string
	logger   *zap.Logger
	closeLog func() error
	store    *session.Store
	index    *storage.Index
	client   *ollama.Client
	app      *assistant.App
	printer  *ui.Printer
	detector *detect.Detector

	// Replaced in tests.
	httpClient *http.Client
	open       func(target string) error
	now        func() time.Time
	wire       func(*assistant.Deps)
}

func newRuntime(streams Streams) *runtime {
	return &runtime{
		streams: streams,
		v:       config.NewViper(),
		open:    search.OpenBrowser,
		now:     time.Now,
	}
}

// setup loads config and state and builds the assistant.
func (rt *runtime) setup() error {
	stateDir, err := config.Dir()
	if err != nil {
		return err
	}
	rt.stateDir = stateDir

	if rt.cfgPath == "" {
		rt.cfgPath = filepath.Join(stateDir, config.FileName)
	}
	cfg, err := config.Load(rt.cfgPath)
	if err != nil {
		return err
	}
	cfg.ApplyOverrides(rt.v)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	rt.cfg = cfg

	logDir := cfg.Log.Dir
	if logDir == "" {
		logDir = filepath.Join(stateDir, "logs")
	}
	logger, closeLog, err := logging.New(logging.Options{Debug: cfg.Log.Debug, Dir: logDir})
	if err != nil {
		return err
	}
	rt.logger, rt.closeLog = logger, closeLog

	rt.printer = ui.NewPrinter(rt.streams.Out, ui.Options{
		Color:       colorsEnabled(rt.streams.Out, cfg.UI.NoColor),
		Width:       printWidth(rt.streams.Out, cfg.UI.Width),
		Interactive: isTerminal(rt.streams.Out),
	})

	// DEFAULT_PATH wins over the saved default_path on every run.
	var pathOverride string
	if rt.v.IsSet(config.KeyNotesDir) {
		pathOverride = cfg.Notes.Dir
	}
	store, err := session.Open(session.Options{
		Dir:          stateDir,
		DefaultPath:  cfg.Notes.Dir,
		PathOverride: pathOverride,
		Clock:        rt.now,
		Logger:       logger,
	})
	if err != nil {
		return err
	}
	rt.store = store

	deps := assistant.Deps{
		Session:  store,
		NotesDir: cfg.Notes.Dir,
		Logger:   logger,
		Now:      rt.now,
		Clock:    tools.Clock{Now: rt.now},
	}

	// The index only lists documents; fiber works without it.
	if idx, err := storage.Open(storage.DefaultPath(stateDir)); err != nil {
		logger.Warn("document index unavailable", zap.Error(err))
	} else {
		rt.index = idx.WithClock(rt.now)
		deps.Index = rt.index
	}

	rt.client = ollama.NewClientWithConfig(&ollama.ClientConfig{
		BaseURL:      cfg.Ollama.URL,
		DefaultModel: cfg.Ollama.Model,
		Timeout:      cfg.OllamaTimeout(),
		MaxAttempts:  cfg.Ollama.MaxAttempts,
		RetryDelay:   cfg.RetryDelay(),
	}).WithLogger(logger)
	deps.Generator = rt.client

	weather := tools.NewWeather(cfg.Weather.APIKey, rt.httpClient)
	if cfg.Weather.BaseURL != "" {
		weather.BaseURL = cfg.Weather.BaseURL
	}
	deps.Weather = weather
	deps.Dictionary = tools.NewDictionary(rt.httpClient)
	deps.Articles = tools.NewArticleFetcher(rt.httpClient)

	deps.Search = search.NewSearcher(search.DefaultBackends(rt.httpClient)...).
		WithTimeout(cfg.SearchTimeout()).
		WithLogger(logger)

	if rt.wire != nil {
		rt.wire(&deps)
	}
	rt.app = assistant.New(deps)
	rt.detector = detect.NewDetector()

	logger.Debug("fiber started",
		zap.String("version", Version),
		zap.String("model", cfg.Ollama.Model),
		zap.String("config", rt.cfgPath))
	return nil
}

// close saves the session and releases everything setup opened.
func (rt *runtime) close() {
	if rt.app != nil {
		rt.app.Save()
	}
	if rt.index != nil {
		if err := rt.index.Close(); err != nil {
			rt.logger.Warn("failed to close document index", zap.Error(err))
		}
	}
	if rt.closeLog != nil {
		_ = rt.closeLog()
	}
}

// model is the configured model name, for error hints.
func (rt *runtime) model() string {
	if rt.client != nil {
		return rt.client.Model()
	}
	if rt.cfg != nil {
		return rt.cfg.Ollama.Model
	}
	return config.Default().Ollama.Model
}

// errorPrinter writes error lines to the error stream.
func (rt *runtime) errorPrinter() *ui.Printer {
	noColor := rt.cfg != nil && rt.cfg.UI.NoColor
	return ui.NewPrinter(rt.streams.Err, ui.Options{Color: colorsEnabled(rt.streams.Err, noColor)})
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

// newRootCommand builds the command tree around rt.
func newRootCommand(rt *runtime) *cobra.Command {
	root := &cobra.Command{
		Use:   "fiber",
		Short: "A local AI assistant for notes, research and ideas",
		Long: `fiber is a terminal assistant backed by a local Ollama model.

It writes study notes, answers questions, looks up the weather and time,
summarizes web pages, compares ideas side by side and brainstorms.

Run without arguments to start an interactive session.`,
		Example: `  fiber
  fiber ask "write notes about photosynthesis"
  fiber compare "stoicism" "epicureanism"
  fiber brainstorm "science fair" --type project
  fiber serve --port 3000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations[skipSetup] != "" {
				return nil
			}
			return rt.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.repl(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&rt.cfgPath, "config", "", "config file (default ~/.fiber/config.toml)")
	flags.String("model", "", "Ollama model to use (env OLLAMA_MODEL)")
	flags.String("ollama-url", "", "Ollama base URL (env FIBER_OLLAMA_URL)")
	flags.BoolP("verbose", "v", false, "write debug entries to the log file")
	flags.Bool("no-color", false, "disable colored output")
	for key, name := range map[string]string{
		config.KeyModel:     "model",
		config.KeyOllamaURL: "ollama-url",
		config.KeyVerbose:   "verbose",
		config.KeyNoColor:   "no-color",
	} {
		// BindPFlag only fails for a nil flag.
		_ = rt.v.BindPFlag(key, flags.Lookup(name))
	}

	root.SetIn(rt.streams.In)
	root.SetOut(rt.streams.Out)
	root.SetErr(rt.streams.Err)

	root.AddCommand(
		newAskCommand(rt),
		newChatCommand(rt),
		newSearchCommand(rt),
		newCompareCommand(rt),
		newDefineCommand(rt),
		newBrainstormCommand(rt),
		newSummarizeCommand(rt),
		newInfoCommand(rt),
		newPreferencesCommand(rt),
		newSetPreferenceCommand(rt),
		newNotesCommand(rt),
		newServeCommand(rt),
		newVersionCommand(rt),
	)
	return root
}

// =============================================================================
// ENTRY POINTS
// =============================================================================

// Run executes the command line in args and returns the exit code. Errors
// are printed to streams.Err.
func Run(ctx context.Context, args []string, streams Streams) int {
	return run(ctx, newRuntime(streams), args)
}

func run(ctx context.Context, rt *runtime, args []string) int {
	root := newRootCommand(rt)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	rt.close()
	if err != nil {
		DisplayError(rt.errorPrinter(), err, rt.model())
		if rt.logger != nil {
			rt.logger.Error("command failed", zap.Strings("args", args), zap.Error(err))
		}
		return GetExitCode(err)
	}
	return ExitSuccess
}

// Execute runs fiber with the process arguments and standard streams.
func Execute(ctx context.Context) int {
	return Run(ctx, os.Args[1:], StdStreams())
}

// =============================================================================
// VERSION
// =============================================================================

func newVersionCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(rt.streams.Out, "fiber %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
