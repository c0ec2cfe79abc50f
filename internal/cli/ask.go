// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot questions and the interactive session.

package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/assistant"
	"github.com/jeranaias/fiber/internal/router"
)

const (
	// replPrompt is shown before every interactive line.
	replPrompt = "Fiber> "

	// replHistoryFile holds interactive input across sessions.
	replHistoryFile = "repl_history"

	welcomeMessage = "Welcome to Fiber! Type 'help' for available commands or 'exit' to quit."
)

// =============================================================================
// ASK
// =============================================================================

func newAskCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask Fiber a question or start interactive mode",
		Long: `Answers one question and exits, or starts an interactive session when
no question is given.

Questions are routed by what they ask for:
  write notes about <topic>   writes a markdown document
  weather in <city>           current conditions from OpenWeatherMap
  time in <zone>              local time in a city or IANA zone
  anything else               a direct answer from the model`,
		Example: `  fiber ask "write notes about the French revolution"
  fiber ask "weather in Paris"
  fiber ask`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return rt.repl(cmd.Context())
			}
			return rt.answer(cmd.Context(), strings.Join(args, " "), rt.confirmFromInput)
		},
	}
}

// answer processes one query and prints the reply. When a document was
// written, confirm is asked whether to open it.
func (rt *runtime) answer(ctx context.Context, query string, confirm func() bool) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return ErrMissingArgument("question", `ask "write notes about photosynthesis"`)
	}

	p := rt.printer
	progress := p.NewProgressLine()
	reply, err := rt.app.Process(ctx, query, assistant.Hooks{OnProgress: progress.Update})
	progress.Done()

	p.Notices(reply.Notices)
	if err != nil {
		return err
	}
	if reply.Text == "" {
		p.Error("Failed to get a response from the AI.")
		return nil
	}
	p.Say(reply.Text)

	if reply.Kind != router.KindDocument || reply.Document == nil || confirm == nil {
		return nil
	}
	if !confirm() {
		return nil
	}
	if err := rt.open(reply.Document.Path); err != nil {
		rt.logger.Warn("failed to open document", zap.String("path", reply.Document.Path), zap.Error(err))
		p.Warning("Could not open the document: " + err.Error())
	}
	return nil
}

// confirmFromInput reads one answer line from standard input.
func (rt *runtime) confirmFromInput() bool {
	line, err := bufio.NewReader(rt.streams.In).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return isYes(line)
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "y" || s == "yes"
}

// =============================================================================
// LINE INPUT
// =============================================================================

// lineReader reads interactive input. Prompt returns io.EOF at end of input
// and liner.ErrPromptAborted on Ctrl-C.
type lineReader interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
	Close() error
}

// newLineReader returns a line editor when stdin is a terminal and a plain
// line scanner otherwise.
func (rt *runtime) newLineReader() lineReader {
	if isTerminal(rt.streams.In) && isTerminal(rt.streams.Out) {
		return rt.newLinerReader()
	}
	return &scanReader{in: bufio.NewScanner(rt.streams.In), out: rt.streams.Out}
}

// linerReader is a liner.State whose history lives in the state directory.
type linerReader struct {
	*liner.State
	historyPath string
	logger      *zap.Logger
}

func (rt *runtime) newLinerReader() *linerReader {
	st := liner.NewLiner()
	st.SetCtrlCAborts(true)
	st.SetCompleter(func(line string) []string {
		return rt.store.Suggestions(line)
	})

	r := &linerReader{
		State:       st,
		historyPath: filepath.Join(rt.stateDir, replHistoryFile),
		logger:      rt.logger,
	}
	if f, err := os.Open(r.historyPath); err == nil {
		_, _ = st.ReadHistory(f)
		f.Close()
	}
	return r
}

// Close writes the history file and restores the terminal.
func (r *linerReader) Close() error {
	if f, err := os.OpenFile(r.historyPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600); err != nil {
		r.logger.Warn("failed to write input history", zap.Error(err))
	} else {
		_, _ = r.WriteHistory(f)
		f.Close()
	}
	return r.State.Close()
}

// scanReader reads lines from a pipe.
type scanReader struct {
	in  *bufio.Scanner
	out io.Writer
}

func (r *scanReader) Prompt(prompt string) (string, error) {
	fmt.Fprint(r.out, prompt)
	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.in.Text(), nil
}

func (r *scanReader) AppendHistory(string) {}

func (r *scanReader) Close() error { return nil }

// =============================================================================
// INTERACTIVE SESSION
// =============================================================================

// repl runs the interactive session until exit, end of input or Ctrl-C.
// Errors from a single line are printed and the session continues.
func (rt *runtime) repl(ctx context.Context) error {
	lr := rt.newLineReader()
	defer lr.Close()

	p := rt.printer
	p.Info(welcomeMessage)

	for {
		if ctx.Err() != nil {
			return nil
		}
		line, err := lr.Prompt(replPrompt)
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			p.Warning("\nSession terminated by user")
			return nil
		case errors.Is(err, io.EOF):
			p.Warning("\nGoodbye!")
			return nil
		case err != nil:
			return err
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		lr.AppendHistory(input)

		switch strings.ToLower(input) {
		case "exit", "quit":
			p.Warning("Goodbye!")
			return nil
		case "help":
			p.Markdown(assistant.HelpText)
			continue
		}

		rt.store.AddCommand(input)
		confirm := func() bool {
			answer, err := lr.Prompt("")
			return err == nil && isYes(answer)
		}
		if err := rt.handleLine(ctx, input, confirm); err != nil {
			DisplayError(p, err, rt.model())
		}
		rt.app.Save()
	}
}

// handleLine runs one interactive line: a fiber command when its first
// word names one, otherwise a question.
func (rt *runtime) handleLine(ctx context.Context, input string, confirm func() bool) error {
	fields := strings.Fields(input)
	rest := strings.TrimSpace(strings.TrimPrefix(input, fields[0]))

	switch strings.ToLower(fields[0]) {
	case "info":
		return rt.info(ctx)
	case "preferences":
		rt.printer.Preferences(rt.store.Preferences())
		return nil
	case "set_preference":
		if len(fields) < 3 {
			return ErrMissingArgument("value", "set_preference <key> <value>")
		}
		return rt.setPreference(fields[1], strings.Join(fields[2:], " "))
	case "notes":
		return rt.notes(ctx, DefaultNotesLimit, nil, false)
	case "chat":
		return rt.chat(ctx, rest)
	}

	cmd, ok := router.ParseCommand(input)
	if !ok {
		return rt.answer(ctx, input, confirm)
	}
	switch cmd.Name {
	case router.CommandDefine:
		return rt.define(ctx, cmd.Args)
	case router.CommandSearch:
		return rt.search(ctx, cmd.Args, rt.cfg.Search.OpenBrowser)
	case router.CommandSummarize:
		return rt.summarize(ctx, cmd.Args, false)
	case router.CommandCompare:
		items, err := cmd.CompareItems()
		if err != nil {
			return ErrMissingArgument("items", "compare thing1 vs thing2")
		}
		return rt.compare(ctx, items, true)
	case router.CommandBrainstorm:
		topic, category := cmd.BrainstormArgs()
		return rt.brainstorm(ctx, topic, category)
	}
	return rt.answer(ctx, input, confirm)
}
