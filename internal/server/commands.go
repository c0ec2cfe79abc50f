// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/http"
	"slices"
	"strings"

	"github.com/jeranaias/fiber/internal/assistant"
	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/router"
	"github.com/jeranaias/fiber/internal/search"
	"github.com/jeranaias/fiber/internal/tools"
)

// HelpText is the reply to the help command.
const HelpText = `Available commands:
- help: Show this help message
- define <word>: Get the definition of a word
- search <query>: Search for information
- summarize <text>: Summarize a piece of text
- compare <thing1> vs <thing2>: Compare two things
- brainstorm <topic> [--type <type>]: Generate ideas about a topic`

// maxOtherResults is how many results follow the best one.
const maxOtherResults = 3

// ============================================================================
// EVENT STREAM
// ============================================================================

// TextEvent is the payload of every data frame.
type TextEvent struct {
	Text string `json:"text"`
}

// DoneFrame ends every stream.
const DoneFrame = "data: [DONE]\n\n"

// eventStream writes server-sent events. Headers go out with the first
// frame so that errors found earlier can still be plain JSON responses.
type eventStream struct {
	w       http.ResponseWriter
	rc      *http.ResponseController
	started bool
}

func newEventStream(w http.ResponseWriter) *eventStream {
	return &eventStream{w: w, rc: http.NewResponseController(w)}
}

// Started reports whether any frame has been written.
func (e *eventStream) Started() bool {
	return e.started
}

func (e *eventStream) start() {
	if e.started {
		return
	}
	e.started = true
	h := e.w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	e.w.WriteHeader(http.StatusOK)
}

// Send writes one {"text": ...} frame and flushes it.
func (e *eventStream) Send(text string) {
	e.start()
	data, err := json.Marshal(TextEvent{Text: text})
	if err != nil {
		return
	}
	fmt.Fprintf(e.w, "data: %s\n\n", data)
	_ = e.rc.Flush()
}

// Done writes the terminating frame.
func (e *eventStream) Done() {
	e.start()
	fmt.Fprint(e.w, DoneFrame)
	_ = e.rc.Flush()
}

// hooks forwards every non-empty fragment as a frame.
func (e *eventStream) hooks() assistant.Hooks {
	return assistant.Hooks{
		OnFragment: func(f ollama.Fragment) {
			if f.Text != "" {
				e.Send(f.Text)
			}
		},
	}
}

// ============================================================================
// ERRORS
// ============================================================================

// requestError is a problem with the message itself; it becomes a 400.
type requestError struct {
	msg string
}

func (e *requestError) Error() string {
	return e.msg
}

func badRequest(msg string) error {
	return &requestError{msg: msg}
}

// describeError turns err into the text shown to a browser user.
func describeError(err error, model string) string {
	var clientErr *ollama.ClientError
	switch {
	case ollama.IsModelNotFound(err):
		return fmt.Sprintf("Model '%s' not found. Please ensure it's installed: ollama pull %s", model, model)
	case ollama.IsServiceUnavailable(err), errors.Is(err, assistant.ErrNotRunning):
		return "Could not connect to Ollama. Please ensure Ollama is running (ollama serve)"
	case ollama.IsRateLimited(err):
		return assistant.RateLimitedReply
	case ollama.IsTimeout(err):
		return "The model took too long to respond. Please try again."
	case errors.As(err, &clientErr) && clientErr.Message != "":
		return "Ollama server error: " + clientErr.Message
	case errors.Is(err, assistant.ErrUnavailable):
		return "This command is not available on this server"
	case err.Error() != "":
		return err.Error()
	default:
		return "Failed to process message"
	}
}

// ============================================================================
// DISPATCH
// ============================================================================

// dispatch runs message as a command when its first word names one and as
// chat otherwise.
func (s *Server) dispatch(ctx context.Context, message string, events *eventStream) error {
	cmd, ok := router.ParseCommand(message)
	if !ok {
		return s.chat(ctx, message, events)
	}

	switch cmd.Name {
	case router.CommandHelp:
		events.Send(HelpText)
		return nil
	case router.CommandDefine:
		return s.define(ctx, cmd.Args, events)
	case router.CommandSearch:
		return s.search(ctx, cmd.Args, events)
	case router.CommandSummarize:
		return s.summarize(ctx, cmd.Args, events)
	case router.CommandCompare:
		return s.compare(ctx, cmd, events)
	case router.CommandBrainstorm:
		return s.brainstorm(ctx, cmd, events)
	}
	return s.chat(ctx, message, events)
}

func (s *Server) chat(ctx context.Context, message string, events *eventStream) error {
	text, err := s.app.Chat(ctx, message, events.hooks())
	if err != nil {
		return err
	}
	// Canned replies arrive without fragments.
	if !events.Started() {
		events.Send(text)
	}
	return nil
}

func (s *Server) define(ctx context.Context, term string, events *eventStream) error {
	if term == "" {
		return badRequest("Please provide a word to define")
	}

	events.Send(fmt.Sprintf("📚 Looking up definitions for %q...\n\n", term))
	def, err := s.app.Define(ctx, term)
	switch {
	case errors.Is(err, tools.ErrNoDefinition):
		events.Send(fmt.Sprintf("Could not find definitions for %q. Please check the spelling and try again.\n", term))
	case err != nil:
		events.Send(fmt.Sprintf("Error looking up definition: %s\n", describeError(err, s.app.Model())))
	default:
		events.Send(fmt.Sprintf("📖 %s: %s\n", term, def))
	}
	return nil
}

func (s *Server) search(ctx context.Context, query string, events *eventStream) error {
	if query == "" {
		return badRequest("Please provide a search query")
	}

	events.Send(fmt.Sprintf("🔍 Searching across multiple engines for: %q\n", query))
	resp, err := s.app.Search(ctx, query)
	switch {
	case errors.Is(err, search.ErrNoResults):
		events.Send("No results found.\n")
	case err != nil:
		events.Send(fmt.Sprintf("Error performing search: %s\n", describeError(err, s.app.Model())))
	default:
		events.Send(FormatSearch(resp))
	}
	return nil
}

// FormatSearch renders a search response as plain text, best result first.
func FormatSearch(resp *search.Response) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d results.\n\n", len(resp.Results))

	best := resp.Best
	sb.WriteString("🏆 Best Result:\n")
	fmt.Fprintf(&sb, "Title: %s\n", best.Title)
	fmt.Fprintf(&sb, "Link: %s\n", best.URL)
	fmt.Fprintf(&sb, "Source: %s\n", best.Source)
	if best.Description != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", best.Description)
	}

	var others []search.Result
	for _, r := range resp.Results {
		if r.URL != best.URL {
			others = append(others, r)
		}
	}
	if len(others) > maxOtherResults {
		others = others[:maxOtherResults]
	}
	if len(others) > 0 {
		sb.WriteString("\n📑 Other top results:\n")
		for i, r := range others {
			fmt.Fprintf(&sb, "\n%d. %s\n", i+2, r.Title)
			fmt.Fprintf(&sb, "   Link: %s\n", r.URL)
			fmt.Fprintf(&sb, "   Source: %s\n", r.Source)
		}
	}

	for _, w := range resp.Warnings {
		fmt.Fprintf(&sb, "\nNote: %s\n", w)
	}
	return sb.String()
}

// summarize treats a lone http(s) URL as a page to fetch and anything else
// as the text to summarize.
func (s *Server) summarize(ctx context.Context, args string, events *eventStream) error {
	if args == "" {
		return badRequest("Please provide text to summarize")
	}

	if isURL(args) {
		events.Send(fmt.Sprintf("📄 Summarizing %s...\n\n", args))
		sum, err := s.app.Summarize(ctx, args)
		if err != nil {
			return err
		}
		if sum.Article.Title != "" {
			events.Send(sum.Article.Title + "\n\n")
		}
		events.Send(sum.Text)
		return nil
	}

	_, err := s.app.SummarizeText(ctx, args, events.hooks())
	return err
}

func isURL(s string) bool {
	if strings.ContainsAny(s, " \t\n") {
		return false
	}
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func (s *Server) compare(ctx context.Context, cmd router.Command, events *eventStream) error {
	items, err := cmd.CompareItems()
	if err != nil {
		return badRequest("Please use the format: compare thing1 vs thing2")
	}

	res, err := s.app.Compare(ctx, items, events.hooks())
	if err != nil {
		return err
	}
	for _, n := range res.Notices {
		events.Send(fmt.Sprintf("\n\nNote: %s", n))
	}
	return nil
}

func (s *Server) brainstorm(ctx context.Context, cmd router.Command, events *eventStream) error {
	topic, category := cmd.BrainstormArgs()
	if topic == "" {
		return badRequest("Please provide a topic to brainstorm about")
	}
	if category == "" {
		category = "general"
	}
	if _, ok := assistant.Categories[category]; !ok {
		names := slices.Sorted(maps.Keys(assistant.Categories))
		return badRequest("Invalid type. Available types: " + strings.Join(names, ", "))
	}

	events.Send(fmt.Sprintf("🎨 Brainstorming %s ideas about: %q\n\n", category, topic))
	if _, err := s.app.Brainstorm(ctx, topic, category, events.hooks()); err != nil {
		events.Send(fmt.Sprintf("Error brainstorming ideas: %s\n", describeError(err, s.app.Model())))
	}
	return nil
}
