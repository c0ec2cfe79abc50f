// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// commands.go - Research commands: search, compare, define, brainstorm,
// chat and summarize.

package cli

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/fiber/internal/assistant"
	"github.com/jeranaias/fiber/internal/search"
	"github.com/jeranaias/fiber/internal/tools"
)

// =============================================================================
// SEARCH
// =============================================================================

func newSearchCommand(rt *runtime) *cobra.Command {
	var noOpen bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the web and open the most relevant result",
		Long: `Queries Google, Bing and DuckDuckGo at once, lists every result and
opens the best match in your browser.`,
		Example: `  fiber search "python web development"
  fiber search history of the silk road --no-open`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			openBest := rt.cfg.Search.OpenBrowser && !noOpen
			return rt.search(cmd.Context(), strings.Join(args, " "), openBest)
		},
	}
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "do not open the best result")
	return cmd
}

func (rt *runtime) search(ctx context.Context, query string, openBest bool) error {
	query = strings.Trim(strings.TrimSpace(query), `"'`)
	if query == "" {
		return ErrMissingArgument("query", `search "python web development"`)
	}
	rt.app.Track("search", map[string]string{"query": query})

	p := rt.printer
	p.Println("\n" + p.Styles.Title.Render("🔍 Searching...") + "\n")

	var resp *search.Response
	err := p.RunSpinner(ctx, "Searching", func(ctx context.Context) error {
		var err error
		resp, err = rt.app.Search(ctx, query)
		return err
	})
	if errors.Is(err, search.ErrNoResults) {
		p.Error("No results found")
		p.Notices(searchWarnings(resp))
		return nil
	}
	if err != nil {
		return err
	}

	p.SearchResults(resp)
	if !openBest {
		return nil
	}
	if err := rt.open(resp.Best.URL); err != nil {
		rt.logger.Warn("failed to open browser", zap.String("url", resp.Best.URL), zap.Error(err))
		p.Warning("Could not open a browser: " + err.Error())
		return nil
	}
	p.Success("\n✓ Opened top result in your browser")
	return nil
}

func searchWarnings(resp *search.Response) []string {
	if resp == nil {
		return nil
	}
	return resp.Warnings
}

// =============================================================================
// COMPARE
// =============================================================================

func newCompareCommand(rt *runtime) *cobra.Command {
	var noExport bool
	cmd := &cobra.Command{
		Use:   "compare <item> <item> [item...]",
		Short: "Compare theories, ideas or arguments side by side",
		Example: `  fiber compare "Python" "JavaScript" "Ruby"
  fiber compare capitalism socialism --no-export`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.compare(cmd.Context(), args, !noExport)
		},
	}
	cmd.Flags().BoolVar(&noExport, "no-export", false, "do not save the comparison as markdown")
	return cmd
}

func (rt *runtime) compare(ctx context.Context, items []string, export bool) error {
	if len(items) < 2 {
		return ErrMissingArgument("items", `compare "Python" "JavaScript"`)
	}
	rt.app.Track("compare", map[string]string{"items": strings.Join(items, ", ")})

	p := rt.printer
	var res assistant.ComparisonResult
	err := p.RunSpinner(ctx, "Analyzing and comparing items", func(ctx context.Context) error {
		var err error
		res, err = rt.app.Compare(ctx, items, assistant.Hooks{})
		return err
	})
	if errors.Is(err, assistant.ErrTooFewItems) {
		return ErrMissingArgument("items", `compare "Python" "JavaScript"`)
	}
	if err != nil {
		return err
	}

	p.Println("")
	p.Comparison(res.Comparison)
	p.Notices(res.Notices)

	if !export {
		return nil
	}
	rec, err := rt.app.ExportComparison(ctx, res)
	if err != nil {
		return NewCommandError("compare", "export", "could not save the comparison", err)
	}
	p.Println("\n" + p.Styles.Success.Render("Comparison saved:") + " " + rec.Path)
	return nil
}

// =============================================================================
// DEFINE
// =============================================================================

func newDefineCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "define <word>",
		Short:   "Get a simple definition of a word",
		Example: `  fiber define ephemeral`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.define(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func (rt *runtime) define(ctx context.Context, word string) error {
	word = strings.Trim(strings.TrimSpace(word), `"'`)
	if word == "" {
		return ErrMissingArgument("word", "define ephemeral")
	}
	rt.app.Track("define", map[string]string{"word": word})

	def, err := rt.app.Define(ctx, word)
	if errors.Is(err, tools.ErrNoDefinition) {
		rt.printer.Error(fmt.Sprintf("\nCould not find definition for '%s'", word))
		return nil
	}
	if err != nil {
		return err
	}
	p := rt.printer
	p.Println("\n" + p.Styles.Label.Render(word+":") + " " + def)
	return nil
}

// =============================================================================
// BRAINSTORM
// =============================================================================

func newBrainstormCommand(rt *runtime) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "brainstorm <topic>",
		Short: "Generate creative ideas based on a topic",
		Long: `Without --type, brainstorm asks for five ideas as a numbered list. With
--type it asks for three ideas shaped for that kind of work.`,
		Example: `  fiber brainstorm "artificial intelligence"
  fiber brainstorm "climate change" --type project`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.brainstorm(cmd.Context(), strings.Join(args, " "), category)
		},
	}
	cmd.Flags().StringVarP(&category, "type", "t", "",
		"idea category: "+strings.Join(categoryNames(), ", "))
	return cmd
}

func categoryNames() []string {
	return slices.Sorted(maps.Keys(assistant.Categories))
}

func (rt *runtime) brainstorm(ctx context.Context, topic, category string) error {
	topic = strings.Trim(strings.TrimSpace(topic), `"'`)
	if topic == "" {
		return ErrMissingArgument("topic", `brainstorm "climate change"`)
	}
	category = strings.ToLower(strings.TrimSpace(category))
	if category != "" {
		if _, ok := assistant.Categories[category]; !ok {
			return ErrInvalidValue("type", category, strings.Join(categoryNames(), ", "))
		}
	}
	rt.app.Track("brainstorm", map[string]string{"topic": topic, "type": category})

	var res assistant.BrainstormResult
	err := rt.printer.RunSpinner(ctx, "Brainstorming ideas", func(ctx context.Context) error {
		var err error
		res, err = rt.app.Brainstorm(ctx, topic, category, assistant.Hooks{})
		return err
	})
	if errors.Is(err, assistant.ErrNoIdeas) {
		rt.printer.Error("\nNo ideas generated")
		return nil
	}
	if err != nil {
		return err
	}
	rt.printer.Ideas(res.Header(), res.Ideas, res.Text)
	return nil
}

// =============================================================================
// CHAT
// =============================================================================

func newChatCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:     "chat <message>",
		Short:   "Have a conversation with the AI",
		Example: `  fiber chat "explain recursion like I'm five"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.chat(cmd.Context(), strings.Join(args, " "))
		},
	}
}

func (rt *runtime) chat(ctx context.Context, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return ErrMissingArgument("message", `chat "hello"`)
	}
	rt.app.Track("chat", map[string]string{"message": message})

	var reply string
	err := rt.printer.RunSpinner(ctx, "Thinking", func(ctx context.Context) error {
		var err error
		reply, err = rt.app.Chat(ctx, message, assistant.Hooks{})
		return err
	})
	if err != nil {
		return err
	}
	rt.printer.Say(reply)
	return nil
}

// =============================================================================
// SUMMARIZE
// =============================================================================

func newSummarizeCommand(rt *runtime) *cobra.Command {
	var save bool
	cmd := &cobra.Command{
		Use:   "summarize <url>",
		Short: "Summarize a webpage article",
		Example: `  fiber summarize https://example.com/article
  fiber summarize https://example.com/article --save`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.summarize(cmd.Context(), args[0], save)
		},
	}
	cmd.Flags().BoolVarP(&save, "save", "s", false, "also save the summary as a note")
	return cmd
}

func (rt *runtime) summarize(ctx context.Context, url string, save bool) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrMissingArgument("url", "summarize https://example.com/article")
	}
	rt.app.Track("summarize", map[string]string{"url": url})

	var sum assistant.Summary
	err := rt.printer.RunSpinner(ctx, "Summarizing "+url, func(ctx context.Context) error {
		var err error
		sum, err = rt.app.Summarize(ctx, url)
		return err
	})
	if err != nil {
		return err
	}

	md := sum.Text
	if sum.Article.Title != "" {
		md = "# " + sum.Article.Title + "\n\n" + sum.Text
	}
	rt.printer.Markdown(md)

	if !save {
		return nil
	}
	rec, err := rt.app.SaveSummary(ctx, sum)
	if err != nil {
		return NewCommandError("summarize", "save", "could not write the note", err)
	}
	rt.printer.Success("Summary saved: " + rec.Path)
	return nil
}
