// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jeranaias/fiber/internal/detect"
	"github.com/jeranaias/fiber/internal/ollama"
	"github.com/jeranaias/fiber/internal/search"
	"github.com/jeranaias/fiber/internal/sections"
	"github.com/jeranaias/fiber/internal/session"
	"github.com/jeranaias/fiber/internal/storage"
)

// =============================================================================
// COMPARISON
// =============================================================================

// ComparisonTable builds the table for c. Columns follow c.Header() and
// rows follow the order the aspects were generated in.
func (p *Printer) ComparisonTable(c sections.Comparison) Table {
	s := p.Styles
	colStyles := make([]lipgloss.Style, 0, len(c.Items)+3)
	colStyles = append(colStyles, s.AspectCell)
	for range c.Items {
		colStyles = append(colStyles, s.ItemCell)
	}
	colStyles = append(colStyles, s.SameCell, s.DiffCell)

	return Table{
		Header:       c.Header(),
		Rows:         c.Rows(),
		ColumnStyles: colStyles,
		HeaderStyle:  s.Title,
		BorderStyle:  s.Separator,
	}
}

// Comparison writes c as a table followed by the summary and
// recommendation panels. A raw comparison is shown as one panel.
func (p *Printer) Comparison(c sections.Comparison) {
	if isRaw(c) {
		p.Panel(c.Points[0].Descriptions[0])
		return
	}

	p.Title(c.Title())
	p.Print(p.ComparisonTable(c).Render(p.opts.Width))

	if c.HasSummary() {
		p.Title("Summary:")
		p.Panel(c.Summary)
	}
	if c.HasRecommendation() {
		p.Title("Recommendation:")
		p.Panel(c.Recommendation)
	}
}

func isRaw(c sections.Comparison) bool {
	return len(c.Points) == 1 && c.Points[0].Aspect == "Comparison" && len(c.Points[0].Descriptions) == 1
}

// =============================================================================
// BRAINSTORM
// =============================================================================

// Ideas writes a numbered idea list under header. When no idea could be
// parsed, text is rendered as markdown instead.
func (p *Printer) Ideas(header string, ideas []sections.Idea, text string) {
	p.Println("\n" + p.Styles.Title.Render(header) + "\n")
	if len(ideas) == 0 {
		if text == "" {
			p.Error("No ideas generated")
			return
		}
		p.Markdown(text)
		return
	}
	for i, idea := range ideas {
		p.Println(p.Styles.Item.Render(fmt.Sprintf("%d. %s", i+1, idea.Title)))
		if idea.Description != "" {
			p.Println("   " + idea.Description + "\n")
		}
	}
}

// =============================================================================
// SEARCH
// =============================================================================

// SearchResults writes every result in ranked order.
func (p *Printer) SearchResults(resp *search.Response) {
	p.Println("\n" + p.Styles.Title.Render("Search Results:") + "\n")
	for i, r := range search.Ranked(resp.Results) {
		p.Println(p.Styles.Item.Render(fmt.Sprintf("%d. %s", i+1, r.Title)))
		if r.Description != "" {
			p.Println("   " + r.Description)
		}
		p.Println("   " + p.Styles.Info.Render(r.URL))
		p.Println("   " + p.Styles.Dim.Render("Source: "+r.Source) + "\n")
	}
	for _, w := range resp.Warnings {
		p.Warning("Note: " + w)
	}
}

// =============================================================================
// INFO
// =============================================================================

// SystemInfo writes the system, session and tool sections of `fiber info`.
func (p *Printer) SystemInfo(info detect.SystemInfo, summary session.Summary, tools []detect.ToolVersion) {
	p.Title("System Information")
	for _, f := range info.Fields() {
		p.Field(f.Label, f.Value)
	}

	if summary.CommandCount > 0 {
		p.Title("Session Information")
		p.Field("Started", summary.Started)
		p.Field("Commands Run", strconv.Itoa(summary.CommandCount))
		if summary.LastCommand != nil {
			p.Field("Last Command", summary.LastCommand.Command)
		}
	}

	p.Title("Installed Development Tools")
	installed := 0
	for _, t := range tools {
		if t.Installed() {
			p.Field(t.Name, t.Version)
			installed++
		}
	}
	if installed == 0 {
		p.Dim("none found")
	}
}

// Models writes the installed Ollama models with their sizes. err is the
// listing failure, if any.
func (p *Printer) Models(models []ollama.ModelInfo, err error) {
	p.Title("Installed Models")
	switch {
	case err != nil:
		p.Dim("unavailable (Ollama is not running)")
	case len(models) == 0:
		p.Dim("none found")
	}
	for _, m := range models {
		p.Field(m.Name, m.FormatSize())
	}
}

// Preferences writes every preference as "key: value".
func (p *Printer) Preferences(prefs session.Preferences) {
	p.Title("Current Preferences")
	for _, key := range session.Keys() {
		value, _ := prefs.Get(key)
		p.Field(key, value)
	}
}

// =============================================================================
// DOCUMENTS AND NOTICES
// =============================================================================

// Documents writes the document index, newest first, with relative times.
func (p *Printer) Documents(records []storage.DocumentRecord, now time.Time) {
	if len(records) == 0 {
		p.Dim("No documents written yet.")
		return
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			humanize.RelTime(r.CreatedAt, now, "ago", "from now"),
			string(r.Kind),
			r.Title,
			humanize.Comma(int64(r.Words)),
			r.Path,
		}
	}
	t := Table{
		Header:      []string{"When", "Kind", "Title", "Words", "Path"},
		Rows:        rows,
		HeaderStyle: p.Styles.Title,
		BorderStyle: p.Styles.Separator,
	}
	p.Print(t.Render(p.opts.Width))
}

// Notices writes each notice as a warning line.
func (p *Printer) Notices(notices []string) {
	for _, n := range notices {
		p.Warning("Note: " + n)
	}
}
