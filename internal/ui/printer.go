// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// DefaultWidth is used when no terminal width is known.
const DefaultWidth = 80

// SpeakerName prefixes assistant messages in the interactive session.
const SpeakerName = "Fiber:"

// Options configure a Printer.
type Options struct {
	// Color enables ANSI styling.
	Color bool

	// Width is the wrap width for markdown and tables.
	Width int

	// Interactive enables in-place redraws (progress bar, spinner). It
	// should only be set when the output is a terminal.
	Interactive bool
}

// Printer writes styled output to a single writer. Safe for concurrent use.
type Printer struct {
	mu       sync.Mutex
	out      io.Writer
	opts     Options
	renderer *lipgloss.Renderer

	// Styles are bound to this printer's renderer.
	Styles Styles

	mdOnce sync.Once
	md     *glamour.TermRenderer
}

// NewPrinter returns a Printer for out.
func NewPrinter(out io.Writer, opts Options) *Printer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	r := lipgloss.NewRenderer(out)
	if !opts.Color {
		r.SetColorProfile(termenv.Ascii)
		r.SetHasDarkBackground(true)
	}
	return &Printer{
		out:      out,
		opts:     opts,
		renderer: r,
		Styles:   NewStyles(r),
	}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer { return p.out }

// Color reports whether styling is enabled.
func (p *Printer) Color() bool { return p.opts.Color }

// Width returns the wrap width.
func (p *Printer) Width() int { return p.opts.Width }

// Interactive reports whether in-place redraws are allowed.
func (p *Printer) Interactive() bool { return p.opts.Interactive }

// =============================================================================
// PLAIN OUTPUT
// =============================================================================

// Print writes s as-is.
func (p *Printer) Print(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.out, s)
}

// Println writes s followed by a newline.
func (p *Printer) Println(s string) {
	p.Print(s + "\n")
}

// Printf formats and writes.
func (p *Printer) Printf(format string, args ...any) {
	p.Print(fmt.Sprintf(format, args...))
}

// =============================================================================
// STYLED LINES
// =============================================================================

// Title writes a bold heading preceded by a blank line.
func (p *Printer) Title(s string) {
	p.Println("\n" + p.Styles.Title.Render(s))
}

// Field writes "label: value".
func (p *Printer) Field(label, value string) {
	p.Println(p.Styles.Label.Render(label+":") + " " + p.Styles.Value.Render(value))
}

// Success writes a green line.
func (p *Printer) Success(s string) { p.Println(p.Styles.Success.Render(s)) }

// Warning writes a yellow line.
func (p *Printer) Warning(s string) { p.Println(p.Styles.Warning.Render(s)) }

// Error writes a red line.
func (p *Printer) Error(s string) { p.Println(p.Styles.Error.Render(s)) }

// Info writes a cyan line.
func (p *Printer) Info(s string) { p.Println(p.Styles.Info.Render(s)) }

// Dim writes a muted line.
func (p *Printer) Dim(s string) { p.Println(p.Styles.Dim.Render(s)) }

// Say writes an assistant message: "Fiber: s".
func (p *Printer) Say(s string) {
	p.Println(p.Styles.Speaker.Render(SpeakerName) + " " + s)
}

// Separator writes a horizontal rule no wider than the print width.
func (p *Printer) Separator() {
	w := p.opts.Width
	if w > 80 {
		w = 80
	}
	p.Println(p.Styles.Separator.Render(strings.Repeat("─", w)))
}

// =============================================================================
// MARKDOWN AND PANELS
// =============================================================================

// RenderMarkdown returns md rendered for the terminal. It returns md
// unchanged when rendering fails.
func (p *Printer) RenderMarkdown(md string) string {
	p.mdOnce.Do(func() {
		style := "notty"
		if p.opts.Color {
			style = "light"
			if p.renderer.HasDarkBackground() {
				style = "dark"
			}
		}
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(p.opts.Width),
		)
		if err == nil {
			p.md = r
		}
	})
	if p.md == nil {
		return md
	}
	out, err := p.md.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Markdown writes md rendered for the terminal.
func (p *Printer) Markdown(md string) {
	out := p.RenderMarkdown(md)
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	p.Print(out)
}

// Panel writes body inside a rounded border.
func (p *Printer) Panel(body string) {
	width := p.opts.Width - 4
	if width < 20 {
		width = 20
	}
	p.Println(p.Styles.Panel.Width(width).Render(strings.TrimSpace(body)))
}
