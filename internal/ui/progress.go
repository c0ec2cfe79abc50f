// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/muesli/termenv"

	"github.com/jeranaias/fiber/internal/ollama"
)

// progressBarWidth is the bar's width in cells, excluding the label.
const progressBarWidth = 30

// ProgressLine redraws a single progress line in place while a document
// streams. Nothing is drawn when the printer is not interactive.
type ProgressLine struct {
	p     *Printer
	bar   progress.Model
	drawn bool
}

// NewProgressLine returns a ProgressLine writing through p.
func (p *Printer) NewProgressLine() *ProgressLine {
	opts := []progress.Option{
		progress.WithWidth(progressBarWidth),
		progress.WithoutPercentage(),
	}
	if p.opts.Color {
		opts = append(opts, progress.WithDefaultGradient())
	} else {
		opts = append(opts, progress.WithColorProfile(termenv.Ascii))
	}
	bar := progress.New(opts...)
	if !p.opts.Color {
		bar.Full, bar.Empty = '#', '-'
	}
	return &ProgressLine{p: p, bar: bar}
}

// Update redraws the line for snap. It matches the aggregator's
// OnProgress signature.
func (l *ProgressLine) Update(snap ollama.ProgressSnapshot) {
	if !l.p.opts.Interactive {
		return
	}
	line := l.bar.ViewAs(float64(snap.Percent)/100) + " " + l.p.Styles.Info.Render(snap.String())
	l.p.Print("\r" + line)
	l.drawn = true
}

// Done ends the line so later output starts on a fresh one.
func (l *ProgressLine) Done() {
	if l.drawn {
		l.p.Print("\n")
		l.drawn = false
	}
}
