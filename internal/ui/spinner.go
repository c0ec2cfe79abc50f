// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// SPINNER MODEL
// =============================================================================

// workDoneMsg tells the spinner program the wrapped call returned.
type workDoneMsg struct{}

// spinnerModel shows a spinner, the label and the elapsed seconds.
type spinnerModel struct {
	spinner spinner.Model
	label   string
	started time.Time
	done    bool
}

func newSpinnerModel(p *Printer, label string) spinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(p.Styles.Info),
	)
	if !p.opts.Color {
		s.Spinner = spinner.Line
	}
	return spinnerModel{spinner: s, label: label, started: time.Now()}
}

func (m spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	elapsed := time.Since(m.started).Truncate(time.Second)
	return m.spinner.View() + " " + m.label + " (" + elapsed.String() + ")"
}

// =============================================================================
// RUN
// =============================================================================

// RunSpinner calls fn while a spinner labeled label animates. The spinner
// is skipped when the printer is not interactive. The program takes no
// keyboard input, so an interrupt still reaches the process.
func (p *Printer) RunSpinner(ctx context.Context, label string, fn func(context.Context) error) error {
	if !p.opts.Interactive {
		return fn(ctx)
	}

	prog := tea.NewProgram(newSpinnerModel(p, label),
		tea.WithContext(ctx),
		tea.WithOutput(p.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)

	result := make(chan error, 1)
	go func() {
		result <- fn(ctx)
		prog.Send(workDoneMsg{})
	}()

	// A failed or cancelled program only loses the animation.
	_, _ = prog.Run()
	return <-result
}
