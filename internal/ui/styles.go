// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// PALETTE
// =============================================================================

// Adaptive colors pick a light or dark variant from the terminal background.
var (
	Blue    = lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"}
	Cyan    = lipgloss.AdaptiveColor{Light: "#0891B2", Dark: "#22D3EE"}
	Emerald = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34D399"}
	Amber   = lipgloss.AdaptiveColor{Light: "#D97706", Dark: "#FBBF24"}
	Rose    = lipgloss.AdaptiveColor{Light: "#E11D48", Dark: "#FB7185"}
	Muted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#A6ADC8"}
	Overlay = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#45475A"}
)

// =============================================================================
// STYLES
// =============================================================================

// Styles is the set of text styles used by a Printer.
type Styles struct {
	Title     lipgloss.Style
	Section   lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Info      lipgloss.Style
	Dim       lipgloss.Style
	Speaker   lipgloss.Style
	Item      lipgloss.Style
	Separator lipgloss.Style
	Panel     lipgloss.Style

	// Table column styles.
	AspectCell lipgloss.Style
	ItemCell   lipgloss.Style
	SameCell   lipgloss.Style
	DiffCell   lipgloss.Style
}

// NewStyles builds Styles bound to r.
func NewStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Title:     r.NewStyle().Bold(true).Foreground(Blue),
		Section:   r.NewStyle().Bold(true).Foreground(Blue),
		Label:     r.NewStyle().Foreground(Muted),
		Value:     r.NewStyle(),
		Success:   r.NewStyle().Foreground(Emerald),
		Warning:   r.NewStyle().Foreground(Amber),
		Error:     r.NewStyle().Foreground(Rose),
		Info:      r.NewStyle().Foreground(Cyan),
		Dim:       r.NewStyle().Foreground(Muted),
		Speaker:   r.NewStyle().Bold(true).Foreground(Blue),
		Item:      r.NewStyle().Bold(true).Foreground(Cyan),
		Separator: r.NewStyle().Foreground(Overlay),
		Panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Overlay).
			Padding(0, 1),

		AspectCell: r.NewStyle().Bold(true).Foreground(Blue),
		ItemCell:   r.NewStyle().Foreground(Emerald),
		SameCell:   r.NewStyle().Foreground(Amber),
		DiffCell:   r.NewStyle().Foreground(Rose),
	}
}
