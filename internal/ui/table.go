// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// minColumnWidth is the narrowest a column is squeezed to.
const minColumnWidth = 4

// Table is a bordered table with wrapped cells. Widths are measured in
// terminal cells, so wide characters and emoji stay aligned.
type Table struct {
	Header []string
	Rows   [][]string

	// ColumnStyles style body cells per column; missing entries are plain.
	ColumnStyles []lipgloss.Style
	HeaderStyle  lipgloss.Style
	BorderStyle  lipgloss.Style
}

// Render lays the table out within width cells.
func (t Table) Render(width int) string {
	n := len(t.Header)
	if n == 0 {
		return ""
	}

	widths := fitWidths(t.naturalWidths(), width-(3*n+1))

	var b strings.Builder
	b.WriteString(t.rule(widths, "┌", "┬", "┐"))
	t.writeRow(&b, t.Header, widths, func(int) lipgloss.Style { return t.HeaderStyle })
	b.WriteString(t.rule(widths, "├", "┼", "┤"))
	for i, row := range t.Rows {
		if i > 0 {
			b.WriteString(t.rule(widths, "├", "┼", "┤"))
		}
		t.writeRow(&b, row, widths, t.columnStyle)
	}
	b.WriteString(t.rule(widths, "└", "┴", "┘"))
	return b.String()
}

func (t Table) columnStyle(col int) lipgloss.Style {
	if col < len(t.ColumnStyles) {
		return t.ColumnStyles[col]
	}
	return lipgloss.NewStyle()
}

func (t Table) naturalWidths() []int {
	widths := make([]int, len(t.Header))
	measure := func(row []string) {
		for i := 0; i < len(widths) && i < len(row); i++ {
			for _, line := range strings.Split(row[i], "\n") {
				if w := runewidth.StringWidth(line); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	measure(t.Header)
	for _, row := range t.Rows {
		measure(row)
	}
	for i, w := range widths {
		if w < minColumnWidth {
			widths[i] = minColumnWidth
		}
	}
	return widths
}

func (t Table) rule(widths []int, left, mid, right string) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		parts[i] = strings.Repeat("─", w+2)
	}
	return t.BorderStyle.Render(left+strings.Join(parts, mid)+right) + "\n"
}

func (t Table) writeRow(b *strings.Builder, row []string, widths []int, style func(int) lipgloss.Style) {
	cells := make([][]string, len(widths))
	height := 1
	for i, w := range widths {
		text := ""
		if i < len(row) {
			text = row[i]
		}
		cells[i] = wrapCell(text, w)
		if len(cells[i]) > height {
			height = len(cells[i])
		}
	}

	bar := t.BorderStyle.Render("│")
	for line := 0; line < height; line++ {
		b.WriteString(bar)
		for i, w := range widths {
			text := ""
			if line < len(cells[i]) {
				text = cells[i][line]
			}
			b.WriteString(" " + style(i).Render(runewidth.FillRight(text, w)) + " " + bar)
		}
		b.WriteString("\n")
	}
}

// fitWidths shrinks natural column widths to fit available cells. Narrow
// columns keep their natural width; the rest share what remains equally.
func fitWidths(natural []int, available int) []int {
	widths := append([]int(nil), natural...)
	total := 0
	for _, w := range natural {
		total += w
	}
	if total <= available {
		return widths
	}

	pending := make([]int, len(natural))
	for i := range pending {
		pending[i] = i
	}
	remaining := available
	for len(pending) > 0 {
		share := remaining / len(pending)
		var rest []int
		for _, i := range pending {
			if natural[i] <= share {
				remaining -= natural[i]
			} else {
				rest = append(rest, i)
			}
		}
		if len(rest) == len(pending) {
			for k, i := range rest {
				w := share
				if k == len(rest)-1 {
					w = remaining - share*(len(rest)-1)
				}
				if w < minColumnWidth {
					w = minColumnWidth
				}
				widths[i] = w
			}
			break
		}
		pending = rest
	}
	return widths
}

// wrapCell breaks text into lines of at most width cells, on word
// boundaries where possible. Existing newlines are kept.
func wrapCell(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}
		cur := ""
		for _, word := range words {
			for runewidth.StringWidth(word) > width {
				if cur != "" {
					lines = append(lines, cur)
					cur = ""
				}
				head := runewidth.Truncate(word, width, "")
				lines = append(lines, head)
				word = word[len(head):]
			}
			switch {
			case word == "":
			case cur == "":
				cur = word
			case runewidth.StringWidth(cur)+1+runewidth.StringWidth(word) <= width:
				cur += " " + word
			default:
				lines = append(lines, cur)
				cur = word
			}
		}
		if cur != "" {
			lines = append(lines, cur)
		}
	}
	return lines
}
