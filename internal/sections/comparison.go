// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sections

import (
	"fmt"
	"strings"
)

// Placeholder values used when the generated text has no such section.
const (
	NoSummary        = "No summary available"
	NoRecommendation = "No recommendation available"
)

// ComparisonPoint is one compared aspect. Descriptions are in input item
// order; their count is not checked against the number of items.
type ComparisonPoint struct {
	Aspect       string
	Descriptions []string
	Similarities string
	Differences  string
}

// Comparison is a structured side-by-side comparison of items.
type Comparison struct {
	Items          []string
	Points         []ComparisonPoint
	Summary        string
	Recommendation string
}

// ParseComparison builds a Comparison from generated text. It returns
// ErrParseFailure when text is non-empty but contains no numbered aspects;
// callers normally fall back to RawComparison.
func ParseComparison(items []string, text string) (Comparison, error) {
	res, err := Parse(text)
	if err != nil {
		return Comparison{}, err
	}

	c := Comparison{
		Items:          items,
		Summary:        orDefault(res.Summary, NoSummary),
		Recommendation: orDefault(res.Recommendation, NoRecommendation),
	}
	for _, rec := range res.Records {
		descs := make([]string, 0, len(rec.Body))
		for _, line := range rec.Body {
			descs = append(descs, stripBullet(line))
		}
		c.Points = append(c.Points, ComparisonPoint{
			Aspect:       strings.TrimSuffix(rec.Title, ":"),
			Descriptions: descs,
			Similarities: rec.Field(FieldSimilarities),
			Differences:  rec.Field(FieldDifferences),
		})
	}
	return c, nil
}

// RawComparison wraps unstructured text as a single-point comparison.
func RawComparison(items []string, text string) Comparison {
	return Comparison{
		Items: items,
		Points: []ComparisonPoint{{
			Aspect:       "Comparison",
			Descriptions: []string{strings.TrimSpace(text)},
		}},
		Summary:        "Raw comparison data",
		Recommendation: "Please see the main comparison text above",
	}
}

// Title returns "Comparison of a vs b".
func (c Comparison) Title() string {
	return "Comparison of " + strings.Join(c.Items, " vs ")
}

// Header returns the table columns: Aspect, one per item, Similarities, Differences.
func (c Comparison) Header() []string {
	cols := make([]string, 0, len(c.Items)+3)
	cols = append(cols, "Aspect")
	cols = append(cols, c.Items...)
	return append(cols, "Similarities", "Differences")
}

// Rows returns one table row per point, in received order. Each row has
// exactly len(Header()) cells: missing descriptions are blank and any
// surplus is folded into the last item column.
func (c Comparison) Rows() [][]string {
	rows := make([][]string, 0, len(c.Points))
	n := len(c.Items)
	for _, pt := range c.Points {
		row := make([]string, 0, n+3)
		row = append(row, pt.Aspect)
		row = append(row, fitColumns(pt.Descriptions, n)...)
		row = append(row, pt.Similarities, pt.Differences)
		rows = append(rows, row)
	}
	return rows
}

// HasSummary reports whether the summary came from the generated text.
func (c Comparison) HasSummary() bool {
	return c.Summary != "" && c.Summary != NoSummary
}

// HasRecommendation reports whether the recommendation came from the generated text.
func (c Comparison) HasRecommendation() bool {
	return c.Recommendation != "" && c.Recommendation != NoRecommendation
}

// Markdown renders the comparison as a markdown document.
func (c Comparison) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", c.Title())

	header := c.Header()
	b.WriteString("| " + strings.Join(escapeCells(header), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(header)) + "\n")
	for _, row := range c.Rows() {
		b.WriteString("| " + strings.Join(escapeCells(row), " | ") + " |\n")
	}

	fmt.Fprintf(&b, "\n## Summary\n\n%s\n", c.Summary)
	fmt.Fprintf(&b, "\n## Recommendation\n\n%s\n", c.Recommendation)
	return b.String()
}

func fitColumns(descs []string, n int) []string {
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i, d := range descs {
		if i < n {
			out[i] = d
			continue
		}
		out[n-1] = joinText(out[n-1], d)
	}
	return out
}

func escapeCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		c = strings.ReplaceAll(c, "|", `\|`)
		out[i] = strings.ReplaceAll(c, "\n", " ")
	}
	return out
}

func stripBullet(s string) string {
	for _, prefix := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(s, prefix) {
			return strings.TrimSpace(s[len(prefix):])
		}
	}
	return s
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
