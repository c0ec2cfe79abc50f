// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	whitespaceRun      = regexp.MustCompile(`\s+`)
	forbiddenFileChars = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// Truncate shortens s to at most width terminal columns, appending "..."
// when something was cut. Wide (CJK) characters count as two columns.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads s with spaces up to width terminal columns.
func PadRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// DisplayWidth returns the number of terminal columns s occupies.
func DisplayWidth(s string) int {
	return runewidth.StringWidth(s)
}

// CollapseSpace replaces every whitespace run with a single space and trims the result.
func CollapseSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// SanitizeFilename converts a free-form title into a file name: characters
// that are invalid on common filesystems are dropped, accents are folded
// to their base letter and whitespace runs become underscores.
// Returns "" when nothing usable remains.
func SanitizeFilename(title string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(fold, title)
	if err != nil {
		folded = title
	}

	name := forbiddenFileChars.ReplaceAllString(folded, "")
	name = strings.TrimSpace(name)
	name = whitespaceRun.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}
