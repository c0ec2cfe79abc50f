// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jeranaias/fiber/internal/util"
)

// GeneratedLayout is the timestamp layout in document footers.
const GeneratedLayout = "2006-01-02 15:04:05"

// NoteWriter writes markdown documents into Dir.
type NoteWriter struct {
	Dir   string
	Clock func() time.Time
}

func (w NoteWriter) now() time.Time {
	if w.Clock != nil {
		return w.Clock()
	}
	return time.Now()
}

// Write stores content as <Dir>/<name>.md and returns the full path. name
// is sanitized; an empty result falls back to a timestamp.
func (w NoteWriter) Write(name, content string) (string, error) {
	if strings.TrimSpace(w.Dir) == "" {
		return "", errors.New("notes directory is not set")
	}
	file := util.SanitizeFilename(name)
	if file == "" {
		file = w.now().Format("20060102_150405")
	}
	path := filepath.Join(w.Dir, file+".md")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create notes directory: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to save note: %w", err)
	}
	return path, nil
}

// NoteDocument formats generated notes about topic.
func NoteDocument(topic, body string, at time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", titleCaser.String(strings.TrimSpace(topic)))
	sb.WriteString(strings.TrimSpace(body))
	fmt.Fprintf(&sb, "\n\n---\nGenerated on: %s\n", at.Format(GeneratedLayout))
	return sb.String()
}

// SummaryDocument formats an article summary note.
func SummaryDocument(url, title, summary string, at time.Time) string {
	if title == "" {
		title = "Article Summary"
	}
	return fmt.Sprintf("# %s\n\n## Source\n%s\n\n## Summary\n%s\n\n---\nGenerated on: %s\n",
		title, url, summary, at.Format(GeneratedLayout))
}
