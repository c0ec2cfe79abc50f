// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sections

import "strings"

// Idea is one brainstormed idea.
type Idea struct {
	Title       string
	Description string
}

// ParseIdeas extracts numbered ideas from text. The description is the
// first line after the title. limit <= 0 keeps every idea.
func ParseIdeas(text string, limit int) []Idea {
	res, _ := Parse(text)

	ideas := make([]Idea, 0, len(res.Records))
	for _, rec := range res.Records {
		idea := Idea{Title: trimLabel(rec.Title, "title")}
		if len(rec.Body) > 0 {
			idea.Description = trimLabel(stripBullet(rec.Body[0]), "description")
		}
		ideas = append(ideas, idea)
		if limit > 0 && len(ideas) == limit {
			break
		}
	}
	return ideas
}

// trimLabel drops a leading "Label:" some models prepend.
func trimLabel(s, label string) string {
	if len(s) > len(label) && strings.EqualFold(s[:len(label)], label) && s[len(label)] == ':' {
		return stripMarkup(s[len(label)+1:])
	}
	return s
}
