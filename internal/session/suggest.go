// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import "strings"

// MaxSuggestions caps the length of Suggestions.
const MaxSuggestions = 5

// CommonCommands are offered when there is nothing typed yet.
var CommonCommands = []string{
	"help",
	"weather in London",
	"time in New York",
	"create notes about Python",
	"summarize https://example.com",
	"info",
	"preferences",
}

// Suggestions returns up to MaxSuggestions completions for input: past
// commands containing it (case-insensitive, newest first, no duplicates),
// followed by CommonCommands when input is empty.
func (s *Store) Suggestions(input string) []string {
	return suggest(s.Commands(), input)
}

func suggest(commands []string, input string) []string {
	needle := strings.ToLower(input)
	seen := make(map[string]bool)
	var out []string

	add := func(cmd string) {
		if !seen[cmd] {
			seen[cmd] = true
			out = append(out, cmd)
		}
	}

	for i := len(commands) - 1; i >= 0; i-- {
		if strings.Contains(strings.ToLower(commands[i]), needle) {
			add(commands[i])
		}
	}
	if needle == "" {
		for _, cmd := range CommonCommands {
			add(cmd)
		}
	}

	if len(out) > MaxSuggestions {
		out = out[:MaxSuggestions]
	}
	return out
}
