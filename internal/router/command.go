// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"errors"
	"regexp"
	"strings"
)

// Command words understood by the HTTP chat endpoint.
const (
	CommandHelp       = "help"
	CommandDefine     = "define"
	CommandSearch     = "search"
	CommandSummarize  = "summarize"
	CommandCompare    = "compare"
	CommandBrainstorm = "brainstorm"
)

var knownCommands = map[string]bool{
	CommandHelp:       true,
	CommandDefine:     true,
	CommandSearch:     true,
	CommandSummarize:  true,
	CommandCompare:    true,
	CommandBrainstorm: true,
}

// ErrCompareFormat is returned when a compare command is not "a vs b".
var ErrCompareFormat = errors.New("please use the format: compare thing1 vs thing2")

var typeFlag = regexp.MustCompile(`--type\s+(\w+)`)

// Command is a message whose first word names an operation.
type Command struct {
	Name string
	Args string
}

// ParseCommand splits message into a command word and its arguments.
// ok is false when the first word is not a known command; such messages
// are plain chat.
func ParseCommand(message string) (Command, bool) {
	fields := strings.Fields(message)
	if len(fields) == 0 {
		return Command{}, false
	}
	name := strings.ToLower(fields[0])
	if !knownCommands[name] {
		return Command{}, false
	}
	return Command{Name: name, Args: strings.Join(fields[1:], " ")}, true
}

// CompareItems splits "a vs b" arguments into their two items.
func (c Command) CompareItems() ([]string, error) {
	parts := strings.SplitN(c.Args, " vs ", 2)
	if len(parts) != 2 {
		return nil, ErrCompareFormat
	}
	a, b := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if a == "" || b == "" {
		return nil, ErrCompareFormat
	}
	return []string{a, b}, nil
}

// BrainstormArgs extracts an optional "--type <t>" flag and the remaining topic.
func (c Command) BrainstormArgs() (topic, category string) {
	if m := typeFlag.FindStringSubmatch(c.Args); m != nil {
		category = strings.ToLower(m[1])
	}
	topic = strings.TrimSpace(typeFlag.ReplaceAllString(c.Args, ""))
	return topic, category
}
