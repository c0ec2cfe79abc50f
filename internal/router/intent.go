// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"regexp"
	"strings"
)

// ============================================================================
// TYPES
// ============================================================================

// Kind identifies the handler an input is routed to.
type Kind int

const (
	KindChat Kind = iota
	KindDocument
	KindWeather
	KindTime
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindWeather:
		return "weather"
	case KindTime:
		return "time"
	default:
		return "chat"
	}
}

// Intent is the single routing decision made for one input.
// Empty Location or Timezone means none could be extracted.
type Intent struct {
	Kind     Kind
	Topic    string
	Location string
	Timezone string
}

// ============================================================================
// PATTERNS
// ============================================================================

// Matched against the lowercased input, in this order.
var documentPatterns = []*regexp.Regexp{
	regexp.MustCompile(`write (?:notes |a document )?(?:about |on )?(.+)`),
	regexp.MustCompile(`create (?:notes |a document )?(?:about |on )?(.+)`),
	regexp.MustCompile(`make (?:notes |a document )?(?:about |on )?(.+)`),
}

var (
	weatherPattern = regexp.MustCompile(`weather (?:in|at|for)?\s+([a-zA-Z\s]+)`)
	timePattern    = regexp.MustCompile(`time (?:in|at|for)?\s+([a-zA-Z\s/]+)`)
)

// ============================================================================
// ROUTING
// ============================================================================

// Route classifies text. Rules, in priority order:
//  1. Document: "write|create|make [notes|a document] [about|on] X"
//  2. Weather: contains "weather"; location from "weather [in|at|for] <words>"
//  3. Time: contains "time" or "date"; zone from "time [in|at|for] <words/...>"
//  4. Chat: everything else
func Route(text string) Intent {
	lower := strings.ToLower(text)

	if topic, ok := DocumentTopic(lower); ok {
		return Intent{Kind: KindDocument, Topic: topic}
	}

	if strings.Contains(lower, "weather") {
		return Intent{Kind: KindWeather, Location: capture(weatherPattern, lower)}
	}

	if strings.Contains(lower, "time") || strings.Contains(lower, "date") {
		return Intent{Kind: KindTime, Timezone: capture(timePattern, lower)}
	}

	return Intent{Kind: KindChat}
}

// DocumentTopic returns the topic of a document-creation request.
func DocumentTopic(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, re := range documentPatterns {
		if topic := capture(re, lower); topic != "" {
			return topic, true
		}
	}
	return "", false
}

func capture(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
