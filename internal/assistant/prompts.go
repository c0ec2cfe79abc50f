// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"fmt"
	"strings"
)

// NoteTargetWords is the document length progress is measured against.
const NoteTargetWords = 500

// ComparisonTargetWords is the expected comparison length.
const ComparisonTargetWords = 800

// NotesPrompt asks for notes about topic.
func NotesPrompt(topic string) string {
	return fmt.Sprintf(`Write detailed, well-structured notes about %s.
Include relevant examples and explanations.
Make the content clear, concise, and well-organized.
Focus on the most important concepts and explain them well.`, topic)
}

// ComparisonPrompt asks for a structured comparison of items.
func ComparisonPrompt(items []string) string {
	return fmt.Sprintf(`Compare the following items in detail: %s

For each important aspect, provide:
1. A clear description for each item
2. Key similarities
3. Notable differences

Also include:
- A balanced analysis of strengths and weaknesses
- Common misconceptions or important nuances
- Practical implications or real-world applications
- A final summary and recommendation

Format your response as a structured comparison with clear sections.`, strings.Join(items, ", "))
}

// DefinePrompt asks for a one-sentence definition.
func DefinePrompt(word string) string {
	return fmt.Sprintf(`Define the word "%s" in one clear, concise sentence. `+
		`Include the part of speech in parentheses at the start. `+
		`Example format: "(noun) A clear definition here."`, word)
}

// ChatPrompt wraps a chat message.
func ChatPrompt(message string) string {
	return "You are a helpful AI assistant. Respond to: " + message
}

// TextSummaryPrompt asks for a summary of pasted text.
func TextSummaryPrompt(text string) string {
	return "Summarize this text concisely:\n" + text
}

// BrainstormPrompt is the uncategorized five-idea prompt.
func BrainstormPrompt(topic string) string {
	return fmt.Sprintf(`Brainstorm 5 creative and unique ideas related to "%s". Format as a numbered list.`, topic)
}

// =============================================================================
// BRAINSTORM CATEGORIES
// =============================================================================

// Category is a brainstorm flavor.
type Category struct {
	Name  string
	Emoji string
	noun  string
	title string
	hook  string
	focus string
}

// Categories lists the supported brainstorm categories.
var Categories = map[string]Category{
	"project": {
		Name: "project", Emoji: "🚀",
		noun: "unique project ideas", title: "A catchy title", hook: "A one-line description",
		focus: "Focus on practical, engaging projects that can be completed in 1-4 weeks.",
	},
	"assignment": {
		Name: "assignment", Emoji: "📚",
		noun: "interesting assignment ideas", title: "A clear title", hook: "A one-line description",
		focus: "Focus on educational value and skill development.",
	},
	"writing": {
		Name: "writing", Emoji: "✍️",
		noun: "creative writing prompts", title: "An engaging title", hook: "A one-line story hook",
		focus: "Focus on unique angles and interesting scenarios.",
	},
	"general": {
		Name: "general", Emoji: "💡",
		noun: "creative ideas", title: "A clear title", hook: "A one-line description",
		focus: "Focus on variety and originality.",
	},
}

// LookupCategory returns the named category, or general.
func LookupCategory(name string) Category {
	if c, ok := Categories[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return Categories["general"]
}

// Prompt builds the three-idea prompt for topic.
func (c Category) Prompt(topic string) string {
	return fmt.Sprintf("Generate 3 %s related to: %s\nFor each idea include:\n- %s\n- %s\n%s",
		c.noun, topic, c.title, c.hook, c.focus)
}
