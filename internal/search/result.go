// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package search

import (
	"cmp"
	"errors"
	"regexp"
	"slices"
	"strings"
)

// ErrNoResults is returned when every backend came back empty.
var ErrNoResults = errors.New("no search results found from any search engine")

// Result is a single search hit.
type Result struct {
	URL         string  `json:"url"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Score       float64 `json:"score"`
	Source      string  `json:"source"`
}

// Scoring weights.
const (
	titleTermWeight        = 2.0
	descriptionTermWeight  = 1.0
	titlePhraseBonus       = 3.0
	descriptionPhraseBonus = 2.0
	urlTermWeight          = 1.5
)

var urlSeparators = regexp.MustCompile(`[/.\-]`)

// Score rates how well r matches query:
//   - +2 per distinct query term among the title words
//   - +1 per distinct query term among the description words
//   - +3 if the whole query appears in the title, +2 in the description
//   - +1.5 per distinct query term among the URL segments split on / . -
//
// All comparisons are case-insensitive.
func Score(r Result, query string) float64 {
	q := strings.ToLower(query)
	terms := termSet(strings.Fields(q))
	title := strings.ToLower(r.Title)
	desc := strings.ToLower(r.Description)

	score := titleTermWeight * float64(overlap(terms, strings.Fields(title)))
	score += descriptionTermWeight * float64(overlap(terms, strings.Fields(desc)))

	if strings.Contains(title, q) {
		score += titlePhraseBonus
	}
	if strings.Contains(desc, q) {
		score += descriptionPhraseBonus
	}

	score += urlTermWeight * float64(overlap(terms, urlSeparators.Split(strings.ToLower(r.URL), -1)))
	return score
}

// Best returns the first result with the strictly highest score.
func Best(results []Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, ErrNoResults
	}
	best := results[0]
	for _, r := range results[1:] {
		if r.Score > best.Score {
			best = r
		}
	}
	return best, nil
}

// Ranked returns a copy of results ordered by descending score. Equal
// scores keep their original order, so Ranked(results)[0] is Best(results).
func Ranked(results []Result) []Result {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b Result) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return ranked
}

func termSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}

// overlap counts distinct words that are also in terms.
func overlap(terms map[string]bool, words []string) int {
	seen := make(map[string]bool, len(words))
	n := 0
	for _, w := range words {
		if terms[w] && !seen[w] {
			seen[w] = true
			n++
		}
	}
	return n
}
