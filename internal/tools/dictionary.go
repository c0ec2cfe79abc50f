// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultDictionaryURL is the Free Dictionary API entries endpoint.
const DefaultDictionaryURL = "https://api.dictionaryapi.dev/api/v2/entries/en/"

// DictionaryTimeout bounds a single lookup.
const DictionaryTimeout = 10 * time.Second

var lowerCaser = cases.Lower(language.English)

// Dictionary looks words up in the Free Dictionary API.
type Dictionary struct {
	BaseURL string
	Client  *http.Client
}

// NewDictionary returns a client for the public endpoint.
func NewDictionary(client *http.Client) *Dictionary {
	if client == nil {
		client = &http.Client{Timeout: DictionaryTimeout}
	}
	return &Dictionary{BaseURL: DefaultDictionaryURL, Client: client}
}

type dictionaryEntry struct {
	Meanings []struct {
		PartOfSpeech string `json:"partOfSpeech"`
		Definitions  []struct {
			Definition string `json:"definition"`
		} `json:"definitions"`
	} `json:"meanings"`
}

// Lookup returns the first definition of the first meaning, formatted as
// "(part of speech) Definition". Any failure is ErrNoDefinition wrapped
// with the cause so callers can fall back to the language model.
func (d *Dictionary) Lookup(ctx context.Context, word string) (string, error) {
	word = lowerCaser.String(strings.TrimSpace(word))
	if word == "" {
		return "", ErrNoDefinition
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.BaseURL+url.PathEscape(word), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDefinition, err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDefinition, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: %v", ErrNoDefinition, &StatusError{Service: "dictionary", StatusCode: resp.StatusCode})
	}

	var entries []dictionaryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoDefinition, err)
	}
	if len(entries) == 0 || len(entries[0].Meanings) == 0 {
		return "", ErrNoDefinition
	}

	meaning := entries[0].Meanings[0]
	if len(meaning.Definitions) == 0 {
		return "", ErrNoDefinition
	}
	def := Capitalize(meaning.Definitions[0].Definition)
	if meaning.PartOfSpeech != "" {
		return fmt.Sprintf("(%s) %s", meaning.PartOfSpeech, def), nil
	}
	return def, nil
}

// Capitalize upper-cases the first letter and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + lowerCaser.String(s[size:])
}

// CleanDefinition tidies a model-written definition: surrounding quotes
// and trailing periods are removed and a single period appended.
func CleanDefinition(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.Trim(s, `"`)
	s = strings.TrimRight(s, ".")
	return s + "."
}
