// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package sections

import (
	"errors"
	"regexp"
	"strings"
)

// ErrParseFailure is returned when non-empty text produced no records.
var ErrParseFailure = errors.New("sections: no records found")

// Keyed record fields.
const (
	FieldSimilarities = "similarities"
	FieldDifferences  = "differences"
)

// Record is one structured unit extracted from text.
type Record struct {
	Title  string
	Body   []string
	Fields map[string]string
}

// Field returns the named keyed field, or "" when the text had none.
func (r Record) Field(name string) string {
	return r.Fields[name]
}

// Result holds everything extracted from one block of text.
type Result struct {
	Records        []Record
	Summary        string
	Recommendation string
}

type state int

const (
	stateIdle state = iota
	stateInRecord
	stateInKeywordField
)

var recordStart = regexp.MustCompile(`^\d[.):]`)

// parser carries the mutable state of one pass.
type parser struct {
	state   state
	result  Result
	current *Record

	// cont receives continuation lines after a keyword line with no inline
	// value ("Summary:" on its own line). nil means such lines are dropped.
	cont func(string)
}

// Parse segments text into records. Empty input gives zero records and no
// error; non-empty input that yields no records gives ErrParseFailure along
// with whatever summary or recommendation was found.
func Parse(text string) (Result, error) {
	p := &parser{}
	nonEmpty := false

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		nonEmpty = true
		p.feed(line)
	}
	p.flush()

	if nonEmpty && len(p.result.Records) == 0 {
		return p.result, ErrParseFailure
	}
	return p.result, nil
}

func (p *parser) feed(line string) {
	plain := stripMarkup(line)
	lower := strings.ToLower(plain)

	switch {
	case recordStart.MatchString(plain):
		p.flush()
		p.current = &Record{
			Title:  stripMarkup(plain[2:]),
			Fields: map[string]string{},
		}
		p.state = stateInRecord
		p.cont = nil

	case strings.Contains(lower, "summary:"):
		p.setTopLevel(&p.result.Summary, plain)

	case strings.Contains(lower, "recommend") && strings.Contains(plain, ":"):
		p.setTopLevel(&p.result.Recommendation, plain)

	case strings.Contains(lower, "similarities:"):
		p.setField(FieldSimilarities, plain)

	case strings.Contains(lower, "differences:"):
		p.setField(FieldDifferences, plain)

	default:
		p.text(line)
	}
}

func (p *parser) setTopLevel(dst *string, line string) {
	*dst = afterColon(line)
	p.state = stateInKeywordField
	p.cont = nil
	if *dst == "" {
		p.cont = func(s string) { *dst = joinText(*dst, s) }
	}
}

// setField fills a keyed field of the current record. Outside a record the
// line is ignored.
func (p *parser) setField(name, line string) {
	rec := p.current
	if rec == nil {
		return
	}
	rec.Fields[name] = afterColon(line)
	p.state = stateInKeywordField
	p.cont = nil
	if rec.Fields[name] == "" {
		p.cont = func(s string) { rec.Fields[name] = joinText(rec.Fields[name], s) }
	}
}

func (p *parser) text(line string) {
	switch p.state {
	case stateInRecord:
		p.current.Body = append(p.current.Body, line)
	case stateInKeywordField:
		if p.cont != nil {
			p.cont(line)
		}
	}
}

// flush appends the open record, if any, and returns to idle.
func (p *parser) flush() {
	if p.current != nil {
		p.result.Records = append(p.result.Records, *p.current)
		p.current = nil
	}
	p.state = stateIdle
	p.cont = nil
}

// =============================================================================
// TEXT HELPERS
// =============================================================================

// stripMarkup removes surrounding markdown emphasis and heading marks.
func stripMarkup(s string) string {
	return strings.Trim(strings.TrimSpace(s), "*#_ ")
}

func afterColon(s string) string {
	_, rest, found := strings.Cut(s, ":")
	if !found {
		return ""
	}
	return stripMarkup(rest)
}

func joinText(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}
