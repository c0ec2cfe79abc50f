// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package ollama

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// =============================================================================
// PROGRESS
// =============================================================================

// DefaultProgressInterval is the minimum spacing between progress snapshots.
const DefaultProgressInterval = 500 * time.Millisecond

// ProgressSnapshot describes how far a streamed generation has come.
type ProgressSnapshot struct {
	Elapsed time.Duration
	Words   int
	Percent int
}

// String renders the snapshot as "Progress: 42% • 00:12".
func (p ProgressSnapshot) String() string {
	return fmt.Sprintf("Progress: %d%% • %s", p.Percent, FormatElapsed(p.Elapsed))
}

// FormatElapsed renders d as MM:SS. Minutes keep growing past 59.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// CountWords counts whitespace-separated words.
func CountWords(s string) int {
	return len(strings.Fields(s))
}

// Percent returns words as a share of target, truncated and clamped to 100.
// A non-positive target always reports 0.
func Percent(words, target int) int {
	if target <= 0 || words <= 0 {
		return 0
	}
	p := words * 100 / target
	if p > 100 {
		return 100
	}
	return p
}

// =============================================================================
// AGGREGATOR
// =============================================================================

// Aggregator consumes a fragment sequence, accumulates the full text and
// reports progress at most once per Interval. Every fragment is applied in
// arrival order whether or not a snapshot is emitted for it.
type Aggregator struct {
	// Target is the word count that represents 100%.
	Target int

	// Interval between snapshots (default: 500ms).
	Interval time.Duration

	// OnFragment, if set, sees every fragment in order.
	OnFragment func(Fragment)

	// OnProgress, if set, receives throttled snapshots.
	OnProgress func(ProgressSnapshot)

	// Clock defaults to time.Now.
	Clock func() time.Time
}

// Run drains src and returns the concatenated text. It stops at the first
// fragment marked Done or when src returns io.EOF. On any other error the
// text accumulated so far is returned alongside it.
func (a *Aggregator) Run(src FragmentSource) (string, error) {
	now := a.Clock
	if now == nil {
		now = time.Now
	}
	interval := a.Interval
	if interval <= 0 {
		interval = DefaultProgressInterval
	}

	var buf strings.Builder
	start := now()
	var lastEmit time.Time
	emitted := false

	for {
		frag, err := src.Next()
		if err == io.EOF {
			return buf.String(), nil
		}
		if err != nil {
			return buf.String(), err
		}

		buf.WriteString(frag.Text)
		if a.OnFragment != nil {
			a.OnFragment(frag)
		}

		if a.OnProgress != nil {
			t := now()
			if !emitted || t.Sub(lastEmit) >= interval {
				words := CountWords(buf.String())
				a.OnProgress(ProgressSnapshot{
					Elapsed: t.Sub(start),
					Words:   words,
					Percent: Percent(words, a.Target),
				})
				lastEmit = t
				emitted = true
			}
		}

		if frag.Done {
			return buf.String(), nil
		}
	}
}

// SliceSource replays a fixed list of fragments. Useful for tests and for
// turning a complete response into a one-fragment stream.
type SliceSource struct {
	Fragments []Fragment
	pos       int
}

// Next implements FragmentSource.
func (s *SliceSource) Next() (Fragment, error) {
	if s.pos >= len(s.Fragments) {
		return Fragment{}, io.EOF
	}
	f := s.Fragments[s.pos]
	s.pos++
	return f, nil
}
