// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

// HistoryEntry is one line of the daily command log. Timestamp is already
// formatted with the date_format preference.
type HistoryEntry struct {
	Timestamp string            `json:"timestamp"`
	Command   string            `json:"command"`
	Args      map[string]string `json:"args"`
}

// Summary describes the current session for display.
type Summary struct {
	ID           string
	Started      string
	CommandCount int
	LastCommand  *HistoryEntry
}

// Record appends a history entry, trimming the log to max_history.
func (s *Store) Record(command string, args map[string]string) {
	if args == nil {
		args = map[string]string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.history = append(s.history, HistoryEntry{
		Timestamp: s.prefs.FormatTime(s.clock()),
		Command:   command,
		Args:      args,
	})
	s.trimHistory()
}

// History returns a copy of today's log, oldest first.
func (s *Store) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HistoryEntry(nil), s.history...)
}

// Summary reports when the log started and how many commands it holds.
func (s *Store) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		ID:           s.id,
		Started:      s.prefs.FormatTime(s.started),
		CommandCount: len(s.history),
	}
	if len(s.history) > 0 {
		sum.Started = s.history[0].Timestamp
		last := s.history[len(s.history)-1]
		sum.LastCommand = &last
	}
	return sum
}

// trimHistory keeps the newest max_history entries. Caller holds mu.
func (s *Store) trimHistory() {
	max := s.prefs.MaxHistory
	if max > 0 && len(s.history) > max {
		s.history = append([]HistoryEntry(nil), s.history[len(s.history)-max:]...)
	}
}
