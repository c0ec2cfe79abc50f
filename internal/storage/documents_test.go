// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := Open(DefaultPath(t.TempDir()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

// =============================================================================
// INDEX TESTS
// =============================================================================

func TestIndex_RecordAndRecent(t *testing.T) {
	idx := openTestIndex(t)
	ctx := t.Context()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		_, err := idx.Record(ctx, DocumentRecord{
			Kind:      KindNote,
			Title:     title,
			Path:      "/notes/" + title + ".md",
			Words:     100 * (i + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record(%q) failed: %v", title, err)
		}
	}

	recent, err := idx.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Recent returned %d records, want 2", len(recent))
	}
	if recent[0].Title != "third" || recent[1].Title != "second" {
		t.Errorf("Recent order = %q, %q, want third, second", recent[0].Title, recent[1].Title)
	}
	if recent[0].Words != 300 {
		t.Errorf("Words = %d, want 300", recent[0].Words)
	}
	if !recent[0].CreatedAt.Equal(base.Add(2 * time.Minute)) {
		t.Errorf("CreatedAt = %v", recent[0].CreatedAt)
	}
}

func TestIndex_RecordFillsDefaults(t *testing.T) {
	idx := openTestIndex(t)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	idx.WithClock(func() time.Time { return now })

	rec, err := idx.Record(t.Context(), DocumentRecord{Kind: KindSummary, Path: "/notes/a.md"})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if rec.ID == "" {
		t.Error("ID was not generated")
	}
	if !rec.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", rec.CreatedAt, now)
	}
}

func TestIndex_RecordValidation(t *testing.T) {
	idx := openTestIndex(t)

	tests := []DocumentRecord{
		{Kind: "poem", Path: "/x.md"},
		{Kind: KindNote, Path: "  "},
	}
	for _, rec := range tests {
		if _, err := idx.Record(t.Context(), rec); !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("Record(%+v) error = %v, want ErrInvalidRecord", rec, err)
		}
	}
}

func TestIndex_RecentByKind(t *testing.T) {
	idx := openTestIndex(t)
	ctx := t.Context()

	idx.Record(ctx, DocumentRecord{Kind: KindNote, Title: "n", Path: "/n.md"})
	idx.Record(ctx, DocumentRecord{Kind: KindComparison, Title: "c", Path: "/c.md"})
	idx.Record(ctx, DocumentRecord{Kind: KindSummary, Title: "s", Path: "/s.md"})

	got, err := idx.Recent(ctx, 10, KindComparison, KindSummary)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent returned %d, want 2", len(got))
	}
	for _, rec := range got {
		if rec.Kind == KindNote {
			t.Errorf("unexpected note in filtered result: %+v", rec)
		}
	}

	n, err := idx.Count(ctx)
	if err != nil || n != 3 {
		t.Errorf("Count = %d, %v, want 3", n, err)
	}
}

func TestIndex_Prune(t *testing.T) {
	idx := openTestIndex(t)
	ctx := t.Context()
	dir := t.TempDir()

	kept := filepath.Join(dir, "kept.md")
	if err := os.WriteFile(kept, []byte("# kept"), 0644); err != nil {
		t.Fatal(err)
	}
	idx.Record(ctx, DocumentRecord{Kind: KindNote, Path: kept})
	idx.Record(ctx, DocumentRecord{Kind: KindNote, Path: filepath.Join(dir, "gone.md")})

	removed, err := idx.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Prune removed %d, want 1", removed)
	}
	if n, _ := idx.Count(ctx); n != 1 {
		t.Errorf("Count after prune = %d, want 1", n)
	}
}

func TestIndex_Closed(t *testing.T) {
	idx := openTestIndex(t)
	idx.Close()

	if _, err := idx.Recent(t.Context(), 1); !errors.Is(err, ErrClosed) {
		t.Errorf("Recent after Close error = %v, want ErrClosed", err)
	}
	if err := idx.Close(); err != nil {
		t.Errorf("second Close = %v, want nil", err)
	}
}

func TestIndex_Reopen(t *testing.T) {
	path := DefaultPath(t.TempDir())
	idx, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	idx.Record(t.Context(), DocumentRecord{Kind: KindNote, Title: "persisted", Path: "/p.md"})
	idx.Close()

	idx, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	recent, err := idx.Recent(t.Context(), 5)
	if err != nil || len(recent) != 1 || recent[0].Title != "persisted" {
		t.Errorf("Recent after reopen = %+v, %v", recent, err)
	}
}
