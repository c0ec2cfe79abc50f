// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// DatabaseFile is the index file name inside the state directory.
const DatabaseFile = "fiber.db"

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed        = errors.New("document index is closed")
	ErrInvalidRecord = errors.New("invalid document record")
)

// =============================================================================
// DOCUMENT RECORD
// =============================================================================

// Kind classifies a written document.
type Kind string

const (
	KindNote       Kind = "note"
	KindSummary    Kind = "summary"
	KindComparison Kind = "comparison"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindNote, KindSummary, KindComparison:
		return true
	}
	return false
}

// DocumentRecord is one row of the index.
type DocumentRecord struct {
	ID        string
	Kind      Kind
	Title     string
	Path      string
	Words     int
	CreatedAt time.Time
}

// =============================================================================
// INDEX
// =============================================================================

// Index is a SQLite-backed document index. Safe for concurrent use.
type Index struct {
	mu    sync.RWMutex
	db    *sql.DB
	clock func() time.Time
}

// DefaultPath returns the index location inside stateDir.
func DefaultPath(stateDir string) string {
	return filepath.Join(stateDir, DatabaseFile)
}

// Open opens (creating if needed) the index at path.
func Open(path string) (*Index, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	if _, err := db.Exec(InitMetadata); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &Index{db: db, clock: time.Now}, nil
}

// WithClock replaces the timestamp source. Used by tests.
func (idx *Index) WithClock(clock func() time.Time) *Index {
	idx.clock = clock
	return idx
}

// Close closes the database.
func (idx *Index) Close() error {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return nil
	}
	err := idx.db.Close()
	idx.db = nil
	return err
}

// Record inserts rec, filling ID and CreatedAt when they are zero, and
// returns the stored record.
func (idx *Index) Record(ctx context.Context, rec DocumentRecord) (DocumentRecord, error) {
	if !rec.Kind.Valid() {
		return DocumentRecord{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidRecord, rec.Kind)
	}
	if strings.TrimSpace(rec.Path) == "" {
		return DocumentRecord{}, fmt.Errorf("%w: path is required", ErrInvalidRecord)
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = idx.clock()
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return DocumentRecord{}, ErrClosed
	}

	_, err := idx.db.ExecContext(ctx, `
		INSERT INTO documents (id, kind, title, path, words, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, string(rec.Kind), rec.Title, rec.Path, rec.Words, rec.CreatedAt.Unix())
	if err != nil {
		return DocumentRecord{}, fmt.Errorf("failed to record document: %w", err)
	}
	return rec, nil
}

// Recent returns up to limit records, newest first. kinds optionally
// restricts the result.
func (idx *Index) Recent(ctx context.Context, limit int, kinds ...Kind) ([]DocumentRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := "SELECT id, kind, title, path, words, created_at FROM documents"
	args := []any{}
	if len(kinds) > 0 {
		placeholders := make([]string, len(kinds))
		for i, k := range kinds {
			placeholders[i] = "?"
			args = append(args, string(k))
		}
		query += " WHERE kind IN (" + strings.Join(placeholders, ", ") + ")"
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.db == nil {
		return nil, ErrClosed
	}

	rows, err := idx.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentRecord
	for rows.Next() {
		var (
			rec     DocumentRecord
			kind    string
			created int64
		)
		if err := rows.Scan(&rec.ID, &kind, &rec.Title, &rec.Path, &rec.Words, &created); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		rec.Kind = Kind(kind)
		rec.CreatedAt = time.Unix(created, 0)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Count returns the number of indexed documents.
func (idx *Index) Count(ctx context.Context) (int, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if idx.db == nil {
		return 0, ErrClosed
	}

	var n int
	if err := idx.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return n, nil
}

// Prune removes records whose file no longer exists and returns how many
// were removed.
func (idx *Index) Prune(ctx context.Context) (int, error) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if idx.db == nil {
		return 0, ErrClosed
	}

	rows, err := idx.db.QueryContext(ctx, "SELECT id, path FROM documents")
	if err != nil {
		return 0, fmt.Errorf("failed to list documents: %w", err)
	}
	var missing []string
	for rows.Next() {
		var id, path string
		if err := rows.Scan(&id, &path); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan document: %w", err)
		}
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			missing = append(missing, id)
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range missing {
		if _, err := idx.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
			return 0, fmt.Errorf("failed to prune document: %w", err)
		}
	}
	return len(missing), nil
}
