// Package journal keeps a SQLite history of committed edits so any of them
// can be undone.
package journal

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound is returned for an unknown edit ID.
var ErrNotFound = errors.New("journal: edit not found")

// Entry is one committed write.
type Entry struct {
	ID         string    `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	File       string    `json:"file"`
	Kind       string    `json:"kind"`
	Existed    bool      `json:"existed"`     // the file existed before the write
	BeforeHash string    `json:"before_hash"` // sha256 of the content before the write
	AfterHash  string    `json:"after_hash"`  // sha256 of the content that was written
	Before     []byte    `json:"-"`           // content before the write
}

// Journal is an open edit history.
type Journal struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS edits (
	seq            INTEGER PRIMARY KEY AUTOINCREMENT,
	id             TEXT NOT NULL UNIQUE,
	created_at     TEXT NOT NULL,
	file           TEXT NOT NULL,
	kind           TEXT NOT NULL,
	existed        INTEGER NOT NULL,
	before_hash    TEXT NOT NULL,
	after_hash     TEXT NOT NULL,
	before_content BLOB
);
CREATE INDEX IF NOT EXISTS idx_edits_file ON edits(file);
`

// Open opens or creates the journal at path. ":memory:" gives a
// throwaway in-memory journal.
func Open(path string) (*Journal, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	// SQLite only supports one writer; a single connection also keeps an
	// in-memory database alive for the journal's lifetime.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}
	for _, stmt := range []string{"PRAGMA busy_timeout = 5000", schema} {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to initialize journal: %w", err)
		}
	}
	return &Journal{db: db}, nil
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e. CreatedAt defaults to now.
func (j *Journal) Record(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := j.db.Exec(
		`INSERT INTO edits (id, created_at, file, kind, existed, before_hash, after_hash, before_content)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.CreatedAt.UTC().Format(time.RFC3339Nano), e.File, e.Kind,
		e.Existed, e.BeforeHash, e.AfterHash, e.Before,
	)
	if err != nil {
		return fmt.Errorf("recording edit %s: %w", e.ID, err)
	}
	return nil
}

const columns = `id, created_at, file, kind, existed, before_hash, after_hash, before_content`

// Get returns the entry with the given ID. A unique prefix of an ID, such
// as the short form printed after an edit, also matches.
func (j *Journal) Get(id string) (Entry, error) {
	if id == "" || strings.ContainsAny(id, "%_") {
		return Entry{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	rows, err := j.db.Query(`SELECT `+columns+` FROM edits WHERE id LIKE ? ORDER BY seq DESC LIMIT 2`, id+"%")
	if err != nil {
		return Entry{}, fmt.Errorf("reading edit %s: %w", id, err)
	}
	defer rows.Close()

	var found []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return Entry{}, err
		}
		found = append(found, e)
	}
	if err := rows.Err(); err != nil {
		return Entry{}, err
	}
	switch {
	case len(found) == 0:
		return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(found) > 1 && found[0].ID != id && found[1].ID != id:
		return Entry{}, fmt.Errorf("%w: %s is ambiguous", ErrNotFound, id)
	case len(found) > 1 && found[1].ID == id:
		return found[1], nil
	}
	return found[0], nil
}

// List returns up to limit entries, newest first. A non-empty file limits
// the list to that file. limit <= 0 means no limit.
func (j *Journal) List(file string, limit int) ([]Entry, error) {
	q := `SELECT ` + columns + ` FROM edits`
	var args []any
	if file != "" {
		q += ` WHERE file = ?`
		args = append(args, file)
	}
	q += ` ORDER BY seq DESC`
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing edits: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (Entry, error) {
	var e Entry
	var created string
	if err := s.Scan(&e.ID, &created, &e.File, &e.Kind, &e.Existed, &e.BeforeHash, &e.AfterHash, &e.Before); err != nil {
		return Entry{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Entry{}, fmt.Errorf("edit %s: bad timestamp %q: %w", e.ID, created, err)
	}
	e.CreatedAt = t
	return e, nil
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
