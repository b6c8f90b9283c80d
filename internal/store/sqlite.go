// Package store persists property override records in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/agentic-research/shortcuts/api"
	_ "modernc.org/sqlite"
)

// ErrNoProperties means no override set was ever written. It is distinct
// from a written-but-empty set.
var ErrNoProperties = errors.New("no stored properties")

const schema = `
CREATE TABLE IF NOT EXISTS properties (
	grp TEXT NOT NULL,
	label_id TEXT NOT NULL,
	property TEXT NOT NULL,
	value TEXT,
	PRIMARY KEY (grp, label_id, property)
) WITHOUT ROWID;

CREATE TABLE IF NOT EXISTS property_state (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	written_at INTEGER NOT NULL,
	records INTEGER NOT NULL
);
`

// SQLite is the override store.
type SQLite struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path.
func Open(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps ":memory:" databases coherent.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLite{db: db, path: path}, nil
}

// Path returns the database location.
func (s *SQLite) Path() string { return s.path }

// Load returns every stored record, ordered by group, label and property.
func (s *SQLite) Load(ctx context.Context) ([]api.Record, error) {
	var written int64
	err := s.db.QueryRowContext(ctx, "SELECT written_at FROM property_state WHERE id = 1").Scan(&written)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoProperties
	}
	if err != nil {
		return nil, fmt.Errorf("query state: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT grp, label_id, property, value FROM properties ORDER BY grp, label_id, property")
	if err != nil {
		return nil, fmt.Errorf("query properties: %w", err)
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	records := []api.Record{}
	for rows.Next() {
		var r api.Record
		var value sql.NullString
		if err := rows.Scan(&r.Group, &r.LabelID, &r.Property, &value); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		if value.Valid {
			v := value.String
			r.Value = &v
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return records, nil
}

// Replace swaps the whole stored set for records in one transaction.
func (s *SQLite) Replace(ctx context.Context, records []api.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.ExecContext(ctx, "DELETE FROM properties"); err != nil {
		return fmt.Errorf("clear properties: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT OR REPLACE INTO properties (grp, label_id, property, value) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }() // ignore

	for _, r := range records {
		var value any
		if r.Value != nil {
			value = *r.Value
		}
		if _, err := stmt.ExecContext(ctx, r.Group, r.LabelID, r.Property, value); err != nil {
			return fmt.Errorf("insert %s/%s/%s: %w", r.Group, r.LabelID, r.Property, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO property_state (id, written_at, records) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET written_at = excluded.written_at, records = excluded.records`,
		time.Now().Unix(), len(records)); err != nil {
		return fmt.Errorf("update state: %w", err)
	}

	return tx.Commit()
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}
