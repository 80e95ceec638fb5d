// Package store keeps project envelopes in a SQLite database, keyed by
// project name.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/agentic-research/potoo/api"
	"github.com/agentic-research/potoo/internal/envelope"
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no project has the requested name.
var ErrNotFound = errors.New("project not found")

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	name TEXT PRIMARY KEY,
	schema_version TEXT NOT NULL,
	envelope JSON NOT NULL,
	updated_at INTEGER NOT NULL
);
`

// Store is a project database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Entry describes a stored project.
type Entry struct {
	Name          string
	SchemaVersion api.SchemaVersion
	UpdatedAt     time.Time
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// One connection: SQLite allows a single writer, and ":memory:" databases
	// are per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes m under name, replacing any previous version.
func (s *Store) Save(ctx context.Context, name string, m *api.Model) error {
	if name == "" {
		return errors.New("save project: empty name")
	}
	data, err := envelope.Save(m)
	if err != nil {
		return fmt.Errorf("save project %s: %w", name, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO projects (name, schema_version, envelope, updated_at)
		VALUES (?, ?, ?, ?)
	`, name, string(api.CurrentVersion), string(data), s.now().UnixMilli())
	if err != nil {
		return fmt.Errorf("save project %s: %w", name, err)
	}
	return nil
}

// Load reads the project stored under name. Envelopes of another schema
// version load with a warning, as envelope.Read does.
func (s *Store) Load(ctx context.Context, name string) (*envelope.Loaded, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT envelope FROM projects WHERE name = ?`, name).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", name, err)
	}
	l, err := envelope.Read([]byte(data))
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", name, err)
	}
	return l, nil
}

// List returns every stored project ordered by name.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, schema_version, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e  Entry
			v  string
			ms int64
		)
		if err := rows.Scan(&e.Name, &v, &ms); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
		e.SchemaVersion = api.SchemaVersion(v)
		e.UpdatedAt = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

// Delete removes the project stored under name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("delete project %s: %w", name, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project %s: %w", name, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return nil
}
