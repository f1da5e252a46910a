package directory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/matzehuels/trombinoscope/pkg/buildinfo"
)

// SQLite is a Repository backed by a local SQLite database file.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (and migrates) the database at path. An empty path
// defaults to ~/.config/trombinoscope/employees.sqlite; ":memory:" opens a
// private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		dir, err := buildinfo.ConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config dir: %w", err)
		}
		path = filepath.Join(dir, "employees.sqlite")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, storageErr(err, "create data dir")
		}
	}

	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr(err, "open sqlite")
	}
	// Pragmas are per connection, and a ":memory:" database is per
	// connection too: keep a single one.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, storageErr(err, "sqlite pragma")
		}
	}

	s := &SQLite{db: db}
	if err := s.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS employees (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id INTEGER NOT NULL UNIQUE,
		parent_id INTEGER,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		title TEXT NOT NULL,
		photo TEXT NOT NULL DEFAULT '',
		birth_date TEXT NOT NULL,
		level INTEGER
	);`)
	return storageErr(err, "migrate sqlite")
}

func (s *SQLite) List(ctx context.Context) ([]Employee, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, parent_id, first_name, last_name, title, photo, birth_date, level
		FROM employees ORDER BY seq ASC`)
	if err != nil {
		return nil, storageErr(err, "list employees")
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var (
			e             Employee
			parent, level sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &parent, &e.FirstName, &e.LastName, &e.Title, &e.Photo, &e.BirthDate, &level); err != nil {
			return nil, storageErr(err, "scan employee")
		}
		e.ParentID = fromNull(parent)
		e.Level = fromNull(level)
		out = append(out, e)
	}
	return out, storageErr(rows.Err(), "list employees")
}

func (s *SQLite) Add(ctx context.Context, e Employee) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO employees(id, parent_id, first_name, last_name, title, photo, birth_date, level)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, toNull(e.ParentID), e.FirstName, e.LastName, e.Title, e.Photo, e.BirthDate, toNull(e.Level))
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique") {
		return duplicateID(e.ID)
	}
	return storageErr(err, "insert employee")
}

func (s *SQLite) Remove(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	return storageErr(err, "delete employee")
}

func (s *SQLite) NextID(ctx context.Context) (int, error) {
	var maxID sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM employees`).Scan(&maxID); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, storageErr(err, "next employee id")
	}
	if !maxID.Valid {
		return 1, nil
	}
	return int(maxID.Int64) + 1, nil
}

func (s *SQLite) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM employees`)
	return storageErr(err, "clear employees")
}

func (s *SQLite) Close() error { return s.db.Close() }

func toNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func fromNull(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	return IntPtr(int(v.Int64))
}

var _ Repository = (*SQLite)(nil)
