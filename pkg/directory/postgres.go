package directory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	terrors "github.com/matzehuels/trombinoscope/pkg/errors"
)

// pgUniqueViolation is the SQLSTATE of a unique constraint failure.
const pgUniqueViolation = "23505"

// Postgres is a Repository backed by a PostgreSQL table.
type Postgres struct {
	q    queryExecer
	pool *pgxpool.Pool
}

type queryExecer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// OpenPostgres connects to dsn and creates the employees table if needed.
func OpenPostgres(ctx context.Context, dsn string) (*Postgres, error) {
	if dsn == "" {
		return nil, terrors.New(terrors.ErrCodeInvalidConfig, "postgres backend requires a dsn")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, storageErr(err, "connect postgres")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, storageErr(err, "ping postgres")
	}

	p := &Postgres{q: pool, pool: pool}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) migrate(ctx context.Context) error {
	_, err := p.q.Exec(ctx, `
CREATE TABLE IF NOT EXISTS employees (
  seq bigserial PRIMARY KEY,
  id integer NOT NULL UNIQUE,
  parent_id integer,
  first_name text NOT NULL,
  last_name text NOT NULL,
  title text NOT NULL,
  photo text NOT NULL DEFAULT '',
  birth_date text NOT NULL,
  level integer
);`)
	return storageErr(err, "migrate postgres")
}

func (p *Postgres) List(ctx context.Context) ([]Employee, error) {
	rows, err := p.q.Query(ctx, `
SELECT id, parent_id, first_name, last_name, title, photo, birth_date, level
FROM employees
ORDER BY seq ASC;`)
	if err != nil {
		return nil, storageErr(err, "list employees")
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		var e Employee
		if err := rows.Scan(&e.ID, &e.ParentID, &e.FirstName, &e.LastName, &e.Title, &e.Photo, &e.BirthDate, &e.Level); err != nil {
			return nil, storageErr(err, "scan employee")
		}
		out = append(out, e)
	}
	return out, storageErr(rows.Err(), "list employees")
}

func (p *Postgres) Add(ctx context.Context, e Employee) error {
	_, err := p.q.Exec(ctx, `
INSERT INTO employees (id, parent_id, first_name, last_name, title, photo, birth_date, level)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);`,
		e.ID, e.ParentID, e.FirstName, e.LastName, e.Title, e.Photo, e.BirthDate, e.Level)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return duplicateID(e.ID)
	}
	return storageErr(err, "insert employee")
}

func (p *Postgres) Remove(ctx context.Context, id int) error {
	_, err := p.q.Exec(ctx, `DELETE FROM employees WHERE id = $1;`, id)
	return storageErr(err, "delete employee")
}

func (p *Postgres) NextID(ctx context.Context) (int, error) {
	var next int
	if err := p.q.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) + 1 FROM employees;`).Scan(&next); err != nil {
		return 0, storageErr(err, "next employee id")
	}
	return next, nil
}

func (p *Postgres) Clear(ctx context.Context) error {
	_, err := p.q.Exec(ctx, `DELETE FROM employees;`)
	return storageErr(err, "clear employees")
}

func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

var _ Repository = (*Postgres)(nil)
