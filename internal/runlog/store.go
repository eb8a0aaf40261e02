// Package runlog provides durable storage for pass-pipeline runs.
// Uses SQLite with WAL mode for concurrent read access.
package runlog

import (
	"context"
	"database/sql"
	_ "embed"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Run is one recorded pipeline run.
type Run struct {
	ID         string
	Seq        int64
	SourceName string
	Pipeline   string
	Result     string
	Output     string
	CreatedAt  string
}

// Store records pipeline runs in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and the schema automatically; the function is
// idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "connect to database")
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY errors.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply pragmas")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "apply schema")
	}

	return &Store{db: db}, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return errors.Wrapf(err, "execute %q", pragma)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// NewRunID returns a fresh UUIDv7 run identifier.
func NewRunID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", errors.Wrap(err, "generate run id")
	}
	return id.String(), nil
}

// WriteRun records a run, assigning it the next logical sequence number.
// The populated Run is returned; ID may be empty, in which case a fresh
// one is assigned.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		id, err := NewRunID()
		if err != nil {
			return Run{}, err
		}
		run.ID = id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, errors.Wrap(err, "write run")
	}
	defer tx.Rollback()

	// dense sequence: MAX(seq)+1 under the single-writer connection
	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, errors.Wrap(err, "next sequence")
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, source_name, pipeline, result, output)
		VALUES (?, ?, ?, ?, ?, ?)
	`, run.ID, run.Seq, run.SourceName, run.Pipeline, run.Result, run.Output); err != nil {
		return Run{}, errors.Wrap(err, "insert run")
	}

	if err := tx.Commit(); err != nil {
		return Run{}, errors.Wrap(err, "commit run")
	}
	return run, nil
}

// ReadRun returns the run with the given ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	var run Run
	err := s.db.QueryRowContext(ctx, `
		SELECT id, seq, source_name, pipeline, result, output, created_at
		FROM runs WHERE id = ?
	`, id).Scan(&run.ID, &run.Seq, &run.SourceName, &run.Pipeline,
		&run.Result, &run.Output, &run.CreatedAt)
	if err == sql.ErrNoRows {
		return Run{}, errors.Newf("run %s not found", id)
	}
	if err != nil {
		return Run{}, errors.Wrap(err, "read run")
	}
	return run, nil
}

// ListRuns returns every recorded run in sequence order.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, source_name, pipeline, result, output, created_at
		FROM runs ORDER BY seq
	`)
	if err != nil {
		return nil, errors.Wrap(err, "list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		if err := rows.Scan(&run.ID, &run.Seq, &run.SourceName, &run.Pipeline,
			&run.Result, &run.Output, &run.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
