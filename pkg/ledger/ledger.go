// CLAUDE:SUMMARY SQLite ledger of load runs and per-file outcomes (schema, rows, rejects, skip reason).
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"

	"github.com/hazyhaar/covidgraph/pkg/loader"
	_ "modernc.org/sqlite"
)

// Run is a row of the load_runs table.
type Run struct {
	RunID    string
	Dir      string
	Started  int64
	Finished int64
	Files    int
	Loaded   int
	Rows     int
}

// File is a row of the load_files table.
type File struct {
	RunID    string
	Name     string
	Schema   string
	Rows     int
	Rejected int
	Status   string
	Error    *string
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS load_runs (
		run_id     TEXT PRIMARY KEY,
		dir        TEXT NOT NULL,
		started    INTEGER NOT NULL,
		finished   INTEGER NOT NULL,
		file_count INTEGER NOT NULL,
		loaded     INTEGER NOT NULL,
		row_count  INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS load_files (
		run_id      TEXT NOT NULL REFERENCES load_runs(run_id),
		name        TEXT NOT NULL,
		schema_name TEXT NOT NULL DEFAULT '',
		row_count   INTEGER NOT NULL,
		rejected    INTEGER NOT NULL,
		status      TEXT NOT NULL,
		error       TEXT,
		PRIMARY KEY (run_id, name)
	)`,
}

// Ledger records which report files each load used and how they fared.
type Ledger struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and ensures the tables exist.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	for _, ddl := range schema {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("create ledger tables: %w", err)
		}
	}
	return &Ledger{db: db}, nil
}

// Close closes the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// Record stores a load report in one transaction.
func (l *Ledger) Record(ctx context.Context, rep *loader.Report) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO load_runs (run_id, dir, started, finished, file_count, loaded, row_count) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rep.RunID, rep.Dir, rep.Started.Unix(), rep.Finished.Unix(), len(rep.Files), rep.Loaded(), rep.Rows(),
	); err != nil {
		return fmt.Errorf("insert run %s: %w", rep.RunID, err)
	}

	for _, f := range rep.Files {
		var errMsg *string
		if f.Err != nil {
			s := f.Err.Error()
			errMsg = &s
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO load_files (run_id, name, schema_name, row_count, rejected, status, error) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			rep.RunID, filepath.Base(f.Path), f.Schema, f.Rows, f.Rejected, string(f.Status), errMsg,
		); err != nil {
			return fmt.Errorf("insert file %s: %w", f.Path, err)
		}
	}
	return tx.Commit()
}

// Runs returns the most recent load runs, newest first.
func (l *Ledger) Runs(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, dir, started, finished, file_count, loaded, row_count
		FROM load_runs ORDER BY started DESC, run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.Dir, &r.Started, &r.Finished, &r.Files, &r.Loaded, &r.Rows); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Files returns the per-file outcomes of one run, ordered by file name.
func (l *Ledger) Files(ctx context.Context, runID string) ([]File, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT run_id, name, schema_name, row_count, rejected, status, error
		FROM load_files WHERE run_id = ? ORDER BY name`, runID)
	if err != nil {
		return nil, fmt.Errorf("list files for %s: %w", runID, err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var f File
		if err := rows.Scan(&f.RunID, &f.Name, &f.Schema, &f.Rows, &f.Rejected, &f.Status, &f.Error); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
