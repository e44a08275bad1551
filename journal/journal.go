// Package journal persists per-run and per-company outcomes in a local
// sqlite database so an interrupted or finished run can be inspected later.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status of one processed company.
const (
	StatusMatched    = "matched"
	StatusEmpty      = "empty"
	StatusExhausted  = "exhausted"
	StatusSaveFailed = "save_failed"
	StatusFailed     = "failed"
)

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id          TEXT PRIMARY KEY,
	started_at  DATETIME NOT NULL,
	finished_at DATETIME,
	errors      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS companies (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL REFERENCES runs(id),
	firma         TEXT NOT NULL,
	status        TEXT NOT NULL,
	reason        TEXT,
	rows_written  INTEGER NOT NULL DEFAULT 0,
	attempts      INTEGER NOT NULL DEFAULT 0,
	search_errors INTEGER NOT NULL DEFAULT 0,
	processed_at  DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_companies_run_id ON companies(run_id);
CREATE INDEX IF NOT EXISTS idx_companies_status ON companies(status);
`

// Journal records one run and its per-company outcomes.
type Journal struct {
	db    *sql.DB
	runID string
}

// Open opens (or creates) the sqlite database at path, applies the schema
// and starts a new run record.
func Open(ctx context.Context, path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("journal: exec %s: %w", pragma, err)
		}
	}

	if _, err := db.ExecContext(ctx, migration); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}

	j := &Journal{db: db, runID: uuid.New().String()}

	if _, err := db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		j.runID, time.Now().UTC(),
	); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal: insert run: %w", err)
	}

	return j, nil
}

// RunID returns the id of the current run record.
func (j *Journal) RunID() string {
	return j.runID
}

// CompanyRecord is one per-company outcome.
type CompanyRecord struct {
	Firma        string
	Status       string
	Reason       string
	RowsWritten  int
	Attempts     int
	SearchErrors int
}

// RecordCompany appends one company outcome to the current run.
func (j *Journal) RecordCompany(ctx context.Context, rec CompanyRecord) error {
	_, err := j.db.ExecContext(ctx,
		`INSERT INTO companies
			(id, run_id, firma, status, reason, rows_written, attempts, search_errors, processed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), j.runID, rec.Firma, rec.Status, rec.Reason,
		rec.RowsWritten, rec.Attempts, rec.SearchErrors, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("journal: insert company %s: %w", rec.Firma, err)
	}

	return nil
}

// FinishRun closes the run record with the final error count.
func (j *Journal) FinishRun(ctx context.Context, errorCount int) error {
	_, err := j.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, errors = ? WHERE id = ?`,
		time.Now().UTC(), errorCount, j.runID,
	)
	if err != nil {
		return fmt.Errorf("journal: finish run: %w", err)
	}

	return nil
}

// Companies returns the outcomes of the current run in processing order.
func (j *Journal) Companies(ctx context.Context) ([]CompanyRecord, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT firma, status, reason, rows_written, attempts, search_errors
		 FROM companies WHERE run_id = ? ORDER BY processed_at, id`,
		j.runID,
	)
	if err != nil {
		return nil, fmt.Errorf("journal: list companies: %w", err)
	}
	defer rows.Close()

	var out []CompanyRecord

	for rows.Next() {
		var rec CompanyRecord
		var reason sql.NullString

		if err := rows.Scan(&rec.Firma, &rec.Status, &reason, &rec.RowsWritten, &rec.Attempts, &rec.SearchErrors); err != nil {
			return nil, fmt.Errorf("journal: scan company: %w", err)
		}

		rec.Reason = reason.String
		out = append(out, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterate companies: %w", err)
	}

	return out, nil
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
