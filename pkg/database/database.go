package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the SQLite database connection
type DB struct {
	conn *sql.DB
}

// Open opens or creates a SQLite database and initializes the schema
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL lets ghp-history read while a tool is writing
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// CreateRun creates a new run record
func (db *DB) CreateRun(run *Run) error {
	result, err := db.conn.Exec(`
		INSERT INTO runs (tool, input_path, started_at, status, notes, entries_before, entries_after)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Tool, run.InputPath, run.StartedAt.Format(time.RFC3339),
		run.Status, run.Notes, run.EntriesBefore, run.EntriesAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	run.ID = id
	return nil
}

// UpdateRun updates an existing run
func (db *DB) UpdateRun(run *Run) error {
	var completedAt *string
	if run.CompletedAt != nil {
		t := run.CompletedAt.Format(time.RFC3339)
		completedAt = &t
	}

	_, err := db.conn.Exec(`
		UPDATE runs
		SET completed_at = ?, status = ?, notes = ?, entries_before = ?, entries_after = ?
		WHERE id = ?`,
		completedAt, run.Status, run.Notes, run.EntriesBefore, run.EntriesAfter, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	return nil
}

const runColumns = `id, tool, input_path, started_at, completed_at, status, notes, entries_before, entries_after`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*Run, error) {
	var run Run
	var startedAt string
	var completedAt, notes *string

	err := row.Scan(
		&run.ID, &run.Tool, &run.InputPath, &startedAt, &completedAt,
		&run.Status, &notes, &run.EntriesBefore, &run.EntriesAfter,
	)
	if err != nil {
		return nil, err
	}

	run.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
	if completedAt != nil {
		t, _ := time.Parse(time.RFC3339, *completedAt)
		run.CompletedAt = &t
	}
	if notes != nil {
		run.Notes = *notes
	}

	return &run, nil
}

// GetRun retrieves a run by ID
func (db *DB) GetRun(id int64) (*Run, error) {
	run, err := scanRun(db.conn.QueryRow(`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

// ListRuns lists runs newest first, optionally filtered by tool ("" = all)
func (db *DB) ListRuns(tool string, limit int) ([]*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any

	if tool != "" {
		query += ` WHERE tool = ?`
		args = append(args, tool)
	}
	query += ` ORDER BY id DESC`
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// CreateRefSummary records the compacted totals of one ref
func (db *DB) CreateRefSummary(rs *RefSummary) error {
	result, err := db.conn.Exec(`
		INSERT INTO ref_summaries (run_id, ref, commit_id, test262_commit, total, outdated, ignored, partial, bytes_before, bytes_after)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rs.RunID, rs.Ref, rs.CommitID, rs.Test262Commit,
		rs.Total, rs.Outdated, rs.Ignored, rs.Partial,
		rs.BytesBefore, rs.BytesAfter,
	)
	if err != nil {
		return fmt.Errorf("failed to create ref summary: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rs.ID = id
	return nil
}

const refSummaryColumns = `id, run_id, ref, commit_id, test262_commit, total, outdated, ignored, partial, bytes_before, bytes_after`

func (db *DB) queryRefSummaries(query string, args ...any) ([]*RefSummary, error) {
	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ref summaries: %w", err)
	}
	defer rows.Close()

	var summaries []*RefSummary
	for rows.Next() {
		var rs RefSummary
		err := rows.Scan(
			&rs.ID, &rs.RunID, &rs.Ref, &rs.CommitID, &rs.Test262Commit,
			&rs.Total, &rs.Outdated, &rs.Ignored, &rs.Partial,
			&rs.BytesBefore, &rs.BytesAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ref summary: %w", err)
		}
		summaries = append(summaries, &rs)
	}

	return summaries, rows.Err()
}

// ListRefSummaries lists the ref summaries recorded by a run
func (db *DB) ListRefSummaries(runID int64) ([]*RefSummary, error) {
	return db.queryRefSummaries(`
		SELECT `+refSummaryColumns+`
		FROM ref_summaries WHERE run_id = ? ORDER BY id`, runID)
}

// RefHistory lists every recorded summary of a ref, oldest first
func (db *DB) RefHistory(ref string) ([]*RefSummary, error) {
	return db.queryRefSummaries(`
		SELECT `+refSummaryColumns+`
		FROM ref_summaries WHERE ref = ? ORDER BY run_id, id`, ref)
}

// CreateOperation creates a new operation record
func (db *DB) CreateOperation(op *Operation) error {
	result, err := db.conn.Exec(`
		INSERT INTO operations (run_id, operation, started_at, duration_ms, status, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		op.RunID, op.Operation, op.StartedAt.Format(time.RFC3339),
		op.DurationMs, op.Status, op.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to create operation: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	op.ID = id
	return nil
}

// ListOperations lists all operations for a run
func (db *DB) ListOperations(runID int64) ([]*Operation, error) {
	rows, err := db.conn.Query(`
		SELECT id, run_id, operation, started_at, duration_ms, status, error
		FROM operations WHERE run_id = ? ORDER BY started_at, id`, runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		var startedAt string
		var errMsg *string

		err := rows.Scan(
			&op.ID, &op.RunID, &op.Operation, &startedAt,
			&op.DurationMs, &op.Status, &errMsg,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan operation: %w", err)
		}

		op.StartedAt, _ = time.Parse(time.RFC3339, startedAt)
		if errMsg != nil {
			op.Error = *errMsg
		}
		ops = append(ops, &op)
	}

	return ops, rows.Err()
}
