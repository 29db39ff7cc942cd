package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store persists the journal in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the journal at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// Writers from parallel workers serialize on one connection.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// StartRun inserts a running batch.
func (s *Store) StartRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("run id is required")
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, profile_path, status, started_at, files_total) VALUES (?, ?, ?, ?, ?)`,
		run.ID, nullableString(run.ProfilePath), RunRunning, formatTime(run.StartedAt), run.Total,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// FinishRun stores the final counters and status of a run.
func (s *Store) FinishRun(ctx context.Context, run Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE runs
         SET status = ?, finished_at = ?, files_total = ?, files_succeeded = ?, files_failed = ?, files_skipped = ?
         WHERE id = ?`,
		run.Status, formatTime(run.FinishedAt), run.Total, run.Succeeded, run.Failed, run.Skipped, run.ID,
	)
	if err != nil {
		return fmt.Errorf("update run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update run: unknown run %s", run.ID)
	}
	return nil
}

// RecordFile appends the outcome of one input to its run.
func (s *Store) RecordFile(ctx context.Context, file File) error {
	if file.FinishedAt.IsZero() {
		file.FinishedAt = time.Now()
	}
	if file.StartedAt.IsZero() {
		file.StartedAt = file.FinishedAt
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO files (
            run_id, file_id, input_path, output_path, title, status,
            failure_kind, error_message, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		file.RunID, file.FileID, file.InputPath, file.OutputPath, nullableString(file.Title), file.Status,
		nullableString(file.FailureKind), nullableString(file.ErrorMessage),
		formatTime(file.StartedAt), formatTime(file.FinishedAt),
	)
	if err != nil {
		return fmt.Errorf("insert file: %w", err)
	}
	return nil
}

// Completed reports whether any run muxed input to output successfully.
func (s *Store) Completed(ctx context.Context, input, output string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM files WHERE input_path = ? AND output_path = ? AND status = ?`,
		input, output, FileSucceeded,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query completed: %w", err)
	}
	return count > 0, nil
}

const runColumns = "id, profile_path, status, started_at, finished_at, files_total, files_succeeded, files_failed, files_skipped"

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun fetches a run by id. It returns nil when the run does not exist.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}
	return &run, nil
}

// Files lists the file outcomes of a run in processing order.
func (s *Store) Files(ctx context.Context, runID string) ([]File, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, file_id, input_path, output_path, title, status, failure_kind, error_message, started_at, finished_at
         FROM files WHERE run_id = ? ORDER BY file_id, id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query files: %w", err)
	}
	defer rows.Close()

	var files []File
	for rows.Next() {
		var (
			f                   File
			title, kind, errMsg sql.NullString
			started, finished   string
			status              string
		)
		if err := rows.Scan(&f.RunID, &f.FileID, &f.InputPath, &f.OutputPath, &title, &status,
			&kind, &errMsg, &started, &finished); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		f.Title = title.String
		f.Status = FileStatus(status)
		f.FailureKind = kind.String
		f.ErrorMessage = errMsg.String
		f.StartedAt = parseTime(started)
		f.FinishedAt = parseTime(finished)
		files = append(files, f)
	}
	return files, rows.Err()
}

func scanRun(scanner interface{ Scan(dest ...any) error }) (Run, error) {
	var (
		run      Run
		profile  sql.NullString
		status   string
		started  string
		finished sql.NullString
	)
	if err := scanner.Scan(&run.ID, &profile, &status, &started, &finished,
		&run.Total, &run.Succeeded, &run.Failed, &run.Skipped); err != nil {
		return Run{}, err
	}
	run.ProfilePath = profile.String
	run.Status = RunStatus(status)
	run.StartedAt = parseTime(started)
	if finished.Valid {
		run.FinishedAt = parseTime(finished.String)
	}
	return run, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
