package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tidy/internal/organizer"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id                 TEXT PRIMARY KEY,
    root               TEXT NOT NULL,
    dry_run            INTEGER NOT NULL,
    recursive          INTEGER NOT NULL,
    started_at         TEXT NOT NULL,
    finished_at        TEXT NOT NULL,
    total_files        INTEGER NOT NULL,
    organized          INTEGER NOT NULL,
    skipped            INTEGER NOT NULL,
    failed             INTEGER NOT NULL,
    categories_created INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS operations (
    run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    seq         INTEGER NOT NULL,
    timestamp   TEXT NOT NULL,
    action      TEXT NOT NULL,
    source      TEXT NOT NULL,
    destination TEXT NOT NULL,
    category    TEXT NOT NULL,
    status      TEXT NOT NULL,
    error       TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (run_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
`

// Run is one recorded organize run.
type Run struct {
	ID         string
	Root       string
	DryRun     bool
	Recursive  bool
	StartedAt  time.Time
	FinishedAt time.Time
	Stats      organizer.Stats
}

// Store persists run history in SQLite. It is an append-only record for
// inspection, not an undo mechanism.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to (or creates) the history database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure history directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// RecordRun stores one run and its ledger in a single transaction and
// returns the run ID (generated when run.ID is empty).
func (s *Store) RecordRun(ctx context.Context, run Run, ledger organizer.Ledger) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin history tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, root, dry_run, recursive, started_at, finished_at,
			total_files, organized, skipped, failed, categories_created)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Root, boolInt(run.DryRun), boolInt(run.Recursive),
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Stats.TotalFiles, run.Stats.Organized, run.Stats.Skipped,
		run.Stats.Failed, run.Stats.CategoriesCreated,
	)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}

	for seq, op := range ledger {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO operations (run_id, seq, timestamp, action, source, destination, category, status, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, seq, op.Timestamp.UTC().Format(time.RFC3339Nano),
			op.Action, op.Source, op.Destination, op.Category, string(op.Status), op.Error,
		)
		if err != nil {
			return "", fmt.Errorf("insert operation %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit history tx: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root, dry_run, recursive, started_at, finished_at,
			total_files, organized, skipped, failed, categories_created
		FROM runs ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			run                   Run
			dryRun, recursive     int
			startedAt, finishedAt string
		)
		if err := rows.Scan(&run.ID, &run.Root, &dryRun, &recursive, &startedAt, &finishedAt,
			&run.Stats.TotalFiles, &run.Stats.Organized, &run.Stats.Skipped,
			&run.Stats.Failed, &run.Stats.CategoriesCreated); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		run.Recursive = recursive != 0
		run.StartedAt = parseTime(startedAt)
		run.FinishedAt = parseTime(finishedAt)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// FindRun resolves an ID or unambiguous ID prefix to a recorded run.
func (s *Store) FindRun(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, fmt.Errorf("empty run id")
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, root, dry_run, recursive, started_at, finished_at,
			total_files, organized, skipped, failed, categories_created
		FROM runs WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		var (
			run                   Run
			dryRun, recursive     int
			startedAt, finishedAt string
		)
		if err := rows.Scan(&run.ID, &run.Root, &dryRun, &recursive, &startedAt, &finishedAt,
			&run.Stats.TotalFiles, &run.Stats.Organized, &run.Stats.Skipped,
			&run.Stats.Failed, &run.Stats.CategoriesCreated); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.DryRun = dryRun != 0
		run.Recursive = recursive != 0
		run.StartedAt = parseTime(startedAt)
		run.FinishedAt = parseTime(finishedAt)
		matches = append(matches, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no run matches %q", id)
	case 1:
		return &matches[0], nil
	default:
		return nil, fmt.Errorf("run id %q is ambiguous", id)
	}
}

// RunOperations returns the recorded ledger of one run, in original order.
func (s *Store) RunOperations(ctx context.Context, runID string) (organizer.Ledger, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, action, source, destination, category, status, error
		FROM operations WHERE run_id = ? ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("query operations: %w", err)
	}
	defer rows.Close()

	var ledger organizer.Ledger
	for rows.Next() {
		var (
			op        organizer.Operation
			timestamp string
			status    string
		)
		if err := rows.Scan(&timestamp, &op.Action, &op.Source, &op.Destination, &op.Category, &status, &op.Error); err != nil {
			return nil, fmt.Errorf("scan operation: %w", err)
		}
		op.Timestamp = parseTime(timestamp)
		op.Status = organizer.Outcome(status)
		ledger = append(ledger, op)
	}
	return ledger, rows.Err()
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
