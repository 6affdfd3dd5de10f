// Package store keeps a history of analysis runs in a SQLite database so
// that a debugging session can be reviewed after the fact.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/yaklabco/encheck/pkg/runner"
)

// ErrRunNotFound is returned when no run has the requested ID.
var ErrRunNotFound = errors.New("run not found")

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id             TEXT PRIMARY KEY,
	started_at     INTEGER NOT NULL,
	source         TEXT NOT NULL,
	capabilities   TEXT NOT NULL,
	documents      INTEGER NOT NULL,
	analyzed       INTEGER NOT NULL,
	errored        INTEGER NOT NULL,
	blocked        INTEGER NOT NULL,
	diagnostics    INTEGER NOT NULL,
	semantic_edits INTEGER NOT NULL,
	duration_ns    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS diagnostics (
	run_id   TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	path     TEXT NOT NULL,
	rule_id  TEXT NOT NULL,
	kind     TEXT NOT NULL,
	severity TEXT NOT NULL,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL,
	message  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_started ON runs(started_at);
CREATE INDEX IF NOT EXISTS idx_diagnostics_run ON diagnostics(run_id);
`

// Run is one recorded analysis.
type Run struct {
	ID           string
	StartedAt    time.Time
	Source       string
	Capabilities []string

	Documents     int
	Analyzed      int
	Errored       int
	Blocked       int
	Diagnostics   int
	SemanticEdits int
	Duration      time.Duration
}

// Entry is one diagnostic of a recorded run.
type Entry struct {
	Path     string
	RuleID   string
	Kind     string
	Severity string
	Line     int
	Column   int
	Message  string
}

// Store is a handle on the history database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns the history database location under the user cache
// directory.
func DefaultPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("locating cache directory: %w", err)
	}
	return filepath.Join(dir, "encheck", "history.db"), nil
}

// Open opens or creates the database at path.
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	// SQLite allows one writer.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record stores a finished run with its diagnostics and returns it with a
// fresh ID.
func (s *Store) Record(ctx context.Context, source string, capabilities []string, result *runner.Result) (Run, error) {
	stats := result.Stats
	run := Run{
		ID:            uuid.NewString(),
		StartedAt:     s.now().UTC(),
		Source:        source,
		Capabilities:  capabilities,
		Documents:     stats.Documents,
		Analyzed:      stats.Analyzed,
		Errored:       stats.Errored,
		Blocked:       stats.Blocked,
		Diagnostics:   stats.DiagnosticsTotal,
		SemanticEdits: stats.SemanticEdits,
		Duration:      stats.Duration,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `INSERT INTO runs
		(id, started_at, source, capabilities, documents, analyzed, errored, blocked, diagnostics, semantic_edits, duration_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.StartedAt.UnixNano(), run.Source, strings.Join(run.Capabilities, ","),
		run.Documents, run.Analyzed, run.Errored, run.Blocked, run.Diagnostics, run.SemanticEdits,
		int64(run.Duration))
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO diagnostics
		(run_id, path, rule_id, kind, severity, line, col, message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare diagnostics: %w", err)
	}
	defer stmt.Close()

	for _, doc := range result.Documents {
		if doc.Result == nil || doc.Result.Outcome == nil {
			continue
		}
		for _, d := range doc.Result.Outcome.Diagnostics {
			_, err := stmt.ExecContext(ctx, run.ID, doc.Pair.Path, d.RuleID, d.Kind.String(),
				string(d.Severity), d.Span.StartLine, d.Span.StartColumn, d.Message)
			if err != nil {
				return Run{}, fmt.Errorf("insert diagnostic: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// List returns the most recent runs, newest first. A limit of zero or less
// returns every run.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT id, started_at, source, capabilities, documents, analyzed, errored,
		blocked, diagnostics, semantic_edits, duration_ns FROM runs ORDER BY started_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Get returns the run with the given ID. A unique ID prefix is accepted.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, started_at, source, capabilities, documents,
		analyzed, errored, blocked, diagnostics, semantic_edits, duration_ns
		FROM runs WHERE id LIKE ? || '%' LIMIT 2`, id)
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	defer rows.Close()

	var found []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return Run{}, err
		}
		found = append(found, run)
	}
	if err := rows.Err(); err != nil {
		return Run{}, err
	}

	switch len(found) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	case 1:
		return found[0], nil
	default:
		return Run{}, fmt.Errorf("run ID prefix %q is ambiguous", id)
	}
}

// Diagnostics returns the diagnostics recorded for a run in insertion order.
func (s *Store) Diagnostics(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT path, rule_id, kind, severity, line, col, message
		FROM diagnostics WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, fmt.Errorf("list diagnostics: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Path, &e.RuleID, &e.Kind, &e.Severity, &e.Line, &e.Column, &e.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes all but the newest keep runs and reports how many were
// removed.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id NOT IN
		(SELECT id FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?)`, keep)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}
	return res.RowsAffected()
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run      Run
		started  int64
		caps     string
		duration int64
	)
	err := rows.Scan(&run.ID, &started, &run.Source, &caps, &run.Documents, &run.Analyzed,
		&run.Errored, &run.Blocked, &run.Diagnostics, &run.SemanticEdits, &duration)
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.StartedAt = time.Unix(0, started).UTC()
	run.Duration = time.Duration(duration)
	if caps != "" {
		run.Capabilities = strings.Split(caps, ",")
	}
	return run, nil
}
