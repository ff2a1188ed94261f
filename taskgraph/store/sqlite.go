package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a SQLite-backed TraceStore: a single-file database good
// for local runs and prototyping before moving to MySQLStore. WAL mode is
// enabled for concurrent reads while the engine appends cycle records.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (and migrates, if needed) a SQLite database at
// path. Use ":memory:" for an ephemeral in-process database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite supports exactly one writer at a time.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx := context.Background()
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set pragma %q: %w", pragma, err)
		}
	}

	s := &SQLiteStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS cycle_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL,
			cycle INTEGER NOT NULL,
			trace TEXT NOT NULL,
			started_at TIMESTAMP NOT NULL,
			ended_at TIMESTAMP NOT NULL,
			UNIQUE(run_id, cycle)
		)
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create cycle_records: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"CREATE INDEX IF NOT EXISTS idx_cycle_records_run_id ON cycle_records(run_id)"); err != nil {
		return fmt.Errorf("create idx_cycle_records_run_id: %w", err)
	}
	return nil
}

// SaveCycle inserts rec, erroring on a duplicate (run_id, cycle) pair.
func (s *SQLiteStore) SaveCycle(ctx context.Context, rec CycleRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cycle_records (run_id, cycle, trace, started_at, ended_at) VALUES (?, ?, ?, ?, ?)`,
		rec.RunID, rec.Cycle, rec.Trace, rec.StartedAt, rec.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("insert cycle record: %w", err)
	}
	return nil
}

// LoadRun returns runID's cycle records ordered by cycle number.
func (s *SQLiteStore) LoadRun(ctx context.Context, runID string) ([]CycleRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT cycle, trace, started_at, ended_at FROM cycle_records WHERE run_id = ? ORDER BY cycle ASC`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query cycle records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []CycleRecord
	for rows.Next() {
		var rec CycleRecord
		var started, ended time.Time
		if err := rows.Scan(&rec.Cycle, &rec.Trace, &started, &ended); err != nil {
			return nil, fmt.Errorf("scan cycle record: %w", err)
		}
		rec.RunID = runID
		rec.StartedAt = started
		rec.EndedAt = ended
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
