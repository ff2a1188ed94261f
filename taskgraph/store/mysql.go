package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// MySQLStore is a MySQL/MariaDB-backed TraceStore for production runs
// that need cycle history to survive process restarts and be queryable
// by other tooling. Connection pooling mirrors a typical production
// setup: a handful of idle connections, a bounded connection lifetime.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore opens a MySQL connection using dsn, e.g.
// "user:pass@tcp(localhost:3306)/taskcycle?parseTime=true", and ensures
// the schema exists.
func NewMySQLStore(dsn string) (*MySQLStore, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	s := &MySQLStore{db: db}
	if err := s.createTables(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLStore) createTables(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS cycle_records (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			run_id VARCHAR(64) NOT NULL,
			cycle INT NOT NULL,
			trace TEXT NOT NULL,
			started_at DATETIME(6) NOT NULL,
			ended_at DATETIME(6) NOT NULL,
			UNIQUE KEY uq_run_cycle (run_id, cycle),
			KEY idx_run_id (run_id)
		) ENGINE=InnoDB
	`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create cycle_records: %w", err)
	}
	return nil
}

// SaveCycle inserts rec, erroring on a duplicate (run_id, cycle) pair.
func (s *MySQLStore) SaveCycle(ctx context.Context, rec CycleRecord) error {
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
func (s *MySQLStore) LoadRun(ctx context.Context, runID string) ([]CycleRecord, error) {
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

// Close closes the underlying connection pool.
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
