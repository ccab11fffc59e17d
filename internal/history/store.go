// Package history records contract sizes between runs in a SQLite database
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/ludo-technologies/contractsize/domain"
)

// Run is one recorded sizing run
type Run struct {
	ID         string
	RecordedAt time.Time
	TotalBytes int64
	Violations int
}

// Store wraps the SQLite database connection
type Store struct {
	conn   *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

// Open opens or creates the history database and initializes the schema
func Open(path string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, domain.NewStorageError("failed to create history directory", err)
		}
	}

	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, domain.NewStorageError("failed to open history database", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		// retry for up to 5 seconds while another run holds the lock
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := conn.Exec(p); err != nil {
			conn.Close()
			return nil, domain.NewStorageError(fmt.Sprintf("failed to apply %q", p), err)
		}
	}

	if err := runMigrations(conn); err != nil {
		conn.Close()
		return nil, domain.NewStorageError("failed to migrate history database", err)
	}

	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, domain.NewStorageError("failed to create schema", err)
	}

	logger.Debug("history database opened", zap.String("path", path))
	return &Store{conn: conn, logger: logger, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// Previous returns the sizes of the most recent recorded run
func (s *Store) Previous(ctx context.Context) (domain.PreviousSizes, error) {
	prev := domain.PreviousSizes{Contracts: map[string]int64{}}

	var seq int64
	err := s.conn.QueryRowContext(ctx,
		`SELECT seq, total_bytes FROM runs ORDER BY seq DESC LIMIT 1`,
	).Scan(&seq, &prev.TotalBytes)
	if err == sql.ErrNoRows {
		return prev, nil
	}
	if err != nil {
		return prev, domain.NewStorageError("failed to read previous run", err)
	}

	rows, err := s.conn.QueryContext(ctx,
		`SELECT contract_key, bytes FROM contract_sizes WHERE run_seq = ?`, seq)
	if err != nil {
		return prev, domain.NewStorageError("failed to read previous sizes", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var bytes int64
		if err := rows.Scan(&key, &bytes); err != nil {
			return prev, domain.NewStorageError("failed to scan previous size", err)
		}
		prev.Contracts[key] = bytes
	}
	if err := rows.Err(); err != nil {
		return prev, domain.NewStorageError("failed to read previous sizes", err)
	}

	prev.Found = true
	return prev, nil
}

// Record stores the report as a new run
func (s *Store) Record(ctx context.Context, report *domain.Report) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewStorageError("failed to begin transaction", err)
	}
	defer tx.Rollback()

	var maxSize *float64
	if report.Threshold.Enabled {
		maxSize = &report.Threshold.MaxSizeKiB
	}

	id := uuid.NewString()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, recorded_at, total_bytes, max_size_kib, violations)
		VALUES (?, ?, ?, ?, ?)`,
		id, s.now().UTC().Format(time.RFC3339Nano), report.Total.Size.Bytes(), maxSize, len(report.Violations),
	)
	if err != nil {
		return domain.NewStorageError("failed to record run", err)
	}
	seq, err := result.LastInsertId()
	if err != nil {
		return domain.NewStorageError("failed to get run id", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO contract_sizes (run_seq, contract_key, name, bytes, tier) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return domain.NewStorageError("failed to prepare insert", err)
	}
	defer stmt.Close()

	for _, row := range report.Rows {
		if _, err := stmt.ExecContext(ctx, seq, row.ContractKey(), row.DisplayName, row.Size.Bytes(), string(row.Tier)); err != nil {
			return domain.NewStorageError("failed to record size of "+row.ContractKey(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewStorageError("failed to commit run", err)
	}

	s.logger.Debug("run recorded", zap.String("run_id", id), zap.Int("contracts", len(report.Rows)))
	return nil
}

// Runs lists the most recent runs, newest first
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, recorded_at, total_bytes, violations
		FROM runs ORDER BY seq DESC LIMIT ?`, limit)
	if err != nil {
		return nil, domain.NewStorageError("failed to list runs", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var recordedAt string
		if err := rows.Scan(&r.ID, &recordedAt, &r.TotalBytes, &r.Violations); err != nil {
			return nil, domain.NewStorageError("failed to scan run", err)
		}
		t, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, domain.NewStorageError("invalid timestamp for run "+r.ID, err)
		}
		r.RecordedAt = t
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStorageError("failed to list runs", err)
	}
	return runs, nil
}
