// Package sqlite is the embedded VoteStore backed by modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
	"github.com/mamadbah2/satisfaction/internal/repository"
)

// Repository implements repository.VoteStore on a local SQLite file.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ repository.VoteStore = (*Repository)(nil)

// Open opens (or creates) the database at path and applies migrations.
func Open(path string, logger *zap.Logger) (*Repository, error) {
	if path == "" {
		return nil, fmt.Errorf("open: empty db path")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("open: create db dir: %w", err)
	}

	dsn := "file:" + path + "?mode=rwc&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: sql open: %w", err)
	}
	// One connection: writers are serialized.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open: ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open: migrate: %w", err)
	}

	logger.Info("sqlite store ready", zap.String("path", path))
	return &Repository{db: db, logger: logger}, nil
}

// ListVotes returns every record in insertion order.
func (r *Repository) ListVotes(ctx context.Context) ([]models.VoteRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT COALESCE(id, 0), mood, date, time, weekday
		FROM satisfaction_logs
		ORDER BY row_id;
	`)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	records := make([]models.VoteRecord, 0)
	for rows.Next() {
		var record models.VoteRecord
		var mood string
		if err := rows.Scan(&record.ID, &mood, &record.Date, &record.Time, &record.Weekday); err != nil {
			return nil, fmt.Errorf("list votes: scan: %w", err)
		}
		record.Mood = models.Mood(mood)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	return records, nil
}

// AllocateVote bumps the counter and inserts the record in one transaction.
func (r *Repository) AllocateVote(ctx context.Context, record models.VoteRecord) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("allocate vote: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var next int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO counters(name, value) VALUES (?, 1)
		ON CONFLICT(name) DO UPDATE SET value = value + 1
		RETURNING value;
	`, repository.VoteCounter).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("allocate vote: increment counter: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO satisfaction_logs(id, mood, date, time, weekday) VALUES (?, ?, ?, ?, ?);
	`, next, string(record.Mood), record.Date, record.Time, record.Weekday); err != nil {
		return 0, fmt.Errorf("allocate vote: insert record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("allocate vote: commit: %w", err)
	}

	r.logger.Debug("vote stored", zap.Int64("id", next), zap.String("mood", string(record.Mood)))
	return next, nil
}

// Reset deletes every record and zeroes the counter in one transaction.
func (r *Repository) Reset(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("reset: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM satisfaction_logs;`)
	if err != nil {
		return fmt.Errorf("reset: delete records: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO counters(name, value) VALUES (?, 0)
		ON CONFLICT(name) DO UPDATE SET value = 0;
	`, repository.VoteCounter); err != nil {
		return fmt.Errorf("reset: zero counter: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("reset: commit: %w", err)
	}

	deleted, _ := res.RowsAffected()
	r.logger.Info("store reset", zap.Int64("deleted", deleted))
	return nil
}

// Counter returns the last allocated id.
func (r *Repository) Counter(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.QueryRowContext(ctx, `SELECT value FROM counters WHERE name = ?;`, repository.VoteCounter).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read counter: %w", err)
	}
	return value, nil
}

// Close closes the database handle.
func (r *Repository) Close(context.Context) error {
	return r.db.Close()
}
