// Package history persists completed rounds in SQLite.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/lixenwraith/vi-pong/history/migrations"
)

// Round is one completed round with its replay outcome
type Round struct {
	ID             int64
	StartedAt      time.Time
	Duration       time.Duration
	BallSnapshots  int
	InputSnapshots int
	Difficulty     string
	Verified       bool
}

// ErrNotFound is returned by Best when no round has been recorded
var ErrNotFound = errors.New("no rounds recorded")

// Store persists rounds in SQLite
type Store struct {
	db *sql.DB
}

func toMillis(t time.Time) int64 {
	return t.UTC().UnixMilli()
}

func fromMillis(v int64) time.Time {
	return time.UnixMilli(v).UTC()
}

// Open opens or creates the database at path and applies migrations
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("history path is required")
	}
	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database handle
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRound inserts one round
func (s *Store) RecordRound(ctx context.Context, r Round) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("history is not configured")
	}
	if r.Duration < 0 {
		return fmt.Errorf("round duration must not be negative")
	}
	startedAt := r.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rounds (
		   started_at,
		   duration_ms,
		   ball_snapshots,
		   input_snapshots,
		   difficulty,
		   verified
		 ) VALUES (?, ?, ?, ?, ?, ?)`,
		toMillis(startedAt),
		r.Duration.Milliseconds(),
		r.BallSnapshots,
		r.InputSnapshots,
		r.Difficulty,
		r.Verified,
	)
	if err != nil {
		return fmt.Errorf("record round: %w", err)
	}
	return nil
}

const selectRound = `SELECT id, started_at, duration_ms, ball_snapshots, input_snapshots, difficulty, verified FROM rounds`

// Recent returns up to limit rounds, newest first
func (s *Store) Recent(ctx context.Context, limit int) ([]Round, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("history is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx, selectRound+` ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		rounds = append(rounds, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return rounds, nil
}

// Best returns the longest round, ErrNotFound if none
func (s *Store) Best(ctx context.Context) (Round, error) {
	if err := ctx.Err(); err != nil {
		return Round{}, err
	}
	if s == nil || s.db == nil {
		return Round{}, fmt.Errorf("history is not configured")
	}

	row := s.db.QueryRowContext(ctx, selectRound+` ORDER BY duration_ms DESC, id ASC LIMIT 1`)
	r, err := scanRound(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Round{}, ErrNotFound
	}
	if err != nil {
		return Round{}, fmt.Errorf("query best round: %w", err)
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRound(sc scanner) (Round, error) {
	var (
		r          Round
		startedAt  int64
		durationMs int64
	)
	if err := sc.Scan(&r.ID, &startedAt, &durationMs, &r.BallSnapshots, &r.InputSnapshots, &r.Difficulty, &r.Verified); err != nil {
		return Round{}, err
	}
	r.StartedAt = fromMillis(startedAt)
	r.Duration = time.Duration(durationMs) * time.Millisecond
	return r, nil
}
