package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"prooflayer/internal/platform/postgres"
	"prooflayer/pkg/platform/sentinel"
	txcontext "prooflayer/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Seen(ctx context.Context, eventID string) (bool, error) {
	var seen bool
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM billing_events WHERE event_id = $1)
	`, eventID).Scan(&seen)
	if err != nil {
		return false, fmt.Errorf("look up billing event: %w", err)
	}
	return seen, nil
}

func (s *PostgresStore) Record(ctx context.Context, eventID, eventType string, at time.Time) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO billing_events (event_id, event_type, received_at) VALUES ($1, $2, $3)
	`, eventID, eventType, at)
	if postgres.IsUniqueViolation(err) {
		return sentinel.ErrConflict
	}
	if err != nil {
		return fmt.Errorf("record billing event: %w", err)
	}
	return nil
}
