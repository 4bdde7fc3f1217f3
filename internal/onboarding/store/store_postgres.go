package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"prooflayer/internal/onboarding/models"
	id "prooflayer/pkg/domain"
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

func (s *PostgresStore) Find(ctx context.Context, userID id.UserID) (*models.Progress, error) {
	var (
		completed []string
		p         = models.Progress{UserID: userID}
	)
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT completed, dismissed, updated_at FROM onboarding_progress WHERE user_id = $1
	`, uuid.UUID(userID)).Scan(pq.Array(&completed), &p.Dismissed, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find onboarding progress: %w", err)
	}
	for _, c := range completed {
		p.Completed = append(p.Completed, models.Step(c))
	}
	p.Normalize()
	return &p, nil
}

func (s *PostgresStore) Save(ctx context.Context, p *models.Progress) error {
	completed := make([]string, len(p.Completed))
	for i, c := range p.Completed {
		completed[i] = string(c)
	}
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO onboarding_progress (user_id, completed, dismissed, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET completed = EXCLUDED.completed, dismissed = EXCLUDED.dismissed, updated_at = EXCLUDED.updated_at
	`, uuid.UUID(p.UserID), pq.Array(completed), p.Dismissed, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save onboarding progress: %w", err)
	}
	return nil
}
