package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"prooflayer/internal/auth/models"
	"prooflayer/internal/platform/postgres"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
	txcontext "prooflayer/pkg/platform/tx"
)

// PostgresStore persists users in the users table.
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

func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO users (id, email, name, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.UUID(u.ID), models.NormalizeEmail(u.Email), u.Name, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id, email, name, password_hash, created_at FROM users WHERE id = $1
	`, uuid.UUID(userID))
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, `
		SELECT id, email, name, password_hash, created_at FROM users WHERE LOWER(email) = $1
	`, models.NormalizeEmail(email))
}

func (s *PostgresStore) findOne(ctx context.Context, query string, arg any) (*models.User, error) {
	var (
		u   models.User
		uid uuid.UUID
	)
	err := s.execer(ctx).QueryRowContext(ctx, query, arg).
		Scan(&uid, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	u.ID = id.UserID(uid)
	return &u, nil
}
