package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"prooflayer/internal/entitlement/models"
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
	txcontext "prooflayer/pkg/platform/tx"
)

// PostgresStore persists entitlements in the entitlements table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const selectColumns = `user_id, plan, submissions_used, period_start, period_end, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntitlement(row rowScanner) (*models.Entitlement, error) {
	var (
		e    models.Entitlement
		uid  uuid.UUID
		plan string
	)
	if err := row.Scan(&uid, &plan, &e.SubmissionsUsed, &e.PeriodStart, &e.PeriodEnd, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.UserID = id.UserID(uid)
	e.Plan = plans.Plan(plan)
	return &e, nil
}

func (s *PostgresStore) GetOrCreate(ctx context.Context, e *models.Entitlement) (*models.Entitlement, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `
		INSERT INTO entitlements (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		RETURNING `+selectColumns,
		uuid.UUID(e.UserID), string(e.Plan), e.SubmissionsUsed, e.PeriodStart, e.PeriodEnd, e.UpdatedAt)
	out, err := scanEntitlement(row)
	if err != nil {
		return nil, fmt.Errorf("upsert entitlement: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) FindByUserID(ctx context.Context, userID id.UserID) (*models.Entitlement, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM entitlements WHERE user_id = $1`, uuid.UUID(userID))
	e, err := scanEntitlement(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find entitlement: %w", err)
	}
	return e, nil
}

// Execute locks the row FOR UPDATE, validates, applies and writes back in
// one transaction. It joins a caller transaction when one is in ctx.
func (s *PostgresStore) Execute(ctx context.Context, userID id.UserID, validate func(*models.Entitlement) error, apply func(*models.Entitlement)) (*models.Entitlement, error) {
	run := func(exec dbExecutor) (*models.Entitlement, error) {
		row := exec.QueryRowContext(ctx,
			`SELECT `+selectColumns+` FROM entitlements WHERE user_id = $1 FOR UPDATE`, uuid.UUID(userID))
		e, err := scanEntitlement(row)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("lock entitlement: %w", err)
		}
		if err := validate(e); err != nil {
			return nil, err
		}
		apply(e)
		_, err = exec.ExecContext(ctx, `
			UPDATE entitlements
			SET plan = $2, submissions_used = $3, period_start = $4, period_end = $5, updated_at = $6
			WHERE user_id = $1`,
			uuid.UUID(e.UserID), string(e.Plan), e.SubmissionsUsed, e.PeriodStart, e.PeriodEnd, e.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("update entitlement: %w", err)
		}
		return e, nil
	}

	if tx, ok := txcontext.From(ctx); ok {
		return run(tx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin entitlement tx: %w", err)
	}
	e, err := run(tx)
	if err != nil {
		_ = tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entitlement tx: %w", err)
	}
	return e, nil
}

// ResetPeriods rolls every expired period to the month containing now.
func (s *PostgresStore) ResetPeriods(ctx context.Context, now time.Time) ([]id.UserID, error) {
	start, end := models.PeriodFor(now)
	rows, err := s.execer(ctx).QueryContext(ctx, `
		UPDATE entitlements
		SET submissions_used = 0, period_start = $1, period_end = $2, updated_at = $3
		WHERE period_end <= $3
		RETURNING user_id`, start, end, now)
	if err != nil {
		return nil, fmt.Errorf("reset entitlement periods: %w", err)
	}
	defer rows.Close()

	var reset []id.UserID
	for rows.Next() {
		var uid uuid.UUID
		if err := rows.Scan(&uid); err != nil {
			return nil, fmt.Errorf("scan reset entitlement: %w", err)
		}
		reset = append(reset, id.UserID(uid))
	}
	return reset, rows.Err()
}
