package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"prooflayer/internal/platform/postgres"
	"prooflayer/internal/workspace/models"
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
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const workspaceColumns = `id, owner_id, name, slug, brand_color, logo_url, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWorkspace(row rowScanner) (*models.Workspace, error) {
	var (
		w           models.Workspace
		wsID, owner uuid.UUID
	)
	if err := row.Scan(&wsID, &owner, &w.Name, &w.Slug, &w.BrandColor, &w.LogoURL, &w.CreatedAt, &w.UpdatedAt); err != nil {
		return nil, err
	}
	w.ID = id.WorkspaceID(wsID)
	w.OwnerID = id.UserID(owner)
	return &w, nil
}

func (s *PostgresStore) Create(ctx context.Context, w *models.Workspace) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO workspaces (`+workspaceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING
	`, uuid.UUID(w.ID), uuid.UUID(w.OwnerID), w.Name, w.Slug, w.BrandColor, w.LogoURL, w.CreatedAt, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	// A skipped row leaves the surrounding transaction usable for a retry.
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert workspace: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, workspaceID id.WorkspaceID) (*models.Workspace, error) {
	w, err := scanWorkspace(s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, uuid.UUID(workspaceID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find workspace: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Workspace, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE owner_id = $1 ORDER BY created_at, slug`, uuid.UUID(ownerID))
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}
	defer rows.Close()

	var out []*models.Workspace
	for rows.Next() {
		w, err := scanWorkspace(rows)
		if err != nil {
			return nil, fmt.Errorf("scan workspace: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CountByOwner counts workspaces for a plan check. Inside a transaction it first locks
// the key, so concurrent creates for the same key count one after another.
func (s *PostgresStore) CountByOwner(ctx context.Context, ownerID id.UserID) (int, error) {
	if tx, ok := txcontext.From(ctx); ok {
		if err := postgres.LockKey(ctx, tx, "workspaces", uuid.UUID(ownerID)); err != nil {
			return 0, err
		}
	}
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workspaces WHERE owner_id = $1`, uuid.UUID(ownerID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count workspaces: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Update(ctx context.Context, w *models.Workspace) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE workspaces SET name = $2, brand_color = $3, logo_url = $4, updated_at = $5
		WHERE id = $1
	`, uuid.UUID(w.ID), w.Name, w.BrandColor, w.LogoURL, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	return requireOneRow(res)
}

// Delete removes the workspace; forms, widgets and submissions go with it
// through ON DELETE CASCADE.
func (s *PostgresStore) Delete(ctx context.Context, workspaceID id.WorkspaceID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM workspaces WHERE id = $1`, uuid.UUID(workspaceID))
	if err != nil {
		return fmt.Errorf("delete workspace: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
