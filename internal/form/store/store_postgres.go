package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"prooflayer/internal/form/models"
	"prooflayer/internal/platform/postgres"
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

const formColumns = `id, workspace_id, name, slug, headline, prompt, collect_rating, collect_email,
	allowed_kinds, thank_you_message, status, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanForm(row rowScanner) (*models.Form, error) {
	var (
		f            models.Form
		formID, wsID uuid.UUID
		kinds        pq.StringArray
		status       string
	)
	err := row.Scan(&formID, &wsID, &f.Name, &f.Slug, &f.Headline, &f.Prompt, &f.CollectRating, &f.CollectEmail,
		&kinds, &f.ThankYouMessage, &status, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	f.ID = id.FormID(formID)
	f.WorkspaceID = id.WorkspaceID(wsID)
	f.AllowedKinds = []string(kinds)
	f.Status = models.Status(status)
	return &f, nil
}

func (s *PostgresStore) Create(ctx context.Context, f *models.Form) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO forms (`+formColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT DO NOTHING
	`, uuid.UUID(f.ID), uuid.UUID(f.WorkspaceID), f.Name, f.Slug, f.Headline, f.Prompt, f.CollectRating, f.CollectEmail,
		pq.Array(f.AllowedKinds), f.ThankYouMessage, string(f.Status), f.CreatedAt, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	// A skipped row leaves the surrounding transaction usable for a retry.
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert form: %w", err)
	}
	if n == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) findOne(ctx context.Context, where string, arg any) (*models.Form, error) {
	f, err := scanForm(s.execer(ctx).QueryRowContext(ctx, `SELECT `+formColumns+` FROM forms WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find form: %w", err)
	}
	return f, nil
}

func (s *PostgresStore) FindByID(ctx context.Context, formID id.FormID) (*models.Form, error) {
	return s.findOne(ctx, `id = $1`, uuid.UUID(formID))
}

func (s *PostgresStore) FindBySlug(ctx context.Context, slug string) (*models.Form, error) {
	return s.findOne(ctx, `slug = $1`, slug)
}

func (s *PostgresStore) ListByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) ([]*models.Form, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+formColumns+` FROM forms WHERE workspace_id = $1 ORDER BY created_at`, uuid.UUID(workspaceID))
	if err != nil {
		return nil, fmt.Errorf("list forms: %w", err)
	}
	defer rows.Close()

	var out []*models.Form
	for rows.Next() {
		f, err := scanForm(rows)
		if err != nil {
			return nil, fmt.Errorf("scan form: %w", err)
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CountByWorkspace counts forms for a plan check. Inside a transaction it first locks
// the key, so concurrent creates for the same key count one after another.
func (s *PostgresStore) CountByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) (int, error) {
	if tx, ok := txcontext.From(ctx); ok {
		if err := postgres.LockKey(ctx, tx, "forms", uuid.UUID(workspaceID)); err != nil {
			return 0, err
		}
	}
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM forms WHERE workspace_id = $1`, uuid.UUID(workspaceID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count forms: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Update(ctx context.Context, f *models.Form) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE forms SET name = $2, headline = $3, prompt = $4, collect_rating = $5, collect_email = $6,
			allowed_kinds = $7, thank_you_message = $8, status = $9, updated_at = $10
		WHERE id = $1
	`, uuid.UUID(f.ID), f.Name, f.Headline, f.Prompt, f.CollectRating, f.CollectEmail,
		pq.Array(f.AllowedKinds), f.ThankYouMessage, string(f.Status), f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update form: %w", err)
	}
	return requireOneRow(res)
}

// Delete removes the form; its submissions cascade.
func (s *PostgresStore) Delete(ctx context.Context, formID id.FormID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM forms WHERE id = $1`, uuid.UUID(formID))
	if err != nil {
		return fmt.Errorf("delete form: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) DeleteByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM forms WHERE workspace_id = $1`, uuid.UUID(workspaceID)); err != nil {
		return fmt.Errorf("delete workspace forms: %w", err)
	}
	return nil
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
