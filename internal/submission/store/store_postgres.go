package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"prooflayer/internal/platform/postgres"
	"prooflayer/internal/submission/models"
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

const submissionColumns = `id, form_id, workspace_id, kind, author_name, author_email, author_title,
	rating, body, media_url, status, created_at, updated_at, moderated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var (
		sub                 models.Submission
		subID, formID, wsID uuid.UUID
		kind, status        string
		moderatedAt         sql.NullTime
	)
	err := row.Scan(&subID, &formID, &wsID, &kind, &sub.AuthorName, &sub.AuthorEmail, &sub.AuthorTitle,
		&sub.Rating, &sub.Text, &sub.MediaURL, &status, &sub.CreatedAt, &sub.UpdatedAt, &moderatedAt)
	if err != nil {
		return nil, err
	}
	sub.ID = id.SubmissionID(subID)
	sub.FormID = id.FormID(formID)
	sub.WorkspaceID = id.WorkspaceID(wsID)
	sub.Kind = models.Kind(kind)
	sub.Status = models.Status(status)
	if moderatedAt.Valid {
		t := moderatedAt.Time
		sub.ModeratedAt = &t
	}
	return &sub, nil
}

func (s *PostgresStore) Create(ctx context.Context, sub *models.Submission) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO submissions (`+submissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, uuid.UUID(sub.ID), uuid.UUID(sub.FormID), uuid.UUID(sub.WorkspaceID), string(sub.Kind),
		sub.AuthorName, sub.AuthorEmail, sub.AuthorTitle, sub.Rating, sub.Text, sub.MediaURL,
		string(sub.Status), sub.CreatedAt, sub.UpdatedAt, sub.ModeratedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert submission: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, submissionID id.SubmissionID) (*models.Submission, error) {
	sub, err := scanSubmission(s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+submissionColumns+` FROM submissions WHERE id = $1`, uuid.UUID(submissionID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return sub, nil
}

// ListByWorkspace returns matching submissions, newest first.
func (s *PostgresStore) ListByWorkspace(ctx context.Context, workspaceID id.WorkspaceID, filter Filter) ([]*models.Submission, error) {
	conds := []string{"workspace_id = $1"}
	args := []any{uuid.UUID(workspaceID)}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.FormID.IsNil() {
		args = append(args, uuid.UUID(filter.FormID))
		conds = append(conds, fmt.Sprintf("form_id = $%d", len(args)))
	}
	if filter.MinRating > 0 {
		args = append(args, filter.MinRating)
		conds = append(conds, fmt.Sprintf("rating >= $%d", len(args)))
	}
	query := `SELECT ` + submissionColumns + ` FROM submissions WHERE ` + strings.Join(conds, " AND ") +
		` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.execer(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []*models.Submission
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, sub *models.Submission) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE submissions SET status = $2, updated_at = $3, moderated_at = $4
		WHERE id = $1
	`, uuid.UUID(sub.ID), string(sub.Status), sub.UpdatedAt, sub.ModeratedAt)
	if err != nil {
		return fmt.Errorf("update submission: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, submissionID id.SubmissionID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM submissions WHERE id = $1`, uuid.UUID(submissionID))
	if err != nil {
		return fmt.Errorf("delete submission: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) DeleteByForm(ctx context.Context, formID id.FormID) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM submissions WHERE form_id = $1`, uuid.UUID(formID)); err != nil {
		return fmt.Errorf("delete form submissions: %w", err)
	}
	return nil
}

func (s *PostgresStore) DeleteByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM submissions WHERE workspace_id = $1`, uuid.UUID(workspaceID)); err != nil {
		return fmt.Errorf("delete workspace submissions: %w", err)
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
