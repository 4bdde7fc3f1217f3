package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"prooflayer/internal/platform/postgres"
	"prooflayer/internal/widget/models"
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

const widgetColumns = `id, workspace_id, name, type, layout, theme, max_items, min_rating,
	show_ratings, show_dates, autoplay, hide_branding, accent_color, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanWidget(row rowScanner) (*models.Widget, error) {
	var (
		w                  models.Widget
		widgetID, wsID     uuid.UUID
		typ, layout, theme string
	)
	err := row.Scan(&widgetID, &wsID, &w.Name, &typ, &layout, &theme, &w.MaxItems, &w.MinRating,
		&w.ShowRatings, &w.ShowDates, &w.Autoplay, &w.HideBranding, &w.AccentColor, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return nil, err
	}
	w.ID = id.WidgetID(widgetID)
	w.WorkspaceID = id.WorkspaceID(wsID)
	w.Type = models.Type(typ)
	w.Layout = models.Layout(layout)
	w.Theme = models.Theme(theme)
	return &w, nil
}

func (s *PostgresStore) Create(ctx context.Context, w *models.Widget) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO widgets (`+widgetColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, uuid.UUID(w.ID), uuid.UUID(w.WorkspaceID), w.Name, string(w.Type), string(w.Layout), string(w.Theme),
		w.MaxItems, w.MinRating, w.ShowRatings, w.ShowDates, w.Autoplay, w.HideBranding, w.AccentColor,
		w.CreatedAt, w.UpdatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		if postgres.IsForeignKeyViolation(err) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("insert widget: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, widgetID id.WidgetID) (*models.Widget, error) {
	w, err := scanWidget(s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+widgetColumns+` FROM widgets WHERE id = $1`, uuid.UUID(widgetID)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find widget: %w", err)
	}
	return w, nil
}

func (s *PostgresStore) ListByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) ([]*models.Widget, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+widgetColumns+` FROM widgets WHERE workspace_id = $1 ORDER BY created_at`, uuid.UUID(workspaceID))
	if err != nil {
		return nil, fmt.Errorf("list widgets: %w", err)
	}
	defer rows.Close()

	var out []*models.Widget
	for rows.Next() {
		w, err := scanWidget(rows)
		if err != nil {
			return nil, fmt.Errorf("scan widget: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// CountByWorkspace counts widgets for a plan check. Inside a transaction it first locks
// the key, so concurrent creates for the same key count one after another.
func (s *PostgresStore) CountByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) (int, error) {
	if tx, ok := txcontext.From(ctx); ok {
		if err := postgres.LockKey(ctx, tx, "widgets", uuid.UUID(workspaceID)); err != nil {
			return 0, err
		}
	}
	var n int
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM widgets WHERE workspace_id = $1`, uuid.UUID(workspaceID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count widgets: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) Update(ctx context.Context, w *models.Widget) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE widgets SET name = $2, type = $3, layout = $4, theme = $5, max_items = $6, min_rating = $7,
			show_ratings = $8, show_dates = $9, autoplay = $10, hide_branding = $11, accent_color = $12, updated_at = $13
		WHERE id = $1
	`, uuid.UUID(w.ID), w.Name, string(w.Type), string(w.Layout), string(w.Theme), w.MaxItems, w.MinRating,
		w.ShowRatings, w.ShowDates, w.Autoplay, w.HideBranding, w.AccentColor, w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update widget: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) Delete(ctx context.Context, widgetID id.WidgetID) error {
	res, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM widgets WHERE id = $1`, uuid.UUID(widgetID))
	if err != nil {
		return fmt.Errorf("delete widget: %w", err)
	}
	return requireOneRow(res)
}

func (s *PostgresStore) DeleteByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error {
	if _, err := s.execer(ctx).ExecContext(ctx, `DELETE FROM widgets WHERE workspace_id = $1`, uuid.UUID(workspaceID)); err != nil {
		return fmt.Errorf("delete workspace widgets: %w", err)
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
