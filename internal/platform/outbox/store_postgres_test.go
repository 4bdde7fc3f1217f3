package outbox

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_SQL(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewPostgres(db)
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	e, err := NewEntry("topic", "workspace", "ws", "submission.created", map[string]string{"k": "v"}, now)
	require.NoError(t, err)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox")).
		WithArgs(e.ID, "workspace", "ws", "submission.created", "topic", e.Payload, now).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.Append(ctx, e))

	mock.ExpectQuery(regexp.QuoteMeta("FROM outbox")).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "aggregate_type", "aggregate_id", "event_type", "topic", "payload", "created_at"}).
			AddRow(e.ID.String(), "workspace", "ws", "submission.created", "topic", e.Payload, now))
	got, err := store.FetchUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, e.ID, got[0].ID)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox SET published_at")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, store.MarkPublished(ctx, []uuid.UUID{e.ID}, now))
	require.NoError(t, store.MarkPublished(ctx, nil, now))

	require.NoError(t, mock.ExpectationsWereMet())
}
