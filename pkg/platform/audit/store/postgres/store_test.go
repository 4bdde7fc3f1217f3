package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "prooflayer/pkg/domain"
	audit "prooflayer/pkg/platform/audit"
)

func TestStore_AppendWritesEventAndOutboxInOneTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db, "prooflayer.audit")
	userID := id.NewUserID()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audit_events").
		WithArgs(sqlmock.AnyArg(), "compliance", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			"user", string(audit.EventPlanChanged), "", "req-1", "admin").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox").
		WithArgs(sqlmock.AnyArg(), "user", userID.String(), string(audit.EventPlanChanged),
			"prooflayer.audit", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = store.Append(context.Background(), audit.Event{
		Timestamp: time.Now(),
		UserID:    userID,
		Subject:   "user",
		Action:    string(audit.EventPlanChanged),
		RequestID: "req-1",
		ActorID:   "admin",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_AppendRollsBackOnOutboxFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db, "prooflayer.audit")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO audit_events").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = store.Append(context.Background(), audit.Event{
		Timestamp: time.Now(),
		Action:    string(audit.EventRateLimitExceeded),
	})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_ListByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	store := New(db, "prooflayer.audit")
	userID := id.NewUserID()
	wsID := uuid.New()
	ts := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"category", "timestamp", "user_id", "workspace_id", "subject", "action", "reason", "request_id", "actor_id"}).
		AddRow("operations", ts, userID.String(), wsID.String(), "workspace", "workspace_created", "", "r", "").
		AddRow("compliance", ts, userID.String(), nil, "user", "user_created", "", "", "")
	mock.ExpectQuery("SELECT category, timestamp").WithArgs(sqlmock.AnyArg()).WillReturnRows(rows)

	events, err := store.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, id.WorkspaceID(wsID), events[0].WorkspaceID)
	assert.True(t, events[1].WorkspaceID.IsNil())
	assert.Equal(t, audit.CategoryCompliance, events[1].Category)
}
