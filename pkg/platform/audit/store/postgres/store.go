package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"prooflayer/internal/platform/outbox"
	id "prooflayer/pkg/domain"
	audit "prooflayer/pkg/platform/audit"
	txcontext "prooflayer/pkg/platform/tx"
)

// Store writes audit events to audit_events for querying and appends the
// same event to the outbox so the relay can publish it. Both writes share a
// transaction: the caller's if present, otherwise one opened here.
type Store struct {
	db     *sql.DB
	topic  string
	outbox *outbox.PostgresStore
}

func New(db *sql.DB, topic string) *Store {
	return &Store{db: db, topic: topic, outbox: outbox.NewPostgres(db)}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// outboxPayload is the JSON published to Kafka.
type outboxPayload struct {
	ID          string `json:"id"`
	Category    string `json:"category"`
	Timestamp   string `json:"timestamp"`
	UserID      string `json:"user_id,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	Subject     string `json:"subject"`
	Action      string `json:"action"`
	Reason      string `json:"reason,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
	ActorID     string `json:"actor_id,omitempty"`
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if _, ok := txcontext.From(ctx); ok {
		return s.append(ctx, event)
	}
	return txcontext.NewSQLRunner(s.db).RunInTx(ctx, func(ctx context.Context) error {
		return s.append(ctx, event)
	})
}

func (s *Store) append(ctx context.Context, event audit.Event) error {
	eventID := uuid.New()
	category := audit.AuditEvent(event.Action).Category()

	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_events (id, category, timestamp, user_id, workspace_id, subject, action, reason, request_id, actor_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, eventID, string(category), event.Timestamp, nullableUUID(uuid.UUID(event.UserID)),
		nullableUUID(uuid.UUID(event.WorkspaceID)), event.Subject, event.Action,
		event.Reason, event.RequestID, event.ActorID)
	if err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}

	payload := outboxPayload{
		ID:        eventID.String(),
		Category:  string(category),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		Subject:   event.Subject,
		Action:    event.Action,
		Reason:    event.Reason,
		RequestID: event.RequestID,
		ActorID:   event.ActorID,
	}
	aggregateType, aggregateID := "audit", eventID.String()
	if !event.UserID.IsNil() {
		payload.UserID = event.UserID.String()
		aggregateType, aggregateID = "user", event.UserID.String()
	}
	if !event.WorkspaceID.IsNil() {
		payload.WorkspaceID = event.WorkspaceID.String()
	}

	entry, err := outbox.NewEntry(s.topic, aggregateType, aggregateID, event.Action, payload, event.Timestamp)
	if err != nil {
		return err
	}
	return s.outbox.Append(ctx, entry)
}

func (s *Store) ListByUser(ctx context.Context, userID id.UserID) ([]audit.Event, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT category, timestamp, user_id, workspace_id, subject, action, reason, request_id, actor_id
		FROM audit_events
		WHERE user_id = $1
		ORDER BY timestamp
	`, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("list audit events: %w", err)
	}
	defer rows.Close()

	var events []audit.Event
	for rows.Next() {
		var (
			e          audit.Event
			category   string
			user, wsID uuid.NullUUID
		)
		if err := rows.Scan(&category, &e.Timestamp, &user, &wsID, &e.Subject, &e.Action,
			&e.Reason, &e.RequestID, &e.ActorID); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		e.Category = audit.EventCategory(category)
		if user.Valid {
			e.UserID = id.UserID(user.UUID)
		}
		if wsID.Valid {
			e.WorkspaceID = id.WorkspaceID(wsID.UUID)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

func nullableUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
