// Package outbox implements the transactional outbox: domain writes append
// entries in the same transaction, and the relay publishes unpublished
// entries to Kafka in creation order.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Entry is one pending message.
type Entry struct {
	ID            uuid.UUID
	AggregateType string
	AggregateID   string
	EventType     string
	Topic         string
	Payload       []byte
	CreatedAt     time.Time
	PublishedAt   *time.Time
}

// NewEntry JSON-encodes payload into an entry bound for topic.
func NewEntry(topic, aggregateType, aggregateID, eventType string, payload any, now time.Time) (*Entry, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal outbox payload: %w", err)
	}
	return &Entry{
		ID:            uuid.New(),
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		EventType:     eventType,
		Topic:         topic,
		Payload:       raw,
		CreatedAt:     now,
	}, nil
}

// Store persists outbox entries.
type Store interface {
	Append(ctx context.Context, entry *Entry) error
	// FetchUnpublished returns up to limit entries, oldest first. Inside a
	// transaction the rows stay locked until commit.
	FetchUnpublished(ctx context.Context, limit int) ([]*Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}
