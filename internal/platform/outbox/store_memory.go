package outbox

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// InMemory is a process-local outbox used when no database is configured.
type InMemory struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*Entry
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[uuid.UUID]*Entry)}
}

func (s *InMemory) Append(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *entry
	s.entries[entry.ID] = &cp
	return nil
}

func (s *InMemory) FetchUnpublished(_ context.Context, limit int) ([]*Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*Entry
	for _, e := range s.entries {
		if e.PublishedAt == nil {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemory) MarkPublished(_ context.Context, ids []uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if e, ok := s.entries[id]; ok {
			t := at
			e.PublishedAt = &t
		}
	}
	return nil
}

// Pending counts unpublished entries.
func (s *InMemory) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.entries {
		if e.PublishedAt == nil {
			n++
		}
	}
	return n
}
