package store

import (
	"context"
	"slices"
	"sync"

	"prooflayer/internal/widget/models"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

type InMemory struct {
	mu      sync.RWMutex
	widgets map[id.WidgetID]*models.Widget
}

func NewInMemory() *InMemory {
	return &InMemory{widgets: make(map[id.WidgetID]*models.Widget)}
}

func clone(w *models.Widget) *models.Widget {
	cp := *w
	return &cp
}

func (s *InMemory) Create(_ context.Context, w *models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.widgets[w.ID]; exists {
		return sentinel.ErrConflict
	}
	s.widgets[w.ID] = clone(w)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, widgetID id.WidgetID) (*models.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.widgets[widgetID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(w), nil
}

// ListByWorkspace returns the workspace's widgets, oldest first.
func (s *InMemory) ListByWorkspace(_ context.Context, workspaceID id.WorkspaceID) ([]*models.Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Widget
	for _, w := range s.widgets {
		if w.WorkspaceID == workspaceID {
			out = append(out, clone(w))
		}
	}
	slices.SortFunc(out, func(a, b *models.Widget) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByWorkspace(_ context.Context, workspaceID id.WorkspaceID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, w := range s.widgets {
		if w.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) Update(_ context.Context, w *models.Widget) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.widgets[w.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.widgets[w.ID] = clone(w)
	return nil
}

func (s *InMemory) Delete(_ context.Context, widgetID id.WidgetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.widgets[widgetID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.widgets, widgetID)
	return nil
}

func (s *InMemory) DeleteByWorkspace(_ context.Context, workspaceID id.WorkspaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for widgetID, w := range s.widgets {
		if w.WorkspaceID == workspaceID {
			delete(s.widgets, widgetID)
		}
	}
	return nil
}
