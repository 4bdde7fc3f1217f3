package store

import (
	"context"
	"slices"
	"sync"

	"prooflayer/internal/form/models"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

type InMemory struct {
	mu     sync.RWMutex
	forms  map[id.FormID]*models.Form
	bySlug map[string]id.FormID
}

func NewInMemory() *InMemory {
	return &InMemory{
		forms:  make(map[id.FormID]*models.Form),
		bySlug: make(map[string]id.FormID),
	}
}

func clone(f *models.Form) *models.Form {
	cp := *f
	cp.AllowedKinds = slices.Clone(f.AllowedKinds)
	return &cp
}

// Create inserts f; a slug already in use returns sentinel.ErrConflict.
func (s *InMemory) Create(_ context.Context, f *models.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.bySlug[f.Slug]; taken {
		return sentinel.ErrConflict
	}
	s.forms[f.ID] = clone(f)
	s.bySlug[f.Slug] = f.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, formID id.FormID) (*models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.forms[formID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(f), nil
}

func (s *InMemory) FindBySlug(_ context.Context, slug string) (*models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	formID, ok := s.bySlug[slug]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.forms[formID]), nil
}

// ListByWorkspace returns the workspace's forms, oldest first.
func (s *InMemory) ListByWorkspace(_ context.Context, workspaceID id.WorkspaceID) ([]*models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Form
	for _, f := range s.forms {
		if f.WorkspaceID == workspaceID {
			out = append(out, clone(f))
		}
	}
	slices.SortFunc(out, func(a, b *models.Form) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return out, nil
}

func (s *InMemory) CountByWorkspace(_ context.Context, workspaceID id.WorkspaceID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, f := range s.forms {
		if f.WorkspaceID == workspaceID {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) Update(_ context.Context, f *models.Form) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.forms[f.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.forms[f.ID] = clone(f)
	return nil
}

func (s *InMemory) Delete(_ context.Context, formID id.FormID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.forms[formID]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.bySlug, f.Slug)
	delete(s.forms, formID)
	return nil
}

func (s *InMemory) DeleteByWorkspace(_ context.Context, workspaceID id.WorkspaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for formID, f := range s.forms {
		if f.WorkspaceID == workspaceID {
			delete(s.bySlug, f.Slug)
			delete(s.forms, formID)
		}
	}
	return nil
}
