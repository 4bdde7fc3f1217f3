package store

import (
	"context"
	"slices"
	"sync"

	"prooflayer/internal/submission/models"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

// Filter narrows a workspace listing. Zero values match everything.
type Filter struct {
	Status    models.Status
	FormID    id.FormID
	MinRating int
	Limit     int
}

func (f Filter) matches(s *models.Submission) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if !f.FormID.IsNil() && s.FormID != f.FormID {
		return false
	}
	return s.Rating >= f.MinRating
}

type InMemory struct {
	mu          sync.RWMutex
	submissions map[id.SubmissionID]*models.Submission
}

func NewInMemory() *InMemory {
	return &InMemory{submissions: make(map[id.SubmissionID]*models.Submission)}
}

func clone(s *models.Submission) *models.Submission {
	cp := *s
	if s.ModeratedAt != nil {
		t := *s.ModeratedAt
		cp.ModeratedAt = &t
	}
	return &cp
}

func (s *InMemory) Create(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.submissions[sub.ID]; exists {
		return sentinel.ErrConflict
	}
	s.submissions[sub.ID] = clone(sub)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, submissionID id.SubmissionID) (*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.submissions[submissionID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(sub), nil
}

// ListByWorkspace returns matching submissions, newest first.
func (s *InMemory) ListByWorkspace(_ context.Context, workspaceID id.WorkspaceID, filter Filter) ([]*models.Submission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Submission
	for _, sub := range s.submissions {
		if sub.WorkspaceID == workspaceID && filter.matches(sub) {
			out = append(out, clone(sub))
		}
	}
	slices.SortFunc(out, func(a, b *models.Submission) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return compareIDs(b.ID, a.ID)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func compareIDs(a, b id.SubmissionID) int {
	as, bs := a.String(), b.String()
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	}
	return 0
}

func (s *InMemory) Update(_ context.Context, sub *models.Submission) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[sub.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.submissions[sub.ID] = clone(sub)
	return nil
}

func (s *InMemory) Delete(_ context.Context, submissionID id.SubmissionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.submissions[submissionID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.submissions, submissionID)
	return nil
}

func (s *InMemory) DeleteByForm(_ context.Context, formID id.FormID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for subID, sub := range s.submissions {
		if sub.FormID == formID {
			delete(s.submissions, subID)
		}
	}
	return nil
}

func (s *InMemory) DeleteByWorkspace(_ context.Context, workspaceID id.WorkspaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for subID, sub := range s.submissions {
		if sub.WorkspaceID == workspaceID {
			delete(s.submissions, subID)
		}
	}
	return nil
}
