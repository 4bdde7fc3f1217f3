package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func (s *InMemoryStoreSuite) workspace(owner id.UserID, name string, at time.Time) *models.Workspace {
	w, err := models.NewWorkspace(id.NewWorkspaceID(), owner, name, "", "", at)
	s.Require().NoError(err)
	return w
}

func (s *InMemoryStoreSuite) TestOwnerScoping() {
	a, b := id.NewUserID(), id.NewUserID()
	now := time.Now()
	s.Require().NoError(s.store.Create(s.ctx, s.workspace(a, "Second", now.Add(time.Second))))
	s.Require().NoError(s.store.Create(s.ctx, s.workspace(a, "First", now)))
	s.Require().NoError(s.store.Create(s.ctx, s.workspace(b, "Other", now)))

	list, err := s.store.ListByOwner(s.ctx, a)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.Equal("First", list[0].Name)

	n, err := s.store.CountByOwner(s.ctx, b)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *InMemoryStoreSuite) TestSlugConflict() {
	owner := id.NewUserID()
	s.Require().NoError(s.store.Create(s.ctx, s.workspace(owner, "Acme", time.Now())))
	s.ErrorIs(s.store.Create(s.ctx, s.workspace(owner, "ACME", time.Now())), sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestDelete() {
	w := s.workspace(id.NewUserID(), "Acme", time.Now())
	s.Require().NoError(s.store.Create(s.ctx, w))
	s.Require().NoError(s.store.Delete(s.ctx, w.ID))
	_, err := s.store.FindByID(s.ctx, w.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
