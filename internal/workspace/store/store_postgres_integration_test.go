//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"prooflayer/internal/workspace/models"
	"prooflayer/internal/workspace/store"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
	"prooflayer/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "workspaces", "users"))
}

func (s *PostgresStoreSuite) owner() id.UserID {
	uid, err := s.postgres.SeedUser(s.ctx)
	s.Require().NoError(err)
	return id.UserID(uid)
}

func (s *PostgresStoreSuite) workspace(owner id.UserID, name string) *models.Workspace {
	w, err := models.NewWorkspace(id.NewWorkspaceID(), owner, name, "", "", time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(err)
	return w
}

func (s *PostgresStoreSuite) TestSlugUniquePerOwner() {
	a, b := s.owner(), s.owner()

	s.Require().NoError(s.store.Create(s.ctx, s.workspace(a, "Acme")))
	s.ErrorIs(s.store.Create(s.ctx, s.workspace(a, "acme")), sentinel.ErrConflict)
	s.NoError(s.store.Create(s.ctx, s.workspace(b, "Acme")))

	n, err := s.store.CountByOwner(s.ctx, a)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	owner := s.owner()
	w := s.workspace(owner, "Acme")
	s.Require().NoError(s.store.Create(s.ctx, w))

	w.Name = "Acme Roasters"
	s.Require().NoError(s.store.Update(s.ctx, w))
	found, err := s.store.FindByID(s.ctx, w.ID)
	s.Require().NoError(err)
	s.Equal("Acme Roasters", found.Name)

	s.Require().NoError(s.store.Delete(s.ctx, w.ID))
	_, err = s.store.FindByID(s.ctx, w.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, w.ID), sentinel.ErrNotFound)
}
