//go:build integration

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"prooflayer/internal/form/models"
	"prooflayer/internal/form/service"
	"prooflayer/internal/form/store"
	workspace "prooflayer/internal/workspace/models"
	workspacestore "prooflayer/internal/workspace/store"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	txcontext "prooflayer/pkg/platform/tx"
	"prooflayer/pkg/testutil/containers"
)

type openGate struct{}

func (openGate) CheckFormCreate(context.Context, id.UserID, int) error        { return nil }
func (openGate) CheckSubmissionKind(context.Context, id.UserID, string) error { return nil }

// workspaceLookup resolves workspaces straight from the store.
type workspaceLookup struct{ store *workspacestore.PostgresStore }

func (l workspaceLookup) Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) (*workspace.Workspace, error) {
	ws, err := l.store.FindByID(ctx, workspaceID)
	if err != nil || ws.OwnerID != userID {
		return nil, dErrors.New(dErrors.CodeNotFound, "workspace not found")
	}
	return ws, nil
}

func (l workspaceLookup) Lookup(ctx context.Context, workspaceID id.WorkspaceID) (*workspace.Workspace, error) {
	return l.store.FindByID(ctx, workspaceID)
}

type PostgresServiceSuite struct {
	suite.Suite
	postgres   *containers.PostgresContainer
	workspaces *workspacestore.PostgresStore
	svc        *service.Service
	ctx        context.Context
}

func TestPostgresServiceSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresServiceSuite))
}

func (s *PostgresServiceSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.workspaces = workspacestore.NewPostgres(s.postgres.DB)
	s.svc = service.New(store.NewPostgres(s.postgres.DB), workspaceLookup{s.workspaces}, openGate{},
		service.WithTxRunner(txcontext.NewSQLRunner(s.postgres.DB)))
	s.ctx = context.Background()
}

func (s *PostgresServiceSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "forms", "workspaces", "users"))
}

func (s *PostgresServiceSuite) workspace(name string) *workspace.Workspace {
	uid, err := s.postgres.SeedUser(s.ctx)
	s.Require().NoError(err)
	ws, err := workspace.NewWorkspace(id.NewWorkspaceID(), id.UserID(uid), name, "", "", time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NoError(s.workspaces.Create(s.ctx, ws))
	return ws
}

func (s *PostgresServiceSuite) TestCrossTenantSlugCollisionRetriesInsideTx() {
	a, b := s.workspace("Acme"), s.workspace("Acme")

	first, err := s.svc.Create(s.ctx, a.OwnerID, a.ID, models.Settings{Name: "Feedback"})
	s.Require().NoError(err)
	second, err := s.svc.Create(s.ctx, b.OwnerID, b.ID, models.Settings{Name: "Feedback"})
	s.Require().NoError(err)

	s.Equal("acme-feedback", first.Slug)
	s.Equal("acme-feedback-2", second.Slug)
}

func (s *PostgresServiceSuite) TestCrowdedSlugStillFindsAFreeValue() {
	ws := s.workspace("Acme")
	for range 6 {
		_, err := s.svc.Create(s.ctx, ws.OwnerID, ws.ID, models.Settings{Name: "Feedback"})
		s.Require().NoError(err)
	}
	forms, err := s.svc.List(s.ctx, ws.OwnerID, ws.ID)
	s.Require().NoError(err)
	s.Len(forms, 6)
}
