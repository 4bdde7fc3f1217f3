//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"prooflayer/internal/entitlement/models"
	"prooflayer/internal/entitlement/store"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	ctx      context.Context
	now      time.Time
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
	s.now = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "entitlements", "users"))
}

func (s *PostgresStoreSuite) seedUser() id.UserID {
	uid := uuid.New()
	_, err := s.postgres.DB.ExecContext(s.ctx,
		`INSERT INTO users (id, email, name, password_hash, created_at) VALUES ($1, $2, 'T', 'x', NOW())`,
		uid, uid.String()+"@example.com")
	s.Require().NoError(err)
	return id.UserID(uid)
}

// TestConcurrentConsumeRespectsLimit verifies row locking: concurrent
// consumers never push usage past the plan limit.
func (s *PostgresStoreSuite) TestConcurrentConsumeRespectsLimit() {
	uid := s.seedUser()
	e, err := models.NewEntitlement(uid, s.now)
	s.Require().NoError(err)
	_, err = s.store.GetOrCreate(s.ctx, e)
	s.Require().NoError(err)

	limit := e.Limits().MonthlySubmissions
	var wg sync.WaitGroup
	for range limit + 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.store.Execute(s.ctx, uid,
				func(x *models.Entitlement) error { return x.CanConsumeSubmission(s.now) },
				func(x *models.Entitlement) { x.ApplySubmissionConsumed(s.now) })
		}()
	}
	wg.Wait()

	got, err := s.store.FindByUserID(s.ctx, uid)
	s.Require().NoError(err)
	s.Equal(limit, got.SubmissionsUsed)
}

func (s *PostgresStoreSuite) TestGetOrCreateIsIdempotent() {
	uid := s.seedUser()
	e, _ := models.NewEntitlement(uid, s.now)
	first, err := s.store.GetOrCreate(s.ctx, e)
	s.Require().NoError(err)
	second, err := s.store.GetOrCreate(s.ctx, e)
	s.Require().NoError(err)
	s.Equal(first.UserID, second.UserID)
}

func (s *PostgresStoreSuite) TestResetPeriods() {
	uid := s.seedUser()
	e, _ := models.NewEntitlement(uid, s.now)
	e.SubmissionsUsed = 5
	_, err := s.store.GetOrCreate(s.ctx, e)
	s.Require().NoError(err)

	reset, err := s.store.ResetPeriods(s.ctx, s.now.AddDate(0, 1, 0))
	s.Require().NoError(err)
	s.Equal([]id.UserID{uid}, reset)

	got, err := s.store.FindByUserID(s.ctx, uid)
	s.Require().NoError(err)
	s.Zero(got.SubmissionsUsed)
}
