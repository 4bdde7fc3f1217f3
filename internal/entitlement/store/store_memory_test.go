package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"prooflayer/internal/entitlement/models"
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
}

func (s *InMemoryStoreSuite) create() *models.Entitlement {
	e, err := models.NewEntitlement(id.NewUserID(), s.now)
	s.Require().NoError(err)
	out, err := s.store.GetOrCreate(s.ctx, e)
	s.Require().NoError(err)
	return out
}

func (s *InMemoryStoreSuite) TestGetOrCreate() {
	s.Run("returns existing row on second call", func() {
		e := s.create()
		e.Plan = plans.Pro
		_, err := s.store.Execute(s.ctx, e.UserID, func(*models.Entitlement) error { return nil },
			func(x *models.Entitlement) { x.Plan = plans.Pro })
		s.Require().NoError(err)

		fresh, _ := models.NewEntitlement(e.UserID, s.now)
		got, err := s.store.GetOrCreate(s.ctx, fresh)
		s.Require().NoError(err)
		s.Equal(plans.Pro, got.Plan)
	})

	s.Run("unknown user is not found", func() {
		_, err := s.store.FindByUserID(s.ctx, id.NewUserID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestExecute() {
	s.Run("validation failure leaves row untouched", func() {
		e := s.create()
		boom := errors.New("nope")
		_, err := s.store.Execute(s.ctx, e.UserID,
			func(*models.Entitlement) error { return boom },
			func(x *models.Entitlement) { x.SubmissionsUsed = 99 })
		s.ErrorIs(err, boom)

		got, err := s.store.FindByUserID(s.ctx, e.UserID)
		s.Require().NoError(err)
		s.Zero(got.SubmissionsUsed)
	})

	s.Run("apply persists", func() {
		e := s.create()
		out, err := s.store.Execute(s.ctx, e.UserID,
			func(x *models.Entitlement) error { return x.CanConsumeSubmission(s.now) },
			func(x *models.Entitlement) { x.ApplySubmissionConsumed(s.now) })
		s.Require().NoError(err)
		s.Equal(1, out.SubmissionsUsed)
	})

	s.Run("missing row", func() {
		_, err := s.store.Execute(s.ctx, id.NewUserID(), nil, nil)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestResetPeriods() {
	expired := s.create()
	_, err := s.store.Execute(s.ctx, expired.UserID, func(*models.Entitlement) error { return nil },
		func(x *models.Entitlement) { x.SubmissionsUsed = 10 })
	s.Require().NoError(err)

	nextMonth := s.now.AddDate(0, 1, 0)
	reset, err := s.store.ResetPeriods(s.ctx, nextMonth)
	s.Require().NoError(err)
	s.Contains(reset, expired.UserID)

	got, err := s.store.FindByUserID(s.ctx, expired.UserID)
	s.Require().NoError(err)
	s.Zero(got.SubmissionsUsed)
	s.Equal(time.June, got.PeriodStart.Month())

	again, err := s.store.ResetPeriods(s.ctx, nextMonth)
	s.Require().NoError(err)
	s.Empty(again)
}
