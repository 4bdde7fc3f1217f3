package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"prooflayer/internal/onboarding/models"
	"prooflayer/internal/onboarding/store"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

type ServiceSuite struct {
	suite.Suite
	svc  *Service
	ctx  context.Context
	user id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.svc = New(store.NewInMemory(), nil)
	s.ctx = context.Background()
	s.user = id.NewUserID()
}

func (s *ServiceSuite) TestGetDefaults() {
	p, err := s.svc.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.Equal(models.StepProfile, p.Current)
}

func (s *ServiceSuite) TestComplete() {
	s.Run("out of order is rejected", func() {
		_, err := s.svc.Complete(s.ctx, s.user, models.StepWidget)
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("in order is persisted and idempotent", func() {
		p, err := s.svc.Complete(s.ctx, s.user, models.StepProfile)
		s.Require().NoError(err)
		s.Equal(models.StepWorkspace, p.Current)

		p, err = s.svc.Complete(s.ctx, s.user, models.StepProfile)
		s.Require().NoError(err)
		s.Len(p.Completed, 1)

		stored, err := s.svc.Get(s.ctx, s.user)
		s.Require().NoError(err)
		s.Equal(models.StepWorkspace, stored.Current)
	})
}

func (s *ServiceSuite) TestAutoCompleteFillsEarlierSteps() {
	s.Require().NoError(s.svc.AutoComplete(s.ctx, s.user, models.StepForm))

	p, err := s.svc.Get(s.ctx, s.user)
	s.Require().NoError(err)
	s.True(p.IsCompleted(models.StepWorkspace))
	s.Equal(models.StepWidget, p.Current)
}

func (s *ServiceSuite) TestDismissKeepsProgress() {
	s.Require().NoError(s.svc.AutoComplete(s.ctx, s.user, models.StepWorkspace))
	p, err := s.svc.Dismiss(s.ctx, s.user)
	s.Require().NoError(err)
	s.True(p.Dismissed)
	s.Equal(models.StepForm, p.Current)
}
