package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Workspaces,Gate,Onboarding,Dependent,FeedCache,AuditPublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"prooflayer/internal/form/models"
	"prooflayer/internal/form/service/mocks"
	"prooflayer/internal/form/store"
	onboarding "prooflayer/internal/onboarding/models"
	workspace "prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl           *gomock.Controller
	mockWorkspaces *mocks.MockWorkspaces
	mockGate       *mocks.MockGate
	mockOnboarding *mocks.MockOnboarding
	mockAudit      *mocks.MockAuditPublisher
	store          *store.InMemory
	svc            *Service
	ctx            context.Context
	owner          id.UserID
	ws             *workspace.Workspace
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockWorkspaces = mocks.NewMockWorkspaces(s.ctrl)
	s.mockGate = mocks.NewMockGate(s.ctrl)
	s.mockOnboarding = mocks.NewMockOnboarding(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.store = store.NewInMemory()
	s.svc = New(s.store, s.mockWorkspaces, s.mockGate,
		WithOnboarding(s.mockOnboarding),
		WithAuditPublisher(s.mockAudit),
	)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	s.owner = id.NewUserID()

	var err error
	s.ws, err = workspace.NewWorkspace(id.NewWorkspaceID(), s.owner, "Acme", "", "", time.Now())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) expectOwned() {
	s.mockWorkspaces.EXPECT().Get(gomock.Any(), s.owner, s.ws.ID).Return(s.ws, nil).AnyTimes()
}

func (s *ServiceSuite) seed(name string, kinds ...string) *models.Form {
	f, err := models.NewForm(id.NewFormID(), s.ws.ID, models.SlugFor(s.ws.Slug, name), models.Settings{Name: name, AllowedKinds: kinds}, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, f))
	return f
}

func (s *ServiceSuite) TestCreate() {
	s.Run("gates count and kinds then completes onboarding", func() {
		s.expectOwned()
		s.mockGate.EXPECT().CheckSubmissionKind(gomock.Any(), s.owner, "text").Return(nil)
		s.mockGate.EXPECT().CheckSubmissionKind(gomock.Any(), s.owner, "video").Return(nil)
		s.mockGate.EXPECT().CheckFormCreate(gomock.Any(), s.owner, 0).Return(nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(string(audit.EventFormCreated), e.Action)
				s.Equal(s.ws.ID, e.WorkspaceID)
				return nil
			})
		s.mockOnboarding.EXPECT().AutoComplete(gomock.Any(), s.owner, onboarding.StepForm).Return(nil)

		f, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "Wall of Love", AllowedKinds: []string{"text", "video"}})
		s.Require().NoError(err)
		s.Equal("acme-wall-of-love", f.Slug)
	})

	s.Run("plan limit on count", func() {
		s.expectOwned()
		s.mockGate.EXPECT().CheckSubmissionKind(gomock.Any(), s.owner, "text").Return(nil)
		s.mockGate.EXPECT().CheckFormCreate(gomock.Any(), s.owner, 1).
			Return(dErrors.New(dErrors.CodePlanLimit, "limit of 1 forms reached"))

		_, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "Second"})
		s.True(dErrors.HasCode(err, dErrors.CodePlanLimit))
	})

	s.Run("kind not in plan", func() {
		s.expectOwned()
		s.mockGate.EXPECT().CheckSubmissionKind(gomock.Any(), s.owner, "video").
			Return(dErrors.New(dErrors.CodePlanLimit, "video submissions are not available"))

		_, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "Video", AllowedKinds: []string{"video"}})
		s.True(dErrors.HasCode(err, dErrors.CodePlanLimit))
	})

	s.Run("foreign workspace", func() {
		stranger := id.NewUserID()
		s.mockWorkspaces.EXPECT().Get(gomock.Any(), stranger, s.ws.ID).
			Return(nil, dErrors.New(dErrors.CodeNotFound, "workspace not found"))

		_, err := s.svc.Create(s.ctx, stranger, s.ws.ID, models.Settings{Name: "X"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestSlugSuffixOnCollision() {
	s.seed("Reviews")
	s.expectOwned()
	s.mockGate.EXPECT().CheckSubmissionKind(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.mockGate.EXPECT().CheckFormCreate(gomock.Any(), s.owner, 1).Return(nil)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.mockOnboarding.EXPECT().AutoComplete(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	f, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "reviews"})
	s.Require().NoError(err)
	s.Equal("acme-reviews-2", f.Slug)
}

func (s *ServiceSuite) TestSlugFallsBackToRandomSuffixWhenCrowded() {
	for _, slug := range []string{"acme-reviews", "acme-reviews-2", "acme-reviews-3", "acme-reviews-4"} {
		f, err := models.NewForm(id.NewFormID(), s.ws.ID, slug, models.Settings{Name: "Reviews"}, time.Now())
		s.Require().NoError(err)
		s.Require().NoError(s.store.Create(s.ctx, f))
	}
	s.expectOwned()
	s.mockGate.EXPECT().CheckSubmissionKind(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	s.mockGate.EXPECT().CheckFormCreate(gomock.Any(), s.owner, 4).Return(nil)
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.mockOnboarding.EXPECT().AutoComplete(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	f, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "Reviews"})
	s.Require().NoError(err)
	s.Regexp(`^acme-reviews-[0-9a-f]{8}$`, f.Slug)
}

func (s *ServiceSuite) TestUpdate() {
	f := s.seed("Feedback")
	s.expectOwned()

	s.Run("only newly added kinds are gated", func() {
		s.mockGate.EXPECT().CheckSubmissionKind(gomock.Any(), s.owner, "screenshot").Return(nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		updated, err := s.svc.Update(s.ctx, s.owner, s.ws.ID, f.ID, models.Update{AllowedKinds: []string{"text", "screenshot"}})
		s.Require().NoError(err)
		s.Equal([]string{"text", "screenshot"}, updated.AllowedKinds)
	})

	s.Run("archiving hides the public page", func() {
		archived := models.StatusArchived
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		_, err := s.svc.Update(s.ctx, s.owner, s.ws.ID, f.ID, models.Update{Status: &archived})
		s.Require().NoError(err)

		_, err = s.svc.Public(s.ctx, f.Slug)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("form from another workspace is not found", func() {
		other := &models.Form{}
		*other = *f
		other.ID = id.NewFormID()
		other.WorkspaceID = id.NewWorkspaceID()
		other.Slug = "elsewhere"
		s.Require().NoError(s.store.Create(s.ctx, other))

		name := "Hijack"
		_, err := s.svc.Update(s.ctx, s.owner, s.ws.ID, other.ID, models.Update{Name: &name})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestPublicAndDelete() {
	f := s.seed("Love")
	s.mockWorkspaces.EXPECT().Lookup(gomock.Any(), s.ws.ID).Return(s.ws, nil)

	pub, err := s.svc.Public(s.ctx, f.Slug)
	s.Require().NoError(err)
	s.Equal(f.ID, pub.Form.ID)
	s.Equal("Acme", pub.Workspace.Name)

	s.expectOwned()
	s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
	s.Require().NoError(s.svc.Delete(s.ctx, s.owner, s.ws.ID, f.ID))

	_, err = s.svc.Public(s.ctx, f.Slug)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	list, err := s.svc.List(s.ctx, s.owner, s.ws.ID)
	s.Require().NoError(err)
	s.Empty(list)
}

func (s *ServiceSuite) TestDeleteClearsDependentsAndFeeds() {
	dependent := mocks.NewMockDependent(s.ctrl)
	feeds := mocks.NewMockFeedCache(s.ctrl)
	svc := New(s.store, s.mockWorkspaces, s.mockGate,
		WithAuditPublisher(s.mockAudit),
		WithDependents(dependent),
		WithFeedCache(feeds),
	)

	s.Run("submissions go first and feeds are evicted after", func() {
		f := s.seed("Love")
		s.expectOwned()
		gomock.InOrder(
			dependent.EXPECT().DeleteByForm(gomock.Any(), f.ID).Return(nil),
			feeds.EXPECT().InvalidateWorkspace(gomock.Any(), s.ws.ID).Return(nil),
		)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)

		s.Require().NoError(svc.Delete(s.ctx, s.owner, s.ws.ID, f.ID))
		_, err := s.store.FindByID(s.ctx, f.ID)
		s.Error(err)
	})

	s.Run("a failing dependent keeps the form", func() {
		f := s.seed("Kept")
		s.expectOwned()
		dependent.EXPECT().DeleteByForm(gomock.Any(), f.ID).Return(errors.New("disk full"))

		err := svc.Delete(s.ctx, s.owner, s.ws.ID, f.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
		_, err = s.store.FindByID(s.ctx, f.ID)
		s.NoError(err)
	})
}
