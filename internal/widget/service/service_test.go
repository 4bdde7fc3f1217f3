package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store,Workspaces,Gate,Testimonials,Onboarding,Cache,AuditPublisher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	onboarding "prooflayer/internal/onboarding/models"
	platformredis "prooflayer/internal/platform/redis"
	submission "prooflayer/internal/submission/models"
	"prooflayer/internal/widget/models"
	"prooflayer/internal/widget/service/mocks"
	"prooflayer/internal/widget/store"
	workspace "prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/requestcontext"
)

type ServiceSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockWorkspaces   *mocks.MockWorkspaces
	mockGate         *mocks.MockGate
	mockTestimonials *mocks.MockTestimonials
	mockOnboarding   *mocks.MockOnboarding
	mockCache        *mocks.MockCache
	store            *store.InMemory
	svc              *Service
	ctx              context.Context
	owner            id.UserID
	ws               *workspace.Workspace
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockWorkspaces = mocks.NewMockWorkspaces(s.ctrl)
	s.mockGate = mocks.NewMockGate(s.ctrl)
	s.mockTestimonials = mocks.NewMockTestimonials(s.ctrl)
	s.mockOnboarding = mocks.NewMockOnboarding(s.ctrl)
	s.mockCache = mocks.NewMockCache(s.ctrl)
	s.store = store.NewInMemory()
	s.svc = New(s.store, s.mockWorkspaces, s.mockGate, s.mockTestimonials, "https://cdn.prooflayer.test/widget.js",
		WithOnboarding(s.mockOnboarding),
		WithCache(s.mockCache),
	)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	s.owner = id.NewUserID()

	var err error
	s.ws, err = workspace.NewWorkspace(id.NewWorkspaceID(), s.owner, "Acme", "#112233", "", time.Now())
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) expectOwned() {
	s.mockWorkspaces.EXPECT().Get(gomock.Any(), s.owner, s.ws.ID).Return(s.ws, nil).AnyTimes()
}

func (s *ServiceSuite) seed(settings models.Settings) *models.Widget {
	return s.seedAt(settings, time.Now())
}

func (s *ServiceSuite) seedAt(settings models.Settings, at time.Time) *models.Widget {
	w, err := models.NewWidget(id.NewWidgetID(), s.ws.ID, settings, at)
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, w))
	return w
}

func (s *ServiceSuite) approved(author string, rating int) *submission.Submission {
	sub, err := submission.NewSubmission(id.NewSubmissionID(), id.NewFormID(), s.ws.ID, submission.Draft{
		Kind:        submission.KindText,
		AuthorName:  author,
		AuthorEmail: "someone@example.com",
		Rating:      rating,
		Text:        "Great product",
	}, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC))
	s.Require().NoError(err)
	sub.ApplyTransition(submission.StatusApproved, time.Now())
	return sub
}

func (s *ServiceSuite) TestCreate() {
	s.Run("gates type layout and count then completes onboarding", func() {
		s.expectOwned()
		s.mockGate.EXPECT().CheckWidgetType(gomock.Any(), s.owner, "wall").Return(nil)
		s.mockGate.EXPECT().CheckLayout(gomock.Any(), s.owner, "grid").Return(nil)
		s.mockGate.EXPECT().CheckWidgetCreate(gomock.Any(), s.owner, 0).Return(nil)
		s.mockOnboarding.EXPECT().AutoComplete(gomock.Any(), s.owner, onboarding.StepWidget).Return(nil)

		w, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "Homepage"})
		s.Require().NoError(err)
		s.Equal(models.TypeWall, w.Type)
		s.Equal(models.DefaultMaxItems, w.MaxItems)

		stored, err := s.store.FindByID(s.ctx, w.ID)
		s.Require().NoError(err)
		s.Equal("Homepage", stored.Name)
	})

	s.Run("hiding branding needs the feature", func() {
		s.expectOwned()
		s.mockGate.EXPECT().CheckWidgetType(gomock.Any(), s.owner, "wall").Return(nil)
		s.mockGate.EXPECT().CheckLayout(gomock.Any(), s.owner, "grid").Return(nil)
		s.mockGate.EXPECT().CheckRemoveBranding(gomock.Any(), s.owner).
			Return(dErrors.New(dErrors.CodePlanLimit, "upgrade to remove branding"))

		_, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "Clean", HideBranding: true})
		s.True(dErrors.HasCode(err, dErrors.CodePlanLimit))
	})

	s.Run("count limit rejects without storing", func() {
		s.expectOwned()
		s.mockGate.EXPECT().CheckWidgetType(gomock.Any(), s.owner, "carousel").Return(nil)
		s.mockGate.EXPECT().CheckLayout(gomock.Any(), s.owner, "slider").Return(nil)
		s.mockGate.EXPECT().CheckWidgetCreate(gomock.Any(), s.owner, gomock.Any()).
			Return(dErrors.New(dErrors.CodePlanLimit, "widget limit reached"))

		before, err := s.store.CountByWorkspace(s.ctx, s.ws.ID)
		s.Require().NoError(err)
		_, err = s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "Slides", Type: models.TypeCarousel, Layout: models.LayoutSlider})
		s.True(dErrors.HasCode(err, dErrors.CodePlanLimit))
		after, err := s.store.CountByWorkspace(s.ctx, s.ws.ID)
		s.Require().NoError(err)
		s.Equal(before, after)
	})

	s.Run("invalid settings are a validation error", func() {
		s.expectOwned()
		_, err := s.svc.Create(s.ctx, s.owner, s.ws.ID, models.Settings{Name: "X", MaxItems: 99})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("only changed features are gated and the feed is evicted", func() {
		s.expectOwned()
		w := s.seed(models.Settings{Name: "Wall"})
		layout := models.LayoutMasonry
		name := "Wall 2"
		s.mockGate.EXPECT().CheckLayout(gomock.Any(), s.owner, "masonry").Return(nil)
		s.mockCache.EXPECT().Delete(gomock.Any(), "feed:"+w.ID.String()).Return(nil)

		got, err := s.svc.Update(s.ctx, s.owner, s.ws.ID, w.ID, models.Update{Name: &name, Layout: &layout})
		s.Require().NoError(err)
		s.Equal(models.LayoutMasonry, got.Layout)
		s.Equal("Wall 2", got.Name)
	})

	s.Run("zero max items is rejected", func() {
		s.expectOwned()
		w := s.seed(models.Settings{Name: "Wall"})
		zero := 0
		_, err := s.svc.Update(s.ctx, s.owner, s.ws.ID, w.ID, models.Update{MaxItems: &zero})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("widget from another workspace is not found", func() {
		s.expectOwned()
		other, err := models.NewWidget(id.NewWidgetID(), id.NewWorkspaceID(), models.Settings{Name: "Theirs"}, time.Now())
		s.Require().NoError(err)
		s.Require().NoError(s.store.Create(s.ctx, other))

		_, err = s.svc.Update(s.ctx, s.owner, s.ws.ID, other.ID, models.Update{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDelete() {
	s.expectOwned()
	w := s.seed(models.Settings{Name: "Gone"})
	s.mockCache.EXPECT().Delete(gomock.Any(), "feed:"+w.ID.String()).Return(nil)

	s.Require().NoError(s.svc.Delete(s.ctx, s.owner, s.ws.ID, w.ID))
	_, err := s.svc.Get(s.ctx, s.owner, s.ws.ID, w.ID)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestEmbed() {
	s.expectOwned()
	w := s.seed(models.Settings{Name: "Wall", Theme: models.ThemeDark})
	s.mockOnboarding.EXPECT().AutoComplete(gomock.Any(), s.owner, onboarding.StepInstall).Return(errors.New("down"))

	code, err := s.svc.Embed(s.ctx, s.owner, s.ws.ID, w.ID)
	s.Require().NoError(err)
	s.Contains(code, `data-widget-id="`+w.ID.String()+`"`)
	s.Contains(code, `data-theme="dark"`)
	s.True(strings.HasPrefix(code, `<div data-prooflayer-widget=`))
}

func (s *ServiceSuite) TestFeed() {
	s.Run("cache hit skips the store", func() {
		widgetID := id.NewWidgetID()
		s.mockCache.EXPECT().Get(gomock.Any(), "feed:"+widgetID.String(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ string, dst any) error {
				dst.(*models.Feed).Branding.WorkspaceName = "Cached"
				return nil
			})

		feed, err := s.svc.Feed(s.ctx, widgetID)
		s.Require().NoError(err)
		s.Equal("Cached", feed.Branding.WorkspaceName)
	})

	s.Run("miss builds from approved submissions and stores", func() {
		w := s.seed(models.Settings{Name: "Wall", MinRating: 4, ShowRatings: true})
		s.mockCache.EXPECT().Get(gomock.Any(), "feed:"+w.ID.String(), gomock.Any()).Return(platformredis.ErrCacheMiss)
		s.mockWorkspaces.EXPECT().Lookup(gomock.Any(), s.ws.ID).Return(s.ws, nil)
		s.mockTestimonials.EXPECT().Published(gomock.Any(), s.ws.ID, 4, models.DefaultMaxItems).
			Return([]*submission.Submission{s.approved("Ada", 5), s.approved("Bob", 4)}, nil)
		s.mockCache.EXPECT().Set(gomock.Any(), "feed:"+w.ID.String(), gomock.Any()).Return(nil)

		feed, err := s.svc.Feed(s.ctx, w.ID)
		s.Require().NoError(err)
		s.Require().Len(feed.Testimonials, 2)
		s.Equal("Ada", feed.Testimonials[0].AuthorName)
		s.Equal(5, feed.Testimonials[0].Rating)
		s.Nil(feed.Testimonials[0].Date)
		s.Equal("Acme", feed.Branding.WorkspaceName)
		s.Equal("#112233", feed.Branding.BrandColor)
		s.True(feed.Branding.PoweredBy)
	})

	s.Run("hidden branding returns after a downgrade", func() {
		w := s.seed(models.Settings{Name: "Clean", HideBranding: true})
		s.mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(platformredis.ErrCacheMiss)
		s.mockWorkspaces.EXPECT().Lookup(gomock.Any(), s.ws.ID).Return(s.ws, nil)
		s.mockTestimonials.EXPECT().Published(gomock.Any(), s.ws.ID, 0, models.DefaultMaxItems).Return(nil, nil)
		s.mockGate.EXPECT().BrandingRemovable(gomock.Any(), s.owner).Return(false, nil)
		s.mockGate.EXPECT().CheckRemoveBranding(gomock.Any(), gomock.Any()).Times(0)
		s.mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		feed, err := s.svc.Feed(s.ctx, w.ID)
		s.Require().NoError(err)
		s.True(feed.Branding.PoweredBy)
		s.Empty(feed.Testimonials)
	})

	s.Run("plan that allows it keeps branding hidden", func() {
		w := s.seed(models.Settings{Name: "Paid", HideBranding: true})
		s.mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(platformredis.ErrCacheMiss)
		s.mockWorkspaces.EXPECT().Lookup(gomock.Any(), s.ws.ID).Return(s.ws, nil)
		s.mockTestimonials.EXPECT().Published(gomock.Any(), s.ws.ID, 0, models.DefaultMaxItems).Return(nil, nil)
		s.mockGate.EXPECT().BrandingRemovable(gomock.Any(), s.owner).Return(true, nil)
		s.mockCache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		feed, err := s.svc.Feed(s.ctx, w.ID)
		s.Require().NoError(err)
		s.False(feed.Branding.PoweredBy)
	})

	s.Run("unknown widget is not found", func() {
		s.mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(platformredis.ErrCacheMiss)
		_, err := s.svc.Feed(s.ctx, id.NewWidgetID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestInvalidateWorkspace() {
	a := s.seedAt(models.Settings{Name: "A"}, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	b := s.seedAt(models.Settings{Name: "B"}, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))
	s.mockCache.EXPECT().Delete(gomock.Any(), "feed:"+a.ID.String(), "feed:"+b.ID.String()).Return(nil)

	s.Require().NoError(s.svc.InvalidateWorkspace(s.ctx, s.ws.ID))
}

func TestFeedWithoutCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	workspaces := mocks.NewMockWorkspaces(ctrl)
	testimonials := mocks.NewMockTestimonials(ctrl)
	st := store.NewInMemory()
	ctx := context.Background()

	ws, err := workspace.NewWorkspace(id.NewWorkspaceID(), id.NewUserID(), "Acme", "", "", time.Now())
	if err != nil {
		t.Fatal(err)
	}
	w, err := models.NewWidget(id.NewWidgetID(), ws.ID, models.Settings{Name: "Wall"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := st.Create(ctx, w); err != nil {
		t.Fatal(err)
	}
	workspaces.EXPECT().Lookup(gomock.Any(), ws.ID).Return(ws, nil).Times(2)
	testimonials.EXPECT().Published(gomock.Any(), ws.ID, 0, models.DefaultMaxItems).Return(nil, nil).Times(2)

	svc := New(st, workspaces, mocks.NewMockGate(ctrl), testimonials, "https://cdn.prooflayer.test/widget.js")
	for range 2 {
		if _, err := svc.Feed(ctx, w.ID); err != nil {
			t.Fatal(err)
		}
	}
	if err := svc.InvalidateWorkspace(ctx, ws.ID); err != nil {
		t.Fatal(err)
	}
}
