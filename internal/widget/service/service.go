package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	onboarding "prooflayer/internal/onboarding/models"
	platformredis "prooflayer/internal/platform/redis"
	submission "prooflayer/internal/submission/models"
	"prooflayer/internal/widget/embedcode"
	"prooflayer/internal/widget/metrics"
	"prooflayer/internal/widget/models"
	workspace "prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
	txcontext "prooflayer/pkg/platform/tx"
	"prooflayer/pkg/requestcontext"
)

type Store interface {
	Create(ctx context.Context, w *models.Widget) error
	FindByID(ctx context.Context, widgetID id.WidgetID) (*models.Widget, error)
	ListByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) ([]*models.Widget, error)
	CountByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) (int, error)
	Update(ctx context.Context, w *models.Widget) error
	Delete(ctx context.Context, widgetID id.WidgetID) error
}

type Workspaces interface {
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) (*workspace.Workspace, error)
	Lookup(ctx context.Context, workspaceID id.WorkspaceID) (*workspace.Workspace, error)
}

type Gate interface {
	CheckWidgetCreate(ctx context.Context, userID id.UserID, currentCount int) error
	CheckWidgetType(ctx context.Context, userID id.UserID, widgetType string) error
	CheckLayout(ctx context.Context, userID id.UserID, layout string) error
	CheckRemoveBranding(ctx context.Context, userID id.UserID) error
	BrandingRemovable(ctx context.Context, userID id.UserID) (bool, error)
}

// Testimonials supplies approved submissions for feeds.
type Testimonials interface {
	Published(ctx context.Context, workspaceID id.WorkspaceID, minRating, limit int) ([]*submission.Submission, error)
}

type Onboarding interface {
	AutoComplete(ctx context.Context, userID id.UserID, step onboarding.Step) error
}

// Cache holds rendered public feeds. Get returns an error on a miss.
type Cache interface {
	Get(ctx context.Context, key string, dst any) error
	Set(ctx context.Context, key string, v any) error
	Delete(ctx context.Context, keys ...string) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Service struct {
	store          Store
	workspaces     Workspaces
	gate           Gate
	testimonials   Testimonials
	scriptURL      string
	tx             txcontext.Runner
	cache          Cache
	onboarding     Onboarding
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithTxRunner(r txcontext.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func WithOnboarding(o Onboarding) Option {
	return func(s *Service) { s.onboarding = o }
}

// WithCache enables feed caching. Without it every feed read hits the store.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

func New(store Store, workspaces Workspaces, gate Gate, testimonials Testimonials, scriptURL string, opts ...Option) *Service {
	s := &Service{
		store:        store,
		workspaces:   workspaces,
		gate:         gate,
		testimonials: testimonials,
		scriptURL:    scriptURL,
		tx:           txcontext.NewLockRunner(),
		logger:       slog.Default(),
		tracer:       otel.Tracer("prooflayer/widget"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, settings models.Settings) (*models.Widget, error) {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	w, err := models.NewWidget(id.NewWidgetID(), ws.ID, settings, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.checkFeatures(ctx, ws.OwnerID, nil, w.Settings()); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		count, err := s.store.CountByWorkspace(ctx, ws.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count widgets")
		}
		if err := s.gate.CheckWidgetCreate(ctx, ws.OwnerID, count); err != nil {
			return err
		}
		if err := s.store.Create(ctx, w); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create widget")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.WidgetsCreated.Inc()
	}
	s.logAudit(ctx, audit.EventWidgetCreated, ws.OwnerID, w)
	s.completeStep(ctx, ws.OwnerID, onboarding.StepWidget)
	return w, nil
}

// checkFeatures gates the plan features in next that prev does not already
// use. prev is nil on create.
func (s *Service) checkFeatures(ctx context.Context, ownerID id.UserID, prev *models.Settings, next models.Settings) error {
	if prev == nil || prev.Type != next.Type {
		if err := s.gate.CheckWidgetType(ctx, ownerID, string(next.Type)); err != nil {
			return err
		}
	}
	if prev == nil || prev.Layout != next.Layout {
		if err := s.gate.CheckLayout(ctx, ownerID, string(next.Layout)); err != nil {
			return err
		}
	}
	if next.HideBranding && (prev == nil || !prev.HideBranding) {
		if err := s.gate.CheckRemoveBranding(ctx, ownerID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) completeStep(ctx context.Context, ownerID id.UserID, step onboarding.Step) {
	if s.onboarding == nil {
		return
	}
	if err := s.onboarding.AutoComplete(ctx, ownerID, step); err != nil {
		s.logger.WarnContext(ctx, "failed to record onboarding progress", "step", string(step), "error", err)
	}
}

func (s *Service) List(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) ([]*models.Widget, error) {
	if _, err := s.workspaces.Get(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.store.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list widgets")
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) (*models.Widget, error) {
	if _, err := s.workspaces.Get(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return s.find(ctx, workspaceID, widgetID)
}

func (s *Service) find(ctx context.Context, workspaceID id.WorkspaceID, widgetID id.WidgetID) (*models.Widget, error) {
	w, err := s.store.FindByID(ctx, widgetID)
	if errors.Is(err, sentinel.ErrNotFound) || (err == nil && w.WorkspaceID != workspaceID) {
		return nil, dErrors.New(dErrors.CodeNotFound, "widget not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load widget")
	}
	return w, nil
}

func (s *Service) Update(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID, u models.Update) (*models.Widget, error) {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	w, err := s.find(ctx, workspaceID, widgetID)
	if err != nil {
		return nil, err
	}
	next, err := w.Merged(u)
	if err != nil {
		return nil, toValidation(err)
	}
	prev := w.Settings()
	if err := s.checkFeatures(ctx, ws.OwnerID, &prev, next); err != nil {
		return nil, err
	}

	w.ApplySettings(next, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, w); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "widget not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update widget")
	}
	s.evict(ctx, w.ID)
	s.logAudit(ctx, audit.EventWidgetUpdated, ws.OwnerID, w)
	return w, nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) error {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	w, err := s.find(ctx, workspaceID, widgetID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, widgetID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete widget")
	}
	s.evict(ctx, widgetID)
	s.logAudit(ctx, audit.EventWidgetDeleted, ws.OwnerID, w)
	return nil
}

// Embed returns the snippet for the widget. Fetching it counts as the
// install step of onboarding.
func (s *Service) Embed(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) (string, error) {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return "", err
	}
	w, err := s.find(ctx, workspaceID, widgetID)
	if err != nil {
		return "", err
	}
	snippet := embedcode.GenerateEmbed(embedcode.OptionsFor(w, s.scriptURL))
	s.completeStep(ctx, ws.OwnerID, onboarding.StepInstall)
	return snippet, nil
}

func (s *Service) Preview(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) (*embedcode.PreviewData, error) {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	w, err := s.find(ctx, workspaceID, widgetID)
	if err != nil {
		return nil, err
	}
	feed, err := s.buildFeed(ctx, w, ws)
	if err != nil {
		return nil, err
	}
	return &embedcode.PreviewData{
		Widget:  w,
		Feed:    feed,
		Snippet: embedcode.GenerateEmbed(embedcode.OptionsFor(w, s.scriptURL)),
	}, nil
}

func feedKey(widgetID id.WidgetID) string {
	return "feed:" + widgetID.String()
}

// Feed returns the public testimonials feed for a widget.
func (s *Service) Feed(ctx context.Context, widgetID id.WidgetID) (*models.Feed, error) {
	ctx, span := s.tracer.Start(ctx, "widget.Feed", trace.WithAttributes(
		attribute.String("widget.id", widgetID.String()),
	))
	defer span.End()

	if s.cache != nil {
		var cached models.Feed
		err := s.cache.Get(ctx, feedKey(widgetID), &cached)
		if err == nil {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			s.countRead("hit")
			return &cached, nil
		}
		if !errors.Is(err, platformredis.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "widget feed cache read failed", "widget_id", widgetID, "error", err)
		}
		span.SetAttributes(attribute.Bool("cache.hit", false))
		s.countRead("miss")
	} else {
		s.countRead("off")
	}

	w, err := s.store.FindByID(ctx, widgetID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "widget not found")
	}
	if err != nil {
		span.RecordError(err)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load widget")
	}
	ws, err := s.workspaces.Lookup(ctx, w.WorkspaceID)
	if err != nil {
		return nil, err
	}
	feed, err := s.buildFeed(ctx, w, ws)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("feed.items", len(feed.Testimonials)))

	if s.cache != nil {
		if err := s.cache.Set(ctx, feedKey(widgetID), feed); err != nil {
			s.logger.WarnContext(ctx, "widget feed cache write failed", "widget_id", widgetID, "error", err)
		}
	}
	return feed, nil
}

// buildFeed assembles the feed. Branding stays on when the owner's plan no
// longer allows removing it, whatever the widget says.
func (s *Service) buildFeed(ctx context.Context, w *models.Widget, ws *workspace.Workspace) (*models.Feed, error) {
	subs, err := s.testimonials.Published(ctx, w.WorkspaceID, w.MinRating, w.MaxItems)
	if err != nil {
		return nil, err
	}
	poweredBy := !w.HideBranding
	if w.HideBranding {
		removable, err := s.gate.BrandingRemovable(ctx, ws.OwnerID)
		if err != nil {
			s.logger.WarnContext(ctx, "branding lookup failed", "widget_id", w.ID, "error", err)
		}
		poweredBy = !removable
	}
	feed := &models.Feed{
		Widget: w.FeedWidget(),
		Branding: models.Branding{
			WorkspaceName: ws.Name,
			BrandColor:    ws.BrandColor,
			LogoURL:       ws.LogoURL,
			PoweredBy:     poweredBy,
		},
		Testimonials: make([]models.Testimonial, 0, len(subs)),
	}
	for _, sub := range subs {
		if sub.IsPublishable(w.MinRating) {
			feed.Testimonials = append(feed.Testimonials, w.TestimonialFor(sub))
		}
	}
	return feed, nil
}

func (s *Service) countRead(outcome string) {
	if s.metrics != nil {
		s.metrics.FeedReads.WithLabelValues(outcome).Inc()
	}
}

func (s *Service) evict(ctx context.Context, widgetID id.WidgetID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, feedKey(widgetID)); err != nil {
		s.logger.WarnContext(ctx, "widget feed cache delete failed", "widget_id", widgetID, "error", err)
	}
}

// InvalidateWorkspace drops cached feeds of every widget in the workspace.
func (s *Service) InvalidateWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error {
	if s.cache == nil {
		return nil
	}
	widgets, err := s.store.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return err
	}
	keys := make([]string, 0, len(widgets))
	for _, w := range widgets {
		keys = append(keys, feedKey(w.ID))
	}
	return s.cache.Delete(ctx, keys...)
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, ownerID id.UserID, w *models.Widget) {
	s.logger.InfoContext(ctx, string(event),
		"event", string(event),
		"user_id", ownerID,
		"workspace_id", w.WorkspaceID,
		"widget_id", w.ID,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:      ownerID,
		WorkspaceID: w.WorkspaceID,
		Subject:     "widget:" + w.ID.String(),
		Action:      string(event),
	})
}
