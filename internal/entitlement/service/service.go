package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"prooflayer/internal/entitlement/metrics"
	"prooflayer/internal/entitlement/models"
	"prooflayer/internal/plans"
	"prooflayer/pkg/attrs"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
	"prooflayer/pkg/requestcontext"
)

// Store persists entitlements. Execute is the only mutation path; it runs
// validate then apply atomically per user.
type Store interface {
	GetOrCreate(ctx context.Context, e *models.Entitlement) (*models.Entitlement, error)
	FindByUserID(ctx context.Context, userID id.UserID) (*models.Entitlement, error)
	Execute(ctx context.Context, userID id.UserID, validate func(*models.Entitlement) error, apply func(*models.Entitlement)) (*models.Entitlement, error)
	ResetPeriods(ctx context.Context, now time.Time) ([]id.UserID, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Summary is an entitlement with its resolved limits as of a point in time.
type Summary struct {
	Entitlement *models.Entitlement
	Limits      plans.Limits
	Used        int
	Remaining   int
}

// Service answers plan-gating questions and owns usage counters.
type Service struct {
	store          Store
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
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

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureForUser creates the free entitlement for a new user. Calling it for
// an existing user returns the stored entitlement unchanged.
func (s *Service) EnsureForUser(ctx context.Context, userID id.UserID) (*models.Entitlement, error) {
	e, err := models.NewEntitlement(userID, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	out, err := s.store.GetOrCreate(ctx, e)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create entitlement")
	}
	return out, nil
}

func (s *Service) load(ctx context.Context, userID id.UserID) (*models.Entitlement, error) {
	e, err := s.store.FindByUserID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return s.EnsureForUser(ctx, userID)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load entitlement")
	}
	return e, nil
}

// Get returns the user's entitlement with limits and remaining usage.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*Summary, error) {
	e, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	return &Summary{
		Entitlement: e,
		Limits:      e.Limits(),
		Used:        e.UsedAt(now),
		Remaining:   e.RemainingAt(now),
	}, nil
}

// CheckWorkspaceCreate gates creating one more workspace when the user
// already owns currentCount.
func (s *Service) CheckWorkspaceCreate(ctx context.Context, userID id.UserID, currentCount int) error {
	return s.checkCount(ctx, userID, plans.ResourceWorkspaces, currentCount)
}

// CheckFormCreate gates one more form in a workspace holding currentCount.
func (s *Service) CheckFormCreate(ctx context.Context, userID id.UserID, currentCount int) error {
	return s.checkCount(ctx, userID, plans.ResourceForms, currentCount)
}

// CheckWidgetCreate gates one more widget in a workspace holding currentCount.
func (s *Service) CheckWidgetCreate(ctx context.Context, userID id.UserID, currentCount int) error {
	return s.checkCount(ctx, userID, plans.ResourceWidgets, currentCount)
}

func (s *Service) CheckWidgetType(ctx context.Context, userID id.UserID, widgetType string) error {
	return s.checkFeature(ctx, userID, plans.Feature{Kind: plans.FeatureWidgetType, Value: widgetType})
}

func (s *Service) CheckLayout(ctx context.Context, userID id.UserID, layout string) error {
	return s.checkFeature(ctx, userID, plans.Feature{Kind: plans.FeatureLayout, Value: layout})
}

func (s *Service) CheckSubmissionKind(ctx context.Context, ownerID id.UserID, kind string) error {
	return s.checkFeature(ctx, ownerID, plans.Feature{Kind: plans.FeatureSubmissionKind, Value: kind})
}

func (s *Service) CheckRemoveBranding(ctx context.Context, userID id.UserID) error {
	return s.checkFeature(ctx, userID, plans.Feature{Kind: plans.FeatureRemoveBranding})
}

// BrandingRemovable reports whether the plan lets the user hide "Powered by"
// branding. Unlike CheckRemoveBranding it records nothing, so public read
// paths can call it on every request.
func (s *Service) BrandingRemovable(ctx context.Context, userID id.UserID) (bool, error) {
	e, err := s.load(ctx, userID)
	if err != nil {
		return false, err
	}
	return e.Limits().RemoveBranding, nil
}

func (s *Service) checkCount(ctx context.Context, userID id.UserID, r plans.Resource, currentCount int) error {
	e, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	limits := e.Limits()
	next := currentCount + 1

	var allowed bool
	var limit int
	switch r {
	case plans.ResourceWorkspaces:
		allowed, limit = limits.AllowsWorkspaces(next), limits.MaxWorkspaces
	case plans.ResourceForms:
		allowed, limit = limits.AllowsForms(next), limits.MaxFormsPerWorkspace
	case plans.ResourceWidgets:
		allowed, limit = limits.AllowsWidgets(next), limits.MaxWidgetsPerWorkspace
	default:
		return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("unsupported resource %q", r))
	}
	if allowed {
		return nil
	}
	s.rejected(ctx, e, string(r))
	return models.LimitError(e.Plan, fmt.Sprintf("limit of %d %s reached", limit, r),
		models.UpgradeHintForCount(r, next))
}

func (s *Service) checkFeature(ctx context.Context, userID id.UserID, f plans.Feature) error {
	e, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	limits := e.Limits()

	var allowed bool
	var reason string
	switch f.Kind {
	case plans.FeatureWidgetType:
		allowed, reason = limits.AllowsWidgetType(f.Value), fmt.Sprintf("widget type %q is not available", f.Value)
	case plans.FeatureLayout:
		allowed, reason = limits.AllowsLayout(f.Value), fmt.Sprintf("layout %q is not available", f.Value)
	case plans.FeatureSubmissionKind:
		allowed, reason = limits.AllowsSubmissionKind(f.Value), fmt.Sprintf("%s submissions are not available", f.Value)
	case plans.FeatureRemoveBranding:
		allowed, reason = limits.RemoveBranding, "removing branding is not available"
	default:
		return dErrors.New(dErrors.CodeInternal, fmt.Sprintf("unsupported feature %q", f.Kind))
	}
	if allowed {
		return nil
	}
	s.rejected(ctx, e, string(f.Kind))
	return models.LimitError(e.Plan, reason, models.UpgradeHintFor(f))
}

// ConsumeSubmission counts one submission against the owner's monthly
// allowance, rolling an expired period first.
func (s *Service) ConsumeSubmission(ctx context.Context, ownerID id.UserID) (*models.Entitlement, error) {
	now := requestcontext.Now(ctx)
	var plan plans.Plan
	validate := func(e *models.Entitlement) error {
		plan = e.Plan
		return e.CanConsumeSubmission(now)
	}
	apply := func(e *models.Entitlement) { e.ApplySubmissionConsumed(now) }

	out, err := s.store.Execute(ctx, ownerID, validate, apply)
	if errors.Is(err, sentinel.ErrNotFound) {
		if _, err = s.EnsureForUser(ctx, ownerID); err != nil {
			return nil, err
		}
		out, err = s.store.Execute(ctx, ownerID, validate, apply)
	}
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodePlanLimit) {
			s.incrementRejection(plan, "submissions")
			s.logAudit(ctx, audit.EventPlanLimitReached, ownerID, "", "reason", "monthly submissions")
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to record submission usage")
	}
	return out, nil
}

// ChangePlan moves a user to p. source names who asked ("billing", "admin")
// and is recorded as the audit actor.
func (s *Service) ChangePlan(ctx context.Context, userID id.UserID, p plans.Plan, source string) (*models.Entitlement, error) {
	if _, err := s.load(ctx, userID); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	var previous plans.Plan
	out, err := s.store.Execute(ctx, userID,
		func(e *models.Entitlement) error { return e.CanChangePlan(p) },
		func(e *models.Entitlement) {
			previous = e.Plan
			e.ApplyPlanChange(p, now)
		})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to change plan")
	}
	if previous != p {
		if s.metrics != nil {
			s.metrics.IncrementPlanChange(string(p))
		}
		s.logAudit(ctx, audit.EventPlanChanged, userID, source,
			"from_plan", string(previous), "to_plan", string(p))
	}
	return out, nil
}

// ResetExpiredPeriods rolls every expired usage period forward to the
// month containing now. It returns the number of users reset.
func (s *Service) ResetExpiredPeriods(ctx context.Context, now time.Time) (int, error) {
	reset, err := s.store.ResetPeriods(ctx, now)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reset usage periods")
	}
	if s.metrics != nil {
		s.metrics.AddPeriodsReset(len(reset))
	}
	for _, uid := range reset {
		s.logAudit(ctx, audit.EventUsagePeriodReset, uid, "scheduler")
	}
	return len(reset), nil
}

func (s *Service) rejected(ctx context.Context, e *models.Entitlement, check string) {
	s.incrementRejection(e.Plan, check)
	s.logAudit(ctx, audit.EventPlanLimitReached, e.UserID, "", "check", check)
}

func (s *Service) incrementRejection(plan plans.Plan, check string) {
	if s.metrics != nil {
		s.metrics.IncrementLimitRejection(string(plan), check)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, userID id.UserID, actor string, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", string(event), "user_id", userID.String(), "log_type", "audit")
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  userID,
		Subject: "entitlement",
		Action:  string(event),
		Reason:  attrs.FirstString(attributes, "reason", "check", "to_plan"),
		ActorID: actor,
	})
}
