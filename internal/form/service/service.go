package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"

	"prooflayer/internal/form/models"
	onboarding "prooflayer/internal/onboarding/models"
	workspace "prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
	pstrings "prooflayer/pkg/platform/strings"
	txcontext "prooflayer/pkg/platform/tx"
	"prooflayer/pkg/requestcontext"
)

const maxSlugAttempts = 10

type Store interface {
	Create(ctx context.Context, f *models.Form) error
	FindByID(ctx context.Context, formID id.FormID) (*models.Form, error)
	FindBySlug(ctx context.Context, slug string) (*models.Form, error)
	ListByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) ([]*models.Form, error)
	CountByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) (int, error)
	Update(ctx context.Context, f *models.Form) error
	Delete(ctx context.Context, formID id.FormID) error
}

// Workspaces resolves the workspace a form lives in.
type Workspaces interface {
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) (*workspace.Workspace, error)
	Lookup(ctx context.Context, workspaceID id.WorkspaceID) (*workspace.Workspace, error)
}

type Gate interface {
	CheckFormCreate(ctx context.Context, userID id.UserID, currentCount int) error
	CheckSubmissionKind(ctx context.Context, ownerID id.UserID, kind string) error
}

type Onboarding interface {
	AutoComplete(ctx context.Context, userID id.UserID, step onboarding.Step) error
}

// Dependent is a store holding rows scoped to a form. Postgres removes those
// rows by foreign key; in-memory stores are registered here instead.
type Dependent interface {
	DeleteByForm(ctx context.Context, formID id.FormID) error
}

// FeedCache drops cached widget feeds once a form's testimonials are gone.
type FeedCache interface {
	InvalidateWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// PublicForm is an active form together with the branding of its workspace.
type PublicForm struct {
	Form      *models.Form
	Workspace *workspace.Workspace
}

type Service struct {
	store          Store
	workspaces     Workspaces
	gate           Gate
	tx             txcontext.Runner
	onboarding     Onboarding
	dependents     []Dependent
	feedCache      FeedCache
	logger         *slog.Logger
	auditPublisher AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

func WithTxRunner(r txcontext.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func WithOnboarding(o Onboarding) Option {
	return func(s *Service) { s.onboarding = o }
}

// WithDependents registers stores cleared when a form is deleted.
func WithDependents(d ...Dependent) Option {
	return func(s *Service) { s.dependents = append(s.dependents, d...) }
}

func WithFeedCache(c FeedCache) Option {
	return func(s *Service) { s.feedCache = c }
}

func New(store Store, workspaces Workspaces, gate Gate, opts ...Option) *Service {
	s := &Service{
		store:      store,
		workspaces: workspaces,
		gate:       gate,
		tx:         txcontext.NewLockRunner(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, settings models.Settings) (*models.Form, error) {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	f, err := models.NewForm(id.NewFormID(), ws.ID, models.SlugFor(ws.Slug, settings.Name), settings, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}
	if err := s.checkKinds(ctx, ws.OwnerID, f.AllowedKinds); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		count, err := s.store.CountByWorkspace(ctx, ws.ID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count forms")
		}
		if err := s.gate.CheckFormCreate(ctx, ws.OwnerID, count); err != nil {
			return err
		}
		return s.createWithFreeSlug(ctx, f)
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.EventFormCreated, ws.OwnerID, f)
	if s.onboarding != nil {
		if err := s.onboarding.AutoComplete(ctx, ws.OwnerID, onboarding.StepForm); err != nil {
			s.logger.WarnContext(ctx, "failed to record onboarding progress", "error", err)
		}
	}
	return f, nil
}

func (s *Service) createWithFreeSlug(ctx context.Context, f *models.Form) error {
	base := f.Slug
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		f.Slug = pstrings.SlugCandidate(base, attempt)
		err := s.store.Create(ctx, f)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create form")
		}
	}
	return dErrors.New(dErrors.CodeConflict, "too many forms share this name")
}

func (s *Service) checkKinds(ctx context.Context, ownerID id.UserID, kinds []string) error {
	for _, k := range kinds {
		if err := s.gate.CheckSubmissionKind(ctx, ownerID, k); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) ([]*models.Form, error) {
	if _, err := s.workspaces.Get(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.store.ListByWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list forms")
	}
	return list, nil
}

// Get returns a form of a workspace the user owns.
func (s *Service) Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, formID id.FormID) (*models.Form, error) {
	if _, err := s.workspaces.Get(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return s.find(ctx, workspaceID, formID)
}

func (s *Service) find(ctx context.Context, workspaceID id.WorkspaceID, formID id.FormID) (*models.Form, error) {
	f, err := s.store.FindByID(ctx, formID)
	if errors.Is(err, sentinel.ErrNotFound) || (err == nil && f.WorkspaceID != workspaceID) {
		return nil, dErrors.New(dErrors.CodeNotFound, "form not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
	}
	return f, nil
}

func (s *Service) Update(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, formID id.FormID, u models.Update) (*models.Form, error) {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	f, err := s.find(ctx, workspaceID, formID)
	if err != nil {
		return nil, err
	}
	settings, err := f.Merged(u)
	if err != nil {
		return nil, toValidation(err)
	}
	for _, k := range settings.AllowedKinds {
		if slices.Contains(f.AllowedKinds, k) {
			continue
		}
		if err := s.gate.CheckSubmissionKind(ctx, ws.OwnerID, k); err != nil {
			return nil, err
		}
	}

	f.ApplySettings(settings, u.Status, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, f); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "form not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update form")
	}
	s.logAudit(ctx, audit.EventFormUpdated, ws.OwnerID, f)
	return f, nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, formID id.FormID) error {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	f, err := s.find(ctx, workspaceID, formID)
	if err != nil {
		return err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, d := range s.dependents {
			if err := d.DeleteByForm(ctx, formID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete form submissions")
			}
		}
		if err := s.store.Delete(ctx, formID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete form")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.feedCache != nil {
		if err := s.feedCache.InvalidateWorkspace(ctx, workspaceID); err != nil {
			s.logger.WarnContext(ctx, "failed to invalidate widget feeds",
				"workspace_id", workspaceID,
				"error", err,
			)
		}
	}
	s.logAudit(ctx, audit.EventFormDeleted, ws.OwnerID, f)
	return nil
}

// Public resolves an active form by slug for the collection page.
// Archived and unknown slugs are both not found.
func (s *Service) Public(ctx context.Context, slug string) (*PublicForm, error) {
	f, err := s.store.FindBySlug(ctx, slug)
	if errors.Is(err, sentinel.ErrNotFound) || (err == nil && !f.IsActive()) {
		return nil, dErrors.New(dErrors.CodeNotFound, "form not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load form")
	}
	ws, err := s.workspaces.Lookup(ctx, f.WorkspaceID)
	if err != nil {
		return nil, err
	}
	return &PublicForm{Form: f, Workspace: ws}, nil
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, ownerID id.UserID, f *models.Form) {
	s.logger.InfoContext(ctx, string(event),
		"event", string(event),
		"user_id", ownerID,
		"workspace_id", f.WorkspaceID,
		"form_id", f.ID,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:      ownerID,
		WorkspaceID: f.WorkspaceID,
		Subject:     "form:" + f.ID.String(),
		Action:      string(event),
	})
}
