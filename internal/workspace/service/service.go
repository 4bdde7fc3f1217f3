package service

import (
	"context"
	"errors"
	"log/slog"

	onboarding "prooflayer/internal/onboarding/models"
	"prooflayer/internal/workspace/metrics"
	"prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
	pstrings "prooflayer/pkg/platform/strings"
	txcontext "prooflayer/pkg/platform/tx"
	"prooflayer/pkg/requestcontext"
)

// maxSlugAttempts bounds the search for a free slug. See SlugCandidate.
const maxSlugAttempts = 10

type Store interface {
	Create(ctx context.Context, w *models.Workspace) error
	FindByID(ctx context.Context, workspaceID id.WorkspaceID) (*models.Workspace, error)
	ListByOwner(ctx context.Context, ownerID id.UserID) ([]*models.Workspace, error)
	CountByOwner(ctx context.Context, ownerID id.UserID) (int, error)
	Update(ctx context.Context, w *models.Workspace) error
	Delete(ctx context.Context, workspaceID id.WorkspaceID) error
}

// Gate checks the owner's plan before a new workspace is created.
type Gate interface {
	CheckWorkspaceCreate(ctx context.Context, userID id.UserID, currentCount int) error
}

type Onboarding interface {
	AutoComplete(ctx context.Context, userID id.UserID, step onboarding.Step) error
}

// Dependent is a store holding rows scoped to a workspace. Postgres removes
// those rows by foreign key; in-memory stores are registered here instead.
type Dependent interface {
	DeleteByWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// CreateInput carries the user-supplied fields of a new workspace.
type CreateInput struct {
	Name       string
	BrandColor string
	LogoURL    string
}

type Service struct {
	store          Store
	gate           Gate
	tx             txcontext.Runner
	onboarding     Onboarding
	dependents     []Dependent
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

func WithTxRunner(r txcontext.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func WithOnboarding(o Onboarding) Option {
	return func(s *Service) { s.onboarding = o }
}

// WithDependents registers stores cleared when a workspace is deleted.
func WithDependents(d ...Dependent) Option {
	return func(s *Service) { s.dependents = append(s.dependents, d...) }
}

func New(store Store, gate Gate, opts ...Option) *Service {
	s := &Service{store: store, gate: gate, tx: txcontext.NewLockRunner(), logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Create(ctx context.Context, ownerID id.UserID, in CreateInput) (*models.Workspace, error) {
	w, err := models.NewWorkspace(id.NewWorkspaceID(), ownerID, in.Name, in.BrandColor, in.LogoURL, requestcontext.Now(ctx))
	if err != nil {
		return nil, toValidation(err)
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		count, err := s.store.CountByOwner(ctx, ownerID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count workspaces")
		}
		if err := s.gate.CheckWorkspaceCreate(ctx, ownerID, count); err != nil {
			return err
		}
		return s.createWithFreeSlug(ctx, w)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.WorkspacesCreated.Inc()
	}
	s.logAudit(ctx, audit.EventWorkspaceCreated, w)
	s.autoComplete(ctx, ownerID)
	return w, nil
}

func (s *Service) createWithFreeSlug(ctx context.Context, w *models.Workspace) error {
	base := w.Slug
	for attempt := 1; attempt <= maxSlugAttempts; attempt++ {
		w.Slug = pstrings.SlugCandidate(base, attempt)
		err := s.store.Create(ctx, w)
		if err == nil {
			return nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create workspace")
		}
	}
	return dErrors.New(dErrors.CodeConflict, "too many workspaces share this name")
}

func (s *Service) List(ctx context.Context, ownerID id.UserID) ([]*models.Workspace, error) {
	list, err := s.store.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list workspaces")
	}
	return list, nil
}

// Get returns the workspace when userID owns it. Someone else's workspace
// is reported as not found.
func (s *Service) Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) (*models.Workspace, error) {
	w, err := s.store.FindByID(ctx, workspaceID)
	if errors.Is(err, sentinel.ErrNotFound) || (err == nil && !w.IsOwnedBy(userID)) {
		return nil, dErrors.New(dErrors.CodeNotFound, "workspace not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load workspace")
	}
	return w, nil
}

// Lookup loads a workspace without an ownership check, for public flows
// that have no signed-in user.
func (s *Service) Lookup(ctx context.Context, workspaceID id.WorkspaceID) (*models.Workspace, error) {
	w, err := s.store.FindByID(ctx, workspaceID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "workspace not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load workspace")
	}
	return w, nil
}

func (s *Service) Update(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, u models.Update) (*models.Workspace, error) {
	w, err := s.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	if err := w.CanUpdate(u); err != nil {
		return nil, toValidation(err)
	}
	w.ApplyUpdate(u, requestcontext.Now(ctx))
	if err := s.store.Update(ctx, w); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "workspace not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update workspace")
	}
	s.logAudit(ctx, audit.EventWorkspaceUpdated, w)
	return w, nil
}

// Delete removes the workspace with its forms, widgets and submissions.
func (s *Service) Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) error {
	w, err := s.Get(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		for _, d := range s.dependents {
			if err := d.DeleteByWorkspace(ctx, workspaceID); err != nil {
				return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete workspace content")
			}
		}
		if err := s.store.Delete(ctx, workspaceID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete workspace")
		}
		return nil
	})
	if err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.WorkspacesDeleted.Inc()
	}
	s.logAudit(ctx, audit.EventWorkspaceDeleted, w)
	return nil
}

func (s *Service) autoComplete(ctx context.Context, userID id.UserID) {
	if s.onboarding == nil {
		return
	}
	if err := s.onboarding.AutoComplete(ctx, userID, onboarding.StepWorkspace); err != nil {
		s.logger.WarnContext(ctx, "failed to record onboarding progress", "error", err)
	}
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, w *models.Workspace) {
	s.logger.InfoContext(ctx, string(event),
		"event", string(event),
		"user_id", w.OwnerID,
		"workspace_id", w.ID,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:      w.OwnerID,
		WorkspaceID: w.ID,
		Subject:     "workspace",
		Action:      string(event),
	})
}
