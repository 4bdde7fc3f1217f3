package service

import (
	"context"
	"errors"
	"log/slog"

	"prooflayer/internal/onboarding/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/sentinel"
	"prooflayer/pkg/requestcontext"
)

type Store interface {
	Find(ctx context.Context, userID id.UserID) (*models.Progress, error)
	Save(ctx context.Context, p *models.Progress) error
}

// Service tracks the setup wizard. Resource services call AutoComplete
// after creating the resource a step asks for.
type Service struct {
	store  Store
	logger *slog.Logger
}

func New(store Store, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, logger: logger}
}

// Get returns stored progress, or a fresh wizard for users without any.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.Progress, error) {
	p, err := s.store.Find(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return models.NewProgress(userID, requestcontext.Now(ctx)), nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load onboarding progress")
	}
	return p, nil
}

// Complete marks a step done on the user's request. Steps must be taken in
// order; repeating a completed step succeeds without change.
func (s *Service) Complete(ctx context.Context, userID id.UserID, step models.Step) (*models.Progress, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := p.CanComplete(step); err != nil {
		return nil, err
	}
	return s.apply(ctx, p, step)
}

// AutoComplete records that the resource for step now exists. Earlier
// steps are implied and marked done as well.
func (s *Service) AutoComplete(ctx context.Context, userID id.UserID, step models.Step) error {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return err
	}
	_, err = s.apply(ctx, p, step)
	return err
}

func (s *Service) Dismiss(ctx context.Context, userID id.UserID) (*models.Progress, error) {
	p, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	p.ApplyDismiss(requestcontext.Now(ctx))
	if err := s.store.Save(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save onboarding progress")
	}
	return p, nil
}

func (s *Service) apply(ctx context.Context, p *models.Progress, step models.Step) (*models.Progress, error) {
	if !p.ApplyComplete(step, requestcontext.Now(ctx)) {
		return p, nil
	}
	if err := s.store.Save(ctx, p); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save onboarding progress")
	}
	s.logger.InfoContext(ctx, "onboarding step completed",
		"request_id", requestcontext.RequestID(ctx),
		"user_id", p.UserID,
		"step", step,
		"finished", p.IsFinished(),
	)
	return p, nil
}
