package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	entitlement "prooflayer/internal/entitlement/models"
	formservice "prooflayer/internal/form/service"
	"prooflayer/internal/live"
	"prooflayer/internal/platform/device"
	"prooflayer/internal/platform/outbox"
	"prooflayer/internal/submission/metrics"
	"prooflayer/internal/submission/models"
	"prooflayer/internal/submission/store"
	workspace "prooflayer/internal/workspace/models"
	"prooflayer/pkg/attrs"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
	txcontext "prooflayer/pkg/platform/tx"
	"prooflayer/pkg/requestcontext"
)

const aggregateType = "submission"

type Store interface {
	Create(ctx context.Context, sub *models.Submission) error
	FindByID(ctx context.Context, submissionID id.SubmissionID) (*models.Submission, error)
	ListByWorkspace(ctx context.Context, workspaceID id.WorkspaceID, filter store.Filter) ([]*models.Submission, error)
	Update(ctx context.Context, sub *models.Submission) error
	Delete(ctx context.Context, submissionID id.SubmissionID) error
}

// Forms resolves the public form a visitor is submitting to.
type Forms interface {
	Public(ctx context.Context, slug string) (*formservice.PublicForm, error)
}

type Workspaces interface {
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) (*workspace.Workspace, error)
}

// Gate enforces the workspace owner's plan on intake.
type Gate interface {
	CheckSubmissionKind(ctx context.Context, ownerID id.UserID, kind string) error
	ConsumeSubmission(ctx context.Context, ownerID id.UserID) (*entitlement.Entitlement, error)
}

type Outbox interface {
	Append(ctx context.Context, entry *outbox.Entry) error
}

// FeedCache drops cached widget feeds after moderation changes what they show.
type FeedCache interface {
	InvalidateWorkspace(ctx context.Context, workspaceID id.WorkspaceID) error
}

type Broadcaster interface {
	Publish(workspaceID id.WorkspaceID, ev live.Event)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Receipt is what a visitor gets back after a successful submission.
type Receipt struct {
	Submission *models.Submission
	ThankYou   string
}

// Message is the payload relayed to Kafka and the live feed.
type Message struct {
	SubmissionID id.SubmissionID `json:"submission_id"`
	FormID       id.FormID       `json:"form_id"`
	WorkspaceID  id.WorkspaceID  `json:"workspace_id"`
	Kind         models.Kind     `json:"kind"`
	Status       models.Status   `json:"status"`
	Rating       int             `json:"rating"`
	AuthorName   string          `json:"author_name"`
	At           time.Time       `json:"at"`
}

func messageFor(sub *models.Submission, at time.Time) Message {
	return Message{
		SubmissionID: sub.ID,
		FormID:       sub.FormID,
		WorkspaceID:  sub.WorkspaceID,
		Kind:         sub.Kind,
		Status:       sub.Status,
		Rating:       sub.Rating,
		AuthorName:   sub.AuthorName,
		At:           at,
	}
}

type Service struct {
	store          Store
	forms          Forms
	workspaces     Workspaces
	gate           Gate
	tx             txcontext.Runner
	outbox         Outbox
	topic          string
	feedCache      FeedCache
	broadcaster    Broadcaster
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

// WithOutbox records every accepted submission for the Kafka relay.
func WithOutbox(o Outbox, topic string) Option {
	return func(s *Service) {
		s.outbox = o
		s.topic = topic
	}
}

func WithFeedCache(c FeedCache) Option {
	return func(s *Service) { s.feedCache = c }
}

func WithBroadcaster(b Broadcaster) Option {
	return func(s *Service) { s.broadcaster = b }
}

func New(store Store, forms Forms, workspaces Workspaces, gate Gate, opts ...Option) *Service {
	s := &Service{
		store:      store,
		forms:      forms,
		workspaces: workspaces,
		gate:       gate,
		tx:         txcontext.NewLockRunner(),
		logger:     slog.Default(),
		tracer:     otel.Tracer("prooflayer/submission"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Intake accepts a visitor's testimonial for the form at slug. The form must
// be active and take the draft's kind, the owner's plan must allow the kind,
// and the owner must have monthly submissions left.
func (s *Service) Intake(ctx context.Context, slug string, draft models.Draft) (receipt *Receipt, err error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "submission.Intake", trace.WithAttributes(
		attribute.String("form.slug", slug),
		attribute.String("submission.kind", string(draft.Kind)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, dErrors.MessageOf(err))
			if s.metrics != nil {
				s.metrics.Rejected.WithLabelValues(string(dErrors.CodeOf(err))).Inc()
			}
		}
		span.End()
		if s.metrics != nil {
			s.metrics.Intake.Observe(time.Since(start).Seconds())
		}
	}()

	pf, err := s.forms.Public(ctx, slug)
	if err != nil {
		return nil, err
	}
	f := pf.Form
	if !f.Accepts(draft.Kind) {
		return nil, dErrors.New(dErrors.CodeValidation, fmt.Sprintf("this form does not accept %s submissions", draft.Kind))
	}
	if !f.CollectRating {
		draft.Rating = 0
	}
	if !f.CollectEmail {
		draft.AuthorEmail = ""
	}

	now := requestcontext.Now(ctx)
	sub, err := models.NewSubmission(id.NewSubmissionID(), f.ID, f.WorkspaceID, draft, now)
	if err != nil {
		return nil, toValidation(err)
	}
	span.SetAttributes(attribute.String("submission.id", sub.ID.String()))

	ownerID := pf.Workspace.OwnerID
	if err := s.gate.CheckSubmissionKind(ctx, ownerID, string(sub.Kind)); err != nil {
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if _, err := s.gate.ConsumeSubmission(ctx, ownerID); err != nil {
			return err
		}
		if err := s.store.Create(ctx, sub); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "form not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save submission")
		}
		return s.appendOutbox(ctx, sub, "submission.created", now)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Received.WithLabelValues(string(sub.Kind)).Inc()
	}
	ua := requestcontext.UserAgent(ctx)
	s.logAudit(ctx, audit.EventSubmissionReceived, ownerID, sub,
		"form_id", sub.FormID,
		"kind", string(sub.Kind),
		"device", device.ParseUserAgent(ua),
		"device_class", string(device.Classify(ua)),
		"device_fingerprint", device.Fingerprint(ua),
	)
	s.broadcast(live.EventSubmissionCreated, sub, now)
	return &Receipt{Submission: sub, ThankYou: f.ThankYouMessage}, nil
}

func (s *Service) appendOutbox(ctx context.Context, sub *models.Submission, eventType string, now time.Time) error {
	if s.outbox == nil {
		return nil
	}
	entry, err := outbox.NewEntry(s.topic, aggregateType, sub.ID.String(), eventType, messageFor(sub, now), now)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode submission event")
	}
	if err := s.outbox.Append(ctx, entry); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record submission event")
	}
	return nil
}

func (s *Service) List(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, filter store.Filter) ([]*models.Submission, error) {
	if _, err := s.workspaces.Get(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	list, err := s.store.ListByWorkspace(ctx, workspaceID, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list submissions")
	}
	return list, nil
}

// Published returns approved submissions for a public widget feed, newest
// first. Callers are responsible for having resolved the workspace.
func (s *Service) Published(ctx context.Context, workspaceID id.WorkspaceID, minRating, limit int) ([]*models.Submission, error) {
	list, err := s.store.ListByWorkspace(ctx, workspaceID, store.Filter{
		Status:    models.StatusApproved,
		MinRating: minRating,
		Limit:     limit,
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load testimonials")
	}
	return list, nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error) {
	if _, err := s.workspaces.Get(ctx, userID, workspaceID); err != nil {
		return nil, err
	}
	return s.find(ctx, workspaceID, submissionID)
}

func (s *Service) find(ctx context.Context, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error) {
	sub, err := s.store.FindByID(ctx, submissionID)
	if errors.Is(err, sentinel.ErrNotFound) || (err == nil && sub.WorkspaceID != workspaceID) {
		return nil, dErrors.New(dErrors.CodeNotFound, "submission not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load submission")
	}
	return sub, nil
}

func (s *Service) Approve(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error) {
	return s.moderate(ctx, userID, workspaceID, submissionID, models.StatusApproved)
}

func (s *Service) Reject(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error) {
	return s.moderate(ctx, userID, workspaceID, submissionID, models.StatusRejected)
}

func (s *Service) moderate(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID, to models.Status) (*models.Submission, error) {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)

	var sub *models.Submission
	var from models.Status
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		found, err := s.find(ctx, workspaceID, submissionID)
		if err != nil {
			return err
		}
		if err := found.CanTransition(to); err != nil {
			return err
		}
		from = found.Status
		found.ApplyTransition(to, now)
		if err := s.store.Update(ctx, found); err != nil {
			if errors.Is(err, sentinel.ErrNotFound) {
				return dErrors.New(dErrors.CodeNotFound, "submission not found")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update submission")
		}
		sub = found
		return s.appendOutbox(ctx, sub, "submission.moderated", now)
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Moderated.WithLabelValues(string(to)).Inc()
	}
	event := audit.EventSubmissionApproved
	if to == models.StatusRejected {
		event = audit.EventSubmissionRejected
	}
	s.logAudit(ctx, event, ws.OwnerID, sub, "reason", string(from)+"_to_"+string(to))
	s.invalidateFeeds(ctx, workspaceID)
	s.broadcast(live.EventSubmissionModerated, sub, now)
	return sub, nil
}

func (s *Service) Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) error {
	ws, err := s.workspaces.Get(ctx, userID, workspaceID)
	if err != nil {
		return err
	}
	sub, err := s.find(ctx, workspaceID, submissionID)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, submissionID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete submission")
	}
	s.logAudit(ctx, audit.EventSubmissionDeleted, ws.OwnerID, sub)
	if sub.Status == models.StatusApproved {
		s.invalidateFeeds(ctx, workspaceID)
	}
	s.broadcast(live.EventSubmissionDeleted, sub, requestcontext.Now(ctx))
	return nil
}

func (s *Service) invalidateFeeds(ctx context.Context, workspaceID id.WorkspaceID) {
	if s.feedCache == nil {
		return
	}
	if err := s.feedCache.InvalidateWorkspace(ctx, workspaceID); err != nil {
		s.logger.WarnContext(ctx, "failed to invalidate widget feeds",
			"workspace_id", workspaceID,
			"error", err,
		)
	}
}

func (s *Service) broadcast(eventType string, sub *models.Submission, at time.Time) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.Publish(sub.WorkspaceID, live.Event{Type: eventType, Data: messageFor(sub, at), At: at})
}

func toValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
	}
	return err
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, ownerID id.UserID, sub *models.Submission, attributes ...any) {
	args := append(attributes,
		"event", string(event),
		"user_id", ownerID,
		"workspace_id", sub.WorkspaceID,
		"submission_id", sub.ID,
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:      ownerID,
		WorkspaceID: sub.WorkspaceID,
		Subject:     "submission:" + sub.ID.String(),
		Action:      string(event),
		Reason:      attrs.ExtractString(attributes, "reason"),
		RequestID:   requestcontext.RequestID(ctx),
	})
}
