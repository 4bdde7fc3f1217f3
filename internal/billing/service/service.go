package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	auth "prooflayer/internal/auth/models"
	"prooflayer/internal/billing/metrics"
	"prooflayer/internal/billing/models"
	entitlement "prooflayer/internal/entitlement/models"
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
	txcontext "prooflayer/pkg/platform/tx"
	"prooflayer/pkg/requestcontext"
)

type Provider interface {
	CreateSession(ctx context.Context, req models.CheckoutRequest) (*models.Session, error)
}

type Entitlements interface {
	EnsureForUser(ctx context.Context, userID id.UserID) (*entitlement.Entitlement, error)
	ChangePlan(ctx context.Context, userID id.UserID, p plans.Plan, source string) (*entitlement.Entitlement, error)
}

// EventStore records processed webhook IDs. Record returns
// sentinel.ErrConflict for an ID it has seen.
type EventStore interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Record(ctx context.Context, eventID, eventType string, at time.Time) error
}

// Users confirms that an event's user exists before its plan changes.
type Users interface {
	FindByID(ctx context.Context, userID id.UserID) (*auth.User, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Config struct {
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// PlanOption is one row of the pricing table.
type PlanOption struct {
	Limits  plans.Limits `json:"limits"`
	Monthly plans.Quote  `json:"monthly"`
	Annual  plans.Quote  `json:"annual"`
}

type Service struct {
	provider       Provider
	entitlements   Entitlements
	events         EventStore
	users          Users
	cfg            Config
	tx             txcontext.Runner
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

// WithUsers makes webhooks for unknown users a no-op instead of a plan change.
func WithUsers(u Users) Option {
	return func(s *Service) { s.users = u }
}

func WithTxRunner(r txcontext.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func New(provider Provider, entitlements Entitlements, events EventStore, cfg Config, opts ...Option) *Service {
	s := &Service{
		provider:     provider,
		entitlements: entitlements,
		events:       events,
		cfg:          cfg,
		tx:           txcontext.NewLockRunner(),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Plans returns every plan with monthly and annual single-seat quotes.
func (s *Service) Plans() ([]PlanOption, error) {
	all := plans.All()
	out := make([]PlanOption, 0, len(all))
	for _, l := range all {
		monthly, err := plans.QuoteFor(l.Plan, plans.Monthly, 1)
		if err != nil {
			return nil, err
		}
		annual, err := plans.QuoteFor(l.Plan, plans.Annual, 1)
		if err != nil {
			return nil, err
		}
		out = append(out, PlanOption{Limits: l, Monthly: monthly, Annual: annual})
	}
	return out, nil
}

// Checkout opens a hosted checkout session for moving userID to planName.
func (s *Service) Checkout(ctx context.Context, userID id.UserID, planName, intervalName string) (*models.Session, error) {
	p, err := plans.ParsePlan(planName)
	if err != nil {
		return nil, err
	}
	if p == plans.Free {
		return nil, dErrors.New(dErrors.CodeValidation, "the free plan needs no checkout")
	}
	interval, err := plans.ParseInterval(intervalName)
	if err != nil {
		return nil, err
	}
	current, err := s.entitlements.EnsureForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if current.Plan == p {
		return nil, dErrors.New(dErrors.CodeConflict, fmt.Sprintf("already on the %s plan", p))
	}
	quote, err := plans.QuoteFor(p, interval, 1)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateSession(ctx, models.CheckoutRequest{
		UserID:      userID,
		Plan:        p,
		Interval:    interval,
		AmountCents: quote.AmountCents,
		SuccessURL:  s.cfg.SuccessURL,
		CancelURL:   s.cfg.CancelURL,
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout session failed",
			"user_id", userID,
			"plan", string(p),
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.Checkouts.WithLabelValues(string(p)).Inc()
	}
	s.logAudit(ctx, audit.EventCheckoutStarted, userID, string(p),
		"plan", string(p), "interval", string(interval), "session_id", session.SessionID)
	return session, nil
}

// VerifySignature checks a hex HMAC-SHA256 of body under secret. A
// "sha256=" prefix on signature is accepted.
func VerifySignature(secret string, body []byte, signature string) bool {
	signature = strings.TrimPrefix(strings.TrimSpace(signature), "sha256=")
	got, err := hex.DecodeString(signature)
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}

// Sign returns the signature VerifySignature accepts for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

var errDuplicate = errors.New("duplicate billing event")

// Webhook applies a signed provider event. Replays of an event ID and
// unknown event types are accepted without effect.
func (s *Service) Webhook(ctx context.Context, body []byte, signature string) error {
	if s.cfg.WebhookSecret == "" {
		return dErrors.New(dErrors.CodeUnavailable, "billing webhooks are not configured")
	}
	if !VerifySignature(s.cfg.WebhookSecret, body, signature) {
		s.count("unknown", "rejected")
		s.logAudit(ctx, audit.EventWebhookRejected, id.UserID{}, "bad_signature")
		return dErrors.New(dErrors.CodeUnauthorized, "invalid webhook signature")
	}
	if !gjson.ValidBytes(body) {
		return dErrors.New(dErrors.CodeBadRequest, "webhook body is not valid JSON")
	}
	fields := gjson.GetManyBytes(body, "id", "type")
	eventID, eventType := fields[0].String(), fields[1].String()
	if eventID == "" || eventType == "" {
		return dErrors.New(dErrors.CodeBadRequest, "webhook event needs id and type")
	}

	// The event is recorded after the plan change so a failed change can be
	// redelivered. A concurrent duplicate loses on Record and rolls back.
	applied := false
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		seen, err := s.events.Seen(ctx, eventID)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up billing event")
		}
		if seen {
			return errDuplicate
		}
		ev, ok, err := parseEvent(body, eventID, models.EventType(eventType))
		if err != nil {
			return err
		}
		if ok {
			ok, err = s.knownUser(ctx, ev)
			if err != nil {
				return err
			}
		}
		if ok {
			target := ev.Plan
			if ev.Type == models.EventSubscriptionCanceled {
				target = plans.Free
			}
			if _, err := s.entitlements.ChangePlan(ctx, ev.UserID, target, "billing"); err != nil {
				return err
			}
			applied = true
		}
		if err := s.events.Record(ctx, eventID, eventType, requestcontext.Now(ctx)); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return errDuplicate
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record billing event")
		}
		return nil
	})
	switch {
	case errors.Is(err, errDuplicate):
		s.count(eventType, "duplicate")
		s.logger.InfoContext(ctx, "billing event replay ignored", "event_id", eventID, "type", eventType)
		return nil
	case err != nil:
		s.count(eventType, "failed")
		return err
	case applied:
		s.count(eventType, "applied")
	default:
		s.count(eventType, "ignored")
	}
	return nil
}

// knownUser reports whether the event's user exists. An unknown user is
// logged and the event is recorded as ignored so the provider stops
// redelivering it.
func (s *Service) knownUser(ctx context.Context, ev models.Event) (bool, error) {
	if s.users == nil {
		return true, nil
	}
	_, err := s.users.FindByID(ctx, ev.UserID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "billing event for unknown user ignored",
			"event_id", ev.ID,
			"type", string(ev.Type),
			"user_id", ev.UserID,
		)
		return false, nil
	}
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up user")
	}
	return true, nil
}

// parseEvent reads the user and plan of the event types the service acts
// on. ok is false for types it ignores.
func parseEvent(body []byte, eventID string, t models.EventType) (models.Event, bool, error) {
	ev := models.Event{ID: eventID, Type: t}
	switch t {
	case models.EventCheckoutCompleted, models.EventSubscriptionCanceled:
	default:
		return ev, false, nil
	}
	data := gjson.GetManyBytes(body, "data.user_id", "data.plan")
	userID, err := id.ParseUserID(data[0].String())
	if err != nil {
		return ev, false, dErrors.New(dErrors.CodeBadRequest, "webhook event has no valid data.user_id")
	}
	ev.UserID = userID
	if t == models.EventCheckoutCompleted {
		p, err := plans.ParsePlan(data[1].String())
		if err != nil {
			return ev, false, dErrors.New(dErrors.CodeBadRequest, "webhook event has no valid data.plan")
		}
		ev.Plan = p
	}
	return ev, true, nil
}

func (s *Service) count(eventType, outcome string) {
	if s.metrics != nil {
		s.metrics.Webhooks.WithLabelValues(eventType, outcome).Inc()
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, userID id.UserID, reason string, attributes ...any) {
	requestID := requestcontext.RequestID(ctx)
	args := append(attributes,
		"event", string(event),
		"user_id", userID.String(),
		"request_id", requestID,
		"log_type", "audit",
	)
	s.logger.InfoContext(ctx, string(event), args...)
	if s.auditPublisher == nil {
		return
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:    userID,
		Subject:   "billing",
		Action:    string(event),
		Reason:    reason,
		RequestID: requestID,
	})
}
