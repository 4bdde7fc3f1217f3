package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"prooflayer/internal/auth/models"
	entitlementmodels "prooflayer/internal/entitlement/models"
	jwttoken "prooflayer/internal/jwt_token"
	"prooflayer/internal/platform/device"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
	txcontext "prooflayer/pkg/platform/tx"
	"prooflayer/pkg/requestcontext"
)

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID id.UserID) (*jwttoken.AccessToken, error)
}

// Entitlements provisions the free plan for new accounts.
type Entitlements interface {
	EnsureForUser(ctx context.Context, userID id.UserID) (*entitlementmodels.Entitlement, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Session is the result of signup or login.
type Session struct {
	User        *models.User
	AccessToken string
	ExpiresAt   time.Time
}

// Service owns dashboard accounts and credentials.
type Service struct {
	users          UserStore
	tokens         TokenIssuer
	entitlements   Entitlements
	tx             txcontext.Runner
	logger         *slog.Logger
	auditPublisher AuditPublisher
	bcryptCost     int
	dummyHash      []byte
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditPublisher = p }
}

// WithBcryptCost overrides bcrypt.DefaultCost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.bcryptCost = cost }
}

func WithTxRunner(r txcontext.Runner) Option {
	return func(s *Service) { s.tx = r }
}

func New(users UserStore, tokens TokenIssuer, entitlements Entitlements, opts ...Option) *Service {
	s := &Service{
		users:        users,
		tokens:       tokens,
		entitlements: entitlements,
		tx:           txcontext.NewLockRunner(),
		logger:       slog.Default(),
		bcryptCost:   bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	// Compared against on unknown emails so both login failures cost a hash.
	s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("prooflayer-dummy-password"), s.bcryptCost)
	return s
}

// Signup creates the account and its free entitlement in one transaction.
func (s *Service) Signup(ctx context.Context, email, name, password string) (*Session, error) {
	if err := models.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}
	user, err := models.NewUser(id.NewUserID(), email, name, string(hash), requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.MessageOf(err))
		}
		return nil, err
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "email is already registered")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create user")
		}
		_, err := s.entitlements.EnsureForUser(ctx, user.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logAudit(ctx, audit.EventUserCreated, user.ID)
	return s.issue(user)
}

// Login verifies credentials. Unknown email and wrong password return the
// same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	invalid := dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, sentinel.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		s.logAudit(ctx, audit.EventAuthFailed, id.UserID{}, "reason", "unknown email")
		return nil, invalid
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logAudit(ctx, audit.EventAuthFailed, user.ID, "reason", "bad password")
		return nil, invalid
	}

	s.logAudit(ctx, audit.EventUserLoggedIn, user.ID)
	return s.issue(user)
}

func (s *Service) Me(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

func (s *Service) issue(user *models.User) (*Session, error) {
	token, err := s.tokens.GenerateAccessToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{User: user, AccessToken: token.Token, ExpiresAt: token.ExpiresAt}, nil
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, userID id.UserID, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	ua := requestcontext.UserAgent(ctx)
	attributes = append(attributes,
		"device", device.ParseUserAgent(ua),
		"client_ip", requestcontext.ClientIP(ctx),
	)
	args := append(attributes, "event", string(event), "user_id", userID.String(), "log_type", "audit")
	if event == audit.EventAuthFailed {
		s.logger.WarnContext(ctx, string(event), args...)
	} else {
		s.logger.InfoContext(ctx, string(event), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	reason := ""
	if len(attributes) >= 2 && attributes[0] == "reason" {
		reason, _ = attributes[1].(string)
	}
	_ = s.auditPublisher.Emit(ctx, audit.Event{
		UserID:  userID,
		Subject: "user",
		Action:  string(event),
		Reason:  reason,
	})
}
