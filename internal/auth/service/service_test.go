package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks UserStore,TokenIssuer,Entitlements,AuditPublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"prooflayer/internal/auth/models"
	"prooflayer/internal/auth/service/mocks"
	jwttoken "prooflayer/internal/jwt_token"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl             *gomock.Controller
	mockUsers        *mocks.MockUserStore
	mockTokens       *mocks.MockTokenIssuer
	mockEntitlements *mocks.MockEntitlements
	mockAudit        *mocks.MockAuditPublisher
	service          *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockUsers = mocks.NewMockUserStore(s.ctrl)
	s.mockTokens = mocks.NewMockTokenIssuer(s.ctrl)
	s.mockEntitlements = mocks.NewMockEntitlements(s.ctrl)
	s.mockAudit = mocks.NewMockAuditPublisher(s.ctrl)
	s.service = New(s.mockUsers, s.mockTokens, s.mockEntitlements,
		WithAuditPublisher(s.mockAudit),
		WithBcryptCost(bcrypt.MinCost),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) token() *jwttoken.AccessToken {
	return &jwttoken.AccessToken{Token: "signed", ExpiresAt: time.Now().Add(time.Hour)}
}

func (s *ServiceSuite) TestSignup() {
	ctx := context.Background()

	s.Run("creates user and entitlement then issues a token", func() {
		var created *models.User
		s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, u *models.User) error {
				created = u
				return nil
			})
		s.mockEntitlements.EXPECT().EnsureForUser(gomock.Any(), gomock.Any()).Return(nil, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(string(audit.EventUserCreated), e.Action)
				return nil
			})
		s.mockTokens.EXPECT().GenerateAccessToken(gomock.Any()).Return(s.token(), nil)

		session, err := s.service.Signup(ctx, "Jane@Example.com", "Jane", "password123")
		s.Require().NoError(err)
		s.Equal("signed", session.AccessToken)
		s.Equal("jane@example.com", created.Email)
		s.NoError(bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("password123")))
	})

	s.Run("short password is a validation error", func() {
		_, err := s.service.Signup(ctx, "jane@example.com", "Jane", "short")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("invalid email is a validation error", func() {
		_, err := s.service.Signup(ctx, "nope", "Jane", "password123")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("taken email is a conflict", func() {
		s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrConflict)

		_, err := s.service.Signup(ctx, "jane@example.com", "Jane", "password123")
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("entitlement failure aborts signup", func() {
		s.mockUsers.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		s.mockEntitlements.EXPECT().EnsureForUser(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeInternal, "db down"))

		_, err := s.service.Signup(ctx, "new@example.com", "New", "password123")
		s.Error(err)
	})
}

func (s *ServiceSuite) TestLogin() {
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	s.Require().NoError(err)
	user := &models.User{ID: id.NewUserID(), Email: "jane@example.com", Name: "Jane", PasswordHash: string(hash)}

	s.Run("valid credentials", func() {
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "jane@example.com").Return(user, nil)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil)
		s.mockTokens.EXPECT().GenerateAccessToken(user.ID).Return(s.token(), nil)

		session, err := s.service.Login(ctx, "jane@example.com", "password123")
		s.Require().NoError(err)
		s.Equal(user.ID, session.User.ID)
	})

	s.Run("wrong password and unknown email look the same", func() {
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "jane@example.com").Return(user, nil)
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), "ghost@example.com").Return(nil, sentinel.ErrNotFound)
		s.mockAudit.EXPECT().Emit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, e audit.Event) error {
				s.Equal(string(audit.EventAuthFailed), e.Action)
				return nil
			}).Times(2)

		_, errWrong := s.service.Login(ctx, "jane@example.com", "wrong-password")
		_, errUnknown := s.service.Login(ctx, "ghost@example.com", "password123")
		s.True(dErrors.HasCode(errWrong, dErrors.CodeUnauthorized))
		s.Equal(errWrong.Error(), errUnknown.Error())
	})

	s.Run("store failure is internal", func() {
		s.mockUsers.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("boom"))

		_, err := s.service.Login(ctx, "jane@example.com", "password123")
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *ServiceSuite) TestMe() {
	ctx := context.Background()

	s.Run("missing user is not found", func() {
		s.mockUsers.EXPECT().FindByID(gomock.Any(), gomock.Any()).Return(nil, sentinel.ErrNotFound)

		_, err := s.service.Me(ctx, id.NewUserID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}
