package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"prooflayer/internal/auth/service"
	"prooflayer/internal/auth/store/user"
	entitlementservice "prooflayer/internal/entitlement/service"
	entitlementstore "prooflayer/internal/entitlement/store"
	jwttoken "prooflayer/internal/jwt_token"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/testutil"
)

func newRouter(t *testing.T) chi.Router {
	t.Helper()
	svc := service.New(
		user.New(),
		jwttoken.NewJWTService("handler-test-signing-key", "prooflayer", time.Hour),
		entitlementservice.New(entitlementstore.NewInMemory()),
		service.WithBcryptCost(bcrypt.MinCost),
	)
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAuthenticated(r)
	return r
}

func TestSignupLoginMe(t *testing.T) {
	r := newRouter(t)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", map[string]string{
		"email": "Owner@Example.com", "name": "Owner", "password": "password123",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	signup := testutil.UnmarshalResponse[SessionResponse](t, rr)
	assert.Equal(t, "owner@example.com", signup.User.Email)
	assert.Equal(t, "Bearer", signup.TokenType)
	require.NotEmpty(t, signup.AccessToken)

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", map[string]string{
		"email": "owner@example.com", "name": "Again", "password": "password123",
	}))
	testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "owner@example.com", "password": "password123",
	}))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/login", map[string]string{
		"email": "owner@example.com", "password": "nope-nope",
	}))
	testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")

	userID, err := id.ParseUserID(signup.User.ID)
	require.NoError(t, err)
	rr = testutil.DoRequest(r, testutil.WithUserID(testutil.NewRequest(t, http.MethodGet, "/auth/me"), userID))
	testutil.AssertStatusOK(t, rr)
	me := testutil.UnmarshalResponse[UserResponse](t, rr)
	assert.Equal(t, "Owner", me.Name)
}

func TestSignupDerivesMissingName(t *testing.T) {
	r := newRouter(t)

	rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", map[string]string{
		"email": "ada.lovelace@example.com", "name": " ", "password": "password123",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	assert.Equal(t, "Ada Lovelace", testutil.UnmarshalResponse[SessionResponse](t, rr).User.Name)
}

func TestSignupValidation(t *testing.T) {
	r := newRouter(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad email", map[string]string{"email": "nope", "name": "A", "password": "password123"}},
		{"short password", map[string]string{"email": "a@example.com", "name": "A", "password": "short"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := testutil.DoRequest(r, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", tt.body))
			testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
		})
	}
}
