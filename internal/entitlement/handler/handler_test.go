package handler

import (
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prooflayer/internal/entitlement/service"
	"prooflayer/internal/entitlement/store"
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/testutil"
)

func newRouter(t *testing.T) (chi.Router, *service.Service) {
	t.Helper()
	svc := service.New(store.NewInMemory())
	r := chi.NewRouter()
	New(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(r)
	return r, svc
}

func TestHandleGet(t *testing.T) {
	t.Run("requires a user", func(t *testing.T) {
		r, _ := newRouter(t)
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/entitlement"))
		testutil.AssertStatusAndError(t, rr, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("returns plan and usage", func(t *testing.T) {
		r, svc := newRouter(t)
		userID := id.NewUserID()
		req := testutil.WithUserID(testutil.NewRequest(t, http.MethodGet, "/entitlement"), userID)
		_, err := svc.ConsumeSubmission(req.Context(), userID)
		require.NoError(t, err)

		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusOK(t, rr)

		resp := testutil.UnmarshalResponse[EntitlementResponse](t, rr)
		assert.Equal(t, plans.Free, resp.Plan)
		assert.Equal(t, 1, resp.Used)
		assert.Equal(t, plans.LimitsFor(plans.Free).MonthlySubmissions-1, resp.Remaining)
		assert.Equal(t, 1, resp.Limits.MaxWorkspaces)
	})
}
