package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	entitlementservice "prooflayer/internal/entitlement/service"
	entitlementstore "prooflayer/internal/entitlement/store"
	form "prooflayer/internal/form/models"
	formservice "prooflayer/internal/form/service"
	formstore "prooflayer/internal/form/store"
	"prooflayer/internal/submission/service"
	"prooflayer/internal/submission/store"
	workspaceservice "prooflayer/internal/workspace/service"
	workspacestore "prooflayer/internal/workspace/store"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/testutil"
)

func TestSubmissionHandlers(t *testing.T) {
	ctx := context.Background()
	entitlements := entitlementservice.New(entitlementstore.NewInMemory())
	workspaces := workspaceservice.New(workspacestore.NewInMemory(), entitlements)
	forms := formservice.New(formstore.NewInMemory(), workspaces, entitlements)
	owner := id.NewUserID()
	ws, err := workspaces.Create(ctx, owner, workspaceservice.CreateInput{Name: "Acme"})
	require.NoError(t, err)
	f, err := forms.Create(ctx, owner, ws.ID, form.Settings{Name: "Reviews", CollectRating: true})
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(service.New(store.NewInMemory(), forms, workspaces, entitlements, service.WithLogger(logger)), logger)
	r := chi.NewRouter()
	h.Register(r)
	h.RegisterPublic(r)

	intake := "/public/forms/" + f.Slug + "/submissions/"
	base := "/workspaces/" + ws.ID.String() + "/submissions"
	as := func(req *http.Request) *http.Request { return testutil.WithUserID(req, owner) }

	t.Run("unknown kind endpoint", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, intake+"audio", map[string]any{"author_name": "Ana"})
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("form does not take video", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, intake+"video", map[string]any{
			"author_name": "Ana", "media_url": "https://cdn.example.com/a.mp4",
		})
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	var accepted *IntakeResponse
	t.Run("text intake", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, intake+"text", map[string]any{
			"author_name": "Ana", "rating": 5, "text": "Best tool we bought this year",
		})
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatus(t, rr, http.StatusCreated)
		accepted = testutil.UnmarshalResponse[IntakeResponse](t, rr)
		assert.Equal(t, "pending", accepted.Status)
		assert.Equal(t, form.DefaultThankYou, accepted.ThankYou)
	})
	require.NotNil(t, accepted)

	t.Run("unknown fields are rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, intake+"text", map[string]any{"author_name": "Ana", "text": "hi", "status": "approved"})
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("dashboard requires auth", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, base))
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	})

	t.Run("list pending", func(t *testing.T) {
		rr := testutil.DoRequest(r, as(testutil.NewRequest(t, http.MethodGet, base+"?status=pending")))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[ListSubmissionsResponse](t, rr)
		require.Len(t, resp.Submissions, 1)
		assert.Equal(t, accepted.ID, resp.Submissions[0].ID)
	})

	t.Run("bad filter", func(t *testing.T) {
		rr := testutil.DoRequest(r, as(testutil.NewRequest(t, http.MethodGet, base+"?limit=0")))
		testutil.AssertStatus(t, rr, http.StatusBadRequest)
	})

	t.Run("approve then approve again", func(t *testing.T) {
		rr := testutil.DoRequest(r, as(testutil.NewRequest(t, http.MethodPost, base+"/"+accepted.ID+"/approve")))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[SubmissionResponse](t, rr)
		assert.Equal(t, "approved", resp.Status)
		assert.NotNil(t, resp.ModeratedAt)

		rr = testutil.DoRequest(r, as(testutil.NewRequest(t, http.MethodPost, base+"/"+accepted.ID+"/approve")))
		testutil.AssertStatusAndError(t, rr, http.StatusConflict, "conflict")
	})

	t.Run("stranger cannot see submission", func(t *testing.T) {
		req := testutil.WithUserID(testutil.NewRequest(t, http.MethodGet, base+"/"+accepted.ID), id.NewUserID())
		rr := testutil.DoRequest(r, req)
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		rr := testutil.DoRequest(r, as(testutil.NewRequest(t, http.MethodDelete, base+"/"+accepted.ID)))
		testutil.AssertStatus(t, rr, http.StatusNoContent)

		rr = testutil.DoRequest(r, as(testutil.NewRequest(t, http.MethodGet, base+"/"+accepted.ID)))
		testutil.AssertStatus(t, rr, http.StatusNotFound)
	})
}
