package handler

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prooflayer/internal/billing/provider"
	"prooflayer/internal/billing/service"
	"prooflayer/internal/billing/store"
	entitlementservice "prooflayer/internal/entitlement/service"
	entitlementstore "prooflayer/internal/entitlement/store"
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	"prooflayer/pkg/testutil"
)

func TestBillingHandlers(t *testing.T) {
	entitlements := entitlementservice.New(entitlementstore.NewInMemory())
	checkout := provider.NewInMemory("https://pay.test")
	svc := service.New(checkout, entitlements, store.NewInMemory(), service.Config{WebhookSecret: "whsec"})

	r := chi.NewRouter()
	h := New(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h.Register(r)
	h.RegisterPublic(r)
	user := id.NewUserID()

	t.Run("plans are public", func(t *testing.T) {
		rr := testutil.DoRequest(r, testutil.NewRequest(t, http.MethodGet, "/billing/plans"))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[PlansResponse](t, rr)
		assert.Len(t, resp.Plans, len(plans.All()))
	})

	t.Run("checkout needs a user", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/billing/checkout", map[string]any{"plan": "pro"})
		testutil.AssertStatus(t, testutil.DoRequest(r, req), http.StatusUnauthorized)
	})

	t.Run("checkout returns redirect url", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/billing/checkout", map[string]any{"plan": "Pro"})
		rr := testutil.DoRequest(r, testutil.WithUserID(req, user))
		testutil.AssertStatusOK(t, rr)
		resp := testutil.UnmarshalResponse[CheckoutResponse](t, rr)
		assert.Contains(t, resp.URL, "https://pay.test/checkout/cs_")
		require.Len(t, checkout.Requests(), 1)
		assert.Equal(t, plans.Monthly, checkout.Requests()[0].Interval)
	})

	t.Run("free checkout is rejected", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPost, "/billing/checkout", map[string]any{"plan": "free"})
		rr := testutil.DoRequest(r, testutil.WithUserID(req, user))
		testutil.AssertStatusAndError(t, rr, http.StatusBadRequest, "validation_error")
	})

	webhook := func(t *testing.T, body, signature string) int {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/billing/webhook", body)
		req.Header.Set(HeaderSignature, signature)
		return testutil.DoRequest(r, req).Code
	}

	t.Run("signed webhook upgrades the plan", func(t *testing.T) {
		body := fmt.Sprintf(`{"id":"evt_1","type":"checkout.completed","data":{"user_id":%q,"plan":"pro"}}`, user)
		assert.Equal(t, http.StatusOK, webhook(t, body, service.Sign("whsec", []byte(body))))

		sum, err := entitlements.Get(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, plans.Pro, sum.Entitlement.Plan)

		assert.Equal(t, http.StatusOK, webhook(t, body, service.Sign("whsec", []byte(body))), "replay")
	})

	t.Run("unsigned webhook is rejected", func(t *testing.T) {
		body := fmt.Sprintf(`{"id":"evt_2","type":"subscription.canceled","data":{"user_id":%q}}`, user)
		assert.Equal(t, http.StatusUnauthorized, webhook(t, body, ""))

		sum, err := entitlements.Get(context.Background(), user)
		require.NoError(t, err)
		assert.Equal(t, plans.Pro, sum.Entitlement.Plan)
	})

	t.Run("unknown event is acknowledged", func(t *testing.T) {
		body := `{"id":"evt_3","type":"customer.updated","data":{}}`
		assert.Equal(t, http.StatusOK, webhook(t, body, service.Sign("whsec", []byte(body))))
	})
}
