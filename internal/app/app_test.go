package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/goleak"

	billinghandler "prooflayer/internal/billing/handler"
	billingservice "prooflayer/internal/billing/service"
	"prooflayer/internal/platform/config"
	adminmw "prooflayer/pkg/platform/middleware/admin"
	"prooflayer/pkg/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testConfig() config.Config {
	return config.Config{
		Server: config.Server{
			Addr:            "127.0.0.1:0",
			PublicBaseURL:   "http://localhost:8080",
			JWTSigningKey:   "test-signing-key-0123456789",
			TokenTTL:        time.Hour,
			AdminToken:      "ops-token",
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: time.Second,
		},
		Kafka: config.KafkaConfig{
			SubmissionsTopic: "prooflayer.submissions",
			AuditTopic:       "prooflayer.audit",
		},
		Widget: config.WidgetConfig{
			ScriptURL: "https://cdn.example.com/widget.js",
			FeedTTL:   time.Minute,
		},
		Checkout: config.CheckoutConfig{
			WebhookSecret: "whsec",
			SuccessURL:    "http://localhost:8080/billing/success",
			CancelURL:     "http://localhost:8080/billing",
		},
		SubmitRatePerMinute: 100,
		UsageResetSchedule:  "@hourly",
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type session struct {
	AccessToken string `json:"access_token"`
	User        struct {
		ID string `json:"id"`
	} `json:"user"`
}

type created struct {
	ID   string `json:"id"`
	Slug string `json:"slug"`
}

func TestTestimonialLifecycle(t *testing.T) {
	a, err := Build(context.Background(), Options{Config: testConfig(), Logger: discard()})
	require.NoError(t, err)
	defer a.Close()
	h := a.Handler

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", map[string]any{
		"email": "founder@acme.test", "name": "Ada", "password": "correct-horse",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	sess := testutil.UnmarshalResponse[session](t, rr)
	require.NotEmpty(t, sess.AccessToken)
	authed := func(req *http.Request) *http.Request { return testutil.WithBearer(req, sess.AccessToken) }

	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces", map[string]any{"name": "Acme"})))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	ws := testutil.UnmarshalResponse[created](t, rr)

	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces/"+ws.ID+"/forms", map[string]any{"name": "Love"})))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	form := testutil.UnmarshalResponse[created](t, rr)

	rr = testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/public/forms/"+form.Slug+"/submissions/text", map[string]any{
		"author_name": "Grace", "rating": 5, "text": "Shipped our wall of love in an afternoon.",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	sub := testutil.UnmarshalResponse[created](t, rr)

	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces/"+ws.ID+"/widgets", map[string]any{"name": "Homepage"})))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	widget := testutil.UnmarshalResponse[created](t, rr)

	feedPath := "/public/widgets/" + widget.ID + "/testimonials"
	feed := func() []any {
		rr := testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, feedPath))
		testutil.AssertStatusOK(t, rr)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		items, _ := body["testimonials"].([]any)
		return items
	}
	assert.Empty(t, feed(), "pending submissions stay off the wall")

	rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodPost, "/workspaces/"+ws.ID+"/submissions/"+sub.ID+"/approve")))
	testutil.AssertStatusOK(t, rr)
	assert.Len(t, feed(), 1)

	rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/onboarding")))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/entitlement")))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "submissions_used", float64(1))
}

func TestPlanChanges(t *testing.T) {
	a, err := Build(context.Background(), Options{Config: testConfig(), Logger: discard()})
	require.NoError(t, err)
	defer a.Close()
	h := a.Handler

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", map[string]any{
		"email": "owner@beta.test", "name": "Lin", "password": "correct-horse",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	sess := testutil.UnmarshalResponse[session](t, rr)
	authed := func(req *http.Request) *http.Request { return testutil.WithBearer(req, sess.AccessToken) }

	t.Run("checkout returns a hosted url", func(t *testing.T) {
		rr := testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/billing/checkout", map[string]any{"plan": "starter"})))
		testutil.AssertStatusOK(t, rr)
		testutil.AssertJSONHasKey(t, rr, "url")
	})

	t.Run("signed webhook upgrades the plan", func(t *testing.T) {
		body := `{"id":"evt_1","type":"checkout.completed","data":{"user_id":"` + sess.User.ID + `","plan":"pro"}}`
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/billing/webhook", body)
		req.Header.Set(billinghandler.HeaderSignature, billingservice.Sign("whsec", []byte(body)))
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusOK(t, rr)

		rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/entitlement")))
		testutil.AssertJSONContains(t, rr, "plan", "pro")
	})

	t.Run("webhook for an unknown user is acknowledged without effect", func(t *testing.T) {
		body := `{"id":"evt_ghost","type":"checkout.completed","data":{"user_id":"` + uuid.NewString() + `","plan":"agency"}}`
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/billing/webhook", body)
		req.Header.Set(billinghandler.HeaderSignature, billingservice.Sign("whsec", []byte(body)))
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusOK(t, rr)

		rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/entitlement")))
		testutil.AssertJSONContains(t, rr, "plan", "pro")
	})

	t.Run("admin downgrade", func(t *testing.T) {
		req := testutil.NewJSONRequest(t, http.MethodPut, "/admin/users/"+sess.User.ID+"/plan", map[string]any{"plan": "free"})
		req.Header.Set(adminmw.HeaderAdminToken, "ops-token")
		rr := testutil.DoRequest(h, req)
		testutil.AssertStatusOK(t, rr)

		rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/entitlement")))
		testutil.AssertJSONContains(t, rr, "plan", "free")
	})
}

func TestWorkspaceDeleteCascadesInMemory(t *testing.T) {
	a, err := Build(context.Background(), Options{Config: testConfig(), Logger: discard()})
	require.NoError(t, err)
	defer a.Close()
	h := a.Handler

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", map[string]any{
		"email": "gone@gamma.test", "name": "Sam", "password": "correct-horse",
	}))
	sess := testutil.UnmarshalResponse[session](t, rr)
	authed := func(req *http.Request) *http.Request { return testutil.WithBearer(req, sess.AccessToken) }

	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces", map[string]any{"name": "Gamma"})))
	ws := testutil.UnmarshalResponse[created](t, rr)
	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces/"+ws.ID+"/forms", map[string]any{"name": "Notes"})))
	form := testutil.UnmarshalResponse[created](t, rr)

	rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodDelete, "/workspaces/"+ws.ID)))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, "/public/forms/"+form.Slug))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestFormDeleteRemovesItsTestimonials(t *testing.T) {
	a, err := Build(context.Background(), Options{Config: testConfig(), Logger: discard()})
	require.NoError(t, err)
	defer a.Close()
	h := a.Handler

	rr := testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/auth/signup", map[string]any{
		"email": "owner@delta.test", "name": "Kim", "password": "correct-horse",
	}))
	sess := testutil.UnmarshalResponse[session](t, rr)
	authed := func(req *http.Request) *http.Request { return testutil.WithBearer(req, sess.AccessToken) }

	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces", map[string]any{"name": "Delta"})))
	ws := testutil.UnmarshalResponse[created](t, rr)
	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces/"+ws.ID+"/forms", map[string]any{"name": "Praise"})))
	form := testutil.UnmarshalResponse[created](t, rr)

	rr = testutil.DoRequest(h, testutil.NewJSONRequest(t, http.MethodPost, "/public/forms/"+form.Slug+"/submissions/text", map[string]any{
		"author_name": "Lee", "rating": 5, "text": "Set up in ten minutes and it just works.",
	}))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	sub := testutil.UnmarshalResponse[created](t, rr)
	rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodPost, "/workspaces/"+ws.ID+"/submissions/"+sub.ID+"/approve")))
	testutil.AssertStatusOK(t, rr)

	rr = testutil.DoRequest(h, authed(testutil.NewJSONRequest(t, http.MethodPost, "/workspaces/"+ws.ID+"/widgets", map[string]any{"name": "Footer"})))
	widget := testutil.UnmarshalResponse[created](t, rr)
	feedPath := "/public/widgets/" + widget.ID + "/testimonials"

	rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, feedPath))
	testutil.AssertJSONContains(t, rr, "testimonials.#", float64(1))

	rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodDelete, "/workspaces/"+ws.ID+"/forms/"+form.ID)))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.DoRequest(h, testutil.NewRequest(t, http.MethodGet, feedPath))
	testutil.AssertStatusOK(t, rr)
	assert.Empty(t, gjson.GetBytes(rr.Body.Bytes(), "testimonials").Array(), "wall drops the deleted form's testimonials")

	rr = testutil.DoRequest(h, authed(testutil.NewRequest(t, http.MethodGet, "/workspaces/"+ws.ID+"/submissions")))
	testutil.AssertStatusOK(t, rr)
	testutil.AssertJSONContains(t, rr, "submissions.#", float64(0))
}

func TestRunStopsOnCancel(t *testing.T) {
	a, err := Build(context.Background(), Options{Config: testConfig(), Logger: discard()})
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestOriginPatterns(t *testing.T) {
	assert.Equal(t, []string{"app.prooflayer.io"}, originPatterns("https://app.prooflayer.io"))
	assert.Nil(t, originPatterns("::not a url"))
}
