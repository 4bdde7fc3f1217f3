package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"prooflayer/internal/ratelimit/models"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/audit/publisher"
	auditmemory "prooflayer/pkg/platform/audit/store/memory"
	"prooflayer/pkg/requestcontext"
)

type stubLimiter struct {
	result *models.RateLimitResult
	err    error
}

func (s stubLimiter) CheckIP(context.Context, string, models.EndpointClass) (*models.RateLimitResult, error) {
	return s.result, s.err
}

func serve(m *Middleware) *httptest.ResponseRecorder {
	h := m.RateLimit(models.ClassSubmit)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	req := httptest.NewRequest(http.MethodPost, "/public/forms/x/submissions/text", nil)
	req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "203.0.113.50", "test"))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimit(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("allowed requests carry headers", func(t *testing.T) {
		rr := serve(New(stubLimiter{result: &models.RateLimitResult{Allowed: true, Limit: 10, Remaining: 9}}, logger))
		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Equal(t, "9", rr.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("rejections are 429 and audited", func(t *testing.T) {
		store := auditmemory.NewInMemoryStore()
		m := New(stubLimiter{result: &models.RateLimitResult{Allowed: false, Limit: 10, RetryAfter: 12}}, logger,
			WithAuditPublisher(publisher.NewPublisher(store)))
		rr := serve(m)
		assert.Equal(t, http.StatusTooManyRequests, rr.Code)
		assert.Equal(t, "12", rr.Header().Get("Retry-After"))
		assert.Equal(t, 1, store.Count(audit.EventRateLimitExceeded))
	})

	t.Run("degraded results are flagged", func(t *testing.T) {
		rr := serve(New(stubLimiter{result: &models.RateLimitResult{Allowed: true, Degraded: true}}, logger))
		assert.Equal(t, "degraded", rr.Header().Get("X-RateLimit-Status"))
	})

	t.Run("limiter errors fail open", func(t *testing.T) {
		rr := serve(New(stubLimiter{err: errors.New("boom")}, logger))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("disabled skips the limiter", func(t *testing.T) {
		rr := serve(New(stubLimiter{result: &models.RateLimitResult{Allowed: false}}, logger, WithDisabled(true)))
		assert.Equal(t, http.StatusNoContent, rr.Code)
	})
}

func TestAnonymizeIP(t *testing.T) {
	assert.Equal(t, "203.0.113.0/24", AnonymizeIP("203.0.113.50"))
	assert.Equal(t, "2001:db8:abcd::/48", AnonymizeIP("2001:db8:abcd:12::1"))
	assert.Equal(t, "invalid", AnonymizeIP("unknown"))
}
