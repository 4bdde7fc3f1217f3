package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"strconv"

	"prooflayer/internal/ratelimit/models"
	audit "prooflayer/pkg/platform/audit"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

type RateLimiter interface {
	CheckIP(ctx context.Context, ip string, class models.EndpointClass) (*models.RateLimitResult, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Middleware struct {
	limiter        RateLimiter
	logger         *slog.Logger
	auditPublisher AuditPublisher
	disabled       bool
}

type Option func(*Middleware)

// WithDisabled turns every limit into a no-op, for demos and load tests.
func WithDisabled(disabled bool) Option {
	return func(m *Middleware) { m.disabled = disabled }
}

func WithAuditPublisher(p AuditPublisher) Option {
	return func(m *Middleware) { m.auditPublisher = p }
}

func New(limiter RateLimiter, logger *slog.Logger, opts ...Option) *Middleware {
	m := &Middleware{limiter: limiter, logger: logger}
	for _, opt := range opts {
		opt(m)
	}
	if m.disabled {
		logger.Info("rate limiting disabled")
	}
	return m
}

// RateLimit limits requests per client IP for the given class. Limiter
// errors let the request through.
func (m *Middleware) RateLimit(class models.EndpointClass) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if m.disabled {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			ip := requestcontext.ClientIP(ctx)

			result, err := m.limiter.CheckIP(ctx, ip, class)
			if err != nil {
				m.logger.ErrorContext(ctx, "failed to check IP rate limit", "error", err, "ip_prefix", AnonymizeIP(ip))
				next.ServeHTTP(w, r)
				return
			}

			addRateLimitHeaders(w, result)
			if !result.Allowed {
				m.rejected(ctx, ip, class)
				writeRateLimitExceeded(w, result)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m *Middleware) rejected(ctx context.Context, ip string, class models.EndpointClass) {
	m.logger.WarnContext(ctx, string(audit.EventRateLimitExceeded),
		"event", string(audit.EventRateLimitExceeded),
		"class", class,
		"ip_prefix", AnonymizeIP(ip),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if m.auditPublisher == nil {
		return
	}
	_ = m.auditPublisher.Emit(ctx, audit.Event{
		Subject: "ip:" + AnonymizeIP(ip),
		Action:  string(audit.EventRateLimitExceeded),
		Reason:  string(class),
	})
}

func addRateLimitHeaders(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
	if result.Degraded {
		w.Header().Set("X-RateLimit-Status", "degraded")
	}
}

func writeRateLimitExceeded(w http.ResponseWriter, result *models.RateLimitResult) {
	w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfter))
	httputil.WriteJSON(w, http.StatusTooManyRequests, &models.RateLimitExceededResponse{
		Error:      "rate_limit_exceeded",
		Message:    "Too many requests from this IP address. Please try again later.",
		RetryAfter: result.RetryAfter,
	})
}

// AnonymizeIP keeps the /24 of an IPv4 address or the /48 of an IPv6
// address so logs never hold a full client address.
func AnonymizeIP(ip string) string {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return "invalid"
	}
	bits := 24
	if addr.Is6() && !addr.Is4In6() {
		bits = 48
	}
	prefix, err := addr.Unmap().Prefix(bits)
	if err != nil {
		return "invalid"
	}
	return prefix.String()
}
