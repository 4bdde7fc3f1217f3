// Package router composes module handlers behind the shared middleware
// chain. Nil handlers are skipped so partial deployments and tests can mount
// only what they need.
package router

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	adminhandler "prooflayer/internal/admin"
	authhandler "prooflayer/internal/auth/handler"
	billinghandler "prooflayer/internal/billing/handler"
	entitlementhandler "prooflayer/internal/entitlement/handler"
	formhandler "prooflayer/internal/form/handler"
	"prooflayer/internal/live"
	onboardinghandler "prooflayer/internal/onboarding/handler"
	"prooflayer/internal/platform/metrics"
	ratelimit "prooflayer/internal/ratelimit/models"
	submissionhandler "prooflayer/internal/submission/handler"
	widgethandler "prooflayer/internal/widget/handler"
	workspacehandler "prooflayer/internal/workspace/handler"
	"prooflayer/pkg/platform/httputil"
	adminmw "prooflayer/pkg/platform/middleware/admin"
	authmw "prooflayer/pkg/platform/middleware/auth"
	"prooflayer/pkg/platform/middleware/metadata"
	request "prooflayer/pkg/platform/middleware/request"
	"prooflayer/pkg/platform/middleware/requesttime"
)

// Handlers are the module endpoints to mount.
type Handlers struct {
	Auth         *authhandler.Handler
	Workspaces   *workspacehandler.Handler
	Forms        *formhandler.Handler
	Submissions  *submissionhandler.Handler
	Widgets      *widgethandler.Handler
	Entitlements *entitlementhandler.Handler
	Onboarding   *onboardinghandler.Handler
	Billing      *billinghandler.Handler
	Admin        *adminhandler.Handler
	Live         *live.Handler
}

// RateLimiter yields per-class middleware for public routes.
type RateLimiter interface {
	RateLimit(class ratelimit.EndpointClass) func(http.Handler) http.Handler
}

// Check is a named readiness probe.
type Check func(ctx context.Context) error

type Options struct {
	Logger      *slog.Logger
	Metrics     *metrics.Metrics
	Validator   authmw.JWTValidator
	AdminToken  string
	RateLimiter RateLimiter
	Ready       map[string]Check
}

const readyTimeout = 2 * time.Second

func New(h Handlers, opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Instrument)
	}
	r.Use(request.ContentTypeJSON)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(opts.Ready, logger))
	r.Handle("/metrics", metrics.Handler())

	limit := func(class ratelimit.EndpointClass) []func(http.Handler) http.Handler {
		if opts.RateLimiter == nil {
			return nil
		}
		return []func(http.Handler) http.Handler{opts.RateLimiter.RateLimit(class)}
	}

	// Public surface: signup, hosted forms, intake, widget feeds, billing
	// plans and webhooks.
	r.Group(func(r chi.Router) {
		if h.Auth != nil {
			r.Group(func(r chi.Router) {
				r.Use(limit(ratelimit.ClassAuth)...)
				h.Auth.Register(r)
			})
		}
		if h.Forms != nil {
			r.Group(func(r chi.Router) {
				r.Use(limit(ratelimit.ClassFeed)...)
				h.Forms.RegisterPublic(r)
			})
		}
		if h.Submissions != nil {
			h.Submissions.RegisterPublic(r, limit(ratelimit.ClassSubmit)...)
		}
		if h.Widgets != nil {
			h.Widgets.RegisterPublic(r, limit(ratelimit.ClassFeed)...)
		}
		if h.Billing != nil {
			h.Billing.RegisterPublic(r)
		}
	})

	if opts.Validator != nil {
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAuth(opts.Validator, logger))
			if h.Auth != nil {
				h.Auth.RegisterAuthenticated(r)
			}
			if h.Workspaces != nil {
				h.Workspaces.Register(r)
			}
			if h.Forms != nil {
				h.Forms.Register(r)
			}
			if h.Submissions != nil {
				h.Submissions.Register(r)
			}
			if h.Widgets != nil {
				h.Widgets.Register(r)
			}
			if h.Entitlements != nil {
				h.Entitlements.Register(r)
			}
			if h.Onboarding != nil {
				h.Onboarding.Register(r)
			}
			if h.Billing != nil {
				h.Billing.Register(r)
			}
			if h.Live != nil {
				h.Live.Register(r)
			}
		})
	}

	if h.Admin != nil {
		r.Group(func(r chi.Router) {
			r.Use(adminmw.RequireAdminToken(opts.AdminToken, logger))
			h.Admin.Register(r)
		})
	}

	return r
}

func readiness(checks map[string]Check, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		status := make(map[string]string, len(checks))
		code := http.StatusOK
		for name, check := range checks {
			if err := check(ctx); err != nil {
				logger.WarnContext(ctx, "readiness check failed", "check", name, "error", err)
				status[name] = "down"
				code = http.StatusServiceUnavailable
				continue
			}
			status[name] = "up"
		}
		httputil.WriteJSON(w, code, status)
	}
}
