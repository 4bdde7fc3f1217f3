package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"prooflayer/internal/billing/models"
	"prooflayer/internal/billing/service"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

// HeaderSignature carries the hex HMAC of a webhook body.
const HeaderSignature = "X-Signature"

const maxWebhookBody = 64 << 10

type Service interface {
	Plans() ([]service.PlanOption, error)
	Checkout(ctx context.Context, userID id.UserID, plan, interval string) (*models.Session, error)
	Webhook(ctx context.Context, body []byte, signature string) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts checkout; RequireAuth runs upstream.
func (h *Handler) Register(r chi.Router) {
	r.Post("/billing/checkout", h.HandleCheckout)
}

// RegisterPublic mounts the pricing table and the provider webhook.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/billing/plans", h.HandlePlans)
	r.Post("/billing/webhook", h.HandleWebhook)
}

type CheckoutRequest struct {
	Plan     string `json:"plan"`
	Interval string `json:"interval"`
}

func (r *CheckoutRequest) Normalize() {
	r.Plan = strings.ToLower(strings.TrimSpace(r.Plan))
	r.Interval = strings.ToLower(strings.TrimSpace(r.Interval))
	if r.Interval == "" {
		r.Interval = "monthly"
	}
}

func (r *CheckoutRequest) Validate() error {
	if r.Plan == "" {
		return dErrors.New(dErrors.CodeValidation, "plan is required")
	}
	return nil
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

type PlansResponse struct {
	Plans []service.PlanOption `json:"plans"`
}

func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[CheckoutRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	session, err := h.service.Checkout(ctx, userID, req.Plan, req.Interval)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CheckoutResponse{URL: session.URL})
}

func (h *Handler) HandlePlans(w http.ResponseWriter, _ *http.Request) {
	options, err := h.service.Plans()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, PlansResponse{Plans: options})
}

func (h *Handler) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "webhook body too large"))
			return
		}
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "failed to read webhook body"))
		return
	}
	if err := h.service.Webhook(ctx, body, r.Header.Get(HeaderSignature)); err != nil {
		h.logger.WarnContext(ctx, "billing webhook failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]bool{"received": true})
}
