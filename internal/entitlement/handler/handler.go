package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"prooflayer/internal/entitlement/service"
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

type Service interface {
	Get(ctx context.Context, userID id.UserID) (*service.Summary, error)
}

// Handler exposes the signed-in user's plan and usage.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/entitlement", h.HandleGet)
}

// EntitlementResponse is the body of GET /entitlement.
type EntitlementResponse struct {
	Plan        plans.Plan   `json:"plan"`
	PeriodStart time.Time    `json:"period_start"`
	PeriodEnd   time.Time    `json:"period_end"`
	Used        int          `json:"submissions_used"`
	Remaining   int          `json:"submissions_remaining"`
	Limits      plans.Limits `json:"limits"`
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	sum, err := h.service.Get(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load entitlement",
			"request_id", requestcontext.RequestID(ctx),
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, EntitlementResponse{
		Plan:        sum.Entitlement.Plan,
		PeriodStart: sum.Entitlement.PeriodStart,
		PeriodEnd:   sum.Entitlement.PeriodEnd,
		Used:        sum.Used,
		Remaining:   sum.Remaining,
		Limits:      sum.Limits,
	})
}
