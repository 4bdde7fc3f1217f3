// Package admin serves operator endpoints behind the admin token.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	entitlement "prooflayer/internal/entitlement/models"
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

type UserStore interface {
	FindByID(ctx context.Context, userID id.UserID) (*User, error)
}

type Entitlements interface {
	ChangePlan(ctx context.Context, userID id.UserID, p plans.Plan, source string) (*entitlement.Entitlement, error)
}

type Handler struct {
	users        UserStore
	entitlements Entitlements
	logger       *slog.Logger
}

func New(users UserStore, entitlements Entitlements, logger *slog.Logger) *Handler {
	return &Handler{users: users, entitlements: entitlements, logger: logger}
}

// Register mounts /admin routes. The admin token middleware runs upstream.
func (h *Handler) Register(r chi.Router) {
	r.Get("/admin/plans", h.HandlePlans)
	r.Put("/admin/users/{userID}/plan", h.HandleChangePlan)
}

type ChangePlanRequest struct {
	Plan string `json:"plan"`
}

func (r *ChangePlanRequest) Normalize() {
	r.Plan = strings.ToLower(strings.TrimSpace(r.Plan))
}

func (r *ChangePlanRequest) Validate() error {
	_, err := plans.ParsePlan(r.Plan)
	return err
}

func (h *Handler) HandlePlans(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, PlansResponse{Plans: plans.All()})
}

func (h *Handler) HandleChangePlan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[ChangePlanRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	p, _ := plans.ParsePlan(req.Plan)

	u, err := h.users.FindByID(ctx, userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.entitlements.ChangePlan(ctx, userID, p, "admin")
	if err != nil {
		h.logger.ErrorContext(ctx, "admin plan change failed",
			"request_id", requestID,
			"user_id", userID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, UserPlanResponse{
		ID:              u.ID.String(),
		Email:           u.Email,
		Name:            u.Name,
		Plan:            e.Plan,
		SubmissionsUsed: e.SubmissionsUsed,
		PeriodEnd:       e.PeriodEnd,
	})
}
