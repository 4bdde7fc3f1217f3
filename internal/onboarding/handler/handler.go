package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"prooflayer/internal/onboarding/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

type Service interface {
	Get(ctx context.Context, userID id.UserID) (*models.Progress, error)
	Complete(ctx context.Context, userID id.UserID, step models.Step) (*models.Progress, error)
	Dismiss(ctx context.Context, userID id.UserID) (*models.Progress, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/onboarding", h.HandleGet)
	r.Post("/onboarding/steps/{step}/complete", h.HandleComplete)
	r.Post("/onboarding/dismiss", h.HandleDismiss)
}

type ProgressResponse struct {
	Completed []models.Step `json:"completed"`
	Current   models.Step   `json:"current,omitempty"`
	Steps     []models.Step `json:"steps"`
	Dismissed bool          `json:"dismissed"`
	Finished  bool          `json:"finished"`
}

func toResponse(p *models.Progress) ProgressResponse {
	return ProgressResponse{
		Completed: p.Completed,
		Current:   p.Current,
		Steps:     models.Steps,
		Dismissed: p.Dismissed,
		Finished:  p.IsFinished(),
	}
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	p, err := h.service.Get(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	step, err := models.ParseStep(chi.URLParam(r, "step"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.service.Complete(r.Context(), userID, step)
	if err != nil {
		h.logger.WarnContext(r.Context(), "onboarding step rejected",
			"request_id", requestcontext.RequestID(r.Context()),
			"step", step,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(p))
}

func (h *Handler) HandleDismiss(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.user(w, r)
	if !ok {
		return
	}
	p, err := h.service.Dismiss(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(p))
}
