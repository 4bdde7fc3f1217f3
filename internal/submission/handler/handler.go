package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"prooflayer/internal/submission/models"
	"prooflayer/internal/submission/service"
	"prooflayer/internal/submission/store"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

const maxListLimit = 200

type Service interface {
	Intake(ctx context.Context, slug string, draft models.Draft) (*service.Receipt, error)
	List(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, filter store.Filter) ([]*models.Submission, error)
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error)
	Approve(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error)
	Reject(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error)
	Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts moderation endpoints; RequireAuth runs upstream.
func (h *Handler) Register(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/submissions", func(r chi.Router) {
		r.Get("/", h.HandleList)
		r.Get("/{submissionID}", h.HandleGet)
		r.Post("/{submissionID}/approve", h.HandleApprove)
		r.Post("/{submissionID}/reject", h.HandleReject)
		r.Delete("/{submissionID}", h.HandleDelete)
	})
}

// RegisterPublic mounts one intake endpoint per kind behind mw, which is
// where the per-IP submit limiter goes.
func (h *Handler) RegisterPublic(r chi.Router, mw ...func(http.Handler) http.Handler) {
	r.With(mw...).Post("/public/forms/{slug}/submissions/{kind}", h.HandleIntake)
}

func (h *Handler) HandleIntake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "unknown submission endpoint"))
		return
	}
	req, ok := httputil.DecodeAndPrepare[IntakeRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	receipt, err := h.service.Intake(ctx, chi.URLParam(r, "slug"), req.toDraft(kind))
	if err != nil {
		h.logger.WarnContext(ctx, "submission intake failed",
			"request_id", requestID,
			"kind", string(kind),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toIntakeResponse(receipt))
}

type target struct {
	user       id.UserID
	workspace  id.WorkspaceID
	submission id.SubmissionID
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, withSubmission bool) (target, bool) {
	var t target
	t.user = requestcontext.UserID(r.Context())
	if t.user.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return t, false
	}
	var err error
	if t.workspace, err = id.ParseWorkspaceID(chi.URLParam(r, "workspaceID")); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid workspace id"))
		return t, false
	}
	if withSubmission {
		if t.submission, err = id.ParseSubmissionID(chi.URLParam(r, "submissionID")); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid submission id"))
			return t, false
		}
	}
	return t, true
}

func parseFilter(r *http.Request) (store.Filter, error) {
	var f store.Filter
	q := r.URL.Query()
	if v := q.Get("status"); v != "" {
		status, err := models.ParseStatus(v)
		if err != nil {
			return f, err
		}
		f.Status = status
	}
	if v := q.Get("form_id"); v != "" {
		formID, err := id.ParseFormID(v)
		if err != nil {
			return f, dErrors.New(dErrors.CodeBadRequest, "invalid form_id")
		}
		f.FormID = formID
	}
	if v := q.Get("min_rating"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 || n > models.MaxRating {
			return f, dErrors.New(dErrors.CodeBadRequest, "min_rating must be between 0 and 5")
		}
		f.MinRating = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			return f, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 200")
		}
		f.Limit = n
	}
	return f, nil
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, false)
	if !ok {
		return
	}
	filter, err := parseFilter(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.service.List(r.Context(), t.user, t.workspace, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := ListSubmissionsResponse{Submissions: make([]SubmissionResponse, 0, len(list))}
	for _, s := range list {
		resp.Submissions = append(resp.Submissions, toResponse(s))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	s, err := h.service.Get(r.Context(), t.user, t.workspace, t.submission)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Approve)
}

func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, h.service.Reject)
}

type moderateFunc func(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, submissionID id.SubmissionID) (*models.Submission, error)

func (h *Handler) moderate(w http.ResponseWriter, r *http.Request, fn moderateFunc) {
	ctx := r.Context()
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	s, err := fn(ctx, t.user, t.workspace, t.submission)
	if err != nil {
		h.logger.WarnContext(ctx, "moderation failed",
			"request_id", requestcontext.RequestID(ctx),
			"submission_id", t.submission,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(s))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), t.user, t.workspace, t.submission); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
