package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"prooflayer/internal/form/models"
	"prooflayer/internal/form/service"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, settings models.Settings) (*models.Form, error)
	List(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) ([]*models.Form, error)
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, formID id.FormID) (*models.Form, error)
	Update(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, formID id.FormID, u models.Update) (*models.Form, error)
	Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, formID id.FormID) error
	Public(ctx context.Context, slug string) (*service.PublicForm, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

// Register mounts the dashboard endpoints; RequireAuth runs upstream.
func (h *Handler) Register(r chi.Router) {
	r.Route("/workspaces/{workspaceID}/forms", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{formID}", h.HandleGet)
		r.Patch("/{formID}", h.HandleUpdate)
		r.Delete("/{formID}", h.HandleDelete)
	})
}

// RegisterPublic mounts the collection page lookup.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/public/forms/{slug}", h.HandlePublic)
}

type target struct {
	user      id.UserID
	workspace id.WorkspaceID
	form      id.FormID
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, withForm bool) (target, bool) {
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
	if withForm {
		if t.form, err = id.ParseFormID(chi.URLParam(r, "formID")); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid form id"))
			return t, false
		}
	}
	return t, true
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	t, ok := h.resolve(w, r, false)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateFormRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	f, err := h.service.Create(ctx, t.user, t.workspace, req.toSettings())
	if err != nil {
		h.logger.WarnContext(ctx, "form create failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(f))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, false)
	if !ok {
		return
	}
	list, err := h.service.List(r.Context(), t.user, t.workspace)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := ListFormsResponse{Forms: make([]FormResponse, 0, len(list))}
	for _, f := range list {
		resp.Forms = append(resp.Forms, toResponse(f))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	f, err := h.service.Get(r.Context(), t.user, t.workspace, t.form)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(f))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateFormRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	f, err := h.service.Update(ctx, t.user, t.workspace, t.form, req.toUpdate())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(f))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), t.user, t.workspace, t.form); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.Public(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toPublicResponse(p))
}
