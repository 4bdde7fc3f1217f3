package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"prooflayer/internal/workspace/models"
	"prooflayer/internal/workspace/service"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, ownerID id.UserID, in service.CreateInput) (*models.Workspace, error)
	List(ctx context.Context, ownerID id.UserID) ([]*models.Workspace, error)
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) (*models.Workspace, error)
	Update(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, u models.Update) (*models.Workspace, error)
	Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) error
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(svc Service, logger *slog.Logger) *Handler {
	return &Handler{service: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/workspaces", h.HandleCreate)
	r.Get("/workspaces", h.HandleList)
	r.Get("/workspaces/{workspaceID}", h.HandleGet)
	r.Patch("/workspaces/{workspaceID}", h.HandleUpdate)
	r.Delete("/workspaces/{workspaceID}", h.HandleDelete)
}

// target resolves the signed-in user and the workspace path parameter.
func (h *Handler) target(w http.ResponseWriter, r *http.Request) (id.UserID, id.WorkspaceID, bool) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return id.UserID{}, id.WorkspaceID{}, false
	}
	workspaceID, err := id.ParseWorkspaceID(chi.URLParam(r, "workspaceID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid workspace id"))
		return id.UserID{}, id.WorkspaceID{}, false
	}
	return userID, workspaceID, true
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[CreateWorkspaceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ws, err := h.service.Create(ctx, userID, service.CreateInput{
		Name:       req.Name,
		BrandColor: req.BrandColor,
		LogoURL:    req.LogoURL,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "workspace create failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(ws))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID := requestcontext.UserID(r.Context())
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	list, err := h.service.List(r.Context(), userID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	resp := ListWorkspacesResponse{Workspaces: make([]WorkspaceResponse, 0, len(list))}
	for _, ws := range list {
		resp.Workspaces = append(resp.Workspaces, toResponse(ws))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, workspaceID, ok := h.target(w, r)
	if !ok {
		return
	}
	ws, err := h.service.Get(r.Context(), userID, workspaceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(ws))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, workspaceID, ok := h.target(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[UpdateWorkspaceRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	ws, err := h.service.Update(ctx, userID, workspaceID, req.toUpdate())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(ws))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, workspaceID, ok := h.target(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), userID, workspaceID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
