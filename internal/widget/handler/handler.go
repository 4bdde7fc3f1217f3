package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"prooflayer/internal/widget/embedcode"
	"prooflayer/internal/widget/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, settings models.Settings) (*models.Widget, error)
	List(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) ([]*models.Widget, error)
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) (*models.Widget, error)
	Update(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID, u models.Update) (*models.Widget, error)
	Delete(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) error
	Embed(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) (string, error)
	Preview(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID, widgetID id.WidgetID) (*embedcode.PreviewData, error)
	Feed(ctx context.Context, widgetID id.WidgetID) (*models.Feed, error)
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
	r.Route("/workspaces/{workspaceID}/widgets", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Get("/{widgetID}", h.HandleGet)
		r.Patch("/{widgetID}", h.HandleUpdate)
		r.Delete("/{widgetID}", h.HandleDelete)
		r.Get("/{widgetID}/embed", h.HandleEmbed)
		r.Get("/{widgetID}/preview", h.HandlePreview)
	})
}

// RegisterPublic mounts the feed read by embedded widgets on customer sites.
func (h *Handler) RegisterPublic(r chi.Router, mw ...func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(openCORS)
		r.Use(mw...)
		r.Get("/public/widgets/{widgetID}/testimonials", h.HandleFeed)
		r.Options("/public/widgets/{widgetID}/testimonials", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNoContent)
		})
	})
}

// openCORS lets any origin read the feed. The feed carries no credentials.
func openCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "3600")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type target struct {
	user      id.UserID
	workspace id.WorkspaceID
	widget    id.WidgetID
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, withWidget bool) (target, bool) {
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
	if withWidget {
		if t.widget, err = id.ParseWidgetID(chi.URLParam(r, "widgetID")); err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid widget id"))
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
	req, ok := httputil.DecodeAndPrepare[CreateWidgetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	wg, err := h.service.Create(ctx, t.user, t.workspace, req.toSettings())
	if err != nil {
		h.logger.WarnContext(ctx, "widget create failed", "request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(wg))
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
	resp := ListWidgetsResponse{Widgets: make([]WidgetResponse, 0, len(list))}
	for _, wg := range list {
		resp.Widgets = append(resp.Widgets, toResponse(wg))
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	wg, err := h.service.Get(r.Context(), t.user, t.workspace, t.widget)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(wg))
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateWidgetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	wg, err := h.service.Update(ctx, t.user, t.workspace, t.widget, req.toUpdate())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(wg))
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), t.user, t.workspace, t.widget); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleEmbed(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	html, err := h.service.Embed(r.Context(), t.user, t.workspace, t.widget)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, EmbedResponse{HTML: html})
}

func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	t, ok := h.resolve(w, r, true)
	if !ok {
		return
	}
	p, err := h.service.Preview(r.Context(), t.user, t.workspace, t.widget)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	templ.Handler(embedcode.Preview(*p)).ServeHTTP(w, r)
}

func (h *Handler) HandleFeed(w http.ResponseWriter, r *http.Request) {
	widgetID, err := id.ParseWidgetID(chi.URLParam(r, "widgetID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "widget not found"))
		return
	}
	feed, err := h.service.Feed(r.Context(), widgetID)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(r.Context(), "widget feed failed", "widget_id", widgetID, "error", err)
		}
		httputil.WriteError(w, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=60")
	httputil.WriteJSON(w, http.StatusOK, feed)
}
