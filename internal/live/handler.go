package live

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/go-chi/chi/v5"

	workspace "prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/httputil"
	"prooflayer/pkg/requestcontext"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

// Workspaces checks that the caller owns the workspace being watched.
type Workspaces interface {
	Get(ctx context.Context, userID id.UserID, workspaceID id.WorkspaceID) (*workspace.Workspace, error)
}

type Handler struct {
	hub        *Hub
	workspaces Workspaces
	origins    []string
	logger     *slog.Logger
}

// NewHandler builds the websocket endpoint. origins lists the host patterns
// allowed to connect cross-origin; same-origin requests are always allowed.
func NewHandler(hub *Hub, workspaces Workspaces, origins []string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{hub: hub, workspaces: workspaces, origins: origins, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/workspaces/{workspaceID}/live", h.HandleLive)
}

func (h *Handler) HandleLive(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	workspaceID, err := id.ParseWorkspaceID(chi.URLParam(r, "workspaceID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid workspace id"))
		return
	}
	if _, err := h.workspaces.Get(ctx, userID, workspaceID); err != nil {
		httputil.WriteError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		h.logger.WarnContext(ctx, "websocket upgrade failed", "error", err, "request_id", requestcontext.RequestID(ctx))
		return
	}
	defer conn.CloseNow()

	sub := h.hub.Subscribe(workspaceID)
	defer sub.Close()

	h.stream(conn.CloseRead(ctx), conn, sub)
}

func (h *Handler) stream(ctx context.Context, conn *websocket.Conn, sub *Subscription) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				_ = conn.Close(websocket.StatusPolicyViolation, "subscriber too slow")
				return
			}
			if err := write(ctx, conn, ev); err != nil {
				if !errors.Is(err, context.Canceled) {
					h.logger.DebugContext(ctx, "live write failed", "error", err)
				}
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, ev Event) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return wsjson.Write(ctx, conn, ev)
}
