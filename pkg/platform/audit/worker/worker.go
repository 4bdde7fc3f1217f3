package worker

import (
	"context"
	"log/slog"

	audit "prooflayer/pkg/platform/audit"
)

// Worker consumes audit events from a channel and persists them until the
// channel is closed. Store failures are logged and do not stop the worker.
type Worker struct {
	store  audit.Store
	inbox  <-chan audit.Event
	logger *slog.Logger
}

func NewWorker(store audit.Store, inbox <-chan audit.Event, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run drains the inbox. ctx is passed to the store; it does not stop the
// loop, so closing the inbox is the only way to finish.
func (w *Worker) Run(ctx context.Context) {
	for event := range w.inbox {
		if err := w.store.Append(ctx, event); err != nil {
			w.logger.ErrorContext(ctx, "failed to persist audit event",
				"action", event.Action,
				"request_id", event.RequestID,
				"error", err,
			)
		}
	}
}
