package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"

	id "prooflayer/pkg/domain"
	audit "prooflayer/pkg/platform/audit"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type flakyStore struct {
	appended []audit.Event
	failOn   string
}

func (s *flakyStore) Append(_ context.Context, e audit.Event) error {
	if e.Action == s.failOn {
		return errors.New("write failed")
	}
	s.appended = append(s.appended, e)
	return nil
}

func (s *flakyStore) ListByUser(context.Context, id.UserID) ([]audit.Event, error) {
	return s.appended, nil
}

func TestWorker_ContinuesPastStoreErrors(t *testing.T) {
	store := &flakyStore{failOn: "bad"}
	inbox := make(chan audit.Event, 3)
	inbox <- audit.Event{Action: "a"}
	inbox <- audit.Event{Action: "bad"}
	inbox <- audit.Event{Action: "b"}
	close(inbox)

	NewWorker(store, inbox, slog.New(slog.NewTextHandler(io.Discard, nil))).Run(context.Background())

	assert.Len(t, store.appended, 2)
	assert.Equal(t, "b", store.appended[1].Action)
}
