package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prooflayer/internal/upload"
	dErrors "prooflayer/pkg/domain-errors"
)

type recorder struct {
	calls atomic.Int32
	path  string
	body  map[string]any
}

func server(t *testing.T, rec *recorder, status int, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.calls.Add(1)
		rec.path = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&rec.body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubmitText(t *testing.T) {
	rec := &recorder{}
	srv := server(t, rec, http.StatusCreated, `{"id":"s1","kind":"text","status":"pending","thank_you_message":"Thanks!"}`)

	res, err := New(Config{BaseURL: srv.URL}, nil, nil).Submit(context.Background(), "acme-reviews", Draft{
		AuthorName: "Ana", Rating: 5, Text: "Great",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Thanks!", res.ThankYou)
	assert.Equal(t, "/public/forms/acme-reviews/submissions/text", rec.path)
	assert.Equal(t, "Great", rec.body["text"])
	assert.NotContains(t, rec.body, "media_url")
}

func TestSubmitVideoUploadsFirst(t *testing.T) {
	rec := &recorder{}
	srv := server(t, rec, http.StatusCreated, `{"id":"s2","kind":"video","status":"pending"}`)
	media := upload.NewInMemory("https://media.test")

	var last int64
	res, err := New(Config{BaseURL: srv.URL}, media, nil).Submit(context.Background(), "acme-reviews", Draft{
		AuthorName: "Ana",
		Text:       "ignored for routing",
		Video:      &upload.File{Name: "a.mp4", ContentType: "video/mp4", Size: 4, Body: strings.NewReader("abcd")},
		Screenshot: &upload.File{Name: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")},
	}, func(sent, _ int64) { last = sent })
	require.NoError(t, err)
	assert.Equal(t, "video", res.Kind)
	assert.Equal(t, int64(4), last)
	assert.Equal(t, "/public/forms/acme-reviews/submissions/video", rec.path)
	url, _ := rec.body["media_url"].(string)
	assert.True(t, strings.HasPrefix(url, "https://media.test/media/video/"))
}

func TestSubmitDoesNotRetry(t *testing.T) {
	rec := &recorder{}
	srv := server(t, rec, http.StatusPaymentRequired, `{"error":"plan_limit_reached","error_description":"monthly submission limit reached"}`)

	_, err := New(Config{BaseURL: srv.URL}, nil, nil).Submit(context.Background(), "acme", Draft{AuthorName: "Ana", Text: "hi"}, nil)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodePlanLimit))
	assert.Equal(t, int32(1), rec.calls.Load())
}

func TestSubmitEmptyDraft(t *testing.T) {
	rec := &recorder{}
	srv := server(t, rec, http.StatusCreated, `{}`)

	_, err := New(Config{BaseURL: srv.URL}, nil, nil).Submit(context.Background(), "acme", Draft{AuthorName: "Ana", Text: "  "}, nil)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Zero(t, rec.calls.Load())
}
