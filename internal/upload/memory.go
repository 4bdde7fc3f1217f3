package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	submission "prooflayer/internal/submission/models"
)

// InMemory keeps uploaded media in process and serves them under baseURL.
type InMemory struct {
	mu      sync.Mutex
	baseURL string
	files   map[string][]byte
}

func NewInMemory(baseURL string) *InMemory {
	return &InMemory{baseURL: baseURL, files: make(map[string][]byte)}
}

func (m *InMemory) Upload(ctx context.Context, kind submission.Kind, f File, progress Progress) (string, error) {
	if err := Validate(kind, f); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, newProgressReader(io.LimitReader(f.Body, f.Size), f.Size, progress)); err != nil {
		return "", fmt.Errorf("read media: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	url := fmt.Sprintf("%s/media/%s/%s%s", m.baseURL, kind, uuid.NewString(), Extension(f.ContentType))

	m.mu.Lock()
	m.files[url] = buf.Bytes()
	m.mu.Unlock()
	return url, nil
}

// Get returns the bytes stored under url.
func (m *InMemory) Get(url string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.files[url]
	return b, ok
}
