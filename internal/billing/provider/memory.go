package provider

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"prooflayer/internal/billing/models"
)

// InMemory hands out sessions pointing at baseURL and keeps every request.
// Used in tests and when no provider is configured.
type InMemory struct {
	mu       sync.Mutex
	baseURL  string
	requests []models.CheckoutRequest
}

func NewInMemory(baseURL string) *InMemory {
	return &InMemory{baseURL: baseURL}
}

func (p *InMemory) CreateSession(_ context.Context, req models.CheckoutRequest) (*models.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests = append(p.requests, req)
	sid := "cs_" + uuid.NewString()
	return &models.Session{SessionID: sid, URL: p.baseURL + "/checkout/" + sid}, nil
}

func (p *InMemory) Requests() []models.CheckoutRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]models.CheckoutRequest(nil), p.requests...)
}
