// Package provider talks to the hosted checkout service.
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"prooflayer/internal/billing/models"
	dErrors "prooflayer/pkg/domain-errors"
	"prooflayer/pkg/platform/circuit"
)

const maxResponseBody = 16 << 10

type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// HTTPProvider creates sessions with POST {baseURL}/v1/checkout/sessions.
// Transport errors and 5xx answers count against the breaker; while it is
// open calls fail fast until a probe is allowed.
type HTTPProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	breaker    *circuit.Breaker
	logger     *slog.Logger
}

type Option func(*HTTPProvider)

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *HTTPProvider) { p.breaker = b }
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *HTTPProvider) { p.logger = logger }
}

func NewHTTP(cfg Config, opts ...Option) *HTTPProvider {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	p := &HTTPProvider{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		breaker:    circuit.New("checkout", circuit.WithCooldown(30*time.Second)),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type sessionRequest struct {
	ClientReference string `json:"client_reference_id"`
	Plan            string `json:"plan"`
	Interval        string `json:"interval"`
	AmountCents     int64  `json:"amount_cents"`
	Currency        string `json:"currency"`
	SuccessURL      string `json:"success_url"`
	CancelURL       string `json:"cancel_url"`
}

func (p *HTTPProvider) CreateSession(ctx context.Context, req models.CheckoutRequest) (*models.Session, error) {
	if !p.breaker.Allow(time.Now()) {
		return nil, dErrors.New(dErrors.CodeUnavailable, "checkout provider unavailable")
	}

	body, err := json.Marshal(sessionRequest{
		ClientReference: req.UserID.String(),
		Plan:            string(req.Plan),
		Interval:        string(req.Interval),
		AmountCents:     req.AmountCents,
		Currency:        "usd",
		SuccessURL:      req.SuccessURL,
		CancelURL:       req.CancelURL,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/checkout/sessions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.failed(ctx, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "checkout provider unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		p.failed(ctx, err)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "checkout provider response unreadable")
	}
	if resp.StatusCode >= 500 {
		p.failed(ctx, fmt.Errorf("status %d", resp.StatusCode))
		return nil, dErrors.New(dErrors.CodeUnavailable, fmt.Sprintf("checkout provider failed: %s", resp.Status))
	}
	p.succeeded(ctx)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		p.logger.ErrorContext(ctx, "checkout provider rejected session",
			"status", resp.StatusCode,
			"error", gjson.GetBytes(raw, "error.message").String(),
		)
		return nil, dErrors.New(dErrors.CodeInternal, "checkout provider rejected the request")
	}

	parsed := gjson.GetManyBytes(raw, "id", "url")
	if parsed[0].String() == "" || parsed[1].String() == "" {
		return nil, dErrors.New(dErrors.CodeUnavailable, "checkout provider returned an incomplete session")
	}
	return &models.Session{SessionID: parsed[0].String(), URL: parsed[1].String()}, nil
}

func (p *HTTPProvider) failed(ctx context.Context, err error) {
	if _, change := p.breaker.RecordFailure(); change.Opened {
		p.logger.WarnContext(ctx, "checkout provider failing, breaker open", "breaker", p.breaker.Name(), "error", err)
	}
}

func (p *HTTPProvider) succeeded(ctx context.Context) {
	if _, change := p.breaker.RecordSuccess(); change.Closed {
		p.logger.InfoContext(ctx, "checkout provider recovered", "breaker", p.breaker.Name())
	}
}
