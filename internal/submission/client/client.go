// Package client submits testimonials to a ProofLayer form the way the
// hosted collection page does: classify the draft, upload any media, then
// post once to the endpoint for that kind.
package client

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

	"prooflayer/internal/submission/models"
	"prooflayer/internal/upload"
	dErrors "prooflayer/pkg/domain-errors"
)

// Draft is a testimonial composed on the client. At most one media file is
// sent; Classify picks which.
type Draft struct {
	AuthorName  string
	AuthorEmail string
	AuthorTitle string
	Rating      int
	Text        string
	Video       *upload.File
	Screenshot  *upload.File
}

func (d Draft) content() models.Content {
	return models.Content{
		Text:          d.Text,
		HasVideo:      d.Video != nil,
		HasScreenshot: d.Screenshot != nil,
	}
}

// Result is the server's acknowledgement.
type Result struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Status   string `json:"status"`
	ThankYou string `json:"thank_you_message"`
}

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	uploader   upload.Uploader
	logger     *slog.Logger
}

func New(cfg Config, uploader upload.Uploader, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		uploader:   uploader,
		logger:     logger,
	}
}

// Submit sends d to the form at slug. Upload progress is reported through
// progress. Failures are returned as-is; the request is never retried.
func (c *Client) Submit(ctx context.Context, slug string, d Draft, progress upload.Progress) (*Result, error) {
	kind, err := models.Classify(d.content())
	if err != nil {
		return nil, err
	}

	body := map[string]any{
		"author_name": d.AuthorName,
		"rating":      d.Rating,
	}
	if d.AuthorEmail != "" {
		body["author_email"] = d.AuthorEmail
	}
	if d.AuthorTitle != "" {
		body["author_title"] = d.AuthorTitle
	}

	switch kind {
	case models.KindText:
		body["text"] = d.Text
	default:
		file := d.Video
		if kind == models.KindScreenshot {
			file = d.Screenshot
		}
		if c.uploader == nil {
			return nil, dErrors.New(dErrors.CodeBadRequest, "media uploads are not configured")
		}
		mediaURL, err := c.uploader.Upload(ctx, kind, *file, progress)
		if err != nil {
			return nil, err
		}
		body["media_url"] = mediaURL
		if d.Text != "" {
			body["text"] = d.Text
		}
	}

	return c.post(ctx, c.baseURL+models.EndpointFor(slug, kind), body)
}

func (c *Client) post(ctx context.Context, url string, body any) (*Result, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp, respBody)
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	c.logger.DebugContext(ctx, "submission accepted", "submission_id", result.ID, "kind", result.Kind)
	return &result, nil
}

// decodeError turns the server's error envelope back into a coded error.
func decodeError(resp *http.Response, body []byte) error {
	var envelope struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || envelope.Error == "" {
		return fmt.Errorf("request failed: %s", resp.Status)
	}
	msg := envelope.ErrorDescription
	if msg == "" {
		msg = resp.Status
	}
	return dErrors.New(dErrors.Code(envelope.Error), msg)
}
