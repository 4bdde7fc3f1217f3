package upload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	submission "prooflayer/internal/submission/models"
	dErrors "prooflayer/pkg/domain-errors"
)

const maxErrorBody = 4 << 10

// HTTPUploader PUTs media to the hosting service at
// {baseURL}/media/{kind}/{uuid}{ext}. The service answers with JSON
// holding the public "url".
type HTTPUploader struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds uploader configuration.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

func NewHTTPUploader(cfg Config) *HTTPUploader {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}
	return &HTTPUploader{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (u *HTTPUploader) Upload(ctx context.Context, kind submission.Kind, f File, progress Progress) (string, error) {
	if err := Validate(kind, f); err != nil {
		return "", err
	}

	target := fmt.Sprintf("%s/media/%s/%s%s", u.baseURL, kind, uuid.NewString(), Extension(f.ContentType))
	body := newProgressReader(io.LimitReader(f.Body, f.Size), f.Size, progress)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, target, body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = f.Size
	req.Header.Set("Content-Type", f.ContentType)
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}
	if f.Name != "" {
		req.Header.Set("X-File-Name", f.Name)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "media upload failed")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", dErrors.New(dErrors.CodeUnavailable,
			fmt.Sprintf("media upload failed: %s", resp.Status))
	}
	hosted := gjson.GetBytes(raw, "url").String()
	if hosted == "" {
		return "", dErrors.New(dErrors.CodeUnavailable, "media upload returned no url")
	}
	return hosted, nil
}
