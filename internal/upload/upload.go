// Package upload sends testimonial media to the hosting service and returns
// the public URL stored on a submission.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"slices"
	"strings"
	"sync/atomic"

	submission "prooflayer/internal/submission/models"
	dErrors "prooflayer/pkg/domain-errors"
)

const (
	MaxVideoBytes      int64 = 200 << 20
	MaxScreenshotBytes int64 = 10 << 20
)

var allowedTypes = map[submission.Kind][]string{
	submission.KindVideo:      {"video/mp4", "video/webm", "video/quicktime"},
	submission.KindScreenshot: {"image/png", "image/jpeg", "image/webp"},
}

// File is a media file waiting to be uploaded. Size must match the number
// of bytes Body yields.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Progress receives the bytes sent so far and the total size.
type Progress func(sent, total int64)

// Uploader stores media and returns its hosted URL.
type Uploader interface {
	Upload(ctx context.Context, kind submission.Kind, f File, progress Progress) (string, error)
}

// Validate checks the media type and size for kind.
func Validate(kind submission.Kind, f File) error {
	types, ok := allowedTypes[kind]
	if !ok {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s submissions have no media", kind))
	}
	mediaType, _, err := mime.ParseMediaType(f.ContentType)
	if err != nil || !slices.Contains(types, strings.ToLower(mediaType)) {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s must be one of %s", kind, strings.Join(types, ", ")))
	}
	if f.Size <= 0 {
		return dErrors.New(dErrors.CodeValidation, "file is empty")
	}
	if limit := MaxBytes(kind); f.Size > limit {
		return dErrors.New(dErrors.CodeValidation,
			fmt.Sprintf("%s exceeds the %d MB limit", kind, limit>>20))
	}
	if f.Body == nil {
		return dErrors.New(dErrors.CodeValidation, "file has no content")
	}
	return nil
}

func MaxBytes(kind submission.Kind) int64 {
	if kind == submission.KindVideo {
		return MaxVideoBytes
	}
	return MaxScreenshotBytes
}

// Extension picks a file extension from the content type.
func Extension(contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch strings.ToLower(mediaType) {
	case "video/mp4":
		return ".mp4"
	case "video/webm":
		return ".webm"
	case "video/quicktime":
		return ".mov"
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	return ""
}

// progressReader reports cumulative bytes read to a Progress callback.
type progressReader struct {
	r        io.Reader
	total    int64
	sent     atomic.Int64
	progress Progress
}

func newProgressReader(r io.Reader, total int64, progress Progress) io.Reader {
	if progress == nil {
		return r
	}
	return &progressReader{r: r, total: total, progress: progress}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.progress(p.sent.Add(int64(n)), p.total)
	}
	return n, err
}
