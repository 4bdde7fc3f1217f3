package models

import (
	"net/url"
	"strings"

	dErrors "prooflayer/pkg/domain-errors"
)

// Content describes what a visitor filled in on the collection page.
type Content struct {
	Text          string
	HasVideo      bool
	HasScreenshot bool
}

// Classify picks the kind a submission is sent as. A video wins over a
// screenshot, and either wins over text.
func Classify(c Content) (Kind, error) {
	switch {
	case c.HasVideo:
		return KindVideo, nil
	case c.HasScreenshot:
		return KindScreenshot, nil
	case strings.TrimSpace(c.Text) != "":
		return KindText, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "a submission needs text, a video or a screenshot")
}

// EndpointFor returns the intake path for a form slug and kind.
func EndpointFor(formSlug string, kind Kind) string {
	return "/public/forms/" + url.PathEscape(formSlug) + "/submissions/" + string(kind)
}
