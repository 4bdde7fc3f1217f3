package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

type Kind string

const (
	KindText       Kind = "text"
	KindVideo      Kind = "video"
	KindScreenshot Kind = "screenshot"
)

// Kinds lists every submission kind in routing priority order.
var Kinds = []Kind{KindVideo, KindScreenshot, KindText}

func (k Kind) String() string { return string(k) }

func (k Kind) IsValid() bool {
	switch k {
	case KindText, KindVideo, KindScreenshot:
		return true
	}
	return false
}

// HasMedia reports whether the kind carries an uploaded file.
func (k Kind) HasMedia() bool {
	return k == KindVideo || k == KindScreenshot
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown submission kind %q", s))
	}
	return k, nil
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown status %q", s))
	}
	return st, nil
}

const (
	MaxRating         = 5
	MaxAuthorName     = 80
	MaxAuthorTitle    = 120
	MaxTextLength     = 2000
	maxEmailLength    = 254
	maxMediaURLLength = 2048
)

// Submission is one testimonial collected through a form.
//
// Invariants:
//   - Kind text carries Text; video and screenshot carry MediaURL
//   - Rating is 0-5 where 0 means not rated
//   - Status starts pending and only moves through CanTransition
//   - ModeratedAt is set once the submission leaves pending
type Submission struct {
	ID          id.SubmissionID `json:"id"`
	FormID      id.FormID       `json:"form_id"`
	WorkspaceID id.WorkspaceID  `json:"workspace_id"`
	Kind        Kind            `json:"kind"`
	AuthorName  string          `json:"author_name"`
	AuthorEmail string          `json:"author_email,omitempty"`
	AuthorTitle string          `json:"author_title,omitempty"`
	Rating      int             `json:"rating"`
	Text        string          `json:"text,omitempty"`
	MediaURL    string          `json:"media_url,omitempty"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	ModeratedAt *time.Time      `json:"moderated_at,omitempty"`
}

// Draft holds the fields a visitor sends to an intake endpoint.
type Draft struct {
	Kind        Kind
	AuthorName  string
	AuthorEmail string
	AuthorTitle string
	Rating      int
	Text        string
	MediaURL    string
}

// Normalize trims every free-text field and lowercases the email.
func (d *Draft) Normalize() {
	d.AuthorName = strings.TrimSpace(d.AuthorName)
	d.AuthorEmail = strings.ToLower(strings.TrimSpace(d.AuthorEmail))
	d.AuthorTitle = strings.TrimSpace(d.AuthorTitle)
	d.Text = strings.TrimSpace(d.Text)
	d.MediaURL = strings.TrimSpace(d.MediaURL)
}

func (d Draft) Validate() error {
	if !d.Kind.IsValid() {
		return dErrors.New(dErrors.CodeValidation, "submission kind is required")
	}
	if n := utf8.RuneCountInString(d.AuthorName); n == 0 || n > MaxAuthorName {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("author_name must be 1-%d characters", MaxAuthorName))
	}
	if utf8.RuneCountInString(d.AuthorTitle) > MaxAuthorTitle {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("author_title must be at most %d characters", MaxAuthorTitle))
	}
	if d.AuthorEmail != "" && (len(d.AuthorEmail) > maxEmailLength || !govalidator.IsEmail(d.AuthorEmail)) {
		return dErrors.New(dErrors.CodeValidation, "author_email is not a valid email address")
	}
	if d.Rating < 0 || d.Rating > MaxRating {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("rating must be between 0 and %d", MaxRating))
	}
	if utf8.RuneCountInString(d.Text) > MaxTextLength {
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("text must be at most %d characters", MaxTextLength))
	}
	if d.Kind.HasMedia() {
		if d.MediaURL == "" || len(d.MediaURL) > maxMediaURLLength || !govalidator.IsRequestURL(d.MediaURL) {
			return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("%s submissions need a media_url", d.Kind))
		}
		return nil
	}
	if d.Text == "" {
		return dErrors.New(dErrors.CodeValidation, "text is required")
	}
	if d.MediaURL != "" {
		return dErrors.New(dErrors.CodeValidation, "text submissions do not take a media_url")
	}
	return nil
}

func NewSubmission(submissionID id.SubmissionID, formID id.FormID, workspaceID id.WorkspaceID, d Draft, now time.Time) (*Submission, error) {
	d.Normalize()
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &Submission{
		ID:          submissionID,
		FormID:      formID,
		WorkspaceID: workspaceID,
		Kind:        d.Kind,
		AuthorName:  d.AuthorName,
		AuthorEmail: d.AuthorEmail,
		AuthorTitle: d.AuthorTitle,
		Rating:      d.Rating,
		Text:        d.Text,
		MediaURL:    d.MediaURL,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanTransition checks a moderation decision. Pending can move to approved or
// rejected, and a moderated submission can flip between the two.
func (s *Submission) CanTransition(to Status) error {
	switch {
	case to == StatusPending:
		return dErrors.New(dErrors.CodeInvariantViolation, "submissions cannot return to pending")
	case !to.IsValid():
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown status %q", to))
	case s.Status == to:
		return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("submission is already %s", to))
	}
	return nil
}

func (s *Submission) ApplyTransition(to Status, now time.Time) {
	s.Status = to
	s.UpdatedAt = now
	s.ModeratedAt = &now
}

// IsPublishable reports whether a widget may show the submission.
func (s *Submission) IsPublishable(minRating int) bool {
	if s.Status != StatusApproved {
		return false
	}
	return minRating == 0 || s.Rating >= minRating
}
