package models

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	submission "prooflayer/internal/submission/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	pstrings "prooflayer/pkg/platform/strings"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusActive, StatusArchived:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown form status %q", s))
}

const (
	MaxNameLength     = 64
	MaxHeadlineLength = 120
	MaxPromptLength   = 500
	MaxThankYouLength = 280

	DefaultThankYou = "Thank you for sharing your experience!"
	fallbackSlug    = "form"
)

// Form is a public collection page belonging to a workspace.
//
// Invariants:
//   - Slug is globally unique and never changes after creation
//   - AllowedKinds is non-empty, deduplicated and only holds known kinds
//   - Archived forms do not accept submissions and are not public
type Form struct {
	ID              id.FormID      `json:"id"`
	WorkspaceID     id.WorkspaceID `json:"workspace_id"`
	Name            string         `json:"name"`
	Slug            string         `json:"slug"`
	Headline        string         `json:"headline"`
	Prompt          string         `json:"prompt"`
	CollectRating   bool           `json:"collect_rating"`
	CollectEmail    bool           `json:"collect_email"`
	AllowedKinds    []string       `json:"allowed_kinds"`
	ThankYouMessage string         `json:"thank_you_message"`
	Status          Status         `json:"status"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// Settings are the editable fields of a form.
type Settings struct {
	Name            string
	Headline        string
	Prompt          string
	CollectRating   bool
	CollectEmail    bool
	AllowedKinds    []string
	ThankYouMessage string
}

func checkLength(field, v string, limit int, required bool) error {
	n := utf8.RuneCountInString(v)
	if required && n == 0 {
		return dErrors.New(dErrors.CodeInvariantViolation, field+" is required")
	}
	if n > limit {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("%s must be at most %d characters", field, limit))
	}
	return nil
}

// NormalizeKinds trims, lowercases and deduplicates kinds. An empty list
// becomes text only.
func NormalizeKinds(kinds []string) ([]string, error) {
	kinds = pstrings.NormalizeSet(kinds)
	if len(kinds) == 0 {
		return []string{string(submission.KindText)}, nil
	}
	for _, k := range kinds {
		if !submission.Kind(k).IsValid() {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown submission kind %q", k))
		}
	}
	return kinds, nil
}

func (s *Settings) normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Headline = strings.TrimSpace(s.Headline)
	s.Prompt = strings.TrimSpace(s.Prompt)
	s.ThankYouMessage = strings.TrimSpace(s.ThankYouMessage)
	if s.Headline == "" {
		s.Headline = s.Name
	}
	if s.ThankYouMessage == "" {
		s.ThankYouMessage = DefaultThankYou
	}
	kinds, err := NormalizeKinds(s.AllowedKinds)
	if err != nil {
		return err
	}
	s.AllowedKinds = kinds

	if err := checkLength("name", s.Name, MaxNameLength, true); err != nil {
		return err
	}
	if err := checkLength("headline", s.Headline, MaxHeadlineLength, false); err != nil {
		return err
	}
	if err := checkLength("prompt", s.Prompt, MaxPromptLength, false); err != nil {
		return err
	}
	return checkLength("thank_you_message", s.ThankYouMessage, MaxThankYouLength, false)
}

// SlugFor builds the base public slug from the workspace slug and form name.
func SlugFor(workspaceSlug, name string) string {
	slug := pstrings.Slugify(workspaceSlug + " " + name)
	if slug == "" {
		return fallbackSlug
	}
	return slug
}

func NewForm(formID id.FormID, workspaceID id.WorkspaceID, slug string, s Settings, now time.Time) (*Form, error) {
	if workspaceID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "form requires a workspace")
	}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return &Form{
		ID:              formID,
		WorkspaceID:     workspaceID,
		Name:            s.Name,
		Slug:            slug,
		Headline:        s.Headline,
		Prompt:          s.Prompt,
		CollectRating:   s.CollectRating,
		CollectEmail:    s.CollectEmail,
		AllowedKinds:    s.AllowedKinds,
		ThankYouMessage: s.ThankYouMessage,
		Status:          StatusActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Update is a partial change; nil fields are left alone.
type Update struct {
	Name            *string
	Headline        *string
	Prompt          *string
	CollectRating   *bool
	CollectEmail    *bool
	AllowedKinds    []string
	ThankYouMessage *string
	Status          *Status
}

// Merged returns the settings f would have after u, normalized and validated.
func (f *Form) Merged(u Update) (Settings, error) {
	s := f.Settings()
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Headline != nil {
		s.Headline = *u.Headline
	}
	if u.Prompt != nil {
		s.Prompt = *u.Prompt
	}
	if u.CollectRating != nil {
		s.CollectRating = *u.CollectRating
	}
	if u.CollectEmail != nil {
		s.CollectEmail = *u.CollectEmail
	}
	if u.AllowedKinds != nil {
		s.AllowedKinds = u.AllowedKinds
	}
	if u.ThankYouMessage != nil {
		s.ThankYouMessage = *u.ThankYouMessage
	}
	if err := s.normalize(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (f *Form) Settings() Settings {
	return Settings{
		Name:            f.Name,
		Headline:        f.Headline,
		Prompt:          f.Prompt,
		CollectRating:   f.CollectRating,
		CollectEmail:    f.CollectEmail,
		AllowedKinds:    slices.Clone(f.AllowedKinds),
		ThankYouMessage: f.ThankYouMessage,
	}
}

func (f *Form) ApplySettings(s Settings, status *Status, now time.Time) {
	f.Name = s.Name
	f.Headline = s.Headline
	f.Prompt = s.Prompt
	f.CollectRating = s.CollectRating
	f.CollectEmail = s.CollectEmail
	f.AllowedKinds = s.AllowedKinds
	f.ThankYouMessage = s.ThankYouMessage
	if status != nil {
		f.Status = *status
	}
	f.UpdatedAt = now
}

func (f *Form) IsActive() bool {
	return f.Status == StatusActive
}

// Accepts reports whether the form takes submissions of kind k.
func (f *Form) Accepts(k submission.Kind) bool {
	return f.IsActive() && slices.Contains(f.AllowedKinds, string(k))
}
