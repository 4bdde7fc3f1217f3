package models

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/asaskevich/govalidator"

	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
	pstrings "prooflayer/pkg/platform/strings"
)

const (
	MaxNameLength = 64
	fallbackSlug  = "workspace"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Workspace is the tenant boundary for forms, submissions and widgets.
//
// Invariants:
//   - Name is 1-64 characters after trimming
//   - Slug is derived from Name and unique per owner
//   - BrandColor is empty or #RRGGBB; LogoURL is empty or an absolute URL
//   - OwnerID never changes
type Workspace struct {
	ID         id.WorkspaceID `json:"id"`
	OwnerID    id.UserID      `json:"owner_id"`
	Name       string         `json:"name"`
	Slug       string         `json:"slug"`
	BrandColor string         `json:"brand_color"`
	LogoURL    string         `json:"logo_url"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func ValidateName(name string) error {
	n := utf8.RuneCountInString(name)
	if n == 0 || n > MaxNameLength {
		return dErrors.New(dErrors.CodeInvariantViolation, "workspace name must be 1-64 characters")
	}
	return nil
}

// ValidateHexColor accepts "" or #RRGGBB.
func ValidateHexColor(field, c string) error {
	if c != "" && !hexColor.MatchString(c) {
		return dErrors.New(dErrors.CodeInvariantViolation, field+" must be a #RRGGBB color")
	}
	return nil
}

func ValidateURL(field, u string) error {
	if u != "" && !govalidator.IsRequestURL(u) {
		return dErrors.New(dErrors.CodeInvariantViolation, field+" must be an absolute URL")
	}
	return nil
}

// SlugFor derives the base slug for a workspace name.
func SlugFor(name string) string {
	if slug := pstrings.Slugify(name); slug != "" {
		return slug
	}
	return fallbackSlug
}

func NewWorkspace(workspaceID id.WorkspaceID, ownerID id.UserID, name, brandColor, logoURL string, now time.Time) (*Workspace, error) {
	name = strings.TrimSpace(name)
	if ownerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "workspace requires an owner")
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidateHexColor("brand_color", brandColor); err != nil {
		return nil, err
	}
	if err := ValidateURL("logo_url", logoURL); err != nil {
		return nil, err
	}
	return &Workspace{
		ID:         workspaceID,
		OwnerID:    ownerID,
		Name:       name,
		Slug:       SlugFor(name),
		BrandColor: strings.ToLower(brandColor),
		LogoURL:    logoURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Update is a partial change; nil fields are left alone.
type Update struct {
	Name       *string
	BrandColor *string
	LogoURL    *string
}

func (w *Workspace) CanUpdate(u Update) error {
	if u.Name != nil {
		if err := ValidateName(strings.TrimSpace(*u.Name)); err != nil {
			return err
		}
	}
	if u.BrandColor != nil {
		if err := ValidateHexColor("brand_color", *u.BrandColor); err != nil {
			return err
		}
	}
	if u.LogoURL != nil {
		if err := ValidateURL("logo_url", *u.LogoURL); err != nil {
			return err
		}
	}
	return nil
}

// ApplyUpdate applies u. Renaming keeps the slug so published links stay valid.
func (w *Workspace) ApplyUpdate(u Update, now time.Time) {
	if u.Name != nil {
		w.Name = strings.TrimSpace(*u.Name)
	}
	if u.BrandColor != nil {
		w.BrandColor = strings.ToLower(*u.BrandColor)
	}
	if u.LogoURL != nil {
		w.LogoURL = *u.LogoURL
	}
	w.UpdatedAt = now
}

// IsOwnedBy reports whether userID owns the workspace.
func (w *Workspace) IsOwnedBy(userID id.UserID) bool {
	return w.OwnerID == userID
}
