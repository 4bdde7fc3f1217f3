package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	workspace "prooflayer/internal/workspace/models"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

type Type string

const (
	TypeWall     Type = "wall"
	TypeCarousel Type = "carousel"
	TypeSingle   Type = "single"
	TypeBadge    Type = "badge"
	TypePopup    Type = "popup"
)

func (t Type) IsValid() bool {
	switch t {
	case TypeWall, TypeCarousel, TypeSingle, TypeBadge, TypePopup:
		return true
	}
	return false
}

type Layout string

const (
	LayoutGrid    Layout = "grid"
	LayoutMasonry Layout = "masonry"
	LayoutList    Layout = "list"
	LayoutSlider  Layout = "slider"
)

func (l Layout) IsValid() bool {
	switch l {
	case LayoutGrid, LayoutMasonry, LayoutList, LayoutSlider:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

func (t Theme) IsValid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeAuto:
		return true
	}
	return false
}

const (
	MaxNameLength   = 64
	MinItems        = 1
	MaxItems        = 50
	DefaultMaxItems = 10
	MaxRating       = 5
)

// Widget is an embeddable display of a workspace's approved testimonials.
//
// Invariants:
//   - Type, Layout and Theme are known values
//   - MaxItems is 1-50 and MinRating is 0-5, 0 meaning no rating filter
//   - AccentColor is empty or #RRGGBB
//   - WorkspaceID never changes
type Widget struct {
	ID           id.WidgetID    `json:"id"`
	WorkspaceID  id.WorkspaceID `json:"workspace_id"`
	Name         string         `json:"name"`
	Type         Type           `json:"type"`
	Layout       Layout         `json:"layout"`
	Theme        Theme          `json:"theme"`
	MaxItems     int            `json:"max_items"`
	MinRating    int            `json:"min_rating"`
	ShowRatings  bool           `json:"show_ratings"`
	ShowDates    bool           `json:"show_dates"`
	Autoplay     bool           `json:"autoplay"`
	HideBranding bool           `json:"hide_branding"`
	AccentColor  string         `json:"accent_color"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// Settings are the user-editable fields of a widget.
type Settings struct {
	Name         string
	Type         Type
	Layout       Layout
	Theme        Theme
	MaxItems     int
	MinRating    int
	ShowRatings  bool
	ShowDates    bool
	Autoplay     bool
	HideBranding bool
	AccentColor  string
}

// normalize fills defaults and checks every field.
func (s *Settings) normalize() error {
	s.Name = strings.TrimSpace(s.Name)
	s.AccentColor = strings.TrimSpace(s.AccentColor)
	if s.Type == "" {
		s.Type = TypeWall
	}
	if s.Layout == "" {
		s.Layout = LayoutGrid
	}
	if s.Theme == "" {
		s.Theme = ThemeLight
	}
	if s.MaxItems == 0 {
		s.MaxItems = DefaultMaxItems
	}

	if n := utf8.RuneCountInString(s.Name); n == 0 || n > MaxNameLength {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("widget name must be 1-%d characters", MaxNameLength))
	}
	if !s.Type.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown widget type %q", s.Type))
	}
	if !s.Layout.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown layout %q", s.Layout))
	}
	if !s.Theme.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown theme %q", s.Theme))
	}
	if s.MaxItems < MinItems || s.MaxItems > MaxItems {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("max_items must be between %d and %d", MinItems, MaxItems))
	}
	if s.MinRating < 0 || s.MinRating > MaxRating {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("min_rating must be between 0 and %d", MaxRating))
	}
	return workspace.ValidateHexColor("accent_color", s.AccentColor)
}

func NewWidget(widgetID id.WidgetID, workspaceID id.WorkspaceID, s Settings, now time.Time) (*Widget, error) {
	if err := s.normalize(); err != nil {
		return nil, err
	}
	w := &Widget{ID: widgetID, WorkspaceID: workspaceID, CreatedAt: now}
	w.ApplySettings(s, now)
	return w, nil
}

func (w *Widget) Settings() Settings {
	return Settings{
		Name:         w.Name,
		Type:         w.Type,
		Layout:       w.Layout,
		Theme:        w.Theme,
		MaxItems:     w.MaxItems,
		MinRating:    w.MinRating,
		ShowRatings:  w.ShowRatings,
		ShowDates:    w.ShowDates,
		Autoplay:     w.Autoplay,
		HideBranding: w.HideBranding,
		AccentColor:  w.AccentColor,
	}
}

// Update is a partial change; nil fields are left alone.
type Update struct {
	Name         *string
	Type         *Type
	Layout       *Layout
	Theme        *Theme
	MaxItems     *int
	MinRating    *int
	ShowRatings  *bool
	ShowDates    *bool
	Autoplay     *bool
	HideBranding *bool
	AccentColor  *string
}

// Merged returns the widget's settings with u applied and validated.
func (w *Widget) Merged(u Update) (Settings, error) {
	s := w.Settings()
	if u.Name != nil {
		s.Name = *u.Name
	}
	if u.Type != nil {
		s.Type = *u.Type
	}
	if u.Layout != nil {
		s.Layout = *u.Layout
	}
	if u.Theme != nil {
		s.Theme = *u.Theme
	}
	if u.MaxItems != nil {
		s.MaxItems = *u.MaxItems
		if s.MaxItems == 0 {
			return s, dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("max_items must be between %d and %d", MinItems, MaxItems))
		}
	}
	if u.MinRating != nil {
		s.MinRating = *u.MinRating
	}
	if u.ShowRatings != nil {
		s.ShowRatings = *u.ShowRatings
	}
	if u.ShowDates != nil {
		s.ShowDates = *u.ShowDates
	}
	if u.Autoplay != nil {
		s.Autoplay = *u.Autoplay
	}
	if u.HideBranding != nil {
		s.HideBranding = *u.HideBranding
	}
	if u.AccentColor != nil {
		s.AccentColor = *u.AccentColor
	}
	if err := s.normalize(); err != nil {
		return s, err
	}
	return s, nil
}

func (w *Widget) ApplySettings(s Settings, now time.Time) {
	w.Name = s.Name
	w.Type = s.Type
	w.Layout = s.Layout
	w.Theme = s.Theme
	w.MaxItems = s.MaxItems
	w.MinRating = s.MinRating
	w.ShowRatings = s.ShowRatings
	w.ShowDates = s.ShowDates
	w.Autoplay = s.Autoplay
	w.HideBranding = s.HideBranding
	w.AccentColor = s.AccentColor
	w.UpdatedAt = now
}
