package handler

import (
	"strings"
	"time"

	"prooflayer/internal/widget/models"
	dErrors "prooflayer/pkg/domain-errors"
)

type CreateWidgetRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Layout       string `json:"layout"`
	Theme        string `json:"theme"`
	MaxItems     int    `json:"max_items"`
	MinRating    int    `json:"min_rating"`
	ShowRatings  *bool  `json:"show_ratings"`
	ShowDates    bool   `json:"show_dates"`
	Autoplay     bool   `json:"autoplay"`
	HideBranding bool   `json:"hide_branding"`
	AccentColor  string `json:"accent_color"`
}

func (r *CreateWidgetRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Type = strings.ToLower(strings.TrimSpace(r.Type))
	r.Layout = strings.ToLower(strings.TrimSpace(r.Layout))
	r.Theme = strings.ToLower(strings.TrimSpace(r.Theme))
}

func (r *CreateWidgetRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}

// toSettings shows ratings unless the caller opts out.
func (r *CreateWidgetRequest) toSettings() models.Settings {
	showRatings := true
	if r.ShowRatings != nil {
		showRatings = *r.ShowRatings
	}
	return models.Settings{
		Name:         r.Name,
		Type:         models.Type(r.Type),
		Layout:       models.Layout(r.Layout),
		Theme:        models.Theme(r.Theme),
		MaxItems:     r.MaxItems,
		MinRating:    r.MinRating,
		ShowRatings:  showRatings,
		ShowDates:    r.ShowDates,
		Autoplay:     r.Autoplay,
		HideBranding: r.HideBranding,
		AccentColor:  r.AccentColor,
	}
}

type UpdateWidgetRequest struct {
	Name         *string `json:"name"`
	Type         *string `json:"type"`
	Layout       *string `json:"layout"`
	Theme        *string `json:"theme"`
	MaxItems     *int    `json:"max_items"`
	MinRating    *int    `json:"min_rating"`
	ShowRatings  *bool   `json:"show_ratings"`
	ShowDates    *bool   `json:"show_dates"`
	Autoplay     *bool   `json:"autoplay"`
	HideBranding *bool   `json:"hide_branding"`
	AccentColor  *string `json:"accent_color"`
}

func (r *UpdateWidgetRequest) toUpdate() models.Update {
	u := models.Update{
		Name:         r.Name,
		MaxItems:     r.MaxItems,
		MinRating:    r.MinRating,
		ShowRatings:  r.ShowRatings,
		ShowDates:    r.ShowDates,
		Autoplay:     r.Autoplay,
		HideBranding: r.HideBranding,
		AccentColor:  r.AccentColor,
	}
	if r.Type != nil {
		t := models.Type(strings.ToLower(*r.Type))
		u.Type = &t
	}
	if r.Layout != nil {
		l := models.Layout(strings.ToLower(*r.Layout))
		u.Layout = &l
	}
	if r.Theme != nil {
		t := models.Theme(strings.ToLower(*r.Theme))
		u.Theme = &t
	}
	return u
}

type WidgetResponse struct {
	ID           string    `json:"id"`
	WorkspaceID  string    `json:"workspace_id"`
	Name         string    `json:"name"`
	Type         string    `json:"type"`
	Layout       string    `json:"layout"`
	Theme        string    `json:"theme"`
	MaxItems     int       `json:"max_items"`
	MinRating    int       `json:"min_rating"`
	ShowRatings  bool      `json:"show_ratings"`
	ShowDates    bool      `json:"show_dates"`
	Autoplay     bool      `json:"autoplay"`
	HideBranding bool      `json:"hide_branding"`
	AccentColor  string    `json:"accent_color"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ListWidgetsResponse struct {
	Widgets []WidgetResponse `json:"widgets"`
}

type EmbedResponse struct {
	HTML string `json:"html"`
}

func toResponse(w *models.Widget) WidgetResponse {
	return WidgetResponse{
		ID:           w.ID.String(),
		WorkspaceID:  w.WorkspaceID.String(),
		Name:         w.Name,
		Type:         string(w.Type),
		Layout:       string(w.Layout),
		Theme:        string(w.Theme),
		MaxItems:     w.MaxItems,
		MinRating:    w.MinRating,
		ShowRatings:  w.ShowRatings,
		ShowDates:    w.ShowDates,
		Autoplay:     w.Autoplay,
		HideBranding: w.HideBranding,
		AccentColor:  w.AccentColor,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}
