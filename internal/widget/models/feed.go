package models

import (
	"time"

	submission "prooflayer/internal/submission/models"
)

// Feed is the public payload a widget script renders.
type Feed struct {
	Widget       FeedWidget    `json:"widget"`
	Branding     Branding      `json:"branding"`
	Testimonials []Testimonial `json:"testimonials"`
}

type FeedWidget struct {
	ID          string `json:"id"`
	Type        Type   `json:"type"`
	Layout      Layout `json:"layout"`
	Theme       Theme  `json:"theme"`
	ShowRatings bool   `json:"show_ratings"`
	ShowDates   bool   `json:"show_dates"`
	Autoplay    bool   `json:"autoplay"`
	AccentColor string `json:"accent_color,omitempty"`
}

// Branding carries the workspace look and whether the "Powered by" badge shows.
type Branding struct {
	WorkspaceName string `json:"workspace_name"`
	BrandColor    string `json:"brand_color,omitempty"`
	LogoURL       string `json:"logo_url,omitempty"`
	PoweredBy     bool   `json:"powered_by"`
}

// Testimonial is an approved submission as shown publicly. Author email
// never leaves the dashboard.
type Testimonial struct {
	ID          string          `json:"id"`
	Kind        submission.Kind `json:"kind"`
	AuthorName  string          `json:"author_name"`
	AuthorTitle string          `json:"author_title,omitempty"`
	Rating      int             `json:"rating,omitempty"`
	Text        string          `json:"text,omitempty"`
	MediaURL    string          `json:"media_url,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// TestimonialFor projects an approved submission through the widget's
// display settings.
func (w *Widget) TestimonialFor(s *submission.Submission) Testimonial {
	t := Testimonial{
		ID:          s.ID.String(),
		Kind:        s.Kind,
		AuthorName:  s.AuthorName,
		AuthorTitle: s.AuthorTitle,
		Text:        s.Text,
		MediaURL:    s.MediaURL,
	}
	if w.ShowRatings {
		t.Rating = s.Rating
	}
	if w.ShowDates {
		d := s.CreatedAt
		t.Date = &d
	}
	return t
}

func (w *Widget) FeedWidget() FeedWidget {
	return FeedWidget{
		ID:          w.ID.String(),
		Type:        w.Type,
		Layout:      w.Layout,
		Theme:       w.Theme,
		ShowRatings: w.ShowRatings,
		ShowDates:   w.ShowDates,
		Autoplay:    w.Autoplay,
		AccentColor: w.AccentColor,
	}
}
