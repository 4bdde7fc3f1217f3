package embedcode

import (
	"strings"

	"prooflayer/internal/widget/models"
)

// PreviewData is everything the dashboard preview page shows.
type PreviewData struct {
	Widget  *models.Widget
	Feed    *models.Feed
	Snippet string
}

func stars(n int) string {
	return strings.Repeat("★", n) + strings.Repeat("☆", models.MaxRating-n)
}

func accent(p PreviewData) string {
	switch {
	case p.Widget.AccentColor != "":
		return p.Widget.AccentColor
	case p.Feed.Branding.BrandColor != "":
		return p.Feed.Branding.BrandColor
	}
	return "#4f46e5"
}
