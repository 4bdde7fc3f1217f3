// Package embedcode renders the HTML a customer pastes into their site and
// the dashboard preview page. The markup lives in the .templ files; run
// `templ generate` after editing them.
package embedcode

import (
	"context"
	"strings"

	"prooflayer/internal/widget/models"
)

// Options are the values baked into an embed snippet.
type Options struct {
	WidgetID     string
	ScriptURL    string
	Type         string
	Layout       string
	Theme        string
	MaxItems     int
	MinRating    int
	ShowRatings  bool
	ShowDates    bool
	Autoplay     bool
	HideBranding bool
	AccentColor  string
}

func OptionsFor(w *models.Widget, scriptURL string) Options {
	return Options{
		WidgetID:     w.ID.String(),
		ScriptURL:    scriptURL,
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
	}
}

// GenerateEmbed returns the snippet as a string. Equal options always give
// equal output. Rendering into a strings.Builder with a live context has no
// failure path, so the error is dropped.
func GenerateEmbed(o Options) string {
	var b strings.Builder
	_ = Snippet(o).Render(context.Background(), &b)
	return b.String()
}
