package embedcode

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prooflayer/internal/widget/models"
)

func TestGenerateEmbedMinimal(t *testing.T) {
	got := GenerateEmbed(Options{
		WidgetID:  "w1",
		ScriptURL: "https://cdn.prooflayer.io/widget.js",
		Type:      "wall",
		Layout:    "grid",
		Theme:     "light",
		MaxItems:  10,
	})
	want := `<div data-prooflayer-widget="w1"></div>` + "\n" +
		`<script src="https://cdn.prooflayer.io/widget.js" data-widget-id="w1" data-type="wall" data-layout="grid" data-theme="light" data-max-items="10" async></script>`
	assert.Equal(t, want, got)
}

func TestGenerateEmbedOptionalAttributeOrder(t *testing.T) {
	got := GenerateEmbed(Options{
		WidgetID: "w1", ScriptURL: "/widget.js", Type: "carousel", Layout: "slider", Theme: "dark", MaxItems: 5,
		MinRating: 4, ShowRatings: true, ShowDates: true, Autoplay: true, HideBranding: true, AccentColor: "#112233",
	})
	order := []string{"src=", "data-widget-id=", "data-type=", "data-layout=", "data-theme=", "data-max-items=",
		`data-min-rating="4"`, `data-show-ratings="true"`, `data-show-dates="true"`, `data-autoplay="true"`,
		`data-hide-branding="true"`, `data-accent-color="#112233"`, "async"}
	last := -1
	for _, attr := range order {
		i := strings.Index(got, attr)
		require.Greater(t, i, last, "%s out of order in %s", attr, got)
		last = i
	}
}

func TestGenerateEmbedEscapes(t *testing.T) {
	got := GenerateEmbed(Options{WidgetID: `"><script>alert(1)</script>`, ScriptURL: "javascript:alert(1)", MaxItems: 1})
	assert.NotContains(t, got, "<script>alert")
	assert.NotContains(t, got, "javascript:")
	assert.Contains(t, got, "&#34;&gt;&lt;script&gt;")
}

func TestPreviewRendersTestimonials(t *testing.T) {
	w := &models.Widget{Name: "Wall <1>", Type: models.TypeWall, Layout: models.LayoutGrid, Theme: models.ThemeDark}
	date := time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)
	feed := &models.Feed{
		Branding: models.Branding{WorkspaceName: "Acme", PoweredBy: true},
		Testimonials: []models.Testimonial{
			{AuthorName: "Ana", AuthorTitle: "CTO", Text: "Loved <b>it</b>", Rating: 4, Date: &date},
		},
	}
	var b strings.Builder
	require.NoError(t, Preview(PreviewData{Widget: w, Feed: feed, Snippet: "<div></div>"}).Render(context.Background(), &b))
	html := b.String()
	assert.Contains(t, html, "<title>Wall &lt;1&gt; preview</title>")
	assert.Contains(t, html, "Loved &lt;b&gt;it&lt;/b&gt;")
	assert.Contains(t, html, "★★★★☆")
	assert.Contains(t, html, "Apr 2, 2026")
	assert.Contains(t, html, "Powered by ProofLayer")
	assert.Contains(t, html, "&lt;div&gt;&lt;/div&gt;")
}

func TestPreviewSanitizesMediaAndCarriesTheme(t *testing.T) {
	w := &models.Widget{Name: "Reel", Type: models.TypeWall, Layout: models.LayoutGrid, Theme: models.ThemeDark, AccentColor: "#ff0000"}
	feed := &models.Feed{
		Testimonials: []models.Testimonial{
			{AuthorName: "Bo", Kind: "video", MediaURL: "javascript:alert(1)"},
			{AuthorName: "Cy", MediaURL: "https://media.example/cy.jpg"},
		},
	}
	var b strings.Builder
	require.NoError(t, Preview(PreviewData{Widget: w, Feed: feed}).Render(context.Background(), &b))
	html := b.String()
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, `<video controls src="about:invalid`)
	assert.Contains(t, html, `<img alt="" src="https://media.example/cy.jpg">`)
	assert.Contains(t, html, `data-theme="dark"`)
	assert.Contains(t, html, `data-accent="#ff0000"`)
	assert.NotContains(t, html, "Powered by ProofLayer")
}

func TestSnippetRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var b strings.Builder
	assert.ErrorIs(t, Snippet(Options{WidgetID: "w1"}).Render(ctx, &b), context.Canceled)
	assert.Empty(t, b.String())
}
