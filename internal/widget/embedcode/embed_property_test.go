//go:build property

package embedcode

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func genOptions() gopter.Gen {
	return gopter.CombineGens(
		gen.AnyString(),
		gen.AnyString(),
		gen.IntRange(1, 50),
		gen.IntRange(0, 5),
		gen.Bool(),
		gen.Bool(),
	).Map(func(v []any) Options {
		return Options{
			WidgetID:    v[0].(string),
			ScriptURL:   "https://cdn.prooflayer.io/widget.js",
			Type:        "wall",
			Layout:      "grid",
			Theme:       "light",
			AccentColor: v[1].(string),
			MaxItems:    v[2].(int),
			MinRating:   v[3].(int),
			ShowRatings: v[4].(bool),
			Autoplay:    v[5].(bool),
		}
	})
}

func TestEmbedProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 500
	properties := gopter.NewProperties(params)

	properties.Property("deterministic", prop.ForAll(
		func(o Options) bool { return GenerateEmbed(o) == GenerateEmbed(o) },
		genOptions(),
	))

	properties.Property("one element of each kind, no raw markup from values", prop.ForAll(
		func(o Options) bool {
			out := GenerateEmbed(o)
			return strings.Count(out, "<div") == 1 &&
				strings.Count(out, "<script") == 1 &&
				strings.Count(out, "</script>") == 1 &&
				strings.HasSuffix(out, " async></script>")
		},
		genOptions(),
	))

	properties.Property("optional attributes appear only when set", prop.ForAll(
		func(o Options) bool {
			out := GenerateEmbed(o)
			return strings.Contains(out, "data-min-rating=") == (o.MinRating > 0) &&
				strings.Contains(out, "data-show-ratings=") == o.ShowRatings &&
				strings.Contains(out, "data-autoplay=") == o.Autoplay &&
				!strings.Contains(out, "data-show-dates=") &&
				strings.Contains(out, "data-accent-color=") == (o.AccentColor != "")
		},
		genOptions(),
	))

	properties.TestingRun(t)
}
