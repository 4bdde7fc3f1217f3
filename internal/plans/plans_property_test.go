//go:build property

package plans

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestPlanTableProperties checks the table is monotonic: upgrading never
// removes a capability or lowers a limit.
func TestPlanTableProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	all := All()

	properties.Property("count limits are monotonic across tiers", prop.ForAll(
		func(i int, n int) bool {
			if i+1 >= len(all) {
				return true
			}
			lo, hi := all[i], all[i+1]
			if lo.AllowsWorkspaces(n) && !hi.AllowsWorkspaces(n) {
				return false
			}
			if lo.AllowsForms(n) && !hi.AllowsForms(n) {
				return false
			}
			if lo.AllowsWidgets(n) && !hi.AllowsWidgets(n) {
				return false
			}
			return !lo.AllowsSubmissions(n) || hi.AllowsSubmissions(n)
		},
		gen.IntRange(0, len(all)-1),
		gen.IntRange(0, 5000),
	))

	properties.Property("minimum plan allows the feature and no cheaper plan does", prop.ForAll(
		func(kind int, value string) bool {
			kinds := []FeatureKind{FeatureWidgetType, FeatureLayout, FeatureSubmissionKind}
			f := Feature{Kind: kinds[kind], Value: value}
			p, ok := MinimumPlanFor(f)
			if !ok {
				for _, l := range all {
					if l.allows(f) {
						return false
					}
				}
				return true
			}
			if !LimitsFor(p).allows(f) {
				return false
			}
			for _, l := range all[:p.Rank()] {
				if l.allows(f) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 2),
		gen.OneConstOf("wall", "carousel", "single", "badge", "popup",
			"grid", "masonry", "list", "slider", "text", "video", "screenshot", "bogus"),
	))

	properties.Property("annual never costs more than twelve months", prop.ForAll(
		func(i int, seats int) bool {
			q, err := QuoteFor(all[i].Plan, Annual, seats)
			if err != nil {
				return false
			}
			return q.SavingsCents >= 0 && q.AmountCents <= all[i].PriceMonthlyCents*int64(q.Seats)*12
		},
		gen.IntRange(0, len(all)-1),
		gen.IntRange(-2, 50),
	))

	properties.TestingRun(t)
}
