package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	dErrors "prooflayer/pkg/domain-errors"
)

type PlansSuite struct {
	suite.Suite
}

func TestPlansSuite(t *testing.T) {
	suite.Run(t, new(PlansSuite))
}

func (s *PlansSuite) TestTable() {
	s.Run("ordered cheapest first", func() {
		all := All()
		s.Require().Len(all, 4)
		s.Equal([]Plan{Free, Starter, Pro, Agency}, []Plan{all[0].Plan, all[1].Plan, all[2].Plan, all[3].Plan})
		for i := 1; i < len(all); i++ {
			s.Greater(all[i].PriceMonthlyCents, all[i-1].PriceMonthlyCents)
		}
	})

	s.Run("All returns a copy", func() {
		all := All()
		all[0].MaxWorkspaces = 99
		s.Equal(1, LimitsFor(Free).MaxWorkspaces)
	})

	s.Run("unknown plan falls back to free", func() {
		s.Equal(Free, LimitsFor(Plan("enterprise")).Plan)
	})

	s.Run("rank follows table order", func() {
		s.Equal(0, Free.Rank())
		s.Equal(3, Agency.Rank())
		s.Equal(-1, Plan("nope").Rank())
	})
}

func (s *PlansSuite) TestParsePlan() {
	p, err := ParsePlan("  PRO ")
	s.Require().NoError(err)
	s.Equal(Pro, p)

	_, err = ParsePlan("platinum")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *PlansSuite) TestCountLimits() {
	free := LimitsFor(Free)
	agency := LimitsFor(Agency)

	s.Run("free allows exactly one workspace", func() {
		s.True(free.AllowsWorkspaces(1))
		s.False(free.AllowsWorkspaces(2))
	})

	s.Run("unlimited allows any count", func() {
		s.True(agency.AllowsWorkspaces(10_000))
		s.True(agency.AllowsForms(10_000))
		s.True(agency.AllowsWidgets(10_000))
		s.True(agency.AllowsSubmissions(1_000_000))
	})

	s.Run("monthly submission cap", func() {
		s.True(free.AllowsSubmissions(25))
		s.False(free.AllowsSubmissions(26))
	})
}

func (s *PlansSuite) TestFeatureGates() {
	free := LimitsFor(Free)
	s.True(free.AllowsWidgetType("wall"))
	s.False(free.AllowsWidgetType("popup"))
	s.True(free.AllowsLayout("grid"))
	s.False(free.AllowsLayout("slider"))
	s.True(free.AllowsSubmissionKind("text"))
	s.False(free.AllowsSubmissionKind("video"))
	s.False(free.RemoveBranding)
}

func (s *PlansSuite) TestMinimumPlanFor() {
	cases := []struct {
		feature Feature
		want    Plan
	}{
		{Feature{FeatureWidgetType, "wall"}, Free},
		{Feature{FeatureWidgetType, "carousel"}, Starter},
		{Feature{FeatureWidgetType, "popup"}, Pro},
		{Feature{FeatureLayout, "slider"}, Pro},
		{Feature{FeatureSubmissionKind, "screenshot"}, Starter},
		{Feature{FeatureSubmissionKind, "video"}, Pro},
		{Feature{FeatureRemoveBranding, ""}, Starter},
	}
	for _, tc := range cases {
		s.Run(string(tc.feature.Kind)+"/"+tc.feature.Value, func() {
			got, ok := MinimumPlanFor(tc.feature)
			s.Require().True(ok)
			s.Equal(tc.want, got)
		})
	}

	_, ok := MinimumPlanFor(Feature{FeatureWidgetType, "hologram"})
	s.False(ok)
}

func (s *PlansSuite) TestMinimumPlanForCount() {
	p, ok := MinimumPlanForCount(ResourceWorkspaces, 2)
	s.Require().True(ok)
	s.Equal(Pro, p)

	p, ok = MinimumPlanForCount(ResourceWorkspaces, 4)
	s.Require().True(ok)
	s.Equal(Agency, p)

	p, ok = MinimumPlanForCount(ResourceForms, 1)
	s.Require().True(ok)
	s.Equal(Free, p)
}

func TestLoad_RejectsBadTables(t *testing.T) {
	_, err := load([]byte("plans: []"))
	require.Error(t, err)

	_, err = load([]byte("plans:\n  - name: pro\n"))
	require.Error(t, err, "table without free plan")

	_, err = load([]byte("plans:\n  - name: free\n  - name: free\n"))
	require.Error(t, err, "duplicate plan")

	_, err = load([]byte("plans: ["))
	require.Error(t, err)
}

func TestQuoteFor(t *testing.T) {
	t.Run("monthly", func(t *testing.T) {
		q, err := QuoteFor(Pro, Monthly, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(4900), q.AmountCents)
		assert.Zero(t, q.SavingsCents)
	})

	t.Run("annual reports savings", func(t *testing.T) {
		q, err := QuoteFor(Starter, Annual, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(18240), q.AmountCents)
		assert.Equal(t, int64(1520), q.MonthlyEquivalentCents)
		assert.Equal(t, int64(1900*12-18240), q.SavingsCents)
		assert.Equal(t, 20, q.SavingsPercent)
	})

	t.Run("seats multiply and floor at one", func(t *testing.T) {
		q, err := QuoteFor(Pro, Monthly, 3)
		require.NoError(t, err)
		assert.Equal(t, int64(3*4900), q.AmountCents)

		q, err = QuoteFor(Pro, Monthly, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, q.Seats)
	})

	t.Run("free annual has no savings", func(t *testing.T) {
		q, err := QuoteFor(Free, Annual, 1)
		require.NoError(t, err)
		assert.Zero(t, q.AmountCents)
		assert.Zero(t, q.SavingsPercent)
	})

	t.Run("rejects unknown inputs", func(t *testing.T) {
		_, err := QuoteFor(Plan("x"), Monthly, 1)
		assert.Error(t, err)
		_, err = QuoteFor(Pro, Interval("weekly"), 1)
		assert.Error(t, err)
		_, err = ParseInterval("weekly")
		assert.Error(t, err)
	})
}
