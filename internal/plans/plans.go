// Package plans holds the static plan-limits table. The table is embedded
// YAML parsed once at init; every lookup is a pure function of it.
package plans

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	dErrors "prooflayer/pkg/domain-errors"
)

// Unlimited marks a numeric limit with no ceiling.
const Unlimited = -1

// Plan names a subscription tier.
type Plan string

const (
	Free    Plan = "free"
	Starter Plan = "starter"
	Pro     Plan = "pro"
	Agency  Plan = "agency"
)

func (p Plan) String() string { return string(p) }

// IsValid reports whether p is a known plan.
func (p Plan) IsValid() bool {
	_, ok := table.byName[p]
	return ok
}

// Rank orders plans cheapest first; unknown plans rank -1.
func (p Plan) Rank() int {
	for i, l := range table.ordered {
		if l.Plan == p {
			return i
		}
	}
	return -1
}

// ParsePlan validates a plan name (case-insensitive).
func ParsePlan(s string) (Plan, error) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown plan %q", s))
	}
	return p, nil
}

// Limits is one row of the plan table.
type Limits struct {
	Plan                   Plan     `yaml:"name" json:"plan"`
	DisplayName            string   `yaml:"display_name" json:"display_name"`
	MaxWorkspaces          int      `yaml:"max_workspaces" json:"max_workspaces"`
	MaxFormsPerWorkspace   int      `yaml:"max_forms_per_workspace" json:"max_forms_per_workspace"`
	MaxWidgetsPerWorkspace int      `yaml:"max_widgets_per_workspace" json:"max_widgets_per_workspace"`
	MonthlySubmissions     int      `yaml:"monthly_submissions" json:"monthly_submissions"`
	WidgetTypes            []string `yaml:"widget_types" json:"widget_types"`
	Layouts                []string `yaml:"layouts" json:"layouts"`
	SubmissionKinds        []string `yaml:"submission_kinds" json:"submission_kinds"`
	RemoveBranding         bool     `yaml:"remove_branding" json:"remove_branding"`
	CustomDomain           bool     `yaml:"custom_domain" json:"custom_domain"`
	PriceMonthlyCents      int64    `yaml:"price_monthly_cents" json:"price_monthly_cents"`
	PriceAnnualCents       int64    `yaml:"price_annual_cents" json:"price_annual_cents"`
}

// withinLimit is true when a resource count of `next` is allowed under max.
func withinLimit(max, next int) bool {
	return max == Unlimited || next <= max
}

// AllowsWorkspaces reports whether owning n workspaces is allowed.
func (l Limits) AllowsWorkspaces(n int) bool { return withinLimit(l.MaxWorkspaces, n) }

// AllowsForms reports whether a workspace may hold n forms.
func (l Limits) AllowsForms(n int) bool { return withinLimit(l.MaxFormsPerWorkspace, n) }

// AllowsWidgets reports whether a workspace may hold n widgets.
func (l Limits) AllowsWidgets(n int) bool { return withinLimit(l.MaxWidgetsPerWorkspace, n) }

// AllowsSubmissions reports whether n submissions in a period is allowed.
func (l Limits) AllowsSubmissions(n int) bool { return withinLimit(l.MonthlySubmissions, n) }

func (l Limits) AllowsWidgetType(t string) bool { return slices.Contains(l.WidgetTypes, t) }

func (l Limits) AllowsLayout(layout string) bool { return slices.Contains(l.Layouts, layout) }

func (l Limits) AllowsSubmissionKind(k string) bool { return slices.Contains(l.SubmissionKinds, k) }

//go:embed plans.yaml
var rawTable []byte

type planTable struct {
	ordered []Limits
	byName  map[Plan]Limits
}

var table = mustLoad(rawTable)

func mustLoad(raw []byte) planTable {
	t, err := load(raw)
	if err != nil {
		panic(fmt.Sprintf("plans: %v", err))
	}
	return t
}

func load(raw []byte) (planTable, error) {
	var doc struct {
		Plans []Limits `yaml:"plans"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return planTable{}, fmt.Errorf("parse plan table: %w", err)
	}
	if len(doc.Plans) == 0 {
		return planTable{}, fmt.Errorf("plan table is empty")
	}
	t := planTable{byName: make(map[Plan]Limits, len(doc.Plans))}
	for _, l := range doc.Plans {
		if _, dup := t.byName[l.Plan]; dup {
			return planTable{}, fmt.Errorf("duplicate plan %q", l.Plan)
		}
		t.byName[l.Plan] = l
		t.ordered = append(t.ordered, l)
	}
	if _, ok := t.byName[Free]; !ok {
		return planTable{}, fmt.Errorf("plan table has no %q plan", Free)
	}
	return t, nil
}

// LimitsFor returns the limits row for p. Unknown plans fall back to free.
func LimitsFor(p Plan) Limits {
	if l, ok := table.byName[p]; ok {
		return l
	}
	return table.byName[Free]
}

// All returns every plan, cheapest first.
func All() []Limits {
	return slices.Clone(table.ordered)
}

// FeatureKind names a gated capability family.
type FeatureKind string

const (
	FeatureWidgetType     FeatureKind = "widget_type"
	FeatureLayout         FeatureKind = "layout"
	FeatureSubmissionKind FeatureKind = "submission_kind"
	FeatureRemoveBranding FeatureKind = "remove_branding"
)

// Feature is one gated capability, e.g. {widget_type, popup}.
type Feature struct {
	Kind  FeatureKind
	Value string
}

func (l Limits) allows(f Feature) bool {
	switch f.Kind {
	case FeatureWidgetType:
		return l.AllowsWidgetType(f.Value)
	case FeatureLayout:
		return l.AllowsLayout(f.Value)
	case FeatureSubmissionKind:
		return l.AllowsSubmissionKind(f.Value)
	case FeatureRemoveBranding:
		return l.RemoveBranding
	default:
		return false
	}
}

// MinimumPlanFor returns the cheapest plan that allows f.
func MinimumPlanFor(f Feature) (Plan, bool) {
	for _, l := range table.ordered {
		if l.allows(f) {
			return l.Plan, true
		}
	}
	return "", false
}

// Resource names a counted resource for MinimumPlanForCount.
type Resource string

const (
	ResourceWorkspaces  Resource = "workspaces"
	ResourceForms       Resource = "forms"
	ResourceWidgets     Resource = "widgets"
	ResourceSubmissions Resource = "submissions"
)

// MinimumPlanForCount returns the cheapest plan allowing n of r.
func MinimumPlanForCount(r Resource, n int) (Plan, bool) {
	for _, l := range table.ordered {
		var ok bool
		switch r {
		case ResourceWorkspaces:
			ok = l.AllowsWorkspaces(n)
		case ResourceForms:
			ok = l.AllowsForms(n)
		case ResourceWidgets:
			ok = l.AllowsWidgets(n)
		case ResourceSubmissions:
			ok = l.AllowsSubmissions(n)
		}
		if ok {
			return l.Plan, true
		}
	}
	return "", false
}
