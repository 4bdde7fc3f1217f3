package models

import (
	"fmt"
	"time"

	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

// Entitlement is the aggregate root for a user's plan and usage counters.
//
// Invariants:
//   - Plan is always a known plan
//   - SubmissionsUsed counts submissions within [PeriodStart, PeriodEnd)
//   - PeriodStart < PeriodEnd; periods are calendar months in UTC
//   - SubmissionsUsed never exceeds the plan's monthly limit through
//     ApplySubmissionConsumed (CanConsumeSubmission guards it)
//
// A downgrade never deletes or freezes existing resources. Limits apply to
// new creations only.
type Entitlement struct {
	UserID          id.UserID  `json:"user_id"`
	Plan            plans.Plan `json:"plan"`
	SubmissionsUsed int        `json:"submissions_used"`
	PeriodStart     time.Time  `json:"period_start"`
	PeriodEnd       time.Time  `json:"period_end"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PeriodFor returns the calendar month containing now.
func PeriodFor(now time.Time) (start, end time.Time) {
	now = now.UTC()
	start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// NewEntitlement starts a user on the free plan for the current month.
func NewEntitlement(userID id.UserID, now time.Time) (*Entitlement, error) {
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "entitlement requires a user")
	}
	start, end := PeriodFor(now)
	return &Entitlement{
		UserID:      userID,
		Plan:        plans.Free,
		PeriodStart: start,
		PeriodEnd:   end,
		UpdatedAt:   now,
	}, nil
}

func (e *Entitlement) Limits() plans.Limits {
	return plans.LimitsFor(e.Plan)
}

// IsPeriodExpired reports whether now is past the current usage period.
func (e *Entitlement) IsPeriodExpired(now time.Time) bool {
	return !now.Before(e.PeriodEnd)
}

// UsedAt is the usage count as of now, treating an expired period as reset.
func (e *Entitlement) UsedAt(now time.Time) int {
	if e.IsPeriodExpired(now) {
		return 0
	}
	return e.SubmissionsUsed
}

// RemainingAt returns submissions left this period, or plans.Unlimited.
func (e *Entitlement) RemainingAt(now time.Time) int {
	limit := e.Limits().MonthlySubmissions
	if limit == plans.Unlimited {
		return plans.Unlimited
	}
	return max(limit-e.UsedAt(now), 0)
}

// CanConsumeSubmission checks one more submission fits the monthly limit.
func (e *Entitlement) CanConsumeSubmission(now time.Time) error {
	limits := e.Limits()
	if limits.AllowsSubmissions(e.UsedAt(now) + 1) {
		return nil
	}
	return LimitError(e.Plan, fmt.Sprintf("monthly submission limit of %d reached", limits.MonthlySubmissions),
		UpgradeHintForCount(plans.ResourceSubmissions, e.UsedAt(now)+1))
}

// ApplySubmissionConsumed rolls an expired period forward, then counts one
// submission. Call CanConsumeSubmission first.
func (e *Entitlement) ApplySubmissionConsumed(now time.Time) {
	if e.IsPeriodExpired(now) {
		e.ApplyPeriodRoll(now)
	}
	e.SubmissionsUsed++
	e.UpdatedAt = now
}

// ApplyPeriodRoll starts the period containing now with zero usage.
func (e *Entitlement) ApplyPeriodRoll(now time.Time) {
	e.PeriodStart, e.PeriodEnd = PeriodFor(now)
	e.SubmissionsUsed = 0
	e.UpdatedAt = now
}

// CanChangePlan validates the target plan. Changing to the current plan is
// allowed so webhook redelivery stays idempotent.
func (e *Entitlement) CanChangePlan(p plans.Plan) error {
	if !p.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("unknown plan %q", p))
	}
	return nil
}

// ApplyPlanChange switches plan. Usage in the current period is kept.
func (e *Entitlement) ApplyPlanChange(p plans.Plan, now time.Time) {
	e.Plan = p
	e.UpdatedAt = now
}

// UpgradeHint names the cheapest plan that lifts a limit.
type UpgradeHint struct {
	Plan plans.Plan
	OK   bool
}

func UpgradeHintFor(f plans.Feature) UpgradeHint {
	p, ok := plans.MinimumPlanFor(f)
	return UpgradeHint{Plan: p, OK: ok}
}

func UpgradeHintForCount(r plans.Resource, n int) UpgradeHint {
	p, ok := plans.MinimumPlanForCount(r, n)
	return UpgradeHint{Plan: p, OK: ok}
}

// LimitError builds the CodePlanLimit error surfaced as HTTP 402.
func LimitError(current plans.Plan, reason string, hint UpgradeHint) error {
	msg := fmt.Sprintf("%s on the %s plan", reason, current)
	if hint.OK && hint.Plan.Rank() > current.Rank() {
		msg += fmt.Sprintf("; upgrade to %s", hint.Plan)
	}
	return dErrors.New(dErrors.CodePlanLimit, msg)
}
