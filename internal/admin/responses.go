package admin

import (
	"time"

	"prooflayer/internal/plans"
)

// UserPlanResponse is returned after an operator plan change.
type UserPlanResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Plan            plans.Plan `json:"plan"`
	SubmissionsUsed int        `json:"submissions_used"`
	PeriodEnd       time.Time  `json:"period_end"`
}

type PlansResponse struct {
	Plans []plans.Limits `json:"plans"`
}
