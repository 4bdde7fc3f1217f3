package models

import (
	"fmt"
	"slices"
	"time"

	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

// Step is one stage of the setup wizard.
type Step string

const (
	StepProfile   Step = "profile"
	StepWorkspace Step = "workspace"
	StepForm      Step = "form"
	StepWidget    Step = "widget"
	StepInstall   Step = "install"
)

// Steps lists the wizard in order.
var Steps = []Step{StepProfile, StepWorkspace, StepForm, StepWidget, StepInstall}

func ParseStep(s string) (Step, error) {
	step := Step(s)
	if !slices.Contains(Steps, step) {
		return "", dErrors.New(dErrors.CodeValidation, fmt.Sprintf("unknown onboarding step %q", s))
	}
	return step, nil
}

// Progress is a user's wizard state.
//
// Invariants:
//   - Completed is always a prefix of Steps
//   - Current is the first step not completed, empty once all are done
//   - Dismissed hides the wizard but keeps recording progress
type Progress struct {
	UserID    id.UserID `json:"user_id"`
	Completed []Step    `json:"completed"`
	Current   Step      `json:"current"`
	Dismissed bool      `json:"dismissed"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewProgress(userID id.UserID, now time.Time) *Progress {
	return &Progress{
		UserID:    userID,
		Completed: []Step{},
		Current:   Steps[0],
		UpdatedAt: now,
	}
}

func (p *Progress) IsCompleted(step Step) bool {
	return slices.Contains(p.Completed, step)
}

func (p *Progress) IsFinished() bool {
	return len(p.Completed) == len(Steps)
}

// CanComplete enforces order: only the current step, or one already done.
func (p *Progress) CanComplete(step Step) error {
	if p.IsCompleted(step) || step == p.Current {
		return nil
	}
	return dErrors.New(dErrors.CodeConflict, fmt.Sprintf("complete the %s step first", p.Current))
}

// ApplyComplete marks step and every step before it as done. Completing an
// already completed step changes nothing.
func (p *Progress) ApplyComplete(step Step, now time.Time) bool {
	if p.IsCompleted(step) {
		return false
	}
	idx := slices.Index(Steps, step)
	p.Completed = slices.Clone(Steps[:idx+1])
	p.refreshCurrent()
	p.UpdatedAt = now
	return true
}

func (p *Progress) ApplyDismiss(now time.Time) {
	p.Dismissed = true
	p.UpdatedAt = now
}

// Normalize rebuilds Completed and Current from a stored set.
func (p *Progress) Normalize() {
	done := make([]Step, 0, len(Steps))
	for _, s := range Steps {
		if !slices.Contains(p.Completed, s) {
			break
		}
		done = append(done, s)
	}
	p.Completed = done
	p.refreshCurrent()
}

func (p *Progress) refreshCurrent() {
	if p.IsFinished() {
		p.Current = ""
		return
	}
	p.Current = Steps[len(p.Completed)]
}
