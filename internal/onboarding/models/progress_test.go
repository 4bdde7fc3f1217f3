package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

func TestProgress(t *testing.T) {
	now := time.Now()

	t.Run("starts at profile", func(t *testing.T) {
		p := NewProgress(id.NewUserID(), now)
		assert.Equal(t, StepProfile, p.Current)
		assert.Empty(t, p.Completed)
	})

	t.Run("steps complete in order", func(t *testing.T) {
		p := NewProgress(id.NewUserID(), now)
		err := p.CanComplete(StepForm)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))

		require.NoError(t, p.CanComplete(StepProfile))
		assert.True(t, p.ApplyComplete(StepProfile, now))
		assert.Equal(t, StepWorkspace, p.Current)
	})

	t.Run("completing again is a no-op", func(t *testing.T) {
		p := NewProgress(id.NewUserID(), now)
		p.ApplyComplete(StepProfile, now)
		require.NoError(t, p.CanComplete(StepProfile))
		assert.False(t, p.ApplyComplete(StepProfile, now))
		assert.Len(t, p.Completed, 1)
	})

	t.Run("completing a later step fills earlier ones", func(t *testing.T) {
		p := NewProgress(id.NewUserID(), now)
		p.ApplyComplete(StepForm, now)
		assert.Equal(t, []Step{StepProfile, StepWorkspace, StepForm}, p.Completed)
		assert.Equal(t, StepWidget, p.Current)
	})

	t.Run("finishing clears current", func(t *testing.T) {
		p := NewProgress(id.NewUserID(), now)
		p.ApplyComplete(StepInstall, now)
		assert.True(t, p.IsFinished())
		assert.Equal(t, Step(""), p.Current)
	})

	t.Run("normalize keeps only the ordered prefix", func(t *testing.T) {
		p := &Progress{Completed: []Step{StepWorkspace, StepProfile, StepWidget}}
		p.Normalize()
		assert.Equal(t, []Step{StepProfile, StepWorkspace}, p.Completed)
		assert.Equal(t, StepForm, p.Current)
	})
}

func TestParseStep(t *testing.T) {
	step, err := ParseStep("widget")
	require.NoError(t, err)
	assert.Equal(t, StepWidget, step)

	_, err = ParseStep("payment")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}
