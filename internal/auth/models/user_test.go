package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "prooflayer/pkg/domain"
	dErrors "prooflayer/pkg/domain-errors"
)

func TestNewUser(t *testing.T) {
	now := time.Now()

	t.Run("normalizes email and name", func(t *testing.T) {
		u, err := NewUser(id.NewUserID(), "  Jane@Example.COM ", " Jane ", "hash", now)
		require.NoError(t, err)
		assert.Equal(t, "jane@example.com", u.Email)
		assert.Equal(t, "Jane", u.Name)
	})

	tests := []struct {
		name, email, userName, hash string
	}{
		{"invalid email", "not-an-email", "Jane", "hash"},
		{"empty name", "jane@example.com", "  ", "hash"},
		{"long name", "jane@example.com", strings.Repeat("a", MaxNameLength+1), "hash"},
		{"missing hash", "jane@example.com", "Jane", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewUser(id.NewUserID(), tt.email, tt.userName, tt.hash, now)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("short"))
	assert.Error(t, ValidatePassword(strings.Repeat("x", MaxPasswordLength+1)))
	assert.NoError(t, ValidatePassword("correct horse battery"))
}
