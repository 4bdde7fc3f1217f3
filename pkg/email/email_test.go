package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		address string
		want    string
	}{
		{"ada.lovelace@example.com", "Ada Lovelace"},
		{"GRACE_HOPPER+news@example.com", "Grace Hopper"},
		{"linus@example.com", "Linus"},
		{"jean-luc.de.la.picard@example.com", "Jean Picard"},
		{"42@example.com", "Customer"},
		{"@example.com", "Customer"},
		{"no-at-sign", "No Sign"},
	}
	for _, tt := range tests {
		t.Run(tt.address, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayName(tt.address))
		})
	}
}
