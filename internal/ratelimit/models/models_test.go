package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIPKey(t *testing.T) {
	assert.Equal(t, "rl:ip:submit:203.0.113.9", NewIPKey(ClassSubmit, "203.0.113.9"))
	assert.Equal(t, "rl:ip:feed:2001_db8__1", NewIPKey(ClassFeed, "2001:db8::1"))
}

func TestEndpointClass(t *testing.T) {
	assert.True(t, ClassAuth.IsValid())
	assert.False(t, EndpointClass("write").IsValid())
}
