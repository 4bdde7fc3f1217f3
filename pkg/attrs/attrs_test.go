package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	kv := []any{"check", "widget_type", "count", 3, 7, "skip", "reason", "over_limit", "dangling"}

	assert.Equal(t, "widget_type", ExtractString(kv, "check"))
	assert.Equal(t, "over_limit", ExtractString(kv, "reason"))
	assert.Empty(t, ExtractString(kv, "count"), "non-string values are ignored")
	assert.Empty(t, ExtractString(kv, "dangling"), "a key without a value is ignored")
	assert.Empty(t, ExtractString(nil, "check"))
}

func TestFirstString(t *testing.T) {
	kv := []any{"to_plan", "pro", "check", ""}

	assert.Equal(t, "pro", FirstString(kv, "reason", "check", "to_plan"))
	assert.Empty(t, FirstString(kv, "reason"))
}
