// Package attrs reads values back out of slog-style key/value slices, so
// audit emitters can reuse the attributes they already log.
package attrs

// ExtractString returns the string value stored under key in a
// [key1, value1, key2, value2, ...] slice, or "" when the key is missing or
// its value is not a string.
func ExtractString(attrs []any, key string) string {
	for i := 0; i+1 < len(attrs); i += 2 {
		k, ok := attrs[i].(string)
		if !ok || k != key {
			continue
		}
		if v, ok := attrs[i+1].(string); ok {
			return v
		}
	}
	return ""
}

// FirstString tries keys in order and returns the first non-empty value.
func FirstString(attrs []any, keys ...string) string {
	for _, key := range keys {
		if v := ExtractString(attrs, key); v != "" {
			return v
		}
	}
	return ""
}
