package strings

import "strings"

// NormalizeSet lowercases and trims each value, then drops blanks and
// repeats. First occurrence wins, so the caller's order is preserved.
func NormalizeSet(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
