// Package email holds helpers for working with addresses supplied by users.
package email

import (
	"strings"
	"unicode"
)

// DisplayName derives a readable name from the local part of an address:
// "ada.lovelace+tag@example.com" becomes "Ada Lovelace". Plus-addressing
// tags are dropped. Addresses without a usable local part yield "Customer".
func DisplayName(address string) string {
	local := address
	if at := strings.LastIndexByte(address, '@'); at >= 0 {
		local = address[:at]
	}
	if plus := strings.IndexByte(local, '+'); plus >= 0 {
		local = local[:plus]
	}

	parts := strings.FieldsFunc(local, func(r rune) bool {
		return r == '.' || r == '_' || r == '-' || unicode.IsDigit(r)
	})
	if len(parts) == 0 {
		return "Customer"
	}
	if len(parts) > 2 {
		parts = []string{parts[0], parts[len(parts)-1]}
	}
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, " ")
}

func capitalize(s string) string {
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
