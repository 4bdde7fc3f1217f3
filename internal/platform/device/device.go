// Package device turns User-Agent headers into display names and coarse
// device classes for logs and audit trails.
package device

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/mssola/useragent"
)

// Class is a coarse device family.
type Class string

const (
	ClassUnknown Class = "unknown"
	ClassDesktop Class = "desktop"
	ClassMobile  Class = "mobile"
	ClassBot     Class = "bot"
)

// ParseUserAgent returns a display name such as "Chrome on macOS".
func ParseUserAgent(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}
	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	if browser == "" {
		browser = "Unknown Browser"
	}
	os := ua.OSInfo().Name
	if os == "" {
		os = ua.Platform()
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}

// Classify reports the device class of a User-Agent.
func Classify(userAgent string) Class {
	if strings.TrimSpace(userAgent) == "" {
		return ClassUnknown
	}
	ua := useragent.New(userAgent)
	switch {
	case ua.Bot():
		return ClassBot
	case ua.Mobile():
		return ClassMobile
	default:
		return ClassDesktop
	}
}

// Fingerprint hashes browser name, major version and OS. Minor browser
// upgrades keep the same fingerprint.
func Fingerprint(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return ""
	}
	ua := useragent.New(userAgent)
	name, version := ua.Browser()
	major, _, _ := strings.Cut(version, ".")
	sum := sha256.Sum256([]byte(name + "|" + major + "|" + ua.OSInfo().Name + "|" + ua.Platform()))
	return hex.EncodeToString(sum[:])
}
