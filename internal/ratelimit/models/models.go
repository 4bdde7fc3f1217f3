package models

import (
	"fmt"
	"strings"
	"time"
)

// EndpointClass groups routes that share a rate limit.
type EndpointClass string

const (
	// ClassSubmit covers public testimonial intake.
	ClassSubmit EndpointClass = "submit"
	// ClassFeed covers public widget feeds read by embedded scripts.
	ClassFeed EndpointClass = "feed"
	// ClassAuth covers signup and login.
	ClassAuth EndpointClass = "auth"
)

func (c EndpointClass) IsValid() bool {
	switch c {
	case ClassSubmit, ClassFeed, ClassAuth:
		return true
	}
	return false
}

// Limit allows RequestsPerWindow requests per Window.
type Limit struct {
	RequestsPerWindow int
	Window            time.Duration
}

// PerMinute is shorthand for a limit of n requests per minute.
func PerMinute(n int) Limit {
	return Limit{RequestsPerWindow: n, Window: time.Minute}
}

// RateLimitResult represents the outcome of a rate limit check.
type RateLimitResult struct {
	Allowed    bool      `json:"allowed"`
	Limit      int       `json:"limit"`
	Remaining  int       `json:"remaining"`
	ResetAt    time.Time `json:"reset_at"`
	RetryAfter int       `json:"retry_after,omitempty"` // seconds, only set when not allowed
	Degraded   bool      `json:"-"`
}

// RateLimitExceededResponse is the API response when rate limit is exceeded.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}

// SanitizeKeySegment escapes ':' so an identifier cannot spill into an
// adjacent key segment.
func SanitizeKeySegment(s string) string {
	return strings.ReplaceAll(s, ":", "_")
}

// NewIPKey builds the bucket key for a client IP within a class.
func NewIPKey(class EndpointClass, ip string) string {
	return fmt.Sprintf("rl:ip:%s:%s", class, SanitizeKeySegment(ip))
}
