// Package models holds checkout sessions and provider webhook events.
package models

import (
	"prooflayer/internal/plans"
	id "prooflayer/pkg/domain"
)

// CheckoutRequest asks the provider for a hosted payment page.
type CheckoutRequest struct {
	UserID      id.UserID      `json:"user_id"`
	Plan        plans.Plan     `json:"plan"`
	Interval    plans.Interval `json:"interval"`
	AmountCents int64          `json:"amount_cents"`
	SuccessURL  string         `json:"success_url"`
	CancelURL   string         `json:"cancel_url"`
}

// Session is a created checkout; URL is where the browser goes next.
type Session struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

// EventType names a provider webhook.
type EventType string

const (
	EventCheckoutCompleted    EventType = "checkout.completed"
	EventSubscriptionCanceled EventType = "subscription.canceled"
)

// Event is the part of a webhook payload the service acts on.
type Event struct {
	ID     string
	Type   EventType
	UserID id.UserID
	Plan   plans.Plan
}
