package audit

import (
	"context"
	"time"

	id "prooflayer/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose so sinks
// can apply different retention and routing.
type EventCategory string

const (
	// CategoryCompliance covers account lifecycle and billing changes.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers auth failures and abuse signals.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers routine content activity.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category    EventCategory  `json:"category"`
	Timestamp   time.Time      `json:"timestamp"`
	UserID      id.UserID      `json:"user_id"`
	WorkspaceID id.WorkspaceID `json:"workspace_id"`
	Subject     string         `json:"subject"`
	Action      string         `json:"action"`
	Reason      string         `json:"reason,omitempty"`
	RequestID   string         `json:"request_id,omitempty"`
	// ActorID is set when someone other than UserID performed the action,
	// e.g. an admin changing a user's plan.
	ActorID string `json:"actor_id,omitempty"`
}

type AuditEvent string

const (
	// Account events
	EventUserCreated  AuditEvent = "user_created"
	EventUserLoggedIn AuditEvent = "user_logged_in"
	EventAuthFailed   AuditEvent = "auth_failed"

	// Plan and billing events
	EventPlanChanged      AuditEvent = "plan_changed"
	EventCheckoutStarted  AuditEvent = "checkout_started"
	EventWebhookRejected  AuditEvent = "billing_webhook_rejected"
	EventUsagePeriodReset AuditEvent = "usage_period_reset"
	EventPlanLimitReached AuditEvent = "plan_limit_reached"

	// Workspace content events
	EventWorkspaceCreated AuditEvent = "workspace_created"
	EventWorkspaceUpdated AuditEvent = "workspace_updated"
	EventWorkspaceDeleted AuditEvent = "workspace_deleted"
	EventFormCreated      AuditEvent = "form_created"
	EventFormUpdated      AuditEvent = "form_updated"
	EventFormDeleted      AuditEvent = "form_deleted"
	EventWidgetCreated    AuditEvent = "widget_created"
	EventWidgetUpdated    AuditEvent = "widget_updated"
	EventWidgetDeleted    AuditEvent = "widget_deleted"

	// Submission events
	EventSubmissionReceived AuditEvent = "submission_received"
	EventSubmissionApproved AuditEvent = "submission_approved"
	EventSubmissionRejected AuditEvent = "submission_rejected"
	EventSubmissionDeleted  AuditEvent = "submission_deleted"

	// Abuse events
	EventRateLimitExceeded AuditEvent = "rate_limit_exceeded"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventUserCreated:      CategoryCompliance,
	EventPlanChanged:      CategoryCompliance,
	EventWorkspaceDeleted: CategoryCompliance,
	EventUsagePeriodReset: CategoryCompliance,

	EventAuthFailed:        CategorySecurity,
	EventWebhookRejected:   CategorySecurity,
	EventRateLimitExceeded: CategorySecurity,
}

// Category returns the EventCategory for this audit event.
// Unknown events default to CategoryOperations.
func (e AuditEvent) Category() EventCategory {
	if cat, ok := eventCategories[e]; ok {
		return cat
	}
	return CategoryOperations
}

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}
