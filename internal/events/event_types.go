package events

import (
	"time"

	"github.com/campusworks/college-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAccessDecision  EventType = "access_decision"
	EventUserRegistered  EventType = "user_registered"
	EventUserCreated     EventType = "user_created"
	EventUserRoleChanged EventType = "user_role_changed"
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
)

// Decision values carried by access decision events.
const (
	DecisionAllow = "allow"
	DecisionDeny  = "deny"
)

// Event represents an audit event emitted by services and middleware.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AccessDecisionPayload payload.
type AccessDecisionPayload struct {
	Action   string      `json:"action"`
	Decision string      `json:"decision"`
	Role     domain.Role `json:"role"`
	Method   string      `json:"method"`
	Path     string      `json:"path"`
}

// UserRegisteredPayload payload, shared by self-signup and admin creation.
type UserRegisteredPayload struct {
	UserID int64       `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// UserRoleChangedPayload payload.
type UserRoleChangedPayload struct {
	UserID  int64       `json:"user_id"`
	OldRole domain.Role `json:"old_role"`
	NewRole domain.Role `json:"new_role"`
}

// LoginFailedPayload payload. Reason is for operators only and never reaches clients.
type LoginFailedPayload struct {
	Reason string `json:"reason"`
}
