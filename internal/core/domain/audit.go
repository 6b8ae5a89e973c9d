package domain

import "time"

// AuditAction names an auth lifecycle event recorded in the audit trail.
type AuditAction string

const (
	AuditLogin            AuditAction = "login"
	AuditLoginFailed      AuditAction = "login_failed"
	AuditLogout           AuditAction = "logout"
	AuditRegister         AuditAction = "register"
	AuditBootstrapAdmin   AuditAction = "bootstrap_admin"
	AuditProfileUpdate    AuditAction = "profile_update"
	AuditUserStatusChange AuditAction = "user_status_change"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuditEvent is one entry of the auth audit trail.
type AuditEvent struct {
	ID        string      `json:"id" bson:"_id"`
	Action    AuditAction `json:"action" bson:"action"`
	UserID    string      `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Email     string      `json:"email,omitempty" bson:"email,omitempty"`
	Outcome   string      `json:"outcome" bson:"outcome"`
	Reason    string      `json:"reason,omitempty" bson:"reason,omitempty"`
	IP        string      `json:"ip,omitempty" bson:"ip,omitempty"`
	UserAgent string      `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// RequestMeta describes the client that triggered an operation.
type RequestMeta struct {
	IP        string
	UserAgent string
}
