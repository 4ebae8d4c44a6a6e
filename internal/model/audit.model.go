package model

import "time"

// AuditEntry is an append-only record of an admin mutation. Writes are
// best-effort: a failed audit insert never blocks the primary action.
type AuditEntry struct {
	ID         string    `json:"id"`
	AdminID    string    `json:"admin_id"`
	Action     string    `json:"action"`
	TargetType string    `json:"target_type"`
	TargetID   string    `json:"target_id"`
	Changes    string    `json:"changes"` // free-form JSON blob
	IPAddress  string    `json:"ip_address"`
	UserAgent  string    `json:"user_agent"`
	CreatedAt  time.Time `json:"created_at"`
}

const (
	AuditActionCreate = "create"
	AuditActionUpdate = "update"
	AuditActionDelete = "delete"
)

const (
	AuditTargetInquiry           = "inquiry"
	AuditTargetNotificationQueue = "notification_queue"
	AuditTargetResponse          = "admin_response"
	AuditTargetTicket            = "support_ticket"
)

// AuditFilter controls audit-log queries; Page is 1-based.
type AuditFilter struct {
	AdminID   *string
	Action    *string
	StartDate *time.Time
	EndDate   *time.Time
	Page      int
	Limit     int
}
