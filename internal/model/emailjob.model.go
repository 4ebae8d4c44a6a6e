package model

import (
	"time"
)

// EmailJobStatus is the delivery state of a queued outbound email.
type EmailJobStatus string

const (
	EmailJobStatusQueued  EmailJobStatus = "queued"
	EmailJobStatusSending EmailJobStatus = "sending"
	EmailJobStatusSent    EmailJobStatus = "sent"
	EmailJobStatusFailed  EmailJobStatus = "failed"
)

const DefaultEmailJobMaxRetries = 3

// EmailJob is a row in admin_notifications_queue: one pending outbound email
// tied to an inquiry status change or an admin response. The mailer worker
// drains queued jobs; the admin Retry/Skip endpoints only rewrite the row.
type EmailJob struct {
	ID               string         `json:"id"`
	InquiryID        *string        `json:"inquiry_id,omitempty"`
	ResponseID       *string        `json:"response_id,omitempty"`
	RecipientID      string         `json:"recipient_id"`
	RecipientEmail   string         `json:"recipient_email"`
	RecipientName    string         `json:"recipient_name"`
	NotificationType string         `json:"notification_type"`
	Status           EmailJobStatus `json:"status"`
	RetryCount       int            `json:"retry_count"`
	MaxRetries       int            `json:"max_retries"`
	ErrorMessage     *string        `json:"error_message,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	SentAt           *time.Time     `json:"sent_at,omitempty"`
}

func (j *EmailJob) Validate() error {
	if j.RecipientEmail == "" {
		return ValidationError("recipient_email is required")
	}
	if j.NotificationType == "" {
		return ValidationError("notification_type is required")
	}
	return nil
}

// RetriesExhausted reports whether the job has burned its retry budget and
// must be parked until an operator requeues it.
func (j *EmailJob) RetriesExhausted() bool {
	return j.RetryCount >= j.MaxRetries
}

// EmailJobFilter controls queue admin list queries.
type EmailJobFilter struct {
	Statuses []EmailJobStatus
	Limit    int
	Offset   int
}

// QueueAction is a manual operator action against one job row.
type QueueAction string

const (
	QueueActionRetry QueueAction = "retry"
	QueueActionSkip  QueueAction = "skip"
)
