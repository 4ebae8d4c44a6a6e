package model

import (
	"strings"
	"time"
)

// InquiryType distinguishes the two intake tables.
type InquiryType string

const (
	InquiryTypeVisitor InquiryType = "visitor"
	InquiryTypeClient  InquiryType = "client"
)

// InquiryStatus is the lifecycle state of an inquiry. Admin actions may set
// any status from any other; there is no transition guard. That behavior is
// deliberate and covered by tests.
type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "new"
	InquiryStatusViewed     InquiryStatus = "viewed"
	InquiryStatusResponded  InquiryStatus = "responded"
	InquiryStatusScheduled  InquiryStatus = "scheduled"
	InquiryStatusInProgress InquiryStatus = "in-progress"
	InquiryStatusCompleted  InquiryStatus = "completed"
	InquiryStatusRejected   InquiryStatus = "rejected"
	InquiryStatusClosed     InquiryStatus = "closed"
)

var inquiryStatuses = map[InquiryStatus]struct{}{
	InquiryStatusNew:        {},
	InquiryStatusViewed:     {},
	InquiryStatusResponded:  {},
	InquiryStatusScheduled:  {},
	InquiryStatusInProgress: {},
	InquiryStatusCompleted:  {},
	InquiryStatusRejected:   {},
	InquiryStatusClosed:     {},
}

func (s InquiryStatus) Known() bool {
	_, ok := inquiryStatuses[s]
	return ok
}

type Inquiry struct {
	ID   string      `json:"id"`
	Type InquiryType `json:"type"`

	// visitor identity; empty on client inquiries
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`

	// client identity; empty on visitor inquiries
	UserID string `json:"user_id,omitempty"`

	// a visitor inquiry may later be linked to a registered account
	LinkedUserID *string `json:"linked_user_id,omitempty"`

	Message           string        `json:"message"`
	ContentTypes      []string      `json:"content_types,omitempty"`
	Platforms         []string      `json:"platforms,omitempty"`
	Goal              string        `json:"goal,omitempty"`
	BudgetRange       string        `json:"budget_range,omitempty"`
	ContactPreference string        `json:"contact_preference,omitempty"`
	Status            InquiryStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// VisitorInquiryCreateRequest is the unauthenticated intake payload.
type VisitorInquiryCreateRequest struct {
	Name              string
	Email             string
	Message           string
	ContentTypes      []string
	Platforms         []string
	Goal              string
	BudgetRange       string
	ContactPreference string
}

func (p VisitorInquiryCreateRequest) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ValidationError("name is required")
	}
	if strings.TrimSpace(p.Email) == "" {
		return ValidationError("email is required")
	}
	if len(p.Message) == 0 {
		return ValidationError("message is required")
	}
	return nil
}

// ClientInquiryCreateRequest is the authenticated intake payload. The
// submitter identity comes from the session, not the body.
type ClientInquiryCreateRequest struct {
	UserID            string
	Message           string
	ContentTypes      []string
	Platforms         []string
	Goal              string
	BudgetRange       string
	ContactPreference string
}

func (p ClientInquiryCreateRequest) Validate() error {
	if p.UserID == "" {
		return ValidationError("user_id is required")
	}
	if len(p.Message) == 0 {
		return ValidationError("message is required")
	}
	return nil
}

// InquiryFilter controls admin list queries.
type InquiryFilter struct {
	Type     *InquiryType
	Statuses []InquiryStatus
	UserID   *string
	From     *time.Time
	To       *time.Time
	Limit    int // default 50
	Offset   int
	Desc     bool // order by created_at
}

// StatusChangeRequest is the admin status-transition payload.
type StatusChangeRequest struct {
	InquiryID   string
	InquiryType InquiryType
	Status      InquiryStatus
}

func (p StatusChangeRequest) Validate() error {
	if p.InquiryID == "" {
		return ValidationError("inquiry id is required")
	}
	if p.InquiryType != InquiryTypeVisitor && p.InquiryType != InquiryTypeClient {
		return ValidationError("inquiry type must be visitor or client")
	}
	if !p.Status.Known() {
		return ValidationError("unknown status")
	}
	return nil
}
