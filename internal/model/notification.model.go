package model

import "time"

// NotificationKind tags the union of the two bell-notification shapes.
type NotificationKind string

const (
	NotificationKindClient NotificationKind = "client"
	NotificationKindAdmin  NotificationKind = "admin_inquiry"
)

// ClientNotification is a status-change alert shown on the client bell.
type ClientNotification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	InquiryID string    `json:"inquiry_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	ActionURL string    `json:"action_url,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminInquiryNotification is a new-inquiry alert shown on the admin bell.
type AdminInquiryNotification struct {
	ID             string      `json:"id"`
	AdminID        string      `json:"admin_id"`
	InquiryID      string      `json:"inquiry_id"`
	InquiryType    InquiryType `json:"inquiry_type"`
	ClientName     string      `json:"client_name"`
	ClientEmail    string      `json:"client_email"`
	MessagePreview string      `json:"message_preview"`
	Read           bool        `json:"read"`
	CreatedAt      time.Time   `json:"created_at"`
}

// Notification is the tagged union over both shapes. Exactly one of Client
// and Admin is set, matching Kind.
type Notification struct {
	Kind   NotificationKind          `json:"kind"`
	Client *ClientNotification       `json:"-"`
	Admin  *AdminInquiryNotification `json:"-"`
}

// NotificationView is the single rendered form both kinds collapse into for
// bell components.
type NotificationView struct {
	ID        string           `json:"id"`
	Kind      NotificationKind `json:"kind"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	ActionURL string           `json:"action_url,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

// Render dispatches on the tag; the admin shape derives its title and deep
// link from the inquiry reference.
func (n Notification) Render() NotificationView {
	switch n.Kind {
	case NotificationKindClient:
		c := n.Client
		return NotificationView{
			ID:        c.ID,
			Kind:      n.Kind,
			Title:     c.Title,
			Message:   c.Message,
			ActionURL: c.ActionURL,
			Read:      c.Read,
			CreatedAt: c.CreatedAt,
		}
	case NotificationKindAdmin:
		a := n.Admin
		return NotificationView{
			ID:        a.ID,
			Kind:      n.Kind,
			Title:     "New inquiry from " + a.ClientName,
			Message:   a.MessagePreview,
			ActionURL: "/admin/inquiries/" + string(a.InquiryType) + "/" + a.InquiryID,
			Read:      a.Read,
			CreatedAt: a.CreatedAt,
		}
	}
	return NotificationView{}
}

// NotificationFilter controls bell list queries; scoped to one user.
type NotificationFilter struct {
	UserID     string
	UnreadOnly bool
	Limit      int
	Offset     int
}
