package model

import (
	"strings"
	"time"
)

// AdminResponse is a reply authored by an admin against a support ticket.
// Immutable after creation except for the tracking flags.
type AdminResponse struct {
	ID            string     `json:"id"`
	TicketID      string     `json:"ticket_id"`
	AdminID       string     `json:"admin_id"`
	ResponseText  string     `json:"response_text"`
	DownloadLink  *string    `json:"download_link,omitempty"`
	EmailSent     bool       `json:"email_sent"`
	EmailSentAt   *time.Time `json:"email_sent_at,omitempty"`
	ViewedByUser  bool       `json:"viewed_by_user"`
	ViewedAt      *time.Time `json:"viewed_at,omitempty"`
	LinkClicked   bool       `json:"link_clicked"`
	LinkClickedAt *time.Time `json:"link_clicked_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ResponseCreateRequest struct {
	TicketID     string
	AdminID      string
	ResponseText string
	DownloadLink *string
	SendEmail    bool
}

func (p ResponseCreateRequest) Validate() error {
	if p.TicketID == "" {
		return ValidationError("ticket_id is required")
	}
	if p.AdminID == "" {
		return ValidationError("admin_id is required")
	}
	if strings.TrimSpace(p.ResponseText) == "" {
		return ValidationError("response_text is required")
	}
	return nil
}

type ResponseFilter struct {
	TicketID *string
	Limit    int
	Offset   int
}
