package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiloops/portal-api/internal/model"
	"gorm.io/gorm"
)

type AdminResponseEntity struct {
	ID            string     `gorm:"primaryKey;type:uuid;column:id"`
	TicketID      string     `gorm:"column:ticket_id;type:uuid;not null;index"`
	AdminID       string     `gorm:"column:admin_id;type:uuid;not null"`
	ResponseText  string     `gorm:"column:response_text;not null"`
	DownloadLink  *string    `gorm:"column:download_link"`
	EmailSent     bool       `gorm:"column:email_sent;not null;default:false"`
	EmailSentAt   *time.Time `gorm:"column:email_sent_at"`
	ViewedByUser  bool       `gorm:"column:viewed_by_user;not null;default:false"`
	ViewedAt      *time.Time `gorm:"column:viewed_at"`
	LinkClicked   bool       `gorm:"column:link_clicked;not null;default:false"`
	LinkClickedAt *time.Time `gorm:"column:link_clicked_at"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (AdminResponseEntity) TableName() string {
	return "admin_responses"
}

func (e *AdminResponseEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func toResponseEntity(m *model.AdminResponse) *AdminResponseEntity {
	if m == nil {
		return nil
	}
	return &AdminResponseEntity{
		ID:            m.ID,
		TicketID:      m.TicketID,
		AdminID:       m.AdminID,
		ResponseText:  m.ResponseText,
		DownloadLink:  m.DownloadLink,
		EmailSent:     m.EmailSent,
		EmailSentAt:   m.EmailSentAt,
		ViewedByUser:  m.ViewedByUser,
		ViewedAt:      m.ViewedAt,
		LinkClicked:   m.LinkClicked,
		LinkClickedAt: m.LinkClickedAt,
		CreatedAt:     m.CreatedAt,
	}
}

func toResponseModel(e *AdminResponseEntity) *model.AdminResponse {
	if e == nil {
		return nil
	}
	return &model.AdminResponse{
		ID:            e.ID,
		TicketID:      e.TicketID,
		AdminID:       e.AdminID,
		ResponseText:  e.ResponseText,
		DownloadLink:  e.DownloadLink,
		EmailSent:     e.EmailSent,
		EmailSentAt:   e.EmailSentAt,
		ViewedByUser:  e.ViewedByUser,
		ViewedAt:      e.ViewedAt,
		LinkClicked:   e.LinkClicked,
		LinkClickedAt: e.LinkClickedAt,
		CreatedAt:     e.CreatedAt,
	}
}
