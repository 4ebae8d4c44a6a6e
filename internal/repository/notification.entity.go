package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiloops/portal-api/internal/model"
	"gorm.io/gorm"
)

type ClientNotificationEntity struct {
	ID        string    `gorm:"primaryKey;type:uuid;column:id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	InquiryID string    `gorm:"column:inquiry_id;type:uuid;index"`
	Title     string    `gorm:"column:title;not null"`
	Message   string    `gorm:"column:message;not null"`
	Type      string    `gorm:"column:type"`
	ActionURL string    `gorm:"column:action_url"`
	Read      bool      `gorm:"column:read;not null;default:false;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ClientNotificationEntity) TableName() string {
	return "client_notifications"
}

func (e *ClientNotificationEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type AdminInquiryNotificationEntity struct {
	ID             string    `gorm:"primaryKey;type:uuid;column:id"`
	AdminID        string    `gorm:"column:admin_id;type:uuid;not null;index"`
	InquiryID      string    `gorm:"column:inquiry_id;type:uuid;not null;index"`
	InquiryType    string    `gorm:"column:inquiry_type;not null"`
	ClientName     string    `gorm:"column:client_name"`
	ClientEmail    string    `gorm:"column:client_email"`
	MessagePreview string    `gorm:"column:message_preview"`
	Read           bool      `gorm:"column:read;not null;default:false;index"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AdminInquiryNotificationEntity) TableName() string {
	return "admin_inquiry_notifications"
}

func (e *AdminInquiryNotificationEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func toClientNotificationEntity(m *model.ClientNotification) *ClientNotificationEntity {
	if m == nil {
		return nil
	}
	return &ClientNotificationEntity{
		ID:        m.ID,
		UserID:    m.UserID,
		InquiryID: m.InquiryID,
		Title:     m.Title,
		Message:   m.Message,
		Type:      m.Type,
		ActionURL: m.ActionURL,
		Read:      m.Read,
		CreatedAt: m.CreatedAt,
	}
}

func toClientNotificationModel(e *ClientNotificationEntity) *model.ClientNotification {
	if e == nil {
		return nil
	}
	return &model.ClientNotification{
		ID:        e.ID,
		UserID:    e.UserID,
		InquiryID: e.InquiryID,
		Title:     e.Title,
		Message:   e.Message,
		Type:      e.Type,
		ActionURL: e.ActionURL,
		Read:      e.Read,
		CreatedAt: e.CreatedAt,
	}
}

func toAdminNotificationEntity(m *model.AdminInquiryNotification) *AdminInquiryNotificationEntity {
	if m == nil {
		return nil
	}
	return &AdminInquiryNotificationEntity{
		ID:             m.ID,
		AdminID:        m.AdminID,
		InquiryID:      m.InquiryID,
		InquiryType:    string(m.InquiryType),
		ClientName:     m.ClientName,
		ClientEmail:    m.ClientEmail,
		MessagePreview: m.MessagePreview,
		Read:           m.Read,
		CreatedAt:      m.CreatedAt,
	}
}

func toAdminNotificationModel(e *AdminInquiryNotificationEntity) *model.AdminInquiryNotification {
	if e == nil {
		return nil
	}
	return &model.AdminInquiryNotification{
		ID:             e.ID,
		AdminID:        e.AdminID,
		InquiryID:      e.InquiryID,
		InquiryType:    model.InquiryType(e.InquiryType),
		ClientName:     e.ClientName,
		ClientEmail:    e.ClientEmail,
		MessagePreview: e.MessagePreview,
		Read:           e.Read,
		CreatedAt:      e.CreatedAt,
	}
}
