package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiloops/portal-api/internal/model"
	"gorm.io/gorm"
)

type SupportTicketEntity struct {
	ID        string    `gorm:"primaryKey;type:uuid;column:id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index"`
	Subject   string    `gorm:"column:subject;not null"`
	Message   string    `gorm:"column:message"`
	Status    string    `gorm:"column:status;not null;default:open;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SupportTicketEntity) TableName() string {
	return "support_tickets"
}

func (e *SupportTicketEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func toTicketModel(e *SupportTicketEntity) *model.SupportTicket {
	if e == nil {
		return nil
	}
	return &model.SupportTicket{
		ID:        e.ID,
		UserID:    e.UserID,
		Subject:   e.Subject,
		Message:   e.Message,
		Status:    model.TicketStatus(e.Status),
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func toTicketEntity(m *model.SupportTicket) *SupportTicketEntity {
	if m == nil {
		return nil
	}
	return &SupportTicketEntity{
		ID:        m.ID,
		UserID:    m.UserID,
		Subject:   m.Subject,
		Message:   m.Message,
		Status:    string(m.Status),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
