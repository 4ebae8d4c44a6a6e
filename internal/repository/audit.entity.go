package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiloops/portal-api/internal/model"
	"gorm.io/gorm"
)

type AuditEntryEntity struct {
	ID         string    `gorm:"primaryKey;type:uuid;column:id"`
	AdminID    string    `gorm:"column:admin_id;type:uuid;not null;index"`
	Action     string    `gorm:"column:action;not null;index"`
	TargetType string    `gorm:"column:target_type;not null"`
	TargetID   string    `gorm:"column:target_id"`
	Changes    string    `gorm:"column:changes"`
	IPAddress  string    `gorm:"column:ip_address"`
	UserAgent  string    `gorm:"column:user_agent"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime;index"`
}

func (AuditEntryEntity) TableName() string {
	return "admin_audit_log"
}

func (e *AuditEntryEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func toAuditEntity(m *model.AuditEntry) *AuditEntryEntity {
	if m == nil {
		return nil
	}
	return &AuditEntryEntity{
		ID:         m.ID,
		AdminID:    m.AdminID,
		Action:     m.Action,
		TargetType: m.TargetType,
		TargetID:   m.TargetID,
		Changes:    m.Changes,
		IPAddress:  m.IPAddress,
		UserAgent:  m.UserAgent,
		CreatedAt:  m.CreatedAt,
	}
}

func toAuditModel(e *AuditEntryEntity) *model.AuditEntry {
	if e == nil {
		return nil
	}
	return &model.AuditEntry{
		ID:         e.ID,
		AdminID:    e.AdminID,
		Action:     e.Action,
		TargetType: e.TargetType,
		TargetID:   e.TargetID,
		Changes:    e.Changes,
		IPAddress:  e.IPAddress,
		UserAgent:  e.UserAgent,
		CreatedAt:  e.CreatedAt,
	}
}
