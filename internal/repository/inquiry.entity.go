package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiloops/portal-api/internal/model"
	"gorm.io/gorm"
)

type VisitorInquiryEntity struct {
	ID                string    `gorm:"primaryKey;type:uuid;column:id"`
	Name              string    `gorm:"column:name;not null"`
	Email             string    `gorm:"column:email;not null;index"`
	Message           string    `gorm:"column:message;not null"`
	ContentTypes      []string  `gorm:"column:content_types;serializer:json"`
	Platforms         []string  `gorm:"column:platforms;serializer:json"`
	Goal              string    `gorm:"column:goal"`
	BudgetRange       string    `gorm:"column:budget_range"`
	ContactPreference string    `gorm:"column:contact_preference"`
	Status            string    `gorm:"column:status;not null;default:new;index"`
	LinkedUserID      *string   `gorm:"column:linked_user_id;type:uuid"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (VisitorInquiryEntity) TableName() string {
	return "visitor_inquiries"
}

func (e *VisitorInquiryEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = string(model.InquiryStatusNew)
	}
	return nil
}

type ClientInquiryEntity struct {
	ID                string    `gorm:"primaryKey;type:uuid;column:id"`
	UserID            string    `gorm:"column:user_id;type:uuid;not null;index"`
	Message           string    `gorm:"column:message;not null"`
	ContentTypes      []string  `gorm:"column:content_types;serializer:json"`
	Platforms         []string  `gorm:"column:platforms;serializer:json"`
	Goal              string    `gorm:"column:goal"`
	BudgetRange       string    `gorm:"column:budget_range"`
	ContactPreference string    `gorm:"column:contact_preference"`
	Status            string    `gorm:"column:status;not null;default:new;index"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ClientInquiryEntity) TableName() string {
	return "client_inquiries"
}

func (e *ClientInquiryEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Status == "" {
		e.Status = string(model.InquiryStatusNew)
	}
	return nil
}

func toVisitorInquiryEntity(m *model.Inquiry) *VisitorInquiryEntity {
	if m == nil {
		return nil
	}
	return &VisitorInquiryEntity{
		ID:                m.ID,
		Name:              m.Name,
		Email:             m.Email,
		Message:           m.Message,
		ContentTypes:      m.ContentTypes,
		Platforms:         m.Platforms,
		Goal:              m.Goal,
		BudgetRange:       m.BudgetRange,
		ContactPreference: m.ContactPreference,
		Status:            string(m.Status),
		LinkedUserID:      m.LinkedUserID,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toVisitorInquiryModel(e *VisitorInquiryEntity) *model.Inquiry {
	if e == nil {
		return nil
	}
	return &model.Inquiry{
		ID:                e.ID,
		Type:              model.InquiryTypeVisitor,
		Name:              e.Name,
		Email:             e.Email,
		Message:           e.Message,
		ContentTypes:      e.ContentTypes,
		Platforms:         e.Platforms,
		Goal:              e.Goal,
		BudgetRange:       e.BudgetRange,
		ContactPreference: e.ContactPreference,
		Status:            model.InquiryStatus(e.Status),
		LinkedUserID:      e.LinkedUserID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

func toClientInquiryEntity(m *model.Inquiry) *ClientInquiryEntity {
	if m == nil {
		return nil
	}
	return &ClientInquiryEntity{
		ID:                m.ID,
		UserID:            m.UserID,
		Message:           m.Message,
		ContentTypes:      m.ContentTypes,
		Platforms:         m.Platforms,
		Goal:              m.Goal,
		BudgetRange:       m.BudgetRange,
		ContactPreference: m.ContactPreference,
		Status:            string(m.Status),
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}

func toClientInquiryModel(e *ClientInquiryEntity) *model.Inquiry {
	if e == nil {
		return nil
	}
	return &model.Inquiry{
		ID:                e.ID,
		Type:              model.InquiryTypeClient,
		UserID:            e.UserID,
		Message:           e.Message,
		ContentTypes:      e.ContentTypes,
		Platforms:         e.Platforms,
		Goal:              e.Goal,
		BudgetRange:       e.BudgetRange,
		ContactPreference: e.ContactPreference,
		Status:            model.InquiryStatus(e.Status),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}
