package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiloops/portal-api/internal/model"
	"gorm.io/gorm"
)

type EmailJobEntity struct {
	ID               string     `gorm:"primaryKey;type:uuid;column:id"`
	InquiryID        *string    `gorm:"column:inquiry_id;type:uuid;index"`
	ResponseID       *string    `gorm:"column:response_id;type:uuid;index"`
	RecipientID      string     `gorm:"column:recipient_id;type:uuid"`
	RecipientEmail   string     `gorm:"column:recipient_email;not null"`
	RecipientName    string     `gorm:"column:recipient_name"`
	NotificationType string     `gorm:"column:notification_type;not null"`
	Status           string     `gorm:"column:status;not null;default:queued;index"`
	RetryCount       int        `gorm:"column:retry_count;not null;default:0"`
	MaxRetries       int        `gorm:"column:max_retries;not null;default:3"`
	ErrorMessage     *string    `gorm:"column:error_message"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time  `gorm:"column:updated_at;autoUpdateTime"`
	SentAt           *time.Time `gorm:"column:sent_at"`
}

func (EmailJobEntity) TableName() string {
	return "admin_notifications_queue"
}

func (e *EmailJobEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func toEmailJobEntity(m *model.EmailJob) *EmailJobEntity {
	if m == nil {
		return nil
	}
	return &EmailJobEntity{
		ID:               m.ID,
		InquiryID:        m.InquiryID,
		ResponseID:       m.ResponseID,
		RecipientID:      m.RecipientID,
		RecipientEmail:   m.RecipientEmail,
		RecipientName:    m.RecipientName,
		NotificationType: m.NotificationType,
		Status:           string(m.Status),
		RetryCount:       m.RetryCount,
		MaxRetries:       m.MaxRetries,
		ErrorMessage:     m.ErrorMessage,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
		SentAt:           m.SentAt,
	}
}

func toEmailJobModel(e *EmailJobEntity) *model.EmailJob {
	if e == nil {
		return nil
	}
	return &model.EmailJob{
		ID:               e.ID,
		InquiryID:        e.InquiryID,
		ResponseID:       e.ResponseID,
		RecipientID:      e.RecipientID,
		RecipientEmail:   e.RecipientEmail,
		RecipientName:    e.RecipientName,
		NotificationType: e.NotificationType,
		Status:           model.EmailJobStatus(e.Status),
		RetryCount:       e.RetryCount,
		MaxRetries:       e.MaxRetries,
		ErrorMessage:     e.ErrorMessage,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
		SentAt:           e.SentAt,
	}
}

func toEmailJobModels(entities []*EmailJobEntity) []*model.EmailJob {
	if entities == nil {
		return nil
	}
	models := make([]*model.EmailJob, len(entities))
	for i, e := range entities {
		models[i] = toEmailJobModel(e)
	}
	return models
}
