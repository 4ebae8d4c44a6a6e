package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/lumiloops/portal-api/internal/model"
	"gorm.io/gorm"
)

type ProfileEntity struct {
	ID        string    `gorm:"primaryKey;type:uuid;column:id"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	FullName  string    `gorm:"column:full_name"`
	Role      string    `gorm:"column:role;not null;default:client;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ProfileEntity) TableName() string {
	return "profiles"
}

func (e *ProfileEntity) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

func toProfileModel(e *ProfileEntity) *model.Profile {
	if e == nil {
		return nil
	}
	return &model.Profile{
		ID:        e.ID,
		Email:     e.Email,
		FullName:  e.FullName,
		Role:      e.Role,
		CreatedAt: e.CreatedAt,
	}
}

func toProfileEntity(m *model.Profile) *ProfileEntity {
	if m == nil {
		return nil
	}
	return &ProfileEntity{
		ID:        m.ID,
		Email:     m.Email,
		FullName:  m.FullName,
		Role:      m.Role,
		CreatedAt: m.CreatedAt,
	}
}
