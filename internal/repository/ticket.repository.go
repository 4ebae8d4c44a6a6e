package repository

import (
	"context"
	"errors"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrTicketNotFound = errors.New("support ticket not found")
)

type TicketRepository struct {
	*pg.DB
}

func NewTicketRepository(db *pg.DB) *TicketRepository {
	return &TicketRepository{
		db,
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *model.SupportTicket) (*model.SupportTicket, error) {
	entity := toTicketEntity(t)
	if entity.Status == "" {
		entity.Status = string(model.TicketStatusOpen)
	}

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toTicketModel(entity), nil
}

func (r *TicketRepository) Get(ctx context.Context, id string) (*model.SupportTicket, error) {
	var entity SupportTicketEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return toTicketModel(&entity), nil
}

func (r *TicketRepository) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&SupportTicketEntity{}).
		Where("id = ?", id).
		Update("status", string(status))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTicketNotFound
	}
	return nil
}
