package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrResponseNotFound = errors.New("admin response not found")
)

type ResponseRepository struct {
	*pg.DB
}

func NewResponseRepository(db *pg.DB) *ResponseRepository {
	return &ResponseRepository{
		db,
	}
}

func (r *ResponseRepository) Create(ctx context.Context, resp *model.AdminResponse) (*model.AdminResponse, error) {
	entity := toResponseEntity(resp)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toResponseModel(entity), nil
}

func (r *ResponseRepository) Get(ctx context.Context, id string) (*model.AdminResponse, error) {
	var entity AdminResponseEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResponseNotFound
		}
		return nil, err
	}
	return toResponseModel(&entity), nil
}

func (r *ResponseRepository) List(ctx context.Context, f model.ResponseFilter) ([]*model.AdminResponse, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&AdminResponseEntity{})

	if f.TicketID != nil && *f.TicketID != "" {
		q = q.Where("ticket_id = ?", *f.TicketID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}

	var entities []*AdminResponseEntity
	if err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*model.AdminResponse, len(entities))
	for i, e := range entities {
		out[i] = toResponseModel(e)
	}
	return out, total, nil
}

// MarkEmailSent flips the tracking flag after the mailer delivers the
// response notification.
func (r *ResponseRepository) MarkEmailSent(ctx context.Context, id string) error {
	now := time.Now()
	result := r.Write(ctx).WithContext(ctx).
		Model(&AdminResponseEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"email_sent":    true,
			"email_sent_at": now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrResponseNotFound
	}
	return nil
}
