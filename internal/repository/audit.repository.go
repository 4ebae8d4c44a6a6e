package repository

import (
	"context"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/pg"
)

type AuditRepository struct {
	*pg.DB
}

func NewAuditRepository(db *pg.DB) *AuditRepository {
	return &AuditRepository{
		db,
	}
}

// Create appends one audit row. Entries are never updated or deleted through
// the application.
func (r *AuditRepository) Create(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	entity := toAuditEntity(entry)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toAuditModel(entity), nil
}

func (r *AuditRepository) List(ctx context.Context, f model.AuditFilter) ([]*model.AuditEntry, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&AuditEntryEntity{})

	if f.AdminID != nil && *f.AdminID != "" {
		q = q.Where("admin_id = ?", *f.AdminID)
	}
	if f.Action != nil && *f.Action != "" {
		q = q.Where("action = ?", *f.Action)
	}
	if f.StartDate != nil {
		q = q.Where("created_at >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("created_at < ?", *f.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	page := f.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	var entities []*AuditEntryEntity
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*model.AuditEntry, len(entities))
	for i, e := range entities {
		out[i] = toAuditModel(e)
	}
	return out, total, nil
}
