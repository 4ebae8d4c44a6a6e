package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	// ErrInquiryNotFound is returned when an inquiry does not exist.
	ErrInquiryNotFound = errors.New("inquiry not found")
)

type InquiryRepository struct {
	*pg.DB
}

func NewInquiryRepository(db *pg.DB) *InquiryRepository {
	return &InquiryRepository{
		db,
	}
}

func (r *InquiryRepository) CreateVisitor(ctx context.Context, inq *model.Inquiry) (*model.Inquiry, error) {
	entity := toVisitorInquiryEntity(inq)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toVisitorInquiryModel(entity), nil
}

func (r *InquiryRepository) CreateClient(ctx context.Context, inq *model.Inquiry) (*model.Inquiry, error) {
	entity := toClientInquiryEntity(inq)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toClientInquiryModel(entity), nil
}

func (r *InquiryRepository) Get(ctx context.Context, typ model.InquiryType, id string) (*model.Inquiry, error) {
	switch typ {
	case model.InquiryTypeVisitor:
		var entity VisitorInquiryEntity
		err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInquiryNotFound
			}
			return nil, err
		}
		return toVisitorInquiryModel(&entity), nil
	default:
		var entity ClientInquiryEntity
		err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInquiryNotFound
			}
			return nil, err
		}
		return toClientInquiryModel(&entity), nil
	}
}

// UpdateStatus rewrites the status column unconditionally. Any status may
// replace any other; there is no transition table.
func (r *InquiryRepository) UpdateStatus(ctx context.Context, typ model.InquiryType, id string, status model.InquiryStatus) error {
	updates := map[string]interface{}{
		"status":     string(status),
		"updated_at": time.Now(),
	}

	var result *gorm.DB
	if typ == model.InquiryTypeVisitor {
		result = r.Write(ctx).WithContext(ctx).Model(&VisitorInquiryEntity{}).Where("id = ?", id).Updates(updates)
	} else {
		result = r.Write(ctx).WithContext(ctx).Model(&ClientInquiryEntity{}).Where("id = ?", id).Updates(updates)
	}

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

// LinkUser attaches a registered account to a visitor inquiry submitted
// before the account existed.
func (r *InquiryRepository) LinkUser(ctx context.Context, visitorInquiryID, userID string) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&VisitorInquiryEntity{}).
		Where("id = ?", visitorInquiryID).
		Update("linked_user_id", userID)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInquiryNotFound
	}
	return nil
}

func (r *InquiryRepository) List(ctx context.Context, f model.InquiryFilter) ([]*model.Inquiry, int64, error) {
	if f.Type != nil && *f.Type == model.InquiryTypeVisitor {
		return r.listVisitor(ctx, f)
	}
	if f.Type != nil && *f.Type == model.InquiryTypeClient {
		return r.listClient(ctx, f)
	}

	// no type filter: merge both tables, newest first
	visitors, vTotal, err := r.listVisitor(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	clients, cTotal, err := r.listClient(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	merged := append(visitors, clients...)
	sortInquiries(merged, f.Desc)
	return merged, vTotal + cTotal, nil
}

func (r *InquiryRepository) listVisitor(ctx context.Context, f model.InquiryFilter) ([]*model.Inquiry, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&VisitorInquiryEntity{})
	q = applyInquiryFilter(q, f)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entities []*VisitorInquiryEntity
	if err := q.Order(inquiryOrder(f.Desc)).Limit(inquiryLimit(f.Limit)).Offset(inquiryOffset(f.Offset)).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*model.Inquiry, len(entities))
	for i, e := range entities {
		out[i] = toVisitorInquiryModel(e)
	}
	return out, total, nil
}

func (r *InquiryRepository) listClient(ctx context.Context, f model.InquiryFilter) ([]*model.Inquiry, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&ClientInquiryEntity{})
	q = applyInquiryFilter(q, f)
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entities []*ClientInquiryEntity
	if err := q.Order(inquiryOrder(f.Desc)).Limit(inquiryLimit(f.Limit)).Offset(inquiryOffset(f.Offset)).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*model.Inquiry, len(entities))
	for i, e := range entities {
		out[i] = toClientInquiryModel(e)
	}
	return out, total, nil
}

func applyInquiryFilter(q *gorm.DB, f model.InquiryFilter) *gorm.DB {
	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	return q
}

func inquiryOrder(desc bool) string {
	if desc {
		return "created_at DESC"
	}
	return "created_at ASC"
}

func inquiryLimit(limit int) int {
	if limit <= 0 || limit > 1000 {
		return 50
	}
	return limit
}

func inquiryOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

func sortInquiries(items []*model.Inquiry, desc bool) {
	sort.Slice(items, func(i, j int) bool {
		if desc {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
}
