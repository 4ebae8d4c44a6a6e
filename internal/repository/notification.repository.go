package repository

import (
	"context"
	"errors"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationRepository struct {
	*pg.DB
}

func NewNotificationRepository(db *pg.DB) *NotificationRepository {
	return &NotificationRepository{
		db,
	}
}

func (r *NotificationRepository) CreateClient(ctx context.Context, n *model.ClientNotification) (*model.ClientNotification, error) {
	entity := toClientNotificationEntity(n)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toClientNotificationModel(entity), nil
}

func (r *NotificationRepository) CreateAdmin(ctx context.Context, n *model.AdminInquiryNotification) (*model.AdminInquiryNotification, error) {
	entity := toAdminNotificationEntity(n)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toAdminNotificationModel(entity), nil
}

// ListClient returns a user's bell notifications newest first plus the
// unread count across the whole scope (not just the page).
func (r *NotificationRepository) ListClient(ctx context.Context, f model.NotificationFilter) ([]*model.ClientNotification, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&ClientNotificationEntity{}).Where("user_id = ?", f.UserID)
	if f.UnreadOnly {
		q = q.Where("read = ?", false)
	}

	var unread int64
	if err := r.Read(ctx).WithContext(ctx).Model(&ClientNotificationEntity{}).
		Where("user_id = ? AND read = ?", f.UserID, false).Count(&unread).Error; err != nil {
		return nil, 0, err
	}

	var entities []*ClientNotificationEntity
	if err := q.Order("created_at DESC").Limit(notifLimit(f.Limit)).Offset(f.Offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*model.ClientNotification, len(entities))
	for i, e := range entities {
		out[i] = toClientNotificationModel(e)
	}
	return out, unread, nil
}

func (r *NotificationRepository) ListAdmin(ctx context.Context, f model.NotificationFilter) ([]*model.AdminInquiryNotification, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&AdminInquiryNotificationEntity{}).Where("admin_id = ?", f.UserID)
	if f.UnreadOnly {
		q = q.Where("read = ?", false)
	}

	var unread int64
	if err := r.Read(ctx).WithContext(ctx).Model(&AdminInquiryNotificationEntity{}).
		Where("admin_id = ? AND read = ?", f.UserID, false).Count(&unread).Error; err != nil {
		return nil, 0, err
	}

	var entities []*AdminInquiryNotificationEntity
	if err := q.Order("created_at DESC").Limit(notifLimit(f.Limit)).Offset(f.Offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	out := make([]*model.AdminInquiryNotification, len(entities))
	for i, e := range entities {
		out[i] = toAdminNotificationModel(e)
	}
	return out, unread, nil
}

// SetRead flips the read flag on a single notification owned by userID.
func (r *NotificationRepository) SetRead(ctx context.Context, kind model.NotificationKind, id, userID string, read bool) error {
	q := r.Write(ctx).WithContext(ctx)
	switch kind {
	case model.NotificationKindClient:
		q = q.Model(&ClientNotificationEntity{}).Where("id = ? AND user_id = ?", id, userID)
	default:
		q = q.Model(&AdminInquiryNotificationEntity{}).Where("id = ? AND admin_id = ?", id, userID)
	}

	result := q.Update("read", read)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) Delete(ctx context.Context, kind model.NotificationKind, id, userID string) error {
	q := r.Write(ctx).WithContext(ctx)
	var result *gorm.DB
	switch kind {
	case model.NotificationKindClient:
		result = q.Where("id = ? AND user_id = ?", id, userID).Delete(&ClientNotificationEntity{})
	default:
		result = q.Where("id = ? AND admin_id = ?", id, userID).Delete(&AdminInquiryNotificationEntity{})
	}

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func notifLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}
