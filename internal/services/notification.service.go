package services

import (
	"context"

	"github.com/lumiloops/portal-api/internal/model"
)

// NotificationService backs the bell components. Both notification shapes
// collapse into model.NotificationView before leaving the service.
type NotificationService struct {
	notifRepo NotificationRepository
}

func NewNotificationService(notifRepo NotificationRepository) *NotificationService {
	return &NotificationService{
		notifRepo: notifRepo,
	}
}

// ListForUser returns the bell feed for one user plus the unread count across
// their whole scope. Admins see the admin-inquiry shape, clients the
// status-change shape.
func (s *NotificationService) ListForUser(ctx context.Context, userID string, isAdmin bool, f model.NotificationFilter) ([]model.NotificationView, int64, error) {
	f.UserID = userID

	if isAdmin {
		items, unread, err := s.notifRepo.ListAdmin(ctx, f)
		if err != nil {
			return nil, 0, err
		}
		views := make([]model.NotificationView, len(items))
		for i, n := range items {
			views[i] = model.Notification{Kind: model.NotificationKindAdmin, Admin: n}.Render()
		}
		return views, unread, nil
	}

	items, unread, err := s.notifRepo.ListClient(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	views := make([]model.NotificationView, len(items))
	for i, n := range items {
		views[i] = model.Notification{Kind: model.NotificationKindClient, Client: n}.Render()
	}
	return views, unread, nil
}

func kindFor(isAdmin bool) model.NotificationKind {
	if isAdmin {
		return model.NotificationKindAdmin
	}
	return model.NotificationKindClient
}

func (s *NotificationService) MarkRead(ctx context.Context, userID string, isAdmin bool, id string) error {
	return s.notifRepo.SetRead(ctx, kindFor(isAdmin), id, userID, true)
}

func (s *NotificationService) MarkUnread(ctx context.Context, userID string, isAdmin bool, id string) error {
	return s.notifRepo.SetRead(ctx, kindFor(isAdmin), id, userID, false)
}

func (s *NotificationService) Delete(ctx context.Context, userID string, isAdmin bool, id string) error {
	return s.notifRepo.Delete(ctx, kindFor(isAdmin), id, userID)
}
