package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type NotificationService interface {
	ListForUser(ctx context.Context, userID string, isAdmin bool, f model.NotificationFilter) ([]model.NotificationView, int64, error)
	MarkRead(ctx context.Context, userID string, isAdmin bool, id string) error
	MarkUnread(ctx context.Context, userID string, isAdmin bool, id string) error
	Delete(ctx context.Context, userID string, isAdmin bool, id string) error
}

// NotificationHandler serves the bell dropdown for both roles; the session
// decides which shape the caller sees.
type NotificationHandler struct {
	svc NotificationService
}

func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{
		svc: notificationService,
	}
}

func RegisterNotificationRoutes(e *router.Group, h *NotificationHandler, m *session.Manager) {
	e.GET("/notifications", m.Authenticate(h.ListNotifications))
	e.PATCH("/notifications/{id}/read", m.Authenticate(h.MarkRead))
	e.PATCH("/notifications/{id}/unread", m.Authenticate(h.MarkUnread))
	e.DELETE("/notifications/{id}", m.Authenticate(h.DeleteNotification))
}

type notificationListResponse struct {
	Items       []model.NotificationView `json:"items"`
	UnreadCount int64                    `json:"unread_count"`
}

func (h *NotificationHandler) ListNotifications(ctx *xhttp.RequestCtx) {
	s := session.FromCtx(ctx)

	var f model.NotificationFilter
	if v := query(ctx, "unread_only"); v == "true" || v == "1" {
		f.UnreadOnly = true
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}
	if v := query(ctx, "offset"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Offset = n
		}
	}

	items, unread, err := h.svc.ListForUser(ctx, s.UserID, s.IsAdmin(), f)
	if err != nil {
		logger.Error("failed to list notifications", "user_id", s.UserID, "error", err)
		writeError(ctx, 500, "failed to list notifications")
		return
	}
	writeJSON(ctx, 200, notificationListResponse{Items: items, UnreadCount: unread})
}

func (h *NotificationHandler) MarkRead(ctx *xhttp.RequestCtx) {
	h.setRead(ctx, true)
}

func (h *NotificationHandler) MarkUnread(ctx *xhttp.RequestCtx) {
	h.setRead(ctx, false)
}

func (h *NotificationHandler) setRead(ctx *xhttp.RequestCtx, read bool) {
	s := session.FromCtx(ctx)
	id := param(ctx, "id")

	var err error
	if read {
		err = h.svc.MarkRead(ctx, s.UserID, s.IsAdmin(), id)
	} else {
		err = h.svc.MarkUnread(ctx, s.UserID, s.IsAdmin(), id)
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			writeError(ctx, 404, "notification not found")
			return
		}
		logger.Error("failed to flip notification read state", "notification_id", id, "error", err)
		writeError(ctx, 500, "failed to update notification")
		return
	}
	writeJSON(ctx, 200, map[string]any{"success": true})
}

func (h *NotificationHandler) DeleteNotification(ctx *xhttp.RequestCtx) {
	s := session.FromCtx(ctx)
	id := param(ctx, "id")

	if err := h.svc.Delete(ctx, s.UserID, s.IsAdmin(), id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			writeError(ctx, 404, "notification not found")
			return
		}
		logger.Error("failed to delete notification", "notification_id", id, "error", err)
		writeError(ctx, 500, "failed to delete notification")
		return
	}
	writeJSON(ctx, 200, map[string]any{"success": true})
}
