package handlers

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/fasthttp/router"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/internal/services"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type QueueAdminService interface {
	List(ctx context.Context, f model.EmailJobFilter) ([]*model.EmailJob, int64, error)
	Apply(ctx context.Context, actor services.Actor, jobID string, action model.QueueAction) (*model.EmailJob, error)
}

// QueueHandler is the notification-queue tab of the admin dashboard: the
// email-job rows plus the manual Retry and Skip buttons.
type QueueHandler struct {
	svc QueueAdminService
}

func NewQueueHandler(queueService QueueAdminService) *QueueHandler {
	return &QueueHandler{
		svc: queueService,
	}
}

func RegisterQueueRoutes(e *router.Group, h *QueueHandler, m *session.Manager) {
	e.GET("/admin/notifications", m.Authenticate(session.RequireAdmin(h.ListJobs)))
	e.PATCH("/admin/notifications/{id}", m.Authenticate(session.RequireAdmin(h.ApplyAction)))
}

type queueActionRequest struct {
	Action string `json:"action"`
}

type queueListResponse struct {
	Items []*model.EmailJob `json:"items"`
	Total int64             `json:"total"`
}

func (h *QueueHandler) ListJobs(ctx *xhttp.RequestCtx) {
	var f model.EmailJobFilter

	if v := query(ctx, "status"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Statuses = append(f.Statuses, model.EmailJobStatus(parts[i]))
			}
		}
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

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		logger.Error("failed to list email jobs", "error", err)
		writeError(ctx, 500, "failed to list email jobs")
		return
	}
	writeJSON(ctx, 200, queueListResponse{Items: items, Total: total})
}

func (h *QueueHandler) ApplyAction(ctx *xhttp.RequestCtx) {
	id := param(ctx, "id")

	var req queueActionRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	job, err := h.svc.Apply(ctx, actorFrom(ctx), id, model.QueueAction(req.Action))
	if err != nil {
		if errors.Is(err, repository.ErrEmailJobNotFound) {
			writeError(ctx, 404, "email job not found")
			return
		}
		if errors.Is(err, services.ErrUnknownQueueAction) {
			writeError(ctx, 400, err.Error())
			return
		}
		logger.Error("failed to apply queue action", "job_id", id, "action", req.Action, "error", err)
		writeError(ctx, 500, "failed to apply queue action")
		return
	}
	writeJSON(ctx, 200, job)
}
