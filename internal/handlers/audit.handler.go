package handlers

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"time"

	"github.com/fasthttp/router"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type AuditService interface {
	List(ctx context.Context, f model.AuditFilter) ([]*model.AuditEntry, int64, error)
	ExportCSV(ctx context.Context, w io.Writer, f model.AuditFilter) error
}

type AuditHandler struct {
	svc AuditService
}

func NewAuditHandler(auditService AuditService) *AuditHandler {
	return &AuditHandler{
		svc: auditService,
	}
}

func RegisterAuditRoutes(e *router.Group, h *AuditHandler, m *session.Manager) {
	e.GET("/admin/audit-log", m.Authenticate(session.RequireAdmin(h.ListAuditLog)))
}

type auditListResponse struct {
	Items []*model.AuditEntry `json:"items"`
	Total int64               `json:"total"`
	Page  int                 `json:"page"`
}

// ListAuditLog serves the audit table; format=csv switches to a CSV download
// of the same filtered view.
func (h *AuditHandler) ListAuditLog(ctx *xhttp.RequestCtx) {
	var f model.AuditFilter

	if v := query(ctx, "adminId"); v != "" {
		f.AdminID = &v
	}
	if v := query(ctx, "action"); v != "" {
		f.Action = &v
	}
	if v := query(ctx, "startDate"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.StartDate = &t
		}
	}
	if v := query(ctx, "endDate"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.EndDate = &t
		}
	}
	if v := query(ctx, "page"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Page = n
		}
	}
	if v := query(ctx, "limit"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			f.Limit = n
		}
	}

	if query(ctx, "format") == "csv" {
		var buf bytes.Buffer
		if err := h.svc.ExportCSV(ctx, &buf, f); err != nil {
			logger.Error("failed to export audit log", "error", err)
			writeError(ctx, 500, "failed to export audit log")
			return
		}
		filename := "audit-log-" + time.Now().Format("2006-01-02") + ".csv"
		ctx.Response.Header.Set("Content-Type", "text/csv; charset=utf-8")
		ctx.Response.Header.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		ctx.Response.SetStatusCode(200)
		ctx.Response.SetBody(buf.Bytes())
		return
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		logger.Error("failed to list audit log", "error", err)
		writeError(ctx, 500, "failed to list audit log")
		return
	}
	if f.Page < 1 {
		f.Page = 1
	}
	writeJSON(ctx, 200, auditListResponse{Items: items, Total: total, Page: f.Page})
}
