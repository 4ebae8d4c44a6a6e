package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"github.com/fasthttp/router"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type InquiryService interface {
	CreateVisitor(ctx context.Context, p model.VisitorInquiryCreateRequest) (*model.Inquiry, error)
	CreateClient(ctx context.Context, p model.ClientInquiryCreateRequest) (*model.Inquiry, error)
	Get(ctx context.Context, typ model.InquiryType, id string) (*model.Inquiry, error)
	List(ctx context.Context, f model.InquiryFilter) ([]*model.Inquiry, int64, error)
	ChangeStatus(ctx context.Context, p model.StatusChangeRequest) error
}

type AuditRecorder interface {
	Record(ctx context.Context, entry *model.AuditEntry)
}

type InquiryHandler struct {
	svc   InquiryService
	audit AuditRecorder
}

func NewInquiryHandler(inquiryService InquiryService, audit AuditRecorder) *InquiryHandler {
	return &InquiryHandler{
		svc:   inquiryService,
		audit: audit,
	}
}

func RegisterInquiryRoutes(e *router.Group, h *InquiryHandler, m *session.Manager) {
	e.POST("/inquiries/visitor", h.CreateVisitorInquiry)
	e.POST("/inquiries", m.Authenticate(h.CreateClientInquiry))
	e.GET("/admin/inquiries", m.Authenticate(session.RequireAdmin(h.ListInquiries)))
	e.GET("/admin/inquiries/{type}/{id}", m.Authenticate(session.RequireAdmin(h.GetInquiry)))
	e.PATCH("/admin/inquiries/{type}/{id}/status", m.Authenticate(session.RequireAdmin(h.ChangeStatus)))
}

type createInquiryRequest struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Message           string   `json:"message"`
	ContentTypes      []string `json:"content_types"`
	Platforms         []string `json:"platforms"`
	Goal              string   `json:"goal"`
	BudgetRange       string   `json:"budget_range"`
	ContactPreference string   `json:"contact_preference"`
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

type inquiryListResponse struct {
	Items []*model.Inquiry `json:"items"`
	Total int64            `json:"total"`
}

// CreateVisitorInquiry is the public contact form. No session required.
func (h *InquiryHandler) CreateVisitorInquiry(ctx *xhttp.RequestCtx) {
	var req createInquiryRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	inq, err := h.svc.CreateVisitor(ctx, model.VisitorInquiryCreateRequest{
		Name:              req.Name,
		Email:             req.Email,
		Message:           req.Message,
		ContentTypes:      req.ContentTypes,
		Platforms:         req.Platforms,
		Goal:              req.Goal,
		BudgetRange:       req.BudgetRange,
		ContactPreference: req.ContactPreference,
	})
	if err != nil {
		if isValidation(err) {
			writeError(ctx, 400, err.Error())
			return
		}
		logger.Error("failed to store visitor inquiry", "error", err)
		writeError(ctx, 500, "Failed to store inquiry")
		return
	}
	writeJSON(ctx, 201, map[string]any{"success": true, "message": "Inquiry submitted successfully", "id": inq.ID})
}

// CreateClientInquiry is the portal intake form. The submitter identity
// comes from the session, never the body.
func (h *InquiryHandler) CreateClientInquiry(ctx *xhttp.RequestCtx) {
	s := session.FromCtx(ctx)

	var req createInquiryRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	inq, err := h.svc.CreateClient(ctx, model.ClientInquiryCreateRequest{
		UserID:            s.UserID,
		Message:           req.Message,
		ContentTypes:      req.ContentTypes,
		Platforms:         req.Platforms,
		Goal:              req.Goal,
		BudgetRange:       req.BudgetRange,
		ContactPreference: req.ContactPreference,
	})
	if err != nil {
		if isValidation(err) {
			writeError(ctx, 400, err.Error())
			return
		}
		logger.Error("failed to store client inquiry", "user_id", s.UserID, "error", err)
		writeError(ctx, 500, "Failed to store inquiry")
		return
	}
	writeJSON(ctx, 201, map[string]any{"success": true, "message": "Inquiry submitted successfully", "id": inq.ID})
}

func (h *InquiryHandler) ListInquiries(ctx *xhttp.RequestCtx) {
	var f model.InquiryFilter

	if v := query(ctx, "type"); v != "" {
		typ := model.InquiryType(v)
		f.Type = &typ
	}
	if v := query(ctx, "status"); v != "" {
		parts := strings.Split(v, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] != "" {
				f.Statuses = append(f.Statuses, model.InquiryStatus(parts[i]))
			}
		}
	}
	if v := query(ctx, "user_id"); v != "" {
		f.UserID = &v
	}
	if v := query(ctx, "from"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.From = &t
		}
	}
	if v := query(ctx, "to"); v != "" {
		if t, e := parseTime(v); e == nil {
			f.To = &t
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
	if strings.EqualFold(query(ctx, "order"), "desc") {
		f.Desc = true
	}

	items, total, err := h.svc.List(ctx, f)
	if err != nil {
		logger.Error("failed to list inquiries", "error", err)
		writeError(ctx, 500, "failed to list inquiries")
		return
	}
	writeJSON(ctx, 200, inquiryListResponse{Items: items, Total: total})
}

func (h *InquiryHandler) GetInquiry(ctx *xhttp.RequestCtx) {
	typ := model.InquiryType(param(ctx, "type"))
	id := param(ctx, "id")

	inq, err := h.svc.Get(ctx, typ, id)
	if err != nil {
		if errors.Is(err, repository.ErrInquiryNotFound) {
			writeError(ctx, 404, "inquiry not found")
			return
		}
		logger.Error("failed to load inquiry", "inquiry_id", id, "error", err)
		writeError(ctx, 500, "failed to load inquiry")
		return
	}
	writeJSON(ctx, 200, inq)
}

// ChangeStatus applies an admin transition and appends the audit entry with
// the before/after status.
func (h *InquiryHandler) ChangeStatus(ctx *xhttp.RequestCtx) {
	typ := model.InquiryType(param(ctx, "type"))
	id := param(ctx, "id")

	var req changeStatusRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	before, err := h.svc.Get(ctx, typ, id)
	if err != nil {
		if errors.Is(err, repository.ErrInquiryNotFound) {
			writeError(ctx, 404, "inquiry not found")
			return
		}
		logger.Error("failed to load inquiry", "inquiry_id", id, "error", err)
		writeError(ctx, 500, "failed to load inquiry")
		return
	}

	p := model.StatusChangeRequest{
		InquiryID:   id,
		InquiryType: typ,
		Status:      model.InquiryStatus(req.Status),
	}
	if err := h.svc.ChangeStatus(ctx, p); err != nil {
		if errors.Is(err, repository.ErrInquiryNotFound) {
			writeError(ctx, 404, "inquiry not found")
			return
		}
		if isValidation(err) {
			writeError(ctx, 400, err.Error())
			return
		}
		logger.Error("failed to update inquiry status", "inquiry_id", id, "error", err)
		writeError(ctx, 500, "failed to update status")
		return
	}

	actor := actorFrom(ctx)
	changes, _ := json.Marshal(map[string]any{
		"inquiry_type": typ,
		"status":       map[string]string{"from": string(before.Status), "to": req.Status},
	})
	h.audit.Record(ctx, &model.AuditEntry{
		AdminID:    actor.AdminID,
		Action:     model.AuditActionUpdate,
		TargetType: model.AuditTargetInquiry,
		TargetID:   id,
		Changes:    string(changes),
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})

	writeJSON(ctx, 200, map[string]any{"success": true, "status": req.Status})
}
