package handlers

import (
	"context"
	"errors"
	"strconv"

	"github.com/fasthttp/router"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/internal/services"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type ResponseService interface {
	Create(ctx context.Context, p model.ResponseCreateRequest, actor services.Actor) (*model.AdminResponse, error)
	List(ctx context.Context, f model.ResponseFilter) ([]*model.AdminResponse, int64, error)
}

type ResponseHandler struct {
	svc ResponseService
}

func NewResponseHandler(responseService ResponseService) *ResponseHandler {
	return &ResponseHandler{
		svc: responseService,
	}
}

func RegisterResponseRoutes(e *router.Group, h *ResponseHandler, m *session.Manager) {
	e.POST("/admin/responses", m.Authenticate(session.RequireAdmin(h.CreateResponse)))
	e.GET("/admin/responses", m.Authenticate(session.RequireAdmin(h.ListResponses)))
}

type createResponseRequest struct {
	TicketID     string  `json:"ticket_id"`
	ResponseText string  `json:"response_text"`
	DownloadLink *string `json:"download_link"`
	SendEmail    bool    `json:"send_email"`
}

type responseListResponse struct {
	Items []*model.AdminResponse `json:"items"`
	Total int64                  `json:"total"`
}

func (h *ResponseHandler) CreateResponse(ctx *xhttp.RequestCtx) {
	s := session.FromCtx(ctx)

	var req createResponseRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	resp, err := h.svc.Create(ctx, model.ResponseCreateRequest{
		TicketID:     req.TicketID,
		AdminID:      s.UserID,
		ResponseText: req.ResponseText,
		DownloadLink: req.DownloadLink,
		SendEmail:    req.SendEmail,
	}, actorFrom(ctx))
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			writeError(ctx, 404, "support ticket not found")
			return
		}
		if isValidation(err) {
			writeError(ctx, 400, err.Error())
			return
		}
		logger.Error("failed to create response", "ticket_id", req.TicketID, "error", err)
		writeError(ctx, 500, "failed to create response")
		return
	}
	writeJSON(ctx, 201, resp)
}

func (h *ResponseHandler) ListResponses(ctx *xhttp.RequestCtx) {
	var f model.ResponseFilter

	if v := query(ctx, "ticket_id"); v != "" {
		f.TicketID = &v
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
		logger.Error("failed to list responses", "error", err)
		writeError(ctx, 500, "failed to list responses")
		return
	}
	writeJSON(ctx, 200, responseListResponse{Items: items, Total: total})
}
