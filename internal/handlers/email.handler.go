package handlers

import (
	"context"
	"errors"

	"github.com/fasthttp/router"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/services"
	"github.com/lumiloops/portal-api/internal/session"
	xhttp "github.com/lumiloops/portal-api/pkg/http"
)

type EmailService interface {
	SendStatusEmail(ctx context.Context, clientEmail, clientName string, status model.InquiryStatus) (sent bool, err error)
}

// EmailHandler is the synchronous send endpoint used by the admin dashboard
// when it wants an email out immediately, bypassing the queue.
type EmailHandler struct {
	svc EmailService
}

func NewEmailHandler(emailService EmailService) *EmailHandler {
	return &EmailHandler{
		svc: emailService,
	}
}

func RegisterEmailRoutes(e *router.Group, h *EmailHandler, m *session.Manager) {
	e.POST("/send-inquiry-email", m.Authenticate(session.RequireAdmin(h.SendInquiryEmail)))
}

type sendInquiryEmailRequest struct {
	ClientEmail string `json:"clientEmail"`
	ClientName  string `json:"clientName"`
	Status      string `json:"status"`
}

func (h *EmailHandler) SendInquiryEmail(ctx *xhttp.RequestCtx) {
	var req sendInquiryEmailRequest
	if err := readJSON(ctx, &req); err != nil {
		writeError(ctx, 400, "invalid JSON: "+err.Error())
		return
	}

	sent, err := h.svc.SendStatusEmail(ctx, req.ClientEmail, req.ClientName, model.InquiryStatus(req.Status))
	if err != nil {
		if errors.Is(err, services.ErrMissingEmailFields) {
			writeError(ctx, 400, err.Error())
			return
		}
		writeError(ctx, 500, "failed to send email: "+err.Error())
		return
	}

	if !sent {
		writeJSON(ctx, 200, map[string]any{"success": true, "message": "No email needed for this status"})
		return
	}
	writeJSON(ctx, 200, map[string]any{"success": true, "message": "Email sent"})
}
