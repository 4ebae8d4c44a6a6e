package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lumiloops/portal-api/internal/email"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/prom"
)

var ErrMissingEmailFields = errors.New("clientEmail, clientName and status are required")

// EmailService is the stateless dispatch path: status in, rendered email out
// the door, no rows touched. Retries live entirely in the mailer pipeline.
type EmailService struct {
	sender  email.Sender
	baseURL string
}

func NewEmailService(sender email.Sender, baseURL string) *EmailService {
	return &EmailService{
		sender:  sender,
		baseURL: baseURL,
	}
}

// SendStatusEmail maps the status through the template table and sends. A
// status outside the table is a silent no-op, reported via sent=false and a
// nil error.
func (s *EmailService) SendStatusEmail(ctx context.Context, clientEmail, clientName string, status model.InquiryStatus) (sent bool, err error) {
	if strings.TrimSpace(clientEmail) == "" || strings.TrimSpace(clientName) == "" || status == "" {
		return false, ErrMissingEmailFields
	}

	msg, ok := email.Render(status, clientName, s.baseURL)
	if !ok {
		return false, nil
	}

	start := time.Now()
	if err := s.sender.Send(ctx, clientEmail, clientName, msg); err != nil {
		prom.IncEmailsFailed(string(status))
		return false, err
	}

	prom.AddEmailSendDuration(time.Since(start).Seconds(), string(status))
	prom.IncEmailsSent(string(status))
	return true, nil
}
