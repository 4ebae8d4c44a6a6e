package services

import (
	"context"
	"fmt"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type ResponseRepository interface {
	Create(ctx context.Context, resp *model.AdminResponse) (*model.AdminResponse, error)
	List(ctx context.Context, f model.ResponseFilter) ([]*model.AdminResponse, int64, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TicketRepository interface {
	Get(ctx context.Context, id string) (*model.SupportTicket, error)
	UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error
}

// ResponseService creates admin replies against support tickets. A response
// resolves its ticket; the optional notification email goes through the job
// table and the mailer, never inline.
type ResponseService struct {
	responseRepo ResponseRepository
	ticketRepo   TicketRepository
	profileRepo  ProfileRepository
	emailJobRepo EmailJobRepository
	jobs         JobPublisher
	audit        *AuditService
}

func NewResponseService(
	responseRepo ResponseRepository,
	ticketRepo TicketRepository,
	profileRepo ProfileRepository,
	emailJobRepo EmailJobRepository,
	jobs JobPublisher,
	audit *AuditService,
) *ResponseService {
	return &ResponseService{
		responseRepo: responseRepo,
		ticketRepo:   ticketRepo,
		profileRepo:  profileRepo,
		emailJobRepo: emailJobRepo,
		jobs:         jobs,
		audit:        audit,
	}
}

func (s *ResponseService) Create(ctx context.Context, p model.ResponseCreateRequest, actor Actor) (*model.AdminResponse, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	ticket, err := s.ticketRepo.Get(ctx, p.TicketID)
	if err != nil {
		return nil, err
	}

	var created *model.AdminResponse
	var job *model.EmailJob
	err = s.responseRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		created, err = s.responseRepo.Create(ctx, &model.AdminResponse{
			TicketID:     p.TicketID,
			AdminID:      p.AdminID,
			ResponseText: p.ResponseText,
			DownloadLink: p.DownloadLink,
		})
		if err != nil {
			return fmt.Errorf("create response: %w", err)
		}

		if err := s.ticketRepo.UpdateStatus(ctx, p.TicketID, model.TicketStatusResolved); err != nil {
			return fmt.Errorf("resolve ticket: %w", err)
		}

		if !p.SendEmail {
			return nil
		}

		owner, err := s.profileRepo.Get(ctx, ticket.UserID)
		if err != nil {
			logger.Warn("no profile for ticket owner, skipping email", "ticket_id", ticket.ID, "user_id", ticket.UserID)
			return nil
		}

		job, err = s.emailJobRepo.Create(ctx, &model.EmailJob{
			ResponseID:       &created.ID,
			RecipientID:      owner.ID,
			RecipientEmail:   owner.Email,
			RecipientName:    owner.FullName,
			NotificationType: string(model.InquiryStatusResponded),
		})
		if err != nil {
			return fmt.Errorf("insert email job: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if job != nil && s.jobs != nil {
		if _, err := s.jobs.Publish(ctx, queue.Envelope{JobID: job.ID, NotificationType: job.NotificationType}); err != nil {
			logger.Warn("failed to publish email job, sweep will pick it up", "job_id", job.ID, "error", err)
		}
	}

	s.audit.Record(ctx, &model.AuditEntry{
		AdminID:    actor.AdminID,
		Action:     model.AuditActionCreate,
		TargetType: model.AuditTargetResponse,
		TargetID:   created.ID,
		Changes:    fmt.Sprintf(`{"ticket_id":%q,"email_queued":%t}`, p.TicketID, job != nil),
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})

	return created, nil
}

func (s *ResponseService) List(ctx context.Context, f model.ResponseFilter) ([]*model.AdminResponse, int64, error) {
	return s.responseRepo.List(ctx, f)
}
