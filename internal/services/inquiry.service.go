package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/lumiloops/portal-api/pkg/logger"
)

var (
	ErrInquiryNotFound = errors.New("inquiry not found")
	ErrUnknownStatus   = errors.New("unknown status")
)

type InquiryRepository interface {
	CreateVisitor(ctx context.Context, inq *model.Inquiry) (*model.Inquiry, error)
	CreateClient(ctx context.Context, inq *model.Inquiry) (*model.Inquiry, error)
	Get(ctx context.Context, typ model.InquiryType, id string) (*model.Inquiry, error)
	UpdateStatus(ctx context.Context, typ model.InquiryType, id string, status model.InquiryStatus) error
	List(ctx context.Context, f model.InquiryFilter) ([]*model.Inquiry, int64, error)
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type NotificationRepository interface {
	CreateClient(ctx context.Context, n *model.ClientNotification) (*model.ClientNotification, error)
	CreateAdmin(ctx context.Context, n *model.AdminInquiryNotification) (*model.AdminInquiryNotification, error)
	ListClient(ctx context.Context, f model.NotificationFilter) ([]*model.ClientNotification, int64, error)
	ListAdmin(ctx context.Context, f model.NotificationFilter) ([]*model.AdminInquiryNotification, int64, error)
	SetRead(ctx context.Context, kind model.NotificationKind, id, userID string, read bool) error
	Delete(ctx context.Context, kind model.NotificationKind, id, userID string) error
}

type ProfileRepository interface {
	Get(ctx context.Context, id string) (*model.Profile, error)
	FindAdmin(ctx context.Context) (*model.Profile, error)
}

type EmailJobRepository interface {
	Create(ctx context.Context, job *model.EmailJob) (*model.EmailJob, error)
}

// JobPublisher pushes a job reference onto the mailer stream.
type JobPublisher interface {
	Publish(ctx context.Context, env queue.Envelope) (string, error)
}

// bellCopy is the static per-status copy for client bell notifications.
type bellCopy struct {
	Title   string
	Message string
}

var statusBellCopy = map[model.InquiryStatus]bellCopy{
	model.InquiryStatusViewed:     {"Inquiry Viewed", "Your inquiry has been reviewed by our team."},
	model.InquiryStatusInProgress: {"Project In Progress", "Work on your project has started."},
	model.InquiryStatusResponded:  {"New Response", "We've responded to your inquiry."},
	model.InquiryStatusScheduled:  {"Project Scheduled", "Your project has been scheduled."},
	model.InquiryStatusCompleted:  {"Project Completed", "Your project is complete."},
}

var genericBellCopy = bellCopy{"Inquiry Updated", "The status of your inquiry has been updated."}

// emailStatuses is the set of transitions that produce an outbound email.
var emailStatuses = map[model.InquiryStatus]struct{}{
	model.InquiryStatusViewed:     {},
	model.InquiryStatusInProgress: {},
	model.InquiryStatusResponded:  {},
	model.InquiryStatusScheduled:  {},
	model.InquiryStatusCompleted:  {},
}

type InquiryService struct {
	inquiryRepo  InquiryRepository
	notifRepo    NotificationRepository
	profileRepo  ProfileRepository
	emailJobRepo EmailJobRepository
	jobs         JobPublisher
}

func NewInquiryService(
	inquiryRepo InquiryRepository,
	notifRepo NotificationRepository,
	profileRepo ProfileRepository,
	emailJobRepo EmailJobRepository,
	jobs JobPublisher,
) *InquiryService {
	return &InquiryService{
		inquiryRepo:  inquiryRepo,
		notifRepo:    notifRepo,
		profileRepo:  profileRepo,
		emailJobRepo: emailJobRepo,
		jobs:         jobs,
	}
}

// CreateVisitor handles the unauthenticated intake form. The admin bell
// insert is best-effort: its failure never fails the intake.
func (s *InquiryService) CreateVisitor(ctx context.Context, p model.VisitorInquiryCreateRequest) (*model.Inquiry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.inquiryRepo.CreateVisitor(ctx, &model.Inquiry{
		Type:              model.InquiryTypeVisitor,
		Name:              p.Name,
		Email:             p.Email,
		Message:           p.Message,
		ContentTypes:      p.ContentTypes,
		Platforms:         p.Platforms,
		Goal:              p.Goal,
		BudgetRange:       p.BudgetRange,
		ContactPreference: p.ContactPreference,
	})
	if err != nil {
		return nil, fmt.Errorf("create visitor inquiry: %w", err)
	}

	s.notifyAdmin(ctx, created, p.Name, p.Email)

	return created, nil
}

// CreateClient handles the authenticated intake form. The submitter identity
// comes from the session.
func (s *InquiryService) CreateClient(ctx context.Context, p model.ClientInquiryCreateRequest) (*model.Inquiry, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	created, err := s.inquiryRepo.CreateClient(ctx, &model.Inquiry{
		Type:              model.InquiryTypeClient,
		UserID:            p.UserID,
		Message:           p.Message,
		ContentTypes:      p.ContentTypes,
		Platforms:         p.Platforms,
		Goal:              p.Goal,
		BudgetRange:       p.BudgetRange,
		ContactPreference: p.ContactPreference,
	})
	if err != nil {
		return nil, fmt.Errorf("create client inquiry: %w", err)
	}

	name, email := "", ""
	if profile, err := s.profileRepo.Get(ctx, p.UserID); err == nil {
		name, email = profile.FullName, profile.Email
	}
	s.notifyAdmin(ctx, created, name, email)

	return created, nil
}

func (s *InquiryService) notifyAdmin(ctx context.Context, inq *model.Inquiry, clientName, clientEmail string) {
	admin, err := s.profileRepo.FindAdmin(ctx)
	if err != nil {
		logger.Warn("no admin to notify about new inquiry", "inquiry_id", inq.ID, "error", err)
		return
	}

	_, err = s.notifRepo.CreateAdmin(ctx, &model.AdminInquiryNotification{
		AdminID:        admin.ID,
		InquiryID:      inq.ID,
		InquiryType:    inq.Type,
		ClientName:     clientName,
		ClientEmail:    clientEmail,
		MessagePreview: preview(inq.Message, 140),
	})
	if err != nil {
		logger.Error("failed to insert admin inquiry notification", "inquiry_id", inq.ID, "error", err)
	}
}

func (s *InquiryService) Get(ctx context.Context, typ model.InquiryType, id string) (*model.Inquiry, error) {
	return s.inquiryRepo.Get(ctx, typ, id)
}

func (s *InquiryService) List(ctx context.Context, f model.InquiryFilter) ([]*model.Inquiry, int64, error) {
	return s.inquiryRepo.List(ctx, f)
}

// ChangeStatus applies an admin status transition. The status column accepts
// any value of the status domain from any other, unconditionally.
//
// For client inquiries the status update, the bell notification insert and
// the email job row are written in one transaction; the stream publish that
// wakes the mailer is best-effort afterwards, since the mailer also sweeps
// queued rows from the table.
func (s *InquiryService) ChangeStatus(ctx context.Context, p model.StatusChangeRequest) error {
	if err := p.Validate(); err != nil {
		return err
	}

	inq, err := s.inquiryRepo.Get(ctx, p.InquiryType, p.InquiryID)
	if err != nil {
		return err
	}

	if p.InquiryType != model.InquiryTypeClient {
		return s.inquiryRepo.UpdateStatus(ctx, p.InquiryType, p.InquiryID, p.Status)
	}

	var job *model.EmailJob
	err = s.inquiryRepo.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.inquiryRepo.UpdateStatus(ctx, p.InquiryType, p.InquiryID, p.Status); err != nil {
			return err
		}

		bc, ok := statusBellCopy[p.Status]
		if !ok {
			bc = genericBellCopy
		}
		_, err := s.notifRepo.CreateClient(ctx, &model.ClientNotification{
			UserID:    inq.UserID,
			InquiryID: inq.ID,
			Title:     bc.Title,
			Message:   bc.Message,
			Type:      "status_change",
			ActionURL: "/portal/inquiries",
		})
		if err != nil {
			return fmt.Errorf("insert client notification: %w", err)
		}

		if _, wantsEmail := emailStatuses[p.Status]; !wantsEmail {
			return nil
		}

		profile, err := s.profileRepo.Get(ctx, inq.UserID)
		if err != nil {
			logger.Warn("no profile for inquiry owner, skipping email", "inquiry_id", inq.ID, "user_id", inq.UserID)
			return nil
		}

		job, err = s.emailJobRepo.Create(ctx, &model.EmailJob{
			InquiryID:        &inq.ID,
			RecipientID:      profile.ID,
			RecipientEmail:   profile.Email,
			RecipientName:    profile.FullName,
			NotificationType: string(p.Status),
		})
		if err != nil {
			return fmt.Errorf("insert email job: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if job != nil && s.jobs != nil {
		if _, err := s.jobs.Publish(ctx, queue.Envelope{JobID: job.ID, NotificationType: job.NotificationType}); err != nil {
			logger.Warn("failed to publish email job, sweep will pick it up", "job_id", job.ID, "error", err)
		}
	}

	return nil
}

func preview(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
