package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type EmailJobRepository interface {
	Get(ctx context.Context, id string) (*model.EmailJob, error)
	ClaimSending(ctx context.Context, id string) error
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id string, errMsg string) (*model.EmailJob, error)
	ListQueuedOlderThan(ctx context.Context, minAge time.Duration, limit int) ([]*model.EmailJob, error)
}

type ResponseRepository interface {
	MarkEmailSent(ctx context.Context, id string) error
}

// StatusEmailer renders and sends the templated email for one status. sent
// is false with a nil error when the status has no template.
type StatusEmailer interface {
	SendStatusEmail(ctx context.Context, clientEmail, clientName string, status model.InquiryStatus) (sent bool, err error)
}

// EmailProcessor drains the email job queue. The stream entry is only a
// pointer; every decision is made against the job row, and the conditional
// queued→sending claim is what actually prevents double sends.
type EmailProcessor struct {
	jobs      EmailJobRepository
	responses ResponseRepository
	emails    StatusEmailer
	guard     *Guard
}

func NewEmailProcessor(jobs EmailJobRepository, responses ResponseRepository, emails StatusEmailer, guard *Guard) *EmailProcessor {
	return &EmailProcessor{
		jobs:      jobs,
		responses: responses,
		emails:    emails,
		guard:     guard,
	}
}

func (p *EmailProcessor) GetType() string {
	return "email"
}

// Process handles one delivery. A nil return acks the stream entry; an error
// leaves it pending for the reclaim pass.
func (p *EmailProcessor) Process(ctx context.Context, d *queue.Delivery) error {
	jobID := d.Envelope.JobID
	if jobID == "" {
		logger.Error("delivery carries no job id, dropping", "delivery_id", d.ID)
		return nil
	}

	lock, err := p.guard.Acquire(ctx, jobID)
	if err != nil {
		if errors.Is(err, ErrAlreadySent) {
			logger.Info("job already sent, skipping duplicate delivery", "job_id", jobID)
			return nil
		}
		if errors.Is(err, ErrLockHeld) {
			return err
		}
		logger.Error("failed to acquire dispatch lock", "job_id", jobID, "error", err)
		return err
	}

	defer func() {
		if lock.acquired {
			_ = p.guard.Release(ctx, lock)
		}
	}()

	job, err := p.jobs.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, repository.ErrEmailJobNotFound) {
			logger.Warn("job row gone, dropping delivery", "job_id", jobID)
			return nil
		}
		return err
	}

	if err := p.jobs.ClaimSending(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrJobNotClaimable) {
			// not queued anymore: sent by someone else, skipped, or parked
			logger.Info("job not claimable, skipping",
				"job_id", jobID,
				"status", job.Status)
			return nil
		}
		return err
	}

	logger.Info("sending email",
		"job_id", jobID,
		"notification_type", job.NotificationType,
		"recipient", job.RecipientEmail,
		"retry_count", job.RetryCount)

	sent, err := p.emails.SendStatusEmail(ctx, job.RecipientEmail, job.RecipientName, model.InquiryStatus(job.NotificationType))
	if err != nil {
		logger.Error("email send failed", "job_id", jobID, "error", err)
		if _, markErr := p.jobs.MarkFailed(ctx, jobID, err.Error()); markErr != nil {
			logger.Error("failed to record send failure", "job_id", jobID, "error", markErr)
		}
		return err
	}

	if !sent {
		// no template for this type; retrying will never help
		logger.Warn("no email template for notification type, completing job",
			"job_id", jobID,
			"notification_type", job.NotificationType)
	}

	if err := p.jobs.MarkSent(ctx, jobID); err != nil {
		logger.Error("failed to mark job sent", "job_id", jobID, "error", err)
		// the email went out; do not retry into a duplicate send
	}

	if job.ResponseID != nil {
		if err := p.responses.MarkEmailSent(ctx, *job.ResponseID); err != nil {
			logger.Warn("failed to flag response email as sent",
				"job_id", jobID,
				"response_id", *job.ResponseID,
				"error", err)
		}
	}

	if err := p.guard.MarkSent(ctx, lock); err != nil {
		logger.Warn("failed to set sent marker", "job_id", jobID, "error", err)
	}

	return nil
}
