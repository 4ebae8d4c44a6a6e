package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/lumiloops/portal-api/internal/model"
)

var ErrUnknownQueueAction = errors.New("action must be retry or skip")

// skipMessage is the fixed error text written by the Skip action.
const skipMessage = "Skipped by administrator"

type QueueRepository interface {
	Get(ctx context.Context, id string) (*model.EmailJob, error)
	List(ctx context.Context, f model.EmailJobFilter) ([]*model.EmailJob, int64, error)
	Requeue(ctx context.Context, id string) error
	Skip(ctx context.Context, id string, reason string) error
}

// QueueAdminService is the operator view over the email-job table. Its
// actions only rewrite rows; a requeued row is picked up by the mailer sweep.
type QueueAdminService struct {
	queueRepo QueueRepository
	audit     *AuditService
}

func NewQueueAdminService(queueRepo QueueRepository, audit *AuditService) *QueueAdminService {
	return &QueueAdminService{
		queueRepo: queueRepo,
		audit:     audit,
	}
}

func (s *QueueAdminService) List(ctx context.Context, f model.EmailJobFilter) ([]*model.EmailJob, int64, error) {
	return s.queueRepo.List(ctx, f)
}

// Actor identifies the admin performing a mutation, for the audit trail.
type Actor struct {
	AdminID   string
	IPAddress string
	UserAgent string
}

// Apply runs one manual action against one job row and appends an audit
// entry recording the before/after status.
func (s *QueueAdminService) Apply(ctx context.Context, actor Actor, jobID string, action model.QueueAction) (*model.EmailJob, error) {
	before, err := s.queueRepo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	switch action {
	case model.QueueActionRetry:
		err = s.queueRepo.Requeue(ctx, jobID)
	case model.QueueActionSkip:
		err = s.queueRepo.Skip(ctx, jobID, skipMessage)
	default:
		return nil, ErrUnknownQueueAction
	}
	if err != nil {
		return nil, err
	}

	after, err := s.queueRepo.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, &model.AuditEntry{
		AdminID:    actor.AdminID,
		Action:     model.AuditActionUpdate,
		TargetType: model.AuditTargetNotificationQueue,
		TargetID:   jobID,
		Changes:    fmt.Sprintf(`{"action":%q,"status":{"from":%q,"to":%q}}`, action, before.Status, after.Status),
		IPAddress:  actor.IPAddress,
		UserAgent:  actor.UserAgent,
	})

	return after, nil
}
