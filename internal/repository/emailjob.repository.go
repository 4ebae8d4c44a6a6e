package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/pg"
	"gorm.io/gorm"
)

var (
	ErrEmailJobNotFound = errors.New("email job not found")
	// ErrJobNotClaimable is returned when a conditional state change lost the
	// race, e.g. two workers marking the same queued job as sending.
	ErrJobNotClaimable = errors.New("email job not claimable")
)

type EmailJobRepository struct {
	*pg.DB
}

func NewEmailJobRepository(db *pg.DB) *EmailJobRepository {
	return &EmailJobRepository{
		db,
	}
}

func (r *EmailJobRepository) Create(ctx context.Context, job *model.EmailJob) (*model.EmailJob, error) {
	if job.MaxRetries == 0 {
		job.MaxRetries = model.DefaultEmailJobMaxRetries
	}
	if job.Status == "" {
		job.Status = model.EmailJobStatusQueued
	}
	entity := toEmailJobEntity(job)

	if err := r.Write(ctx).WithContext(ctx).Create(entity).Error; err != nil {
		return nil, err
	}

	return toEmailJobModel(entity), nil
}

func (r *EmailJobRepository) Get(ctx context.Context, id string) (*model.EmailJob, error) {
	var entity EmailJobEntity
	err := r.Read(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailJobNotFound
		}
		return nil, err
	}
	return toEmailJobModel(&entity), nil
}

func (r *EmailJobRepository) List(ctx context.Context, f model.EmailJobFilter) ([]*model.EmailJob, int64, error) {
	q := r.Read(ctx).WithContext(ctx).Model(&EmailJobEntity{})

	if len(f.Statuses) > 0 {
		statuses := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			statuses[i] = string(s)
		}
		q = q.Where("status IN ?", statuses)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	var entities []*EmailJobEntity
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&entities).Error; err != nil {
		return nil, 0, err
	}

	return toEmailJobModels(entities), total, nil
}

// ClaimSending moves queued → sending. The WHERE clause on the old status
// makes the claim atomic; a second worker gets ErrJobNotClaimable.
func (r *EmailJobRepository) ClaimSending(ctx context.Context, id string) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&EmailJobEntity{}).
		Where("id = ? AND status = ?", id, string(model.EmailJobStatusQueued)).
		Updates(map[string]interface{}{
			"status":     string(model.EmailJobStatusSending),
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrJobNotClaimable
	}
	return nil
}

func (r *EmailJobRepository) MarkSent(ctx context.Context, id string) error {
	now := time.Now()
	result := r.Write(ctx).WithContext(ctx).
		Model(&EmailJobEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(model.EmailJobStatusSent),
			"error_message": nil,
			"sent_at":       now,
			"updated_at":    now,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmailJobNotFound
	}
	return nil
}

// MarkFailed increments retry_count and records the provider error. The job
// goes back to queued while retries remain, otherwise it parks as failed.
func (r *EmailJobRepository) MarkFailed(ctx context.Context, id string, errMsg string) (*model.EmailJob, error) {
	var entity EmailJobEntity
	err := r.Write(ctx).WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailJobNotFound
		}
		return nil, err
	}

	entity.RetryCount++
	status := model.EmailJobStatusQueued
	if entity.RetryCount >= entity.MaxRetries {
		status = model.EmailJobStatusFailed
	}

	result := r.Write(ctx).WithContext(ctx).
		Model(&EmailJobEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(status),
			"retry_count":   entity.RetryCount,
			"error_message": errMsg,
			"updated_at":    time.Now(),
		})
	if result.Error != nil {
		return nil, result.Error
	}

	entity.Status = string(status)
	entity.ErrorMessage = &errMsg
	return toEmailJobModel(&entity), nil
}

// Requeue is the manual operator "Retry": failed → queued, retry budget and
// error reset. It does not publish anything; the sweep picks the row up.
func (r *EmailJobRepository) Requeue(ctx context.Context, id string) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&EmailJobEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(model.EmailJobStatusQueued),
			"retry_count":   0,
			"error_message": nil,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmailJobNotFound
	}
	return nil
}

// Skip is the manual operator "Skip": force-park the row as failed.
func (r *EmailJobRepository) Skip(ctx context.Context, id string, reason string) error {
	result := r.Write(ctx).WithContext(ctx).
		Model(&EmailJobEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        string(model.EmailJobStatusFailed),
			"error_message": reason,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEmailJobNotFound
	}
	return nil
}

// ListQueuedOlderThan returns queued jobs whose last update is at least
// minAge ago. The mailer sweep uses it to recover rows whose stream publish
// was lost and rows an operator has requeued.
func (r *EmailJobRepository) ListQueuedOlderThan(ctx context.Context, minAge time.Duration, limit int) ([]*model.EmailJob, error) {
	cutoff := time.Now().Add(-minAge)

	if limit <= 0 {
		limit = 100
	}

	var entities []*EmailJobEntity
	err := r.Read(ctx).WithContext(ctx).
		Where("status = ? AND updated_at < ?", string(model.EmailJobStatusQueued), cutoff).
		Order("updated_at ASC").
		Limit(limit).
		Find(&entities).Error
	if err != nil {
		return nil, err
	}

	return toEmailJobModels(entities), nil
}
