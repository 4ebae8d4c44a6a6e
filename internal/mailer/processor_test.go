package mailer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockEmailJobRepository struct {
	mock.Mock
}

func (m *MockEmailJobRepository) Get(ctx context.Context, id string) (*model.EmailJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailJob), args.Error(1)
}

func (m *MockEmailJobRepository) ClaimSending(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailJobRepository) MarkSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEmailJobRepository) MarkFailed(ctx context.Context, id string, errMsg string) (*model.EmailJob, error) {
	args := m.Called(ctx, id, errMsg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailJob), args.Error(1)
}

func (m *MockEmailJobRepository) ListQueuedOlderThan(ctx context.Context, minAge time.Duration, limit int) ([]*model.EmailJob, error) {
	args := m.Called(ctx, minAge, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.EmailJob), args.Error(1)
}

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) MarkEmailSent(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockStatusEmailer struct {
	mock.Mock
}

func (m *MockStatusEmailer) SendStatusEmail(ctx context.Context, clientEmail, clientName string, status model.InquiryStatus) (bool, error) {
	args := m.Called(ctx, clientEmail, clientName, status)
	return args.Bool(0), args.Error(1)
}

func queuedJob(id string) *model.EmailJob {
	return &model.EmailJob{
		ID:               id,
		RecipientID:      "client-1",
		RecipientEmail:   "ann@example.com",
		RecipientName:    "Ann",
		NotificationType: "responded",
		Status:           model.EmailJobStatusQueued,
		MaxRetries:       model.DefaultEmailJobMaxRetries,
	}
}

func newTestProcessor(t *testing.T) (*EmailProcessor, *MockEmailJobRepository, *MockResponseRepository, *MockStatusEmailer, *Guard) {
	mr, adapter := setupTestRedis(t)
	t.Cleanup(mr.Close)

	jobs := new(MockEmailJobRepository)
	responses := new(MockResponseRepository)
	emails := new(MockStatusEmailer)
	guard := NewGuard(adapter, DefaultGuardConfig())

	return NewEmailProcessor(jobs, responses, emails, guard), jobs, responses, emails, guard
}

func delivery(jobID string) *queue.Delivery {
	return &queue.Delivery{
		ID:       "1-0",
		Envelope: queue.Envelope{JobID: jobID, NotificationType: "responded"},
	}
}

func TestEmailProcessor_Process_Success(t *testing.T) {
	p, jobs, _, emails, guard := newTestProcessor(t)
	ctx := context.Background()

	jobs.On("Get", mock.Anything, "job-1").Return(queuedJob("job-1"), nil)
	jobs.On("ClaimSending", mock.Anything, "job-1").Return(nil)
	emails.On("SendStatusEmail", mock.Anything, "ann@example.com", "Ann", model.InquiryStatusResponded).Return(true, nil)
	jobs.On("MarkSent", mock.Anything, "job-1").Return(nil)

	err := p.Process(ctx, delivery("job-1"))
	require.NoError(t, err)

	jobs.AssertExpectations(t)
	emails.AssertExpectations(t)

	sent, err := guard.WasSent(ctx, "job-1")
	require.NoError(t, err)
	assert.True(t, sent)
}

func TestEmailProcessor_Process_ResponseJob_FlagsResponse(t *testing.T) {
	p, jobs, responses, emails, _ := newTestProcessor(t)

	respID := "resp-1"
	job := queuedJob("job-1")
	job.ResponseID = &respID

	jobs.On("Get", mock.Anything, "job-1").Return(job, nil)
	jobs.On("ClaimSending", mock.Anything, "job-1").Return(nil)
	emails.On("SendStatusEmail", mock.Anything, "ann@example.com", "Ann", model.InquiryStatusResponded).Return(true, nil)
	jobs.On("MarkSent", mock.Anything, "job-1").Return(nil)
	responses.On("MarkEmailSent", mock.Anything, "resp-1").Return(nil)

	err := p.Process(context.Background(), delivery("job-1"))
	require.NoError(t, err)

	responses.AssertExpectations(t)
}

func TestEmailProcessor_Process_DuplicateDelivery(t *testing.T) {
	p, jobs, _, emails, guard := newTestProcessor(t)
	ctx := context.Background()

	lock, err := guard.Acquire(ctx, "job-1")
	require.NoError(t, err)
	require.NoError(t, guard.MarkSent(ctx, lock))

	err = p.Process(ctx, delivery("job-1"))
	require.NoError(t, err)

	jobs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	emails.AssertNotCalled(t, "SendStatusEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmailProcessor_Process_LockHeld(t *testing.T) {
	p, jobs, _, _, guard := newTestProcessor(t)
	ctx := context.Background()

	_, err := guard.Acquire(ctx, "job-1")
	require.NoError(t, err)

	err = p.Process(ctx, delivery("job-1"))
	assert.ErrorIs(t, err, ErrLockHeld)

	jobs.AssertNotCalled(t, "ClaimSending", mock.Anything, mock.Anything)
}

func TestEmailProcessor_Process_JobRowGone(t *testing.T) {
	p, jobs, _, emails, guard := newTestProcessor(t)
	ctx := context.Background()

	jobs.On("Get", mock.Anything, "job-1").Return(nil, repository.ErrEmailJobNotFound)

	err := p.Process(ctx, delivery("job-1"))
	require.NoError(t, err)

	emails.AssertNotCalled(t, "SendStatusEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	// lock was released on the way out
	again, err := guard.Acquire(ctx, "job-1")
	require.NoError(t, err)
	assert.NotNil(t, again)
}

func TestEmailProcessor_Process_NotClaimable(t *testing.T) {
	p, jobs, _, emails, _ := newTestProcessor(t)

	job := queuedJob("job-1")
	job.Status = model.EmailJobStatusSent

	jobs.On("Get", mock.Anything, "job-1").Return(job, nil)
	jobs.On("ClaimSending", mock.Anything, "job-1").Return(repository.ErrJobNotClaimable)

	err := p.Process(context.Background(), delivery("job-1"))
	require.NoError(t, err)

	emails.AssertNotCalled(t, "SendStatusEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEmailProcessor_Process_SendFailure(t *testing.T) {
	p, jobs, _, emails, guard := newTestProcessor(t)
	ctx := context.Background()

	jobs.On("Get", mock.Anything, "job-1").Return(queuedJob("job-1"), nil)
	jobs.On("ClaimSending", mock.Anything, "job-1").Return(nil)
	emails.On("SendStatusEmail", mock.Anything, "ann@example.com", "Ann", model.InquiryStatusResponded).
		Return(false, errors.New("provider unavailable"))
	jobs.On("MarkFailed", mock.Anything, "job-1", "provider unavailable").Return(queuedJob("job-1"), nil)

	err := p.Process(ctx, delivery("job-1"))
	require.Error(t, err)

	jobs.AssertNotCalled(t, "MarkSent", mock.Anything, mock.Anything)

	// no sent marker, and the lock is free for the retry
	sent, err := guard.WasSent(ctx, "job-1")
	require.NoError(t, err)
	assert.False(t, sent)

	again, err := guard.Acquire(ctx, "job-1")
	require.NoError(t, err)
	assert.NotNil(t, again)
}

func TestEmailProcessor_Process_NoTemplate_CompletesJob(t *testing.T) {
	p, jobs, _, emails, _ := newTestProcessor(t)

	job := queuedJob("job-1")
	job.NotificationType = "archived"

	jobs.On("Get", mock.Anything, "job-1").Return(job, nil)
	jobs.On("ClaimSending", mock.Anything, "job-1").Return(nil)
	emails.On("SendStatusEmail", mock.Anything, "ann@example.com", "Ann", model.InquiryStatus("archived")).Return(false, nil)
	jobs.On("MarkSent", mock.Anything, "job-1").Return(nil)

	err := p.Process(context.Background(), delivery("job-1"))
	require.NoError(t, err)

	jobs.AssertExpectations(t)
}

func TestEmailProcessor_Process_EmptyJobID(t *testing.T) {
	p, jobs, _, _, _ := newTestProcessor(t)

	err := p.Process(context.Background(), &queue.Delivery{ID: "1-0"})
	require.NoError(t, err)

	jobs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}
