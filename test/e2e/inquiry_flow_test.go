package e2e

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lumiloops/portal-api/internal/email"
	"github.com/lumiloops/portal-api/internal/mailer"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/internal/services"
	"github.com/lumiloops/portal-api/pkg/pg"
	"github.com/lumiloops/portal-api/pkg/redis"
	"github.com/lumiloops/portal-api/test/fixtures"
	"github.com/lumiloops/portal-api/test/helpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentEmail struct {
	To      string
	ToName  string
	Subject string
}

// recordingSender stands in for the provider client so dispatch flows run
// without a network.
type recordingSender struct {
	mu   sync.Mutex
	sent []sentEmail
	fail error
}

func (r *recordingSender) Send(ctx context.Context, to, toName string, msg email.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail != nil {
		return r.fail
	}
	r.sent = append(r.sent, sentEmail{To: to, ToName: toName, Subject: msg.Subject})
	return nil
}

func (r *recordingSender) SetFailure(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fail = err
}

func (r *recordingSender) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func (r *recordingSender) Last() sentEmail {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sent[len(r.sent)-1]
}

type TestEnvironment struct {
	DB           *pg.DB
	Redis        *miniredis.Miniredis
	RedisAdapter redis.RedisAdapter
	Queue        *queue.Queue

	ProfileRepo  *repository.ProfileRepository
	InquiryRepo  *repository.InquiryRepository
	NotifRepo    *repository.NotificationRepository
	EmailJobRepo *repository.EmailJobRepository
	AuditRepo    *repository.AuditRepository
	TicketRepo   *repository.TicketRepository
	ResponseRepo *repository.ResponseRepository

	AuditService    *services.AuditService
	InquiryService  *services.InquiryService
	NotifService    *services.NotificationService
	QueueAdmin      *services.QueueAdminService
	ResponseService *services.ResponseService
	EmailService    *services.EmailService

	Sender    *recordingSender
	Guard     *mailer.Guard
	Processor *mailer.EmailProcessor
}

func setupE2EEnvironment(t *testing.T) *TestEnvironment {
	db := helpers.SetupTestDB(t)
	mr, adapter := helpers.SetupTestRedis(t)

	q, err := queue.New(adapter, queue.Config{
		Name:              "test:email-jobs",
		ConsumerGroup:     "test-group",
		ConsumerName:      "test-consumer",
		MaxRetries:        3,
		VisibilityTimeout: 5 * time.Second,
		PollInterval:      100 * time.Millisecond,
		BatchSize:         10,
		MaxLen:            1000,
		EnableDLQ:         true,
	})
	require.NoError(t, err)

	profileRepo := repository.NewProfileRepository(db)
	inquiryRepo := repository.NewInquiryRepository(db)
	notifRepo := repository.NewNotificationRepository(db)
	emailJobRepo := repository.NewEmailJobRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	responseRepo := repository.NewResponseRepository(db)

	auditService := services.NewAuditService(auditRepo)
	inquiryService := services.NewInquiryService(inquiryRepo, notifRepo, profileRepo, emailJobRepo, q)
	notifService := services.NewNotificationService(notifRepo)
	queueAdmin := services.NewQueueAdminService(emailJobRepo, auditService)
	responseService := services.NewResponseService(responseRepo, ticketRepo, profileRepo, emailJobRepo, q, auditService)

	sender := &recordingSender{}
	emailService := services.NewEmailService(sender, "https://lumiloops.test")
	guard := mailer.NewGuard(adapter, mailer.DefaultGuardConfig())
	processor := mailer.NewEmailProcessor(emailJobRepo, responseRepo, emailService, guard)

	return &TestEnvironment{
		DB:              db,
		Redis:           mr,
		RedisAdapter:    adapter,
		Queue:           q,
		ProfileRepo:     profileRepo,
		InquiryRepo:     inquiryRepo,
		NotifRepo:       notifRepo,
		EmailJobRepo:    emailJobRepo,
		AuditRepo:       auditRepo,
		TicketRepo:      ticketRepo,
		ResponseRepo:    responseRepo,
		AuditService:    auditService,
		InquiryService:  inquiryService,
		NotifService:    notifService,
		QueueAdmin:      queueAdmin,
		ResponseService: responseService,
		EmailService:    emailService,
		Sender:          sender,
		Guard:           guard,
		Processor:       processor,
	}
}

func (env *TestEnvironment) Cleanup() {
	// Stop queue first (gracefully drain in-flight entries)
	if env.Queue != nil {
		_ = env.Queue.Stop(5 * time.Second)
	}
	time.Sleep(100 * time.Millisecond)
	if env.Redis != nil {
		env.Redis.Close()
	}
}

func (env *TestEnvironment) queuedJobs(t *testing.T) []*model.EmailJob {
	jobs, _, err := env.EmailJobRepo.List(context.Background(), model.EmailJobFilter{
		Statuses: []model.EmailJobStatus{model.EmailJobStatusQueued},
		Limit:    50,
	})
	require.NoError(t, err)
	return jobs
}

func TestE2E_VisitorInquiryNotifiesAdmin(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	admin := helpers.CreateTestAdmin(t, env.DB)

	inq, err := env.InquiryService.CreateVisitor(ctx, fixtures.NewVisitorInquiryRequest(
		"Ann Chen", "ann@example.com", "We need a launch video for our new app."))
	require.NoError(t, err)
	assert.NotEmpty(t, inq.ID)
	assert.Equal(t, model.InquiryStatusNew, inq.Status)

	views, unread, err := env.NotifService.ListForUser(ctx, admin.ID, true, model.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, model.NotificationKindAdmin, views[0].Kind)
	assert.False(t, views[0].Read)
}

func TestE2E_ClientStatusChangeFanout(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	helpers.CreateTestAdmin(t, env.DB)
	client := helpers.CreateTestClient(t, env.DB, "ann@example.com", "Ann Chen")

	inq, err := env.InquiryService.CreateClient(ctx, fixtures.NewClientInquiryRequest(
		client.ID, "Can we add a second revision round?"))
	require.NoError(t, err)

	err = env.InquiryService.ChangeStatus(ctx, fixtures.NewStatusChangeRequest(
		model.InquiryTypeClient, inq.ID, model.InquiryStatusResponded))
	require.NoError(t, err)

	updated, err := env.InquiryService.Get(ctx, model.InquiryTypeClient, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusResponded, updated.Status)

	views, unread, err := env.NotifService.ListForUser(ctx, client.ID, false, model.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, "New Response", views[0].Title)

	jobs := env.queuedJobs(t)
	require.Len(t, jobs, 1)
	assert.Equal(t, client.ID, jobs[0].RecipientID)
	assert.Equal(t, "ann@example.com", jobs[0].RecipientEmail)
	assert.Equal(t, string(model.InquiryStatusResponded), jobs[0].NotificationType)

	stats, err := env.Queue.GetStats()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, stats.TotalEntries, int64(1))
}

func TestE2E_VisitorStatusChangeIsSilent(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	inq := helpers.CreateTestVisitorInquiry(t, env.DB, "Ben Ortiz", "ben@example.com", "Quote for a product teaser?")

	err := env.InquiryService.ChangeStatus(ctx, fixtures.NewStatusChangeRequest(
		model.InquiryTypeVisitor, inq.ID, model.InquiryStatusViewed))
	require.NoError(t, err)

	updated, err := env.InquiryService.Get(ctx, model.InquiryTypeVisitor, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusViewed, updated.Status)

	assert.Empty(t, env.queuedJobs(t))

	stats, err := env.Queue.GetStats()
	require.NoError(t, err)
	assert.Zero(t, stats.TotalEntries)
}

func TestE2E_SilentStatusSkipsEmail(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	client := helpers.CreateTestClient(t, env.DB, "ben@example.com", "Ben Ortiz")
	inq := helpers.CreateTestClientInquiry(t, env.DB, client.ID, "Out of budget this quarter.")

	err := env.InquiryService.ChangeStatus(ctx, fixtures.NewStatusChangeRequest(
		model.InquiryTypeClient, inq.ID, model.InquiryStatusRejected))
	require.NoError(t, err)

	// the bell still rings with the generic copy, but no email goes out
	views, _, err := env.NotifService.ListForUser(ctx, client.ID, false, model.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Inquiry Updated", views[0].Title)

	assert.Empty(t, env.queuedJobs(t))
}

func TestE2E_UnknownStatusRejected(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	inq := helpers.CreateTestVisitorInquiry(t, env.DB, "Ann Chen", "ann@example.com", "Hello")

	err := env.InquiryService.ChangeStatus(ctx, model.StatusChangeRequest{
		InquiryID:   inq.ID,
		InquiryType: model.InquiryTypeVisitor,
		Status:      "archived",
	})
	assert.Error(t, err)

	updated, err := env.InquiryService.Get(ctx, model.InquiryTypeVisitor, inq.ID)
	require.NoError(t, err)
	assert.Equal(t, model.InquiryStatusNew, updated.Status)
}

func TestE2E_NotificationReadFlow(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	client := helpers.CreateTestClient(t, env.DB, "ann@example.com", "Ann Chen")
	inq := helpers.CreateTestClientInquiry(t, env.DB, client.ID, "Schedule question")

	err := env.InquiryService.ChangeStatus(ctx, fixtures.NewStatusChangeRequest(
		model.InquiryTypeClient, inq.ID, model.InquiryStatusScheduled))
	require.NoError(t, err)

	views, unread, err := env.NotifService.ListForUser(ctx, client.ID, false, model.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, views, 1)
	require.Equal(t, int64(1), unread)

	err = env.NotifService.MarkRead(ctx, client.ID, false, views[0].ID)
	require.NoError(t, err)

	_, unread, err = env.NotifService.ListForUser(ctx, client.ID, false, model.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	assert.Zero(t, unread)

	// another user cannot flip someone else's notification
	err = env.NotifService.MarkUnread(ctx, "someone-else", false, views[0].ID)
	assert.Error(t, err)

	err = env.NotifService.Delete(ctx, client.ID, false, views[0].ID)
	require.NoError(t, err)

	views, _, err = env.NotifService.ListForUser(ctx, client.ID, false, model.NotificationFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestE2E_StatusChangeEnvelopeOnStream(t *testing.T) {
	env := setupE2EEnvironment(t)
	defer env.Cleanup()

	ctx := context.Background()
	client := helpers.CreateTestClient(t, env.DB, "ann@example.com", "Ann Chen")
	inq := helpers.CreateTestClientInquiry(t, env.DB, client.ID, "Ready for review?")

	err := env.InquiryService.ChangeStatus(ctx, fixtures.NewStatusChangeRequest(
		model.InquiryTypeClient, inq.ID, model.InquiryStatusCompleted))
	require.NoError(t, err)

	jobs := env.queuedJobs(t)
	require.Len(t, jobs, 1)

	received := make(chan queue.Envelope, 1)
	err = env.Queue.Consume(func(ctx context.Context, d *queue.Delivery) error {
		received <- d.Envelope
		return nil
	})
	require.NoError(t, err)

	select {
	case env2 := <-received:
		assert.Equal(t, jobs[0].ID, env2.JobID)
		assert.Equal(t, string(model.InquiryStatusCompleted), env2.NotificationType)
	case <-time.After(3 * time.Second):
		t.Fatal("envelope not consumed within timeout")
	}
}
