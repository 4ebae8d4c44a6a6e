package services

import (
	"context"

	"github.com/lumiloops/portal-api/internal/email"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/queue"
	"github.com/stretchr/testify/mock"
)

type MockInquiryRepository struct {
	mock.Mock
}

func (m *MockInquiryRepository) CreateVisitor(ctx context.Context, inq *model.Inquiry) (*model.Inquiry, error) {
	args := m.Called(ctx, inq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) CreateClient(ctx context.Context, inq *model.Inquiry) (*model.Inquiry, error) {
	args := m.Called(ctx, inq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) Get(ctx context.Context, typ model.InquiryType, id string) (*model.Inquiry, error) {
	args := m.Called(ctx, typ, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Inquiry), args.Error(1)
}

func (m *MockInquiryRepository) UpdateStatus(ctx context.Context, typ model.InquiryType, id string, status model.InquiryStatus) error {
	args := m.Called(ctx, typ, id, status)
	return args.Error(0)
}

func (m *MockInquiryRepository) List(ctx context.Context, f model.InquiryFilter) ([]*model.Inquiry, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.Inquiry), args.Get(1).(int64), args.Error(2)
}

func (m *MockInquiryRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) CreateClient(ctx context.Context, n *model.ClientNotification) (*model.ClientNotification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ClientNotification), args.Error(1)
}

func (m *MockNotificationRepository) CreateAdmin(ctx context.Context, n *model.AdminInquiryNotification) (*model.AdminInquiryNotification, error) {
	args := m.Called(ctx, n)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminInquiryNotification), args.Error(1)
}

func (m *MockNotificationRepository) ListClient(ctx context.Context, f model.NotificationFilter) ([]*model.ClientNotification, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.ClientNotification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) ListAdmin(ctx context.Context, f model.NotificationFilter) ([]*model.AdminInquiryNotification, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.AdminInquiryNotification), args.Get(1).(int64), args.Error(2)
}

func (m *MockNotificationRepository) SetRead(ctx context.Context, kind model.NotificationKind, id, userID string, read bool) error {
	args := m.Called(ctx, kind, id, userID, read)
	return args.Error(0)
}

func (m *MockNotificationRepository) Delete(ctx context.Context, kind model.NotificationKind, id, userID string) error {
	args := m.Called(ctx, kind, id, userID)
	return args.Error(0)
}

type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Get(ctx context.Context, id string) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindAdmin(ctx context.Context) (*model.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

type MockEmailJobRepository struct {
	mock.Mock
}

func (m *MockEmailJobRepository) Create(ctx context.Context, job *model.EmailJob) (*model.EmailJob, error) {
	args := m.Called(ctx, job)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailJob), args.Error(1)
}

type MockJobPublisher struct {
	mock.Mock
}

func (m *MockJobPublisher) Publish(ctx context.Context, env queue.Envelope) (string, error) {
	args := m.Called(ctx, env)
	return args.String(0), args.Error(1)
}

type MockQueueRepository struct {
	mock.Mock
}

func (m *MockQueueRepository) Get(ctx context.Context, id string) (*model.EmailJob, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.EmailJob), args.Error(1)
}

func (m *MockQueueRepository) List(ctx context.Context, f model.EmailJobFilter) ([]*model.EmailJob, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.EmailJob), args.Get(1).(int64), args.Error(2)
}

func (m *MockQueueRepository) Requeue(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQueueRepository) Skip(ctx context.Context, id string, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Create(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AuditEntry), args.Error(1)
}

func (m *MockAuditRepository) List(ctx context.Context, f model.AuditFilter) ([]*model.AuditEntry, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.AuditEntry), args.Get(1).(int64), args.Error(2)
}

type MockResponseRepository struct {
	mock.Mock
}

func (m *MockResponseRepository) Create(ctx context.Context, resp *model.AdminResponse) (*model.AdminResponse, error) {
	args := m.Called(ctx, resp)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminResponse), args.Error(1)
}

func (m *MockResponseRepository) List(ctx context.Context, f model.ResponseFilter) ([]*model.AdminResponse, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*model.AdminResponse), args.Get(1).(int64), args.Error(2)
}

func (m *MockResponseRepository) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(ctx)
}

type MockTicketRepository struct {
	mock.Mock
}

func (m *MockTicketRepository) Get(ctx context.Context, id string) (*model.SupportTicket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SupportTicket), args.Error(1)
}

func (m *MockTicketRepository) UpdateStatus(ctx context.Context, id string, status model.TicketStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, toName string, msg email.Message) error {
	args := m.Called(ctx, to, toName, msg)
	return args.Error(0)
}
