package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/internal/repository"
	"github.com/lumiloops/portal-api/pkg/pg"
	"github.com/lumiloops/portal-api/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.ProfileEntity{},
		&repository.VisitorInquiryEntity{},
		&repository.ClientInquiryEntity{},
		&repository.ClientNotificationEntity{},
		&repository.AdminInquiryNotificationEntity{},
		&repository.EmailJobEntity{},
		&repository.SupportTicketEntity{},
		&repository.AdminResponseEntity{},
		&repository.AuditEntryEntity{},
	)
	require.NoError(t, err)

	return pg.NewSingle(db)
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	// Use unique connection name per test to avoid global adapter caching issues
	connName := t.Name() + "-" + mr.Addr()
	adapter, err := redis.NewRedisAdapter(connName, "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestProfile(t *testing.T, db *pg.DB, email, fullName, role string) *model.Profile {
	ctx := context.Background()
	profile, err := repository.NewProfileRepository(db).Create(ctx, &model.Profile{
		Email:    email,
		FullName: fullName,
		Role:     role,
	})
	require.NoError(t, err)
	return profile
}

func CreateTestAdmin(t *testing.T, db *pg.DB) *model.Profile {
	return CreateTestProfile(t, db, "admin@lumiloops.test", "Studio Admin", model.RoleAdmin)
}

func CreateTestClient(t *testing.T, db *pg.DB, email, fullName string) *model.Profile {
	return CreateTestProfile(t, db, email, fullName, model.RoleClient)
}

func CreateTestVisitorInquiry(t *testing.T, db *pg.DB, name, email, message string) *model.Inquiry {
	ctx := context.Background()
	inq, err := repository.NewInquiryRepository(db).CreateVisitor(ctx, &model.Inquiry{
		Type:    model.InquiryTypeVisitor,
		Name:    name,
		Email:   email,
		Message: message,
	})
	require.NoError(t, err)
	return inq
}

func CreateTestClientInquiry(t *testing.T, db *pg.DB, userID, message string) *model.Inquiry {
	ctx := context.Background()
	inq, err := repository.NewInquiryRepository(db).CreateClient(ctx, &model.Inquiry{
		Type:    model.InquiryTypeClient,
		UserID:  userID,
		Message: message,
	})
	require.NoError(t, err)
	return inq
}

func CreateTestEmailJob(t *testing.T, db *pg.DB, recipientID, recipientEmail, recipientName, notificationType string) *model.EmailJob {
	ctx := context.Background()
	job, err := repository.NewEmailJobRepository(db).Create(ctx, &model.EmailJob{
		RecipientID:      recipientID,
		RecipientEmail:   recipientEmail,
		RecipientName:    recipientName,
		NotificationType: notificationType,
	})
	require.NoError(t, err)
	return job
}

func CreateTestTicket(t *testing.T, db *pg.DB, userID, subject, message string) *model.SupportTicket {
	ctx := context.Background()
	ticket, err := repository.NewTicketRepository(db).Create(ctx, &model.SupportTicket{
		UserID:  userID,
		Subject: subject,
		Message: message,
		Status:  model.TicketStatusOpen,
	})
	require.NoError(t, err)
	return ticket
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
