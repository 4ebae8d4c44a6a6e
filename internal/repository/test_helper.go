package repository

import (
	"testing"

	"github.com/lumiloops/portal-api/pkg/pg"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testDB struct {
	*pg.DB
	rawDB *gorm.DB
}

func setupTestDB(t *testing.T) *testDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&VisitorInquiryEntity{},
		&ClientInquiryEntity{},
		&ClientNotificationEntity{},
		&AdminInquiryNotificationEntity{},
		&EmailJobEntity{},
		&AdminResponseEntity{},
		&AuditEntryEntity{},
		&ProfileEntity{},
		&SupportTicketEntity{},
	)
	require.NoError(t, err)

	return &testDB{
		DB:    pg.NewSingle(db),
		rawDB: db,
	}
}
