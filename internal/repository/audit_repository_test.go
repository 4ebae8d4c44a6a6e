package repository

import (
	"context"
	"testing"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRepository_Create(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAuditRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, &model.AuditEntry{
		AdminID:    testAdminID,
		Action:     model.AuditActionUpdate,
		TargetType: model.AuditTargetInquiry,
		TargetID:   "6a6b1f3a-9c3a-4e9e-8c8a-333333333333",
		Changes:    `{"status":{"from":"new","to":"viewed"}}`,
		IPAddress:  "203.0.113.7",
		UserAgent:  "Mozilla/5.0",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.NotZero(t, created.CreatedAt)
}

func TestAuditRepository_List(t *testing.T) {
	db := setupTestDB(t).DB
	repo := NewAuditRepository(db)
	ctx := context.Background()

	otherAdmin := "6a6b1f3a-9c3a-4e9e-8c8a-888888888888"
	entries := []*model.AuditEntry{
		{AdminID: testAdminID, Action: model.AuditActionUpdate, TargetType: model.AuditTargetInquiry, TargetID: "t1"},
		{AdminID: testAdminID, Action: model.AuditActionUpdate, TargetType: model.AuditTargetNotificationQueue, TargetID: "t2"},
		{AdminID: testAdminID, Action: model.AuditActionCreate, TargetType: model.AuditTargetResponse, TargetID: "t3"},
		{AdminID: otherAdmin, Action: model.AuditActionDelete, TargetType: model.AuditTargetTicket, TargetID: "t4"},
	}
	for _, e := range entries {
		_, err := repo.Create(ctx, e)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}

	t.Run("list all newest first", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.AuditFilter{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, items, 4)
		for i := 0; i < len(items)-1; i++ {
			assert.False(t, items[i].CreatedAt.Before(items[i+1].CreatedAt))
		}
	})

	t.Run("filter by admin", func(t *testing.T) {
		adminID := testAdminID
		items, total, err := repo.List(ctx, model.AuditFilter{AdminID: &adminID, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, items, 3)
	})

	t.Run("filter by action", func(t *testing.T) {
		action := model.AuditActionCreate
		items, total, err := repo.List(ctx, model.AuditFilter{Action: &action, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)
		assert.Equal(t, model.AuditTargetResponse, items[0].TargetType)
	})

	t.Run("filter by date range", func(t *testing.T) {
		start := time.Now().Add(-1 * time.Hour)
		end := time.Now().Add(1 * time.Hour)
		_, total, err := repo.List(ctx, model.AuditFilter{StartDate: &start, EndDate: &end, Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
	})

	t.Run("pagination", func(t *testing.T) {
		items, total, err := repo.List(ctx, model.AuditFilter{Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		assert.Len(t, items, 1)
	})

	t.Run("zero page treated as first", func(t *testing.T) {
		items, _, err := repo.List(ctx, model.AuditFilter{Page: 0, Limit: 2})
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})
}
