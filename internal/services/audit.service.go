package services

import (
	"context"
	"encoding/csv"
	"io"
	"time"

	"github.com/lumiloops/portal-api/internal/model"
	"github.com/lumiloops/portal-api/pkg/logger"
)

type AuditRepository interface {
	Create(ctx context.Context, entry *model.AuditEntry) (*model.AuditEntry, error)
	List(ctx context.Context, f model.AuditFilter) ([]*model.AuditEntry, int64, error)
}

type AuditService struct {
	auditRepo AuditRepository
}

func NewAuditService(auditRepo AuditRepository) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
	}
}

// Record appends an audit row. Best-effort: a failed insert is logged and
// swallowed so it never blocks the action being audited.
func (s *AuditService) Record(ctx context.Context, entry *model.AuditEntry) {
	if _, err := s.auditRepo.Create(ctx, entry); err != nil {
		logger.Error("failed to write audit entry",
			"admin_id", entry.AdminID,
			"action", entry.Action,
			"target_type", entry.TargetType,
			"target_id", entry.TargetID,
			"error", err)
	}
}

func (s *AuditService) List(ctx context.Context, f model.AuditFilter) ([]*model.AuditEntry, int64, error) {
	return s.auditRepo.List(ctx, f)
}

var csvHeader = []string{"ID", "Admin ID", "Action", "Target Type", "Target ID", "Changes", "IP Address", "User Agent", "Created At"}

// ExportCSV streams the filtered audit log as RFC 4180 CSV. One exported row
// per row the equivalent JSON query would return.
func (s *AuditService) ExportCSV(ctx context.Context, w io.Writer, f model.AuditFilter) error {
	entries, _, err := s.auditRepo.List(ctx, f)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, e := range entries {
		record := []string{
			e.ID,
			e.AdminID,
			e.Action,
			e.TargetType,
			e.TargetID,
			e.Changes,
			e.IPAddress,
			e.UserAgent,
			e.CreatedAt.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
