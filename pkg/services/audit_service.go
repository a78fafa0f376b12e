package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
)

// AuditService appends to and queries the system audit trail. Appends are
// deliberately infallible from the caller's point of view: a failed audit
// write is logged and swallowed so it can never block or reverse the
// primary operation.
type AuditService interface {
	// Record appends an audit entry. Never returns an error.
	Record(ctx context.Context, actor Actor, action, module, description string)

	// Query returns entries matching the filter, newest first. Date-only
	// bounds are inclusive of the whole day.
	Query(ctx context.Context, filter models.AuditLogFilter) ([]*models.AuditLogEntry, error)

	// Recent returns the latest entries across all modules.
	Recent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error)
}

type auditService struct {
	repo   repositories.AuditLogRepository
	logger *zap.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(repo repositories.AuditLogRepository, logger *zap.Logger) AuditService {
	return &auditService{
		repo:   repo,
		logger: logger.Named("audit-service"),
	}
}

var _ AuditService = (*auditService)(nil)

func (s *auditService) Record(ctx context.Context, actor Actor, action, module, description string) {
	entry := &models.AuditLogEntry{
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		Action:      action,
		Module:      module,
		Description: description,
		IP:          actor.IP,
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Error("Failed to create audit log entry",
			zap.String("action", action),
			zap.String("module", module),
			zap.Int64("actor_id", actor.ID),
			zap.Error(err))
	}
}

func (s *auditService) Query(ctx context.Context, filter models.AuditLogFilter) ([]*models.AuditLogEntry, error) {
	entries, err := s.repo.Query(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to query audit log", zap.Error(err))
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	return entries, nil
}

func (s *auditService) Recent(ctx context.Context, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.Query(ctx, models.AuditLogFilter{Limit: limit})
}

// ExpandDateRange widens date-only bounds to cover the full days, matching
// the filter contract: "2024-01-01" means from 00:00:00, and as an upper
// bound means through 23:59:59.
func ExpandDateRange(from, until string) (time.Time, time.Time, error) {
	var f, u time.Time
	var err error

	if from != "" {
		f, err = parseFlexibleTime(from, false)
		if err != nil {
			return f, u, fmt.Errorf("invalid 'from' value: %w", err)
		}
	}
	if until != "" {
		u, err = parseFlexibleTime(until, true)
		if err != nil {
			return f, u, fmt.Errorf("invalid 'until' value: %w", err)
		}
	}
	return f, u, nil
}

func parseFlexibleTime(value string, endOfDay bool) (time.Time, error) {
	if len(value) == len("2006-01-02") {
		t, err := time.ParseInLocation("2006-01-02", value, time.Local)
		if err != nil {
			return time.Time{}, err
		}
		if endOfDay {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, nil
	}
	return time.ParseInLocation("2006-01-02T15:04:05", value, time.Local)
}
