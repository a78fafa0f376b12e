package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plantops/skilltrack/pkg/models"
	"github.com/plantops/skilltrack/pkg/repositories"
)

// NotificationService stores per-user notifications written as side effects
// of mutations. Like audit appends, Notify is best-effort: a failed write
// is logged and never surfaces to the caller.
type NotificationService interface {
	// Notify stores a notification for a user. Never returns an error.
	Notify(ctx context.Context, userID int64, title, message string)

	// List returns a user's notifications, newest first.
	List(ctx context.Context, userID int64, limit int) ([]*models.Notification, error)

	// MarkRead marks one of the user's notifications as read.
	MarkRead(ctx context.Context, id uuid.UUID, userID int64) error
}

type notificationService struct {
	repo   repositories.NotificationRepository
	logger *zap.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(repo repositories.NotificationRepository, logger *zap.Logger) NotificationService {
	return &notificationService{
		repo:   repo,
		logger: logger.Named("notification-service"),
	}
}

var _ NotificationService = (*notificationService)(nil)

func (s *notificationService) Notify(ctx context.Context, userID int64, title, message string) {
	n := &models.Notification{
		UserID:  userID,
		Title:   title,
		Message: message,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("Failed to create notification",
			zap.Int64("user_id", userID),
			zap.String("title", title),
			zap.Error(err))
	}
}

func (s *notificationService) List(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	notifications, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

func (s *notificationService) MarkRead(ctx context.Context, id uuid.UUID, userID int64) error {
	return s.repo.MarkRead(ctx, id, userID)
}
