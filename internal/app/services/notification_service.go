package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/acetrack/internal/app/models"
	"github.com/yigit/acetrack/internal/app/repositories"
)

// NotificationFeedLimit is the most notifications returned at once
const NotificationFeedLimit = 50

// NotificationService serves the notification feed
type NotificationService struct {
	notificationRepo repositories.INotificationRepository
	logger           zerolog.Logger
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(notificationRepo repositories.INotificationRepository, logger zerolog.Logger) *NotificationService {
	return &NotificationService{notificationRepo: notificationRepo, logger: logger}
}

// Feed returns global and personal notifications, newest first
func (s *NotificationService) Feed(ctx context.Context, userID int64) ([]models.Notification, error) {
	return s.notificationRepo.ListForUser(ctx, userID, NotificationFeedLimit)
}

// MarkRead marks a notification visible to the user as read. Global
// notifications are shared, so marking one marks it for everyone.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) error {
	return s.notificationRepo.MarkRead(ctx, userID, id)
}
