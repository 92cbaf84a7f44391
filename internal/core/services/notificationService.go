package services

import (
	"context"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"

	"github.com/google/uuid"
)

const maxNotificationLimit = 100

type NotificationService struct {
	notificationRepo ports.NotificationRepository
	logger           ports.LoggerPort
}

func NewNotificationService(notificationRepo ports.NotificationRepository, logger ports.LoggerPort) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		logger:           logger,
	}
}

func (s *NotificationService) GetUserNotifications(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]*domain.Notification, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if limit <= 0 {
		limit = 10
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}
	return s.notificationRepo.GetUserNotifications(ctx, userID, limit, unreadOnly)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	if userID == uuid.Nil {
		return 0, domain.ErrUnauthenticated
	}
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID uuid.UUID, notificationID string) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	id, err := uuid.Parse(notificationID)
	if err != nil {
		return fmt.Errorf("%w: invalid notification ID", domain.ErrValidation)
	}
	if err := s.notificationRepo.MarkRead(ctx, userID, id); err != nil {
		s.logger.Error("Failed to mark notification read", map[string]interface{}{
			"error":           err.Error(),
			"notification_id": notificationID,
		})
		return err
	}
	return nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
