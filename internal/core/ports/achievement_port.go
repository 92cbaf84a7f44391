package ports

import (
	"context"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type ProfileRepository interface {
	GetProfileByID(ctx context.Context, userID uuid.UUID) (*domain.Profile, error)
	ListReminderRecipients(ctx context.Context) ([]*domain.Profile, error)
}

type AchievementRepository interface {
	GetAchievementState(ctx context.Context, userID uuid.UUID) (*domain.AchievementState, error)
	ListAwards(ctx context.Context, userID uuid.UUID) ([]*domain.AchievementAward, error)

	// GrantAchievement records the award, the badge and the XP in one transaction.
	// granted is false when the award record already existed; nothing else is
	// written in that case.
	GrantAchievement(ctx context.Context, userID uuid.UUID, achievement domain.Achievement) (award *domain.AchievementAward, grant *domain.XPGrant, granted bool, err error)
}

type BadgeRepository interface {
	ListBadges(ctx context.Context) ([]*domain.Badge, error)
	GetBadgeByName(ctx context.Context, name string) (*domain.Badge, error)
	GetUserBadges(ctx context.Context, userID uuid.UUID) ([]*domain.UserBadge, error)
	// AwardBadge returns created=false when the user already holds the badge.
	AwardBadge(ctx context.Context, userID, badgeID uuid.UUID, note string) (created bool, err error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *domain.Notification) (*domain.Notification, error)
	GetUserNotifications(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]*domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	// HasUnreadReminder reports an unread service reminder for the vehicle and
	// service type.
	HasUnreadReminder(ctx context.Context, userID, vehicleID uuid.UUID, serviceType string) (bool, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
