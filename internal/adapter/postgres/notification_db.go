package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, user_id, type, message, link, vehicle_id, service_type, read, created_at`

func scanNotification(row rowScanner) (*domain.Notification, error) {
	n := &domain.Notification{}
	var notificationType string
	var link, serviceType sql.NullString
	var vehicleID uuid.NullUUID
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&notificationType,
		&n.Message,
		&link,
		&vehicleID,
		&serviceType,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	n.Type = domain.NotificationType(notificationType)
	n.Link = link.String
	n.ServiceType = serviceType.String
	if vehicleID.Valid {
		n.VehicleID = &vehicleID.UUID
	}
	return n, nil
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, notification *domain.Notification) (*domain.Notification, error) {
	query := `INSERT INTO notifications (id, user_id, type, message, link, vehicle_id, service_type, read, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, NULLIF($7, ''), FALSE, NOW())
		RETURNING ` + notificationColumns

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	var vehicleID uuid.NullUUID
	if notification.VehicleID != nil {
		vehicleID = uuid.NullUUID{UUID: *notification.VehicleID, Valid: true}
	}

	created, err := scanNotification(r.db.QueryRowContext(ctx, query,
		notification.ID,
		notification.UserID,
		string(notification.Type),
		notification.Message,
		notification.Link,
		vehicleID,
		notification.ServiceType,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", translate(err, domain.ErrProfileNotFound))
	}
	return created, nil
}

func (r *NotificationRepository) GetUserNotifications(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications
		WHERE user_id = $1 AND (NOT $2::boolean OR read = FALSE)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, err := r.db.QueryContext(ctx, query, userID, unreadOnly, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *NotificationRepository) HasUnreadReminder(ctx context.Context, userID, vehicleID uuid.UUID, serviceType string) (bool, error) {
	query := `SELECT EXISTS (
		SELECT 1 FROM notifications
		WHERE user_id = $1 AND vehicle_id = $2 AND service_type = $3
			AND type = $4 AND read = FALSE
	)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, userID, vehicleID, serviceType, string(domain.NotificationServiceReminder)).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE id = $1 AND user_id = $2`, notificationID, userID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	return err
}
