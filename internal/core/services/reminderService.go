package services

import (
	"context"
	"fmt"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"
)

// ReminderService turns due maintenance items into service_reminder notifications.
type ReminderService struct {
	profileRepo      ports.ProfileRepository
	vehicleRepo      ports.VehicleRepository
	notificationRepo ports.NotificationRepository
	maintenance      *MaintenanceService
	logger           ports.LoggerPort
	metrics          ports.MetricsPort
}

func NewReminderService(
	profileRepo ports.ProfileRepository,
	vehicleRepo ports.VehicleRepository,
	notificationRepo ports.NotificationRepository,
	maintenance *MaintenanceService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *ReminderService {
	return &ReminderService{
		profileRepo:      profileRepo,
		vehicleRepo:      vehicleRepo,
		notificationRepo: notificationRepo,
		maintenance:      maintenance,
		logger:           logger,
		metrics:          metrics,
	}
}

// GenerateMaintenanceReminders notifies every opted-in user about due items that
// have no unread reminder yet. Failures for a single user or vehicle are logged
// and skipped.
func (s *ReminderService) GenerateMaintenanceReminders(ctx context.Context) (*domain.ReminderSummary, error) {
	profiles, err := s.profileRepo.ListReminderRecipients(ctx)
	if err != nil {
		s.logger.Error("Failed to list reminder recipients", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}

	summary := &domain.ReminderSummary{}
	for _, profile := range profiles {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.UsersProcessed++

		vehicles, err := s.vehicleRepo.GetVehiclesByUserID(ctx, profile.ID)
		if err != nil {
			s.logger.Error("Failed to get vehicles for reminders", map[string]interface{}{
				"error":   err.Error(),
				"user_id": profile.ID.String(),
			})
			continue
		}

		for _, vehicle := range vehicles {
			summary.RemindersCreated += s.remindVehicle(ctx, vehicle)
		}
	}

	s.metrics.RecordRemindersCreated(summary.RemindersCreated)
	s.logger.Info("Generated maintenance reminders", map[string]interface{}{
		"users_processed":   summary.UsersProcessed,
		"reminders_created": summary.RemindersCreated,
	})

	return summary, nil
}

func (s *ReminderService) remindVehicle(ctx context.Context, vehicle *domain.Vehicle) int {
	items, err := s.maintenance.DueItemsForVehicle(ctx, vehicle)
	if err != nil {
		return 0
	}

	now := s.maintenance.now()
	created := 0
	for _, item := range items {
		// Without history a reminder is only due once the vehicle is older
		// than the interval, and it is then already late.
		if item.NeverServiced {
			if !s.outgrewInterval(vehicle, item.ServiceType, now) {
				continue
			}
			item.Overdue = true
		}

		exists, err := s.notificationRepo.HasUnreadReminder(ctx, vehicle.UserID, vehicle.ID, item.ServiceType)
		if err != nil {
			s.logger.Error("Failed to check existing reminders", map[string]interface{}{
				"error":        err.Error(),
				"vehicle_id":   vehicle.ID.String(),
				"service_type": item.ServiceType,
			})
			continue
		}
		if exists {
			continue
		}

		vehicleID := vehicle.ID
		_, err = s.notificationRepo.CreateNotification(ctx, &domain.Notification{
			UserID:      vehicle.UserID,
			Type:        domain.NotificationServiceReminder,
			Message:     reminderMessage(item),
			Link:        fmt.Sprintf("/vehicles/%s/add-service", vehicle.ID),
			VehicleID:   &vehicleID,
			ServiceType: item.ServiceType,
		})
		if err != nil {
			s.logger.Error("Failed to create reminder", map[string]interface{}{
				"error":        err.Error(),
				"user_id":      vehicle.UserID.String(),
				"service_type": item.ServiceType,
			})
			continue
		}
		created++
	}
	return created
}

// outgrewInterval reports whether the vehicle's age in months, counted from its
// model year, exceeds the schedule interval for serviceType. Vehicles without a
// year never qualify.
func (s *ReminderService) outgrewInterval(vehicle *domain.Vehicle, serviceType string, now time.Time) bool {
	if vehicle.Year <= 0 {
		return false
	}
	ageMonths := (now.Year() - vehicle.Year) * 12
	for _, entry := range s.maintenance.Schedule() {
		if entry.Key == serviceType {
			return ageMonths > entry.IntervalMonths
		}
	}
	return false
}

func reminderMessage(item domain.DueMaintenanceItem) string {
	msg := fmt.Sprintf("%s for your %s", item.Description, item.VehicleName)
	if item.Overdue {
		msg += " - OVERDUE"
	}
	return msg
}
