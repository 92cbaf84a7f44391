package services

import (
	"context"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"

	"github.com/google/uuid"
)

// Elapsed time is measured in fixed 30-day months.
const monthDuration = 30 * 24 * time.Hour

const (
	highPriorityRatio   = 1.5
	mediumPriorityRatio = 1.2
)

type MaintenanceService struct {
	vehicleRepo ports.VehicleRepository
	recordRepo  ports.ServiceRecordRepository
	logger      ports.LoggerPort
	schedule    domain.MaintenanceSchedule
	now         func() time.Time
}

func NewMaintenanceService(
	vehicleRepo ports.VehicleRepository,
	recordRepo ports.ServiceRecordRepository,
	logger ports.LoggerPort,
	schedule domain.MaintenanceSchedule,
) (*MaintenanceService, error) {
	if schedule == nil {
		schedule = domain.DefaultMaintenanceSchedule
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	return &MaintenanceService{
		vehicleRepo: vehicleRepo,
		recordRepo:  recordRepo,
		logger:      logger,
		schedule:    schedule,
		now:         time.Now,
	}, nil
}

func (s *MaintenanceService) Schedule() domain.MaintenanceSchedule {
	return s.schedule
}

// GetDueMaintenanceItems loads the vehicle and its history and returns what is due.
// The requester must own the vehicle or be an admin.
func (s *MaintenanceService) GetDueMaintenanceItems(ctx context.Context, payload *domain.TokenPayload, vehicleID string) ([]domain.DueMaintenanceItem, error) {
	if payload == nil {
		return nil, domain.ErrUnauthenticated
	}

	vehicleUUID, err := uuid.Parse(vehicleID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"vehicle_id": vehicleID,
			"error":      err.Error(),
		})
		return nil, fmt.Errorf("%w: invalid vehicle ID", domain.ErrValidation)
	}

	vehicle, err := s.vehicleRepo.GetVehicleByID(ctx, vehicleUUID)
	if err != nil {
		s.logger.Error("Failed to get vehicle", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID,
		})
		return nil, err
	}

	if !payload.CanAccess(vehicle.UserID) {
		s.logger.Warn("Access denied to maintenance items", map[string]interface{}{
			"requester_id": payload.UserID.String(),
			"owner_id":     vehicle.UserID.String(),
			"vehicle_id":   vehicleID,
		})
		return nil, domain.ErrForbidden
	}

	return s.DueItemsForVehicle(ctx, vehicle)
}

// DueItemsForVehicle skips the access check; callers are trusted.
func (s *MaintenanceService) DueItemsForVehicle(ctx context.Context, vehicle *domain.Vehicle) ([]domain.DueMaintenanceItem, error) {
	records, err := s.recordRepo.GetServiceRecordsByVehicleID(ctx, vehicle.ID)
	if err != nil {
		s.logger.Error("Failed to get service records", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicle.ID.String(),
		})
		return nil, err
	}

	items := CalculateDueItems(vehicle, records, s.schedule, s.now())

	s.logger.Info("Calculated due maintenance items", map[string]interface{}{
		"vehicle_id":    vehicle.ID.String(),
		"records_count": len(records),
		"due_count":     len(items),
	})

	return items, nil
}

// CalculateDueItems compares elapsed time and mileage since the last matching
// service against every schedule entry. records is read-only.
func CalculateDueItems(
	vehicle *domain.Vehicle,
	records []*domain.ServiceRecord,
	schedule domain.MaintenanceSchedule,
	now time.Time,
) []domain.DueMaintenanceItem {
	vehicleName := vehicle.DisplayName()
	items := make([]domain.DueMaintenanceItem, 0, len(schedule))

	for _, entry := range schedule {
		last := lastServiceFor(records, entry)

		if last == nil {
			dueDate := now.AddDate(0, entry.IntervalMonths, 0)
			dueMileage := vehicle.Mileage + entry.IntervalMiles
			items = append(items, domain.DueMaintenanceItem{
				ServiceType:   entry.Key,
				Description:   entry.Description,
				Priority:      domain.PriorityMedium,
				NeverServiced: true,
				DueDate:       &dueDate,
				DueMileage:    &dueMileage,
				VehicleID:     vehicle.ID,
				VehicleName:   vehicleName,
			})
			continue
		}

		monthsSince := float64(now.Sub(last.ServiceDate)) / float64(monthDuration)
		// A stale odometer can put the vehicle below the recorded mileage.
		milesSince := max(0, vehicle.Mileage-last.Mileage)

		if monthsSince < float64(entry.IntervalMonths) && milesSince < entry.IntervalMiles {
			continue
		}

		priority := duePriority(
			monthsSince/float64(entry.IntervalMonths),
			float64(milesSince)/float64(entry.IntervalMiles),
		)
		lastDate := last.ServiceDate
		lastMileage := last.Mileage

		items = append(items, domain.DueMaintenanceItem{
			ServiceType:        entry.Key,
			Description:        entry.Description,
			Priority:           priority,
			Overdue:            priority != domain.PriorityLow,
			LastServiceDate:    &lastDate,
			LastServiceMileage: &lastMileage,
			MonthsSinceService: monthsSince,
			MilesSinceService:  milesSince,
			MonthsOverdue:      math.Max(0, monthsSince-float64(entry.IntervalMonths)),
			MilesOverdue:       max(0, milesSince-entry.IntervalMiles),
			VehicleID:          vehicle.ID,
			VehicleName:        vehicleName,
		})
	}

	slices.SortStableFunc(items, func(a, b domain.DueMaintenanceItem) int {
		return b.Priority.Rank() - a.Priority.Rank()
	})

	return items
}

// lastServiceFor picks the most recent matching record. Equal dates fall back to
// the higher mileage, then input order.
func lastServiceFor(records []*domain.ServiceRecord, entry domain.MaintenanceScheduleEntry) *domain.ServiceRecord {
	terms := entry.MatchTerms()
	var last *domain.ServiceRecord
	for _, record := range records {
		if record == nil || !record.Mentions(terms...) {
			continue
		}
		if last == nil ||
			record.ServiceDate.After(last.ServiceDate) ||
			(record.ServiceDate.Equal(last.ServiceDate) && record.Mileage > last.Mileage) {
			last = record
		}
	}
	return last
}

// duePriority grades how far past the interval the worse dimension is.
func duePriority(monthsRatio, milesRatio float64) domain.Priority {
	ratio := math.Max(monthsRatio, milesRatio)
	switch {
	case ratio >= highPriorityRatio:
		return domain.PriorityHigh
	case ratio >= mediumPriorityRatio:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}
