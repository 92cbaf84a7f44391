package services

import (
	"context"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"
	"github.com/boltauto/garage_microservice/internal/core/ports"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type ServiceRecordService struct {
	recordRepo ports.ServiceRecordRepository
	logger     ports.LoggerPort
	validate   *validator.Validate
	cache      ports.CachePort
}

func NewServiceRecordService(
	recordRepo ports.ServiceRecordRepository,
	logger ports.LoggerPort,
	validate *validator.Validate,
	cache ports.CachePort,
) *ServiceRecordService {
	return &ServiceRecordService{
		recordRepo: recordRepo,
		logger:     logger,
		validate:   validate,
		cache:      cache,
	}
}

func (s *ServiceRecordService) CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	if err := s.validate.Struct(record); err != nil {
		s.logger.Error("Service record validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	createdRecord, err := s.recordRepo.CreateServiceRecord(ctx, record)
	if err != nil {
		s.logger.Error("Failed to create service record", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": record.VehicleID,
		})
		return nil, err
	}

	s.invalidateVehicle(record.VehicleID)

	s.logger.Info("Service record created successfully", map[string]interface{}{
		"record_id":    createdRecord.ID,
		"vehicle_id":   createdRecord.VehicleID,
		"service_type": createdRecord.ServiceType,
	})

	return createdRecord, nil
}

func (s *ServiceRecordService) GetServiceRecordByID(ctx context.Context, recordID string) (*domain.ServiceRecord, error) {
	recordUUID, err := uuid.Parse(recordID)
	if err != nil {
		s.logger.Error("Invalid UUID format", map[string]interface{}{
			"record_id": recordID,
			"error":     err.Error(),
		})
		return nil, fmt.Errorf("%w: invalid service record ID", domain.ErrValidation)
	}

	record, err := s.recordRepo.GetServiceRecordByID(ctx, recordUUID)
	if err != nil {
		s.logger.Error("Failed to get service record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": recordID,
		})
		return nil, err
	}

	return record, nil
}

func (s *ServiceRecordService) GetServiceRecordsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServiceRecord, error) {
	records, err := s.recordRepo.GetServiceRecordsByVehicleID(ctx, vehicleID)
	if err != nil {
		s.logger.Error("Failed to get service records", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
		return nil, err
	}

	s.logger.Info("Retrieved service records for vehicle", map[string]interface{}{
		"vehicle_id":    vehicleID.String(),
		"records_count": len(records),
	})

	return records, nil
}

func (s *ServiceRecordService) UpdateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	if err := s.validate.Struct(record); err != nil {
		s.logger.Error("Service record validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	updatedRecord, err := s.recordRepo.UpdateServiceRecord(ctx, record)
	if err != nil {
		s.logger.Error("Failed to update service record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": record.ID,
		})
		return nil, err
	}

	s.invalidateVehicle(record.VehicleID)

	s.logger.Info("Service record updated successfully", map[string]interface{}{
		"record_id": record.ID,
	})

	return updatedRecord, nil
}

func (s *ServiceRecordService) DeleteServiceRecord(ctx context.Context, record *domain.ServiceRecord) error {
	if err := s.recordRepo.DeleteServiceRecord(ctx, record.ID); err != nil {
		s.logger.Error("Failed to delete service record", map[string]interface{}{
			"error":     err.Error(),
			"record_id": record.ID,
		})
		return err
	}

	s.invalidateVehicle(record.VehicleID)

	s.logger.Info("Service record deleted successfully", map[string]interface{}{
		"record_id": record.ID,
	})

	return nil
}

func (s *ServiceRecordService) invalidateVehicle(vehicleID uuid.UUID) {
	if err := s.cache.Delete(vehicleCacheKey(vehicleID.String())); err != nil {
		s.logger.Warn("Failed to invalidate vehicle cache", map[string]interface{}{
			"error":      err.Error(),
			"vehicle_id": vehicleID.String(),
		})
	}
}
