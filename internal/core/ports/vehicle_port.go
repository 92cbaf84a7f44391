package ports

import (
	"context"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type VehicleRepository interface {
	CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error)
	GetVehiclesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Vehicle, error)
	UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error)
	DeleteVehicle(ctx context.Context, vehicleID uuid.UUID) error
}

type ServiceRecordRepository interface {
	CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error)
	GetServiceRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.ServiceRecord, error)
	GetServiceRecordsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServiceRecord, error)
	UpdateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error)
	DeleteServiceRecord(ctx context.Context, recordID uuid.UUID) error
}
