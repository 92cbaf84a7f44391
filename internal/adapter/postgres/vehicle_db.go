package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type VehicleRepository struct {
	db *sql.DB
}

func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{
		db,
	}
}

const vehicleColumns = `id, user_id, make, model, year, trim, other_vehicle_description, mileage, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVehicle(row rowScanner) (*domain.Vehicle, error) {
	vehicle := &domain.Vehicle{}
	var year sql.NullInt64
	var trim, other sql.NullString
	err := row.Scan(
		&vehicle.ID,
		&vehicle.UserID,
		&vehicle.Make,
		&vehicle.Model,
		&year,
		&trim,
		&other,
		&vehicle.Mileage,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	vehicle.Year = int(year.Int64)
	vehicle.Trim = trim.String
	vehicle.OtherDescription = other.String
	return vehicle, nil
}

func (r *VehicleRepository) CreateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `INSERT INTO vehicles (id, user_id, make, model, year, trim, other_vehicle_description, mileage)
	VALUES ($1, $2, $3, $4, NULLIF($5, 0), NULLIF($6, ''), NULLIF($7, ''), $8)
    RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		vehicle.ID,
		vehicle.UserID,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Trim,
		vehicle.OtherDescription,
		vehicle.Mileage,
	).Scan(
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err, domain.ErrProfileNotFound)
	}
	return vehicle, nil
}

func (r *VehicleRepository) GetVehicleByID(ctx context.Context, vehicleID uuid.UUID) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`

	vehicle, err := scanVehicle(r.db.QueryRowContext(ctx, query, vehicleID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrVehicleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get vehicle: %w", err)
	}
	return vehicle, nil
}

func (r *VehicleRepository) GetVehiclesByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE user_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		vehicle, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *VehicleRepository) DeleteVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	query := `DELETE FROM vehicles WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, vehicleID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrVehicleNotFound
	}

	return nil
}

func (r *VehicleRepository) UpdateVehicle(ctx context.Context, vehicle *domain.Vehicle) (*domain.Vehicle, error) {
	query := `UPDATE vehicles
		SET
			make = COALESCE(NULLIF($1, ''), make),
			model = COALESCE(NULLIF($2, ''), model),
			year = COALESCE(NULLIF($3, 0), year),
			trim = COALESCE(NULLIF($4, ''), trim),
			other_vehicle_description = COALESCE(NULLIF($5, ''), other_vehicle_description),
			mileage = COALESCE(NULLIF($6, 0), mileage),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING ` + vehicleColumns

	updated, err := scanVehicle(r.db.QueryRowContext(ctx, query,
		vehicle.Make,
		vehicle.Model,
		vehicle.Year,
		vehicle.Trim,
		vehicle.OtherDescription,
		vehicle.Mileage,
		vehicle.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrVehicleNotFound
		}
		return nil, fmt.Errorf("error updating vehicle: %w", translate(err, nil))
	}
	return updated, nil
}
