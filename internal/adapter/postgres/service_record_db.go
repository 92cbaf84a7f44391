package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/google/uuid"
)

type ServiceRecordRepository struct {
	db *sql.DB
}

func NewServiceRecordRepository(db *sql.DB) *ServiceRecordRepository {
	return &ServiceRecordRepository{db: db}
}

const serviceRecordColumns = `id, vehicle_id, user_id, service_type, description, service_date, mileage, cost, invoice_url, created_at, updated_at`

func scanServiceRecord(row rowScanner) (*domain.ServiceRecord, error) {
	record := &domain.ServiceRecord{}
	var description, invoiceURL sql.NullString
	var cost sql.NullFloat64
	err := row.Scan(
		&record.ID,
		&record.VehicleID,
		&record.UserID,
		&record.ServiceType,
		&description,
		&record.ServiceDate,
		&record.Mileage,
		&cost,
		&invoiceURL,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	record.Description = description.String
	record.InvoiceURL = invoiceURL.String
	record.Cost = cost.Float64
	return record, nil
}

func (r *ServiceRecordRepository) CreateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	query := `INSERT INTO service_records (id, vehicle_id, user_id, service_type, description, service_date, mileage, cost, invoice_url)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, NULLIF($9, ''))
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		record.ID,
		record.VehicleID,
		record.UserID,
		record.ServiceType,
		record.Description,
		record.ServiceDate,
		record.Mileage,
		record.Cost,
		record.InvoiceURL,
	).Scan(
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err, domain.ErrVehicleNotFound)
	}

	return record, nil
}

func (r *ServiceRecordRepository) GetServiceRecordByID(ctx context.Context, recordID uuid.UUID) (*domain.ServiceRecord, error) {
	query := `SELECT ` + serviceRecordColumns + ` FROM service_records WHERE id = $1`

	record, err := scanServiceRecord(r.db.QueryRowContext(ctx, query, recordID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrServiceRecordNotFound
		}
		return nil, fmt.Errorf("failed to get service record: %w", err)
	}

	return record, nil
}

func (r *ServiceRecordRepository) GetServiceRecordsByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*domain.ServiceRecord, error) {
	query := `SELECT ` + serviceRecordColumns + `
		FROM service_records WHERE vehicle_id = $1
		ORDER BY service_date DESC`

	rows, err := r.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.ServiceRecord
	for rows.Next() {
		record, err := scanServiceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

func (r *ServiceRecordRepository) UpdateServiceRecord(ctx context.Context, record *domain.ServiceRecord) (*domain.ServiceRecord, error) {
	query := `UPDATE service_records
		SET
			service_type = COALESCE(NULLIF($1, ''), service_type),
			description = COALESCE(NULLIF($2, ''), description),
			service_date = COALESCE(NULLIF($3, '0001-01-01 00:00:00+00'::timestamptz), service_date),
			mileage = COALESCE(NULLIF($4, 0), mileage),
			cost = COALESCE(NULLIF($5, 0), cost),
			invoice_url = COALESCE(NULLIF($6, ''), invoice_url),
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $7
		RETURNING ` + serviceRecordColumns

	updated, err := scanServiceRecord(r.db.QueryRowContext(ctx, query,
		record.ServiceType,
		record.Description,
		record.ServiceDate,
		record.Mileage,
		record.Cost,
		record.InvoiceURL,
		record.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrServiceRecordNotFound
		}
		return nil, fmt.Errorf("error updating service record: %w", translate(err, nil))
	}

	return updated, nil
}

func (r *ServiceRecordRepository) DeleteServiceRecord(ctx context.Context, recordID uuid.UUID) error {
	query := `DELETE FROM service_records WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, recordID)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return domain.ErrServiceRecordNotFound
	}

	return nil
}
