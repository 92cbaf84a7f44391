package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type ServiceRecord struct {
	ID          uuid.UUID `json:"id"`
	VehicleID   uuid.UUID `json:"vehicle_id" validate:"required"`
	UserID      uuid.UUID `json:"user_id"`
	ServiceType string    `json:"service_type" validate:"required,max=100"`
	Description string    `json:"description,omitempty" validate:"max=1000"`
	ServiceDate time.Time `json:"service_date" validate:"required"`
	Mileage     int       `json:"mileage" validate:"min=0"`
	Cost        float64   `json:"cost,omitempty" validate:"min=0"`
	InvoiceURL  string    `json:"invoice_url,omitempty" validate:"omitempty,url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Mentions reports whether the service type or description contains any of the
// terms, case-insensitively. Terms are expected in lower case.
func (r *ServiceRecord) Mentions(terms ...string) bool {
	serviceType := strings.ToLower(r.ServiceType)
	description := strings.ToLower(r.Description)
	for _, term := range terms {
		if term == "" {
			continue
		}
		if strings.Contains(serviceType, term) || strings.Contains(description, term) {
			return true
		}
	}
	return false
}
