package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities: low < medium < high.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// MaintenanceScheduleEntry is a static interval rule. A service is due once
// either interval is reached.
type MaintenanceScheduleEntry struct {
	Key            string   `json:"key"`
	IntervalMonths int      `json:"interval_months"`
	IntervalMiles  int      `json:"interval_miles"`
	Description    string   `json:"description"`
	Keywords       []string `json:"keywords,omitempty"`
}

// MatchTerms returns the lower-cased terms a service record is matched against:
// the key with underscores as spaces, followed by the entry keywords.
func (e MaintenanceScheduleEntry) MatchTerms() []string {
	terms := make([]string, 0, len(e.Keywords)+1)
	terms = append(terms, strings.ToLower(strings.ReplaceAll(e.Key, "_", " ")))
	for _, k := range e.Keywords {
		terms = append(terms, strings.ToLower(k))
	}
	return terms
}

func (e MaintenanceScheduleEntry) Validate() error {
	if e.Key == "" {
		return fmt.Errorf("%w: schedule entry without key", ErrValidation)
	}
	if e.IntervalMonths <= 0 || e.IntervalMiles <= 0 {
		return fmt.Errorf("%w: schedule entry %q must have positive intervals", ErrValidation, e.Key)
	}
	return nil
}

type MaintenanceSchedule []MaintenanceScheduleEntry

func (s MaintenanceSchedule) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, entry := range s {
		if err := entry.Validate(); err != nil {
			return err
		}
		if _, dup := seen[entry.Key]; dup {
			return fmt.Errorf("%w: duplicate schedule entry %q", ErrValidation, entry.Key)
		}
		seen[entry.Key] = struct{}{}
	}
	return nil
}

var DefaultMaintenanceSchedule = MaintenanceSchedule{
	{Key: "oil_change", IntervalMonths: 6, IntervalMiles: 5000, Description: "Oil Change Due", Keywords: []string{"oil", "oil change", "oil service"}},
	{Key: "tire_rotation", IntervalMonths: 6, IntervalMiles: 6000, Description: "Tire Rotation Due", Keywords: []string{"tire", "rotation", "tire rotation"}},
	{Key: "brake_service", IntervalMonths: 12, IntervalMiles: 12000, Description: "Brake Service Due", Keywords: []string{"brake", "brakes", "brake service", "brake pad"}},
	{Key: "air_filter", IntervalMonths: 12, IntervalMiles: 15000, Description: "Air Filter Replacement Due", Keywords: []string{"air filter", "engine filter"}},
	{Key: "cabin_filter", IntervalMonths: 12, IntervalMiles: 15000, Description: "Cabin Filter Replacement Due", Keywords: []string{"cabin filter", "cabin air"}},
	{Key: "transmission", IntervalMonths: 36, IntervalMiles: 30000, Description: "Transmission Service Due", Keywords: []string{"transmission", "transmission fluid"}},
	{Key: "coolant", IntervalMonths: 24, IntervalMiles: 30000, Description: "Coolant Flush Due", Keywords: []string{"coolant", "antifreeze", "radiator flush"}},
	{Key: "spark_plugs", IntervalMonths: 36, IntervalMiles: 30000, Description: "Spark Plug Replacement Due", Keywords: []string{"spark", "spark plug", "ignition"}},
	{Key: "battery", IntervalMonths: 48, IntervalMiles: 50000, Description: "Battery Check Due", Keywords: []string{"battery", "battery replacement"}},
}

// DueMaintenanceItem is computed on every request and never stored.
type DueMaintenanceItem struct {
	ServiceType   string   `json:"service_type"`
	Description   string   `json:"description"`
	Priority      Priority `json:"priority"`
	Overdue       bool     `json:"overdue"`
	NeverServiced bool     `json:"never_serviced"`

	// Set when the vehicle has no matching service history.
	DueDate    *time.Time `json:"due_date,omitempty"`
	DueMileage *int       `json:"due_mileage,omitempty"`

	// Set when a matching service record exists.
	LastServiceDate    *time.Time `json:"last_service_date,omitempty"`
	LastServiceMileage *int       `json:"last_service_mileage,omitempty"`
	MonthsSinceService float64    `json:"months_since_service,omitempty"`
	MilesSinceService  int        `json:"miles_since_service,omitempty"`
	MonthsOverdue      float64    `json:"months_overdue"`
	MilesOverdue       int        `json:"miles_overdue"`

	VehicleID   uuid.UUID `json:"vehicle_id"`
	VehicleName string    `json:"vehicle_name"`
}
