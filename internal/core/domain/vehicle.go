package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// swagger:model domain.Vehicle
type Vehicle struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	Make             string    `json:"make" validate:"required_without=OtherDescription,max=100"`
	Model            string    `json:"model" validate:"required_without=OtherDescription,max=100"`
	Year             int       `json:"year" validate:"omitempty,min=1886,max=2100"`
	Trim             string    `json:"trim,omitempty" validate:"max=100"`
	OtherDescription string    `json:"other_vehicle_description,omitempty" validate:"max=255"`
	Mileage          int       `json:"mileage" validate:"min=0"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// DisplayName is the free-text description when present, otherwise "year make model [trim]".
func (v *Vehicle) DisplayName() string {
	if strings.TrimSpace(v.OtherDescription) != "" {
		return v.OtherDescription
	}
	name := fmt.Sprintf("%d %s %s", v.Year, v.Make, v.Model)
	if v.Trim != "" {
		name += " " + v.Trim
	}
	return name
}

func (v *Vehicle) OwnedBy(userID uuid.UUID) bool {
	return v.UserID == userID
}
