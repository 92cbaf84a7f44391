package postgres

import (
	"errors"
	"testing"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	assert.ErrorIs(t, translate(&pq.Error{Code: pqNotNullViolation}, nil), domain.ErrValidation)
	assert.ErrorIs(t, translate(&pq.Error{Code: pqUniqueViolation, Constraint: "badges_name_key"}, nil), domain.ErrConflict)
	assert.Equal(t, domain.ErrVehicleNotFound, translate(&pq.Error{Code: pqForeignKeyViolation}, domain.ErrVehicleNotFound))
	assert.ErrorIs(t, translate(&pq.Error{Code: pqForeignKeyViolation, Constraint: "vehicles_user_id_fkey"}, nil), domain.ErrNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, translate(other, domain.ErrVehicleNotFound))

	deadlock := &pq.Error{Code: "40P01"}
	assert.Equal(t, error(deadlock), translate(deadlock, nil))
}
