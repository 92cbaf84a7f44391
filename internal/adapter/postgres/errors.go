package postgres

import (
	"errors"
	"fmt"

	"github.com/boltauto/garage_microservice/internal/core/domain"

	"github.com/lib/pq"
)

const (
	pqNotNullViolation    = "23502"
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
)

// translate maps constraint violations to domain errors. notFound is returned for
// a foreign key violation, i.e. a referenced row that does not exist.
func translate(err error, notFound error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqNotNullViolation:
		return fmt.Errorf("%w: required field is missing", domain.ErrValidation)
	case pqForeignKeyViolation:
		if notFound != nil {
			return notFound
		}
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pqErr.Constraint)
	case pqUniqueViolation:
		return fmt.Errorf("%w: %s", domain.ErrConflict, pqErr.Constraint)
	default:
		return err
	}
}
