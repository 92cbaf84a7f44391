package domain

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("access denied")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("already exists")

	ErrVehicleNotFound       = notFound("vehicle not found")
	ErrServiceRecordNotFound = notFound("service record not found")
	ErrChallengeNotFound     = notFound("challenge not found")
	ErrBadgeNotFound         = notFound("badge not found")
	ErrProfileNotFound       = notFound("profile not found")
	ErrNotificationNotFound  = notFound("notification not found")
)

type notFoundError struct {
	msg string
}

func notFound(msg string) error {
	return &notFoundError{msg: msg}
}

func (e *notFoundError) Error() string { return e.msg }

// Is lets every specific not-found error match ErrNotFound.
func (e *notFoundError) Is(target error) bool {
	return target == ErrNotFound
}
