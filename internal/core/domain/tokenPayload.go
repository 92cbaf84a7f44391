package domain

import (
	"github.com/google/uuid"
)

type UserRole string

const (
	Admin   UserRole = "admin"
	AppUser UserRole = "appuser"
)

type TokenPayload struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Role   UserRole
}

// CanAccess allows admins everything and users their own resources.
func (p *TokenPayload) CanAccess(ownerID uuid.UUID) bool {
	return p != nil && (p.Role == Admin || p.UserID == ownerID)
}
