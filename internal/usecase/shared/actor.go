package shared

import (
	"courtbook/internal/domain/user"

	"github.com/google/uuid"
)

// Actor is the authenticated caller of a command or query.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

// CanManage reports whether the actor may act on a reservation owned by
// ownerID. Members manage only their own; staff and admin manage any.
func (a Actor) CanManage(ownerID uuid.UUID) bool {
	return a.Role != user.RoleMember || a.ID == ownerID
}

// IsStaff reports whether the actor holds a facility-side role.
func (a Actor) IsStaff() bool {
	return a.Role == user.RoleStaff || a.Role == user.RoleAdmin
}
