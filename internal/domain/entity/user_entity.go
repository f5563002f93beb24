package entity

import (
	"time"
)

// User is a directory account. Only active users may authenticate.
type User struct {
	ID        string
	Email     string
	Password  string
	Name      string
	Role      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity is the authenticated caller of a single request. It is never persisted.
//
// Degraded is set when the user directory could not be reached and the identity was
// built from token claims only; such identities carry no role.
type Identity struct {
	ID       string
	Email    string
	Name     string
	Role     string
	Degraded bool
}

// IsAdmin reports whether the identity carries the admin role.
func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == RoleAdmin
}
