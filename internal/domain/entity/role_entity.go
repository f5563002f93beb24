package entity

// Role names stored in the roles table.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)
