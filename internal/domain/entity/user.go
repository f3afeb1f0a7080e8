package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleTechnician = "technician"
	RoleAttendant  = "attendant"
)

// Estados de User.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema (pertenece a una Organization).
type User struct {
	ID             string
	OrganizationID string
	Email          string
	PasswordHash   string // bcrypt hash, nunca plano en dominio después de persistir
	Name           string
	Role           string // admin, technician, attendant
	Status         string // active, inactive
	AvatarURL      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsValidRole informa si el rol es uno de los soportados.
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleTechnician, RoleAttendant:
		return true
	}
	return false
}
