package dto

import "time"

// RegisterRequest alta de una asistencia técnica junto con su usuario administrador.
type RegisterRequest struct {
	OrganizationName string `json:"organization_name" validate:"required,min=2,max=200"`
	Document         string `json:"document" validate:"omitempty,max=18"` // CNPJ
	Phone            string `json:"phone" validate:"omitempty,max=20"`
	Name             string `json:"name" validate:"required,min=1,max=200"`
	Email            string `json:"email" validate:"required,email"`
	Password         string `json:"password" validate:"required,min=8"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse token JWT más los datos del usuario.
type LoginResponse struct {
	Token        string               `json:"token"`
	ExpiresAt    time.Time            `json:"expires_at"`
	User         UserResponse         `json:"user"`
	Organization OrganizationResponse `json:"organization"`
}

// CreateUserRequest alta de un usuario dentro de la organización (solo admin).
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=admin technician attendant"`
}

// UpdateUserRequest cambios de un usuario por parte del admin.
type UpdateUserRequest struct {
	Name   *string `json:"name" validate:"omitempty,min=1,max=200"`
	Role   *string `json:"role" validate:"omitempty,oneof=admin technician attendant"`
	Status *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// UpdateProfileRequest cambios del propio perfil (PUT /api/me).
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Password *string `json:"password" validate:"omitempty,min=8"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID             string    `json:"id"`
	OrganizationID string    `json:"organization_id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Role           string    `json:"role"`
	Status         string    `json:"status"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
