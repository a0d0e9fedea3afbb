package dto

import "time"

// SignUpRequest entrada para crear una cuenta de cliente.
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
}

// UserResponse salida de un usuario (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserListResponse listado paginado de usuarios (administración).
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// LoginRequest entrada para login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest pedido de link de redefinição de senha.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest nova senha com o token recebido por e-mail.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse salida con token JWT. Role vacío = perfil no configurado.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// MeResponse sesión actual con el perfil resuelto en este momento.
type MeResponse struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	RoleConfigured bool   `json:"role_configured"`
}

// SetRoleRequest cambio de perfil (administrador).
type SetRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=cliente contador administrador"`
}

// SetActiveRequest activa o desactiva un usuario.
type SetActiveRequest struct {
	Active bool `json:"active"`
}
