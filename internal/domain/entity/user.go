package entity

import "time"

// Role perfil de acceso del usuario (tabla user_perfis).
type Role string

const (
	RoleClient        Role = "cliente"
	RoleAccountant    Role = "contador"
	RoleAdministrator Role = "administrador"
	// RoleUnconfigured usuario autenticado sin perfil activo.
	RoleUnconfigured Role = ""
)

// Roles perfiles asignables.
var Roles = []Role{RoleClient, RoleAccountant, RoleAdministrator}

// ParseRole valida un perfil asignable.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if string(r) == s {
			return r, true
		}
	}
	return RoleUnconfigured, false
}

// Privilege orden para desempate cuando un usuario tiene varios perfiles activos.
func (r Role) Privilege() int {
	switch r {
	case RoleAdministrator:
		return 3
	case RoleAccountant:
		return 2
	case RoleClient:
		return 1
	}
	return 0
}

// Staff contador o administrador.
func (r Role) Staff() bool {
	return r == RoleAccountant || r == RoleAdministrator
}

// User cuenta de acceso. Nunca se borra: Active=false la desactiva.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// RoleAssignment asignación de perfil. Active=false bloquea el login aunque la contraseña sea válida.
type RoleAssignment struct {
	ID        string
	UserID    string
	Role      Role
	Active    bool
	CreatedAt time.Time
}

// PasswordReset solicitud de redefinición de contraseña. Sólo se guarda el hash del token.
type PasswordReset struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Usable token no consumido ni vencido en now.
func (p PasswordReset) Usable(now time.Time) bool {
	return p.UsedAt == nil && now.Before(p.ExpiresAt)
}
