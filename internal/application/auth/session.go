package auth

import "github.com/jhoicas/topmei-api/internal/domain/entity"

// Session identidad del usuario autenticado, construida por request a partir del token
// y pasada explícitamente a los casos de uso.
type Session struct {
	UserID string
	Email  string
	Role   entity.Role
}

// Is informa si el perfil de la sesión es uno de los indicados.
func (s Session) Is(roles ...entity.Role) bool {
	for _, r := range roles {
		if s.Role == r && r != entity.RoleUnconfigured {
			return true
		}
	}
	return false
}

// Staff contador o administrador.
func (s Session) Staff() bool { return s.Role.Staff() }

// Configured el usuario tiene un perfil activo.
func (s Session) Configured() bool { return s.Role != entity.RoleUnconfigured }
