package repository

import (
	"context"
	"time"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Los Get/Find devuelven (nil, nil) cuando no existe la fila.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	List(ctx context.Context, limit, offset int) ([]*entity.User, error)
	SetActive(ctx context.Context, id string, active bool) error
	// UpdatePassword reemplaza el hash; ErrUserNotFound si no existe.
	UpdatePassword(ctx context.Context, id, passwordHash string, at time.Time) error
}

// PasswordResetRepository tokens de redefinición de contraseña.
type PasswordResetRepository interface {
	Create(ctx context.Context, p *entity.PasswordReset) error
	// GetByTokenHashForUpdate bloquea la fila hasta el fin de la transacción. (nil, nil) si no existe.
	GetByTokenHashForUpdate(ctx context.Context, tokenHash string) (*entity.PasswordReset, error)
	// ConsumeByUser marca como usados todos los tokens pendientes del usuario.
	ConsumeByUser(ctx context.Context, userID string, at time.Time) error
}

// RoleRepository asignaciones de perfil (user_perfis).
type RoleRepository interface {
	Assign(ctx context.Context, a *entity.RoleAssignment) error
	// ListByUser todas las asignaciones, activas e inactivas.
	ListByUser(ctx context.Context, userID string) ([]*entity.RoleAssignment, error)
	// ListActive todas las asignaciones activas del sistema.
	ListActive(ctx context.Context) ([]*entity.RoleAssignment, error)
	// ListActiveUserIDs usuarios activos con el perfil indicado.
	ListActiveUserIDs(ctx context.Context, role entity.Role) ([]string, error)
	DeactivateAll(ctx context.Context, userID string) error
}
