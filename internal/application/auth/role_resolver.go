package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

const roleCacheTTL = time.Minute

// ErrUserInactive usuario desactivado o inexistente: sus tokens dejan de valer.
var ErrUserInactive = fmt.Errorf("%w: usuário desativado", domain.ErrForbidden)

// RoleResolver resuelve el perfil efectivo de un usuario a partir de sus asignaciones activas.
// Con varias activas gana la de mayor privilegio (administrador > contador > cliente).
type RoleResolver struct {
	users repository.UserRepository
	roles repository.RoleRepository
	cache *cache.Cache
	log   *logger.Logger
}

// resolved entrada de caché: perfil y estado del usuario.
type resolved struct {
	role   entity.Role
	active bool
}

// NewRoleResolver construye el resolver con caché en memoria de un minuto.
func NewRoleResolver(users repository.UserRepository, roles repository.RoleRepository, log *logger.Logger) *RoleResolver {
	return &RoleResolver{
		users: users,
		roles: roles,
		cache: cache.New(roleCacheTTL, 5*time.Minute),
		log:   log,
	}
}

// Resolve devuelve el perfil del usuario; RoleUnconfigured si no tiene asignaciones activas.
// Un usuario desactivado (o borrado) devuelve ErrUserInactive.
func (r *RoleResolver) Resolve(ctx context.Context, userID string) (entity.Role, error) {
	v, found := r.cache.Get(userID)
	if !found {
		entry, err := r.load(ctx, userID)
		if err != nil {
			return entity.RoleUnconfigured, err
		}
		r.cache.Set(userID, entry, cache.DefaultExpiration)
		v = entry
	}
	entry := v.(resolved)
	if !entry.active {
		return entity.RoleUnconfigured, ErrUserInactive
	}
	return entry.role, nil
}

func (r *RoleResolver) load(ctx context.Context, userID string) (resolved, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		return resolved{}, fmt.Errorf("resolver usuário: %w", err)
	}
	if user == nil || !user.Active {
		return resolved{}, nil
	}
	list, err := r.roles.ListByUser(ctx, userID)
	if err != nil {
		return resolved{}, fmt.Errorf("resolver perfil: %w", err)
	}
	return resolved{role: r.Pick(userID, list), active: true}, nil
}

// Pick aplica el desempate sobre las asignaciones recibidas (ignora las inactivas).
func (r *RoleResolver) Pick(userID string, list []*entity.RoleAssignment) entity.Role {
	role := entity.RoleUnconfigured
	active := 0
	for _, a := range list {
		if !a.Active {
			continue
		}
		active++
		if a.Role.Privilege() > role.Privilege() {
			role = a.Role
		}
	}
	if active > 1 {
		r.log.Warn().
			Str("user_id", userID).
			Int("active_roles", active).
			Str("role", string(role)).
			Msg("usuário com múltiplos perfis ativos; usando o de maior privilégio")
	}
	return role
}

// Invalidate descarta el perfil cacheado (cambios de administración).
func (r *RoleResolver) Invalidate(userID string) {
	r.cache.Delete(userID)
}
