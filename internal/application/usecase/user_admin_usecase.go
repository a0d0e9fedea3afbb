package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// UserAdminUseCase gestión de usuarios y perfiles (administrador).
type UserAdminUseCase struct {
	repos    repository.Repos
	tx       repository.TxRunner
	resolver *auth.RoleResolver
	log      *logger.Logger
	now      func() time.Time
}

// NewUserAdminUseCase construye el caso de uso.
func NewUserAdminUseCase(repos repository.Repos, tx repository.TxRunner, resolver *auth.RoleResolver, log *logger.Logger) *UserAdminUseCase {
	return &UserAdminUseCase{repos: repos, tx: tx, resolver: resolver, log: log, now: time.Now}
}

// List usuarios con su perfil efectivo.
func (uc *UserAdminUseCase) List(ctx context.Context, s auth.Session, limit, offset int) (*dto.UserListResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	limit, offset = clampLimit(limit), max(offset, 0)
	users, err := uc.repos.Users.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	active, err := uc.repos.Roles.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	byUser := make(map[string][]*entity.RoleAssignment, len(active))
	for _, a := range active {
		byUser[a.UserID] = append(byUser[a.UserID], a)
	}
	out := &dto.UserListResponse{Items: make([]dto.UserResponse, 0, len(users)), Page: dto.PageResponse{Limit: limit, Offset: offset}}
	for _, u := range users {
		role := uc.resolver.Pick(u.ID, byUser[u.ID])
		out.Items = append(out.Items, *auth.ToUserResponse(u, role))
	}
	return out, nil
}

// SetRole reemplaza el perfil activo del usuario.
func (uc *UserAdminUseCase) SetRole(ctx context.Context, s auth.Session, userID, role string) (*dto.UserResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	r, ok := entity.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("%w: perfil %q", domain.ErrInvalidInput, role)
	}
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	err = uc.tx.Run(ctx, func(rp repository.Repos) error {
		if err := rp.Roles.DeactivateAll(ctx, userID); err != nil {
			return err
		}
		if err := rp.Roles.Assign(ctx, &entity.RoleAssignment{
			ID:        uuid.New().String(),
			UserID:    userID,
			Role:      r,
			Active:    true,
			CreatedAt: uc.now(),
		}); err != nil {
			return err
		}
		return rp.Audit.Create(ctx, auditEntry(s.UserID, nil, "user_perfis", entity.AuditUpdate, userID, nil, map[string]string{"perfil": string(r)}))
	})
	if err != nil {
		return nil, err
	}
	uc.resolver.Invalidate(userID)
	uc.log.Info().Str("user_id", userID).Str("role", string(r)).Str("actor", s.UserID).Msg("users: perfil alterado")
	return auth.ToUserResponse(user, r), nil
}

// SetActive activa o desactiva el usuario (no hay borrado).
func (uc *UserAdminUseCase) SetActive(ctx context.Context, s auth.Session, userID string, active bool) error {
	if err := requireAdmin(s); err != nil {
		return err
	}
	if userID == s.UserID && !active {
		return fmt.Errorf("%w: não é possível desativar o próprio usuário", domain.ErrConflict)
	}
	user, err := uc.repos.Users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	err = uc.tx.Run(ctx, func(rp repository.Repos) error {
		if err := rp.Users.SetActive(ctx, userID, active); err != nil {
			return err
		}
		return rp.Audit.Create(ctx, auditEntry(s.UserID, nil, "users", entity.AuditUpdate, userID,
			map[string]bool{"ativo": user.Active}, map[string]bool{"ativo": active}))
	})
	if err != nil {
		return err
	}
	uc.resolver.Invalidate(userID)
	return nil
}
