package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/pkg/jwt"
)

const minPasswordLen = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: cadastro, login y sesión actual.
type AuthUseCase struct {
	users    repository.UserRepository
	roles    repository.RoleRepository
	tx       repository.TxRunner
	resolver *RoleResolver
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(users repository.UserRepository, roles repository.RoleRepository, tx repository.TxRunner, resolver *RoleResolver, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{users: users, roles: roles, tx: tx, resolver: resolver, jwtCfg: jwtCfg}
}

// SignUp crea el usuario y su perfil cliente en una transacción.
func (uc *AuthUseCase) SignUp(ctx context.Context, in dto.SignUpRequest) (*dto.UserResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: a senha deve ter pelo menos %d caracteres", domain.ErrInvalidInput, minPasswordLen)
	}
	existing, err := uc.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Users.Create(ctx, user); err != nil {
			return err
		}
		return r.Roles.Assign(ctx, &entity.RoleAssignment{
			ID:        uuid.New().String(),
			UserID:    user.ID,
			Role:      entity.RoleClient,
			Active:    true,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user, entity.RoleClient), nil
}

// Login verifica email/password, resuelve el perfil y genera el JWT.
// Usuario o asignación inactiva = ErrForbidden; sin asignaciones = token con perfil vacío.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// igual que password incorrecto
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	assignments, err := uc.roles.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	role := uc.resolver.Pick(user.ID, assignments)
	if len(assignments) > 0 && role == entity.RoleUnconfigured {
		return nil, fmt.Errorf("%w: perfil desativado", domain.ErrForbidden)
	}
	uc.resolver.Invalidate(user.ID)

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, string(role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *ToUserResponse(user, role),
	}, nil
}

// Me devuelve la sesión con el perfil vigente (puede diferir del token tras un cambio de administración).
func (uc *AuthUseCase) Me(ctx context.Context, s Session) (*dto.MeResponse, error) {
	role, err := uc.resolver.Resolve(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{
		UserID:         s.UserID,
		Email:          s.Email,
		Role:           string(role),
		RoleConfigured: role != entity.RoleUnconfigured,
	}, nil
}

// ToUserResponse mapea la entidad a DTO.
func ToUserResponse(u *entity.User, role entity.Role) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
