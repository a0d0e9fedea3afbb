package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/infrastructure/memory"
	pkgjwt "github.com/jhoicas/topmei-api/pkg/jwt"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

const testSecret = "test-secret-key-for-unit-tests"

func newAuth(t *testing.T) (*auth.AuthUseCase, *memory.Store, *auth.RoleResolver) {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	resolver := auth.NewRoleResolver(repos.Users, repos.Roles, logger.Nop())
	uc := auth.NewAuthUseCase(repos.Users, repos.Roles, store, resolver, auth.JWTConfig{
		Secret: testSecret, ExpMinutes: 60, Issuer: "topmei-test",
	})
	return uc, store, resolver
}

func TestSignUp_CreaUsuarioConPerfilCliente(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()

	out, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "Ana@Mei.com", Password: "segredo123", Name: "Ana"})
	require.NoError(t, err)
	assert.Equal(t, "ana@mei.com", out.Email)
	assert.Equal(t, "cliente", out.Role)

	roles, err := store.Repos().Roles.ListByUser(ctx, out.ID)
	require.NoError(t, err)
	require.Len(t, roles, 1)
	assert.Equal(t, entity.RoleClient, roles[0].Role)

	_, err = uc.SignUp(ctx, dto.SignUpRequest{Email: "ana@mei.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestSignUp_FalloEnPerfilRevierteUsuario(t *testing.T) {
	uc, store, _ := newAuth(t)
	store.FailOn("roles.assign", assert.AnError)

	_, err := uc.SignUp(context.Background(), dto.SignUpRequest{Email: "b@mei.com", Password: "segredo123"})
	require.Error(t, err)

	u, err := store.Repos().Users.FindByEmail(context.Background(), "b@mei.com")
	require.NoError(t, err)
	assert.Nil(t, u, "el usuario no debe persistir si la asignación falla")
}

func TestSignUp_PasswordCorta(t *testing.T) {
	uc, _, _ := newAuth(t)
	_, err := uc.SignUp(context.Background(), dto.SignUpRequest{Email: "c@mei.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin_TokenConPerfil(t *testing.T) {
	uc, _, _ := newAuth(t)
	ctx := context.Background()
	_, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "d@mei.com", Password: "segredo123"})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "d@mei.com", Password: "segredo123"})
	require.NoError(t, err)
	claims, err := pkgjwt.Parse(testSecret, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "cliente", claims.Role)
	assert.Equal(t, "d@mei.com", claims.Email)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "d@mei.com", Password: "errada123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nao@existe.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_PerfilInactivoBloquea(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()
	u, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "e@mei.com", Password: "segredo123"})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Roles.DeactivateAll(ctx, u.ID))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "e@mei.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_UsuarioInactivoBloquea(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()
	u, err := uc.SignUp(ctx, dto.SignUpRequest{Email: "f@mei.com", Password: "segredo123"})
	require.NoError(t, err)
	require.NoError(t, store.Repos().Users.SetActive(ctx, u.ID, false))

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "f@mei.com", Password: "segredo123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestLogin_SinAsignacionesTokenSinPerfil(t *testing.T) {
	uc, store, _ := newAuth(t)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte("segredo123"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, store.Repos().Users.Create(ctx, &entity.User{
		ID: "sem-perfil", Email: "g@mei.com", PasswordHash: string(hash), Active: true, CreatedAt: time.Now(),
	}))

	out, err := uc.Login(ctx, dto.LoginRequest{Email: "g@mei.com", Password: "segredo123"})
	require.NoError(t, err)
	assert.Equal(t, "", out.User.Role)

	me, err := uc.Me(ctx, auth.Session{UserID: "sem-perfil", Email: "g@mei.com"})
	require.NoError(t, err)
	assert.False(t, me.RoleConfigured)
}

func TestRoleResolver_DesempatePorPrivilegio(t *testing.T) {
	store := memory.New()
	repos := store.Repos()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "u1@mei.com", Active: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "nadie", Email: "nadie@mei.com", Active: true, CreatedAt: now, UpdatedAt: now}))
	for i, r := range []entity.Role{entity.RoleClient, entity.RoleAdministrator, entity.RoleAccountant} {
		require.NoError(t, repos.Roles.Assign(ctx, &entity.RoleAssignment{
			ID: string(rune('a' + i)), UserID: "u1", Role: r, Active: true, CreatedAt: now,
		}))
	}
	resolver := auth.NewRoleResolver(repos.Users, repos.Roles, logger.Nop())

	role, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdministrator, role)

	role, err = resolver.Resolve(ctx, "nadie")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUnconfigured, role)
}

func TestRoleResolver_CacheEInvalidate(t *testing.T) {
	store := memory.New()
	repos := store.Repos()
	ctx := context.Background()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "u1@mei.com", Active: true, CreatedAt: time.Now(), UpdatedAt: time.Now()}))
	require.NoError(t, repos.Roles.Assign(ctx, &entity.RoleAssignment{
		ID: "a1", UserID: "u1", Role: entity.RoleClient, Active: true, CreatedAt: time.Now(),
	}))
	resolver := auth.NewRoleResolver(repos.Users, repos.Roles, logger.Nop())

	role, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleClient, role)

	require.NoError(t, repos.Roles.DeactivateAll(ctx, "u1"))
	require.NoError(t, repos.Roles.Assign(ctx, &entity.RoleAssignment{
		ID: "a2", UserID: "u1", Role: entity.RoleAccountant, Active: true, CreatedAt: time.Now(),
	}))

	role, _ = resolver.Resolve(ctx, "u1")
	assert.Equal(t, entity.RoleClient, role, "valor cacheado hasta invalidar")

	resolver.Invalidate("u1")
	role, _ = resolver.Resolve(ctx, "u1")
	assert.Equal(t, entity.RoleAccountant, role)
}

func TestSession(t *testing.T) {
	s := auth.Session{UserID: "u", Role: entity.RoleAccountant}
	assert.True(t, s.Staff())
	assert.True(t, s.Is(entity.RoleClient, entity.RoleAccountant))
	assert.False(t, s.Is(entity.RoleAdministrator))
	assert.False(t, auth.Session{}.Is(entity.RoleUnconfigured))
	assert.False(t, auth.Session{}.Configured())
}

func TestRoleResolver_UsuarioDesativadoOInexistente(t *testing.T) {
	store := memory.New()
	repos := store.Repos()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u1", Email: "u1@mei.com", Active: true, CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Roles.Assign(ctx, &entity.RoleAssignment{ID: "a1", UserID: "u1", Role: entity.RoleClient, Active: true, CreatedAt: now}))
	resolver := auth.NewRoleResolver(repos.Users, repos.Roles, logger.Nop())

	role, err := resolver.Resolve(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleClient, role)

	require.NoError(t, repos.Users.SetActive(ctx, "u1", false))
	resolver.Invalidate("u1")
	_, err = resolver.Resolve(ctx, "u1")
	assert.ErrorIs(t, err, auth.ErrUserInactive)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = resolver.Resolve(ctx, "borrado")
	assert.ErrorIs(t, err, auth.ErrUserInactive)
}
