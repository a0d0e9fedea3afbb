package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/pkg/jwt"
)

// Locals keys en Fiber.
const (
	LocalUserID  = "user_id"
	LocalEmail   = "email"
	LocalRole    = "role"
	LocalSession = "session"
)

// roleSource resuelve el perfil vigente del usuario. Lo implementa *auth.RoleResolver.
type roleSource interface {
	Resolve(ctx context.Context, userID string) (entity.Role, error)
}

// AuthMiddleware valida el Bearer Token JWT y arma la auth.Session de la petición.
// Con roles != nil el perfil se toma del resolver (con caché) y no del token, para que
// un cambio de administración tenga efecto sin un nuevo login; un usuario desactivado
// recibe 403 USER_INACTIVE aunque su token siga vigente.
func AuthMiddleware(jwtSecret string, roles roleSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := bearerToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "header Authorization obrigatório: Bearer <token>"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido ou expirado"})
		}
		role := entity.Role(claims.Role)
		if roles != nil {
			resolved, err := roles.Resolve(c.UserContext(), claims.UserID)
			if errors.Is(err, domain.ErrForbidden) {
				return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "USER_INACTIVE", Message: "usuário desativado"})
			}
			if err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "ROLE_CHECK_FAILED", Message: "não foi possível verificar o perfil, tente mais tarde"})
			}
			role = resolved
		}
		s := auth.Session{UserID: claims.UserID, Email: claims.Email, Role: role}
		c.Locals(LocalUserID, s.UserID)
		c.Locals(LocalEmail, s.Email)
		c.Locals(LocalRole, string(s.Role))
		c.Locals(LocalSession, s)
		return c.Next()
	}
}

// bearerToken extrae el token del header; para EventSource (sin headers) acepta ?access_token=.
func bearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		t := strings.TrimSpace(c.Query("access_token"))
		return t, t != ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	t := strings.TrimSpace(parts[1])
	return t, t != ""
}

// RequireRole autoriza la petición si el perfil de la sesión está en la lista.
// Sin perfil configurado responde 403 ROLE_NOT_CONFIGURED. Usar después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s, ok := SessionFrom(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sessão não encontrada"})
		}
		if !s.Configured() {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "ROLE_NOT_CONFIGURED", Message: "perfil não configurado"})
		}
		if !s.Is(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acesso não permitido para o perfil " + string(s.Role)})
		}
		return c.Next()
	}
}

// SessionFrom devuelve la sesión cargada por AuthMiddleware.
func SessionFrom(c *fiber.Ctx) (auth.Session, bool) {
	s, ok := c.Locals(LocalSession).(auth.Session)
	return s, ok && s.UserID != ""
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el perfil del contexto (después del middleware de auth).
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// session atajo para handlers detrás de AuthMiddleware.
func session(c *fiber.Ctx) auth.Session {
	s, _ := SessionFrom(c)
	return s
}
