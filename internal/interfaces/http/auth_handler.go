package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/access"
	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// AuthHandler maneja cadastro, login, sesión y navegación.
type AuthHandler struct {
	uc     *auth.AuthUseCase
	resets *auth.PasswordResetUseCase
	log    *logger.Logger
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, resets *auth.PasswordResetUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, resets: resets, log: log}
}

// SignUp godoc
// @Summary      Criar conta de cliente
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SignUpRequest  true  "email, password, name"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/signup [post]
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var in dto.SignUpRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SignUp(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login godoc
// @Summary      Iniciar sessão
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "email, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "email e password são obrigatórios"})
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ForgotPassword godoc
// @Summary      Solicitar link de redefinição de senha
// @Description  Responde 202 mesmo para e-mails não cadastrados.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ForgotPasswordRequest  true  "email"
// @Success      202   {object}  dto.MessageResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/auth/password/forgot [post]
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var in dto.ForgotPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.resets.Forgot(c.UserContext(), in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.MessageResponse{
		Message: "se o e-mail estiver cadastrado, você receberá um link de redefinição",
	})
}

// ResetPassword godoc
// @Summary      Redefinir senha com o token recebido por e-mail
// @Tags         auth
// @Accept       json
// @Param        body  body  dto.ResetPasswordRequest  true  "token, password"
// @Success      204
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/password/reset [post]
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var in dto.ResetPasswordRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.resets.Reset(c.UserContext(), in); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Sessão atual com o perfil vigente
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.MeResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.uc.Me(c.UserContext(), session(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CheckNavigation decide si la sesión puede entrar en ?path=.
func (h *AuthHandler) CheckNavigation(c *fiber.Ctx) error {
	s := session(c)
	return c.JSON(access.Decide(c.Query("path", access.HomePath), &s))
}

// Menu rutas visibles para el perfil de la sesión.
func (h *AuthHandler) Menu(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"items": access.Menu(session(c).Role)})
}
