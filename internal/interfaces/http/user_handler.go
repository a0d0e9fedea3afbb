package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// UserHandler administración de usuarios y consulta de auditoría.
type UserHandler struct {
	users *usecase.UserAdminUseCase
	audit *usecase.AuditUseCase
	log   *logger.Logger
}

// NewUserHandler construye el handler.
func NewUserHandler(users *usecase.UserAdminUseCase, audit *usecase.AuditUseCase, log *logger.Logger) *UserHandler {
	return &UserHandler{users: users, audit: audit, log: log}
}

func (h *UserHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.users.List(c.UserContext(), session(c), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// SetRole godoc
// @Summary      Alterar perfil do usuário
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID do usuário"
// @Param        body  body  dto.SetRoleRequest  true  "cliente | contador | administrador"
// @Success      200   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/users/{id}/role [put]
func (h *UserHandler) SetRole(c *fiber.Ctx) error {
	var in dto.SetRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.users.SetRole(c.UserContext(), session(c), c.Params("id"), in.Role)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	var in dto.SetActiveRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.users.SetActive(c.UserContext(), session(c), c.Params("id"), in.Active); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Audit registros de auditoría, más recientes primero.
func (h *UserHandler) Audit(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.audit.List(c.UserContext(), session(c), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}
