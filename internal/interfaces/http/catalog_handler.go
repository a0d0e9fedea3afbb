package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// CatalogHandler planos y serviços.
type CatalogHandler struct {
	uc  *usecase.CatalogUseCase
	log *logger.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *usecase.CatalogUseCase, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{uc: uc, log: log}
}

// ListPlans planos; ?all=true incluye los inactivos.
func (h *CatalogHandler) ListPlans(c *fiber.Ctx) error {
	out, err := h.uc.ListPlans(c.UserContext(), !c.QueryBool("all", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *CatalogHandler) CreatePlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreatePlan(c.UserContext(), session(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) UpdatePlan(c *fiber.Ctx) error {
	var in dto.PlanRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdatePlan(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListServices serviços con precio final; ?all=true incluye los inactivos.
func (h *CatalogHandler) ListServices(c *fiber.Ctx) error {
	out, err := h.uc.ListServices(c.UserContext(), !c.QueryBool("all", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *CatalogHandler) CreateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateService(c.UserContext(), session(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) UpdateService(c *fiber.Ctx) error {
	var in dto.ServiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateService(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
