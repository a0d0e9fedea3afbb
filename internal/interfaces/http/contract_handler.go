package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// ContractHandler contratación y ejecución de serviços.
type ContractHandler struct {
	uc  *usecase.ContractUseCase
	log *logger.Logger
}

// NewContractHandler construye el handler.
func NewContractHandler(uc *usecase.ContractUseCase, log *logger.Logger) *ContractHandler {
	return &ContractHandler{uc: uc, log: log}
}

// Contract godoc
// @Summary      Contratar serviço para a empresa
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "ID da empresa"
// @Param        body  body  dto.ContractRequest  true  "servico_id"
// @Success      201   {object}  dto.ContractResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/contracts [post]
func (h *ContractHandler) Contract(c *fiber.Ctx) error {
	var in dto.ContractRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Contract(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByCompany contratos de la empresa.
func (h *ContractHandler) ListByCompany(c *fiber.Ctx) error {
	out, err := h.uc.ListByCompany(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// List cola del executor con filtros status, empresa_id y dias_minimos.
func (h *ContractHandler) List(c *fiber.Ctx) error {
	var in dto.ContractListRequest
	if err := c.QueryParser(&in); err != nil {
		return badBody(c)
	}
	in.Limit, in.Offset = page(c)
	out, err := h.uc.ListAll(c.UserContext(), session(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// Aging antigüedad de los contratos abiertos.
func (h *ContractHandler) Aging(c *fiber.Ctx) error {
	out, err := h.uc.Aging(c.UserContext(), session(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *ContractHandler) Start(c *fiber.Ctx) error {
	out, err := h.uc.Start(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *ContractHandler) Complete(c *fiber.Ctx) error {
	out, err := h.uc.Complete(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Cancel cancela con motivo; el dueño sólo mientras está pendente.
func (h *ContractHandler) Cancel(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Cancel(c.UserContext(), session(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
