package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// BudgetHandler emissor de orçamentos.
type BudgetHandler struct {
	uc  *usecase.BudgetUseCase
	log *logger.Logger
}

// NewBudgetHandler construye el handler.
func NewBudgetHandler(uc *usecase.BudgetUseCase, log *logger.Logger) *BudgetHandler {
	return &BudgetHandler{uc: uc, log: log}
}

func (h *BudgetHandler) GetConfig(c *fiber.Ctx) error {
	out, err := h.uc.GetConfig(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *BudgetHandler) SaveConfig(c *fiber.Ctx) error {
	var in dto.BudgetConfigDTO
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SaveConfig(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UploadLogo godoc
// @Summary      Enviar logo do orçamento (PNG ou JPG, até 5 MB)
// @Tags         budgets
// @Accept       multipart/form-data
// @Produce      json
// @Param        id    path      string  true  "ID da empresa"
// @Param        logo  formData  file    true  "Imagem"
// @Success      200   {object}  dto.BudgetConfigDTO
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/budget-config/logo [put]
func (h *BudgetHandler) UploadLogo(c *fiber.Ctx) error {
	file, err := formFile(c, "logo")
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.UploadLogo(c.UserContext(), session(c), c.Params("id"), file)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *BudgetHandler) RemoveLogo(c *fiber.Ctx) error {
	if err := h.uc.RemoveLogo(c.UserContext(), session(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Logo imagen inline para la vista previa del membrete.
func (h *BudgetHandler) Logo(c *fiber.Ctx) error {
	out, err := h.uc.Logo(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, out.ContentType)
	return c.Send(out.Data)
}

// ListConfigs godoc
// @Summary      Membretes de orçamento de todas as empresas (equipe)
// @Tags         budgets
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  dto.BudgetConfigDTO
// @Router       /api/budget-configs [get]
func (h *BudgetHandler) ListConfigs(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.ListConfigs(c.UserContext(), session(c), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Generate godoc
// @Summary      Gerar orçamento em PDF
// @Tags         budgets
// @Accept       json
// @Produce      application/pdf
// @Param        id    path  string             true  "ID da empresa"
// @Param        body  body  dto.BudgetRequest  true  "Cliente e itens"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/budgets [post]
func (h *BudgetHandler) Generate(c *fiber.Ctx) error {
	var in dto.BudgetRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Generate(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set("X-Budget-Number", strconv.Itoa(out.Number))
	return sendAttachment(c, out.FileName, "application/pdf", out.Data)
}
