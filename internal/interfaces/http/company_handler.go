package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// CompanyHandler maneja empresas, consulta de CNPJ y assinaturas.
type CompanyHandler struct {
	uc  *usecase.CompanyUseCase
	log *logger.Logger
}

// NewCompanyHandler construye el handler inyectando el caso de uso.
func NewCompanyHandler(uc *usecase.CompanyUseCase, log *logger.Logger) *CompanyHandler {
	return &CompanyHandler{uc: uc, log: log}
}

// LookupCNPJ godoc
// @Summary      Consultar CNPJ na Receita (provedor primário e fallback)
// @Tags         companies
// @Produce      json
// @Param        cnpj  path  string  true  "CNPJ com ou sem máscara"
// @Success      200   {object}  dto.CNPJInfo
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/cnpj/{cnpj} [get]
func (h *CompanyHandler) LookupCNPJ(c *fiber.Ctx) error {
	out, err := h.uc.LookupCNPJ(c.UserContext(), c.Params("cnpj"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Cadastrar empresa MEI
// @Tags         companies
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterCompanyRequest  true  "Dados da empresa e plano"
// @Success      201   {object}  dto.RegisterCompanyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/companies [post]
func (h *CompanyHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Register(c.UserContext(), session(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMine empresas del usuario.
func (h *CompanyHandler) ListMine(c *fiber.Ctx) error {
	out, err := h.uc.ListMine(c.UserContext(), session(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// List godoc
// @Summary      Listar empresas (contador/administrador)
// @Tags         companies
// @Produce      json
// @Param        status  query  string  false  "status_cadastro"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.CompanyListResponse
// @Router       /api/companies [get]
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.uc.ListAll(c.UserContext(), session(c), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID empresa visible para el dueño o el staff.
func (h *CompanyHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprovar cadastro (exige documentos obrigatórios aprovados)
// @Tags         companies
// @Produce      json
// @Param        id   path  string  true  "ID da empresa"
// @Success      200  {object}  dto.CompanyResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/approve [post]
func (h *CompanyHandler) Approve(c *fiber.Ctx) error {
	out, err := h.uc.Approve(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reject rechaza el cadastro con motivo.
func (h *CompanyHandler) Reject(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Reject(c.UserContext(), session(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Suspend suspende la empresa (administrador).
func (h *CompanyHandler) Suspend(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Suspend(c.UserContext(), session(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Deactivate baja lógica por el dueño.
func (h *CompanyHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.UserContext(), session(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PendingDocuments situación de los documentos obligatorios y can_approve.
func (h *CompanyHandler) PendingDocuments(c *fiber.Ctx) error {
	out, err := h.uc.PendingDocuments(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListSubscriptions assinaturas de plano de la empresa.
func (h *CompanyHandler) ListSubscriptions(c *fiber.Ctx) error {
	out, err := h.uc.ListSubscriptions(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// SetSubscriptionStatus cambia el estado de una assinatura (administrador).
func (h *CompanyHandler) SetSubscriptionStatus(c *fiber.Ctx) error {
	var in dto.SubscriptionStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.SetSubscriptionStatus(c.UserContext(), session(c), c.Params("id"), in.Status)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
