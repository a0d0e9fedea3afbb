package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// DocumentHandler tipos de documento y documentos de las empresas.
type DocumentHandler struct {
	uc  *usecase.DocumentUseCase
	log *logger.Logger
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *usecase.DocumentUseCase, log *logger.Logger) *DocumentHandler {
	return &DocumentHandler{uc: uc, log: log}
}

// ListTypes tipos de documento; ?all=true incluye los inactivos.
func (h *DocumentHandler) ListTypes(c *fiber.Ctx) error {
	out, err := h.uc.ListTypes(c.UserContext(), !c.QueryBool("all", false))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// CreateType alta de tipo (administrador).
func (h *DocumentHandler) CreateType(c *fiber.Ctx) error {
	var in dto.DocumentTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateType(c.UserContext(), session(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateType edición de tipo (administrador).
func (h *DocumentHandler) UpdateType(c *fiber.Ctx) error {
	var in dto.DocumentTypeRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateType(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Upload godoc
// @Summary      Enviar documento da empresa
// @Description  multipart: arquivo + tipo_documento_id; sem tipo, exige titulo ("outro documento").
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        id                 path      string  true   "ID da empresa"
// @Param        arquivo            formData  file    true   "Arquivo"
// @Param        tipo_documento_id  formData  string  false  "Tipo de documento"
// @Param        titulo             formData  string  false  "Título (outro documento)"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/documents [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	file, err := formFile(c, "arquivo")
	if err != nil {
		return writeError(c, h.log, err)
	}
	var out *dto.DocumentResponse
	if typeID := c.FormValue("tipo_documento_id"); typeID != "" {
		out, err = h.uc.Upload(c.UserContext(), session(c), c.Params("id"), typeID, file)
	} else {
		out, err = h.uc.UploadOther(c.UserContext(), session(c), c.Params("id"), c.FormValue("titulo"), file)
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByCompany documentos de la empresa con can_approve.
func (h *DocumentHandler) ListByCompany(c *fiber.Ctx) error {
	out, err := h.uc.ListByCompany(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Download contenido del archivo.
func (h *DocumentHandler) Download(c *fiber.Ctx) error {
	out, err := h.uc.Download(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendAttachment(c, out.FileName, out.ContentType, out.Data)
}

// Approve aprueba un documento (contador/administrador).
func (h *DocumentHandler) Approve(c *fiber.Ctx) error {
	var in dto.ReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	out, err := h.uc.Approve(c.UserContext(), session(c), c.Params("id"), in.Note)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Reject godoc
// @Summary      Rejeitar documento (observação obrigatória)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID do documento"
// @Param        body  body  dto.ReviewRequest  true  "observacao"
// @Success      200   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/reject [post]
func (h *DocumentHandler) Reject(c *fiber.Ctx) error {
	var in dto.ReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Reject(c.UserContext(), session(c), c.Params("id"), in.Note)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete borra un documento del dueño.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), session(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
