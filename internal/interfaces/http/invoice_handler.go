package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// InvoiceHandler certificado digital y solicitações de NFS-e.
type InvoiceHandler struct {
	certs    *usecase.CertificateUseCase
	invoices *usecase.InvoiceRequestUseCase
	log      *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(certs *usecase.CertificateUseCase, invoices *usecase.InvoiceRequestUseCase, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{certs: certs, invoices: invoices, log: log}
}

// UploadCertificate godoc
// @Summary      Enviar certificado digital A1 (.pfx/.p12)
// @Tags         nfse
// @Accept       multipart/form-data
// @Produce      json
// @Param        id             path      string  true   "ID da empresa"
// @Param        certificado    formData  file    true   "Arquivo .pfx"
// @Param        senha          formData  string  true   "Senha do certificado"
// @Param        data_validade  formData  string  false  "YYYY-MM-DD; se vazio, lida do certificado"
// @Success      201  {object}  dto.CertificateResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/certificate [post]
func (h *InvoiceHandler) UploadCertificate(c *fiber.Ctx) error {
	file, err := formFile(c, "certificado")
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.certs.Upload(c.UserContext(), session(c), c.Params("id"), dto.CertificateUpload{
		File:       file,
		Password:   c.FormValue("senha"),
		ValidUntil: c.FormValue("data_validade"),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetCertificate certificado activo (sin contraseña).
func (h *InvoiceHandler) GetCertificate(c *fiber.Ctx) error {
	out, err := h.certs.Get(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Request godoc
// @Summary      Solicitar emissão de NFS-e
// @Tags         nfse
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID da empresa"
// @Param        body  body  dto.CreateInvoiceRequest  true  "Dados do tomador e do serviço"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/companies/{id}/nfse [post]
func (h *InvoiceHandler) Request(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.Request(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListByCompany solicitações de la empresa.
func (h *InvoiceHandler) ListByCompany(c *fiber.Ctx) error {
	out, err := h.invoices.ListByCompany(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

// List cola de NFS-e del staff; ?status= filtra.
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	limit, offset := page(c)
	out, err := h.invoices.ListAll(c.UserContext(), session(c), c.Query("status"), limit, offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(fiber.Map{"items": out})
}

func (h *InvoiceHandler) StartProcessing(c *fiber.Ctx) error {
	out, err := h.invoices.StartProcessing(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// MarkIssued registra número y código de verificación de la nota emitida.
func (h *InvoiceHandler) MarkIssued(c *fiber.Ctx) error {
	var in dto.IssueInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.MarkIssued(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *InvoiceHandler) MarkError(c *fiber.Ctx) error {
	var in dto.InvoiceErrorRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.MarkError(c.UserContext(), session(c), c.Params("id"), in.Message)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	var in dto.ReasonRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.invoices.Cancel(c.UserContext(), session(c), c.Params("id"), in.Reason)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExportRPS XML RPS para importar en el portal municipal.
func (h *InvoiceHandler) ExportRPS(c *fiber.Ctx) error {
	data, name, err := h.invoices.ExportRPS(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return sendAttachment(c, name, fiber.MIMEApplicationXMLCharsetUTF8, data)
}
