package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
)

// maxUploadBytes tope de lectura por archivo; el caso de uso aplica su propio límite.
const maxUploadBytes = 12 << 20

// page lee limit/offset del query; valores inválidos caen en los defaults.
func page(c *fiber.Ctx) (limit, offset int) {
	var p dto.PageRequest
	_ = c.QueryParser(&p)
	p.DefaultPage()
	return p.Limit, p.Offset
}

// formFile lee el archivo multipart del campo indicado.
func formFile(c *fiber.Ctx, field string) (dto.UploadFile, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return dto.UploadFile{}, fmt.Errorf("%w: arquivo %q obrigatório", domain.ErrInvalidInput, field)
	}
	data, err := readFile(fh)
	if err != nil {
		return dto.UploadFile{}, err
	}
	return dto.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUploadBytes {
		return nil, fmt.Errorf("%w: arquivo maior que %d MB", domain.ErrInvalidInput, maxUploadBytes>>20)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("abrir upload: %w", err)
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("ler upload: %w", err)
	}
	return data, nil
}

// sendAttachment responde con el archivo como descarga.
func sendAttachment(c *fiber.Ctx, name, contentType string, data []byte) error {
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Attachment(name)
	return c.Send(data)
}
