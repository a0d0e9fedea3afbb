package entity

import (
	"time"

	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// DocumentTypeOther tipo de catálogo usado para documentos libres.
const DocumentTypeOther = "Outros"

// DocumentType tipo de documento del catálogo; Mandatory condiciona la activación de la empresa.
type DocumentType struct {
	ID          string
	Name        string
	Description string
	Mandatory   bool
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Document archivo enviado por el dueño de la empresa para revisión.
type Document struct {
	ID             string
	CompanyID      string
	DocumentTypeID string
	Title          string // nombre libre para "Outros"
	FileName       string
	StoragePath    string
	SizeBytes      int64
	MimeType       string
	Status         workflow.DocumentStatus
	ReviewNote     string
	UploadedBy     string
	ReviewedBy     *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
