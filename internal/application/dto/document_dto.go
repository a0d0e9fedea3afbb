package dto

import "time"

// DocumentTypeRequest alta/edición de un tipo de documento.
type DocumentTypeRequest struct {
	Name        string `json:"nome" validate:"required"`
	Description string `json:"descricao"`
	Mandatory   bool   `json:"obrigatorio"`
	Active      *bool  `json:"ativo"`
}

// DocumentTypeResponse tipo de documento.
type DocumentTypeResponse struct {
	ID          string `json:"id"`
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Mandatory   bool   `json:"obrigatorio"`
	Active      bool   `json:"ativo"`
}

// UploadFile archivo recibido por multipart.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// DocumentResponse documento enviado.
type DocumentResponse struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"empresa_id"`
	DocumentTypeID string    `json:"tipo_documento_id"`
	Title          string    `json:"titulo,omitempty"`
	FileName       string    `json:"nome_arquivo"`
	SizeBytes      int64     `json:"tamanho"`
	MimeType       string    `json:"mime_type"`
	Status         string    `json:"status"`
	ReviewNote     string    `json:"observacao,omitempty"`
	UploadedBy     string    `json:"enviado_por"`
	ReviewedBy     *string   `json:"revisado_por,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// DocumentListResponse documentos de una empresa. CanApprove indica que todos los obligatorios están aprovados.
type DocumentListResponse struct {
	Items      []DocumentResponse `json:"items"`
	CanApprove bool               `json:"can_approve"`
}

// ReviewRequest nota de revisión (obligatoria al rechazar).
type ReviewRequest struct {
	Note string `json:"observacao"`
}

// DownloadResponse contenido de un archivo almacenado.
type DownloadResponse struct {
	FileName    string
	ContentType string
	Data        []byte
}
