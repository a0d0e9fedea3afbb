package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CertificateUpload certificado A1 recibido por multipart.
type CertificateUpload struct {
	File       UploadFile
	Password   string
	ValidUntil string // YYYY-MM-DD opcional
}

// CertificateResponse certificado sin contraseña.
type CertificateResponse struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"empresa_id"`
	Subject    string     `json:"titular"`
	ValidUntil *time.Time `json:"data_validade,omitempty"`
	Active     bool       `json:"ativo"`
	Expired    bool       `json:"vencido"`
	CreatedAt  time.Time  `json:"created_at"`
}

// CreateInvoiceRequest solicitação de NFS-e.
type CreateInvoiceRequest struct {
	TermsAccepted   bool            `json:"terms_accepted"`
	CompetenceDate  string          `json:"data_competencia"` // YYYY-MM-DD, hoy si vacío
	TakerDocument   string          `json:"tomador_documento" validate:"required"`
	TakerName       string          `json:"tomador_nome" validate:"required"`
	TakerEmail      string          `json:"tomador_email"`
	TakerPhone      string          `json:"tomador_telefone"`
	TakerAddress    AddressDTO      `json:"tomador_endereco"`
	Description     string          `json:"discriminacao" validate:"required"`
	ServiceValue    decimal.Decimal `json:"valor_servicos"`
	ISSRate         decimal.Decimal `json:"aliquota_iss"`
	ServiceListItem string          `json:"item_lista_servico"`
	MunicipalCode   string          `json:"codigo_tributacao_municipio"`
	Notes           string          `json:"observacoes"`
}

// InvoiceResponse solicitação de NFS-e.
type InvoiceResponse struct {
	ID               string          `json:"id"`
	CompanyID        string          `json:"empresa_id"`
	RequestedBy      string          `json:"solicitado_por"`
	CompetenceDate   time.Time       `json:"data_competencia"`
	TakerDocument    string          `json:"tomador_documento"`
	TakerName        string          `json:"tomador_nome"`
	TakerEmail       string          `json:"tomador_email,omitempty"`
	Description      string          `json:"discriminacao"`
	ServiceValue     decimal.Decimal `json:"valor_servicos"`
	ISSRate          decimal.Decimal `json:"aliquota_iss"`
	ISSValue         decimal.Decimal `json:"valor_iss"`
	Status           string          `json:"status"`
	Number           string          `json:"numero_nfse,omitempty"`
	VerificationCode string          `json:"codigo_verificacao,omitempty"`
	IssuedAt         *time.Time      `json:"data_emissao,omitempty"`
	XMLURL           string          `json:"xml_url,omitempty"`
	PDFURL           string          `json:"pdf_url,omitempty"`
	ErrorMessage     string          `json:"mensagem_erro,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	SLANotice        string          `json:"aviso_prazo,omitempty"`
	SLADeadline      *time.Time      `json:"prazo_processamento,omitempty"`
}

// IssueInvoiceRequest datos de la nota emitida por el contador.
type IssueInvoiceRequest struct {
	Number           string `json:"numero_nfse" validate:"required"`
	VerificationCode string `json:"codigo_verificacao"`
	XMLURL           string `json:"xml_url"`
	PDFURL           string `json:"pdf_url"`
}

// InvoiceErrorRequest mensaje de error de emisión.
type InvoiceErrorRequest struct {
	Message string `json:"mensagem" validate:"required"`
}
