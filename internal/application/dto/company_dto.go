package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressDTO endereço.
type AddressDTO struct {
	Street     string `json:"logradouro"`
	Number     string `json:"numero"`
	Complement string `json:"complemento,omitempty"`
	District   string `json:"bairro"`
	City       string `json:"municipio"`
	State      string `json:"uf"`
	ZipCode    string `json:"cep"`
}

// CNAEDTO actividad económica.
type CNAEDTO struct {
	Code        string `json:"codigo"`
	Description string `json:"descricao"`
}

// RegistrationDTO inscrição municipal/estadual.
type RegistrationDTO struct {
	Kind   string `json:"tipo"`
	Number string `json:"numero"`
	State  string `json:"uf,omitempty"`
}

// RegisterCompanyRequest cadastro de empresa con los datos de la consulta CNPJ y el plano elegido.
type RegisterCompanyRequest struct {
	TermsAccepted       bool              `json:"terms_accepted"`
	PlanID              string            `json:"plan_id" validate:"required,uuid"`
	CNPJ                string            `json:"cnpj" validate:"required"`
	LegalName           string            `json:"razao_social" validate:"required"`
	TradeName           string            `json:"nome_fantasia"`
	OwnerName           string            `json:"nome_responsavel" validate:"required"`
	OwnerCPF            string            `json:"cpf_responsavel" validate:"required"`
	OwnerBirthDate      string            `json:"data_nascimento_responsavel" validate:"required"` // YYYY-MM-DD
	OpeningDate         string            `json:"data_abertura"`
	SimplesOptant       bool              `json:"optante_simples"`
	SimeiOptant         bool              `json:"optante_simei"`
	MainCNAE            string            `json:"cnae_principal"`
	MainCNAEDescription string            `json:"cnae_principal_descricao"`
	Address             AddressDTO        `json:"endereco"`
	Phone               string            `json:"telefone"`
	Email               string            `json:"email"`
	TaxRegime           string            `json:"regime_tributario"`
	SecondaryCNAEs      []CNAEDTO         `json:"cnaes_secundarios"`
	Registrations       []RegistrationDTO `json:"inscricoes"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID                  string            `json:"id"`
	UserID              string            `json:"user_id"`
	CNPJ                string            `json:"cnpj"`
	LegalName           string            `json:"razao_social"`
	TradeName           string            `json:"nome_fantasia"`
	OwnerName           string            `json:"nome_responsavel"`
	OwnerCPF            string            `json:"cpf_responsavel"`
	OwnerBirthDate      *time.Time        `json:"data_nascimento_responsavel,omitempty"`
	OpeningDate         *time.Time        `json:"data_abertura,omitempty"`
	SimplesOptant       bool              `json:"optante_simples"`
	SimeiOptant         bool              `json:"optante_simei"`
	MainCNAE            string            `json:"cnae_principal"`
	MainCNAEDescription string            `json:"cnae_principal_descricao"`
	Address             AddressDTO        `json:"endereco"`
	Phone               string            `json:"telefone"`
	Email               string            `json:"email"`
	TaxRegime           string            `json:"regime_tributario"`
	Status              string            `json:"status_cadastro"`
	RejectionReason     string            `json:"motivo_rejeicao,omitempty"`
	SuspensionReason    string            `json:"motivo_suspensao,omitempty"`
	ApprovedBy          *string           `json:"aprovado_por,omitempty"`
	ApprovedAt          *time.Time        `json:"data_aprovacao,omitempty"`
	SecondaryCNAEs      []CNAEDTO         `json:"cnaes_secundarios,omitempty"`
	Registrations       []RegistrationDTO `json:"inscricoes,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// CompanyListResponse listado de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// SubscriptionResponse assinatura de plano.
type SubscriptionResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"empresa_id"`
	PlanID     string          `json:"plano_id"`
	Price      decimal.Decimal `json:"valor"`
	Status     string          `json:"status"`
	ValidFrom  time.Time       `json:"data_inicio"`
	ValidUntil *time.Time      `json:"data_fim,omitempty"`
}

// SubscriptionStatusRequest cambio de estado de una assinatura (administración).
type SubscriptionStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RegisterCompanyResponse empresa creada y su assinatura.
type RegisterCompanyResponse struct {
	Company      CompanyResponse      `json:"empresa"`
	Subscription SubscriptionResponse `json:"assinatura"`
}

// ReasonRequest motivo obligatorio (rechazo, suspensión, cancelación).
type ReasonRequest struct {
	Reason string `json:"motivo"`
}

// CNPJInfo datos devueltos por la consulta de CNPJ.
type CNPJInfo struct {
	CNPJ                string     `json:"cnpj"`
	LegalName           string     `json:"razao_social"`
	TradeName           string     `json:"nome_fantasia"`
	OpeningDate         string     `json:"data_abertura,omitempty"`
	RegistryStatus      string     `json:"situacao,omitempty"`
	MainCNAE            string     `json:"cnae_principal"`
	MainCNAEDescription string     `json:"cnae_principal_descricao"`
	SecondaryCNAEs      []CNAEDTO  `json:"cnaes_secundarios"`
	Address             AddressDTO `json:"endereco"`
	Phone               string     `json:"telefone,omitempty"`
	Email               string     `json:"email,omitempty"`
	SimplesOptant       bool       `json:"optante_simples"`
	SimeiOptant         bool       `json:"optante_simei"`
	Source              string     `json:"fonte"`
}

// MandatoryDocumentStatus situación de un tipo obligatorio para la empresa.
type MandatoryDocumentStatus struct {
	TypeID     string `json:"tipo_documento_id"`
	TypeName   string `json:"tipo_documento"`
	Status     string `json:"status"` // vazio = não enviado
	DocumentID string `json:"documento_id,omitempty"`
}

// PendingDocumentsResponse obligatorios de la empresa y si ya puede aprobarse.
type PendingDocumentsResponse struct {
	CompanyID  string                    `json:"empresa_id"`
	CanApprove bool                      `json:"can_approve"`
	Items      []MandatoryDocumentStatus `json:"items"`
}
