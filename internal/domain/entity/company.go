package entity

import (
	"time"

	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// Address endereço de la empresa.
type Address struct {
	Street     string
	Number     string
	Complement string
	District   string
	City       string
	State      string
	ZipCode    string
}

// Company empresa MEI (tabla empresa). Multi-tenant: cada fila pertenece a un usuario dueño.
type Company struct {
	ID                  string
	UserID              string
	CNPJ                string // 14 dígitos sin máscara
	LegalName           string // razão social
	TradeName           string // nome fantasia
	OwnerName           string
	OwnerCPF            string
	OwnerBirthDate      *time.Time
	OpeningDate         *time.Time
	SimplesOptant       bool
	SimeiOptant         bool
	MainCNAE            string
	MainCNAEDescription string
	Address             Address
	Phone               string
	Email               string
	TaxRegime           string
	Status              workflow.CompanyStatus
	RejectionReason     string
	SuspensionReason    string
	ApprovedBy          *string
	ApprovedAt          *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// DisplayName nome fantasia o, si falta, la razão social.
func (c *Company) DisplayName() string {
	if c.TradeName != "" {
		return c.TradeName
	}
	return c.LegalName
}

// SecondaryCNAE actividad secundaria (cnaes_secundarios).
type SecondaryCNAE struct {
	ID          string
	CompanyID   string
	Code        string
	Description string
}

// Tipos de inscrição.
const (
	RegistrationMunicipal = "municipal"
	RegistrationState     = "estadual"
)

// Registration inscrição municipal o estadual (inscricoes).
type Registration struct {
	ID        string
	CompanyID string
	Kind      string
	Number    string
	State     string
}
