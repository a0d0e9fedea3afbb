package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// Taker tomador del servicio.
type Taker struct {
	Document string // CPF (11) o CNPJ (14) sin máscara
	Name     string
	Email    string
	Phone    string
	Address  Address
}

// InvoiceRequest solicitação de NFS-e (tabla nfse). La emisión la hace un contador manualmente.
type InvoiceRequest struct {
	ID               string
	CompanyID        string
	RequestedBy      string
	CompetenceDate   time.Time
	Taker            Taker
	Description      string
	ServiceValue     decimal.Decimal
	ISSRate          decimal.Decimal
	ServiceListItem  string
	MunicipalCode    string
	Notes            string
	Status           workflow.InvoiceStatus
	Number           string
	VerificationCode string
	IssuedAt         *time.Time
	XMLURL           string
	PDFURL           string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ISSValue valor del ISS (valor * alíquota / 100).
func (r *InvoiceRequest) ISSValue() decimal.Decimal {
	return r.ServiceValue.Mul(r.ISSRate).Div(decimal.NewFromInt(100)).Round(2)
}
