package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// BudgetConfigDTO membrete del gerador de orçamentos.
// LogoURL y LastNumber son de sólo lectura.
type BudgetConfigDTO struct {
	CompanyID           string `json:"empresa_id,omitempty"`
	BusinessName        string `json:"nome_empresa"`
	Document            string `json:"documento"`
	Phone               string `json:"telefone"`
	Email               string `json:"email"`
	Address             string `json:"endereco"`
	Site                string `json:"site"`
	Slogan              string `json:"slogan"`
	Introduction        string `json:"introducao"`
	AboutUs             string `json:"quem_somos"`
	Template            string `json:"template"`
	LogoURL             string `json:"logo_url"`
	FooterNotes         string `json:"rodape"`
	DefaultValidityDays int    `json:"validade_padrao_dias"`
	LastNumber          int    `json:"ultimo_numero"`
}

// BudgetItemDTO línea del orçamento.
type BudgetItemDTO struct {
	Description string          `json:"descricao"`
	Quantity    decimal.Decimal `json:"quantidade"`
	UnitPrice   decimal.Decimal `json:"valor_unitario"`
}

// BudgetRequest orçamento a generar.
type BudgetRequest struct {
	ClientName     string          `json:"cliente_nome" validate:"required"`
	ClientDocument string          `json:"cliente_documento"`
	ClientEmail    string          `json:"cliente_email"`
	ClientPhone    string          `json:"cliente_telefone"`
	Items          []BudgetItemDTO `json:"itens" validate:"required,min=1"`
	ValidityDays   int             `json:"validade_dias"`
	Notes          string          `json:"observacoes"`
}

// BudgetDocument datos ya calculados para renderizar el PDF.
type BudgetDocument struct {
	Number     int
	IssuedAt   time.Time
	ValidUntil time.Time
	Config     BudgetConfigDTO
	// Logo imagen PNG o JPEG; LogoExt "png" o "jpg". Vacío = sin logo.
	Logo    []byte
	LogoExt string
	Request BudgetRequest
	Lines   []BudgetLine
	Total   decimal.Decimal
}

// BudgetLine línea con subtotal.
type BudgetLine struct {
	BudgetItemDTO
	Subtotal decimal.Decimal
}

// BudgetPDF resultado de la generación.
type BudgetPDF struct {
	Number   int
	FileName string
	Data     []byte
}
