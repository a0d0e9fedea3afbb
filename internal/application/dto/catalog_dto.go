package dto

import "github.com/shopspring/decimal"

// PlanRequest alta/edición de plano.
type PlanRequest struct {
	Kind        string          `json:"tipo"`
	Name        string          `json:"nome" validate:"required"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"valor"`
	Features    []string        `json:"recursos"`
	Recurrence  string          `json:"recorrencia" validate:"oneof=mensal anual unico"`
	Active      *bool           `json:"ativo"`
}

// PlanResponse plano.
type PlanResponse struct {
	ID          string          `json:"id"`
	Kind        string          `json:"tipo"`
	Name        string          `json:"nome"`
	Description string          `json:"descricao"`
	Price       decimal.Decimal `json:"valor"`
	Features    []string        `json:"recursos"`
	Recurrence  string          `json:"recorrencia"`
	Active      bool            `json:"ativo"`
}

// ServiceRequest alta/edición de serviço.
type ServiceRequest struct {
	Name         string          `json:"nome" validate:"required"`
	Description  string          `json:"descricao"`
	Price        decimal.Decimal `json:"valor"`
	Discount     decimal.Decimal `json:"desconto"`
	DeadlineDays int             `json:"prazo_dias"`
	Active       *bool           `json:"ativo"`
}

// ServiceResponse serviço con precio final.
type ServiceResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"nome"`
	Description  string          `json:"descricao"`
	Price        decimal.Decimal `json:"valor"`
	Discount     decimal.Decimal `json:"desconto"`
	FinalPrice   decimal.Decimal `json:"valor_final"`
	DeadlineDays int             `json:"prazo_dias"`
	Active       bool            `json:"ativo"`
}
