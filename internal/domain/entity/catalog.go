package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Recurrencias de plano.
const (
	RecurrenceMonthly = "mensal"
	RecurrenceYearly  = "anual"
	RecurrenceOnce    = "unico"
)

// Plan plano ofrecido en el cadastro.
type Plan struct {
	ID          string
	Kind        string
	Name        string
	Description string
	Price       decimal.Decimal
	Features    []string
	Recurrence  string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Service serviço avulso contratable por empresas ativas.
type Service struct {
	ID           string
	Name         string
	Description  string
	Price        decimal.Decimal
	Discount     decimal.Decimal
	DeadlineDays int
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FinalPrice precio menos descuento, nunca negativo.
func (s *Service) FinalPrice() decimal.Decimal {
	p := s.Price.Sub(s.Discount)
	if p.IsNegative() {
		return decimal.Zero
	}
	return p
}
