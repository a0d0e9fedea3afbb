package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ContractRequest contratación de un serviço.
type ContractRequest struct {
	ServiceID string `json:"servico_id" validate:"required,uuid"`
	Note      string `json:"observacao"`
}

// ContractResponse serviço contratado.
type ContractResponse struct {
	ID           string          `json:"id"`
	CompanyID    string          `json:"empresa_id"`
	ServiceID    string          `json:"servico_id"`
	ContractedAt time.Time       `json:"data_contratacao"`
	Price        decimal.Decimal `json:"valor"`
	Status       string          `json:"status"`
	Note         string          `json:"observacao,omitempty"`
	Completed    bool            `json:"concluido"`
	CompletedAt  *time.Time      `json:"data_conclusao,omitempty"`
	DaysOpen     int             `json:"dias_em_aberto"`
}

// ContractListRequest filtros del executor.
type ContractListRequest struct {
	Status    string `query:"status"`
	CompanyID string `query:"empresa_id"`
	MinDays   int    `query:"dias_minimos"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// AgingBucketDTO contratos abiertos con esa antigüedad. Days = -1 para "mais de 9 dias".
type AgingBucketDTO struct {
	Label string `json:"label"`
	Days  int    `json:"dias"`
	Count int    `json:"quantidade"`
}

// AgingResponse antigüedad de los contratos abiertos.
type AgingResponse struct {
	Buckets []AgingBucketDTO `json:"buckets"`
	Total   int              `json:"total"`
}
