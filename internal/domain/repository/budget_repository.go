package repository

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

// BudgetRepository configuración del gerador de orçamentos.
type BudgetRepository interface {
	GetConfig(ctx context.Context, companyID string) (*entity.BudgetConfig, error)
	SaveConfig(ctx context.Context, cfg *entity.BudgetConfig) error
	// ListConfigs membretes guardados (nome_empresa no vacío), por nombre.
	ListConfigs(ctx context.Context, limit, offset int) ([]*entity.BudgetConfig, error)
	// NextNumber incrementa y devuelve el número de orçamento de la empresa de forma atómica.
	NextNumber(ctx context.Context, companyID string) (int, error)
}

// AuditRepository trilha de auditoria.
type AuditRepository interface {
	Create(ctx context.Context, e *entity.AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]*entity.AuditEntry, error)
}
