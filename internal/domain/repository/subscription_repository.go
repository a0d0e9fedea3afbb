package repository

import (
	"context"
	"time"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// SubscriptionRepository assinaturas de plano.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *entity.PlanSubscription) error
	GetByID(ctx context.Context, id string) (*entity.PlanSubscription, error)
	GetForUpdate(ctx context.Context, id string) (*entity.PlanSubscription, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.PlanSubscription, error)
	// UpdateStatus persiste Status y UpdatedAt si la fila sigue en from; si no, ErrStatusChanged.
	UpdateStatus(ctx context.Context, s *entity.PlanSubscription, from workflow.SubscriptionStatus) error
	// CancelOpenByCompany cancela todas las assinaturas no canceladas. Devuelve cuántas cambió.
	CancelOpenByCompany(ctx context.Context, companyID string) (int64, error)
}

// ContractFilter filtros del listado del executor de serviços.
type ContractFilter struct {
	Status    workflow.ContractStatus // vacío = todos
	CompanyID string
	MinDays   int // antigüedad mínima en días desde la contratación
	Limit     int
	Offset    int
}

// ContractRepository serviços contratados. Create devuelve domain.ErrDuplicate si ya existe
// uno abierto para la misma empresa y serviço.
type ContractRepository interface {
	Create(ctx context.Context, c *entity.ServiceContract) error
	GetByID(ctx context.Context, id string) (*entity.ServiceContract, error)
	GetForUpdate(ctx context.Context, id string) (*entity.ServiceContract, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.ServiceContract, error)
	List(ctx context.Context, f ContractFilter) ([]*entity.ServiceContract, error)
	HasOpen(ctx context.Context, companyID, serviceID string) (bool, error)
	// UpdateStatus persiste Status, Completed, CompletedAt, Note y UpdatedAt en un único UPDATE,
	// condicionado a que la fila siga en from (ErrStatusChanged si no).
	UpdateStatus(ctx context.Context, c *entity.ServiceContract, from workflow.ContractStatus) error
	CancelOpenByCompany(ctx context.Context, companyID string) (int64, error)
	// OpenContractDates fechas de contratación de los contratos abiertos (aging).
	OpenContractDates(ctx context.Context) ([]time.Time, error)
}
