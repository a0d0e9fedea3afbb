package repository

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// CompanyFilter filtros del listado de empresas para el equipo contable.
type CompanyFilter struct {
	Status workflow.CompanyStatus // vacío = todos
	Limit  int
	Offset int
}

// CompanyRepository define el puerto de persistencia para Company (DIP).
// La implementación vive en infrastructure.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Company, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.Company, error)
	// ListByUserAndCNPJ empresas del usuario con ese CNPJ, en cualquier estado.
	ListByUserAndCNPJ(ctx context.Context, userID, cnpj string) ([]*entity.Company, error)
	List(ctx context.Context, f CompanyFilter) ([]*entity.Company, error)
	// UpdateStatus persiste Status, RejectionReason, SuspensionReason, ApprovedBy, ApprovedAt y
	// UpdatedAt si la fila sigue en from; si no, ErrStatusChanged.
	UpdateStatus(ctx context.Context, company *entity.Company, from workflow.CompanyStatus) error

	AddSecondaryCNAEs(ctx context.Context, cnaes []entity.SecondaryCNAE) error
	ListSecondaryCNAEs(ctx context.Context, companyID string) ([]entity.SecondaryCNAE, error)
	AddRegistrations(ctx context.Context, regs []entity.Registration) error
	ListRegistrations(ctx context.Context, companyID string) ([]entity.Registration, error)
}
