package repository

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// DocumentTypeRepository catálogo de tipos de documento.
type DocumentTypeRepository interface {
	Create(ctx context.Context, t *entity.DocumentType) error
	Update(ctx context.Context, t *entity.DocumentType) error
	GetByID(ctx context.Context, id string) (*entity.DocumentType, error)
	GetByName(ctx context.Context, name string) (*entity.DocumentType, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.DocumentType, error)
	// ListMandatory tipos activos y obligatorios, ordenados por nombre.
	ListMandatory(ctx context.Context) ([]*entity.DocumentType, error)
}

// DocumentRepository documentos enviados por las empresas.
type DocumentRepository interface {
	Create(ctx context.Context, d *entity.Document) error
	GetByID(ctx context.Context, id string) (*entity.Document, error)
	// GetForUpdate como GetByID pero bloquea la fila hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Document, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.Document, error)
	// UpdateReview persiste Status, ReviewNote, ReviewedBy y UpdatedAt si la fila sigue en from;
	// si no, ErrStatusChanged.
	UpdateReview(ctx context.Context, d *entity.Document, from workflow.DocumentStatus) error
	Delete(ctx context.Context, id string) error
}
