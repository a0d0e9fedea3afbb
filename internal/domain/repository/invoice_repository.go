package repository

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// CertificateRepository certificados digitales A1.
type CertificateRepository interface {
	Create(ctx context.Context, c *entity.DigitalCertificate) error
	GetActiveByCompany(ctx context.Context, companyID string) (*entity.DigitalCertificate, error)
	DeactivateByCompany(ctx context.Context, companyID string) error
}

// InvoiceRequestRepository solicitações de NFS-e.
type InvoiceRequestRepository interface {
	Create(ctx context.Context, r *entity.InvoiceRequest) error
	GetByID(ctx context.Context, id string) (*entity.InvoiceRequest, error)
	GetForUpdate(ctx context.Context, id string) (*entity.InvoiceRequest, error)
	ListByCompany(ctx context.Context, companyID string) ([]*entity.InvoiceRequest, error)
	List(ctx context.Context, status workflow.InvoiceStatus, limit, offset int) ([]*entity.InvoiceRequest, error)
	// Update persiste estado y datos de emisión si la fila sigue en from; si no, ErrStatusChanged.
	Update(ctx context.Context, r *entity.InvoiceRequest, from workflow.InvoiceStatus) error
}
