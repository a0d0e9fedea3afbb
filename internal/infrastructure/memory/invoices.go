package memory

import (
	"context"
	"time"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

var (
	_ repository.CertificateRepository    = (*certificateRepo)(nil)
	_ repository.InvoiceRequestRepository = (*invoiceRepo)(nil)
)

type certificateRepo struct{ s *Store }

func (r *certificateRepo) Create(ctx context.Context, c *entity.DigitalCertificate) error {
	err := r.s.lock("certificates.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.certs[c.ID] = *c
	return nil
}

func (r *certificateRepo) GetActiveByCompany(ctx context.Context, companyID string) (*entity.DigitalCertificate, error) {
	err := r.s.lock("certificates.get_active")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var found *entity.DigitalCertificate
	for _, c := range r.s.st.certs {
		if c.CompanyID == companyID && c.Active && (found == nil || c.CreatedAt.After(found.CreatedAt)) {
			found = &c
		}
	}
	return found, nil
}

func (r *certificateRepo) DeactivateByCompany(ctx context.Context, companyID string) error {
	err := r.s.lock("certificates.deactivate")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	now := time.Now()
	for id, c := range r.s.st.certs {
		if c.CompanyID == companyID && c.Active {
			c.Active = false
			c.UpdatedAt = now
			r.s.st.certs[id] = c
		}
	}
	return nil
}

type invoiceRepo struct{ s *Store }

func invoiceKey(x entity.InvoiceRequest) (int64, string) { return x.CreatedAt.UnixNano(), x.ID }

func (r *invoiceRepo) Create(ctx context.Context, x *entity.InvoiceRequest) error {
	err := r.s.lock("invoices.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.invoices[x.ID] = *x
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id string) (*entity.InvoiceRequest, error) {
	err := r.s.lock("invoices.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	x, ok := r.s.st.invoices[id]
	if !ok {
		return nil, nil
	}
	return &x, nil
}

func (r *invoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.InvoiceRequest, error) {
	return r.GetByID(ctx, id)
}

func (r *invoiceRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InvoiceRequest, error) {
	err := r.s.lock("invoices.list_by_company")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.invoices,
		func(x entity.InvoiceRequest) bool { return x.CompanyID == companyID },
		byCreatedDesc(invoiceKey)), nil
}

func (r *invoiceRepo) List(ctx context.Context, status workflow.InvoiceStatus, limit, offset int) ([]*entity.InvoiceRequest, error) {
	err := r.s.lock("invoices.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	list := sortedValues(r.s.st.invoices,
		func(x entity.InvoiceRequest) bool { return status == "" || x.Status == status },
		byCreated(invoiceKey))
	return page(list, limit, offset), nil
}

func (r *invoiceRepo) Update(ctx context.Context, x *entity.InvoiceRequest, from workflow.InvoiceStatus) error {
	err := r.s.lock("invoices.update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.st.invoices[x.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != from {
		return repository.ErrStatusChanged
	}
	r.s.st.invoices[x.ID] = *x
	return nil
}
