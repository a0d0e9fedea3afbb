package memory

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

var _ repository.CompanyRepository = (*companyRepo)(nil)

type companyRepo struct{ s *Store }

func companyKey(c entity.Company) (int64, string) { return c.CreatedAt.UnixNano(), c.ID }

func (r *companyRepo) Create(ctx context.Context, c *entity.Company) error {
	err := r.s.lock("companies.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, x := range r.s.st.companies {
		if x.UserID == c.UserID && x.CNPJ == c.CNPJ && x.Status.Live() {
			return domain.ErrDuplicate
		}
	}
	r.s.st.companies[c.ID] = *c
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	err := r.s.lock("companies.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c, ok := r.s.st.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *companyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	return r.GetByID(ctx, id)
}

func (r *companyRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Company, error) {
	err := r.s.lock("companies.list_by_user")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.companies,
		func(c entity.Company) bool { return c.UserID == userID },
		byCreatedDesc(companyKey)), nil
}

func (r *companyRepo) ListByUserAndCNPJ(ctx context.Context, userID, cnpj string) ([]*entity.Company, error) {
	err := r.s.lock("companies.list_by_user_cnpj")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.companies,
		func(c entity.Company) bool { return c.UserID == userID && c.CNPJ == cnpj },
		byCreatedDesc(companyKey)), nil
}

func (r *companyRepo) List(ctx context.Context, f repository.CompanyFilter) ([]*entity.Company, error) {
	err := r.s.lock("companies.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	list := sortedValues(r.s.st.companies,
		func(c entity.Company) bool { return f.Status == "" || c.Status == f.Status },
		byCreatedDesc(companyKey))
	return page(list, f.Limit, f.Offset), nil
}

func (r *companyRepo) UpdateStatus(ctx context.Context, c *entity.Company, from workflow.CompanyStatus) error {
	err := r.s.lock("companies.update_status")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.st.companies[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != from {
		return repository.ErrStatusChanged
	}
	cur.Status = c.Status
	cur.RejectionReason = c.RejectionReason
	cur.SuspensionReason = c.SuspensionReason
	cur.ApprovedBy = c.ApprovedBy
	cur.ApprovedAt = c.ApprovedAt
	cur.UpdatedAt = c.UpdatedAt
	r.s.st.companies[c.ID] = cur
	return nil
}

func (r *companyRepo) AddSecondaryCNAEs(ctx context.Context, cnaes []entity.SecondaryCNAE) error {
	err := r.s.lock("companies.add_cnaes")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.cnaes = append(r.s.st.cnaes, cnaes...)
	return nil
}

func (r *companyRepo) ListSecondaryCNAEs(ctx context.Context, companyID string) ([]entity.SecondaryCNAE, error) {
	err := r.s.lock("companies.list_cnaes")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []entity.SecondaryCNAE
	for _, c := range r.s.st.cnaes {
		if c.CompanyID == companyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *companyRepo) AddRegistrations(ctx context.Context, regs []entity.Registration) error {
	err := r.s.lock("companies.add_registrations")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.registrations = append(r.s.st.registrations, regs...)
	return nil
}

func (r *companyRepo) ListRegistrations(ctx context.Context, companyID string) ([]entity.Registration, error) {
	err := r.s.lock("companies.list_registrations")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []entity.Registration
	for _, x := range r.s.st.registrations {
		if x.CompanyID == companyID {
			out = append(out, x)
		}
	}
	return out, nil
}
