package memory

import (
	"context"
	"slices"
	"time"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

var (
	_ repository.SubscriptionRepository = (*subscriptionRepo)(nil)
	_ repository.ContractRepository     = (*contractRepo)(nil)
)

type subscriptionRepo struct{ s *Store }

func (r *subscriptionRepo) Create(ctx context.Context, sub *entity.PlanSubscription) error {
	err := r.s.lock("subscriptions.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.subs[sub.ID] = *sub
	return nil
}

func (r *subscriptionRepo) GetByID(ctx context.Context, id string) (*entity.PlanSubscription, error) {
	err := r.s.lock("subscriptions.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sub, ok := r.s.st.subs[id]
	if !ok {
		return nil, nil
	}
	return &sub, nil
}

func (r *subscriptionRepo) GetForUpdate(ctx context.Context, id string) (*entity.PlanSubscription, error) {
	return r.GetByID(ctx, id)
}

func (r *subscriptionRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.PlanSubscription, error) {
	err := r.s.lock("subscriptions.list_by_company")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.subs,
		func(x entity.PlanSubscription) bool { return x.CompanyID == companyID },
		byCreatedDesc(func(x entity.PlanSubscription) (int64, string) { return x.CreatedAt.UnixNano(), x.ID })), nil
}

func (r *subscriptionRepo) UpdateStatus(ctx context.Context, sub *entity.PlanSubscription, from workflow.SubscriptionStatus) error {
	err := r.s.lock("subscriptions.update_status")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.st.subs[sub.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status != from {
		return repository.ErrStatusChanged
	}
	cur.Status = sub.Status
	cur.UpdatedAt = sub.UpdatedAt
	r.s.st.subs[sub.ID] = cur
	return nil
}

func (r *subscriptionRepo) CancelOpenByCompany(ctx context.Context, companyID string) (int64, error) {
	err := r.s.lock("subscriptions.cancel_open")
	defer r.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	now := time.Now()
	for id, x := range r.s.st.subs {
		if x.CompanyID == companyID && x.Status != workflow.SubscriptionCancelled {
			x.Status = workflow.SubscriptionCancelled
			x.UpdatedAt = now
			r.s.st.subs[id] = x
			n++
		}
	}
	return n, nil
}

type contractRepo struct{ s *Store }

func contractKey(c entity.ServiceContract) (int64, string) { return c.ContractedAt.UnixNano(), c.ID }

// normalized lee "ativo" como pendente, igual que el adaptador postgres.
func normalized(list []*entity.ServiceContract) []*entity.ServiceContract {
	for _, c := range list {
		c.Status = c.Status.Normalize()
	}
	return list
}

func (r *contractRepo) Create(ctx context.Context, c *entity.ServiceContract) error {
	err := r.s.lock("contracts.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	for _, x := range r.s.st.contracts {
		if x.CompanyID == c.CompanyID && x.ServiceID == c.ServiceID && x.Status.Open() {
			return domain.ErrDuplicate
		}
	}
	r.s.st.contracts[c.ID] = *c
	return nil
}

func (r *contractRepo) GetByID(ctx context.Context, id string) (*entity.ServiceContract, error) {
	err := r.s.lock("contracts.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c, ok := r.s.st.contracts[id]
	if !ok {
		return nil, nil
	}
	c.Status = c.Status.Normalize()
	return &c, nil
}

func (r *contractRepo) GetForUpdate(ctx context.Context, id string) (*entity.ServiceContract, error) {
	return r.GetByID(ctx, id)
}

func (r *contractRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.ServiceContract, error) {
	err := r.s.lock("contracts.list_by_company")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return normalized(sortedValues(r.s.st.contracts,
		func(c entity.ServiceContract) bool { return c.CompanyID == companyID },
		byCreatedDesc(contractKey))), nil
}

func (r *contractRepo) List(ctx context.Context, f repository.ContractFilter) ([]*entity.ServiceContract, error) {
	err := r.s.lock("contracts.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -f.MinDays)
	list := sortedValues(r.s.st.contracts, func(c entity.ServiceContract) bool {
		if f.Status != "" && c.Status.Normalize() != f.Status {
			return false
		}
		if f.CompanyID != "" && c.CompanyID != f.CompanyID {
			return false
		}
		return f.MinDays <= 0 || !c.ContractedAt.After(cutoff)
	}, byCreated(contractKey))
	return normalized(page(list, f.Limit, f.Offset)), nil
}

func (r *contractRepo) HasOpen(ctx context.Context, companyID, serviceID string) (bool, error) {
	err := r.s.lock("contracts.has_open")
	defer r.s.mu.Unlock()
	if err != nil {
		return false, err
	}
	for _, c := range r.s.st.contracts {
		if c.CompanyID == companyID && c.ServiceID == serviceID && c.Status.Open() {
			return true, nil
		}
	}
	return false, nil
}

func (r *contractRepo) UpdateStatus(ctx context.Context, c *entity.ServiceContract, from workflow.ContractStatus) error {
	err := r.s.lock("contracts.update_status")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	cur, ok := r.s.st.contracts[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if cur.Status.Normalize() != from {
		return repository.ErrStatusChanged
	}
	cur.Status = c.Status
	cur.Completed = c.Status.Completed()
	cur.CompletedAt = c.CompletedAt
	cur.Note = c.Note
	cur.UpdatedAt = c.UpdatedAt
	r.s.st.contracts[c.ID] = cur
	return nil
}

func (r *contractRepo) CancelOpenByCompany(ctx context.Context, companyID string) (int64, error) {
	err := r.s.lock("contracts.cancel_open")
	defer r.s.mu.Unlock()
	if err != nil {
		return 0, err
	}
	var n int64
	now := time.Now()
	for id, c := range r.s.st.contracts {
		if c.CompanyID == companyID && c.Status.Open() {
			c.SetStatus(workflow.ContractCancelled, now)
			r.s.st.contracts[id] = c
			n++
		}
	}
	return n, nil
}

func (r *contractRepo) OpenContractDates(ctx context.Context) ([]time.Time, error) {
	err := r.s.lock("contracts.open_dates")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	var out []time.Time
	for _, c := range r.s.st.contracts {
		if c.Status.Open() {
			out = append(out, c.ContractedAt)
		}
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out, nil
}
