package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var (
	_ repository.PlanRepository    = (*planRepo)(nil)
	_ repository.ServiceRepository = (*serviceRepo)(nil)
)

type planRepo struct{ s *Store }

func (r *planRepo) Create(ctx context.Context, p *entity.Plan) error {
	err := r.s.lock("plans.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	cp := *p
	cp.Features = slices.Clone(p.Features)
	r.s.st.plans[p.ID] = cp
	return nil
}

func (r *planRepo) Update(ctx context.Context, p *entity.Plan) error {
	err := r.s.lock("plans.update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.st.plans[p.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *p
	cp.Features = slices.Clone(p.Features)
	r.s.st.plans[p.ID] = cp
	return nil
}

func (r *planRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	err := r.s.lock("plans.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	p, ok := r.s.st.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *planRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error) {
	err := r.s.lock("plans.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.plans,
		func(p entity.Plan) bool { return !activeOnly || p.Active },
		func(a, b entity.Plan) int { return a.Price.Cmp(b.Price) }), nil
}

type serviceRepo struct{ s *Store }

func (r *serviceRepo) Create(ctx context.Context, sv *entity.Service) error {
	err := r.s.lock("services.create")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	r.s.st.services[sv.ID] = *sv
	return nil
}

func (r *serviceRepo) Update(ctx context.Context, sv *entity.Service) error {
	err := r.s.lock("services.update")
	defer r.s.mu.Unlock()
	if err != nil {
		return err
	}
	if _, ok := r.s.st.services[sv.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.services[sv.ID] = *sv
	return nil
}

func (r *serviceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	err := r.s.lock("services.get")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	sv, ok := r.s.st.services[id]
	if !ok {
		return nil, nil
	}
	return &sv, nil
}

func (r *serviceRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Service, error) {
	err := r.s.lock("services.list")
	defer r.s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return sortedValues(r.s.st.services,
		func(sv entity.Service) bool { return !activeOnly || sv.Active },
		func(a, b entity.Service) int { return cmp.Compare(a.Name, b.Name) }), nil
}
