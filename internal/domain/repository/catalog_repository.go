package repository

import (
	"context"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
)

// PlanRepository planos ofrecidos en el cadastro.
type PlanRepository interface {
	Create(ctx context.Context, p *entity.Plan) error
	Update(ctx context.Context, p *entity.Plan) error
	GetByID(ctx context.Context, id string) (*entity.Plan, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error)
}

// ServiceRepository serviços avulsos.
type ServiceRepository interface {
	Create(ctx context.Context, s *entity.Service) error
	Update(ctx context.Context, s *entity.Service) error
	GetByID(ctx context.Context, id string) (*entity.Service, error)
	List(ctx context.Context, activeOnly bool) ([]*entity.Service, error)
}
