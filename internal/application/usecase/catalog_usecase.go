package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

// CatalogUseCase planos y serviços ofrecidos (mantenidos por el administrador).
type CatalogUseCase struct {
	plans    repository.PlanRepository
	services repository.ServiceRepository
	now      func() time.Time
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(plans repository.PlanRepository, services repository.ServiceRepository) *CatalogUseCase {
	return &CatalogUseCase{plans: plans, services: services, now: time.Now}
}

// ListPlans planos; activeOnly=false sólo para administración.
func (uc *CatalogUseCase) ListPlans(ctx context.Context, activeOnly bool) ([]dto.PlanResponse, error) {
	list, err := uc.plans.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanResponse, 0, len(list))
	for _, p := range list {
		out = append(out, entityToPlanResponse(p))
	}
	return out, nil
}

func validatePlan(in dto.PlanRequest) error {
	if blank(in.Name) {
		return fmt.Errorf("%w: nome do plano é obrigatório", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: valor não pode ser negativo", domain.ErrInvalidInput)
	}
	switch in.Recurrence {
	case entity.RecurrenceMonthly, entity.RecurrenceYearly, entity.RecurrenceOnce:
		return nil
	}
	return fmt.Errorf("%w: recorrência inválida %q", domain.ErrInvalidInput, in.Recurrence)
}

// CreatePlan alta de plano.
func (uc *CatalogUseCase) CreatePlan(ctx context.Context, s auth.Session, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if err := validatePlan(in); err != nil {
		return nil, err
	}
	now := uc.now()
	p := &entity.Plan{
		ID:          uuid.New().String(),
		Kind:        in.Kind,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Features:    in.Features,
		Recurrence:  in.Recurrence,
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.plans.Create(ctx, p); err != nil {
		return nil, err
	}
	out := entityToPlanResponse(p)
	return &out, nil
}

// UpdatePlan edición; se desactiva con Active=false.
func (uc *CatalogUseCase) UpdatePlan(ctx context.Context, s auth.Session, id string, in dto.PlanRequest) (*dto.PlanResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if err := validatePlan(in); err != nil {
		return nil, err
	}
	p, err := uc.plans.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: plano %s", domain.ErrNotFound, id)
	}
	p.Kind = in.Kind
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.Price = in.Price
	p.Features = in.Features
	p.Recurrence = in.Recurrence
	if in.Active != nil {
		p.Active = *in.Active
	}
	p.UpdatedAt = uc.now()
	if err := uc.plans.Update(ctx, p); err != nil {
		return nil, err
	}
	out := entityToPlanResponse(p)
	return &out, nil
}

// ListServices serviços; activeOnly=false sólo para administración.
func (uc *CatalogUseCase) ListServices(ctx context.Context, activeOnly bool) ([]dto.ServiceResponse, error) {
	list, err := uc.services.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(list))
	for _, sv := range list {
		out = append(out, entityToServiceResponse(sv))
	}
	return out, nil
}

func validateService(in dto.ServiceRequest) error {
	if blank(in.Name) {
		return fmt.Errorf("%w: nome do serviço é obrigatório", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() || in.Discount.IsNegative() {
		return fmt.Errorf("%w: valores não podem ser negativos", domain.ErrInvalidInput)
	}
	if in.Discount.GreaterThan(in.Price) {
		return fmt.Errorf("%w: desconto maior que o valor", domain.ErrInvalidInput)
	}
	if in.DeadlineDays < 0 {
		return fmt.Errorf("%w: prazo inválido", domain.ErrInvalidInput)
	}
	return nil
}

// CreateService alta de serviço.
func (uc *CatalogUseCase) CreateService(ctx context.Context, s auth.Session, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if err := validateService(in); err != nil {
		return nil, err
	}
	now := uc.now()
	sv := &entity.Service{
		ID:           uuid.New().String(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Price:        in.Price,
		Discount:     in.Discount,
		DeadlineDays: in.DeadlineDays,
		Active:       in.Active == nil || *in.Active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.services.Create(ctx, sv); err != nil {
		return nil, err
	}
	out := entityToServiceResponse(sv)
	return &out, nil
}

// UpdateService edición; se desactiva con Active=false.
func (uc *CatalogUseCase) UpdateService(ctx context.Context, s auth.Session, id string, in dto.ServiceRequest) (*dto.ServiceResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if err := validateService(in); err != nil {
		return nil, err
	}
	sv, err := uc.services.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sv == nil {
		return nil, fmt.Errorf("%w: serviço %s", domain.ErrNotFound, id)
	}
	sv.Name = strings.TrimSpace(in.Name)
	sv.Description = in.Description
	sv.Price = in.Price
	sv.Discount = in.Discount
	sv.DeadlineDays = in.DeadlineDays
	if in.Active != nil {
		sv.Active = *in.Active
	}
	sv.UpdatedAt = uc.now()
	if err := uc.services.Update(ctx, sv); err != nil {
		return nil, err
	}
	out := entityToServiceResponse(sv)
	return &out, nil
}
