package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var (
	_ repository.PlanRepository    = (*PlanRepo)(nil)
	_ repository.ServiceRepository = (*ServiceRepo)(nil)
)

// PlanRepo tabla planos.
type PlanRepo struct {
	q Querier
}

// NewPlanRepository construye el adaptador. Pasar pool o tx.
func NewPlanRepository(q Querier) *PlanRepo {
	return &PlanRepo{q: q}
}

const planColumns = `id, tipo, nome, descricao, preco, recursos, recorrencia, ativo, created_at, updated_at`

func scanPlan(row pgx.Row) (*entity.Plan, error) {
	var p entity.Plan
	if err := row.Scan(&p.ID, &p.Kind, &p.Name, &p.Description, &p.Price, &p.Features, &p.Recurrence, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserta un plano.
func (r *PlanRepo) Create(ctx context.Context, p *entity.Plan) error {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	_, err := r.q.Exec(ctx, `INSERT INTO planos (`+planColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		p.ID, p.Kind, p.Name, p.Description, p.Price, features, p.Recurrence, p.Active, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert planos: %w", err)
	}
	return nil
}

// Update actualiza el plano.
func (r *PlanRepo) Update(ctx context.Context, p *entity.Plan) error {
	features := p.Features
	if features == nil {
		features = []string{}
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE planos SET tipo = $2, nome = $3, descricao = $4, preco = $5, recursos = $6, recorrencia = $7, ativo = $8, updated_at = $9
		WHERE id = $1`, p.ID, p.Kind, p.Name, p.Description, p.Price, features, p.Recurrence, p.Active, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update planos: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: plano %s", domain.ErrNotFound, p.ID)
	}
	return nil
}

// GetByID obtiene un plano.
func (r *PlanRepo) GetByID(ctx context.Context, id string) (*entity.Plan, error) {
	p, err := scanPlan(r.q.QueryRow(ctx, `SELECT `+planColumns+` FROM planos WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get planos: %w", err)
	}
	return p, nil
}

// List planos por precio.
func (r *PlanRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Plan, error) {
	rows, err := r.q.Query(ctx, `SELECT `+planColumns+` FROM planos WHERE (NOT $1::boolean OR ativo) ORDER BY preco, nome`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list planos: %w", err)
	}
	return collect(rows, scanPlan)
}

// ServiceRepo tabla servicos.
type ServiceRepo struct {
	q Querier
}

// NewServiceRepository construye el adaptador. Pasar pool o tx.
func NewServiceRepository(q Querier) *ServiceRepo {
	return &ServiceRepo{q: q}
}

const serviceColumns = `id, nome, descricao, preco, desconto, prazo_dias, ativo, created_at, updated_at`

func scanService(row pgx.Row) (*entity.Service, error) {
	var s entity.Service
	if err := row.Scan(&s.ID, &s.Name, &s.Description, &s.Price, &s.Discount, &s.DeadlineDays, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta un serviço.
func (r *ServiceRepo) Create(ctx context.Context, s *entity.Service) error {
	_, err := r.q.Exec(ctx, `INSERT INTO servicos (`+serviceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.Name, s.Description, s.Price, s.Discount, s.DeadlineDays, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert servicos: %w", err)
	}
	return nil
}

// Update actualiza el serviço.
func (r *ServiceRepo) Update(ctx context.Context, s *entity.Service) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE servicos SET nome = $2, descricao = $3, preco = $4, desconto = $5, prazo_dias = $6, ativo = $7, updated_at = $8
		WHERE id = $1`, s.ID, s.Name, s.Description, s.Price, s.Discount, s.DeadlineDays, s.Active, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update servicos: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: serviço %s", domain.ErrNotFound, s.ID)
	}
	return nil
}

// GetByID obtiene un serviço.
func (r *ServiceRepo) GetByID(ctx context.Context, id string) (*entity.Service, error) {
	s, err := scanService(r.q.QueryRow(ctx, `SELECT `+serviceColumns+` FROM servicos WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get servicos: %w", err)
	}
	return s, nil
}

// List serviços por nombre.
func (r *ServiceRepo) List(ctx context.Context, activeOnly bool) ([]*entity.Service, error) {
	rows, err := r.q.Query(ctx, `SELECT `+serviceColumns+` FROM servicos WHERE (NOT $1::boolean OR ativo) ORDER BY nome`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list servicos: %w", err)
	}
	return collect(rows, scanService)
}
