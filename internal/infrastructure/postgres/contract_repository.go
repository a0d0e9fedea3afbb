package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

var (
	_ repository.SubscriptionRepository = (*SubscriptionRepo)(nil)
	_ repository.ContractRepository     = (*ContractRepo)(nil)
)

// SubscriptionRepo assinaturas (empresas_planos).
type SubscriptionRepo struct {
	q Querier
}

// NewSubscriptionRepository construye el adaptador. Pasar pool o tx.
func NewSubscriptionRepository(q Querier) *SubscriptionRepo {
	return &SubscriptionRepo{q: q}
}

const subscriptionColumns = `id, empresa_id, plano_id, valor, status, data_inicio, data_fim, created_at, updated_at`

func scanSubscription(row pgx.Row) (*entity.PlanSubscription, error) {
	var (
		s      entity.PlanSubscription
		status string
	)
	err := row.Scan(&s.ID, &s.CompanyID, &s.PlanID, &s.Price, &status, &s.ValidFrom, &s.ValidUntil, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if s.Status, err = workflow.ParseSubscriptionStatus(status); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserta la assinatura.
func (r *SubscriptionRepo) Create(ctx context.Context, s *entity.PlanSubscription) error {
	_, err := r.q.Exec(ctx, `INSERT INTO empresas_planos (`+subscriptionColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, s.CompanyID, s.PlanID, s.Price, string(s.Status), s.ValidFrom, s.ValidUntil, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert empresas_planos: %w", err)
	}
	return nil
}

// GetByID obtiene una assinatura.
func (r *SubscriptionRepo) GetByID(ctx context.Context, id string) (*entity.PlanSubscription, error) {
	s, err := scanSubscription(r.q.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM empresas_planos WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresas_planos: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene la assinatura bloqueando la fila (SELECT ... FOR UPDATE).
func (r *SubscriptionRepo) GetForUpdate(ctx context.Context, id string) (*entity.PlanSubscription, error) {
	s, err := scanSubscription(r.q.QueryRow(ctx, `SELECT `+subscriptionColumns+` FROM empresas_planos WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresas_planos for update: %w", err)
	}
	return s, nil
}

// ListByCompany assinaturas de la empresa.
func (r *SubscriptionRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.PlanSubscription, error) {
	rows, err := r.q.Query(ctx, `SELECT `+subscriptionColumns+` FROM empresas_planos WHERE empresa_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list empresas_planos: %w", err)
	}
	return collect(rows, scanSubscription)
}

// UpdateStatus persiste estado y vigencia si la fila sigue en from.
func (r *SubscriptionRepo) UpdateStatus(ctx context.Context, s *entity.PlanSubscription, from workflow.SubscriptionStatus) error {
	cmd, err := r.q.Exec(ctx, `UPDATE empresas_planos SET status = $2, data_fim = $3, updated_at = $4 WHERE id = $1 AND status = $5`,
		s.ID, string(s.Status), s.ValidUntil, s.UpdatedAt, string(from))
	if err != nil {
		return fmt.Errorf("update empresas_planos: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: assinatura %s", repository.ErrStatusChanged, s.ID)
	}
	return nil
}

// CancelOpenByCompany cancela las assinaturas no canceladas.
func (r *SubscriptionRepo) CancelOpenByCompany(ctx context.Context, companyID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE empresas_planos SET status = $2, updated_at = NOW()
		WHERE empresa_id = $1 AND status <> $2`, companyID, string(workflow.SubscriptionCancelled))
	if err != nil {
		return 0, fmt.Errorf("cancel empresas_planos: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// ContractRepo serviços contratados (empresa_servicos).
type ContractRepo struct {
	q Querier
}

// NewContractRepository construye el adaptador. Pasar pool o tx.
func NewContractRepository(q Querier) *ContractRepo {
	return &ContractRepo{q: q}
}

const contractColumns = `
	id, empresa_id, servico_id, data_contratacao, valor, status, observacao, concluido, data_conclusao, created_at, updated_at`

// openContractStatuses incluye el "ativo" de filas antiguas, que se lee como pendente.
var openContractStatuses = workflow.OpenContractValues()

func scanContract(row pgx.Row) (*entity.ServiceContract, error) {
	var (
		c      entity.ServiceContract
		status string
	)
	err := row.Scan(&c.ID, &c.CompanyID, &c.ServiceID, &c.ContractedAt, &c.Price, &status, &c.Note,
		&c.Completed, &c.CompletedAt, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if c.Status, err = workflow.ParseContractStatus(status); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserta el contrato. El índice parcial de contratos abiertos devuelve ErrDuplicate.
func (r *ContractRepo) Create(ctx context.Context, c *entity.ServiceContract) error {
	_, err := r.q.Exec(ctx, `INSERT INTO empresa_servicos (`+contractColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		c.ID, c.CompanyID, c.ServiceID, c.ContractedAt, c.Price, string(c.Status), c.Note,
		c.Completed, c.CompletedAt, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: serviço já contratado e em aberto", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert empresa_servicos: %w", err)
	}
	return nil
}

// GetByID obtiene un contrato.
func (r *ContractRepo) GetByID(ctx context.Context, id string) (*entity.ServiceContract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM empresa_servicos WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa_servicos: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene el contrato bloqueando la fila (SELECT ... FOR UPDATE).
func (r *ContractRepo) GetForUpdate(ctx context.Context, id string) (*entity.ServiceContract, error) {
	c, err := scanContract(r.q.QueryRow(ctx, `SELECT `+contractColumns+` FROM empresa_servicos WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa_servicos for update: %w", err)
	}
	return c, nil
}

// ListByCompany contratos de la empresa.
func (r *ContractRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.ServiceContract, error) {
	rows, err := r.q.Query(ctx, `SELECT `+contractColumns+` FROM empresa_servicos WHERE empresa_id = $1 ORDER BY data_contratacao DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list empresa_servicos by empresa: %w", err)
	}
	return collect(rows, scanContract)
}

// List cola del executor: más antiguos primero.
func (r *ContractRepo) List(ctx context.Context, f repository.ContractFilter) ([]*entity.ServiceContract, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+contractColumns+` FROM empresa_servicos
		WHERE ($1::text = '' OR status = ANY($6::text[]))
		  AND ($2::text = '' OR empresa_id::text = $2::text)
		  AND data_contratacao <= NOW() - make_interval(days => $3::int)
		ORDER BY data_contratacao ASC
		LIMIT $4 OFFSET $5`,
		string(f.Status), f.CompanyID, f.MinDays, f.Limit, f.Offset, f.Status.StoredValues())
	if err != nil {
		return nil, fmt.Errorf("list empresa_servicos: %w", err)
	}
	return collect(rows, scanContract)
}

// HasOpen indica si hay un contrato pendente o em andamento para la empresa y serviço.
func (r *ContractRepo) HasOpen(ctx context.Context, companyID, serviceID string) (bool, error) {
	var open bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM empresa_servicos
			WHERE empresa_id = $1 AND servico_id = $2 AND status = ANY($3)
		)`, companyID, serviceID, openContractStatuses).Scan(&open)
	if err != nil {
		return false, fmt.Errorf("check empresa_servicos aberto: %w", err)
	}
	return open, nil
}

// UpdateStatus persiste estado, concluído y observación en un único UPDATE, sólo si la
// fila sigue en from ("ativo" vale como pendente).
func (r *ContractRepo) UpdateStatus(ctx context.Context, c *entity.ServiceContract, from workflow.ContractStatus) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE empresa_servicos
		SET status = $2, concluido = $3, data_conclusao = $4, observacao = $5, updated_at = $6
		WHERE id = $1 AND status = ANY($7)`,
		c.ID, string(c.Status), c.Completed, c.CompletedAt, c.Note, c.UpdatedAt, from.StoredValues())
	if err != nil {
		return fmt.Errorf("update empresa_servicos: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: serviço contratado %s", repository.ErrStatusChanged, c.ID)
	}
	return nil
}

// CancelOpenByCompany cancela los contratos abiertos de la empresa.
func (r *ContractRepo) CancelOpenByCompany(ctx context.Context, companyID string) (int64, error) {
	cmd, err := r.q.Exec(ctx, `
		UPDATE empresa_servicos SET status = $2, concluido = FALSE, data_conclusao = NULL, updated_at = NOW()
		WHERE empresa_id = $1 AND status = ANY($3)`,
		companyID, string(workflow.ContractCancelled), openContractStatuses)
	if err != nil {
		return 0, fmt.Errorf("cancel empresa_servicos: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// OpenContractDates fechas de contratación de los abiertos, para el aging.
func (r *ContractRepo) OpenContractDates(ctx context.Context) ([]time.Time, error) {
	rows, err := r.q.Query(ctx, `
		SELECT data_contratacao FROM empresa_servicos
		WHERE status = ANY($1) ORDER BY data_contratacao`, openContractStatuses)
	if err != nil {
		return nil, fmt.Errorf("aging empresa_servicos: %w", err)
	}
	defer rows.Close()
	var out []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan data_contratacao: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
