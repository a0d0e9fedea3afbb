package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
)

var (
	_ repository.BudgetRepository = (*BudgetRepo)(nil)
	_ repository.AuditRepository  = (*AuditRepo)(nil)
)

// BudgetRepo membrete y numeración de orçamentos (orcamento_config).
type BudgetRepo struct {
	q Querier
}

// NewBudgetRepository construye el adaptador. Pasar pool o tx.
func NewBudgetRepository(q Querier) *BudgetRepo {
	return &BudgetRepo{q: q}
}

const budgetColumns = `empresa_id, nome_empresa, documento, telefone, email, endereco, site, slogan,
	introducao, quem_somos, template, logo, rodape, validade_padrao_dias, ultimo_numero, updated_at`

func scanBudgetConfig(row pgx.Row) (*entity.BudgetConfig, error) {
	var c entity.BudgetConfig
	if err := row.Scan(
		&c.CompanyID, &c.BusinessName, &c.Document, &c.Phone, &c.Email, &c.Address, &c.Site, &c.Slogan,
		&c.Introduction, &c.AboutUs, &c.Template, &c.LogoPath, &c.FooterNotes,
		&c.DefaultValidityDays, &c.LastNumber, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConfig configuración de la empresa o (nil, nil).
func (r *BudgetRepo) GetConfig(ctx context.Context, companyID string) (*entity.BudgetConfig, error) {
	c, err := scanBudgetConfig(r.q.QueryRow(ctx, `SELECT `+budgetColumns+` FROM orcamento_config WHERE empresa_id = $1`, companyID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get orcamento_config: %w", err)
	}
	return c, nil
}

// ListConfigs membretes guardados, por nombre.
func (r *BudgetRepo) ListConfigs(ctx context.Context, limit, offset int) ([]*entity.BudgetConfig, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+budgetColumns+` FROM orcamento_config
		WHERE nome_empresa <> ''
		ORDER BY nome_empresa, empresa_id
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orcamento_config: %w", err)
	}
	return collect(rows, scanBudgetConfig)
}

// SaveConfig upsert del membrete; ultimo_numero no se toca.
func (r *BudgetRepo) SaveConfig(ctx context.Context, c *entity.BudgetConfig) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orcamento_config (empresa_id, nome_empresa, documento, telefone, email, endereco, site, slogan,
			introducao, quem_somos, template, logo, rodape, validade_padrao_dias, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (empresa_id) DO UPDATE SET
			nome_empresa = EXCLUDED.nome_empresa, documento = EXCLUDED.documento, telefone = EXCLUDED.telefone,
			email = EXCLUDED.email, endereco = EXCLUDED.endereco, site = EXCLUDED.site, slogan = EXCLUDED.slogan,
			introducao = EXCLUDED.introducao, quem_somos = EXCLUDED.quem_somos, template = EXCLUDED.template,
			logo = EXCLUDED.logo, rodape = EXCLUDED.rodape,
			validade_padrao_dias = EXCLUDED.validade_padrao_dias, updated_at = EXCLUDED.updated_at`,
		c.CompanyID, c.BusinessName, c.Document, c.Phone, c.Email, c.Address, c.Site, c.Slogan,
		c.Introduction, c.AboutUs, c.Template, c.LogoPath, c.FooterNotes, c.DefaultValidityDays, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save orcamento_config: %w", err)
	}
	return nil
}

// NextNumber incrementa ultimo_numero en un único statement (crea la fila si falta).
func (r *BudgetRepo) NextNumber(ctx context.Context, companyID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `
		INSERT INTO orcamento_config (empresa_id, ultimo_numero, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (empresa_id) DO UPDATE SET ultimo_numero = orcamento_config.ultimo_numero + 1, updated_at = NOW()
		RETURNING ultimo_numero`, companyID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next orcamento number: %w", err)
	}
	return n, nil
}

// AuditRepo trilha de auditoria.
type AuditRepo struct {
	q Querier
}

// NewAuditRepository construye el adaptador. Pasar pool o tx.
func NewAuditRepository(q Querier) *AuditRepo {
	return &AuditRepo{q: q}
}

// Create inserta la entrada.
func (r *AuditRepo) Create(ctx context.Context, e *entity.AuditEntry) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO auditoria (id, user_id, empresa_id, tabela, acao, registro_id, antes, depois, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.UserID, nullString(e.CompanyID), e.Table, e.Action, e.RecordID, jsonOrNil(e.Before), jsonOrNil(e.After), e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert auditoria: %w", err)
	}
	return nil
}

// List entradas más recientes primero.
func (r *AuditRepo) List(ctx context.Context, limit, offset int) ([]*entity.AuditEntry, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, user_id, empresa_id, tabela, acao, registro_id, antes, depois, created_at
		FROM auditoria ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list auditoria: %w", err)
	}
	defer rows.Close()
	var list []*entity.AuditEntry
	for rows.Next() {
		var (
			e             entity.AuditEntry
			before, after []byte
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.CompanyID, &e.Table, &e.Action, &e.RecordID, &before, &after, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan auditoria: %w", err)
		}
		e.Before, e.After = before, after
		list = append(list, &e)
	}
	return list, rows.Err()
}

func jsonOrNil(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
