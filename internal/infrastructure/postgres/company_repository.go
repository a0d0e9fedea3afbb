package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL (tabla empresa).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas. Pasar pool o tx.
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `
	id, user_id, cnpj, razao_social, nome_fantasia, nome_titular, cpf_titular, data_nascimento,
	data_abertura, optante_simples, optante_simei, cnae_principal, cnae_descricao,
	logradouro, numero, complemento, bairro, municipio, uf, cep, telefone, email,
	regime_tributario, status, motivo_rejeicao, motivo_suspensao, aprovado_por, data_aprovacao, created_at, updated_at`

func scanCompany(row pgx.Row) (*entity.Company, error) {
	var (
		c      entity.Company
		status string
	)
	err := row.Scan(
		&c.ID, &c.UserID, &c.CNPJ, &c.LegalName, &c.TradeName, &c.OwnerName, &c.OwnerCPF, &c.OwnerBirthDate,
		&c.OpeningDate, &c.SimplesOptant, &c.SimeiOptant, &c.MainCNAE, &c.MainCNAEDescription,
		&c.Address.Street, &c.Address.Number, &c.Address.Complement, &c.Address.District,
		&c.Address.City, &c.Address.State, &c.Address.ZipCode, &c.Phone, &c.Email,
		&c.TaxRegime, &status, &c.RejectionReason, &c.SuspensionReason, &c.ApprovedBy, &c.ApprovedAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.Status, err = workflow.ParseCompanyStatus(status); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste una nueva empresa. La violación del índice de CNPJ vivo devuelve ErrDuplicate.
// Sin descripción del CNAE principal se toma la de la tabla cnaes (cmd/seed_cnae).
func (r *CompanyRepo) Create(ctx context.Context, c *entity.Company) error {
	query := `INSERT INTO empresa (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12,
		        COALESCE(NULLIF($13, ''), (SELECT descricao FROM cnaes WHERE codigo = regexp_replace($12, '\D', '', 'g')), ''), $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.UserID, c.CNPJ, c.LegalName, c.TradeName, c.OwnerName, c.OwnerCPF, c.OwnerBirthDate,
		c.OpeningDate, c.SimplesOptant, c.SimeiOptant, c.MainCNAE, c.MainCNAEDescription,
		c.Address.Street, c.Address.Number, c.Address.Complement, c.Address.District,
		c.Address.City, c.Address.State, c.Address.ZipCode, c.Phone, c.Email,
		c.TaxRegime, string(c.Status), c.RejectionReason, c.SuspensionReason, nullString(c.ApprovedBy), c.ApprovedAt, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: CNPJ já cadastrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert empresa: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM empresa WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa: %w", err)
	}
	return c, nil
}

// GetForUpdate obtiene la empresa bloqueando la fila hasta el fin de la transacción.
func (r *CompanyRepo) GetForUpdate(ctx context.Context, id string) (*entity.Company, error) {
	c, err := scanCompany(r.q.QueryRow(ctx, `SELECT `+companyColumns+` FROM empresa WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empresa for update: %w", err)
	}
	return c, nil
}

// ListByUser empresas del dueño, más recientes primero.
func (r *CompanyRepo) ListByUser(ctx context.Context, userID string) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM empresa WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list empresa by user: %w", err)
	}
	return collect(rows, scanCompany)
}

// ListByUserAndCNPJ empresas del usuario con ese CNPJ en cualquier estado.
func (r *CompanyRepo) ListByUserAndCNPJ(ctx context.Context, userID, cnpj string) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `SELECT `+companyColumns+` FROM empresa WHERE user_id = $1 AND cnpj = $2 ORDER BY created_at DESC`, userID, cnpj)
	if err != nil {
		return nil, fmt.Errorf("list empresa by cnpj: %w", err)
	}
	return collect(rows, scanCompany)
}

// List listado del equipo contable con filtro opcional de estado.
func (r *CompanyRepo) List(ctx context.Context, f repository.CompanyFilter) ([]*entity.Company, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+companyColumns+` FROM empresa
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, string(f.Status), f.Limit, f.Offset)
	if err != nil {
		return nil, fmt.Errorf("list empresa: %w", err)
	}
	return collect(rows, scanCompany)
}

// UpdateStatus persiste el estado y los datos de aprobación, rechazo o suspensión
// si la fila sigue en from.
func (r *CompanyRepo) UpdateStatus(ctx context.Context, c *entity.Company, from workflow.CompanyStatus) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE empresa SET status = $2, motivo_rejeicao = $3, motivo_suspensao = $4, aprovado_por = $5,
		       data_aprovacao = $6, updated_at = $7
		WHERE id = $1 AND status = $8`,
		c.ID, string(c.Status), c.RejectionReason, c.SuspensionReason, nullString(c.ApprovedBy), c.ApprovedAt, c.UpdatedAt,
		string(from),
	)
	if err != nil {
		return fmt.Errorf("update empresa status: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: empresa %s", repository.ErrStatusChanged, c.ID)
	}
	return nil
}

// AddSecondaryCNAEs inserta las actividades secundarias en un único batch.
func (r *CompanyRepo) AddSecondaryCNAEs(ctx context.Context, cnaes []entity.SecondaryCNAE) error {
	if len(cnaes) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(cnaes))
	for _, c := range cnaes {
		rows = append(rows, []any{c.ID, c.CompanyID, c.Code, c.Description})
	}
	return r.insertMany(ctx, "cnaes_secundarios", []string{"id", "empresa_id", "codigo", "descricao"}, rows)
}

// ListSecondaryCNAEs actividades secundarias de la empresa.
func (r *CompanyRepo) ListSecondaryCNAEs(ctx context.Context, companyID string) ([]entity.SecondaryCNAE, error) {
	rows, err := r.q.Query(ctx, `SELECT id, empresa_id, codigo, descricao FROM cnaes_secundarios WHERE empresa_id = $1 ORDER BY codigo`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list cnaes_secundarios: %w", err)
	}
	defer rows.Close()
	var list []entity.SecondaryCNAE
	for rows.Next() {
		var c entity.SecondaryCNAE
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Code, &c.Description); err != nil {
			return nil, fmt.Errorf("scan cnae: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// AddRegistrations inserta las inscrições municipales/estaduales.
func (r *CompanyRepo) AddRegistrations(ctx context.Context, regs []entity.Registration) error {
	if len(regs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(regs))
	for _, g := range regs {
		rows = append(rows, []any{g.ID, g.CompanyID, g.Kind, g.Number, g.State})
	}
	return r.insertMany(ctx, "inscricoes", []string{"id", "empresa_id", "tipo", "numero", "uf"}, rows)
}

// ListRegistrations inscrições de la empresa.
func (r *CompanyRepo) ListRegistrations(ctx context.Context, companyID string) ([]entity.Registration, error) {
	rows, err := r.q.Query(ctx, `SELECT id, empresa_id, tipo, numero, uf FROM inscricoes WHERE empresa_id = $1 ORDER BY tipo, numero`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list inscricoes: %w", err)
	}
	defer rows.Close()
	var list []entity.Registration
	for rows.Next() {
		var g entity.Registration
		if err := rows.Scan(&g.ID, &g.CompanyID, &g.Kind, &g.Number, &g.State); err != nil {
			return nil, fmt.Errorf("scan inscricao: %w", err)
		}
		list = append(list, g)
	}
	return list, rows.Err()
}

// insertMany inserta las filas una a una con el mismo INSERT parametrizado.
func (r *CompanyRepo) insertMany(ctx context.Context, table string, columns []string, rows [][]any) error {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	for i, args := range rows {
		if _, err := r.q.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("insert %s[%d]: %w", table, i, err)
		}
	}
	return nil
}
