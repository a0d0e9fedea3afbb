package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

var (
	_ repository.CertificateRepository    = (*CertificateRepo)(nil)
	_ repository.InvoiceRequestRepository = (*InvoiceRequestRepo)(nil)
)

// CertificateRepo certificados_digitais. Sólo uno activo por empresa (índice parcial).
type CertificateRepo struct {
	q Querier
}

// NewCertificateRepository construye el adaptador. Pasar pool o tx.
func NewCertificateRepository(q Querier) *CertificateRepo {
	return &CertificateRepo{q: q}
}

// Create inserta el certificado.
func (r *CertificateRepo) Create(ctx context.Context, c *entity.DigitalCertificate) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO certificados_digitais (id, empresa_id, user_id, caminho, senha, data_validade, titular, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		c.ID, c.CompanyID, c.UserID, c.StoragePath, c.Password, c.ValidUntil, c.Subject, c.Active, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: empresa já possui certificado ativo", domain.ErrConflict)
		}
		return fmt.Errorf("insert certificados_digitais: %w", err)
	}
	return nil
}

// GetActiveByCompany certificado activo de la empresa o (nil, nil).
func (r *CertificateRepo) GetActiveByCompany(ctx context.Context, companyID string) (*entity.DigitalCertificate, error) {
	var c entity.DigitalCertificate
	err := r.q.QueryRow(ctx, `
		SELECT id, empresa_id, user_id, caminho, senha, data_validade, titular, ativo, created_at, updated_at
		FROM certificados_digitais WHERE empresa_id = $1 AND ativo`, companyID).Scan(
		&c.ID, &c.CompanyID, &c.UserID, &c.StoragePath, &c.Password, &c.ValidUntil, &c.Subject, &c.Active, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get certificados_digitais: %w", err)
	}
	return &c, nil
}

// DeactivateByCompany desactiva el certificado activo (si hay).
func (r *CertificateRepo) DeactivateByCompany(ctx context.Context, companyID string) error {
	if _, err := r.q.Exec(ctx, `UPDATE certificados_digitais SET ativo = FALSE, updated_at = NOW() WHERE empresa_id = $1 AND ativo`, companyID); err != nil {
		return fmt.Errorf("deactivate certificados_digitais: %w", err)
	}
	return nil
}

// InvoiceRequestRepo solicitações de NFS-e (tabla nfse).
type InvoiceRequestRepo struct {
	q Querier
}

// NewInvoiceRequestRepository construye el adaptador. Pasar pool o tx.
func NewInvoiceRequestRepository(q Querier) *InvoiceRequestRepo {
	return &InvoiceRequestRepo{q: q}
}

const invoiceColumns = `
	id, empresa_id, solicitado_por, data_competencia,
	tomador_documento, tomador_nome, tomador_email, tomador_telefone,
	tomador_logradouro, tomador_numero, tomador_complemento, tomador_bairro, tomador_municipio, tomador_uf, tomador_cep,
	discriminacao, valor_servicos, aliquota_iss, item_lista_servico, codigo_tributacao, observacoes,
	status, numero_nfse, codigo_verificacao, data_emissao, xml_url, pdf_url, mensagem_erro, created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.InvoiceRequest, error) {
	var (
		i      entity.InvoiceRequest
		status string
		a      = &i.Taker.Address
	)
	err := row.Scan(
		&i.ID, &i.CompanyID, &i.RequestedBy, &i.CompetenceDate,
		&i.Taker.Document, &i.Taker.Name, &i.Taker.Email, &i.Taker.Phone,
		&a.Street, &a.Number, &a.Complement, &a.District, &a.City, &a.State, &a.ZipCode,
		&i.Description, &i.ServiceValue, &i.ISSRate, &i.ServiceListItem, &i.MunicipalCode, &i.Notes,
		&status, &i.Number, &i.VerificationCode, &i.IssuedAt, &i.XMLURL, &i.PDFURL, &i.ErrorMessage, &i.CreatedAt, &i.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if i.Status, err = workflow.ParseInvoiceStatus(status); err != nil {
		return nil, err
	}
	return &i, nil
}

// Create inserta la solicitação.
func (r *InvoiceRequestRepo) Create(ctx context.Context, i *entity.InvoiceRequest) error {
	a := i.Taker.Address
	_, err := r.q.Exec(ctx, `INSERT INTO nfse (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
		        $21, $22, $23, $24, $25, $26, $27, $28, $29, $30)`,
		i.ID, i.CompanyID, i.RequestedBy, i.CompetenceDate,
		i.Taker.Document, i.Taker.Name, i.Taker.Email, i.Taker.Phone,
		a.Street, a.Number, a.Complement, a.District, a.City, a.State, a.ZipCode,
		i.Description, i.ServiceValue, i.ISSRate, i.ServiceListItem, i.MunicipalCode, i.Notes,
		string(i.Status), i.Number, i.VerificationCode, i.IssuedAt, i.XMLURL, i.PDFURL, i.ErrorMessage, i.CreatedAt, i.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert nfse: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitação.
func (r *InvoiceRequestRepo) GetByID(ctx context.Context, id string) (*entity.InvoiceRequest, error) {
	i, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM nfse WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nfse: %w", err)
	}
	return i, nil
}

// GetForUpdate obtiene la solicitação bloqueando la fila hasta el fin de la transacción.
func (r *InvoiceRequestRepo) GetForUpdate(ctx context.Context, id string) (*entity.InvoiceRequest, error) {
	i, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM nfse WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get nfse for update: %w", err)
	}
	return i, nil
}

// ListByCompany solicitações de la empresa, más recientes primero.
func (r *InvoiceRequestRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.InvoiceRequest, error) {
	rows, err := r.q.Query(ctx, `SELECT `+invoiceColumns+` FROM nfse WHERE empresa_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list nfse by empresa: %w", err)
	}
	return collect(rows, scanInvoice)
}

// List cola del equipo contable, más antiguas primero.
func (r *InvoiceRequestRepo) List(ctx context.Context, status workflow.InvoiceStatus, limit, offset int) ([]*entity.InvoiceRequest, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM nfse
		WHERE ($1::text = '' OR status = $1::text)
		ORDER BY created_at ASC LIMIT $2 OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list nfse: %w", err)
	}
	return collect(rows, scanInvoice)
}

// Update persiste estado y datos de emisión.
func (r *InvoiceRequestRepo) Update(ctx context.Context, i *entity.InvoiceRequest, from workflow.InvoiceStatus) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE nfse SET status = $2, numero_nfse = $3, codigo_verificacao = $4, data_emissao = $5,
		       xml_url = $6, pdf_url = $7, mensagem_erro = $8, updated_at = $9
		WHERE id = $1 AND status = $10`,
		i.ID, string(i.Status), i.Number, i.VerificationCode, i.IssuedAt, i.XMLURL, i.PDFURL, i.ErrorMessage, i.UpdatedAt,
		string(from))
	if err != nil {
		return fmt.Errorf("update nfse: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: solicitação %s", repository.ErrStatusChanged, i.ID)
	}
	return nil
}
