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
	_ repository.DocumentTypeRepository = (*DocumentTypeRepo)(nil)
	_ repository.DocumentRepository     = (*DocumentRepo)(nil)
)

// DocumentTypeRepo catálogo tipo_documentos.
type DocumentTypeRepo struct {
	q Querier
}

// NewDocumentTypeRepository construye el adaptador. Pasar pool o tx.
func NewDocumentTypeRepository(q Querier) *DocumentTypeRepo {
	return &DocumentTypeRepo{q: q}
}

const documentTypeColumns = `id, nome, descricao, obrigatorio, ativo, created_at, updated_at`

func scanDocumentType(row pgx.Row) (*entity.DocumentType, error) {
	var t entity.DocumentType
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.Mandatory, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserta un tipo. Nombre repetido = ErrDuplicate.
func (r *DocumentTypeRepo) Create(ctx context.Context, t *entity.DocumentType) error {
	_, err := r.q.Exec(ctx, `INSERT INTO tipo_documentos (`+documentTypeColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.Description, t.Mandatory, t.Active, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tipo de documento %q", domain.ErrDuplicate, t.Name)
		}
		return fmt.Errorf("insert tipo_documentos: %w", err)
	}
	return nil
}

// Update actualiza nombre, descripción y flags.
func (r *DocumentTypeRepo) Update(ctx context.Context, t *entity.DocumentType) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE tipo_documentos SET nome = $2, descricao = $3, obrigatorio = $4, ativo = $5, updated_at = $6
		WHERE id = $1`, t.ID, t.Name, t.Description, t.Mandatory, t.Active, t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: tipo de documento %q", domain.ErrDuplicate, t.Name)
		}
		return fmt.Errorf("update tipo_documentos: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: tipo de documento %s", domain.ErrNotFound, t.ID)
	}
	return nil
}

// GetByID obtiene un tipo por ID.
func (r *DocumentTypeRepo) GetByID(ctx context.Context, id string) (*entity.DocumentType, error) {
	t, err := scanDocumentType(r.q.QueryRow(ctx, `SELECT `+documentTypeColumns+` FROM tipo_documentos WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo_documentos: %w", err)
	}
	return t, nil
}

// GetByName obtiene un tipo por nombre exacto.
func (r *DocumentTypeRepo) GetByName(ctx context.Context, name string) (*entity.DocumentType, error) {
	t, err := scanDocumentType(r.q.QueryRow(ctx, `SELECT `+documentTypeColumns+` FROM tipo_documentos WHERE nome = $1`, name))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo_documentos by nome: %w", err)
	}
	return t, nil
}

// List tipos ordenados por nombre.
func (r *DocumentTypeRepo) List(ctx context.Context, activeOnly bool) ([]*entity.DocumentType, error) {
	rows, err := r.q.Query(ctx, `SELECT `+documentTypeColumns+` FROM tipo_documentos WHERE (NOT $1::boolean OR ativo) ORDER BY nome`, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("list tipo_documentos: %w", err)
	}
	return collect(rows, scanDocumentType)
}

// ListMandatory tipos activos y obligatorios.
func (r *DocumentTypeRepo) ListMandatory(ctx context.Context) ([]*entity.DocumentType, error) {
	rows, err := r.q.Query(ctx, `SELECT `+documentTypeColumns+` FROM tipo_documentos WHERE ativo AND obrigatorio ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("list tipo_documentos obrigatorios: %w", err)
	}
	return collect(rows, scanDocumentType)
}

// DocumentRepo documentos_empresa.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx.
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `
	id, empresa_id, tipo_documento_id, titulo, nome_arquivo, caminho, tamanho, mime_type,
	status, observacao, enviado_por, revisado_por, created_at, updated_at`

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var (
		d      entity.Document
		status string
	)
	err := row.Scan(&d.ID, &d.CompanyID, &d.DocumentTypeID, &d.Title, &d.FileName, &d.StoragePath, &d.SizeBytes, &d.MimeType,
		&status, &d.ReviewNote, &d.UploadedBy, &d.ReviewedBy, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if d.Status, err = workflow.ParseDocumentStatus(status); err != nil {
		return nil, err
	}
	return &d, nil
}

// Create inserta el documento.
func (r *DocumentRepo) Create(ctx context.Context, d *entity.Document) error {
	_, err := r.q.Exec(ctx, `INSERT INTO documentos_empresa (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		d.ID, d.CompanyID, d.DocumentTypeID, d.Title, d.FileName, d.StoragePath, d.SizeBytes, d.MimeType,
		string(d.Status), d.ReviewNote, d.UploadedBy, nullString(d.ReviewedBy), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: já existe documento deste tipo em análise ou aprovado", domain.ErrConflict)
		}
		return fmt.Errorf("insert documentos_empresa: %w", err)
	}
	return nil
}

// GetByID obtiene un documento.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documentos_empresa WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get documentos_empresa: %w", err)
	}
	return d, nil
}

// GetForUpdate obtiene el documento bloqueando la fila hasta el fin de la transacción.
func (r *DocumentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Document, error) {
	d, err := scanDocument(r.q.QueryRow(ctx, `SELECT `+documentColumns+` FROM documentos_empresa WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get documentos_empresa for update: %w", err)
	}
	return d, nil
}

// ListByCompany documentos de la empresa, más recientes primero.
func (r *DocumentRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Document, error) {
	rows, err := r.q.Query(ctx, `SELECT `+documentColumns+` FROM documentos_empresa WHERE empresa_id = $1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list documentos_empresa: %w", err)
	}
	return collect(rows, scanDocument)
}

// UpdateReview persiste el resultado de la revisión si el documento sigue en from.
func (r *DocumentRepo) UpdateReview(ctx context.Context, d *entity.Document, from workflow.DocumentStatus) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE documentos_empresa SET status = $2, observacao = $3, revisado_por = $4, updated_at = $5
		WHERE id = $1 AND status = $6`, d.ID, string(d.Status), d.ReviewNote, nullString(d.ReviewedBy), d.UpdatedAt, string(from))
	if err != nil {
		return fmt.Errorf("update documentos_empresa: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("%w: documento %s", repository.ErrStatusChanged, d.ID)
	}
	return nil
}

// Delete borra la fila (el archivo lo borra el caso de uso).
func (r *DocumentRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM documentos_empresa WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete documentos_empresa: %w", err)
	}
	return nil
}
