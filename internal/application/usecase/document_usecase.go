package usecase

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/notification"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// MaxDocumentSize tamaño máximo de un documento enviado (10 MB).
const MaxDocumentSize = 10 << 20

const tableDocument = "documentos_empresa"

// DocumentUseCase envío y revisión de documentos de las empresas.
type DocumentUseCase struct {
	repos    repository.Repos
	tx       repository.TxRunner
	files    FileStore
	notifier *notification.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewDocumentUseCase construye el caso de uso.
func NewDocumentUseCase(repos repository.Repos, tx repository.TxRunner, files FileStore, notifier *notification.Notifier, log *logger.Logger) *DocumentUseCase {
	return &DocumentUseCase{repos: repos, tx: tx, files: files, notifier: notifier, log: log, now: time.Now}
}

// ListTypes catálogo de tipos; activeOnly=false sólo para administración.
func (uc *DocumentUseCase) ListTypes(ctx context.Context, activeOnly bool) ([]dto.DocumentTypeResponse, error) {
	list, err := uc.repos.DocumentTypes.List(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DocumentTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, entityToDocumentTypeResponse(t))
	}
	return out, nil
}

// CreateType alta de tipo de documento (administrador).
func (uc *DocumentUseCase) CreateType(ctx context.Context, s auth.Session, in dto.DocumentTypeRequest) (*dto.DocumentTypeResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if blank(in.Name) {
		return nil, fmt.Errorf("%w: nome do tipo é obrigatório", domain.ErrInvalidInput)
	}
	now := uc.now()
	t := &entity.DocumentType{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Mandatory:   in.Mandatory,
		Active:      in.Active == nil || *in.Active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repos.DocumentTypes.Create(ctx, t); err != nil {
		return nil, err
	}
	out := entityToDocumentTypeResponse(t)
	return &out, nil
}

// UpdateType edición; desactivar con Active=false (no hay borrado).
func (uc *DocumentUseCase) UpdateType(ctx context.Context, s auth.Session, id string, in dto.DocumentTypeRequest) (*dto.DocumentTypeResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if blank(in.Name) {
		return nil, fmt.Errorf("%w: nome do tipo é obrigatório", domain.ErrInvalidInput)
	}
	t, err := uc.repos.DocumentTypes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, fmt.Errorf("%w: tipo de documento %s", domain.ErrNotFound, id)
	}
	t.Name = strings.TrimSpace(in.Name)
	t.Description = in.Description
	t.Mandatory = in.Mandatory
	if in.Active != nil {
		t.Active = *in.Active
	}
	t.UpdatedAt = uc.now()
	if err := uc.repos.DocumentTypes.Update(ctx, t); err != nil {
		return nil, err
	}
	out := entityToDocumentTypeResponse(t)
	return &out, nil
}

func validateFile(f dto.UploadFile) error {
	if blank(f.Name) {
		return fmt.Errorf("%w: arquivo sem nome", domain.ErrInvalidInput)
	}
	if len(f.Data) == 0 {
		return fmt.Errorf("%w: arquivo vazio", domain.ErrInvalidInput)
	}
	if len(f.Data) > MaxDocumentSize {
		return fmt.Errorf("%w: arquivo maior que 10 MB", domain.ErrInvalidInput)
	}
	return nil
}

// safeName nombre de archivo sin directorios ni caracteres problemáticos.
func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}

// Upload envía un documento del tipo indicado. El archivo se guarda antes de la fila;
// si la inserción falla se elimina el objeto guardado.
func (uc *DocumentUseCase) Upload(ctx context.Context, s auth.Session, companyID, typeID string, file dto.UploadFile) (*dto.DocumentResponse, error) {
	if err := validateFile(file); err != nil {
		return nil, err
	}
	t, err := uc.repos.DocumentTypes.GetByID(ctx, typeID)
	if err != nil {
		return nil, err
	}
	if t == nil || !t.Active {
		return nil, fmt.Errorf("%w: tipo de documento inexistente ou inativo", domain.ErrInvalidInput)
	}
	return uc.upload(ctx, s, companyID, t, "", file)
}

// UploadOther envía un documento libre con título, bajo el tipo "Outros" (se crea si falta).
func (uc *DocumentUseCase) UploadOther(ctx context.Context, s auth.Session, companyID, title string, file dto.UploadFile) (*dto.DocumentResponse, error) {
	if blank(title) {
		return nil, fmt.Errorf("%w: informe o nome do documento", domain.ErrInvalidInput)
	}
	if err := validateFile(file); err != nil {
		return nil, err
	}
	t, err := uc.repos.DocumentTypes.GetByName(ctx, entity.DocumentTypeOther)
	if err != nil {
		return nil, err
	}
	if t == nil {
		now := uc.now()
		t = &entity.DocumentType{
			ID:          uuid.New().String(),
			Name:        entity.DocumentTypeOther,
			Description: "Documentos adicionais enviados pelo cliente",
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := uc.repos.DocumentTypes.Create(ctx, t); err != nil {
			return nil, err
		}
	}
	return uc.upload(ctx, s, companyID, t, strings.TrimSpace(title), file)
}

func (uc *DocumentUseCase) upload(ctx context.Context, s auth.Session, companyID string, t *entity.DocumentType, title string, file dto.UploadFile) (*dto.DocumentResponse, error) {
	company, err := loadCompany(ctx, uc.repos.Companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(s, company); err != nil {
		return nil, err
	}
	if company.Status == workflow.CompanyInactive {
		return nil, fmt.Errorf("%w: empresa inativa", domain.ErrPrecondition)
	}

	now := uc.now()
	doc := &entity.Document{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		DocumentTypeID: t.ID,
		Title:          title,
		FileName:       file.Name,
		SizeBytes:      int64(len(file.Data)),
		MimeType:       file.ContentType,
		Status:         workflow.DocumentAwaiting,
		UploadedBy:     s.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	doc.StoragePath = fmt.Sprintf("documentos/%s/%s/%s", companyID, doc.ID, safeName(file.Name))
	if err := uc.files.Put(ctx, doc.StoragePath, file.Data); err != nil {
		uc.log.Error().Err(err).Str("path", doc.StoragePath).Msg("document: falha ao gravar arquivo")
		return nil, fmt.Errorf("gravar arquivo: %w", err)
	}

	var sent []*entity.Notification
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		// con la empresa bloqueada dos envíos simultáneos del mismo tipo no pasan ambos
		if _, err := lockCompany(ctx, r.Companies, companyID); err != nil {
			return err
		}
		if t.Name != entity.DocumentTypeOther {
			if err := checkResubmission(ctx, r.Documents, companyID, t); err != nil {
				return err
			}
		}
		if err := r.Documents.Create(ctx, doc); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &companyID, tableDocument, entity.AuditInsert, doc.ID, nil, entityToDocumentResponse(doc))); err != nil {
			return err
		}
		staff, err := r.Roles.ListActiveUserIDs(ctx, entity.RoleAccountant)
		if err != nil {
			return err
		}
		msgs := make([]notification.Message, 0, len(staff))
		for _, id := range staff {
			msgs = append(msgs, notification.Message{
				UserID: id,
				Type:   entity.NotificationDocumentUploaded,
				Title:  "Documento aguardando revisão",
				Text:   fmt.Sprintf("%s enviou o documento %s.", company.DisplayName(), t.Name),
				Link:   "/contador/documentos",
			})
		}
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, msgs...)
		return err
	})
	if err != nil {
		if derr := uc.files.Delete(ctx, doc.StoragePath); derr != nil {
			uc.log.Error().Err(derr).Str("path", doc.StoragePath).Msg("document: falha ao remover arquivo órfão")
		}
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	out := entityToDocumentResponse(doc)
	return &out, nil
}

// checkResubmission ErrConflict si ya hay un documento del tipo en revisión o aprobado.
func checkResubmission(ctx context.Context, repo repository.DocumentRepository, companyID string, t *entity.DocumentType) error {
	docs, err := repo.ListByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	for _, d := range docs {
		if d.DocumentTypeID == t.ID && d.Status.BlocksResubmission() {
			return fmt.Errorf("%w: já existe documento %s com status %s", domain.ErrConflict, t.Name, d.Status)
		}
	}
	return nil
}

// ListByCompany documentos de la empresa y si ya se puede aprobar el cadastro.
func (uc *DocumentUseCase) ListByCompany(ctx context.Context, s auth.Session, companyID string) (*dto.DocumentListResponse, error) {
	company, err := loadCompany(ctx, uc.repos.Companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, company); err != nil {
		return nil, err
	}
	docs, err := uc.repos.Documents.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	missing, err := missingMandatory(ctx, uc.repos, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.DocumentListResponse{Items: make([]dto.DocumentResponse, 0, len(docs)), CanApprove: len(missing) == 0}
	for _, d := range docs {
		out.Items = append(out.Items, entityToDocumentResponse(d))
	}
	return out, nil
}

// Approve aprueba un documento en revisión.
func (uc *DocumentUseCase) Approve(ctx context.Context, s auth.Session, docID, note string) (*dto.DocumentResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	return uc.review(ctx, s, docID, workflow.DocumentApproved, strings.TrimSpace(note))
}

// Reject rechaza un documento. El motivo es obligatorio y se valida antes de cualquier lectura o escritura.
func (uc *DocumentUseCase) Reject(ctx context.Context, s auth.Session, docID, reason string) (*dto.DocumentResponse, error) {
	if blank(reason) {
		return nil, fmt.Errorf("%w: informe o motivo da rejeição", domain.ErrInvalidInput)
	}
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	return uc.review(ctx, s, docID, workflow.DocumentRejected, strings.TrimSpace(reason))
}

func (uc *DocumentUseCase) review(ctx context.Context, s auth.Session, docID string, to workflow.DocumentStatus, note string) (*dto.DocumentResponse, error) {
	var (
		doc  *entity.Document
		sent []*entity.Notification
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := r.Documents.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: documento %s", domain.ErrNotFound, docID)
		}
		if err := workflow.Transition(d.Status, to); err != nil {
			return err
		}
		// la aprobación del cadastro bloquea la misma fila antes de contar documentos
		company, err := lockCompany(ctx, r.Companies, d.CompanyID)
		if err != nil {
			return err
		}
		t, err := r.DocumentTypes.GetByID(ctx, d.DocumentTypeID)
		if err != nil {
			return err
		}
		typeName := d.Title
		if t != nil && typeName == "" {
			typeName = t.Name
		}
		before := entityToDocumentResponse(d)
		from := d.Status
		d.Status = to
		d.ReviewNote = note
		d.ReviewedBy = &s.UserID
		d.UpdatedAt = uc.now()
		if err := r.Documents.UpdateReview(ctx, d, from); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &d.CompanyID, tableDocument, entity.AuditUpdate, d.ID, before, entityToDocumentResponse(d))); err != nil {
			return err
		}
		msg := notification.Message{
			UserID: company.UserID,
			Type:   entity.NotificationDocumentApproved,
			Title:  "Documento aprovado",
			Text:   fmt.Sprintf("O documento %s da empresa %s foi aprovado.", typeName, company.DisplayName()),
			Link:   "/documentos",
		}
		if to == workflow.DocumentRejected {
			msg.Type = entity.NotificationDocumentRejected
			msg.Title = "Documento rejeitado"
			msg.Text = fmt.Sprintf("O documento %s da empresa %s foi rejeitado. Motivo: %s", typeName, company.DisplayName(), note)
		}
		doc = d
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	uc.log.Info().Str("document_id", docID).Str("status", string(to)).Str("reviewer", s.UserID).Msg("document: revisado")
	out := entityToDocumentResponse(doc)
	return &out, nil
}

// Delete borra un documento propio mientras sigue en revisión.
func (uc *DocumentUseCase) Delete(ctx context.Context, s auth.Session, docID string) error {
	var storagePath string
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		d, err := r.Documents.GetForUpdate(ctx, docID)
		if err != nil {
			return err
		}
		if d == nil {
			return fmt.Errorf("%w: documento %s", domain.ErrNotFound, docID)
		}
		company, err := lockCompany(ctx, r.Companies, d.CompanyID)
		if err != nil {
			return err
		}
		if err := requireOwner(s, company); err != nil {
			return err
		}
		if d.Status != workflow.DocumentAwaiting {
			return fmt.Errorf("%w: documento %s não pode ser excluído", domain.ErrConflict, d.Status)
		}
		if err := r.Documents.Delete(ctx, d.ID); err != nil {
			return err
		}
		storagePath = d.StoragePath
		return r.Audit.Create(ctx, auditEntry(s.UserID, &d.CompanyID, tableDocument, entity.AuditDelete, d.ID, entityToDocumentResponse(d), nil))
	})
	if err != nil {
		return err
	}
	if err := uc.files.Delete(ctx, storagePath); err != nil {
		uc.log.Warn().Err(err).Str("path", storagePath).Msg("document: arquivo não removido")
	}
	return nil
}

// Download contenido del archivo (dueño o equipo).
func (uc *DocumentUseCase) Download(ctx context.Context, s auth.Session, docID string) (*dto.DownloadResponse, error) {
	d, err := uc.repos.Documents.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, docID)
	}
	company, err := loadCompany(ctx, uc.repos.Companies, d.CompanyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, company); err != nil {
		return nil, err
	}
	data, err := uc.files.Get(ctx, d.StoragePath)
	if err != nil {
		return nil, err
	}
	ct := d.MimeType
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &dto.DownloadResponse{FileName: d.FileName, ContentType: ct, Data: data}, nil
}
