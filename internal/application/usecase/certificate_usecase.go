package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

// CertificateUseCase certificado digital A1 de la empresa, requisito para solicitar NFS-e.
type CertificateUseCase struct {
	repos     repository.Repos
	tx        repository.TxRunner
	files     FileStore
	inspector CertificateInspector
	box       SecretBox
	log       *logger.Logger
	now       func() time.Time
}

// NewCertificateUseCase construye el caso de uso.
func NewCertificateUseCase(repos repository.Repos, tx repository.TxRunner, files FileStore, inspector CertificateInspector, box SecretBox, log *logger.Logger) *CertificateUseCase {
	return &CertificateUseCase{repos: repos, tx: tx, files: files, inspector: inspector, box: box, log: log, now: time.Now}
}

// Upload valida el .pfx/.p12 con su contraseña y reemplaza el certificado activo.
// Sin fecha de validez informada se usa el NotAfter del certificado.
func (uc *CertificateUseCase) Upload(ctx context.Context, s auth.Session, companyID string, in dto.CertificateUpload) (*dto.CertificateResponse, error) {
	ext := strings.ToLower(filepath.Ext(in.File.Name))
	if ext != ".pfx" && ext != ".p12" {
		return nil, fmt.Errorf("%w: o certificado deve ser um arquivo .pfx ou .p12", domain.ErrInvalidInput)
	}
	if err := validateFile(in.File); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: informe a senha do certificado", domain.ErrInvalidInput)
	}
	validUntil, err := parseDate(in.ValidUntil, "data_validade")
	if err != nil {
		return nil, err
	}
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
	info, err := uc.inspector.Inspect(in.File.Data, in.Password)
	if err != nil {
		uc.log.Warn().Err(err).Str("company_id", companyID).Msg("certificate: pkcs12 inválido")
		return nil, fmt.Errorf("%w: certificado inválido ou senha incorreta", domain.ErrInvalidInput)
	}
	if validUntil == nil && !info.NotAfter.IsZero() {
		t := info.NotAfter
		validUntil = &t
	}
	sealed, err := uc.box.Seal(in.Password)
	if err != nil {
		return nil, fmt.Errorf("cifrar senha do certificado: %w", err)
	}
	now := uc.now()
	cert := &entity.DigitalCertificate{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		UserID:     s.UserID,
		Password:   sealed,
		ValidUntil: validUntil,
		Subject:    info.Subject,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if cert.Expired(now) {
		return nil, fmt.Errorf("%w: certificado vencido em %s", domain.ErrInvalidInput, validUntil.Format("02/01/2006"))
	}
	cert.StoragePath = fmt.Sprintf("certificados/%s/%s%s", companyID, cert.ID, ext)
	if err := uc.files.Put(ctx, cert.StoragePath, in.File.Data); err != nil {
		return nil, fmt.Errorf("gravar certificado: %w", err)
	}
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Certificates.DeactivateByCompany(ctx, companyID); err != nil {
			return err
		}
		if err := r.Certificates.Create(ctx, cert); err != nil {
			return err
		}
		return r.Audit.Create(ctx, auditEntry(s.UserID, &companyID, "certificados_digitais", entity.AuditInsert, cert.ID, nil, entityToCertificateResponse(cert, now)))
	})
	if err != nil {
		if derr := uc.files.Delete(ctx, cert.StoragePath); derr != nil {
			uc.log.Error().Err(derr).Str("path", cert.StoragePath).Msg("certificate: falha ao remover arquivo órfão")
		}
		return nil, err
	}
	uc.log.Info().Str("company_id", companyID).Msg("certificate: certificado atualizado")
	return entityToCertificateResponse(cert, now), nil
}

// Get certificado activo (sin contraseña).
func (uc *CertificateUseCase) Get(ctx context.Context, s auth.Session, companyID string) (*dto.CertificateResponse, error) {
	company, err := loadCompany(ctx, uc.repos.Companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, company); err != nil {
		return nil, err
	}
	cert, err := uc.repos.Certificates.GetActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: nenhum certificado ativo", domain.ErrNotFound)
	}
	return entityToCertificateResponse(cert, uc.now()), nil
}

// CertificateMaterial archivo y senha en claro del certificado activo.
type CertificateMaterial struct {
	Certificate *entity.DigitalCertificate
	Data        []byte
	Password    string
}

// Unlock entrega al staff el certificado activo listo para firmar: lee el archivo,
// descifra la senha y comprueba que todavía abre el PKCS#12.
func (uc *CertificateUseCase) Unlock(ctx context.Context, s auth.Session, companyID string) (*CertificateMaterial, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	cert, err := uc.repos.Certificates.GetActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cert == nil {
		return nil, fmt.Errorf("%w: nenhum certificado ativo", domain.ErrNotFound)
	}
	if cert.Expired(uc.now()) {
		return nil, fmt.Errorf("%w: certificado vencido", domain.ErrPrecondition)
	}
	password, err := uc.box.Open(cert.Password)
	if err != nil {
		uc.log.Error().Err(err).Str("certificate_id", cert.ID).Msg("certificate: senha não decifra")
		return nil, fmt.Errorf("decifrar senha do certificado: %w", err)
	}
	data, err := uc.files.Get(ctx, cert.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("ler certificado: %w", err)
	}
	if _, err := uc.inspector.Inspect(data, password); err != nil {
		return nil, fmt.Errorf("%w: certificado não abre com a senha gravada", domain.ErrPrecondition)
	}
	return &CertificateMaterial{Certificate: cert, Data: data, Password: password}, nil
}
