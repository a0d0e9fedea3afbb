package usecase

import (
	"context"
	"fmt"
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
	"github.com/jhoicas/topmei-api/pkg/docbr"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

const (
	tableInvoice = "nfse"
	// SLABusinessDays prazo informado ao cliente para o processamento manual.
	SLABusinessDays = 3
	SLANotice       = "Sua solicitação será processada por um analista contábil em até 3 dias úteis."
)

// InvoiceRequestUseCase solicitações de NFS-e procesadas manualmente por el equipo contable.
type InvoiceRequestUseCase struct {
	repos    repository.Repos
	tx       repository.TxRunner
	rps      RPSBuilder
	notifier *notification.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewInvoiceRequestUseCase construye el caso de uso.
func NewInvoiceRequestUseCase(repos repository.Repos, tx repository.TxRunner, rps RPSBuilder, notifier *notification.Notifier, log *logger.Logger) *InvoiceRequestUseCase {
	return &InvoiceRequestUseCase{repos: repos, tx: tx, rps: rps, notifier: notifier, log: log, now: time.Now}
}

// AddBusinessDays suma días hábiles saltando sábados y domingos.
func AddBusinessDays(from time.Time, days int) time.Time {
	t := from
	for days > 0 {
		t = t.AddDate(0, 0, 1)
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days--
		}
	}
	return t
}

func validateInvoice(in *dto.CreateInvoiceRequest) error {
	if !in.TermsAccepted {
		return fmt.Errorf("%w: é necessário aceitar os termos", domain.ErrInvalidInput)
	}
	if blank(in.Description) {
		return fmt.Errorf("%w: discriminação do serviço é obrigatória", domain.ErrInvalidInput)
	}
	if !in.ServiceValue.IsPositive() {
		return fmt.Errorf("%w: valor do serviço deve ser maior que zero", domain.ErrInvalidInput)
	}
	if in.ISSRate.IsNegative() {
		return fmt.Errorf("%w: alíquota de ISS inválida", domain.ErrInvalidInput)
	}
	in.TakerDocument = docbr.Normalize(in.TakerDocument)
	if err := docbr.ValidateCPFOrCNPJ(in.TakerDocument); err != nil {
		return fmt.Errorf("%w: tomador: %v", domain.ErrInvalidInput, err)
	}
	if blank(in.TakerName) {
		return fmt.Errorf("%w: nome do tomador é obrigatório", domain.ErrInvalidInput)
	}
	return nil
}

// Request crea la solicitação en pendente y avisa a los contadores.
func (uc *InvoiceRequestUseCase) Request(ctx context.Context, s auth.Session, companyID string, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if err := validateInvoice(&in); err != nil {
		return nil, err
	}
	competence, err := parseDate(in.CompetenceDate, "data_competencia")
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
	if company.Status != workflow.CompanyActive {
		return nil, fmt.Errorf("%w: a empresa está com status %s", domain.ErrPrecondition, company.Status)
	}
	now := uc.now()
	cert, err := uc.repos.Certificates.GetActiveByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if cert == nil || cert.Expired(now) {
		return nil, fmt.Errorf("%w: cadastre um certificado digital válido antes de solicitar NFS-e", domain.ErrPrecondition)
	}
	if competence == nil {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		competence = &today
	}
	req := &entity.InvoiceRequest{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		RequestedBy:    s.UserID,
		CompetenceDate: *competence,
		Taker: entity.Taker{
			Document: in.TakerDocument,
			Name:     strings.TrimSpace(in.TakerName),
			Email:    in.TakerEmail,
			Phone:    in.TakerPhone,
			Address:  addressFromDTO(in.TakerAddress),
		},
		Description:     strings.TrimSpace(in.Description),
		ServiceValue:    in.ServiceValue,
		ISSRate:         in.ISSRate,
		ServiceListItem: in.ServiceListItem,
		MunicipalCode:   in.MunicipalCode,
		Notes:           in.Notes,
		Status:          workflow.InvoicePending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	var sent []*entity.Notification
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Invoices.Create(ctx, req); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &companyID, tableInvoice, entity.AuditInsert, req.ID, nil, entityToInvoiceResponse(req))); err != nil {
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
				Type:   entity.NotificationInvoiceRequested,
				Title:  "Nova solicitação de NFS-e",
				Text:   fmt.Sprintf("%s solicitou uma NFS-e para %s.", company.DisplayName(), req.Taker.Name),
				Link:   "/nfse",
			})
		}
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, msgs...)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	out := entityToInvoiceResponse(req)
	deadline := AddBusinessDays(now, SLABusinessDays)
	out.SLANotice = SLANotice
	out.SLADeadline = &deadline
	return &out, nil
}

// ListByCompany solicitações de la empresa (dueño o equipo).
func (uc *InvoiceRequestUseCase) ListByCompany(ctx context.Context, s auth.Session, companyID string) ([]dto.InvoiceResponse, error) {
	company, err := loadCompany(ctx, uc.repos.Companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, company); err != nil {
		return nil, err
	}
	list, err := uc.repos.Invoices.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return invoicesToDTO(list), nil
}

// ListAll cola del equipo contable con filtro opcional de estado.
func (uc *InvoiceRequestUseCase) ListAll(ctx context.Context, s auth.Session, status string, limit, offset int) ([]dto.InvoiceResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	var st workflow.InvoiceStatus
	if status != "" {
		var err error
		if st, err = workflow.ParseInvoiceStatus(status); err != nil {
			return nil, err
		}
	}
	list, err := uc.repos.Invoices.List(ctx, st, clampLimit(limit), max(offset, 0))
	if err != nil {
		return nil, err
	}
	return invoicesToDTO(list), nil
}

func invoicesToDTO(list []*entity.InvoiceRequest) []dto.InvoiceResponse {
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, r := range list {
		out = append(out, entityToInvoiceResponse(r))
	}
	return out
}

// StartProcessing pendente|erro -> processando.
func (uc *InvoiceRequestUseCase) StartProcessing(ctx context.Context, s auth.Session, id string) (*dto.InvoiceResponse, error) {
	return uc.transition(ctx, s, id, workflow.InvoiceProcessing, func(r *entity.InvoiceRequest) (*notification.Message, error) {
		r.ErrorMessage = ""
		return nil, nil
	})
}

// MarkIssued registra la nota emitida. Exige número de NFS-e.
func (uc *InvoiceRequestUseCase) MarkIssued(ctx context.Context, s auth.Session, id string, in dto.IssueInvoiceRequest) (*dto.InvoiceResponse, error) {
	if blank(in.Number) {
		return nil, fmt.Errorf("%w: informe o número da NFS-e", domain.ErrInvalidInput)
	}
	return uc.transition(ctx, s, id, workflow.InvoiceIssued, func(r *entity.InvoiceRequest) (*notification.Message, error) {
		now := uc.now()
		r.Number = strings.TrimSpace(in.Number)
		r.VerificationCode = strings.TrimSpace(in.VerificationCode)
		r.XMLURL = in.XMLURL
		r.PDFURL = in.PDFURL
		r.IssuedAt = &now
		return &notification.Message{
			Type:  entity.NotificationInvoiceIssued,
			Title: "NFS-e emitida",
			Text:  fmt.Sprintf("A NFS-e nº %s para %s foi emitida.", r.Number, r.Taker.Name),
		}, nil
	})
}

// MarkError registra un error de emisión.
func (uc *InvoiceRequestUseCase) MarkError(ctx context.Context, s auth.Session, id, message string) (*dto.InvoiceResponse, error) {
	if blank(message) {
		return nil, fmt.Errorf("%w: informe a mensagem de erro", domain.ErrInvalidInput)
	}
	return uc.transition(ctx, s, id, workflow.InvoiceError, func(r *entity.InvoiceRequest) (*notification.Message, error) {
		r.ErrorMessage = strings.TrimSpace(message)
		return &notification.Message{
			Type:  entity.NotificationInvoiceError,
			Title: "Erro na emissão da NFS-e",
			Text:  fmt.Sprintf("Não foi possível emitir a NFS-e para %s: %s", r.Taker.Name, r.ErrorMessage),
		}, nil
	})
}

// Cancel cancela una solicitação pendente o con error.
func (uc *InvoiceRequestUseCase) Cancel(ctx context.Context, s auth.Session, id, reason string) (*dto.InvoiceResponse, error) {
	if blank(reason) {
		return nil, fmt.Errorf("%w: informe o motivo do cancelamento", domain.ErrInvalidInput)
	}
	return uc.transition(ctx, s, id, workflow.InvoiceCancelled, func(r *entity.InvoiceRequest) (*notification.Message, error) {
		r.ErrorMessage = strings.TrimSpace(reason)
		return &notification.Message{
			Type:  entity.NotificationInvoiceCancelled,
			Title: "Solicitação de NFS-e cancelada",
			Text:  fmt.Sprintf("A solicitação de NFS-e para %s foi cancelada. Motivo: %s", r.Taker.Name, r.ErrorMessage),
		}, nil
	})
}

// transition aplica la transición; apply modifica la fila y devuelve la notificación al dueño (o nil).
func (uc *InvoiceRequestUseCase) transition(ctx context.Context, s auth.Session, id string, to workflow.InvoiceStatus, apply func(r *entity.InvoiceRequest) (*notification.Message, error)) (*dto.InvoiceResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	var (
		req  *entity.InvoiceRequest
		sent []*entity.Notification
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		found, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if found == nil {
			return fmt.Errorf("%w: solicitação %s", domain.ErrNotFound, id)
		}
		if err := workflow.Transition(found.Status, to); err != nil {
			return err
		}
		company, err := loadCompany(ctx, r.Companies, found.CompanyID)
		if err != nil {
			return err
		}
		before := entityToInvoiceResponse(found)
		msg, err := apply(found)
		if err != nil {
			return err
		}
		from := found.Status
		found.Status = to
		found.UpdatedAt = uc.now()
		if err := r.Invoices.Update(ctx, found, from); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &found.CompanyID, tableInvoice, entity.AuditUpdate, found.ID, before, entityToInvoiceResponse(found))); err != nil {
			return err
		}
		req = found
		if msg == nil {
			return nil
		}
		msg.UserID = company.UserID
		msg.Link = "/nfse"
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, *msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	uc.log.Info().Str("nfse_id", id).Str("status", string(to)).Str("actor", s.UserID).Msg("nfse: status alterado")
	out := entityToInvoiceResponse(req)
	return &out, nil
}

// ExportRPS XML RPS de la solicitação para cargar en el portal municipal.
func (uc *InvoiceRequestUseCase) ExportRPS(ctx context.Context, s auth.Session, id string) ([]byte, string, error) {
	if err := requireStaff(s); err != nil {
		return nil, "", err
	}
	req, err := uc.repos.Invoices.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if req == nil {
		return nil, "", fmt.Errorf("%w: solicitação %s", domain.ErrNotFound, id)
	}
	company, err := loadCompany(ctx, uc.repos.Companies, req.CompanyID)
	if err != nil {
		return nil, "", err
	}
	data, err := uc.rps.Build(req, company)
	if err != nil {
		return nil, "", err
	}
	name := req.ID
	if len(name) > 8 {
		name = name[:8]
	}
	return data, "rps-" + name + ".xml", nil
}
