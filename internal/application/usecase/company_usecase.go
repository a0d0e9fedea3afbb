package usecase

import (
	"context"
	"errors"
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

const tableCompany = "empresa"

// CompanyUseCase cadastro de empresas y su ciclo de aprobación.
type CompanyUseCase struct {
	repos    repository.Repos
	tx       repository.TxRunner
	lookup   CNPJLookup
	notifier *notification.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewCompanyUseCase construye el caso de uso. lookup puede ser nil (consulta deshabilitada).
func NewCompanyUseCase(repos repository.Repos, tx repository.TxRunner, lookup CNPJLookup, notifier *notification.Notifier, log *logger.Logger) *CompanyUseCase {
	return &CompanyUseCase{repos: repos, tx: tx, lookup: lookup, notifier: notifier, log: log, now: time.Now}
}

// LookupCNPJ consulta los datos del CNPJ en el proveedor externo (primario y fallback).
func (uc *CompanyUseCase) LookupCNPJ(ctx context.Context, cnpj string) (*dto.CNPJInfo, error) {
	cnpj = docbr.Normalize(cnpj)
	if err := docbr.CheckCNPJFormat(cnpj); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if uc.lookup == nil {
		return nil, fmt.Errorf("%w: consulta de CNPJ não configurada", domain.ErrUpstream)
	}
	info, err := uc.lookup.Lookup(ctx, cnpj)
	if err != nil {
		uc.log.Error().Err(err).Str("cnpj", cnpj).Msg("company: falha na consulta de CNPJ")
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrUpstream) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: não foi possível consultar o CNPJ", domain.ErrUpstream)
	}
	return info, nil
}

func validateRegistration(in *dto.RegisterCompanyRequest) (birth, opening *time.Time, err error) {
	if !in.TermsAccepted {
		return nil, nil, fmt.Errorf("%w: é necessário aceitar os termos", domain.ErrInvalidInput)
	}
	if blank(in.PlanID) {
		return nil, nil, fmt.Errorf("%w: selecione um plano", domain.ErrInvalidInput)
	}
	in.CNPJ = docbr.Normalize(in.CNPJ)
	if err := docbr.CheckCNPJFormat(in.CNPJ); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if blank(in.LegalName) {
		return nil, nil, fmt.Errorf("%w: razão social é obrigatória", domain.ErrInvalidInput)
	}
	if blank(in.OwnerName) {
		return nil, nil, fmt.Errorf("%w: nome do responsável é obrigatório", domain.ErrInvalidInput)
	}
	in.OwnerCPF = docbr.Normalize(in.OwnerCPF)
	if err := docbr.CheckCPFFormat(in.OwnerCPF); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if blank(in.OwnerBirthDate) {
		return nil, nil, fmt.Errorf("%w: data de nascimento do responsável é obrigatória", domain.ErrInvalidInput)
	}
	if birth, err = parseDate(in.OwnerBirthDate, "data_nascimento_responsavel"); err != nil {
		return nil, nil, err
	}
	if opening, err = parseDate(in.OpeningDate, "data_abertura"); err != nil {
		return nil, nil, err
	}
	return birth, opening, nil
}

// Register envía el cadastro: empresa en aguardando_aprovacao, assinatura del plano,
// CNAEs secundarios, inscrições y auditoría en una sola transacción.
func (uc *CompanyUseCase) Register(ctx context.Context, s auth.Session, in dto.RegisterCompanyRequest) (*dto.RegisterCompanyResponse, error) {
	birth, opening, err := validateRegistration(&in)
	if err != nil {
		return nil, err
	}
	plan, err := uc.repos.Plans.GetByID(ctx, in.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil || !plan.Active {
		return nil, fmt.Errorf("%w: plano inexistente ou inativo", domain.ErrInvalidInput)
	}
	existing, err := uc.repos.Companies.ListByUserAndCNPJ(ctx, s.UserID, in.CNPJ)
	if err != nil {
		return nil, err
	}
	for _, c := range existing {
		if c.Status.Live() {
			return nil, fmt.Errorf("%w: CNPJ já cadastrado (%s)", domain.ErrDuplicate, c.Status)
		}
	}

	now := uc.now()
	company := &entity.Company{
		ID:                  uuid.New().String(),
		UserID:              s.UserID,
		CNPJ:                in.CNPJ,
		LegalName:           strings.TrimSpace(in.LegalName),
		TradeName:           strings.TrimSpace(in.TradeName),
		OwnerName:           strings.TrimSpace(in.OwnerName),
		OwnerCPF:            in.OwnerCPF,
		OwnerBirthDate:      birth,
		OpeningDate:         opening,
		SimplesOptant:       in.SimplesOptant,
		SimeiOptant:         in.SimeiOptant,
		MainCNAE:            in.MainCNAE,
		MainCNAEDescription: in.MainCNAEDescription,
		Address:             addressFromDTO(in.Address),
		Phone:               in.Phone,
		Email:               in.Email,
		TaxRegime:           in.TaxRegime,
		Status:              workflow.CompanyAwaitingApproval,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	sub := &entity.PlanSubscription{
		ID:         uuid.New().String(),
		CompanyID:  company.ID,
		PlanID:     plan.ID,
		Price:      plan.Price,
		Status:     workflow.SubscriptionAwaitingPayment,
		ValidFrom:  now,
		ValidUntil: validUntil(plan.Recurrence, now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	cnaes := make([]entity.SecondaryCNAE, 0, len(in.SecondaryCNAEs))
	for _, c := range in.SecondaryCNAEs {
		if blank(c.Code) {
			continue
		}
		cnaes = append(cnaes, entity.SecondaryCNAE{ID: uuid.New().String(), CompanyID: company.ID, Code: c.Code, Description: c.Description})
	}
	regs := make([]entity.Registration, 0, len(in.Registrations))
	for _, r := range in.Registrations {
		if blank(r.Number) {
			continue
		}
		kind := r.Kind
		if kind != entity.RegistrationState {
			kind = entity.RegistrationMunicipal
		}
		regs = append(regs, entity.Registration{ID: uuid.New().String(), CompanyID: company.ID, Kind: kind, Number: r.Number, State: r.State})
	}
	resp := entityToCompanyResponse(company)

	var sent []*entity.Notification
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := r.Companies.Create(ctx, company); err != nil {
			return err
		}
		if err := r.Subscriptions.Create(ctx, sub); err != nil {
			return err
		}
		if len(cnaes) > 0 {
			if err := r.Companies.AddSecondaryCNAEs(ctx, cnaes); err != nil {
				return err
			}
		}
		if len(regs) > 0 {
			if err := r.Companies.AddRegistrations(ctx, regs); err != nil {
				return err
			}
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &company.ID, tableCompany, entity.AuditInsert, company.ID, nil, resp)); err != nil {
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
				Type:   entity.NotificationCompanySubmitted,
				Title:  "Novo cadastro aguardando aprovação",
				Text:   fmt.Sprintf("A empresa %s (CNPJ %s) enviou o cadastro.", company.DisplayName(), docbr.FormatCNPJ(company.CNPJ)),
				Link:   "/empresas",
			})
		}
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, msgs...)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)

	uc.log.Info().Str("company_id", company.ID).Str("user_id", s.UserID).Msg("company: cadastro enviado")
	resp.SecondaryCNAEs = cnaesToDTO(cnaes)
	resp.Registrations = registrationsToDTO(regs)
	return &dto.RegisterCompanyResponse{Company: *resp, Subscription: *entityToSubscriptionResponse(sub)}, nil
}

func validUntil(recurrence string, from time.Time) *time.Time {
	var t time.Time
	switch recurrence {
	case entity.RecurrenceMonthly:
		t = from.AddDate(0, 1, 0)
	case entity.RecurrenceYearly:
		t = from.AddDate(1, 0, 0)
	default:
		return nil
	}
	return &t
}

// ListMine empresas del usuario de la sesión.
func (uc *CompanyUseCase) ListMine(ctx context.Context, s auth.Session) ([]dto.CompanyResponse, error) {
	list, err := uc.repos.Companies.ListByUser(ctx, s.UserID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return items, nil
}

// ListAll listado para el equipo contable, con filtro opcional de estado.
func (uc *CompanyUseCase) ListAll(ctx context.Context, s auth.Session, status string, limit, offset int) (*dto.CompanyListResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	f := repository.CompanyFilter{Limit: clampLimit(limit), Offset: max(offset, 0)}
	if status != "" {
		st, err := workflow.ParseCompanyStatus(status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	list, err := uc.repos.Companies.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{Items: items, Page: dto.PageResponse{Limit: f.Limit, Offset: f.Offset}}, nil
}

// Get detalle con CNAEs secundarios e inscrições (dueño o equipo).
func (uc *CompanyUseCase) Get(ctx context.Context, s auth.Session, id string) (*dto.CompanyResponse, error) {
	c, err := loadCompany(ctx, uc.repos.Companies, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, c); err != nil {
		return nil, err
	}
	cnaes, err := uc.repos.Companies.ListSecondaryCNAEs(ctx, id)
	if err != nil {
		return nil, err
	}
	regs, err := uc.repos.Companies.ListRegistrations(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := entityToCompanyResponse(c)
	resp.SecondaryCNAEs = cnaesToDTO(cnaes)
	resp.Registrations = registrationsToDTO(regs)
	return resp, nil
}

// Approve activa la empresa. Exige que cada tipo obligatorio tenga un documento aprovado.
func (uc *CompanyUseCase) Approve(ctx context.Context, s auth.Session, id string) (*dto.CompanyResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	var (
		company *entity.Company
		sent    []*entity.Notification
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		// la revisión de documentos bloquea la empresa: los documentos leídos abajo no cambian
		c, err := lockCompany(ctx, r.Companies, id)
		if err != nil {
			return err
		}
		if err := workflow.Transition(c.Status, workflow.CompanyActive); err != nil {
			return err
		}
		missing, err := missingMandatory(ctx, r, id)
		if err != nil {
			return err
		}
		if len(missing) > 0 {
			return fmt.Errorf("%w: documentos obrigatórios pendentes: %s", domain.ErrPrecondition, strings.Join(missing, ", "))
		}
		before := entityToCompanyResponse(c)
		from := c.Status
		now := uc.now()
		c.Status = workflow.CompanyActive
		c.RejectionReason = ""
		c.SuspensionReason = ""
		c.ApprovedBy = &s.UserID
		c.ApprovedAt = &now
		c.UpdatedAt = now
		if err := r.Companies.UpdateStatus(ctx, c, from); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &c.ID, tableCompany, entity.AuditUpdate, c.ID, before, entityToCompanyResponse(c))); err != nil {
			return err
		}
		company = c
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, notification.Message{
			UserID: c.UserID,
			Type:   entity.NotificationCompanyApproved,
			Title:  "Cadastro aprovado",
			Text:   fmt.Sprintf("O cadastro da empresa %s foi aprovado.", c.DisplayName()),
			Link:   "/empresa",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	uc.log.Info().Str("company_id", id).Str("approved_by", s.UserID).Msg("company: cadastro aprovado")
	return entityToCompanyResponse(company), nil
}

// missingMandatory nombres de los tipos obligatorios sin documento aprovado.
func missingMandatory(ctx context.Context, r repository.Repos, companyID string) ([]string, error) {
	types, err := r.DocumentTypes.ListMandatory(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := r.Documents.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(types))
	names := make(map[string]string, len(types))
	for _, t := range types {
		ids = append(ids, t.ID)
		names[t.ID] = t.Name
	}
	states := make([]workflow.DocumentState, 0, len(docs))
	for _, d := range docs {
		states = append(states, workflow.DocumentState{TypeID: d.DocumentTypeID, Status: d.Status})
	}
	missing := workflow.MissingMandatory(ids, states)
	out := make([]string, 0, len(missing))
	for _, id := range missing {
		out = append(out, names[id])
	}
	return out, nil
}

// Reject rechaza el cadastro con motivo obligatorio.
func (uc *CompanyUseCase) Reject(ctx context.Context, s auth.Session, id, reason string) (*dto.CompanyResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	if blank(reason) {
		return nil, fmt.Errorf("%w: informe o motivo da rejeição", domain.ErrInvalidInput)
	}
	return uc.changeStatus(ctx, s, id, workflow.CompanyRejected, strings.TrimSpace(reason), notification.Message{
		Type:  entity.NotificationCompanyRejected,
		Title: "Cadastro rejeitado",
		Link:  "/empresa",
	})
}

// Suspend suspende una empresa activa (administrador).
func (uc *CompanyUseCase) Suspend(ctx context.Context, s auth.Session, id, reason string) (*dto.CompanyResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	if blank(reason) {
		return nil, fmt.Errorf("%w: informe o motivo da suspensão", domain.ErrInvalidInput)
	}
	return uc.changeStatus(ctx, s, id, workflow.CompanySuspended, strings.TrimSpace(reason), notification.Message{
		Type:  entity.NotificationCompanySuspended,
		Title: "Cadastro suspenso",
		Link:  "/empresa",
	})
}

func (uc *CompanyUseCase) changeStatus(ctx context.Context, s auth.Session, id string, to workflow.CompanyStatus, reason string, msg notification.Message) (*dto.CompanyResponse, error) {
	var (
		company *entity.Company
		sent    []*entity.Notification
	)
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := lockCompany(ctx, r.Companies, id)
		if err != nil {
			return err
		}
		if err := workflow.Transition(c.Status, to); err != nil {
			return err
		}
		before := entityToCompanyResponse(c)
		from := c.Status
		c.Status = to
		if to == workflow.CompanySuspended {
			c.SuspensionReason = reason
		} else {
			c.RejectionReason = reason
		}
		c.UpdatedAt = uc.now()
		if err := r.Companies.UpdateStatus(ctx, c, from); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &c.ID, tableCompany, entity.AuditUpdate, c.ID, before, entityToCompanyResponse(c))); err != nil {
			return err
		}
		company = c
		msg.UserID = c.UserID
		msg.Text = fmt.Sprintf("A empresa %s está com status %s. Motivo: %s", c.DisplayName(), to, reason)
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, msg)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	uc.log.Info().Str("company_id", id).Str("status", string(to)).Str("actor", s.UserID).Msg("company: status alterado")
	return entityToCompanyResponse(company), nil
}

// Deactivate baja lógica por el dueño: inativo, assinaturas y serviços abiertos cancelados.
func (uc *CompanyUseCase) Deactivate(ctx context.Context, s auth.Session, id string) error {
	return uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := lockCompany(ctx, r.Companies, id)
		if err != nil {
			return err
		}
		if err := requireOwner(s, c); err != nil {
			return err
		}
		if err := workflow.Transition(c.Status, workflow.CompanyInactive); err != nil {
			return err
		}
		before := entityToCompanyResponse(c)
		from := c.Status
		c.Status = workflow.CompanyInactive
		c.UpdatedAt = uc.now()
		if err := r.Companies.UpdateStatus(ctx, c, from); err != nil {
			return err
		}
		subs, err := r.Subscriptions.CancelOpenByCompany(ctx, id)
		if err != nil {
			return err
		}
		contracts, err := r.Contracts.CancelOpenByCompany(ctx, id)
		if err != nil {
			return err
		}
		uc.log.Info().Str("company_id", id).Int64("subscriptions", subs).Int64("contracts", contracts).Msg("company: empresa desativada")
		return r.Audit.Create(ctx, auditEntry(s.UserID, &c.ID, tableCompany, entity.AuditDelete, c.ID, before, entityToCompanyResponse(c)))
	})
}

// PendingDocuments situación de cada tipo obligatorio para la empresa.
func (uc *CompanyUseCase) PendingDocuments(ctx context.Context, s auth.Session, id string) (*dto.PendingDocumentsResponse, error) {
	c, err := loadCompany(ctx, uc.repos.Companies, id)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, c); err != nil {
		return nil, err
	}
	types, err := uc.repos.DocumentTypes.ListMandatory(ctx)
	if err != nil {
		return nil, err
	}
	docs, err := uc.repos.Documents.ListByCompany(ctx, id)
	if err != nil {
		return nil, err
	}
	current := currentDocuments(docs)
	out := &dto.PendingDocumentsResponse{CompanyID: id, CanApprove: true, Items: make([]dto.MandatoryDocumentStatus, 0, len(types))}
	for _, t := range types {
		item := dto.MandatoryDocumentStatus{TypeID: t.ID, TypeName: t.Name}
		if d, ok := current[t.ID]; ok {
			item.Status = string(d.Status)
			item.DocumentID = d.ID
		}
		if item.Status != string(workflow.DocumentApproved) {
			out.CanApprove = false
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// currentDocuments documento vigente por tipo: aprovado, si no el que está en revisión, si no el último.
func currentDocuments(docs []*entity.Document) map[string]*entity.Document {
	rank := func(st workflow.DocumentStatus) int {
		switch st {
		case workflow.DocumentApproved:
			return 3
		case workflow.DocumentAwaiting:
			return 2
		}
		return 1
	}
	out := make(map[string]*entity.Document, len(docs))
	for _, d := range docs {
		cur, ok := out[d.DocumentTypeID]
		if !ok || rank(d.Status) > rank(cur.Status) ||
			(rank(d.Status) == rank(cur.Status) && d.CreatedAt.After(cur.CreatedAt)) {
			out[d.DocumentTypeID] = d
		}
	}
	return out
}

// ListSubscriptions assinaturas de la empresa (dueño o equipo).
func (uc *CompanyUseCase) ListSubscriptions(ctx context.Context, s auth.Session, companyID string) ([]dto.SubscriptionResponse, error) {
	c, err := loadCompany(ctx, uc.repos.Companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, c); err != nil {
		return nil, err
	}
	list, err := uc.repos.Subscriptions.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SubscriptionResponse, 0, len(list))
	for _, sub := range list {
		items = append(items, *entityToSubscriptionResponse(sub))
	}
	return items, nil
}

// SetSubscriptionStatus confirmación de pago, suspensión o cancelación (administrador).
func (uc *CompanyUseCase) SetSubscriptionStatus(ctx context.Context, s auth.Session, subID, status string) (*dto.SubscriptionResponse, error) {
	if err := requireAdmin(s); err != nil {
		return nil, err
	}
	to, err := workflow.ParseSubscriptionStatus(status)
	if err != nil {
		return nil, err
	}
	var sub *entity.PlanSubscription
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		found, err := r.Subscriptions.GetForUpdate(ctx, subID)
		if err != nil {
			return err
		}
		if found == nil {
			return fmt.Errorf("%w: assinatura %s", domain.ErrNotFound, subID)
		}
		if err := workflow.Transition(found.Status, to); err != nil {
			return err
		}
		before := entityToSubscriptionResponse(found)
		from := found.Status
		found.Status = to
		found.UpdatedAt = uc.now()
		if err := r.Subscriptions.UpdateStatus(ctx, found, from); err != nil {
			return err
		}
		sub = found
		return r.Audit.Create(ctx, auditEntry(s.UserID, &found.CompanyID, "empresas_planos", entity.AuditUpdate, found.ID, before, entityToSubscriptionResponse(found)))
	})
	if err != nil {
		return nil, err
	}
	return entityToSubscriptionResponse(sub), nil
}

func cnaesToDTO(list []entity.SecondaryCNAE) []dto.CNAEDTO {
	out := make([]dto.CNAEDTO, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CNAEDTO{Code: c.Code, Description: c.Description})
	}
	return out
}

func registrationsToDTO(list []entity.Registration) []dto.RegistrationDTO {
	out := make([]dto.RegistrationDTO, 0, len(list))
	for _, r := range list {
		out = append(out, dto.RegistrationDTO{Kind: r.Kind, Number: r.Number, State: r.State})
	}
	return out
}
