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
	"github.com/jhoicas/topmei-api/pkg/logger"
)

const (
	tableContract = "empresa_servicos"
	// agingDays último bucket diario; los más antiguos van a "mais de N dias".
	agingDays = 9
)

// ContractUseCase contratación y ejecución de serviços avulsos.
type ContractUseCase struct {
	repos    repository.Repos
	tx       repository.TxRunner
	notifier *notification.Notifier
	log      *logger.Logger
	now      func() time.Time
}

// NewContractUseCase construye el caso de uso.
func NewContractUseCase(repos repository.Repos, tx repository.TxRunner, notifier *notification.Notifier, log *logger.Logger) *ContractUseCase {
	return &ContractUseCase{repos: repos, tx: tx, notifier: notifier, log: log, now: time.Now}
}

// Contract contrata un serviço para una empresa activa. Un contrato abierto para el mismo
// serviço bloquea la repetición.
func (uc *ContractUseCase) Contract(ctx context.Context, s auth.Session, companyID string, in dto.ContractRequest) (*dto.ContractResponse, error) {
	company, err := loadCompany(ctx, uc.repos.Companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(s, company); err != nil {
		return nil, err
	}
	if company.Status != workflow.CompanyActive {
		return nil, fmt.Errorf("%w: a empresa está com status %s; apenas empresas ativas podem contratar serviços", domain.ErrPrecondition, company.Status)
	}
	service, err := uc.repos.Services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}
	if service == nil || !service.Active {
		return nil, fmt.Errorf("%w: serviço inexistente ou inativo", domain.ErrInvalidInput)
	}

	now := uc.now()
	contract := &entity.ServiceContract{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		ServiceID:    service.ID,
		ContractedAt: now,
		Price:        service.FinalPrice(),
		Status:       workflow.ContractPending,
		Note:         strings.TrimSpace(in.Note),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	var sent []*entity.Notification
	err = uc.tx.Run(ctx, func(r repository.Repos) error {
		open, err := r.Contracts.HasOpen(ctx, companyID, service.ID)
		if err != nil {
			return err
		}
		if open {
			return fmt.Errorf("%w: serviço %s já contratado e em aberto", domain.ErrDuplicate, service.Name)
		}
		if err := r.Contracts.Create(ctx, contract); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &companyID, tableContract, entity.AuditInsert, contract.ID, nil, entityToContractResponse(contract, now))); err != nil {
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
				Type:   entity.NotificationServiceOrdered,
				Title:  "Novo serviço contratado",
				Text:   fmt.Sprintf("%s contratou %s.", company.DisplayName(), service.Name),
				Link:   "/contador/servicos",
			})
		}
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, msgs...)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	uc.log.Info().Str("company_id", companyID).Str("service_id", service.ID).Msg("contract: serviço contratado")
	out := entityToContractResponse(contract, now)
	return &out, nil
}

// ListByCompany contratos de la empresa (dueño o equipo).
func (uc *ContractUseCase) ListByCompany(ctx context.Context, s auth.Session, companyID string) ([]dto.ContractResponse, error) {
	company, err := loadCompany(ctx, uc.repos.Companies, companyID)
	if err != nil {
		return nil, err
	}
	if err := requireOwnerOrStaff(s, company); err != nil {
		return nil, err
	}
	list, err := uc.repos.Contracts.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list), nil
}

// ListAll listado del executor con filtros de estado, empresa y antigüedad.
func (uc *ContractUseCase) ListAll(ctx context.Context, s auth.Session, in dto.ContractListRequest) ([]dto.ContractResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	f := repository.ContractFilter{
		CompanyID: in.CompanyID,
		MinDays:   max(in.MinDays, 0),
		Limit:     clampLimit(in.Limit),
		Offset:    max(in.Offset, 0),
	}
	if in.Status != "" {
		st, err := workflow.ParseContractStatus(in.Status)
		if err != nil {
			return nil, err
		}
		f.Status = st
	}
	list, err := uc.repos.Contracts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return uc.toResponses(list), nil
}

func (uc *ContractUseCase) toResponses(list []*entity.ServiceContract) []dto.ContractResponse {
	now := uc.now()
	out := make([]dto.ContractResponse, 0, len(list))
	for _, c := range list {
		out = append(out, entityToContractResponse(c, now))
	}
	return out
}

// Start pendente -> em_andamento.
func (uc *ContractUseCase) Start(ctx context.Context, s auth.Session, id string) (*dto.ContractResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	return uc.transition(ctx, s, id, workflow.ContractInProgress, "")
}

// Complete marca concluido; Completed y CompletedAt se derivan del estado.
func (uc *ContractUseCase) Complete(ctx context.Context, s auth.Session, id string) (*dto.ContractResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	return uc.transition(ctx, s, id, workflow.ContractCompleted, "")
}

// Cancel cancela el contrato. El dueño sólo puede hacerlo mientras está pendente.
func (uc *ContractUseCase) Cancel(ctx context.Context, s auth.Session, id, reason string) (*dto.ContractResponse, error) {
	return uc.transition(ctx, s, id, workflow.ContractCancelled, strings.TrimSpace(reason))
}

func (uc *ContractUseCase) transition(ctx context.Context, s auth.Session, id string, to workflow.ContractStatus, reason string) (*dto.ContractResponse, error) {
	var (
		contract *entity.ServiceContract
		sent     []*entity.Notification
	)
	now := uc.now()
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		c, err := r.Contracts.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("%w: contrato %s", domain.ErrNotFound, id)
		}
		company, err := loadCompany(ctx, r.Companies, c.CompanyID)
		if err != nil {
			return err
		}
		if !s.Staff() {
			if err := requireOwner(s, company); err != nil {
				return err
			}
			if to != workflow.ContractCancelled || c.Status != workflow.ContractPending {
				return fmt.Errorf("%w: o cliente só pode cancelar serviços pendentes", domain.ErrForbidden)
			}
		}
		if err := workflow.Transition(c.Status, to); err != nil {
			return err
		}
		before := entityToContractResponse(c, now)
		from := c.Status
		c.SetStatus(to, now)
		if reason != "" {
			c.Note = strings.TrimSpace(c.Note + "\nCancelamento: " + reason)
		}
		if err := r.Contracts.UpdateStatus(ctx, c, from); err != nil {
			return err
		}
		if err := r.Audit.Create(ctx, auditEntry(s.UserID, &c.CompanyID, tableContract, entity.AuditUpdate, c.ID, before, entityToContractResponse(c, now))); err != nil {
			return err
		}
		serviceName := "Serviço"
		if sv, err := r.Services.GetByID(ctx, c.ServiceID); err == nil && sv != nil {
			serviceName = sv.Name
		}
		contract = c
		sent, err = uc.notifier.Notify(ctx, r.Notifications, s.UserID, notification.Message{
			UserID: company.UserID,
			Type:   entity.NotificationServiceUpdated,
			Title:  "Serviço atualizado",
			Text:   fmt.Sprintf("%s da empresa %s agora está %s.", serviceName, company.DisplayName(), to),
			Link:   "/contratar-servicos",
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.notifier.Publish(ctx, sent)
	out := entityToContractResponse(contract, now)
	return &out, nil
}

// Aging cuenta los contratos abiertos por días completos desde la contratación: 0..9 y "mais de 9".
func (uc *ContractUseCase) Aging(ctx context.Context, s auth.Session) (*dto.AgingResponse, error) {
	if err := requireStaff(s); err != nil {
		return nil, err
	}
	dates, err := uc.repos.Contracts.OpenContractDates(ctx)
	if err != nil {
		return nil, err
	}
	return AgingBuckets(dates, uc.now()), nil
}

// AgingBuckets agrupa las fechas de contratación por días completos hasta now.
func AgingBuckets(dates []time.Time, now time.Time) *dto.AgingResponse {
	counts := make([]int, agingDays+2)
	for _, d := range dates {
		days := wholeDays(d, now)
		if days > agingDays {
			days = agingDays + 1
		}
		counts[days]++
	}
	out := &dto.AgingResponse{Buckets: make([]dto.AgingBucketDTO, 0, len(counts)), Total: len(dates)}
	for i, n := range counts {
		b := dto.AgingBucketDTO{Label: fmt.Sprintf("%d dias", i), Days: i, Count: n}
		switch {
		case i == 1:
			b.Label = "1 dia"
		case i > agingDays:
			b.Label = fmt.Sprintf("mais de %d dias", agingDays)
			b.Days = -1
		}
		out.Buckets = append(out.Buckets, b)
	}
	return out
}
