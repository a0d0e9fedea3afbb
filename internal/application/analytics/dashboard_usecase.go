// Package analytics contiene los resúmenes del dashboard por perfil.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/repository"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// DashboardUseCase genera el resumen del dashboard según el perfil de la sesión.
//
// Fuente de datos: DashboardRepository (consultas read-only), más el conteo de
// notificaciones y las fechas de contratos abiertos para el aging.
type DashboardUseCase struct {
	dashboard     repository.DashboardRepository
	contracts     repository.ContractRepository
	notifications repository.NotificationRepository
	now           func() time.Time
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(dashboard repository.DashboardRepository, contracts repository.ContractRepository, notifications repository.NotificationRepository) *DashboardUseCase {
	return &DashboardUseCase{dashboard: dashboard, contracts: contracts, notifications: notifications, now: time.Now}
}

type countsResult struct {
	m   map[string]int
	err error
}

type intResult struct {
	n   int
	err error
}

// GetSummary arma el resumen. Las consultas corren en paralelo:
//   - cliente: empresas, documentos obligatorios pendientes, serviços y NFS-e propias
//   - contador/administrador: totales globales y aging de serviços abiertos
//   - administrador: además usuarios por perfil e inactivos
func (uc *DashboardUseCase) GetSummary(ctx context.Context, s auth.Session) (*dto.DashboardSummaryDTO, error) {
	scope := s.UserID
	if s.Staff() {
		scope = ""
	}

	count := func(fn func(context.Context, string) ([]repository.StatusCount, error)) <-chan countsResult {
		ch := make(chan countsResult, 1)
		go func() {
			list, err := fn(ctx, scope)
			ch <- countsResult{toMap(list), err}
		}()
		return ch
	}
	single := func(fn func() (int, error)) <-chan intResult {
		ch := make(chan intResult, 1)
		go func() {
			n, err := fn()
			ch <- intResult{n, err}
		}()
		return ch
	}

	companiesCh := count(uc.dashboard.CompaniesByStatus)
	documentsCh := count(uc.dashboard.DocumentsByStatus)
	contractsCh := count(uc.dashboard.ContractsByStatus)
	invoicesCh := count(uc.dashboard.InvoicesByStatus)
	unreadCh := single(func() (int, error) { return uc.notifications.UnreadCount(ctx, s.UserID) })

	var pendingCh, inactiveCh <-chan intResult
	var agingCh chan agingResult
	var rolesCh <-chan countsResult
	if !s.Staff() {
		pendingCh = single(func() (int, error) { return uc.dashboard.PendingMandatoryDocuments(ctx, s.UserID) })
	} else {
		agingCh = make(chan agingResult, 1)
		go func() {
			dates, err := uc.contracts.OpenContractDates(ctx)
			agingCh <- agingResult{dates, err}
		}()
	}
	if s.Is(entity.RoleAdministrator) {
		rolesCh = count(func(ctx context.Context, _ string) ([]repository.StatusCount, error) {
			return uc.dashboard.UsersByRole(ctx)
		})
		inactiveCh = single(func() (int, error) { return uc.dashboard.InactiveUsers(ctx) })
	}

	companies, documents, contracts, invoices, unread := <-companiesCh, <-documentsCh, <-contractsCh, <-invoicesCh, <-unreadCh
	// orden fijo: con varios fallos se informa siempre el mismo
	for _, r := range []struct {
		name string
		err  error
	}{
		{"empresas", companies.err},
		{"documentos", documents.err},
		{"serviços", contracts.err},
		{"nfse", invoices.err},
		{"notificações", unread.err},
	} {
		if r.err != nil {
			return nil, fmt.Errorf("dashboard: %s: %w", r.name, r.err)
		}
	}

	out := &dto.DashboardSummaryDTO{
		Role:                string(s.Role),
		Companies:           companies.m,
		Documents:           documents.m,
		Contracts:           contracts.m,
		Invoices:            invoices.m,
		OpenContracts:       contracts.m[string(workflow.ContractPending)] + contracts.m[string(workflow.ContractInProgress)],
		UnreadNotifications: unread.n,
		GeneratedAt:         uc.now(),
	}
	if pendingCh != nil {
		p := <-pendingCh
		if p.err != nil {
			return nil, fmt.Errorf("dashboard: documentos pendentes: %w", p.err)
		}
		out.PendingDocuments = p.n
	} else {
		out.PendingDocuments = documents.m[string(workflow.DocumentAwaiting)]
	}
	if agingCh != nil {
		a := <-agingCh
		if a.err != nil {
			return nil, fmt.Errorf("dashboard: aging: %w", a.err)
		}
		out.ContractsAging = usecase.AgingBuckets(a.dates, out.GeneratedAt)
	}
	if rolesCh != nil {
		roles, inactive := <-rolesCh, <-inactiveCh
		if roles.err != nil {
			return nil, fmt.Errorf("dashboard: usuários por perfil: %w", roles.err)
		}
		if inactive.err != nil {
			return nil, fmt.Errorf("dashboard: usuários inativos: %w", inactive.err)
		}
		out.UsersByRole = roles.m
		out.InactiveUsers = inactive.n
	}
	return out, nil
}

type agingResult struct {
	dates []time.Time
	err   error
}

func toMap(list []repository.StatusCount) map[string]int {
	m := make(map[string]int, len(list))
	for _, c := range list {
		m[c.Status] = c.Count
	}
	return m
}
