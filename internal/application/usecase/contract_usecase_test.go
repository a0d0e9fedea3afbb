package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

func newContractUC(f *fixture) *usecase.ContractUseCase {
	return usecase.NewContractUseCase(f.store.Repos(), f.store, f.notifier, f.log)
}

func TestContract_SomenteEmpresaAtiva(t *testing.T) {
	f := newFixture(t)
	uc := newContractUC(f)
	sv := f.seedService(t, "Declaração anual")

	for _, st := range []workflow.CompanyStatus{
		workflow.CompanyPending, workflow.CompanyAwaitingApproval, workflow.CompanyRejected,
		workflow.CompanySuspended, workflow.CompanyInactive,
	} {
		company := f.seedCompany(t, owner, "cnpj-"+string(st), st)
		f.store.ResetOps()
		_, err := uc.Contract(context.Background(), owner, company.ID, dto.ContractRequest{ServiceID: sv.ID})
		require.Error(t, err, st)
		assert.ErrorIs(t, err, domain.ErrPrecondition)
		assert.Contains(t, err.Error(), string(st))
		assert.NotContains(t, f.store.Ops(), "contracts.create")
	}
}

func TestContract_DuplicadoEnAbertoEIdempotente(t *testing.T) {
	f := newFixture(t)
	uc := newContractUC(f)
	ctx := context.Background()
	sv := f.seedService(t, "Alteração cadastral")
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)

	first, err := uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: sv.ID, Note: "urgente"})
	require.NoError(t, err)
	assert.Equal(t, string(workflow.ContractPending), first.Status)
	assert.False(t, first.Completed)
	assert.Nil(t, first.CompletedAt)
	assert.True(t, decimal.NewFromInt(120).Equal(first.Price), "preço final com desconto")

	_, err = uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: sv.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Start(ctx, accountant, first.ID)
	require.NoError(t, err)
	_, err = uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: sv.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "em_andamento também bloqueia")

	done, err := uc.Complete(ctx, accountant, first.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.ContractCompleted), done.Status)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)

	again, err := uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: sv.ID})
	require.NoError(t, err, "concluído libera nova contratação")
	assert.NotEqual(t, first.ID, again.ID)

	list, err := uc.ListByCompany(ctx, owner, company.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	var updates int
	for _, n := range f.notificationsOf(t, owner.UserID) {
		if n.Type == entity.NotificationServiceUpdated {
			updates++
		}
	}
	assert.Equal(t, 2, updates)
}

func TestContract_ServicoInativo(t *testing.T) {
	f := newFixture(t)
	sv := f.seedService(t, "Baixa de MEI")
	sv.Active = false
	require.NoError(t, f.store.Repos().Services.Update(context.Background(), sv))
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)

	_, err := newContractUC(f).Contract(context.Background(), owner, company.ID, dto.ContractRequest{ServiceID: sv.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancelContract_ClienteSomentePendente(t *testing.T) {
	f := newFixture(t)
	uc := newContractUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	a, err := uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: f.seedService(t, "A").ID})
	require.NoError(t, err)
	b, err := uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: f.seedService(t, "B").ID})
	require.NoError(t, err)

	_, err = uc.Start(ctx, owner, a.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	cancelled, err := uc.Cancel(ctx, owner, a.ID, "desisti")
	require.NoError(t, err)
	assert.Equal(t, string(workflow.ContractCancelled), cancelled.Status)
	assert.False(t, cancelled.Completed)
	assert.Contains(t, cancelled.Note, "desisti")

	_, err = uc.Start(ctx, accountant, b.ID)
	require.NoError(t, err)
	_, err = uc.Cancel(ctx, owner, b.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = uc.Cancel(ctx, otherOwner, b.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListAllContracts_FiltrosDoExecutor(t *testing.T) {
	f := newFixture(t)
	uc := newContractUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	c, err := uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: f.seedService(t, "A").ID})
	require.NoError(t, err)

	list, err := uc.ListAll(ctx, accountant, dto.ContractListRequest{Status: "pendente"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)

	list, err = uc.ListAll(ctx, accountant, dto.ContractListRequest{MinDays: 3})
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = uc.ListAll(ctx, owner, dto.ContractListRequest{})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAgingBuckets(t *testing.T) {
	now := time.Date(2026, 3, 20, 12, 0, 0, 0, time.UTC)
	dates := []time.Time{
		now.Add(-2 * time.Hour),
		now.Add(-25 * time.Hour),
		now.Add(-26 * time.Hour),
		now.AddDate(0, 0, -9),
		now.AddDate(0, 0, -10),
		now.AddDate(0, 0, -40),
	}
	out := usecase.AgingBuckets(dates, now)

	require.Len(t, out.Buckets, 11)
	assert.Equal(t, 6, out.Total)
	assert.Equal(t, 1, out.Buckets[0].Count)
	assert.Equal(t, "1 dia", out.Buckets[1].Label)
	assert.Equal(t, 2, out.Buckets[1].Count)
	assert.Equal(t, 1, out.Buckets[9].Count)
	last := out.Buckets[10]
	assert.Equal(t, -1, last.Days)
	assert.Equal(t, "mais de 9 dias", last.Label)
	assert.Equal(t, 2, last.Count)
}

// Filas antiguas con status "ativo" cuentan como pendente en duplicados, cola, aging y baja.
func TestContract_LegadoAtivoContaComoAberto(t *testing.T) {
	f := newFixture(t)
	uc := newContractUC(f)
	ctx := context.Background()
	sv := f.seedService(t, "Declaração anual")
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	now := time.Now()
	legacy := &entity.ServiceContract{
		ID: "legado-1", CompanyID: company.ID, ServiceID: sv.ID, Price: sv.Price,
		ContractedAt: now.Add(-3 * 24 * time.Hour), Status: workflow.ContractStatus("ativo"), CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Repos().Contracts.Create(ctx, legacy))

	_, err := uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: sv.ID})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := uc.ListAll(ctx, accountant, dto.ContractListRequest{Status: "pendente"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, string(workflow.ContractPending), list[0].Status)

	aging, err := uc.Aging(ctx, accountant)
	require.NoError(t, err)
	assert.Equal(t, 1, aging.Total)

	started, err := uc.Start(ctx, accountant, legacy.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.ContractInProgress), started.Status)
}
