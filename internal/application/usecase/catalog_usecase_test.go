package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/infrastructure/memory"
)

func newCatalog() *usecase.CatalogUseCase {
	repos := memory.New().Repos()
	return usecase.NewCatalogUseCase(repos.Plans, repos.Services)
}

func TestCatalog_PlanoSoloAdministrador(t *testing.T) {
	uc := newCatalog()
	in := dto.PlanRequest{Name: "MEI Essencial", Price: decimal.RequireFromString("89.90"), Recurrence: entity.RecurrenceMonthly}

	_, err := uc.CreatePlan(context.Background(), accountant, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	p, err := uc.CreatePlan(context.Background(), admin, in)
	require.NoError(t, err)
	assert.True(t, p.Active)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("89.9")))
}

func TestCatalog_ValidacionesDePlano(t *testing.T) {
	uc := newCatalog()
	ctx := context.Background()

	_, err := uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: " ", Recurrence: entity.RecurrenceMonthly})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "X", Price: decimal.NewFromInt(-1), Recurrence: entity.RecurrenceMonthly})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "X", Recurrence: "semanal"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdatePlan(ctx, admin, "nao-existe", dto.PlanRequest{Name: "X", Recurrence: entity.RecurrenceYearly})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCatalog_DesactivarPlanLoOcultaDelListado(t *testing.T) {
	uc := newCatalog()
	ctx := context.Background()
	p, err := uc.CreatePlan(ctx, admin, dto.PlanRequest{Name: "Anual", Price: decimal.NewFromInt(900), Recurrence: entity.RecurrenceYearly})
	require.NoError(t, err)

	off := false
	_, err = uc.UpdatePlan(ctx, admin, p.ID, dto.PlanRequest{Name: "Anual", Price: decimal.NewFromInt(900), Recurrence: entity.RecurrenceYearly, Active: &off})
	require.NoError(t, err)

	active, err := uc.ListPlans(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := uc.ListPlans(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.False(t, all[0].Active)
}

func TestCatalog_ServicoConDesconto(t *testing.T) {
	uc := newCatalog()
	ctx := context.Background()

	_, err := uc.CreateService(ctx, admin, dto.ServiceRequest{Name: "DASN", Price: decimal.NewFromInt(50), Discount: decimal.NewFromInt(60)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	sv, err := uc.CreateService(ctx, admin, dto.ServiceRequest{
		Name: "Declaração anual", Price: decimal.NewFromInt(150), Discount: decimal.NewFromInt(30), DeadlineDays: 5,
	})
	require.NoError(t, err)
	assert.True(t, sv.FinalPrice.Equal(decimal.NewFromInt(120)))

	updated, err := uc.UpdateService(ctx, admin, sv.ID, dto.ServiceRequest{Name: "Declaração anual (DASN)", Price: decimal.NewFromInt(150)})
	require.NoError(t, err)
	assert.Equal(t, "Declaração anual (DASN)", updated.Name)
	assert.True(t, updated.Active)

	list, err := uc.ListServices(ctx, true)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
