package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

func TestSetRole_InvalidaCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	resolver := auth.NewRoleResolver(f.store.Repos().Users, f.store.Repos().Roles, f.log)
	uc := usecase.NewUserAdminUseCase(f.store.Repos(), f.store, resolver, f.log)

	role, err := resolver.Resolve(ctx, owner.UserID)
	require.NoError(t, err)
	require.Equal(t, entity.RoleClient, role)

	_, err = uc.SetRole(ctx, accountant, owner.UserID, string(entity.RoleAccountant))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.SetRole(ctx, admin, owner.UserID, "gerente")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.SetRole(ctx, admin, owner.UserID, string(entity.RoleAccountant))
	require.NoError(t, err)
	assert.Equal(t, string(entity.RoleAccountant), out.Role)

	role, err = resolver.Resolve(ctx, owner.UserID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAccountant, role, "perfil novo visível sem esperar o TTL")

	list, err := uc.List(ctx, admin, 0, 0)
	require.NoError(t, err)
	for _, u := range list.Items {
		if u.ID == owner.UserID {
			assert.Equal(t, string(entity.RoleAccountant), u.Role)
		}
	}
}

func TestSetActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := usecase.NewUserAdminUseCase(f.store.Repos(), f.store, auth.NewRoleResolver(f.store.Repos().Users, f.store.Repos().Roles, f.log), f.log)

	err := uc.SetActive(ctx, admin, admin.UserID, false)
	assert.ErrorIs(t, err, domain.ErrConflict)

	require.NoError(t, uc.SetActive(ctx, admin, owner.UserID, false))
	u, err := f.store.Repos().Users.GetByID(ctx, owner.UserID)
	require.NoError(t, err)
	assert.False(t, u.Active)

	entries, err := usecase.NewAuditUseCase(f.store.Repos().Audit).List(ctx, admin, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, owner.UserID, entries[0].RecordID)

	_, err = usecase.NewAuditUseCase(f.store.Repos().Audit).List(ctx, accountant, 10, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

type fakeRenderer struct {
	docs []*dto.BudgetDocument
	err  error
}

func (r *fakeRenderer) Render(doc *dto.BudgetDocument) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.docs = append(r.docs, doc)
	return []byte("%PDF"), nil
}

func budgetRequest() dto.BudgetRequest {
	return dto.BudgetRequest{
		ClientName: "Buffet Alegria",
		Items: []dto.BudgetItemDTO{
			{Description: "Bolo 3kg", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.RequireFromString("120.50")},
			{Description: "Docinhos (cento)", Quantity: decimal.RequireFromString("1.5"), UnitPrice: decimal.NewFromInt(90)},
		},
	}
}

func TestGenerateBudget_NumeracaoSequencial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	company := &entity.Company{
		ID: uuid.New().String(), UserID: owner.UserID, CNPJ: "11222333000181", LegalName: "MARIA DA SILVA",
		TradeName: "Doces da Maria", Status: workflow.CompanyActive, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Repos().Companies.Create(ctx, company))
	renderer := &fakeRenderer{}
	uc := usecase.NewBudgetUseCase(f.store.Repos().Companies, f.store.Repos().Budgets, f.files, renderer, f.log)

	cfg, err := uc.GetConfig(ctx, owner, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "Doces da Maria", cfg.BusinessName)
	assert.Equal(t, "11.222.333/0001-81", cfg.Document)
	assert.Equal(t, 15, cfg.DefaultValidityDays)

	first, err := uc.Generate(ctx, owner, company.ID, budgetRequest())
	require.NoError(t, err)
	second, err := uc.Generate(ctx, owner, company.ID, budgetRequest())
	require.NoError(t, err)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, second.Number)
	assert.Equal(t, "orcamento-0002.pdf", second.FileName)

	require.Len(t, renderer.docs, 2)
	doc := renderer.docs[0]
	assert.True(t, decimal.RequireFromString("376.00").Equal(doc.Total), doc.Total.String())
	assert.Equal(t, doc.IssuedAt.AddDate(0, 0, 15), doc.ValidUntil)

	saved, err := uc.SaveConfig(ctx, owner, company.ID, dto.BudgetConfigDTO{BusinessName: "Maria Doces", DefaultValidityDays: 7})
	require.NoError(t, err)
	assert.Equal(t, 2, saved.LastNumber, "salvar o cabeçalho preserva a numeração")

	third, err := uc.Generate(ctx, owner, company.ID, budgetRequest())
	require.NoError(t, err)
	assert.Equal(t, 3, third.Number)
	assert.Equal(t, "Maria Doces", renderer.docs[2].Config.BusinessName)
}

func TestGenerateBudget_Validacoes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	renderer := &fakeRenderer{}
	uc := usecase.NewBudgetUseCase(f.store.Repos().Companies, f.store.Repos().Budgets, f.files, renderer, f.log)

	empty := budgetRequest()
	empty.Items = nil
	_, err := uc.Generate(ctx, owner, company.ID, empty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	zeroQty := budgetRequest()
	zeroQty.Items[0].Quantity = decimal.Zero
	_, err = uc.Generate(ctx, owner, company.ID, zeroQty)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Generate(ctx, otherOwner, company.ID, budgetRequest())
	assert.ErrorIs(t, err, domain.ErrForbidden)

	renderer.err = errors.New("fonte indisponível")
	_, err = uc.Generate(ctx, owner, company.ID, budgetRequest())
	assert.Error(t, err)
	assert.Empty(t, renderer.docs)
}

func TestAuditList_RegistraCadastroSoloAdministrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	out, err := newCompanyUC(f, nil).Register(ctx, owner, registerRequest(f.plan.ID))
	require.NoError(t, err)

	uc := usecase.NewAuditUseCase(f.store.Repos().Audit)
	_, err = uc.List(ctx, accountant, 10, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	entries, err := uc.List(ctx, admin, 10, 0)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "empresa", entries[0].Table)
	assert.Equal(t, entity.AuditInsert, entries[0].Action)
	assert.Equal(t, owner.UserID, entries[0].UserID)
	assert.NotEmpty(t, out)
}
