package analytics_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/analytics"
	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
	"github.com/jhoicas/topmei-api/internal/infrastructure/memory"
)

var (
	client = auth.Session{UserID: "cliente-1", Role: entity.RoleClient}
	staff  = auth.Session{UserID: "contador-1", Role: entity.RoleAccountant}
	admin  = auth.Session{UserID: "admin-1", Role: entity.RoleAdministrator}
)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	r := store.Repos()
	now := time.Now()

	for _, s := range []auth.Session{client, staff, admin} {
		require.NoError(t, r.Users.Create(ctx, &entity.User{ID: s.UserID, Email: s.UserID + "@topmei.com.br", Active: true, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, r.Roles.Assign(ctx, &entity.RoleAssignment{ID: uuid.New().String(), UserID: s.UserID, Role: s.Role, Active: true, CreatedAt: now}))
	}
	require.NoError(t, r.Users.Create(ctx, &entity.User{ID: "ex-cliente", Email: "ex@mei.com.br", Active: false, CreatedAt: now, UpdatedAt: now}))

	rg := &entity.DocumentType{ID: uuid.New().String(), Name: "RG", Mandatory: true, Active: true, CreatedAt: now, UpdatedAt: now}
	proof := &entity.DocumentType{ID: uuid.New().String(), Name: "Comprovante de residência", Mandatory: true, Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.DocumentTypes.Create(ctx, rg))
	require.NoError(t, r.DocumentTypes.Create(ctx, proof))

	mine := &entity.Company{ID: uuid.New().String(), UserID: client.UserID, CNPJ: "11222333000181", Status: workflow.CompanyActive, CreatedAt: now, UpdatedAt: now}
	other := &entity.Company{ID: uuid.New().String(), UserID: "cliente-2", CNPJ: "11444777000161", Status: workflow.CompanyPending, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.Companies.Create(ctx, mine))
	require.NoError(t, r.Companies.Create(ctx, other))

	require.NoError(t, r.Documents.Create(ctx, &entity.Document{
		ID: uuid.New().String(), CompanyID: mine.ID, DocumentTypeID: rg.ID, FileName: "rg.pdf",
		Status: workflow.DocumentAwaiting, UploadedBy: client.UserID, CreatedAt: now, UpdatedAt: now,
	}))

	service := &entity.Service{ID: uuid.New().String(), Name: "Declaração anual", Price: decimal.NewFromInt(100), Active: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, r.Services.Create(ctx, service))
	for i, c := range []struct {
		company string
		age     time.Duration
	}{{mine.ID, 2 * 24 * time.Hour}, {other.ID, 15 * 24 * time.Hour}} {
		contract := &entity.ServiceContract{
			ID: uuid.New().String(), CompanyID: c.company, ServiceID: service.ID, Price: service.Price,
			ContractedAt: now.Add(-c.age - time.Hour), Status: workflow.ContractPending, CreatedAt: now, UpdatedAt: now,
		}
		if i == 1 {
			contract.Status = workflow.ContractInProgress
		}
		require.NoError(t, r.Contracts.Create(ctx, contract))
	}

	require.NoError(t, r.Notifications.Create(ctx, &entity.Notification{
		ID: uuid.New().String(), UserID: client.UserID, Type: entity.NotificationCompanyApproved, Title: "Cadastro aprovado", CreatedAt: now,
	}))
	return store
}

func newUC(store *memory.Store) *analytics.DashboardUseCase {
	r := store.Repos()
	return analytics.NewDashboardUseCase(store.Dashboard(), r.Contracts, r.Notifications)
}

func TestGetSummary_Cliente(t *testing.T) {
	store := seed(t)

	out, err := newUC(store).GetSummary(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, "cliente", out.Role)
	assert.Equal(t, map[string]int{"ativa": 1}, out.Companies, "só as empresas do próprio usuário")
	assert.Equal(t, 1, out.PendingDocuments, "RG em análise cobre o tipo; falta o comprovante")
	assert.Equal(t, 1, out.OpenContracts)
	assert.Equal(t, 1, out.UnreadNotifications)
	assert.Nil(t, out.ContractsAging)
	assert.Nil(t, out.UsersByRole)
}

func TestGetSummary_Contador(t *testing.T) {
	store := seed(t)

	out, err := newUC(store).GetSummary(context.Background(), staff)
	require.NoError(t, err)
	assert.Equal(t, 1, out.Companies[string(workflow.CompanyActive)])
	assert.Equal(t, 1, out.Companies[string(workflow.CompanyPending)])
	assert.Equal(t, 1, out.PendingDocuments, "documentos aguardando análise")
	assert.Equal(t, 2, out.OpenContracts)
	require.NotNil(t, out.ContractsAging)
	assert.Equal(t, 2, out.ContractsAging.Total)
	assert.Equal(t, 1, out.ContractsAging.Buckets[2].Count)
	last := out.ContractsAging.Buckets[len(out.ContractsAging.Buckets)-1]
	assert.Equal(t, -1, last.Days)
	assert.Equal(t, 1, last.Count)
	assert.Nil(t, out.UsersByRole, "apenas administradores veem usuários")
}

func TestGetSummary_Administrador(t *testing.T) {
	store := seed(t)

	out, err := newUC(store).GetSummary(context.Background(), admin)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"cliente": 1, "contador": 1, "administrador": 1}, out.UsersByRole)
	assert.Equal(t, 1, out.InactiveUsers)
	assert.NotNil(t, out.ContractsAging)
}

func TestGetSummary_PropagaErro(t *testing.T) {
	store := seed(t)
	store.FailOn("dashboard.invoices", errors.New("conexão perdida"))

	_, err := newUC(store).GetSummary(context.Background(), staff)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nfse")
}

func TestGetSummary_VariosErrosOrdemFixa(t *testing.T) {
	store := seed(t)
	store.FailOn("dashboard.companies", errors.New("falha a"))
	store.FailOn("dashboard.invoices", errors.New("falha b"))
	store.FailOn("notifications.unread_count", errors.New("falha c"))

	for range 20 {
		_, err := newUC(store).GetSummary(context.Background(), staff)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "dashboard: empresas")
	}
}

func TestGetSummary_ContratoLegadoAtivoContaComoAberto(t *testing.T) {
	store := seed(t)
	ctx := context.Background()
	companies, err := store.Repos().Companies.ListByUser(ctx, client.UserID)
	require.NoError(t, err)
	require.NotEmpty(t, companies)
	now := time.Now()
	require.NoError(t, store.Repos().Contracts.Create(ctx, &entity.ServiceContract{
		ID: uuid.New().String(), CompanyID: companies[0].ID, ServiceID: uuid.New().String(),
		Price: decimal.NewFromInt(50), ContractedAt: now, Status: workflow.ContractStatus("ativo"), CreatedAt: now, UpdatedAt: now,
	}))

	out, err := newUC(store).GetSummary(ctx, client)
	require.NoError(t, err)
	assert.Equal(t, 2, out.OpenContracts)
	assert.NotContains(t, out.Contracts, "ativo")
}
