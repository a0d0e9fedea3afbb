package usecase_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/auth"
	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/notification"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
	"github.com/jhoicas/topmei-api/internal/infrastructure/memory"
	"github.com/jhoicas/topmei-api/pkg/logger"
	"github.com/jhoicas/topmei-api/pkg/secret"
)

var (
	owner      = auth.Session{UserID: "cliente-1", Email: "cliente@mei.com.br", Role: entity.RoleClient}
	otherOwner = auth.Session{UserID: "cliente-2", Email: "outro@mei.com.br", Role: entity.RoleClient}
	accountant = auth.Session{UserID: "contador-1", Email: "contador@topmei.com.br", Role: entity.RoleAccountant}
	admin      = auth.Session{UserID: "admin-1", Email: "admin@topmei.com.br", Role: entity.RoleAdministrator}
)

// fakeFiles FileStore en memoria.
type fakeFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	err   error
}

func newFakeFiles() *fakeFiles { return &fakeFiles{files: map[string][]byte{}} }

func (f *fakeFiles) Put(_ context.Context, path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.files[path] = data
	return nil
}

func (f *fakeFiles) Get(_ context.Context, path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return data, nil
}

func (f *fakeFiles) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	return nil
}

func (f *fakeFiles) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.files)
}

type fixture struct {
	store    *memory.Store
	files    *fakeFiles
	box      *secret.Box
	notifier *notification.Notifier
	log      *logger.Logger
	plan     *entity.Plan
	rg       *entity.DocumentType
	proof    *entity.DocumentType
}

// newFixture store con usuarios de cada perfil, un plano mensal y dos tipos obligatorios.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	r := store.Repos()
	now := time.Now()

	for _, s := range []auth.Session{owner, otherOwner, accountant, admin} {
		require.NoError(t, r.Users.Create(ctx, &entity.User{ID: s.UserID, Email: s.Email, Name: s.Email, Active: true, CreatedAt: now, UpdatedAt: now}))
		require.NoError(t, r.Roles.Assign(ctx, &entity.RoleAssignment{ID: uuid.New().String(), UserID: s.UserID, Role: s.Role, Active: true, CreatedAt: now}))
	}
	box, err := secret.NewBox("chave-de-teste")
	require.NoError(t, err)
	f := &fixture{
		store: store,
		box:   box,
		files: newFakeFiles(),
		log:   logger.Nop(),
		plan: &entity.Plan{
			ID: uuid.New().String(), Name: "Mensal", Price: decimal.RequireFromString("79.90"),
			Recurrence: entity.RecurrenceMonthly, Active: true, CreatedAt: now, UpdatedAt: now,
		},
		rg:    &entity.DocumentType{ID: uuid.New().String(), Name: "RG", Mandatory: true, Active: true, CreatedAt: now, UpdatedAt: now},
		proof: &entity.DocumentType{ID: uuid.New().String(), Name: "Comprovante de residência", Mandatory: true, Active: true, CreatedAt: now, UpdatedAt: now},
	}
	f.notifier = notification.NewNotifier(f.log)
	require.NoError(t, r.Plans.Create(ctx, f.plan))
	require.NoError(t, r.DocumentTypes.Create(ctx, f.rg))
	require.NoError(t, r.DocumentTypes.Create(ctx, f.proof))
	store.ResetOps()
	return f
}

func registerRequest(planID string) dto.RegisterCompanyRequest {
	return dto.RegisterCompanyRequest{
		TermsAccepted:  true,
		PlanID:         planID,
		CNPJ:           "12.345.678/0001-99",
		LegalName:      "MARIA DA SILVA 12345678900",
		TradeName:      "Doces da Maria",
		OwnerName:      "Maria da Silva",
		OwnerCPF:       "529.982.247-25",
		OwnerBirthDate: "1990-05-10",
		MainCNAE:       "1091-1/02",
		SecondaryCNAEs: []dto.CNAEDTO{{Code: "4721-1/02", Description: "Padaria e confeitaria"}},
		Registrations:  []dto.RegistrationDTO{{Kind: "municipal", Number: "123456"}},
	}
}

// seedCompany inserta una empresa del dueño con el estado indicado.
func (f *fixture) seedCompany(t *testing.T, s auth.Session, cnpj string, status workflow.CompanyStatus) *entity.Company {
	t.Helper()
	now := time.Now()
	c := &entity.Company{
		ID: uuid.New().String(), UserID: s.UserID, CNPJ: cnpj, LegalName: "Empresa " + cnpj,
		Status: status, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Repos().Companies.Create(context.Background(), c))
	return c
}

func (f *fixture) seedService(t *testing.T, name string) *entity.Service {
	t.Helper()
	now := time.Now()
	sv := &entity.Service{
		ID: uuid.New().String(), Name: name, Price: decimal.NewFromInt(150), Discount: decimal.NewFromInt(30),
		DeadlineDays: 5, Active: true, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Repos().Services.Create(context.Background(), sv))
	return sv
}

func (f *fixture) notificationsOf(t *testing.T, userID string) []*entity.Notification {
	t.Helper()
	list, err := f.store.Repos().Notifications.ListByUser(context.Background(), userID, 100)
	require.NoError(t, err)
	return list
}

func pdf(name string) dto.UploadFile {
	return dto.UploadFile{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4 " + name)}
}
