package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

type fakeLookup struct {
	info *dto.CNPJInfo
	err  error
	got  string
}

func (l *fakeLookup) Lookup(_ context.Context, cnpj string) (*dto.CNPJInfo, error) {
	l.got = cnpj
	return l.info, l.err
}

func newCompanyUC(f *fixture, lookup usecase.CNPJLookup) *usecase.CompanyUseCase {
	return usecase.NewCompanyUseCase(f.store.Repos(), f.store, lookup, f.notifier, f.log)
}

func newDocumentUC(f *fixture) *usecase.DocumentUseCase {
	return usecase.NewDocumentUseCase(f.store.Repos(), f.store, f.files, f.notifier, f.log)
}

func TestRegister_EnviaCadastroParaAprovacao(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)

	out, err := uc.Register(context.Background(), owner, registerRequest(f.plan.ID))
	require.NoError(t, err)

	assert.Equal(t, string(workflow.CompanyAwaitingApproval), out.Company.Status)
	assert.Equal(t, "12345678000199", out.Company.CNPJ)
	assert.Equal(t, "52998224725", out.Company.OwnerCPF)
	require.NotNil(t, out.Company.OwnerBirthDate)
	assert.Len(t, out.Company.SecondaryCNAEs, 1)
	assert.Len(t, out.Company.Registrations, 1)

	assert.Equal(t, string(workflow.SubscriptionAwaitingPayment), out.Subscription.Status)
	assert.True(t, f.plan.Price.Equal(out.Subscription.Price))
	require.NotNil(t, out.Subscription.ValidUntil)
	assert.Equal(t, out.Subscription.ValidFrom.AddDate(0, 1, 0), *out.Subscription.ValidUntil)

	audit := f.store.Audit()
	require.Len(t, audit, 1)
	assert.Equal(t, "empresa", audit[0].Table)
	assert.Equal(t, entity.AuditInsert, audit[0].Action)

	staff := f.notificationsOf(t, accountant.UserID)
	require.Len(t, staff, 1)
	assert.Equal(t, entity.NotificationCompanySubmitted, staff[0].Type)
	assert.Empty(t, f.notificationsOf(t, owner.UserID))
}

func TestRegister_ValidaAntesDeEscribir(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)

	cases := map[string]func(*dto.RegisterCompanyRequest){
		"sin términos":        func(r *dto.RegisterCompanyRequest) { r.TermsAccepted = false },
		"sin plano":           func(r *dto.RegisterCompanyRequest) { r.PlanID = "" },
		"cnpj corto":          func(r *dto.RegisterCompanyRequest) { r.CNPJ = "12.345.678/0001" },
		"cpf corto":           func(r *dto.RegisterCompanyRequest) { r.OwnerCPF = "123" },
		"sin responsable":     func(r *dto.RegisterCompanyRequest) { r.OwnerName = "  " },
		"sin nacimiento":      func(r *dto.RegisterCompanyRequest) { r.OwnerBirthDate = "" },
		"nacimiento inválido": func(r *dto.RegisterCompanyRequest) { r.OwnerBirthDate = "10/05/1990" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			f.store.ResetOps()
			req := registerRequest(f.plan.ID)
			mutate(&req)
			_, err := uc.Register(context.Background(), owner, req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.store.Ops())
		})
	}
}

func TestRegister_PlanoInativo(t *testing.T) {
	f := newFixture(t)
	f.plan.Active = false
	require.NoError(t, f.store.Repos().Plans.Update(context.Background(), f.plan))

	_, err := newCompanyUC(f, nil).Register(context.Background(), owner, registerRequest(f.plan.ID))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRegister_CNPJDuplicadoAtivo(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, owner, "12345678000199", workflow.CompanyActive)
	uc := newCompanyUC(f, nil)

	_, err := uc.Register(context.Background(), owner, registerRequest(f.plan.ID))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Contains(t, err.Error(), "CNPJ já cadastrado")

	mine, err := uc.ListMine(context.Background(), owner)
	require.NoError(t, err)
	assert.Len(t, mine, 1, "no se crea una segunda empresa")
}

func TestRegister_CNPJRejeitadoPodeSerReenviado(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, owner, "12345678000199", workflow.CompanyRejected)
	uc := newCompanyUC(f, nil)

	out, err := uc.Register(context.Background(), owner, registerRequest(f.plan.ID))
	require.NoError(t, err)
	assert.Equal(t, string(workflow.CompanyAwaitingApproval), out.Company.Status)

	// otro usuario con el mismo CNPJ no choca con el cadastro ajeno
	_, err = uc.Register(context.Background(), otherOwner, registerRequest(f.plan.ID))
	require.NoError(t, err)
}

func TestRegister_FalloParcialHaceRollback(t *testing.T) {
	f := newFixture(t)
	f.store.FailOn("companies.add_registrations", errors.New("db caída"))
	uc := newCompanyUC(f, nil)

	_, err := uc.Register(context.Background(), owner, registerRequest(f.plan.ID))
	require.Error(t, err)

	mine, err := uc.ListMine(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, mine)
	assert.Empty(t, f.store.Audit())
	assert.Empty(t, f.notificationsOf(t, accountant.UserID))
}

func TestApprove_ExigeDocumentosObrigatoriosAprovados(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)
	docs := newDocumentUC(f)
	ctx := context.Background()

	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
	rg, err := docs.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg.pdf"))
	require.NoError(t, err)
	_, err = docs.Approve(ctx, accountant, rg.ID, "")
	require.NoError(t, err)

	_, err = uc.Approve(ctx, accountant, company.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
	assert.Contains(t, err.Error(), "Comprovante de residência")

	got, err := uc.Get(ctx, owner, company.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.CompanyAwaitingApproval), got.Status)

	pending, err := uc.PendingDocuments(ctx, owner, company.ID)
	require.NoError(t, err)
	assert.False(t, pending.CanApprove)
	require.Len(t, pending.Items, 2)
}

func TestScenario_CicloDeVidaDaEmpresa(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)
	docs := newDocumentUC(f)
	ctx := context.Background()

	reg, err := uc.Register(ctx, owner, registerRequest(f.plan.ID))
	require.NoError(t, err)
	companyID := reg.Company.ID
	assert.Equal(t, string(workflow.CompanyAwaitingApproval), reg.Company.Status)

	for _, typ := range []*entity.DocumentType{f.rg, f.proof} {
		d, err := docs.Upload(ctx, owner, companyID, typ.ID, pdf(typ.Name+".pdf"))
		require.NoError(t, err)
		approved, err := docs.Approve(ctx, accountant, d.ID, "ok")
		require.NoError(t, err)
		assert.Equal(t, string(workflow.DocumentApproved), approved.Status)
	}

	list, err := docs.ListByCompany(ctx, owner, companyID)
	require.NoError(t, err)
	assert.True(t, list.CanApprove)

	approved, err := uc.Approve(ctx, accountant, companyID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.CompanyActive), approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, accountant.UserID, *approved.ApprovedBy)
	assert.NotNil(t, approved.ApprovedAt)

	var types []string
	for _, n := range f.notificationsOf(t, owner.UserID) {
		types = append(types, n.Type)
	}
	assert.Contains(t, types, entity.NotificationCompanyApproved)
	assert.Contains(t, types, entity.NotificationDocumentApproved)
}

func TestApprove_SoloEquipo(t *testing.T) {
	f := newFixture(t)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)

	_, err := newCompanyUC(f, nil).Approve(context.Background(), owner, company.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestReject_RequiereMotivoYNotifica(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)

	_, err := uc.Reject(context.Background(), accountant, company.ID, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := uc.Reject(context.Background(), accountant, company.ID, "CNPJ baixado")
	require.NoError(t, err)
	assert.Equal(t, string(workflow.CompanyRejected), out.Status)
	assert.Equal(t, "CNPJ baixado", out.RejectionReason)

	notes := f.notificationsOf(t, owner.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationCompanyRejected, notes[0].Type)
	assert.Contains(t, notes[0].Message, "CNPJ baixado")

	_, err = uc.Approve(context.Background(), accountant, company.ID)
	assert.True(t, errors.Is(err, workflow.ErrInvalidTransition))
}

func TestSuspend_SoloAdministrador(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)

	_, err := uc.Suspend(context.Background(), accountant, company.ID, "inadimplência")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	out, err := uc.Suspend(context.Background(), admin, company.ID, "inadimplência")
	require.NoError(t, err)
	assert.Equal(t, string(workflow.CompanySuspended), out.Status)
}

// A suspensão grava o próprio motivo e não apaga o da reprovação anterior.
func TestSuspend_MotivoSeparadoDaRejeicao(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	uc := newCompanyUC(f, nil)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	company.RejectionReason = "RG ilegível"
	require.NoError(t, f.store.Repos().Companies.UpdateStatus(ctx, company, workflow.CompanyActive))

	out, err := uc.Suspend(ctx, admin, company.ID, "  inadimplência ")
	require.NoError(t, err)
	assert.Equal(t, "inadimplência", out.SuspensionReason)
	assert.Equal(t, "RG ilegível", out.RejectionReason)

	stored, err := f.store.Repos().Companies.GetByID(ctx, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "inadimplência", stored.SuspensionReason)
	assert.Equal(t, "RG ilegível", stored.RejectionReason)
}

func TestDeactivate_CancelaAssinaturasYServicos(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)
	ctx := context.Background()

	reg, err := uc.Register(ctx, owner, registerRequest(f.plan.ID))
	require.NoError(t, err)

	err = uc.Deactivate(ctx, otherOwner, reg.Company.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, uc.Deactivate(ctx, owner, reg.Company.ID))

	got, err := uc.Get(ctx, owner, reg.Company.ID)
	require.NoError(t, err)
	assert.Equal(t, string(workflow.CompanyInactive), got.Status)

	subs, err := uc.ListSubscriptions(ctx, owner, reg.Company.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, string(workflow.SubscriptionCancelled), subs[0].Status)

	err = uc.Deactivate(ctx, owner, reg.Company.ID)
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestGet_OtroClienteNoAccede(t *testing.T) {
	f := newFixture(t)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	uc := newCompanyUC(f, nil)

	_, err := uc.Get(context.Background(), otherOwner, company.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Get(context.Background(), accountant, company.ID)
	assert.NoError(t, err)

	_, err = uc.Get(context.Background(), owner, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListAll_FiltraPorStatus(t *testing.T) {
	f := newFixture(t)
	f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	f.seedCompany(t, otherOwner, "11444777000161", workflow.CompanyAwaitingApproval)
	uc := newCompanyUC(f, nil)

	out, err := uc.ListAll(context.Background(), accountant, "aguardando_aprovacao", 0, 0)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "11444777000161", out.Items[0].CNPJ)

	_, err = uc.ListAll(context.Background(), accountant, "aprovada", 0, 0)
	assert.ErrorIs(t, err, workflow.ErrUnknownStatus)

	_, err = uc.ListAll(context.Background(), owner, "", 0, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestSetSubscriptionStatus_ConfirmaPago(t *testing.T) {
	f := newFixture(t)
	uc := newCompanyUC(f, nil)
	reg, err := uc.Register(context.Background(), owner, registerRequest(f.plan.ID))
	require.NoError(t, err)

	out, err := uc.SetSubscriptionStatus(context.Background(), admin, reg.Subscription.ID, "ativo")
	require.NoError(t, err)
	assert.Equal(t, string(workflow.SubscriptionActive), out.Status)

	_, err = uc.SetSubscriptionStatus(context.Background(), admin, reg.Subscription.ID, "aguardando_confirmacao_pagamento")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestLookupCNPJ(t *testing.T) {
	f := newFixture(t)
	lookup := &fakeLookup{info: &dto.CNPJInfo{CNPJ: "11222333000181", LegalName: "ACME"}}
	uc := newCompanyUC(f, lookup)

	info, err := uc.LookupCNPJ(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "ACME", info.LegalName)
	assert.Equal(t, "11222333000181", lookup.got)

	_, err = uc.LookupCNPJ(context.Background(), "123")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	lookup.err = errors.New("timeout")
	_, err = uc.LookupCNPJ(context.Background(), "11222333000181")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
