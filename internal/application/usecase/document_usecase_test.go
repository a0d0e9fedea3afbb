package usecase_test

import (
	"bytes"
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

func TestRejectDocument_MotivoVazioAntesDeQualquerAcesso(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
	doc, err := uc.Upload(context.Background(), owner, company.ID, f.rg.ID, pdf("rg.pdf"))
	require.NoError(t, err)

	for _, reason := range []string{"", "   ", "\n\t"} {
		f.store.ResetOps()
		_, err := uc.Reject(context.Background(), accountant, doc.ID, reason)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		assert.Empty(t, f.store.Ops(), "nenhuma leitura ou escrita com motivo %q", reason)
	}

	got, err := f.store.Repos().Documents.GetByID(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.DocumentAwaiting, got.Status)
}

func TestScenario_RejeicaoEReenvio(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)

	first, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg.pdf"))
	require.NoError(t, err)

	rejected, err := uc.Reject(ctx, accountant, first.ID, "foto ilegível")
	require.NoError(t, err)
	assert.Equal(t, string(workflow.DocumentRejected), rejected.Status)
	assert.Equal(t, "foto ilegível", rejected.ReviewNote)

	notes := f.notificationsOf(t, owner.UserID)
	require.Len(t, notes, 1)
	assert.Equal(t, entity.NotificationDocumentRejected, notes[0].Type)
	assert.Contains(t, notes[0].Message, "foto ilegível")
	assert.False(t, notes[0].Read)

	second, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg-nitido.pdf"))
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, string(workflow.DocumentAwaiting), second.Status)

	list, err := uc.ListByCompany(ctx, owner, company.ID)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	statuses := map[string]string{}
	for _, d := range list.Items {
		statuses[d.ID] = d.Status
	}
	assert.Equal(t, string(workflow.DocumentRejected), statuses[first.ID], "a linha rejeitada não é alterada")
	assert.Equal(t, string(workflow.DocumentAwaiting), statuses[second.ID])
}

func TestUpload_BloqueiaReenvioEmRevisao(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)

	_, err := uc.Upload(context.Background(), owner, company.ID, f.rg.ID, pdf("rg.pdf"))
	require.NoError(t, err)
	_, err = uc.Upload(context.Background(), owner, company.ID, f.rg.ID, pdf("rg2.pdf"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestUpload_Validacoes(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
	inactive := f.seedCompany(t, owner, "11444777000161", workflow.CompanyInactive)
	ctx := context.Background()

	big := dto.UploadFile{Name: "grande.pdf", Data: bytes.Repeat([]byte("a"), usecase.MaxDocumentSize+1)}
	_, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, big)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(ctx, owner, company.ID, f.rg.ID, dto.UploadFile{Name: "vazio.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Upload(ctx, otherOwner, company.ID, f.rg.ID, pdf("rg.pdf"))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Upload(ctx, owner, inactive.ID, f.rg.ID, pdf("rg.pdf"))
	assert.ErrorIs(t, err, domain.ErrPrecondition)

	_, err = uc.Upload(ctx, owner, company.ID, "tipo-inexistente", pdf("rg.pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.files.count())
}

func TestUpload_RemoveArquivoSeInsercaoFalhar(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
	f.store.FailOn("documents.create", errors.New("db caída"))

	_, err := uc.Upload(context.Background(), owner, company.ID, f.rg.ID, pdf("rg.pdf"))
	require.Error(t, err)
	assert.Zero(t, f.files.count(), "o objeto gravado é removido")
}

func TestUpload_GuardaPorEmpresaYDescarga(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)

	doc, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("meu rg.pdf"))
	require.NoError(t, err)

	stored, err := f.store.Repos().Documents.GetByID(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "documentos/"+company.ID+"/"+doc.ID+"/meu_rg.pdf", stored.StoragePath)

	file, err := uc.Download(ctx, accountant, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "meu rg.pdf", file.FileName)
	assert.Equal(t, pdf("meu rg.pdf").Data, file.Data)

	_, err = uc.Download(ctx, otherOwner, doc.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	staff := f.notificationsOf(t, accountant.UserID)
	require.Len(t, staff, 1)
	assert.Equal(t, entity.NotificationDocumentUploaded, staff[0].Type)
}

func TestUploadOther_CriaTipoOutros(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)

	a, err := uc.UploadOther(ctx, owner, company.ID, "Alvará", pdf("alvara.pdf"))
	require.NoError(t, err)
	b, err := uc.UploadOther(ctx, owner, company.ID, "Contrato de aluguel", pdf("aluguel.pdf"))
	require.NoError(t, err)
	assert.Equal(t, a.DocumentTypeID, b.DocumentTypeID)
	assert.Equal(t, "Alvará", a.Title)

	other, err := f.store.Repos().DocumentTypes.GetByName(ctx, entity.DocumentTypeOther)
	require.NoError(t, err)
	require.NotNil(t, other)
	assert.False(t, other.Mandatory)

	_, err = uc.UploadOther(ctx, owner, company.ID, " ", pdf("x.pdf"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDeleteDocument_SomenteEmRevisao(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)

	rg, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg.pdf"))
	require.NoError(t, err)
	proof, err := uc.Upload(ctx, owner, company.ID, f.proof.ID, pdf("conta.pdf"))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, accountant, proof.ID, "")
	require.NoError(t, err)

	assert.ErrorIs(t, uc.Delete(ctx, owner, proof.ID), domain.ErrConflict)
	assert.ErrorIs(t, uc.Delete(ctx, otherOwner, rg.ID), domain.ErrForbidden)
	require.NoError(t, uc.Delete(ctx, owner, rg.ID))
	assert.Equal(t, 1, f.files.count())

	_, err = uc.Download(ctx, owner, rg.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestApproveDocument_NoRevisaDosVeces(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
	doc, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg.pdf"))
	require.NoError(t, err)

	_, err = uc.Approve(ctx, owner, doc.ID, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Approve(ctx, accountant, doc.ID, "")
	require.NoError(t, err)
	_, err = uc.Reject(ctx, accountant, doc.ID, "tarde")
	assert.ErrorIs(t, err, workflow.ErrInvalidTransition)
}

func TestDocumentTypes_AdministracionYDesactivacion(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	ctx := context.Background()

	_, err := uc.CreateType(ctx, accountant, dto.DocumentTypeRequest{Name: "CNH"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	created, err := uc.CreateType(ctx, admin, dto.DocumentTypeRequest{Name: "CNH", Mandatory: true})
	require.NoError(t, err)
	assert.True(t, created.Active)

	off := false
	_, err = uc.UpdateType(ctx, admin, created.ID, dto.DocumentTypeRequest{Name: "CNH", Active: &off})
	require.NoError(t, err)

	active, err := uc.ListTypes(ctx, true)
	require.NoError(t, err)
	for _, typ := range active {
		assert.NotEqual(t, created.ID, typ.ID)
	}
	all, err := uc.ListTypes(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
