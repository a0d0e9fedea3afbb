package usecase_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/entity"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

// concurrently lanza las funciones a la vez y devuelve sus errores en orden.
func concurrently(fns ...func() error) []error {
	errs := make([]error, len(fns))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, fn := range fns {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			errs[i] = fn()
		}()
	}
	close(start)
	wg.Wait()
	return errs
}

func TestDocumento_AprovarERejeitarConcorrentes(t *testing.T) {
	for range 20 {
		f := newFixture(t)
		uc := newDocumentUC(f)
		ctx := context.Background()
		company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
		doc, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg.pdf"))
		require.NoError(t, err)

		errs := concurrently(
			func() error { _, err := uc.Approve(ctx, accountant, doc.ID, ""); return err },
			func() error { _, err := uc.Reject(ctx, admin, doc.ID, "foto ilegível"); return err },
		)
		approved, rejected := errs[0] == nil, errs[1] == nil
		require.True(t, approved != rejected, "exatamente uma revisão vence: %v", errs)
		for _, err := range errs {
			if err != nil {
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
		}

		stored, err := f.store.Repos().Documents.GetByID(ctx, doc.ID)
		require.NoError(t, err)
		want := workflow.DocumentRejected
		if approved {
			want = workflow.DocumentApproved
		}
		assert.Equal(t, want, stored.Status)
		assert.Len(t, f.notificationsOf(t, owner.UserID), 1, "uma única notificação ao dono")
	}
}

// Aprovar o cadastro enquanto o último obrigatório é revisado: empresa ativa implica todos aprovados.
func TestAprovacaoCadastro_ConcorrenteComRevisao(t *testing.T) {
	for range 20 {
		f := newFixture(t)
		docs := newDocumentUC(f)
		companies := newCompanyUC(f, nil)
		ctx := context.Background()
		company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
		rg, err := docs.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg.pdf"))
		require.NoError(t, err)
		_, err = docs.Approve(ctx, accountant, rg.ID, "")
		require.NoError(t, err)
		proof, err := docs.Upload(ctx, owner, company.ID, f.proof.ID, pdf("conta.pdf"))
		require.NoError(t, err)

		concurrently(
			func() error { _, err := docs.Reject(ctx, accountant, proof.ID, "ilegível"); return err },
			func() error { _, err := companies.Approve(ctx, admin, company.ID); return err },
			func() error { _, err := docs.Approve(ctx, admin, proof.ID, ""); return err },
		)

		r := f.store.Repos()
		c, err := r.Companies.GetByID(ctx, company.ID)
		require.NoError(t, err)
		if c.Status == workflow.CompanyActive {
			stored, err := r.Documents.GetByID(ctx, proof.ID)
			require.NoError(t, err)
			assert.Equal(t, workflow.DocumentApproved, stored.Status)
		}
	}
}

func TestContrato_IniciarECancelarConcorrentes(t *testing.T) {
	f := newFixture(t)
	uc := newContractUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	c, err := uc.Contract(ctx, owner, company.ID, dto.ContractRequest{ServiceID: f.seedService(t, "A").ID})
	require.NoError(t, err)

	errs := concurrently(
		func() error { _, err := uc.Cancel(ctx, admin, c.ID, "cliente desistiu"); return err },
		func() error { _, err := uc.Complete(ctx, accountant, c.ID); return err },
	)
	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
	}
	assert.Equal(t, 1, ok, "%v", errs)

	list, err := uc.ListByCompany(ctx, owner, company.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, workflow.IsTerminal(workflow.ContractStatus(list[0].Status)))
	assert.Len(t, f.notificationsOf(t, owner.UserID), 1)
}

// Uploads simultâneos do mesmo tipo: só um fica em análise e o arquivo do outro é removido.
func TestUpload_ReenvioConcorrenteDoMesmoTipo(t *testing.T) {
	f := newFixture(t)
	uc := newDocumentUC(f)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)

	errs := concurrently(
		func() error { _, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg-a.pdf")); return err },
		func() error { _, err := uc.Upload(ctx, owner, company.ID, f.rg.ID, pdf("rg-b.pdf")); return err },
	)
	var ok int
	for _, err := range errs {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, domain.ErrConflict)
		}
	}
	assert.Equal(t, 1, ok)

	list, err := f.store.Repos().Documents.ListByCompany(ctx, company.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, f.files.count())
}

func TestDocumentos_IndiceDeVigenteNoRepositorio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyAwaitingApproval)
	r := f.store.Repos()
	doc := func(id string, st workflow.DocumentStatus, title string) *entity.Document {
		return &entity.Document{ID: id, CompanyID: company.ID, DocumentTypeID: f.rg.ID, Title: title, Status: st, UploadedBy: owner.UserID}
	}
	require.NoError(t, r.Documents.Create(ctx, doc("d1", workflow.DocumentRejected, "")))
	require.NoError(t, r.Documents.Create(ctx, doc("d2", workflow.DocumentAwaiting, "")))
	assert.ErrorIs(t, r.Documents.Create(ctx, doc("d3", workflow.DocumentAwaiting, "")), domain.ErrConflict)
	require.NoError(t, r.Documents.Create(ctx, doc("d4", workflow.DocumentAwaiting, "Contrato social")))
}
