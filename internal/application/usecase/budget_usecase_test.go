package usecase_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/application/dto"
	"github.com/jhoicas/topmei-api/internal/application/usecase"
	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/domain/workflow"
)

func newBudgetUC(f *fixture, renderer *fakeRenderer) *usecase.BudgetUseCase {
	return usecase.NewBudgetUseCase(f.store.Repos().Companies, f.store.Repos().Budgets, f.files, renderer, f.log)
}

func TestBudgetConfig_CamposDeApresentacaoEModelo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	renderer := &fakeRenderer{}
	uc := newBudgetUC(f, renderer)

	saved, err := uc.SaveConfig(ctx, owner, company.ID, dto.BudgetConfigDTO{
		BusinessName: "Doces da Maria",
		Site:         " https://docesdamaria.com.br ",
		Slogan:       "Doçura em cada pedaço",
		Introduction: "Segue a proposta.",
		AboutUs:      "Confeitaria artesanal.",
		Template:     "moderno",
	})
	require.NoError(t, err)
	assert.Equal(t, "https://docesdamaria.com.br", saved.Site)
	assert.Equal(t, "moderno", saved.Template)

	got, err := uc.GetConfig(ctx, accountant, company.ID)
	require.NoError(t, err, "a equipe consulta o cabeçalho")
	assert.Equal(t, "Doçura em cada pedaço", got.Slogan)
	assert.Equal(t, "Segue a proposta.", got.Introduction)
	assert.Equal(t, "Confeitaria artesanal.", got.AboutUs)

	_, err = uc.Generate(ctx, owner, company.ID, budgetRequest())
	require.NoError(t, err)
	require.Len(t, renderer.docs, 1)
	assert.Equal(t, "moderno", renderer.docs[0].Config.Template)
	assert.Equal(t, "Confeitaria artesanal.", renderer.docs[0].Config.AboutUs)

	_, err = uc.SaveConfig(ctx, owner, company.ID, dto.BudgetConfigDTO{BusinessName: "Doces", Template: "barroco"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	def, err := uc.SaveConfig(ctx, owner, company.ID, dto.BudgetConfigDTO{BusinessName: "Doces"})
	require.NoError(t, err)
	assert.Equal(t, "classico", def.Template, "sem modelo usa o clássico")
}

func TestBudgetLogo_EnvioSubstituicaoERemocao(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	renderer := &fakeRenderer{}
	uc := newBudgetUC(f, renderer)
	png := []byte("\x89PNG\r\n\x1a\nlogo")

	out, err := uc.UploadLogo(ctx, owner, company.ID, dto.UploadFile{Name: "marca.PNG", Data: png})
	require.NoError(t, err)
	assert.Equal(t, "/api/companies/"+company.ID+"/budget-config/logo", out.LogoURL)
	assert.Equal(t, 1, f.files.count())

	logo, err := uc.Logo(ctx, accountant, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", logo.ContentType)
	assert.Equal(t, png, logo.Data)

	_, err = uc.Generate(ctx, owner, company.ID, budgetRequest())
	require.NoError(t, err)
	require.Len(t, renderer.docs, 1)
	assert.Equal(t, png, renderer.docs[0].Logo)
	assert.Equal(t, "png", renderer.docs[0].LogoExt)

	// salvar o cabeçalho mantém o logo
	_, err = uc.SaveConfig(ctx, owner, company.ID, dto.BudgetConfigDTO{BusinessName: "Doces da Maria"})
	require.NoError(t, err)

	jpg := []byte("\xff\xd8\xffjpeg")
	_, err = uc.UploadLogo(ctx, owner, company.ID, dto.UploadFile{Name: "marca.jpeg", Data: jpg})
	require.NoError(t, err)
	assert.Equal(t, 1, f.files.count(), "o logo anterior com outra extensão é removido")
	logo, err = uc.Logo(ctx, owner, company.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", logo.ContentType)

	require.NoError(t, uc.RemoveLogo(ctx, owner, company.ID))
	assert.Equal(t, 0, f.files.count())
	_, err = uc.Logo(ctx, owner, company.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	require.NoError(t, uc.RemoveLogo(ctx, owner, company.ID), "remover sem logo não falha")
}

func TestBudgetLogo_Validacoes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	uc := newBudgetUC(f, &fakeRenderer{})

	_, err := uc.UploadLogo(ctx, owner, company.ID, dto.UploadFile{Name: "marca.gif", Data: []byte("GIF89a")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UploadLogo(ctx, owner, company.ID, dto.UploadFile{Name: "marca.png"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	big := bytes.Repeat([]byte{1}, usecase.MaxLogoSize+1)
	_, err = uc.UploadLogo(ctx, owner, company.ID, dto.UploadFile{Name: "marca.png", Data: big})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UploadLogo(ctx, otherOwner, company.ID, dto.UploadFile{Name: "marca.png", Data: []byte("png")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, uc.RemoveLogo(ctx, accountant, company.ID), domain.ErrForbidden)
	assert.Equal(t, 0, f.files.count())
}

func TestBudgetLogo_ArquivoAusenteNaoImpedeOrcamento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	company := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	renderer := &fakeRenderer{}
	uc := newBudgetUC(f, renderer)

	_, err := uc.UploadLogo(ctx, owner, company.ID, dto.UploadFile{Name: "marca.png", Data: []byte("png")})
	require.NoError(t, err)
	require.NoError(t, f.files.Delete(ctx, "logos/"+company.ID+".png"))

	_, err = uc.Generate(ctx, owner, company.ID, budgetRequest())
	require.NoError(t, err)
	require.Len(t, renderer.docs, 1)
	assert.Empty(t, renderer.docs[0].Logo)
}

func TestBudgetConfigs_ListaSomenteEquipe(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.seedCompany(t, owner, "11222333000181", workflow.CompanyActive)
	b := f.seedCompany(t, otherOwner, "11444777000161", workflow.CompanyActive)
	uc := newBudgetUC(f, &fakeRenderer{})

	_, err := uc.SaveConfig(ctx, owner, a.ID, dto.BudgetConfigDTO{BusinessName: "Zeta Doces"})
	require.NoError(t, err)
	_, err = uc.SaveConfig(ctx, otherOwner, b.ID, dto.BudgetConfigDTO{BusinessName: "Alfa Festas"})
	require.NoError(t, err)

	_, err = uc.ListConfigs(ctx, owner, 10, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := uc.ListConfigs(ctx, accountant, 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Alfa Festas", list[0].BusinessName)
	assert.Equal(t, b.ID, list[0].CompanyID)
	assert.Equal(t, "Zeta Doces", list[1].BusinessName)
}
