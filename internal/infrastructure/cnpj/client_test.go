package cnpj_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/domain"
	"github.com/jhoicas/topmei-api/internal/infrastructure/cnpj"
	"github.com/jhoicas/topmei-api/pkg/config"
	"github.com/jhoicas/topmei-api/pkg/logger"
)

const cnpjaBody = `{
  "taxId": "11222333000181",
  "alias": "Doces da Maria",
  "founded": "2021-05-10",
  "company": {"name": "MARIA SILVA 12345678901", "simples": {"optant": true}, "simei": {"optant": true}},
  "status": {"text": "Ativa"},
  "address": {"street": "Rua das Flores", "number": "10", "district": "Centro", "city": "Campinas", "state": "SP", "zip": "13010-000"},
  "mainActivity": {"id": 1091102, "text": "Fabricação de produtos de padaria"},
  "sideActivities": [{"id": 4721102, "text": "Padaria e confeitaria"}],
  "phones": [{"area": "19", "number": "999990000"}],
  "emails": [{"address": "maria@example.com"}]
}`

const receitaBody = `{
  "status": "OK",
  "cnpj": "11.222.333/0001-81",
  "nome": "MARIA SILVA 12345678901",
  "fantasia": "DOCES DA MARIA",
  "abertura": "10/05/2021",
  "situacao": "ATIVA",
  "logradouro": "RUA DAS FLORES", "numero": "10", "bairro": "CENTRO",
  "municipio": "CAMPINAS", "uf": "SP", "cep": "13.010-000",
  "telefone": "(19) 99999-0000",
  "atividade_principal": [{"code": "10.91-1-02", "text": "Fabricação de produtos de padaria"}],
  "atividades_secundarias": [{"code": "00.00-0-00", "text": "Não informada"}],
  "simei": {"optante": true}
}`

func newClient(primary, fallback string) *cnpj.Client {
	return cnpj.NewClient(config.CNPJConfig{PrimaryURL: primary, FallbackURL: fallback, TimeoutSeconds: 2}, logger.Nop())
}

func TestLookup_Primario(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/11222333000181"))
		_, _ = w.Write([]byte(cnpjaBody))
	}))
	defer srv.Close()

	info, err := newClient(srv.URL+"/office/%s", "").Lookup(context.Background(), "11.222.333/0001-81")
	require.NoError(t, err)
	assert.Equal(t, "11222333000181", info.CNPJ)
	assert.Equal(t, "Doces da Maria", info.TradeName)
	assert.Equal(t, "1091102", info.MainCNAE)
	assert.Equal(t, "13010000", info.Address.ZipCode)
	assert.Equal(t, "19999990000", info.Phone)
	assert.True(t, info.SimeiOptant)
	require.Len(t, info.SecondaryCNAEs, 1)
	assert.Equal(t, cnpj.SourcePrimary, info.Source)
}

func TestLookup_FallbackCuandoPrimarioFalla(t *testing.T) {
	var primaryCalls atomic.Int32
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		primaryCalls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer primary.Close()
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(receitaBody))
	}))
	defer fallback.Close()

	info, err := newClient(primary.URL+"/%s", fallback.URL+"/v1/cnpj/%s").Lookup(context.Background(), "11222333000181")
	require.NoError(t, err)
	assert.EqualValues(t, 1, primaryCalls.Load())
	assert.Equal(t, cnpj.SourceFallback, info.Source)
	assert.Equal(t, "11222333000181", info.CNPJ)
	assert.Equal(t, "2021-05-10", info.OpeningDate)
	assert.Equal(t, "1091102", info.MainCNAE)
	assert.Empty(t, info.SecondaryCNAEs)
}

func TestLookup_AmbosFallan(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer down.Close()

	_, err := newClient(down.URL+"/%s", down.URL+"/ws/%s").Lookup(context.Background(), "11222333000181")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestLookup_NoEncontrado(t *testing.T) {
	missing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer missing.Close()

	_, err := newClient(missing.URL+"/%s", missing.URL+"/ws/%s").Lookup(context.Background(), "11222333000181")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLookup_ReceitaWSStatusError(t *testing.T) {
	fallback := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ERROR","message":"CNPJ inválido"}`))
	}))
	defer fallback.Close()

	_, err := newClient("", fallback.URL+"/%s").Lookup(context.Background(), "11222333000181")
	require.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "CNPJ inválido")
}
