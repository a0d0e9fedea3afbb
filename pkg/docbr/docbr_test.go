package docbr_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/topmei-api/pkg/docbr"
)

func TestValidateCNPJ(t *testing.T) {
	assert.NoError(t, docbr.ValidateCNPJ("11.222.333/0001-81"))
	assert.NoError(t, docbr.ValidateCNPJ("11444777000161"))
	assert.Error(t, docbr.ValidateCNPJ("11.222.333/0001-82"), "dígito errado")
	assert.Error(t, docbr.ValidateCNPJ("1122233300018"), "13 dígitos")
	assert.Error(t, docbr.ValidateCNPJ("00000000000000"), "repetidos")
}

func TestValidateCPF(t *testing.T) {
	assert.NoError(t, docbr.ValidateCPF("529.982.247-25"))
	assert.Error(t, docbr.ValidateCPF("529.982.247-26"))
	assert.Error(t, docbr.ValidateCPF("111.111.111-11"))
	assert.Error(t, docbr.ValidateCPF("5299822472"))
}

func TestValidateCPFOrCNPJ(t *testing.T) {
	assert.NoError(t, docbr.ValidateCPFOrCNPJ("52998224725"))
	assert.NoError(t, docbr.ValidateCPFOrCNPJ("11222333000181"))
	assert.Error(t, docbr.ValidateCPFOrCNPJ("123"))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "11.222.333/0001-81", docbr.FormatCNPJ("11222333000181"))
	assert.Equal(t, "529.982.247-25", docbr.FormatCPF("52998224725"))
	assert.Equal(t, "abc", docbr.FormatCNPJ("abc"))
	assert.Equal(t, "11222333000181", docbr.Normalize("11.222.333/0001-81"))
}

func TestCheckFormat(t *testing.T) {
	assert.NoError(t, docbr.CheckCNPJFormat("12.345.678/0001-99"))
	assert.Error(t, docbr.ValidateCNPJ("12.345.678/0001-99"))
	assert.Error(t, docbr.CheckCNPJFormat("12.345.678/0001"))
	assert.NoError(t, docbr.CheckCPFFormat("123.456.789-00"))
	assert.Error(t, docbr.CheckCPFFormat("123"))
}
