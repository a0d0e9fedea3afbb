package secret_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/pkg/secret"
)

func TestBox_SelaEAbre(t *testing.T) {
	box, err := secret.NewBox("chave-de-teste")
	require.NoError(t, err)

	sealed, err := box.Seal("senha-do-certificado")
	require.NoError(t, err)
	assert.True(t, secret.Sealed(sealed))
	assert.NotContains(t, sealed, "senha-do-certificado")

	other, err := box.Seal("senha-do-certificado")
	require.NoError(t, err)
	assert.NotEqual(t, sealed, other, "nonce aleatório")

	plain, err := box.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "senha-do-certificado", plain)
}

func TestBox_ChaveErradaOuCorrompido(t *testing.T) {
	box, err := secret.NewBox("chave-a")
	require.NoError(t, err)
	sealed, err := box.Seal("1234")
	require.NoError(t, err)

	outra, err := secret.NewBox("chave-b")
	require.NoError(t, err)
	_, err = outra.Open(sealed)
	assert.ErrorIs(t, err, secret.ErrDecrypt)

	_, err = box.Open(sealed[:len(sealed)-4] + "AAAA")
	assert.ErrorIs(t, err, secret.ErrDecrypt)
	_, err = box.Open("v1:%%%")
	assert.ErrorIs(t, err, secret.ErrDecrypt)
	_, err = box.Open("v1:" + strings.Repeat("A", 8))
	assert.ErrorIs(t, err, secret.ErrDecrypt)
}

func TestBox_ValorLegadoSemPrefixo(t *testing.T) {
	box, err := secret.NewBox("chave")
	require.NoError(t, err)
	plain, err := box.Open("1234")
	require.NoError(t, err)
	assert.Equal(t, "1234", plain)
}

func TestNewBox_ChaveVazia(t *testing.T) {
	_, err := secret.NewBox("")
	assert.Error(t, err)
}
