package certificate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/internal/infrastructure/certificate"
)

func TestInspect_Vazio(t *testing.T) {
	_, err := certificate.NewPKCS12Inspector().Inspect(nil, "senha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vazio")
}

func TestInspect_ConteudoInvalido(t *testing.T) {
	_, err := certificate.NewPKCS12Inspector().Inspect([]byte("isto não é um pfx"), "senha")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decodificar p12")
}
