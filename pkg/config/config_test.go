package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/topmei-api/pkg/config"
)

func TestLoad_FallaSinBaseDeDatos(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("JWT_SECRET", "segredo")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestLoad_FallaSinSecretoJWT(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/topmei")
	t.Setenv("JWT_SECRET", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/topmei")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, "postgres://u:p@localhost:5432/topmei", cfg.DB.ConnectionString())
	assert.Equal(t, "notifications.topmei", cfg.NATS.SubjectPrefix)
	assert.Empty(t, cfg.NATS.URL)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss/word", DBName: "topmei", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%2Fword@db:5432/topmei?sslmode=disable", c.DSN())
}

func TestLoad_ClaveDeCertificadoObligatoriaEnProduccion(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/topmei")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("APP_ENV", "production")
	t.Setenv("CERT_ENCRYPTION_KEY", "")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CERT_ENCRYPTION_KEY")

	t.Setenv("CERT_ENCRYPTION_KEY", "chave-de-producao")
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "chave-de-producao", cfg.Security.CertificateKey)
}

func TestLoad_SMTPYRedefinicion(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/topmei")
	t.Setenv("JWT_SECRET", "segredo")
	t.Setenv("APP_ENV", "development")
	t.Setenv("CERT_ENCRYPTION_KEY", "")
	t.Setenv("SMTP_HOST", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, 60, cfg.Reset.TTLMinutes)
	assert.Equal(t, "segredo", cfg.Security.CertificateKey, "fuera de producción deriva del secreto JWT")

	t.Setenv("SMTP_HOST", "smtp.topmei.com.br")
	cfg, err = config.Load()
	require.NoError(t, err)
	assert.True(t, cfg.SMTP.Enabled())
}
