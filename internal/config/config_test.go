package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setBase(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("PAYU_MERCHANT_KEY", "gtKFFx")
	t.Setenv("PAYU_MERCHANT_SALT", "eCwWELxi")
	t.Setenv("PAYU_MODE", "")
	t.Setenv("AWS_USE_SECRETS", "")
	t.Setenv("CATALOG_CACHE_TTL", "")
	t.Setenv("FRONTEND_URL", "")
	t.Setenv("BACKEND_URL", "")
}

func TestLoadDefaults(t *testing.T) {
	setBase(t)
	t.Setenv("FRONTEND_URL", "https://shop.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "test", cfg.PayUMode)
	assert.Equal(t, "https://shop.example.com", cfg.FrontendURL)
	assert.Equal(t, "http://localhost:8000", cfg.BackendURL)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.False(t, cfg.UseAWSSecrets)
}

func TestLoadRequiresSecrets(t *testing.T) {
	setBase(t)
	t.Setenv("JWT_SECRET", "")
	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")

	setBase(t)
	t.Setenv("PAYU_MERCHANT_SALT", "")
	_, err = Load()
	assert.ErrorContains(t, err, "PAYU_MERCHANT_SALT")
}

func TestLoadValidatesValues(t *testing.T) {
	setBase(t)
	t.Setenv("PAYU_MODE", "sandbox")
	_, err := Load()
	assert.ErrorContains(t, err, "PAYU_MODE")

	setBase(t)
	t.Setenv("CATALOG_CACHE_TTL", "soon")
	_, err = Load()
	assert.ErrorContains(t, err, "CATALOG_CACHE_TTL")

	setBase(t)
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.CatalogCacheTTL)
}
