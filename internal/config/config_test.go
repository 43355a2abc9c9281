package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProductionConfig() *Config {
	return &Config{
		JWTSecret:      "a-very-long-production-secret-key-0123456789",
		Port:           "8460",
		DBPassword:     "str0ng-and-un1que",
		DBSSLMode:      "require",
		AllowedOrigins: "https://app.example.com",
		Env:            "production",
	}
}

func TestValidate_Production(t *testing.T) {
	require.NoError(t, validProductionConfig().Validate())
}

func TestValidate_ProductionRejectsDefaultSecret(t *testing.T) {
	cfg := validProductionConfig()
	cfg.JWTSecret = "your-secret-key-change-in-production"
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionRejectsShortSecret(t *testing.T) {
	cfg := validProductionConfig()
	cfg.JWTSecret = "short"
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionRejectsWeakDBPassword(t *testing.T) {
	cfg := validProductionConfig()
	cfg.DBPassword = "password"
	assert.Error(t, cfg.Validate())

	cfg.DBPassword = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_ProductionRejectsDevBootstrap(t *testing.T) {
	cfg := validProductionConfig()
	cfg.DevBootstrapRoot = true
	cfg.DevRootPassword = "whatever"
	assert.Error(t, cfg.Validate())
}

func TestValidate_RequiredFields(t *testing.T) {
	cfg := &Config{JWTSecret: "secret", Env: "development"}
	assert.Error(t, cfg.Validate(), "missing port")

	cfg = &Config{Port: "8460", Env: "development"}
	assert.Error(t, cfg.Validate(), "missing secret")
}

func TestValidate_DevBootstrapNeedsPassword(t *testing.T) {
	cfg := &Config{
		JWTSecret:        "dev-secret",
		Port:             "8460",
		Env:              "development",
		DevBootstrapRoot: true,
	}
	assert.Error(t, cfg.Validate())

	cfg.DevRootPassword = "bootstrap-secret"
	assert.NoError(t, cfg.Validate())
}
