package config

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "riskuq/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RISKUQ_WORKERS", "")
	t.Setenv("RISKUQ_LOG_LEVEL", "")
	t.Setenv("RISKUQ_DATA_DIR", "")
	t.Setenv("RISKUQ_DATABASE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Empty(t, cfg.DatabaseURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RISKUQ_WORKERS", "12")
	t.Setenv("RISKUQ_LOG_LEVEL", "debug")
	t.Setenv("RISKUQ_DATA_DIR", "/var/lib/riskuq")
	t.Setenv("RISKUQ_DATABASE_URL", "postgres://localhost/riskuq?sslmode=disable")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/riskuq", cfg.DataDir)
	assert.Equal(t, "postgres://localhost/riskuq?sslmode=disable", cfg.DatabaseURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"zero workers", "RISKUQ_WORKERS", "0"},
		{"negative workers", "RISKUQ_WORKERS", "-3"},
		{"bad log level", "RISKUQ_LOG_LEVEL", "loud"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(test.key, test.value)
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
		})
	}
}

func TestLoadIgnoresUnparsableWorkers(t *testing.T) {
	t.Setenv("RISKUQ_WORKERS", "many")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, runtime.NumCPU(), cfg.Workers)
}
