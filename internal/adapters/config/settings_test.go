package config_test

import (
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sweep/internal/adapters/config"
	"go.trai.ch/sweep/internal/core/domain"
)

func unsetSettingsEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ROOT", "WORKERS", "POLICY", "LOG_LEVEL", "LOG_FORMAT", "METRICS_PATH"} {
		t.Setenv(config.EnvPrefix+key, "")
		require.NoError(t, os.Unsetenv(config.EnvPrefix+key))
	}
}

func TestLoadSettings_Defaults(t *testing.T) {
	unsetSettingsEnv(t)

	s, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultSettings(), *s)
	assert.Equal(t, domain.PolicyUseExisting, s.Policy())
}

func TestLoadSettings_EnvOverrides(t *testing.T) {
	unsetSettingsEnv(t)
	t.Setenv("SWEEP_ROOT", "/data/store")
	t.Setenv("SWEEP_WORKERS", "8")
	t.Setenv("SWEEP_POLICY", "run_again")
	t.Setenv("SWEEP_LOG_LEVEL", "debug")
	t.Setenv("SWEEP_LOG_FORMAT", "json")
	t.Setenv("SWEEP_METRICS_PATH", "/tmp/sweep.prom")

	s, err := config.LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "/data/store", s.Root)
	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, domain.PolicyRunAgain, s.Policy())
	assert.Equal(t, config.FormatJSON, s.LogFormat)
	assert.Equal(t, "/tmp/sweep.prom", s.MetricsPath)

	level, err := s.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoadSettings_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero workers", key: "SWEEP_WORKERS", value: "0"},
		{name: "unknown policy", key: "SWEEP_POLICY", value: "sometimes"},
		{name: "unknown level", key: "SWEEP_LOG_LEVEL", value: "loud"},
		{name: "unknown format", key: "SWEEP_LOG_FORMAT", value: "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unsetSettingsEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := config.LoadSettings()
			require.Error(t, err)
		})
	}
}

func TestSettings_Validate(t *testing.T) {
	t.Parallel()
	s := config.DefaultSettings()
	require.NoError(t, s.Validate())

	s.Root = ""
	require.ErrorIs(t, s.Validate(), domain.ErrSettingsLoadFailed)
}
