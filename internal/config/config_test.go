package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xraph/folio/numbering"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvDBDriver, EnvDBDSN, EnvNumbering, EnvAllowOrphans, EnvLogLevel, EnvLogFormat} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "folio.db", cfg.DBDSN)
	assert.Equal(t, numbering.PolicyMonotonic, cfg.Numbering)
	assert.False(t, cfg.AllowOrphans)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvDBDriver, "Postgres")
	t.Setenv(EnvDBDSN, "postgres://folio@localhost/folio")
	t.Setenv(EnvNumbering, "count")
	t.Setenv(EnvAllowOrphans, "true")
	t.Setenv(EnvLogLevel, "DEBUG")
	t.Setenv(EnvLogFormat, "json")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, numbering.PolicyCount, cfg.Numbering)
	assert.True(t, cfg.AllowOrphans)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestFromEnvErrors(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"driver", EnvDBDriver, "oracle"},
		{"numbering", EnvNumbering, "random"},
		{"orphans", EnvAllowOrphans, "sometimes"},
		{"level", EnvLogLevel, "loud"},
		{"format", EnvLogFormat, "xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := Config{LogLevel: "info", LogFormat: "json"}
	log := cfg.Logger(&buf)

	log.Debug("hidden")
	log.Info("shown", slog.String("k", "v"))

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
	assert.False(t, log.Enabled(context.Background(), slog.LevelDebug))
}
