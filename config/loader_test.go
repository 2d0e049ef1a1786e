package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "file", cfg.Records.Backend)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 10000, cfg.Guard.MaxInputLength)
	assert.Equal(t, 5000, cfg.Guard.MaxOutputLength)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  http_port: 9000
  rate_limit_rps: 25.5
records:
  backend: sqlite
  dsn: leakguard.db
guard:
  max_input_length: 2000
  custom_patterns:
    - secret\s+handshake
log:
  level: debug
  format: console
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.HTTPPort)
	assert.Equal(t, 25.5, cfg.Server.RateLimitRPS)
	assert.Equal(t, "sqlite", cfg.Records.Backend)
	assert.Equal(t, "leakguard.db", cfg.Records.DSN)
	assert.Equal(t, 2000, cfg.Guard.MaxInputLength)
	assert.Equal(t, []string{`secret\s+handshake`}, cfg.Guard.CustomPatterns)
	assert.Equal(t, "debug", cfg.Log.Level)

	// Untouched sections keep their defaults.
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, 5000, cfg.Guard.MaxOutputLength)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().
		WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).
		Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.HTTPPort)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o600))

	_, err := NewLoader().WithConfigPath(path).Load()
	assert.ErrorContains(t, err, "load config file")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LEAKGUARD_SERVER_HTTP_PORT", "7777")
	t.Setenv("LEAKGUARD_SERVER_READ_TIMEOUT", "45s")
	t.Setenv("LEAKGUARD_SERVER_RATE_LIMIT_RPS", "12.5")
	t.Setenv("LEAKGUARD_REDIS_ENABLED", "true")
	t.Setenv("LEAKGUARD_RECORDS_BACKEND", "postgres")
	t.Setenv("LEAKGUARD_LOG_OUTPUT_PATHS", "stdout, /var/log/leakguard.log")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.HTTPPort)
	assert.Equal(t, 45*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 12.5, cfg.Server.RateLimitRPS)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "postgres", cfg.Records.Backend)
	assert.Equal(t, []string{"stdout", "/var/log/leakguard.log"}, cfg.Log.OutputPaths)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  http_port: 9000\n"), 0o600))
	t.Setenv("LEAKGUARD_SERVER_HTTP_PORT", "7777")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)
	assert.Equal(t, 7777, cfg.Server.HTTPPort)
}

func TestLoad_CustomEnvPrefix(t *testing.T) {
	t.Setenv("LG_SERVER_HTTP_PORT", "6666")

	cfg, err := NewLoader().WithEnvPrefix("LG").Load()
	require.NoError(t, err)
	assert.Equal(t, 6666, cfg.Server.HTTPPort)
}

func TestLoad_InvalidEnvValue(t *testing.T) {
	t.Setenv("LEAKGUARD_SERVER_HTTP_PORT", "not-a-number")

	_, err := NewLoader().Load()
	assert.ErrorContains(t, err, "LEAKGUARD_SERVER_HTTP_PORT")
}

func TestLoad_ValidatorHook(t *testing.T) {
	fail := errors.New("port out of range")

	_, err := NewLoader().
		WithValidator(func(c *Config) error {
			if c.Server.HTTPPort < 1024 {
				return nil
			}
			return fail
		}).
		Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, fail)
}
