package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "taskflow_audit.db", cfg.Database.DSN)
	assert.Equal(t, "taskflow", cfg.Metrics.Namespace)
}

func TestLoader_YAMLOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
database:
  driver: postgres
  dsn: host=localhost dbname=audit
`)

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format, "untouched keys keep their defaults")
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "host=localhost dbname=audit", cfg.Database.DSN)
}

func TestLoader_EnvOverridesYAML(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
`)
	t.Setenv("TASKFLOW_LOG_LEVEL", "error")
	t.Setenv("TASKFLOW_METRICS_NAMESPACE", "audit_test")

	cfg, err := NewLoader().WithConfigPath(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "audit_test", cfg.Metrics.Namespace)
}

func TestLoader_CustomEnvPrefix(t *testing.T) {
	t.Setenv("MYAPP_DATABASE_DSN", "custom.db")
	t.Setenv("TASKFLOW_DATABASE_DSN", "ignored.db")

	cfg, err := NewLoader().WithEnvPrefix("MYAPP").Load()
	require.NoError(t, err)
	assert.Equal(t, "custom.db", cfg.Database.DSN)
}

func TestLoader_MissingFileFails(t *testing.T) {
	_, err := NewLoader().WithConfigPath(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}

func TestLoader_ValidationRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown driver", "database:\n  driver: oracle\n"},
		{"unknown log format", "log:\n  format: xml\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().WithConfigPath(writeConfig(t, tt.body)).Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "unsupported")
		})
	}
}
