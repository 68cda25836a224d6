package configs_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i2y/msggen/configs"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MSGGEN_CONFIG_FILE", "")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, "doc/schemas", cfg.SchemaDir)
	assert.Equal(t, "contrib/msggen/msggen/schema.json", cfg.BundlePath)
	assert.Equal(t, []string{"lightning-sql.json"}, cfg.ExcludedFiles)
	assert.Equal(t, slog.LevelInfo, cfg.ParsedLogLevel())
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msggen.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
schema_dir: schemas
bundle_path: out/schema.json
excluded_files:
  - lightning-sql.json
  - lightning-sql-template.json
log_level: debug
`), 0o644))

	t.Setenv("MSGGEN_CONFIG_FILE", path)
	t.Setenv("MSGGEN_BUNDLE_PATH", "env/schema.json")

	cfg, err := configs.Load()
	require.NoError(t, err)
	assert.Equal(t, "schemas", cfg.SchemaDir)
	assert.Equal(t, "env/schema.json", cfg.BundlePath)
	assert.Equal(t, []string{"lightning-sql.json", "lightning-sql-template.json"}, cfg.ExcludedFiles)
	assert.Equal(t, slog.LevelDebug, cfg.ParsedLogLevel())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing config file", map[string]string{"MSGGEN_CONFIG_FILE": filepath.Join(t.TempDir(), "absent.yaml")}},
		{"bad log level", map[string]string{"MSGGEN_LOG_LEVEL": "loud"}},
		{"excluded file without extension", map[string]string{"MSGGEN_EXCLUDED_FILES": "lightning-sql"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("MSGGEN_CONFIG_FILE", "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := configs.Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}
