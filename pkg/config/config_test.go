package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tosih/edc15p-tool/pkg/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, models.ASZ, cfg.Engine)
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "edc15p.yaml", `
engine:
  displacement_cm3: 1968
  cylinders: 4
  gas_constant: 287.05
  intake_temp_k: 310
store:
  backend: sqlite
  path: cells.db
logging:
  level: debug
  format: json
calibration:
  tables_file: tables.yaml
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1968.0, cfg.Engine.DisplacementCm3)
	assert.Equal(t, 310.0, cfg.Engine.IntakeTempK)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "tables.yaml"), cfg.Calibration.TablesFile)
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "edc15p.toml", `
[store]
backend = "memory"
path = ""

[server]
port = 9000
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Backend)
	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, models.ASZ, cfg.Engine)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"backend":   "store:\n  backend: redis\n",
		"path":      "store:\n  backend: pebble\n  path: \"\"\n",
		"cylinders": "engine:\n  cylinders: 0\n",
		"level":     "logging:\n  level: loud\n",
		"syntax":    "engine: [",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, "bad.yaml", content))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
