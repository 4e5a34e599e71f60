package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Defaults(), cfg)
	assert.Equal(t, "age", cfg.Graph.Backend)
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestLoadFile_YAMLThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agegraph.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http:
  port: 9090
  read_timeout: 3s
  allowed_origins: ["http://localhost:3000"]
graph:
  backend: bolt
  uri: bolt://localhost:7687
  name: people
  load_from_plugins: true
logging:
  format: json
`), 0o600))

	t.Setenv("GRAPH_URI", "bolt://graph:7687")
	t.Setenv("SERVER_WRITE_TIMEOUT", "45s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 45*time.Second, cfg.HTTP.WriteTimeout)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "bolt", cfg.Graph.Backend)
	assert.Equal(t, "bolt://graph:7687", cfg.Graph.URI)
	assert.Equal(t, "people", cfg.Graph.Name)
	assert.True(t, cfg.Graph.LoadFromPlugins)
	assert.Equal(t, defaultGraphMaxSessions, cfg.Graph.MaxConnections)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv("SERVER_PORT", "8181")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("GRAPH_MAX_CONNECTIONS", "25")
	t.Setenv("GRAPH_LOAD_FROM_PLUGINS", "true")
	t.Setenv("GRAPH_SEARCH_PATH", "ag_catalog, public")
	t.Setenv("GRAPH_COLUMN_TYPE", "graphvalue")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8181, cfg.HTTP.Port)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, 25, cfg.Graph.MaxConnections)
	assert.True(t, cfg.Graph.LoadFromPlugins)
	assert.Equal(t, "ag_catalog, public", cfg.Graph.SearchPath)
	assert.Equal(t, "graphvalue", cfg.Graph.ColumnType)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]map[string]string{
		"bad port":        {"SERVER_PORT": "http"},
		"port range":      {"SERVER_PORT": "70000"},
		"bad duration":    {"SERVER_READ_TIMEOUT": "soon"},
		"unknown backend": {"GRAPH_BACKEND": "gremlin"},
		"missing file":    {EnvConfigFile: "/nonexistent/agegraph.yaml"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(EnvConfigFile, "")
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http: [unterminated"), 0o600))

	_, err := LoadFile(path)
	assert.ErrorContains(t, err, "parse config file")
}
