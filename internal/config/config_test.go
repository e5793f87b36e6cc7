package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefaultStore verifies the defaults point at a local mongod
func TestDefaultStore(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "mongo", cfg.Store.Driver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.Store.URI)
	assert.Equal(t, "feedbackLoopDB", cfg.Store.Database)
	assert.False(t, cfg.Registry.UniqueIDs)
	require.NoError(t, cfg.Validate())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_File(t *testing.T) {
	t.Setenv("MONGO_PASSWORD", "s3cret")
	path := writeConfig(t, `
store:
  uri: mongodb://app:$MONGO_PASSWORD@db:27017
  database: feedback
  op_timeout: 3s
registry:
  unique_ids: true
ui:
  mode: picker
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mongodb://app:s3cret@db:27017", cfg.Store.URI)
	assert.Equal(t, "feedback", cfg.Store.Database)
	assert.Equal(t, 3*time.Second, cfg.Store.OpTimeout)
	assert.Equal(t, 3, cfg.Store.ConnectRetries)
	assert.True(t, cfg.Registry.UniqueIDs)
	assert.Equal(t, "picker", cfg.UI.Mode)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("FEEDBACKLOOP_STORE_DRIVER", "memory")
	t.Setenv("FEEDBACKLOOP_REGISTRY_UNIQUE_IDS", "true")
	path := writeConfig(t, "log:\n  format: json\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.True(t, cfg.Registry.UniqueIDs)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"bad driver", func(c *Config) { c.Store.Driver = "sqlite" }, "store.driver"},
		{"bad uri", func(c *Config) { c.Store.URI = "http://localhost" }, "store.uri"},
		{"no database", func(c *Config) { c.Store.Database = "" }, "store.database"},
		{"bad mode", func(c *Config) { c.UI.Mode = "gui" }, "ui.mode"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"memory needs no uri", func(c *Config) { c.Store.Driver = "memory"; c.Store.URI = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidate_NormalizesNumbers(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Store.ConnectRetries = -2
	cfg.Store.OpTimeout = 0
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0, cfg.Store.ConnectRetries)
	assert.Equal(t, 10*time.Second, cfg.Store.OpTimeout)
}
