package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Storage.Driver)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 2000, cfg.OpenAI.MaxTokens)
	assert.InDelta(t, 0.3, cfg.OpenAI.Temperature, 1e-9)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, int64(51200), cfg.Upload.MaxFileSize)
	assert.Equal(t, int64(30720), cfg.Upload.CompressionThreshold)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, []string{"http://localhost:*", "https://*"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "9191")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("OPENAI_TEMPERATURE", "1.1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.InDelta(t, 1.1, cfg.OpenAI.Temperature, 1e-9)
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `
server:
  port: 7070
storage:
  driver: memory
openai:
  api_key: "sk-from-yaml"
  max_tokens: 1234
log:
  level: debug
  format: json
`)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "sk-from-yaml", cfg.OpenAI.APIKey)
	assert.Equal(t, 1234, cfg.OpenAI.MaxTokens)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080},
			Storage: StorageConfig{Driver: "memory"},
			Upload:  UploadConfig{MaxFileSize: 100, CompressionThreshold: 50},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Storage.Driver = "redis" }, wantErr: true},
		{name: "postgres without url", mutate: func(c *Config) { c.Storage.Driver = "postgres" }, wantErr: true},
		{name: "threshold above limit", mutate: func(c *Config) { c.Upload.CompressionThreshold = 200 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestWarnings(t *testing.T) {
	cfg := Config{OpenAI: OpenAIConfig{
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		MaxTokens:   2000,
		Temperature: 0.3,
	}}
	assert.Empty(t, cfg.Warnings())

	cfg.OpenAI.APIKey = ""
	assert.Len(t, cfg.Warnings(), 1)

	cfg.OpenAI.APIKey = "pk-wrong"
	cfg.OpenAI.MaxTokens = 50
	cfg.OpenAI.Temperature = 3
	assert.Len(t, cfg.Warnings(), 3)
}
