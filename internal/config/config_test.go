package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/sous/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
service:
  port: 8080
  default_language: en
  default_mode: delivery
chat:
  reply_delay: 50ms
lifecycle:
  cooking_after: 2s
database:
  enabled: true
  host: db
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Service.Port)
	assert.Equal(t, domain.LanguageEN, cfg.Service.Language())
	assert.Equal(t, domain.OrderModeDelivery, cfg.Service.Mode())
	assert.Equal(t, 50*time.Millisecond, cfg.Chat.ReplyDelay)
	assert.Equal(t, 2*time.Second, cfg.Lifecycle.CookingAfter)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "db", cfg.Database.Host)

	// untouched keys keep their defaults
	assert.Equal(t, 12*time.Second, cfg.Lifecycle.ReadyAfter)
	assert.Equal(t, 4, cfg.Chat.RecommendationCount)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "service:\n  port: 8080\n")

	t.Setenv("SOUS_SERVICE_PORT", "9090")
	t.Setenv("SOUS_SERVICE_LOG_LEVEL", "debug")
	t.Setenv("SOUS_RABBITMQ_ENABLED", "true")
	t.Setenv("SOUS_LIFECYCLE_READY_AFTER", "3s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Service.Port)
	assert.Equal(t, "debug", cfg.Service.LogLevel)
	assert.True(t, cfg.RabbitMQ.Enabled)
	assert.Equal(t, 3*time.Second, cfg.Lifecycle.ReadyAfter)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "bad yaml", body: "service: [\n"},
		{name: "unknown language", body: "service:\n  default_language: de\n"},
		{name: "unknown mode", body: "service:\n  default_mode: drive-thru\n"},
		{name: "zero lifecycle delay", body: "lifecycle:\n  cooking_after: 0s\n"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, testCase.body))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}
