package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, DefaultServiceName, cfg.ServiceName)
	assert.Equal(t, DefaultAgentID, cfg.AgentID)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, "http://localhost:10001", cfg.AppURL)
	assert.Equal(t, DefaultModelTimeout, cfg.ModelTimeout)
	assert.Equal(t, DefaultToolTimeout, cfg.ToolTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("SERVICE_NAME", "calagent-test")
	t.Setenv("HOST", "0.0.0.0")
	t.Setenv("PORT", "8083")
	t.Setenv("MODEL_TIMEOUT_SECONDS", "5")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := FromEnv()

	assert.Equal(t, "calagent-test", cfg.ServiceName)
	assert.Equal(t, "0.0.0.0:8083", cfg.ListenAddr())
	assert.Equal(t, "http://0.0.0.0:8083", cfg.AppURL)
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
}

func TestFromEnv_AppURLOverride(t *testing.T) {
	t.Setenv("APP_URL", "https://agent.example.com")

	cfg := FromEnv()
	assert.Equal(t, "https://agent.example.com", cfg.AppURL)
}

func TestFromEnv_InvalidPortFallsBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, DefaultPort, cfg.Port)
}
