package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Default values for the agent configuration.
const (
	DefaultServiceName = "calagent"
	DefaultAgentID     = "calendar_agent"
	DefaultAgentName   = "Calendar Agent"
	DefaultHost        = "localhost"
	DefaultPort        = 10001

	// DefaultModelTimeout bounds a single language-model call.
	DefaultModelTimeout = 60 * time.Second

	// DefaultToolTimeout bounds a single tool invocation, including the
	// upstream Google API call behind it.
	DefaultToolTimeout = 30 * time.Second

	// DefaultSessionExpiry is the lifetime of issued session tokens.
	DefaultSessionExpiry = 365 * 24 * time.Hour
)

// AgentDescription is the fixed description advertised on the agent card and
// used as the base of the model's system instruction.
const AgentDescription = "A calendar assistant that retrieves your events and reminders for today"

// Config holds the environment-derived configuration for the agent process.
type Config struct {
	// ServiceName identifies the process in logs and telemetry (SERVICE_NAME).
	ServiceName string

	// AgentID and AgentName appear on the published agent card
	// (AGENT_ID, AGENT_NAME).
	AgentID   string
	AgentName string

	// Host and Port are the bind address for the agent endpoint (HOST, PORT).
	Host string
	Port int

	// AppURL is the externally reachable base URL of the endpoint (APP_URL).
	// Defaults to http://HOST:PORT.
	AppURL string

	// AnthropicAPIKey authenticates model calls (ANTHROPIC_API_KEY).
	AnthropicAPIKey string

	// AnthropicModel optionally overrides the model name (ANTHROPIC_MODEL).
	AnthropicModel string

	// GoogleClientID and GoogleClientSecret are the OAuth client used for
	// Google Calendar and Tasks access (GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET).
	GoogleClientID     string
	GoogleClientSecret string

	// JWTSecret enables bearer session authentication on the agent endpoint
	// when non-empty (JWT_SECRET).
	JWTSecret string

	// SessionExpiry is the lifetime of issued session tokens
	// (SESSION_EXPIRY_SECONDS).
	SessionExpiry time.Duration

	// ModelTimeout and ToolTimeout bound individual model and tool calls
	// (MODEL_TIMEOUT_SECONDS, TOOL_TIMEOUT_SECONDS).
	ModelTimeout time.Duration
	ToolTimeout  time.Duration

	// LogLevel is the slog level name: debug, info, warn, error (LOG_LEVEL).
	LogLevel string
}

// FromEnv builds a Config from environment variables, applying defaults for
// anything unset.
func FromEnv() Config {
	cfg := Config{
		ServiceName:        getEnvOrDefault("SERVICE_NAME", DefaultServiceName),
		AgentID:            getEnvOrDefault("AGENT_ID", DefaultAgentID),
		AgentName:          getEnvOrDefault("AGENT_NAME", DefaultAgentName),
		Host:               getEnvOrDefault("HOST", DefaultHost),
		Port:               getEnvIntOrDefault("PORT", DefaultPort),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:     os.Getenv("ANTHROPIC_MODEL"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		SessionExpiry:      getEnvSecondsOrDefault("SESSION_EXPIRY_SECONDS", DefaultSessionExpiry),
		ModelTimeout:       getEnvSecondsOrDefault("MODEL_TIMEOUT_SECONDS", DefaultModelTimeout),
		ToolTimeout:        getEnvSecondsOrDefault("TOOL_TIMEOUT_SECONDS", DefaultToolTimeout),
		LogLevel:           getEnvOrDefault("LOG_LEVEL", "info"),
	}

	cfg.AppURL = getEnvOrDefault("APP_URL", fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port))

	return cfg
}

// ListenAddr returns the host:port the endpoint binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvIntOrDefault returns the environment variable as an int or a default.
func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvSecondsOrDefault interprets the environment variable as a number of
// seconds, returning a default when unset or unparsable.
func getEnvSecondsOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * time.Second
		}
	}
	return defaultValue
}
