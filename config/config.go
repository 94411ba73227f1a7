package config

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends selectable via CONVERSATION_STORE.
const (
	StoreBackendMemory   = "memory"
	StoreBackendRedis    = "redis"
	StoreBackendPostgres = "postgres"
)

// defaultIgnoredSubtypes is the message-subtype noise dropped before
// processing. The set is configurable because the "correct" set is ambiguous:
// notably, thread_broadcast is deliberately NOT ignored.
const defaultIgnoredSubtypes = "bot_message,message_changed,message_deleted"

type SlackConfig struct {
	BotToken        string
	SigningSecret   string
	AllowRetry      bool
	IgnoredSubtypes []string
	AlertWebhookURL string
}

// IsConfigured returns true if all required Slack configuration is present
func (c SlackConfig) IsConfigured() bool {
	return c.BotToken != "" && c.SigningSecret != ""
	// Note: AlertWebhookURL is optional
}

type DifyConfig struct {
	BaseURL string
	APIKey  string
}

// IsConfigured returns true if all required Dify configuration is present
func (c DifyConfig) IsConfigured() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

type StoreConfig struct {
	Backend        string
	RedisURL       string
	DatabaseURL    string
	DatabaseSchema string
}

// IsConfigured returns true if the selected backend has what it needs
func (c StoreConfig) IsConfigured() bool {
	switch c.Backend {
	case StoreBackendMemory:
		return true
	case StoreBackendRedis:
		return c.RedisURL != ""
	case StoreBackendPostgres:
		return c.DatabaseURL != "" && c.DatabaseSchema != ""
	default:
		return false
	}
}

type AppConfig struct {
	Port               string // Optional with default "8080"
	CORSAllowedOrigins string // Optional with default "*"
	Environment        string

	SlackConfig SlackConfig
	DifyConfig  DifyConfig
	StoreConfig StoreConfig
}

func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		fmt.Println("⚠️ Could not load .env file, continuing with system env vars")
	}

	config := &AppConfig{
		Port:               getEnvWithDefault("PORT", "8080"),
		CORSAllowedOrigins: getEnvWithDefault("CORS_ALLOWED_ORIGINS", "*"),
		Environment:        getEnvWithDefault("ENVIRONMENT", "dev"),

		SlackConfig: SlackConfig{
			BotToken:        os.Getenv("SLACK_BOT_TOKEN"),
			SigningSecret:   os.Getenv("SLACK_SIGNING_SECRET"),
			AllowRetry:      getEnvWithDefault("SLACK_ALLOW_RETRY", "false") == "true",
			IgnoredSubtypes: splitList(getEnvWithDefault("SLACK_IGNORED_SUBTYPES", defaultIgnoredSubtypes)),
			AlertWebhookURL: os.Getenv("SLACK_ALERT_WEBHOOK_URL"),
		},

		DifyConfig: DifyConfig{
			BaseURL: getEnvWithDefault("DIFY_BASE_URL", "https://api.dify.ai/v1"),
			APIKey:  os.Getenv("DIFY_API_KEY"),
		},

		StoreConfig: StoreConfig{
			Backend:        getEnvWithDefault("CONVERSATION_STORE", StoreBackendMemory),
			RedisURL:       os.Getenv("REDIS_URL"),
			DatabaseURL:    os.Getenv("DB_URL"),
			DatabaseSchema: getEnvWithDefault("DB_SCHEMA", "public"),
		},
	}

	if !config.SlackConfig.IsConfigured() {
		return nil, fmt.Errorf("slack integration is not fully configured (SLACK_BOT_TOKEN, SLACK_SIGNING_SECRET)")
	}
	log.Printf("✅ Slack integration configured")

	if !config.DifyConfig.IsConfigured() {
		return nil, fmt.Errorf("dify backend is not fully configured (DIFY_BASE_URL, DIFY_API_KEY)")
	}
	log.Printf("✅ Dify backend configured")

	if !config.StoreConfig.IsConfigured() {
		return nil, fmt.Errorf("conversation store %q is not fully configured", config.StoreConfig.Backend)
	}
	log.Printf("✅ Conversation store configured (backend: %s)", config.StoreConfig.Backend)

	return config, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
