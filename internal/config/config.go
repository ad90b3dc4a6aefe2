// Package config loads the service configuration from a config file and the environment.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/code-sentry/internal/logger"
)

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	GitHub   GitHubConfig   `mapstructure:"github"`
	AI       AIConfig       `mapstructure:"ai"`
	Database DBConfig       `mapstructure:"database"`
	Logging  logger.Config  `mapstructure:"logging"`
	Workflow WorkflowConfig `mapstructure:"workflow"`
	Crawler  CrawlerConfig  `mapstructure:"crawler"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port string `mapstructure:"port"`
	// BaseURL is the public URL of the service, used to build the webhook callback URL.
	BaseURL string `mapstructure:"base_url"`
}

// GitHubConfig configures access to GitHub.
type GitHubConfig struct {
	// APIURL overrides the REST API root for GitHub Enterprise. Empty means github.com.
	APIURL         string `mapstructure:"api_url"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	AppID          int64  `mapstructure:"app_id"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
}

// AIConfig configures the generation and context-retrieval collaborators.
type AIConfig struct {
	LLMProvider      string `mapstructure:"llm_provider"`
	GeneratorModel   string `mapstructure:"generator_model"`
	EmbedderProvider string `mapstructure:"embedder_provider"`
	EmbedderModel    string `mapstructure:"embedder_model"`
	GeminiAPIKey     string `mapstructure:"gemini_api_key"`
	OllamaHost       string `mapstructure:"ollama_host"`
	QdrantHost       string `mapstructure:"qdrant_host"`
	ContextDocuments int    `mapstructure:"context_documents"`
}

// DBConfig configures the postgres connection.
type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// WorkflowConfig configures the review pipeline engine.
type WorkflowConfig struct {
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	MaxWorkers      int           `mapstructure:"max_workers"`
	QueueSize       int           `mapstructure:"queue_size"`
	MaxAttempts     int           `mapstructure:"max_attempts"`
	InitialBackoff  time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff      time.Duration `mapstructure:"max_backoff"`
	RecoveryEvery   time.Duration `mapstructure:"recovery_interval"`
	RecoveryStaleAt time.Duration `mapstructure:"recovery_stale_after"`
}

// CrawlerConfig configures the repository content crawler.
type CrawlerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// WebhookCallbackURL returns the URL GitHub delivers webhooks to.
func (c *Config) WebhookCallbackURL() string {
	return strings.TrimRight(c.Server.BaseURL, "/") + "/api/v1/webhook/github"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("github.private_key_path", "keys/code-sentry.private-key.pem")

	v.SetDefault("ai.llm_provider", "gemini")
	v.SetDefault("ai.generator_model", "gemini-2.5-flash")
	v.SetDefault("ai.embedder_provider", "ollama")
	v.SetDefault("ai.embedder_model", "nomic-embed-text")
	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.qdrant_host", "localhost:6334")
	v.SetDefault("ai.context_documents", 5)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "postgres")
	v.SetDefault("database.database", "codesentry")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("database.conn_max_idle_time", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")

	v.SetDefault("workflow.max_concurrency", 5)
	v.SetDefault("workflow.max_workers", 5)
	v.SetDefault("workflow.queue_size", 100)
	v.SetDefault("workflow.max_attempts", 4)
	v.SetDefault("workflow.initial_backoff", time.Second)
	v.SetDefault("workflow.max_backoff", 30*time.Second)
	v.SetDefault("workflow.recovery_interval", time.Minute)
	v.SetDefault("workflow.recovery_stale_after", 10*time.Minute)

	v.SetDefault("crawler.concurrency", 4)
}

// LoadConfig reads configuration from an optional config.yaml and from environment
// variables prefixed with CS_ (nested keys use underscores, e.g. CS_SERVER_PORT),
// sets sensible defaults, and validates required fields.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/code-sentry")

	v.SetEnvPrefix("CS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	for _, key := range []string{"github.webhook_secret", "github.app_id", "ai.gemini_api_key", "database.password"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		slog.Debug("no config file found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values LoadConfig cannot default.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server.port must be set")
	}
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server.base_url must be an absolute URL, got %q", c.Server.BaseURL)
	}
	switch c.AI.LLMProvider {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("ai.gemini_api_key must be set for the gemini provider")
		}
	case "ollama":
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.AI.LLMProvider)
	}
	if c.AI.GeneratorModel == "" {
		return fmt.Errorf("ai.generator_model must be set")
	}
	if c.Workflow.MaxConcurrency <= 0 {
		return fmt.Errorf("workflow.max_concurrency must be positive, got %d", c.Workflow.MaxConcurrency)
	}
	if c.Workflow.MaxAttempts <= 0 {
		return fmt.Errorf("workflow.max_attempts must be positive, got %d", c.Workflow.MaxAttempts)
	}
	return nil
}
