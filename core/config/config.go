package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"mindora.app/gateway/core/db"
)

type Config struct {
	Env        string `env:"GATEWAY_ENV" envDefault:"development"`
	Port       string `env:"PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL"` // debug, info, warn or error
	OTel       OTelConfig
	DB         db.Config
	Mail       MailConfig
	Completion CompletionConfig
	Storage    StorageConfig
}

type OTelConfig struct {
	Endpoint       string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	Headers        string  `env:"OTEL_EXPORTER_OTLP_HEADERS"`
	ServiceName    string  `env:"OTEL_SERVICE_NAME" envDefault:"gateway"`
	ServiceVersion string  `env:"OTEL_SERVICE_VERSION" envDefault:"dev"`
	SampleRatio    float64 `env:"OTEL_TRACES_SAMPLE_RATIO" envDefault:"1"`
}

// MailConfig describes the SMTP account notifications are relayed through.
// Username doubles as the sender address.
type MailConfig struct {
	Host       string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port       int           `env:"SMTP_PORT" envDefault:"587"`
	Username   string        `env:"EMAIL_USER"`
	Password   string        `env:"EMAIL_PASS"`
	FromName   string        `env:"MAIL_FROM_NAME" envDefault:"Contact Form"`
	AdminEmail string        `env:"ADMIN_EMAIL"`
	Timeout    time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
}

type CompletionConfig struct {
	Provider   string        `env:"COMPLETION_PROVIDER" envDefault:"anthropic"` // "anthropic" or "openai"
	APIKey     string        `env:"COMPLETION_API_KEY"`
	BaseURL    string        `env:"COMPLETION_BASE_URL"`
	Model      string        `env:"COMPLETION_MODEL"` // empty selects the provider's default
	MaxTokens  int           `env:"COMPLETION_MAX_TOKENS" envDefault:"500"`
	APIVersion string        `env:"COMPLETION_API_VERSION" envDefault:"2023-06-01"`
	Timeout    time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`
}

type StorageConfig struct {
	URL                string        `env:"STORAGE_URL"`
	ServiceKey         string        `env:"STORAGE_SERVICE_KEY"`
	Bucket             string        `env:"STORAGE_BUCKET" envDefault:"short-notes"`
	PublicPath         string        `env:"STORAGE_PUBLIC_PATH" envDefault:"/storage/v1/object/public/"`
	DefaultFilename    string        `env:"UPLOAD_DEFAULT_FILENAME" envDefault:"uploaded.pdf"`
	DefaultContentType string        `env:"UPLOAD_DEFAULT_CONTENT_TYPE" envDefault:"application/pdf"`
	MaxUploadBytes     int64         `env:"UPLOAD_MAX_BYTES" envDefault:"52428800"`
	Timeout            time.Duration `env:"STORAGE_TIMEOUT" envDefault:"60s"`
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
)

// Load loads configuration from environment variables.
// In development, it loads from .env.<service> and falls back to .env.
// Missing collaborator credentials are not an error here: the affected
// endpoint reports a configuration error when it is called.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("GATEWAY_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	switch cfg.Completion.Provider {
	case "anthropic", "openai":
	default:
		return Config{}, fmt.Errorf("COMPLETION_PROVIDER must be anthropic or openai, got %q", cfg.Completion.Provider)
	}

	if cfg.Storage.MaxUploadBytes <= 0 {
		return Config{}, fmt.Errorf("UPLOAD_MAX_BYTES must be positive")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.Username != "" && c.Password != "" && c.AdminEmail != ""
}

func (c CompletionConfig) Enabled() bool {
	return c.APIKey != ""
}

func (c StorageConfig) Enabled() bool {
	return c.URL != "" && c.ServiceKey != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
