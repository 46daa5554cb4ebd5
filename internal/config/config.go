package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds the environment driven configuration for the file sharing service.
type Config struct {
	// Service Configuration
	ServiceName     string        `env:"SERVICE_NAME" envDefault:"pinshare"`
	Environment     string        `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort        int           `env:"PINSHARE_PORT" envDefault:"5000"`
	LogLevel        string        `env:"PINSHARE_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"PINSHARE_LOG_FORMAT" envDefault:"console"`
	EnableTracing   bool          `env:"ENABLE_TRACING" envDefault:"false"`
	OTLPEndpoint    string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	// Database
	DatabaseURL    string        `env:"DATABASE_URL,notEmpty"`
	DBMaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	DBMaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"15"`
	DBConnLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`

	// Auth
	JWTSecret string        `env:"JWT_SECRET,notEmpty"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// Pinning Service
	PinataAPIKey     string        `env:"PINATA_API_KEY"`
	PinataSecretKey  string        `env:"PINATA_SECRET_KEY"`
	PinataBaseURL    string        `env:"PINATA_BASE_URL" envDefault:"https://api.pinata.cloud"`
	PinataGatewayURL string        `env:"PINATA_GATEWAY_URL" envDefault:"https://gateway.pinata.cloud"`
	PinTimeout       time.Duration `env:"PIN_TIMEOUT" envDefault:"60s"`

	// Upload Pipeline
	StagingDir          string `env:"STAGING_DIR" envDefault:"uploads"`
	MaxUploadBytes      int64  `env:"MAX_UPLOAD_BYTES" envDefault:"10485760"`
	CompressionEnabled  bool   `env:"COMPRESSION_ENABLED" envDefault:"true"`
	CompressionMinBytes int64  `env:"COMPRESSION_MIN_BYTES" envDefault:"1048576"`
	ImageQuality        int    `env:"COMPRESSION_IMAGE_QUALITY" envDefault:"80"`

	// Retention
	RetentionDays      int    `env:"RETENTION_DAYS" envDefault:"7"`
	RetentionSchedule  string `env:"RETENTION_SCHEDULE" envDefault:"0 3 * * *"`
	PublicListingLimit int    `env:"PUBLIC_LISTING_LIMIT" envDefault:"50"`

	// HTTP
	RateLimitPerMinute float64 `env:"RATE_LIMIT_PER_MINUTE" envDefault:"100"`
	FrontendURL        string  `env:"FRONTEND_URL" envDefault:"http://localhost:3000"`
}

// Load parses environment variables into Config.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env config: %w", err)
	}

	cfg.PinataAPIKey = strings.TrimSpace(cfg.PinataAPIKey)
	cfg.PinataSecretKey = strings.TrimSpace(cfg.PinataSecretKey)
	cfg.PinataBaseURL = strings.TrimRight(strings.TrimSpace(cfg.PinataBaseURL), "/")
	cfg.PinataGatewayURL = strings.TrimRight(strings.TrimSpace(cfg.PinataGatewayURL), "/")
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10 * 1024 * 1024
	}
	if cfg.CompressionMinBytes <= 0 {
		cfg.CompressionMinBytes = 1024 * 1024
	}
	if cfg.ImageQuality <= 0 || cfg.ImageQuality > 100 {
		cfg.ImageQuality = 80
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = 7
	}
	if cfg.PublicListingLimit <= 0 {
		cfg.PublicListingLimit = 50
	}
	return cfg, nil
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// PinningConfigured reports whether pinning credentials are present.
func (c *Config) PinningConfigured() bool {
	return c.PinataAPIKey != "" && c.PinataSecretKey != ""
}

// RetentionAge returns the configured retention threshold as a duration.
func (c *Config) RetentionAge() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}
