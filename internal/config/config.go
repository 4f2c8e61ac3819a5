package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds every environment-driven setting of the application
type Config struct {
	Env  string `env:"ENV" envDefault:"production"`
	Port string `env:"PORT" envDefault:"8080"`

	Database Database

	JWTSecret          string        `env:"JWT_SECRET"`
	JWTAccessDuration  time.Duration `env:"JWT_ACCESS_DURATION" envDefault:"15m"`
	JWTRefreshDuration time.Duration `env:"JWT_REFRESH_DURATION" envDefault:"24h"`
	AuthRateLimit      float64       `env:"AUTH_RATE_LIMIT" envDefault:"5"`

	StoreTimezone       string        `env:"STORE_TIMEZONE" envDefault:"America/Sao_Paulo"`
	StatusPollInterval  time.Duration `env:"STATUS_POLL_INTERVAL" envDefault:"30s"`
	StoreConfigCacheTTL time.Duration `env:"STORE_CONFIG_CACHE_TTL" envDefault:"30s"`
	RedisURL            string        `env:"REDIS_URL"`

	Storage Storage

	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@acaiteria.local"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	Telemetry Telemetry
}

// Telemetry contains the OpenTelemetry exporter settings (optional)
type Telemetry struct {
	Enabled        bool   `env:"ENABLE_TELEMETRY" envDefault:"false"`
	Endpoint       string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName    string `env:"OTEL_SERVICE_NAME" envDefault:"acaiteria-api"`
	ServiceVersion string `env:"OTEL_SERVICE_VERSION" envDefault:"1.0.0"`
}

// Database contains the postgres connection settings
type Database struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"acaiteria"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone string `env:"DB_TIMEZONE" envDefault:"America/Sao_Paulo"`
}

// DSN builds the postgres connection string
func (d Database) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode, d.TimeZone,
	)
}

// Storage contains S3 settings for product images (optional)
type Storage struct {
	Endpoint  string `env:"S3_ENDPOINT"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	Bucket    string `env:"S3_BUCKET"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	PublicURL string `env:"S3_PUBLIC_URL"`
}

// Enabled reports whether enough S3 settings are present to upload files
func (s Storage) Enabled() bool {
	return s.AccessKey != "" && s.SecretKey != "" && s.Bucket != ""
}

// IsDevelopment reports whether ENV=development
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location loads the store timezone, falling back to UTC
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.StoreTimezone)
	if err != nil {
		log.Error().Err(err).Str("timezone", c.StoreTimezone).Msg("Erro ao carregar timezone, usando UTC")
		return time.UTC
	}
	return loc
}

// Load reads an optional .env file and parses the environment
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using environment variables")
	}
	return Parse()
}

// Parse parses the current environment without touching .env files
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}
	if cfg.StatusPollInterval <= 0 {
		return Config{}, fmt.Errorf("STATUS_POLL_INTERVAL must be positive")
	}
	return cfg, nil
}
