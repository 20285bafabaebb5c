package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port      string `env:"PORT" env-default:"3000"`
	Env       string `env:"ENV" env-default:"development"`
	HostAPI   string `env:"HOST_API" env-default:"http://localhost:3000/api"`
	StaticDir string `env:"STATIC_DIR" env-default:"./static/products"`
	PublicDir string `env:"PUBLIC_DIR" env-default:"./public"`

	// Logging configuration
	LogLevel   string `env:"LOG_LEVEL" env-default:"info"`
	LogFile    string `env:"LOG_FILE"`
	DBLogLevel string `env:"DB_LOG_LEVEL" env-default:"warn"`

	// Database configuration
	DBType            string `env:"DB_TYPE" env-default:"postgres"` // mysql, postgres, sqlite, sqlserver
	DBHost            string `env:"DB_HOST" env-default:"localhost"`
	DBPort            string `env:"DB_PORT" env-default:"5432"`
	DBDatabase        string `env:"DB_DATABASE" env-required:"true"`
	DBUser            string `env:"DB_USER" env-default:"postgres"`
	DBPassword        string `env:"DB_PASSWORD"`
	DBConnectionLimit int    `env:"DB_CONNECTION_LIMIT" env-default:"5"`

	// Token configuration
	JWTSecret    string        `env:"JWT_SECRET" env-required:"true"`
	JWTExpiresIn time.Duration `env:"JWT_EXPIRES_IN" env-default:"2h"`

	// Optional product read cache
	RedisAddr string        `env:"REDIS_ADDR"`
	CacheTTL  time.Duration `env:"CACHE_TTL" env-default:"10m"`

	// Seed endpoint switch, forced off in production
	SeedEnabled bool `env:"SEED_ENABLED" env-default:"true"`
}

// Load loads configuration from the environment, after applying an optional .env file
func Load() (*Config, error) {
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.IsProduction() {
		cfg.SeedEnabled = false
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with ENV=production
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// CacheEnabled reports whether a redis address was configured
func (c *Config) CacheEnabled() bool {
	return c.RedisAddr != ""
}

func (c *Config) validate() error {
	switch c.DBType {
	case "mysql", "mariadb", "postgres", "postgresql", "sqlite", "sqlserver", "mssql":
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", c.DBType)
	}
	if c.DBConnectionLimit < 1 {
		return fmt.Errorf("DB_CONNECTION_LIMIT must be positive")
	}
	if len(c.JWTSecret) < 8 {
		return fmt.Errorf("JWT_SECRET must be at least 8 characters")
	}
	return nil
}
