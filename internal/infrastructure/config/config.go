package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

const (
	EnvDevelopment = "development"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

// DevSecret signs tokens in development when SECRET_KEY is unset.
const DevSecret = "dev-insecure-secret-change-me"

type Config struct {
	Port      string `env:"PORT,      default=8000"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Auth     AuthConfig
	Database DatabaseConfig
	HTTP     HTTPConfig
}

type AuthConfig struct {
	SecretKey                string `env:"SECRET_KEY"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=1440"`
	RestrictRoles            bool   `env:"RESTRICT_ROLES,              default=false"`
	BcryptCost               int    `env:"BCRYPT_COST,                 default=10"`
}

// TokenTTL is the lifetime of issued access tokens.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.AccessTokenExpireMinutes) * time.Minute
}

type DatabaseConfig struct {
	Driver   string `env:"DATABASE_DRIVER,    default=memory"`
	URL      string `env:"DATABASE_URL"`
	Name     string `env:"DATABASE_NAME,      default=lis"`
	LogLevel string `env:"DATABASE_LOG_LEVEL, default=warn"`
}

type HTTPConfig struct {
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
	MetricsEnabled     bool     `env:"METRICS_ENABLED,      default=true"`
	SwaggerEnabled     bool     `env:"SWAGGER_ENABLED,      default=true"`
}

// Load reads an optional .env file, then the environment.
func Load(ctx context.Context) (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith builds the configuration from an arbitrary lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	if cfg.Auth.SecretKey == "" && cfg.IsDevelopment() {
		cfg.Auth.SecretKey = DevSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, EnvDevelopment)
}

// UsingDevSecret reports whether tokens are signed with the built-in placeholder.
func (c *Config) UsingDevSecret() bool {
	return c.Auth.SecretKey == DevSecret
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.SecretKey == "" {
		errs = append(errs, errors.New("SECRET_KEY is required outside development"))
	}
	if !c.IsDevelopment() && c.UsingDevSecret() {
		errs = append(errs, errors.New("SECRET_KEY must not use the development placeholder"))
	}
	if c.Auth.AccessTokenExpireMinutes <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive"))
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost))
	}

	switch c.Database.Driver {
	case DriverMemory:
	case DriverPostgres, DriverMySQL, DriverMongo, DriverSQLite:
		if c.Database.URL == "" {
			errs = append(errs, fmt.Errorf("DATABASE_URL is required for driver %q", c.Database.Driver))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown DATABASE_DRIVER %q", c.Database.Driver))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
