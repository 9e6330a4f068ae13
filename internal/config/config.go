package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port   string `env:"PORT" envDefault:"8080"`
	AppEnv string `env:"APP_ENV" envDefault:"development"`

	DB        DBConfig
	Auth      AuthConfig
	Countries CountriesConfig
	HTTP      HTTPConfig
}

type DBConfig struct {
	DSN             string        `env:"DB_DSN"`
	Host            string        `env:"DB_HOST" envDefault:"localhost"`
	Port            int           `env:"DB_PORT" envDefault:"5432"`
	User            string        `env:"DB_USER" envDefault:"postgres"`
	Password        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name            string        `env:"DB_NAME" envDefault:"backoffice"`
	SSLMode         string        `env:"DB_SSLMODE" envDefault:"disable"`
	TimeZone        string        `env:"DB_TIMEZONE" envDefault:"UTC"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
}

type AuthConfig struct {
	AdminUser         string `env:"ADMIN_USER" envDefault:"admin"`
	AdminPass         string `env:"ADMIN_PASS" envDefault:"admin"`
	JWTSecret         string `env:"JWT_SECRET" envDefault:"dev-backoffice-secret-change-me-0123456789"`
	JWTIssuer         string `env:"JWT_ISSUER" envDefault:"backoffice"`
	JWTAudience       string `env:"JWT_AUDIENCE" envDefault:"backoffice-clients"`
	ExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES" envDefault:"60"`
}

type CountriesConfig struct {
	BaseURL string        `env:"RESTCOUNTRIES_BASE_URL" envDefault:"https://restcountries.com/v3.1/"`
	Timeout time.Duration `env:"RESTCOUNTRIES_TIMEOUT" envDefault:"10s"`
	RPS     float64       `env:"RESTCOUNTRIES_RPS" envDefault:"5"`
}

type HTTPConfig struct {
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"100"`
	CORSOrigin     string  `env:"CORS_ORIGIN" envDefault:"*"`
}

// Load reads the process environment. Callers load .env files beforehand.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, fmt.Errorf("invalid auth config: JWT_SECRET must not be empty")
	}
	if cfg.Auth.ExpirationMinutes <= 0 {
		cfg.Auth.ExpirationMinutes = 60
	}
	return &cfg, nil
}

func (c *Config) Production() bool {
	e := strings.ToLower(c.AppEnv)
	return e == "production" || e == "prod"
}

// PostgresDSN prefers DB_DSN and otherwise assembles one from the parts.
func (c DBConfig) PostgresDSN() string {
	if strings.TrimSpace(c.DSN) != "" {
		return c.DSN
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}
