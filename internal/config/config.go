package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"booklog/internal/httpx"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverSupabase = "supabase"
	DriverPostgres = "postgres"
)

type Config struct {
	Port        int           `env:"PORT" envDefault:"5000"`
	Driver      string        `env:"STORE_DRIVER" envDefault:"supabase"`
	DSN         string        `env:"DB_DSN"`
	Timeout     time.Duration `env:"STORE_TIMEOUT" envDefault:"15s"`
	MaxBody     int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	CORSOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	EnableHSTS  bool          `env:"ENABLE_HSTS" envDefault:"false"`

	Supabase  Supabase
	RateLimit RateLimit
}

type Supabase struct {
	URL     string `env:"SUPABASE_URL"`
	AnonKey string `env:"SUPABASE_ANON_KEY"`
}

// RateLimit is applied per client address. RPS <= 0 disables it.
// X-Forwarded-For is only trusted from TrustedProxies (IPs or CIDRs).
type RateLimit struct {
	RPS            float64  `env:"RATE_LIMIT_RPS" envDefault:"20"`
	Burst          int      `env:"RATE_LIMIT_BURST" envDefault:"40"`
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate checks the keys the selected driver needs.
func (c *Config) Validate() error {
	switch c.Driver {
	case DriverSupabase:
		if c.Supabase.URL == "" {
			return errors.New("missing required environment variable: SUPABASE_URL")
		}
		if c.Supabase.AnonKey == "" {
			return errors.New("missing required environment variable: SUPABASE_ANON_KEY")
		}
	case DriverPostgres:
		if c.DSN == "" {
			return errors.New("missing required environment variable: DB_DSN")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Driver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT %d", c.Port)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid STORE_TIMEOUT %s", c.Timeout)
	}
	if c.MaxBody <= 0 {
		return fmt.Errorf("invalid MAX_BODY_BYTES %d", c.MaxBody)
	}
	for _, proxy := range c.RateLimit.TrustedProxies {
		if _, err := httpx.ParseProxy(proxy); err != nil {
			return fmt.Errorf("TRUSTED_PROXIES: %w", err)
		}
	}
	return nil
}

// loadEnvFiles never overrides variables already set by the runtime.
func loadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

func Load() (*Config, error) {
	loadEnvFiles()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	return cfg
}
