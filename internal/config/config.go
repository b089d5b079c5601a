package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Config holds every runtime setting of the service.
type Config struct {
	HTTPAddr string

	StoreDriver     string
	DatabaseURL     string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration

	RedisURL           string
	LowStockAlertLimit int

	LogLevel  string
	LogFormat string

	CORSAllowedOrigins string
	StaticDir          string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("STORE_DRIVER", DriverPostgres)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", 30*time.Minute)
	v.SetDefault("DB_QUERY_TIMEOUT", 3*time.Second)
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("LOW_STOCK_ALERT_LIMIT", 50)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("STATIC_DIR", "public")
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		HTTPAddr:           v.GetString("HTTP_ADDR"),
		StoreDriver:        strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:        v.GetString("DATABASE_URL"),
		MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime:    v.GetDuration("DB_CONN_MAX_LIFETIME"),
		QueryTimeout:       v.GetDuration("DB_QUERY_TIMEOUT"),
		RedisURL:           v.GetString("REDIS_URL"),
		LowStockAlertLimit: v.GetInt("LOW_STOCK_ALERT_LIMIT"),
		LogLevel:           v.GetString("LOG_LEVEL"),
		LogFormat:          v.GetString("LOG_FORMAT"),
		CORSAllowedOrigins: v.GetString("CORS_ALLOWED_ORIGINS"),
		StaticDir:          v.GetString("STATIC_DIR"),
	}
}

// Validate reports settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres store"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver))
	}

	if c.MaxOpenConns <= 0 {
		errs = append(errs, fmt.Errorf("DB_MAX_OPEN_CONNS must be positive (got %d)", c.MaxOpenConns))
	}
	if c.QueryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("DB_QUERY_TIMEOUT must be positive (got %s)", c.QueryTimeout))
	}
	if c.LowStockAlertLimit <= 0 {
		errs = append(errs, fmt.Errorf("LOW_STOCK_ALERT_LIMIT must be positive (got %d)", c.LowStockAlertLimit))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
