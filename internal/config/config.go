package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Supported database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the typed process configuration.
type Config struct {
	AppPort        string
	DBDriver       string
	DBDSN          string
	DBWaitTimeout  time.Duration
	RabbitMQURL    string
	RabbitMQQueue  string
	LogLevel       slog.Level
	BcryptCost     int
	MetricsEnabled bool
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// New returns a viper instance with defaults for every key and environment
// lookup enabled.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_DSN", "recipe.db")
	v.SetDefault("DATABASE_WAIT_TIMEOUT", "30s")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "recipe_events")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("METRICS_ENABLED", true)
	v.AutomaticEnv()
	return v
}

// Load reads and validates the configuration from v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		AppPort:        v.GetString("APP_PORT"),
		DBDriver:       strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DBDSN:          v.GetString("DATABASE_DSN"),
		DBWaitTimeout:  v.GetDuration("DATABASE_WAIT_TIMEOUT"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:  v.GetString("RABBITMQ_QUEUE"),
		BcryptCost:     v.GetInt("BCRYPT_COST"),
		MetricsEnabled: v.GetBool("METRICS_ENABLED"),
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return Config{}, fmt.Errorf("unsupported DATABASE_DRIVER %q", cfg.DBDriver)
	}
	if cfg.DBDSN == "" {
		return Config{}, errors.New("DATABASE_DSN must be set")
	}
	if cfg.AppPort != "" && !strings.Contains(cfg.AppPort, ":") {
		cfg.AppPort = ":" + cfg.AppPort
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return Config{}, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	return cfg, nil
}
