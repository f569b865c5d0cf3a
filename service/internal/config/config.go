// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the service configuration, read from the environment.
type Config struct {
	Addr        string        `env:"HANABI_ADDR" envDefault:":8080"`
	LogLevel    string        `env:"HANABI_LOG_LEVEL" envDefault:"info"`
	DBDriver    string        `env:"HANABI_DB_DRIVER" envDefault:"sqlite"` // "sqlite" or "postgres"
	DBDSN       string        `env:"HANABI_DB_DSN" envDefault:"hanabi.db"`
	RedisURL    string        `env:"HANABI_REDIS_URL"` // empty disables snapshot publishing
	JWTSecret   string        `env:"HANABI_JWT_SECRET"`
	TokenTTL    time.Duration `env:"HANABI_TOKEN_TTL" envDefault:"12h"`
	SnapshotTTL time.Duration `env:"HANABI_SNAPSHOT_TTL" envDefault:"1h"`

	// AllowOrigins limits which origins may open WebSockets. Empty allows any.
	AllowOrigins []string `env:"HANABI_ALLOW_ORIGINS" envSeparator:","`
}

// Load reads the given dotenv files (".env" when none are named) into the
// process environment without overriding variables that are already set, then
// parses the environment. Missing dotenv files are ignored.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the settings the network server cannot run without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("HANABI_JWT_SECRET is required")
	}
	switch c.DBDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("HANABI_DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("HANABI_TOKEN_TTL must be positive")
	}
	return nil
}

// NewLogger builds the process logger at the configured level. An unknown
// level falls back to info.
func (c Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}
