// Package config loads runtime settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	// Server
	Port             int           `mapstructure:"PORT"`
	Env              string        `mapstructure:"APP_ENV"` // development | production
	LogLevel         string        `mapstructure:"LOG_LEVEL"`
	HTTPReadTimeout  time.Duration `mapstructure:"HTTP_READ_TIMEOUT"`
	HTTPWriteTimeout time.Duration `mapstructure:"HTTP_WRITE_TIMEOUT"`
	ShutdownTimeout  time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// Database
	MongoURI     string        `mapstructure:"MONGO_URI"`
	MongoDB      string        `mapstructure:"MONGO_DB"`
	MongoTimeout time.Duration `mapstructure:"MONGO_TIMEOUT"`
}

var defaults = map[string]interface{}{
	"PORT":               3000,
	"APP_ENV":            "development",
	"LOG_LEVEL":          "info",
	"HTTP_READ_TIMEOUT":  "15s",
	"HTTP_WRITE_TIMEOUT": "15s",
	"SHUTDOWN_TIMEOUT":   "10s",
	"MONGO_URI":          "mongodb://localhost:27017",
	"MONGO_DB":           "oficina",
	"MONGO_TIMEOUT":      "10s",
}

// Load reads the optional .env files, then the environment. Variables
// already set in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing file is fine outside development setups
		_ = godotenv.Load(f)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid PORT %d", cfg.Port)
	}
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether APP_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SetupLogging configures the global logrus logger: JSON in production,
// text with full timestamps otherwise.
func (c *Config) SetupLogging() {
	if c.IsProduction() {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("log_level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
