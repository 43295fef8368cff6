package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/jwebster45206/escape-room/pkg/scenario"
)

type Config struct {
	Environment string `validate:"oneof=development production"`
	LogLevel    slog.Level
	Scenario    string `validate:"required"`
	MaxTurns    int    `validate:"min=1,max=1000"`
	RedisURL    string `validate:"omitempty,url"`
	MetricsAddr string `validate:"omitempty,hostname_port"`
}

var validate = validator.New()

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first if there is one; real environment variables win.
func Load() (*Config, error) {
	_ = godotenv.Load()

	maxTurns, err := strconv.Atoi(getEnv("MAX_TURNS", strconv.Itoa(scenario.DefaultMaxTurns)))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_TURNS: %w", err)
	}

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		Scenario:    getEnv("SCENARIO", scenario.WizardLabName),
		MaxTurns:    maxTurns,
		RedisURL:    os.Getenv("REDIS_URL"),
		MetricsAddr: os.Getenv("METRICS_ADDR"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
