package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/XavierBriggs/Titanium/pkg/models"
)

// Config holds the service configuration
type Config struct {
	// Odds vendor
	OddsAPIKey     string `env:"ODDS_API_KEY"`
	OddsAPIBaseURL string `env:"ODDS_API_BASE_URL" envDefault:"https://api.the-odds-api.com/v4"`

	// Alexandria (team ratings)
	AlexandriaDSN string `env:"ALEXANDRIA_DSN"`

	// Redis (shared profile snapshot)
	RedisURL      string `env:"REDIS_URL"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Rules file, defaults used when empty or unreadable
	RulesPath string `env:"RULES_PATH"`

	ProfileTTL       time.Duration `env:"PROFILE_TTL" envDefault:"1h"`
	HTTPPort         int           `env:"HTTP_PORT" envDefault:"8080"`
	FetchConcurrency int           `env:"FETCH_CONCURRENCY" envDefault:"4"`
	DefaultCap       int           `env:"DEFAULT_CAP" envDefault:"8"`

	// HTTP
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// Observability
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}

	cfg.OddsAPIBaseURL = strings.TrimRight(cfg.OddsAPIBaseURL, "/")
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid http port: %d", c.HTTPPort))
	}
	if c.FetchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("fetch concurrency must be at least 1"))
	}
	if c.DefaultCap < 1 {
		errs = append(errs, fmt.Errorf("default cap must be at least 1"))
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		errs = append(errs, fmt.Errorf("invalid log level: %s", c.LogLevel))
	}

	return errors.Join(errs...)
}

// SlogLevel maps LogLevel onto a slog level
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// LoadRules reads a YAML rules file over the built-in defaults. A missing
// path, unreadable file, parse failure or invalid result falls back to
// defaults with a warning; rules problems never stop a scan.
func LoadRules(path string, logger *slog.Logger) models.RuleConfig {
	if logger == nil {
		logger = slog.Default()
	}
	defaults := models.DefaultRuleConfig()

	if path == "" {
		return defaults
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("rules_file_unreadable", "path", path, "error", err, "fallback", "defaults")
		return defaults
	}

	rules, err := ParseRules(data)
	if err != nil {
		logger.Warn("rules_file_invalid", "path", path, "error", err, "fallback", "defaults")
		return defaults
	}

	logger.Info("rules_loaded", "path", path)
	return rules
}

// ParseRules decodes YAML onto the defaults; keys absent from the
// document keep their default values.
func ParseRules(data []byte) (models.RuleConfig, error) {
	rules := models.DefaultRuleConfig()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return models.RuleConfig{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return models.RuleConfig{}, fmt.Errorf("invalid rules: %w", err)
	}
	return rules, nil
}
