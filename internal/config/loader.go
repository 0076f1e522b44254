package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PROPS"

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the configuration (${VAR} syntax)
	expanded := os.ExpandEnv(string(data))

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// LoadWithDefaults loads configuration with defaults for every block, so the
// engine runs from environment variables alone when no file is present.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		expanded := os.ExpandEnv(string(data))
		if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	// A missing file falls through to defaults and environment variables.

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	return cfg, nil
}

// newViper builds a viper instance with the PROPS environment binding
// (PROPS_DATABASE_HOST overrides database.host, and so on).
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "prop-analysis-engine")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.audit_max_size_mb", 64)
	v.SetDefault("logging.audit_max_backups", 5)
	v.SetDefault("logging.audit_max_age_days", 90)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "props")
	v.SetDefault("database.user", "props")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 5)

	v.SetDefault("context_feed.timeout_seconds", 30)
	v.SetDefault("context_feed.max_retries", 5)
	v.SetDefault("context_feed.rate_limit_per_second", 5.0)
	v.SetDefault("context_feed.circuit_breaker_max", 5)

	v.SetDefault("analysis.workers", 8)

	v.SetDefault("agents.dynamic_weights", true)

	v.SetDefault("correlation.shared_driver_min", 2)
	v.SetDefault("correlation.pair_penalty", -5.0)
	v.SetDefault("correlation.penalty_floor", -15.0)
	v.SetDefault("correlation.low_above", -5.0)
	v.SetDefault("correlation.medium_above", -10.0)

	v.SetDefault("parlay.min_legs", 2)
	v.SetDefault("parlay.max_legs", 5)
	v.SetDefault("parlay.max_per_size", 3)
	v.SetDefault("parlay.min_leg_confidence", 60.0)
	v.SetDefault("parlay.max_player_exposure", 2)
	v.SetDefault("parlay.max_risk", "MEDIUM")

	v.SetDefault("sizing.bankroll", 10000.0)
	v.SetDefault("sizing.fractional_kelly", 0.25)
	v.SetDefault("sizing.max_stake_fraction", 0.05)
	v.SetDefault("sizing.min_confidence", 60.0)
	v.SetDefault("sizing.weekly_allocation", 0.15)
	v.SetDefault("sizing.min_unit", 1.0)

	v.SetDefault("calibration.gain", 0.5)
	v.SetDefault("calibration.accuracy_bonus", 0.3)
	v.SetDefault("calibration.max_delta", 0.15)
	v.SetDefault("calibration.min_weight", 0.25)
	v.SetDefault("calibration.max_weight", 2.50)
	v.SetDefault("calibration.min_samples", 10)
	v.SetDefault("calibration.schedule", "0 6 * * 2")

	v.SetDefault("cache.analysis_ttl_minutes", 30)
	v.SetDefault("cache.injury_report_ttl_minutes", 15)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("admin.port", 8090)
}

// ReloadFromEnv reloads the configuration from the path named in
// PROPS_CONFIG_PATH, when set.
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}
