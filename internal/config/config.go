// Package config provides configuration management for the prop analysis engine.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Logging     LoggingConfig     `mapstructure:"logging" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database" validate:"required"`
	ContextFeed ContextFeedConfig `mapstructure:"context_feed" validate:"required"`
	Analysis    AnalysisConfig    `mapstructure:"analysis" validate:"required"`
	Agents      AgentsConfig      `mapstructure:"agents"`
	Correlation CorrelationConfig `mapstructure:"correlation" validate:"required"`
	Parlay      ParlayConfig      `mapstructure:"parlay" validate:"required"`
	Sizing      SizingConfig      `mapstructure:"sizing" validate:"required"`
	Calibration CalibrationConfig `mapstructure:"calibration" validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Admin       AdminConfig       `mapstructure:"admin" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name          string `mapstructure:"name" validate:"required"`
	Environment   string `mapstructure:"environment" validate:"required,environment"`
	SecretsRegion string `mapstructure:"secrets_region"`
	SecretsName   string `mapstructure:"secrets_name"`
}

// LoggingConfig represents logging and audit trail configuration
type LoggingConfig struct {
	Level           string `mapstructure:"level" validate:"required,loglevel"`
	Format          string `mapstructure:"format" validate:"omitempty,oneof=json text"`
	AuditFile       string `mapstructure:"audit_file"`
	AuditMaxSizeMB  int    `mapstructure:"audit_max_size_mb" validate:"omitempty,gt=0"`
	AuditMaxBackups int    `mapstructure:"audit_max_backups" validate:"gte=0"`
	AuditMaxAgeDays int    `mapstructure:"audit_max_age_days" validate:"gte=0"`
	AuditCompress   bool   `mapstructure:"audit_compress"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ContextFeedConfig represents the weekly context feed client configuration
type ContextFeedConfig struct {
	BaseURL            string  `mapstructure:"base_url" validate:"required,url"`
	APIKey             string  `mapstructure:"api_key"`
	TimeoutSeconds     int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries         int     `mapstructure:"max_retries" validate:"gte=0"`
	RateLimitPerSecond float64 `mapstructure:"rate_limit_per_second" validate:"required,gt=0"`
	CircuitBreakerMax  int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
}

// AnalysisConfig represents batch analysis configuration
type AnalysisConfig struct {
	Workers int `mapstructure:"workers" validate:"required,gt=0"`
}

// AgentsConfig represents agent weighting configuration
type AgentsConfig struct {
	DynamicWeights bool               `mapstructure:"dynamic_weights"`
	StaticWeights  map[string]float64 `mapstructure:"static_weights"`
}

// CorrelationConfig represents the correlation penalty schedule
type CorrelationConfig struct {
	SharedDriverMin int     `mapstructure:"shared_driver_min" validate:"required,gt=0"`
	PairPenalty     float64 `mapstructure:"pair_penalty" validate:"lte=0"`
	PenaltyFloor    float64 `mapstructure:"penalty_floor" validate:"lte=0"`
	LowAbove        float64 `mapstructure:"low_above" validate:"lte=0"`
	MediumAbove     float64 `mapstructure:"medium_above" validate:"lte=0"`
}

// ParlayConfig represents parlay construction constraints
type ParlayConfig struct {
	MinLegs           int     `mapstructure:"min_legs" validate:"required,gte=2"`
	MaxLegs           int     `mapstructure:"max_legs" validate:"required,gte=2,lte=10"`
	MaxPerSize        int     `mapstructure:"max_per_size" validate:"required,gt=0"`
	MinLegConfidence  float64 `mapstructure:"min_leg_confidence" validate:"gte=0,lte=100"`
	MaxPlayerExposure int     `mapstructure:"max_player_exposure" validate:"required,gt=0"`
	MaxRisk           string  `mapstructure:"max_risk" validate:"omitempty,risklevel"`
	Enhanced          bool    `mapstructure:"enhanced"`
}

// SizingConfig represents bet sizing configuration
type SizingConfig struct {
	Bankroll         float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	FractionalKelly  float64 `mapstructure:"fractional_kelly" validate:"required,kellyfraction"`
	MaxStakeFraction float64 `mapstructure:"max_stake_fraction" validate:"required,gt=0,lte=1"`
	MinConfidence    float64 `mapstructure:"min_confidence" validate:"gte=0,lte=100"`
	WeeklyAllocation float64 `mapstructure:"weekly_allocation" validate:"required,gt=0,lte=1"`
	MinUnit          float64 `mapstructure:"min_unit" validate:"required,gt=0"`
	ExposureAdjusted bool    `mapstructure:"exposure_adjusted"`
}

// CalibrationConfig represents the weekly calibration loop configuration
type CalibrationConfig struct {
	Gain          float64 `mapstructure:"gain" validate:"required,gt=0"`
	AccuracyBonus float64 `mapstructure:"accuracy_bonus" validate:"gte=0"`
	MaxDelta      float64 `mapstructure:"max_delta" validate:"required,gt=0"`
	MinWeight     float64 `mapstructure:"min_weight" validate:"required,gt=0"`
	MaxWeight     float64 `mapstructure:"max_weight" validate:"required,gt=0"`
	MinSamples    int     `mapstructure:"min_samples" validate:"required,gt=0"`
	Schedule      string  `mapstructure:"schedule" validate:"required"`
}

// CacheConfig represents cache lifetimes
type CacheConfig struct {
	AnalysisTTLMinutes     int `mapstructure:"analysis_ttl_minutes" validate:"gte=0"`
	InjuryReportTTLMinutes int `mapstructure:"injury_report_ttl_minutes" validate:"gte=0"`
}

// MetricsConfig represents metrics exposure configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// AdminConfig represents the admin HTTP server (health, readiness, metrics)
type AdminConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ContextFeedTimeout returns the context feed request timeout as a Duration
func (c *Config) ContextFeedTimeout() time.Duration {
	return time.Duration(c.ContextFeed.TimeoutSeconds) * time.Second
}

// AnalysisCacheTTL returns the analysis cache lifetime as a Duration
func (c *Config) AnalysisCacheTTL() time.Duration {
	return time.Duration(c.Cache.AnalysisTTLMinutes) * time.Minute
}

// InjuryReportTTL returns the parsed injury report cache lifetime as a Duration
func (c *Config) InjuryReportTTL() time.Duration {
	return time.Duration(c.Cache.InjuryReportTTLMinutes) * time.Minute
}
