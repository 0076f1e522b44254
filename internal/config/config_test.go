package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	expansionConfigMissingPath = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoading     = "expected no error loading config, got %v"
	expectedNoErrorMsg         = "expected no error, got %v"
	engineName                 = "prop-analysis-engine"
	developmentEnv             = "development"
	localhostHost              = "localhost"
	postgresPort               = 5432
	postgresPrefix             = "postgres://"
	testAppName                = "test-app"
	testDBPassword             = "TEST_DB_PASSWORD"
	testMissingVar             = "TEST_MISSING_VAR"
	expandedSecretValue        = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != engineName {
		t.Errorf("expected app name '%s', got '%s'", engineName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}

	if cfg.Parlay.MaxRisk != "MEDIUM" {
		t.Errorf("expected parlay max_risk 'MEDIUM', got '%s'", cfg.Parlay.MaxRisk)
	}

	if cfg.Agents.StaticWeights["matchup"] != 1.10 {
		t.Errorf("expected matchup static weight 1.10, got %v", cfg.Agents.StaticWeights["matchup"])
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadWithDefaultsNoFile tests that defaults cover every block
func TestLoadWithDefaultsNoFile(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.Parlay.MaxLegs != 5 {
		t.Errorf("expected default max_legs 5, got %d", cfg.Parlay.MaxLegs)
	}
	if cfg.Calibration.Gain != 0.5 {
		t.Errorf("expected default calibration gain 0.5, got %v", cfg.Calibration.Gain)
	}
	if cfg.Calibration.Schedule != "0 6 * * 2" {
		t.Errorf("expected default Tuesday schedule, got %q", cfg.Calibration.Schedule)
	}
	if cfg.Admin.Port != 8090 {
		t.Errorf("expected default admin port 8090, got %d", cfg.Admin.Port)
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("PROPS_APP_NAME", testAppName)
	defer os.Unsetenv("PROPS_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg := loadValid(t)

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg := loadValid(t)

	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidRiskLevel tests validation of the parlay risk ceiling
func TestValidateInvalidRiskLevel(t *testing.T) {
	cfg := loadValid(t)

	cfg.Parlay.MaxRisk = "EXTREME"
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid risk level")
	}
	if !strings.Contains(err.Error(), "LOW, MEDIUM, HIGH") {
		t.Errorf("expected risk level error, got: %v", err)
	}
}

// TestValidateWeightBoundsOrdering tests the calibration guardrail ordering
func TestValidateWeightBoundsOrdering(t *testing.T) {
	cfg := loadValid(t)

	cfg.Calibration.MinWeight = 3.0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for min_weight above max_weight")
	}
}

// TestValidateStaticWeightGuardrails tests static weights against the bounds
func TestValidateStaticWeightGuardrails(t *testing.T) {
	cfg := loadValid(t)

	cfg.Agents.StaticWeights["matchup"] = 5.0
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for out-of-bounds static weight")
	}
	if !strings.Contains(err.Error(), "matchup") {
		t.Errorf("expected the offending agent in the error, got: %v", err)
	}
}

// TestValidatePenaltyLadderOrdering tests the correlation threshold ordering
func TestValidatePenaltyLadderOrdering(t *testing.T) {
	cfg := loadValid(t)

	cfg.Correlation.PenaltyFloor = -2.0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for penalty_floor above pair_penalty")
	}
}

// TestValidateKellyFractionRange tests the fractional Kelly bounds
func TestValidateKellyFractionRange(t *testing.T) {
	cfg := loadValid(t)

	cfg.Sizing.FractionalKelly = 1.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for kelly fraction above 1")
	}
}

// TestValidateProductionRequiresSSL tests the production SSL guard
func TestValidateProductionRequiresSSL(t *testing.T) {
	cfg := loadValid(t)

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "disable"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for production without SSL")
	}
}

// TestValidateProductionRequiresAuditFile tests the production audit guard
func TestValidateProductionRequiresAuditFile(t *testing.T) {
	cfg := loadValid(t)

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "require"
	cfg.Logging.AuditFile = ""
	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for production without audit file")
	}
	if !strings.Contains(err.Error(), "audit_file") {
		t.Errorf("expected audit_file error, got: %v", err)
	}
}

// TestValidateEnvironmentTestCredential tests the production credential guard
func TestValidateEnvironmentTestCredential(t *testing.T) {
	cfg := loadValid(t)

	cfg.App.Environment = "production"
	cfg.Database.SSLMode = "require"
	cfg.ContextFeed.APIKey = "YOUR_API_KEY_HERE"
	if err := ValidateEnvironment(cfg); err == nil {
		t.Fatal("expected error for placeholder context feed API key in production")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg := loadValid(t)

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !strings.HasPrefix(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsStaging() {
		t.Error("expected IsStaging() to return false")
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests ${VAR} expansion in config files
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv(testMissingVar)

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoading, err)
	}

	// os.ExpandEnv turns an unset ${VAR} into the empty string
	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for unset variable, got %q", cfg.Database.Password)
	}
}

func loadValid(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoading, err)
	}
	return cfg
}
