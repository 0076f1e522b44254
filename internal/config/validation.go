package config

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() (*CustomValidator, error) {
	v := validator.New()

	rules := map[string]validator.Func{
		"environment":   validateEnvironment,
		"loglevel":      validateLogLevel,
		"risklevel":     validateRiskLevel,
		"kellyfraction": validateKellyFraction,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("failed to register %s validator: %w", tag, err)
		}
	}

	return &CustomValidator{validator: v}, nil
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	cv, err := NewValidator()
	if err != nil {
		return err
	}
	return cv.Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	err := cv.validator.Struct(cfg)
	if err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

// validateEnvironment validates the environment field
func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

// validateLogLevel validates the log level field
func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

// validateRiskLevel validates a correlation risk ceiling
func validateRiskLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "LOW", "MEDIUM", "HIGH":
		return true
	default:
		return false
	}
}

// validateKellyFraction validates the fractional Kelly multiplier (0, 1]
func validateKellyFraction(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return f > 0 && f <= 1
}

// validateCrossField performs cross-field validations
func validateCrossField(cfg *Config) error {
	// Weight guardrail ordering
	if cfg.Calibration.MinWeight >= cfg.Calibration.MaxWeight {
		return fmt.Errorf("calibration min_weight must be below max_weight")
	}
	if cfg.Calibration.MaxDelta >= cfg.Calibration.MaxWeight-cfg.Calibration.MinWeight {
		return fmt.Errorf("calibration max_delta must be smaller than the weight range")
	}

	// Static weights obey the same guardrails calibration enforces
	for agent, w := range cfg.Agents.StaticWeights {
		if w < cfg.Calibration.MinWeight || w > cfg.Calibration.MaxWeight {
			return fmt.Errorf("static weight for %s (%.2f) outside [%.2f, %.2f]",
				agent, w, cfg.Calibration.MinWeight, cfg.Calibration.MaxWeight)
		}
	}

	// Penalty ladder ordering: the floor is the most negative value, and the
	// risk thresholds descend from LOW to MEDIUM.
	if cfg.Correlation.PenaltyFloor > cfg.Correlation.PairPenalty {
		return fmt.Errorf("correlation penalty_floor cannot be above pair_penalty")
	}
	if cfg.Correlation.MediumAbove > cfg.Correlation.LowAbove {
		return fmt.Errorf("correlation medium_above cannot be above low_above")
	}

	if cfg.Parlay.MinLegs > cfg.Parlay.MaxLegs {
		return fmt.Errorf("parlay min_legs cannot exceed max_legs")
	}

	if cfg.Sizing.MinUnit > cfg.Sizing.Bankroll {
		return fmt.Errorf("sizing min_unit cannot exceed the bankroll")
	}

	if cfg.Database.MaxIdleConnections > cfg.Database.MaxConnections {
		return fmt.Errorf("max_idle_connections cannot exceed max_connections")
	}

	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires SSL mode to be 'require' or 'verify-full'")
		}
		if cfg.Logging.AuditFile == "" {
			return fmt.Errorf("production environment requires logging.audit_file for the audit trail")
		}
	}

	return nil
}

// formatValidationErrors formats validation errors into a readable string
func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var errMsg string
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()
		value := fieldError.Value()

		switch tag {
		case "required":
			errMsg += fmt.Sprintf("- Field '%s' is required\n", field)
		case "url":
			errMsg += fmt.Sprintf("- Field '%s' must be a valid URL, got '%v'\n", field, value)
		case "min", "max":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			errMsg += fmt.Sprintf("- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: debug, info, warn, error\n", field)
		case "risklevel":
			errMsg += fmt.Sprintf("- Field '%s' must be one of: LOW, MEDIUM, HIGH\n", field)
		case "kellyfraction":
			errMsg += fmt.Sprintf("- Field '%s' must be a fraction in (0, 1], got '%v'\n", field, value)
		case "oneof":
			errMsg += fmt.Sprintf("- Field '%s' has invalid value '%v'\n", field, value)
		default:
			errMsg += fmt.Sprintf("- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", errMsg)
}

// ValidateEnvironment validates environment-specific requirements
func ValidateEnvironment(cfg *Config) error {
	if cfg.IsProduction() {
		if cfg.Database.SSLMode == "disable" {
			return fmt.Errorf("production environment requires database SSL mode to be 'require' or 'verify-full'")
		}
		if isTestCredential(cfg.ContextFeed.APIKey) {
			return fmt.Errorf("production environment should not use a test context feed API key")
		}
	}
	return nil
}

// isTestCredential checks if a credential looks like a test credential
func isTestCredential(credential string) bool {
	testPatterns := []string{
		"test", "demo", "example", "placeholder", "YOUR_",
	}

	for _, pattern := range testPatterns {
		if match, _ := regexp.MatchString("(?i)"+pattern, credential); match {
			return true
		}
	}

	return false
}
