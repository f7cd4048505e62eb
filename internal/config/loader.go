// loader.go implements the configuration loading lifecycle.
//
// The loading sequence is:
//  1. Enforce UTC timezone to prevent drift bugs.
//  2. Load a .env file via godotenv (non-fatal if absent).
//  3. Use envconfig to process struct tags and populate the Config struct.
//  4. Validate the struct using go-playground/validator.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// ConfigError is a diagnostic error type returned by LoadConfig.
type ConfigError struct {
	Type    ConfigErrorType
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// LoadConfig loads and validates the monitor configuration.
//
// Direct environment variables take priority over .env file entries;
// godotenv never overrides variables already set. Missing required values
// and malformed values both return a *ConfigError.
func LoadConfig() (*Config, error) {
	// Step 1: all internal timestamps are UTC; only alert rendering localizes.
	time.Local = time.UTC

	// Step 2: .env is a local development convenience, silently absent in
	// the deployed Lambda.
	_ = godotenv.Load()

	// Step 3: the empty prefix means tags name the exact env vars,
	// e.g. envconfig:"STATE_TABLE_NAME" reads STATE_TABLE_NAME directly.
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrParsing,
			Message: "failed to process environment configuration",
			Err:     err,
		}
	}

	// Step 4: struct-level validation, including the cross-field rule that
	// the warm-clear threshold sits at or above the freeze threshold.
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, &ConfigError{
			Type:    ErrValidation,
			Message: "configuration validation failed",
			Err:     err,
		}
	}

	return &cfg, nil
}
