// Package config defines the configuration for the freeze monitor. It is
// loaded once during Lambda cold start and immutable thereafter, following
// 12-Factor principles: every tunable comes from the environment, with
// defaults matching the deployed monitor.
//
// Values are resolved as OS environment first, then a .env file (local
// development only). Any missing required value or invalid format fails the
// cold start immediately.
package config

import (
	"time"

	"freezewatch/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type
// used for credentials to prevent accidental logging.
type SecretString = types.SecretString

// Config is the top-level configuration for the monitor. Sub-components
// receive only the subsets they require.
type Config struct {
	Environment string `envconfig:"APP_ENV" default:"prod" validate:"required,oneof=local dev staging prod"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info" validate:"oneof=debug info warn error"`

	Location      LocationConfig
	Thresholds    ThresholdsConfig
	Weather       WeatherConfig
	Email         EmailConfig
	SMS           SMSConfig
	State         StateConfig
	Observability ObservabilityConfig

	// Timezone is the IANA zone used for human-readable timestamps in alert
	// bodies. All internal computation stays in UTC.
	Timezone string `envconfig:"TIMEZONE" default:"America/Chicago" validate:"required"`
}

// LocationConfig holds the monitored coordinate. The defaults point at the
// property the monitor was built for.
type LocationConfig struct {
	Latitude  float64 `envconfig:"LAT" default:"38.3736" validate:"gte=-90,lte=90"`
	Longitude float64 `envconfig:"LON" default:"-96.6447" validate:"gte=-180,lte=180"`
}

// ThresholdsConfig holds the classification thresholds and windows.
//
// WarmThresholdF must sit at or above FreezeThresholdF; a warm-clear bar
// below the freeze bar would let the monitor flap between states.
type ThresholdsConfig struct {
	FreezeThresholdF float64 `envconfig:"FREEZE_THRESHOLD_F" default:"32"`
	HoursAhead       int     `envconfig:"HOURS_AHEAD" default:"12" validate:"gte=1,lte=48"`
	WarmThresholdF   float64 `envconfig:"WARM_THRESHOLD_F" default:"35" validate:"gtefield=FreezeThresholdF"`
	WarmClearDays    int     `envconfig:"WARM_CLEAR_DAYS" default:"2" validate:"gte=1,lte=8"`
}

// WeatherConfig holds the forecast provider credentials and endpoint.
type WeatherConfig struct {
	APIKey  SecretString  `envconfig:"WEATHER_API_KEY" validate:"required"`
	BaseURL string        `envconfig:"WEATHER_BASE_URL" default:"https://api.openweathermap.org" validate:"url"`
	Timeout time.Duration `envconfig:"WEATHER_TIMEOUT" default:"10s"`
}

// EmailConfig holds the SES sender identity and recipient list.
type EmailConfig struct {
	Sender string `envconfig:"SES_SENDER" validate:"required,email"`
	// Recipients is a comma-separated list in the environment.
	Recipients []string `envconfig:"RECIPIENTS" validate:"required,min=1,dive,email"`
}

// SMSConfig holds the optional SNS topic. An empty ARN disables the SMS
// channel entirely.
type SMSConfig struct {
	TopicARN string `envconfig:"SNS_TOPIC_ARN"`
}

// StateConfig holds the DynamoDB state table settings.
type StateConfig struct {
	TableName string `envconfig:"STATE_TABLE_NAME" validate:"required"`
	Key       string `envconfig:"STATE_KEY" default:"main" validate:"required"`
}

// ObservabilityConfig holds telemetry settings.
type ObservabilityConfig struct {
	MetricNamespace string `envconfig:"METRIC_NAMESPACE" default:"FreezeWatch"`
	EnableMetrics   bool   `envconfig:"ENABLE_METRICS" default:"true"`
}

// ThresholdConfig converts the env-tagged thresholds into the domain type
// consumed by the classifier.
func (c *Config) ThresholdConfig() types.ThresholdConfig {
	return types.ThresholdConfig{
		FreezeThresholdF: c.Thresholds.FreezeThresholdF,
		HoursAhead:       c.Thresholds.HoursAhead,
		WarmThresholdF:   c.Thresholds.WarmThresholdF,
		WarmClearDays:    c.Thresholds.WarmClearDays,
	}
}

// ConfigErrorType categorizes configuration loading failures.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure parsing environment values into their
	// target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
