package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

const (
	// Configuration / input validation.
	ErrCodeConfig ErrorCode = "config_invalid"

	// Data-unavailable: the provider returned no hourly data in a mode that
	// requires real classification. Fatal in NORMAL mode so the scheduler
	// retries on the next cycle.
	ErrCodeDataUnavailable ErrorCode = "data_unavailable"

	// Upstream weather provider failures.
	ErrCodeUpstreamWeather     ErrorCode = "upstream_weather_unavailable"
	ErrCodeUpstreamRateLimited ErrorCode = "upstream_rate_limited"

	// Persistence failures. No transition is trusted as committed until the
	// state write succeeds.
	ErrCodePersistence ErrorCode = "persistence_failure"

	// Alert dispatch failures.
	ErrCodeDispatchEmail ErrorCode = "dispatch_email_failure"
	ErrCodeDispatchSMS   ErrorCode = "dispatch_sms_failure"

	// Catch-all.
	ErrCodeInternal ErrorCode = "internal_unexpected_error"
)

// StatusCode maps an ErrorCode to the statusCode reported in the Lambda
// response. Returns 500 for unrecognized codes as a safe default.
func (c ErrorCode) StatusCode() int {
	s := string(c)
	switch {
	case c == ErrCodeConfig:
		return http.StatusBadRequest
	case c == ErrCodeUpstreamRateLimited:
		return http.StatusTooManyRequests
	case strings.HasPrefix(s, "upstream_"), c == ErrCodeDataUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard application error type. Domain and collaborator
// errors are expressed as AppError to enable consistent logging, status
// mapping, and error chain support.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the Lambda response status corresponding to this error.
func (e *AppError) StatusCode() int {
	return e.Code.StatusCode()
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
