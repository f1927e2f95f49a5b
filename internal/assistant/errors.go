package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Gateway error kinds. The HTTP boundary maps each to a distinct status
// code, so the set is closed: every provider failure must be coerced into
// exactly one of these.
const (
	ErrorKindInvalidKey      = "INVALID_KEY"
	ErrorKindRateLimited     = "RATE_LIMITED"
	ErrorKindModelNotFound   = "MODEL_NOT_FOUND"
	ErrorKindInvalidResponse = "INVALID_RESPONSE"
	ErrorKindNetworkError    = "NETWORK_ERROR"
	ErrorKindProviderError   = "PROVIDER_ERROR"
)

// AssistantError defines the interface for pipeline-specific errors
type AssistantError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

// GatewayError represents a normalized failure from a provider call
type GatewayError struct {
	Kind       string `json:"kind"`
	HTTPStatus int    `json:"http_status,omitempty"`
	Detail     string `json:"detail"`
	Cause      error  `json:"-"`
}

func (e GatewayError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider gateway error (%s): %s (caused by: %v)", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("provider gateway error (%s): %s", e.Kind, e.Detail)
}

func (e GatewayError) Code() string {
	return e.Kind
}

func (e GatewayError) Message() string {
	return e.Detail
}

func (e GatewayError) Temporary() bool {
	switch e.Kind {
	case ErrorKindRateLimited, ErrorKindNetworkError:
		return true
	case ErrorKindProviderError:
		return isRetryableHTTPStatus(e.HTTPStatus)
	default:
		return false
	}
}

func (e GatewayError) Unwrap() error {
	return e.Cause
}

// Error creation helpers

// NewGatewayError creates a normalized gateway error
func NewGatewayError(kind string, httpStatus int, detail string, cause error) GatewayError {
	return GatewayError{
		Kind:       kind,
		HTTPStatus: httpStatus,
		Detail:     detail,
		Cause:      cause,
	}
}

// CoerceGatewayError guarantees the total-mapping contract: anything that
// is not already a GatewayError becomes a PROVIDER_ERROR.
func CoerceGatewayError(err error) GatewayError {
	if err == nil {
		return GatewayError{}
	}
	if gwErr, ok := err.(GatewayError); ok {
		return gwErr
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return GatewayError{
			Kind:   ErrorKindNetworkError,
			Detail: "provider call timed out",
			Cause:  err,
		}
	}
	return GatewayError{
		Kind:   ErrorKindProviderError,
		Detail: "unexpected provider failure",
		Cause:  err,
	}
}

// ErrorKindOf returns the gateway kind for an error, or empty string if the
// error did not originate from the gateway
func ErrorKindOf(err error) string {
	if gwErr, ok := err.(GatewayError); ok {
		return gwErr.Kind
	}
	return ""
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	if aErr, ok := err.(AssistantError); ok {
		return aErr.Temporary()
	}
	return false
}

// isRetryableHTTPStatus determines if an HTTP status code indicates a retryable error
func isRetryableHTTPStatus(status int) bool {
	switch status {
	case http.StatusTooManyRequests, // 429
		http.StatusInternalServerError, // 500
		http.StatusBadGateway,          // 502
		http.StatusServiceUnavailable,  // 503
		http.StatusGatewayTimeout:      // 504
		return true
	default:
		return false
	}
}

// HTTPStatusForKind maps each gateway error kind to the distinct status
// code surfaced at the API boundary
func HTTPStatusForKind(kind string) int {
	switch kind {
	case ErrorKindInvalidKey:
		return http.StatusUnauthorized
	case ErrorKindModelNotFound:
		return http.StatusNotFound
	case ErrorKindInvalidResponse:
		return http.StatusUnprocessableEntity
	case ErrorKindRateLimited:
		return http.StatusTooManyRequests
	case ErrorKindProviderError:
		return http.StatusBadGateway
	case ErrorKindNetworkError:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// Pipeline-local errors

// ErrProviderNotConfigured signals that a command was submitted without a
// usable provider config; the session machine parks in needs_setup.
type ErrProviderNotConfigured struct {
	Reason string
}

func (e ErrProviderNotConfigured) Error() string {
	return fmt.Sprintf("provider not configured: %s", e.Reason)
}

// ErrNoPendingCommand signals an execute or cancel without a preview session
type ErrNoPendingCommand struct {
	UserID string
}

func (e ErrNoPendingCommand) Error() string {
	return fmt.Sprintf("no pending command for user '%s'", e.UserID)
}
