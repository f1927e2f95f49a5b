package inventory

import (
	"fmt"

	"binhoard-api/internal/common"
)

// Error codes for inventory module
const (
	ErrCodeBinNotFound      = "BIN_NOT_FOUND"
	ErrCodeAreaNotFound     = "AREA_NOT_FOUND"
	ErrCodeValidationFailed = "VALIDATION_FAILED"
	ErrCodeDuplicateCode    = "DUPLICATE_SHORT_CODE"
	ErrCodeRepository       = "REPOSITORY_ERROR"
)

// InventoryError interface for inventory-specific errors
type InventoryError interface {
	error
	Code() string
	Message() string
	Temporary() bool
}

// BinValidationError represents validation failures for bins
type BinValidationError struct {
	Field      string
	Value      interface{}
	ErrMessage string
}

func (e BinValidationError) Error() string {
	return fmt.Sprintf("bin validation failed for field '%s': %s (value: %v)", e.Field, e.ErrMessage, e.Value)
}

func (e BinValidationError) Code() string {
	return ErrCodeValidationFailed
}

func (e BinValidationError) Message() string {
	return e.ErrMessage
}

func (e BinValidationError) Temporary() bool {
	return false
}

// RepositoryError represents database operation failures
type RepositoryError struct {
	Operation string
	Details   string
	Cause     error
}

func (e RepositoryError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repository error during %s: %s (caused by: %v)", e.Operation, e.Details, e.Cause)
	}
	return fmt.Sprintf("repository error during %s: %s", e.Operation, e.Details)
}

func (e RepositoryError) Code() string {
	return ErrCodeRepository
}

func (e RepositoryError) Message() string {
	return e.Details
}

func (e RepositoryError) Temporary() bool {
	return true // Database errors can often be retried
}

func (e RepositoryError) Unwrap() error {
	return e.Cause
}

// Error wrapping utilities

// WrapRepositoryError wraps an error as a RepositoryError
func WrapRepositoryError(err error, operation string) error {
	if err == nil {
		return nil
	}
	return RepositoryError{
		Operation: operation,
		Details:   "database operation failed",
		Cause:     err,
	}
}

// NewBinValidationError creates a new BinValidationError
func NewBinValidationError(field string, value interface{}, message string) error {
	return BinValidationError{
		Field:      field,
		Value:      value,
		ErrMessage: message,
	}
}

// Error classification helpers

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	if invErr, ok := err.(InventoryError); ok {
		return invErr.Code() == ErrCodeBinNotFound || invErr.Code() == ErrCodeAreaNotFound
	}
	if _, ok := err.(common.NotFoundError); ok {
		return true
	}
	return false
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	if invErr, ok := err.(InventoryError); ok {
		return invErr.Code() == ErrCodeValidationFailed
	}
	if _, ok := err.(common.ValidationError); ok {
		return true
	}
	return false
}
