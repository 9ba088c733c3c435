package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes
const (
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeMissingField     = "MISSING_FIELD"
	ErrCodeInvalidEnum      = "INVALID_ENUM"
	ErrCodeInvalidType      = "INVALID_TYPE"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"
	ErrCodeQuotaExceeded    = "QUOTA_EXCEEDED"
	ErrCodeGenerationFailed = "GENERATION_FAILED"
	ErrCodeUnauthorized     = "UNAUTHORIZED"
	ErrCodeForbidden        = "FORBIDDEN"
	ErrCodeInternal         = "INTERNAL_ERROR"
)

// Error constructors

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string) error {
	return &DomainError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewValidationError creates a new validation error
func NewValidationError(msg string) error {
	return &DomainError{
		Code:    ErrCodeValidation,
		Message: msg,
	}
}

// NewMissingFieldError reports absent or empty required fields
func NewMissingFieldError(fields ...string) error {
	label := "field"
	if len(fields) > 1 {
		label = "fields"
	}
	return &DomainError{
		Code:    ErrCodeMissingField,
		Message: fmt.Sprintf("Missing required %s: %s", label, strings.Join(fields, ", ")),
	}
}

// NewInvalidEnumError reports a value outside its allowed set
func NewInvalidEnumError(field, value string, allowed []string) error {
	return &DomainError{
		Code:    ErrCodeInvalidEnum,
		Message: fmt.Sprintf("Invalid %s: %s. Must be one of: %s", field, value, strings.Join(allowed, ", ")),
	}
}

// NewInvalidTypeError reports a field with the wrong JSON type
func NewInvalidTypeError(field string) error {
	return &DomainError{
		Code:    ErrCodeInvalidType,
		Message: fmt.Sprintf("Invalid input types: %s must be a string", field),
	}
}

// NewPayloadTooLargeError reports user input longer than max characters
func NewPayloadTooLargeError(max int) error {
	return &DomainError{
		Code:    ErrCodePayloadTooLarge,
		Message: fmt.Sprintf("Input text exceeds maximum length of %d characters.", max),
	}
}

// NewQuotaExceededError creates the daily free-tier limit error
func NewQuotaExceededError(limit int) error {
	return &DomainError{
		Code:    ErrCodeQuotaExceeded,
		Message: fmt.Sprintf("Daily generation limit (%d) reached for free users. Please upgrade for unlimited access.", limit),
	}
}

// NewGenerationError wraps a failed or empty completion
func NewGenerationError(err error) error {
	return &DomainError{
		Code:    ErrCodeGenerationFailed,
		Message: "Failed to generate message content",
		Err:     err,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(msg string) error {
	if msg == "" {
		msg = "Authentication required"
	}
	return &DomainError{
		Code:    ErrCodeUnauthorized,
		Message: msg,
	}
}

// NewForbiddenError creates a new forbidden error
func NewForbiddenError(msg string) error {
	return &DomainError{
		Code:    ErrCodeForbidden,
		Message: msg,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(err error) error {
	return &DomainError{
		Code:    ErrCodeInternal,
		Message: "An internal error occurred",
		Err:     err,
	}
}

// Helper functions to check error types

func hasCode(err error, code string) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// IsNotFound checks if the error is a not found error
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsValidation reports whether err is any caller-input error answered with 400
func IsValidation(err error) bool {
	switch GetErrorCode(err) {
	case ErrCodeValidation, ErrCodeMissingField, ErrCodeInvalidEnum, ErrCodeInvalidType:
		return true
	}
	return false
}

// IsPayloadTooLarge checks if the error is a payload too large error
func IsPayloadTooLarge(err error) bool {
	return hasCode(err, ErrCodePayloadTooLarge)
}

// IsQuotaExceeded checks if the error is a quota exceeded error
func IsQuotaExceeded(err error) bool {
	return hasCode(err, ErrCodeQuotaExceeded)
}

// IsGenerationFailed checks if the error is a generation error
func IsGenerationFailed(err error) bool {
	return hasCode(err, ErrCodeGenerationFailed)
}

// IsUnauthorized checks if the error is an unauthorized error
func IsUnauthorized(err error) bool {
	return hasCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if the error is a forbidden error
func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

// GetErrorCode extracts the error code from a domain error
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternal
}

// PublicMessage returns the message that is safe to show callers
func PublicMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}
