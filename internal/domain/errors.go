package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Configuration Errors
	ErrorCodeMissingConfiguration ErrorCode = "MISSING_CONFIGURATION"
	ErrorCodeProcessorNotFound    ErrorCode = "PROCESSOR_NOT_FOUND"
	ErrorCodeNotSupported         ErrorCode = "OPERATION_NOT_SUPPORTED"

	// Validation Errors (VALIDATION_*)
	ErrorCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeUnsupportedCardBrand    ErrorCode = "UNSUPPORTED_CARD_BRAND"

	// Payment Gateway Errors (GATEWAY_*)
	ErrorCodeGatewayUnreachable ErrorCode = "GATEWAY_UNREACHABLE"
	ErrorCodeGatewayDeclined    ErrorCode = "GATEWAY_DECLINED"
	ErrorCodeMalformedResponse  ErrorCode = "MALFORMED_GATEWAY_RESPONSE"

	// Customer Token Errors (TOKEN_*)
	ErrorCodeTokenPersistenceFailed ErrorCode = "TOKEN_PERSISTENCE_FAILED"
	ErrorCodeTokenNotFound          ErrorCode = "TOKEN_NOT_FOUND"
	ErrorCodeTokenStoreUnavailable  ErrorCode = "TOKEN_STORE_UNAVAILABLE"

	// Scheduling and subscription errors
	ErrorCodeSchedulingError     ErrorCode = "SCHEDULING_ERROR"
	ErrorCodeBillingUpdateFailed ErrorCode = "BILLING_UPDATE_FAILED"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail adds a detail field to the error
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// Declined builds a GATEWAY_DECLINED error carrying the gateway's reason text.
func Declined(reason string) *DomainError {
	return NewDomainError(ErrorCodeGatewayDeclined, reason).WithDetail("reason", reason)
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsValidationError checks if an error is a caller input error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeValidationFailed ||
		code == ErrorCodeValidationAmountInvalid ||
		code == ErrorCodeUnsupportedCardBrand
}

// IsGatewayError checks if an error originated at the payment gateway
func IsGatewayError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeGatewayUnreachable ||
		code == ErrorCodeGatewayDeclined ||
		code == ErrorCodeMalformedResponse
}

// Sentinels returned by adapters; services wrap them into coded errors.
var (
	ErrCustomerTokenNotFound = errors.New("customer token not found")
	ErrCustomerTokenExists   = errors.New("customer token already exists for recurring contribution")
	ErrMalformedResponse     = errors.New("malformed gateway response")
)
