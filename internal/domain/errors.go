package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"
	ErrUnauthorized ErrorCode = "UNAUTHORIZED"

	// Quiz generation errors
	ErrGenerationTimeout   ErrorCode = "GENERATION_TIMEOUT"
	ErrProviderError       ErrorCode = "PROVIDER_ERROR"
	ErrUnparseableResponse ErrorCode = "UNPARSEABLE_RESPONSE"
	ErrNoCardsProduced     ErrorCode = "NO_CARDS_PRODUCED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Helper functions for common errors
func NewInvalidInputError(message string) *DomainError {
	return NewError(ErrInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}

func NewUnauthorizedError(message string) *DomainError {
	return NewError(ErrUnauthorized, message, nil)
}

func NewGenerationTimeoutError() *DomainError {
	return NewError(ErrGenerationTimeout, "Quiz generation timed out. Please try again.", nil)
}

func NewProviderError(err error) *DomainError {
	return NewError(ErrProviderError, "Failed to generate quiz", err)
}

func NewUnparseableResponseError(err error) *DomainError {
	return NewError(ErrUnparseableResponse, "Could not parse quiz response from provider", err)
}

func NewNoCardsProducedError() *DomainError {
	return NewError(ErrNoCardsProduced, "Provider response yielded no usable quiz cards", nil)
}

// ValidationError represents a validation error
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func NewValidationError(message string) error {
	return &ValidationError{message: message}
}
