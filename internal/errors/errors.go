// Package errors provides the typed failures shared by the engine and its adapters.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Type identifies the category of error
type Type string

const (
	// TypeDomain indicates a value outside the mathematical domain of a transform
	TypeDomain Type = "DOMAIN_ERROR"

	// TypeInput indicates a missing, malformed or contradictory input
	TypeInput Type = "INVALID_INPUT"

	// TypeInfeasible indicates that no physically valid solution exists
	TypeInfeasible Type = "INFEASIBLE"

	// TypeParsing indicates a recipe or request that could not be decoded
	TypeParsing Type = "PARSING_ERROR"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates a violated post-condition, i.e. a defect
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// TypeOf returns the type of the first *Error in err's chain, or "" if none.
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ""
}

// IsType checks if an error (or anything it wraps) is of a specific type
func IsType(err error, t Type) bool {
	return err != nil && TypeOf(err) == t
}

// HTTPStatus maps an error to the status code reported to API clients.
func HTTPStatus(err error) int {
	switch TypeOf(err) {
	case TypeInput, TypeDomain, TypeParsing:
		return http.StatusBadRequest
	case TypeInfeasible:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Domain creates a domain error
func Domain(message string) *Error {
	return New(TypeDomain, message)
}

// Input creates an input error
func Input(message string) *Error {
	return New(TypeInput, message)
}

// Inputf creates a formatted input error
func Inputf(format string, args ...interface{}) *Error {
	return Newf(TypeInput, format, args...)
}

// Infeasible creates an infeasibility error
func Infeasible(message string) *Error {
	return New(TypeInfeasible, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
