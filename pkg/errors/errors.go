package errors

import (
	"errors"
	"fmt"
	"io/fs"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigLoad     ErrorCode = "CONFIG_LOAD"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"
	ErrConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Template source errors
	ErrSourceNotFound ErrorCode = "SOURCE_NOT_FOUND"
	ErrSourceInvalid  ErrorCode = "SOURCE_INVALID"
	ErrSourceFetch    ErrorCode = "SOURCE_FETCH"

	// Context building errors
	ErrPromptAborted ErrorCode = "PROMPT_ABORTED"
	ErrPromptInvalid ErrorCode = "PROMPT_INVALID"
	ErrPromptMissing ErrorCode = "PROMPT_MISSING"

	// Substitution errors
	ErrTemplateParse   ErrorCode = "TEMPLATE_PARSE"
	ErrTemplateExecute ErrorCode = "TEMPLATE_EXECUTE"

	// Render errors
	ErrEntryDirNotFound    ErrorCode = "ENTRY_DIR_NOT_FOUND"
	ErrTemplatingFailed    ErrorCode = "TEMPLATING_FAILED"
	ErrDestinationConflict ErrorCode = "DESTINATION_CONFLICT"
	ErrIO                  ErrorCode = "IO"

	// Cache errors
	ErrCacheAccess ErrorCode = "CACHE_ACCESS"
)

// Detail keys shared by the packages that attach details to errors.
const (
	DetailPath   = "path"
	DetailPaths  = "paths"
	DetailDetail = "detail"
)

// PetridishError represents a structured error with code and details
type PetridishError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *PetridishError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *PetridishError) Unwrap() error {
	return e.Wrapped
}

// Is matches any PetridishError carrying the same code
func (e *PetridishError) Is(target error) bool {
	var targetErr *PetridishError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new PetridishError with the given code and message
func New(code ErrorCode, message string) *PetridishError {
	return &PetridishError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new PetridishError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *PetridishError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error. It returns nil for a nil error.
func Wrap(err error, code ErrorCode, message string) *PetridishError {
	if err == nil {
		return nil
	}
	e := New(code, message)
	e.Wrapped = err
	return e
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *PetridishError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// WithDetail adds a detail to the error
func (e *PetridishError) WithDetail(key string, value interface{}) *PetridishError {
	if e == nil {
		return nil
	}
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *PetridishError) WithDetails(details map[string]interface{}) *PetridishError {
	for k, v := range details {
		e.WithDetail(k, v)
	}
	return e
}

// Path returns the "path" detail, or "" when none was attached.
func (e *PetridishError) Path() string {
	p, _ := e.Details[DetailPath].(string)
	return p
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var pErr *PetridishError
	if errors.As(err, &pErr) {
		return pErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a PetridishError
func GetErrorCode(err error) ErrorCode {
	var pErr *PetridishError
	if errors.As(err, &pErr) {
		return pErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a PetridishError
func GetErrorDetails(err error) map[string]interface{} {
	var pErr *PetridishError
	if errors.As(err, &pErr) {
		return pErr.Details
	}
	return nil
}

// IsNotExist reports whether err means a path does not exist.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
