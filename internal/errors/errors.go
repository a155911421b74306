package apperrors

import (
	"context"
	"errors"
	"fmt"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess         = 0   // Indicates successful execution.
	ExitErrorGeneric    = 1   // Indicates a generic error (transport, delivery).
	ExitErrorService    = 2   // Indicates the generation service rejected the request.
	ExitErrorValidation = 3   // Indicates an input file was missing or of the wrong type.
	ExitErrorConfig     = 4   // Indicates a configuration error.
	ExitErrorCanceled   = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// User-facing messages shared by every surface.
const (
	MsgUnsupportedType  = "Please upload a valid Excel file (.xlsx)"
	MsgMissingFile      = "both files required"
	MsgServiceFallback  = "Failed to generate assignments"
	MsgTransportGeneric = "Something went wrong"
)

// ConfigError represents a user configuration error, such as invalid flags or
// values. It indicates that the application cannot proceed due to incorrect user input.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

// Error returns the error message for a ConfigError.
func (e ConfigError) Error() string { return e.Message }

// NewConfigError creates a new ConfigError with a formatted message.
//
// Parameters:
//   - format: A format string (see fmt.Sprintf).
//   - a: Arguments to be formatted into the string.
//
// Returns:
//   - error: A new ConfigError instance containing the formatted message.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// ValidationKind classifies a ValidationError.
type ValidationKind string

const (
	// UnsupportedType means the candidate file was missing or not a spreadsheet.
	UnsupportedType ValidationKind = "unsupported_type"
	// MissingFile means a submission was attempted with an empty slot.
	MissingFile ValidationKind = "missing_file"
)

// ValidationError represents an input validation failure caught before any
// network call. It identifies which slot failed validation and provides a
// human-readable explanation.
type ValidationError struct {
	// Kind is the validation failure class.
	Kind ValidationKind
	// Field is the name of the slot that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

// Error returns a formatted message describing the validation failure.
func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// NewUnsupportedTypeError reports a rejected file selection for a slot.
func NewUnsupportedTypeError(field string) error {
	return ValidationError{Kind: UnsupportedType, Field: field, Message: MsgUnsupportedType}
}

// NewMissingFileError reports a submission attempted with an empty slot.
func NewMissingFileError(field string) error {
	return ValidationError{Kind: MissingFile, Field: field, Message: MsgMissingFile}
}

// TransportError encapsulates a failure to obtain a usable response from the
// generation service (network failure, unreachable endpoint, unreadable body)
// while preserving the original cause.
type TransportError struct {
	// Cause is the underlying error that triggered this transport error.
	Cause error
}

// Error returns the error message from the underlying cause.
func (e TransportError) Error() string { return "transport: " + e.Cause.Error() }

// Unwrap returns the original wrapped error, allowing for error chain
// inspection (e.g., using errors.Is or errors.As).
func (e TransportError) Unwrap() error { return e.Cause }

// ServiceError represents an explicit rejection by the generation service,
// e.g. mismatched row counts between the two files.
type ServiceError struct {
	// StatusCode is the HTTP status returned by the service.
	StatusCode int
	// Message is the human-readable reason extracted from the response body.
	Message string
}

// Error returns a formatted message describing the rejection.
func (e ServiceError) Error() string {
	return fmt.Sprintf("service rejected request (status %d): %s", e.StatusCode, e.Message)
}

// DeliveryError represents a failure to save the generated file locally.
type DeliveryError struct {
	// Path is the destination the payload was being saved to.
	Path string
	// Cause is the underlying filesystem error.
	Cause error
}

// Error returns a formatted message describing the delivery failure.
func (e DeliveryError) Error() string {
	return fmt.Sprintf("failed to save %s: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying filesystem error.
func (e DeliveryError) Unwrap() error { return e.Cause }

// UserMessage returns the single human-readable message a surface displays
// for err. Service messages are passed through verbatim; transport failures
// collapse to a generic text.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var validationErr ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}
	var serviceErr ServiceError
	if errors.As(err, &serviceErr) {
		if serviceErr.Message == "" {
			return MsgServiceFallback
		}
		return serviceErr.Message
	}
	var deliveryErr DeliveryError
	if errors.As(err, &deliveryErr) {
		return deliveryErr.Error()
	}
	var configErr ConfigError
	if errors.As(err, &configErr) {
		return configErr.Message
	}
	return MsgTransportGeneric
}

// ExitCodeFor maps an error to the process exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, context.Canceled) {
		return ExitErrorCanceled
	}
	var validationErr ValidationError
	var serviceErr ServiceError
	var configErr ConfigError
	switch {
	case errors.As(err, &validationErr):
		return ExitErrorValidation
	case errors.As(err, &serviceErr):
		return ExitErrorService
	case errors.As(err, &configErr):
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// WrapError wraps an error with additional context using fmt.Errorf and %w.
// This allows the wrapped error to be unwrapped with errors.Unwrap() and
// checked with errors.Is() and errors.As().
//
// Parameters:
//   - err: The error to wrap.
//   - format: A format string for the context message.
//   - args: Arguments for the format string.
//
// Returns:
//   - error: The wrapped error, or nil if err is nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError checks if the error is a context cancellation or deadline exceeded error.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
