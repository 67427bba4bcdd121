package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"time"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Code == code
}

// --- Configuration ---

// InvalidModel creates an AppError for a model identifier outside the supported set.
func InvalidModel(model string, supported []string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidModel, Message: fmt.Sprintf("Invalid model %q. Supported models: %v", model, supported),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"model": model, "supported": supported},
	}
}

// InvalidPort creates an AppError for a port outside [min, max].
func InvalidPort(port, minPort, maxPort int) *AppError {
	return &AppError{
		Code: ErrCodeInvalidPort, Message: fmt.Sprintf("Invalid port %d. Must be between %d and %d", port, minPort, maxPort),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"port": port, "min": minPort, "max": maxPort},
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// --- Server lifecycle and transport ---

// ServerStartTimeout creates an AppError for an inference server that did not
// become healthy within the start ceiling.
func ServerStartTimeout(timeout time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeServerStartTimeout, Message: fmt.Sprintf("Inference server did not become healthy within %s", timeout),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"timeout": timeout.String()},
	}
}

// RequestTimeout creates an AppError for a network call that exceeded its bound.
func RequestTimeout(operation string, timeout time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeRequestTimeout, Message: fmt.Sprintf("%s did not complete within %s", operation, timeout),
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation, "timeout": timeout.String()},
	}
}

// RemoteServerError creates an AppError for a non-success response from the
// inference endpoint. The status code and response body are kept in Details.
func RemoteServerError(statusCode int, body string) *AppError {
	return &AppError{
		Code: ErrCodeRemoteServer, Message: fmt.Sprintf("Inference server returned HTTP %d: %s", statusCode, body),
		HTTPStatus: http.StatusBadGateway, Retryable: false,
		Details: map[string]any{"status": statusCode, "body": body},
	}
}

// ServiceUnavailable creates a new AppError for a service that is temporarily unavailable.
func ServiceUnavailable(service string) *AppError {
	return &AppError{
		Code: ErrCodeServiceUnavailable, Message: fmt.Sprintf("The %s is temporarily unavailable. Please try again.", service),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// --- Session ---

// SessionClosed creates an AppError for an operation on a session whose audio
// has already ended or which has been closed.
func SessionClosed(sessionID, operation string) *AppError {
	return &AppError{
		Code: ErrCodeSessionClosed, Message: fmt.Sprintf("Invalid session state: cannot %s after end of audio", operation),
		HTTPStatus: http.StatusConflict, Retryable: false,
		Details: map[string]any{"session_id": sessionID, "operation": operation},
	}
}

// TranscriptTimeout creates an AppError for a wait on end of audio that elapsed.
// The session stays open and the caller may wait again.
func TranscriptTimeout(sessionID string, timeout time.Duration) *AppError {
	return &AppError{
		Code: ErrCodeTranscriptTimeout, Message: fmt.Sprintf("No end of audio within %s", timeout),
		HTTPStatus: http.StatusRequestTimeout, Retryable: true,
		Details: map[string]any{"session_id": sessionID, "timeout": timeout.String()},
	}
}

// --- Internal ---

// Internal creates a new AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again or contact support.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
