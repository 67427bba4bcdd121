package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors. Raised by explicit validation, never by I/O.
const (
	// ErrCodeInvalidModel indicates the configured model is not a known identifier.
	ErrCodeInvalidModel ErrorCode = "INVALID_MODEL"
	// ErrCodeInvalidPort indicates the configured port is outside the allowed range.
	ErrCodeInvalidPort ErrorCode = "INVALID_PORT"
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

// Server lifecycle and transport errors.
const (
	// ErrCodeServerStartTimeout indicates the inference server did not become healthy in time.
	ErrCodeServerStartTimeout ErrorCode = "SERVER_START_TIMEOUT"
	// ErrCodeRequestTimeout indicates a network call exceeded its bound.
	ErrCodeRequestTimeout ErrorCode = "REQUEST_TIMEOUT"
	// ErrCodeRemoteServer indicates the inference endpoint answered with a non-success status.
	ErrCodeRemoteServer ErrorCode = "REMOTE_SERVER_ERROR"
	// ErrCodeServiceUnavailable indicates the service is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
)

// Session errors.
const (
	// ErrCodeSessionClosed indicates audio was sent to, or a transcript requested from, a finished session.
	ErrCodeSessionClosed ErrorCode = "SESSION_CLOSED"
	// ErrCodeTranscriptTimeout indicates the caller-side wait for end of audio elapsed.
	ErrCodeTranscriptTimeout ErrorCode = "TRANSCRIPT_TIMEOUT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServerStartTimeout: true,
	ErrCodeRequestTimeout:     true,
	ErrCodeServiceUnavailable: true,
	ErrCodeTranscriptTimeout:  true,
	ErrCodeRemoteServer:       false,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
