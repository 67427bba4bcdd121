package errors

import (
	stderrors "errors"
	"net/http"
)

// ErrorResponse is the JSON envelope the HTTP surface writes for failures.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody carries the code a client branches on plus the recorded details.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse renders the error as its response envelope. The cause is never
// included.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{
		Error: ErrorBody{
			Code:      e.Code,
			Message:   e.Message,
			Retryable: e.Retryable,
			Details:   e.Details,
		},
	}
}

// ResponseFor maps any error to an HTTP status and envelope. Errors without
// an AppError in their chain become INTERNAL_ERROR with status 500.
func ResponseFor(err error) (int, ErrorResponse) {
	appErr, ok := AsAppError(err)
	if !ok {
		appErr = Internal(err)
	}
	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return status, appErr.ToResponse()
}

// IsAppError reports whether err has an *AppError in its chain.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError returns the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
