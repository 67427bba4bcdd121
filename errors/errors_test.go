package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RetryableDetection(t *testing.T) {
	err := New(ErrCodeRequestTimeout, "timed out", http.StatusGatewayTimeout)
	assert.True(t, err.Retryable)

	err = New(ErrCodeInvalidModel, "bad model", http.StatusBadRequest)
	assert.False(t, err.Retryable)
}

func TestInvalidModel(t *testing.T) {
	err := InvalidModel("huge", []string{"tiny", "base"})
	assert.Equal(t, ErrCodeInvalidModel, err.Code)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Equal(t, "huge", err.Details["model"])
	assert.Contains(t, err.Error(), `"huge"`)
}

func TestInvalidPort(t *testing.T) {
	err := InvalidPort(80, 1024, 65535)
	assert.Equal(t, ErrCodeInvalidPort, err.Code)
	assert.Equal(t, 80, err.Details["port"])
	assert.Contains(t, err.Message, "between 1024 and 65535")
}

func TestRemoteServerError_CarriesStatusAndBody(t *testing.T) {
	err := RemoteServerError(503, "model loading")
	assert.Equal(t, ErrCodeRemoteServer, err.Code)
	assert.Equal(t, 503, err.Details["status"])
	assert.Equal(t, "model loading", err.Details["body"])
	assert.Equal(t, http.StatusBadGateway, err.HTTPStatus)
}

func TestTimeouts_RecordDuration(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		code ErrorCode
	}{
		{"server start", ServerStartTimeout(60 * time.Second), ErrCodeServerStartTimeout},
		{"request", RequestTimeout("transcription", 60*time.Second), ErrCodeRequestTimeout},
		{"transcript", TranscriptTimeout("s-1", 30*time.Second), ErrCodeTranscriptTimeout},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
			assert.NotEmpty(t, tc.err.Details["timeout"])
			assert.True(t, tc.err.Retryable)
		})
	}
}

func TestIsCode_ThroughWrapping(t *testing.T) {
	base := SessionClosed("abc", "send audio")
	wrapped := fmt.Errorf("feed: %w", base)

	assert.True(t, IsCode(wrapped, ErrCodeSessionClosed))
	assert.False(t, IsCode(wrapped, ErrCodeTranscriptTimeout))
	assert.False(t, IsCode(stderrors.New("plain"), ErrCodeSessionClosed))
	assert.False(t, IsCode(nil, ErrCodeSessionClosed))
}

func TestAppError_CauseAndUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Internal(cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestToResponse(t *testing.T) {
	err := ServerStartTimeout(time.Minute)
	resp := err.ToResponse()

	assert.Equal(t, ErrCodeServerStartTimeout, resp.Error.Code)
	assert.True(t, resp.Error.Retryable)
	assert.Equal(t, "1m0s", resp.Error.Details["timeout"])
}

func TestAsAppError(t *testing.T) {
	appErr, ok := AsAppError(fmt.Errorf("wrap: %w", InvalidPort(1, 1024, 65535)))
	require.True(t, ok)
	assert.Equal(t, ErrCodeInvalidPort, appErr.Code)

	_, ok = AsAppError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestResponseFor(t *testing.T) {
	status, body := ResponseFor(fmt.Errorf("wrap: %w", RemoteServerError(502, "bad gateway")))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, ErrCodeRemoteServer, body.Error.Code)

	status, body = ResponseFor(stderrors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, ErrCodeInternal, body.Error.Code)
	assert.NotContains(t, body.Error.Message, "boom")
}
