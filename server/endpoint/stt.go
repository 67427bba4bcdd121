package endpoint

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/stt"
	"github.com/kbukum/localstt/transcription"
	"github.com/kbukum/localstt/validation"
)

// Form fields accepted by the transcription endpoint.
const (
	FormFile           = "file"
	FormLanguage       = "language"
	FormWordTimestamps = "word_timestamps"

	maxLanguageLength = 16
)

// STTService is the provider surface the HTTP endpoints need.
type STTService interface {
	Status(ctx context.Context) stt.StatusReport
	ListModels() stt.ModelList
	Transcribe(ctx context.Context, audio []byte, opts stt.SessionOptions) (*transcription.Response, error)
}

// Status reports provider status including a live health probe.
func Status(svc STTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, svc.Status(c.Request.Context()))
	}
}

// Models lists the supported models and the configured one.
func Models(svc STTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		RespondOK(c, svc.ListModels())
	}
}

// Transcribe accepts a multipart upload with a "file" part holding one
// complete utterance plus optional "language" and "word_timestamps" fields.
// The inference server is started on demand.
func Transcribe(svc STTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		audio, opts, err := parseTranscribeForm(c)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		resp, err := svc.Transcribe(c.Request.Context(), audio, opts)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOK(c, resp)
	}
}

func parseTranscribeForm(c *gin.Context) ([]byte, stt.SessionOptions, error) {
	var opts stt.SessionOptions

	header, err := c.FormFile(FormFile)
	if err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return nil, opts, errors.New(errors.ErrCodeInvalidInput,
				fmt.Sprintf("Request body exceeds %d bytes", maxErr.Limit),
				http.StatusRequestEntityTooLarge).WithDetail("limit", maxErr.Limit)
		}
		return nil, opts, errors.InvalidInput(FormFile, "multipart audio file is required")
	}

	opts.Language = c.PostForm(FormLanguage)
	v := validation.New().
		MaxLength(FormLanguage, opts.Language, maxLanguageLength).
		Custom(header.Size > 0, FormFile, "must not be empty")
	if raw := c.PostForm(FormWordTimestamps); raw != "" {
		wt, perr := strconv.ParseBool(raw)
		v.Custom(perr == nil, FormWordTimestamps, "must be a boolean")
		if perr == nil {
			opts.WordTimestamps = &wt
		}
	}
	if appErr := v.Validate(); appErr != nil {
		return nil, opts, appErr
	}

	f, err := header.Open()
	if err != nil {
		return nil, opts, errors.Internal(err)
	}
	defer f.Close()

	audio, err := io.ReadAll(f)
	if err != nil {
		return nil, opts, errors.Internal(err)
	}
	return audio, opts, nil
}
