package whisper

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/transcription"
)

func newTestClient(t *testing.T, url string, timeout time.Duration) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: url, Timeout: timeout, ProbeTimeout: timeout})
	require.NoError(t, err)
	return c
}

func TestConfig_ApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.Timeout)
	assert.Equal(t, 5*time.Second, cfg.ProbeTimeout)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "localhost:8000"})
	assert.Error(t, err)
}

func TestTranscribeAudio_ReturnsText(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt ")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)

		assert.Equal(t, audio, data)
		assert.Equal(t, "audio.wav", hdr.Filename)
		assert.Equal(t, "audio/wav", hdr.Header.Get("Content-Type"))
		assert.Equal(t, "en", r.FormValue("language"))
		assert.Empty(t, r.FormValue("response_format"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"hello world"}`))
	}))
	defer srv.Close()

	text, err := newTestClient(t, srv.URL, time.Second).TranscribeAudio(context.Background(), audio, "en")

	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestTranscribeAudio_MissingTextIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"language":"en"}`))
	}))
	defer srv.Close()

	text, err := newTestClient(t, srv.URL, time.Second).TranscribeAudio(context.Background(), []byte("x"), "en")

	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestTranscribeAudio_EmptyLanguageOmitsField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, present := r.MultipartForm.Value["language"]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"text":"ok"}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).TranscribeAudio(context.Background(), []byte("x"), "")
	require.NoError(t, err)
}

func TestTranscribe_WordTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "verbose_json", r.FormValue("response_format"))
		assert.Equal(t, "word", r.FormValue("timestamp_granularities[]"))
		assert.Equal(t, "small", r.FormValue("model"))
		_, _ = w.Write([]byte(`{
			"text": "hello world",
			"language": "en",
			"duration": 1.5,
			"words": [
				{"word": "hello", "start": 0.0, "end": 0.6, "probability": 0.98},
				{"word": "world", "start": 0.7, "end": 1.4, "probability": 0.95}
			]
		}`))
	}))
	defer srv.Close()

	resp, err := newTestClient(t, srv.URL, time.Second).Transcribe(context.Background(), transcription.Request{
		Audio:          []byte("x"),
		Language:       "en",
		Model:          "small",
		WordTimestamps: true,
	})

	require.NoError(t, err)
	assert.Equal(t, "hello world", resp.Text)
	assert.InDelta(t, 1.5, resp.Duration, 0.0001)
	require.Len(t, resp.Words, 2)
	assert.Equal(t, "world", resp.Words[1].Word)
	assert.InDelta(t, 0.7, resp.Words[1].Start, 0.0001)
}

func TestTranscribe_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("model not loaded"))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).TranscribeAudio(context.Background(), []byte("x"), "en")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRemoteServer))
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, appErr.Details["status"])
	assert.Equal(t, "model not loaded", appErr.Details["body"])
}

func TestTranscribe_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, 50*time.Millisecond).TranscribeAudio(context.Background(), []byte("x"), "en")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeRequestTimeout))
}

func TestTranscribe_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(t, url, time.Second).TranscribeAudio(context.Background(), []byte("x"), "en")

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func TestTranscribe_CallerCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":"late"}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t, srv.URL, time.Second).TranscribeAudio(ctx, []byte("x"), "en")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTranscribe_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"text":`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, time.Second).TranscribeAudio(context.Background(), []byte("x"), "en")
	assert.True(t, errors.IsCode(err, errors.ErrCodeInternal))
}

func TestIsAvailable(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()
		assert.True(t, newTestClient(t, srv.URL, time.Second).IsAvailable(context.Background()))
	})

	t.Run("non-success status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()
		assert.False(t, newTestClient(t, srv.URL, time.Second).IsAvailable(context.Background()))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()
		assert.False(t, newTestClient(t, url, time.Second).IsAvailable(context.Background()))
	})

	t.Run("slow probe", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		defer srv.Close()
		assert.False(t, newTestClient(t, srv.URL, 50*time.Millisecond).IsAvailable(context.Background()))
	})
}

func TestName(t *testing.T) {
	assert.Equal(t, "whisper", newTestClient(t, "http://localhost:1", time.Second).Name())
}
