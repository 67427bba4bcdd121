// Package whisper implements transcription.Provider against an
// OpenAI-compatible inference server (faster-whisper-server, speaches).
package whisper

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/httpclient"
	"github.com/kbukum/localstt/transcription"
)

const (
	// ProviderName is the name reported by Client.Name.
	ProviderName = "whisper"

	transcriptionsPath = "/v1/audio/transcriptions"
	healthPath         = "/health"

	defaultBaseURL      = "http://localhost:8000"
	defaultTimeout      = 60 * time.Second
	defaultProbeTimeout = 5 * time.Second

	audioFileName    = "audio.wav"
	audioContentType = "audio/wav"
)

// Config holds connection settings for the inference server.
type Config struct {
	BaseURL      string        `mapstructure:"base_url" json:"base_url" yaml:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout" yaml:"timeout"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout" json:"probe_timeout" yaml:"probe_timeout"`
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.ProbeTimeout <= 0 {
		c.ProbeTimeout = defaultProbeTimeout
	}
}

// Client talks to one inference server.
type Client struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Client)(nil)

// New creates a client for the server at cfg.BaseURL.
func New(cfg Config) (*Client, error) {
	cfg.ApplyDefaults()
	hc, err := httpclient.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	return &Client{cfg: cfg, client: hc}, nil
}

// Name returns the provider name.
func (c *Client) Name() string { return ProviderName }

// BaseURL returns the server address.
func (c *Client) BaseURL() string { return c.cfg.BaseURL }

// IsAvailable probes GET /health within the probe bound.
func (c *Client) IsAvailable(ctx context.Context) bool {
	resp, err := c.client.Do(ctx, httpclient.Request{
		Method:  http.MethodGet,
		Path:    healthPath,
		Timeout: c.cfg.ProbeTimeout,
	})
	return err == nil && resp.IsSuccess()
}

// TranscribeAudio sends a complete WAV payload and returns the transcript text.
func (c *Client) TranscribeAudio(ctx context.Context, audio []byte, language string) (string, error) {
	resp, err := c.Transcribe(ctx, transcription.Request{Audio: audio, Language: language})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Transcribe posts the audio as multipart/form-data. A missing "text" field
// in the reply yields an empty transcript.
func (c *Client) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Response, error) {
	resp, err := c.client.Do(ctx, httpclient.Request{
		Method:  http.MethodPost,
		Path:    transcriptionsPath,
		Body:    buildBody(req),
		Timeout: c.cfg.Timeout,
	})
	if err != nil {
		return nil, c.mapError(ctx, err)
	}

	var result transcription.Response
	if len(resp.Body) == 0 {
		return &result, nil
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return nil, errors.Internal(fmt.Errorf("decode transcription response: %w", err))
	}
	return &result, nil
}

func buildBody(req transcription.Request) *httpclient.MultipartBody {
	fields := make(map[string]string)
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if req.Model != "" {
		fields["model"] = req.Model
	}
	if req.WordTimestamps {
		fields["response_format"] = "verbose_json"
		fields["timestamp_granularities[]"] = "word"
	}
	return &httpclient.MultipartBody{
		Fields: fields,
		Files: []httpclient.FileField{{
			FieldName:   "file",
			FileName:    audioFileName,
			ContentType: audioContentType,
			Data:        req.Audio,
		}},
	}
}

// mapError converts transport failures into application errors.
func (c *Client) mapError(ctx context.Context, err error) error {
	if stderrors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	switch {
	case httpclient.IsTimeout(err):
		return errors.RequestTimeout("transcription request", c.cfg.Timeout).WithCause(err)
	case httpclient.IsStatusError(err):
		he, _ := httpclient.AsError(err)
		return errors.RemoteServerError(he.StatusCode, string(he.Body))
	default:
		return errors.ServiceUnavailable("inference server").WithCause(err)
	}
}
