package stt

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/localstt/component"
	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/observability"
	"github.com/kbukum/localstt/transcription"
	"github.com/kbukum/localstt/transcription/whisper"
	"github.com/kbukum/localstt/workload"
)

const (
	// ProviderName identifies the provider to hosts and in status reports.
	ProviderName = "local-whisper"
	// ProviderType is the capability category the provider registers under.
	ProviderType = "stt"

	defaultRequestTimeout = 60 * time.Second
)

// Option configures a Provider.
type Option func(*options)

type options struct {
	log            *logger.Logger
	transcriber    transcription.Provider
	metrics        *observability.STTMetrics
	onProgress     workload.ProgressFunc
	version        string
	pollInterval   time.Duration
	startTimeout   time.Duration
	sessionPoll    time.Duration
	requestTimeout time.Duration
}

// WithLogger sets the logger. A no-op logger is used otherwise.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithTranscriber replaces the whisper client built from Config.
func WithTranscriber(t transcription.Provider) Option {
	return func(o *options) { o.transcriber = t }
}

// WithMetrics records server starts, transcriptions and sessions on m.
func WithMetrics(m *observability.STTMetrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithPullProgress receives image pull progress while the server starts.
func WithPullProgress(fn workload.ProgressFunc) Option {
	return func(o *options) { o.onProgress = fn }
}

// WithVersion sets the version reported by Status.
func WithVersion(v string) Option {
	return func(o *options) { o.version = v }
}

// WithStartPolling overrides the health poll interval and ceiling used
// while the server starts.
func WithStartPolling(interval, timeout time.Duration) Option {
	return func(o *options) {
		o.pollInterval = interval
		o.startTimeout = timeout
	}
}

// WithSessionPollInterval overrides how often sessions check for end of audio.
func WithSessionPollInterval(d time.Duration) Option {
	return func(o *options) { o.sessionPoll = d }
}

// WithRequestTimeout overrides the bound on one remote transcription.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// Provider is the local speech-to-text provider. It owns the inference
// server lifecycle and hands out transcription sessions.
type Provider struct {
	cfg            Config
	lifecycle      *Lifecycle
	transcriber    transcription.Provider
	log            *logger.Logger
	metrics        *observability.STTMetrics
	version        string
	sessionPoll    time.Duration
	requestTimeout time.Duration
}

var (
	_ component.Component   = (*Provider)(nil)
	_ component.Describable = (*Provider)(nil)
)

// NewProvider merges cfg over the defaults and wires the provider. It does
// not validate cfg; call ValidateConfig for that.
func NewProvider(cfg Config, manager workload.Manager, opts ...Option) (*Provider, error) {
	cfg.ApplyDefaults()

	o := options{
		version:        "dev",
		sessionPoll:    defaultSessionPollInterval,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.NewNop()
	}

	if o.transcriber == nil {
		client, err := whisper.New(whisper.Config{
			BaseURL: cfg.BaseURL(),
			Timeout: o.requestTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create inference client: %w", err)
		}
		o.transcriber = client
	}

	lc := NewLifecycle(cfg, manager, o.transcriber, o.log)
	lc.metrics = o.metrics
	lc.onProgress = o.onProgress
	if o.pollInterval > 0 {
		lc.pollInterval = o.pollInterval
	}
	if o.startTimeout > 0 {
		lc.startTimeout = o.startTimeout
	}

	return &Provider{
		cfg:            cfg,
		lifecycle:      lc,
		transcriber:    o.transcriber,
		log:            o.log.WithComponent("stt"),
		metrics:        o.metrics,
		version:        o.version,
		sessionPoll:    o.sessionPoll,
		requestTimeout: o.requestTimeout,
	}, nil
}

// Config returns the effective configuration.
func (p *Provider) Config() Config { return p.cfg }

// Lifecycle exposes the server lifecycle.
func (p *Provider) Lifecycle() *Lifecycle { return p.lifecycle }

// ValidateConfig fails with INVALID_MODEL or INVALID_PORT. It performs no I/O.
func (p *Provider) ValidateConfig() error {
	return p.cfg.Validate()
}

// EnsureRunning starts the inference server if it is not healthy.
func (p *Provider) EnsureRunning(ctx context.Context) error {
	return p.lifecycle.EnsureRunning(ctx)
}

// CreateSession ensures the server is running and opens a session. Options
// set in opts override the provider configuration.
func (p *Provider) CreateSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	if err := p.lifecycle.EnsureRunning(ctx); err != nil {
		return nil, err
	}

	language, wordTimestamps := p.resolve(opts)
	s := newSession(uuid.NewString(), language, wordTimestamps, p.transcribe)
	s.pollInterval = p.sessionPoll
	s.onClose = func() { p.metrics.SessionClosed(context.Background()) }
	p.metrics.SessionOpened(ctx)

	p.log.Debug("session created", logger.Fields(
		logger.FieldSessionID, s.ID(),
		"language", language,
	))
	return s, nil
}

// TranscribeOnce transcribes one complete utterance. Only the remote
// request bound applies; there is no end-of-audio wait.
func (p *Provider) TranscribeOnce(ctx context.Context, audio []byte, opts SessionOptions) (string, error) {
	resp, err := p.Transcribe(ctx, audio, opts)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// Transcribe is TranscribeOnce returning the full response.
func (p *Provider) Transcribe(ctx context.Context, audio []byte, opts SessionOptions) (*transcription.Response, error) {
	if err := p.lifecycle.EnsureRunning(ctx); err != nil {
		return nil, err
	}
	language, wordTimestamps := p.resolve(opts)
	return p.transcribe(ctx, audio, language, wordTimestamps)
}

// HealthCheck reports whether the inference server answers its probe.
func (p *Provider) HealthCheck(ctx context.Context) bool {
	return p.transcriber.IsAvailable(ctx)
}

// Shutdown stops the server container this provider started. Safe to call
// more than once.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.lifecycle.Shutdown(ctx)
}

// resolve merges session options over the configuration.
func (p *Provider) resolve(opts SessionOptions) (string, bool) {
	language := p.cfg.Language
	if opts.Language != "" {
		language = opts.Language
	}
	wordTimestamps := p.cfg.WordTimestamps
	if opts.WordTimestamps != nil {
		wordTimestamps = *opts.WordTimestamps
	}
	return language, wordTimestamps
}

// transcribe issues one remote call under the request bound.
func (p *Provider) transcribe(ctx context.Context, audio []byte, language string, wordTimestamps bool) (*transcription.Response, error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanTranscribe,
		attribute.String(observability.AttrModel, p.cfg.Model),
		attribute.String(observability.AttrLanguage, language),
		attribute.Int(observability.AttrAudioSize, len(audio)),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()

	start := time.Now()
	var (
		resp *transcription.Response
		err  error
	)
	if wordTimestamps {
		resp, err = p.transcriber.Transcribe(ctx, transcription.Request{
			Audio:          audio,
			Language:       language,
			WordTimestamps: true,
		})
	} else {
		var text string
		text, err = p.transcriber.TranscribeAudio(ctx, audio, language)
		resp = &transcription.Response{Text: text, Language: language}
	}
	elapsed := time.Since(start)

	outcome := observability.OutcomeOK
	switch {
	case errors.IsCode(err, errors.ErrCodeRequestTimeout):
		outcome = observability.OutcomeTimeout
	case err != nil:
		outcome = observability.OutcomeError
	}
	p.metrics.RecordTranscription(ctx, p.cfg.Model, outcome, elapsed)

	if err != nil {
		observability.SetSpanError(ctx, err)
		p.log.Warn("transcription failed", logger.MergeWithError(
			logger.DurationFields("transcribe", elapsed), err))
		return nil, err
	}
	p.log.Debug("transcription complete", logger.Fields(
		logger.FieldDuration, elapsed.Milliseconds(),
		"audio_bytes", len(audio),
		"chars", len(resp.Text),
	))
	return resp, nil
}

// Name implements component.Component.
func (p *Provider) Name() string { return ProviderName }

// Start implements component.Component. The server starts lazily on first
// use, so Start does nothing.
func (p *Provider) Start(context.Context) error { return nil }

// Stop implements component.Component.
func (p *Provider) Stop(ctx context.Context) error { return p.Shutdown(ctx) }

// Health implements component.Component.
func (p *Provider) Health(ctx context.Context) component.Health {
	h := component.Health{Name: ProviderName}
	switch {
	case p.HealthCheck(ctx):
		h.Status = component.StatusHealthy
	case p.lifecycle.Starting():
		h.Status = component.StatusDegraded
		h.Message = "inference server is starting"
	default:
		h.Status = component.StatusDegraded
		h.Message = "inference server not running, starts on first request"
	}
	return h
}

// Describe implements component.Describable.
func (p *Provider) Describe() component.Description {
	return component.Description{
		Name:    ProviderName,
		Type:    ProviderType,
		Details: fmt.Sprintf("model=%s language=%s image=%s", p.cfg.Model, p.cfg.Language, p.cfg.Image),
		Port:    p.cfg.Port,
	}
}
