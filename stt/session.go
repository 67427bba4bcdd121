package stt

import (
	"bytes"
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/resilience"
	"github.com/kbukum/localstt/transcription"
)

const (
	// DefaultTranscriptWait bounds WaitForTranscript when no timeout is given.
	DefaultTranscriptWait = 30 * time.Second

	defaultSessionPollInterval = 100 * time.Millisecond
)

// SessionOptions overrides provider defaults for one session. Zero values
// keep the provider's configuration.
type SessionOptions struct {
	Language       string
	WordTimestamps *bool
}

// PartialHandler receives interim transcripts.
type PartialHandler func(text string)

// transcribeFunc performs one bounded remote transcription.
type transcribeFunc func(ctx context.Context, audio []byte, language string, wordTimestamps bool) (*transcription.Response, error)

// Session buffers the audio of one utterance and transcribes it once the
// caller signals end of audio. A session is single use.
type Session struct {
	id             string
	language       string
	wordTimestamps bool
	transcribe     transcribeFunc
	pollInterval   time.Duration
	onClose        func()

	mu      sync.Mutex
	chunks  [][]byte
	ended   bool
	closed  bool
	partial PartialHandler
}

func newSession(id, language string, wordTimestamps bool, fn transcribeFunc) *Session {
	return &Session{
		id:             id,
		language:       language,
		wordTimestamps: wordTimestamps,
		transcribe:     fn,
		pollInterval:   defaultSessionPollInterval,
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Language returns the language the audio will be transcribed as.
func (s *Session) Language() string { return s.language }

// SendAudio appends a copy of chunk to the buffer. It fails with
// SESSION_CLOSED once audio has ended or the session is closed.
func (s *Session) SendAudio(chunk []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return errors.SessionClosed(s.id, "send audio")
	}
	s.chunks = append(s.chunks, bytes.Clone(chunk))
	return nil
}

// EndAudio seals the buffer. Further SendAudio calls fail.
func (s *Session) EndAudio() {
	s.mu.Lock()
	s.ended = true
	s.mu.Unlock()
}

// RegisterPartialHandler stores h. Transcription is batch only, so the
// handler is never invoked.
func (s *Session) RegisterPartialHandler(h PartialHandler) {
	s.mu.Lock()
	s.partial = h
	s.mu.Unlock()
}

// WaitForTranscript waits up to timeout for end of audio, then transcribes
// the buffered chunks in arrival order. A timeout of zero or less waits
// DefaultTranscriptWait. When the wait elapses it fails with
// TRANSCRIPT_TIMEOUT and leaves the session as it was. The remote call that
// follows has its own bound, independent of timeout.
func (s *Session) WaitForTranscript(ctx context.Context, timeout time.Duration) (string, error) {
	resp, err := s.WaitForResult(ctx, timeout)
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// WaitForResult is WaitForTranscript returning the full response, including
// word timings when the session requested them.
func (s *Session) WaitForResult(ctx context.Context, timeout time.Duration) (*transcription.Response, error) {
	if timeout <= 0 {
		timeout = DefaultTranscriptWait
	}
	if s.isClosed() {
		return nil, errors.SessionClosed(s.id, "wait for transcript")
	}

	err := resilience.Poll(ctx, resilience.PollConfig{
		Interval: s.pollInterval,
		Timeout:  timeout,
	}, func(context.Context) bool { return s.isEnded() })
	if stderrors.Is(err, resilience.ErrPollTimeout) {
		return nil, errors.TranscriptTimeout(s.id, timeout)
	}
	if err != nil {
		return nil, err
	}

	audio, ok := s.audio()
	if !ok {
		return nil, errors.SessionClosed(s.id, "wait for transcript")
	}
	return s.transcribe(ctx, audio, s.language, s.wordTimestamps)
}

// Close marks the session ended and discards buffered audio. It is safe to
// call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.ended = true
	s.chunks = nil
	s.partial = nil
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		onClose()
	}
	return nil
}

func (s *Session) isEnded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// audio concatenates the buffered chunks. It reports false once closed.
func (s *Session) audio() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	return bytes.Join(s.chunks, nil), true
}
