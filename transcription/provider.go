package transcription

import (
	"context"
)

// Transcriber turns one complete utterance into text.
type Transcriber interface {
	TranscribeAudio(ctx context.Context, audio []byte, language string) (string, error)
}

// Provider is a transcription backend with a reachability probe and the
// richer request form.
type Provider interface {
	Transcriber

	Name() string

	// IsAvailable reports whether the backend answers its health probe.
	// It never returns an error; any failure reads as unavailable.
	IsAvailable(ctx context.Context) bool

	Transcribe(ctx context.Context, req Request) (*Response, error)
}
