package stt

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kbukum/localstt/transcription"
	"github.com/kbukum/localstt/workload/testutil"
)

// fakeBackend is an in-memory inference server.
type fakeBackend struct {
	mu       sync.Mutex
	healthy  bool
	probes   int
	text     string
	words    []transcription.Word
	err      error
	requests []transcription.Request
}

var _ transcription.Provider = (*fakeBackend)(nil)

func (f *fakeBackend) Name() string { return "fake" }

func (f *fakeBackend) IsAvailable(context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probes++
	return f.healthy
}

func (f *fakeBackend) setHealthy(v bool) {
	f.mu.Lock()
	f.healthy = v
	f.mu.Unlock()
}

func (f *fakeBackend) TranscribeAudio(ctx context.Context, audio []byte, language string) (string, error) {
	resp, err := f.Transcribe(ctx, transcription.Request{Audio: audio, Language: language})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

func (f *fakeBackend) Transcribe(_ context.Context, req transcription.Request) (*transcription.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	resp := &transcription.Response{Text: f.text, Language: req.Language}
	if req.WordTimestamps {
		resp.Words = f.words
	}
	return resp, nil
}

func (f *fakeBackend) Requests() []transcription.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]transcription.Request(nil), f.requests...)
}

// newStartableManager returns a mock runtime whose started containers make
// backend healthy.
func newStartableManager(backend *fakeBackend) *testutil.MockManager {
	m := testutil.NewMockManager()
	m.OnStart = func(string) { backend.setHealthy(true) }
	return m
}

func newTestProvider(t *testing.T, cfg Config, m *testutil.MockManager, backend *fakeBackend, opts ...Option) *Provider {
	t.Helper()
	base := []Option{
		WithTranscriber(backend),
		WithStartPolling(5*time.Millisecond, 200*time.Millisecond),
		WithSessionPollInterval(5 * time.Millisecond),
	}
	p, err := NewProvider(cfg, m, append(base, opts...)...)
	require.NoError(t, err)
	return p
}
