package stt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/transcription"
)

// recordingTranscribe returns a transcribeFunc that captures its input.
func recordingTranscribe(text string, got *[]byte) transcribeFunc {
	return func(_ context.Context, audio []byte, language string, _ bool) (*transcription.Response, error) {
		*got = audio
		return &transcription.Response{Text: text, Language: language}, nil
	}
}

func newTestSession(fn transcribeFunc) *Session {
	s := newSession("sess-1", "en", false, fn)
	s.pollInterval = 5 * time.Millisecond
	return s
}

func TestSession_ConcatenatesChunksInOrder(t *testing.T) {
	var got []byte
	s := newTestSession(recordingTranscribe("hello world", &got))

	chunk := []byte("ab")
	require.NoError(t, s.SendAudio(chunk))
	chunk[0] = 'x' // the session keeps its own copy
	require.NoError(t, s.SendAudio([]byte("cd")))
	require.NoError(t, s.SendAudio(nil))
	require.NoError(t, s.SendAudio([]byte("ef")))
	s.EndAudio()

	text, err := s.WaitForTranscript(context.Background(), time.Second)

	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
	assert.Equal(t, []byte("abcdef"), got)
}

func TestSession_SendAfterEndFails(t *testing.T) {
	s := newTestSession(nil)
	s.EndAudio()

	for range 3 {
		err := s.SendAudio([]byte("late"))
		require.Error(t, err)
		assert.True(t, errors.IsCode(err, errors.ErrCodeSessionClosed))
	}
}

func TestSession_WaitTimeoutLeavesSessionUsable(t *testing.T) {
	var got []byte
	s := newTestSession(recordingTranscribe("ok", &got))
	require.NoError(t, s.SendAudio([]byte("one")))

	_, err := s.WaitForTranscript(context.Background(), 20*time.Millisecond)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeTranscriptTimeout))
	assert.Nil(t, got)

	require.NoError(t, s.SendAudio([]byte("two")))
	s.EndAudio()
	text, err := s.WaitForTranscript(context.Background(), time.Second)

	require.NoError(t, err)
	assert.Equal(t, "ok", text)
	assert.Equal(t, []byte("onetwo"), got)
}

func TestSession_WaitReturnsOnceEnded(t *testing.T) {
	var got []byte
	s := newTestSession(recordingTranscribe("done", &got))
	require.NoError(t, s.SendAudio([]byte("pcm")))

	go func() {
		time.Sleep(20 * time.Millisecond)
		s.EndAudio()
	}()

	text, err := s.WaitForTranscript(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "done", text)
}

func TestSession_ZeroTimeoutUsesDefault(t *testing.T) {
	var got []byte
	s := newTestSession(recordingTranscribe("fast", &got))
	s.EndAudio()

	text, err := s.WaitForTranscript(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, "fast", text)
}

func TestSession_ContextCancelledWhileWaiting(t *testing.T) {
	s := newTestSession(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.WaitForTranscript(ctx, time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSession_TranscriberErrorPropagates(t *testing.T) {
	remote := errors.RemoteServerError(500, "boom")
	s := newTestSession(func(context.Context, []byte, string, bool) (*transcription.Response, error) {
		return nil, remote
	})
	s.EndAudio()

	_, err := s.WaitForTranscript(context.Background(), time.Second)
	assert.Same(t, remote, err)
}

func TestSession_CloseIsIdempotent(t *testing.T) {
	closed := 0
	s := newTestSession(nil)
	s.onClose = func() { closed++ }
	require.NoError(t, s.SendAudio([]byte("discard me")))

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.Equal(t, 1, closed)

	err := s.SendAudio([]byte("more"))
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionClosed))

	_, err = s.WaitForTranscript(context.Background(), time.Second)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionClosed))
}

func TestSession_CloseWithoutUse(t *testing.T) {
	assert.NoError(t, newTestSession(nil).Close())
}

func TestSession_CloseDuringWait(t *testing.T) {
	s := newTestSession(nil)
	go func() {
		time.Sleep(20 * time.Millisecond)
		_ = s.Close()
	}()

	_, err := s.WaitForTranscript(context.Background(), time.Second)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSessionClosed))
}

func TestSession_PartialHandlerNeverInvoked(t *testing.T) {
	var got []byte
	s := newTestSession(recordingTranscribe("final", &got))
	called := false
	s.RegisterPartialHandler(func(string) { called = true })

	require.NoError(t, s.SendAudio([]byte("pcm")))
	s.EndAudio()
	_, err := s.WaitForTranscript(context.Background(), time.Second)

	require.NoError(t, err)
	assert.False(t, called)
}
