package plugin

import (
	"context"
	stderrors "errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/stt"
	"github.com/kbukum/localstt/transcription"
	"github.com/kbukum/localstt/workload/testutil"
)

type registeredHook struct {
	name    string
	timeout time.Duration
	hook    ShutdownHook
}

type fakeHost struct {
	mu        sync.Mutex
	schemas   []Schema
	providers map[string]STTProvider
	hooks     []registeredHook
	loggers   []string
	schemaErr error
}

func newFakeHost() *fakeHost {
	return &fakeHost{providers: make(map[string]STTProvider)}
}

func (h *fakeHost) RegisterConfigSchema(s Schema) error {
	if h.schemaErr != nil {
		return h.schemaErr
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.schemas = append(h.schemas, s)
	return nil
}

func (h *fakeHost) RegisterSTTProvider(name string, p STTProvider) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.providers[name]; ok {
		return stderrors.New("duplicate provider")
	}
	h.providers[name] = p
	return nil
}

func (h *fakeHost) ComponentLogger(name string) *logger.Logger {
	h.mu.Lock()
	h.loggers = append(h.loggers, name)
	h.mu.Unlock()
	return logger.NewNop()
}

func (h *fakeHost) OnShutdown(name string, timeout time.Duration, hook ShutdownHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, registeredHook{name: name, timeout: timeout, hook: hook})
}

// staticBackend is always healthy and never transcribes.
type staticBackend struct{}

func (staticBackend) Name() string { return "static" }

func (staticBackend) IsAvailable(context.Context) bool { return true }

func (staticBackend) TranscribeAudio(context.Context, []byte, string) (string, error) {
	return "", nil
}

func (staticBackend) Transcribe(context.Context, transcription.Request) (*transcription.Response, error) {
	return &transcription.Response{}, nil
}

func TestInit_RegistersEverything(t *testing.T) {
	host := newFakeHost()
	p := New(stt.Config{Model: "small"}, testutil.NewMockManager(), stt.WithTranscriber(staticBackend{}))

	require.NoError(t, p.Init(context.Background(), host))

	require.Len(t, host.schemas, 1)
	assert.Equal(t, Name, host.schemas[0].Name)
	assert.Same(t, p.Provider(), host.providers[Name])
	require.Len(t, host.hooks, 1)
	assert.Equal(t, Name, host.hooks[0].name)
	assert.Equal(t, 10*time.Second, host.hooks[0].timeout)
	assert.Equal(t, []string{Name}, host.loggers)
	assert.Equal(t, "small", p.Provider().Config().Model)

	require.NoError(t, host.hooks[0].hook(context.Background()))
}

func TestInit_InvalidConfig(t *testing.T) {
	host := newFakeHost()
	p := New(stt.Config{Port: 80}, testutil.NewMockManager())

	err := p.Init(context.Background(), host)

	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPort))
	assert.Empty(t, host.providers)
	assert.Empty(t, host.hooks)
	assert.Nil(t, p.Provider())
}

func TestInit_SchemaRejected(t *testing.T) {
	host := newFakeHost()
	host.schemaErr = stderrors.New("schema conflict")

	err := New(stt.Config{}, testutil.NewMockManager()).Init(context.Background(), host)
	assert.ErrorIs(t, err, host.schemaErr)
}

func TestInit_Twice(t *testing.T) {
	host := newFakeHost()
	p := New(stt.Config{}, testutil.NewMockManager(), stt.WithTranscriber(staticBackend{}))

	require.NoError(t, p.Init(context.Background(), host))
	assert.Error(t, p.Init(context.Background(), host))
}

func TestSeparatePluginsOwnSeparateProviders(t *testing.T) {
	a := New(stt.Config{Port: 9001}, testutil.NewMockManager(), stt.WithTranscriber(staticBackend{}))
	b := New(stt.Config{Port: 9002}, testutil.NewMockManager(), stt.WithTranscriber(staticBackend{}))

	require.NoError(t, a.Init(context.Background(), newFakeHost()))
	require.NoError(t, b.Init(context.Background(), newFakeHost()))

	assert.NotSame(t, a.Provider(), b.Provider())
	assert.Equal(t, 9001, a.Provider().Config().Port)
	assert.Equal(t, 9002, b.Provider().Config().Port)
}

func TestShutdown(t *testing.T) {
	p := New(stt.Config{}, testutil.NewMockManager(), stt.WithTranscriber(staticBackend{}))
	require.NoError(t, p.Shutdown(context.Background()))

	require.NoError(t, p.Init(context.Background(), newFakeHost()))
	require.NoError(t, p.Shutdown(context.Background()))
	require.NoError(t, p.Shutdown(context.Background()))
}

func TestTools(t *testing.T) {
	p := New(stt.Config{Model: "large-v3"}, testutil.NewMockManager(), stt.WithTranscriber(staticBackend{}))

	tools := p.Tools()
	require.Len(t, tools, 2)
	assert.Equal(t, ToolGetStatus, tools[0].Name)
	assert.Equal(t, ToolListModels, tools[1].Name)

	_, err := tools[0].Handler(context.Background())
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))

	require.NoError(t, p.Init(context.Background(), newFakeHost()))

	tool, ok := p.Tool(ToolListModels)
	require.True(t, ok)
	out, err := tool.Handler(context.Background())
	require.NoError(t, err)
	models, ok := out.(stt.ModelList)
	require.True(t, ok)
	assert.Equal(t, "large-v3", models.Current)
	assert.Len(t, models.Models, 5)

	tool, ok = p.Tool(ToolGetStatus)
	require.True(t, ok)
	out, err = tool.Handler(context.Background())
	require.NoError(t, err)
	status, ok := out.(stt.StatusReport)
	require.True(t, ok)
	assert.True(t, status.Healthy)
	assert.Equal(t, "large-v3", status.Model)

	_, ok = p.Tool("delete_everything")
	assert.False(t, ok)
}

func TestConfigSchema(t *testing.T) {
	s := ConfigSchema()

	model, ok := s.Field("model")
	require.True(t, ok)
	assert.Equal(t, FieldEnum, model.Type)
	assert.Equal(t, []string{"tiny", "base", "small", "medium", "large-v3"}, model.Enum)

	port, ok := s.Field("port")
	require.True(t, ok)
	assert.Equal(t, FieldNumber, port.Type)
	require.NotNil(t, port.Min)
	assert.Equal(t, 1024, *port.Min)
	assert.Equal(t, 65535, *port.Max)

	for _, name := range []string{"language", "image"} {
		f, ok := s.Field(name)
		require.True(t, ok, name)
		assert.Equal(t, FieldString, f.Type)
	}

	wt, ok := s.Field("word_timestamps")
	require.True(t, ok)
	assert.Equal(t, FieldBoolean, wt.Type)

	_, ok = s.Field("api_key")
	assert.False(t, ok)
}
