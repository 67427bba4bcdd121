package stt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/localstt/errors"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "fedirz/faster-whisper-server:latest-cpu", cfg.Image)
	assert.Equal(t, "base", cfg.Model)
	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "en", cfg.Language)
	assert.False(t, cfg.WordTimestamps)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL())
}

func TestConfig_ApplyDefaultsKeepsOverrides(t *testing.T) {
	cfg := Config{Model: "large-v3", Port: 9100, Language: "de", WordTimestamps: true}
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultImage, cfg.Image)
	assert.Equal(t, "large-v3", cfg.Model)
	assert.Equal(t, 9100, cfg.Port)
	assert.Equal(t, "de", cfg.Language)
	assert.True(t, cfg.WordTimestamps)
}

func TestConfig_ValidateAcceptsSupportedModels(t *testing.T) {
	for _, model := range SupportedModels {
		cfg := DefaultConfig()
		cfg.Model = model
		assert.NoError(t, cfg.Validate(), model)
	}
}

func TestConfig_ValidateRejectsUnknownModel(t *testing.T) {
	for _, model := range []string{"", "huge", "large", "large-v2", "Base", "tiny.en", "base "} {
		cfg := DefaultConfig()
		cfg.Model = model

		err := cfg.Validate()
		require.Error(t, err, model)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidModel), model)
	}
}

func TestConfig_ValidatePortRange(t *testing.T) {
	for _, port := range []int{1024, 8000, 65535} {
		cfg := DefaultConfig()
		cfg.Port = port
		assert.NoError(t, cfg.Validate(), port)
	}

	for _, port := range []int{-1, 0, 80, 1023, 65536, 100000} {
		cfg := DefaultConfig()
		cfg.Port = port

		err := cfg.Validate()
		require.Error(t, err, port)
		assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidPort), port)

		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, port, appErr.Details["port"])
	}
}

func TestConfig_ValidateReportsModelBeforePort(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model = "huge"
	cfg.Port = 1

	assert.True(t, errors.IsCode(cfg.Validate(), errors.ErrCodeInvalidModel))
}

func TestConfig_ValidateRequiresImage(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Image = ""

	err := cfg.Validate()
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
}

func TestNewProvider_DoesNotValidate(t *testing.T) {
	backend := &fakeBackend{}
	p := newTestProvider(t, Config{Model: "huge", Port: 80}, newStartableManager(backend), backend)

	err := p.ValidateConfig()
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidModel))
	assert.Empty(t, backend.Requests())
	assert.Zero(t, backend.probes)
}

func TestNewProvider_ZeroPortMeansDefault(t *testing.T) {
	backend := &fakeBackend{}

	p := newTestProvider(t, Config{Port: 0}, newStartableManager(backend), backend)
	require.NoError(t, p.ValidateConfig())
	assert.Equal(t, DefaultPort, p.Config().Port)

	p = newTestProvider(t, Config{Port: MinPort - 1}, newStartableManager(backend), backend)
	assert.True(t, errors.IsCode(p.ValidateConfig(), errors.ErrCodeInvalidPort))
}
