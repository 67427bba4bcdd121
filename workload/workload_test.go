package workload_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kbukum/localstt/component"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/workload"
	"github.com/kbukum/localstt/workload/testutil"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := workload.Config{}
	cfg.ApplyDefaults()

	assert.Equal(t, workload.ProviderDocker, cfg.Provider)
	assert.Equal(t, "localstt", cfg.DefaultLabels["app"])
	assert.NoError(t, cfg.Validate())
}

func TestConfig_KeepsLabels(t *testing.T) {
	cfg := workload.Config{DefaultLabels: map[string]string{"app": "custom"}}
	cfg.ApplyDefaults()

	assert.Equal(t, "custom", cfg.DefaultLabels["app"])
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := workload.New(workload.Config{Provider: "podman"}, nil, logger.NewNop())

	assert.ErrorContains(t, err, `unsupported provider "podman"`)
}

func TestNew_RegisteredFactory(t *testing.T) {
	mock := testutil.NewMockManager()
	workload.RegisterFactory("mock", func(workload.Config, any, *logger.Logger) (workload.Manager, error) {
		return mock, nil
	})

	m, err := workload.New(workload.Config{Provider: "mock"}, nil, logger.NewNop())

	assert.NoError(t, err)
	assert.Same(t, mock, m)
	assert.Contains(t, workload.Providers(), "mock")
}

func TestComponent_Health(t *testing.T) {
	mock := testutil.NewMockManager()
	c := workload.NewComponent(mock, workload.ProviderDocker)
	ctx := context.Background()

	assert.NoError(t, c.Start(ctx))
	assert.Equal(t, component.StatusHealthy, c.Health(ctx).Status)

	mock.HealthErr = errors.New("daemon not running")
	h := c.Health(ctx)
	assert.Equal(t, component.StatusUnhealthy, h.Status)
	assert.Contains(t, h.Message, "daemon not running")
	assert.Equal(t, "provider=docker", c.Describe().Details)
	assert.NoError(t, c.Stop(ctx))
}
