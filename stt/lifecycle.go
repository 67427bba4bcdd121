package stt

import (
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/singleflight"

	"github.com/kbukum/localstt/component"
	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/observability"
	"github.com/kbukum/localstt/resilience"
	"github.com/kbukum/localstt/workload"
)

const (
	defaultPollInterval = time.Second
	defaultStartTimeout = 60 * time.Second

	startKey = "start"
)

// HealthProber reports whether the inference server answers its health probe.
// Implementations bound the probe themselves and never return an error.
type HealthProber interface {
	IsAvailable(ctx context.Context) bool
}

// Lifecycle guarantees a healthy inference server before transcription.
// It starts the server container when the probe fails, shares one in-flight
// start among all concurrent callers, and tears the container down on Shutdown.
type Lifecycle struct {
	cfg     Config
	manager workload.Manager
	prober  HealthProber
	log     *logger.Logger
	metrics *observability.STTMetrics

	pollInterval time.Duration
	startTimeout time.Duration
	onProgress   workload.ProgressFunc

	group    singleflight.Group
	starting atomic.Bool

	mu          sync.Mutex
	containerID string
	release     component.Stack
}

// NewLifecycle creates a lifecycle for the server described by cfg.
func NewLifecycle(cfg Config, manager workload.Manager, prober HealthProber, log *logger.Logger) *Lifecycle {
	if log == nil {
		log = logger.NewNop()
	}
	return &Lifecycle{
		cfg:          cfg,
		manager:      manager,
		prober:       prober,
		log:          log.WithComponent("stt.lifecycle"),
		pollInterval: defaultPollInterval,
		startTimeout: defaultStartTimeout,
	}
}

// ContainerID returns the ID of the container this lifecycle started, or ""
// when it owns none. An empty ID does not mean the server is down; it may be
// running outside this process.
func (l *Lifecycle) ContainerID() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.containerID
}

// Starting reports whether a start operation is in flight.
func (l *Lifecycle) Starting() bool {
	return l.starting.Load()
}

// EnsureRunning returns once the server is healthy. When no start is in
// flight and the probe succeeds it returns immediately. Otherwise it joins
// the shared start operation; every caller observes the same outcome. The
// start itself is not cancelled when ctx ends, only this caller's wait.
func (l *Lifecycle) EnsureRunning(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, observability.SpanEnsureRunning)
	defer span.End()

	if !l.starting.Load() && l.prober.IsAvailable(ctx) {
		return nil
	}

	startCtx := context.WithoutCancel(ctx)
	ch := l.group.DoChan(startKey, func() (any, error) {
		l.starting.Store(true)
		defer l.starting.Store(false)
		return nil, l.start(startCtx)
	})

	select {
	case res := <-ch:
		observability.SetSpanError(ctx, res.Err)
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// start brings the server up: re-probe, pull, create and start, then poll.
// When a container is already owned only the poll runs.
func (l *Lifecycle) start(ctx context.Context) (err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanServerStart,
		attribute.String(observability.AttrImage, l.cfg.Image),
		attribute.String(observability.AttrModel, l.cfg.Model),
	)
	defer span.End()

	begin := time.Now()
	defer func() {
		outcome := observability.OutcomeOK
		switch {
		case errors.IsCode(err, errors.ErrCodeServerStartTimeout):
			outcome = observability.OutcomeTimeout
		case err != nil:
			outcome = observability.OutcomeError
		}
		l.metrics.RecordServerStart(ctx, outcome)
		observability.SetSpanError(ctx, err)
	}()

	if l.prober.IsAvailable(ctx) {
		l.log.Debug("inference server already healthy", logger.Fields(logger.FieldPort, l.cfg.Port))
		return nil
	}

	// A container kept from a timed-out start still holds the host port, so
	// wait on it again instead of creating another.
	if id := l.ContainerID(); id != "" {
		l.log.Info("waiting for owned inference server", logger.Fields(logger.FieldContainerID, id))
	} else {
		l.log.Info("starting inference server", logger.Fields(
			logger.FieldImage, l.cfg.Image,
			logger.FieldModel, l.cfg.Model,
			logger.FieldPort, l.cfg.Port,
		))

		if err := l.manager.PullImage(ctx, l.cfg.Image, l.onProgress); err != nil {
			l.log.Warn("image pull failed, using local image", logger.MergeWithError(
				logger.Fields(logger.FieldImage, l.cfg.Image), err))
		}

		if err := l.launch(ctx); err != nil {
			return err
		}
	}

	pollErr := resilience.Poll(ctx, resilience.PollConfig{
		Interval: l.pollInterval,
		Timeout:  l.startTimeout,
	}, l.prober.IsAvailable)
	if stderrors.Is(pollErr, resilience.ErrPollTimeout) {
		l.log.Error("inference server did not become healthy", logger.Fields(
			"timeout", l.startTimeout.String(),
			logger.FieldContainerID, l.ContainerID(),
		))
		return errors.ServerStartTimeout(l.startTimeout)
	}
	if pollErr != nil {
		return pollErr
	}

	l.log.Info("inference server ready", logger.DurationFields("start", time.Since(begin)))
	return nil
}

// launch creates and starts the container. A container that was created
// but failed to start is removed again.
func (l *Lifecycle) launch(ctx context.Context) error {
	res, err := l.manager.Create(ctx, workload.DeployRequest{
		Image: l.cfg.Image,
		Environment: map[string]string{
			"MODEL":    l.cfg.Model,
			"LANGUAGE": l.cfg.Language,
		},
		Labels: map[string]string{"localstt.model": l.cfg.Model},
		Ports: []workload.PortMapping{
			{Host: l.cfg.Port, Container: containerPort, Protocol: "tcp"},
		},
		AutoRemove: true,
	})
	if err != nil {
		return err
	}
	id := res.ID

	if err := l.manager.Start(ctx, id); err != nil {
		if rmErr := l.manager.Remove(context.WithoutCancel(ctx), id); rmErr != nil {
			l.log.Warn("failed to remove unstarted container", logger.MergeWithError(
				logger.Fields(logger.FieldContainerID, id), rmErr))
		}
		return err
	}

	l.mu.Lock()
	l.containerID = id
	l.release.Push("remove", func(ctx context.Context) error { return l.manager.Remove(ctx, id) })
	l.release.Push("stop", func(ctx context.Context) error { return l.manager.Stop(ctx, id) })
	l.mu.Unlock()

	l.log.Info("inference server container started", logger.Fields(logger.FieldContainerID, id))
	return nil
}

// Detach releases ownership of the running server without stopping it and
// returns its container ID, or "" when none is owned. A later Shutdown is a
// no-op.
func (l *Lifecycle) Detach() string {
	l.mu.Lock()
	id := l.containerID
	l.containerID = ""
	l.mu.Unlock()

	if n := l.release.Discard(); n > 0 {
		l.log.Info("inference server left running", logger.Fields(logger.FieldContainerID, id))
	}
	return id
}

// Shutdown stops and removes the owned container, if any. Cleanup failures
// are logged and swallowed and the handle is cleared regardless. Safe to
// call more than once.
func (l *Lifecycle) Shutdown(ctx context.Context) error {
	l.mu.Lock()
	id := l.containerID
	l.containerID = ""
	l.mu.Unlock()

	if id == "" && l.release.Len() == 0 {
		return nil
	}

	l.log.Info("stopping inference server", logger.Fields(logger.FieldContainerID, id))
	if err := l.release.Unwind(ctx); err != nil {
		l.log.Warn("inference server cleanup incomplete", logger.MergeWithError(
			logger.Fields(logger.FieldContainerID, id), err))
	}
	return nil
}
