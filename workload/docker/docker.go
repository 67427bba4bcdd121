package docker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/docker/go-connections/nat"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"

	"github.com/kbukum/localstt/logger"
	"github.com/kbukum/localstt/resilience"
	"github.com/kbukum/localstt/workload"
)

func init() {
	workload.RegisterFactory(workload.ProviderDocker, func(cfg workload.Config, providerCfg any, log *logger.Logger) (workload.Manager, error) {
		c := &Config{}
		if providerCfg != nil {
			pc, ok := providerCfg.(*Config)
			if !ok {
				return nil, fmt.Errorf("docker: expected *docker.Config, got %T", providerCfg)
			}
			c = pc
		}
		c.ApplyDefaults()
		if err := c.Validate(); err != nil {
			return nil, err
		}
		return NewManager(c, cfg.DefaultLabels, log)
	})
}

// managedByLabel marks every container this package creates.
const managedByLabel = "managed-by"

// apiClient is the subset of the Engine API the manager uses.
type apiClient interface {
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig,
		networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

// Manager implements workload.Manager using the Docker Engine SDK.
type Manager struct {
	client        apiClient
	cfg           *Config
	defaultLabels map[string]string
	log           *logger.Logger
}

var _ workload.Manager = (*Manager)(nil)

// NewManager creates a Docker manager. The daemon is not contacted until the first call.
func NewManager(cfg *Config, defaultLabels map[string]string, log *logger.Logger) (*Manager, error) {
	opts := []client.Opt{client.FromEnv}
	if cfg.Host != "" {
		opts = append(opts, client.WithHost(cfg.Host))
	}
	if cfg.APIVersion != "" {
		opts = append(opts, client.WithVersion(cfg.APIVersion))
	} else {
		opts = append(opts, client.WithAPIVersionNegotiation())
	}

	cli, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("docker: create client: %w", err)
	}
	return newManager(cli, cfg, defaultLabels, log), nil
}

func newManager(api apiClient, cfg *Config, defaultLabels map[string]string, log *logger.Logger) *Manager {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.NewNop()
	}
	return &Manager{
		client:        api,
		cfg:           cfg,
		defaultLabels: defaultLabels,
		log:           log,
	}
}

// Close releases the API client.
func (m *Manager) Close() error {
	return m.client.Close()
}

// PullImage pulls ref, retrying transient failures. Progress lines from the
// daemon are decoded and forwarded to onProgress.
func (m *Manager) PullImage(ctx context.Context, ref string, onProgress workload.ProgressFunc) error {
	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = m.cfg.PullAttempts
	retry.RetryIf = func(err error) bool {
		return resilience.DefaultRetryIf(err) && !client.IsErrNotFound(err)
	}
	retry.OnRetry = func(attempt int, err error, _ time.Duration) {
		m.log.Warn("image pull failed, retrying", logger.Fields(
			logger.FieldImage, ref, "attempt", attempt, logger.FieldError, err.Error()))
	}

	return resilience.Retry(ctx, retry, func(ctx context.Context) error {
		return m.pullOnce(ctx, ref, onProgress)
	})
}

func (m *Manager) pullOnce(ctx context.Context, ref string, onProgress workload.ProgressFunc) error {
	m.log.Info("pulling image", logger.Fields(logger.FieldImage, ref))

	reader, err := m.client.ImagePull(ctx, ref, image.PullOptions{Platform: m.cfg.Platform})
	if err != nil {
		return fmt.Errorf("docker: pull %s: %w", ref, err)
	}
	defer func() { _ = reader.Close() }()

	if err := decodePullStream(reader, onProgress); err != nil {
		return fmt.Errorf("docker: pull %s: %w", ref, err)
	}
	return nil
}

// decodePullStream reads the daemon's JSON message stream to completion.
// An error message embedded in the stream fails the pull.
func decodePullStream(r io.Reader, onProgress workload.ProgressFunc) error {
	dec := json.NewDecoder(r)
	for {
		var msg jsonmessage.JSONMessage
		if err := dec.Decode(&msg); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("decode progress: %w", err)
		}
		if msg.Error != nil {
			return msg.Error
		}
		if onProgress == nil {
			continue
		}
		p := workload.PullProgress{ID: msg.ID, Status: msg.Status}
		if msg.Progress != nil {
			p.Current = msg.Progress.Current
			p.Total = msg.Progress.Total
		}
		onProgress(p)
	}
}

// Create creates a container without starting it.
func (m *Manager) Create(ctx context.Context, req workload.DeployRequest) (*workload.DeployResult, error) {
	containerCfg, hostCfg, platform := m.buildConfigs(req)

	resp, err := m.client.ContainerCreate(ctx, containerCfg, hostCfg, nil, platform, req.Name)
	if err != nil {
		return nil, fmt.Errorf("docker: create container: %w", err)
	}
	for _, w := range resp.Warnings {
		m.log.Warn("container create warning", logger.Fields(logger.FieldContainerID, shortID(resp.ID), "warning", w))
	}

	m.log.Info("container created", logger.Fields(
		logger.FieldContainerID, shortID(resp.ID),
		logger.FieldImage, req.Image,
	))
	return &workload.DeployResult{
		ID:     resp.ID,
		Name:   req.Name,
		Status: workload.StatusCreated,
	}, nil
}

// Start starts a created container.
func (m *Manager) Start(ctx context.Context, id string) error {
	if err := m.client.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return fmt.Errorf("docker: start container: %w", err)
	}
	m.log.Info("container started", logger.Fields(logger.FieldContainerID, shortID(id)))
	return nil
}

// Stop gracefully stops a container, killing it after the configured timeout.
func (m *Manager) Stop(ctx context.Context, id string) error {
	timeout := int(m.cfg.StopTimeout.Seconds())
	if err := m.client.ContainerStop(ctx, id, container.StopOptions{Timeout: &timeout}); err != nil {
		return fmt.Errorf("docker: stop container: %w", err)
	}
	return nil
}

// Remove force-removes a container and its anonymous volumes. A container
// that is already gone counts as removed.
func (m *Manager) Remove(ctx context.Context, id string) error {
	err := m.client.ContainerRemove(ctx, id, container.RemoveOptions{
		RemoveVolumes: true,
		Force:         true,
	})
	if err != nil {
		if client.IsErrNotFound(err) {
			m.log.Debug("container already removed", logger.Fields(logger.FieldContainerID, shortID(id)))
			return nil
		}
		return fmt.Errorf("docker: remove container: %w", err)
	}
	return nil
}

// HealthCheck verifies the daemon answers.
func (m *Manager) HealthCheck(ctx context.Context) error {
	if _, err := m.client.Ping(ctx); err != nil {
		return fmt.Errorf("docker: health check failed: %w", err)
	}
	return nil
}

// buildConfigs converts a DeployRequest into Docker-specific configs.
func (m *Manager) buildConfigs(req workload.DeployRequest) (*container.Config, *container.HostConfig, *ocispec.Platform) {
	labels := make(map[string]string, len(m.defaultLabels)+len(req.Labels)+1)
	maps.Copy(labels, m.defaultLabels)
	maps.Copy(labels, req.Labels)
	labels[managedByLabel] = "localstt"

	env := make([]string, 0, len(req.Environment))
	for _, k := range slices.Sorted(maps.Keys(req.Environment)) {
		env = append(env, k+"="+req.Environment[k])
	}

	containerCfg := &container.Config{
		Image:  req.Image,
		Env:    env,
		Labels: labels,
	}

	exposedPorts := nat.PortSet{}
	portBindings := nat.PortMap{}
	for _, p := range req.Ports {
		proto := p.Protocol
		if proto == "" {
			proto = "tcp"
		}
		containerPort := nat.Port(fmt.Sprintf("%d/%s", p.Container, proto))
		exposedPorts[containerPort] = struct{}{}
		if p.Host > 0 {
			portBindings[containerPort] = []nat.PortBinding{
				{HostIP: "127.0.0.1", HostPort: strconv.Itoa(p.Host)},
			}
		}
	}
	if len(exposedPorts) > 0 {
		containerCfg.ExposedPorts = exposedPorts
	}

	hostCfg := &container.HostConfig{
		AutoRemove:   req.AutoRemove,
		PortBindings: portBindings,
	}

	plat := req.Platform
	if plat == "" {
		plat = m.cfg.Platform
	}
	return containerCfg, hostCfg, parsePlatform(plat)
}

// parsePlatform turns "os/arch[/variant]" into an OCI platform, nil when empty or malformed.
func parsePlatform(s string) *ocispec.Platform {
	parts := strings.Split(s, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}
	p := &ocispec.Platform{OS: parts[0], Architecture: parts[1]}
	if len(parts) > 2 {
		p.Variant = parts[2]
	}
	return p
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
