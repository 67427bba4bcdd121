package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kbukum/localstt/workload"
)

// MockContainer is the state the mock keeps per created container.
type MockContainer struct {
	Request workload.DeployRequest
	Status  string
}

// MockManager is an in-memory workload.Manager that records every call.
// Set the error fields before use to inject failures.
type MockManager struct {
	PullErr   error
	CreateErr error
	StartErr  error
	StopErr   error
	RemoveErr error
	HealthErr error

	// Progress is replayed to the caller's ProgressFunc on every pull.
	Progress []workload.PullProgress
	// OnStart runs after a successful Start, before it returns.
	OnStart func(id string)
	// BeforeCreate runs at the top of Create; it may block to widen race windows.
	BeforeCreate func(ctx context.Context)

	mu         sync.Mutex
	containers map[string]*MockContainer
	nextID     int
	calls      []string
}

var _ workload.Manager = (*MockManager)(nil)

// NewMockManager creates an empty mock manager.
func NewMockManager() *MockManager {
	return &MockManager{containers: make(map[string]*MockContainer)}
}

func (m *MockManager) record(call string) {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.mu.Unlock()
}

// Calls returns the recorded calls in order, e.g. "pull:img", "create", "start:mock-1".
func (m *MockManager) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// Count returns how many recorded calls start with op.
func (m *MockManager) Count(op string) int {
	n := 0
	for _, c := range m.Calls() {
		if c == op || strings.HasPrefix(c, op+":") {
			n++
		}
	}
	return n
}

// Container returns the state of a created container.
func (m *MockManager) Container(id string) (MockContainer, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[id]
	if !ok {
		return MockContainer{}, false
	}
	return *c, true
}

// Len returns the number of containers that exist (created and not removed).
func (m *MockManager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.containers)
}

func (m *MockManager) PullImage(_ context.Context, image string, onProgress workload.ProgressFunc) error {
	m.record("pull:" + image)
	if m.PullErr != nil {
		return m.PullErr
	}
	if onProgress != nil {
		for _, p := range m.Progress {
			onProgress(p)
		}
	}
	return nil
}

func (m *MockManager) Create(ctx context.Context, req workload.DeployRequest) (*workload.DeployResult, error) {
	if m.BeforeCreate != nil {
		m.BeforeCreate(ctx)
	}
	m.record("create")
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("mock-%d", m.nextID)
	m.containers[id] = &MockContainer{Request: req, Status: workload.StatusCreated}
	m.mu.Unlock()

	return &workload.DeployResult{ID: id, Name: req.Name, Status: workload.StatusCreated}, nil
}

func (m *MockManager) Start(_ context.Context, id string) error {
	m.record("start:" + id)
	if m.StartErr != nil {
		return m.StartErr
	}
	if err := m.setStatus(id, workload.StatusRunning); err != nil {
		return err
	}
	if m.OnStart != nil {
		m.OnStart(id)
	}
	return nil
}

func (m *MockManager) Stop(_ context.Context, id string) error {
	m.record("stop:" + id)
	if m.StopErr != nil {
		return m.StopErr
	}
	return m.setStatus(id, workload.StatusStopped)
}

func (m *MockManager) Remove(_ context.Context, id string) error {
	m.record("remove:" + id)
	if m.RemoveErr != nil {
		return m.RemoveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.containers[id]; !ok {
		return fmt.Errorf("container %q not found", id)
	}
	delete(m.containers, id)
	return nil
}

func (m *MockManager) HealthCheck(context.Context) error {
	return m.HealthErr
}

func (m *MockManager) setStatus(id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[id]
	if !ok {
		return fmt.Errorf("container %q not found", id)
	}
	c.Status = status
	return nil
}
