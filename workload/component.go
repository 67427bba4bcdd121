package workload

import (
	"context"
	"fmt"

	"github.com/kbukum/localstt/component"
)

// Component exposes runtime reachability to the host's health report.
// It owns no containers; the STT lifecycle does.
type Component struct {
	manager  Manager
	provider string
}

var _ component.Component = (*Component)(nil)

// NewComponent wraps an existing manager.
func NewComponent(m Manager, provider string) *Component {
	return &Component{manager: m, provider: provider}
}

// Manager returns the wrapped manager.
func (c *Component) Manager() Manager {
	return c.manager
}

func (c *Component) Name() string { return "workload" }

func (c *Component) Start(context.Context) error { return nil }

func (c *Component) Stop(context.Context) error { return nil }

func (c *Component) Health(ctx context.Context) component.Health {
	if err := c.manager.HealthCheck(ctx); err != nil {
		return component.Health{
			Name:    c.Name(),
			Status:  component.StatusUnhealthy,
			Message: fmt.Sprintf("runtime unreachable: %v", err),
		}
	}
	return component.Health{Name: c.Name(), Status: component.StatusHealthy}
}

func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    "Container runtime",
		Type:    "workload",
		Details: fmt.Sprintf("provider=%s", c.provider),
	}
}
