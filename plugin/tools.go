package plugin

import (
	"context"
)

// ToolHandler answers one tool invocation.
type ToolHandler func(ctx context.Context) (any, error)

// Tool is a read-only introspection command a host can expose.
type Tool struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Handler     ToolHandler `json:"-"`
}

// Tool names.
const (
	ToolGetStatus  = "get_status"
	ToolListModels = "list_models"
)

// Tools returns the introspection tools. Their handlers fail with
// SERVICE_UNAVAILABLE until Init has run.
func (p *Plugin) Tools() []Tool {
	return []Tool{
		{
			Name:        ToolGetStatus,
			Description: "Report provider name, version, capabilities and server health",
			Handler: func(ctx context.Context) (any, error) {
				prov, err := p.requireProvider()
				if err != nil {
					return nil, err
				}
				return prov.Status(ctx), nil
			},
		},
		{
			Name:        ToolListModels,
			Description: "List the supported models and the configured one",
			Handler: func(context.Context) (any, error) {
				prov, err := p.requireProvider()
				if err != nil {
					return nil, err
				}
				return prov.ListModels(), nil
			},
		},
	}
}

// Tool returns the tool called name.
func (p *Plugin) Tool(name string) (Tool, bool) {
	for _, t := range p.Tools() {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}
