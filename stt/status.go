package stt

import (
	"context"
	"slices"
)

// Capabilities describes what the provider can do.
type Capabilities struct {
	Streaming      bool     `json:"streaming"`
	Batch          bool     `json:"batch"`
	WordTimestamps bool     `json:"word_timestamps"`
	Models         []string `json:"models"`
}

// StatusReport is the read-only status of the provider. It never carries
// registry credentials or other secrets.
type StatusReport struct {
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	Version      string       `json:"version"`
	Capabilities Capabilities `json:"capabilities"`
	Healthy      bool         `json:"healthy"`
	Starting     bool         `json:"starting"`
	Managed      bool         `json:"managed"`
	Model        string       `json:"model"`
	Language     string       `json:"language"`
	Port         int          `json:"port"`
}

// ModelList is the set of supported models and the configured one.
type ModelList struct {
	Models  []string `json:"models"`
	Current string   `json:"current"`
}

// Status probes the server and reports the provider state. Managed is true
// when this process started the server container.
func (p *Provider) Status(ctx context.Context) StatusReport {
	return StatusReport{
		Name:    ProviderName,
		Type:    ProviderType,
		Version: p.version,
		Capabilities: Capabilities{
			Streaming:      false,
			Batch:          true,
			WordTimestamps: true,
			Models:         slices.Clone(SupportedModels),
		},
		Healthy:  p.HealthCheck(ctx),
		Starting: p.lifecycle.Starting(),
		Managed:  p.lifecycle.ContainerID() != "",
		Model:    p.cfg.Model,
		Language: p.cfg.Language,
		Port:     p.cfg.Port,
	}
}

// ListModels returns the supported models and the configured model.
func (p *Provider) ListModels() ModelList {
	return ModelList{
		Models:  slices.Clone(SupportedModels),
		Current: p.cfg.Model,
	}
}
