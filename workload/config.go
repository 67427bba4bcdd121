package workload

import "fmt"

const (
	DefaultProvider = ProviderDocker
)

// Config holds runtime-agnostic container settings.
type Config struct {
	Provider      string            `yaml:"provider" mapstructure:"provider" json:"provider"`
	DefaultLabels map[string]string `yaml:"default_labels" mapstructure:"default_labels" json:"default_labels"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = DefaultProvider
	}
	if c.DefaultLabels == nil {
		c.DefaultLabels = map[string]string{}
	}
	if _, ok := c.DefaultLabels["app"]; !ok {
		c.DefaultLabels["app"] = "localstt"
	}
}

// Validate checks that the core configuration is valid.
func (c *Config) Validate() error {
	if c.Provider == "" {
		return fmt.Errorf("workload: provider is required")
	}
	return nil
}
