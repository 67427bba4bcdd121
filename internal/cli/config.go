package cli

import (
	"fmt"

	"github.com/kbukum/localstt/config"
	"github.com/kbukum/localstt/observability"
	"github.com/kbukum/localstt/server"
	"github.com/kbukum/localstt/stt"
	"github.com/kbukum/localstt/version"
	"github.com/kbukum/localstt/workload"
	"github.com/kbukum/localstt/workload/docker"
)

// AppConfig is the full localstt configuration file.
//
//	name: localstt
//	logging:
//	  level: info
//	stt:
//	  model: small
//	  port: 8000
//	docker:
//	  platform: linux/amd64
//	server:
//	  port: 8090
type AppConfig struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	STT           stt.Config           `yaml:"stt" mapstructure:"stt"`
	Workload      workload.Config      `yaml:"workload" mapstructure:"workload"`
	Docker        docker.Config        `yaml:"docker" mapstructure:"docker"`
	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults fills every section's zero-valued fields.
func (c *AppConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	if c.Version == "" {
		c.Version = version.Get().Version
	}
	c.ServiceConfig.ApplyDefaults()
	c.STT.ApplyDefaults()
	c.Workload.ApplyDefaults()
	c.Docker.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Observability.ApplyDefaults()
}

// Validate validates every section. STT errors are returned unwrapped so
// their error codes survive.
func (c *AppConfig) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.STT.Validate(); err != nil {
		return err
	}
	if err := c.Workload.Validate(); err != nil {
		return err
	}
	if err := c.Docker.Validate(); err != nil {
		return err
	}
	if err := c.Server.Validate(); err != nil {
		return err
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	return nil
}
