package docker

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config holds Docker-specific settings.
type Config struct {
	// Host is the daemon address; empty means the DOCKER_HOST environment or the default socket.
	Host       string `yaml:"host" mapstructure:"host" json:"host"`
	APIVersion string `yaml:"api_version" mapstructure:"api_version" json:"api_version"`
	// Platform pins pulls and creates, e.g. "linux/amd64".
	Platform     string        `yaml:"platform" mapstructure:"platform" json:"platform"`
	StopTimeout  time.Duration `yaml:"stop_timeout" mapstructure:"stop_timeout" json:"stop_timeout"`
	PullAttempts int           `yaml:"pull_attempts" mapstructure:"pull_attempts" json:"pull_attempts"`
}

// ApplyDefaults fills in zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.StopTimeout <= 0 {
		c.StopTimeout = 10 * time.Second
	}
	if c.PullAttempts <= 0 {
		c.PullAttempts = 2
	}
}

// Validate checks the Docker configuration.
func (c *Config) Validate() error {
	if c.StopTimeout < time.Second {
		return errors.New("docker: stop_timeout must be at least 1s")
	}
	if c.Platform != "" && len(strings.Split(c.Platform, "/")) < 2 {
		return fmt.Errorf("docker: platform must look like os/arch (got: %s)", c.Platform)
	}
	return nil
}
