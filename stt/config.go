package stt

import (
	"fmt"

	"github.com/kbukum/localstt/errors"
	"github.com/kbukum/localstt/validation"
)

// Defaults applied to zero-valued Config fields.
const (
	DefaultImage    = "fedirz/faster-whisper-server:latest-cpu"
	DefaultModel    = "base"
	DefaultPort     = 8000
	DefaultLanguage = "en"

	MinPort = 1024
	MaxPort = 65535

	// containerPort is where the inference server listens inside its container.
	containerPort = 8000
)

// SupportedModels lists the model identifiers the inference server accepts.
var SupportedModels = []string{"tiny", "base", "small", "medium", "large-v3"}

// Config configures the local STT provider. Zero-valued fields mean "use the
// default": a zero Port becomes DefaultPort and an empty Model becomes
// DefaultModel before validation, so only explicit values can fail it.
type Config struct {
	Image          string `mapstructure:"image" yaml:"image" json:"image" validate:"required"`
	Model          string `mapstructure:"model" yaml:"model" json:"model" validate:"oneof=tiny base small medium large-v3"`
	Port           int    `mapstructure:"port" yaml:"port" json:"port" validate:"min=1024,max=65535"`
	Language       string `mapstructure:"language" yaml:"language" json:"language"`
	WordTimestamps bool   `mapstructure:"word_timestamps" yaml:"word_timestamps" json:"word_timestamps"`
}

// DefaultConfig returns a Config with every default applied.
func DefaultConfig() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// ApplyDefaults fills zero-valued fields. Values already set are kept.
func (c *Config) ApplyDefaults() {
	if c.Image == "" {
		c.Image = DefaultImage
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
}

// Validate checks the model and port. A bad model is reported before a bad
// port. It performs no I/O.
func (c *Config) Validate() error {
	fields := validation.Struct(c)
	if len(fields) == 0 {
		return nil
	}
	for _, f := range fields {
		if f.Field == "model" {
			return errors.InvalidModel(c.Model, SupportedModels)
		}
	}
	for _, f := range fields {
		if f.Field == "port" {
			return errors.InvalidPort(c.Port, MinPort, MaxPort)
		}
	}
	return errors.InvalidInput(fields[0].Field, fields[0].Message)
}

// BaseURL is the inference server address on the loopback interface.
func (c Config) BaseURL() string {
	return fmt.Sprintf("http://localhost:%d", c.Port)
}
