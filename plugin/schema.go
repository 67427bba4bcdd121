package plugin

import (
	"slices"

	"github.com/kbukum/localstt/stt"
)

// FieldType is the type of a configuration field.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldBoolean FieldType = "boolean"
	FieldEnum    FieldType = "enum"
)

// SchemaField describes one configuration field.
type SchemaField struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Description string    `json:"description,omitempty"`
	Default     any       `json:"default,omitempty"`
	Enum        []string  `json:"enum,omitempty"`
	Min         *int      `json:"min,omitempty"`
	Max         *int      `json:"max,omitempty"`
}

// Schema is the configuration a plugin accepts.
type Schema struct {
	Name   string        `json:"name"`
	Fields []SchemaField `json:"fields"`
}

// Field returns the field called name.
func (s Schema) Field(name string) (SchemaField, bool) {
	i := slices.IndexFunc(s.Fields, func(f SchemaField) bool { return f.Name == name })
	if i < 0 {
		return SchemaField{}, false
	}
	return s.Fields[i], true
}

// ConfigSchema describes stt.Config for hosts.
func ConfigSchema() Schema {
	minPort, maxPort := stt.MinPort, stt.MaxPort
	return Schema{
		Name: Name,
		Fields: []SchemaField{
			{
				Name:        "model",
				Type:        FieldEnum,
				Description: "Whisper model loaded by the inference server",
				Default:     stt.DefaultModel,
				Enum:        slices.Clone(stt.SupportedModels),
			},
			{
				Name:        "port",
				Type:        FieldNumber,
				Description: "Host port the inference server is published on",
				Default:     stt.DefaultPort,
				Min:         &minPort,
				Max:         &maxPort,
			},
			{
				Name:        "language",
				Type:        FieldString,
				Description: "Default language of the audio",
				Default:     stt.DefaultLanguage,
			},
			{
				Name:        "image",
				Type:        FieldString,
				Description: "Container image of the inference server",
				Default:     stt.DefaultImage,
			},
			{
				Name:        "word_timestamps",
				Type:        FieldBoolean,
				Description: "Request per-word timing",
				Default:     false,
			},
		},
	}
}
