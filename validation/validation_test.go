package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/localstt/errors"
)

type sample struct {
	Model    string `json:"model" validate:"oneof=tiny base small"`
	Port     int    `json:"port" validate:"min=1024,max=65535"`
	Image    string `json:"image" validate:"required"`
	Language string `validate:"max=8"`
}

func TestStruct_Valid(t *testing.T) {
	assert.Nil(t, Struct(sample{Model: "base", Port: 8000, Image: "img"}))
	assert.NoError(t, ValidateStruct(sample{Model: "base", Port: 8000, Image: "img"}))
}

func TestStruct_FieldErrors(t *testing.T) {
	fields := Struct(sample{Model: "huge", Port: 80, Language: "much-too-long"})
	require.Len(t, fields, 4)

	assert.Equal(t, "model", fields[0].Field)
	assert.Equal(t, "oneof", fields[0].Tag)
	assert.Equal(t, "tiny base small", fields[0].Param)
	assert.Equal(t, "huge", fields[0].Value)

	assert.Equal(t, "port", fields[1].Field)
	assert.Equal(t, "min", fields[1].Tag)
	assert.Equal(t, "must be at least 1024", fields[1].Message)

	assert.Equal(t, "image", fields[2].Field)
	assert.Equal(t, "is required", fields[2].Message)

	assert.Equal(t, "language", fields[3].Field)
	assert.Equal(t, "must be at most 8 characters", fields[3].Message)
}

func TestValidateStruct_ReturnsInvalidInput(t *testing.T) {
	err := ValidateStruct(sample{Model: "base", Port: 70000, Image: "img"})

	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidInput))
	assert.Contains(t, err.Error(), "port: must be at most 65535")
}

func TestValidator_Chain(t *testing.T) {
	v := New().
		Required("file", "").
		MaxLength("language", "english-us", 5).
		Range("port", 10, 1024, 65535).
		OneOf("model", "huge", []string{"tiny", "base"}).
		Custom(false, "audio", "must not be empty")

	require.True(t, v.HasErrors())
	require.Len(t, v.Errors(), 5)
	assert.Equal(t, "is required", v.Errors()[0].Message)
	assert.Equal(t, "must be one of: tiny, base", v.Errors()[3].Message)

	appErr := v.Validate()
	require.NotNil(t, appErr)
	assert.Equal(t, errors.ErrCodeInvalidInput, appErr.Code)
	assert.Equal(t, "file", appErr.Details["field"])
}

func TestValidator_NoErrors(t *testing.T) {
	v := New().
		Required("file", "audio.wav").
		MaxLength("language", "en", 5).
		Range("port", 8000, 1024, 65535).
		OneOf("model", "", []string{"tiny"}).
		Custom(true, "audio", "unused")

	assert.False(t, v.HasErrors())
	assert.Nil(t, v.Validate())
}

func TestValidator_RequiredRejectsWhitespace(t *testing.T) {
	assert.True(t, New().Required("name", "   ").HasErrors())
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "word_timestamps", toSnakeCase("WordTimestamps"))
	assert.Equal(t, "port", toSnakeCase("Port"))
}
