// Package validation provides input validation for configuration sections
// and HTTP handlers.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Model string `json:"model" validate:"oneof=tiny base small"`
//	    Port  int    `json:"port" validate:"min=1024,max=65535"`
//	}
//	fields := validation.Struct(opts) // inspect Tag/Param per field
//	err := validation.ValidateStruct(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("file", name).MaxLength("language", lang, 8)
//	if appErr := v.Validate(); appErr != nil {
//	    return appErr
//	}
package validation
