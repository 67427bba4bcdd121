// Package config loads layered configuration for localstt binaries.
//
// Values come from a YAML file, an optional .env file and the process
// environment, in that order of increasing precedence. Environment keys map
// onto nested config keys by splitting on underscores, so STT_MODEL sets
// stt.model.
//
//	var cfg AppConfig
//	if err := config.LoadConfig("localstt", &cfg); err != nil {
//	    return err
//	}
//	cfg.ApplyDefaults()
package config
