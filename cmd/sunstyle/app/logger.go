package app

import (
	"github.com/rs/zerolog"

	"github.com/sunstyle/sunstyle/pkg/logging"
)

// ConfigureLogger builds the process logger from configuration and the
// verbosity flags, and installs it as the default.
func ConfigureLogger(cfg *Config, verbose, quiet bool) *zerolog.Logger {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if quiet {
		level = "warn"
	}

	logging.Configure(&logging.Config{
		Level:  level,
		Format: cfg.LogFormat,
		Output: cfg.LogOutput,
	})
	return logging.Default()
}
