package config

import "errors"

var (
	// ErrParsingConfig is returned when environment variables cannot be parsed into the config struct
	ErrParsingConfig = errors.New("config.parse_failed")

	// ErrConfigNotLoaded is returned when a cached config is unexpectedly missing after parsing
	ErrConfigNotLoaded = errors.New("config.not_loaded")

	// ErrNilPointer is returned when a nil pointer is provided to Load
	ErrNilPointer = errors.New("config.nil_pointer")

	// ErrReadValues is returned when a settings file cannot be read or decoded
	ErrReadValues = errors.New("config.read_values_failed")
)
