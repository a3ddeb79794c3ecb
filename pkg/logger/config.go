package logger

import (
	"errors"
	"log/slog"
	"strings"
)

// Config is the process logging configuration.
type Config struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_NAME" envDefault:"sessiond"`
	// Level and Format override the environment defaults when set.
	Level  string `env:"LOG_LEVEL"`
	Format string `env:"LOG_FORMAT"`
}

// NewFromConfig builds a logger from cfg, then applies opts.
func NewFromConfig(cfg Config, opts ...Option) (*slog.Logger, error) {
	base := []Option{WithEnvironment(cfg.Env, cfg.Service)}

	if lvl := strings.TrimSpace(cfg.Level); lvl != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(lvl)); err != nil {
			return nil, errors.Join(ErrInvalidLevel, err)
		}
		base = append(base, WithLevel(level))
	}

	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}
	base = append(base, WithFormat(format))

	return New(append(base, opts...)...), nil
}

// ErrInvalidLevel is returned by NewFromConfig for an unknown LOG_LEVEL.
var ErrInvalidLevel = errors.New("logger.invalid_level")
