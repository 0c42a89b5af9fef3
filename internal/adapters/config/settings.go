// Package config loads runtime settings and experiment definitions.
package config

import (
	"log/slog"
	"strings"

	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"go.trai.ch/sweep/internal/core/domain"
	"go.trai.ch/zerr"
)

// EnvPrefix is the prefix of environment variables overriding settings.
const EnvPrefix = "SWEEP_"

// Log formats.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
)

// Settings are the runtime settings of sweep.
type Settings struct {
	Root            string `koanf:"root"`
	Workers         int    `koanf:"workers"`
	ExecutionPolicy string `koanf:"policy"`
	LogLevel        string `koanf:"log_level"`
	LogFormat       string `koanf:"log_format"`
	MetricsPath     string `koanf:"metrics_path"`
}

// DefaultSettings returns the settings used when nothing is overridden.
func DefaultSettings() Settings {
	return Settings{
		Root:            domain.DefaultStorePath(),
		Workers:         1,
		ExecutionPolicy: domain.PolicyUseExisting.String(),
		LogLevel:        "info",
		LogFormat:       FormatPretty,
	}
}

// LoadSettings reads the defaults and applies SWEEP_* environment overrides.
func LoadSettings() (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultSettings(), "koanf"), nil); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error())
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnvKey,
	}), nil); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error())
	}

	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, zerr.Wrap(err, domain.ErrSettingsLoadFailed.Error())
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// transformEnvKey maps SWEEP_LOG_LEVEL to log_level.
func transformEnvKey(key, value string) (string, any) {
	return strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), value
}

// Validate checks the values that cannot be defaulted.
func (s *Settings) Validate() error {
	if s.Root == "" {
		return zerr.Wrap(domain.ErrSettingsLoadFailed, "storage root must not be empty")
	}
	if s.Workers < 1 {
		return zerr.With(zerr.Wrap(domain.ErrSettingsLoadFailed, "workers must be at least 1"), "workers", s.Workers)
	}
	if _, err := domain.ParsePolicy(s.ExecutionPolicy); err != nil {
		return err
	}
	if _, err := s.Level(); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrSettingsLoadFailed, "invalid log level"), "level", s.LogLevel)
	}
	switch s.LogFormat {
	case FormatPretty, FormatJSON:
	default:
		return zerr.With(zerr.Wrap(domain.ErrSettingsLoadFailed, "invalid log format"), "format", s.LogFormat)
	}
	return nil
}

// Policy returns the default execution policy.
func (s *Settings) Policy() domain.ExecutionPolicy {
	p, _ := domain.ParsePolicy(s.ExecutionPolicy)
	return p.Or(domain.PolicyUseExisting)
}

// Level returns the configured log level.
func (s *Settings) Level() (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(s.LogLevel))
	return level, err
}
