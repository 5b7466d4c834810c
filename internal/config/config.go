// Package config loads channel-engine defaults via spf13/viper
// (config file + KEKBIT_* env overrides) and validates the result
// with go-playground/validator/v10, grounded on marmos91-dittofs's use
// of both libraries for its own server configuration.
package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"kekbit.dev/kekbit/pkg/tick"
)

// Config holds the engine-wide defaults the CLI and example programs
// fall back to when a caller doesn't specify a value explicitly.
// DefaultTimeout/DefaultTimeoutUnit let an operator declare the
// default writer heartbeat interval in whichever unit is natural
// ("ns", "us", "ms", "s"); TimeoutNs normalizes it via pkg/tick.
type Config struct {
	Root               string `mapstructure:"root" validate:"required"`
	DefaultCapacity    uint32 `mapstructure:"default_capacity" validate:"required,min=4096"`
	DefaultMaxRecord   uint32 `mapstructure:"default_max_record" validate:"required,min=1"`
	DefaultTimeout     uint64 `mapstructure:"default_timeout"`
	DefaultTimeoutUnit string `mapstructure:"default_timeout_unit" validate:"oneof=ns us ms s"`
}

var validate = validator.New()

// Defaults returns the built-in configuration used when no config
// file or env override is present.
func Defaults() Config {
	return Config{
		Root:               "./channels",
		DefaultCapacity:    1 << 20,
		DefaultMaxRecord:   1 << 16,
		DefaultTimeout:     0,
		DefaultTimeoutUnit: "ns",
	}
}

// TimeoutNs normalizes DefaultTimeout/DefaultTimeoutUnit to
// nanoseconds, the width header.Metadata.TimeoutNs is stored in.
func (c Config) TimeoutNs() (uint64, error) {
	unit, err := tick.ParseUnit(c.DefaultTimeoutUnit)
	if err != nil {
		return 0, fmt.Errorf("config: default_timeout_unit: %w", err)
	}
	return unit.ToNanos(c.DefaultTimeout), nil
}

// Load reads configuration from path (if non-empty), then KEKBIT_*
// environment variables, layered over Defaults(), and validates the
// result.
func Load(path string) (Config, error) {
	v := viper.New()
	cfg := Defaults()
	v.SetDefault("root", cfg.Root)
	v.SetDefault("default_capacity", cfg.DefaultCapacity)
	v.SetDefault("default_max_record", cfg.DefaultMaxRecord)
	v.SetDefault("default_timeout", cfg.DefaultTimeout)
	v.SetDefault("default_timeout_unit", cfg.DefaultTimeoutUnit)

	v.SetEnvPrefix("KEKBIT")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("config: validate: %w", err)
	}
	return cfg, nil
}
