package cliconfig

import (
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// Config holds CLI configuration for xnew.
type Config struct {
	// ScenePath is the YAML scene to build; empty means the built-in demo.
	ScenePath string

	FPS      int
	Duration time.Duration
	Frames   int
	Format   string

	LogLevel  string
	LogFormat string

	Watch       bool
	FrameBudget time.Duration

	ReaperTag  string
	ReaperHigh int
	ReaperLow  int
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		FPS:         60,
		Frames:      120,
		Format:      "tree",
		LogLevel:    "info",
		LogFormat:   "console",
		FrameBudget: 8 * time.Millisecond,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.FPS < 1 || c.FPS > 1000 {
		return fmt.Errorf("fps must be between 1 and 1000, got %d", c.FPS)
	}
	if c.Frames < 0 {
		return fmt.Errorf("frames must not be negative")
	}
	if c.Duration < 0 {
		return fmt.Errorf("duration must not be negative")
	}
	if c.FrameBudget < 0 {
		return fmt.Errorf("frame budget must not be negative")
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("log format must be console or json, got %q", c.LogFormat)
	}
	switch c.Format {
	case "tree", "yaml":
	default:
		return fmt.Errorf("format must be tree or yaml, got %q", c.Format)
	}

	if c.ReaperHigh > 0 {
		if c.ReaperTag == "" {
			return fmt.Errorf("reaper-tag is required when reaper-high is set")
		}
		if c.ReaperLow <= 0 {
			c.ReaperLow = c.ReaperHigh * 3 / 4
		}
		if c.ReaperLow >= c.ReaperHigh {
			return fmt.Errorf("reaper-low (%d) must be below reaper-high (%d)", c.ReaperLow, c.ReaperHigh)
		}
	}

	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setInt sets an int value if positive and flag not changed.
func (s *configSetter) setInt(flag string, value int, dst *int) {
	if value <= 0 || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setIntFromString parses a string to int and sets the destination if valid.
// Used for environment variables that come as strings.
func (s *configSetter) setIntFromString(flag, value string, dst *int) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	if i <= 0 {
		return nil
	}
	*dst = i
	return nil
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}
