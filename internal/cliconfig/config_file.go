package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	Scene       string `toml:"scene"`
	FPS         int    `toml:"fps"`
	Duration    string `toml:"duration"`
	Frames      int    `toml:"frames"`
	Format      string `toml:"format"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	Watch       *bool  `toml:"watch"`
	FrameBudget string `toml:"frame_budget"`
	ReaperTag   string `toml:"reaper_tag"`
	ReaperHigh  int    `toml:"reaper_high"`
	ReaperLow   int    `toml:"reaper_low"`
}

// LoadFileConfig reads and parses a TOML config file from the given path.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.xnew/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".xnew", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("scene", fc.Scene, &cfg.ScenePath)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("log-level", fc.LogLevel, &cfg.LogLevel)
	s.setString("log-format", fc.LogFormat, &cfg.LogFormat)
	s.setString("reaper-tag", fc.ReaperTag, &cfg.ReaperTag)

	if err := s.setDuration("duration", fc.Duration, &cfg.Duration); err != nil {
		return err
	}
	if err := s.setDuration("frame-budget", fc.FrameBudget, &cfg.FrameBudget); err != nil {
		return err
	}

	s.setInt("fps", fc.FPS, &cfg.FPS)
	s.setInt("frames", fc.Frames, &cfg.Frames)
	s.setInt("reaper-high", fc.ReaperHigh, &cfg.ReaperHigh)
	s.setInt("reaper-low", fc.ReaperLow, &cfg.ReaperLow)

	s.setBool("watch", fc.Watch, &cfg.Watch)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
