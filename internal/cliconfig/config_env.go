package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (XNEW_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("scene", os.Getenv("XNEW_SCENE"), &cfg.ScenePath)
	s.setString("format", os.Getenv("XNEW_FORMAT"), &cfg.Format)
	s.setString("log-level", os.Getenv("XNEW_LOG_LEVEL"), &cfg.LogLevel)
	s.setString("log-format", os.Getenv("XNEW_LOG_FORMAT"), &cfg.LogFormat)
	s.setString("reaper-tag", os.Getenv("XNEW_REAPER_TAG"), &cfg.ReaperTag)

	if err := s.setDuration("duration", os.Getenv("XNEW_DURATION"), &cfg.Duration); err != nil {
		return err
	}
	if err := s.setDuration("frame-budget", os.Getenv("XNEW_FRAME_BUDGET"), &cfg.FrameBudget); err != nil {
		return err
	}

	if err := s.setIntFromString("fps", os.Getenv("XNEW_FPS"), &cfg.FPS); err != nil {
		return err
	}
	if err := s.setIntFromString("frames", os.Getenv("XNEW_FRAMES"), &cfg.Frames); err != nil {
		return err
	}
	if err := s.setIntFromString("reaper-high", os.Getenv("XNEW_REAPER_HIGH"), &cfg.ReaperHigh); err != nil {
		return err
	}
	if err := s.setIntFromString("reaper-low", os.Getenv("XNEW_REAPER_LOW"), &cfg.ReaperLow); err != nil {
		return err
	}

	s.setBoolFromString("watch", os.Getenv("XNEW_WATCH"), &cfg.Watch)

	return nil
}
