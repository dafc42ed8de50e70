package cliconfig

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.FPS != 60 {
		t.Errorf("FPS = %v, want 60", cfg.FPS)
	}
	if cfg.Frames != 120 {
		t.Errorf("Frames = %v, want 120", cfg.Frames)
	}
	if cfg.FrameBudget != 8*time.Millisecond {
		t.Errorf("FrameBudget = %v, want 8ms", cfg.FrameBudget)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(c *Config)
		wantErr       bool
		wantReaperLow int
	}{
		{
			name:    "defaults",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "zero fps",
			mutate:  func(c *Config) { c.FPS = 0 },
			wantErr: true,
		},
		{
			name:    "negative frames",
			mutate:  func(c *Config) { c.Frames = -1 },
			wantErr: true,
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: true,
		},
		{
			name:    "bad output format",
			mutate:  func(c *Config) { c.Format = "html" },
			wantErr: true,
		},
		{
			name:    "reaper without tag",
			mutate:  func(c *Config) { c.ReaperHigh = 10 },
			wantErr: true,
		},
		{
			name: "reaper low derived",
			mutate: func(c *Config) {
				c.ReaperTag = "dot"
				c.ReaperHigh = 100
			},
			wantErr:       false,
			wantReaperLow: 75,
		},
		{
			name: "reaper low above high",
			mutate: func(c *Config) {
				c.ReaperTag = "dot"
				c.ReaperHigh = 10
				c.ReaperLow = 20
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantReaperLow != 0 && cfg.ReaperLow != tt.wantReaperLow {
				t.Errorf("ReaperLow = %d, want %d", cfg.ReaperLow, tt.wantReaperLow)
			}
		})
	}
}

func TestConfigSetter(t *testing.T) {
	changed := map[string]bool{"fps": true}
	s := newConfigSetter(changed)

	fps := 30
	s.setInt("fps", 120, &fps)
	if fps != 30 {
		t.Errorf("changed flag overwritten: fps = %d", fps)
	}

	frames := 10
	s.setInt("frames", -5, &frames)
	if frames != 10 {
		t.Errorf("non-positive value applied: frames = %d", frames)
	}

	var d time.Duration
	if err := s.setDuration("duration", "bogus", &d); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfig_NewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger := cfg.NewLogger(&buf)
	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered: %s", out)
	}
	if !strings.Contains(out, `"message":"shown"`) {
		t.Errorf("warn message missing: %s", out)
	}
}
