package cliconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestApplyFileConfig(t *testing.T) {
	trueVal := true

	tests := []struct {
		name       string
		fileConfig FileConfig
		changed    map[string]bool
		initial    Config
		expected   Config
		wantErr    bool
	}{
		{
			name: "applies all valid config values",
			fileConfig: FileConfig{
				Scene:       "game.yaml",
				FPS:         30,
				Duration:    "10s",
				Frames:      50,
				Format:      "yaml",
				LogLevel:    "debug",
				LogFormat:   "json",
				Watch:       &trueVal,
				FrameBudget: "4ms",
				ReaperTag:   "dot",
				ReaperHigh:  500,
				ReaperLow:   400,
			},
			changed: map[string]bool{},
			initial: Config{},
			expected: Config{
				ScenePath:   "game.yaml",
				FPS:         30,
				Duration:    10 * time.Second,
				Frames:      50,
				Format:      "yaml",
				LogLevel:    "debug",
				LogFormat:   "json",
				Watch:       true,
				FrameBudget: 4 * time.Millisecond,
				ReaperTag:   "dot",
				ReaperHigh:  500,
				ReaperLow:   400,
			},
		},
		{
			name: "respects changed flags",
			fileConfig: FileConfig{
				Scene: "file.yaml",
				FPS:   30,
			},
			changed: map[string]bool{"scene": true},
			initial: Config{ScenePath: "flag.yaml", FPS: 60},
			expected: Config{
				ScenePath: "flag.yaml",
				FPS:       30,
			},
		},
		{
			name:       "returns error for invalid duration",
			fileConfig: FileConfig{Duration: "forever"},
			changed:    map[string]bool{},
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.initial
			err := ApplyFileConfig(&cfg, tt.fileConfig, tt.changed)

			if tt.wantErr {
				if err == nil {
					t.Error("ApplyFileConfig() expected error but got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyFileConfig() unexpected error: %v", err)
			}
			if cfg != tt.expected {
				t.Errorf("config = %+v, want %+v", cfg, tt.expected)
			}
		})
	}
}

func TestLoadFileConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.TrimSpace(`
scene = "scenes/stars.yaml"
fps = 30
duration = "5s"
watch = true
frame_budget = "6ms"
reaper_tag = "dot"
reaper_high = 200
`)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig() error: %v", err)
	}
	if fc.Scene != "scenes/stars.yaml" {
		t.Errorf("Scene = %q", fc.Scene)
	}
	if fc.FPS != 30 {
		t.Errorf("FPS = %d", fc.FPS)
	}
	if fc.Watch == nil || !*fc.Watch {
		t.Errorf("Watch = %v, want true", fc.Watch)
	}
	if fc.ReaperHigh != 200 {
		t.Errorf("ReaperHigh = %d", fc.ReaperHigh)
	}

	if !FileExists(path) {
		t.Error("FileExists() = false for existing file")
	}
	if FileExists(filepath.Join(dir, "missing.toml")) {
		t.Error("FileExists() = true for missing file")
	}
}

func TestLoadFileConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadFileConfig(filepath.Join(dir, "missing.toml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("fps = = 3"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFileConfig(bad); err == nil {
		t.Error("expected error for malformed TOML")
	}
}

func TestDefaultConfigPath(t *testing.T) {
	p := DefaultConfigPath()
	if p != "" && !strings.HasSuffix(p, filepath.Join(".xnew", "config.toml")) {
		t.Errorf("DefaultConfigPath() = %q", p)
	}
}
