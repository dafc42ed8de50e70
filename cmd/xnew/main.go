package main

import (
	"fmt"
	"os"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/xnew/internal/cliconfig"
	"github.com/bft-labs/xnew/internal/demo"
	"github.com/bft-labs/xnew/internal/scene"
	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
	"github.com/bft-labs/xnew/plugins/framebudget"
	"github.com/bft-labs/xnew/plugins/tagreaper"
)

const helpBanner = `
██╗  ██╗███╗   ██╗███████╗██╗    ██╗
╚██╗██╔╝████╗  ██║██╔════╝██║    ██║
 ╚███╔╝ ██╔██╗ ██║█████╗  ██║ █╗ ██║
 ██╔██╗ ██║╚██╗██║██╔══╝  ██║███╗██║
██╔╝ ██╗██║ ╚████║███████╗╚███╔███╔╝
╚═╝  ╚═╝╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝
`

const helpDescription = `
Run component trees described in YAML scenes.

Highlights:
  - Every node has a lifecycle, listeners, timers and tags, all torn down with it.
  - run drives a scene in real time; inspect steps it on a virtual clock.
  - Configure via file, env (XNEW_*), or flags.
  - Without --scene the built-in starfield shooter is used.
`

var longHelp = strings.TrimSpace(helpBanner) + "\n\n" + strings.TrimSpace(helpDescription)

var exampleUsage = strings.TrimSpace(`
  xnew run --scene scene.yaml --watch
  xnew run --duration 10s --frame-budget 4ms
  xnew inspect --frames 300 --format yaml
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return xnew.Version
}

func main() {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "xnew",
		Short:         "Run component trees described in YAML scenes",
		Long:          longHelp,
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.xnew/config.toml)")
	root.PersistentFlags().StringVar(&cfg.ScenePath, "scene", cfg.ScenePath, "scene YAML file (default: built-in demo)")
	root.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (trace, debug, info, warn, error)")
	root.PersistentFlags().StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "log format (console, json)")
	root.PersistentFlags().DurationVar(&cfg.FrameBudget, "frame-budget", cfg.FrameBudget, "warn when a frame walk exceeds this wall time (0 disables)")
	root.PersistentFlags().StringVar(&cfg.ReaperTag, "reaper-tag", cfg.ReaperTag, "tag whose live node count is capped")
	root.PersistentFlags().IntVar(&cfg.ReaperHigh, "reaper-high", cfg.ReaperHigh, "node count above which the oldest tagged nodes are finalized (0 disables)")
	root.PersistentFlags().IntVar(&cfg.ReaperLow, "reaper-low", cfg.ReaperLow, "node count to reap down to (default: 3/4 of reaper-high)")

	load := func(cmd *cobra.Command) (*cliconfig.Config, error) {
		// Load config file first (default $HOME/.xnew/config.toml), then apply overrides
		cfgFile := cfgPath
		if cfgFile == "" {
			cfgFile = cliconfig.DefaultConfigPath()
		}

		// Build set of changed flags
		changed := map[string]bool{}
		cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

		if cfgFile != "" && cliconfig.FileExists(cfgFile) {
			fc, err := cliconfig.LoadFileConfig(cfgFile)
			if err != nil {
				return nil, fmt.Errorf("load config: %w", err)
			}
			if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
				return nil, err
			}
		}

		// Environment variables override the file but not explicit flags
		if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
			return nil, err
		}

		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}

	root.AddCommand(newRunCommand(&cfg, load), newInspectCommand(&cfg, load))

	if err := root.Execute(); err != nil {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
		logger.Error().Err(err).Msg("xnew")
		os.Exit(1)
	}
}

// loader resolves the effective configuration for a command.
type loader func(cmd *cobra.Command) (*cliconfig.Config, error)

// loadScene returns the configured scene, or the built-in demo.
func loadScene(cfg *cliconfig.Config) (*scene.Scene, error) {
	if cfg.ScenePath == "" {
		return demo.DefaultScene(), nil
	}
	return scene.Load(cfg.ScenePath)
}

func newRegistry() (*scene.Registry, error) {
	reg := scene.NewRegistry()
	if err := demo.Register(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// runtimeOptions wires the logger and the plugins enabled by cfg.
func runtimeOptions(cfg *cliconfig.Config, logger log.Logger) []xnew.Option {
	opts := []xnew.Option{xnew.WithLogger(logger)}
	if cfg.FrameBudget > 0 {
		opts = append(opts, framebudget.WithFrameBudget(framebudget.Config{Budget: cfg.FrameBudget}))
	}
	if cfg.ReaperHigh > 0 {
		opts = append(opts, tagreaper.WithTagReaper(tagreaper.Config{
			Tag:           cfg.ReaperTag,
			HighWatermark: cfg.ReaperHigh,
			LowWatermark:  cfg.ReaperLow,
		}))
	}
	return opts
}
