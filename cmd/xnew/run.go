package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bft-labs/xnew"
	"github.com/bft-labs/xnew/internal/cliconfig"
)

func newRunCommand(cfg *cliconfig.Config, load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a scene in real time",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return runScene(cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.FPS, "fps", cfg.FPS, "frames per second")
	cmd.Flags().DurationVar(&cfg.Duration, "duration", cfg.Duration, "stop after this long (0 runs until interrupted)")
	cmd.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "rebuild the scene when its file changes")
	return cmd
}

func runScene(cfg *cliconfig.Config) error {
	adapter := cfg.NewLogger(os.Stderr)
	logger := adapter.Logger()
	logger.Info().Interface("config", cfg).Msg("configuration")

	if cfg.Watch && cfg.ScenePath == "" {
		logger.Warn().Msg("--watch needs --scene; watching disabled")
		cfg.Watch = false
	}

	// Setup signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Duration)
		defer cancel()
	}

	return xnew.Run(ctx, xnew.Config{
		ScenePath: cfg.ScenePath,
		FPS:       cfg.FPS,
		Watch:     cfg.Watch,
		Logger:    adapter,
		Options:   runtimeOptions(cfg, adapter),
	})
}
