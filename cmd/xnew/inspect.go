package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bft-labs/xnew/internal/cliconfig"
	"github.com/bft-labs/xnew/internal/inspect"
	"github.com/bft-labs/xnew/internal/scene"
	"github.com/bft-labs/xnew/pkg/xnew"
)

func newInspectCommand(cfg *cliconfig.Config, load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Step a scene on a virtual clock and print its tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(cmd)
			if err != nil {
				return err
			}
			return inspectScene(cfg, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&cfg.Frames, "frames", cfg.Frames, "number of frames to step before printing")
	cmd.Flags().StringVar(&cfg.Format, "format", cfg.Format, "output format (tree, yaml)")
	return cmd
}

func inspectScene(cfg *cliconfig.Config, out io.Writer, extra ...xnew.Option) (err error) {
	adapter := cfg.NewLogger(os.Stderr)

	reg, err := newRegistry()
	if err != nil {
		return err
	}
	s, err := loadScene(cfg)
	if err != nil {
		return err
	}

	host := xnew.NewVirtualHost(xnew.VirtualConfig{})
	rt, err := xnew.New(host, append(runtimeOptions(cfg, adapter), extra...)...)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	ctx := context.Background()
	if err := rt.Start(ctx); err != nil {
		return fmt.Errorf("start runtime: %w", err)
	}
	defer func() {
		if cerr := rt.Close(ctx); cerr != nil && err == nil {
			err = fmt.Errorf("close runtime: %w", cerr)
		}
	}()

	if _, err := scene.Build(rt, reg, s); err != nil {
		return err
	}
	host.Run(cfg.Frames)

	report := inspect.NewReport(s.Name, rt, host.Frames(), host.Now())
	if cfg.Format == "yaml" {
		data, err := inspect.YAML(report)
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	}
	_, err = io.WriteString(out, inspect.Render(report))
	return err
}
