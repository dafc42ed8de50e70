// Package xnew runs declarative scenes of xnew components in real time.
//
// The component runtime itself lives in pkg/xnew; this package wires it to
// the real-time loop host, the scene loader and the sample components.
//
// Example usage:
//
//	cfg := xnew.DefaultConfig()
//	cfg.ScenePath = "scene.yaml"
//	cfg.Watch = true
//	if err := xnew.Run(ctx, cfg); err != nil {
//	    log.Fatal(err)
//	}
package xnew

import (
	"context"
	"errors"
	"fmt"

	"github.com/bft-labs/xnew/internal/adapters/loop"
	"github.com/bft-labs/xnew/internal/demo"
	"github.com/bft-labs/xnew/internal/scene"
	"github.com/bft-labs/xnew/pkg/log"
	core "github.com/bft-labs/xnew/pkg/xnew"
	"github.com/bft-labs/xnew/plugins/filewatch"
)

type (
	// Scene is a named node tree loaded from YAML.
	Scene = scene.Scene
	// NodeSpec declares one node of a scene.
	NodeSpec = scene.NodeSpec
	// ComponentSpec references a registered component by name.
	ComponentSpec = scene.ComponentSpec
	// Registration makes a component available to scenes.
	Registration = scene.Registration
)

// Config holds the configuration for Run.
// Use DefaultConfig() to get a Config with sensible defaults.
type Config struct {
	// ScenePath is the scene file. Empty runs the built-in demo scene.
	ScenePath string

	// FPS is the frame rate of the loop host.
	FPS int

	// Watch rebuilds the scene whenever ScenePath changes.
	Watch bool

	// Components are registered in addition to the sample components.
	Components []Registration

	// Logger receives runtime and plugin logs. Nil discards them.
	Logger log.Logger

	// Options are passed to the runtime, after the logger.
	Options []core.Option
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{FPS: loop.DefaultFPS}
}

// LoadScene reads a scene file.
func LoadScene(path string) (*Scene, error) {
	return scene.Load(path)
}

// DefaultScene returns the built-in demo scene.
func DefaultScene() *Scene {
	return demo.DefaultScene()
}

// Run builds the configured scene on a real-time loop host and drives it
// until ctx is done. The runtime is closed before Run returns.
func Run(ctx context.Context, cfg Config) error {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.Watch && cfg.ScenePath == "" {
		return errors.New("xnew: watch requires a scene path")
	}

	reg := scene.NewRegistry()
	if err := demo.Register(reg); err != nil {
		return err
	}
	for _, r := range cfg.Components {
		if err := reg.Register(r); err != nil {
			return err
		}
	}

	// parse before starting so that scene errors surface immediately
	s := DefaultScene()
	if cfg.ScenePath != "" {
		var err error
		if s, err = LoadScene(cfg.ScenePath); err != nil {
			return err
		}
	}

	host := loop.New(loop.Config{FPS: cfg.FPS})
	opts := append([]core.Option{core.WithLogger(logger)}, cfg.Options...)
	if cfg.Watch {
		opts = append(opts, filewatch.WithFileWatch(filewatch.Config{Paths: []string{cfg.ScenePath}}))
	}
	rt, err := core.New(host, opts...)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	if err := rt.Start(ctx); err != nil {
		return fmt.Errorf("start runtime: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var buildErr error
	host.Post(func() {
		if cfg.Watch {
			_, buildErr = scene.NewReloader(rt, reg, cfg.ScenePath, filewatch.DefaultEvent)
		} else {
			_, buildErr = scene.Build(rt, reg, s)
		}
		if buildErr != nil {
			cancel()
			return
		}
		logger.Info("scene built", log.String("scene", s.Name), log.Int("nodes", rt.Len()))
	})

	runErr := host.Run(runCtx)
	nodes := rt.Len()
	closeErr := rt.Close(context.Background())

	if buildErr != nil {
		return fmt.Errorf("build scene: %w", buildErr)
	}
	logger.Info("scene stopped",
		log.Int("nodes", nodes),
		log.Duration("uptime", host.Now()),
		log.Err(runErr))
	if runErr != nil && !errors.Is(runErr, context.Canceled) && !errors.Is(runErr, context.DeadlineExceeded) {
		return runErr
	}
	return closeErr
}
