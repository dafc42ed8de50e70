package xnew

import (
	"context"

	"github.com/bft-labs/xnew/pkg/log"
)

// Plugin extends a runtime with optional behavior.
// Plugins are initialized by Runtime.Start in registration order and shut
// down by Runtime.Close in reverse order. A plugin that also implements
// EventHandler receives runtime events after the handler set with
// WithEventHandler.
type Plugin interface {
	// Name returns a unique identifier for logging.
	Name() string

	// Initialize is called once from Runtime.Start.
	// Returning an error aborts Start.
	Initialize(ctx context.Context, pc PluginContext) error

	// Shutdown is called once from Runtime.Close.
	Shutdown(ctx context.Context) error
}

// PluginContext is what a plugin receives at initialization.
type PluginContext struct {
	Runtime *Runtime
	Logger  log.Logger
}

// BasePlugin provides no-op Initialize and Shutdown methods.
type BasePlugin struct{}

func (BasePlugin) Initialize(context.Context, PluginContext) error { return nil }
func (BasePlugin) Shutdown(context.Context) error                  { return nil }
