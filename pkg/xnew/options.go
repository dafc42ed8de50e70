package xnew

import (
	"github.com/bft-labs/xnew/pkg/lifecycle"
	"github.com/bft-labs/xnew/pkg/log"
)

// Option configures optional behavior of a Runtime.
type Option func(*options)

type options struct {
	logger       log.Logger
	eventHandler EventHandler
	plugins      []Plugin
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets the structured logger.
// If not provided, a no-op logger is used.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithEventHandler sets a handler for runtime events.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithPlugin registers a plugin to be initialized by Start.
func WithPlugin(plugin Plugin) Option {
	return func(o *options) {
		if plugin != nil {
			o.plugins = append(o.plugins, plugin)
		}
	}
}

// NodeOption configures a node created with Runtime.New.
type NodeOption func(*nodeConfig)

type componentSpec struct {
	fn    Component
	props Props
}

type nodeConfig struct {
	parent     *Node
	parentSet  bool
	detached   bool
	desc       *Description
	handle     Handle
	components []componentSpec
	tags       string
	stopped    bool
	observers  []lifecycle.Observer
}

// WithParent sets the parent explicitly. A nil parent creates a root.
// Without it the parent is the node whose code is currently running.
func WithParent(p *Node) NodeOption {
	return func(c *nodeConfig) {
		c.parent = p
		c.parentSet = true
	}
}

// Detached creates a root even when called from inside another node's code.
func Detached() NodeOption {
	return func(c *nodeConfig) {
		c.detached = true
	}
}

// WithElement creates a host element for the node under the nearest
// ancestor element. The node owns it and destroys it at finalization.
func WithElement(desc Description) NodeOption {
	return func(c *nodeConfig) {
		d := desc
		c.desc = &d
	}
}

// WithHandle attaches an existing host element. Host events are bridged to
// the node's listeners, but the element is never destroyed by the node.
func WithHandle(h Handle) NodeOption {
	return func(c *nodeConfig) {
		c.handle = h
	}
}

// WithComponent extends the node with c during construction.
// It may be repeated; components are applied in order.
func WithComponent(fn Component, props Props) NodeOption {
	return func(c *nodeConfig) {
		c.components = append(c.components, componentSpec{fn: fn, props: props})
	}
}

// WithTags sets the node's space-separated tag list.
func WithTags(tags string) NodeOption {
	return func(c *nodeConfig) {
		c.tags = tags
	}
}

// Stopped creates the node without a start request.
func Stopped() NodeOption {
	return func(c *nodeConfig) {
		c.stopped = true
	}
}

// WithObserver registers an observer of the node's own phase transitions.
func WithObserver(o lifecycle.Observer) NodeOption {
	return func(c *nodeConfig) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}
