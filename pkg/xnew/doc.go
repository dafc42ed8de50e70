// Package xnew is a small component runtime for hierarchical, host-attached
// applications such as UI widgets and canvas games.
//
// A [Runtime] owns a tree of [Node] instances. Each node has a lifecycle
// phase, a local listener table, a set of timers, a set of tags and an
// optional host element. Component functions extend a node with lifecycle
// hooks and public members; the scheduler registered on every root walks its
// tree once per host frame to start, stop and update nodes.
//
// # Basic Usage
//
//	host := virtual.New(virtual.Config{})
//	rt, err := xnew.New(host, xnew.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//
//	root, err := rt.New(xnew.WithComponent(func(n *xnew.Node, props xnew.Props) xnew.Definition {
//	    n.On("#gameover", func(args ...any) { n.Finalize() })
//	    return xnew.Definition{
//	        Update: func(elapsed time.Duration) { /* per-frame work */ },
//	    }
//	}, nil))
//
// # Lifecycle
//
// New nodes want to start. A node moves from Stopped to Started on the next
// frame once its parent is started, every readiness channel contributed by
// its definitions is closed and it still wants to start. [Node.Stop] only
// clears the request; the stop transition happens on the next frame.
// [Node.Finalize] is immediate: it stops the node, tears down tags, timers,
// listeners and children, runs the finalize hook and releases owned
// elements.
//
// # Events
//
// Types starting with "#" are broadcast: an [Node.Emit] of such a type
// reaches every live node with a matching listener anywhere in the runtime.
// Other types are local to the emitting node. Local listeners on a node that
// has its own host element are also bridged to host events of the same name.
//
// # Threading
//
// A runtime is confined to the goroutine its host drives it from. Other
// goroutines enter it with [Runtime.Post].
//
// # Errors
//
// Panics inside hooks, listeners and timers propagate out of direct API
// calls. At host boundaries (frame callbacks, timer fires, host events) the
// runtime recovers them, logs them and reports a [HookErrorEvent].
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package xnew
