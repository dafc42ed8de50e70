// Package log provides the structured logging abstraction used by the
// xnew runtime, its hosts and plugins.
//
// The runtime only talks to the [Logger] interface. A zerolog-backed
// implementation is provided for applications and the CLI, and a no-op
// implementation is the library default.
//
// # Usage
//
// Console output at debug level:
//
//	logger := log.NewConsoleAdapter(os.Stderr, zerolog.DebugLevel)
//	rt, err := xnew.New(host, xnew.WithLogger(logger))
//
// Wrapping an existing zerolog logger:
//
//	logger := log.NewZerologAdapterWithLogger(zl)
//
// Fields describing runtime entities have dedicated helpers:
//
//	logger.Debug("phase change", log.Node(n.ID()), log.Phase(lifecycle.PhaseStarted))
//
// # Version
//
// Current version: 1.1.0
// Minimum compatible version: 1.0.0
package log
