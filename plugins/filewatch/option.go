package filewatch

import "github.com/bft-labs/xnew/pkg/xnew"

// WithFileWatch returns an xnew Option that enables file watching.
// Every change to one of the configured paths is broadcast into the runtime
// as Config.Event with the absolute path as its only argument.
//
// Usage:
//
//	rt, err := xnew.New(host,
//	    filewatch.WithFileWatch(filewatch.Config{
//	        Paths:         []string{"scene.yaml"},
//	        DebounceDelay: 100 * time.Millisecond,
//	    }),
//	)
func WithFileWatch(cfg Config) xnew.Option {
	plugin := New(cfg)
	return xnew.WithPlugin(plugin)
}
