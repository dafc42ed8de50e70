package framebudget

import "github.com/bft-labs/xnew/pkg/xnew"

// WithFrameBudget returns an xnew Option that enables frame budget
// monitoring. Scheduler walks that take longer than the budget are counted
// and reported.
//
// Usage:
//
//	rt, err := xnew.New(host,
//	    framebudget.WithFrameBudget(framebudget.Config{
//	        Budget:         8 * time.Millisecond,
//	        ReportInterval: time.Second,
//	    }),
//	)
func WithFrameBudget(cfg Config) xnew.Option {
	plugin := New(cfg)
	return xnew.WithPlugin(plugin)
}

// WithDefaultFrameBudget returns an xnew Option that enables frame budget
// monitoring with default settings (8ms budget, one warning per second).
//
// Usage:
//
//	rt, err := xnew.New(host, framebudget.WithDefaultFrameBudget())
func WithDefaultFrameBudget() xnew.Option {
	return WithFrameBudget(DefaultConfig())
}
