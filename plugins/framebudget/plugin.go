// Package framebudget monitors how long scheduler walks take.
// When enabled, it counts walks that exceed a wall-time budget, keeps the
// worst case and rate-limits overrun warnings.
package framebudget

import (
	"context"
	"sync"
	"time"

	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// Plugin implements frame budget monitoring.
// It receives tick events from the runtime and compares the wall time of
// each walk against the budget.
type Plugin struct {
	xnew.BaseEventHandler

	mu sync.RWMutex

	// Configuration
	budget         time.Duration
	reportInterval time.Duration

	// Runtime state
	logger     log.Logger
	now        func() time.Time
	lastReport time.Time
	suppressed uint64
	stats      Stats
}

// Config holds configuration options for the frame budget plugin.
type Config struct {
	// Budget is the wall time a single scheduler walk may take.
	// Default: 8 milliseconds
	Budget time.Duration

	// ReportInterval is the minimum time between two overrun warnings.
	// Default: 1 second
	ReportInterval time.Duration
}

// Stats summarizes observed walks.
type Stats struct {
	Ticks      uint64
	Overruns   uint64
	HookErrors uint64
	Worst      time.Duration
	Total      time.Duration
}

// Mean returns the average walk duration.
func (s Stats) Mean() time.Duration {
	if s.Ticks == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Ticks)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Budget:         8 * time.Millisecond,
		ReportInterval: time.Second,
	}
}

// New creates a new frame budget plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.Budget <= 0 {
		cfg.Budget = 8 * time.Millisecond
	}
	if cfg.ReportInterval <= 0 {
		cfg.ReportInterval = time.Second
	}

	return &Plugin{
		budget:         cfg.Budget,
		reportInterval: cfg.ReportInterval,
		logger:         log.NewNoopLogger(),
		now:            time.Now,
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "framebudget"
}

// Initialize sets up the plugin with the provided configuration.
func (p *Plugin) Initialize(ctx context.Context, pc xnew.PluginContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.logger = pc.Logger
	p.logger.Info("frame budget plugin initialized", log.Duration("budget", p.budget))

	return nil
}

// Shutdown logs a summary of the observed walks.
func (p *Plugin) Shutdown(ctx context.Context) error {
	s := p.Stats()
	p.mu.RLock()
	defer p.mu.RUnlock()

	p.logger.Info("frame budget summary",
		log.Uint64("ticks", s.Ticks),
		log.Uint64("overruns", s.Overruns),
		log.Uint64("hook_errors", s.HookErrors),
		log.Duration("mean", s.Mean()),
		log.Duration("worst", s.Worst))

	return nil
}

// OnTick records one walk.
func (p *Plugin) OnTick(event xnew.TickEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.Ticks++
	p.stats.Total += event.Elapsed
	if event.Elapsed > p.stats.Worst {
		p.stats.Worst = event.Elapsed
	}
	if event.Elapsed <= p.budget {
		return
	}

	p.stats.Overruns++
	now := p.now()
	if !p.lastReport.IsZero() && now.Sub(p.lastReport) < p.reportInterval {
		p.suppressed++
		return
	}
	p.lastReport = now

	p.logger.Warn("frame budget exceeded",
		log.Node(event.Root.ID()),
		log.Duration("elapsed", event.Elapsed),
		log.Duration("budget", p.budget),
		log.Int("visited", event.Visited),
		log.Uint64("suppressed", p.suppressed))
	p.suppressed = 0
}

// OnHookError counts recovered panics.
func (p *Plugin) OnHookError(event xnew.HookErrorEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stats.HookErrors++
}

// Stats returns a copy of the collected statistics.
// It is safe to call from any goroutine.
func (p *Plugin) Stats() Stats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.stats
}

// Ensure Plugin implements xnew.Plugin and xnew.EventHandler.
var (
	_ xnew.Plugin       = (*Plugin)(nil)
	_ xnew.EventHandler = (*Plugin)(nil)
)
