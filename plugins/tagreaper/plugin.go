// Package tagreaper bounds the population of tagged nodes in an xnew
// runtime. When enabled, it checks the tag count after scheduler walks and
// finalizes the oldest tagged nodes once the count exceeds a high watermark.
package tagreaper

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// Plugin implements tag population capping.
type Plugin struct {
	xnew.BaseEventHandler

	mu sync.RWMutex

	// Configuration
	tag           string
	highWatermark int
	lowWatermark  int
	checkInterval time.Duration

	// Runtime state
	rt        *xnew.Runtime
	logger    log.Logger
	lastCheck time.Duration
	checked   bool
	pending   bool
	reaped    uint64
}

// Config holds configuration options for the tag reaper plugin.
type Config struct {
	// Tag selects the nodes to cap. Required.
	Tag string

	// HighWatermark is the count above which reaping begins.
	// Default: 1000
	HighWatermark int

	// LowWatermark is the target count after reaping.
	// Default: 3/4 of HighWatermark
	LowWatermark int

	// CheckInterval is the minimum host frame time between two checks.
	// Default: 0 (every walk)
	CheckInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults and no tag.
func DefaultConfig() Config {
	return Config{
		HighWatermark: 1000,
		LowWatermark:  750,
	}
}

// New creates a new tag reaper plugin with the given configuration.
func New(cfg Config) *Plugin {
	if cfg.HighWatermark <= 0 {
		cfg.HighWatermark = 1000
	}
	if cfg.LowWatermark <= 0 || cfg.LowWatermark >= cfg.HighWatermark {
		cfg.LowWatermark = cfg.HighWatermark * 3 / 4
	}

	return &Plugin{
		tag:           cfg.Tag,
		highWatermark: cfg.HighWatermark,
		lowWatermark:  cfg.LowWatermark,
		checkInterval: cfg.CheckInterval,
		logger:        log.NewNoopLogger(),
	}
}

// Name returns the plugin identifier.
func (p *Plugin) Name() string {
	return "tagreaper"
}

// Initialize sets up the plugin with the provided configuration.
func (p *Plugin) Initialize(ctx context.Context, pc xnew.PluginContext) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tag == "" {
		return errors.New("tag reaper: tag is required")
	}

	p.rt = pc.Runtime
	p.logger = pc.Logger
	p.logger.Info("tag reaper plugin initialized",
		log.String("tag", p.tag),
		log.Int("high_watermark", p.highWatermark),
		log.Int("low_watermark", p.lowWatermark))

	return nil
}

// Shutdown releases plugin resources.
func (p *Plugin) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.rt = nil
	return nil
}

// OnTick checks the tag count. Reaping is posted so that it never runs
// inside the walk that reported the tick.
func (p *Plugin) OnTick(event xnew.TickEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.rt == nil || p.pending {
		return
	}
	if p.checked && event.Now-p.lastCheck < p.checkInterval {
		return
	}
	p.checked = true
	p.lastCheck = event.Now

	if len(p.rt.Lookup(p.tag)) <= p.highWatermark {
		return
	}
	p.pending = true
	p.rt.Post(p.reap)
}

// reap finalizes the oldest tagged nodes down to the low watermark.
// Node ids are UUIDv7, so id order is creation order.
func (p *Plugin) reap() {
	p.mu.Lock()
	p.pending = false
	rt := p.rt
	p.mu.Unlock()
	if rt == nil {
		return
	}

	nodes := rt.Lookup(p.tag)
	excess := len(nodes) - p.lowWatermark
	if len(nodes) <= p.highWatermark || excess <= 0 {
		return
	}

	sort.Slice(nodes, func(i, j int) bool {
		a, b := nodes[i].ID(), nodes[j].ID()
		return bytes.Compare(a[:], b[:]) < 0
	})

	removed := 0
	for _, n := range nodes {
		if removed == excess {
			break
		}
		if n.IsFinalized() {
			continue
		}
		n.Finalize()
		removed++
	}

	p.mu.Lock()
	p.reaped += uint64(removed)
	p.mu.Unlock()

	p.logger.Info("tag reaper completed",
		log.String("tag", p.tag),
		log.Int("removed", removed),
		log.Int("remaining", len(rt.Lookup(p.tag))))
}

// Reaped returns the number of nodes finalized so far.
func (p *Plugin) Reaped() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return p.reaped
}

// Ensure Plugin implements xnew.Plugin and xnew.EventHandler.
var (
	_ xnew.Plugin       = (*Plugin)(nil)
	_ xnew.EventHandler = (*Plugin)(nil)
)
