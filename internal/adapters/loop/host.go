// Package loop provides a real-time host backed by a single event loop goroutine.
//
// All runtime work (frame callbacks, timer callbacks, posted functions)
// executes on the goroutine that calls Run. Post is the only entry point that
// is safe from other goroutines; timers are armed with time.AfterFunc and
// post their callback back into the loop.
package loop

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bft-labs/xnew/internal/adapters/element"
	"github.com/bft-labs/xnew/internal/ports"
)

// ErrRunning is returned when Run is called on a loop that is already running.
var ErrRunning = errors.New("loop: already running")

// DefaultFPS is the frame rate used when Config.FPS is zero.
const DefaultFPS = 60

// Config configures the loop host.
type Config struct {
	// FPS is the frame request rate.
	FPS int
}

// DefaultConfig returns a Config running at DefaultFPS.
func DefaultConfig() Config {
	return Config{FPS: DefaultFPS}
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.FPS == 0 {
		c.FPS = DefaultFPS
	}
}

// Validate rejects frame rates outside 1..1000.
func (c Config) Validate() error {
	if c.FPS < 1 || c.FPS > 1000 {
		return fmt.Errorf("loop: fps must be between 1 and 1000, got %d", c.FPS)
	}
	return nil
}

type frame struct {
	id ports.FrameID
	fn ports.FrameCallback
}

// Host is a ports.Host driven by wall-clock time.
type Host struct {
	*element.Store

	interval time.Duration

	mu        sync.Mutex
	running   bool
	start     time.Time
	posted    []func()
	frames    []frame
	nextFrame ports.FrameID
	timers    map[ports.TimerID]*time.Timer
	nextTimer ports.TimerID

	wake chan struct{}
}

// New creates a loop host. Nothing runs until Run is called.
// Invalid configs fall back to defaults.
func New(cfg Config) *Host {
	cfg.SetDefaults()
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Host{
		Store:    element.NewStore(),
		interval: time.Second / time.Duration(cfg.FPS),
		timers:   make(map[ports.TimerID]*time.Timer),
		wake:     make(chan struct{}, 1),
		start:    time.Now(),
	}
}

// Run executes the loop until ctx is done. It returns ctx.Err().
// Outstanding timers are stopped on return.
func (h *Host) Run(ctx context.Context) error {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		return ErrRunning
	}
	h.running = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		h.running = false
		for id, t := range h.timers {
			t.Stop()
			delete(h.timers, id)
		}
		h.mu.Unlock()
	}()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.drain()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.wake:
			h.drain()
		case <-ticker.C:
			h.drain()
			h.tick()
		}
	}
}

// Now returns the time elapsed since the host was created.
func (h *Host) Now() time.Duration {
	return time.Since(h.start)
}

// Post implements ports.Dispatcher.
func (h *Host) Post(fn func()) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	h.posted = append(h.posted, fn)
	h.mu.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

// RequestFrame implements ports.FrameSource.
func (h *Host) RequestFrame(fn ports.FrameCallback) ports.FrameID {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextFrame++
	h.frames = append(h.frames, frame{id: h.nextFrame, fn: fn})
	return h.nextFrame
}

// CancelFrame implements ports.FrameSource.
func (h *Host) CancelFrame(id ports.FrameID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, f := range h.frames {
		if f.id == id {
			h.frames = append(h.frames[:i], h.frames[i+1:]...)
			return
		}
	}
}

// SetTimer implements ports.TimerSource.
func (h *Host) SetTimer(delay time.Duration, fn func(), repeat bool) ports.TimerID {
	if delay < 0 {
		delay = 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextTimer++
	id := h.nextTimer
	h.arm(id, delay, fn, repeat)
	return id
}

// arm schedules one firing of timer id. Caller holds mu.
func (h *Host) arm(id ports.TimerID, delay time.Duration, fn func(), repeat bool) {
	h.timers[id] = time.AfterFunc(delay, func() {
		h.Post(func() {
			h.mu.Lock()
			if _, ok := h.timers[id]; !ok {
				h.mu.Unlock()
				return
			}
			if repeat {
				h.arm(id, delay, fn, repeat)
			} else {
				delete(h.timers, id)
			}
			h.mu.Unlock()

			fn()
		})
	})
}

// ClearTimer implements ports.TimerSource.
func (h *Host) ClearTimer(id ports.TimerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if t, ok := h.timers[id]; ok {
		t.Stop()
		delete(h.timers, id)
	}
}

func (h *Host) drain() {
	for {
		h.mu.Lock()
		work := h.posted
		h.posted = nil
		h.mu.Unlock()
		if len(work) == 0 {
			return
		}
		for _, fn := range work {
			fn()
		}
	}
}

func (h *Host) tick() {
	h.mu.Lock()
	pending := h.frames
	h.frames = nil
	h.mu.Unlock()

	now := h.Now()
	for _, f := range pending {
		f.fn(now)
	}
}

var _ ports.Host = (*Host)(nil)
