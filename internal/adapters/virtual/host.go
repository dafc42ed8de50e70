// Package virtual provides a deterministic host driven by a manual clock.
//
// Nothing happens until Step or Advance is called. Frames fire every
// FrameInterval of virtual time, timers fire in due order between frames,
// and posted work drains at the start of every step. It is the host used by
// tests and by the headless inspect command.
package virtual

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bft-labs/xnew/internal/adapters/element"
	"github.com/bft-labs/xnew/internal/ports"
)

// DefaultFrameInterval is one 60Hz frame.
const DefaultFrameInterval = time.Second / 60

// Config configures a virtual host.
type Config struct {
	// FrameInterval is the virtual time between frames. Zero means DefaultFrameInterval.
	FrameInterval time.Duration
}

// DefaultConfig returns a Config with a 60Hz frame interval.
func DefaultConfig() Config {
	return Config{FrameInterval: DefaultFrameInterval}
}

// SetDefaults fills zero fields.
func (c *Config) SetDefaults() {
	if c.FrameInterval == 0 {
		c.FrameInterval = DefaultFrameInterval
	}
}

// Validate rejects negative intervals.
func (c Config) Validate() error {
	if c.FrameInterval < 0 {
		return fmt.Errorf("virtual: frame interval must be positive, got %v", c.FrameInterval)
	}
	return nil
}

type timer struct {
	id     ports.TimerID
	due    time.Duration
	seq    uint64
	delay  time.Duration
	repeat bool
	fn     func()
}

type frame struct {
	id ports.FrameID
	fn ports.FrameCallback
}

// Host is a ports.Host with a manually advanced clock.
type Host struct {
	*element.Store

	interval time.Duration

	mu        sync.Mutex
	now       time.Duration
	frames    []frame
	nextFrame ports.FrameID
	timers    map[ports.TimerID]*timer
	nextTimer ports.TimerID
	seq       uint64
	posted    []func()
	steps     uint64
}

// New creates a virtual host at time zero.
// Invalid configs fall back to defaults.
func New(cfg Config) *Host {
	cfg.SetDefaults()
	if cfg.Validate() != nil {
		cfg = DefaultConfig()
	}
	return &Host{
		Store:    element.NewStore(),
		interval: cfg.FrameInterval,
		timers:   make(map[ports.TimerID]*timer),
	}
}

// Now returns the current virtual time.
func (h *Host) Now() time.Duration {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.now
}

// Frames returns the number of completed steps.
func (h *Host) Frames() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.steps
}

// FrameInterval returns the virtual time advanced by one Step.
func (h *Host) FrameInterval() time.Duration { return h.interval }

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

// SetTimer implements ports.TimerSource. Non-positive delays fire on the next step.
func (h *Host) SetTimer(delay time.Duration, fn func(), repeat bool) ports.TimerID {
	h.mu.Lock()
	defer h.mu.Unlock()
	if delay < 0 {
		delay = 0
	}
	h.nextTimer++
	h.seq++
	h.timers[h.nextTimer] = &timer{
		id:     h.nextTimer,
		due:    h.now + delay,
		seq:    h.seq,
		delay:  delay,
		repeat: repeat,
		fn:     fn,
	}
	return h.nextTimer
}

// ClearTimer implements ports.TimerSource.
func (h *Host) ClearTimer(id ports.TimerID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.timers, id)
}

// Timers returns the number of pending timers.
func (h *Host) Timers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.timers)
}

// PendingFrames returns the number of outstanding frame requests.
func (h *Host) PendingFrames() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.frames)
}

// Post implements ports.Dispatcher. Work runs at the start of the next step.
func (h *Host) Post(fn func()) {
	if fn == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.posted = append(h.posted, fn)
}

// Step advances the clock by one frame interval.
//
// Posted work drains first, then every timer due up to the new time fires in
// (due, creation) order, then the frame requests pending at that point fire
// with the new time.
func (h *Host) Step() {
	h.drain()

	h.mu.Lock()
	target := h.now + h.interval
	h.mu.Unlock()

	h.fireTimers(target)

	h.mu.Lock()
	h.now = target
	pending := h.frames
	h.frames = nil
	h.steps++
	h.mu.Unlock()

	for _, f := range pending {
		f.fn(target)
	}
}

// Run performs n steps.
func (h *Host) Run(n int) {
	for i := 0; i < n; i++ {
		h.Step()
	}
}

// Advance steps until at least d of virtual time has passed.
func (h *Host) Advance(d time.Duration) {
	end := h.Now() + d
	for h.Now() < end {
		h.Step()
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

func (h *Host) fireTimers(target time.Duration) {
	for {
		h.mu.Lock()
		next := h.nextDue(target)
		if next == nil {
			h.mu.Unlock()
			return
		}
		if next.due > h.now {
			h.now = next.due
		}
		if next.repeat {
			// a zero-delay interval would spin forever within one step
			step := next.delay
			if step <= 0 {
				step = h.interval
			}
			next.due += step
			h.seq++
			next.seq = h.seq
		} else {
			delete(h.timers, next.id)
		}
		fn := next.fn
		h.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest timer due at or before target. Caller holds mu.
func (h *Host) nextDue(target time.Duration) *timer {
	var due []*timer
	for _, t := range h.timers {
		if t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].seq < due[j].seq
	})
	return due[0]
}

var _ ports.Host = (*Host)(nil)
