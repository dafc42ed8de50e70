package xnew

import (
	"time"

	"github.com/bft-labs/xnew/internal/ports"
)

// Timer is a node-owned host timer.
type Timer struct {
	node   *Node
	id     ports.TimerID
	fn     func(count int)
	limit  int
	active bool
	count  int
}

// Count returns how many times the timer has fired.
func (t *Timer) Count() int { return t.count }

// Active reports whether the timer can still fire.
func (t *Timer) Active() bool { return t.active }

// Repeat reports whether the timer can fire more than once.
func (t *Timer) Repeat() bool { return t.limit != 1 }

// Limit returns the maximum number of calls, or 0 when unbounded.
func (t *Timer) Limit() int { return t.limit }

// SetTimer runs fn after delay, and then every delay when repeat is set.
// fn runs with the node as the current node. Timers are cancelled when the
// node is finalized; a finalized node or nil fn yields nil.
func (n *Node) SetTimer(delay time.Duration, fn func(), repeat bool) *Timer {
	if fn == nil {
		return nil
	}
	limit := 1
	if repeat {
		limit = 0
	}
	return n.SetTimerN(delay, func(int) { fn() }, limit)
}

// SetTimerN runs fn every delay at most limit times, passing the running
// call count starting at 1. The timer clears itself after the last call.
// A limit of 0 or less never expires.
func (n *Node) SetTimerN(delay time.Duration, fn func(count int), limit int) *Timer {
	if fn == nil || n.phase.Terminal() {
		return nil
	}
	if limit < 0 {
		limit = 0
	}
	t := &Timer{node: n, fn: fn, limit: limit, active: true}
	t.id = n.rt.host.SetTimer(delay, func() {
		n.rt.boundary(n, "timer", t.fire)
	}, limit != 1)
	n.timers = append(n.timers, t)
	return t
}

// SetTimeout runs fn once after delay.
func (n *Node) SetTimeout(delay time.Duration, fn func()) *Timer {
	return n.SetTimer(delay, fn, false)
}

// SetInterval runs fn every delay.
func (n *Node) SetInterval(delay time.Duration, fn func()) *Timer {
	return n.SetTimer(delay, fn, true)
}

// ClearTimer cancels t. Stale or foreign timers are ignored.
func (n *Node) ClearTimer(t *Timer) {
	if t == nil || t.node != n || !t.active {
		return
	}
	t.active = false
	n.rt.host.ClearTimer(t.id)
	n.forgetTimer(t)
}

// Timers returns the number of active timers.
func (n *Node) Timers() int { return len(n.timers) }

func (t *Timer) fire() {
	if !t.active {
		return
	}
	n := t.node
	t.count++
	count := t.count
	switch {
	case t.limit == 1:
		t.active = false
		n.forgetTimer(t)
	case t.limit > 1 && count >= t.limit:
		n.ClearTimer(t)
	}
	n.rt.within(n, "timer", func() { t.fn(count) })
}

func (n *Node) forgetTimer(t *Timer) {
	for i, c := range n.timers {
		if c == t {
			n.timers = append(n.timers[:i], n.timers[i+1:]...)
			return
		}
	}
}

func (n *Node) clearTimers() {
	for len(n.timers) > 0 {
		n.ClearTimer(n.timers[len(n.timers)-1])
	}
}
