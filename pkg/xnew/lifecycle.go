package xnew

import (
	"time"

	"github.com/bft-labs/xnew/pkg/lifecycle"
	"github.com/bft-labs/xnew/pkg/log"
)

func (n *Node) transition(to Phase) {
	from := n.phase
	if err := lifecycle.Validate(from, to); err != nil {
		n.rt.logger.Error("phase transition rejected", log.Node(n.id), log.Err(err))
		return
	}
	n.phase = to

	n.rt.logger.Debug("phase changed",
		log.Node(n.id),
		log.String("from", from.String()),
		log.Phase(to))
	for _, o := range n.observers {
		o.OnTransition(from, to)
	}
	if len(n.rt.events) > 0 {
		n.rt.events.OnPhaseChange(PhaseChangeEvent{Node: n, Previous: from, Current: to})
	}
}

// gate reports whether the node may be started.
func (n *Node) gate() bool {
	if !n.wantsStart {
		return false
	}
	if n.parent != nil && n.parent.phase != lifecycle.PhaseStarted {
		return false
	}
	return n.Ready()
}

func (n *Node) enterStarted(now time.Duration) {
	n.startedAt = now
	n.transition(lifecycle.PhaseStarted)
	if n.hooks.start != nil {
		n.rt.within(n, "start", n.hooks.start)
	}
}

func (n *Node) enterStopped() {
	n.transition(lifecycle.PhaseStopped)
	if n.hooks.stop != nil {
		n.rt.within(n, "stop", n.hooks.stop)
	}
}

// step applies one scheduler pass to n and its subtree: the node's own
// transition first, then its children, then its update hook.
func (n *Node) step(now time.Duration, visited *int) {
	if n.phase.Terminal() {
		return
	}
	*visited++

	open := n.gate()
	switch {
	case n.phase == lifecycle.PhaseStopped && open:
		n.enterStarted(now)
	case n.phase == lifecycle.PhaseStarted && !open:
		n.enterStopped()
	}

	for _, c := range n.Children() {
		if n.phase.Terminal() {
			return
		}
		if c.parent == n && !c.phase.Terminal() {
			c.step(now, visited)
		}
	}

	if n.phase == lifecycle.PhaseStarted && n.hooks.update != nil {
		n.rt.within(n, "update", func() {
			n.hooks.update(now - n.startedAt)
		})
	}
}

// Finalize destroys the node immediately.
//
// A started node is stopped first. Then its tags, timers and listeners are
// cleared, its children are finalized, its finalize hook runs, its owned
// elements are destroyed and it is removed from its parent. Finalize is
// idempotent and safe to call from the node's own hooks.
func (n *Node) Finalize() {
	if n.phase.Terminal() {
		return
	}
	if n.phase == lifecycle.PhaseStarted {
		n.enterStopped()
		if n.phase.Terminal() {
			return
		}
	}

	n.transition(lifecycle.PhaseFinalizing)
	defer n.release()

	n.clearTags()
	n.clearTimers()
	n.Off("", nil)

	for _, c := range n.Children() {
		c.Finalize()
	}

	if n.hooks.finalize != nil {
		n.rt.within(n, "finalize", n.hooks.finalize)
	}
}

// release completes finalization. It runs even if the finalize hook panics.
func (n *Node) release() {
	// children or listeners can only appear here through a panicking teardown
	for _, c := range n.Children() {
		c.Finalize()
	}
	n.clearTimers()
	n.Off("", nil)

	for i := len(n.owned) - 1; i >= 0; i-- {
		n.rt.host.Destroy(n.owned[i])
	}
	n.owned = nil
	n.element = nil

	n.unschedule()
	n.hooks = hooks{}
	n.ready = nil

	n.transition(lifecycle.PhaseFinalized)
	n.rt.detach(n)
}
