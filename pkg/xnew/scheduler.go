package xnew

import (
	"time"
)

// schedule registers the root's next frame.
func (n *Node) schedule() {
	if n.parent != nil || n.scheduled || n.phase.Terminal() {
		return
	}
	n.scheduled = true
	n.frameID = n.rt.host.RequestFrame(n.tick)
}

func (n *Node) unschedule() {
	if !n.scheduled {
		return
	}
	n.scheduled = false
	n.rt.host.CancelFrame(n.frameID)
}

// tick is the host frame callback of a root.
func (n *Node) tick(now time.Duration) {
	n.scheduled = false
	if n.phase.Terminal() {
		return
	}

	begin := time.Now()
	visited := 0
	n.rt.boundary(n, "tick", func() {
		n.step(now, &visited)
	})
	n.schedule()

	if len(n.rt.events) > 0 {
		n.rt.events.OnTick(TickEvent{
			Root:    n,
			Now:     now,
			Elapsed: time.Since(begin),
			Visited: visited,
		})
	}
}
