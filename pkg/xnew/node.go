package xnew

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/bft-labs/xnew/internal/ports"
	"github.com/bft-labs/xnew/pkg/lifecycle"
)

// Node is one managed component instance.
//
// A node is created by Runtime.New, extended by component functions, driven
// by the scheduler of its root and destroyed by Finalize.
type Node struct {
	rt     *Runtime
	id     uuid.UUID
	parent *Node

	children []*Node

	phase      lifecycle.Phase
	wantsStart bool
	startedAt  time.Duration
	observers  []lifecycle.Observer

	hooks   hooks
	ready   []<-chan struct{}
	members map[string]Member
	order   []string

	listeners map[string][]*entry
	bridges   map[string]ports.Subscription

	timers []*Timer
	tags   []string

	element ports.Handle
	owned   []ports.Handle
	global  map[string]any

	frameID   ports.FrameID
	scheduled bool
}

// ID returns the node's unique identifier.
func (n *Node) ID() uuid.UUID { return n.id }

func (n *Node) String() string {
	return "node:" + n.id.String()
}

// Runtime returns the runtime that owns the node.
func (n *Node) Runtime() *Runtime { return n.rt }

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the live children in creation order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Root returns the top of the node's tree.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Global returns the data store shared by every node of the tree. It is
// created with the root and inherited by descendants; a detached node starts
// a new store.
func (n *Node) Global() map[string]any { return n.global }

// Element returns the node's own host element, or the nearest ancestor's.
func (n *Node) Element() Handle {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.element != nil {
			return cur.element
		}
	}
	return nil
}

// Nest creates a host element under the current element and makes it the
// node's own element. The node destroys it at finalization. Listeners bridged
// before the call stay on the previous element.
func (n *Node) Nest(desc Description) error {
	if n.phase.Terminal() {
		return fmt.Errorf("nest %q in %s: %w", desc.Tag, n, ErrFinalized)
	}
	h, err := n.rt.host.Create(desc, n.Element())
	if err != nil {
		return fmt.Errorf("nest %q in %s: %w", desc.Tag, n, err)
	}
	n.owned = append(n.owned, h)
	n.element = h
	return nil
}

// Phase returns the current lifecycle phase.
func (n *Node) Phase() Phase { return n.phase }

// IsStarted reports whether the node is in the Started phase.
func (n *Node) IsStarted() bool { return n.phase == lifecycle.PhaseStarted }

// IsStopped reports whether the node is Initializing or Stopped.
func (n *Node) IsStopped() bool {
	return n.phase == lifecycle.PhaseStopped || n.phase == lifecycle.PhaseInitializing
}

// IsFinalized reports whether the node is finalizing or finalized.
func (n *Node) IsFinalized() bool { return n.phase.Terminal() }

// WantsStart reports whether the node has an outstanding start request.
func (n *Node) WantsStart() bool { return n.wantsStart }

// Start requests the node to start. The transition happens on the next frame
// once its parent is started and it is ready.
func (n *Node) Start() {
	if n.phase.Terminal() {
		return
	}
	n.wantsStart = true
}

// Stop withdraws the start request. A started node stops on the next frame.
func (n *Node) Stop() {
	if n.phase.Terminal() {
		return
	}
	n.wantsStart = false
}

// Toggle flips the start request.
func (n *Node) Toggle() {
	if n.wantsStart {
		n.Stop()
	} else {
		n.Start()
	}
}

// Ready reports whether every readiness channel contributed by the node's
// definitions is closed.
func (n *Node) Ready() bool {
	pending := n.ready[:0]
	for _, ch := range n.ready {
		select {
		case <-ch:
		default:
			pending = append(pending, ch)
		}
	}
	for i := len(pending); i < len(n.ready); i++ {
		n.ready[i] = nil
	}
	n.ready = pending
	return len(n.ready) == 0
}
