package xnew

import "time"

// EventHandler receives runtime notifications.
// Methods are called synchronously on the runtime goroutine and must return
// quickly; they must not finalize the node they are told about.
type EventHandler interface {
	// OnPhaseChange is called after every node phase transition.
	OnPhaseChange(event PhaseChangeEvent)

	// OnHookError is called when a panic is recovered at a host boundary.
	OnHookError(event HookErrorEvent)

	// OnTick is called after every scheduler walk of a root.
	OnTick(event TickEvent)
}

// PhaseChangeEvent describes one node phase transition.
type PhaseChangeEvent struct {
	Node     *Node
	Previous Phase
	Current  Phase
}

// HookErrorEvent describes a recovered panic.
type HookErrorEvent struct {
	// Node is the node whose code panicked, or the root whose walk failed.
	Node *Node
	Err  *HookError
}

// TickEvent describes one scheduler walk.
type TickEvent struct {
	Root *Node
	// Now is the host frame time passed to the walk.
	Now time.Duration
	// Elapsed is the wall time the walk took.
	Elapsed time.Duration
	// Visited is the number of live nodes the walk reached.
	Visited int
}

// BaseEventHandler provides no-op implementations of all EventHandler methods.
// Embed it to implement only the methods you need.
type BaseEventHandler struct{}

func (BaseEventHandler) OnPhaseChange(PhaseChangeEvent) {}
func (BaseEventHandler) OnHookError(HookErrorEvent)     {}
func (BaseEventHandler) OnTick(TickEvent)               {}

// handlerChain fans events out to the user handler and plugin handlers.
type handlerChain []EventHandler

func (c handlerChain) OnPhaseChange(event PhaseChangeEvent) {
	for _, h := range c {
		h.OnPhaseChange(event)
	}
}

func (c handlerChain) OnHookError(event HookErrorEvent) {
	for _, h := range c {
		h.OnHookError(event)
	}
}

func (c handlerChain) OnTick(event TickEvent) {
	for _, h := range c {
		h.OnTick(event)
	}
}
