package xnew

import (
	"github.com/bft-labs/xnew/internal/adapters/loop"
	"github.com/bft-labs/xnew/internal/adapters/virtual"
	"github.com/bft-labs/xnew/internal/ports"
	"github.com/bft-labs/xnew/pkg/lifecycle"
)

// Host is the environment a runtime runs in: an element adapter, a frame
// source, a timer source and a dispatcher onto the runtime goroutine.
type Host = ports.Host

type (
	// Handle is an opaque host element.
	Handle = ports.Handle

	// Description declares a host element to create.
	Description = ports.Description

	// Phase is the lifecycle phase of a node.
	Phase = lifecycle.Phase
)

// Lifecycle phases.
const (
	PhaseInitializing = lifecycle.PhaseInitializing
	PhaseStopped      = lifecycle.PhaseStopped
	PhaseStarted      = lifecycle.PhaseStarted
	PhaseFinalizing   = lifecycle.PhaseFinalizing
	PhaseFinalized    = lifecycle.PhaseFinalized
)

type (
	// VirtualHost is a deterministic host driven by a manual clock.
	VirtualHost = virtual.Host
	// VirtualConfig configures a VirtualHost.
	VirtualConfig = virtual.Config

	// LoopHost is a real-time host driven by its Run goroutine.
	LoopHost = loop.Host
	// LoopConfig configures a LoopHost.
	LoopConfig = loop.Config
)

// NewVirtualHost creates a virtual host at time zero.
func NewVirtualHost(cfg VirtualConfig) *VirtualHost {
	return virtual.New(cfg)
}

// NewLoopHost creates a real-time host. Call its Run method to drive it.
func NewLoopHost(cfg LoopConfig) *LoopHost {
	return loop.New(cfg)
}
