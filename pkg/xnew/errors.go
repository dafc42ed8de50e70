package xnew

import (
	"github.com/bft-labs/xnew/internal/domain"
	"github.com/bft-labs/xnew/pkg/lifecycle"
)

// Re-export domain errors for public API.
var (
	// ErrDefineConflict is returned by Extend when a member name already exists
	// or collides with a lifecycle hook key.
	ErrDefineConflict = domain.ErrDefineConflict

	// ErrFinalized is returned when an operation targets a finalizing or finalized node.
	ErrFinalized = domain.ErrFinalized

	// ErrUnknownMember is returned by member access for names never defined.
	ErrUnknownMember = domain.ErrUnknownMember

	// ErrNotCallable is returned by Call for members without a function.
	ErrNotCallable = domain.ErrNotCallable

	// ErrReadOnly is returned by Set for members without a setter.
	ErrReadOnly = domain.ErrReadOnly

	// ErrAlreadyStarted is returned when Start is called twice.
	ErrAlreadyStarted = domain.ErrAlreadyStarted

	// ErrNotStarted is returned when Close is called before Start.
	ErrNotStarted = domain.ErrNotStarted

	// ErrInvalidTransition is wrapped by *TransitionError.
	ErrInvalidTransition = lifecycle.ErrInvalidTransition
)

type (
	// DefineError reports a member name collision.
	DefineError = domain.DefineError

	// MemberError reports a failed member access.
	MemberError = domain.MemberError

	// HookError is a panic recovered at a host boundary.
	HookError = domain.HookError

	// TransitionError describes a rejected phase transition.
	TransitionError = lifecycle.TransitionError
)
