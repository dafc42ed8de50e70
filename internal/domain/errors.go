package domain

import (
	"errors"
	"fmt"
	"time"
)

// Domain errors represent error conditions of the component runtime.
// They are re-exported by pkg/xnew and can be checked with errors.Is.
var (
	// ErrDefineConflict is returned when a definition redefines an existing member name.
	ErrDefineConflict = errors.New("xnew: define conflict")

	// ErrFinalized is returned when an operation targets a finalizing or finalized instance.
	ErrFinalized = errors.New("xnew: instance finalized")

	// ErrUnknownMember is returned when a member name was never defined.
	ErrUnknownMember = errors.New("xnew: unknown member")

	// ErrNotCallable is returned when Call targets a member without a function.
	ErrNotCallable = errors.New("xnew: member is not callable")

	// ErrReadOnly is returned when Set targets a member without a setter.
	ErrReadOnly = errors.New("xnew: member is read-only")

	// ErrAlreadyStarted is returned when a runtime is started twice.
	ErrAlreadyStarted = errors.New("xnew: runtime already started")

	// ErrNotStarted is returned when a runtime is closed before it was started.
	ErrNotStarted = errors.New("xnew: runtime not started")

	// ErrInvalidHandle is returned by element adapters for handles they did not create.
	ErrInvalidHandle = errors.New("xnew: invalid host handle")
)

// DefineError reports a member name collision during Extend.
type DefineError struct {
	// Node is the identifier of the instance being extended.
	Node string
	// Name is the colliding member name.
	Name string
	// Reserved is set when Name collides with a lifecycle hook key.
	Reserved bool
}

func (e *DefineError) Error() string {
	if e.Reserved {
		return fmt.Sprintf("xnew: define conflict on %s: %q is a reserved lifecycle key", e.Node, e.Name)
	}
	return fmt.Sprintf("xnew: define conflict on %s: %q already exists", e.Node, e.Name)
}

func (e *DefineError) Unwrap() error {
	return ErrDefineConflict
}

// MemberError reports a failed member access.
type MemberError struct {
	Node string
	Name string
	Err  error
}

func (e *MemberError) Error() string {
	return fmt.Sprintf("%v: %q on %s", e.Err, e.Name, e.Node)
}

func (e *MemberError) Unwrap() error {
	return e.Err
}

// HookError is a panic recovered from a hook, listener or timer callback at
// a host boundary (frame, timer fire, host event).
type HookError struct {
	// Node is the identifier of the instance whose code panicked.
	Node string
	// Hook names the failing entry point ("start", "update", "listener:<type>", "timer", ...).
	Hook string
	// Value is the value passed to panic().
	Value any
	// StackTrace is the goroutine stack at recovery time.
	StackTrace string
	// Timestamp is when the panic was recovered.
	Timestamp time.Time
}

func (e *HookError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("xnew: panic in %s: %v", e.Hook, e.Value)
	}
	return fmt.Sprintf("xnew: panic in %s of %s: %v", e.Hook, e.Node, e.Value)
}

// Unwrap exposes the panic value when it is an error.
func (e *HookError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}
