package lifecycle

import (
	"errors"
	"fmt"
)

// Phase represents the lifecycle phase of a runtime instance.
type Phase int

const (
	PhaseInitializing Phase = iota
	PhaseStopped
	PhaseStarted
	PhaseFinalizing
	PhaseFinalized
)

// String returns a human-readable representation of the phase.
func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "Initializing"
	case PhaseStopped:
		return "Stopped"
	case PhaseStarted:
		return "Started"
	case PhaseFinalizing:
		return "Finalizing"
	case PhaseFinalized:
		return "Finalized"
	default:
		return "Unknown"
	}
}

// Terminal reports whether the phase is Finalizing or Finalized.
func (p Phase) Terminal() bool {
	return p == PhaseFinalizing || p == PhaseFinalized
}

// ErrInvalidTransition is returned by Validate for transitions outside the table.
var ErrInvalidTransition = errors.New("lifecycle: invalid transition")

// TransitionError describes a rejected phase transition.
type TransitionError struct {
	From Phase
	To   Phase
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("lifecycle: invalid transition %s -> %s", e.From, e.To)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// Validate returns a *TransitionError when moving from one phase to another
// is not allowed.
func Validate(from, to Phase) error {
	ok := false
	switch from {
	case PhaseInitializing:
		ok = to == PhaseStopped || to == PhaseFinalizing
	case PhaseStopped:
		ok = to == PhaseStarted || to == PhaseFinalizing
	case PhaseStarted:
		ok = to == PhaseStopped
	case PhaseFinalizing:
		ok = to == PhaseFinalized
	}
	if !ok {
		return &TransitionError{From: from, To: to}
	}
	return nil
}

// Observer is notified after every successful phase transition.
type Observer interface {
	OnTransition(previous, current Phase)
}
