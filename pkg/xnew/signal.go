package xnew

import "sync"

// Signal is a resolve-once readiness gate. Its Done channel can be used as
// Definition.Ready. Resolve is safe from any goroutine.
type Signal struct {
	once sync.Once
	ch   chan struct{}
}

// NewSignal returns an unresolved signal.
func NewSignal() *Signal {
	return &Signal{ch: make(chan struct{})}
}

// Resolve closes the signal. Later calls are no-ops.
func (s *Signal) Resolve() {
	s.once.Do(func() { close(s.ch) })
}

// Done returns a channel closed by Resolve.
func (s *Signal) Done() <-chan struct{} { return s.ch }

// Resolved reports whether Resolve has been called.
func (s *Signal) Resolved() bool {
	select {
	case <-s.ch:
		return true
	default:
		return false
	}
}
