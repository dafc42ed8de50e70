package ports

// Dispatcher posts work onto the runtime thread.
// Post is safe to call from any goroutine.
type Dispatcher interface {
	Post(fn func())
}

// Host is everything the runtime needs from its environment.
type Host interface {
	ElementAdapter
	FrameSource
	TimerSource
	Dispatcher
}
