package ports

import "time"

// FrameID identifies one pending frame request.
type FrameID uint64

// FrameCallback receives the host frame time, monotonically non-decreasing
// across invocations.
type FrameCallback func(now time.Duration)

// FrameSource is the host's per-frame callback primitive.
// Each request fires at most once; callers re-request after every frame.
type FrameSource interface {
	RequestFrame(fn FrameCallback) FrameID

	// CancelFrame drops a pending request; unknown or consumed ids are ignored.
	CancelFrame(id FrameID)
}
