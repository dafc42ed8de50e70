package ports

import "time"

// TimerID identifies one host timer.
type TimerID uint64

// TimerSource schedules callbacks on the runtime thread.
type TimerSource interface {
	// SetTimer runs fn after delay, and then every delay when repeat is set.
	SetTimer(delay time.Duration, fn func(), repeat bool) TimerID

	// ClearTimer cancels a timer; unknown or expired ids are ignored.
	ClearTimer(id TimerID)
}
