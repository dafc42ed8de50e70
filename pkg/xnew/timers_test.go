package xnew

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimers_Timeout(t *testing.T) {
	f := newFixture(t)
	n := f.node(t)

	var current *Node
	tm := n.SetTimeout(25*time.Millisecond, func() { current = f.rt.Current() })
	require.NotNil(t, tm)
	assert.Equal(t, 1, n.Timers())

	f.host.Run(2)
	assert.Zero(t, tm.Count())

	f.host.Step()
	assert.Equal(t, 1, tm.Count())
	assert.False(t, tm.Active())
	assert.Same(t, n, current)
	assert.Zero(t, n.Timers())

	f.host.Run(3)
	assert.Equal(t, 1, tm.Count())
}

func TestTimers_IntervalAndClear(t *testing.T) {
	f := newFixture(t)
	n := f.node(t)

	tm := n.SetInterval(frameInterval, func() {})
	f.host.Run(3)
	assert.Equal(t, 3, tm.Count())
	assert.True(t, tm.Repeat())

	n.ClearTimer(tm)
	n.ClearTimer(tm)
	n.ClearTimer(nil)
	f.host.Run(3)
	assert.Equal(t, 3, tm.Count())
	assert.Zero(t, f.host.Timers())
}

func TestTimers_ClearFromOwnCallback(t *testing.T) {
	f := newFixture(t)
	n := f.node(t)

	var tm *Timer
	tm = n.SetInterval(frameInterval, func() {
		if tm.Count() == 2 {
			n.ClearTimer(tm)
		}
	})
	f.host.Run(5)
	assert.Equal(t, 2, tm.Count())
}

func TestTimers_ForeignTimerIgnored(t *testing.T) {
	f := newFixture(t)
	a := f.node(t)
	b := f.node(t)

	tm := a.SetInterval(frameInterval, func() {})
	b.ClearTimer(tm)
	assert.True(t, tm.Active())
}

func TestTimers_FinalizeCancels(t *testing.T) {
	f := newFixture(t)

	root := f.node(t)
	child := f.node(t, WithParent(root))

	calls := 0
	tm := child.SetInterval(5*time.Millisecond, func() { calls++ })
	child.SetTimeout(time.Hour, func() { calls += 100 })

	f.host.Step()
	require.Equal(t, 2, calls)

	root.Finalize()
	f.host.Advance(time.Second)

	assert.Equal(t, 2, calls)
	assert.False(t, tm.Active())
	assert.Zero(t, f.host.Timers())
	assert.Nil(t, child.SetTimeout(time.Millisecond, func() {}))
}

func TestTimers_FinalizeFromTimerCallback(t *testing.T) {
	f := newFixture(t)
	n := f.node(t)

	calls := 0
	n.SetInterval(frameInterval, func() {
		calls++
		n.Finalize()
	})
	f.host.Run(3)
	assert.Equal(t, 1, calls)
	assert.True(t, n.IsFinalized())
}

func TestTimers_PanicRecoveredAtHostBoundary(t *testing.T) {
	f := newFixture(t)
	n := f.node(t)

	after := 0
	n.SetTimeout(time.Millisecond, func() { panic("timer failed") })
	n.SetTimeout(2*time.Millisecond, func() { after++ })

	assert.NotPanics(t, func() { f.host.Step() })
	assert.Equal(t, 1, after, "other timers keep firing")
	require.Len(t, f.events.errors, 1)
	assert.Equal(t, "timer", f.events.errors[0].Err.Hook)
	assert.Same(t, n, f.events.errors[0].Node)
}

func TestTimers_Limit(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		runs  int
		want  []int
	}{
		{"single call", 1, 4, []int{1}},
		{"stops at limit", 3, 6, []int{1, 2, 3}},
		{"unbounded", 0, 4, []int{1, 2, 3, 4}},
		{"negative is unbounded", -2, 2, []int{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			n := f.node(t)

			var got []int
			tm := n.SetTimerN(frameInterval, func(count int) { got = append(got, count) }, tt.limit)
			require.NotNil(t, tm)

			f.host.Run(tt.runs)
			assert.Equal(t, tt.want, got)
			if tt.limit > 0 {
				assert.False(t, tm.Active())
				assert.Zero(t, n.Timers())
				assert.Zero(t, f.host.Timers())
			} else {
				assert.True(t, tm.Active())
				assert.Zero(t, tm.Limit())
			}
		})
	}
}
