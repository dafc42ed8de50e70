package xnew

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(n *Node, props Props) Definition {
	count := props.Int("start", 0)
	return Definition{
		Members: map[string]Member{
			"count": Accessor(func() any { return count }, func(v any) { count = v.(int) }),
			"incr": Func(func(args ...any) any {
				count++
				return count
			}),
			"label": Value(props.String("label", "counter")),
		},
	}
}

func TestExtend_Members(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, WithComponent(counter, Props{"start": 5, "label": "hits"}))

	assert.Equal(t, []string{"count", "incr", "label"}, n.Members())
	assert.True(t, n.Has("incr"))
	assert.False(t, n.Has("missing"))

	out, err := n.Call("incr")
	require.NoError(t, err)
	assert.Equal(t, 6, out)

	require.NoError(t, n.Set("count", 10))
	v, err := n.Get("count")
	require.NoError(t, err)
	assert.Equal(t, 10, v)

	v, err = n.Get("label")
	require.NoError(t, err)
	assert.Equal(t, "hits", v)

	fn, err := n.Get("incr")
	require.NoError(t, err)
	assert.NotNil(t, fn)
}

func TestExtend_MemberErrors(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, WithComponent(counter, nil))

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"call unknown", func() error { _, err := n.Call("nope"); return err }, ErrUnknownMember},
		{"get unknown", func() error { _, err := n.Get("nope"); return err }, ErrUnknownMember},
		{"set unknown", func() error { return n.Set("nope", 1) }, ErrUnknownMember},
		{"call value", func() error { _, err := n.Call("label"); return err }, ErrNotCallable},
		{"set value", func() error { return n.Set("label", "x") }, ErrReadOnly},
		{"set func", func() error { return n.Set("incr", 1) }, ErrReadOnly},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var merr *MemberError
			assert.True(t, errors.As(err, &merr))
		})
	}
}

func TestExtend_DefineConflict(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, WithComponent(counter, nil))

	hookRan := false
	err := n.Extend(func(n *Node, props Props) Definition {
		return Definition{
			Start: func() { hookRan = true },
			Members: map[string]Member{
				"aaa":   Value(1),
				"count": Value(2),
			},
		}
	}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDefineConflict)
	var derr *DefineError
	require.True(t, errors.As(err, &derr))
	assert.Equal(t, "count", derr.Name)
	assert.False(t, derr.Reserved)

	assert.False(t, n.Has("aaa"), "no member of a rejected definition is assigned")
	f.host.Step()
	assert.False(t, hookRan)
	assert.Contains(t, f.logger.warn, "define conflict")

	v, _ := n.Get("count")
	assert.Equal(t, 0, v, "existing member untouched")
}

func TestExtend_DefineConflictKeepsSideEffects(t *testing.T) {
	f := newFixture(t)
	n := f.node(t, WithComponent(counter, nil))

	err := n.Extend(func(n *Node, props Props) Definition {
		_, err := n.Runtime().New()
		require.NoError(t, err)
		n.On("#ping", func(args ...any) {})
		n.SetTimeout(time.Second, func() {})
		n.SetTags("enemy")
		return Definition{Members: map[string]Member{"count": Value(1)}}
	}, nil)

	require.ErrorIs(t, err, ErrDefineConflict)
	assert.Len(t, n.Children(), 1)
	assert.Equal(t, 1, n.Listeners("#ping"))
	assert.Equal(t, 1, n.Timers())
	assert.Equal(t, []*Node{n}, f.rt.Lookup("enemy"))
}

func TestExtend_ReservedNames(t *testing.T) {
	f := newFixture(t)
	n := f.node(t)

	for _, name := range []string{"start", "update", "stop", "finalize", "ready"} {
		err := n.Extend(func(n *Node, props Props) Definition {
			return Definition{Members: map[string]Member{name: Value(true)}}
		}, nil)
		var derr *DefineError
		require.True(t, errors.As(err, &derr), name)
		assert.True(t, derr.Reserved, name)
	}
}

func TestExtend_HooksReplaced(t *testing.T) {
	f := newFixture(t)

	var calls []string
	n := f.node(t,
		WithComponent(hooksOf("first", &calls), nil),
		WithComponent(func(n *Node, props Props) Definition {
			return Definition{Start: func() { calls = append(calls, "second.start") }}
		}, nil),
	)

	f.host.Step()
	n.Finalize()

	assert.Equal(t, []string{"second.start", "first.stop", "first.finalize"}, calls)
	assert.Contains(t, f.logger.debug, "hook replaced")
}

func TestExtend_ReadyChannelsAccumulate(t *testing.T) {
	f := newFixture(t)

	a, b := NewSignal(), NewSignal()
	n := f.node(t,
		WithComponent(func(n *Node, props Props) Definition { return Definition{Ready: a.Done()} }, nil),
		WithComponent(func(n *Node, props Props) Definition { return Definition{Ready: b.Done()} }, nil),
	)

	a.Resolve()
	f.host.Step()
	assert.True(t, n.IsStopped())

	b.Resolve()
	f.host.Step()
	assert.True(t, n.IsStarted())
}

func TestExtend_FinalizedNode(t *testing.T) {
	f := newFixture(t)
	n := f.node(t)
	n.Finalize()

	assert.ErrorIs(t, n.Extend(counter, nil), ErrFinalized)
	assert.NoError(t, f.node(t).Extend(nil, nil))
}

func TestExtend_ComponentRunsAsCurrent(t *testing.T) {
	f := newFixture(t)

	var seen *Node
	n := f.node(t)
	require.NoError(t, n.Extend(func(n *Node, props Props) Definition {
		seen = n.Runtime().Current()
		return Definition{}
	}, nil))
	assert.Same(t, n, seen)
}

func TestProps(t *testing.T) {
	p := Props{
		"int":      3,
		"float":    1.5,
		"int64":    int64(7),
		"name":     "ship",
		"on":       true,
		"delay":    "250ms",
		"delay_ms": 40,
		"bad":      "soon",
	}

	assert.Equal(t, 3, p.Int("int", 0))
	assert.Equal(t, 1, p.Int("float", 0))
	assert.Equal(t, 7, p.Int("int64", 0))
	assert.Equal(t, 9, p.Int("missing", 9))
	assert.Equal(t, 3.0, p.Float("int", 0))
	assert.Equal(t, 1.5, p.Float("float", 0))
	assert.Equal(t, 2.5, p.Float("name", 2.5))
	assert.Equal(t, "ship", p.String("name", ""))
	assert.Equal(t, "x", p.String("int", "x"))
	assert.True(t, p.Bool("on", false))
	assert.True(t, p.Bool("missing", true))
	assert.Equal(t, 250*time.Millisecond, p.Duration("delay", 0))
	assert.Equal(t, 40*time.Millisecond, p.Duration("delay_ms", 0))
	assert.Equal(t, time.Second, p.Duration("bad", time.Second))
	assert.Equal(t, time.Second, p.Duration("missing", time.Second))
}
