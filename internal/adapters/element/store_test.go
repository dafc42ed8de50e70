package element

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/xnew/internal/domain"
	"github.com/bft-labs/xnew/internal/ports"
)

func TestStore_CreateAndDestroy(t *testing.T) {
	s := NewStore()

	outer, err := s.Create(ports.Description{Tag: "div", ID: "screen"}, nil)
	require.NoError(t, err)
	inner, err := s.Create(ports.Description{Tag: "canvas", Attrs: map[string]string{"width": "400"}}, outer)
	require.NoError(t, err)

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, "400", inner.(*Element).Attr("width"))
	assert.Same(t, outer, inner.(*Element).Parent())

	found, ok := s.Find("screen")
	require.True(t, ok)
	assert.Same(t, outer, found)

	s.Destroy(outer)
	assert.Zero(t, s.Len(), "destroying a parent detaches its subtree")
	_, ok = s.Find("screen")
	assert.False(t, ok)

	// idempotent
	s.Destroy(outer)
	s.Destroy(inner)
	s.Destroy("not-an-element")
	assert.Zero(t, s.Len())
}

func TestStore_DefaultTag(t *testing.T) {
	s := NewStore()
	h, err := s.Create(ports.Description{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "div", h.(*Element).Tag())
}

func TestStore_CreateForeignParent(t *testing.T) {
	s := NewStore()
	_, err := s.Create(ports.Description{Tag: "div"}, 42)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidHandle))
}

func TestStore_DispatchBubbles(t *testing.T) {
	s := NewStore()
	outer, _ := s.Create(ports.Description{Tag: "div"}, nil)
	inner, _ := s.Create(ports.Description{Tag: "span"}, outer)

	var got []string
	s.Subscribe(outer, "click", func(args ...any) { got = append(got, "outer") }, ports.SubscribeOptions{})
	s.Subscribe(inner, "click", func(args ...any) { got = append(got, "inner:"+args[0].(string)) }, ports.SubscribeOptions{})

	n := s.Dispatch(inner, "click", "x")

	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"inner:x", "outer"}, got)
}

func TestStore_Unsubscribe(t *testing.T) {
	s := NewStore()
	h, _ := s.Create(ports.Description{Tag: "div"}, nil)

	calls := 0
	sub := s.Subscribe(h, "keydown", func(args ...any) { calls++ }, ports.SubscribeOptions{Passive: true})
	assert.Equal(t, []string{"keydown=1"}, s.Subscriptions(h))

	s.Dispatch(h, "keydown")
	s.Unsubscribe(sub)
	s.Unsubscribe(sub)
	s.Unsubscribe(nil)
	s.Dispatch(h, "keydown")

	assert.Equal(t, 1, calls)
	assert.Empty(t, s.Subscriptions(h))
}

func TestStore_SubscribeNilListener(t *testing.T) {
	s := NewStore()
	h, _ := s.Create(ports.Description{Tag: "div"}, nil)
	assert.Nil(t, s.Subscribe(h, "click", nil, ports.SubscribeOptions{}))
}
