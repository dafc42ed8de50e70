package tagreaper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/xnew/pkg/xnew"
)

func setup(t *testing.T, cfg Config) (*xnew.Runtime, *xnew.VirtualHost, *Plugin) {
	t.Helper()
	p := New(cfg)
	host := xnew.NewVirtualHost(xnew.VirtualConfig{})
	rt, err := xnew.New(host, xnew.WithPlugin(p))
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))
	return rt, host, p
}

func TestPlugin_ReapsOldest(t *testing.T) {
	rt, host, p := setup(t, Config{Tag: "dot", HighWatermark: 10, LowWatermark: 5})

	root, err := rt.New()
	require.NoError(t, err)

	var dots []*xnew.Node
	for i := 0; i < 12; i++ {
		n, err := rt.New(xnew.WithParent(root), xnew.WithTags("dot"))
		require.NoError(t, err)
		dots = append(dots, n)
	}

	host.Step() // tick reports 12 > 10 and posts the reap
	assert.Len(t, rt.Lookup("dot"), 12)

	host.Step() // posted reap runs first
	assert.Len(t, rt.Lookup("dot"), 5)
	assert.Equal(t, uint64(7), p.Reaped())

	for i, n := range dots {
		assert.Equal(t, i < 7, n.IsFinalized(), "dot %d", i)
	}
	assert.True(t, root.IsStarted())
}

func TestPlugin_BelowHighWatermark(t *testing.T) {
	rt, host, p := setup(t, Config{Tag: "dot", HighWatermark: 10})

	root, err := rt.New()
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := rt.New(xnew.WithParent(root), xnew.WithTags("dot"))
		require.NoError(t, err)
	}

	host.Run(3)
	assert.Len(t, rt.Lookup("dot"), 10)
	assert.Zero(t, p.Reaped())
}

func TestPlugin_CheckInterval(t *testing.T) {
	rt, host, p := setup(t, Config{Tag: "dot", HighWatermark: 2, LowWatermark: 1, CheckInterval: time.Second})

	root, err := rt.New()
	require.NoError(t, err)

	host.Step() // first check, nothing tagged
	for i := 0; i < 4; i++ {
		_, err := rt.New(xnew.WithParent(root), xnew.WithTags("dot"))
		require.NoError(t, err)
	}

	host.Run(10)
	assert.Len(t, rt.Lookup("dot"), 4)

	host.Advance(time.Second)
	host.Step()
	assert.Len(t, rt.Lookup("dot"), 1)
	assert.Equal(t, uint64(3), p.Reaped())
}

func TestPlugin_RequiresTag(t *testing.T) {
	host := xnew.NewVirtualHost(xnew.VirtualConfig{})
	rt, err := xnew.New(host, WithTagReaper(Config{HighWatermark: 10}))
	require.NoError(t, err)
	assert.Error(t, rt.Start(context.Background()))
}

func TestNew_Defaults(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantHigh int
		wantLow  int
	}{
		{"zero", Config{}, 1000, 750},
		{"derived low", Config{HighWatermark: 100}, 100, 75},
		{"low above high", Config{HighWatermark: 100, LowWatermark: 200}, 100, 75},
		{"explicit", Config{HighWatermark: 100, LowWatermark: 10}, 100, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.cfg)
			assert.Equal(t, tt.wantHigh, p.highWatermark)
			assert.Equal(t, tt.wantLow, p.lowWatermark)
		})
	}
}
