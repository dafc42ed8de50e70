package framebudget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

type mockLogger struct {
	mu    sync.Mutex
	warns []string
	infos []string
}

func (m *mockLogger) Debug(msg string, fields ...log.Field) {}
func (m *mockLogger) Error(msg string, fields ...log.Field) {}

func (m *mockLogger) Info(msg string, fields ...log.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.infos = append(m.infos, msg)
}

func (m *mockLogger) Warn(msg string, fields ...log.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func TestPlugin_OnTick(t *testing.T) {
	logger := &mockLogger{}
	p := New(Config{Budget: 5 * time.Millisecond, ReportInterval: time.Second})

	clock := time.Unix(0, 0)
	p.now = func() time.Time { return clock }

	host := xnew.NewVirtualHost(xnew.VirtualConfig{})
	rt, err := xnew.New(host, xnew.WithLogger(logger), xnew.WithPlugin(p))
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))

	root, err := rt.New()
	require.NoError(t, err)

	tests := []struct {
		name      string
		elapsed   time.Duration
		advance   time.Duration
		wantWarns int
	}{
		{"within budget", 2 * time.Millisecond, 0, 0},
		{"first overrun warns", 9 * time.Millisecond, 0, 1},
		{"second overrun suppressed", 7 * time.Millisecond, 100 * time.Millisecond, 1},
		{"overrun after interval warns", 6 * time.Millisecond, 2 * time.Second, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock = clock.Add(tt.advance)
			p.OnTick(xnew.TickEvent{Root: root, Elapsed: tt.elapsed, Visited: 1})
			assert.Len(t, logger.warns, tt.wantWarns)
		})
	}

	s := p.Stats()
	assert.Equal(t, uint64(4), s.Ticks)
	assert.Equal(t, uint64(3), s.Overruns)
	assert.Equal(t, 9*time.Millisecond, s.Worst)
	assert.Equal(t, 6*time.Millisecond, s.Mean())

	require.NoError(t, rt.Close(context.Background()))
	assert.Contains(t, logger.infos, "frame budget summary")
}

func TestPlugin_ReceivesRuntimeEvents(t *testing.T) {
	p := New(DefaultConfig())
	host := xnew.NewVirtualHost(xnew.VirtualConfig{})
	rt, err := xnew.New(host, WithFrameBudget(DefaultConfig()), xnew.WithPlugin(p))
	require.NoError(t, err)
	require.NoError(t, rt.Start(context.Background()))

	_, err = rt.New(xnew.WithComponent(func(n *xnew.Node, props xnew.Props) xnew.Definition {
		return xnew.Definition{Update: func(time.Duration) { panic("boom") }}
	}, nil))
	require.NoError(t, err)

	host.Run(3)

	s := p.Stats()
	assert.Equal(t, uint64(3), s.Ticks)
	assert.Equal(t, uint64(3), s.HookErrors)
}

func TestStats_MeanEmpty(t *testing.T) {
	assert.Zero(t, Stats{}.Mean())
}

func TestNew_Defaults(t *testing.T) {
	p := New(Config{})
	assert.Equal(t, "framebudget", p.Name())
	assert.Equal(t, 8*time.Millisecond, p.budget)
	assert.Equal(t, time.Second, p.reportInterval)
}
