package xnew

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bft-labs/xnew/internal/adapters/virtual"
	"github.com/bft-labs/xnew/pkg/log"
)

const frameInterval = 10 * time.Millisecond

// recorder is an EventHandler that keeps everything it receives.
type recorder struct {
	BaseEventHandler
	phases []PhaseChangeEvent
	errors []HookErrorEvent
	ticks  []TickEvent
}

func (r *recorder) OnPhaseChange(e PhaseChangeEvent) { r.phases = append(r.phases, e) }
func (r *recorder) OnHookError(e HookErrorEvent)     { r.errors = append(r.errors, e) }
func (r *recorder) OnTick(e TickEvent)               { r.ticks = append(r.ticks, e) }

// mockLogger captures log messages by level.
type mockLogger struct {
	debug []string
	info  []string
	warn  []string
	error []string
}

func (m *mockLogger) Debug(msg string, fields ...log.Field) { m.debug = append(m.debug, msg) }
func (m *mockLogger) Info(msg string, fields ...log.Field)  { m.info = append(m.info, msg) }
func (m *mockLogger) Warn(msg string, fields ...log.Field)  { m.warn = append(m.warn, msg) }
func (m *mockLogger) Error(msg string, fields ...log.Field) { m.error = append(m.error, msg) }

type fixture struct {
	rt     *Runtime
	host   *virtual.Host
	events *recorder
	logger *mockLogger
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		host:   virtual.New(virtual.Config{FrameInterval: frameInterval}),
		events: &recorder{},
		logger: &mockLogger{},
	}
	opts = append([]Option{WithEventHandler(f.events), WithLogger(f.logger)}, opts...)
	rt, err := New(f.host, opts...)
	require.NoError(t, err)
	f.rt = rt
	return f
}

func (f *fixture) node(t *testing.T, opts ...NodeOption) *Node {
	t.Helper()
	n, err := f.rt.New(opts...)
	require.NoError(t, err)
	require.NotNil(t, n)
	return n
}

// hooksOf builds a component contributing only lifecycle hooks that append
// to out.
func hooksOf(name string, out *[]string) Component {
	return func(n *Node, props Props) Definition {
		return Definition{
			Start:    func() { *out = append(*out, name+".start") },
			Stop:     func() { *out = append(*out, name+".stop") },
			Finalize: func() { *out = append(*out, name+".finalize") },
		}
	}
}
