package xnew

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/bft-labs/xnew/internal/ports"
	"github.com/bft-labs/xnew/internal/registry"
	"github.com/bft-labs/xnew/pkg/lifecycle"
	"github.com/bft-labs/xnew/pkg/log"
)

// Runtime owns one instance tree arena, its tag registry, its broadcast
// index and its context stack. Use New to create one.
//
// A Runtime is not safe for concurrent use; all calls except Post must run
// on the goroutine the host drives it from.
type Runtime struct {
	host    Host
	logger  log.Logger
	events  handlerChain
	plugins []Plugin

	nodes     map[uuid.UUID]*Node
	roots     []*Node
	tags      *registry.Index[string, *Node]
	broadcast *registry.Index[string, *Node]

	stack []frame
	fault *fault

	mu      sync.Mutex
	started bool
}

// New creates a runtime bound to host.
func New(host Host, opts ...Option) (*Runtime, error) {
	if host == nil {
		return nil, errors.New("xnew: host is required")
	}
	if err := validateModuleVersions(); err != nil {
		return nil, err
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	var chain handlerChain
	if o.eventHandler != nil {
		chain = append(chain, o.eventHandler)
	}
	for _, p := range o.plugins {
		if h, ok := p.(EventHandler); ok {
			chain = append(chain, h)
		}
	}

	return &Runtime{
		host:      host,
		logger:    o.logger,
		events:    chain,
		plugins:   o.plugins,
		nodes:     make(map[uuid.UUID]*Node),
		tags:      registry.New[string, *Node](),
		broadcast: registry.New[string, *Node](),
	}, nil
}

// Start initializes plugins in registration order.
func (rt *Runtime) Start(ctx context.Context) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	if rt.started {
		return ErrAlreadyStarted
	}

	pc := PluginContext{Runtime: rt, Logger: rt.logger}
	for _, p := range rt.plugins {
		if err := p.Initialize(ctx, pc); err != nil {
			rt.logger.Error("plugin initialization failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			return fmt.Errorf("plugin %s: %w", p.Name(), err)
		}
		rt.logger.Info("plugin initialized", log.String("plugin", p.Name()))
	}

	rt.started = true
	return nil
}

// Close finalizes every root and shuts plugins down in reverse order.
func (rt *Runtime) Close(ctx context.Context) error {
	rt.mu.Lock()
	if !rt.started {
		rt.mu.Unlock()
		return ErrNotStarted
	}
	rt.started = false
	rt.mu.Unlock()

	for _, root := range rt.Roots() {
		root.Finalize()
	}

	var errs []error
	for i := len(rt.plugins) - 1; i >= 0; i-- {
		p := rt.plugins[i]
		if err := p.Shutdown(ctx); err != nil {
			rt.logger.Error("plugin shutdown failed",
				log.String("plugin", p.Name()),
				log.Err(err))
			errs = append(errs, err)
		} else {
			rt.logger.Info("plugin shutdown complete", log.String("plugin", p.Name()))
		}
	}
	return errors.Join(errs...)
}

// Host returns the host the runtime is bound to.
func (rt *Runtime) Host() Host { return rt.host }

// Logger returns the runtime logger.
func (rt *Runtime) Logger() log.Logger { return rt.logger }

// Post runs fn on the runtime goroutine. It is safe from any goroutine.
func (rt *Runtime) Post(fn func()) {
	rt.host.Post(fn)
}

// Current returns the node whose code is executing, or nil.
func (rt *Runtime) Current() *Node {
	if len(rt.stack) == 0 {
		return nil
	}
	return rt.stack[len(rt.stack)-1].node
}

// Lookup returns the de-duplicated union of live nodes carrying any of the
// space-separated tags.
func (rt *Runtime) Lookup(tags string) []*Node {
	return rt.tags.Union(strings.Fields(tags)...)
}

// Emit broadcasts a "#"-prefixed event type to every node listening for it.
// Local types are ignored since the runtime is not a node.
func (rt *Runtime) Emit(typ string, args ...any) {
	if !isBroadcast(typ) {
		return
	}
	rt.deliver(typ, args)
}

// Node returns the live node with the given id.
func (rt *Runtime) Node(id uuid.UUID) (*Node, bool) {
	n, ok := rt.nodes[id]
	return n, ok
}

// Roots returns the live roots in creation order.
func (rt *Runtime) Roots() []*Node {
	out := make([]*Node, len(rt.roots))
	copy(out, rt.roots)
	return out
}

// Len returns the number of live nodes.
func (rt *Runtime) Len() int {
	return len(rt.nodes)
}

// New creates a node. Unless WithParent or Detached is given, the parent is
// the node whose code is currently running; outside any node code the new
// node is a root and gets its own scheduler registration.
//
// If an element cannot be created or a component definition is rejected, the
// half-built node is finalized and the error returned. A panicking component
// also finalizes the node before the panic continues.
func (rt *Runtime) New(opts ...NodeOption) (*Node, error) {
	var cfg nodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	parent := cfg.parent
	if !cfg.parentSet && !cfg.detached {
		parent = rt.Current()
	}
	if cfg.detached {
		parent = nil
	}
	if parent != nil && parent.phase.Terminal() {
		return nil, fmt.Errorf("create child of %s: %w", parent, ErrFinalized)
	}

	n := &Node{
		rt:         rt,
		id:         uuid.Must(uuid.NewV7()),
		parent:     parent,
		phase:      lifecycle.PhaseInitializing,
		wantsStart: !cfg.stopped,
		members:    make(map[string]Member),
		listeners:  make(map[string][]*entry),
		bridges:    make(map[string]ports.Subscription),
		observers:  cfg.observers,
	}
	rt.nodes[n.id] = n
	if parent != nil {
		n.global = parent.global
		parent.children = append(parent.children, n)
	} else {
		n.global = make(map[string]any)
		rt.roots = append(rt.roots, n)
	}
	// a panicking component must not leave a half-built node registered
	defer func() {
		if r := recover(); r != nil {
			f := rt.fault
			n.Finalize()
			rt.fault = f
			panic(r)
		}
	}()

	if cfg.handle != nil {
		n.element = cfg.handle
	}
	if cfg.desc != nil {
		if err := n.Nest(*cfg.desc); err != nil {
			n.Finalize()
			return nil, err
		}
	}
	if cfg.tags != "" {
		n.SetTags(cfg.tags)
	}

	for _, c := range cfg.components {
		if n.phase.Terminal() {
			break
		}
		if err := n.Extend(c.fn, c.props); err != nil {
			n.Finalize()
			return nil, err
		}
	}
	// a component may finalize its own node
	if n.phase.Terminal() {
		return n, nil
	}

	n.transition(lifecycle.PhaseStopped)
	if parent == nil {
		n.schedule()
	}
	return n, nil
}

func (rt *Runtime) detach(n *Node) {
	delete(rt.nodes, n.id)
	if n.parent != nil {
		n.parent.children = removeNode(n.parent.children, n)
		return
	}
	rt.roots = removeNode(rt.roots, n)
}

func removeNode(list []*Node, n *Node) []*Node {
	for i, c := range list {
		if c == n {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// validateModuleVersions checks that all module versions are compatible.
func validateModuleVersions() error {
	modules := map[string]struct {
		version    string
		minVersion string
	}{
		"xnew":      {Version, MinCompatibleVersion},
		"lifecycle": {lifecycle.Version, lifecycle.MinCompatibleVersion},
		"log":       {log.Version, log.MinCompatibleVersion},
	}

	for name, m := range modules {
		if !isVersionCompatible(m.version, m.minVersion) {
			return fmt.Errorf("module %s version %s is below minimum compatible version %s",
				name, m.version, m.minVersion)
		}
	}

	return nil
}

// isVersionCompatible checks if version >= minVersion.
// Versions are in "major.minor.patch" form.
func isVersionCompatible(version, minVersion string) bool {
	var vMajor, vMinor, vPatch int
	var mMajor, mMinor, mPatch int

	_, _ = fmt.Sscanf(version, "%d.%d.%d", &vMajor, &vMinor, &vPatch)
	_, _ = fmt.Sscanf(minVersion, "%d.%d.%d", &mMajor, &mMinor, &mPatch)

	if vMajor != mMajor {
		return vMajor > mMajor
	}
	if vMinor != mMinor {
		return vMinor > mMinor
	}
	return vPatch >= mPatch
}
