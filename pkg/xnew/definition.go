package xnew

import (
	"fmt"
	"sort"
	"time"

	"github.com/bft-labs/xnew/pkg/log"
)

// Component builds a definition for n. It runs with n as the current node,
// so nodes it creates become children of n and helpers can find n through
// Runtime.Current.
type Component func(n *Node, props Props) Definition

// Definition is what a component contributes to a node.
type Definition struct {
	// Start runs on every Stopped -> Started transition.
	Start func()
	// Update runs once per frame while started, with the time since the
	// most recent start.
	Update func(elapsed time.Duration)
	// Stop runs on every Started -> Stopped transition.
	Stop func()
	// Finalize runs once, after the node's children are finalized.
	Finalize func()
	// Ready gates the first start until it is closed.
	Ready <-chan struct{}
	// Members are the public members the component defines on the node.
	Members map[string]Member
}

// Member is one public member of a node: a plain value, a function or an
// accessor pair.
type Member struct {
	Value any
	Func  func(args ...any) any
	Get   func() any
	Set   func(v any)
}

// Value returns a read-only member holding v.
func Value(v any) Member { return Member{Value: v} }

// Func returns a callable member.
func Func(fn func(args ...any) any) Member { return Member{Func: fn} }

// Accessor returns a member backed by get and set. A nil set makes it read-only.
func Accessor(get func() any, set func(v any)) Member { return Member{Get: get, Set: set} }

type hooks struct {
	start    func()
	update   func(time.Duration)
	stop     func()
	finalize func()
}

var reserved = map[string]bool{
	"start":    true,
	"update":   true,
	"stop":     true,
	"finalize": true,
	"ready":    true,
}

// Extend applies component c to the node.
//
// Hooks replace hooks of the same kind contributed earlier. Member names must
// be new and must not be lifecycle keys; on a collision none of the
// definition's hooks or members are assigned and a *DefineError is returned.
// Side effects of the component itself, such as children, listeners, timers
// and tags it created, are not undone.
func (n *Node) Extend(c Component, props Props) error {
	if n.phase.Terminal() {
		return fmt.Errorf("extend %s: %w", n, ErrFinalized)
	}
	if c == nil {
		return nil
	}
	if props == nil {
		props = Props{}
	}

	var def Definition
	n.rt.within(n, "extend", func() {
		def = c(n, props)
	})
	if n.phase.Terminal() {
		return nil
	}

	names := make([]string, 0, len(def.Members))
	for name := range def.Members {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		var err *DefineError
		switch {
		case reserved[name]:
			err = &DefineError{Node: n.String(), Name: name, Reserved: true}
		case n.hasMember(name):
			err = &DefineError{Node: n.String(), Name: name}
		}
		if err != nil {
			n.rt.logger.Warn("define conflict", log.Node(n.id), log.String("member", name))
			return err
		}
	}

	n.replaceHook("start", def.Start != nil, n.hooks.start != nil)
	n.replaceHook("update", def.Update != nil, n.hooks.update != nil)
	n.replaceHook("stop", def.Stop != nil, n.hooks.stop != nil)
	n.replaceHook("finalize", def.Finalize != nil, n.hooks.finalize != nil)
	if def.Start != nil {
		n.hooks.start = def.Start
	}
	if def.Update != nil {
		n.hooks.update = def.Update
	}
	if def.Stop != nil {
		n.hooks.stop = def.Stop
	}
	if def.Finalize != nil {
		n.hooks.finalize = def.Finalize
	}
	if def.Ready != nil {
		n.ready = append(n.ready, def.Ready)
	}

	for _, name := range names {
		n.members[name] = def.Members[name]
		n.order = append(n.order, name)
	}
	return nil
}

func (n *Node) replaceHook(kind string, incoming, existing bool) {
	if incoming && existing {
		n.rt.logger.Debug("hook replaced", log.Node(n.id), log.String("hook", kind))
	}
}

func (n *Node) hasMember(name string) bool {
	_, ok := n.members[name]
	return ok
}

// Has reports whether the node defines a member called name.
func (n *Node) Has(name string) bool { return n.hasMember(name) }

// Members returns the member names in definition order.
func (n *Node) Members() []string {
	out := make([]string, len(n.order))
	copy(out, n.order)
	return out
}

func (n *Node) member(name string) (Member, error) {
	m, ok := n.members[name]
	if !ok {
		return Member{}, &MemberError{Node: n.String(), Name: name, Err: ErrUnknownMember}
	}
	return m, nil
}

// Call invokes a function member with the node as the current node.
func (n *Node) Call(name string, args ...any) (any, error) {
	m, err := n.member(name)
	if err != nil {
		return nil, err
	}
	if m.Func == nil {
		return nil, &MemberError{Node: n.String(), Name: name, Err: ErrNotCallable}
	}
	var out any
	n.rt.within(n, name, func() {
		out = m.Func(args...)
	})
	return out, nil
}

// Get reads a member. Accessors run their getter, values return the value
// and function members return the function itself.
func (n *Node) Get(name string) (any, error) {
	m, err := n.member(name)
	if err != nil {
		return nil, err
	}
	switch {
	case m.Get != nil:
		var out any
		n.rt.within(n, name, func() {
			out = m.Get()
		})
		return out, nil
	case m.Func != nil:
		return m.Func, nil
	default:
		return m.Value, nil
	}
}

// Set writes an accessor member.
func (n *Node) Set(name string, v any) error {
	m, err := n.member(name)
	if err != nil {
		return err
	}
	if m.Set == nil {
		return &MemberError{Node: n.String(), Name: name, Err: ErrReadOnly}
	}
	n.rt.within(n, name, func() {
		m.Set(v)
	})
	return nil
}
