package xnew

import (
	"sort"
	"strings"

	"github.com/bft-labs/xnew/internal/ports"
)

// BroadcastPrefix marks event types that are delivered runtime-wide.
const BroadcastPrefix = "#"

// Handler receives event arguments.
type Handler func(args ...any)

// Listener is a registration returned by On. It is the token Off removes.
type Listener struct {
	fn      Handler
	once    bool
	passive bool
}

// ListenerOption configures a listener.
type ListenerOption func(*Listener)

// Once removes the listener after its first delivery per type.
func Once() ListenerOption {
	return func(l *Listener) { l.once = true }
}

// Passive is forwarded to the host subscription when the listener bridges a
// host event.
func Passive(passive bool) ListenerOption {
	return func(l *Listener) { l.passive = passive }
}

type entry struct {
	l       *Listener
	removed bool
}

func isBroadcast(typ string) bool {
	return strings.HasPrefix(typ, BroadcastPrefix)
}

// On registers fn for each space-separated type.
// A nil fn, an empty type list or a finalized node yields nil.
func (n *Node) On(types string, fn Handler, opts ...ListenerOption) *Listener {
	if fn == nil || n.phase.Terminal() {
		return nil
	}
	names := strings.Fields(types)
	if len(names) == 0 {
		return nil
	}

	l := &Listener{fn: fn}
	for _, opt := range opts {
		opt(l)
	}
	for _, typ := range names {
		first := len(n.listeners[typ]) == 0
		n.listeners[typ] = append(n.listeners[typ], &entry{l: l})
		if !first {
			continue
		}
		if isBroadcast(typ) {
			n.rt.broadcast.Add(typ, n)
		} else {
			n.bridge(typ, l)
		}
	}
	return l
}

// bridge subscribes the node's own element to host events of type typ.
func (n *Node) bridge(typ string, l *Listener) {
	if n.element == nil {
		return
	}
	sub := n.rt.host.Subscribe(n.element, typ, func(args ...any) {
		n.rt.boundary(n, "event:"+typ, func() {
			n.Emit(typ, args...)
		})
	}, ports.SubscribeOptions{Passive: l.passive})
	if sub != nil {
		n.bridges[typ] = sub
	}
}

// Off removes l from each space-separated type. A nil l removes every
// listener of those types; an empty type list means all types. Unknown
// listeners are ignored.
func (n *Node) Off(types string, l *Listener) {
	names := strings.Fields(types)
	if len(names) == 0 {
		for typ := range n.listeners {
			names = append(names, typ)
		}
		sort.Strings(names)
	}

	for _, typ := range names {
		list := n.listeners[typ]
		if len(list) == 0 {
			continue
		}
		kept := list[:0]
		for _, e := range list {
			if l == nil || e.l == l {
				e.removed = true
				continue
			}
			kept = append(kept, e)
		}
		for i := len(kept); i < len(list); i++ {
			list[i] = nil
		}
		if len(kept) > 0 {
			n.listeners[typ] = kept
			continue
		}
		n.dropType(typ)
	}
}

func (n *Node) removeEntry(typ string, target *entry) {
	list := n.listeners[typ]
	for i, e := range list {
		if e == target {
			e.removed = true
			n.listeners[typ] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(n.listeners[typ]) == 0 {
		n.dropType(typ)
	}
}

func (n *Node) dropType(typ string) {
	delete(n.listeners, typ)
	if isBroadcast(typ) {
		n.rt.broadcast.Remove(typ, n)
		return
	}
	if sub, ok := n.bridges[typ]; ok {
		delete(n.bridges, typ)
		n.rt.host.Unsubscribe(sub)
	}
}

// Listeners returns the number of listeners registered for typ.
func (n *Node) Listeners(typ string) int {
	return len(n.listeners[typ])
}

// Types returns the event types the node listens to, sorted.
func (n *Node) Types() []string {
	out := make([]string, 0, len(n.listeners))
	for typ := range n.listeners {
		out = append(out, typ)
	}
	sort.Strings(out)
	return out
}

// Emit delivers an event synchronously. A "#"-prefixed type reaches every
// live node listening for it; any other type only reaches this node.
// Emitting to finalized nodes is a no-op.
func (n *Node) Emit(typ string, args ...any) {
	if isBroadcast(typ) {
		n.rt.deliver(typ, args)
		return
	}
	n.fire(typ, args)
}

func (rt *Runtime) deliver(typ string, args []any) {
	for _, target := range rt.broadcast.Get(typ) {
		target.fire(typ, args)
	}
}

func (n *Node) fire(typ string, args []any) {
	if n.phase.Terminal() {
		return
	}
	snapshot := make([]*entry, len(n.listeners[typ]))
	copy(snapshot, n.listeners[typ])

	for _, e := range snapshot {
		if e.removed || n.phase.Terminal() {
			continue
		}
		if e.l.once {
			n.removeEntry(typ, e)
		}
		fn := e.l.fn
		n.rt.within(n, "listener:"+typ, func() {
			fn(args...)
		})
	}
}
