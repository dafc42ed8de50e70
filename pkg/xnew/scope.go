package xnew

import (
	"runtime/debug"
	"time"

	"github.com/bft-labs/xnew/pkg/log"
)

// frame is one context stack entry.
type frame struct {
	node *Node
	hook string
}

// fault remembers where an in-flight panic was raised.
type fault struct {
	node  *Node
	hook  string
	stack string
}

// within runs fn with n on top of the context stack.
// The stack is unwound even when fn panics; the panic value is re-raised
// unchanged after the innermost failing frame is recorded.
func (rt *Runtime) within(n *Node, hook string, fn func()) {
	depth := len(rt.stack)
	rt.stack = append(rt.stack, frame{node: n, hook: hook})

	defer func() {
		rt.stack = rt.stack[:depth]
		if r := recover(); r != nil {
			if rt.fault == nil {
				rt.fault = &fault{node: n, hook: hook, stack: string(debug.Stack())}
			}
			panic(r)
		}
		rt.fault = nil
	}()

	fn()
}

// boundary runs fn on behalf of the host. A panic escaping fn is recovered,
// logged and reported to the event handler; it aborts only the rest of fn.
func (rt *Runtime) boundary(n *Node, hook string, fn func()) {
	depth := len(rt.stack)
	rt.fault = nil

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		rt.stack = rt.stack[:depth]

		f := rt.fault
		rt.fault = nil
		if f == nil {
			f = &fault{node: n, hook: hook, stack: string(debug.Stack())}
		}
		rt.report(f, r)
	}()

	fn()
}

func (rt *Runtime) report(f *fault, value any) {
	herr := &HookError{
		Hook:       f.hook,
		Value:      value,
		StackTrace: f.stack,
		Timestamp:  time.Now(),
	}
	if f.node != nil {
		herr.Node = f.node.String()
	}

	rt.logger.Error("hook panicked",
		log.String("node", herr.Node),
		log.String("hook", f.hook),
		log.Any("panic", value))

	if len(rt.events) > 0 {
		rt.events.OnHookError(HookErrorEvent{Node: f.node, Err: herr})
	}
}
