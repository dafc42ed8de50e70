// Package element implements a headless host element tree.
//
// Store satisfies ports.ElementAdapter without any real presentation layer:
// elements are plain structs with a tag, attributes, text and children.
// Host events are injected with Dispatch and bubble from the target to its
// ancestors, the way DOM events do.
package element

import (
	"fmt"
	"sort"
	"sync"

	"github.com/bft-labs/xnew/internal/domain"
	"github.com/bft-labs/xnew/internal/ports"
)

// Element is one node of the headless tree.
type Element struct {
	serial   uint64
	desc     ports.Description
	parent   *Element
	children []*Element
	subs     map[string][]*subscription
}

// Serial returns the creation number of the element (the body is 0).
func (e *Element) Serial() uint64 { return e.serial }

// Tag returns the element tag.
func (e *Element) Tag() string { return e.desc.Tag }

// Attr returns one attribute value.
func (e *Element) Attr(name string) string { return e.desc.Attrs[name] }

// Text returns the element text content.
func (e *Element) Text() string { return e.desc.Text }

// Parent returns the element this one is attached under, or nil when detached.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the attached children.
func (e *Element) Children() []*Element {
	out := make([]*Element, len(e.children))
	copy(out, e.children)
	return out
}

func (e *Element) String() string {
	if e.desc.ID != "" {
		return fmt.Sprintf("<%s#%s>", e.desc.Tag, e.desc.ID)
	}
	return fmt.Sprintf("<%s:%d>", e.desc.Tag, e.serial)
}

type subscription struct {
	target *Element
	event  string
	fn     ports.HostListener
	opts   ports.SubscribeOptions
}

// Store owns the element tree rooted at a body element.
type Store struct {
	mu     sync.Mutex
	body   *Element
	serial uint64
	byID   map[string]*Element
}

// NewStore creates a store with an empty body element.
func NewStore() *Store {
	return &Store{
		body: &Element{desc: ports.Description{Tag: "body"}},
		byID: make(map[string]*Element),
	}
}

// Body returns the top-level container.
func (s *Store) Body() *Element { return s.body }

// Create builds an element from desc and attaches it under parent.
func (s *Store) Create(desc ports.Description, parent ports.Handle) (ports.Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := s.body
	if parent != nil {
		pe, ok := parent.(*Element)
		if !ok {
			return nil, fmt.Errorf("create %q: %w", desc.Tag, domain.ErrInvalidHandle)
		}
		p = pe
	}
	if desc.Tag == "" {
		desc.Tag = "div"
	}
	attrs := make(map[string]string, len(desc.Attrs))
	for k, v := range desc.Attrs {
		attrs[k] = v
	}
	desc.Attrs = attrs

	s.serial++
	e := &Element{serial: s.serial, desc: desc, parent: p}
	p.children = append(p.children, e)
	if desc.ID != "" {
		s.byID[desc.ID] = e
	}
	return e, nil
}

// Destroy detaches h from its parent. Detached and foreign handles are ignored.
func (s *Store) Destroy(h ports.Handle) {
	e, ok := h.(*Element)
	if !ok || e == s.body {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.parent == nil {
		return
	}
	siblings := e.parent.children
	for i, c := range siblings {
		if c == e {
			e.parent.children = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	e.parent = nil
	s.forget(e)
}

func (s *Store) forget(e *Element) {
	if e.desc.ID != "" && s.byID[e.desc.ID] == e {
		delete(s.byID, e.desc.ID)
	}
	for _, c := range e.children {
		s.forget(c)
	}
}

// Subscribe registers fn for event on h. Foreign handles yield nil.
func (s *Store) Subscribe(h ports.Handle, event string, fn ports.HostListener, opts ports.SubscribeOptions) ports.Subscription {
	e, ok := h.(*Element)
	if !ok || fn == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e.subs == nil {
		e.subs = make(map[string][]*subscription)
	}
	sub := &subscription{target: e, event: event, fn: fn, opts: opts}
	e.subs[event] = append(e.subs[event], sub)
	return sub
}

// Unsubscribe removes a subscription created by Subscribe.
func (s *Store) Unsubscribe(sub ports.Subscription) {
	ss, ok := sub.(*subscription)
	if !ok || ss == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := ss.target.subs[ss.event]
	for i, c := range list {
		if c == ss {
			ss.target.subs[ss.event] = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(ss.target.subs[ss.event]) == 0 {
		delete(ss.target.subs, ss.event)
	}
}

// Dispatch delivers a host event to h and then to each ancestor.
// It returns the number of listeners invoked. Listeners run without the
// store lock held, so they may create, destroy or (un)subscribe freely.
func (s *Store) Dispatch(h ports.Handle, event string, args ...any) int {
	e, ok := h.(*Element)
	if !ok {
		return 0
	}

	s.mu.Lock()
	var targets []*subscription
	for cur := e; cur != nil; cur = cur.parent {
		targets = append(targets, cur.subs[event]...)
	}
	s.mu.Unlock()

	for _, sub := range targets {
		sub.fn(args...)
	}
	return len(targets)
}

// Find returns the attached element registered with the given description ID.
func (s *Store) Find(id string) (*Element, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.byID[id]
	return e, ok
}

// Len returns the number of elements attached under the body.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.body) - 1
}

// Subscriptions returns the number of subscriptions on h per event, sorted
// by event name.
func (s *Store) Subscriptions(h ports.Handle) []string {
	e, ok := h.(*Element)
	if !ok {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []string
	for event, subs := range e.subs {
		out = append(out, fmt.Sprintf("%s=%d", event, len(subs)))
	}
	sort.Strings(out)
	return out
}

func count(e *Element) int {
	n := 1
	for _, c := range e.children {
		n += count(c)
	}
	return n
}

var _ ports.ElementAdapter = (*Store)(nil)
