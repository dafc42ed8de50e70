// Package registry provides the arena-style index backing the runtime's
// process-wide registries (tag lookup and broadcast delivery).
//
// An Index maps a key to an ordered set of values. Removing one value from a
// key is O(1) (swap-remove through a position map), so clearing an instance
// from the registries costs O(keys held by that instance), never
// O(registry size).
//
// Index is not safe for concurrent use; the runtime confines it to its
// thread.
package registry

// set is an insertion-ordered set with O(1) removal.
// Removal moves the last element into the hole, so order is stable only
// until the first removal.
type set[V comparable] struct {
	items []V
	pos   map[V]int
}

func newSet[V comparable]() *set[V] {
	return &set[V]{pos: make(map[V]int)}
}

func (s *set[V]) add(v V) bool {
	if _, ok := s.pos[v]; ok {
		return false
	}
	s.pos[v] = len(s.items)
	s.items = append(s.items, v)
	return true
}

func (s *set[V]) remove(v V) bool {
	i, ok := s.pos[v]
	if !ok {
		return false
	}
	last := len(s.items) - 1
	if i != last {
		moved := s.items[last]
		s.items[i] = moved
		s.pos[moved] = i
	}
	var zero V
	s.items[last] = zero
	s.items = s.items[:last]
	delete(s.pos, v)
	return true
}

// Index maps keys to sets of values.
type Index[K comparable, V comparable] struct {
	sets map[K]*set[V]
}

// New creates an empty index.
func New[K comparable, V comparable]() *Index[K, V] {
	return &Index[K, V]{sets: make(map[K]*set[V])}
}

// Add registers v under k. It reports whether v was newly added.
func (x *Index[K, V]) Add(k K, v V) bool {
	s, ok := x.sets[k]
	if !ok {
		s = newSet[V]()
		x.sets[k] = s
	}
	return s.add(v)
}

// Remove unregisters v from k. Keys left empty are dropped.
func (x *Index[K, V]) Remove(k K, v V) bool {
	s, ok := x.sets[k]
	if !ok {
		return false
	}
	removed := s.remove(v)
	if len(s.items) == 0 {
		delete(x.sets, k)
	}
	return removed
}

// RemoveAll unregisters v from every key in keys.
func (x *Index[K, V]) RemoveAll(v V, keys []K) {
	for _, k := range keys {
		x.Remove(k, v)
	}
}

// Has reports whether v is registered under k.
func (x *Index[K, V]) Has(k K, v V) bool {
	s, ok := x.sets[k]
	if !ok {
		return false
	}
	_, found := s.pos[v]
	return found
}

// Get returns a copy of the values registered under k.
func (x *Index[K, V]) Get(k K) []V {
	s, ok := x.sets[k]
	if !ok {
		return nil
	}
	out := make([]V, len(s.items))
	copy(out, s.items)
	return out
}

// Union returns the de-duplicated union of the values registered under any
// of keys, in first-seen order.
func (x *Index[K, V]) Union(keys ...K) []V {
	var out []V
	seen := make(map[V]struct{})
	for _, k := range keys {
		s, ok := x.sets[k]
		if !ok {
			continue
		}
		for _, v := range s.items {
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// Len returns the number of values registered under k.
func (x *Index[K, V]) Len(k K) int {
	if s, ok := x.sets[k]; ok {
		return len(s.items)
	}
	return 0
}

// Keys returns the number of non-empty keys.
func (x *Index[K, V]) Keys() int {
	return len(x.sets)
}

// Contains reports whether v is registered under any key.
// It scans every key and is meant for tests and diagnostics.
func (x *Index[K, V]) Contains(v V) bool {
	for _, s := range x.sets {
		if _, ok := s.pos[v]; ok {
			return true
		}
	}
	return false
}
