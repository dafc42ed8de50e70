package xnew

import "strings"

// SetTags replaces the node's tags with the space-separated list.
func (n *Node) SetTags(tags string) {
	if n.phase.Terminal() {
		return
	}
	n.clearTags()

	seen := make(map[string]bool)
	for _, tag := range strings.Fields(tags) {
		if seen[tag] {
			continue
		}
		seen[tag] = true
		n.tags = append(n.tags, tag)
		n.rt.tags.Add(tag, n)
	}
}

// Tags returns the node's tags in the order they were set.
func (n *Node) Tags() []string {
	out := make([]string, len(n.tags))
	copy(out, n.tags)
	return out
}

// HasTag reports whether the node carries tag.
func (n *Node) HasTag(tag string) bool {
	return n.rt.tags.Has(tag, n)
}

func (n *Node) clearTags() {
	n.rt.tags.RemoveAll(n, n.tags)
	n.tags = nil
}
