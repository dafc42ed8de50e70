package demo

import (
	"time"

	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// Starfield fills the node with "count" falling dots. A dot that leaves the
// bottom edge is replaced by a new one entering from the top.
func Starfield(n *xnew.Node, props xnew.Props) xnew.Definition {
	w := newWorld(props)
	count := props.Int("count", 100)

	for i := 0; i < count; i++ {
		if _, err := n.Runtime().New(xnew.WithComponent(w.dot, xnew.Props{"init": true})); err != nil {
			n.Runtime().Logger().Warn("dot not created", log.Node(n.ID()), log.Err(err))
			break
		}
	}

	return xnew.Definition{
		Members: map[string]xnew.Member{
			"dots": xnew.Accessor(func() any { return len(n.Children()) }, nil),
		},
	}
}

func (w *world) dot(n *xnew.Node, props xnew.Props) xnew.Definition {
	n.SetTags("dot")

	pos := Vector{X: w.rng.Float64() * w.width, Y: -10}
	if props.Bool("init", false) {
		pos.Y = w.rng.Float64() * w.height
	}
	velocity := w.rng.Float64() + 0.1
	var p pacer

	return xnew.Definition{
		Update: func(elapsed time.Duration) {
			pos.Y += velocity * p.frames(elapsed)
			if pos.Y <= w.height {
				return
			}
			if parent := n.Parent(); parent != nil && !parent.IsFinalized() {
				_, _ = n.Runtime().New(xnew.WithParent(parent), xnew.WithComponent(w.dot, nil))
			}
			n.Finalize()
		},
		Members: map[string]xnew.Member{
			"position": xnew.Accessor(func() any { return pos }, nil),
		},
	}
}
