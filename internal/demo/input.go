package demo

import (
	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// Input nests a keyboard element and turns its keydown and keyup events
// into #move and #shot broadcasts. Arrow keys steer; space shoots.
func Input(n *xnew.Node, props xnew.Props) xnew.Definition {
	id := props.String("id", "keyboard")
	if err := n.Nest(xnew.Description{Tag: "input", ID: id}); err != nil {
		n.Runtime().Logger().Error("input element unavailable",
			log.String("id", id),
			log.Err(err))
		return xnew.Definition{}
	}

	pressed := make(map[string]bool)
	axis := func(neg, pos string) float64 {
		var v float64
		if pressed[neg] {
			v--
		}
		if pressed[pos] {
			v++
		}
		return v
	}
	update := func(down bool) xnew.Handler {
		return func(args ...any) {
			if len(args) == 0 {
				return
			}
			key, ok := args[0].(string)
			if !ok {
				return
			}
			pressed[key] = down
			n.Emit(EventMove, Vector{X: axis("ArrowLeft", "ArrowRight"), Y: axis("ArrowUp", "ArrowDown")})
			n.Emit(EventShot, pressed[" "])
		}
	}
	n.On("keydown", update(true))
	n.On("keyup", update(false))

	return xnew.Definition{
		Members: map[string]xnew.Member{
			"pressed": xnew.Func(func(args ...any) any {
				if len(args) == 0 {
					return false
				}
				key, _ := args[0].(string)
				return pressed[key]
			}),
		},
	}
}
