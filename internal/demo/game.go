package demo

import (
	"math"
	"time"

	"github.com/bft-labs/xnew/pkg/log"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// Game creates a score keeper and a player, then spawns an enemy every
// "interval". Spawning stops on #gameover and the node gains the "over" tag.
//
// Props: width, height, seed, interval, enemy_lifetime, target, autopilot.
func Game(n *xnew.Node, props xnew.Props) xnew.Definition {
	w := newWorld(props)
	rt := n.Runtime()
	logger := rt.Logger()

	spawn := func(c xnew.Component, p xnew.Props) {
		if _, err := rt.New(xnew.WithParent(n), xnew.WithComponent(c, p)); err != nil {
			logger.Warn("spawn failed", log.Node(n.ID()), log.Err(err))
		}
	}

	spawn(Score, xnew.Props{"target": props.Int("target", 0)})

	pp := w.props()
	pp["autopilot"] = props.Bool("autopilot", false)
	spawn(w.player, pp)

	spawned := 0
	ep := w.props()
	ep["lifetime"] = props.Duration("enemy_lifetime", 0)
	spawner := n.SetInterval(props.Duration("interval", 500*time.Millisecond), func() {
		spawned++
		spawn(w.enemy, ep)
	})

	n.On(EventGameOver, func(...any) {
		n.ClearTimer(spawner)
		addTag(n, "over")
		logger.Info("game over", log.Node(n.ID()), log.Int("spawned", spawned))
	}, xnew.Once())

	return xnew.Definition{
		Members: map[string]xnew.Member{
			"spawned": xnew.Accessor(func() any { return spawned }, nil),
		},
	}
}

// player moves with #move, shoots while #shot is held and dies on contact
// with an enemy. With autopilot it tracks the nearest enemy and keeps firing.
func (w *world) player(n *xnew.Node, props xnew.Props) xnew.Definition {
	n.SetTags("player")
	rt := n.Runtime()

	pos := Vector{X: w.width / 2, Y: w.height / 2}
	var velocity Vector
	autopilot := props.Bool("autopilot", false)
	shooting := autopilot
	standby := true
	var p pacer

	n.On(EventMove, func(args ...any) {
		if len(args) > 0 {
			if v, ok := args[0].(Vector); ok {
				velocity = v
			}
		}
	})
	n.On(EventShot, func(args ...any) {
		if len(args) > 0 {
			if b, ok := args[0].(bool); ok {
				shooting = b
			}
		}
	})

	die := func() {
		n.Emit(EventGameOver)
		n.Finalize()
	}

	return xnew.Definition{
		Update: func(elapsed time.Duration) {
			f := p.frames(elapsed)
			if autopilot {
				velocity = w.steer(rt, pos)
			}
			pos.X += velocity.X * 4 * f
			pos.Y += velocity.Y * 4 * f
			pos = w.clamp(pos, 10)

			if e := hit(rt, pos); e != nil {
				e.Finalize()
				die()
				return
			}

			if shooting && standby {
				if parent := n.Parent(); parent != nil {
					bp := w.props()
					bp["x"], bp["y"] = pos.X, pos.Y
					_, _ = rt.New(xnew.WithParent(parent), xnew.WithComponent(bullet, bp))
				}
				standby = false
				n.SetTimeout(200*time.Millisecond, func() { standby = true })
			}
		},
		Members: map[string]xnew.Member{
			"position": xnew.Accessor(func() any { return pos }, nil),
			"die":      xnew.Func(func(...any) any { die(); return nil }),
		},
	}
}

// steer returns a horizontal heading towards the nearest enemy.
func (w *world) steer(rt *xnew.Runtime, pos Vector) Vector {
	best, found := 0.0, false
	for _, e := range rt.Lookup("enemy") {
		q, ok := positionOf(e)
		if !ok {
			continue
		}
		if d := q.X - pos.X; !found || math.Abs(d) < math.Abs(best) {
			best, found = d, true
		}
	}
	switch {
	case !found || math.Abs(best) < 1:
		return Vector{}
	case best < 0:
		return Vector{X: -1}
	default:
		return Vector{X: 1}
	}
}

// bullet flies up from (x, y) and kills the first enemy it touches.
func bullet(n *xnew.Node, props xnew.Props) xnew.Definition {
	n.SetTags("bullet")
	rt := n.Runtime()
	pos := Vector{X: props.Float("x", 0), Y: props.Float("y", 0)}
	var p pacer

	return xnew.Definition{
		Update: func(elapsed time.Duration) {
			pos.Y -= 8 * p.frames(elapsed)
			if pos.Y < 0 {
				n.Finalize()
				return
			}
			if e := hit(rt, pos); e != nil {
				_, _ = e.Call("die", 1)
				n.Finalize()
			}
		},
		Members: map[string]xnew.Member{
			"position": xnew.Accessor(func() any { return pos }, nil),
		},
	}
}

// enemy enters at the top and bounces inside the field. Killing it through
// its "die" member broadcasts #scoreup; with a lifetime it leaves silently
// once that expires.
func (w *world) enemy(n *xnew.Node, props xnew.Props) xnew.Definition {
	n.SetTags("enemy")

	pos := Vector{X: w.rng.Float64() * w.width, Y: -10}
	angle := (w.rng.Float64()*90 + 45) * math.Pi / 180
	speed := w.rng.Float64()*2 + 1
	velocity := Vector{X: speed * math.Cos(angle), Y: speed * math.Sin(angle)}
	var p pacer

	if lifetime := props.Duration("lifetime", 0); lifetime > 0 {
		n.SetTimeout(lifetime, n.Finalize)
	}

	return xnew.Definition{
		Update: func(elapsed time.Duration) {
			if pos.X < 10 {
				velocity.X = math.Abs(velocity.X)
			}
			if pos.X >= w.width-10 {
				velocity.X = -math.Abs(velocity.X)
			}
			if pos.Y < 10 {
				velocity.Y = math.Abs(velocity.Y)
			}
			if pos.Y >= w.height-10 {
				velocity.Y = -math.Abs(velocity.Y)
			}
			f := p.frames(elapsed)
			pos.X += velocity.X * f
			pos.Y += velocity.Y * f
		},
		Members: map[string]xnew.Member{
			"position": xnew.Accessor(func() any { return pos }, nil),
			"die": xnew.Func(func(args ...any) any {
				value := 1
				if len(args) > 0 {
					if v, ok := args[0].(int); ok {
						value = v
					}
				}
				n.Emit(EventScoreUp, value)
				n.Finalize()
				return value
			}),
		},
	}
}

// Score sums #scoreup values and broadcasts #gameover once "target" is
// reached. A zero target never ends the game.
func Score(n *xnew.Node, props xnew.Props) xnew.Definition {
	n.SetTags("score")
	target := props.Int("target", 0)
	score := 0

	n.On(EventScoreUp, func(args ...any) {
		if len(args) > 0 {
			if v, ok := args[0].(int); ok {
				score += v
			}
		}
		if target > 0 && score >= target {
			target = 0
			n.Emit(EventGameOver)
		}
	})

	return xnew.Definition{
		Members: map[string]xnew.Member{
			"score": xnew.Accessor(func() any { return score }, nil),
		},
	}
}
