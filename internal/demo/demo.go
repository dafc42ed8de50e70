// Package demo contains the headless shooter sample: a scrolling starfield,
// a keyboard input bridge, a player, spawned enemies, bullets and a score
// keeper. Positions are plain numbers; nothing is drawn.
package demo

import (
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/bft-labs/xnew/internal/ports"
	"github.com/bft-labs/xnew/internal/scene"
	"github.com/bft-labs/xnew/pkg/xnew"
)

// Event types exchanged between the sample components.
const (
	EventMove     = "#move"
	EventShot     = "#shot"
	EventScoreUp  = "#scoreup"
	EventGameOver = "#gameover"
)

const (
	defaultWidth  = 400
	defaultHeight = 300

	// hitRadius is the distance below which two objects collide.
	hitRadius = 15

	// framesPerSecond converts elapsed time into the per-frame speeds below.
	framesPerSecond = 60
)

// Vector is a 2D position or velocity.
type Vector struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func (v Vector) distance(o Vector) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// world is the playing field shared by the nodes of one starfield or game.
type world struct {
	width  float64
	height float64
	rng    *rand.Rand
}

func newWorld(props xnew.Props) *world {
	return &world{
		width:  props.Float("width", defaultWidth),
		height: props.Float("height", defaultHeight),
		rng:    rand.New(rand.NewSource(int64(props.Int("seed", 1)))),
	}
}

func (w *world) props() xnew.Props {
	return xnew.Props{"width": w.width, "height": w.height}
}

func (w *world) clamp(v Vector, margin float64) Vector {
	v.X = math.Max(margin, math.Min(w.width-margin, v.X))
	v.Y = math.Max(margin, math.Min(w.height-margin, v.Y))
	return v
}

// pacer turns the elapsed time passed to update into a frame count, so
// speeds stay per-frame at any host frame rate.
type pacer struct {
	last time.Duration
}

func (p *pacer) frames(elapsed time.Duration) float64 {
	if elapsed < p.last {
		// restarted
		p.last = 0
	}
	d := elapsed - p.last
	p.last = elapsed
	return d.Seconds() * framesPerSecond
}

// positionOf reads the "position" member of n.
func positionOf(n *xnew.Node) (Vector, bool) {
	v, err := n.Get("position")
	if err != nil {
		return Vector{}, false
	}
	p, ok := v.(Vector)
	return p, ok
}

// hit returns the first live node tagged enemy within hitRadius of p.
func hit(rt *xnew.Runtime, p Vector) *xnew.Node {
	for _, e := range rt.Lookup("enemy") {
		if e.IsFinalized() {
			continue
		}
		if q, ok := positionOf(e); ok && p.distance(q) < hitRadius {
			return e
		}
	}
	return nil
}

func addTag(n *xnew.Node, tag string) {
	if n.HasTag(tag) {
		return
	}
	n.SetTags(strings.Join(append(n.Tags(), tag), " "))
}

// Register adds the sample components to reg.
func Register(reg *scene.Registry) error {
	for _, r := range []scene.Registration{
		{Name: "starfield", Description: "scrolling background of dots", Build: Starfield},
		{Name: "input", Description: "keyboard to #move/#shot bridge", Build: Input},
		{Name: "game", Description: "player, enemy spawner and score", Build: Game},
		{Name: "score", Description: "sums #scoreup values", Build: Score},
	} {
		if err := reg.Register(r); err != nil {
			return err
		}
	}
	return nil
}

// DefaultScene is the scene used when no scene file is given.
func DefaultScene() *scene.Scene {
	return &scene.Scene{
		Name:        "starfield",
		Description: "headless shooter sample",
		Root: scene.NodeSpec{
			Tags:    "screen",
			Element: &ports.Description{Tag: "canvas", ID: "screen"},
			Children: []scene.NodeSpec{
				{
					Tags:       "background",
					Components: []scene.ComponentSpec{{Name: "starfield", Props: map[string]any{"count": 24}}},
				},
				{
					Components: []scene.ComponentSpec{{Name: "input"}},
				},
				{
					Tags: "game",
					Components: []scene.ComponentSpec{{Name: "game", Props: map[string]any{
						"interval":       "500ms",
						"enemy_lifetime": "4s",
						"autopilot":      true,
						"target":         20,
					}}},
				},
			},
		},
	}
}
