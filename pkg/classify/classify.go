// Package classify sorts the nodes of a freshly loaded room into
// interaction categories by name, captures their resting baselines, moves
// intro-animated props to their starting poses and assigns materials.
package classify

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/pkg/director"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/scene"
	"github.com/taigrr/roomfolio/pkg/whiteboard"
)

// ErrAlreadyClassified is returned for a scene whose nodes already carry
// captured baselines. Classifying again would stack the intro offsets.
var ErrAlreadyClassified = errors.New("classify: scene already classified")

// Baked is a texture atlas material applied to nodes whose name contains
// Key.
type Baked struct {
	Key      string
	Material *scene.Material
}

// Env holds the materials and collaborators the classifier assigns.
type Env struct {
	// Atlas is matched in order; the first key contained in a name wins.
	Atlas   []Baked
	Glass   *scene.Material
	Video   *scene.Material
	AboutMe *scene.Material
	Board   *whiteboard.Board
	Log     *zap.Logger
}

// Result is the outcome of classifying one scene.
type Result struct {
	Links      []*scene.Node
	Plushies   []*scene.Node
	Buttons    []*scene.Node
	Zoomables  []*scene.Node
	Clickables []*scene.Node
	Fans       []*scene.Node

	Intro director.IntroObjects

	Screen1       *scene.Node
	Screen2       *scene.Node
	MonitorButton *scene.Node
	ScreenButton  *scene.Node
	Whiteboard    *scene.Node
}

type classifier struct {
	env Env
	log *zap.Logger
	res *Result

	boardPreferred bool
	// boardPrev is the bound node's material before the board took it.
	boardPrev *scene.Material
}

// Classify walks every mesh node under root once and applies the rule
// table. It selects the black marker on env.Board when done.
func Classify(root *scene.Node, env Env) (*Result, error) {
	if root == nil {
		return nil, errors.New("classify: nil root")
	}
	if classified(root) {
		return nil, ErrAlreadyClassified
	}
	log := env.Log
	if log == nil {
		log = zap.NewNop()
	}

	c := &classifier{
		env: env,
		log: log,
		res: &Result{Intro: director.IntroObjects{}},
	}
	root.Walk(func(n *scene.Node) bool {
		if n.IsMesh() {
			for _, r := range Match(n.Name) {
				r.Apply(c, n)
			}
		}
		return true
	})

	if env.Board != nil {
		env.Board.SelectMarker("black")
	}

	r := c.res
	log.Info("scene classified",
		zap.Int("links", len(r.Links)),
		zap.Int("plushies", len(r.Plushies)),
		zap.Int("buttons", len(r.Buttons)),
		zap.Int("zoomables", len(r.Zoomables)),
		zap.Int("clickables", len(r.Clickables)),
		zap.Int("fans", len(r.Fans)),
		zap.Int("intro", len(r.Intro)),
		zap.Bool("whiteboard", r.Whiteboard != nil),
	)
	return r, nil
}

func classified(root *scene.Node) bool {
	found := false
	root.Walk(func(n *scene.Node) bool {
		_, p := n.Baseline.InitialPosition()
		_, r := n.Baseline.InitialRotation()
		_, s := n.Baseline.InitialScale()
		found = found || p || r || s
		return !found
	})
	return found
}

func join(n *scene.Node, cat scene.Category, set *[]*scene.Node) {
	if n.Category == scene.CategoryNone {
		n.Category = cat
	}
	if set != nil {
		*set = append(*set, n)
	}
}

func (c *classifier) intro(key string, n *scene.Node) {
	if _, ok := c.res.Intro[key]; !ok {
		c.res.Intro[key] = n
	}
}

// bind makes n the drawing surface. A node bound earlier gets its own
// material back and its baked material reapplied.
func (c *classifier) bind(n *scene.Node) {
	old, prev := c.res.Whiteboard, c.boardPrev
	c.boardPrev = n.Material
	if c.env.Board != nil {
		c.env.Board.Bind(n)
	}
	c.res.Whiteboard = n
	if old != nil && old != n {
		old.Material = prev
		c.atlas(old)
	}
}

func (c *classifier) bindPreferred(n *scene.Node) {
	if c.boardPreferred {
		return
	}
	c.boardPreferred = true
	c.bind(n)
}

func (c *classifier) bindFallback(n *scene.Node) {
	if c.res.Whiteboard != nil {
		return
	}
	c.bind(n)
}

func (c *classifier) link(n *scene.Node, key string) {
	n.Baseline.CaptureInitialRotation(n.Rotation)
	n.Baseline.CaptureInitialPosition(n.Position)
	n.Position.Y = 3
	join(n, scene.CategoryLink, &c.res.Links)
	c.intro(key, n)
}

func (c *classifier) music(n *scene.Node) {
	n.Baseline.CaptureInitialRotation(n.Rotation)
	n.Baseline.CaptureInitialPosition(n.Position)
	n.Baseline.CaptureInitialScale(n.Scale)
	n.Position.Y = 3
	join(n, scene.CategoryClickable, &c.res.Clickables)
	c.intro("Music_Eighth", n)
}

func (c *classifier) car(n *scene.Node) {
	n.Baseline.CaptureInitialPosition(n.Position)
	rest, _ := n.Baseline.InitialPosition()
	n.Position.Y = rest.Y + 5
	c.intro("car", n)
}

func (c *classifier) fan(n *scene.Node) {
	join(n, scene.CategoryFan, &c.res.Fans)
}

// notes replaces Y with offset.Y and X, Z only where the offset is
// non-zero.
func (c *classifier) notes(n *scene.Node, key string, offset math3d.Vec3) {
	n.Baseline.CaptureInitialPosition(n.Position)
	if offset.X != 0 {
		n.Position.X = offset.X
	}
	n.Position.Y = offset.Y
	if offset.Z != 0 {
		n.Position.Z = offset.Z
	}
	c.intro(key, n)
}

func (c *classifier) plushie(n *scene.Node, key string) {
	n.Baseline.CaptureInitialScale(n.Scale)
	n.Baseline.CaptureInitialRotation(n.Rotation)
	n.Scale = math3d.Zero3()
	join(n, scene.CategoryPlushie, &c.res.Plushies)
	c.intro(key, n)
}

func (c *classifier) marker(n *scene.Node) {
	n.Baseline.CaptureInitialScale(n.Scale)
	join(n, scene.CategoryMarker, nil)
}

func (c *classifier) chair(n *scene.Node) {
	n.Baseline.CaptureInitialScale(n.Scale)
	n.Scale = math3d.Zero3()
	c.intro("chair", n)
}

func (c *classifier) altChair(n *scene.Node) {
	n.Baseline.CaptureInitialScale(n.Scale)
	n.Baseline.CaptureInitialPosition(n.Position)
	n.Baseline.CaptureInitialRotation(n.Rotation)
	n.Scale = math3d.Zero3()
	c.intro("partokurchi", n)
}

func (c *classifier) glass(n *scene.Node) {
	if c.env.Glass != nil {
		n.Material = c.env.Glass
	}
}

func (c *classifier) zoomable(n *scene.Node) {
	n.Zoomable = true
	join(n, scene.CategoryZoomable, &c.res.Zoomables)
}

func (c *classifier) screen2(n *scene.Node) {
	c.res.Screen2 = n
	if c.env.Video != nil {
		n.Material = c.env.Video
	}
	c.zoomable(n)
}

func (c *classifier) screen1(n *scene.Node) {
	c.res.Screen1 = n
	if c.env.AboutMe != nil {
		n.Material = c.env.AboutMe
	}
	c.zoomable(n)
}

// atlas assigns the first baked material whose key the name contains. The
// bound whiteboard keeps its drawing material.
func (c *classifier) atlas(n *scene.Node) {
	if n == c.res.Whiteboard {
		return
	}
	for _, b := range c.env.Atlas {
		if !strings.Contains(n.Name, b.Key) {
			continue
		}
		n.Material = b.Material
		if strings.Contains(n.Name, "button1") {
			c.res.MonitorButton = n
			join(n, scene.CategoryButton, &c.res.Buttons)
		}
		if strings.Contains(n.Name, "button2") {
			c.res.ScreenButton = n
			join(n, scene.CategoryButton, &c.res.Buttons)
		}
		if strings.Contains(n.Name, "back") && b.Material != nil {
			n.Material = b.Material.WithDoubleSided()
		}
		c.log.Debug("baked material", zap.String("node", n.Name), zap.String("key", b.Key))
		return
	}
}
