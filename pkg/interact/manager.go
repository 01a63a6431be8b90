// Package interact turns pointer input into room behaviour: per-frame
// hover polling, cursor shape, whiteboard strokes, orbit drags and click
// routing.
package interact

import (
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/pkg/classify"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/scene"
	"github.com/taigrr/roomfolio/pkg/zoom"
)

// FanStep is the fan spin per frame in radians.
const FanStep = 0.1

// dragSlop is how far the pointer may travel between press and release
// for the gesture to still count as a click.
const dragSlop = 1.0

// Animator plays hover and press recipes. *director.Director implements
// it.
type Animator interface {
	LinkHover(n *scene.Node, in bool)
	PlushieHover(n *scene.Node, in bool)
	MarkerHover(n *scene.Node, in bool)
	Press(n *scene.Node)
}

// Zoomer is the camera zoom state machine. *zoom.Controller implements it.
type Zoomer interface {
	Locked() bool
	IsZoomedInto(name string) bool
	ZoomTo(name string) error
}

// Drawer is the whiteboard. *whiteboard.Board implements it.
type Drawer interface {
	Bound() *scene.Node
	Begin(uv math3d.Vec2) error
	DrawTo(uv math3d.Vec2) bool
	End()
	Drawing() bool
	SelectMarker(token string)
}

// Rotator receives orbit drags. *controls.Orbit implements it.
type Rotator interface {
	Rotate(dAzimuth, dPolar float64)
}

// Toggler flips a media element and reports the new state.
type Toggler interface {
	Toggle() bool
}

// CursorSink shows the pointing hand or the default arrow.
type CursorSink interface {
	SetCursor(pointer bool)
}

// HoverState is the node hovered in each tracked category.
type HoverState struct {
	Link    *scene.Node
	Plushie *scene.Node
	Button  *scene.Node
	Marker  *scene.Node
}

// Config wires a Manager to the room. Only Camera and Objects are
// required.
type Config struct {
	Camera  *render.Camera
	Root    *scene.Node
	Objects *classify.Result
	Picker  scene.Picker

	Director Animator
	Zoom     Zoomer
	Board    Drawer
	Orbit    Rotator

	Monitor Toggler
	Screen1 Toggler
	Audio   Toggler

	Links  []Link
	Opener LinkOpener
	Cursor CursorSink
	Log    *zap.Logger
}

// Manager owns all hover and pointer state. It is driven from a single
// goroutine.
type Manager struct {
	cfg     Config
	log     *zap.Logger
	picker  scene.Picker
	objects *classify.Result
	links   []Link
	rules   []ClickRule

	union   []*scene.Node
	members map[*scene.Node]bool

	hover   HoverState
	pointer bool

	width, height float64
	ndc           math3d.Vec2

	pressed bool
	moved   bool
	downX   float64
	downY   float64
	lastX   float64
	lastY   float64
}

// New builds a manager over a classified room.
func New(cfg Config) *Manager {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	picker := cfg.Picker
	if picker == nil {
		picker = scene.BruteForce{}
	}
	objects := cfg.Objects
	if objects == nil {
		objects = &classify.Result{}
	}
	links := cfg.Links
	if links == nil {
		links = DefaultLinks
	}

	m := &Manager{
		cfg:     cfg,
		log:     log,
		picker:  picker,
		objects: objects,
		links:   links,
		rules:   ClickRules,
		members: make(map[*scene.Node]bool),
		width:   1,
		height:  1,
	}
	for _, set := range [][]*scene.Node{
		objects.Links, objects.Plushies, objects.Buttons, objects.Zoomables, objects.Clickables,
	} {
		for _, n := range set {
			if !m.members[n] {
				m.members[n] = true
				m.union = append(m.union, n)
			}
		}
	}
	return m
}

// Attach subscribes the manager to src and returns the detach func.
func (m *Manager) Attach(src PointerSource) func() {
	return src.Subscribe(m)
}

// Resize sets the viewport size pointer coordinates are measured in.
func (m *Manager) Resize(width, height float64) {
	if width > 0 && height > 0 {
		m.width, m.height = width, height
	}
}

// Hover returns the current hover state.
func (m *Manager) Hover() HoverState { return m.hover }

// Pointer reports whether the last frame asked for the pointing cursor.
func (m *Manager) Pointer() bool { return m.pointer }

// NDC returns the pointer in normalized device coordinates.
func (m *Manager) NDC() math3d.Vec2 { return m.ndc }

func (m *Manager) setPointer(x, y float64) {
	m.ndc = NDC(x, y, m.width, m.height)
}

func (m *Manager) ray() math3d.Ray {
	return m.cfg.Camera.Ray(m.ndc.X, m.ndc.Y)
}

func (m *Manager) zoomedIntoWhiteboard() bool {
	return m.cfg.Zoom != nil && m.cfg.Zoom.IsZoomedInto(zoom.Whiteboard)
}

// owner climbs from a hit node to the nearest tracked ancestor.
func (m *Manager) owner(n *scene.Node) *scene.Node {
	for ; n != nil; n = n.Parent {
		if m.members[n] {
			return n
		}
	}
	return nil
}

// Frame polls hover against the pointer ray, updates the cursor and spins
// the fans. Call once per rendered frame.
func (m *Manager) Frame() {
	ray := m.ray()

	// One cast over every tracked category; only the nearest node's
	// category claims hover.
	var link, plushie, button, zoomable, clickable *scene.Node
	if hits := m.picker.Intersect(ray, m.union...); len(hits) > 0 {
		if n := m.owner(hits[0].Node); n != nil {
			switch n.Category {
			case scene.CategoryLink:
				link = n
			case scene.CategoryPlushie:
				plushie = n
			case scene.CategoryButton:
				button = n
			case scene.CategoryClickable:
				clickable = n
			default:
				if n.Zoomable {
					zoomable = n
				}
			}
		}
	}

	m.diff(&m.hover.Link, link, m.linkHover)
	m.diff(&m.hover.Plushie, plushie, m.plushieHover)
	m.hover.Button = button

	var marker *scene.Node
	if m.zoomedIntoWhiteboard() {
		for _, h := range m.picker.Intersect(ray, m.cfg.Root) {
			if strings.HasPrefix(h.Node.Name, "marker_") {
				marker = h.Node
				break
			}
		}
	}
	m.diff(&m.hover.Marker, marker, m.markerHover)

	m.setCursor(m.cursorFor(zoomable, clickable))

	for _, fan := range m.objects.Fans {
		fan.Rotation.Y += FanStep
	}
}

func (m *Manager) cursorFor(zoomable, clickable *scene.Node) bool {
	switch {
	case zoomable != nil:
		if m.cfg.Zoom != nil && (m.cfg.Zoom.IsZoomedInto(zoom.Screen1) || m.cfg.Zoom.IsZoomedInto(zoom.Screen2)) {
			return false
		}
		return zoomTarget(zoomable.Name) != ""
	case clickable != nil:
		return true
	default:
		return m.hover.Link != nil || m.hover.Plushie != nil || m.hover.Button != nil
	}
}

func (m *Manager) setCursor(pointer bool) {
	m.pointer = pointer
	if m.cfg.Cursor != nil {
		m.cfg.Cursor.SetCursor(pointer)
	}
}

// diff moves *cur to next, playing hover-out on the old node and hover-in
// on the new one.
func (m *Manager) diff(cur **scene.Node, next *scene.Node, play func(*scene.Node, bool)) {
	if *cur == next {
		return
	}
	if *cur != nil {
		play(*cur, false)
	}
	if next != nil {
		play(next, true)
	}
	*cur = next
}

func (m *Manager) linkHover(n *scene.Node, in bool) {
	if m.cfg.Director != nil {
		m.cfg.Director.LinkHover(n, in)
	}
}

func (m *Manager) plushieHover(n *scene.Node, in bool) {
	if m.cfg.Director != nil {
		m.cfg.Director.PlushieHover(n, in)
	}
}

func (m *Manager) markerHover(n *scene.Node, in bool) {
	if m.cfg.Director != nil {
		m.cfg.Director.MarkerHover(n, in)
	}
}

// boardHit casts the pointer ray against the bound whiteboard only.
func (m *Manager) boardHit() (math3d.Vec2, bool) {
	if m.cfg.Board == nil {
		return math3d.Vec2{}, false
	}
	surface := m.cfg.Board.Bound()
	if surface == nil {
		return math3d.Vec2{}, false
	}
	hits := m.picker.Intersect(m.ray(), surface)
	if len(hits) == 0 {
		return math3d.Vec2{}, false
	}
	return hits[0].UV, true
}

// PointerMove implements PointerListener. While a stroke is active it
// extends the stroke; otherwise a held button drags the orbit.
func (m *Manager) PointerMove(x, y float64) {
	m.setPointer(x, y)

	if m.pressed {
		if math.Hypot(x-m.downX, y-m.downY) > dragSlop {
			m.moved = true
		}
		dx, dy := x-m.lastX, y-m.lastY
		m.lastX, m.lastY = x, y

		if m.cfg.Board == nil || !m.cfg.Board.Drawing() {
			if m.cfg.Orbit != nil {
				m.cfg.Orbit.Rotate(-2*math.Pi*dx/m.height, -2*math.Pi*dy/m.height)
			}
			return
		}
	}

	if m.cfg.Board != nil && m.cfg.Board.Drawing() {
		if uv, ok := m.boardHit(); ok {
			m.cfg.Board.DrawTo(uv)
		}
	}
}

// PointerDown implements PointerListener. Pressing over the whiteboard
// starts a stroke.
func (m *Manager) PointerDown(x, y float64) {
	m.setPointer(x, y)
	m.pressed, m.moved = true, false
	m.downX, m.downY = x, y
	m.lastX, m.lastY = x, y

	if uv, ok := m.boardHit(); ok {
		if err := m.cfg.Board.Begin(uv); err != nil {
			m.log.Debug("stroke", zap.Error(err))
		}
	}
}

// PointerUp implements PointerListener. A release close to the press
// position clicks the node under the pointer.
func (m *Manager) PointerUp(x, y float64) {
	if m.cfg.Board != nil {
		m.cfg.Board.End()
	}
	click := m.pressed && !m.moved
	m.pressed = false
	if click {
		m.ClickAt(x, y)
	}
}

// PointerLeave implements PointerListener.
func (m *Manager) PointerLeave() {
	if m.cfg.Board != nil {
		m.cfg.Board.End()
	}
	m.pressed = false
}
