// Package zoom flies the camera between the free orbit view and fixed
// close-up presets.
package zoom

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/pkg/anim"
	"github.com/taigrr/roomfolio/pkg/controls"
	"github.com/taigrr/roomfolio/pkg/math3d"
)

// Duration is the length of a zoom flight in seconds.
const Duration = 1.2

// NearTarget is the orbit target distance under which the camera counts
// as zoomed into a preset.
const NearTarget = 0.1

var (
	ErrLocked        = errors.New("zoom: camera is locked")
	ErrNotLocked     = errors.New("zoom: camera is free")
	ErrUnknownPreset = errors.New("zoom: unknown preset")
)

// Preset names.
const (
	Screen1    = "Screen_1"
	Screen2    = "Screen_2"
	Whiteboard = "whiteboard"
)

// Preset is a camera position and orbit target pair.
type Preset struct {
	Name   string
	Camera math3d.Vec3
	Target math3d.Vec3
}

// DefaultPresets frame the two monitors and the whiteboard.
var DefaultPresets = []Preset{
	{
		Name:   Screen1,
		Camera: math3d.V3(-0.04645542207916764, 1.2464933582268107, 0.08367438691966088),
		Target: math3d.V3(-0.7047212714321677, 1.2217938661807093, 0.08331173048551843),
	},
	{
		Name:   Screen2,
		Camera: math3d.V3(0.1651, 1.3805, 0.0805),
		Target: math3d.V3(-0.6861, 1.2078, 0.5688),
	},
	{
		Name:   Whiteboard,
		Camera: math3d.V3(-0.0711717885970552, 1.5520976655983074, 0.14909727748137303),
		Target: math3d.V3(-0.0711717885970552, 1.5520976655983074, -0.7502441896975681),
	},
}

// State is the zoom state machine.
type State int

const (
	Free State = iota
	ZoomingIn
	Zoomed
	ZoomingOut
)

func (s State) String() string {
	switch s {
	case Free:
		return "free"
	case ZoomingIn:
		return "zooming in"
	case Zoomed:
		return "zoomed"
	case ZoomingOut:
		return "zooming out"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Controller owns the camera while locked. Orbit input is disabled from
// the start of a zoom in until a zoom out completes.
type Controller struct {
	eng   *anim.Engine
	orbit *controls.Orbit
	log   *zap.Logger

	presets map[string]Preset
	state   State
	preset  string

	returnCamera math3d.Vec3
	returnTarget math3d.Vec3
}

// New creates a free controller. Presets with duplicate names replace
// earlier ones.
func New(eng *anim.Engine, orbit *controls.Orbit, presets []Preset, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Controller{
		eng:     eng,
		orbit:   orbit,
		log:     log,
		presets: make(map[string]Preset, len(presets)),
	}
	for _, p := range presets {
		c.presets[p.Name] = p
	}
	return c
}

// State returns the current state.
func (c *Controller) State() State {
	return c.state
}

// Locked reports whether the camera is under animated control.
func (c *Controller) Locked() bool {
	return c.state != Free
}

// Current returns the preset being flown to or shown, or "" while free.
func (c *Controller) Current() string {
	if c.state == ZoomingOut {
		return ""
	}
	return c.preset
}

// Preset returns the named preset.
func (c *Controller) Preset(name string) (Preset, bool) {
	p, ok := c.presets[name]
	return p, ok
}

// IsZoomedInto reports whether the camera is locked with its orbit target
// at the named preset.
func (c *Controller) IsZoomedInto(name string) bool {
	p, ok := c.presets[name]
	if !ok || !c.Locked() {
		return false
	}
	return c.orbit.Target.Distance(p.Target) < NearTarget
}

// ReturnPoint returns the camera position and target captured on zoom in.
// Both are zero while free.
func (c *Controller) ReturnPoint() (camera, target math3d.Vec3) {
	return c.returnCamera, c.returnTarget
}

// ZoomTo flies to the named preset. It is only valid while free.
func (c *Controller) ZoomTo(name string) error {
	if c.Locked() {
		return ErrLocked
	}
	p, ok := c.presets[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	c.returnCamera = c.orbit.Camera.Position
	c.returnTarget = c.orbit.Target
	c.orbit.Enabled = false
	c.state = ZoomingIn
	c.preset = name

	c.fly(p.Camera, p.Target, func() {
		if c.state == ZoomingIn {
			c.state = Zoomed
		}
	})
	c.log.Debug("zoom in", zap.String("preset", name))
	return nil
}

// ZoomOut flies back to the captured return point, cancelling any flight
// in progress. Orbit input is re-enabled when it lands.
func (c *Controller) ZoomOut() error {
	if !c.Locked() {
		return ErrNotLocked
	}
	c.state = ZoomingOut
	c.fly(c.returnCamera, c.returnTarget, func() {
		c.orbit.Enabled = true
		c.state = Free
		c.preset = ""
		c.returnCamera, c.returnTarget = math3d.Vec3{}, math3d.Vec3{}
	})
	c.log.Debug("zoom out", zap.String("preset", c.preset))
	return nil
}

func (c *Controller) fly(camera, target math3d.Vec3, done func()) {
	cam := c.orbit.Camera
	c.eng.Kill(anim.Fields(&cam.Position)...)
	c.eng.Kill(anim.Fields(&c.orbit.Target)...)

	ease := anim.Power3InOut
	c.eng.To(Duration, ease, anim.Vec3(&cam.Position, camera)...)
	tw := c.eng.To(Duration, ease, anim.Vec3(&c.orbit.Target, target)...)
	tw.OnUpdate = c.orbit.Update
	tw.OnComplete = done
}
