// Package director holds the room's tween recipes: hover and press
// effects keyed by interaction category, and the one-shot intro reveal.
//
// Every recipe animates toward baselines captured at classification and
// does nothing for nodes missing them.
package director

import (
	"math"

	"go.uber.org/zap"

	"github.com/taigrr/roomfolio/pkg/anim"
	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/scene"
)

// LinkTilt is how far a hovered link rotates about Z.
const LinkTilt = math.Pi / 5

const (
	plushieGrow = 1.5
	markerGrow  = 1.175
	pressShrink = 0.85
)

// Director plays recipes on a tween engine.
type Director struct {
	eng *anim.Engine
	log *zap.Logger

	played bool
}

// New creates a director driving eng. A nil logger discards output.
func New(eng *anim.Engine, log *zap.Logger) *Director {
	if log == nil {
		log = zap.NewNop()
	}
	return &Director{eng: eng, log: log}
}

// Engine returns the tween engine recipes are played on.
func (d *Director) Engine() *anim.Engine {
	return d.eng
}

// LinkHover tilts a link about Z on hover and springs it back on leave.
// Only the Z rotation is taken over; a running intro drop keeps going.
func (d *Director) LinkHover(n *scene.Node, in bool) {
	if n == nil {
		return
	}
	rot, ok := n.Baseline.InitialRotation()
	if !ok {
		return
	}
	d.eng.Kill(&n.Rotation.Z)
	if in {
		d.eng.To(0.4, anim.Power4Out, anim.Prop(&n.Rotation.Z, rot.Z-LinkTilt))
		return
	}
	d.eng.To(0.3, anim.BounceOut, anim.Prop(&n.Rotation.Z, rot.Z))
}

// PlushieHover grows a plushie on hover. Leaving restores its scale and
// its X rotation.
func (d *Director) PlushieHover(n *scene.Node, in bool) {
	if n == nil {
		return
	}
	scale, ok := n.Baseline.InitialScale()
	if !ok {
		return
	}
	d.eng.Kill(append(anim.Fields(&n.Scale), &n.Rotation.X)...)
	if in {
		d.eng.To(0.5, anim.BounceOut, anim.Vec3(&n.Scale, scale.Scale(plushieGrow))...)
		return
	}
	d.eng.To(0.3, anim.BounceOut, anim.Vec3(&n.Scale, scale)...)
	if rot, ok := n.Baseline.InitialRotation(); ok {
		d.eng.To(0.3, anim.BounceOut, anim.Prop(&n.Rotation.X, rot.X))
	}
}

// MarkerHover enlarges a whiteboard marker slightly while hovered.
func (d *Director) MarkerHover(n *scene.Node, in bool) {
	if n == nil {
		return
	}
	scale, ok := n.Baseline.InitialScale()
	if !ok {
		return
	}
	d.eng.Kill(anim.Fields(&n.Scale)...)
	f := 1.0
	if in {
		f = markerGrow
	}
	d.eng.To(0.3, anim.Power2Out, anim.Vec3(&n.Scale, scale.Scale(f))...)
}

// Press squashes n briefly and lets it overshoot back to rest.
func (d *Director) Press(n *scene.Node) {
	if n == nil {
		return
	}
	scale, ok := n.Baseline.InitialScale()
	if !ok {
		return
	}
	d.eng.Kill(anim.Fields(&n.Scale)...)
	tl := anim.NewTimeline(anim.Defaults{}).
		Add(anim.To(0.1, anim.Power2Out, anim.Vec3(&n.Scale, scale.Scale(pressShrink))...)).
		Add(anim.To(0.4, anim.BackOut(1.7), anim.Vec3(&n.Scale, scale)...))
	d.eng.Play(tl)
}

// restScale is the scale every zero-scaled prop grows back to.
var restScale = math3d.One3()
