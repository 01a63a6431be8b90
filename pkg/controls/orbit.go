// Package controls implements orbit camera controls with spring-damped
// user input.
package controls

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/render"
)

const polarEpsilon = 1e-6

// Axis carries an input velocity that decays to zero through a critically
// damped spring.
type Axis struct {
	Velocity float64

	spring harmonica.Spring
	accel  float64
}

// NewAxis creates an axis decaying at the given frame rate.
func NewAxis(fps int) Axis {
	// frequency 4, damping 1: quick stop without overshoot
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0)}
}

// Step returns the velocity to apply this frame and decays it.
func (a *Axis) Step() float64 {
	v := a.Velocity
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, 0)
	return v
}

// Stop zeroes the axis.
func (a *Axis) Stop() {
	a.Velocity, a.accel = 0, 0
}

// Orbit keeps a camera on a sphere around Target. Position and Target may
// be changed directly; Update re-derives the orbit from them.
type Orbit struct {
	Camera  *render.Camera
	Target  math3d.Vec3
	Enabled bool

	MinPolar, MaxPolar     float64
	MinAzimuth, MaxAzimuth float64
	MinDistance            float64
	MaxDistance            float64

	azimuth Axis
	polar   Axis
	dolly   Axis
}

// NewOrbit creates enabled controls with the room's limits: polar angle
// 0..π/2, azimuth 0..π, distance up to 10.
func NewOrbit(cam *render.Camera, target math3d.Vec3, fps int) *Orbit {
	o := &Orbit{
		Camera:      cam,
		Target:      target,
		Enabled:     true,
		MinPolar:    0,
		MaxPolar:    math.Pi / 2,
		MinAzimuth:  0,
		MaxAzimuth:  math.Pi,
		MinDistance: 0,
		MaxDistance: 10,
		azimuth:     NewAxis(fps),
		polar:       NewAxis(fps),
		dolly:       NewAxis(fps),
	}
	o.Update()
	return o
}

// Rotate adds angular velocity in radians per frame. Ignored while
// disabled.
func (o *Orbit) Rotate(dAzimuth, dPolar float64) {
	if !o.Enabled {
		return
	}
	o.azimuth.Velocity += dAzimuth
	o.polar.Velocity += dPolar
}

// Dolly adds radial velocity as a fraction of the distance per frame;
// positive moves away from the target. Ignored while disabled.
func (o *Orbit) Dolly(delta float64) {
	if !o.Enabled {
		return
	}
	o.dolly.Velocity += delta
}

// Spherical returns the camera offset from the target as radius, polar
// angle from +Y and azimuth about Y measured from +Z.
func (o *Orbit) Spherical() (radius, polar, azimuth float64) {
	off := o.Camera.Position.Sub(o.Target)
	radius = off.Len()
	if radius == 0 {
		return 0, 0, 0
	}
	polar = math.Acos(math.Max(-1, math.Min(1, off.Y/radius)))
	azimuth = math.Atan2(off.X, off.Z)
	return radius, polar, azimuth
}

// Update applies damped input and the limits, then points the camera at
// the target. Call it after changing Position or Target.
func (o *Orbit) Update() {
	if !o.Enabled {
		o.azimuth.Stop()
		o.polar.Stop()
		o.dolly.Stop()
	}

	radius, polar, azimuth := o.Spherical()
	if radius == 0 {
		return
	}
	azimuth += o.azimuth.Step()
	polar += o.polar.Step()
	radius *= 1 + o.dolly.Step()

	azimuth = clamp(azimuth, o.MinAzimuth, o.MaxAzimuth)
	polar = clamp(polar, math.Max(o.MinPolar, polarEpsilon), math.Min(o.MaxPolar, math.Pi-polarEpsilon))
	radius = clamp(radius, o.MinDistance, o.MaxDistance)

	sp := math.Sin(polar)
	o.Camera.Position = o.Target.Add(math3d.V3(
		radius*sp*math.Sin(azimuth),
		radius*math.Cos(polar),
		radius*sp*math.Cos(azimuth),
	))
	o.Camera.LookAt(o.Target)
}

// Moving reports whether input velocity is still decaying.
func (o *Orbit) Moving() bool {
	const rest = 1e-6
	return math.Abs(o.azimuth.Velocity) > rest ||
		math.Abs(o.polar.Velocity) > rest ||
		math.Abs(o.dolly.Velocity) > rest
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
