// Package smoke animates the steam rising from the coffee mug.
package smoke

import (
	"math"

	"github.com/taigrr/roomfolio/pkg/math3d"
	"github.com/taigrr/roomfolio/pkg/render"
	"github.com/taigrr/roomfolio/pkg/scene"
)

// Shader parameters of the steam plume.
const (
	TwistStrength = 10.0
	WindStrength  = 10.0
	TwistSpeed    = 0.005
	WindSpeed     = 0.01
	RiseSpeed     = 0.03

	// Elapsed time wraps to keep noise lookups precise.
	TimeWrap = 1000.0

	texWidth  = 32
	texHeight = 64

	planeWidth  = 1.5
	planeHeight = 3.0
	planeBottom = 1.5
	scale       = 0.05
)

// Position is where the plume stands on the desk.
var Position = math3d.V3(-0.13, 0.95, 0.5)

var tint = render.RGB(153, 76, 51)

// Smoke is a billboard whose texture is regenerated from noise each frame.
type Smoke struct {
	Node *scene.Node

	noise *Noise
	tex   *render.Texture
	time  float64
}

// New builds the plume. It stays hidden until loading completes.
func New(seed uint64) *Smoke {
	tex := render.NewTexture(texWidth, texHeight)
	tex.WrapU, tex.WrapV = render.WrapClamp, render.WrapClamp

	n := scene.NewQuad("coffee_smoke", planeWidth, planeHeight)
	n.Position = Position.Add(math3d.V3(0, (planeBottom+planeHeight/2)*scale, 0))
	n.Rotation = math3d.E(0, -math.Pi/2, 0)
	n.Scale = math3d.V3(scale, scale, scale)
	n.Visible = false
	n.Material = &scene.Material{Name: "coffee_smoke", Surface: render.Surface{
		Texture:     tex,
		Opacity:     1,
		Transparent: true,
		DoubleSided: true,
	}}

	return &Smoke{Node: n, noise: NewNoise(seed), tex: tex}
}

// Texture returns the generated plume texture.
func (s *Smoke) Texture() *render.Texture { return s.tex }

// Time returns the wrapped time of the last frame.
func (s *Smoke) Time() float64 { return s.time }

// Update shows the plume once progress reaches 100 and redraws it for the
// given elapsed seconds. Hidden plumes are not redrawn.
func (s *Smoke) Update(elapsed, progress float64) {
	s.Node.Visible = progress >= 100
	if !s.Node.Visible {
		return
	}
	s.time = math.Mod(elapsed, TimeWrap)
	s.paint()
}

func (s *Smoke) paint() {
	t := s.time
	wind := (s.noise.At(0.25, t*WindSpeed) - 0.5) * WindStrength

	for y := range texHeight {
		v := 1 - (float64(y)+0.5)/texHeight
		twist := math.Sin(s.noise.At(0.5, v*0.2-t*TwistSpeed)*TwistStrength) * 0.05 * v
		drift := wind * v * v * 0.01

		for x := range texWidth {
			u := (float64(x) + 0.5) / texWidth
			su := u + twist + drift

			d := s.noise.At(su*0.5, v*0.3-t*RiseSpeed)
			d = smoothstep(0.4, 1, d)
			d *= smoothstep(0, 0.1, u) * (1 - smoothstep(0.9, 1, u))
			d *= smoothstep(0, 0.1, v) * (1 - smoothstep(0.4, 1, v))

			c := tint
			c.A = uint8(math.Round(d * 255))
			s.tex.SetPixel(x, y, c)
		}
	}
}

func smoothstep(e0, e1, x float64) float64 {
	t := math.Max(0, math.Min(1, (x-e0)/(e1-e0)))
	return t * t * (3 - 2*t)
}
